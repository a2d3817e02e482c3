package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/orris-inc/berth/internal/domain/port"
	vo "github.com/orris-inc/berth/internal/domain/port/valueobjects"
	apperrors "github.com/orris-inc/berth/internal/shared/errors"
	"github.com/orris-inc/berth/internal/shared/logger"
)

type UpdatePortCommand struct {
	PortSID     string
	Name        *string
	Region      *string
	InstanceURL *string
	Status      *string // reserved, disabled or available (enable)
	OperatorID  uint
}

// UpdatePortUseCase applies operator edits to a port. Status changes go
// through the domain transitions, so disabling an assigned port or enabling
// from assigned is rejected there.
type UpdatePortUseCase struct {
	portRepo port.Repository
	logger   logger.Interface
}

func NewUpdatePortUseCase(portRepo port.Repository, logger logger.Interface) *UpdatePortUseCase {
	return &UpdatePortUseCase{
		portRepo: portRepo,
		logger:   logger,
	}
}

func (uc *UpdatePortUseCase) Execute(ctx context.Context, cmd UpdatePortCommand) (*port.Port, error) {
	p, err := uc.portRepo.GetBySID(ctx, cmd.PortSID)
	if err != nil {
		uc.logger.Errorw("failed to get port", "error", err, "port_sid", cmd.PortSID)
		return nil, fmt.Errorf("failed to get port: %w", err)
	}
	if p == nil {
		return nil, apperrors.NewNotFoundError("port not found")
	}

	if cmd.InstanceURL != nil && *cmd.InstanceURL != p.InstanceURL() {
		exists, err := uc.portRepo.ExistsByInstanceURL(ctx, *cmd.InstanceURL)
		if err != nil {
			uc.logger.Errorw("failed to check instance URL", "error", err)
			return nil, fmt.Errorf("failed to check instance URL: %w", err)
		}
		if exists {
			return nil, apperrors.NewConflictError("instance URL already registered")
		}
		if err := p.UpdateInstanceURL(*cmd.InstanceURL); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	}

	if cmd.Name != nil {
		if err := p.UpdateName(*cmd.Name); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	}
	if cmd.Region != nil {
		p.UpdateRegion(*cmd.Region)
	}

	if cmd.Status != nil {
		if err := uc.applyStatus(p, vo.PortStatus(*cmd.Status)); err != nil {
			return nil, err
		}
	}

	if err := uc.portRepo.Update(ctx, p); err != nil {
		if errors.Is(err, port.ErrInstanceURLExists) {
			return nil, apperrors.NewConflictError("instance URL already registered")
		}
		uc.logger.Errorw("failed to update port", "error", err, "port_id", p.ID())
		return nil, fmt.Errorf("failed to update port: %w", err)
	}

	uc.logger.Infow("port updated", "port_id", p.ID(), "port_sid", p.SID(), "operator_id", cmd.OperatorID)
	return p, nil
}

func (uc *UpdatePortUseCase) applyStatus(p *port.Port, target vo.PortStatus) error {
	var err error
	switch target {
	case vo.StatusReserved:
		err = p.Reserve()
	case vo.StatusDisabled:
		err = p.Disable()
	case vo.StatusAvailable:
		err = p.Enable()
	default:
		return apperrors.NewValidationError("status must be one of: available, reserved, disabled")
	}
	if err != nil {
		return apperrors.NewConflictError(err.Error())
	}
	return nil
}
