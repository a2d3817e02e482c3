package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/orris-inc/berth/internal/domain/port"
	apperrors "github.com/orris-inc/berth/internal/shared/errors"
	"github.com/orris-inc/berth/internal/shared/logger"
)

type DeletePortCommand struct {
	PortSID    string
	OperatorID uint
}

// DeletePortUseCase removes a port from the pool. Assigned ports cannot be
// deleted; the repository enforces this with a conditional delete so a
// concurrent allocation cannot slip past the check.
type DeletePortUseCase struct {
	portRepo port.Repository
	logger   logger.Interface
}

func NewDeletePortUseCase(portRepo port.Repository, logger logger.Interface) *DeletePortUseCase {
	return &DeletePortUseCase{
		portRepo: portRepo,
		logger:   logger,
	}
}

func (uc *DeletePortUseCase) Execute(ctx context.Context, cmd DeletePortCommand) error {
	p, err := uc.portRepo.GetBySID(ctx, cmd.PortSID)
	if err != nil {
		uc.logger.Errorw("failed to get port", "error", err, "port_sid", cmd.PortSID)
		return fmt.Errorf("failed to get port: %w", err)
	}
	if p == nil {
		return apperrors.NewNotFoundError("port not found")
	}

	if err := uc.portRepo.Delete(ctx, p.ID()); err != nil {
		switch {
		case errors.Is(err, port.ErrPortNotFound):
			return apperrors.NewNotFoundError("port not found")
		case errors.Is(err, port.ErrPortAssigned):
			uc.logger.Warnw("attempted to delete assigned port", "port_id", p.ID())
			return apperrors.NewConflictError("port is assigned to a subscription")
		}
		uc.logger.Errorw("failed to delete port", "error", err, "port_id", p.ID())
		return fmt.Errorf("failed to delete port: %w", err)
	}

	uc.logger.Infow("port deleted", "port_id", p.ID(), "port_sid", p.SID(), "operator_id", cmd.OperatorID)
	return nil
}
