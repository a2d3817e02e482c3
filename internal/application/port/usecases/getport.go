package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/berth/internal/domain/port"
	"github.com/orris-inc/berth/internal/shared/errors"
	"github.com/orris-inc/berth/internal/shared/logger"
)

// GetPortUseCase retrieves a single port by SID.
type GetPortUseCase struct {
	portRepo port.Repository
	logger   logger.Interface
}

func NewGetPortUseCase(portRepo port.Repository, logger logger.Interface) *GetPortUseCase {
	return &GetPortUseCase{
		portRepo: portRepo,
		logger:   logger,
	}
}

func (uc *GetPortUseCase) Execute(ctx context.Context, sid string) (*port.Port, error) {
	p, err := uc.portRepo.GetBySID(ctx, sid)
	if err != nil {
		uc.logger.Errorw("failed to get port", "error", err, "port_sid", sid)
		return nil, fmt.Errorf("failed to get port: %w", err)
	}
	if p == nil {
		return nil, errors.NewNotFoundError("port not found")
	}
	return p, nil
}
