package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/berth/internal/domain/port"
	vo "github.com/orris-inc/berth/internal/domain/port/valueobjects"
	"github.com/orris-inc/berth/internal/shared/errors"
	"github.com/orris-inc/berth/internal/shared/logger"
)

type ListPortsCommand struct {
	Status   string
	Region   string
	Search   string
	Page     int
	PageSize int
}

type ListPortsResult struct {
	Ports []*port.Port
	Total int64
}

// ListPortsUseCase retrieves ports with optional status, region and search
// filters.
type ListPortsUseCase struct {
	portRepo port.Repository
	logger   logger.Interface
}

func NewListPortsUseCase(portRepo port.Repository, logger logger.Interface) *ListPortsUseCase {
	return &ListPortsUseCase{
		portRepo: portRepo,
		logger:   logger,
	}
}

func (uc *ListPortsUseCase) Execute(ctx context.Context, cmd ListPortsCommand) (*ListPortsResult, error) {
	filter := port.ListFilter{
		Search:   cmd.Search,
		Page:     cmd.Page,
		PageSize: cmd.PageSize,
	}

	if cmd.Status != "" {
		status := vo.PortStatus(cmd.Status)
		if !vo.ValidStatuses[status] {
			return nil, errors.NewValidationError("invalid status filter")
		}
		filter.Status = &status
	}
	if cmd.Region != "" {
		region := cmd.Region
		filter.Region = &region
	}

	ports, total, err := uc.portRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list ports", "error", err)
		return nil, fmt.Errorf("failed to list ports: %w", err)
	}

	return &ListPortsResult{Ports: ports, Total: total}, nil
}
