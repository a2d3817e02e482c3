package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/berth/internal/domain/allocation"
	"github.com/orris-inc/berth/internal/domain/port"
	"github.com/orris-inc/berth/internal/domain/subscription"
	"github.com/orris-inc/berth/internal/shared/errors"
	"github.com/orris-inc/berth/internal/shared/logger"
)

type ListAllocationLogsCommand struct {
	PortSID         string
	SubscriptionSID string
	Action          string
	Page            int
	PageSize        int
}

type ListAllocationLogsResult struct {
	Entries []*allocation.LogEntry
	Total   int64
}

// ListAllocationLogsUseCase reads the allocation audit trail with optional
// filters. SID filters resolve to internal IDs before the query.
type ListAllocationLogsUseCase struct {
	logRepo          allocation.LogRepository
	portRepo         port.Repository
	subscriptionRepo subscription.Repository
	logger           logger.Interface
}

func NewListAllocationLogsUseCase(
	logRepo allocation.LogRepository,
	portRepo port.Repository,
	subscriptionRepo subscription.Repository,
	logger logger.Interface,
) *ListAllocationLogsUseCase {
	return &ListAllocationLogsUseCase{
		logRepo:          logRepo,
		portRepo:         portRepo,
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

func (uc *ListAllocationLogsUseCase) Execute(ctx context.Context, cmd ListAllocationLogsCommand) (*ListAllocationLogsResult, error) {
	filter := allocation.ListFilter{
		Page:     cmd.Page,
		PageSize: cmd.PageSize,
	}

	if cmd.PortSID != "" {
		p, err := uc.portRepo.GetBySID(ctx, cmd.PortSID)
		if err != nil {
			uc.logger.Errorw("failed to get port by SID", "error", err, "port_sid", cmd.PortSID)
			return nil, fmt.Errorf("failed to get port: %w", err)
		}
		if p == nil {
			return nil, errors.NewNotFoundError("port not found")
		}
		portID := p.ID()
		filter.PortID = &portID
	}

	if cmd.SubscriptionSID != "" {
		sub, err := uc.subscriptionRepo.GetBySID(ctx, cmd.SubscriptionSID)
		if err != nil {
			uc.logger.Errorw("failed to get subscription by SID", "error", err, "subscription_sid", cmd.SubscriptionSID)
			return nil, fmt.Errorf("failed to get subscription: %w", err)
		}
		if sub == nil {
			return nil, errors.NewNotFoundError("subscription not found")
		}
		subID := sub.ID()
		filter.SubscriptionID = &subID
	}

	if cmd.Action != "" {
		action := allocation.Action(cmd.Action)
		if !action.IsValid() {
			return nil, errors.NewValidationError("invalid action filter")
		}
		filter.Action = &action
	}

	entries, total, err := uc.logRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list allocation logs", "error", err)
		return nil, fmt.Errorf("failed to list allocation logs: %w", err)
	}

	return &ListAllocationLogsResult{Entries: entries, Total: total}, nil
}
