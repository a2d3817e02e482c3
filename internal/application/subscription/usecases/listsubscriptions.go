package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/berth/internal/domain/subscription"
	vo "github.com/orris-inc/berth/internal/domain/subscription/valueobjects"
	"github.com/orris-inc/berth/internal/shared/errors"
	"github.com/orris-inc/berth/internal/shared/logger"
)

type ListSubscriptionsCommand struct {
	CustomerID *uint
	PlanID     *uint
	Status     string
	Page       int
	PageSize   int
}

type ListSubscriptionsResult struct {
	Subscriptions []*subscription.Subscription
	Total         int64
}

// ListSubscriptionsUseCase retrieves subscriptions with optional filters.
type ListSubscriptionsUseCase struct {
	subscriptionRepo subscription.Repository
	logger           logger.Interface
}

func NewListSubscriptionsUseCase(subscriptionRepo subscription.Repository, logger logger.Interface) *ListSubscriptionsUseCase {
	return &ListSubscriptionsUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

func (uc *ListSubscriptionsUseCase) Execute(ctx context.Context, cmd ListSubscriptionsCommand) (*ListSubscriptionsResult, error) {
	filter := subscription.ListFilter{
		CustomerID: cmd.CustomerID,
		PlanID:     cmd.PlanID,
		Page:       cmd.Page,
		PageSize:   cmd.PageSize,
	}

	if cmd.Status != "" {
		status := vo.SubscriptionStatus(cmd.Status)
		if !vo.ValidStatuses[status] {
			return nil, errors.NewValidationError("invalid status filter")
		}
		filter.Status = &status
	}

	subs, total, err := uc.subscriptionRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list subscriptions", "error", err)
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	return &ListSubscriptionsResult{Subscriptions: subs, Total: total}, nil
}
