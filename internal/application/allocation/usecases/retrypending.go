package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/berth/internal/domain/subscription"
	"github.com/orris-inc/berth/internal/shared/logger"
)

// pendingBatchSize caps how many parked subscriptions a single sweep tries
// to serve.
const pendingBatchSize = 50

type RetryPendingAllocationsResult struct {
	Attempted int
	Allocated int
}

// RetryPendingAllocationsUseCase retries allocation for subscriptions parked
// in pending_allocation, oldest first, so buyers who waited longest get the
// first ports that free up. The sweep stops early once the pool runs dry.
type RetryPendingAllocationsUseCase struct {
	subscriptionRepo subscription.Repository
	allocatePort     *AllocatePortUseCase
	logger           logger.Interface
}

func NewRetryPendingAllocationsUseCase(
	subscriptionRepo subscription.Repository,
	allocatePort *AllocatePortUseCase,
	logger logger.Interface,
) *RetryPendingAllocationsUseCase {
	return &RetryPendingAllocationsUseCase{
		subscriptionRepo: subscriptionRepo,
		allocatePort:     allocatePort,
		logger:           logger,
	}
}

func (uc *RetryPendingAllocationsUseCase) Execute(ctx context.Context) (*RetryPendingAllocationsResult, error) {
	pending, err := uc.subscriptionRepo.FindPendingAllocation(ctx, pendingBatchSize)
	if err != nil {
		uc.logger.Errorw("failed to find pending subscriptions", "error", err)
		return nil, fmt.Errorf("failed to find pending subscriptions: %w", err)
	}

	result := &RetryPendingAllocationsResult{}
	for _, sub := range pending {
		result.Attempted++

		res, err := uc.allocatePort.Execute(ctx, AllocatePortCommand{SubscriptionID: sub.ID()})
		if err != nil {
			uc.logger.Errorw("failed to retry allocation",
				"error", err, "subscription_id", sub.ID())
			continue
		}
		switch res.Outcome {
		case OutcomeAssigned, OutcomeAlreadyAssigned:
			result.Allocated++
		case OutcomeNoAvailablePorts:
			// Pool still dry; later subscriptions would hit the same wall.
			uc.logger.Infow("pool still exhausted, stopping pending sweep",
				"attempted", result.Attempted, "allocated", result.Allocated)
			return result, nil
		}
	}

	if result.Allocated > 0 {
		uc.logger.Infow("pending allocation sweep finished",
			"attempted", result.Attempted, "allocated", result.Allocated)
	}
	return result, nil
}
