package scheduler

import (
	"context"

	allocUsecases "github.com/orris-inc/berth/internal/application/allocation/usecases"
)

// RetryPendingJob adapts RetryPendingAllocationsUseCase to the BatchJob interface.
type RetryPendingJob struct {
	uc *allocUsecases.RetryPendingAllocationsUseCase
}

func NewRetryPendingJob(uc *allocUsecases.RetryPendingAllocationsUseCase) *RetryPendingJob {
	return &RetryPendingJob{uc: uc}
}

func (j *RetryPendingJob) Execute(ctx context.Context) (int, error) {
	result, err := j.uc.Execute(ctx)
	if err != nil {
		return 0, err
	}
	return result.Allocated, nil
}

// ExpireSubscriptionsJob adapts ExpireSubscriptionsUseCase to the BatchJob interface.
type ExpireSubscriptionsJob struct {
	uc *allocUsecases.ExpireSubscriptionsUseCase
}

func NewExpireSubscriptionsJob(uc *allocUsecases.ExpireSubscriptionsUseCase) *ExpireSubscriptionsJob {
	return &ExpireSubscriptionsJob{uc: uc}
}

func (j *ExpireSubscriptionsJob) Execute(ctx context.Context) (int, error) {
	result, err := j.uc.Execute(ctx)
	if err != nil {
		return 0, err
	}
	return result.Expired, nil
}
