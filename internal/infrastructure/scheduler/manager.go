// Package scheduler provides unified scheduler management using gocron v2.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/orris-inc/berth/internal/shared/biztime"
	"github.com/orris-inc/berth/internal/shared/logger"
)

// BatchJob defines the interface for a scheduled batch processing job.
// Each Execute call processes a batch and returns the number of items processed.
type BatchJob interface {
	Execute(ctx context.Context) (int, error)
}

// Manager manages all scheduled maintenance jobs using gocron v2.
type Manager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

// NewManager creates a new scheduler Manager instance.
func NewManager(log logger.Interface) (*Manager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(time.UTC),
	)
	if err != nil {
		return nil, err
	}

	return &Manager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// RegisterAllocationJobs registers allocation maintenance jobs:
// - Retry pending allocations when restock makes ports available again
func (m *Manager) RegisterAllocationJobs(retryPendingJob BatchJob, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}

	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			m.processPendingAllocations(ctx, retryPendingJob)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("allocation", "retry-pending"),
		gocron.WithName("allocation-retry-pending"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered allocation jobs", "interval", interval)
	return nil
}

func (m *Manager) processPendingAllocations(ctx context.Context, retryPendingJob BatchJob) {
	m.logger.Debugw("processing pending allocations task started")

	startTime := biztime.NowUTC()

	allocatedCount, err := retryPendingJob.Execute(ctx)
	if err != nil {
		m.logger.Errorw("failed to process pending allocations",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if allocatedCount > 0 {
		m.logger.Infow("pending allocations processed",
			"count", allocatedCount,
			"duration", time.Since(startTime),
		)
	} else {
		m.logger.Debugw("no pending allocations to process",
			"duration", time.Since(startTime),
		)
	}
}

// RegisterSubscriptionJobs registers subscription maintenance jobs:
// - Expire subscriptions past their end date and return their ports to the pool
func (m *Manager) RegisterSubscriptionJobs(expireSubscriptionsJob BatchJob) error {
	_, err := m.scheduler.NewJob(
		gocron.DurationJob(time.Hour),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()
			m.processExpiredSubscriptions(ctx, expireSubscriptionsJob)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("subscription", "expire"),
		gocron.WithName("subscription-expire"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered subscription jobs", "interval", "1h")
	return nil
}

func (m *Manager) processExpiredSubscriptions(ctx context.Context, expireSubscriptionsJob BatchJob) {
	m.logger.Debugw("processing expired subscriptions task started")

	startTime := biztime.NowUTC()

	expiredCount, err := expireSubscriptionsJob.Execute(ctx)
	if err != nil {
		m.logger.Errorw("failed to process expired subscriptions",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if expiredCount > 0 {
		m.logger.Infow("expired subscriptions processed",
			"count", expiredCount,
			"duration", time.Since(startTime),
		)
	} else {
		m.logger.Debugw("no expired subscriptions to process",
			"duration", time.Since(startTime),
		)
	}
}

// Start starts the scheduler and all registered jobs.
func (m *Manager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop gracefully stops the scheduler.
// It waits for all running jobs to complete before returning.
func (m *Manager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

// IsStarted returns whether the scheduler is running.
func (m *Manager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}
