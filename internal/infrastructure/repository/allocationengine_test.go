package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	allocusecases "github.com/orris-inc/berth/internal/application/allocation/usecases"
	"github.com/orris-inc/berth/internal/domain/allocation"
	"github.com/orris-inc/berth/internal/domain/port"
	portvo "github.com/orris-inc/berth/internal/domain/port/valueobjects"
	"github.com/orris-inc/berth/internal/domain/subscription"
	subvo "github.com/orris-inc/berth/internal/domain/subscription/valueobjects"
	"github.com/orris-inc/berth/internal/shared/db"
	"github.com/orris-inc/berth/internal/shared/logger"
)

// engineFixture wires the real repositories and the allocation use cases on a
// shared in-memory database, the same way the HTTP router does in production.
type engineFixture struct {
	gormDB   *gorm.DB
	portRepo port.Repository
	subRepo  subscription.Repository
	logRepo  allocation.LogRepository

	allocate *allocusecases.AllocatePortUseCase
	release  *allocusecases.ReleasePortUseCase
	reassign *allocusecases.ReassignPortUseCase
	retry    *allocusecases.RetryPendingAllocationsUseCase
	expire   *allocusecases.ExpireSubscriptionsUseCase
}

func setupEngine(t *testing.T) *engineFixture {
	t.Helper()

	gormDB := setupTestDB(t)
	log := logger.NewLogger()
	txMgr := db.NewTransactionManager(gormDB)

	portRepo := NewPortRepository(gormDB, log)
	subRepo := NewSubscriptionRepository(gormDB, log)
	logRepo := NewAllocationLogRepository(gormDB, log)

	allocate := allocusecases.NewAllocatePortUseCase(portRepo, subRepo, logRepo, txMgr, log)
	release := allocusecases.NewReleasePortUseCase(portRepo, subRepo, logRepo, txMgr, log)

	return &engineFixture{
		gormDB:   gormDB,
		portRepo: portRepo,
		subRepo:  subRepo,
		logRepo:  logRepo,
		allocate: allocate,
		release:  release,
		reassign: allocusecases.NewReassignPortUseCase(portRepo, subRepo, logRepo, txMgr, log),
		retry:    allocusecases.NewRetryPendingAllocationsUseCase(subRepo, allocate, log),
		expire:   allocusecases.NewExpireSubscriptionsUseCase(subRepo, release, log),
	}
}

func (f *engineFixture) createSubscription(t *testing.T, customerID uint) *subscription.Subscription {
	t.Helper()
	start := time.Now().UTC()
	sub, err := subscription.NewSubscription(customerID, 1, nil, start, start.AddDate(0, 0, 30))
	require.NoError(t, err)
	require.NoError(t, f.subRepo.Create(context.Background(), sub))
	return sub
}

func (f *engineFixture) createExpiredSubscription(t *testing.T, customerID uint) *subscription.Subscription {
	t.Helper()
	start := time.Now().UTC().AddDate(0, 0, -60)
	sub, err := subscription.NewSubscription(customerID, 1, nil, start, start.AddDate(0, 0, 30))
	require.NoError(t, err)
	require.NoError(t, f.subRepo.Create(context.Background(), sub))
	return sub
}

func (f *engineFixture) portLogs(t *testing.T, portID uint) []*allocation.LogEntry {
	t.Helper()
	entries, err := f.logRepo.ListByPort(context.Background(), portID)
	require.NoError(t, err)
	return entries
}

func TestAllocationEngine_Assign(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	p := createTestPort(t, f.portRepo, "https://node-a.example.com", "node-a")
	sub := f.createSubscription(t, 100)

	result, err := f.allocate.Execute(ctx, allocusecases.AllocatePortCommand{SubscriptionID: sub.ID()})
	require.NoError(t, err)
	assert.Equal(t, allocusecases.OutcomeAssigned, result.Outcome)
	require.NotNil(t, result.Port)
	assert.Equal(t, p.ID(), result.Port.ID())

	t.Run("both sides of the link are set", func(t *testing.T) {
		gotPort, err := f.portRepo.GetByID(ctx, p.ID())
		require.NoError(t, err)
		assert.Equal(t, portvo.StatusAssigned, gotPort.Status())
		require.NotNil(t, gotPort.Assignment())
		assert.Equal(t, sub.ID(), gotPort.Assignment().SubscriptionID())

		gotSub, err := f.subRepo.GetByID(ctx, sub.ID())
		require.NoError(t, err)
		require.NotNil(t, gotSub.PortID())
		assert.Equal(t, p.ID(), *gotSub.PortID())
		assert.Equal(t, subvo.StatusActive, gotSub.Status())
	})

	t.Run("exactly one automatic assign entry", func(t *testing.T) {
		entries := f.portLogs(t, p.ID())
		require.Len(t, entries, 1)
		assert.Equal(t, allocation.ActionAssign, entries[0].Action())
		assert.True(t, entries[0].IsAutomatic())
		require.NotNil(t, entries[0].SubscriptionID())
		assert.Equal(t, sub.ID(), *entries[0].SubscriptionID())
	})

	t.Run("second allocate is a no-op", func(t *testing.T) {
		again, err := f.allocate.Execute(ctx, allocusecases.AllocatePortCommand{SubscriptionID: sub.ID()})
		require.NoError(t, err)
		assert.Equal(t, allocusecases.OutcomeAlreadyAssigned, again.Outcome)
		assert.Equal(t, p.ID(), again.Port.ID())

		assert.Len(t, f.portLogs(t, p.ID()), 1)
	})
}

func TestAllocationEngine_PoolExhausted(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	sub := f.createSubscription(t, 100)

	result, err := f.allocate.Execute(ctx, allocusecases.AllocatePortCommand{SubscriptionID: sub.ID()})
	require.NoError(t, err)
	assert.Equal(t, allocusecases.OutcomeNoAvailablePorts, result.Outcome)
	assert.Nil(t, result.Port)

	gotSub, err := f.subRepo.GetByID(ctx, sub.ID())
	require.NoError(t, err)
	assert.Equal(t, subvo.StatusPendingAllocation, gotSub.Status())
	assert.Nil(t, gotSub.PortID())
}

func TestAllocationEngine_LastPortRace(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	p := createTestPort(t, f.portRepo, "https://node-race.example.com", "node-race")
	sub1 := f.createSubscription(t, 100)
	sub2 := f.createSubscription(t, 200)

	results := make([]*allocusecases.AllocatePortResult, 2)
	errs := make([]error, 2)

	var wg sync.WaitGroup
	for i, sub := range []*subscription.Subscription{sub1, sub2} {
		wg.Add(1)
		go func(i int, subID uint) {
			defer wg.Done()
			results[i], errs[i] = f.allocate.Execute(ctx, allocusecases.AllocatePortCommand{SubscriptionID: subID})
		}(i, sub.ID())
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	outcomes := map[allocusecases.Outcome]int{}
	for _, r := range results {
		outcomes[r.Outcome]++
	}
	assert.Equal(t, 1, outcomes[allocusecases.OutcomeAssigned], "exactly one allocator wins the last port")
	assert.Equal(t, 1, outcomes[allocusecases.OutcomeNoAvailablePorts], "the loser is parked")

	// The port serves exactly one subscription and carries one assign entry.
	gotPort, err := f.portRepo.GetByID(ctx, p.ID())
	require.NoError(t, err)
	assert.Equal(t, portvo.StatusAssigned, gotPort.Status())
	assert.Len(t, f.portLogs(t, p.ID()), 1)
}

func TestAllocationEngine_Release(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	p := createTestPort(t, f.portRepo, "https://node-rel.example.com", "node-rel")
	sub := f.createSubscription(t, 100)

	_, err := f.allocate.Execute(ctx, allocusecases.AllocatePortCommand{SubscriptionID: sub.ID()})
	require.NoError(t, err)

	operatorID := uint(7)
	result, err := f.release.Execute(ctx, allocusecases.ReleasePortCommand{
		PortID:     p.ID(),
		OperatorID: &operatorID,
		Reason:     "customer moved",
	})
	require.NoError(t, err)
	assert.Equal(t, allocusecases.OutcomeReleased, result.Outcome)
	assert.Equal(t, portvo.StatusAvailable, result.Port.Status())

	t.Run("subscription link cleared", func(t *testing.T) {
		gotSub, err := f.subRepo.GetByID(ctx, sub.ID())
		require.NoError(t, err)
		assert.Nil(t, gotSub.PortID())
	})

	t.Run("release entry records operator and reason", func(t *testing.T) {
		entries := f.portLogs(t, p.ID())
		require.Len(t, entries, 2)
		last := entries[1]
		assert.Equal(t, allocation.ActionRelease, last.Action())
		require.NotNil(t, last.PerformedBy())
		assert.Equal(t, operatorID, *last.PerformedBy())
		assert.Equal(t, "customer moved", last.Metadata()["reason"])
	})

	t.Run("releasing again is a no-op with no audit entry", func(t *testing.T) {
		again, err := f.release.Execute(ctx, allocusecases.ReleasePortCommand{PortID: p.ID()})
		require.NoError(t, err)
		assert.Equal(t, allocusecases.OutcomeNotAssigned, again.Outcome)
		assert.Len(t, f.portLogs(t, p.ID()), 2)
	})
}

func TestAllocationEngine_Reassign(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	p := createTestPort(t, f.portRepo, "https://node-re.example.com", "node-re")
	sub1 := f.createSubscription(t, 100)
	sub2 := f.createSubscription(t, 200)

	_, err := f.allocate.Execute(ctx, allocusecases.AllocatePortCommand{SubscriptionID: sub1.ID()})
	require.NoError(t, err)

	result, err := f.reassign.Execute(ctx, allocusecases.ReassignPortCommand{
		PortID:            p.ID(),
		NewSubscriptionID: sub2.ID(),
		OperatorID:        7,
	})
	require.NoError(t, err)
	assert.Equal(t, allocusecases.OutcomeReassigned, result.Outcome)

	t.Run("port moved to the new subscription", func(t *testing.T) {
		gotPort, err := f.portRepo.GetByID(ctx, p.ID())
		require.NoError(t, err)
		require.NotNil(t, gotPort.Assignment())
		assert.Equal(t, sub2.ID(), gotPort.Assignment().SubscriptionID())

		oldSub, err := f.subRepo.GetByID(ctx, sub1.ID())
		require.NoError(t, err)
		assert.Nil(t, oldSub.PortID())

		newSub, err := f.subRepo.GetByID(ctx, sub2.ID())
		require.NoError(t, err)
		require.NotNil(t, newSub.PortID())
		assert.Equal(t, p.ID(), *newSub.PortID())
	})

	t.Run("reassign entry records the previous holder", func(t *testing.T) {
		entries := f.portLogs(t, p.ID())
		require.Len(t, entries, 2)
		last := entries[1]
		assert.Equal(t, allocation.ActionReassign, last.Action())
		assert.False(t, last.IsAutomatic())
		assert.EqualValues(t, sub1.ID(), last.Metadata()["previous_subscription_id"])
	})

	t.Run("reassigning onto an occupied subscription aborts", func(t *testing.T) {
		p2 := createTestPort(t, f.portRepo, "https://node-re2.example.com", "node-re2")
		sub3 := f.createSubscription(t, 300)
		_, err := f.allocate.Execute(ctx, allocusecases.AllocatePortCommand{SubscriptionID: sub3.ID()})
		require.NoError(t, err)

		_, err = f.reassign.Execute(ctx, allocusecases.ReassignPortCommand{
			PortID:            p.ID(),
			NewSubscriptionID: sub3.ID(),
			OperatorID:        7,
		})
		require.Error(t, err)

		// Nothing moved.
		gotPort, err := f.portRepo.GetByID(ctx, p.ID())
		require.NoError(t, err)
		assert.Equal(t, sub2.ID(), gotPort.Assignment().SubscriptionID())
		gotP2, err := f.portRepo.GetByID(ctx, p2.ID())
		require.NoError(t, err)
		assert.Equal(t, sub3.ID(), gotP2.Assignment().SubscriptionID())
	})
}

func TestAllocationEngine_RetryPending(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	sub := f.createSubscription(t, 100)

	// Park the subscription against an empty pool.
	result, err := f.allocate.Execute(ctx, allocusecases.AllocatePortCommand{SubscriptionID: sub.ID()})
	require.NoError(t, err)
	require.Equal(t, allocusecases.OutcomeNoAvailablePorts, result.Outcome)

	// Restock and sweep.
	p := createTestPort(t, f.portRepo, "https://node-restock.example.com", "node-restock")

	sweep, err := f.retry.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sweep.Attempted)
	assert.Equal(t, 1, sweep.Allocated)

	gotSub, err := f.subRepo.GetByID(ctx, sub.ID())
	require.NoError(t, err)
	assert.Equal(t, subvo.StatusActive, gotSub.Status())
	require.NotNil(t, gotSub.PortID())
	assert.Equal(t, p.ID(), *gotSub.PortID())
}

func TestAllocationEngine_ExpireSweep(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	p := createTestPort(t, f.portRepo, "https://node-exp.example.com", "node-exp")
	sub := f.createExpiredSubscription(t, 100)

	_, err := f.allocate.Execute(ctx, allocusecases.AllocatePortCommand{SubscriptionID: sub.ID()})
	require.NoError(t, err)

	result, err := f.expire.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Expired)
	assert.Equal(t, 1, result.PortsReleased)

	t.Run("subscription expired and port back in the pool", func(t *testing.T) {
		gotSub, err := f.subRepo.GetByID(ctx, sub.ID())
		require.NoError(t, err)
		assert.Equal(t, subvo.StatusExpired, gotSub.Status())
		assert.Nil(t, gotSub.PortID())

		gotPort, err := f.portRepo.GetByID(ctx, p.ID())
		require.NoError(t, err)
		assert.Equal(t, portvo.StatusAvailable, gotPort.Status())
	})

	t.Run("automatic release entry with reason", func(t *testing.T) {
		entries := f.portLogs(t, p.ID())
		require.Len(t, entries, 2)
		last := entries[1]
		assert.Equal(t, allocation.ActionRelease, last.Action())
		assert.True(t, last.IsAutomatic())
		assert.Equal(t, "subscription expired", last.Metadata()["reason"])
	})
}

// TestAllocationEngine_AuditReplay drives a port through its whole lifecycle
// and checks that replaying the log reconstructs the final assignment state.
func TestAllocationEngine_AuditReplay(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	p := createTestPort(t, f.portRepo, "https://node-audit.example.com", "node-audit")
	sub1 := f.createSubscription(t, 100)
	sub2 := f.createSubscription(t, 200)

	_, err := f.allocate.Execute(ctx, allocusecases.AllocatePortCommand{SubscriptionID: sub1.ID()})
	require.NoError(t, err)
	_, err = f.release.Execute(ctx, allocusecases.ReleasePortCommand{PortID: p.ID()})
	require.NoError(t, err)
	_, err = f.allocate.Execute(ctx, allocusecases.AllocatePortCommand{SubscriptionID: sub2.ID()})
	require.NoError(t, err)

	entries := f.portLogs(t, p.ID())
	require.Len(t, entries, 3)

	// Replay: the last entry decides who holds the port.
	var holder *uint
	for _, e := range entries {
		switch e.Action() {
		case allocation.ActionAssign, allocation.ActionReassign:
			holder = e.SubscriptionID()
		case allocation.ActionRelease:
			holder = nil
		}
	}

	gotPort, err := f.portRepo.GetByID(ctx, p.ID())
	require.NoError(t, err)
	require.NotNil(t, holder)
	assert.Equal(t, sub2.ID(), *holder)
	require.NotNil(t, gotPort.Assignment())
	assert.Equal(t, *holder, gotPort.Assignment().SubscriptionID())
}
