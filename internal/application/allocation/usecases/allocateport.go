package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/berth/internal/domain/allocation"
	"github.com/orris-inc/berth/internal/domain/port"
	"github.com/orris-inc/berth/internal/domain/subscription"
	"github.com/orris-inc/berth/internal/shared/biztime"
	"github.com/orris-inc/berth/internal/shared/db"
	"github.com/orris-inc/berth/internal/shared/errors"
	"github.com/orris-inc/berth/internal/shared/goroutine"
	"github.com/orris-inc/berth/internal/shared/logger"
)

// maxAssignAttempts bounds the candidate retry loop. Losing the conditional
// update this many times in a row means the pool is under heavy contention,
// and the caller should retry the whole operation.
const maxAssignAttempts = 3

type AllocatePortCommand struct {
	SubscriptionID  uint   // Internal subscription ID (used if SubscriptionSID is empty)
	SubscriptionSID string // Stripe-style subscription SID (takes precedence over SubscriptionID)
}

type AllocatePortResult struct {
	Outcome      Outcome
	Port         *port.Port // set when Outcome is OutcomeAssigned or OutcomeAlreadyAssigned
	Subscription *subscription.Subscription
}

// AllocatePortUseCase assigns a free port to a subscription. The whole
// operation runs in one transaction: the port's conditional assign, the
// subscription link update and the audit log entry commit or roll back
// together. Calling it again for a subscription that already holds a port is
// a no-op success.
type AllocatePortUseCase struct {
	portRepo         port.Repository
	subscriptionRepo subscription.Repository
	logRepo          allocation.LogRepository
	txMgr            *db.TransactionManager
	notifier         OperatorNotifier // Optional: alerts operators on pool exhaustion
	logger           logger.Interface
}

func NewAllocatePortUseCase(
	portRepo port.Repository,
	subscriptionRepo subscription.Repository,
	logRepo allocation.LogRepository,
	txMgr *db.TransactionManager,
	logger logger.Interface,
) *AllocatePortUseCase {
	return &AllocatePortUseCase{
		portRepo:         portRepo,
		subscriptionRepo: subscriptionRepo,
		logRepo:          logRepo,
		txMgr:            txMgr,
		logger:           logger,
	}
}

// SetOperatorNotifier sets the pool exhaustion notifier (optional).
func (uc *AllocatePortUseCase) SetOperatorNotifier(notifier OperatorNotifier) {
	uc.notifier = notifier
}

func (uc *AllocatePortUseCase) Execute(ctx context.Context, cmd AllocatePortCommand) (*AllocatePortResult, error) {
	sub, err := uc.resolveSubscription(ctx, cmd)
	if err != nil {
		return nil, err
	}

	// Idempotency: an allocated subscription stays with its port.
	if sub.HasPort() {
		existing, err := uc.portRepo.GetByID(ctx, *sub.PortID())
		if err != nil {
			uc.logger.Errorw("failed to get assigned port", "error", err, "port_id", *sub.PortID())
			return nil, fmt.Errorf("failed to get assigned port: %w", err)
		}
		uc.logger.Infow("subscription already has a port",
			"subscription_id", sub.ID(), "port_id", *sub.PortID())
		return &AllocatePortResult{Outcome: OutcomeAlreadyAssigned, Port: existing, Subscription: sub}, nil
	}

	if !sub.Status().CanReceivePort() {
		uc.logger.Warnw("subscription not eligible for allocation",
			"subscription_id", sub.ID(), "status", sub.Status())
		return nil, errors.NewConflictError("subscription is not eligible for port allocation")
	}

	var result *AllocatePortResult
	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		// Re-check inside the transaction: a concurrent webhook retry may
		// have allocated between the read above and here.
		fresh, err := uc.subscriptionRepo.GetByID(txCtx, sub.ID())
		if err != nil {
			uc.logger.Errorw("failed to re-read subscription", "error", err, "subscription_id", sub.ID())
			return fmt.Errorf("failed to re-read subscription: %w", err)
		}
		if fresh == nil {
			return errors.NewNotFoundError("subscription not found")
		}
		if fresh.HasPort() {
			existing, err := uc.portRepo.GetByID(txCtx, *fresh.PortID())
			if err != nil {
				return fmt.Errorf("failed to get assigned port: %w", err)
			}
			result = &AllocatePortResult{Outcome: OutcomeAlreadyAssigned, Port: existing, Subscription: fresh}
			return nil
		}

		assigned, err := uc.assignCandidate(txCtx, fresh)
		if err != nil {
			return err
		}
		if assigned == nil {
			// Pool exhausted: park the subscription and commit. The state
			// change must survive even though no port moved.
			if err := fresh.MarkPendingAllocation(); err != nil {
				return errors.NewConflictError(err.Error())
			}
			if err := uc.subscriptionRepo.UpdateStatus(txCtx, fresh.ID(), fresh.Status()); err != nil {
				uc.logger.Errorw("failed to mark subscription pending allocation",
					"error", err, "subscription_id", fresh.ID())
				return fmt.Errorf("failed to mark subscription pending allocation: %w", err)
			}
			result = &AllocatePortResult{Outcome: OutcomeNoAvailablePorts, Subscription: fresh}
			return nil
		}

		portID := assigned.ID()
		if err := uc.subscriptionRepo.UpdatePortLink(txCtx, fresh.ID(), &portID); err != nil {
			uc.logger.Errorw("failed to link port to subscription",
				"error", err, "subscription_id", fresh.ID(), "port_id", portID)
			return fmt.Errorf("failed to link port to subscription: %w", err)
		}
		if err := fresh.AttachPort(portID); err != nil {
			return fmt.Errorf("failed to attach port: %w", err)
		}
		if err := uc.subscriptionRepo.UpdateStatus(txCtx, fresh.ID(), fresh.Status()); err != nil {
			uc.logger.Errorw("failed to update subscription status",
				"error", err, "subscription_id", fresh.ID())
			return fmt.Errorf("failed to update subscription status: %w", err)
		}

		entry, err := allocation.NewAssignEntry(portID, fresh.ID(), fresh.CustomerID())
		if err != nil {
			return fmt.Errorf("failed to build allocation log entry: %w", err)
		}
		if err := uc.logRepo.Append(txCtx, entry); err != nil {
			uc.logger.Errorw("failed to append allocation log", "error", err, "port_id", portID)
			return fmt.Errorf("failed to append allocation log: %w", err)
		}

		result = &AllocatePortResult{Outcome: OutcomeAssigned, Port: assigned, Subscription: fresh}
		return nil
	})
	if err != nil {
		return nil, err
	}

	switch result.Outcome {
	case OutcomeAssigned:
		uc.logger.Infow("port assigned",
			"port_id", result.Port.ID(), "port_sid", result.Port.SID(),
			"subscription_id", result.Subscription.ID())
	case OutcomeNoAvailablePorts:
		uc.logger.Warnw("port pool exhausted, subscription parked",
			"subscription_id", result.Subscription.ID())
		uc.notifyPoolExhausted(result.Subscription)
	}

	return result, nil
}

// assignCandidate walks available ports in stable order and attempts the
// conditional assign on each. A false return from AssignAtomically means a
// concurrent allocator took the candidate first; the next query sees the
// committed claim and yields the next port. Returns nil when the pool is
// empty.
func (uc *AllocatePortUseCase) assignCandidate(ctx context.Context, sub *subscription.Subscription) (*port.Port, error) {
	now := biztime.NowUTC()
	for attempt := 0; attempt < maxAssignAttempts; attempt++ {
		candidates, err := uc.portRepo.FindAvailable(ctx, 1)
		if err != nil {
			uc.logger.Errorw("failed to find available ports", "error", err)
			return nil, fmt.Errorf("failed to find available ports: %w", err)
		}
		if len(candidates) == 0 {
			return nil, nil
		}

		candidate := candidates[0]
		ok, err := uc.portRepo.AssignAtomically(ctx, candidate.ID(), sub.ID(), sub.CustomerID(), now)
		if err != nil {
			uc.logger.Errorw("failed to assign port", "error", err, "port_id", candidate.ID())
			return nil, fmt.Errorf("failed to assign port: %w", err)
		}
		if ok {
			if err := candidate.Assign(sub.ID(), sub.CustomerID(), now); err != nil {
				return nil, fmt.Errorf("failed to apply assignment: %w", err)
			}
			return candidate, nil
		}

		uc.logger.Debugw("lost allocation race, trying next candidate",
			"port_id", candidate.ID(), "attempt", attempt+1)
	}

	return nil, errors.NewConflictError("allocation contention, please retry")
}

func (uc *AllocatePortUseCase) resolveSubscription(ctx context.Context, cmd AllocatePortCommand) (*subscription.Subscription, error) {
	var sub *subscription.Subscription
	var err error

	if cmd.SubscriptionSID != "" {
		sub, err = uc.subscriptionRepo.GetBySID(ctx, cmd.SubscriptionSID)
		if err != nil {
			uc.logger.Errorw("failed to get subscription by SID", "error", err, "subscription_sid", cmd.SubscriptionSID)
			return nil, fmt.Errorf("failed to get subscription: %w", err)
		}
	} else {
		sub, err = uc.subscriptionRepo.GetByID(ctx, cmd.SubscriptionID)
		if err != nil {
			uc.logger.Errorw("failed to get subscription", "error", err, "subscription_id", cmd.SubscriptionID)
			return nil, fmt.Errorf("failed to get subscription: %w", err)
		}
	}
	if sub == nil {
		return nil, errors.NewNotFoundError("subscription not found")
	}
	return sub, nil
}

// notifyPoolExhausted alerts operators without blocking the caller. The
// allocation already committed; a notification failure only gets logged.
func (uc *AllocatePortUseCase) notifyPoolExhausted(sub *subscription.Subscription) {
	if uc.notifier == nil {
		return
	}
	goroutine.SafeGo(uc.logger, "notify-pool-exhausted", func() {
		if err := uc.notifier.NotifyPoolExhausted(context.Background(), sub); err != nil {
			uc.logger.Errorw("failed to notify operators of pool exhaustion",
				"error", err, "subscription_id", sub.ID())
		}
	})
}
