package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/berth/internal/domain/allocation"
	"github.com/orris-inc/berth/internal/domain/port"
	vo "github.com/orris-inc/berth/internal/domain/port/valueobjects"
	"github.com/orris-inc/berth/internal/domain/subscription"
	"github.com/orris-inc/berth/internal/shared/biztime"
	"github.com/orris-inc/berth/internal/shared/db"
	"github.com/orris-inc/berth/internal/shared/errors"
	"github.com/orris-inc/berth/internal/shared/logger"
)

type ReassignPortCommand struct {
	PortID             uint   // Internal port ID (used if PortSID is empty)
	PortSID            string // Stripe-style port SID (takes precedence over PortID)
	NewSubscriptionID  uint
	NewSubscriptionSID string
	OperatorID         uint // Required: reassignment is always an operator action
}

type ReassignPortResult struct {
	Outcome      Outcome
	Port         *port.Port
	Subscription *subscription.Subscription
}

// ReassignPortUseCase moves a port to a different subscription in one
// transaction. When the target subscription already holds a port the
// operation aborts before touching anything; the operator must release that
// port first.
type ReassignPortUseCase struct {
	portRepo         port.Repository
	subscriptionRepo subscription.Repository
	logRepo          allocation.LogRepository
	txMgr            *db.TransactionManager
	logger           logger.Interface
}

func NewReassignPortUseCase(
	portRepo port.Repository,
	subscriptionRepo subscription.Repository,
	logRepo allocation.LogRepository,
	txMgr *db.TransactionManager,
	logger logger.Interface,
) *ReassignPortUseCase {
	return &ReassignPortUseCase{
		portRepo:         portRepo,
		subscriptionRepo: subscriptionRepo,
		logRepo:          logRepo,
		txMgr:            txMgr,
		logger:           logger,
	}
}

func (uc *ReassignPortUseCase) Execute(ctx context.Context, cmd ReassignPortCommand) (*ReassignPortResult, error) {
	if cmd.OperatorID == 0 {
		return nil, errors.NewValidationError("operator ID is required for reassignment")
	}

	p, err := uc.resolvePort(ctx, cmd)
	if err != nil {
		return nil, err
	}

	newSub, err := uc.resolveSubscription(ctx, cmd)
	if err != nil {
		return nil, err
	}

	// Idempotency: reassigning a port to the subscription it already serves
	// is a no-op success.
	if a := p.Assignment(); a != nil && a.SubscriptionID() == newSub.ID() {
		uc.logger.Infow("port already assigned to target subscription",
			"port_id", p.ID(), "subscription_id", newSub.ID())
		return &ReassignPortResult{Outcome: OutcomeAlreadyAssigned, Port: p, Subscription: newSub}, nil
	}

	// Abort before any write: the target must not hold another port.
	if newSub.HasPort() {
		uc.logger.Warnw("target subscription already has a port",
			"subscription_id", newSub.ID(), "port_id", *newSub.PortID())
		return nil, errors.NewConflictError("target subscription already has a port assigned")
	}
	if !newSub.Status().CanReceivePort() {
		return nil, errors.NewConflictError("target subscription is not eligible for port allocation")
	}
	if p.Status() == vo.StatusDisabled {
		return nil, errors.NewConflictError("port is disabled")
	}

	var result *ReassignPortResult
	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		fresh, err := uc.portRepo.GetByID(txCtx, p.ID())
		if err != nil {
			uc.logger.Errorw("failed to re-read port", "error", err, "port_id", p.ID())
			return fmt.Errorf("failed to re-read port: %w", err)
		}
		if fresh == nil {
			return errors.NewNotFoundError("port not found")
		}

		var previousSubID *uint
		if a := fresh.Assignment(); a != nil {
			subID := a.SubscriptionID()
			previousSubID = &subID

			ok, err := uc.portRepo.ReleaseAtomically(txCtx, fresh.ID())
			if err != nil {
				uc.logger.Errorw("failed to release port for reassignment", "error", err, "port_id", fresh.ID())
				return fmt.Errorf("failed to release port: %w", err)
			}
			if !ok {
				return errors.NewConflictError("port changed concurrently, please retry")
			}
			if err := uc.subscriptionRepo.UpdatePortLink(txCtx, subID, nil); err != nil {
				uc.logger.Errorw("failed to clear previous subscription link",
					"error", err, "subscription_id", subID)
				return fmt.Errorf("failed to clear previous subscription link: %w", err)
			}
		}

		now := biztime.NowUTC()
		ok, err := uc.portRepo.AssignAtomically(txCtx, fresh.ID(), newSub.ID(), newSub.CustomerID(), now)
		if err != nil {
			uc.logger.Errorw("failed to assign port", "error", err, "port_id", fresh.ID())
			return fmt.Errorf("failed to assign port: %w", err)
		}
		if !ok {
			return errors.NewConflictError("port changed concurrently, please retry")
		}

		portID := fresh.ID()
		if err := uc.subscriptionRepo.UpdatePortLink(txCtx, newSub.ID(), &portID); err != nil {
			uc.logger.Errorw("failed to link port to subscription",
				"error", err, "subscription_id", newSub.ID(), "port_id", portID)
			return fmt.Errorf("failed to link port to subscription: %w", err)
		}
		if err := newSub.AttachPort(portID); err != nil {
			return fmt.Errorf("failed to attach port: %w", err)
		}
		if err := uc.subscriptionRepo.UpdateStatus(txCtx, newSub.ID(), newSub.Status()); err != nil {
			uc.logger.Errorw("failed to update subscription status",
				"error", err, "subscription_id", newSub.ID())
			return fmt.Errorf("failed to update subscription status: %w", err)
		}

		entry, err := allocation.NewReassignEntry(portID, newSub.ID(), newSub.CustomerID(), cmd.OperatorID)
		if err != nil {
			return fmt.Errorf("failed to build allocation log entry: %w", err)
		}
		if previousSubID != nil {
			entry.SetMetadata(map[string]interface{}{
				"previous_subscription_id": *previousSubID,
			})
		}
		if err := uc.logRepo.Append(txCtx, entry); err != nil {
			uc.logger.Errorw("failed to append allocation log", "error", err, "port_id", portID)
			return fmt.Errorf("failed to append allocation log: %w", err)
		}

		updated, err := uc.portRepo.GetByID(txCtx, portID)
		if err != nil {
			return fmt.Errorf("failed to reload port: %w", err)
		}
		result = &ReassignPortResult{Outcome: OutcomeReassigned, Port: updated, Subscription: newSub}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("port reassigned",
		"port_id", result.Port.ID(), "subscription_id", newSub.ID(), "operator_id", cmd.OperatorID)
	return result, nil
}

func (uc *ReassignPortUseCase) resolvePort(ctx context.Context, cmd ReassignPortCommand) (*port.Port, error) {
	var p *port.Port
	var err error

	if cmd.PortSID != "" {
		p, err = uc.portRepo.GetBySID(ctx, cmd.PortSID)
		if err != nil {
			uc.logger.Errorw("failed to get port by SID", "error", err, "port_sid", cmd.PortSID)
			return nil, fmt.Errorf("failed to get port: %w", err)
		}
	} else {
		p, err = uc.portRepo.GetByID(ctx, cmd.PortID)
		if err != nil {
			uc.logger.Errorw("failed to get port", "error", err, "port_id", cmd.PortID)
			return nil, fmt.Errorf("failed to get port: %w", err)
		}
	}
	if p == nil {
		return nil, errors.NewNotFoundError("port not found")
	}
	return p, nil
}

func (uc *ReassignPortUseCase) resolveSubscription(ctx context.Context, cmd ReassignPortCommand) (*subscription.Subscription, error) {
	var sub *subscription.Subscription
	var err error

	if cmd.NewSubscriptionSID != "" {
		sub, err = uc.subscriptionRepo.GetBySID(ctx, cmd.NewSubscriptionSID)
		if err != nil {
			uc.logger.Errorw("failed to get subscription by SID", "error", err, "subscription_sid", cmd.NewSubscriptionSID)
			return nil, fmt.Errorf("failed to get subscription: %w", err)
		}
	} else {
		sub, err = uc.subscriptionRepo.GetByID(ctx, cmd.NewSubscriptionID)
		if err != nil {
			uc.logger.Errorw("failed to get subscription", "error", err, "subscription_id", cmd.NewSubscriptionID)
			return nil, fmt.Errorf("failed to get subscription: %w", err)
		}
	}
	if sub == nil {
		return nil, errors.NewNotFoundError("subscription not found")
	}
	return sub, nil
}
