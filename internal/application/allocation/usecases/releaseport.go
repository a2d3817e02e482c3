package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/berth/internal/domain/allocation"
	"github.com/orris-inc/berth/internal/domain/port"
	vo "github.com/orris-inc/berth/internal/domain/port/valueobjects"
	"github.com/orris-inc/berth/internal/shared/db"
	"github.com/orris-inc/berth/internal/shared/errors"
	"github.com/orris-inc/berth/internal/shared/logger"
)

type ReleasePortCommand struct {
	PortID     uint   // Internal port ID (used if PortSID is empty)
	PortSID    string // Stripe-style port SID (takes precedence over PortID)
	OperatorID *uint  // nil for automatic release (expiry sweep)
	Reason     string // Optional: recorded in the log entry metadata
}

type ReleasePortResult struct {
	Outcome Outcome
	Port    *port.Port
}

// ReleasePortUseCase clears a port's assignment and returns it to the
// available pool. Releasing a port that holds no assignment is a no-op
// success; only the clearing itself produces an audit entry.
type ReleasePortUseCase struct {
	portRepo         port.Repository
	subscriptionRepo subscriptionLinkUpdater
	logRepo          allocation.LogRepository
	txMgr            *db.TransactionManager
	logger           logger.Interface
}

// subscriptionLinkUpdater is the slice of the subscription repository the
// release path needs.
type subscriptionLinkUpdater interface {
	UpdatePortLink(ctx context.Context, subID uint, portID *uint) error
}

func NewReleasePortUseCase(
	portRepo port.Repository,
	subscriptionRepo subscriptionLinkUpdater,
	logRepo allocation.LogRepository,
	txMgr *db.TransactionManager,
	logger logger.Interface,
) *ReleasePortUseCase {
	return &ReleasePortUseCase{
		portRepo:         portRepo,
		subscriptionRepo: subscriptionRepo,
		logRepo:          logRepo,
		txMgr:            txMgr,
		logger:           logger,
	}
}

func (uc *ReleasePortUseCase) Execute(ctx context.Context, cmd ReleasePortCommand) (*ReleasePortResult, error) {
	p, err := uc.resolvePort(ctx, cmd)
	if err != nil {
		return nil, err
	}

	if !p.IsAssigned() {
		uc.logger.Infow("port has no assignment, nothing to release", "port_id", p.ID())
		return &ReleasePortResult{Outcome: OutcomeNotAssigned, Port: p}, nil
	}
	if p.Status() == vo.StatusDisabled {
		return nil, errors.NewConflictError("port is disabled")
	}

	var result *ReleasePortResult
	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		fresh, err := uc.portRepo.GetByID(txCtx, p.ID())
		if err != nil {
			uc.logger.Errorw("failed to re-read port", "error", err, "port_id", p.ID())
			return fmt.Errorf("failed to re-read port: %w", err)
		}
		if fresh == nil {
			return errors.NewNotFoundError("port not found")
		}

		a := fresh.Assignment()
		if a == nil {
			result = &ReleasePortResult{Outcome: OutcomeNotAssigned, Port: fresh}
			return nil
		}
		subID := a.SubscriptionID()
		custID := a.CustomerID()

		ok, err := uc.portRepo.ReleaseAtomically(txCtx, fresh.ID())
		if err != nil {
			uc.logger.Errorw("failed to release port", "error", err, "port_id", fresh.ID())
			return fmt.Errorf("failed to release port: %w", err)
		}
		if !ok {
			return errors.NewConflictError("port changed concurrently, please retry")
		}

		if err := uc.subscriptionRepo.UpdatePortLink(txCtx, subID, nil); err != nil {
			uc.logger.Errorw("failed to clear subscription link",
				"error", err, "subscription_id", subID)
			return fmt.Errorf("failed to clear subscription link: %w", err)
		}

		entry, err := allocation.NewReleaseEntry(fresh.ID(), &subID, &custID, cmd.OperatorID)
		if err != nil {
			return fmt.Errorf("failed to build allocation log entry: %w", err)
		}
		if cmd.Reason != "" {
			entry.SetMetadata(map[string]interface{}{"reason": cmd.Reason})
		}
		if err := uc.logRepo.Append(txCtx, entry); err != nil {
			uc.logger.Errorw("failed to append allocation log", "error", err, "port_id", fresh.ID())
			return fmt.Errorf("failed to append allocation log: %w", err)
		}

		updated, err := uc.portRepo.GetByID(txCtx, fresh.ID())
		if err != nil {
			return fmt.Errorf("failed to reload port: %w", err)
		}
		result = &ReleasePortResult{Outcome: OutcomeReleased, Port: updated}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Outcome == OutcomeReleased {
		uc.logger.Infow("port released", "port_id", result.Port.ID(), "port_sid", result.Port.SID())
	}
	return result, nil
}

func (uc *ReleasePortUseCase) resolvePort(ctx context.Context, cmd ReleasePortCommand) (*port.Port, error) {
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
