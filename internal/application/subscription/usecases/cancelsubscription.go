package usecases

import (
	"context"
	"fmt"

	allocusecases "github.com/orris-inc/berth/internal/application/allocation/usecases"
	"github.com/orris-inc/berth/internal/domain/subscription"
	vo "github.com/orris-inc/berth/internal/domain/subscription/valueobjects"
	"github.com/orris-inc/berth/internal/shared/errors"
	"github.com/orris-inc/berth/internal/shared/logger"
)

type CancelSubscriptionCommand struct {
	SubscriptionSID string
	OperatorID      *uint
}

// CancelSubscriptionUseCase cancels a subscription and returns its port to
// the pool. The release records its own audit entry.
type CancelSubscriptionUseCase struct {
	subscriptionRepo subscription.Repository
	releasePort      *allocusecases.ReleasePortUseCase
	logger           logger.Interface
}

func NewCancelSubscriptionUseCase(
	subscriptionRepo subscription.Repository,
	releasePort *allocusecases.ReleasePortUseCase,
	logger logger.Interface,
) *CancelSubscriptionUseCase {
	return &CancelSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		releasePort:      releasePort,
		logger:           logger,
	}
}

func (uc *CancelSubscriptionUseCase) Execute(ctx context.Context, cmd CancelSubscriptionCommand) (*subscription.Subscription, error) {
	sub, err := uc.subscriptionRepo.GetBySID(ctx, cmd.SubscriptionSID)
	if err != nil {
		uc.logger.Errorw("failed to get subscription", "error", err, "subscription_sid", cmd.SubscriptionSID)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	if sub == nil {
		return nil, errors.NewNotFoundError("subscription not found")
	}

	if sub.Status() == vo.StatusCancelled {
		return sub, nil
	}

	if sub.HasPort() {
		_, err := uc.releasePort.Execute(ctx, allocusecases.ReleasePortCommand{
			PortID:     *sub.PortID(),
			OperatorID: cmd.OperatorID,
			Reason:     "subscription cancelled",
		})
		if err != nil {
			uc.logger.Errorw("failed to release port on cancellation",
				"error", err, "subscription_id", sub.ID(), "port_id", *sub.PortID())
			return nil, fmt.Errorf("failed to release port: %w", err)
		}
		sub.DetachPort()
	}

	if err := sub.Cancel(); err != nil {
		return nil, errors.NewConflictError(err.Error())
	}
	if err := uc.subscriptionRepo.UpdateStatus(ctx, sub.ID(), sub.Status()); err != nil {
		uc.logger.Errorw("failed to update subscription status", "error", err, "subscription_id", sub.ID())
		return nil, fmt.Errorf("failed to update subscription status: %w", err)
	}

	uc.logger.Infow("subscription cancelled",
		"subscription_id", sub.ID(), "subscription_sid", sub.SID())
	return sub, nil
}
