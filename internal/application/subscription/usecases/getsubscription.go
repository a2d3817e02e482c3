package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/berth/internal/domain/port"
	"github.com/orris-inc/berth/internal/domain/subscription"
	"github.com/orris-inc/berth/internal/shared/errors"
	"github.com/orris-inc/berth/internal/shared/logger"
)

type GetSubscriptionResult struct {
	Subscription *subscription.Subscription
	Port         *port.Port // nil when no port is assigned
}

// GetSubscriptionUseCase retrieves a subscription and its assigned port, if any.
type GetSubscriptionUseCase struct {
	subscriptionRepo subscription.Repository
	portRepo         port.Repository
	logger           logger.Interface
}

func NewGetSubscriptionUseCase(
	subscriptionRepo subscription.Repository,
	portRepo port.Repository,
	logger logger.Interface,
) *GetSubscriptionUseCase {
	return &GetSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		portRepo:         portRepo,
		logger:           logger,
	}
}

func (uc *GetSubscriptionUseCase) Execute(ctx context.Context, sid string) (*GetSubscriptionResult, error) {
	sub, err := uc.subscriptionRepo.GetBySID(ctx, sid)
	if err != nil {
		uc.logger.Errorw("failed to get subscription", "error", err, "subscription_sid", sid)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	if sub == nil {
		return nil, errors.NewNotFoundError("subscription not found")
	}

	result := &GetSubscriptionResult{Subscription: sub}
	if sub.HasPort() {
		p, err := uc.portRepo.GetByID(ctx, *sub.PortID())
		if err != nil {
			uc.logger.Errorw("failed to get assigned port", "error", err, "port_id", *sub.PortID())
			return nil, fmt.Errorf("failed to get assigned port: %w", err)
		}
		result.Port = p
	}
	return result, nil
}
