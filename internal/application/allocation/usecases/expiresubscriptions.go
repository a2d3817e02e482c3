package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/berth/internal/domain/subscription"
	vo "github.com/orris-inc/berth/internal/domain/subscription/valueobjects"
	"github.com/orris-inc/berth/internal/shared/biztime"
	"github.com/orris-inc/berth/internal/shared/logger"
)

type ExpireSubscriptionsResult struct {
	Expired       int
	PortsReleased int
}

// ExpireSubscriptionsUseCase sweeps subscriptions whose end date has passed,
// releasing their ports back to the pool and marking them expired. Each
// subscription is handled independently so one failure does not block the
// rest of the sweep.
type ExpireSubscriptionsUseCase struct {
	subscriptionRepo subscription.Repository
	releasePort      *ReleasePortUseCase
	logger           logger.Interface
}

func NewExpireSubscriptionsUseCase(
	subscriptionRepo subscription.Repository,
	releasePort *ReleasePortUseCase,
	logger logger.Interface,
) *ExpireSubscriptionsUseCase {
	return &ExpireSubscriptionsUseCase{
		subscriptionRepo: subscriptionRepo,
		releasePort:      releasePort,
		logger:           logger,
	}
}

func (uc *ExpireSubscriptionsUseCase) Execute(ctx context.Context) (*ExpireSubscriptionsResult, error) {
	now := biztime.NowUTC()
	expired, err := uc.subscriptionRepo.FindExpired(ctx, now)
	if err != nil {
		uc.logger.Errorw("failed to find expired subscriptions", "error", err)
		return nil, fmt.Errorf("failed to find expired subscriptions: %w", err)
	}

	result := &ExpireSubscriptionsResult{}
	for _, sub := range expired {
		if sub.HasPort() {
			_, err := uc.releasePort.Execute(ctx, ReleasePortCommand{
				PortID: *sub.PortID(),
				Reason: "subscription expired",
			})
			if err != nil {
				uc.logger.Errorw("failed to release port of expired subscription",
					"error", err, "subscription_id", sub.ID(), "port_id", *sub.PortID())
				continue
			}
			result.PortsReleased++
		}

		if err := uc.subscriptionRepo.UpdateStatus(ctx, sub.ID(), vo.StatusExpired); err != nil {
			uc.logger.Errorw("failed to mark subscription expired",
				"error", err, "subscription_id", sub.ID())
			continue
		}
		result.Expired++
	}

	if result.Expired > 0 {
		uc.logger.Infow("expiry sweep finished",
			"expired", result.Expired, "ports_released", result.PortsReleased)
	}
	return result, nil
}
