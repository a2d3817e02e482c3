package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/orris-inc/berth/internal/domain/subscription"
	"github.com/orris-inc/berth/internal/shared/biztime"
	"github.com/orris-inc/berth/internal/shared/errors"
	"github.com/orris-inc/berth/internal/shared/logger"
)

// defaultTermDays is used when the caller does not specify a term.
const defaultTermDays = 30

type CreateSubscriptionCommand struct {
	CustomerID uint
	PlanID     uint
	OrderID    *uint // Internal order ID when created through checkout
	StartDate  time.Time
	TermDays   int // Defaults to defaultTermDays when zero
}

// CreateSubscriptionUseCase creates an active subscription. Port allocation
// is a separate step; the payment flow runs it right after creation.
type CreateSubscriptionUseCase struct {
	subscriptionRepo subscription.Repository
	logger           logger.Interface
}

func NewCreateSubscriptionUseCase(subscriptionRepo subscription.Repository, logger logger.Interface) *CreateSubscriptionUseCase {
	return &CreateSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

func (uc *CreateSubscriptionUseCase) Execute(ctx context.Context, cmd CreateSubscriptionCommand) (*subscription.Subscription, error) {
	start := cmd.StartDate
	if start.IsZero() {
		start = biztime.NowUTC()
	}
	termDays := cmd.TermDays
	if termDays <= 0 {
		termDays = defaultTermDays
	}
	end := start.AddDate(0, 0, termDays)

	sub, err := subscription.NewSubscription(cmd.CustomerID, cmd.PlanID, cmd.OrderID, start, end)
	if err != nil {
		uc.logger.Warnw("invalid subscription parameters", "error", err, "customer_id", cmd.CustomerID)
		return nil, errors.NewValidationError(err.Error())
	}

	if err := uc.subscriptionRepo.Create(ctx, sub); err != nil {
		uc.logger.Errorw("failed to create subscription", "error", err, "customer_id", cmd.CustomerID)
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	uc.logger.Infow("subscription created",
		"subscription_id", sub.ID(), "subscription_sid", sub.SID(), "customer_id", cmd.CustomerID)
	return sub, nil
}
