package usecases

import (
	"context"
	"fmt"

	allocusecases "github.com/orris-inc/berth/internal/application/allocation/usecases"
	subusecases "github.com/orris-inc/berth/internal/application/subscription/usecases"
	"github.com/orris-inc/berth/internal/domain/order"
	"github.com/orris-inc/berth/internal/domain/subscription"
	apperrors "github.com/orris-inc/berth/internal/shared/errors"
	"github.com/orris-inc/berth/internal/shared/logger"
)

type HandlePaymentSuccessCommand struct {
	OrderSID string
	TermDays int // Optional term override from the payment provider metadata
}

type HandlePaymentSuccessResult struct {
	Order        *order.Order
	Subscription *subscription.Subscription
	Outcome      allocusecases.Outcome
}

// HandlePaymentSuccessUseCase reacts to a payment provider callback: it marks
// the order paid, creates the subscription and runs port allocation. Payment
// providers redeliver callbacks, so the whole chain is idempotent; a replay
// lands on the existing subscription and its port.
type HandlePaymentSuccessUseCase struct {
	orderRepo          order.Repository
	subscriptionRepo   subscription.Repository
	createSubscription *subusecases.CreateSubscriptionUseCase
	allocatePort       *allocusecases.AllocatePortUseCase
	logger             logger.Interface
}

func NewHandlePaymentSuccessUseCase(
	orderRepo order.Repository,
	subscriptionRepo subscription.Repository,
	createSubscription *subusecases.CreateSubscriptionUseCase,
	allocatePort *allocusecases.AllocatePortUseCase,
	logger logger.Interface,
) *HandlePaymentSuccessUseCase {
	return &HandlePaymentSuccessUseCase{
		orderRepo:          orderRepo,
		subscriptionRepo:   subscriptionRepo,
		createSubscription: createSubscription,
		allocatePort:       allocatePort,
		logger:             logger,
	}
}

func (uc *HandlePaymentSuccessUseCase) Execute(ctx context.Context, cmd HandlePaymentSuccessCommand) (*HandlePaymentSuccessResult, error) {
	o, err := uc.orderRepo.GetBySID(ctx, cmd.OrderSID)
	if err != nil {
		uc.logger.Errorw("failed to get order", "error", err, "order_sid", cmd.OrderSID)
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if o == nil {
		return nil, apperrors.NewNotFoundError("order not found")
	}

	sub, err := uc.resolveSubscription(ctx, o, cmd.TermDays)
	if err != nil {
		return nil, err
	}

	// Allocation is idempotent: a callback replay finds the port already
	// attached and reports already_assigned.
	allocResult, err := uc.allocatePort.Execute(ctx, allocusecases.AllocatePortCommand{
		SubscriptionID: sub.ID(),
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("payment processed",
		"order_id", o.ID(), "subscription_id", sub.ID(), "outcome", allocResult.Outcome)
	return &HandlePaymentSuccessResult{
		Order:        o,
		Subscription: allocResult.Subscription,
		Outcome:      allocResult.Outcome,
	}, nil
}

// resolveSubscription marks the order paid and creates its subscription, or
// returns the existing one when the callback already ran.
func (uc *HandlePaymentSuccessUseCase) resolveSubscription(ctx context.Context, o *order.Order, termDays int) (*subscription.Subscription, error) {
	if o.SubscriptionID() != nil {
		sub, err := uc.subscriptionRepo.GetByID(ctx, *o.SubscriptionID())
		if err != nil {
			uc.logger.Errorw("failed to get order subscription", "error", err, "subscription_id", *o.SubscriptionID())
			return nil, fmt.Errorf("failed to get order subscription: %w", err)
		}
		if sub == nil {
			return nil, apperrors.NewInternalError("order references a missing subscription")
		}
		return sub, nil
	}

	if err := o.MarkSuccess(); err != nil {
		return nil, apperrors.NewConflictError(err.Error())
	}

	orderID := o.ID()
	sub, err := uc.createSubscription.Execute(ctx, subusecases.CreateSubscriptionCommand{
		CustomerID: o.CustomerID(),
		PlanID:     o.PlanID(),
		OrderID:    &orderID,
		TermDays:   termDays,
	})
	if err != nil {
		return nil, err
	}

	if err := o.AttachSubscription(sub.ID()); err != nil {
		return nil, apperrors.NewConflictError(err.Error())
	}
	if err := uc.orderRepo.Update(ctx, o); err != nil {
		uc.logger.Errorw("failed to update order", "error", err, "order_id", o.ID())
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	return sub, nil
}
