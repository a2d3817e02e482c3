package usecases

import (
	"context"
	"fmt"

	allocusecases "github.com/orris-inc/berth/internal/application/allocation/usecases"
	"github.com/orris-inc/berth/internal/domain/order"
	"github.com/orris-inc/berth/internal/shared/errors"
	"github.com/orris-inc/berth/internal/shared/logger"
	"github.com/orris-inc/berth/internal/shared/utils"
)

type CreateOrderCommand struct {
	CustomerID  uint   `json:"customer_id" validate:"required"`
	PlanID      uint   `json:"plan_id" validate:"required"`
	AmountCents int64  `json:"amount_cents" validate:"gt=0"`
	Currency    string `json:"currency" validate:"len=3"`
	// AllowBackorder lets the order through even when the pool is empty; the
	// subscription will be parked in pending_allocation after payment.
	AllowBackorder bool
}

// CreateOrderUseCase starts a checkout. The availability gate keeps buyers
// from paying for a port that visibly does not exist; it is advisory only,
// the allocation after payment still handles the race where the last port
// disappears in between.
type CreateOrderUseCase struct {
	orderRepo         order.Repository
	checkAvailability *allocusecases.CheckAvailabilityUseCase
	logger            logger.Interface
}

func NewCreateOrderUseCase(
	orderRepo order.Repository,
	checkAvailability *allocusecases.CheckAvailabilityUseCase,
	logger logger.Interface,
) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		orderRepo:         orderRepo,
		checkAvailability: checkAvailability,
		logger:            logger,
	}
}

func (uc *CreateOrderUseCase) Execute(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}

	if !cmd.AllowBackorder {
		availability, err := uc.checkAvailability.Execute(ctx)
		if err != nil {
			return nil, err
		}
		if !availability.Available {
			uc.logger.Warnw("checkout rejected, no ports available", "customer_id", cmd.CustomerID)
			return nil, errors.NewConflictError("no ports available")
		}
	}

	o, err := order.NewOrder(cmd.CustomerID, cmd.PlanID, cmd.AmountCents, cmd.Currency)
	if err != nil {
		uc.logger.Warnw("invalid order parameters", "error", err, "customer_id", cmd.CustomerID)
		return nil, errors.NewValidationError(err.Error())
	}

	if err := uc.orderRepo.Create(ctx, o); err != nil {
		uc.logger.Errorw("failed to create order", "error", err, "customer_id", cmd.CustomerID)
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	uc.logger.Infow("order created",
		"order_id", o.ID(), "order_sid", o.SID(), "customer_id", cmd.CustomerID)
	return o, nil
}
