package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/berth/internal/domain/port"
	"github.com/orris-inc/berth/internal/shared/logger"
)

type CheckAvailabilityResult struct {
	Available      bool
	AvailableCount int64
}

// CheckAvailabilityUseCase answers whether the pool can serve a new
// subscription. The answer is advisory: between this check and a later
// allocation another buyer may drain the pool, so callers must still handle
// the no_available_ports outcome.
type CheckAvailabilityUseCase struct {
	portRepo port.Repository
	logger   logger.Interface
}

func NewCheckAvailabilityUseCase(portRepo port.Repository, logger logger.Interface) *CheckAvailabilityUseCase {
	return &CheckAvailabilityUseCase{
		portRepo: portRepo,
		logger:   logger,
	}
}

func (uc *CheckAvailabilityUseCase) Execute(ctx context.Context) (*CheckAvailabilityResult, error) {
	count, err := uc.portRepo.CountAvailable(ctx)
	if err != nil {
		uc.logger.Errorw("failed to count available ports", "error", err)
		return nil, fmt.Errorf("failed to count available ports: %w", err)
	}

	return &CheckAvailabilityResult{
		Available:      count > 0,
		AvailableCount: count,
	}, nil
}

type CheckoutValidation struct {
	CanProceed bool
	Message    string
}

// ValidateCheckout is the storefront's pre-checkout gate. It never blocks a
// purchase outright: when the pool is empty the buyer may still proceed and
// will be parked in pending_allocation, so the message says as much.
func (uc *CheckAvailabilityUseCase) ValidateCheckout(ctx context.Context) (*CheckoutValidation, error) {
	count, err := uc.portRepo.CountAvailable(ctx)
	if err != nil {
		uc.logger.Errorw("failed to count available ports", "error", err)
		return nil, fmt.Errorf("failed to count available ports: %w", err)
	}

	if count == 0 {
		return &CheckoutValidation{
			CanProceed: true,
			Message:    "No ports are currently available; your subscription will be activated as soon as one frees up.",
		}, nil
	}

	return &CheckoutValidation{CanProceed: true}, nil
}

// ListAvailable returns the current allocation candidates in the order the
// engine would try them.
func (uc *CheckAvailabilityUseCase) ListAvailable(ctx context.Context, limit int) ([]*port.Port, error) {
	ports, err := uc.portRepo.FindAvailable(ctx, limit)
	if err != nil {
		uc.logger.Errorw("failed to list available ports", "error", err)
		return nil, fmt.Errorf("failed to list available ports: %w", err)
	}
	return ports, nil
}
