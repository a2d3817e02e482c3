package usecases

import (
	"context"

	"github.com/orris-inc/berth/internal/domain/subscription"
)

// OperatorNotifier defines the interface for alerting operators about pool
// conditions that need human attention. Implementations must be safe to call
// from a background goroutine.
type OperatorNotifier interface {
	// NotifyPoolExhausted alerts operators that a subscription could not be
	// assigned a port because the pool ran dry.
	NotifyPoolExhausted(ctx context.Context, sub *subscription.Subscription) error
}
