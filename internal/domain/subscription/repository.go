package subscription

import (
	"context"
	"time"

	vo "github.com/orris-inc/berth/internal/domain/subscription/valueobjects"
)

// Repository defines the persistence operations for subscriptions.
//
// UpdatePortLink and UpdateStatus are the only mutation paths the allocation
// engine uses; they honor a transaction carried in the context so the engine
// can bundle them with the port compare-and-set.
type Repository interface {
	// Create creates a new subscription.
	Create(ctx context.Context, sub *Subscription) error

	// Update persists the full aggregate state.
	Update(ctx context.Context, sub *Subscription) error

	// GetByID retrieves a subscription by ID. Returns nil when not found.
	GetByID(ctx context.Context, subID uint) (*Subscription, error)

	// GetBySID retrieves a subscription by Stripe-style ID. Returns nil when not found.
	GetBySID(ctx context.Context, sid string) (*Subscription, error)

	// GetByCustomerID retrieves all subscriptions of a customer.
	GetByCustomerID(ctx context.Context, customerID uint) ([]*Subscription, error)

	// UpdatePortLink sets or clears the subscription's port reference.
	// Passing nil clears the link.
	UpdatePortLink(ctx context.Context, subID uint, portID *uint) error

	// UpdateStatus sets the subscription status.
	UpdateStatus(ctx context.Context, subID uint, status vo.SubscriptionStatus) error

	// FindPendingAllocation returns subscriptions waiting for a port, oldest first.
	FindPendingAllocation(ctx context.Context, limit int) ([]*Subscription, error)

	// FindExpired returns active subscriptions whose end date is before the cutoff.
	FindExpired(ctx context.Context, cutoff time.Time) ([]*Subscription, error)

	// List retrieves subscriptions with optional filters.
	List(ctx context.Context, filter ListFilter) ([]*Subscription, int64, error)
}

// ListFilter defines the filter options for listing subscriptions.
type ListFilter struct {
	CustomerID *uint
	PlanID     *uint
	Status     *vo.SubscriptionStatus
	Page       int
	PageSize   int
}
