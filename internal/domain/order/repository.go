package order

import (
	"context"
	"errors"
)

// ErrOrderNotFound indicates the order was not found
var ErrOrderNotFound = errors.New("order not found")

// Repository defines the persistence operations for orders.
type Repository interface {
	// Create creates a new order.
	Create(ctx context.Context, o *Order) error

	// Update persists the order state.
	Update(ctx context.Context, o *Order) error

	// GetByID retrieves an order by ID. Returns nil when not found.
	GetByID(ctx context.Context, orderID uint) (*Order, error)

	// GetBySID retrieves an order by Stripe-style ID. Returns nil when not found.
	GetBySID(ctx context.Context, sid string) (*Order, error)
}
