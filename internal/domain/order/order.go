// Package order provides a minimal order aggregate. Orders are created by the
// checkout flow and marked successful by the payment webhook, which then
// triggers port allocation for the resulting subscription.
package order

import (
	"fmt"
	"time"

	"github.com/orris-inc/berth/internal/shared/id"
)

// OrderStatus represents the payment status of an order
type OrderStatus string

const (
	StatusPending OrderStatus = "pending"
	StatusSuccess OrderStatus = "success"
	StatusFailed  OrderStatus = "failed"
)

func (s OrderStatus) String() string {
	return string(s)
}

// IsValid checks if the order status is valid
func (s OrderStatus) IsValid() bool {
	return s == StatusPending || s == StatusSuccess || s == StatusFailed
}

// Order represents a purchase order
type Order struct {
	id             uint
	sid            string
	customerID     uint
	planID         uint
	subscriptionID *uint
	status         OrderStatus
	amountCents    int64
	currency       string
	createdAt      time.Time
	updatedAt      time.Time
}

// NewOrder creates a new pending order.
func NewOrder(customerID, planID uint, amountCents int64, currency string) (*Order, error) {
	if customerID == 0 {
		return nil, fmt.Errorf("customer ID is required")
	}
	if planID == 0 {
		return nil, fmt.Errorf("plan ID is required")
	}
	if amountCents < 0 {
		return nil, fmt.Errorf("amount cannot be negative")
	}
	if currency == "" {
		currency = "USD"
	}

	sid, err := id.NewOrderSID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate SID: %w", err)
	}

	now := time.Now().UTC()
	return &Order{
		sid:         sid,
		customerID:  customerID,
		planID:      planID,
		status:      StatusPending,
		amountCents: amountCents,
		currency:    currency,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructOrder reconstructs an order from persistence
func ReconstructOrder(
	orderID uint,
	sid string,
	customerID, planID uint,
	subscriptionID *uint,
	status OrderStatus,
	amountCents int64,
	currency string,
	createdAt, updatedAt time.Time,
) (*Order, error) {
	if orderID == 0 {
		return nil, fmt.Errorf("order ID cannot be zero")
	}
	if sid == "" {
		return nil, fmt.Errorf("order SID is required")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid order status: %s", status)
	}

	return &Order{
		id:             orderID,
		sid:            sid,
		customerID:     customerID,
		planID:         planID,
		subscriptionID: subscriptionID,
		status:         status,
		amountCents:    amountCents,
		currency:       currency,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}, nil
}

// ID returns the order ID
func (o *Order) ID() uint {
	return o.id
}

// SID returns the Stripe-style short ID
func (o *Order) SID() string {
	return o.sid
}

// CustomerID returns the customer ID
func (o *Order) CustomerID() uint {
	return o.customerID
}

// PlanID returns the plan ID
func (o *Order) PlanID() uint {
	return o.planID
}

// SubscriptionID returns the subscription created from this order, if any
func (o *Order) SubscriptionID() *uint {
	return o.subscriptionID
}

// Status returns the order status
func (o *Order) Status() OrderStatus {
	return o.status
}

// AmountCents returns the order amount in minor units
func (o *Order) AmountCents() int64 {
	return o.amountCents
}

// Currency returns the order currency code
func (o *Order) Currency() string {
	return o.currency
}

// CreatedAt returns when the order was created
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns when the order was last updated
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// SetID sets the order ID (only for persistence layer use)
func (o *Order) SetID(orderID uint) error {
	if o.id != 0 {
		return fmt.Errorf("order ID is already set")
	}
	if orderID == 0 {
		return fmt.Errorf("order ID cannot be zero")
	}
	o.id = orderID
	return nil
}

// MarkSuccess marks the order as paid. Idempotent: marking a successful order
// again is a no-op so webhook retries are safe.
func (o *Order) MarkSuccess() error {
	if o.status == StatusSuccess {
		return nil
	}
	if o.status != StatusPending {
		return fmt.Errorf("cannot mark order %s successful from status %s", o.sid, o.status)
	}
	o.status = StatusSuccess
	o.updatedAt = time.Now().UTC()
	return nil
}

// MarkFailed marks the order as failed.
func (o *Order) MarkFailed() error {
	if o.status == StatusFailed {
		return nil
	}
	if o.status != StatusPending {
		return fmt.Errorf("cannot mark order %s failed from status %s", o.sid, o.status)
	}
	o.status = StatusFailed
	o.updatedAt = time.Now().UTC()
	return nil
}

// AttachSubscription links the subscription created from this order.
func (o *Order) AttachSubscription(subscriptionID uint) error {
	if subscriptionID == 0 {
		return fmt.Errorf("subscription ID cannot be zero")
	}
	if o.subscriptionID != nil {
		return fmt.Errorf("order %s already has a subscription", o.sid)
	}
	o.subscriptionID = &subscriptionID
	o.updatedAt = time.Now().UTC()
	return nil
}
