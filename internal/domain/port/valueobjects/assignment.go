package valueobjects

import (
	"fmt"
	"time"
)

// Assignment is the composite assignment record of a port. Keeping the
// subscription ID, customer ID, and timestamp in a single optional value makes
// the "both-or-neither" invariant structural: a port either carries a complete
// assignment or none at all.
type Assignment struct {
	subscriptionID uint
	customerID     uint
	assignedAt     time.Time
}

// NewAssignment creates a new assignment record.
func NewAssignment(subscriptionID, customerID uint, assignedAt time.Time) (*Assignment, error) {
	if subscriptionID == 0 {
		return nil, fmt.Errorf("subscription ID is required")
	}
	if customerID == 0 {
		return nil, fmt.Errorf("customer ID is required")
	}
	if assignedAt.IsZero() {
		return nil, fmt.Errorf("assignment timestamp is required")
	}

	return &Assignment{
		subscriptionID: subscriptionID,
		customerID:     customerID,
		assignedAt:     assignedAt.UTC(),
	}, nil
}

// SubscriptionID returns the assigned subscription ID.
func (a *Assignment) SubscriptionID() uint {
	return a.subscriptionID
}

// CustomerID returns the assigned customer ID.
func (a *Assignment) CustomerID() uint {
	return a.customerID
}

// AssignedAt returns when the assignment was made.
func (a *Assignment) AssignedAt() time.Time {
	return a.assignedAt
}
