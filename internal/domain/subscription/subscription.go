// Package subscription provides the subscription aggregate. The subscription
// holds at most one assigned port; both sides of the link are mutated only by
// the allocation engine inside a single transaction.
package subscription

import (
	"fmt"
	"time"

	vo "github.com/orris-inc/berth/internal/domain/subscription/valueobjects"
	"github.com/orris-inc/berth/internal/shared/id"
)

// Subscription represents the subscription aggregate root
type Subscription struct {
	id         uint
	sid        string
	customerID uint
	planID     uint
	orderID    *uint
	portID     *uint
	status     vo.SubscriptionStatus
	startDate  time.Time
	endDate    time.Time
	createdAt  time.Time
	updatedAt  time.Time
	version    int
}

// NewSubscription creates a new active subscription. orderID traces back to
// the order that created it and may be nil for operator-created subscriptions.
func NewSubscription(customerID, planID uint, orderID *uint, startDate, endDate time.Time) (*Subscription, error) {
	if customerID == 0 {
		return nil, fmt.Errorf("customer ID is required")
	}
	if planID == 0 {
		return nil, fmt.Errorf("plan ID is required")
	}
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("end date must be after start date")
	}

	sid, err := id.NewSubscriptionSID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate SID: %w", err)
	}

	now := time.Now().UTC()
	return &Subscription{
		sid:        sid,
		customerID: customerID,
		planID:     planID,
		orderID:    orderID,
		status:     vo.StatusActive,
		startDate:  startDate,
		endDate:    endDate,
		createdAt:  now,
		updatedAt:  now,
		version:    1,
	}, nil
}

// ReconstructSubscription reconstructs a subscription from persistence
func ReconstructSubscription(
	subID uint,
	sid string,
	customerID, planID uint,
	orderID *uint,
	portID *uint,
	status vo.SubscriptionStatus,
	startDate, endDate time.Time,
	createdAt, updatedAt time.Time,
	version int,
) (*Subscription, error) {
	if subID == 0 {
		return nil, fmt.Errorf("subscription ID cannot be zero")
	}
	if sid == "" {
		return nil, fmt.Errorf("subscription SID is required")
	}
	if customerID == 0 {
		return nil, fmt.Errorf("customer ID is required")
	}
	if planID == 0 {
		return nil, fmt.Errorf("plan ID is required")
	}
	if !vo.ValidStatuses[status] {
		return nil, fmt.Errorf("invalid subscription status: %s", status)
	}

	return &Subscription{
		id:         subID,
		sid:        sid,
		customerID: customerID,
		planID:     planID,
		orderID:    orderID,
		portID:     portID,
		status:     status,
		startDate:  startDate,
		endDate:    endDate,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
		version:    version,
	}, nil
}

// ID returns the subscription ID
func (s *Subscription) ID() uint {
	return s.id
}

// SID returns the Stripe-style short ID
func (s *Subscription) SID() string {
	return s.sid
}

// CustomerID returns the owning customer ID
func (s *Subscription) CustomerID() uint {
	return s.customerID
}

// PlanID returns the plan ID
func (s *Subscription) PlanID() uint {
	return s.planID
}

// OrderID returns the originating order ID, if any
func (s *Subscription) OrderID() *uint {
	return s.orderID
}

// PortID returns the assigned port ID, or nil when no port is assigned
func (s *Subscription) PortID() *uint {
	return s.portID
}

// HasPort reports whether a port is currently linked
func (s *Subscription) HasPort() bool {
	return s.portID != nil
}

// Status returns the subscription status
func (s *Subscription) Status() vo.SubscriptionStatus {
	return s.status
}

// StartDate returns the subscription start date
func (s *Subscription) StartDate() time.Time {
	return s.startDate
}

// EndDate returns the subscription end date
func (s *Subscription) EndDate() time.Time {
	return s.endDate
}

// CreatedAt returns when the subscription was created
func (s *Subscription) CreatedAt() time.Time {
	return s.createdAt
}

// UpdatedAt returns when the subscription was last updated
func (s *Subscription) UpdatedAt() time.Time {
	return s.updatedAt
}

// Version returns the aggregate version
func (s *Subscription) Version() int {
	return s.version
}

// SetID sets the subscription ID (only for persistence layer use)
func (s *Subscription) SetID(subID uint) error {
	if s.id != 0 {
		return fmt.Errorf("subscription ID is already set")
	}
	if subID == 0 {
		return fmt.Errorf("subscription ID cannot be zero")
	}
	s.id = subID
	return nil
}

// AttachPort links a port to the subscription. Only the allocation engine
// calls this; a second port is rejected.
func (s *Subscription) AttachPort(portID uint) error {
	if portID == 0 {
		return fmt.Errorf("port ID cannot be zero")
	}
	if s.portID != nil {
		return fmt.Errorf("%w: subscription %s already has port %d", ErrPortAlreadyAttached, s.sid, *s.portID)
	}
	s.portID = &portID
	if s.status == vo.StatusPendingAllocation {
		s.status = vo.StatusActive
	}
	s.updatedAt = time.Now().UTC()
	s.version++
	return nil
}

// DetachPort clears the port link. The subscription status is left alone:
// release on expiry and release by an operator both go through here.
func (s *Subscription) DetachPort() {
	if s.portID == nil {
		return
	}
	s.portID = nil
	s.updatedAt = time.Now().UTC()
	s.version++
}

// MarkPendingAllocation records that no port was available at allocation time.
func (s *Subscription) MarkPendingAllocation() error {
	if s.status == vo.StatusPendingAllocation {
		return nil
	}
	if !s.status.CanTransitionTo(vo.StatusPendingAllocation) {
		return fmt.Errorf("cannot mark subscription %s pending allocation from status %s", s.sid, s.status)
	}
	s.status = vo.StatusPendingAllocation
	s.updatedAt = time.Now().UTC()
	s.version++
	return nil
}

// Activate moves the subscription to active.
func (s *Subscription) Activate() error {
	if s.status == vo.StatusActive {
		return nil
	}
	if !s.status.CanTransitionTo(vo.StatusActive) {
		return fmt.Errorf("cannot activate subscription %s from status %s", s.sid, s.status)
	}
	s.status = vo.StatusActive
	s.updatedAt = time.Now().UTC()
	s.version++
	return nil
}

// Expire moves the subscription to expired. The port link is cleared
// separately by the allocation engine's release operation.
func (s *Subscription) Expire() error {
	if s.status == vo.StatusExpired {
		return nil
	}
	if !s.status.CanTransitionTo(vo.StatusExpired) {
		return fmt.Errorf("cannot expire subscription %s from status %s", s.sid, s.status)
	}
	s.status = vo.StatusExpired
	s.updatedAt = time.Now().UTC()
	s.version++
	return nil
}

// Cancel moves the subscription to cancelled.
func (s *Subscription) Cancel() error {
	if s.status == vo.StatusCancelled {
		return nil
	}
	if !s.status.CanTransitionTo(vo.StatusCancelled) {
		return fmt.Errorf("cannot cancel subscription %s from status %s", s.sid, s.status)
	}
	s.status = vo.StatusCancelled
	s.updatedAt = time.Now().UTC()
	s.version++
	return nil
}

// IsExpiredAt reports whether the subscription's end date has passed.
func (s *Subscription) IsExpiredAt(t time.Time) bool {
	return s.endDate.Before(t)
}
