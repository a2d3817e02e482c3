// Package allocation provides the append-only audit trail for port
// allocation. Every state change of a port produces exactly one log entry in
// the same transaction as the change; entries are immutable once written.
package allocation

import (
	"fmt"
	"time"
)

// Action identifies the kind of allocation event.
type Action string

const (
	// ActionCreate records the creation of a port by an operator
	ActionCreate Action = "create"
	// ActionAssign records an automatic assignment to a subscription
	ActionAssign Action = "assign"
	// ActionReassign records an operator moving a port between subscriptions
	ActionReassign Action = "reassign"
	// ActionRelease records a port returning to the pool
	ActionRelease Action = "release"
)

func (a Action) String() string {
	return string(a)
}

// IsValid checks if the action is a known kind.
func (a Action) IsValid() bool {
	switch a {
	case ActionCreate, ActionAssign, ActionReassign, ActionRelease:
		return true
	}
	return false
}

// LogEntry is a single immutable audit record. performedBy is nil for
// automatic system actions and carries the operator ID for manual ones.
type LogEntry struct {
	id             uint
	portID         uint
	subscriptionID *uint
	customerID     *uint
	action         Action
	performedBy    *uint
	metadata       map[string]interface{}
	createdAt      time.Time
}

// NewLogEntry creates a new allocation log entry.
func NewLogEntry(portID uint, subscriptionID, customerID *uint, action Action, performedBy *uint) (*LogEntry, error) {
	if portID == 0 {
		return nil, fmt.Errorf("port ID is required")
	}
	if !action.IsValid() {
		return nil, fmt.Errorf("invalid allocation action: %s", action)
	}

	return &LogEntry{
		portID:         portID,
		subscriptionID: subscriptionID,
		customerID:     customerID,
		action:         action,
		performedBy:    performedBy,
		createdAt:      time.Now().UTC(),
	}, nil
}

// NewCreateEntry records the creation of a port.
func NewCreateEntry(portID uint, performedBy *uint) (*LogEntry, error) {
	return NewLogEntry(portID, nil, nil, ActionCreate, performedBy)
}

// NewAssignEntry records an automatic assignment. performedBy is always nil.
func NewAssignEntry(portID, subscriptionID, customerID uint) (*LogEntry, error) {
	return NewLogEntry(portID, &subscriptionID, &customerID, ActionAssign, nil)
}

// NewReassignEntry records an operator-initiated reassignment. The operator
// ID is mandatory: a reassignment is never an automatic action.
func NewReassignEntry(portID, subscriptionID, customerID, operatorID uint) (*LogEntry, error) {
	if operatorID == 0 {
		return nil, fmt.Errorf("operator ID is required for reassignment")
	}
	return NewLogEntry(portID, &subscriptionID, &customerID, ActionReassign, &operatorID)
}

// NewReleaseEntry records a release. performedBy is nil for automatic
// releases (expiry) and set for operator-initiated ones.
func NewReleaseEntry(portID uint, subscriptionID, customerID *uint, performedBy *uint) (*LogEntry, error) {
	return NewLogEntry(portID, subscriptionID, customerID, ActionRelease, performedBy)
}

// ReconstructLogEntry reconstructs a log entry from persistence.
func ReconstructLogEntry(
	entryID, portID uint,
	subscriptionID, customerID *uint,
	action Action,
	performedBy *uint,
	metadata map[string]interface{},
	createdAt time.Time,
) (*LogEntry, error) {
	if entryID == 0 {
		return nil, fmt.Errorf("log entry ID cannot be zero")
	}
	if portID == 0 {
		return nil, fmt.Errorf("port ID is required")
	}
	if !action.IsValid() {
		return nil, fmt.Errorf("invalid allocation action: %s", action)
	}

	return &LogEntry{
		id:             entryID,
		portID:         portID,
		subscriptionID: subscriptionID,
		customerID:     customerID,
		action:         action,
		performedBy:    performedBy,
		metadata:       metadata,
		createdAt:      createdAt,
	}, nil
}

// ID returns the log entry ID.
func (e *LogEntry) ID() uint {
	return e.id
}

// PortID returns the port the entry refers to.
func (e *LogEntry) PortID() uint {
	return e.portID
}

// SubscriptionID returns the subscription involved, if any.
func (e *LogEntry) SubscriptionID() *uint {
	return e.subscriptionID
}

// CustomerID returns the customer involved, if any.
func (e *LogEntry) CustomerID() *uint {
	return e.customerID
}

// Action returns the event kind.
func (e *LogEntry) Action() Action {
	return e.action
}

// PerformedBy returns the operator ID, or nil for automatic system actions.
func (e *LogEntry) PerformedBy() *uint {
	return e.performedBy
}

// IsAutomatic reports whether the entry records a system action.
func (e *LogEntry) IsAutomatic() bool {
	return e.performedBy == nil
}

// Metadata returns supplemental event data.
func (e *LogEntry) Metadata() map[string]interface{} {
	return e.metadata
}

// SetMetadata attaches supplemental event data before the entry is persisted.
func (e *LogEntry) SetMetadata(metadata map[string]interface{}) {
	e.metadata = metadata
}

// CreatedAt returns when the entry was written.
func (e *LogEntry) CreatedAt() time.Time {
	return e.createdAt
}

// SetID sets the entry ID (only for persistence layer use).
func (e *LogEntry) SetID(entryID uint) error {
	if e.id != 0 {
		return fmt.Errorf("log entry ID is already set")
	}
	if entryID == 0 {
		return fmt.Errorf("log entry ID cannot be zero")
	}
	e.id = entryID
	return nil
}
