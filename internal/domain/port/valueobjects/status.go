package valueobjects

// PortStatus represents the lifecycle status of a port
type PortStatus string

const (
	// StatusAvailable indicates the port can be assigned to a subscription
	StatusAvailable PortStatus = "available"
	// StatusReserved indicates the port is held back by an operator
	StatusReserved PortStatus = "reserved"
	// StatusAssigned indicates the port is assigned to a subscription
	StatusAssigned PortStatus = "assigned"
	// StatusDisabled indicates the port is taken out of rotation by an operator
	StatusDisabled PortStatus = "disabled"
)

func (s PortStatus) String() string {
	return string(s)
}

// IsAllocatable reports whether the port can be picked up by the allocation engine.
func (s PortStatus) IsAllocatable() bool {
	return s == StatusAvailable
}

// CanTransitionTo reports whether a transition to the target status is allowed.
// Assignment and release always go through the allocation engine; operators may
// reserve/disable a port only while it is not assigned.
func (s PortStatus) CanTransitionTo(target PortStatus) bool {
	transitions := map[PortStatus][]PortStatus{
		StatusAvailable: {StatusReserved, StatusAssigned, StatusDisabled},
		StatusReserved:  {StatusAvailable, StatusDisabled},
		StatusAssigned:  {StatusAvailable},
		StatusDisabled:  {StatusAvailable, StatusReserved},
	}

	allowed, exists := transitions[s]
	if !exists {
		return false
	}

	for _, allowedStatus := range allowed {
		if allowedStatus == target {
			return true
		}
	}
	return false
}

var ValidStatuses = map[PortStatus]bool{
	StatusAvailable: true,
	StatusReserved:  true,
	StatusAssigned:  true,
	StatusDisabled:  true,
}
