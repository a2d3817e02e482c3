package valueobjects

// SubscriptionStatus represents the lifecycle status of a subscription
type SubscriptionStatus string

const (
	StatusActive            SubscriptionStatus = "active"
	StatusPendingAllocation SubscriptionStatus = "pending_allocation"
	StatusExpired           SubscriptionStatus = "expired"
	StatusCancelled         SubscriptionStatus = "cancelled"
)

func (s SubscriptionStatus) String() string {
	return string(s)
}

// CanUseService reports whether the subscription grants service access.
func (s SubscriptionStatus) CanUseService() bool {
	return s == StatusActive
}

// CanReceivePort reports whether the allocation engine may assign a port.
func (s SubscriptionStatus) CanReceivePort() bool {
	return s == StatusActive || s == StatusPendingAllocation
}

func (s SubscriptionStatus) CanTransitionTo(target SubscriptionStatus) bool {
	transitions := map[SubscriptionStatus][]SubscriptionStatus{
		StatusActive:            {StatusPendingAllocation, StatusExpired, StatusCancelled},
		StatusPendingAllocation: {StatusActive, StatusExpired, StatusCancelled},
		StatusExpired:           {StatusActive},
		StatusCancelled:         {},
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

var ValidStatuses = map[SubscriptionStatus]bool{
	StatusActive:            true,
	StatusPendingAllocation: true,
	StatusExpired:           true,
	StatusCancelled:         true,
}
