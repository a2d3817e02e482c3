package usecases

// Outcome tags the result of an allocation engine operation. Exhaustion of
// the pool and losing a concurrent race are normal business results, not
// errors, so they surface here rather than through the error return.
type Outcome string

const (
	// OutcomeAssigned means a port was assigned to the subscription.
	OutcomeAssigned Outcome = "assigned"
	// OutcomeAlreadyAssigned means the subscription already held a port and
	// the operation was a no-op (idempotent success).
	OutcomeAlreadyAssigned Outcome = "already_assigned"
	// OutcomeNoAvailablePorts means the pool was exhausted and the
	// subscription was parked in pending_allocation.
	OutcomeNoAvailablePorts Outcome = "no_available_ports"
	// OutcomeReassigned means the port was moved to a new subscription.
	OutcomeReassigned Outcome = "reassigned"
	// OutcomeReleased means the port's assignment was cleared.
	OutcomeReleased Outcome = "released"
	// OutcomeNotAssigned means a release targeted a port that held no
	// assignment; nothing changed.
	OutcomeNotAssigned Outcome = "not_assigned"
)

func (o Outcome) String() string {
	return string(o)
}
