package allocation

import "context"

// LogRepository is the append-only writer and reader for allocation log
// entries. No update or delete operations exist; the audit trail is immutable.
type LogRepository interface {
	// Append writes a new log entry. It honors a transaction carried in the
	// context so the entry commits together with the state change it records.
	Append(ctx context.Context, entry *LogEntry) error

	// ListByPort returns all entries for a port, oldest first.
	ListByPort(ctx context.Context, portID uint) ([]*LogEntry, error)

	// ListBySubscription returns all entries for a subscription, oldest first.
	ListBySubscription(ctx context.Context, subscriptionID uint) ([]*LogEntry, error)

	// List retrieves entries with optional filters, newest first.
	List(ctx context.Context, filter ListFilter) ([]*LogEntry, int64, error)
}

// ListFilter defines the filter options for listing log entries.
type ListFilter struct {
	PortID         *uint
	SubscriptionID *uint
	Action         *Action
	Page           int
	PageSize       int
}
