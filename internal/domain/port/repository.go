package port

import (
	"context"
	"time"

	vo "github.com/orris-inc/berth/internal/domain/port/valueobjects"
)

// Repository defines the persistence operations for ports.
//
// AssignAtomically and ReleaseAtomically are conditional single-statement
// updates; they are the compare-and-set primitives the allocation engine
// relies on for race safety. All methods honor a transaction carried in the
// context.
type Repository interface {
	// Create creates a new port. Returns ErrInstanceURLExists when the
	// external identifier is already taken.
	Create(ctx context.Context, p *Port) error

	// Update persists operator-editable fields and status of an existing port.
	Update(ctx context.Context, p *Port) error

	// Delete removes a port. Deletion of an assigned port is rejected.
	Delete(ctx context.Context, portID uint) error

	// GetByID retrieves a port by ID. Returns nil when not found.
	GetByID(ctx context.Context, portID uint) (*Port, error)

	// GetBySID retrieves a port by Stripe-style ID. Returns nil when not found.
	GetBySID(ctx context.Context, sid string) (*Port, error)

	// GetBySubscriptionID retrieves the port assigned to a subscription.
	// Returns nil when the subscription holds no port.
	GetBySubscriptionID(ctx context.Context, subscriptionID uint) (*Port, error)

	// FindAvailable returns available ports in creation order. The stable
	// ordering keeps concurrent allocators converging on the same candidate.
	FindAvailable(ctx context.Context, limit int) ([]*Port, error)

	// CountAvailable returns the number of available ports.
	CountAvailable(ctx context.Context) (int64, error)

	// AssignAtomically performs a conditional assignment: the update succeeds
	// only if the port is still available at execution time. Returns false
	// when the port was taken by a concurrent allocator.
	AssignAtomically(ctx context.Context, portID, subscriptionID, customerID uint, at time.Time) (bool, error)

	// ReleaseAtomically clears the assignment fields and returns the port to
	// the available pool. Disabled ports are left untouched. Returns false
	// when no row matched.
	ReleaseAtomically(ctx context.Context, portID uint) (bool, error)

	// ExistsByInstanceURL checks if a port with the given external identifier exists.
	ExistsByInstanceURL(ctx context.Context, instanceURL string) (bool, error)

	// List retrieves ports with optional filters.
	List(ctx context.Context, filter ListFilter) ([]*Port, int64, error)
}

// ListFilter defines the filter options for listing ports.
type ListFilter struct {
	Status   *vo.PortStatus
	Region   *string
	Search   string
	Page     int
	PageSize int
}
