// Package port provides the domain model for allocatable ports.
// A port is a scarce, uniquely-identified service instance that the
// allocation engine assigns to at most one subscription at a time.
package port

import (
	"fmt"
	"time"

	vo "github.com/orris-inc/berth/internal/domain/port/valueobjects"
	"github.com/orris-inc/berth/internal/shared/id"
)

// Port represents the port aggregate root.
type Port struct {
	id          uint
	sid         string
	instanceURL string
	name        string
	region      string
	status      vo.PortStatus
	assignment  *vo.Assignment
	createdAt   time.Time
	updatedAt   time.Time
	version     int
}

// NewPort creates a new port in the available state.
func NewPort(instanceURL, name, region string) (*Port, error) {
	if instanceURL == "" {
		return nil, fmt.Errorf("instance URL is required")
	}
	if name == "" {
		return nil, fmt.Errorf("port name is required")
	}

	sid, err := id.NewPortSID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate SID: %w", err)
	}

	now := time.Now().UTC()
	return &Port{
		sid:         sid,
		instanceURL: instanceURL,
		name:        name,
		region:      region,
		status:      vo.StatusAvailable,
		createdAt:   now,
		updatedAt:   now,
		version:     1,
	}, nil
}

// ReconstructPort reconstructs a port from persistence.
func ReconstructPort(
	portID uint,
	sid string,
	instanceURL string,
	name string,
	region string,
	status vo.PortStatus,
	assignment *vo.Assignment,
	createdAt, updatedAt time.Time,
	version int,
) (*Port, error) {
	if portID == 0 {
		return nil, fmt.Errorf("port ID cannot be zero")
	}
	if sid == "" {
		return nil, fmt.Errorf("port SID is required")
	}
	if instanceURL == "" {
		return nil, fmt.Errorf("instance URL is required")
	}
	if !vo.ValidStatuses[status] {
		return nil, fmt.Errorf("invalid port status: %s", status)
	}
	if status == vo.StatusAssigned && assignment == nil {
		return nil, fmt.Errorf("assigned port %d has no assignment record", portID)
	}
	if status != vo.StatusAssigned && assignment != nil {
		return nil, fmt.Errorf("port %d in status %s carries an assignment record", portID, status)
	}

	return &Port{
		id:          portID,
		sid:         sid,
		instanceURL: instanceURL,
		name:        name,
		region:      region,
		status:      status,
		assignment:  assignment,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
		version:     version,
	}, nil
}

// ID returns the port ID.
func (p *Port) ID() uint {
	return p.id
}

// SID returns the Stripe-style short ID.
func (p *Port) SID() string {
	return p.sid
}

// InstanceURL returns the unique external identifier of the port.
func (p *Port) InstanceURL() string {
	return p.instanceURL
}

// Name returns the port name.
func (p *Port) Name() string {
	return p.name
}

// Region returns the port region.
func (p *Port) Region() string {
	return p.region
}

// Status returns the port status.
func (p *Port) Status() vo.PortStatus {
	return p.status
}

// Assignment returns the current assignment, or nil when the port is unassigned.
func (p *Port) Assignment() *vo.Assignment {
	return p.assignment
}

// IsAssigned reports whether the port is currently assigned.
func (p *Port) IsAssigned() bool {
	return p.status == vo.StatusAssigned
}

// CreatedAt returns when the port was created.
func (p *Port) CreatedAt() time.Time {
	return p.createdAt
}

// UpdatedAt returns when the port was last updated.
func (p *Port) UpdatedAt() time.Time {
	return p.updatedAt
}

// Version returns the aggregate version.
func (p *Port) Version() int {
	return p.version
}

// SetID sets the port ID (only for persistence layer use).
func (p *Port) SetID(portID uint) error {
	if p.id != 0 {
		return fmt.Errorf("port ID is already set")
	}
	if portID == 0 {
		return fmt.Errorf("port ID cannot be zero")
	}
	p.id = portID
	return nil
}

// Assign marks the port as assigned to the given subscription and customer.
func (p *Port) Assign(subscriptionID, customerID uint, at time.Time) error {
	if p.status != vo.StatusAvailable {
		return fmt.Errorf("%w: port %s is %s", ErrPortNotAvailable, p.sid, p.status)
	}

	assignment, err := vo.NewAssignment(subscriptionID, customerID, at)
	if err != nil {
		return err
	}

	p.assignment = assignment
	p.status = vo.StatusAssigned
	p.updatedAt = time.Now().UTC()
	p.version++
	return nil
}

// Release clears the assignment and returns the port to the available pool.
// A disabled port stays disabled until an operator explicitly enables it.
func (p *Port) Release() error {
	if p.status == vo.StatusDisabled {
		return fmt.Errorf("%w: port %s", ErrPortDisabled, p.sid)
	}
	if p.status == vo.StatusAvailable && p.assignment == nil {
		return nil
	}

	p.assignment = nil
	p.status = vo.StatusAvailable
	p.updatedAt = time.Now().UTC()
	p.version++
	return nil
}

// Reserve takes the port out of the allocatable pool without disabling it.
func (p *Port) Reserve() error {
	if p.status == vo.StatusAssigned {
		return fmt.Errorf("%w: port %s", ErrPortAssigned, p.sid)
	}
	if !p.status.CanTransitionTo(vo.StatusReserved) {
		return fmt.Errorf("cannot reserve port %s in status %s", p.sid, p.status)
	}
	p.status = vo.StatusReserved
	p.updatedAt = time.Now().UTC()
	p.version++
	return nil
}

// Disable removes the port from rotation. An assigned port must be released first.
func (p *Port) Disable() error {
	if p.status == vo.StatusAssigned {
		return fmt.Errorf("%w: port %s", ErrPortAssigned, p.sid)
	}
	if p.status == vo.StatusDisabled {
		return nil
	}
	p.status = vo.StatusDisabled
	p.updatedAt = time.Now().UTC()
	p.version++
	return nil
}

// Enable returns a reserved or disabled port to the available pool.
func (p *Port) Enable() error {
	if p.status == vo.StatusAvailable {
		return nil
	}
	if !p.status.CanTransitionTo(vo.StatusAvailable) {
		return fmt.Errorf("cannot enable port %s in status %s", p.sid, p.status)
	}
	p.status = vo.StatusAvailable
	p.updatedAt = time.Now().UTC()
	p.version++
	return nil
}

// UpdateName updates the port name.
func (p *Port) UpdateName(name string) error {
	if name == "" {
		return fmt.Errorf("port name cannot be empty")
	}
	if p.name == name {
		return nil
	}
	p.name = name
	p.updatedAt = time.Now().UTC()
	p.version++
	return nil
}

// UpdateRegion updates the port region.
func (p *Port) UpdateRegion(region string) {
	if p.region == region {
		return
	}
	p.region = region
	p.updatedAt = time.Now().UTC()
	p.version++
}

// UpdateInstanceURL updates the external identifier. Uniqueness is enforced by
// the repository; an assigned port keeps its identifier stable.
func (p *Port) UpdateInstanceURL(instanceURL string) error {
	if instanceURL == "" {
		return fmt.Errorf("instance URL cannot be empty")
	}
	if p.status == vo.StatusAssigned {
		return fmt.Errorf("%w: port %s", ErrPortAssigned, p.sid)
	}
	if p.instanceURL == instanceURL {
		return nil
	}
	p.instanceURL = instanceURL
	p.updatedAt = time.Now().UTC()
	p.version++
	return nil
}

// CanDelete reports whether the port may be deleted.
func (p *Port) CanDelete() bool {
	return p.status != vo.StatusAssigned
}
