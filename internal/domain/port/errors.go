package port

import "errors"

var (
	// ErrPortNotFound indicates the port was not found
	ErrPortNotFound = errors.New("port not found")

	// ErrInstanceURLExists indicates a port with the instance URL already exists
	ErrInstanceURLExists = errors.New("instance URL already exists")

	// ErrPortNotAvailable indicates the port is not in the available state
	ErrPortNotAvailable = errors.New("port not available")

	// ErrPortAssigned indicates the operation conflicts with an active assignment
	ErrPortAssigned = errors.New("port is assigned")

	// ErrPortDisabled indicates the port is disabled and must be enabled first
	ErrPortDisabled = errors.New("port is disabled")
)
