package subscription

import "errors"

var (
	// ErrSubscriptionNotFound indicates the subscription was not found
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrPortAlreadyAttached indicates the subscription already holds a port
	ErrPortAlreadyAttached = errors.New("subscription already has a port")
)
