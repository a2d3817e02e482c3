// Package berth provides a Go SDK for interacting with the Berth API.
package berth

import "time"

// Availability reports whether the pool can serve a new allocation.
type Availability struct {
	Available      bool  `json:"available"`
	AvailableCount int64 `json:"available_count"`
}

// Assignment describes the subscription currently served by a port.
type Assignment struct {
	SubscriptionID uint      `json:"subscription_id"`
	CustomerID     uint      `json:"customer_id"`
	AssignedAt     time.Time `json:"assigned_at"`
}

// Port represents a sellable port instance.
type Port struct {
	ID          string      `json:"id"`
	InstanceURL string      `json:"instance_url"`
	Name        string      `json:"name"`
	Region      string      `json:"region,omitempty"`
	Status      string      `json:"status"`
	Assignment  *Assignment `json:"assignment,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Subscription represents a customer subscription.
type Subscription struct {
	ID         string    `json:"id"`
	CustomerID uint      `json:"customer_id"`
	PlanID     uint      `json:"plan_id"`
	Status     string    `json:"status"`
	PortID     *uint     `json:"port_id,omitempty"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	CreatedAt  time.Time `json:"created_at"`
}

// AllocationResult is the outcome of an allocation request.
type AllocationResult struct {
	Outcome      string        `json:"outcome"`
	Subscription *Subscription `json:"subscription"`
	Port         *Port         `json:"port"`
}

// ReleaseResult is the outcome of a release request.
type ReleaseResult struct {
	Outcome string `json:"outcome"`
	Port    *Port  `json:"port"`
}

// ReassignResult is the outcome of a reassign request.
type ReassignResult struct {
	Outcome string `json:"outcome"`
	Port    *Port  `json:"port"`
}

// apiResponse represents the standard API response structure.
type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}
