package handlers

import (
	"time"

	"github.com/orris-inc/berth/internal/domain/allocation"
	"github.com/orris-inc/berth/internal/domain/port"
	"github.com/orris-inc/berth/internal/domain/subscription"
)

// PortResponse is the wire form of a port. Internal numeric IDs stay private;
// only SIDs cross the API boundary.
type PortResponse struct {
	ID          string              `json:"id"`
	InstanceURL string              `json:"instance_url"`
	Name        string              `json:"name"`
	Region      string              `json:"region,omitempty"`
	Status      string              `json:"status"`
	Assignment  *AssignmentResponse `json:"assignment,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

type AssignmentResponse struct {
	SubscriptionID uint      `json:"subscription_id"`
	CustomerID     uint      `json:"customer_id"`
	AssignedAt     time.Time `json:"assigned_at"`
}

func ToPortResponse(p *port.Port) *PortResponse {
	if p == nil {
		return nil
	}

	resp := &PortResponse{
		ID:          p.SID(),
		InstanceURL: p.InstanceURL(),
		Name:        p.Name(),
		Region:      p.Region(),
		Status:      p.Status().String(),
		CreatedAt:   p.CreatedAt(),
		UpdatedAt:   p.UpdatedAt(),
	}
	if a := p.Assignment(); a != nil {
		resp.Assignment = &AssignmentResponse{
			SubscriptionID: a.SubscriptionID(),
			CustomerID:     a.CustomerID(),
			AssignedAt:     a.AssignedAt(),
		}
	}
	return resp
}

func ToPortResponses(ports []*port.Port) []*PortResponse {
	responses := make([]*PortResponse, 0, len(ports))
	for _, p := range ports {
		responses = append(responses, ToPortResponse(p))
	}
	return responses
}

type SubscriptionResponse struct {
	ID         string    `json:"id"`
	CustomerID uint      `json:"customer_id"`
	PlanID     uint      `json:"plan_id"`
	Status     string    `json:"status"`
	PortID     *uint     `json:"port_id,omitempty"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	CreatedAt  time.Time `json:"created_at"`
}

func ToSubscriptionResponse(sub *subscription.Subscription) *SubscriptionResponse {
	if sub == nil {
		return nil
	}
	return &SubscriptionResponse{
		ID:         sub.SID(),
		CustomerID: sub.CustomerID(),
		PlanID:     sub.PlanID(),
		Status:     sub.Status().String(),
		PortID:     sub.PortID(),
		StartDate:  sub.StartDate(),
		EndDate:    sub.EndDate(),
		CreatedAt:  sub.CreatedAt(),
	}
}

func ToSubscriptionResponses(subs []*subscription.Subscription) []*SubscriptionResponse {
	responses := make([]*SubscriptionResponse, 0, len(subs))
	for _, sub := range subs {
		responses = append(responses, ToSubscriptionResponse(sub))
	}
	return responses
}

type AllocationLogResponse struct {
	ID             uint                   `json:"id"`
	PortID         uint                   `json:"port_id"`
	SubscriptionID *uint                  `json:"subscription_id,omitempty"`
	CustomerID     *uint                  `json:"customer_id,omitempty"`
	Action         string                 `json:"action"`
	PerformedBy    *uint                  `json:"performed_by,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
}

func ToAllocationLogResponse(entry *allocation.LogEntry) *AllocationLogResponse {
	if entry == nil {
		return nil
	}
	return &AllocationLogResponse{
		ID:             entry.ID(),
		PortID:         entry.PortID(),
		SubscriptionID: entry.SubscriptionID(),
		CustomerID:     entry.CustomerID(),
		Action:         entry.Action().String(),
		PerformedBy:    entry.PerformedBy(),
		Metadata:       entry.Metadata(),
		CreatedAt:      entry.CreatedAt(),
	}
}

func ToAllocationLogResponses(entries []*allocation.LogEntry) []*AllocationLogResponse {
	responses := make([]*AllocationLogResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, ToAllocationLogResponse(entry))
	}
	return responses
}
