package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/orris-inc/berth/internal/shared/constants"
)

// SubscriptionModel represents the database persistence model for subscriptions.
// PortID carries a unique index so the database itself rejects two
// subscriptions pointing at the same port; the transactional engine is the
// primary guardian of the mutual link.
type SubscriptionModel struct {
	ID         uint   `gorm:"primarykey"`
	SID        string `gorm:"uniqueIndex;not null;size:50;comment:Stripe-style ID: sub_xxx"`
	CustomerID uint   `gorm:"not null;index:idx_subscription_customer"`
	PlanID     uint   `gorm:"not null;index:idx_subscription_plan"`
	OrderID    *uint  `gorm:"index:idx_subscription_order"`
	PortID     *uint  `gorm:"uniqueIndex:idx_subscription_port"`
	Status     string `gorm:"not null;size:30;index:idx_subscription_status"`
	StartDate  time.Time `gorm:"not null"`
	EndDate    time.Time `gorm:"not null;index:idx_subscription_end_date"`
	Version    int       `gorm:"not null;default:1"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName specifies the table name for GORM
func (SubscriptionModel) TableName() string {
	return constants.TableSubscriptions
}

// BeforeCreate hook for GORM
func (s *SubscriptionModel) BeforeCreate(tx *gorm.DB) error {
	if s.Version == 0 {
		s.Version = 1
	}
	return nil
}
