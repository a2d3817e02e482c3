package models

import (
	"time"

	"github.com/orris-inc/berth/internal/shared/constants"
)

// OrderModel represents the database persistence model for orders.
type OrderModel struct {
	ID             uint   `gorm:"primarykey"`
	SID            string `gorm:"uniqueIndex;not null;size:50;comment:Stripe-style ID: ord_xxx"`
	CustomerID     uint   `gorm:"not null;index:idx_order_customer"`
	PlanID         uint   `gorm:"not null"`
	SubscriptionID *uint  `gorm:"index:idx_order_subscription"`
	Status         string `gorm:"not null;size:20;index:idx_order_status"`
	AmountCents    int64  `gorm:"not null;default:0"`
	Currency       string `gorm:"not null;size:10;default:USD"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName specifies the table name for GORM
func (OrderModel) TableName() string {
	return constants.TableOrders
}
