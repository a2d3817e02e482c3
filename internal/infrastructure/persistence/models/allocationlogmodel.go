package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/orris-inc/berth/internal/shared/constants"
)

// AllocationLogModel represents the database persistence model for allocation
// log entries. Rows are append-only: no code path issues updates or deletes
// against this table, and the model intentionally has no UpdatedAt column.
type AllocationLogModel struct {
	ID             uint   `gorm:"primarykey"`
	PortID         uint   `gorm:"not null;index:idx_allocation_log_port"`
	SubscriptionID *uint  `gorm:"index:idx_allocation_log_subscription"`
	CustomerID     *uint  `gorm:"index:idx_allocation_log_customer"`
	Action         string `gorm:"not null;size:20;index:idx_allocation_log_action"`
	PerformedBy    *uint  `gorm:"comment:operator ID, NULL for automatic system actions"`
	Metadata       datatypes.JSON
	CreatedAt      time.Time `gorm:"not null;index:idx_allocation_log_created_at"`
}

// TableName specifies the table name for GORM
func (AllocationLogModel) TableName() string {
	return constants.TableAllocationLogs
}
