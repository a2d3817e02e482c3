package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/orris-inc/berth/internal/shared/constants"
)

// PortModel represents the database persistence model for ports.
// This is the anti-corruption layer between domain and database.
//
// The three assignment columns are set and cleared together; the conditional
// updates in the repository are the only writers that touch them alongside
// the status column.
type PortModel struct {
	ID                     uint   `gorm:"primarykey"`
	SID                    string `gorm:"uniqueIndex;not null;size:50;comment:Stripe-style ID: prt_xxx"`
	InstanceURL            string `gorm:"uniqueIndex;not null;size:255;comment:unique external identifier"`
	Name                   string `gorm:"not null;size:100"`
	Region                 string `gorm:"size:50;index:idx_port_region"`
	Status                 string `gorm:"not null;size:20;index:idx_port_status"`
	AssignedSubscriptionID *uint  `gorm:"index:idx_port_assigned_subscription"`
	AssignedCustomerID     *uint
	AssignedAt             *time.Time
	Version                int `gorm:"not null;default:1"`
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// TableName specifies the table name for GORM
func (PortModel) TableName() string {
	return constants.TablePorts
}

// BeforeCreate hook for GORM
func (p *PortModel) BeforeCreate(tx *gorm.DB) error {
	if p.Version == 0 {
		p.Version = 1
	}
	return nil
}
