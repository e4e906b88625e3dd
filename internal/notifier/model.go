package notifier

import (
	"time"

	"gorm.io/gorm"
)

// AdjustmentNotice records that the user was notified about one
// adjustment boundary of one contract. The unique index is what makes
// the sweep idempotent.
type AdjustmentNotice struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ContractID   uint      `gorm:"not null;uniqueIndex:idx_notice_contract_boundary" json:"contractId"`
	BoundaryDate time.Time `gorm:"not null;uniqueIndex:idx_notice_contract_boundary" json:"boundaryDate"`
	NotifiedAt   time.Time `gorm:"not null" json:"notifiedAt"`
}

// Migrate creates the table in the database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&AdjustmentNotice{})
}
