package notifier

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository encapsulates database access for adjustment notices.
type Repository struct {
	DB *gorm.DB
}

// NewRepository creates a new repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// Exists reports whether a notice was already recorded for the
// contract's boundary.
func (r *Repository) Exists(contractID uint, boundary time.Time) (bool, error) {
	var count int64
	err := r.DB.Model(&AdjustmentNotice{}).
		Where("contract_id = ? AND boundary_date = ?", contractID, boundary).
		Count(&count).Error
	return count > 0, err
}

// Record stores a notice; a concurrent duplicate is silently dropped
// by the unique index.
func (r *Repository) Record(contractID uint, boundary time.Time) error {
	notice := AdjustmentNotice{
		ContractID:   contractID,
		BoundaryDate: boundary,
		NotifiedAt:   time.Now().UTC(),
	}
	return r.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&notice).Error
}
