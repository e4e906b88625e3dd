package contract

import (
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/patriciomferrari-maker/passive-income-tracker/internal/indicator"
)

// AdjustmentType says how (and whether) the rent is rebased over time.
type AdjustmentType string

const (
	AdjustmentNone         AdjustmentType = "NONE"
	AdjustmentFixedPercent AdjustmentType = "FIXED_PERCENT"
	AdjustmentIndexLinked  AdjustmentType = "INDEX_LINKED"
)

// Valid reports whether t is a known adjustment type.
func (t AdjustmentType) Valid() bool {
	switch t {
	case AdjustmentNone, AdjustmentFixedPercent, AdjustmentIndexLinked:
		return true
	}
	return false
}

// ErrInvalidAdjustment marks a contract whose adjustment settings are
// structurally broken. Surfaced to the caller, never defaulted around.
var ErrInvalidAdjustment = errors.New("invalid adjustment configuration")

// Contract is one rental agreement. StartDate is fixed at creation; an
// amendment is modeled as a new contract so past reconciliations stay
// valid.
type Contract struct {
	gorm.Model

	PropertyID uint   `gorm:"not null;index" json:"propertyId"`
	UserID     uint   `gorm:"not null;index" json:"userId"`
	TenantName string `gorm:"size:255;not null" json:"tenantName"`

	StartDate      time.Time       `gorm:"not null" json:"startDate"`
	BaseRentAmount decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"baseRentAmount"`
	Currency       string          `gorm:"size:10;not null;default:'ARS'" json:"currency"`

	AdjustmentType            AdjustmentType  `gorm:"size:30;not null;default:'NONE'" json:"adjustmentType"`
	AdjustmentIndexType       indicator.Type  `gorm:"size:50" json:"adjustmentIndexType,omitempty"`
	FixedPercent              decimal.Decimal `gorm:"type:numeric(9,6);not null;default:0" json:"fixedPercent"` // fraction per adjustment, 0.1 = 10%
	AdjustmentFrequencyMonths int             `gorm:"not null;default:0" json:"adjustmentFrequencyMonths"`
	DurationMonths            int             `gorm:"not null" json:"durationMonths"`
}

// Migrate creates the table in the database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Contract{})
}

// Validate checks the adjustment settings for structural errors.
func (c *Contract) Validate() error {
	if !c.AdjustmentType.Valid() {
		return fmt.Errorf("%w: unknown adjustment type %q", ErrInvalidAdjustment, c.AdjustmentType)
	}
	if c.AdjustmentType == AdjustmentNone {
		return nil
	}
	if c.AdjustmentFrequencyMonths <= 0 {
		return fmt.Errorf("%w: adjustment frequency must be positive", ErrInvalidAdjustment)
	}
	if c.AdjustmentType == AdjustmentIndexLinked && !c.AdjustmentIndexType.Valid() {
		return fmt.Errorf("%w: index-linked contract without an index type", ErrInvalidAdjustment)
	}
	return nil
}

// StartMonth returns the first-of-month calendar date the schedule is
// anchored at.
func (c *Contract) StartMonth() civil.Date {
	return indicator.MonthOf(indicator.DayOf(c.StartDate))
}
