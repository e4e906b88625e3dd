package cashflow

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Status of a single cashflow row.
type Status string

const (
	// StatusProjected marks a row computed by the projector; it is
	// overwritten freely on regeneration.
	StatusProjected Status = "PROJECTED"
	// StatusReal marks a row confirmed by the user as an actual
	// payment; regeneration never touches or deletes it.
	StatusReal Status = "REAL"
)

// Cashflow is one month of rent for one contract. The natural key is
// (contract_id, date); date is always a first-of-month UTC midnight.
type Cashflow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ContractID uint      `gorm:"not null;uniqueIndex:idx_cashflow_contract_date" json:"contractId"`
	Date       time.Time `gorm:"not null;uniqueIndex:idx_cashflow_contract_date" json:"date"`

	AmountLocal decimal.Decimal     `gorm:"type:numeric(18,2);not null" json:"amountLocal"`
	AmountBase  decimal.NullDecimal `gorm:"type:numeric(18,2)" json:"amountBase"`

	Status Status `gorm:"size:20;not null;default:'PROJECTED';index" json:"status"`

	IndexMonthlyRate     decimal.NullDecimal `gorm:"type:numeric(12,8)" json:"indexMonthlyRate"`
	IndexAccumulatedRate decimal.NullDecimal `gorm:"type:numeric(12,8)" json:"indexAccumulatedRate"`
	// IndexPending flags a row whose adjustment boundary has already
	// passed but whose index value is not published yet: the amount is
	// the last known rent, corrected on the next regeneration.
	IndexPending bool `gorm:"not null;default:false" json:"indexPending"`

	SourceGeneration int        `gorm:"not null;default:0" json:"sourceGeneration"`
	PaidAt           *time.Time `json:"paidAt"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Migrate creates the table in the database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Cashflow{})
}
