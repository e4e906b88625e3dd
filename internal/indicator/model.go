package indicator

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Type identifies one published economic series.
type Type string

const (
	TypeInflationIndex  Type = "INFLATION_INDEX"
	TypeExchangeRate    Type = "EXCHANGE_RATE"
	TypeRealEstateIndex Type = "REAL_ESTATE_INDEX"
)

// Valid reports whether t is one of the known series types.
func (t Type) Valid() bool {
	switch t {
	case TypeInflationIndex, TypeExchangeRate, TypeRealEstateIndex:
		return true
	}
	return false
}

// Point is a single published value of an economic series, unique per
// (type, date). Rows are append-mostly; an administrative correction
// overwrites in place.
type Point struct {
	ID               uint                `gorm:"primaryKey" json:"id"`
	Type             Type                `gorm:"size:50;not null;uniqueIndex:idx_indicator_type_date" json:"type"`
	Date             time.Time           `gorm:"not null;uniqueIndex:idx_indicator_type_date" json:"date"`
	Value            decimal.Decimal     `gorm:"type:numeric(18,6);not null" json:"value"`
	InterannualValue decimal.NullDecimal `gorm:"type:numeric(18,6)" json:"interannualValue"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

// Migrate creates the table in the database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Point{})
}

// DayOf converts a stored timestamp to its UTC calendar date.
func DayOf(t time.Time) civil.Date {
	return civil.DateOf(t.UTC())
}

// TimeOf converts a calendar date to its stored form (UTC midnight).
// All date columns go through this so that rows written by different
// runs compare equal.
func TimeOf(d civil.Date) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// MonthOf normalizes a date to the first day of its month.
func MonthOf(d civil.Date) civil.Date {
	d.Day = 1
	return d
}

// AddMonths adds n months to a date, normalizing the result through the
// calendar (Jan 31 + 1 month lands in March; schedule math only ever
// uses first-of-month dates, where this cannot happen).
func AddMonths(d civil.Date, n int) civil.Date {
	return civil.DateOf(time.Date(d.Year, d.Month+time.Month(n), d.Day, 0, 0, 0, 0, time.UTC))
}
