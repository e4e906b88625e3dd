package contract

import (
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/patriciomferrari-maker/passive-income-tracker/internal/indicator"
)

func TestValidate(t *testing.T) {
	base := Contract{
		TenantName:     "Gomez",
		StartDate:      indicator.TimeOf(civil.Date{Year: 2024, Month: 1, Day: 1}),
		BaseRentAmount: decimal.NewFromInt(100000),
	}

	c := base
	c.AdjustmentType = AdjustmentNone
	if err := c.Validate(); err != nil {
		t.Fatalf("NONE contract: %v", err)
	}

	c = base
	c.AdjustmentType = AdjustmentIndexLinked
	c.AdjustmentIndexType = indicator.TypeInflationIndex
	c.AdjustmentFrequencyMonths = 3
	if err := c.Validate(); err != nil {
		t.Fatalf("index-linked contract: %v", err)
	}

	c.AdjustmentIndexType = ""
	if err := c.Validate(); !errors.Is(err, ErrInvalidAdjustment) {
		t.Fatalf("missing index type: expected ErrInvalidAdjustment, got %v", err)
	}

	c = base
	c.AdjustmentType = AdjustmentFixedPercent
	c.FixedPercent = decimal.RequireFromString("0.1")
	c.AdjustmentFrequencyMonths = 0
	if err := c.Validate(); !errors.Is(err, ErrInvalidAdjustment) {
		t.Fatalf("zero frequency: expected ErrInvalidAdjustment, got %v", err)
	}

	c = base
	c.AdjustmentType = "PERCENTAGE"
	if err := c.Validate(); !errors.Is(err, ErrInvalidAdjustment) {
		t.Fatalf("unknown type: expected ErrInvalidAdjustment, got %v", err)
	}
}

func TestStartMonthNormalization(t *testing.T) {
	c := Contract{
		// Stored with a stray time-of-day, as a timezone-shifted
		// client would send it.
		StartDate: time.Date(2024, time.March, 15, 23, 30, 0, 0, time.UTC),
	}
	want := civil.Date{Year: 2024, Month: 3, Day: 1}
	if got := c.StartMonth(); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}
