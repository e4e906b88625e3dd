package projector

import (
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/patriciomferrari-maker/passive-income-tracker/internal/contract"
	"github.com/patriciomferrari-maker/passive-income-tracker/internal/indicator"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func quarterlyContract() *contract.Contract {
	return &contract.Contract{
		TenantName:                "Gomez",
		StartDate:                 indicator.TimeOf(civil.Date{Year: 2024, Month: 1, Day: 1}),
		BaseRentAmount:            dec("100000"),
		Currency:                  "ARS",
		AdjustmentType:            contract.AdjustmentIndexLinked,
		AdjustmentIndexType:       indicator.TypeInflationIndex,
		AdjustmentFrequencyMonths: 3,
		DurationMonths:            12,
	}
}

// fullYearSeries publishes 2.0, 2.5, 3.0 ... for Jan..Dec 2024.
func fullYearSeries(skipMonths ...int) indicator.Series {
	skip := make(map[int]bool)
	for _, m := range skipMonths {
		skip[m] = true
	}
	var points []indicator.Point
	for m := 1; m <= 12; m++ {
		if skip[m] {
			continue
		}
		// 2.0 for January, +0.5 per month after.
		value := decimal.NewFromInt(int64(15 + 5*m)).Div(decimal.NewFromInt(10))
		points = append(points, indicator.Point{
			Type:  indicator.TypeInflationIndex,
			Date:  indicator.TimeOf(civil.Date{Year: 2024, Month: time.Month(m), Day: 1}),
			Value: value,
		})
	}
	return indicator.NewSeries(indicator.TypeInflationIndex, points)
}

func TestProjectIndexLinkedQuarterly(t *testing.T) {
	c := quarterlyContract()
	series := fullYearSeries()
	asOf := civil.Date{Year: 2025, Month: 1, Day: 1}

	cands, err := Project(c, series, indicator.Series{}, asOf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cands) != 12 {
		t.Fatalf("expected 12 candidates, got %d", len(cands))
	}

	// Months 1-3 carry the base rent.
	for i := 0; i < 3; i++ {
		if !cands[i].Amount.Equal(dec("100000")) {
			t.Fatalf("month %d: expected 100000, got %s", i+1, cands[i].Amount)
		}
	}

	// April rebases off Jan+Feb+Mar: 100000 * 1.02 * 1.025 * 1.03.
	want := dec("107686.5")
	if !cands[3].Amount.Equal(want) {
		t.Fatalf("april: expected %s, got %s", want, cands[3].Amount)
	}
	for i := 3; i < 6; i++ {
		if !cands[i].Amount.Equal(want) {
			t.Fatalf("month %d: expected %s, got %s", i+1, want, cands[i].Amount)
		}
	}

	// July compounds further off Apr+May+Jun.
	julWant := want.Mul(dec("1.035")).Mul(dec("1.04")).Mul(dec("1.045")).Round(2)
	if !cands[6].Amount.Equal(julWant) {
		t.Fatalf("july: expected %s, got %s", julWant, cands[6].Amount)
	}

	for _, cand := range cands {
		if cand.IndexPending {
			t.Fatalf("%s: unexpected pending flag with full series", cand.Date)
		}
	}
}

func TestProjectAccumulatedRateMonotonic(t *testing.T) {
	c := quarterlyContract()
	cands, err := Project(c, fullYearSeries(), indicator.Series{}, civil.Date{Year: 2025, Month: 1, Day: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	prev := decimal.NewFromInt(-1)
	for _, cand := range cands {
		if cand.IndexAccumulatedRate == nil {
			t.Fatalf("%s: missing accumulated rate", cand.Date)
		}
		if cand.IndexAccumulatedRate.LessThan(prev) {
			t.Fatalf("%s: accumulated rate decreased: %s < %s", cand.Date, cand.IndexAccumulatedRate, prev)
		}
		prev = *cand.IndexAccumulatedRate
	}
}

func TestProjectMissingIndexFreezesAndFlags(t *testing.T) {
	c := quarterlyContract()
	series := fullYearSeries(3) // March never published
	asOf := civil.Date{Year: 2024, Month: 6, Day: 15}

	cands, err := Project(c, series, indicator.Series{}, asOf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// April boundary elapsed without March data: frozen at the prior
	// rent and flagged.
	if !cands[3].Amount.Equal(dec("100000")) {
		t.Fatalf("april: expected frozen 100000, got %s", cands[3].Amount)
	}
	if !cands[3].IndexPending {
		t.Fatal("april: expected index-pending flag")
	}
	// Everything downstream of the missing boundary is provisional.
	for i := 3; i < 12; i++ {
		if !cands[i].IndexPending {
			t.Fatalf("month %d: expected index-pending flag", i+1)
		}
	}
	// Months before the gap are solid.
	for i := 0; i < 3; i++ {
		if cands[i].IndexPending {
			t.Fatalf("month %d: unexpected pending flag", i+1)
		}
	}
}

func TestProjectMissingIndexFutureBoundaryNotFlagged(t *testing.T) {
	c := quarterlyContract()
	// As of February only Jan and Feb are published and no boundary
	// has elapsed yet.
	series := fullYearSeries(3, 4, 5, 6, 7, 8, 9, 10, 11, 12)
	asOf := civil.Date{Year: 2024, Month: 2, Day: 10}

	cands, err := Project(c, series, indicator.Series{}, asOf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, cand := range cands {
		if cand.IndexPending {
			t.Fatalf("%s: future boundary must not be flagged pending", cand.Date)
		}
		if !cand.Amount.Equal(dec("100000")) {
			t.Fatalf("%s: expected 100000, got %s", cand.Date, cand.Amount)
		}
	}
}

func TestProjectFixedPercent(t *testing.T) {
	c := quarterlyContract()
	c.AdjustmentType = contract.AdjustmentFixedPercent
	c.AdjustmentIndexType = ""
	c.FixedPercent = dec("0.10")

	cands, err := Project(c, indicator.Series{}, indicator.Series{}, civil.Date{Year: 2025, Month: 1, Day: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cands[0].Amount.Equal(dec("100000")) {
		t.Fatalf("month 1: expected 100000, got %s", cands[0].Amount)
	}
	if !cands[3].Amount.Equal(dec("110000")) {
		t.Fatalf("month 4: expected 110000, got %s", cands[3].Amount)
	}
	if !cands[6].Amount.Equal(dec("121000")) {
		t.Fatalf("month 7: expected 121000, got %s", cands[6].Amount)
	}
	if !cands[9].Amount.Equal(dec("133100")) {
		t.Fatalf("month 10: expected 133100, got %s", cands[9].Amount)
	}
}

func TestProjectNoAdjustment(t *testing.T) {
	c := quarterlyContract()
	c.AdjustmentType = contract.AdjustmentNone
	c.AdjustmentIndexType = ""
	c.AdjustmentFrequencyMonths = 0

	cands, err := Project(c, indicator.Series{}, indicator.Series{}, civil.Date{Year: 2025, Month: 1, Day: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, cand := range cands {
		if !cand.Amount.Equal(dec("100000")) {
			t.Fatalf("%s: expected flat 100000, got %s", cand.Date, cand.Amount)
		}
	}
}

func TestProjectEmptyDuration(t *testing.T) {
	c := quarterlyContract()
	c.DurationMonths = 0
	cands, err := Project(c, fullYearSeries(), indicator.Series{}, civil.Date{Year: 2025, Month: 1, Day: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cands) != 0 {
		t.Fatalf("expected empty schedule, got %d candidates", len(cands))
	}
}

func TestProjectInvalidConfiguration(t *testing.T) {
	c := quarterlyContract()
	c.AdjustmentIndexType = ""
	_, err := Project(c, indicator.Series{}, indicator.Series{}, civil.Date{Year: 2025, Month: 1, Day: 1})
	if !errors.Is(err, contract.ErrInvalidAdjustment) {
		t.Fatalf("expected configuration error, got %v", err)
	}

	c = quarterlyContract()
	c.AdjustmentFrequencyMonths = 0
	_, err = Project(c, indicator.Series{}, indicator.Series{}, civil.Date{Year: 2025, Month: 1, Day: 1})
	if !errors.Is(err, contract.ErrInvalidAdjustment) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestProjectFillsBaseCurrencyAmount(t *testing.T) {
	c := quarterlyContract()
	c.AdjustmentType = contract.AdjustmentNone
	c.AdjustmentIndexType = ""
	c.AdjustmentFrequencyMonths = 0

	fx := indicator.NewSeries(indicator.TypeExchangeRate, []indicator.Point{
		{Type: indicator.TypeExchangeRate, Date: indicator.TimeOf(civil.Date{Year: 2024, Month: 2, Day: 1}), Value: dec("800")},
		{Type: indicator.TypeExchangeRate, Date: indicator.TimeOf(civil.Date{Year: 2024, Month: 5, Day: 1}), Value: dec("1000")},
	})

	cands, err := Project(c, indicator.Series{}, fx, civil.Date{Year: 2025, Month: 1, Day: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// January predates any published rate.
	if cands[0].AmountBase != nil {
		t.Fatalf("january: expected no base amount, got %s", cands[0].AmountBase)
	}
	// February through April use the 800 rate.
	if cands[1].AmountBase == nil || !cands[1].AmountBase.Equal(dec("125")) {
		t.Fatalf("february: expected base 125, got %v", cands[1].AmountBase)
	}
	if cands[3].AmountBase == nil || !cands[3].AmountBase.Equal(dec("125")) {
		t.Fatalf("april: expected base 125, got %v", cands[3].AmountBase)
	}
	// May onward the 1000 rate carries forward.
	for i := 4; i < 12; i++ {
		if cands[i].AmountBase == nil || !cands[i].AmountBase.Equal(dec("100")) {
			t.Fatalf("month %d: expected base 100, got %v", i+1, cands[i].AmountBase)
		}
	}
}
