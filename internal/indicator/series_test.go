package indicator

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

func point(y int, m time.Month, value string) Point {
	v, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return Point{
		Type:  TypeInflationIndex,
		Date:  TimeOf(civil.Date{Year: y, Month: m, Day: 1}),
		Value: v,
	}
}

func TestSeriesMonthlyRate(t *testing.T) {
	s := NewSeries(TypeInflationIndex, []Point{
		point(2024, time.January, "2.0"),
		point(2024, time.February, "2.5"),
	})

	rate, ok := s.MonthlyRate(civil.Date{Year: 2024, Month: 1, Day: 15})
	if !ok {
		t.Fatal("expected january rate")
	}
	if !rate.Equal(decimal.RequireFromString("0.02")) {
		t.Fatalf("expected 0.02, got %s", rate)
	}

	if _, ok := s.MonthlyRate(civil.Date{Year: 2024, Month: 3, Day: 1}); ok {
		t.Fatal("march has no data")
	}
}

func TestSeriesNormalizesToMonthStart(t *testing.T) {
	// A point stored mid-month still keys to its month.
	p := point(2024, time.January, "2.0")
	p.Date = time.Date(2024, time.January, 17, 13, 45, 0, 0, time.UTC)
	s := NewSeries(TypeInflationIndex, []Point{p})

	if _, ok := s.At(civil.Date{Year: 2024, Month: 1, Day: 1}); !ok {
		t.Fatal("expected lookup by month start to hit")
	}
}

func TestSeriesLatestOnOrBefore(t *testing.T) {
	s := NewSeries(TypeExchangeRate, []Point{
		point(2024, time.February, "800"),
		point(2024, time.May, "1000"),
	})

	p, ok := s.LatestOnOrBefore(civil.Date{Year: 2024, Month: 4, Day: 1})
	if !ok {
		t.Fatal("expected the february rate to carry forward")
	}
	if !p.Value.Equal(decimal.NewFromInt(800)) {
		t.Fatalf("expected 800, got %s", p.Value)
	}

	p, ok = s.LatestOnOrBefore(civil.Date{Year: 2024, Month: 12, Day: 1})
	if !ok || !p.Value.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("expected 1000, got %v %v", p.Value, ok)
	}

	if _, ok := s.LatestOnOrBefore(civil.Date{Year: 2024, Month: 1, Day: 1}); ok {
		t.Fatal("expected no rate before the first point")
	}
}

func TestAddMonthsAndMonthOf(t *testing.T) {
	start := civil.Date{Year: 2024, Month: 11, Day: 1}
	got := AddMonths(start, 3)
	want := civil.Date{Year: 2025, Month: 2, Day: 1}
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}

	if MonthOf(civil.Date{Year: 2024, Month: 6, Day: 23}) != (civil.Date{Year: 2024, Month: 6, Day: 1}) {
		t.Fatal("MonthOf must clamp to day 1")
	}
}
