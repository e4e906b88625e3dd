package indicator

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Series is an immutable snapshot of one indicator type's full history,
// keyed by month. The projector receives a Series per call and never
// reads live data mid-projection, so one run always sees a consistent
// view of the whole schedule.
type Series struct {
	typ     Type
	byMonth map[civil.Date]Point
	sorted  []civil.Date
}

// NewSeries builds a snapshot from points ordered ascending by date.
// Dates are normalized to their month start; a later point for the same
// month replaces an earlier one.
func NewSeries(typ Type, points []Point) Series {
	s := Series{typ: typ, byMonth: make(map[civil.Date]Point, len(points))}
	for _, p := range points {
		month := MonthOf(DayOf(p.Date))
		if _, seen := s.byMonth[month]; !seen {
			s.sorted = append(s.sorted, month)
		}
		s.byMonth[month] = p
	}
	return s
}

// Type returns the series type.
func (s Series) Type() Type { return s.typ }

// Empty reports whether the snapshot holds no points.
func (s Series) Empty() bool { return len(s.byMonth) == 0 }

// At returns the point published for the month containing d.
func (s Series) At(d civil.Date) (Point, bool) {
	p, ok := s.byMonth[MonthOf(d)]
	return p, ok
}

// MonthlyRate returns the month's value as a fraction (a published 3.2
// means 3.2%, returned as 0.032).
func (s Series) MonthlyRate(d civil.Date) (decimal.Decimal, bool) {
	p, ok := s.At(d)
	if !ok {
		return decimal.Decimal{}, false
	}
	return p.Value.Div(hundred), true
}

// LatestOnOrBefore returns the most recent point whose month is not
// after d. Used for exchange-rate lookups, where the last published
// rate carries forward.
func (s Series) LatestOnOrBefore(d civil.Date) (Point, bool) {
	target := MonthOf(d)
	var best civil.Date
	found := false
	for _, m := range s.sorted {
		if m.After(target) {
			continue
		}
		if !found || m.After(best) {
			best, found = m, true
		}
	}
	if !found {
		return Point{}, false
	}
	return s.byMonth[best], true
}
