// Package projector computes a rental contract's full payment schedule
// from its terms and a snapshot of the published indicator series. It
// is pure: no clock, no database, decimal-exact arithmetic throughout.
package projector

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/patriciomferrari-maker/passive-income-tracker/internal/contract"
	"github.com/patriciomferrari-maker/passive-income-tracker/internal/indicator"
)

var one = decimal.NewFromInt(1)

// Candidate is one month of computed rent, to be merged into the
// stored cashflow set by reconciliation.
type Candidate struct {
	Date                 civil.Date
	Amount               decimal.Decimal
	AmountBase           *decimal.Decimal
	IndexMonthlyRate     *decimal.Decimal
	IndexAccumulatedRate *decimal.Decimal
	// IndexPending marks a candidate downstream of an elapsed
	// adjustment boundary whose index value is not published yet. The
	// amount is the last known rent, not an error.
	IndexPending bool
}

// Project returns one candidate per calendar month of the contract,
// applying rent adjustments at each period boundary anchored at the
// start month.
//
// index is the snapshot of the contract's adjustment series, fx the
// EXCHANGE_RATE snapshot used to fill the base-currency amount. asOf
// decides whether a boundary with missing index data has elapsed
// (frozen + flagged) or is simply in the future (frozen, no flag).
//
// A contract with non-positive duration yields an empty schedule and
// no error; structurally invalid adjustment settings are the only
// error path.
func Project(c *contract.Contract, index, fx indicator.Series, asOf civil.Date) ([]Candidate, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.DurationMonths <= 0 {
		return nil, nil
	}

	start := c.StartMonth()
	freq := c.AdjustmentFrequencyMonths
	rent := c.BaseRentAmount
	accum := one
	pending := false

	out := make([]Candidate, 0, c.DurationMonths)
	for m := 0; m < c.DurationMonths; m++ {
		month := indicator.AddMonths(start, m)

		if c.AdjustmentType != contract.AdjustmentNone && m > 0 && m%freq == 0 {
			switch c.AdjustmentType {
			case contract.AdjustmentFixedPercent:
				step := one.Add(c.FixedPercent)
				rent = rent.Mul(step)
				accum = accum.Mul(step)
			case contract.AdjustmentIndexLinked:
				// The factor compounds the values published for the
				// months from the previous boundary up to, and
				// excluding, this one: a Jan-anchored quarterly
				// contract rebases April off Jan+Feb+Mar.
				factor, ok := compoundedFactor(index, indicator.AddMonths(month, -freq), freq)
				switch {
				case ok:
					rent = rent.Mul(factor)
					accum = accum.Mul(factor)
				case !month.After(asOf):
					// Elapsed boundary without index data: freeze the
					// rent and flag everything from here on so the
					// next regeneration after ingestion corrects it.
					pending = true
				}
			}
		}

		cand := Candidate{
			Date:         month,
			Amount:       rent.Round(2),
			IndexPending: pending,
		}
		if c.AdjustmentType == contract.AdjustmentIndexLinked {
			if rate, ok := index.MonthlyRate(month); ok {
				cand.IndexMonthlyRate = &rate
			}
			acc := accum.Sub(one)
			cand.IndexAccumulatedRate = &acc
		}
		if p, ok := fx.LatestOnOrBefore(month); ok && p.Value.IsPositive() {
			base := cand.Amount.Div(p.Value).Round(2)
			cand.AmountBase = &base
		}
		out = append(out, cand)
	}
	return out, nil
}

// compoundedFactor multiplies (1 + rate) over freq consecutive months
// starting at from. Any missing month aborts: a partial factor would
// under-adjust silently.
func compoundedFactor(s indicator.Series, from civil.Date, freq int) (decimal.Decimal, bool) {
	factor := one
	for i := 0; i < freq; i++ {
		rate, ok := s.MonthlyRate(indicator.AddMonths(from, i))
		if !ok {
			return decimal.Decimal{}, false
		}
		factor = factor.Mul(one.Add(rate))
	}
	return factor, true
}
