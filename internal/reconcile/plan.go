// Package reconcile merges freshly projected cashflow candidates into
// the stored rows of a contract without ever disturbing rows the user
// confirmed as REAL.
package reconcile

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/patriciomferrari-maker/passive-income-tracker/internal/cashflow"
	"github.com/patriciomferrari-maker/passive-income-tracker/internal/indicator"
	"github.com/patriciomferrari-maker/passive-income-tracker/internal/projector"
)

// Summary reports what one reconciliation did.
type Summary struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Deleted int `json:"deleted"`
	Skipped int `json:"skipped"`
}

// Plan is the full set of row changes one reconciliation will apply.
// Building it is pure; applying it happens in one transaction.
type Plan struct {
	Create  []cashflow.Cashflow
	Update  []cashflow.Cashflow
	Delete  []uint
	Skipped int
}

// Summary converts the plan to its post-apply report.
func (p Plan) Summary() Summary {
	return Summary{
		Created: len(p.Create),
		Updated: len(p.Update),
		Deleted: len(p.Delete),
		Skipped: p.Skipped,
	}
}

// BuildPlan diffs the stored rows of one contract against a fresh
// candidate schedule. Per candidate date:
//
//   - no stored row: create as PROJECTED
//   - stored REAL row: skip entirely
//   - stored PROJECTED row: update only when values differ, so an
//     unchanged regeneration reports zero updates
//
// Stored PROJECTED rows for dates absent from the candidate set (a
// shortened duration) are deleted; REAL rows never are.
func BuildPlan(contractID uint, existing []cashflow.Cashflow, candidates []projector.Candidate, generation int) Plan {
	var plan Plan

	byDate := make(map[civil.Date]cashflow.Cashflow, len(existing))
	for _, row := range existing {
		byDate[indicator.DayOf(row.Date)] = row
	}

	covered := make(map[civil.Date]bool, len(candidates))
	for _, cand := range candidates {
		covered[cand.Date] = true
		row, ok := byDate[cand.Date]
		if !ok {
			plan.Create = append(plan.Create, newRow(contractID, cand, generation))
			continue
		}
		if row.Status == cashflow.StatusReal {
			plan.Skipped++
			continue
		}
		if sameValues(row, cand) {
			plan.Skipped++
			continue
		}
		row.AmountLocal = cand.Amount
		row.AmountBase = nullDec(cand.AmountBase, 2)
		row.IndexMonthlyRate = nullDec(cand.IndexMonthlyRate, 8)
		row.IndexAccumulatedRate = nullDec(cand.IndexAccumulatedRate, 8)
		row.IndexPending = cand.IndexPending
		row.SourceGeneration = generation
		plan.Update = append(plan.Update, row)
	}

	for _, row := range existing {
		if covered[indicator.DayOf(row.Date)] {
			continue
		}
		if row.Status == cashflow.StatusReal {
			continue
		}
		plan.Delete = append(plan.Delete, row.ID)
	}
	return plan
}

func newRow(contractID uint, cand projector.Candidate, generation int) cashflow.Cashflow {
	return cashflow.Cashflow{
		ContractID:           contractID,
		Date:                 indicator.TimeOf(cand.Date),
		AmountLocal:          cand.Amount,
		AmountBase:           nullDec(cand.AmountBase, 2),
		Status:               cashflow.StatusProjected,
		IndexMonthlyRate:     nullDec(cand.IndexMonthlyRate, 8),
		IndexAccumulatedRate: nullDec(cand.IndexAccumulatedRate, 8),
		IndexPending:         cand.IndexPending,
		SourceGeneration:     generation,
	}
}

// nullDec rounds to the column scale before storing so a stored row
// compares equal to the same candidate on the next run.
func nullDec(p *decimal.Decimal, places int32) decimal.NullDecimal {
	if p == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(p.Round(places))
}

func sameValues(row cashflow.Cashflow, cand projector.Candidate) bool {
	return row.AmountLocal.Equal(cand.Amount) &&
		row.IndexPending == cand.IndexPending &&
		nullEqual(row.AmountBase, nullDec(cand.AmountBase, 2)) &&
		nullEqual(row.IndexMonthlyRate, nullDec(cand.IndexMonthlyRate, 8)) &&
		nullEqual(row.IndexAccumulatedRate, nullDec(cand.IndexAccumulatedRate, 8))
}

func nullEqual(a, b decimal.NullDecimal) bool {
	if a.Valid != b.Valid {
		return false
	}
	if !a.Valid {
		return true
	}
	return a.Decimal.Equal(b.Decimal)
}
