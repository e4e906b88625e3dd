// Package notifier sweeps contracts for adjustment boundaries close to
// today and emits one notification per (contract, boundary).
package notifier

import (
	"context"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/civil"

	"github.com/patriciomferrari-maker/passive-income-tracker/internal/contract"
	"github.com/patriciomferrari-maker/passive-income-tracker/internal/indicator"
)

// Sender delivers a notification. The sweep decides when to notify,
// never how.
type Sender interface {
	Notify(userID uint, title, message, link string) error
}

// ContractLister is the slice of the contract store the sweep needs.
type ContractLister interface {
	ListAll() ([]contract.Contract, error)
}

// NoticeStore records which boundaries were already notified.
type NoticeStore interface {
	Exists(contractID uint, boundary time.Time) (bool, error)
	Record(contractID uint, boundary time.Time) error
}

// Service runs the adjustment sweep.
type Service struct {
	Contracts ContractLister
	Notices   NoticeStore
	Sender    Sender

	// Window around today, in days. A boundary inside
	// [today-LookBehindDays, today+LookAheadDays] triggers.
	LookBehindDays int
	LookAheadDays  int
}

// NewService wires the notifier with its window.
func NewService(contracts ContractLister, notices NoticeStore, sender Sender, lookBehindDays, lookAheadDays int) *Service {
	return &Service{
		Contracts:      contracts,
		Notices:        notices,
		Sender:         sender,
		LookBehindDays: lookBehindDays,
		LookAheadDays:  lookAheadDays,
	}
}

// CheckContractAdjustments sweeps every contract once. Already-notified
// boundaries are skipped, so re-running is harmless. Per-contract
// failures are logged and the sweep continues.
func (s *Service) CheckContractAdjustments(ctx context.Context) error {
	today := civil.DateOf(time.Now().UTC())
	contracts, err := s.Contracts.ListAll()
	if err != nil {
		return fmt.Errorf("list contracts: %w", err)
	}
	for _, c := range contracts {
		if err := ctx.Err(); err != nil {
			return err
		}
		boundary, ok := BoundaryInWindow(&c, today, s.LookBehindDays, s.LookAheadDays)
		if !ok {
			continue
		}
		boundaryTime := indicator.TimeOf(boundary)
		seen, err := s.Notices.Exists(c.ID, boundaryTime)
		if err != nil {
			log.Printf("adjustment sweep: contract %d: %v", c.ID, err)
			continue
		}
		if seen {
			continue
		}
		title := "Rent adjustment due"
		message := fmt.Sprintf("Contract with %s adjusts its rent on %s.", c.TenantName, boundary)
		link := fmt.Sprintf("/contracts/%d", c.ID)
		if err := s.Sender.Notify(c.UserID, title, message, link); err != nil {
			// Not recorded: the next sweep retries delivery.
			log.Printf("adjustment sweep: contract %d: notify failed: %v", c.ID, err)
			continue
		}
		if err := s.Notices.Record(c.ID, boundaryTime); err != nil {
			log.Printf("adjustment sweep: contract %d: record notice: %v", c.ID, err)
		}
	}
	return nil
}

// BoundaryInWindow returns the most recent adjustment boundary of c
// that falls inside [today-behind, today+ahead] days, if any. Only the
// latest qualifying boundary counts: older ones are stale.
func BoundaryInWindow(c *contract.Contract, today civil.Date, behind, ahead int) (civil.Date, bool) {
	if c.AdjustmentType == contract.AdjustmentNone || c.AdjustmentFrequencyMonths <= 0 {
		return civil.Date{}, false
	}
	start := c.StartMonth()
	windowEnd := today.AddDays(ahead)
	windowStart := today.AddDays(-behind)

	var best civil.Date
	found := false
	for m := c.AdjustmentFrequencyMonths; m < c.DurationMonths; m += c.AdjustmentFrequencyMonths {
		boundary := indicator.AddMonths(start, m)
		if boundary.After(windowEnd) {
			break
		}
		if boundary.Before(windowStart) {
			continue
		}
		if !found || boundary.After(best) {
			best, found = boundary, true
		}
	}
	return best, found
}
