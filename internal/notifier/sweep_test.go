package notifier

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/patriciomferrari-maker/passive-income-tracker/internal/contract"
	"github.com/patriciomferrari-maker/passive-income-tracker/internal/indicator"
)

type fakeContracts struct {
	list []contract.Contract
}

func (f *fakeContracts) ListAll() ([]contract.Contract, error) { return f.list, nil }

type memNotices struct {
	seen map[string]bool
}

func (m *memNotices) key(contractID uint, boundary time.Time) string {
	return fmt.Sprintf("%d|%s", contractID, boundary.Format("2006-01-02"))
}

func (m *memNotices) Exists(contractID uint, boundary time.Time) (bool, error) {
	return m.seen[m.key(contractID, boundary)], nil
}

func (m *memNotices) Record(contractID uint, boundary time.Time) error {
	m.seen[m.key(contractID, boundary)] = true
	return nil
}

type fakeSender struct {
	calls []string
	fail  bool
}

func (f *fakeSender) Notify(userID uint, title, message, link string) error {
	if f.fail {
		return errors.New("delivery down")
	}
	f.calls = append(f.calls, fmt.Sprintf("%d:%s", userID, link))
	return nil
}

// dueContract has its first boundary exactly at the start of the
// current month, which a generous window always covers.
func dueContract(id uint) contract.Contract {
	today := civil.DateOf(time.Now().UTC())
	start := indicator.AddMonths(indicator.MonthOf(today), -3)
	return contract.Contract{
		Model:                     gorm.Model{ID: id},
		UserID:                    42,
		TenantName:                "Gomez",
		StartDate:                 indicator.TimeOf(start),
		BaseRentAmount:            decimal.NewFromInt(100000),
		AdjustmentType:            contract.AdjustmentIndexLinked,
		AdjustmentIndexType:       indicator.TypeInflationIndex,
		AdjustmentFrequencyMonths: 3,
		DurationMonths:            24,
	}
}

func TestSweepNotifiesOnceAndIsIdempotent(t *testing.T) {
	sender := &fakeSender{}
	svc := NewService(
		&fakeContracts{list: []contract.Contract{dueContract(1)}},
		&memNotices{seen: map[string]bool{}},
		sender,
		40, 40,
	)

	if err := svc.CheckContractAdjustments(context.Background()); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(sender.calls) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(sender.calls))
	}
	if sender.calls[0] != "42:/contracts/1" {
		t.Fatalf("unexpected notification target: %s", sender.calls[0])
	}

	// Re-running must not re-notify the same boundary.
	if err := svc.CheckContractAdjustments(context.Background()); err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if len(sender.calls) != 1 {
		t.Fatalf("sweep re-notified: %d calls", len(sender.calls))
	}
}

func TestSweepRetriesAfterDeliveryFailure(t *testing.T) {
	sender := &fakeSender{fail: true}
	notices := &memNotices{seen: map[string]bool{}}
	svc := NewService(&fakeContracts{list: []contract.Contract{dueContract(1)}}, notices, sender, 40, 40)

	if err := svc.CheckContractAdjustments(context.Background()); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(notices.seen) != 0 {
		t.Fatal("failed delivery must not record the boundary")
	}

	// Delivery recovers; the next sweep picks the boundary up again.
	sender.fail = false
	if err := svc.CheckContractAdjustments(context.Background()); err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if len(sender.calls) != 1 {
		t.Fatalf("expected 1 notification after recovery, got %d", len(sender.calls))
	}
	if len(notices.seen) != 1 {
		t.Fatal("expected the boundary recorded after delivery")
	}
}

func TestSweepIgnoresContractsWithoutAdjustment(t *testing.T) {
	c := dueContract(1)
	c.AdjustmentType = contract.AdjustmentNone
	sender := &fakeSender{}
	svc := NewService(&fakeContracts{list: []contract.Contract{c}}, &memNotices{seen: map[string]bool{}}, sender, 40, 40)

	if err := svc.CheckContractAdjustments(context.Background()); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(sender.calls) != 0 {
		t.Fatalf("expected no notifications, got %d", len(sender.calls))
	}
}
