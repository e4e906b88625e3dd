package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/patriciomferrari-maker/passive-income-tracker/internal/cashflow"
	"github.com/patriciomferrari-maker/passive-income-tracker/internal/contract"
	"github.com/patriciomferrari-maker/passive-income-tracker/internal/indicator"
	"github.com/patriciomferrari-maker/passive-income-tracker/internal/projector"
)

var (
	// ErrContractNotFound marks a regeneration request for an id that
	// does not exist.
	ErrContractNotFound = errors.New("contract not found")
	// ErrRegenerationInFlight marks a regeneration rejected because
	// another one for the same contract is still running. Interleaving
	// two runs could duplicate or lose rows under upsert-by-date.
	ErrRegenerationInFlight = errors.New("regeneration already in flight for this contract")
)

// Service projects and reconciles contract cashflows. Stateless across
// invocations aside from the store and the per-contract locks.
type Service struct {
	db         *gorm.DB
	contracts  *contract.Repository
	indicators *indicator.Repository
	cashflows  *cashflow.Repository

	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

// NewService wires the reconciliation service.
func NewService(db *gorm.DB, contracts *contract.Repository, indicators *indicator.Repository, cashflows *cashflow.Repository) *Service {
	return &Service{
		db:         db,
		contracts:  contracts,
		indicators: indicators,
		cashflows:  cashflows,
		locks:      make(map[uint]*sync.Mutex),
	}
}

func (s *Service) lockFor(contractID uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[contractID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[contractID] = l
	}
	return l
}

// RegenerateContract recomputes one contract's full schedule and merges
// it into the stored rows in a single transaction. A second trigger
// while one is in flight gets ErrRegenerationInFlight.
func (s *Service) RegenerateContract(ctx context.Context, contractID uint) (Summary, error) {
	lock := s.lockFor(contractID)
	if !lock.TryLock() {
		return Summary{}, ErrRegenerationInFlight
	}
	defer lock.Unlock()

	c, err := s.contracts.FindByID(contractID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Summary{}, ErrContractNotFound
		}
		return Summary{}, fmt.Errorf("load contract %d: %w", contractID, err)
	}

	// One snapshot per series per run: the whole schedule sees a
	// consistent view even if ingestion lands mid-projection.
	var index indicator.Series
	if c.AdjustmentType == contract.AdjustmentIndexLinked {
		index, err = s.indicators.SeriesFor(c.AdjustmentIndexType)
		if err != nil {
			return Summary{}, fmt.Errorf("load %s series: %w", c.AdjustmentIndexType, err)
		}
	}
	fx, err := s.indicators.SeriesFor(indicator.TypeExchangeRate)
	if err != nil {
		return Summary{}, fmt.Errorf("load exchange-rate series: %w", err)
	}

	candidates, err := projector.Project(c, index, fx, civil.DateOf(time.Now().UTC()))
	if err != nil {
		return Summary{}, err
	}

	existing, err := s.cashflows.ListByContract(contractID)
	if err != nil {
		return Summary{}, fmt.Errorf("load cashflows for contract %d: %w", contractID, err)
	}

	plan := BuildPlan(contractID, existing, candidates, nextGeneration(existing))
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.cashflows.WithDB(tx)
		toCreate := make([]*cashflow.Cashflow, len(plan.Create))
		for i := range plan.Create {
			toCreate[i] = &plan.Create[i]
		}
		if err := repo.CreateInBatch(toCreate); err != nil {
			return err
		}
		for i := range plan.Update {
			if err := repo.UpdateProjected(&plan.Update[i]); err != nil {
				return err
			}
		}
		return repo.DeleteProjectedByIDs(plan.Delete)
	})
	if err != nil {
		return Summary{}, fmt.Errorf("apply reconciliation for contract %d: %w", contractID, err)
	}
	return plan.Summary(), nil
}

func nextGeneration(existing []cashflow.Cashflow) int {
	next := 1
	for _, row := range existing {
		if row.SourceGeneration >= next {
			next = row.SourceGeneration + 1
		}
	}
	return next
}

// ContractResult is one entry of a batch regeneration report.
type ContractResult struct {
	ContractID uint    `json:"contractId"`
	Summary    Summary `json:"summary"`
	Error      string  `json:"error,omitempty"`
}

// RegenerateAll regenerates every contract, continuing past individual
// failures and reporting per contract. The returned error covers only
// the inability to list contracts at all.
func (s *Service) RegenerateAll(ctx context.Context) ([]ContractResult, error) {
	runID := uuid.NewString()
	contracts, err := s.contracts.ListAll()
	if err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	log.Printf("regenerate-all %s: %d contracts", runID, len(contracts))

	results := make([]ContractResult, 0, len(contracts))
	for _, c := range contracts {
		res := ContractResult{ContractID: c.ID}
		summary, err := s.RegenerateContract(ctx, c.ID)
		if err != nil {
			res.Error = err.Error()
			log.Printf("regenerate-all %s: contract %d failed: %v", runID, c.ID, err)
		} else {
			res.Summary = summary
		}
		results = append(results, res)
	}
	log.Printf("regenerate-all %s: done", runID)
	return results, nil
}
