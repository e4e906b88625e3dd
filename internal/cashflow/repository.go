package cashflow

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository encapsulates database access for cashflow rows. Writes go
// through the reconciliation path (or the confirm/revert endpoints);
// everything else only reads.
type Repository struct {
	DB *gorm.DB
}

// NewRepository creates a new repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// WithDB returns a copy of the repo bound to a specific *gorm.DB (e.g. a tx).
func (r *Repository) WithDB(db *gorm.DB) *Repository {
	if db == nil {
		db = r.DB
	}
	return &Repository{DB: db}
}

// ListByContract returns one contract's rows ordered by date.
func (r *Repository) ListByContract(contractID uint) ([]Cashflow, error) {
	var rows []Cashflow
	err := r.DB.
		Where("contract_id = ?", contractID).
		Order("date ASC").
		Find(&rows).Error
	return rows, err
}

// FindByID returns a single row by its ID.
func (r *Repository) FindByID(id uint) (*Cashflow, error) {
	var row Cashflow
	if err := r.DB.First(&row, id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// CreateInBatch inserts multiple rows at once (no-op if empty).
func (r *Repository) CreateInBatch(rows []*Cashflow) error {
	if len(rows) == 0 {
		return nil
	}
	return r.DB.Create(rows).Error
}

// UpdateProjected overwrites the computed fields of one PROJECTED row.
// The status guard makes the write a no-op if the row was confirmed
// REAL between plan and apply.
func (r *Repository) UpdateProjected(row *Cashflow) error {
	return r.DB.Model(&Cashflow{}).
		Where("id = ? AND status = ?", row.ID, StatusProjected).
		Updates(map[string]interface{}{
			"amount_local":           row.AmountLocal,
			"amount_base":            row.AmountBase,
			"index_monthly_rate":     row.IndexMonthlyRate,
			"index_accumulated_rate": row.IndexAccumulatedRate,
			"index_pending":          row.IndexPending,
			"source_generation":      row.SourceGeneration,
		}).Error
}

// DeleteProjectedByIDs removes stale PROJECTED rows. REAL rows are
// excluded in SQL as well as in the plan.
func (r *Repository) DeleteProjectedByIDs(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.DB.
		Where("id IN ? AND status = ?", ids, StatusProjected).
		Delete(&Cashflow{}).Error
}

// Confirm flips one row to REAL with the actually paid amount and date.
func (r *Repository) Confirm(id uint, amount decimal.Decimal, paidAt time.Time) error {
	res := r.DB.Model(&Cashflow{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       StatusReal,
			"amount_local": amount,
			"paid_at":      paidAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Revert flips a REAL row back to PROJECTED so the next regeneration
// recomputes it.
func (r *Repository) Revert(id uint) error {
	res := r.DB.Model(&Cashflow{}).
		Where("id = ? AND status = ?", id, StatusReal).
		Updates(map[string]interface{}{
			"status":  StatusProjected,
			"paid_at": nil,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MonthlyIncomeRow is one month of the portfolio report.
type MonthlyIncomeRow struct {
	Month         time.Time           `json:"month"`
	TotalLocal    decimal.Decimal     `json:"totalLocal"`
	TotalBase     decimal.NullDecimal `json:"totalBase"`
	RealRows      int                 `json:"realRows"`
	PendingRows   int                 `json:"pendingRows"`
	AwaitingIndex bool                `json:"awaitingIndex" gorm:"-"`
}

// MonthlyIncome aggregates one user's cashflows per month. Months with
// index-pending rows are flagged so dashboards show "awaiting index"
// instead of treating the frozen amount as final.
func (r *Repository) MonthlyIncome(userID uint) ([]MonthlyIncomeRow, error) {
	var rows []MonthlyIncomeRow
	err := r.DB.Table("cashflows").
		Select(`cashflows.date AS month,
			SUM(cashflows.amount_local) AS total_local,
			SUM(cashflows.amount_base) AS total_base,
			SUM(CASE WHEN cashflows.status = 'REAL' THEN 1 ELSE 0 END) AS real_rows,
			SUM(CASE WHEN cashflows.index_pending THEN 1 ELSE 0 END) AS pending_rows`).
		Joins("JOIN contracts ON contracts.id = cashflows.contract_id").
		Where("contracts.user_id = ? AND contracts.deleted_at IS NULL", userID).
		Group("cashflows.date").
		Order("cashflows.date ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].AwaitingIndex = rows[i].PendingRows > 0
	}
	return rows, nil
}
