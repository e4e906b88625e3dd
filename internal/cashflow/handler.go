package cashflow

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/patriciomferrari-maker/passive-income-tracker/internal/auth"
	"github.com/patriciomferrari-maker/passive-income-tracker/internal/indicator"
)

type Handler struct {
	Repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{Repo: repo}
}

// ConfirmDTO carries the actually paid amount for one row. PaidAt is a
// calendar day; empty means today.
type ConfirmDTO struct {
	Amount decimal.Decimal `json:"amount"`
	PaidAt string          `json:"paidAt"`
}

// GET /contracts/{id}/cashflows
func (h *Handler) ListByContract(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid contract id", http.StatusBadRequest)
		return
	}
	rows, err := h.Repo.ListByContract(uint(id))
	if err != nil {
		http.Error(w, "failed to list cashflows", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(rows)
}

// PUT /cashflows/{id}/confirm
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid cashflow id", http.StatusBadRequest)
		return
	}
	var in ConfirmDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if in.Amount.LessThanOrEqual(decimal.Zero) {
		http.Error(w, "amount must be positive", http.StatusBadRequest)
		return
	}
	paidAt := time.Now().UTC()
	if in.PaidAt != "" {
		day, err := civil.ParseDate(in.PaidAt)
		if err != nil {
			http.Error(w, "invalid paidAt, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		paidAt = indicator.TimeOf(day)
	}
	if err := h.Repo.Confirm(uint(id), in.Amount, paidAt); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "cashflow not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to confirm cashflow", http.StatusInternalServerError)
		return
	}
	row, err := h.Repo.FindByID(uint(id))
	if err != nil {
		http.Error(w, "failed to load cashflow", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(row)
}

// PUT /cashflows/{id}/revert
func (h *Handler) Revert(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid cashflow id", http.StatusBadRequest)
		return
	}
	if err := h.Repo.Revert(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "cashflow not found or not REAL", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to revert cashflow", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// GET /reports/monthly-income
func (h *Handler) MonthlyIncomeReport(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "missing user", http.StatusUnauthorized)
		return
	}
	rows, err := h.Repo.MonthlyIncome(userID)
	if err != nil {
		http.Error(w, "failed to build report", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(rows)
}
