package contract

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/patriciomferrari-maker/passive-income-tracker/internal/auth"
)

// Regenerator recomputes a contract's cashflow schedule. Create and
// edit trigger it so the stored schedule never trails the terms.
type Regenerator interface {
	RegenerateContract(ctx context.Context, contractID uint) error
}

// RegeneratorFunc adapts a plain function to the Regenerator interface.
type RegeneratorFunc func(ctx context.Context, contractID uint) error

func (f RegeneratorFunc) RegenerateContract(ctx context.Context, contractID uint) error {
	return f(ctx, contractID)
}

type Handler struct {
	Repo        *Repository
	Regenerator Regenerator
}

func NewHandler(repo *Repository, regen Regenerator) *Handler {
	return &Handler{Repo: repo, Regenerator: regen}
}

// POST /contracts
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "missing user", http.StatusUnauthorized)
		return
	}
	c, err := in.toContract(userID)
	if err != nil {
		http.Error(w, "invalid startDate, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	if err := c.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Repo.Create(c); err != nil {
		http.Error(w, "failed to create contract", http.StatusInternalServerError)
		return
	}
	if h.Regenerator != nil {
		if err := h.Regenerator.RegenerateContract(r.Context(), c.ID); err != nil {
			log.Printf("contract %d: initial cashflow generation failed: %v", c.ID, err)
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(c)
}

// GET /contracts
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "missing user", http.StatusUnauthorized)
		return
	}
	list, err := h.Repo.ListByUser(userID)
	if err != nil {
		http.Error(w, "failed to list contracts", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

// GET /contracts/{id}
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid contract id", http.StatusBadRequest)
		return
	}
	c, err := h.Repo.FindByID(uint(id))
	if err != nil {
		http.Error(w, "contract not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(c)
}

// PUT /contracts/{id}
// StartDate is never touched here; edits to terms trigger a full
// regeneration that preserves REAL rows.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid contract id", http.StatusBadRequest)
		return
	}
	c, err := h.Repo.FindByID(uint(id))
	if err != nil {
		http.Error(w, "contract not found", http.StatusNotFound)
		return
	}
	var in UpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	in.apply(c)
	if err := c.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Repo.Update(c); err != nil {
		http.Error(w, "failed to update contract", http.StatusInternalServerError)
		return
	}
	if h.Regenerator != nil {
		if err := h.Regenerator.RegenerateContract(r.Context(), c.ID); err != nil {
			log.Printf("contract %d: regeneration after edit failed: %v", c.ID, err)
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(c)
}

// DELETE /contracts/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid contract id", http.StatusBadRequest)
		return
	}
	if err := h.Repo.Delete(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "contract not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to delete contract", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
