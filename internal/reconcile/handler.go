package reconcile

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

type Handler struct {
	Service *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Service: svc}
}

// POST /contracts/{id}/regenerate
func (h *Handler) RegenerateContract(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid contract id", http.StatusBadRequest)
		return
	}
	summary, err := h.Service.RegenerateContract(r.Context(), uint(id))
	if err != nil {
		switch {
		case errors.Is(err, ErrContractNotFound):
			http.Error(w, "contract not found", http.StatusNotFound)
		case errors.Is(err, ErrRegenerationInFlight):
			http.Error(w, "regeneration already in flight", http.StatusConflict)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(summary)
}

// POST /cashflows/regenerate-all
func (h *Handler) RegenerateAll(w http.ResponseWriter, r *http.Request) {
	results, err := h.Service.RegenerateAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(results)
}
