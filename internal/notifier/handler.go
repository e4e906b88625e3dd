package notifier

import (
	"net/http"
)

type Handler struct {
	Service *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Service: svc}
}

// POST /admin/check-adjustments
// Manual trigger for the same sweep cron runs; safe to call repeatedly.
func (h *Handler) CheckAdjustments(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.CheckContractAdjustments(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
