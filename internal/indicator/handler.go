package indicator

import (
	"encoding/json"
	"net/http"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

type Handler struct {
	Repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{Repo: repo}
}

// PointDTO is the ingestion payload. Dates travel as plain calendar
// days ("2024-03-01") so callers in any timezone produce the same row.
type PointDTO struct {
	Type             Type             `json:"type"`
	Date             string           `json:"date"`
	Value            decimal.Decimal  `json:"value"`
	InterannualValue *decimal.Decimal `json:"interannualValue"`
}

func (in *PointDTO) toPoint() (*Point, error) {
	day, err := civil.ParseDate(in.Date)
	if err != nil {
		return nil, err
	}
	p := &Point{
		Type:  in.Type,
		Date:  TimeOf(day),
		Value: in.Value,
	}
	if in.InterannualValue != nil {
		p.InterannualValue = decimal.NewNullDecimal(*in.InterannualValue)
	}
	return p, nil
}

// POST /indicators
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in PointDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if !in.Type.Valid() {
		http.Error(w, "unknown indicator type", http.StatusBadRequest)
		return
	}
	p, err := in.toPoint()
	if err != nil {
		http.Error(w, "invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	if err := h.Repo.Upsert(p); err != nil {
		http.Error(w, "failed to store indicator point", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(p)
}

// POST /indicators/batch
func (h *Handler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	var in []PointDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	points := make([]*Point, 0, len(in))
	for i := range in {
		if !in[i].Type.Valid() {
			http.Error(w, "unknown indicator type", http.StatusBadRequest)
			return
		}
		p, err := in[i].toPoint()
		if err != nil {
			http.Error(w, "invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		points = append(points, p)
	}
	if err := h.Repo.UpsertBatch(points); err != nil {
		http.Error(w, "failed to store indicator points", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]int{"stored": len(points)})
}

// GET /indicators?type=INFLATION_INDEX&from=2024-01-01&to=2024-12-01
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	typ := Type(r.URL.Query().Get("type"))
	if !typ.Valid() {
		http.Error(w, "unknown indicator type", http.StatusBadRequest)
		return
	}
	var from, to time.Time
	if v := r.URL.Query().Get("from"); v != "" {
		d, err := civil.ParseDate(v)
		if err != nil {
			http.Error(w, "invalid from date", http.StatusBadRequest)
			return
		}
		from = TimeOf(d)
	}
	if v := r.URL.Query().Get("to"); v != "" {
		d, err := civil.ParseDate(v)
		if err != nil {
			http.Error(w, "invalid to date", http.StatusBadRequest)
			return
		}
		to = TimeOf(d)
	}
	points, err := h.Repo.ListRange(typ, from, to)
	if err != nil {
		http.Error(w, "failed to list indicator points", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(points)
}
