package indicator

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository encapsulates database access for indicator points. The
// ingestion path is the only writer; the projector and dashboards read.
type Repository struct {
	DB *gorm.DB
}

// NewRepository creates a new repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// Upsert inserts a point or, when one already exists for (type, date),
// overwrites its values. Dates are normalized to UTC midnight before
// hitting the unique index.
func (r *Repository) Upsert(p *Point) error {
	p.Date = TimeOf(DayOf(p.Date))
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "type"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "interannual_value", "updated_at"}),
	}).Create(p).Error
}

// UpsertBatch upserts multiple points at once (no-op if empty).
func (r *Repository) UpsertBatch(points []*Point) error {
	if len(points) == 0 {
		return nil
	}
	for _, p := range points {
		p.Date = TimeOf(DayOf(p.Date))
	}
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "type"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "interannual_value", "updated_at"}),
	}).Create(points).Error
}

// SeriesFor loads the full history of one type as an immutable snapshot.
func (r *Repository) SeriesFor(typ Type) (Series, error) {
	var points []Point
	err := r.DB.
		Where("type = ?", typ).
		Order("date ASC").
		Find(&points).Error
	if err != nil {
		return Series{}, err
	}
	return NewSeries(typ, points), nil
}

// ListRange returns points of one type within [from, to], ascending.
// Zero bounds are open.
func (r *Repository) ListRange(typ Type, from, to time.Time) ([]Point, error) {
	q := r.DB.Where("type = ?", typ)
	if !from.IsZero() {
		q = q.Where("date >= ?", TimeOf(DayOf(from)))
	}
	if !to.IsZero() {
		q = q.Where("date <= ?", TimeOf(DayOf(to)))
	}
	var points []Point
	err := q.Order("date ASC").Find(&points).Error
	return points, err
}
