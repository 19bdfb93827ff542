package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/KentHall303/ct-dispatch-api/internal/models"
)

// SubcontractorRepository persists dispatch board row owners.
type SubcontractorRepository struct {
	db      *sqlx.DB
	metrics QueryTimer
}

// NewSubcontractorRepository constructs a subcontractor repository.
func NewSubcontractorRepository(db *sqlx.DB, metrics QueryTimer) *SubcontractorRepository {
	return &SubcontractorRepository{db: db, metrics: metrics}
}

func (r *SubcontractorRepository) observe(label string, start time.Time) {
	if r.metrics != nil {
		r.metrics.ObserveDBQuery(label, time.Since(start))
	}
}

// List returns subcontractors ordered by sort order then name. The listing
// order is stable so derived palette colors stay deterministic across
// fetches.
func (r *SubcontractorRepository) List(ctx context.Context, filter models.SubcontractorFilter) ([]models.Subcontractor, error) {
	defer r.observe("subcontractors.list", time.Now())
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.Active != nil {
		where = append(where, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		where = append(where, fmt.Sprintf("name ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	query := fmt.Sprintf(`SELECT id, name, phone, active, sort_order, created_at, updated_at
FROM subcontractors WHERE %s ORDER BY sort_order ASC, name ASC, id ASC`, strings.Join(where, " AND "))

	var subs []models.Subcontractor
	if err := r.db.SelectContext(ctx, &subs, query, args...); err != nil {
		return nil, fmt.Errorf("list subcontractors: %w", err)
	}
	return subs, nil
}

// GetByID fetches a subcontractor.
func (r *SubcontractorRepository) GetByID(ctx context.Context, id string) (*models.Subcontractor, error) {
	defer r.observe("subcontractors.get", time.Now())
	const query = `SELECT id, name, phone, active, sort_order, created_at, updated_at
FROM subcontractors WHERE id = $1`
	var sub models.Subcontractor
	if err := r.db.GetContext(ctx, &sub, query, id); err != nil {
		return nil, err
	}
	return &sub, nil
}

// Create inserts a subcontractor.
func (r *SubcontractorRepository) Create(ctx context.Context, sub *models.Subcontractor) error {
	defer r.observe("subcontractors.create", time.Now())
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = now
	}
	sub.UpdatedAt = now
	query := `INSERT INTO subcontractors (id, name, phone, active, sort_order, created_at, updated_at)
VALUES (:id, :name, :phone, :active, :sort_order, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, sub); err != nil {
		return fmt.Errorf("create subcontractor: %w", err)
	}
	return nil
}

// Update modifies a subcontractor.
func (r *SubcontractorRepository) Update(ctx context.Context, sub *models.Subcontractor) error {
	defer r.observe("subcontractors.update", time.Now())
	sub.UpdatedAt = time.Now().UTC()
	query := `UPDATE subcontractors SET name = :name, phone = :phone, active = :active,
sort_order = :sort_order, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, sub); err != nil {
		return fmt.Errorf("update subcontractor: %w", err)
	}
	return nil
}
