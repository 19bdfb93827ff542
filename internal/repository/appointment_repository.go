package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/KentHall303/ct-dispatch-api/internal/models"
)

const appointmentColumns = `a.id, a.title, a.subcontractor_id, s.name AS subcontractor_name,
a.start_at, a.end_at, a.status, a.all_day, a.notes, a.created_at, a.updated_at`

// AppointmentRepository persists dispatch board appointments.
type AppointmentRepository struct {
	db      *sqlx.DB
	metrics QueryTimer
}

// NewAppointmentRepository constructs an appointment repository.
func NewAppointmentRepository(db *sqlx.DB, metrics QueryTimer) *AppointmentRepository {
	return &AppointmentRepository{db: db, metrics: metrics}
}

func (r *AppointmentRepository) observe(label string, start time.Time) {
	if r.metrics != nil {
		r.metrics.ObserveDBQuery(label, time.Since(start))
	}
}

// ListWindow returns appointments for the given rows whose time range
// intersects [from, to). Multi-day appointments that merely pass through the
// window are included; the layout layer decides day-by-day visibility.
func (r *AppointmentRepository) ListWindow(ctx context.Context, subcontractorIDs []string, from, to time.Time) ([]models.Appointment, error) {
	defer r.observe("appointments.list_window", time.Now())
	query := fmt.Sprintf(`SELECT %s FROM appointments a
JOIN subcontractors s ON s.id = a.subcontractor_id
WHERE a.start_at < $1 AND a.end_at > $2`, appointmentColumns)
	args := []interface{}{to, from}
	if len(subcontractorIDs) > 0 {
		query += " AND a.subcontractor_id = ANY($3)"
		args = append(args, pq.Array(subcontractorIDs))
	}
	query += " ORDER BY a.start_at ASC, a.id ASC"

	var appts []models.Appointment
	if err := r.db.SelectContext(ctx, &appts, query, args...); err != nil {
		return nil, fmt.Errorf("list appointments window: %w", err)
	}
	return appts, nil
}

// List returns appointments matching filters with pagination.
func (r *AppointmentRepository) List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, int, error) {
	defer r.observe("appointments.list", time.Now())
	where := []string{"1=1"}
	args := []interface{}{}
	if len(filter.SubcontractorIDs) > 0 {
		where = append(where, fmt.Sprintf("a.subcontractor_id = ANY($%d)", len(args)+1))
		args = append(args, pq.Array(filter.SubcontractorIDs))
	}
	if filter.From != nil {
		where = append(where, fmt.Sprintf("a.end_at > $%d", len(args)+1))
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		where = append(where, fmt.Sprintf("a.start_at < $%d", len(args)+1))
		args = append(args, *filter.To)
	}
	if filter.Status != nil {
		where = append(where, fmt.Sprintf("a.status = $%d", len(args)+1))
		args = append(args, string(*filter.Status))
	}
	whereClause := strings.Join(where, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s FROM appointments a
JOIN subcontractors s ON s.id = a.subcontractor_id
WHERE %s ORDER BY a.start_at ASC, a.id ASC LIMIT %d OFFSET %d`, appointmentColumns, whereClause, size, offset)
	var appts []models.Appointment
	if err := r.db.SelectContext(ctx, &appts, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list appointments: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM appointments a WHERE %s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count appointments: %w", err)
	}
	return appts, total, nil
}

// GetByID fetches a single appointment.
func (r *AppointmentRepository) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	defer r.observe("appointments.get", time.Now())
	query := fmt.Sprintf(`SELECT %s FROM appointments a
JOIN subcontractors s ON s.id = a.subcontractor_id
WHERE a.id = $1`, appointmentColumns)
	var appt models.Appointment
	if err := r.db.GetContext(ctx, &appt, query, id); err != nil {
		return nil, err
	}
	return &appt, nil
}

// Create inserts an appointment.
func (r *AppointmentRepository) Create(ctx context.Context, appt *models.Appointment) error {
	defer r.observe("appointments.create", time.Now())
	if appt.ID == "" {
		appt.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if appt.CreatedAt.IsZero() {
		appt.CreatedAt = now
	}
	appt.UpdatedAt = now
	query := `INSERT INTO appointments (id, title, subcontractor_id, start_at, end_at, status, all_day, notes, created_at, updated_at)
VALUES (:id, :title, :subcontractor_id, :start_at, :end_at, :status, :all_day, :notes, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, appt); err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}
	return nil
}

// Patch applies a partial update and returns the stored row. Only non-nil
// fields of the patch are written; updated_at always advances.
func (r *AppointmentRepository) Patch(ctx context.Context, id string, patch models.AppointmentPatch) (*models.Appointment, error) {
	defer r.observe("appointments.patch", time.Now())
	set := []string{}
	args := []interface{}{}
	add := func(column string, value interface{}) {
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)+1))
		args = append(args, value)
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.SubcontractorID != nil {
		add("subcontractor_id", *patch.SubcontractorID)
	}
	if patch.StartAt != nil {
		add("start_at", patch.StartAt.UTC())
	}
	if patch.EndAt != nil {
		add("end_at", patch.EndAt.UTC())
	}
	if patch.Status != nil {
		add("status", string(*patch.Status))
	}
	if patch.Notes != nil {
		add("notes", *patch.Notes)
	}
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}
	add("updated_at", time.Now().UTC())

	args = append(args, id)
	query := fmt.Sprintf("UPDATE appointments SET %s WHERE id = $%d", strings.Join(set, ", "), len(args))
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("patch appointment: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, fmt.Errorf("patch appointment %s: no rows affected", id)
	}
	return r.GetByID(ctx, id)
}

// Delete removes an appointment.
func (r *AppointmentRepository) Delete(ctx context.Context, id string) error {
	defer r.observe("appointments.delete", time.Now())
	if _, err := r.db.ExecContext(ctx, "DELETE FROM appointments WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	return nil
}

// MarkOverdue flags scheduled appointments whose end has passed. Returns the
// number of rows transitioned.
func (r *AppointmentRepository) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	defer r.observe("appointments.mark_overdue", time.Now())
	res, err := r.db.ExecContext(ctx,
		`UPDATE appointments SET status = $1, updated_at = $2 WHERE status = $3 AND end_at < $2`,
		string(models.StatusOverdue), now.UTC(), string(models.StatusScheduled))
	if err != nil {
		return 0, fmt.Errorf("mark overdue appointments: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mark overdue rows affected: %w", err)
	}
	return affected, nil
}
