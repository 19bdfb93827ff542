package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/KentHall303/ct-dispatch-api/internal/models"
)

// UserRepository persists console users.
type UserRepository struct {
	db      *sqlx.DB
	metrics QueryTimer
}

// NewUserRepository constructs a user repository.
func NewUserRepository(db *sqlx.DB, metrics QueryTimer) *UserRepository {
	return &UserRepository{db: db, metrics: metrics}
}

func (r *UserRepository) observe(label string, start time.Time) {
	if r.metrics != nil {
		r.metrics.ObserveDBQuery(label, time.Since(start))
	}
}

// FindByEmail fetches a user by email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	defer r.observe("users.find_by_email", time.Now())
	const query = `SELECT id, email, password_hash, full_name, role, active, last_login, created_at, updated_at
FROM users WHERE email = $1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID fetches a user by id.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	defer r.observe("users.find_by_id", time.Now())
	const query = `SELECT id, email, password_hash, full_name, role, active, last_login, created_at, updated_at
FROM users WHERE id = $1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateLastLogin records the most recent login instant.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	defer r.observe("users.update_last_login", time.Now())
	if _, err := r.db.ExecContext(ctx, "UPDATE users SET last_login = $1 WHERE id = $2", at, id); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}
