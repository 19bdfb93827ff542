package dto

import "time"

// CreateAppointmentRequest creates a new field job on the board.
type CreateAppointmentRequest struct {
	Title           string    `json:"title" binding:"required" validate:"required"`
	SubcontractorID string    `json:"subcontractor_id" binding:"required" validate:"required"`
	StartAt         time.Time `json:"start_at" binding:"required" validate:"required"`
	EndAt           time.Time `json:"end_at" binding:"required" validate:"required"`
	Status          string    `json:"status"`
	AllDay          bool      `json:"all_day"`
	Notes           *string   `json:"notes"`
}

// UpdateAppointmentRequest patches an appointment. Nil fields are untouched.
type UpdateAppointmentRequest struct {
	Title           *string    `json:"title"`
	SubcontractorID *string    `json:"subcontractor_id"`
	StartAt         *time.Time `json:"start_at"`
	EndAt           *time.Time `json:"end_at"`
	Status          *string    `json:"status"`
	Notes           *string    `json:"notes"`
}

// CreateSubcontractorRequest registers a new board row owner.
type CreateSubcontractorRequest struct {
	Name      string  `json:"name" binding:"required"`
	Phone     *string `json:"phone"`
	SortOrder int     `json:"sort_order"`
}

// UpdateSubcontractorRequest patches a subcontractor. Nil fields are untouched.
type UpdateSubcontractorRequest struct {
	Name      *string `json:"name"`
	Phone     *string `json:"phone"`
	Active    *bool   `json:"active"`
	SortOrder *int    `json:"sort_order"`
}
