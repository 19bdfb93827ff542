package models

import "time"

// AppointmentStatus classifies an appointment for display purposes only;
// it never participates in layout or scheduling decisions.
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "SCHEDULED"
	StatusPending   AppointmentStatus = "PENDING"
	StatusOverdue   AppointmentStatus = "OVERDUE"
	StatusCompleted AppointmentStatus = "COMPLETED"
)

// Valid reports whether the status belongs to the closed set.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusPending, StatusOverdue, StatusCompleted:
		return true
	}
	return false
}

// Appointment represents a field job assigned to a subcontractor row on the
// dispatch board. Timestamps are stored in UTC.
type Appointment struct {
	ID                string            `db:"id" json:"id"`
	Title             string            `db:"title" json:"title"`
	SubcontractorID   string            `db:"subcontractor_id" json:"subcontractor_id"`
	SubcontractorName string            `db:"subcontractor_name" json:"subcontractor_name,omitempty"`
	StartAt           time.Time         `db:"start_at" json:"start_at"`
	EndAt             time.Time         `db:"end_at" json:"end_at"`
	Status            AppointmentStatus `db:"status" json:"status"`
	AllDay            bool              `db:"all_day" json:"all_day"`
	Notes             *string           `db:"notes" json:"notes,omitempty"`
	CreatedAt         time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time         `db:"updated_at" json:"updated_at"`
}

// Duration returns the scheduled length of the appointment.
func (a Appointment) Duration() time.Duration {
	return a.EndAt.Sub(a.StartAt)
}

// MultiDay reports whether the appointment's calendar-date span covers more
// than one UTC date.
func (a Appointment) MultiDay() bool {
	start := a.StartAt.UTC()
	end := a.EndAt.UTC()
	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()
	return sy != ey || sm != em || sd != ed
}

// AppointmentFilter narrows down appointment listings.
type AppointmentFilter struct {
	SubcontractorIDs []string
	From             *time.Time
	To               *time.Time
	Status           *AppointmentStatus
	Page             int
	PageSize         int
}

// AppointmentPatch captures a partial update proposed by the dispatch board.
// Nil fields are left untouched.
type AppointmentPatch struct {
	Title           *string
	SubcontractorID *string
	StartAt         *time.Time
	EndAt           *time.Time
	Status          *AppointmentStatus
	Notes           *string
}
