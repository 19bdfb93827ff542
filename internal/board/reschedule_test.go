package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/KentHall303/ct-dispatch-api/internal/models"
)

func TestRescheduleDropOntoHalfHourCell(t *testing.T) {
	a := models.Appointment{
		ID:              "appt-1",
		SubcontractorID: "sub-a",
		StartAt:         utc(2025, 9, 9, 9, 0),
		EndAt:           utc(2025, 9, 9, 10, 0),
	}

	u := Reschedule(a, "sub-b", utc(2025, 9, 9, 0, 0), 14.5)
	assert.Equal(t, utc(2025, 9, 9, 14, 30), u.StartAt)
	assert.Equal(t, utc(2025, 9, 9, 15, 30), u.EndAt)
	assert.Equal(t, "sub-b", u.SubcontractorID)
}

func TestReschedulePreservesDurationExactly(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		hour     float64
	}{
		{"one hour", time.Hour, 8},
		{"ninety minutes", 90 * time.Minute, 14.5},
		{"odd duration", 73 * time.Minute, 19.5},
		{"multi day", 26 * time.Hour, 7},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := models.Appointment{
				StartAt: utc(2025, 9, 9, 9, 0),
				EndAt:   utc(2025, 9, 9, 9, 0).Add(tc.duration),
			}
			u := Reschedule(a, "sub-a", utc(2025, 9, 10, 0, 0), tc.hour)
			assert.Equal(t, tc.duration, u.EndAt.Sub(u.StartAt))
		})
	}
}

func TestRescheduleOntoOriginalRowIsValid(t *testing.T) {
	a := models.Appointment{
		SubcontractorID: "sub-a",
		StartAt:         utc(2025, 9, 9, 9, 0),
		EndAt:           utc(2025, 9, 9, 10, 0),
	}
	u := Reschedule(a, "sub-a", utc(2025, 9, 9, 0, 0), 9)
	assert.Equal(t, "sub-a", u.SubcontractorID)
	assert.Equal(t, a.StartAt, u.StartAt)
	assert.Equal(t, a.EndAt, u.EndAt)
}

func TestRescheduleTargetDayChanges(t *testing.T) {
	a := models.Appointment{
		StartAt: utc(2025, 9, 9, 9, 0),
		EndAt:   utc(2025, 9, 9, 10, 0),
	}
	u := Reschedule(a, "sub-a", utc(2025, 9, 12, 0, 0), 9)
	assert.Equal(t, utc(2025, 9, 12, 9, 0), u.StartAt)
}
