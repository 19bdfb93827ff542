package board

import (
	"math"
	"time"

	"github.com/KentHall303/ct-dispatch-api/internal/models"
)

// Update is the start/end/owner change proposed by a completed gesture.
// Fields left zero-valued are not part of the proposal.
type Update struct {
	StartAt         time.Time
	EndAt           time.Time
	SubcontractorID string
}

// Reschedule converts a drop onto a (row, half-hour cell) target into a new
// start/end pair. The target hour arrives already quantized by the drop-cell
// granularity. Duration is always preserved exactly; only the start instant
// and the owning row change. Dropping onto the original row is a valid no-op
// reassignment.
func Reschedule(appt models.Appointment, targetSubID string, day time.Time, targetHour float64) Update {
	start := atHour(day, targetHour)
	return Update{
		StartAt:         start,
		EndAt:           start.Add(appt.Duration()),
		SubcontractorID: targetSubID,
	}
}

// atHour returns the instant at the given fractional hour on the day's UTC
// calendar date.
func atHour(day time.Time, hour float64) time.Time {
	y, m, d := day.UTC().Date()
	minutes := int(math.Round(hour * 60))
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Add(time.Duration(minutes) * time.Minute)
}
