package board

import (
	"errors"
	"math"
	"time"

	"github.com/KentHall303/ct-dispatch-api/internal/models"
)

// ErrInvalidPixelScale is returned when a resize session is opened without a
// usable pixels-per-hour conversion factor.
var ErrInvalidPixelScale = errors.New("pixels per hour must be positive")

// ResizeSession tracks one pointer-drag resize of an appointment's trailing
// edge. It lives only for the duration of the gesture and holds no reference
// to rendered output: the pixel scale is injected by the caller.
type ResizeSession struct {
	grid          Grid
	startAt       time.Time
	originX       float64
	pixelsPerHour float64
	originalHours float64
}

// BeginResize opens a resize session for the appointment. Only the end time
// is adjustable; the start instant and owner never change during a resize.
func BeginResize(g Grid, appt models.Appointment, originX, pixelsPerHour float64) (*ResizeSession, error) {
	if pixelsPerHour <= 0 {
		return nil, ErrInvalidPixelScale
	}
	return &ResizeSession{
		grid:          g,
		startAt:       appt.StartAt,
		originX:       originX,
		pixelsPerHour: pixelsPerHour,
		originalHours: appt.Duration().Hours(),
	}, nil
}

// Preview returns the quantized duration in hours implied by the current
// pointer position. It is purely visual; nothing is persisted until End.
func (s *ResizeSession) Preview(pointerX float64) float64 {
	return s.durationAt(pointerX)
}

// End computes the committed duration from the final pointer position and
// returns the resulting end-time update. The stored end is deliberately not
// clamped to the grid's last hour: clipping off-grid time is a rendering
// concern, and clamping on write would silently discard scheduled work.
func (s *ResizeSession) End(pointerX float64) Update {
	hours := s.durationAt(pointerX)
	minutes := int(hours * 60)
	return Update{EndAt: s.startAt.Add(time.Duration(minutes) * time.Minute)}
}

// durationAt applies the numeric policy shared by preview and commit: the
// raw pointer delta converts to hours, the original duration is adjusted,
// quantized downward to the snap increment, and floored at one snap unit
// (30 minutes by default). Rounding down means a drag commits a longer
// duration only once the pointer has fully crossed the next snap cell.
func (s *ResizeSession) durationAt(pointerX float64) float64 {
	deltaHours := (pointerX - s.originX) / s.pixelsPerHour
	step := s.grid.SnapHours()
	hours := math.Floor((s.originalHours+deltaHours)/step) * step
	if hours < step {
		hours = step
	}
	return hours
}
