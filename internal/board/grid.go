// Package board implements the dispatch timeline layout engine: converting
// clock time to horizontal grid positions, clipping multi-day appointments to
// a visible day, stacking overlapping appointments into layers, and turning
// drop/resize gestures into start/end updates.
//
// Everything in this package is pure and synchronous. Persistence and
// transport concerns live in the service and handler layers.
package board

import "math"

// Grid defaults.
const (
	DefaultStartHour   = 7
	DefaultEndHour     = 21
	DefaultSnapMinutes = 30
)

// Grid bounds the visible working window of one board day and maps clock
// hours to fractional horizontal positions. It is a plain value, cheap to
// rebuild on every request.
type Grid struct {
	StartHour   int
	EndHour     int
	SnapMinutes int
}

// NewGrid returns a grid with the provided bounds, falling back to the
// defaults whenever the arguments do not satisfy startHour < endHour or a
// positive snap increment.
func NewGrid(startHour, endHour, snapMinutes int) Grid {
	if startHour >= endHour {
		startHour = DefaultStartHour
		endHour = DefaultEndHour
	}
	if snapMinutes <= 0 {
		snapMinutes = DefaultSnapMinutes
	}
	return Grid{StartHour: startHour, EndHour: endHour, SnapMinutes: snapMinutes}
}

// TotalHours returns the width of the visible window in hours.
func (g Grid) TotalHours() float64 {
	return float64(g.EndHour - g.StartHour)
}

// SnapHours returns the snap increment expressed in hours.
func (g Grid) SnapHours() float64 {
	return float64(g.SnapMinutes) / 60
}

// HourToFraction maps a clock hour onto [0, 1] across the visible window.
// Callers clamp out-of-window hours before converting.
func (g Grid) HourToFraction(hour float64) float64 {
	return (hour - float64(g.StartHour)) / g.TotalHours()
}

// FractionToHour is the inverse of HourToFraction, used when translating a
// drop position back into clock time.
func (g Grid) FractionToHour(f float64) float64 {
	return float64(g.StartHour) + f*g.TotalHours()
}

// Quantize rounds an hour value to the nearest snap increment.
func (g Grid) Quantize(hour float64) float64 {
	step := g.SnapHours()
	return math.Round(hour/step) * step
}

// Clamp forces an hour value into the visible window.
func (g Grid) Clamp(hour float64) float64 {
	if hour < float64(g.StartHour) {
		return float64(g.StartHour)
	}
	if hour > float64(g.EndHour) {
		return float64(g.EndHour)
	}
	return hour
}
