package board

import (
	"time"

	"github.com/KentHall303/ct-dispatch-api/internal/models"
)

// DaySpan classifies how an appointment relates to the visible day. Rendering
// rounds only the leading edge of a "start" segment and only the trailing
// edge of an "end" segment so multi-day bars read as one contiguous strip.
type DaySpan string

const (
	SpanSingle DaySpan = "single"
	SpanStart  DaySpan = "start"
	SpanMiddle DaySpan = "middle"
	SpanEnd    DaySpan = "end"
)

// Placement is the on-grid rectangle for one appointment on one day. Left and
// Width are fractions of the grid width. Visible=false is the normal outcome
// for most appointment/day pairs and is never an error.
type Placement struct {
	Left    float64
	Width   float64
	Visible bool
	Span    DaySpan
}

// Place computes the placement of an appointment on the given visible day.
//
// Multi-day classification compares UTC calendar dates only; the hour offsets
// within the day come from the full UTC instants. Malformed appointments
// (end at or before start) and appointments outside the grid window degrade
// to an invisible placement.
func Place(g Grid, appt models.Appointment, day time.Time) Placement {
	if !appt.EndAt.After(appt.StartAt) {
		return Placement{}
	}

	start := appt.StartAt.UTC()
	end := appt.EndAt.UTC()
	startDate := dateOnly(start)
	endDate := dateOnly(end)
	visible := dateOnly(day.UTC())

	if visible.Before(startDate) || visible.After(endDate) {
		return Placement{}
	}

	span := SpanSingle
	if !startDate.Equal(endDate) {
		switch {
		case visible.Equal(startDate):
			span = SpanStart
		case visible.Equal(endDate):
			span = SpanEnd
		default:
			span = SpanMiddle
		}
	}

	var windowStart, windowEnd float64
	switch span {
	case SpanSingle:
		windowStart = hourOf(start)
		windowEnd = hourOf(end)
		if windowStart < float64(g.StartHour) || windowStart >= float64(g.EndHour) {
			return Placement{}
		}
	case SpanStart:
		windowStart = g.Clamp(hourOf(start))
		windowEnd = float64(g.EndHour)
	case SpanEnd:
		windowStart = float64(g.StartHour)
		windowEnd = g.Clamp(hourOf(end))
	case SpanMiddle:
		windowStart = float64(g.StartHour)
		windowEnd = float64(g.EndHour)
	}

	left := g.HourToFraction(windowStart)
	width := g.HourToFraction(windowEnd) - left
	if width > 1-left {
		width = 1 - left
	}
	if width <= 0 {
		return Placement{}
	}

	return Placement{Left: left, Width: width, Visible: true, Span: span}
}

// dateOnly truncates an instant to its UTC calendar date.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// hourOf returns the fractional hour of day for a UTC instant.
func hourOf(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60 + float64(t.Second())/3600
}
