package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KentHall303/ct-dispatch-api/internal/models"
)

func appt(start, end time.Time) models.Appointment {
	return models.Appointment{ID: "appt-1", StartAt: start, EndAt: end}
}

func utc(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestPlaceSingleDay(t *testing.T) {
	g := NewGrid(7, 21, 30)
	day := utc(2025, 9, 9, 0, 0)

	p := Place(g, appt(utc(2025, 9, 9, 9, 0), utc(2025, 9, 9, 10, 30)), day)
	require.True(t, p.Visible)
	assert.Equal(t, SpanSingle, p.Span)
	assert.InDelta(t, 2.0/14, p.Left, 1e-9)
	assert.InDelta(t, 1.5/14, p.Width, 1e-9)
}

func TestPlaceOutsideWindowIsInvisible(t *testing.T) {
	g := NewGrid(7, 21, 30)
	day := utc(2025, 9, 9, 0, 0)

	tests := []struct {
		name       string
		start, end time.Time
	}{
		{"after window", utc(2025, 9, 9, 22, 0), utc(2025, 9, 9, 23, 0)},
		{"before window", utc(2025, 9, 9, 5, 0), utc(2025, 9, 9, 6, 30)},
		{"starts at window end", utc(2025, 9, 9, 21, 0), utc(2025, 9, 9, 22, 0)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := Place(g, appt(tc.start, tc.end), day)
			assert.False(t, p.Visible)
		})
	}
}

func TestPlaceMultiDayClipping(t *testing.T) {
	g := NewGrid(7, 21, 30)
	start := utc(2025, 9, 8, 0, 0)
	end := utc(2025, 9, 11, 23, 59)
	a := appt(start, end)

	tests := []struct {
		name    string
		day     time.Time
		visible bool
		span    DaySpan
		left    float64
		width   float64
	}{
		{"first day", utc(2025, 9, 8, 0, 0), true, SpanStart, 0, 1},
		{"middle day", utc(2025, 9, 9, 0, 0), true, SpanMiddle, 0, 1},
		{"last day", utc(2025, 9, 11, 0, 0), true, SpanEnd, 0, 1},
		{"day before", utc(2025, 9, 7, 0, 0), false, "", 0, 0},
		{"day after", utc(2025, 9, 12, 0, 0), false, "", 0, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := Place(g, a, tc.day)
			require.Equal(t, tc.visible, p.Visible)
			if !tc.visible {
				return
			}
			assert.Equal(t, tc.span, p.Span)
			assert.InDelta(t, tc.left, p.Left, 1e-9)
			assert.InDelta(t, tc.width, p.Width, 1e-9)
		})
	}
}

func TestPlaceMultiDayPartialEdges(t *testing.T) {
	g := NewGrid(7, 21, 30)

	// Starts mid-afternoon, runs into the next day.
	a := appt(utc(2025, 9, 8, 15, 0), utc(2025, 9, 9, 11, 0))

	first := Place(g, a, utc(2025, 9, 8, 0, 0))
	require.True(t, first.Visible)
	assert.Equal(t, SpanStart, first.Span)
	assert.InDelta(t, 8.0/14, first.Left, 1e-9)
	assert.InDelta(t, 6.0/14, first.Width, 1e-9)

	last := Place(g, a, utc(2025, 9, 9, 0, 0))
	require.True(t, last.Visible)
	assert.Equal(t, SpanEnd, last.Span)
	assert.InDelta(t, 0.0, last.Left, 1e-9)
	assert.InDelta(t, 4.0/14, last.Width, 1e-9)
}

func TestPlaceStartBeforeWindowClampsUp(t *testing.T) {
	g := NewGrid(7, 21, 30)
	a := appt(utc(2025, 9, 8, 3, 0), utc(2025, 9, 9, 12, 0))

	p := Place(g, a, utc(2025, 9, 8, 0, 0))
	require.True(t, p.Visible)
	assert.Equal(t, SpanStart, p.Span)
	assert.InDelta(t, 0.0, p.Left, 1e-9)
	assert.InDelta(t, 1.0, p.Width, 1e-9)
}

func TestPlaceEndDayBeforeWindowIsInvisible(t *testing.T) {
	g := NewGrid(7, 21, 30)
	// Ends at 03:00 on its last day: nothing of it falls inside the window.
	a := appt(utc(2025, 9, 8, 20, 0), utc(2025, 9, 9, 3, 0))

	p := Place(g, a, utc(2025, 9, 9, 0, 0))
	assert.False(t, p.Visible)
}

func TestPlaceMalformedAppointmentSkipped(t *testing.T) {
	g := NewGrid(7, 21, 30)
	day := utc(2025, 9, 9, 0, 0)

	p := Place(g, appt(utc(2025, 9, 9, 10, 0), utc(2025, 9, 9, 10, 0)), day)
	assert.False(t, p.Visible)

	p = Place(g, appt(utc(2025, 9, 9, 10, 0), utc(2025, 9, 9, 9, 0)), day)
	assert.False(t, p.Visible)
}

func TestPlaceWidthNeverOverflowsRightEdge(t *testing.T) {
	g := NewGrid(7, 21, 30)
	a := appt(utc(2025, 9, 9, 19, 0), utc(2025, 9, 9, 23, 30))

	p := Place(g, a, utc(2025, 9, 9, 0, 0))
	require.True(t, p.Visible)
	assert.LessOrEqual(t, p.Left+p.Width, 1.0+1e-9)
}
