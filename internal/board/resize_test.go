package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KentHall303/ct-dispatch-api/internal/models"
)

func resizeFixture(t *testing.T) (*ResizeSession, models.Appointment) {
	t.Helper()
	a := models.Appointment{
		ID:      "appt-1",
		StartAt: utc(2025, 9, 9, 9, 0),
		EndAt:   utc(2025, 9, 9, 10, 0),
	}
	s, err := BeginResize(NewGrid(7, 21, 30), a, 100, 60) // 60px per hour
	require.NoError(t, err)
	return s, a
}

func TestBeginResizeRejectsBadPixelScale(t *testing.T) {
	a := models.Appointment{StartAt: utc(2025, 9, 9, 9, 0), EndAt: utc(2025, 9, 9, 10, 0)}
	_, err := BeginResize(NewGrid(7, 21, 30), a, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidPixelScale)
	_, err = BeginResize(NewGrid(7, 21, 30), a, 0, -10)
	assert.ErrorIs(t, err, ErrInvalidPixelScale)
}

func TestResizePreviewQuantizes(t *testing.T) {
	s, _ := resizeFixture(t)

	tests := []struct {
		name     string
		pointerX float64
		want     float64
	}{
		{"no movement", 100, 1.0},
		{"plus 47 minutes", 100 + 47, 1.5},
		{"plus 29 minutes stays at the hour", 100 + 29, 1.0},
		{"plus ten minutes rounds down", 100 + 10, 1.0},
		{"plus 100 minutes", 100 + 100, 2.5},
		{"dragged far left floors at snap", 100 - 300, 0.5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, s.Preview(tc.pointerX), 1e-9)
		})
	}
}

func TestResizeEndCommitsQuantizedEnd(t *testing.T) {
	s, a := resizeFixture(t)

	// +47 minutes of pointer travel quantizes to a 90 minute duration.
	u := s.End(100 + 47)
	assert.Equal(t, utc(2025, 9, 9, 10, 30), u.EndAt)
	assert.True(t, u.StartAt.IsZero(), "resize never proposes a start change")
	assert.Empty(t, u.SubcontractorID)

	// Duration is a snap multiple and at least 30 minutes.
	dur := u.EndAt.Sub(a.StartAt)
	assert.Zero(t, dur%(30*time.Minute))
	assert.GreaterOrEqual(t, dur, 30*time.Minute)
}

func TestResizeMinimumDuration(t *testing.T) {
	s, a := resizeFixture(t)
	u := s.End(100 - 1000)
	assert.Equal(t, a.StartAt.Add(30*time.Minute), u.EndAt)
}

func TestResizeEndMayExceedGridWindow(t *testing.T) {
	a := models.Appointment{
		StartAt: utc(2025, 9, 9, 19, 0),
		EndAt:   utc(2025, 9, 9, 20, 0),
	}
	s, err := BeginResize(NewGrid(7, 21, 30), a, 0, 60)
	require.NoError(t, err)

	// Four extra hours runs past the 21:00 window end; the stored end keeps
	// the full duration and only the rendering clips it.
	u := s.End(4 * 60)
	assert.Equal(t, utc(2025, 9, 9, 24, 0), u.EndAt)
}
