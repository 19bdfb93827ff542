package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func interval(id string, left, width float64) PlacedAppointment {
	return PlacedAppointment{ID: id, Left: left, Width: width}
}

func TestStackLayersEmpty(t *testing.T) {
	s := StackLayers(nil)
	assert.Equal(t, 1, s.LayerCount)
	assert.Empty(t, s.LayerOf)
}

func TestStackLayersNoOverlap(t *testing.T) {
	s := StackLayers([]PlacedAppointment{
		interval("a", 0.0, 0.2),
		interval("b", 0.3, 0.2),
		interval("c", 0.6, 0.2),
	})
	assert.Equal(t, 1, s.LayerCount)
	assert.Equal(t, 0, s.LayerOf["a"])
	assert.Equal(t, 0, s.LayerOf["b"])
	assert.Equal(t, 0, s.LayerOf["c"])
}

func TestStackLayersTouchingEndpointsShareLayer(t *testing.T) {
	s := StackLayers([]PlacedAppointment{
		interval("a", 0.0, 0.5),
		interval("b", 0.5, 0.5),
	})
	assert.Equal(t, 1, s.LayerCount)
}

func TestStackLayersOverlapSplitsLayers(t *testing.T) {
	s := StackLayers([]PlacedAppointment{
		interval("long", 0.0, 0.8),
		interval("early", 0.1, 0.2),
		interval("late", 0.5, 0.2),
	})
	require.Equal(t, 2, s.LayerCount)
	// The wider bar wins the lower layer; both short bars fit on layer one.
	assert.Equal(t, 0, s.LayerOf["long"])
	assert.Equal(t, 1, s.LayerOf["early"])
	assert.Equal(t, 1, s.LayerOf["late"])
}

func TestStackLayersLayerCountMatchesMaxClique(t *testing.T) {
	tests := []struct {
		name   string
		placed []PlacedAppointment
		want   int
	}{
		{
			"three way pileup",
			[]PlacedAppointment{
				interval("a", 0.0, 0.6),
				interval("b", 0.1, 0.6),
				interval("c", 0.2, 0.6),
			},
			3,
		},
		{
			"chain overlaps pairwise only",
			[]PlacedAppointment{
				interval("a", 0.0, 0.3),
				interval("b", 0.2, 0.3),
				interval("c", 0.4, 0.3),
			},
			2,
		},
		{
			"staircase reuses freed layers",
			[]PlacedAppointment{
				interval("a", 0.0, 0.2),
				interval("b", 0.1, 0.2),
				interval("c", 0.25, 0.2),
				interval("d", 0.5, 0.2),
			},
			2,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := StackLayers(tc.placed)
			assert.Equal(t, tc.want, s.LayerCount)
			assertNoOverlapWithinLayers(t, tc.placed, s)
		})
	}
}

func TestStackLayersIdempotent(t *testing.T) {
	placed := []PlacedAppointment{
		interval("a", 0.0, 0.4),
		interval("b", 0.2, 0.4),
		interval("c", 0.3, 0.1),
		interval("d", 0.7, 0.2),
	}
	first := StackLayers(placed)
	second := StackLayers(placed)
	assert.Equal(t, first.LayerCount, second.LayerCount)
	assert.Equal(t, first.LayerOf, second.LayerOf)
}

func TestStackLayersDeterministicAcrossInputOrder(t *testing.T) {
	forward := []PlacedAppointment{
		interval("a", 0.1, 0.3),
		interval("b", 0.1, 0.3),
		interval("c", 0.3, 0.2),
	}
	reversed := []PlacedAppointment{forward[2], forward[1], forward[0]}

	first := StackLayers(forward)
	second := StackLayers(reversed)
	assert.Equal(t, first.LayerOf, second.LayerOf)
	// Identical intervals fall back to id order.
	assert.Equal(t, 0, first.LayerOf["a"])
	assert.Equal(t, 1, first.LayerOf["b"])
}

func assertNoOverlapWithinLayers(t *testing.T, placed []PlacedAppointment, s Stack) {
	t.Helper()
	for i, a := range placed {
		for _, b := range placed[i+1:] {
			if s.LayerOf[a.ID] != s.LayerOf[b.ID] {
				continue
			}
			aStart, aEnd := a.Left, a.Left+a.Width
			bStart, bEnd := b.Left, b.Left+b.Width
			assert.True(t, aEnd <= bStart || aStart >= bEnd,
				"layer %d holds overlapping intervals %s and %s", s.LayerOf[a.ID], a.ID, b.ID)
		}
	}
}

func TestRowMetricsRowHeight(t *testing.T) {
	m := RowMetrics{EventHeightPx: 28, RowPaddingPx: 6, LayerGapPx: 4, MinRowHeightPx: 48}

	assert.Equal(t, 48, m.RowHeight(0))
	assert.Equal(t, 48, m.RowHeight(1)) // 12+28 = 40, floored at minimum
	assert.Equal(t, 72, m.RowHeight(2))  // 12 + 56 + 4
	assert.Equal(t, 104, m.RowHeight(3)) // 12 + 84 + 8
}

func TestRowMetricsEventTop(t *testing.T) {
	m := RowMetrics{EventHeightPx: 28, RowPaddingPx: 6, LayerGapPx: 4, MinRowHeightPx: 48}
	assert.Equal(t, 6, m.EventTop(0))
	assert.Equal(t, 38, m.EventTop(1))
	assert.Equal(t, 70, m.EventTop(2))
}
