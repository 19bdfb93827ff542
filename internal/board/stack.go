package board

import "sort"

// PlacedAppointment pairs an appointment id with its horizontal interval on
// the grid, expressed as the half-open fraction range [Left, Left+Width).
type PlacedAppointment struct {
	ID    string
	Left  float64
	Width float64
}

// Stack maps appointment ids to vertical layer indexes within one
// subcontractor row. It is recomputed on every render and never persisted.
type Stack struct {
	LayerOf    map[string]int
	LayerCount int
}

// StackLayers partitions overlapping placements into the minimal number of
// non-overlapping layers using greedy interval coloring. Input order does not
// matter: candidates are sorted by left edge ascending, width descending,
// then id ascending, so identical input always reproduces identical layers.
// Touching endpoints do not count as overlap.
func StackLayers(placed []PlacedAppointment) Stack {
	if len(placed) == 0 {
		return Stack{LayerOf: map[string]int{}, LayerCount: 1}
	}

	sorted := make([]PlacedAppointment, len(placed))
	copy(sorted, placed)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Left != b.Left {
			return a.Left < b.Left
		}
		if a.Width != b.Width {
			return a.Width > b.Width
		}
		return a.ID < b.ID
	})

	layerOf := make(map[string]int, len(sorted))
	var layers [][]PlacedAppointment

	for _, p := range sorted {
		assigned := -1
		for k, occupants := range layers {
			if !overlapsAny(p, occupants) {
				assigned = k
				break
			}
		}
		if assigned < 0 {
			layers = append(layers, nil)
			assigned = len(layers) - 1
		}
		layers[assigned] = append(layers[assigned], p)
		layerOf[p.ID] = assigned
	}

	return Stack{LayerOf: layerOf, LayerCount: len(layers)}
}

func overlapsAny(p PlacedAppointment, occupants []PlacedAppointment) bool {
	pStart, pEnd := p.Left, p.Left+p.Width
	for _, o := range occupants {
		oStart, oEnd := o.Left, o.Left+o.Width
		if pEnd > oStart && pStart < oEnd {
			return true
		}
	}
	return false
}

// RowMetrics holds the pixel constants used to derive row heights and event
// offsets from a layer count. Values come from configuration, never from
// measuring rendered output.
type RowMetrics struct {
	EventHeightPx  int
	RowPaddingPx   int
	LayerGapPx     int
	MinRowHeightPx int
}

// RowHeight returns the pixel height required to fit the given number of
// layers, floored at the configured minimum so empty rows stay consistent.
func (m RowMetrics) RowHeight(layerCount int) int {
	if layerCount < 1 {
		layerCount = 1
	}
	h := 2*m.RowPaddingPx + layerCount*m.EventHeightPx + (layerCount-1)*m.LayerGapPx
	if h < m.MinRowHeightPx {
		return m.MinRowHeightPx
	}
	return h
}

// EventTop returns the pixel offset of an event rectangle on the given layer.
func (m RowMetrics) EventTop(layer int) int {
	if layer < 0 {
		layer = 0
	}
	return m.RowPaddingPx + layer*(m.EventHeightPx+m.LayerGapPx)
}
