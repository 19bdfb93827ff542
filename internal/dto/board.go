package dto

import "time"

// BoardEvent is one positioned rectangle on a dispatch board row. Left and
// Width are percentages of the row width; Top is a pixel offset derived from
// the event's layer.
type BoardEvent struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	LeftPct    float64   `json:"left_pct"`
	WidthPct   float64   `json:"width_pct"`
	TopPx      int       `json:"top_px"`
	Layer      int       `json:"layer"`
	Span       string    `json:"span"`
	Status     string    `json:"status"`
	ColorClass string    `json:"color_class"`
	StartAt    time.Time `json:"start_at"`
	EndAt      time.Time `json:"end_at"`
	Resizable  bool      `json:"resizable"`
}

// BoardRow is one subcontractor lane with its stacked events.
type BoardRow struct {
	SubcontractorID   string       `json:"subcontractor_id"`
	SubcontractorName string       `json:"subcontractor_name"`
	ColorClass        string       `json:"color_class"`
	RowHeightPx       int          `json:"row_height_px"`
	LayerCount        int          `json:"layer_count"`
	Events            []BoardEvent `json:"events"`
}

// BoardResponse is the full render model for one day of the dispatch board.
type BoardResponse struct {
	Date        string     `json:"date"`
	StartHour   int        `json:"start_hour"`
	EndHour     int        `json:"end_hour"`
	SnapMinutes int        `json:"snap_minutes"`
	Rows        []BoardRow `json:"rows"`
}
