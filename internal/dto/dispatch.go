package dto

import "time"

// DropRequest commits a drag of an appointment onto a (row, half-hour cell)
// target. TargetHour is the cell's hour value, already quantized by the
// drop-zone granularity.
type DropRequest struct {
	SubcontractorID string  `json:"subcontractor_id" binding:"required" validate:"required"`
	Date            string  `json:"date" binding:"required" validate:"required"`
	TargetHour      float64 `json:"target_hour" binding:"min=0,max=24" validate:"min=0,max=24"`
}

// ResizeRequest commits a trailing-edge resize gesture. The pointer delta and
// the pixels-per-hour scale come from the rendering shell; the server never
// measures rendered output.
type ResizeRequest struct {
	PointerDeltaPx float64 `json:"pointer_delta_px"`
	PixelsPerHour  float64 `json:"pixels_per_hour" binding:"required,gt=0" validate:"required,gt=0"`
}

// ExportResponse points at a generated day-sheet download.
type ExportResponse struct {
	FileName  string    `json:"file_name"`
	Format    string    `json:"format"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
