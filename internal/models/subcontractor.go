package models

import "time"

// Subcontractor is a dispatch board row owner.
type Subcontractor struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Active    bool      `db:"active" json:"active"`
	SortOrder int       `db:"sort_order" json:"sort_order"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// boardPalette is the fixed set of row color classes. Colors are assigned by
// list index and cycle when rows outnumber the palette.
var boardPalette = []string{
	"slate",
	"sky",
	"emerald",
	"amber",
	"violet",
	"rose",
	"teal",
	"indigo",
}

// ColorClassForIndex returns the deterministic color class for the row at the
// given position in the owner listing.
func ColorClassForIndex(index int) string {
	if index < 0 {
		index = 0
	}
	return boardPalette[index%len(boardPalette)]
}

// SubcontractorFilter narrows down subcontractor listings.
type SubcontractorFilter struct {
	Active *bool
	Search string
}
