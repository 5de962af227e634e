// Package nutrient turns table grids and OCR lines from soil laboratory
// reports into normalized nutrient records.
package nutrient

import "strings"

// Record is one recognized nutrient measurement.
// Current is nil only on the OCR path when the matched line has no number;
// Ideal is nil when the source has no target range.
type Record struct {
	Name    string   `json:"name"`
	Current *float64 `json:"current"`
	Ideal   *float64 `json:"ideal"`
	Unit    string   `json:"unit"`
}

// Row is one table row; a nil cell is absent.
type Row []*string

// Grid is a raw table as produced by a document loader.
type Grid []Row

// RowOf builds a Row where every value is present (possibly blank).
func RowOf(cells ...string) Row {
	row := make(Row, len(cells))
	for i := range cells {
		row[i] = &cells[i]
	}
	return row
}

// Cell returns the trimmed text at idx, "" when out of range or absent.
func (r Row) Cell(idx int) string {
	if idx < 0 || idx >= len(r) || r[idx] == nil {
		return ""
	}
	return strings.TrimSpace(*r[idx])
}

// Populated counts cells holding non-blank text.
func (r Row) Populated() int {
	n := 0
	for _, c := range r {
		if c != nil && strings.TrimSpace(*c) != "" {
			n++
		}
	}
	return n
}

// Role is a logical column in a nutrient table.
type Role string

const (
	RoleName    Role = "name"
	RoleCurrent Role = "current"
	RoleIdeal   Role = "ideal"
	RoleUnit    Role = "unit"
)

// HeaderMap maps roles to column indexes for one table.
type HeaderMap map[Role]int

// defaultColumns is used for roles the header did not name.
var defaultColumns = HeaderMap{
	RoleName:    0,
	RoleCurrent: 1,
	RoleIdeal:   2,
}

// Column resolves role, falling back to the positional default; -1 if none.
func (h HeaderMap) Column(role Role) int {
	if idx, ok := h[role]; ok {
		return idx
	}
	if idx, ok := defaultColumns[role]; ok {
		return idx
	}
	return -1
}

func ptr(f float64) *float64 { return &f }
