package nutrient

import (
	"log/slog"
	"strings"
)

// headerWords are the exact cell texts that mark a header row.
var headerWords = map[string]struct{}{
	"name":             {},
	"nutrient":         {},
	"your level":       {},
	"acceptable range": {},
	"ideal level":      {},
}

// roleVocabulary is checked in order; the first role with a matching
// substring claims the cell.
var roleVocabulary = []struct {
	role  Role
	terms []string
}{
	{RoleName, []string{"name", "nutrient"}},
	{RoleCurrent, []string{"your level", "current"}},
	{RoleIdeal, []string{"acceptable range", "ideal level"}},
	{RoleUnit, []string{"unit"}},
}

// Interpreter reads nutrient records out of raw table grids. It holds no
// per-call state and is safe for concurrent use.
type Interpreter struct {
	logger *slog.Logger
}

func NewInterpreter(logger *slog.Logger) *Interpreter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Interpreter{logger: logger}
}

// Interpret emits one record per data row of every usable grid, in reading
// order. An empty result means no table carried nutrient rows.
func (in *Interpreter) Interpret(grids []Grid) []Record {
	var out []Record
	for ti, g := range grids {
		if len(g) < 2 {
			continue
		}
		hdrIdx := FindHeaderRow(g)
		rows := []Row(g)
		hm := HeaderMap{}
		if hdrIdx >= 0 {
			hm = BuildHeaderMap(g[hdrIdx])
			rows = g[hdrIdx+1:]
			in.logger.Debug("table header detected", "table", ti, "row", hdrIdx, "columns", hm)
		} else {
			in.logger.Warn("no header row detected, using positional columns", "table", ti, "rows", len(g))
		}
		for _, row := range rows {
			rec, ok := parseRow(row, hm)
			if !ok {
				continue
			}
			in.logger.Debug("parsed nutrient row", "table", ti, "name", rec.Name, "unit", rec.Unit)
			out = append(out, rec)
		}
	}
	return out
}

// FindHeaderRow returns the index of the first header row, -1 if none.
func FindHeaderRow(g Grid) int {
	for i, row := range g {
		for _, c := range row {
			if c == nil {
				continue
			}
			if _, ok := headerWords[strings.ToLower(strings.TrimSpace(*c))]; ok {
				return i
			}
		}
	}
	return -1
}

// BuildHeaderMap assigns each header cell at most one role. When two cells
// claim the same role the rightmost wins, so "Acceptable Range | Ideal Level"
// reads the ideal level.
func BuildHeaderMap(header Row) HeaderMap {
	hm := HeaderMap{}
	for idx, c := range header {
		if c == nil {
			continue
		}
		text := strings.ToLower(strings.TrimSpace(*c))
		if text == "" {
			continue
		}
		if role, ok := matchRole(text); ok {
			hm[role] = idx
		}
	}
	return hm
}

func matchRole(text string) (Role, bool) {
	for _, v := range roleVocabulary {
		for _, term := range v.terms {
			if strings.Contains(text, term) {
				return v.role, true
			}
		}
	}
	return "", false
}

func parseRow(row Row, hm HeaderMap) (Record, bool) {
	if row.Populated() < 2 {
		return Record{}, false
	}
	currentRaw := row.Cell(hm.Column(RoleCurrent))
	idealRaw := row.Cell(hm.Column(RoleIdeal))
	unit := row.Cell(hm.Column(RoleUnit))
	if unit == "" {
		unit = InferUnit(currentRaw, idealRaw)
	}
	return Record{
		Name:    row.Cell(hm.Column(RoleName)),
		Current: ptr(ParseScalar(currentRaw)),
		Ideal:   ParseRangeMidpoint(idealRaw),
		Unit:    unit,
	}, true
}
