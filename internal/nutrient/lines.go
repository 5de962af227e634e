package nutrient

import (
	"log/slog"
	"strings"
)

// LineExtractor matches OCR lines against a canonical catalogue when a
// report has no usable table structure.
type LineExtractor struct {
	catalogue Catalogue
	matchers  []matcher
	marker    string
	logger    *slog.Logger
}

func NewLineExtractor(c Catalogue, logger *slog.Logger) *LineExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	marker := strings.ToLower(strings.TrimSpace(c.StartMarker))
	return &LineExtractor{catalogue: c, matchers: c.matchers(), marker: marker, logger: logger}
}

// Catalogue returns the catalogue the extractor matches against.
func (x *LineExtractor) Catalogue() Catalogue { return x.catalogue }

// StartIndex returns the index of the first line after the start marker,
// or 0 when the marker never appears.
func (x *LineExtractor) StartIndex(lines []string) int {
	if x.marker == "" {
		return 0
	}
	for i, line := range lines {
		if strings.Contains(strings.ToLower(line), x.marker) {
			return i + 1
		}
	}
	return 0
}

// Extract returns at most one record per catalogue entry, in catalogue
// order. Entries do not consume lines: a later entry may match a line an
// earlier one already used.
func (x *LineExtractor) Extract(lines []string) []Record {
	start := x.StartIndex(lines)
	window := lines[start:]
	folded := make([]string, len(window))
	for i, l := range window {
		folded[i] = strings.ToLower(l)
	}

	var out []Record
	for _, m := range x.matchers {
		rec, line, ok := m.scan(window, folded)
		if !ok {
			continue
		}
		x.logger.Debug("nutrient matched",
			"nutrient", m.label, "line", line,
			"current", rec.Current, "ideal", rec.Ideal, "unit", rec.Unit)
		out = append(out, rec)
	}
	x.logger.Debug("line extraction done", "start", start, "lines", len(window), "matched", len(out), "catalogue", len(x.matchers))
	return out
}

// scan stops at the first line containing the label or, failing the label
// on that line, one of its aliases.
func (m matcher) scan(window, folded []string) (Record, string, bool) {
	for i, f := range folded {
		for _, key := range m.keys {
			pos := strings.Index(f, key)
			if pos < 0 {
				continue
			}
			// folding can change byte lengths; fall back to the whole line if so
			tail := window[i]
			if len(f) == len(window[i]) {
				tail = window[i][pos+len(key):]
			}
			v := ParseLineValue(tail)
			// OCR may emit the range column ahead of the label
			return Record{Name: m.label, Current: v.Current, Ideal: FindRange(window[i]), Unit: v.Unit}, window[i], true
		}
	}
	return Record{}, "", false
}
