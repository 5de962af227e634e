package tables

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/joseph-ayodele/soilreport/internal/nutrient"
)

const (
	rowTolerance = 2.0 // points; runs closer than this in Y share a row
	cellGap      = 1.5 // in font sizes; wider X gaps start a new cell
	wordGap      = 0.2 // in font sizes; wider X gaps insert a space
)

func (l *Loader) pdfTables(doc []byte) (grids []nutrient.Grid, err error) {
	// the reader panics on some malformed content streams
	defer func() {
		if r := recover(); r != nil {
			grids, err = nil, fmt.Errorf("read pdf text layer: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(doc), int64(len(doc)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		texts := p.Content().Text
		pageGrids := GridsFromText(texts)
		l.logger.Debug("pdf page scanned", "page", i, "runs", len(texts), "tables", len(pageGrids))
		grids = append(grids, pageGrids...)
	}
	return grids, nil
}

type textRow struct {
	y     float64
	texts []pdf.Text
}

// GridsFromText lays positioned text runs out as rows and cells and returns
// every run of two or more consecutive multi-cell rows as a grid.
func GridsFromText(texts []pdf.Text) []nutrient.Grid {
	rows := groupRows(texts)

	var (
		grids []nutrient.Grid
		cur   nutrient.Grid
	)
	flush := func() {
		if len(cur) >= 2 {
			grids = append(grids, cur)
		}
		cur = nil
	}
	for _, r := range rows {
		cells := splitCells(r.texts)
		if len(cells) < 2 {
			flush()
			continue
		}
		cur = append(cur, nutrient.RowOf(cells...))
	}
	flush()
	return grids
}

// groupRows buckets runs by baseline, top of the page first.
func groupRows(texts []pdf.Text) []textRow {
	var rows []textRow
	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		placed := false
		for i := range rows {
			if math.Abs(rows[i].y-t.Y) < rowTolerance {
				rows[i].texts = append(rows[i].texts, t)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, textRow{y: t.Y, texts: []pdf.Text{t}})
		}
	}
	// PDF space grows upwards
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].y > rows[j].y })
	for i := range rows {
		ts := rows[i].texts
		sort.SliceStable(ts, func(a, b int) bool { return ts[a].X < ts[b].X })
	}
	return rows
}

// splitCells joins runs left to right, starting a new cell at wide gaps.
func splitCells(texts []pdf.Text) []string {
	var (
		cells []string
		b     strings.Builder
		end   float64
	)
	for i, t := range texts {
		size := t.FontSize
		if size <= 0 {
			size = 1
		}
		if i > 0 {
			gap := t.X - end
			switch {
			case gap > cellGap*size:
				cells = append(cells, strings.TrimSpace(b.String()))
				b.Reset()
			case gap > wordGap*size:
				b.WriteByte(' ')
			}
		}
		b.WriteString(t.S)
		end = t.X + t.W
	}
	if b.Len() > 0 {
		cells = append(cells, strings.TrimSpace(b.String()))
	}
	return cells
}
