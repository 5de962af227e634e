// Package tables recovers raw table grids from a document's text layer.
package tables

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/soilreport/constants"
	"github.com/joseph-ayodele/soilreport/internal/common"
	"github.com/joseph-ayodele/soilreport/internal/nutrient"
)

// Loader finds tables in PDF text layers and spreadsheet sheets. Images and
// scanned PDFs carry no text layer and yield no tables. Bytes it cannot
// recognise at all are an error.
type Loader struct {
	logger *slog.Logger
}

func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

func (l *Loader) ExtractTables(ctx context.Context, doc []byte) ([]nutrient.Grid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	format := constants.DetectFormat(doc)

	var (
		grids []nutrient.Grid
		err   error
	)
	switch format {
	case constants.PDF:
		grids, err = l.pdfTables(doc)
	case constants.XLSX:
		grids, err = l.sheetTables(doc)
	case constants.IMAGE:
		l.logger.Debug("no text layer for format", "format", format)
		return nil, nil
	default:
		return nil, fmt.Errorf("load tables: %w", common.ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, err
	}
	l.logger.Debug("tables extracted", "format", format, "tables", len(grids), "duration_ms", time.Since(start).Milliseconds())
	return grids, nil
}
