package tables

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/soilreport/internal/nutrient"
)

// sheetTables returns one grid per non-empty sheet. Cells left blank inside
// a row come back absent.
func (l *Loader) sheetTables(doc []byte) ([]nutrient.Grid, error) {
	f, err := excelize.OpenReader(bytes.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			l.logger.Warn("failed to close spreadsheet", "error", err)
		}
	}()

	var grids []nutrient.Grid
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		var g nutrient.Grid
		for _, cols := range rows {
			row := make(nutrient.Row, len(cols))
			for i := range cols {
				if cols[i] != "" {
					row[i] = &cols[i]
				}
			}
			g = append(g, row)
		}
		l.logger.Debug("sheet scanned", "sheet", sheet, "rows", len(g))
		if len(g) > 0 {
			grids = append(grids, g)
		}
	}
	return grids, nil
}
