package tables

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/soilreport/internal/common"
	"github.com/joseph-ayodele/soilreport/internal/nutrient"
)

// run places s at (x, y) using a 10pt font with 5pt per character.
func run(x, y float64, s string) pdf.Text {
	return pdf.Text{Font: "Helvetica", FontSize: 10, X: x, Y: y, W: 5 * float64(len(s)), S: s}
}

func cellsOf(g nutrient.Grid) [][]string {
	out := make([][]string, len(g))
	for i, r := range g {
		for j := range r {
			out[i] = append(out[i], r.Cell(j))
		}
	}
	return out
}

func TestGridsFromText(t *testing.T) {
	t.Parallel()

	texts := []pdf.Text{
		// title line, single cell, not part of a table
		run(50, 800, "Soil"), run(72, 800, "Analysis"),
		// header, runs out of order to exercise sorting
		run(200, 700, "Your"), run(50, 700, "Name"), run(225, 700, "Level"),
		run(350, 700, "Acceptable"), run(405, 700, "Range"),
		// body rows; one baseline jitters within tolerance
		run(50, 680, "Calcium"), run(200, 680.8, "1200"), run(350, 680, "1000-1500"),
		run(50, 660, "Zinc"), run(200, 660, "<1"), run(350, 660, "2-4"),
		// footer breaks the table
		run(50, 600, "Page"), run(74, 600, "1"),
	}

	grids := GridsFromText(texts)
	if len(grids) != 1 {
		t.Fatalf("grids = %d, want 1", len(grids))
	}
	want := [][]string{
		{"Name", "Your Level", "Acceptable Range"},
		{"Calcium", "1200", "1000-1500"},
		{"Zinc", "<1", "2-4"},
	}
	if diff := cmp.Diff(want, cellsOf(grids[0])); diff != "" {
		t.Fatalf("grid mismatch (-want +got):\n%s", diff)
	}
}

func TestGridsFromText_SplitsSeparateTables(t *testing.T) {
	t.Parallel()

	texts := []pdf.Text{
		run(50, 700, "A"), run(200, 700, "1"),
		run(50, 690, "B"), run(200, 690, "2"),
		run(50, 650, "Notes"),
		run(50, 600, "C"), run(200, 600, "3"),
		run(50, 590, "D"), run(200, 590, "4"),
		run(50, 550, "End"),
	}
	grids := GridsFromText(texts)
	if len(grids) != 2 {
		t.Fatalf("grids = %d, want 2", len(grids))
	}
}

func TestGridsFromText_Empty(t *testing.T) {
	t.Parallel()

	if grids := GridsFromText(nil); len(grids) != 0 {
		t.Fatalf("grids = %d, want 0", len(grids))
	}
}

func TestExtractTables_XLSX(t *testing.T) {
	t.Parallel()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"Name", "Your Level", "Acceptable Range", "Unit"},
		{"Calcium", "1200", "1000-1500", "ppm"},
		{"Zinc", "", "2-4", "ppm"},
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			t.Fatal(err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	grids, err := NewLoader(nil).ExtractTables(context.Background(), buf.Bytes())
	if err != nil {
		t.Fatalf("ExtractTables: %v", err)
	}
	if len(grids) != 1 || len(grids[0]) != 3 {
		t.Fatalf("unexpected grids: %v", grids)
	}
	if got := grids[0][1].Cell(1); got != "1200" {
		t.Errorf("calcium level = %q, want 1200", got)
	}
	if grids[0][2][1] != nil {
		t.Errorf("blank cell should be absent")
	}

	recs := nutrient.NewInterpreter(nil).Interpret(grids)
	if len(recs) != 2 || recs[0].Name != "Calcium" || recs[0].Unit != "ppm" {
		t.Fatalf("unexpected records: %+v", recs)
	}
}

func TestExtractTables_NoTextLayer(t *testing.T) {
	t.Parallel()

	l := NewLoader(nil)
	for name, doc := range map[string][]byte{
		"png":  {0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A},
		"jpeg": {0xFF, 0xD8, 0xFF, 0xE0},
	} {
		grids, err := l.ExtractTables(context.Background(), doc)
		if err != nil || grids != nil {
			t.Errorf("%s: got (%v, %v), want (nil, nil)", name, grids, err)
		}
	}
}

func TestExtractTables_UnrecognisedBytes(t *testing.T) {
	t.Parallel()

	l := NewLoader(nil)
	for name, doc := range map[string][]byte{
		"text":  []byte("this is not a document at all"),
		"short": {0x01},
	} {
		grids, err := l.ExtractTables(context.Background(), doc)
		if !errors.Is(err, common.ErrUnsupportedFormat) {
			t.Errorf("%s: err = %v, want ErrUnsupportedFormat", name, err)
		}
		if grids != nil {
			t.Errorf("%s: grids = %v, want nil", name, grids)
		}
	}
}

func TestExtractTables_BrokenPDF(t *testing.T) {
	t.Parallel()

	if _, err := NewLoader(nil).ExtractTables(context.Background(), []byte("%PDF-1.4\ngarbage")); err == nil {
		t.Fatal("expected error for unreadable pdf")
	}
}
