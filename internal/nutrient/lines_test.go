package nutrient

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLineExtractor_AlbrechtScenario(t *testing.T) {
	t.Parallel()

	x := NewLineExtractor(NewCatalogue("Calcium"), nil)
	got := x.Extract([]string{
		"Albrecht Your Acceptable",
		"Calcium (Mehlich III) 180 150-200 ppm",
	})
	want := []Record{{Name: "Calcium", Current: ptr(180), Ideal: ptr(175), Unit: "ppm"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Extract mismatch (-want +got):\n%s", diff)
	}
}

func TestLineExtractor_StartMarker(t *testing.T) {
	t.Parallel()

	x := NewLineExtractor(NewCatalogue("Zinc"), nil)
	lines := []string{
		"Zinc fertiliser applied 2019",
		"SOIL ALBRECHT YOUR ACCEPTABLE RANGE",
		"Zinc (DTPA) 3.4 ppm 5-7",
	}
	if got := x.StartIndex(lines); got != 2 {
		t.Fatalf("StartIndex = %d, want 2", got)
	}
	got := x.Extract(lines)
	want := []Record{{Name: "Zinc", Current: ptr(3.4), Ideal: ptr(6), Unit: "ppm"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Extract mismatch (-want +got):\n%s", diff)
	}

	// without the marker the whole sequence is searched
	if got := x.StartIndex(lines[2:]); got != 0 {
		t.Fatalf("StartIndex without marker = %d, want 0", got)
	}
}

func TestLineExtractor_CatalogueOrderWins(t *testing.T) {
	t.Parallel()

	x := NewLineExtractor(NewCatalogue("Calcium", "Magnesium"), nil)
	got := x.Extract([]string{
		"Magnesium 95 Calcium 180",
	})
	want := []Record{
		{Name: "Calcium", Current: ptr(180)},
		{Name: "Magnesium", Current: ptr(95)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Extract mismatch (-want +got):\n%s", diff)
	}
}

func TestLineExtractor_FirstMatchWinsAndOmitsMissing(t *testing.T) {
	t.Parallel()

	x := NewLineExtractor(NewCatalogue("Iron", "Cobalt", "Copper"), nil)
	got := x.Extract([]string{
		"Copper 1.2 ppm",
		"Iron 150 ppm 100-200",
		"Iron 999 ppm",
		"Copper 8.8 ppm",
	})
	want := []Record{
		{Name: "Iron", Current: ptr(150), Ideal: ptr(150), Unit: "ppm"},
		{Name: "Copper", Current: ptr(1.2), Unit: "ppm"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Extract mismatch (-want +got):\n%s", diff)
	}
}

func TestLineExtractor_AliasesAndCensored(t *testing.T) {
	t.Parallel()

	x := NewLineExtractor(DefaultCatalogue(), nil)
	got := x.Extract([]string{
		"Albrecht Your Acceptable",
		"jum (Mehlich II!) 1650 1500 - 2000 ppm",
		"Do (Hot CaCl2) <0.2 ppm 1-2",
		"Paramagnetism uCGS",
	})
	want := []Record{
		{Name: "Paramagnetism"},
		{Name: "Calcium (Mehlich III)", Current: ptr(1650), Ideal: ptr(1750), Unit: "ppm"},
		{Name: "Boron (Hot CaCl2)", Current: ptr(0), Ideal: ptr(1.5), Unit: "ppm"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Extract mismatch (-want +got):\n%s", diff)
	}
}

func TestLineExtractor_Empty(t *testing.T) {
	t.Parallel()

	if got := NewLineExtractor(DefaultCatalogue(), nil).Extract(nil); len(got) != 0 {
		t.Fatalf("want no records, got %v", got)
	}
}

func TestLineExtractor_RangeBeforeLabel(t *testing.T) {
	t.Parallel()

	x := NewLineExtractor(NewCatalogue("Calcium"), nil)
	got := x.Extract([]string{"150-200 Calcium 180 ppm"})
	want := []Record{{Name: "Calcium", Current: ptr(180), Ideal: ptr(175), Unit: "ppm"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Extract mismatch (-want +got):\n%s", diff)
	}
}
