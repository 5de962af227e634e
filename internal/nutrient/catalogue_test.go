package nutrient

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseCatalogue(t *testing.T) {
	t.Parallel()

	c, err := ParseCatalogue([]byte(`{
		"nutrients": [
			{"label": "Calcium", "aliases": ["Calclum"]},
			{"label": "Magnesium"}
		]
	}`))
	if err != nil {
		t.Fatalf("ParseCatalogue: %v", err)
	}
	want := Catalogue{
		StartMarker: DefaultStartMarker,
		Entries: []Entry{
			{Label: "Calcium", Aliases: []string{"Calclum"}},
			{Label: "Magnesium"},
		},
	}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Fatalf("catalogue mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCatalogue_Rejects(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"not json":        `{`,
		"empty list":      `{"nutrients": []}`,
		"blank label":     `{"nutrients": [{"label": ""}]}`,
		"unknown field":   `{"nutrients": [{"label": "Zinc", "order": 1}]}`,
		"duplicate label": `{"nutrients": [{"label": "Zinc"}, {"label": "zinc"}]}`,
	}
	for name, doc := range cases {
		if _, err := ParseCatalogue([]byte(doc)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoadCatalogue(t *testing.T) {
	t.Parallel()

	def, err := LoadCatalogue("")
	if err != nil {
		t.Fatalf("LoadCatalogue(\"\"): %v", err)
	}
	if diff := cmp.Diff(DefaultCatalogue(), def); diff != "" {
		t.Fatalf("default catalogue mismatch (-want +got):\n%s", diff)
	}

	path := filepath.Join(t.TempDir(), "catalogue.json")
	doc := `{"start_marker": "soil test results", "nutrients": [{"label": "Sulphur"}]}`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}
	c, err := LoadCatalogue(path)
	if err != nil {
		t.Fatalf("LoadCatalogue: %v", err)
	}
	if c.StartMarker != "soil test results" || len(c.Entries) != 1 || c.Entries[0].Label != "Sulphur" {
		t.Fatalf("unexpected catalogue: %+v", c)
	}

	if _, err := LoadCatalogue(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDefaultCatalogueIsValid(t *testing.T) {
	t.Parallel()

	if err := DefaultCatalogue().Validate(); err != nil {
		t.Fatalf("default catalogue invalid: %v", err)
	}
}
