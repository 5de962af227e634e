package nutrient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/soilreport/internal/common"
)

// DefaultStartMarker opens the nutrient block on Albrecht-style reports.
const DefaultStartMarker = "albrecht your acceptable"

// Entry is one canonical nutrient label with the OCR spellings that stand for it.
type Entry struct {
	Label   string   `json:"label"`
	Aliases []string `json:"aliases,omitempty"`
}

// Catalogue is the ordered list of nutrients a report format is known to
// carry. Order decides precedence when labels overlap on one line.
type Catalogue struct {
	StartMarker string  `json:"start_marker,omitempty"`
	Entries     []Entry `json:"nutrients"`
}

// DefaultCatalogue follows the row order of the Albrecht soil audit sheet.
func DefaultCatalogue() Catalogue {
	return Catalogue{
		StartMarker: DefaultStartMarker,
		Entries: []Entry{
			{Label: "Paramagnetism"},
			{Label: "pH-level (1:5 water)"},
			{Label: "Organic Matter (Calc)"},
			{Label: "Organic Carbon (LECO)"},
			{Label: "Conductivity (1:5 water)"},
			{Label: "Ca/Mg Ratio"},
			{Label: "Nitrate-N (KCl)"},
			{Label: "Ammonium-N (KCl)"},
			{Label: "Phosphorus (Mehlich III)"},
			{Label: "Calcium (Mehlich III)", Aliases: []string{"jum (Mehlich II!)"}},
			{Label: "Magnesium (Mehlich III)", Aliases: []string{"ium (Mehlich Ill)"}},
			{Label: "Potassium (Mehlich III)"},
			{Label: "Sodium (Mehlich III)"},
			{Label: "Sulfur (KCl)"},
			{Label: "Aluminium"},
			{Label: "Silicon (CaCl2)"},
			// hot CaCl2 is the boron extraction, so "Do" is a garbled "Bo"
			{Label: "Boron (Hot CaCl2)", Aliases: []string{"Do (Hot CaCl2)"}},
			{Label: "Iron (DTPA)"},
			{Label: "Manganese (DTPA)"},
			{Label: "Copper (DTPA)"},
			{Label: "Zinc (DTPA)"},
		},
	}
}

// NewCatalogue builds a catalogue from bare labels.
func NewCatalogue(labels ...string) Catalogue {
	c := Catalogue{StartMarker: DefaultStartMarker}
	for _, l := range labels {
		c.Entries = append(c.Entries, Entry{Label: l})
	}
	return c
}

// Labels returns the canonical labels in order.
func (c Catalogue) Labels() []string {
	out := make([]string, 0, len(c.Entries))
	for _, e := range c.Entries {
		out = append(out, e.Label)
	}
	return out
}

// Validate rejects blank or duplicated labels.
func (c Catalogue) Validate() error {
	v := common.NewValidator()
	if len(c.Entries) == 0 {
		v.Field("nutrients", nil, common.Required)
	}
	for i, e := range c.Entries {
		v.Field(fmt.Sprintf("nutrients[%d].label", i), e.Label, common.Required)
	}
	v.Field("nutrients", c.Labels(), common.Unique)
	if v.HasErrors() {
		return common.NewAppError(common.KindConfig, v.ErrorMessage(), common.ErrInvalidInput)
	}
	return nil
}

// matcher is an entry with its search keys folded once.
type matcher struct {
	label string
	keys  []string // label first, then aliases
}

func (c Catalogue) matchers() []matcher {
	out := make([]matcher, 0, len(c.Entries))
	for _, e := range c.Entries {
		m := matcher{label: e.Label, keys: []string{strings.ToLower(e.Label)}}
		for _, a := range e.Aliases {
			if a = strings.ToLower(strings.TrimSpace(a)); a != "" {
				m.keys = append(m.keys, a)
			}
		}
		out = append(out, m)
	}
	return out
}

const catalogueSchema = `{
  "type": "object",
  "required": ["nutrients"],
  "additionalProperties": false,
  "properties": {
    "start_marker": {"type": "string"},
    "nutrients": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["label"],
        "additionalProperties": false,
        "properties": {
          "label": {"type": "string", "minLength": 1},
          "aliases": {"type": "array", "items": {"type": "string", "minLength": 1}}
        }
      }
    }
  }
}`

// ParseCatalogue decodes and validates a JSON catalogue document.
func ParseCatalogue(data []byte) (Catalogue, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("catalogue.json", strings.NewReader(catalogueSchema)); err != nil {
		return Catalogue{}, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("catalogue.json")
	if err != nil {
		return Catalogue{}, fmt.Errorf("compile schema: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return Catalogue{}, fmt.Errorf("unmarshal catalogue: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return Catalogue{}, fmt.Errorf("catalogue does not match schema: %w", err)
	}

	var c Catalogue
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&c); err != nil {
		return Catalogue{}, fmt.Errorf("decode catalogue: %w", err)
	}
	if c.StartMarker == "" {
		c.StartMarker = DefaultStartMarker
	}
	return c, c.Validate()
}

// LoadCatalogue reads a catalogue file; an empty path yields DefaultCatalogue.
func LoadCatalogue(path string) (Catalogue, error) {
	if path == "" {
		return DefaultCatalogue(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalogue{}, fmt.Errorf("read catalogue: %w", err)
	}
	c, err := ParseCatalogue(data)
	if err != nil {
		return Catalogue{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
