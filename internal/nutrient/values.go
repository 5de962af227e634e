package nutrient

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	reNumber = regexp.MustCompile(`\d+\.?\d*`)

	// first number token, optionally censored with '<'
	reLineValue = regexp.MustCompile(`(<\s*)?(\d+\.?\d*)`)

	// en/em dashes arrive either intact or as cp1252 mojibake of their UTF-8 bytes
	reRange = regexp.MustCompile(`(\d+\.?\d*)\s*(?:-|–|—|â€“|â€”|â€|â|€)\s*(\d+\.?\d*)`)

	reUnit    = regexp.MustCompile(`(?i)^\s*(ppm|%|mg/kg|ms/cm)`)
	reAnyUnit = regexp.MustCompile(`(?i)(ppm|%|mg/kg|ms/cm)`)
)

// Units recognised on OCR lines, in canonical spelling.
var lineUnits = map[string]string{
	"ppm":   "ppm",
	"%":     "%",
	"mg/kg": "mg/kg",
	"ms/cm": "mS/cm",
}

// ParseScalar parses a measured value. Censored values ("<5") and anything
// unparsable become 0; it never fails.
func ParseScalar(raw string) float64 {
	if strings.Contains(raw, "<") {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ParseRangeMidpoint returns the midpoint of a range such as "99 - 124 ppm".
// A single number is returned as is, no number yields nil. Only the first
// two numbers count; stray OCR digits after them are ignored.
func ParseRangeMidpoint(raw string) *float64 {
	nums := reNumber.FindAllString(raw, 2)
	switch len(nums) {
	case 0:
		return nil
	case 1:
		return ptr(atof(nums[0]))
	}
	return ptr((atof(nums[0]) + atof(nums[1])) / 2)
}

// InferUnit searches the raw strings for "ppm", then "%".
func InferUnit(raws ...string) string {
	for _, u := range []string{"ppm", "%"} {
		for _, raw := range raws {
			if strings.Contains(raw, u) {
				return u
			}
		}
	}
	return ""
}

// LineValue is what ParseLineValue reads from the text following a label.
type LineValue struct {
	Current *float64
	Ideal   *float64
	Unit    string
}

// ParseLineValue reads the measured value, unit and ideal range from an OCR
// text fragment. The unit is the vocabulary token right after the value, or
// failing that the first one later in the fragment.
func ParseLineValue(text string) LineValue {
	var out LineValue
	rest := text
	if m := reLineValue.FindStringSubmatchIndex(text); m != nil {
		if m[2] >= 0 {
			out.Current = ptr(0)
		} else {
			out.Current = ptr(atof(text[m[4]:m[5]]))
		}
		rest = text[m[1]:]
		if u := reUnit.FindStringSubmatch(rest); u != nil {
			out.Unit = lineUnits[strings.ToLower(u[1])]
		}
	}
	if out.Unit == "" {
		if u := reAnyUnit.FindString(rest); u != "" {
			out.Unit = lineUnits[strings.ToLower(u)]
		}
	}
	out.Ideal = FindRange(text)
	return out
}

// FindRange returns the midpoint of the first "a - b" pattern in text.
func FindRange(text string) *float64 {
	m := reRange.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	return ptr((atof(m[1]) + atof(m[2])) / 2)
}

// atof is only fed regexp-validated digits.
func atof(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
