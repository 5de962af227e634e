// Package report shapes extraction results and failures for the wire.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/soilreport/internal/common"
	"github.com/joseph-ayodele/soilreport/internal/nutrient"
	processor "github.com/joseph-ayodele/soilreport/internal/pipeline"
)

// Response is the success body: {"nutrients": [...]}.
type Response struct {
	Nutrients []nutrient.Record `json:"nutrients"`
}

// ErrorBody is the failure body.
type ErrorBody struct {
	Error   string `json:"error"`
	Kind    string `json:"kind"`
	Details string `json:"details,omitempty"`
}

func NewResponse(res processor.Result) Response {
	recs := res.Records
	if recs == nil {
		recs = []nutrient.Record{}
	}
	return Response{Nutrients: recs}
}

// NewErrorBody summarizes err; the full chain goes to Details.
func NewErrorBody(err error) ErrorBody {
	kind := common.KindOf(err)
	body := ErrorBody{Kind: kind, Details: err.Error()}
	var ae *common.AppError
	switch {
	case errors.As(err, &ae):
		body.Error = ae.Message
	default:
		body.Error = "extraction failed"
	}
	if body.Error == body.Details {
		body.Details = ""
	}
	return body
}

const responseSchema = `{
  "type": "object",
  "required": ["nutrients"],
  "additionalProperties": false,
  "properties": {
    "nutrients": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "current", "ideal", "unit"],
        "additionalProperties": false,
        "properties": {
          "name": {"type": "string"},
          "current": {"type": ["number", "null"]},
          "ideal": {"type": ["number", "null"]},
          "unit": {"type": "string"}
        }
      }
    }
  }
}`

const errorSchema = `{
  "type": "object",
  "required": ["error", "kind"],
  "additionalProperties": false,
  "properties": {
    "error": {"type": "string", "minLength": 1},
    "kind": {"enum": ["INPUT_MISSING", "EXTRACTION_FAILED", "COLLABORATOR_FAILURE", "CONFIG_ERROR", "INTERNAL"]},
    "details": {"type": "string"}
  }
}`

var (
	schemasOnce sync.Once
	schemas     map[string]*jsonschema.Schema
	schemasErr  error
)

func compiled() (map[string]*jsonschema.Schema, error) {
	schemasOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		docs := map[string]string{"response.json": responseSchema, "error.json": errorSchema}
		for name, doc := range docs {
			if err := compiler.AddResource(name, strings.NewReader(doc)); err != nil {
				schemasErr = fmt.Errorf("add schema %s: %w", name, err)
				return
			}
		}
		schemas = map[string]*jsonschema.Schema{}
		for name := range docs {
			s, err := compiler.Compile(name)
			if err != nil {
				schemasErr = fmt.Errorf("compile schema %s: %w", name, err)
				return
			}
			schemas[name] = s
		}
	})
	return schemas, schemasErr
}

// Validate checks a Response or ErrorBody against its JSON schema.
func Validate(v any) error {
	var name string
	switch v.(type) {
	case Response, *Response:
		name = "response.json"
	case ErrorBody, *ErrorBody:
		name = "error.json"
	default:
		return fmt.Errorf("no schema for %T", v)
	}
	ss, err := compiled()
	if err != nil {
		return err
	}
	doc, err := ToMap(v)
	if err != nil {
		return err
	}
	if err := ss[name].Validate(doc); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// ToMap round-trips v through JSON into the generic form the schema
// validator and structpb expect.
func ToMap(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	return m, nil
}

// Encode validates v and writes it as indented JSON.
func Encode(w io.Writer, v any) error {
	if err := Validate(v); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
