package lint

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var ErrSchemaInvalid = errors.New("lint: frontmatter schema invalid")

// frontMatterSchema is the JSON schema every document's metadata block must
// satisfy. Authors may add custom keys; only the named fields are typed.
var frontMatterSchema = map[string]any{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type":    "object",
	"properties": map[string]any{
		"layout":      map[string]any{"type": "string"},
		"title":       map[string]any{"type": "string", "minLength": 1},
		"slug":        map[string]any{"type": "string", "minLength": 1},
		"description": map[string]any{"type": "string"},
		"keywords": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"draft": map[string]any{"type": "boolean"},
	},
	"additionalProperties": true,
}

// SchemaIssue captures a single schema violation with its JSON location.
type SchemaIssue struct {
	Location string
	Message  string
}

// SchemaValidator checks frontmatter maps against the compiled schema.
type SchemaValidator struct {
	compiled *jsonschema.Schema
}

// NewSchemaValidator compiles the frontmatter schema once for reuse.
func NewSchemaValidator() (*SchemaValidator, error) {
	compiled, err := compileSchema(frontMatterSchema)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	return &SchemaValidator{compiled: compiled}, nil
}

// Validate returns the schema issues found in the raw frontmatter map. A nil
// slice means the metadata conforms.
func (v *SchemaValidator) Validate(raw map[string]any) []SchemaIssue {
	if v == nil || v.compiled == nil || raw == nil {
		return nil
	}
	payload := normalizePayload(raw)
	err := v.compiled.Validate(payload)
	if err == nil {
		return nil
	}

	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) {
		return collectSchemaIssues(validationErr)
	}
	return []SchemaIssue{{Message: err.Error()}}
}

// normalizePayload converts values yaml decoding produced into the shapes the
// jsonschema library expects (string keys, RFC 3339 strings for timestamps).
func normalizePayload(input map[string]any) map[string]any {
	out := make(map[string]any, len(input))
	for key, value := range input {
		out[key] = normalizeValue(value)
	}
	return out
}

func normalizeValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return normalizePayload(typed)
	case map[any]any:
		converted := make(map[string]any, len(typed))
		for k, v := range typed {
			converted[fmt.Sprint(k)] = normalizeValue(v)
		}
		return converted
	case []any:
		out := make([]any, len(typed))
		for i, v := range typed {
			out[i] = normalizeValue(v)
		}
		return out
	case []string:
		out := make([]any, len(typed))
		for i, v := range typed {
			out[i] = v
		}
		return out
	case time.Time:
		return typed.Format(time.RFC3339)
	default:
		return value
	}
}

func compileSchema(schema map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("frontmatter.json", bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile("frontmatter.json")
}

func collectSchemaIssues(err *jsonschema.ValidationError) []SchemaIssue {
	if err == nil {
		return nil
	}
	issues := []SchemaIssue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, SchemaIssue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
