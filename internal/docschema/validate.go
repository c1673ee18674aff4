// Package docschema checks JSON documents against JSON Schema definitions
// declared in Go.
package docschema

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema names a JSON Schema definition.
type Schema struct {
	Name       string
	Definition map[string]any
}

// ErrInvalidDocument indicates a document that does not conform to its schema.
type ErrInvalidDocument struct {
	Schema string
	Err    error
}

func (e *ErrInvalidDocument) Error() string {
	return fmt.Sprintf("invalid %s document: %v", e.Schema, e.Err)
}

func (e *ErrInvalidDocument) Unwrap() error { return e.Err }

// schemaCache caches compiled JSON schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// Validate parses raw JSON and validates it against schema.
// Returns *ErrInvalidDocument on failure.
func Validate(schema *Schema, raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &ErrInvalidDocument{Schema: schema.Name, Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	return ValidateValue(schema, parsed)
}

// ValidateValue validates an already parsed JSON value.
func ValidateValue(schema *Schema, doc any) error {
	compiled, err := compiledSchema(schema)
	if err != nil {
		return &ErrInvalidDocument{Schema: schema.Name, Err: fmt.Errorf("compile schema: %w", err)}
	}
	if err := compiled.Validate(doc); err != nil {
		return &ErrInvalidDocument{Schema: schema.Name, Err: err}
	}
	return nil
}

// compiledSchema returns a cached compiled schema or compiles and caches it.
func compiledSchema(schema *Schema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(schema.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler wants plain JSON values, so round-trip the Go definition.
	defBytes, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", schema.Name)
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(schema.Name, compiled)
	return compiled, nil
}
