package services

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"path"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Schema names for the three oracle responses.
const (
	SchemaVillage     = "village"
	SchemaSimulation  = "simulation"
	SchemaInteraction = "interaction"
)

// ErrSchemaViolation is returned when an oracle response does not match its
// JSON schema.
var ErrSchemaViolation = errors.New("oracle response violates schema")

//go:embed schemas/*.schema.json
var schemaFS embed.FS

// Schemas holds the compiled response schemas.
type Schemas struct {
	byName map[string]*jsonschema.Schema
}

// LoadSchemas compiles every embedded schema.
func LoadSchemas() (*Schemas, error) {
	s := &Schemas{byName: make(map[string]*jsonschema.Schema)}
	for _, name := range []string{SchemaVillage, SchemaSimulation, SchemaInteraction} {
		file := name + ".schema.json"
		raw, err := schemaFS.ReadFile(path.Join("schemas", file))
		if err != nil {
			return nil, fmt.Errorf("failed to read schema %s: %w", name, err)
		}
		compiled, err := jsonschema.CompileString(file, string(raw))
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
		}
		s.byName[name] = compiled
	}
	return s, nil
}

// MustLoadSchemas is LoadSchemas for package init paths where the embedded
// schemas are known good.
func MustLoadSchemas() *Schemas {
	s, err := LoadSchemas()
	if err != nil {
		panic(err)
	}
	return s
}

// RawSchema returns the embedded schema document, e.g. for tooling.
func RawSchema(name string) ([]byte, error) {
	return schemaFS.ReadFile(path.Join("schemas", name+".schema.json"))
}

// Validate checks data against the named schema.
func (s *Schemas) Validate(name string, data []byte) error {
	schema, ok := s.byName[name]
	if !ok {
		return fmt.Errorf("unknown schema %q", name)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("%w: invalid JSON: %w", ErrSchemaViolation, err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("%w: %w", ErrSchemaViolation, err)
	}
	return nil
}
