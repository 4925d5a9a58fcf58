package codeclare

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaDocument string

const schemaURL = "https://codeclare.schemas.local/model.schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func modelSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		if err := c.AddResource(schemaURL, strings.NewReader(schemaDocument)); err != nil {
			schemaErr = fmt.Errorf("model schema load failed: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("model schema compile failed: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// ToJSON encodes the model as indented JSON.
func (m *Model) ToJSON() ([]byte, error) {
	m.normalize()
	return json.MarshalIndent(m, "", "  ")
}

// ToYAML encodes the model as YAML.
func (m *Model) ToYAML() ([]byte, error) {
	m.normalize()
	return yaml.Marshal(m)
}

// SaveFile writes the model to path, as YAML for .yaml/.yml and JSON
// otherwise. Missing parent directories are created.
func (m *Model) SaveFile(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAMLPath(path) {
		data, err = m.ToYAML()
	} else {
		data, err = m.ToJSON()
	}
	if err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write model %s: %w", path, err)
	}
	return nil
}

// FromJSON decodes and schema-checks a JSON model. Absent fields are empty.
// Constraint names are not checked here; see Model.Validate.
func FromJSON(data []byte) (*Model, error) {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid model JSON: %w", err)
	}
	schema, err := modelSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("model schema validation failed: %w", err)
	}

	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("invalid model JSON: %w", err)
	}
	m.normalize()
	return &m, nil
}

// FromYAML decodes a YAML model and checks it against the same schema as
// FromJSON.
func FromYAML(data []byte) (*Model, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid model YAML: %w", err)
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}
	asJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("model YAML is not representable as JSON: %w", err)
	}
	return FromJSON(asJSON)
}

// LoadFile reads a model, choosing the decoder by file extension.
func LoadFile(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model %s: %w", path, err)
	}
	if isYAMLPath(path) {
		return FromYAML(data)
	}
	return FromJSON(bytes.TrimSpace(data))
}

func isYAMLPath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
