package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON string

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return jsonschema.CompileString("config.schema.json", schemaJSON)
})

// validateSchema checks the raw YAML document against the embedded JSON schema.
// It catches misspelled sections and wrongly typed values before defaults hide them.
func validateSchema(data []byte) error {
	schema, err := compileSchema()
	if err != nil {
		return fmt.Errorf("failed to compile config schema: %w", err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	if doc == nil {
		return nil
	}

	// The validator expects JSON-decoded values.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to convert config to JSON: %w", err)
	}
	var instance any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return fmt.Errorf("failed to convert config to JSON: %w", err)
	}

	if err := schema.Validate(instance); err != nil {
		return fmt.Errorf("config does not match schema: %w", err)
	}

	return nil
}
