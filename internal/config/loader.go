package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

// LoadFile loads a calculation configuration from a YAML file. The raw
// document is validated against the embedded JSON Schema before strict
// struct decoding, so type errors carry field locations instead of
// decoder noise.
func LoadFile(path string) (Configuration, error) {
	f, err := os.Open(path)
	if err != nil {
		return Configuration{}, fmt.Errorf("failed to open configuration: %w", err)
	}
	defer f.Close()

	cfg, err := LoadReader(f)
	if err != nil {
		return Configuration{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadReader loads a configuration from an io.Reader. Useful for tests
// with in-memory YAML.
func LoadReader(r io.Reader) (Configuration, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Configuration{}, fmt.Errorf("failed to read configuration: %w", err)
	}

	if err := validateSchema(raw); err != nil {
		return Configuration{}, err
	}

	var cfg Configuration
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true) // Strict parsing - reject unknown fields
	if err := decoder.Decode(&cfg); err != nil {
		return Configuration{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return cfg, nil
}

func validateSchema(raw []byte) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("config.schema.json", bytes.NewReader(schemaJSON)); err != nil {
		return fmt.Errorf("failed to add configuration schema: %w", err)
	}
	schema, err := compiler.Compile("config.schema.json")
	if err != nil {
		return fmt.Errorf("failed to compile configuration schema: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		if validationErr, ok := err.(*jsonschema.ValidationError); ok {
			return formatSchemaError(validationErr)
		}
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// formatSchemaError flattens a JSON Schema validation error tree into
// one message listing every failing location.
func formatSchemaError(err *jsonschema.ValidationError) error {
	var messages []string

	var collect func(*jsonschema.ValidationError)
	collect = func(e *jsonschema.ValidationError) {
		if e.Message != "" && len(e.Causes) == 0 {
			location := e.InstanceLocation
			if location == "" {
				location = "(root)"
			}
			messages = append(messages, fmt.Sprintf("%s: %s", location, e.Message))
		}
		for _, cause := range e.Causes {
			collect(cause)
		}
	}
	collect(err)

	if len(messages) == 0 {
		return fmt.Errorf("configuration validation failed")
	}
	return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(messages, "\n  - "))
}
