// Package config loads the optional repo-level configuration file
// .cronrepo.yaml at the cron directory root.
package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the cron directory.
const FileName = ".cronrepo.yaml"

//go:embed schema.json
var schemaJSON string

// Config holds repo-level defaults for generate and install.
type Config struct {
	Trampoline string   `yaml:"trampoline"` // default trampoline command
	SkipEnv    []string `yaml:"skipEnv"`    // extra env blocklist glob patterns
}

// Load reads and validates the config file in dir. A missing file yields
// the zero config; a malformed or schema-invalid file is an error.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := validate(data); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &cfg, nil
}

// validate checks the raw YAML document against the embedded JSON schema.
func validate(data []byte) error {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Round-trip through JSON so the schema compiler sees plain JSON types.
	jsonData, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to convert config to JSON: %w", err)
	}
	var jsonDoc interface{}
	if err := json.Unmarshal(jsonData, &jsonDoc); err != nil {
		return fmt.Errorf("failed to convert config to JSON: %w", err)
	}

	schema, err := jsonschema.CompileString("cronrepo://config/schema.json", schemaJSON)
	if err != nil {
		return fmt.Errorf("failed to compile config schema: %w", err)
	}
	return schema.Validate(jsonDoc)
}
