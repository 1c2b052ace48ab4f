package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

const (
	DefaultRegistry    = "https://registry.npmjs.org"
	DefaultMode        = "latest"
	DefaultConcurrency = 8
	DefaultTimeoutSec  = 10
)

type Config struct {
	Registry        string      `json:"registry,omitempty" yaml:"registry,omitempty"`
	Mode            string      `json:"mode,omitempty" yaml:"mode,omitempty"`
	Filter          interface{} `json:"filter,omitempty" yaml:"filter,omitempty"`
	Dependencies    *bool       `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	DevDependencies *bool       `json:"devDependencies,omitempty" yaml:"devDependencies,omitempty"`
	Concurrency     int         `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`
	TimeoutSeconds  int         `json:"timeoutSeconds,omitempty" yaml:"timeoutSeconds,omitempty"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Registry == "" {
		c.Registry = DefaultRegistry
	}
	if c.Mode == "" {
		c.Mode = DefaultMode
	}
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = DefaultTimeoutSec
	}
}

// IncludeDependencies reports whether the production dependency group should
// be considered. Unset means yes.
func (c *Config) IncludeDependencies() bool {
	return c.Dependencies == nil || *c.Dependencies
}

// IncludeDevDependencies reports whether the development dependency group
// should be considered. Unset means yes.
func (c *Config) IncludeDevDependencies() bool {
	return c.DevDependencies == nil || *c.DevDependencies
}

// LoadConfig loads and parses the configuration file. JSON is tried first,
// then YAML. The decoded document is checked against the embedded schema
// before it is accepted.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("empty config file")
	}

	if err := validateSchema(data); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	var config Config

	// Try JSON first, then YAML if that fails
	if err := json.Unmarshal(data, &config); err != nil {
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	return &config, nil
}

// validateSchema checks the raw config document against the embedded JSON
// schema, converting YAML documents to their JSON form first.
func validateSchema(data []byte) error {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		// Not JSON: decode as YAML and round-trip through JSON so the
		// validator sees canonical types.
		var y interface{}
		if err := yaml.Unmarshal(data, &y); err != nil {
			return fmt.Errorf("neither JSON nor YAML: %w", err)
		}
		jsonData, err := json.Marshal(y)
		if err != nil {
			return fmt.Errorf("converting YAML config: %w", err)
		}
		doc, err = jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
		if err != nil {
			return fmt.Errorf("converting YAML config: %w", err)
		}
	}

	schema, err := compileSchema()
	if err != nil {
		return err
	}
	return schema.Validate(doc)
}

func compileSchema() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("embedded schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("npmsemver-config.schema.json", doc); err != nil {
		return nil, fmt.Errorf("embedded schema: %w", err)
	}
	schema, err := compiler.Compile("npmsemver-config.schema.json")
	if err != nil {
		return nil, fmt.Errorf("embedded schema: %w", err)
	}
	return schema, nil
}
