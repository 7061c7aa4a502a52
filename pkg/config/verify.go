package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/invopop/jsonschema"
)

//go:embed schema.json
var embeddedSchema string

// VerifyAgainstEmbeddedSchema validates the config against the embedded JSON schema
func VerifyAgainstEmbeddedSchema(cfg *Config) error {
	var schema struct {
		Ref   string                     `json:"$ref"`
		Defs  map[string]json.RawMessage `json:"$defs"`
		Props map[string]json.RawMessage `json:"properties"`
	}
	if err := json.Unmarshal([]byte(embeddedSchema), &schema); err != nil {
		return fmt.Errorf("parse embedded schema: %w", err)
	}

	// reflected schemas keep the root object under $defs
	props := schema.Props
	if props == nil {
		var root struct {
			Props map[string]json.RawMessage `json:"properties"`
		}
		if raw, ok := schema.Defs["Config"]; ok {
			if err := json.Unmarshal(raw, &root); err != nil {
				return fmt.Errorf("parse schema root: %w", err)
			}
		}
		props = root.Props
	}

	configData, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	var configMap map[string]any
	if err := json.Unmarshal(configData, &configMap); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	// every top level key of the config must be known to the schema
	var unknown []string
	for k := range configMap {
		if _, ok := props[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("schema is missing config sections %v, regenerate schema.json", unknown)
	}

	if err := validateRequiredFields(cfg); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// validateRequiredFields performs basic validation of required fields
func validateRequiredFields(cfg *Config) error {
	if cfg.Server.Listen == "" {
		return fmt.Errorf("server.listen is required")
	}
	if cfg.Server.Timeout == 0 {
		return fmt.Errorf("server.timeout is required")
	}
	if cfg.Dataset.Path == "" {
		return fmt.Errorf("dataset.path is required")
	}
	if cfg.Harvest.Timeout == 0 {
		return fmt.Errorf("harvest.timeout is required")
	}
	if cfg.Harvest.RateLimit == 0 {
		return fmt.Errorf("harvest.rate_limit is required")
	}
	if len(cfg.Sources) == 0 {
		return fmt.Errorf("at least one source is required")
	}
	return nil
}

// GenerateSchema generates a JSON schema for the Config struct
func GenerateSchema() (*jsonschema.Schema, error) {
	return jsonschema.Reflect(&Config{}), nil
}
