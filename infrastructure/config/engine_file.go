package config

import (
	"fmt"
	"os"

	domainconfig "brainstorm/domain/config"

	"gopkg.in/yaml.v3"
)

// LoadEngineFile overlays the YAML file at path onto a copy of base.
// Keys missing from the file keep their base values.
func LoadEngineFile(path string, base *domainconfig.EngineConfig) (*domainconfig.EngineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read engine config: %w", err)
	}
	return ParseEngineYAML(data, base)
}

// ParseEngineYAML overlays a YAML document onto a copy of base and validates the result
func ParseEngineYAML(data []byte, base *domainconfig.EngineConfig) (*domainconfig.EngineConfig, error) {
	if base == nil {
		base = domainconfig.DefaultEngineConfig()
	}
	merged := *base
	if err := yaml.Unmarshal(data, &merged); err != nil {
		return nil, fmt.Errorf("failed to parse engine config: %w", err)
	}
	if err := merged.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	return &merged, nil
}
