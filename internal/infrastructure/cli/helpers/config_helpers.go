package helpers

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/scrnstr/internal/domain"
	configinfra "github.com/doeshing/scrnstr/internal/infrastructure/config"
)

// SaveConfigWithValidation validates cfg, backs up the current file and
// writes cfg in its place.
func SaveConfigWithValidation(loader *configinfra.FileLoader, cfg domain.Config) error {
	if loader == nil {
		return fmt.Errorf("config loader unavailable")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if _, err := os.Stat(loader.Path()); err == nil {
		if _, err := loader.Backup(); err != nil {
			return fmt.Errorf("failed to create configuration backup: %w", err)
		}
	}
	if err := loader.Save(cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	return nil
}

// ConfigToMap converts cfg to the generic YAML tree used by get and set.
func ConfigToMap(cfg domain.Config) (map[string]interface{}, error) {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	var out map[string]interface{}
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal to map: %w", err)
	}
	return out, nil
}

// MapToConfig is the inverse of ConfigToMap.
func MapToConfig(tree map[string]interface{}) (domain.Config, error) {
	raw, err := yaml.Marshal(tree)
	if err != nil {
		return domain.Config{}, fmt.Errorf("failed to marshal updated map: %w", err)
	}
	var cfg domain.Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("failed to unmarshal to Config: %w", err)
	}
	return cfg, nil
}

// ParseYAMLValue parses input as YAML, falling back to the literal string.
func ParseYAMLValue(input string) interface{} {
	var parsed interface{}
	if err := yaml.Unmarshal([]byte(input), &parsed); err != nil {
		return input
	}
	return parsed
}

// SetNestedMapValue sets value at keyPath, creating intermediate maps.
func SetNestedMapValue(root map[string]interface{}, keyPath []string, value interface{}) bool {
	if len(keyPath) == 0 {
		return false
	}
	current := root
	for _, key := range keyPath[:len(keyPath)-1] {
		child, ok := current[key].(map[string]interface{})
		if !ok {
			child = map[string]interface{}{}
			current[key] = child
		}
		current = child
	}
	current[keyPath[len(keyPath)-1]] = value
	return true
}

// TraverseNestedMap returns the value at keyPath.
func TraverseNestedMap(data interface{}, keyPath []string) (interface{}, bool) {
	if len(keyPath) == 0 {
		return data, true
	}
	node, ok := data.(map[string]interface{})
	if !ok {
		return nil, false
	}
	next, exists := node[keyPath[0]]
	if !exists {
		return nil, false
	}
	return TraverseNestedMap(next, keyPath[1:])
}
