// Package configio loads the raw plugins configuration from the gateway
// config file and the process environment. It performs no validation or
// normalization; degradation semantics belong to the policy core.
package configio

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"slotgate/pkg/plugincfg"
)

// slotEnvPrefix names environment overrides of slot bindings, e.g.
// SLOTGATE_SLOT_MEMORY=none. Environment wins over the config file.
const slotEnvPrefix = "SLOTGATE_SLOT_"

// fileConfig is the subset of the gateway config file this package reads.
// Unknown top-level sections are ignored.
type fileConfig struct {
	Plugins plugincfg.RawConfig `json:"plugins" yaml:"plugins"`
}

// Load reads the plugins section from the config file at path. YAML and JSON
// are supported, selected by file extension. A missing file is not an error:
// it yields the zero configuration, which normalization resolves to defaults.
func Load(path string) (plugincfg.RawConfig, error) {
	if strings.TrimSpace(path) == "" {
		return plugincfg.RawConfig{}, fmt.Errorf("config path is empty")
	}
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator's -config flag
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return plugincfg.RawConfig{}, nil
		}
		return plugincfg.RawConfig{}, fmt.Errorf("read config: %w", err)
	}

	var cfg fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return plugincfg.RawConfig{}, fmt.Errorf("decode yaml config: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return plugincfg.RawConfig{}, fmt.Errorf("decode json config: %w", err)
		}
	}
	return cfg.Plugins, nil
}

// ApplyEnv overlays SLOTGATE_SLOT_* variables from environ (as produced by
// os.Environ) onto raw, returning the merged configuration. The input is not
// mutated. Values pass through untouched; trimming and sentinel handling stay
// with the Normalizer.
func ApplyEnv(raw plugincfg.RawConfig, environ []string) plugincfg.RawConfig {
	overrides := map[string]string{}
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, slotEnvPrefix) {
			continue
		}
		slot := strings.ToLower(strings.TrimPrefix(key, slotEnvPrefix))
		if slot == "" {
			continue
		}
		overrides[slot] = value
	}
	if len(overrides) == 0 {
		return raw
	}

	merged := raw
	merged.Slots = make(map[string]string, len(raw.Slots)+len(overrides))
	for name, value := range raw.Slots {
		merged.Slots[name] = value
	}
	for name, value := range overrides {
		merged.Slots[name] = value
	}
	return merged
}
