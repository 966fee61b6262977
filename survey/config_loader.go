package survey

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads the unified configuration from a YAML file.
// Zero-valued engine tunables are filled with their documented defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	config.Engine = config.Engine.withDefaults()

	if err := validateEngineConfig(config.Engine); err != nil {
		return nil, err
	}

	return &config, nil
}

// SaveConfig saves the configuration to a YAML file.
func SaveConfig(path string, config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshaling config YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

func validateEngineConfig(c EngineConfig) error {
	if c.WeakThreshold < 0 || c.WeakThreshold > 1 {
		return fmt.Errorf("engine.weakThreshold must be in [0,1], got %g", c.WeakThreshold)
	}
	if c.StrongThreshold < 0 || c.StrongThreshold > 1 {
		return fmt.Errorf("engine.strongThreshold must be in [0,1], got %g", c.StrongThreshold)
	}
	if c.WeakThreshold >= c.StrongThreshold {
		return fmt.Errorf("engine.weakThreshold (%g) must be below strongThreshold (%g)", c.WeakThreshold, c.StrongThreshold)
	}
	if c.KernelPlateau <= 0 || c.KernelFalloff <= c.KernelPlateau || c.KernelFalloff > 1 {
		return fmt.Errorf("engine kernel shape invalid: plateau %g, falloff %g (need 0 < plateau < falloff <= 1)", c.KernelPlateau, c.KernelFalloff)
	}
	if c.MaxExtenders < 0 {
		return fmt.Errorf("engine.maxExtenders must be >= 0, got %d", c.MaxExtenders)
	}
	if c.ExtenderStrength < 0 || c.ExtenderStrength > 1 {
		return fmt.Errorf("engine.extenderStrength must be in [0,1], got %g", c.ExtenderStrength)
	}
	return nil
}

// LoadLayout loads an explicit room layout from a YAML file.
// A missing file is not an error: it returns (nil, nil) and callers fall back
// to heuristic placement.
func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading layout file: %w", err)
	}

	var layout Layout
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return nil, fmt.Errorf("parsing layout YAML: %w", err)
	}

	for i, r := range layout.Rooms {
		if r.Name == "" {
			return nil, fmt.Errorf("layout.rooms[%d].name is required", i)
		}
		if r.Floor < 1 {
			return nil, fmt.Errorf("layout.rooms[%d].floor must be >= 1 for %s", i, r.Name)
		}
	}

	return &layout, nil
}

// SaveLayout saves a room layout to a YAML file.
func SaveLayout(path string, layout *Layout) error {
	data, err := yaml.Marshal(layout)
	if err != nil {
		return fmt.Errorf("marshaling layout YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing layout file: %w", err)
	}

	return nil
}
