package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the name of the config file in the search directories.
const FileName = "gridworld.yaml"

// Load loads the configuration.
// Search order: customPath -> ~/.gridworld/config.yaml -> ./configs/gridworld.yaml -> embedded default.
// Fields a file leaves out keep their Default values.
func Load(customPath string) (Config, error) {
	// Try custom path first
	if customPath != "" {
		cfg, err := LoadFile(customPath)
		if err != nil {
			return Default(), err
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(); userCfgPath != "" {
		if cfg, err := LoadFile(userCfgPath); err == nil {
			return cfg, nil
		}
	}

	// Try local configs directory
	if cfg, err := LoadFile(filepath.Join("configs", FileName)); err == nil {
		return cfg, nil
	}

	// Use embedded default YAML
	cfg, err := parse(defaultYAML)
	if err != nil {
		return Default(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// LoadFile reads one config file on top of the defaults.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := parse(data)
	if err != nil {
		return Default(), fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), err
	}
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Validate rejects values the engine cannot work with.
func (c Config) Validate() error {
	if c.Engine.Delay < 0 {
		return fmt.Errorf("engine.delay must not be negative, got %v", c.Engine.Delay)
	}
	if c.Engine.MaxTicks < 0 {
		return fmt.Errorf("engine.max_ticks must not be negative, got %d", c.Engine.MaxTicks)
	}
	if c.SSH.MaxSessions < 0 {
		return fmt.Errorf("ssh.max_sessions must not be negative, got %d", c.SSH.MaxSessions)
	}
	if c.SSH.IdleTimeout < 0 {
		return fmt.Errorf("ssh.idle_timeout must not be negative, got %v", c.SSH.IdleTimeout)
	}
	return nil
}

// userConfigPath returns the path to the user config file, or empty if home is unavailable.
func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".gridworld", "config.yaml")
}
