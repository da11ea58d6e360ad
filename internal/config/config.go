// Package config provides YAML-based configuration loading for gridworld:
// engine pacing, logging, the episode database and the SSH server.
package config

import "time"

// Config is the complete application configuration.
type Config struct {
	Engine  EngineConfig  `yaml:"engine"`
	Log     LogConfig     `yaml:"log"`
	Storage StorageConfig `yaml:"storage"`
	SSH     SSHConfig     `yaml:"ssh"`
}

// EngineConfig controls how episodes are run.
type EngineConfig struct {
	Delay    time.Duration `yaml:"delay"`     // Pause between ticks
	MaxTicks int           `yaml:"max_ticks"` // 0 = run until terminal
	Seed     int64         `yaml:"seed"`      // 0 = seed from the clock
}

// LogConfig controls the logger.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// StorageConfig locates the episode database.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// SSHConfig controls the serve command.
type SSHConfig struct {
	Address     string        `yaml:"address"`
	HostKeyPath string        `yaml:"host_key_path"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	MaxSessions int           `yaml:"max_sessions"` // 0 = unlimited
}

// Default returns the hardcoded configuration used when no file is found.
func Default() Config {
	return Config{
		Engine: EngineConfig{
			Delay:    250 * time.Millisecond,
			MaxTicks: 0,
			Seed:     0,
		},
		Log: LogConfig{
			Level: "info",
		},
		Storage: StorageConfig{
			Path: "~/.gridworld/episodes.db",
		},
		SSH: SSHConfig{
			Address:     ":23234",
			HostKeyPath: ".ssh/gridworld_ed25519",
			IdleTimeout: 30 * time.Minute,
			MaxSessions: 32,
		},
	}
}
