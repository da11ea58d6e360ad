package config

import (
	_ "embed"
)

//go:embed defaults/gridworld.yaml
var defaultYAML []byte

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
