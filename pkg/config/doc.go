// Package config handles configuration management for shade.
// It layers the embedded defaults, a shade.toml file, SHADE_* environment
// variables and command-line flags, in that order of precedence.
package config
