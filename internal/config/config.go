// Package config loads and validates the optional .wasmpack YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for tool-layer configuration. The library itself
// applies no timeout; these bound runs started by the CLI and the
// MCP server.
const (
	DefaultTimeout   = 10 * time.Minute
	DefaultMaxOutput = 64 << 10 // 64 KiB echoed inline before pointing at the report
)

// Config holds the parsed .wasmpack configuration.
// All fields are optional; zero values represent defaults.
type Config struct {
	Version      int    `yaml:"version"`
	Binary       string `yaml:"binary"`     // override for the wasm-pack executable
	RawTimeout   string `yaml:"timeout"`    // e.g. "10m", "30s"
	RawMaxOutput int    `yaml:"max_output"` // bytes
}

// Timeout returns the configured per-run deadline or the default.
func (c *Config) Timeout() time.Duration {
	if c.RawTimeout != "" {
		d, err := time.ParseDuration(c.RawTimeout)
		if err == nil && d > 0 {
			return d
		}
	}
	return DefaultTimeout
}

// MaxOutputBytes returns the configured inline output cap or the default.
func (c *Config) MaxOutputBytes() int {
	if c.RawMaxOutput > 0 {
		return c.RawMaxOutput
	}
	return DefaultMaxOutput
}

// LoadResult holds the parsed config and the discovered project root.
type LoadResult struct {
	Config      *Config
	ProjectRoot string // directory containing Cargo.toml; falls back to workspace
}

// Load reads the .wasmpack file from the project root. The root is
// discovered by walking upward from workspace looking for Cargo.toml,
// since wasm-pack operates on Rust crates. If no .wasmpack file exists,
// a default Config is returned.
func Load(workspace string) (*LoadResult, error) {
	root, err := findProjectRoot(workspace)
	if err != nil {
		// No Cargo.toml found; use workspace as root.
		root = workspace
	}

	path := filepath.Join(root, ".wasmpack")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &LoadResult{Config: &Config{}, ProjectRoot: root}, nil
		}
		return nil, fmt.Errorf("reading .wasmpack: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing .wasmpack: %w", err)
	}
	return &LoadResult{Config: cfg, ProjectRoot: root}, nil
}

// findProjectRoot walks upward from dir looking for a directory
// containing Cargo.toml.
func findProjectRoot(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "Cargo.toml")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("Cargo.toml not found")
		}
		dir = parent
	}
}
