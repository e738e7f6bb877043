// Package config loads the optional .glslflat.yaml project file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/LegacyCodeHQ/glslflat/flatten"
)

// DefaultFileName is looked up in the working directory when no --config is given.
const DefaultFileName = ".glslflat.yaml"

// Config mirrors the flatten flags. Zero values leave the flatten defaults in
// place, so max_depth: 0 means the default depth, not a depth of zero.
type Config struct {
	GuardPrefix      string `yaml:"guard_prefix"`
	MaxGuardLength   int    `yaml:"max_guard_length"`
	MaxDepth         int    `yaml:"max_depth"`
	RelativeIncludes bool   `yaml:"relative_includes"`
	Sysroot          string `yaml:"sysroot"`
}

// Load reads and validates the project file at path. A relative sysroot is
// taken relative to the file's directory.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}

	if cfg.Sysroot != "" && !filepath.IsAbs(cfg.Sysroot) {
		cfg.Sysroot = filepath.Join(filepath.Dir(path), cfg.Sysroot)
	}
	return cfg, nil
}

// LoadIfExists is Load that returns an empty Config when path does not exist.
func LoadIfExists(path string) (Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	}
	return Load(path)
}

// Parse decodes YAML, rejecting unknown keys.
func Parse(data []byte) (Config, error) {
	var cfg Config

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.MaxGuardLength < 0 {
		return fmt.Errorf("max_guard_length must not be negative, got %d", c.MaxGuardLength)
	}
	if c.GuardPrefix != "" && !isIdentifier(c.GuardPrefix) {
		return fmt.Errorf("guard_prefix must be a valid identifier, got %q", c.GuardPrefix)
	}
	return nil
}

// Options converts the config to flatten options.
func (c Config) Options() flatten.Options {
	opts := flatten.Options{
		GuardPrefix:    c.GuardPrefix,
		MaxGuardLength: c.MaxGuardLength,
		MaxDepth:       c.MaxDepth,
	}
	if c.RelativeIncludes {
		opts.Resolution = flatten.ResolveRelative
	}
	return opts
}

func isIdentifier(s string) bool {
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return s != ""
}
