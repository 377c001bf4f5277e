package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "TERMCORE"

// Format is a config file syntax.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

// FormatOf returns the format for path's extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// Load returns the defaults overridden by the file at path, if path is not
// empty, and then by the environment. The result is validated.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.MergeFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.MergeEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// MergeFile overrides c with the settings in the file at path.
func (c *Config) MergeFile(path string) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	return c.Merge(path, format, bytes.NewReader(data))
}

// Merge overrides c with the settings read from r. Unknown keys are
// errors. name is used in error messages.
func (c *Config) Merge(name string, format Format, r io.Reader) error {
	next := *c
	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&next); err != nil {
			return tomlError(name, err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&next); err != nil && !errors.Is(err, io.EOF) {
			return &ParseError{Path: name, Err: err}
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedFormat, format)
	}
	*c = next
	return nil
}

func tomlError(name string, err error) error {
	var de *toml.DecodeError
	if errors.As(err, &de) {
		line, _ := de.Position()
		return &ParseError{Path: name, Line: line, Err: err}
	}
	return &ParseError{Path: name, Err: err}
}

// MergeEnv overrides c with TERMCORE_* environment variables.
func (c *Config) MergeEnv() error {
	next := *c
	if err := envconfig.Process(EnvPrefix, &next); err != nil {
		return fmt.Errorf("%w: environment: %v", ErrInvalidConfig, err)
	}
	*c = next
	return nil
}
