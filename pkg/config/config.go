// Package config loads buildergen settings from a JSON or YAML document.
//
// A complete document looks like:
//
//	tag: builder
//	naming:
//	  builder: ${name}Builder
//	  constructor: New${name}Builder
//	  setter: With${field}
//	  build: Build
//	repeated_setters: false
//	output:
//	  suffix: _builder.go
//	  format: imports
//
// Keys that are absent keep their defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-buildergen/internal/directive"
	"github.com/goliatone/go-buildergen/internal/naming"
	"github.com/goliatone/go-buildergen/pkg/model"
)

const (
	DefaultSuffix = "_builder.go"
	DefaultFormat = "imports"
)

// Config holds every setting that shapes generated code.
type Config struct {
	// Tag is the struct tag key that carries directives.
	Tag             string `json:"tag" yaml:"tag"`
	Naming          Naming `json:"naming" yaml:"naming"`
	RepeatedSetters bool   `json:"repeated_setters" yaml:"repeated_setters"`
	Output          Output `json:"output" yaml:"output"`
}

// Naming holds the naming templates. ${name} expands to the struct name and
// ${field} to the field name; lower() and upper() are available.
type Naming struct {
	Builder     string `json:"builder" yaml:"builder"`
	Constructor string `json:"constructor" yaml:"constructor"`
	Setter      string `json:"setter" yaml:"setter"`
	Build       string `json:"build" yaml:"build"`
}

type Output struct {
	Suffix string `json:"suffix" yaml:"suffix"`
	// Format is "imports" or "gofmt".
	Format string `json:"format" yaml:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Tag: directive.DefaultTag,
		Naming: Naming{
			Builder:     naming.DefaultBuilder,
			Constructor: naming.DefaultConstructor,
			Setter:      naming.DefaultSetter,
			Build:       naming.DefaultBuild,
		},
		Output: Output{
			Suffix: DefaultSuffix,
			Format: DefaultFormat,
		},
	}
}

// Load reads and parses the configuration file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadFS reads and parses name from fsys.
func LoadFS(fsys fs.FS, name string) (Config, error) {
	if fsys == nil {
		return Config{}, errors.New("config: filesystem is nil")
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", name, err)
	}
	return Parse(data, name)
}

// Parse decodes data as JSON, falling back to YAML, over the defaults and
// validates the result. source names the document in errors.
func Parse(data []byte, source string) (Config, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Config{}, fmt.Errorf("config: file %s is empty", source)
	}

	cfg, err := decode(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: invalid JSON or YAML", source)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", source, err)
	}
	return cfg, nil
}

func decode(data []byte) (Config, error) {
	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err == nil {
		return cfg, nil
	}

	cfg = Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting. Empty naming templates fall
// back to their defaults.
func (c Config) Validate() error {
	if c.Tag == "" || strings.ContainsAny(c.Tag, " \t\r\n\":`") {
		return fmt.Errorf("tag %q is not a valid struct tag key", c.Tag)
	}
	if _, err := c.Patterns(); err != nil {
		return err
	}
	if !strings.HasSuffix(c.Output.Suffix, ".go") {
		return fmt.Errorf("output suffix %q must end in .go", c.Output.Suffix)
	}
	switch c.Output.Format {
	case "imports", "gofmt":
	default:
		return fmt.Errorf("output format %q is not one of imports, gofmt", c.Output.Format)
	}
	return nil
}

// Patterns compiles the naming templates.
func (c Config) Patterns() (model.Patterns, error) {
	patterns, err := naming.CompileAll(c.Naming.Builder, c.Naming.Constructor, c.Naming.Setter, c.Naming.Build)
	if err != nil {
		return model.Patterns{}, fmt.Errorf("naming: %w", err)
	}
	return patterns, nil
}

// OutputPath derives the generated file path for input, e.g. user.go becomes
// user_builder.go.
func (c Config) OutputPath(input string) string {
	suffix := c.Output.Suffix
	if suffix == "" {
		suffix = DefaultSuffix
	}
	return strings.TrimSuffix(input, ".go") + suffix
}
