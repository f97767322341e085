package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ExportConfig holds the mesh extraction switches.
type ExportConfig struct {
	OptimizeVertices bool `toml:"optimize_vertices"`
	ExportTangents   bool `toml:"export_tangents"`
	ExportSkin       bool `toml:"export_skin"`
	// LegacyExtraWeights reproduces the historical output where the 6th and 7th
	// influences reuse the 5th influence's weight.
	LegacyExtraWeights bool `toml:"legacy_extra_weights"`
}

type OutputConfig struct {
	Dir    string `toml:"dir"`
	Format string `toml:"format"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type JobsConfig struct {
	Workers int `toml:"workers"`
}

// Config is the on-disk configuration of the exporter.
type Config struct {
	Export ExportConfig `toml:"export"`
	Output OutputConfig `toml:"output"`
	Log    LogConfig    `toml:"log"`
	Jobs   JobsConfig   `toml:"jobs"`
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	OutputDir string
	Format    string
	LogLevel  string
	Workers   int
}

const (
	FormatGLB  = "glb"
	FormatGLTF = "gltf"
	FormatJSON = "json"
)

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Export: ExportConfig{
			OptimizeVertices: true,
			ExportTangents:   true,
			ExportSkin:       true,
		},
		Output: OutputConfig{
			Dir:    "out",
			Format: FormatGLB,
		},
		Log:  LogConfig{Level: "info"},
		Jobs: JobsConfig{Workers: runtime.NumCPU()},
	}
}

// LoadConfig reads a TOML config file on top of DefaultConfig.
// Unknown keys are rejected so typos do not silently fall back to defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	defer f.Close()

	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("config: parse %s: %w: %s", path, ErrInvalidConfig, strict.String())
		}
		return Config{}, fmt.Errorf("config: parse %s: %w: %v", path, ErrInvalidConfig, err)
	}

	if !filepath.IsAbs(cfg.Output.Dir) && cfg.Output.Dir != "" {
		cfg.Output.Dir = filepath.Join(filepath.Dir(path), cfg.Output.Dir)
	}
	return cfg, nil
}

// Resolve applies CLI overrides and fills empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.OutputDir != "" {
		c.Output.Dir = flags.OutputDir
	}
	if flags.Format != "" {
		c.Output.Format = flags.Format
	}
	if flags.LogLevel != "" {
		c.Log.Level = flags.LogLevel
	}
	if flags.Workers > 0 {
		c.Jobs.Workers = flags.Workers
	}

	c.Output.Format = strings.ToLower(strings.TrimPrefix(c.Output.Format, "."))
	if c.Output.Format == "" {
		c.Output.Format = FormatGLB
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "out"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Jobs.Workers <= 0 {
		c.Jobs.Workers = runtime.NumCPU()
	}
}

// Validate reports configuration values the exporter cannot work with.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case FormatGLB, FormatGLTF, FormatJSON:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, c.Output.Format)
	}
	return nil
}
