// Package config loads the optional console.yaml configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up by LoadOptional.
const FileName = "console.yaml"

// Config represents the optional console.yaml configuration.
type Config struct {
	Title    string         `yaml:"title,omitempty"`
	Banner   []string       `yaml:"banner,omitempty"`
	Screen   ScreenConfig   `yaml:"screen"`
	Scroll   ScrollConfig   `yaml:"scroll"`
	Renderer RendererConfig `yaml:"renderer"`
	Log      LogConfig      `yaml:"log"`
	Serve    ServeConfig    `yaml:"serve"`
	Demos    DemosConfig    `yaml:"demos"`
}

// ScreenConfig contains the terminal screen size.
type ScreenConfig struct {
	Width  int `yaml:"width,omitempty"`
	Height int `yaml:"height,omitempty"`
}

// ScrollConfig contains the presenter's scroll settings.
type ScrollConfig struct {
	Delay Duration `yaml:"delay,omitempty"`
}

// RendererConfig contains terminal renderer settings.
type RendererConfig struct {
	FPS int `yaml:"fps,omitempty"`
}

// LogConfig contains diagnostics logger settings.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// ServeConfig contains HTTP front end settings.
type ServeConfig struct {
	Port int `yaml:"port,omitempty"`
}

// DemosConfig selects which registered demos are offered.
type DemosConfig struct {
	Hidden []string `yaml:"hidden,omitempty"`
}

// Duration is a time.Duration written as a Go duration string ("50ms").
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("line %d: invalid duration %q", value.Line, s)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Resolved contains configuration values with defaults applied.
type Resolved struct {
	Title        string
	Banner       []string
	ScreenWidth  int
	ScreenHeight int
	ScrollDelay  time.Duration
	FPS          int
	LogLevel     string
	LogFormat    string
	ServePort    int
	HiddenDemos  []string
}

const (
	DefaultTitle        = "Demo console"
	DefaultScreenWidth  = 80
	DefaultScreenHeight = 24
	DefaultFPS          = 60
	DefaultServePort    = 8000
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
)

// Load reads and parses the configuration file at path. Unknown fields are
// an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOptional reads console.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}
	return cfg, err
}

// Parse decodes a configuration document. An empty document is an empty
// configuration.
func Parse(r io.Reader) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &cfg, nil
}

// Resolve applies defaults and validates the configuration.
func (c *Config) Resolve() (*Resolved, error) {
	r := &Resolved{
		Title:        strings.TrimSpace(c.Title),
		Banner:       append([]string(nil), c.Banner...),
		ScreenWidth:  c.Screen.Width,
		ScreenHeight: c.Screen.Height,
		ScrollDelay:  time.Duration(c.Scroll.Delay),
		FPS:          c.Renderer.FPS,
		LogLevel:     strings.ToLower(strings.TrimSpace(c.Log.Level)),
		LogFormat:    strings.ToLower(strings.TrimSpace(c.Log.Format)),
		ServePort:    c.Serve.Port,
		HiddenDemos:  append([]string(nil), c.Demos.Hidden...),
	}

	if r.Title == "" {
		r.Title = DefaultTitle
	}
	if r.ScreenWidth == 0 {
		r.ScreenWidth = DefaultScreenWidth
	}
	if r.ScreenHeight == 0 {
		r.ScreenHeight = DefaultScreenHeight
	}
	if r.FPS == 0 {
		r.FPS = DefaultFPS
	}
	if r.ServePort == 0 {
		r.ServePort = DefaultServePort
	}
	if r.LogLevel == "" {
		r.LogLevel = DefaultLogLevel
	}
	if r.LogFormat == "" {
		r.LogFormat = DefaultLogFormat
	}

	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Resolved) validate() error {
	var errs []error
	if r.ScreenWidth < 0 || r.ScreenHeight < 0 {
		errs = append(errs, fmt.Errorf("screen size must be positive, got %dx%d", r.ScreenWidth, r.ScreenHeight))
	}
	if r.ScrollDelay < 0 {
		errs = append(errs, fmt.Errorf("scroll.delay must not be negative, got %s", r.ScrollDelay))
	}
	if r.FPS < 1 || r.FPS > 120 {
		errs = append(errs, fmt.Errorf("renderer.fps must be between 1 and 120, got %d", r.FPS))
	}
	if r.ServePort < 0 || r.ServePort > 65535 {
		errs = append(errs, fmt.Errorf("serve.port out of range: %d", r.ServePort))
	}
	switch r.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", r.LogLevel))
	}
	switch r.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", r.LogFormat))
	}
	return errors.Join(errs...)
}
