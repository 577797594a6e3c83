package config

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/tessera/internal/config/loader"
	"github.com/dshills/tessera/internal/renderer/core"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "TESSERA_"

// Config is the complete, immutable application configuration.
type Config struct {
	Screen  ScreenConfig  `toml:"screen" yaml:"screen"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
	Scene   SceneConfig   `toml:"scene" yaml:"scene"`
}

// ScreenConfig sizes and styles the compositing screen.
type ScreenConfig struct {
	// Width and Height of the base grid. Zero means the terminal size.
	Width  int `toml:"width" yaml:"width"`
	Height int `toml:"height" yaml:"height"`

	CursorVisible bool `toml:"cursorVisible" yaml:"cursorVisible"`

	// Background is the base grid background as #RGB, #RRGGBB or #RRGGBBAA.
	// Empty leaves the base transparent so the terminal default shows.
	Background string `toml:"background" yaml:"background"`

	TrueColor bool `toml:"trueColor" yaml:"trueColor"`
}

// LoggingConfig controls the application logger.
type LoggingConfig struct {
	Level string `toml:"level" yaml:"level"`
	// File receives log output. Empty means stderr.
	File string `toml:"file" yaml:"file"`
}

// SceneConfig selects the Lua scene to run.
type SceneConfig struct {
	// Path of the scene script. Empty runs the built-in demo.
	Path  string `toml:"path" yaml:"path"`
	Watch bool   `toml:"watch" yaml:"watch"`

	// InstructionLimit bounds each script run. Zero disables the limit.
	InstructionLimit int `toml:"instructionLimit" yaml:"instructionLimit"`

	// DebounceMs delays reloads after a file change.
	DebounceMs int `toml:"debounceMs" yaml:"debounceMs"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Screen: ScreenConfig{
			TrueColor: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Scene: SceneConfig{
			InstructionLimit: 1_000_000,
			DebounceMs:       100,
		},
	}
}

// Option adjusts a configuration after defaults and files are applied.
type Option func(*Config)

// WithSize sets the screen size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Screen.Width = width
		c.Screen.Height = height
	}
}

// WithBackground sets the base background color.
func WithBackground(hex string) Option {
	return func(c *Config) {
		c.Screen.Background = hex
	}
}

// WithLogLevel sets the log level.
func WithLogLevel(level string) Option {
	return func(c *Config) {
		c.Logging.Level = level
	}
}

// WithLogFile sets the log file.
func WithLogFile(path string) Option {
	return func(c *Config) {
		c.Logging.File = path
	}
}

// WithScene sets the scene script path.
func WithScene(path string) Option {
	return func(c *Config) {
		c.Scene.Path = path
	}
}

// WithWatch enables or disables scene reloading.
func WithWatch(watch bool) Option {
	return func(c *Config) {
		c.Scene.Watch = watch
	}
}

// New returns the defaults with opts applied, validated.
func New(opts ...Option) (Config, error) {
	cfg := Default()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load builds a configuration from, in increasing priority: defaults, the
// file at path (TOML or YAML by extension, skipped when path is empty or
// missing), TESSERA_* environment variables, and opts.
func Load(path string, opts ...Option) (Config, error) {
	return loadWith(loader.DefaultFS(), loader.NewEnvLoader(EnvPrefix), path, opts...)
}

// envSource lists the environment variables that name settings.
type envSource interface {
	Vars() []loader.Var
}

func loadWith(fsys loader.FileSystem, env envSource, path string, opts ...Option) (Config, error) {
	cfg := Default()

	if path != "" {
		fl, err := loader.NewFileLoader(fsys, path)
		if err != nil {
			return Config{}, err
		}
		settings, err := fl.Load()
		if err != nil {
			return Config{}, err
		}
		if err := decode(settings, &cfg); err != nil {
			return Config{}, &loader.ParseError{Path: path, Message: err.Error(), Err: err}
		}
	}

	for _, v := range env.Vars() {
		if err := applyVar(v, &cfg); err != nil {
			return Config{}, err
		}
	}

	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyVar decodes one environment variable onto cfg. A value that parses
// as a number or boolean but names a string setting is kept as written.
func applyVar(v loader.Var, cfg *Config) error {
	err := decode(v.Settings(), cfg)
	if err == nil {
		return nil
	}
	if decode(v.RawSettings(), cfg) == nil {
		return nil
	}
	return &EnvError{Name: v.Name, Value: v.Raw, Err: err}
}

// decode overlays a settings map onto cfg. Keys absent from the map keep
// their current values; keys that name no setting are ignored. On error cfg
// is left unchanged.
func decode(settings map[string]any, cfg *Config) error {
	if len(settings) == 0 {
		return nil
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(settings); err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	next := *cfg
	if err := toml.Unmarshal(buf.Bytes(), &next); err != nil {
		return err
	}
	*cfg = next
	return nil
}

// Validate checks every field and returns the first problem found.
func (c Config) Validate() error {
	if c.Screen.Width < 0 {
		return &ValidationError{Field: "screen.width", Value: c.Screen.Width, Message: "must not be negative"}
	}
	if c.Screen.Height < 0 {
		return &ValidationError{Field: "screen.height", Value: c.Screen.Height, Message: "must not be negative"}
	}
	if c.Screen.Background != "" {
		if _, err := core.ColorFromHex(c.Screen.Background); err != nil {
			return &ValidationError{Field: "screen.background", Value: c.Screen.Background, Message: err.Error()}
		}
	}
	if _, ok := logLevels[strings.ToLower(c.Logging.Level)]; !ok {
		return &ValidationError{Field: "logging.level", Value: c.Logging.Level, Message: "must be one of debug, info, warn, error"}
	}
	if c.Scene.InstructionLimit < 0 {
		return &ValidationError{Field: "scene.instructionLimit", Value: c.Scene.InstructionLimit, Message: "must not be negative"}
	}
	if c.Scene.DebounceMs < 0 {
		return &ValidationError{Field: "scene.debounceMs", Value: c.Scene.DebounceMs, Message: "must not be negative"}
	}
	if c.Scene.Watch && c.Scene.Path == "" {
		return &ValidationError{Field: "scene.watch", Value: true, Message: "requires scene.path"}
	}
	return nil
}

var logLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

// BackgroundColor returns the parsed background, or transparent when unset.
// The configuration must have been validated.
func (s ScreenConfig) BackgroundColor() core.Color {
	if s.Background == "" {
		return core.ColorTransparent
	}
	c, _ := core.ColorFromHex(s.Background)
	return c
}

// HasFixedSize reports whether both dimensions are set explicitly.
func (s ScreenConfig) HasFixedSize() bool {
	return s.Width > 0 && s.Height > 0
}
