// Package config loads the docpress build configuration using Viper, so
// values can come from a YAML file, DOCPRESS_* environment variables or
// command-line flags.
//
// The loaded Config is read-only after Load. Builders never modify it; they
// derive a builder-scoped Settings snapshot once at construction time.
package config

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// EnvPrefix is the environment variable prefix bound by Viper.
const EnvPrefix = "DOCPRESS"

// DefaultThemeName is the name of the theme embedded in the binary.
const DefaultThemeName = "docpress"

var (
	// ErrInvalidConfig wraps every validation failure.
	ErrInvalidConfig = errors.New("invalid configuration")
)

type Config struct {
	Project     string            `mapstructure:"project"`
	Author      string            `mapstructure:"author"`
	Language    string            `mapstructure:"language"`
	RootDoc     string            `mapstructure:"root_doc"`
	SourceDir   string            `mapstructure:"source_dir"`
	OutputDir   string            `mapstructure:"output_dir"`
	Builder     string            `mapstructure:"builder"`
	Documents   []string          `mapstructure:"documents"`
	Features    map[string]bool   `mapstructure:"features"`
	Vivliostyle VivliostyleConfig `mapstructure:"vivliostyle"`
}

// VivliostyleConfig holds the options of the paginated builders.
type VivliostyleConfig struct {
	Theme        string              `mapstructure:"theme"`
	ThemeOptions map[string]any      `mapstructure:"theme_options"`
	Sidebars     map[string][]string `mapstructure:"sidebars"`
	Vars         map[string]any      `mapstructure:"vars"`
	Context      map[string]any      `mapstructure:"context"`
	Debug        bool                `mapstructure:"debug"`
	Timeout      time.Duration       `mapstructure:"timeout"` // 0 means unbounded
	Retries      int                 `mapstructure:"retries"`
	Flags        []string            `mapstructure:"flags"`
	FileName     string              `mapstructure:"file_name"`
	Command      string              `mapstructure:"command"`
}

// SetDefaults registers every default value on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("project", "Documentation")
	v.SetDefault("author", "")
	v.SetDefault("language", "en")
	v.SetDefault("root_doc", "index")
	v.SetDefault("source_dir", ".")
	v.SetDefault("output_dir", "_build")
	v.SetDefault("builder", "vivliostyle")
	v.SetDefault("documents", []string{})
	v.SetDefault("features", map[string]bool{})

	v.SetDefault("vivliostyle.theme", DefaultThemeName)
	v.SetDefault("vivliostyle.theme_options", map[string]any{})
	v.SetDefault("vivliostyle.sidebars", map[string][]string{"**": {"localtoc.html"}})
	v.SetDefault("vivliostyle.vars", map[string]any{})
	v.SetDefault("vivliostyle.context", map[string]any{})
	v.SetDefault("vivliostyle.debug", false)
	v.SetDefault("vivliostyle.timeout", time.Duration(0))
	v.SetDefault("vivliostyle.retries", 0)
	v.SetDefault("vivliostyle.flags", []string{})
	v.SetDefault("vivliostyle.file_name", "")
	v.SetDefault("vivliostyle.command", "vivliostyle")
}

// Load unmarshals the configuration held by v and validates it.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	hook := mapstructure.ComposeDecodeHookFunc(
		secondsToDurationHook(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(hook)); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}

	if len(cfg.Vivliostyle.Sidebars) == 0 {
		cfg.Vivliostyle.Sidebars = map[string][]string{"**": {"localtoc.html"}}
	}
	if cfg.Vivliostyle.Theme == "" {
		cfg.Vivliostyle.Theme = DefaultThemeName
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// secondsToDurationHook lets plain numbers be used for durations, counted in
// seconds ("timeout: 120"). Strings still go through time.ParseDuration.
func secondsToDurationHook() mapstructure.DecodeHookFuncType {
	durationType := reflect.TypeOf(time.Duration(0))
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to != durationType || from == durationType {
			return data, nil
		}
		switch from.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return time.Duration(reflect.ValueOf(data).Int()) * time.Second, nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return time.Duration(reflect.ValueOf(data).Uint()) * time.Second, nil
		case reflect.Float32, reflect.Float64:
			return time.Duration(reflect.ValueOf(data).Float() * float64(time.Second)), nil
		}
		return data, nil
	}
}

// Validate checks values that decoding alone cannot reject.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.RootDoc) == "" {
		return fmt.Errorf("%w: root_doc must not be empty", ErrInvalidConfig)
	}
	if c.Vivliostyle.Retries < 0 {
		return fmt.Errorf("%w: vivliostyle.retries cannot be negative (got %d)", ErrInvalidConfig, c.Vivliostyle.Retries)
	}
	if c.Vivliostyle.Timeout < 0 {
		return fmt.Errorf("%w: vivliostyle.timeout cannot be negative (got %s)", ErrInvalidConfig, c.Vivliostyle.Timeout)
	}
	return nil
}

// FileName returns the final artifact name, derived from the project name
// when no explicit override is configured.
func (c *Config) FileName() string {
	if c.Vivliostyle.FileName != "" {
		return c.Vivliostyle.FileName
	}
	return c.Project + ".pdf"
}

// FeatureEnabled reports whether a named feature flag is on.
func (c *Config) FeatureEnabled(name string) bool {
	return c.Features[strings.ToLower(name)]
}

// Settings is a builder-scoped view of the configuration. It is derived once
// before any rendering begins and owns copies of every map it holds.
type Settings struct {
	Builder      string
	Theme        string
	Sidebars     map[string][]string
	ThemeOptions map[string]any
	Vars         map[string]any
	Context      map[string]any
	Permalinks   bool
	Debug        bool
}

// Snapshot derives the Settings for the named builder.
func (c *Config) Snapshot(builder string) Settings {
	s := Settings{
		Builder:      builder,
		Theme:        c.Vivliostyle.Theme,
		Sidebars:     make(map[string][]string, len(c.Vivliostyle.Sidebars)),
		ThemeOptions: maps.Clone(c.Vivliostyle.ThemeOptions),
		Vars:         maps.Clone(c.Vivliostyle.Vars),
		Context:      maps.Clone(c.Vivliostyle.Context),
		Debug:        c.Vivliostyle.Debug,
	}
	for pattern, names := range c.Vivliostyle.Sidebars {
		s.Sidebars[pattern] = slices.Clone(names)
	}
	if s.ThemeOptions == nil {
		s.ThemeOptions = map[string]any{}
	}
	if s.Vars == nil {
		s.Vars = map[string]any{}
	}
	if s.Context == nil {
		s.Context = map[string]any{}
	}
	s.Context["debug"] = c.Vivliostyle.Debug
	return s
}

// Var returns a style variable or def when it is not configured.
func (s Settings) Var(name string, def any) any {
	if v, ok := s.Vars[name]; ok {
		return v
	}
	return def
}

// ThemeOption returns a theme option or def when it is not configured.
func (s Settings) ThemeOption(name string, def any) any {
	if v, ok := s.ThemeOptions[name]; ok {
		return v
	}
	return def
}
