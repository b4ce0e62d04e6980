package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Criterion      string                     `mapstructure:"criterion" toml:"criterion"`
	Order          string                     `mapstructure:"order" toml:"order"`
	ResolveSymlink bool                       `mapstructure:"resolve_symlinks" toml:"resolve_symlinks"`
	ParentLimit    *int                       `mapstructure:"parent_limit" toml:"parent_limit,omitempty"`
	Marker         string                     `mapstructure:"marker" toml:"marker"`
	Log            LogConfig                  `mapstructure:"log" toml:"log"`
	Scan           ScanConfig                 `mapstructure:"scan" toml:"scan"`
	Policies       map[string][]CriterionSpec `mapstructure:"policies" toml:"policies,omitempty"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level" toml:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" toml:"format"` // text, logfmt, json; empty picks by terminal
}

// ScanConfig holds project scan configuration
type ScanConfig struct {
	SearchPaths []string `mapstructure:"search_paths" toml:"search_paths"` // Directories to scan for projects
	MaxDepth    int      `mapstructure:"max_depth" toml:"max_depth"`       // Max depth to scan (default: 3)
	Exclude     []string `mapstructure:"exclude" toml:"exclude"`           // Directory names never descended into
}

// CriterionSpec declares one entry of a configured policy. Exactly one of
// the kind fields (File, Dir, Entry, Glob, FileGlob, Pattern, Basename,
// Criterion, Any, All) must be set. Contents, Line and Lines refine File,
// FileGlob and Pattern.
type CriterionSpec struct {
	Name      string          `mapstructure:"name" toml:"name,omitempty"`
	File      string          `mapstructure:"file" toml:"file,omitempty"`
	Dir       string          `mapstructure:"dir" toml:"dir,omitempty"`
	Entry     string          `mapstructure:"entry" toml:"entry,omitempty"`
	Glob      string          `mapstructure:"glob" toml:"glob,omitempty"`
	FileGlob  string          `mapstructure:"file_glob" toml:"file_glob,omitempty"`
	Pattern   string          `mapstructure:"pattern" toml:"pattern,omitempty"`
	Basename  string          `mapstructure:"basename" toml:"basename,omitempty"`
	Criterion string          `mapstructure:"criterion" toml:"criterion,omitempty"` // Name of a builtin criterion
	Contents  string          `mapstructure:"contents" toml:"contents,omitempty"`   // Regular expression a line must match
	Line      string          `mapstructure:"line" toml:"line,omitempty"`           // Exact line
	Lines     int             `mapstructure:"lines" toml:"lines,omitempty"`         // Only the first N lines (0 = all)
	Any       []CriterionSpec `mapstructure:"any" toml:"any,omitempty"`
	All       []CriterionSpec `mapstructure:"all" toml:"all,omitempty"`
}

// Kinds returns the names of the kind fields that are set.
func (s CriterionSpec) Kinds() []string {
	var kinds []string
	add := func(set bool, kind string) {
		if set {
			kinds = append(kinds, kind)
		}
	}
	add(s.File != "", "file")
	add(s.Dir != "", "dir")
	add(s.Entry != "", "entry")
	add(s.Glob != "", "glob")
	add(s.FileGlob != "", "file_glob")
	add(s.Pattern != "", "pattern")
	add(s.Basename != "", "basename")
	add(s.Criterion != "", "criterion")
	add(len(s.Any) > 0, "any")
	add(len(s.All) > 0, "all")
	return kinds
}

// HasContentTest reports whether s refines a file match by contents.
func (s CriterionSpec) HasContentTest() bool {
	return s.Contents != "" || s.Line != ""
}

// Load loads the configuration from file and environment variables
func Load() (*Config, error) {
	config := &Config{}

	// Set defaults
	setDefaults()

	// Unmarshal the config
	if err := viper.Unmarshal(config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	// Expand paths
	if err := expandPaths(config); err != nil {
		return nil, errors.Wrap(err, "failed to expand paths")
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return config, nil
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return &Config{
		Criterion:      "here",
		Order:          "",
		ResolveSymlink: true,
		Marker:         ".here",
		Log: LogConfig{
			Level: "warn",
		},
		Scan: ScanConfig{
			SearchPaths: []string{filepath.Join(homeDir, "src")},
			MaxDepth:    3,
			Exclude:     []string{"node_modules", "vendor", ".cache"},
		},
	}
}

// ValidOrders is the list of supported search orders. Empty keeps the
// order of the selected policy.
var ValidOrders = []string{"", "entry", "directory"}

// ValidLogLevels is the list of supported log levels.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// ValidLogFormats is the list of supported log formats. Empty means auto.
var ValidLogFormats = []string{"", "text", "logfmt", "json"}

func validateOneOf(field, value string, valid []string) error {
	if slices.Contains(valid, strings.ToLower(value)) {
		return nil
	}
	names := slices.DeleteFunc(slices.Clone(valid), func(s string) bool { return s == "" })
	return errors.Newf("invalid %s %q: must be one of: %s", field, value, strings.Join(names, ", "))
}

// Validate validates the configuration and returns any validation errors.
func (c *Config) Validate() error {
	if c.Criterion == "" {
		return errors.New("criterion: must not be empty")
	}
	if err := validateOneOf("order", c.Order, ValidOrders); err != nil {
		return errors.Wrap(err, "order")
	}
	if err := validateOneOf("log level", c.Log.Level, ValidLogLevels); err != nil {
		return errors.Wrap(err, "log.level")
	}
	if err := validateOneOf("log format", c.Log.Format, ValidLogFormats); err != nil {
		return errors.Wrap(err, "log.format")
	}
	if c.Marker == "" || filepath.IsAbs(c.Marker) {
		return errors.Newf("marker: %q must be a relative file name", c.Marker)
	}
	if c.Scan.MaxDepth < 0 {
		return errors.Newf("scan.max_depth: must not be negative, got %d", c.Scan.MaxDepth)
	}
	for name, entries := range c.Policies {
		if len(entries) == 0 {
			return errors.Newf("policies.%s: must have at least one entry", name)
		}
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	d := Default()

	viper.SetDefault("criterion", d.Criterion)
	viper.SetDefault("order", d.Order)
	viper.SetDefault("resolve_symlinks", d.ResolveSymlink)
	viper.SetDefault("marker", d.Marker)

	// parent_limit has no default; nil means unlimited
	_ = viper.BindEnv("parent_limit")

	// Log defaults (empty format means pick by terminal)
	viper.SetDefault("log.level", d.Log.Level)
	viper.SetDefault("log.format", d.Log.Format)

	// Scan defaults
	viper.SetDefault("scan.search_paths", d.Scan.SearchPaths)
	viper.SetDefault("scan.max_depth", d.Scan.MaxDepth)
	viper.SetDefault("scan.exclude", d.Scan.Exclude)
}

// expandPaths expands ~ in paths
func expandPaths(config *Config) error {
	var err error
	for i, path := range config.Scan.SearchPaths {
		config.Scan.SearchPaths[i], err = ExpandPath(path)
		if err != nil {
			return err
		}
	}
	return nil
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, path[1:]), nil
}
