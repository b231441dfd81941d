// Package config loads drillmerge settings with Viper from defaults, an optional
// drillmerge.yaml file, DRILLMERGE_ environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/OpenTraceLab/drillmerge/pkg/drill"
)

// EnvPrefix is the prefix of environment overrides, e.g. DRILLMERGE_MERGE_PRECISION
const EnvPrefix = "DRILLMERGE"

// ErrInvalidConfig wraps every validation failure returned by Load
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds every drillmerge setting, grouped by concern
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Merge  MergeConfig  `mapstructure:"merge"`
	Input  InputConfig  `mapstructure:"input"`
	Header HeaderConfig `mapstructure:"header"`
	Output OutputConfig `mapstructure:"output"`
	Batch  BatchConfig  `mapstructure:"batch"`
	Watch  WatchConfig  `mapstructure:"watch"`
}

// LogConfig controls logger construction
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "console" or "json"
}

// MergeConfig holds the tool merge settings
type MergeConfig struct {
	Precision      int  `mapstructure:"precision"`
	SortByDiameter bool `mapstructure:"sort_by_diameter"`
}

// InputConfig limits what is read from disk
type InputConfig struct {
	MaxFileSize int64 `mapstructure:"max_file_size"` // bytes, 0 disables the guard
}

// HeaderConfig is the banner written above M48
type HeaderConfig struct {
	Vendor  string `mapstructure:"vendor"`
	Version string `mapstructure:"version"`
}

// OutputConfig names the files written by convert
type OutputConfig struct {
	PTHName  string `mapstructure:"pth_name"`
	NPTHName string `mapstructure:"npth_name"`
}

// BatchConfig controls the batch command
type BatchConfig struct {
	Jobs int `mapstructure:"jobs"` // 0 means GOMAXPROCS
}

// WatchConfig controls the watch command
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// SetDefaults registers the default value of every key
func SetDefaults(v *viper.Viper) {
	hdr := drill.DefaultHeader()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("merge.precision", drill.DefaultPrecision)
	v.SetDefault("merge.sort_by_diameter", false)
	v.SetDefault("input.max_file_size", int64(32<<20))
	v.SetDefault("header.vendor", hdr.Vendor)
	v.SetDefault("header.version", hdr.Version)
	v.SetDefault("output.pth_name", "Drill_PTH_Through.DRL")
	v.SetDefault("output.npth_name", "Drill_NPTH_Through.DRL")
	v.SetDefault("batch.jobs", 0)
	v.SetDefault("watch.debounce", 500*time.Millisecond)
}

// New returns a Viper instance with defaults, env binding and the config search path set.
// An explicit file path takes precedence over the search path.
func New(file string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("drillmerge")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/drillmerge")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile reads the configured file. A missing file in the search path is not an error;
// a missing explicit file is.
func ReadFile(v *viper.Viper) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return nil
	}
	return fmt.Errorf("failed to read config file: %w", err)
}

// Load decodes and validates the settings held by v
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return &cfg, nil
}

// Merger returns the merge settings as a drill.Merger
func (c *Config) Merger() drill.Merger {
	return drill.Merger{
		Precision:      c.Merge.Precision,
		SortByDiameter: c.Merge.SortByDiameter,
	}
}

// StaticHeader returns the header renderer described by the config
func (c *Config) StaticHeader() drill.StaticHeader {
	return drill.StaticHeader{
		Vendor:  c.Header.Vendor,
		Version: c.Header.Version,
	}
}

func validate(cfg *Config) error {
	switch strings.ToLower(cfg.Log.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", cfg.Log.Format)
	}

	if err := cfg.Merger().Validate(); err != nil {
		return fmt.Errorf("merge: %w", err)
	}

	if cfg.Input.MaxFileSize < 0 {
		return fmt.Errorf("input.max_file_size must not be negative")
	}

	if cfg.Batch.Jobs < 0 {
		return fmt.Errorf("batch.jobs must not be negative")
	}

	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}

	for key, name := range map[string]string{
		"output.pth_name":  cfg.Output.PTHName,
		"output.npth_name": cfg.Output.NPTHName,
	} {
		if err := validateOutputName(name); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}

	return nil
}

// validateOutputName accepts a bare filename only
func validateOutputName(name string) error {
	if name == "" {
		return fmt.Errorf("empty filename")
	}
	if filepath.Base(name) != name || name == "." || name == ".." {
		return fmt.Errorf("must be a plain filename, got %q", name)
	}
	return nil
}
