// Package config loads the YAML configuration shared by the prepindex,
// searchindex, and perfwrap command-line drivers, and builds the
// structured logger they all use.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// BuildConfig controls cmd/prepindex.
type BuildConfig struct {
	InitCapacity int `yaml:"init_capacity"`
}

// SearchConfig controls cmd/searchindex.
type SearchConfig struct {
	MaxEditDistance int `yaml:"max_edit_distance"`
}

// MetricsConfig controls the optional Prometheus endpoint cmd/searchindex
// can expose while it drains a query file.
type MetricsConfig struct {
	Enabled       bool   `yaml:"enabled"`
	ListenAddress string `yaml:"listen_address"`
}

// LoggingConfig controls the slog handler every driver constructs.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Output string `yaml:"output"` // stdout, stderr, file
	File   string `yaml:"file"`
}

// Config is the top-level configuration shared by all drivers.
type Config struct {
	Build   BuildConfig   `yaml:"build"`
	Search  SearchConfig  `yaml:"search"`
	Metrics MetricsConfig `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Build: BuildConfig{
			InitCapacity: 1024,
		},
		Search: SearchConfig{
			MaxEditDistance: 3,
		},
		Metrics: MetricsConfig{
			Enabled:       false,
			ListenAddress: ":9090",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: "stderr",
		},
	}
}

// Load reads YAML configuration from r, overlaying it onto Default().
// A nil reader returns the defaults unchanged.
func Load(r io.Reader) (*Config, error) {
	cfg := Default()
	if r == nil {
		return cfg, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("config: read: %w", err)
	}
	if len(data) == 0 {
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}

// LoadFile reads configuration from a path, falling back to Default()
// if the file does not exist.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Load(nil)
		}
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// nopCloser is returned as the io.Closer for outputs NewLogger does not
// own (stdout, stderr): closing them is the caller's business, not
// this logger's.
type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewLogger builds a slog.Logger from LoggingConfig, along with an
// io.Closer the caller must defer-close. For the "file" output mode
// the closer releases the opened file handle; for stdout/stderr it is
// a no-op, since those streams outlive the logger.
func NewLogger(cfg LoggingConfig) (*slog.Logger, io.Closer, error) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info", "":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, nil, fmt.Errorf("config: invalid log level %q", cfg.Level)
	}

	var output io.Writer
	var closer io.Closer = nopCloser{}
	switch strings.ToLower(cfg.Output) {
	case "stdout":
		output = os.Stdout
	case "file":
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("config: open log file: %w", err)
		}
		output = f
		closer = f
	case "stderr", "":
		output = os.Stderr
	default:
		return nil, nil, fmt.Errorf("config: invalid log output %q", cfg.Output)
	}

	return slog.New(slog.NewJSONHandler(output, &slog.HandlerOptions{Level: level})), closer, nil
}
