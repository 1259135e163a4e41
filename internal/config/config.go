package config

import (
	"encoding/json"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/vango-dev/incdom/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "incdom.json"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultNamespace is the default Prometheus metrics namespace.
	DefaultNamespace = "incdom"

	// DefaultAddr is the default inspector listen address.
	DefaultAddr = "localhost:7070"

	// DefaultListSize is the default number of keyed items in a bench run.
	DefaultListSize = 1000

	// DefaultIterations is the default number of bench patches.
	DefaultIterations = 200
)

// Config represents the complete incdom.json configuration.
type Config struct {
	// Debug enables the engine's usage assertions.
	Debug bool `json:"debug,omitempty"`

	// LogLevel is one of "debug", "info", "warn" or "error".
	LogLevel string `json:"logLevel,omitempty"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Inspect contains inspector server settings.
	Inspect InspectConfig `json:"inspect,omitempty"`

	// Bench contains benchmark settings.
	Bench BenchConfig `json:"bench,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Namespace prefixes every metric name.
	Namespace string `json:"namespace,omitempty"`
}

// InspectConfig contains inspector server settings.
type InspectConfig struct {
	// Addr is the host:port the inspector listens on.
	Addr string `json:"addr,omitempty"`
}

// BenchConfig contains benchmark settings.
type BenchConfig struct {
	// ListSize is the number of keyed items reconciled per patch.
	ListSize int `json:"listSize,omitempty"`

	// Iterations is the number of patches to run.
	Iterations int `json:"iterations,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		Metrics: MetricsConfig{
			Namespace: DefaultNamespace,
		},
		Inspect: InspectConfig{
			Addr: DefaultAddr,
		},
		Bench: BenchConfig{
			ListSize:   DefaultListSize,
			Iterations: DefaultIterations,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for incdom.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E030").
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				WithSuggestion("Create " + ConfigFileName + " or run without --config to use defaults")
		}
		return nil, errors.New("E031").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E031").
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// LoadOrDefault loads incdom.json from dir, returning defaults when the file
// does not exist. Other errors are returned as is.
func LoadOrDefault(dir string) (*Config, error) {
	cfg, err := Load(dir)
	if err != nil {
		if errors.New("E030").Is(err) {
			return New(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E031").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E031").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Inspect.Addr == "" {
		c.Inspect.Addr = DefaultAddr
	}
	if c.Bench.ListSize == 0 {
		c.Bench.ListSize = DefaultListSize
	}
	if c.Bench.Iterations == 0 {
		c.Bench.Iterations = DefaultIterations
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, _, err := net.SplitHostPort(c.Inspect.Addr); err != nil {
		return errors.New("E032").
			WithDetailf("inspect.addr %q is not a host:port address", c.Inspect.Addr)
	}
	if c.Bench.ListSize < 1 {
		return errors.New("E032").
			WithDetail("bench.listSize must be at least 1")
	}
	if c.Bench.Iterations < 1 {
		return errors.New("E032").
			WithDetail("bench.iterations must be at least 1")
	}
	return nil
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errors.New("E032").
			WithDetailf("logLevel %q is not one of debug, info, warn, error", name).
			WithSuggestion(`Use "debug", "info", "warn" or "error"`)
	}
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindRoot walks up directories to find the one containing incdom.json.
func FindRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E030").
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}
