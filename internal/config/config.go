package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/vango-dev/store/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "store.json"

	// DefaultMetricsAddr is the default listen address for /metrics.
	DefaultMetricsAddr = "127.0.0.1:9464"

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "store"

	// DefaultScenario is the default demo scenario.
	DefaultScenario = "counter"

	// DefaultSteps is the default number of demo steps.
	DefaultSteps = 3
)

// Config represents store.json.
type Config struct {
	// Name identifies this process in logs and as the "app" metrics label.
	Name string `json:"name,omitempty"`

	// Log configures the slog handler.
	Log LogConfig `json:"log,omitempty"`

	// Metrics configures the Prometheus endpoint.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Demo configures `storectl demo`.
	Demo DemoConfig `json:"demo,omitempty"`

	configPath string
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty"`
}

// MetricsConfig configures the metrics endpoint.
type MetricsConfig struct {
	// Enabled turns on the Prometheus middleware and the HTTP endpoint.
	Enabled bool `json:"enabled,omitempty"`

	// Addr is the listen address for /metrics and /healthz.
	Addr string `json:"addr,omitempty"`

	// Namespace is the Prometheus namespace.
	Namespace string `json:"namespace,omitempty"`
}

// DemoConfig configures the demo scenarios.
type DemoConfig struct {
	// Scenario is counter or todos.
	Scenario string `json:"scenario,omitempty"`

	// Steps is how many actions the scenario performs.
	Steps int `json:"steps,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Name: "storectl",
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Addr:      DefaultMetricsAddr,
			Namespace: DefaultNamespace,
		},
		Demo: DemoConfig{
			Scenario: DefaultScenario,
			Steps:    DefaultSteps,
		},
	}
}

// Load reads store.json from dir.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E141").
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				WithSuggestion("Create " + ConfigFileName + " or run without --config to use defaults")
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse " + path + ": " + err.Error()).
			WithSuggestion("Check that the file is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields. Demo.Steps is not
// touched: LoadFile decodes over New(), so a missing key keeps the default and
// an explicit 0 is honored.
func (c *Config) applyDefaults() {
	if c.Name == "" {
		c.Name = "storectl"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = DefaultMetricsAddr
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Demo.Scenario == "" {
		c.Demo.Scenario = DefaultScenario
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, ok := parseLevel(c.Log.Level); !ok {
		return errors.New("E122").
			WithDetail("log.level must be debug, info, warn or error, got " + c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("E122").
			WithDetail("log.format must be text or json, got " + c.Log.Format)
	}
	if c.Demo.Steps < 0 || c.Demo.Steps > 10000 {
		return errors.New("E122").
			WithDetail("demo.steps must be between 0 and 10000")
	}
	return nil
}

// SlogLevel returns the configured level. Unknown levels map to info.
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.Log.Level)
	return level
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
