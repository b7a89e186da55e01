package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	EnvConfig    = "TEXTPROC_CONFIG"
	EnvLogLevel  = "TEXTPROC_LOG_LEVEL"
	EnvLogFormat = "TEXTPROC_LOG_FORMAT"
	EnvAccel     = "TEXTPROC_ACCEL"
)

type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

type AccelConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`
}

type ServerConfig struct {
	Name        string        `yaml:"name" toml:"name"`
	ToolTimeout time.Duration `yaml:"tool_timeout" toml:"tool_timeout"`
}

type BatchConfig struct {
	Concurrency int `yaml:"concurrency" toml:"concurrency"`
}

type Config struct {
	Log    LogConfig    `yaml:"log" toml:"log"`
	Accel  AccelConfig  `yaml:"accel" toml:"accel"`
	Server ServerConfig `yaml:"server" toml:"server"`
	Batch  BatchConfig  `yaml:"batch" toml:"batch"`
}

func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Accel: AccelConfig{
			Enabled: true,
		},
		Server: ServerConfig{
			Name:        "textproc",
			ToolTimeout: 30 * time.Second,
		},
		Batch: BatchConfig{
			Concurrency: runtime.NumCPU(),
		},
	}
}

// DefaultPath is ~/.textproc/config.yaml.
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".textproc", "config.yaml")
}

// Load reads defaults, then the config file if present, then environment
// overrides. An explicit path (argument or TEXTPROC_CONFIG) must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		if env := os.Getenv(EnvConfig); env != "" {
			path = env
			explicit = true
		} else {
			path = DefaultPath()
		}
	}

	if err := cfg.mergeFile(path, explicit); err != nil {
		return nil, err
	}

	cfg.ApplyEnv(os.Getenv)
	return cfg, cfg.Validate()
}

func (c *Config) mergeFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}

	// .toml files use TOML with the same keys; durations there are integer
	// nanoseconds. Everything else is YAML.
	unmarshal := yaml.Unmarshal
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		unmarshal = toml.Unmarshal
	}
	if err := unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := getenv(EnvLogFormat); v != "" {
		c.Log.Format = v
	}
	if v := getenv(EnvAccel); v != "" {
		c.Accel.Enabled = parseSwitch(v, c.Accel.Enabled)
	}
}

func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q: want debug, info, warn or error", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q: want text or json", c.Log.Format)
	}
	if c.Batch.Concurrency < 1 {
		return fmt.Errorf("batch concurrency must be positive, got %d", c.Batch.Concurrency)
	}
	if c.Server.ToolTimeout < 0 {
		return fmt.Errorf("tool timeout cannot be negative")
	}
	return nil
}

func parseSwitch(v string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "yes":
		return true
	case "off", "no":
		return false
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return fallback
}
