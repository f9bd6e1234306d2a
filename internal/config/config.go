package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/program"
)

// Config holds the finder service configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Data     DataConfig     `yaml:"data"`
	Sessions SessionsConfig `yaml:"sessions"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int      `yaml:"port"`
	ReadTimeoutSec  int      `yaml:"read_timeout_sec"`
	WriteTimeoutSec int      `yaml:"write_timeout_sec"`
	ShutdownSec     int      `yaml:"shutdown_timeout_sec"`
	CORSOrigins     []string `yaml:"cors_origins"`
}

// DataConfig describes the source dataset.
type DataConfig struct {
	Path       string `yaml:"path"`
	Delimiter  string `yaml:"delimiter"` // single character (default: "|")
	Strategy   string `yaml:"strategy"`  // exact, keyword (default: exact)
	SourceNote string `yaml:"source_note"`
}

// SessionsConfig holds session store settings.
type SessionsConfig struct {
	Driver           string   `yaml:"driver"` // memory, redis, valkey (default: memory)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	KeyPrefix        string   `yaml:"key_prefix"`
	TTLSec           int      `yaml:"ttl_sec"`
	SweepSec         int      `yaml:"sweep_sec"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML config data, expanding ${VAR} references, then applies
// defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Data.Path == "" {
		c.Data.Path = "data/ccmt_data.psv"
	}
	if c.Data.Delimiter == "" {
		c.Data.Delimiter = "|"
	}
	if c.Data.Strategy == "" {
		c.Data.Strategy = string(program.Exact)
	}
	if c.Sessions.Driver == "" {
		c.Sessions.Driver = "memory"
	}
	if c.Sessions.KeyPrefix == "" {
		c.Sessions.KeyPrefix = "ccmt:"
	}
	if c.Sessions.TTLSec <= 0 {
		c.Sessions.TTLSec = 3600
	}
	if c.Sessions.SweepSec <= 0 {
		c.Sessions.SweepSec = 60
	}
	if c.Sessions.ReadinessTimeout <= 0 {
		c.Sessions.ReadinessTimeout = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len([]rune(c.Data.Delimiter)) != 1 {
		return fmt.Errorf("data.delimiter must be a single character, got %q", c.Data.Delimiter)
	}
	if !program.Strategy(c.Data.Strategy).IsValid() {
		return fmt.Errorf("data.strategy must be \"exact\" or \"keyword\", got %q", c.Data.Strategy)
	}
	switch c.Sessions.Driver {
	case "memory":
	case "redis", "valkey":
		if len(c.Sessions.Addrs) == 0 {
			return fmt.Errorf("sessions.addrs is required for driver %q", c.Sessions.Driver)
		}
	default:
		return fmt.Errorf("sessions.driver must be \"memory\", \"redis\" or \"valkey\", got %q", c.Sessions.Driver)
	}
	return nil
}

// DelimiterRune returns the configured column separator.
func (d DataConfig) DelimiterRune() rune {
	return []rune(d.Delimiter)[0]
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
