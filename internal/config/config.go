package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Environment variables consulted by Load.
const (
	EnvConfigPath = "QRDETECTOR_CONFIG"
	EnvAPIKey     = "QRDETECTOR_API_KEY"
	EnvVTAPIKey   = "VT_API_KEY"
)

// Config contains every configuration section of the application.
type Config struct {
	HTTP       HTTPConfig       `json:"http,omitempty" yaml:"http,omitempty"`
	Resolver   ResolverConfig   `json:"resolver,omitempty" yaml:"resolver,omitempty"`
	Reputation ReputationConfig `json:"reputation,omitempty" yaml:"reputation,omitempty"`
	Title      TitleConfig      `json:"title,omitempty" yaml:"title,omitempty"`
	Log        LogConfig        `json:"log,omitempty" yaml:"log,omitempty"`
	Runner     RunnerConfig     `json:"runner,omitempty" yaml:"runner,omitempty"`
	Server     ServerConfig     `json:"server,omitempty" yaml:"server,omitempty"`
}

// HTTPConfig configures the shared outbound HTTP client.
type HTTPConfig struct {
	TimeoutSecs int               `json:"timeout_secs,omitempty" yaml:"timeout_secs,omitempty" validate:"min=1,max=300"`
	UserAgent   string            `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	Proxy       string            `json:"proxy,omitempty" yaml:"proxy,omitempty" validate:"omitempty,url"`
	Insecure    bool              `json:"insecure" yaml:"insecure"`
	EnableHTTP2 bool              `json:"enable_http2" yaml:"enable_http2"`
	Headers     map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// ResolverConfig configures redirect chain resolution.
type ResolverConfig struct {
	MaxHops int `json:"max_hops,omitempty" yaml:"max_hops,omitempty" validate:"min=1,max=32"`
}

// ReputationConfig configures the reputation service client.
type ReputationConfig struct {
	APIKey  string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" validate:"required,url"`
}

// TitleConfig configures page title fetching.
type TitleConfig struct {
	MaxBodyBytes int64 `json:"max_body_bytes,omitempty" yaml:"max_body_bytes,omitempty" validate:"min=1024"`
}

// LogConfig defines configuration for logging.
type LogConfig struct {
	LogFile       string `json:"log_file,omitempty" yaml:"log_file,omitempty"`
	LogFormat     string `json:"log_format,omitempty" yaml:"log_format,omitempty" validate:"omitempty,logformat"`
	LogLevel      string `json:"log_level,omitempty" yaml:"log_level,omitempty" validate:"omitempty,loglevel"`
	MaxLogBackups int    `json:"max_log_backups,omitempty" yaml:"max_log_backups,omitempty" validate:"min=0"`
	MaxLogSizeMB  int    `json:"max_log_size_mb,omitempty" yaml:"max_log_size_mb,omitempty" validate:"min=0"`
}

// RunnerConfig configures batch analysis.
type RunnerConfig struct {
	Threads   int `json:"threads,omitempty" yaml:"threads,omitempty" validate:"min=1,max=256"`
	RateLimit int `json:"rate_limit,omitempty" yaml:"rate_limit,omitempty" validate:"min=0"` // analyses per second, 0 = unlimited
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty" validate:"required,hostname_port"`
}

// Default values.
const (
	DefaultTimeoutSecs       = 10
	DefaultUserAgent         = "QR-Detector/1.0"
	DefaultMaxHops           = 8
	DefaultReputationBaseURL = "https://www.virustotal.com/api/v3"
	DefaultMaxBodyBytes      = 1 << 20
	DefaultLogFormat         = "console"
	DefaultLogLevel          = "info"
	DefaultMaxLogBackups     = 3
	DefaultMaxLogSizeMB      = 100
	DefaultThreads           = 4
	DefaultServerAddr        = "127.0.0.1:8080"
)

// NewDefaultConfig returns a Config populated with defaults.
func NewDefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			TimeoutSecs: DefaultTimeoutSecs,
			UserAgent:   DefaultUserAgent,
			EnableHTTP2: true,
		},
		Resolver:   ResolverConfig{MaxHops: DefaultMaxHops},
		Reputation: ReputationConfig{BaseURL: DefaultReputationBaseURL},
		Title:      TitleConfig{MaxBodyBytes: DefaultMaxBodyBytes},
		Log: LogConfig{
			LogFormat:     DefaultLogFormat,
			LogLevel:      DefaultLogLevel,
			MaxLogBackups: DefaultMaxLogBackups,
			MaxLogSizeMB:  DefaultMaxLogSizeMB,
		},
		Runner: RunnerConfig{Threads: DefaultThreads},
		Server: ServerConfig{Addr: DefaultServerAddr},
	}
}

// Load reads the configuration file (if any), applies environment overrides and validates
// the result. An empty path falls back to ResolvePath.
func Load(path string) (*Config, error) {
	cfg := NewDefaultConfig()

	filePath := ResolvePath(path)
	if path != "" && filePath == "" {
		return nil, NewValidationError("config_file", path, "config file does not exist")
	}
	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := parse(data, filePath, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ResolvePath determines the configuration file path.
// Priority: explicit path, QRDETECTOR_CONFIG, config.yaml / config.yml / config.json in the
// working directory. Returns "" when nothing exists.
func ResolvePath(path string) string {
	if path != "" {
		if fileExists(path) {
			return path
		}
		return ""
	}
	if env := os.Getenv(EnvConfigPath); env != "" && fileExists(env) {
		return env
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	for _, name := range []string{"config.yaml", "config.yml", "config.json"} {
		candidate := filepath.Join(cwd, name)
		if fileExists(candidate) {
			return candidate
		}
	}
	return ""
}

func parse(data []byte, filePath string, cfg *Config) error {
	switch filepath.Ext(filePath) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to unmarshal YAML from '%s': %w", filePath, err)
		}
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to unmarshal JSON from '%s': %w", filePath, err)
		}
	}
	return nil
}

func applyEnv(cfg *Config) {
	if key := os.Getenv(EnvAPIKey); key != "" {
		cfg.Reputation.APIKey = key
		return
	}
	if key := os.Getenv(EnvVTAPIKey); key != "" && cfg.Reputation.APIKey == "" {
		cfg.Reputation.APIKey = key
	}
}

func fileExists(name string) bool {
	info, err := os.Stat(name)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
