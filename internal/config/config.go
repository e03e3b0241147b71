package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TRANSREVIEW_"

// Config defines server configuration.
type Config struct {
	Server ServerConfig `yaml:"server" toml:"server"`
	Data   DataConfig   `yaml:"data" toml:"data"`
	Static StaticConfig `yaml:"static" toml:"static"`
	Log    LogConfig    `yaml:"log" toml:"log"`
	MCP    MCPConfig    `yaml:"mcp" toml:"mcp"`
}

type ServerConfig struct {
	Host string `yaml:"host" toml:"host"`
	Port int    `yaml:"port" toml:"port"`
}

// DataConfig locates the folder holding one subfolder per project.
type DataConfig struct {
	Root string `yaml:"root" toml:"root"`
}

// StaticConfig locates the editor's HTML/JS assets.
type StaticConfig struct {
	Dir string `yaml:"dir" toml:"dir"`
}

type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
	Path   string `yaml:"path" toml:"path"`
}

type MCPConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8000,
		},
		Data: DataConfig{
			Root: "data",
		},
		Static: StaticConfig{
			Dir: ".",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
		MCP: MCPConfig{
			Enabled: true,
		},
	}
}

// Load reads configuration from an optional YAML or TOML file and
// environment variables. An empty path falls back to TRANSREVIEW_CONFIG_PATH.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvPrefix + "CONFIG_PATH")
	}
	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Validate checks field values.
func (c Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if strings.TrimSpace(c.Data.Root) == "" {
		return fmt.Errorf("data root is required")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "auto", "text", "json":
	default:
		return fmt.Errorf("invalid log format %q", c.Log.Format)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if host := os.Getenv(EnvPrefix + "SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv(EnvPrefix + "SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid %sSERVER_PORT: %w", EnvPrefix, err)
		}
		cfg.Server.Port = port
	}
	if root := os.Getenv(EnvPrefix + "DATA_ROOT"); root != "" {
		cfg.Data.Root = root
	}
	if dir := os.Getenv(EnvPrefix + "STATIC_DIR"); dir != "" {
		cfg.Static.Dir = dir
	}
	if level := os.Getenv(EnvPrefix + "LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if format := os.Getenv(EnvPrefix + "LOG_FORMAT"); format != "" {
		cfg.Log.Format = format
	}
	if logPath := os.Getenv(EnvPrefix + "LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if enabled := os.Getenv(EnvPrefix + "MCP_ENABLED"); enabled != "" {
		v, err := strconv.ParseBool(enabled)
		if err != nil {
			return fmt.Errorf("invalid %sMCP_ENABLED: %w", EnvPrefix, err)
		}
		cfg.MCP.Enabled = v
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse config file: %w", err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse config file: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config file type %q", filepath.Ext(path))
	}
	return nil
}
