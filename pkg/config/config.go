// Package config loads and validates fstore's configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the full configuration for an fstore server.
//
// Configuration sources (in order of precedence):
//  1. Environment variables (FSTORE_*)
//  2. Configuration file (YAML)
//  3. Default values (lowest priority)
//
// The CLI's --config flag only selects the file. When no configuration file
// is found, Load returns GetDefaultConfig() unchanged.
type Config struct {
	// Logging controls log output behavior.
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Database configures the PostgreSQL-backed metadata catalog and the
	// external SQL tool layer (psql, pg_dump, pg_restore) used for
	// init/migrate/reset/dump/restore.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Home is the filesystem root for committed blobs and staged parts.
	Home string `mapstructure:"home" validate:"required" yaml:"home"`

	// Archive is an optional path mirrored by archive(). Empty disables it.
	Archive string `mapstructure:"archive" yaml:"archive,omitempty"`

	// Version is the semantic version of the running binary, reported by
	// ObjectStore.About.
	Version string `mapstructure:"version" yaml:"version"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output.
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive).
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level"`

	// Format specifies the log output format: text or json.
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`

	// Output specifies where logs are written: stdout, stderr, or a file path.
	Output string `mapstructure:"output" validate:"required" yaml:"output"`
}

// DatabaseConfig configures the PostgreSQL connection pool and the
// external SQL tool layer.
type DatabaseConfig struct {
	// Connection is a PostgreSQL connection string (DSN or URL form).
	Connection string `mapstructure:"connection" validate:"required" yaml:"connection"`

	// MaxConnections caps the pgxpool connection pool. Default: 10.
	MaxConnections int32 `mapstructure:"max_connections" yaml:"max_connections"`

	// SQLDirectory is the location of SQL scripts consumed by the
	// external tool layer (migrations, init). Default: "db".
	SQLDirectory string `mapstructure:"sql_directory" yaml:"sql_directory"`

	// Psql configures the psql binary used for init/migrate/reset.
	Psql ToolConfig `mapstructure:"psql" yaml:"psql"`

	// PgDump configures the pg_dump binary used by archive().
	PgDump ToolConfig `mapstructure:"pg_dump" yaml:"pg_dump"`

	// PgRestore configures the pg_restore binary used by restore().
	PgRestore ToolConfig `mapstructure:"pg_restore" yaml:"pg_restore"`
}

// ToolConfig names an external SQL tool binary and any extra arguments
// to append to every invocation.
type ToolConfig struct {
	Path string   `mapstructure:"path" yaml:"path"`
	Args []string `mapstructure:"args" yaml:"args,omitempty"`
}

// Load loads configuration from file, environment, and defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	configFileFound, err := readConfigFile(v)
	if err != nil {
		return nil, err
	}

	if !configFileFound {
		return GetDefaultConfig(), nil
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(configDecodeHooks())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration with helpful error messages when no config
// file can be found.
func MustLoad(configPath string) (*Config, error) {
	if configPath == "" {
		if !DefaultConfigExists() {
			return nil, fmt.Errorf("no configuration file found at default location: %s\n\n"+
				"Please initialize a configuration file first:\n"+
				"  fstored init\n\n"+
				"Or specify a custom config file:\n"+
				"  fstored <command> --config /path/to/fstore.yml",
				GetDefaultConfigPath())
		}
		configPath = GetDefaultConfigPath()
	} else if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s\n\n"+
			"Please create the configuration file:\n"+
			"  fstored init --config %s",
			configPath, configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes cfg to path in YAML form.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// 0600: the connection string may embed database credentials.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix("FSTORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(getConfigDir())
		v.SetConfigName("fstore")
		v.SetConfigType("yaml")
	}
}

func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file: %w", err)
	}
	return true, nil
}

// configDecodeHooks returns the mapstructure decode hook for time.Duration.
func configDecodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		durationDecodeHook(),
	)
}

// durationDecodeHook converts config strings/numbers into time.Duration,
// so config files can use human-readable durations like "30s".
func durationDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			return time.ParseDuration(v)
		case int:
			return time.Duration(v), nil
		case int64:
			return time.Duration(v), nil
		case float64:
			return time.Duration(v), nil
		default:
			return data, nil
		}
	}
}

// getConfigDir returns the configuration directory, honoring XDG_CONFIG_HOME.
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "fstore")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	return filepath.Join(home, ".config", "fstore")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "fstore.yml")
}

// DefaultConfigExists reports whether a config file exists at the default location.
func DefaultConfigExists() bool {
	_, err := os.Stat(GetDefaultConfigPath())
	return err == nil
}

// GetConfigDir returns the configuration directory (exposed for `init`).
func GetConfigDir() string {
	return getConfigDir()
}

// HardDefaultConfigPath is the system-wide configuration path. Load,
// MustLoad and GetDefaultConfigPath do not fall back to it: without
// --config or FSTORED_CONFIG, the default is the XDG path returned by
// GetDefaultConfigPath.
const HardDefaultConfigPath = "/etc/fstore/fstore.yml"
