// Package config loads runtime settings from defaults, an optional YAML file
// and TOOLSCOPE_* environment variables, in increasing order of precedence.
// Command-line flags bound by the CLI override all three.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

const (
	appName   = "toolscope"
	envPrefix = "TOOLSCOPE"

	DefaultPort        = 8080
	DefaultLogLevel    = "info"
	DefaultBatchSize   = 50
	DefaultImportPause = time.Second
)

// Config is the resolved configuration.
type Config struct {
	Port      int          `mapstructure:"port"`
	LogLevel  string       `mapstructure:"log_level"`
	CatalogDB string       `mapstructure:"catalog_db"`
	SavedDB   string       `mapstructure:"saved_db"`
	Import    ImportConfig `mapstructure:"import"`
}

// ImportConfig tunes bulk imports.
type ImportConfig struct {
	BatchSize int           `mapstructure:"batch_size"`
	Pause     time.Duration `mapstructure:"pause"`
}

// DataDir is where the databases live by default: $XDG_DATA_HOME/toolscope.
func DataDir() string {
	return filepath.Join(xdg.DataHome, appName)
}

// ConfigDir is searched for config.yaml when no file is given explicitly.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, appName)
}

// NewViper returns a viper instance with every default set and environment
// lookups enabled. Callers may bind flags to it before calling Load.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("port", DefaultPort)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("catalog_db", filepath.Join(DataDir(), "catalog.db"))
	v.SetDefault("saved_db", filepath.Join(DataDir(), "saved.db"))
	v.SetDefault("import.batch_size", DefaultBatchSize)
	v.SetDefault("import.pause", DefaultImportPause)

	// import.batch_size -> TOOLSCOPE_IMPORT_BATCH_SIZE
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads configFile (or config.yaml in ConfigDir when configFile is
// empty and the file exists) into v and returns the validated result.
// An explicitly named file that can't be read is an error.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(ConfigDir())
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decoding: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges and paths.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config: port %d out of range", c.Port)
	}
	if strings.TrimSpace(c.CatalogDB) == "" {
		return errors.New("config: catalog_db is required")
	}
	if strings.TrimSpace(c.SavedDB) == "" {
		return errors.New("config: saved_db is required")
	}
	if c.Import.BatchSize < 1 {
		return fmt.Errorf("config: import.batch_size must be positive, got %d", c.Import.BatchSize)
	}
	if c.Import.Pause < 0 {
		return fmt.Errorf("config: import.pause must not be negative, got %s", c.Import.Pause)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses LogLevel ("debug", "info", "warn", "error").
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
