package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the base name for configuration files (without extension).
	ConfigFileName = "itemscan"

	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "ITEMSCAN"
)

// Loader handles loading configuration from files, environment variables and
// bound command-line flags.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a loader on the global viper instance so cobra flag
// bindings take effect.
func NewLoader() *Loader {
	return &Loader{v: viper.GetViper()}
}

// Load reads configuration from all sources, unmarshals and validates it.
// A missing config file is not an error; defaults and env vars apply.
func (l *Loader) Load() (*Config, error) {
	l.v.SetConfigName(ConfigFileName)
	l.v.SetConfigType("yaml")
	l.addConfigPaths()
	l.setupEnvironmentVariables()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// SetConfigFile forces a specific configuration file path.
func (l *Loader) SetConfigFile(path string) {
	if path != "" {
		l.v.SetConfigFile(path)
	}
}

func (l *Loader) addConfigPaths() {
	l.v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(home)
		l.v.AddConfigPath(filepath.Join(home, ".config", "itemscan"))
	}
	l.v.AddConfigPath("/etc/itemscan")
}

func (l *Loader) setupEnvironmentVariables() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()
}

func (l *Loader) setDefaults() {
	l.v.SetDefault("catalog_path", "data/items.json")
	l.v.SetDefault("templates_dir", "data/templates")
	l.v.SetDefault("log_level", "info")
	l.v.SetDefault("verbose", false)

	l.v.SetDefault("detection.min_confidence", 0.55)
	l.v.SetDefault("detection.nms_iou_threshold", 0.3)
	l.v.SetDefault("detection.aggregate", true)

	l.v.SetDefault("ocr.language", "eng")
	l.v.SetDefault("ocr.timeout_seconds", 60)
	l.v.SetDefault("ocr.max_retries", 2)
	l.v.SetDefault("ocr.disabled", false)

	l.v.SetDefault("output.format", "text")
	l.v.SetDefault("output.file", "")
	l.v.SetDefault("output.overlay_path", "")

	l.v.SetDefault("server.host", "0.0.0.0")
	l.v.SetDefault("server.port", 8080)
}
