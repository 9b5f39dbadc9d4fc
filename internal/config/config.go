// Package config defines the application configuration for itemscan and its
// loading from configuration files, environment variables and command-line
// flags.
package config

import (
	"fmt"
	"strings"
)

// Config is the complete configuration for the itemscan application.
type Config struct {
	// Global settings
	CatalogPath  string `mapstructure:"catalog_path" yaml:"catalog_path" json:"catalog_path"`
	TemplatesDir string `mapstructure:"templates_dir" yaml:"templates_dir" json:"templates_dir"`
	LogLevel     string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose      bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Detection settings
	Detection DetectionConfig `mapstructure:"detection" yaml:"detection" json:"detection"`

	// Text recognition settings
	OCR OCRConfig `mapstructure:"ocr" yaml:"ocr" json:"ocr"`

	// Output formatting
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// Server settings (for the serve command)
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`
}

// DetectionConfig contains template-matching and fusion settings.
type DetectionConfig struct {
	MinConfidence   float64 `mapstructure:"min_confidence" yaml:"min_confidence" json:"min_confidence"`
	NMSIoUThreshold float64 `mapstructure:"nms_iou_threshold" yaml:"nms_iou_threshold" json:"nms_iou_threshold"`
	Aggregate       bool    `mapstructure:"aggregate" yaml:"aggregate" json:"aggregate"`
}

// OCRConfig contains text recognition settings.
type OCRConfig struct {
	Language       string `mapstructure:"language" yaml:"language" json:"language"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds" json:"timeout_seconds"`
	MaxRetries     int    `mapstructure:"max_retries" yaml:"max_retries" json:"max_retries"`
	Disabled       bool   `mapstructure:"disabled" yaml:"disabled" json:"disabled"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	Format      string `mapstructure:"format" yaml:"format" json:"format"`
	File        string `mapstructure:"file" yaml:"file" json:"file"`
	OverlayPath string `mapstructure:"overlay_path" yaml:"overlay_path" json:"overlay_path"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `mapstructure:"host" yaml:"host" json:"host"`
	Port int    `mapstructure:"port" yaml:"port" json:"port"`
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Detection.MinConfidence < 0 || c.Detection.MinConfidence > 1 {
		return fmt.Errorf("detection.min_confidence must be in [0,1], got %v", c.Detection.MinConfidence)
	}
	if c.Detection.NMSIoUThreshold < 0 || c.Detection.NMSIoUThreshold > 1 {
		return fmt.Errorf("detection.nms_iou_threshold must be in [0,1], got %v", c.Detection.NMSIoUThreshold)
	}
	if c.OCR.TimeoutSeconds < 0 {
		return fmt.Errorf("ocr.timeout_seconds must not be negative, got %d", c.OCR.TimeoutSeconds)
	}
	if c.OCR.MaxRetries < 0 {
		return fmt.Errorf("ocr.max_retries must not be negative, got %d", c.OCR.MaxRetries)
	}
	switch strings.ToLower(c.Output.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("output.format must be text or json, got %q", c.Output.Format)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [0,65535], got %d", c.Server.Port)
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel)
	}
	return nil
}
