// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// defaultUploadDir is where uploaded result files land before processing.
	defaultUploadDir = "uploads"
	// defaultOutputDir is the root under which session output directories are created.
	defaultOutputDir = "visualizations"
	// defaultHost is the listen address of the web interface.
	defaultHost = "0.0.0.0"
	// defaultPort is the listen port of the web interface.
	defaultPort = 5000
	// defaultMaxUploadMB caps the size of a single uploaded file.
	defaultMaxUploadMB = 100
)

// Config represents the top-level application configuration.
type Config struct {
	UploadDir   string `json:"uploadDir,omitempty"`
	OutputDir   string `json:"outputDir,omitempty"`
	Host        string `json:"host,omitempty"`
	Port        int    `json:"port,omitempty"`
	MaxUploadMB int    `json:"maxUploadMB,omitempty"`
	Debug       bool   `json:"debug"`
	LogFile     string `json:"logFile,omitempty"`
	ConfigPath  string `json:"-"`
}

// Load reads the configuration file at path and applies defaults. A missing
// file is not an error: the defaults alone are a complete configuration.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		cfg.ConfigPath = path
	case errors.Is(err, os.ErrNotExist):
		// defaults only
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults fills unset fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c.UploadDir == "" {
		c.UploadDir = defaultUploadDir
	}
	if c.OutputDir == "" {
		c.OutputDir = defaultOutputDir
	}
	if c.Host == "" {
		c.Host = defaultHost
	}
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.MaxUploadMB == 0 {
		c.MaxUploadMB = defaultMaxUploadMB
	}
}

// ListenAddr returns the host:port the web interface binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// MaxUploadBytes returns the upload cap in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// LogFilePath returns the configured log file path, or empty when file
// logging is disabled.
func (c *Config) LogFilePath() string {
	return c.LogFile
}
