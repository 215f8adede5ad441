// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/stepr/internal/logger"
	"github.com/mark3labs/stepr/internal/stepper"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration values for stepr.
type Config struct {
	Linear      bool   `mapstructure:"linear" yaml:"linear"`
	Orientation string `mapstructure:"orientation" yaml:"orientation"`
	Direction   string `mapstructure:"direction" yaml:"direction"`
	// ShowError is tri-state: unset lets each step decide.
	ShowError                   *bool  `mapstructure:"show_error" yaml:"show_error,omitempty"`
	DisplayDefaultIndicatorType bool   `mapstructure:"display_default_indicator_type" yaml:"display_default_indicator_type"`
	DataDir                     string `mapstructure:"data_dir" yaml:"data_dir"`
	LogLevel                    string `mapstructure:"log_level" yaml:"log_level"`
	LogFile                     string `mapstructure:"log_file" yaml:"log_file"`
	Journal                     bool   `mapstructure:"journal" yaml:"journal"`
	MCPAddr                     string `mapstructure:"mcp_addr" yaml:"mcp_addr"`
}

var envKeys = []string{
	"linear",
	"orientation",
	"direction",
	"show_error",
	"display_default_indicator_type",
	"data_dir",
	"log_level",
	"log_file",
	"journal",
	"mcp_addr",
}

// Load loads configuration with full precedence:
// CLI flags > ENV vars > project config > XDG global config > defaults
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("stepr")

	v.SetDefault("linear", false)
	v.SetDefault("orientation", string(stepper.Horizontal))
	v.SetDefault("direction", string(stepper.LTR))
	v.SetDefault("display_default_indicator_type", true)
	v.SetDefault("data_dir", ".stepr")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("journal", true)
	v.SetDefault("mcp_addr", "127.0.0.1:0")

	// Setup ENV binding with STEPR_ prefix
	v.SetEnvPrefix("STEPR")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Explicit ENV bindings for better bool parsing
	for _, key := range envKeys {
		if err := v.BindEnv(key, "STEPR_"+strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	// Load global config first (if exists)
	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
		logger.Debug("Loaded global config from %s", globalPath)
	}

	// Merge project config on top (if exists)
	projectPath := ProjectPath()
	if fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
		logger.Debug("Merged project config from %s", projectPath)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	// Unmarshal cannot tell an unset show_error from false.
	if !v.IsSet("show_error") {
		cfg.ShowError = nil
	} else {
		b := v.GetBool("show_error")
		cfg.ShowError = &b
	}

	return &cfg, nil
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	switch c.Orientation {
	case "", string(stepper.Horizontal), string(stepper.Vertical):
	default:
		return fmt.Errorf("orientation must be horizontal or vertical, got %q", c.Orientation)
	}
	switch c.Direction {
	case "", string(stepper.LTR), string(stepper.RTL):
	default:
		return fmt.Errorf("direction must be ltr or rtl, got %q", c.Direction)
	}
	if _, err := logger.ParseLevel(c.LogLevel); c.LogLevel != "" && err != nil {
		return err
	}
	return nil
}

// GlobalOptions returns the indicator display policies.
func (c *Config) GlobalOptions() stepper.GlobalOptions {
	display := c.DisplayDefaultIndicatorType
	return stepper.GlobalOptions{
		ShowError:                   c.ShowError,
		DisplayDefaultIndicatorType: &display,
	}
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/stepr/stepr.yml or $XDG_CONFIG_HOME/stepr/stepr.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "stepr", "stepr.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "stepr", "stepr.yml")
}

// ProjectPath returns the project-local config path.
// Returns ./stepr.yml in the current working directory.
func ProjectPath() string {
	return "stepr.yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return write(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return write(ProjectPath(), cfg)
}

func write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
