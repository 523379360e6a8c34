package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Safety    SafetyConfig    `mapstructure:"safety"`
	Sandbox   SandboxConfig   `mapstructure:"sandbox"`
	Store     StoreConfig     `mapstructure:"store"`
	Knowledge KnowledgeConfig `mapstructure:"knowledge"`
	Web       WebConfig       `mapstructure:"web"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Transport string `mapstructure:"transport"`
	HTTPPort  int    `mapstructure:"http_port"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Mode  string `mapstructure:"mode"`
	Level string `mapstructure:"level"`
}

// SafetyConfig holds the safety policy enforced by the control plane.
// The policy is loaded once at startup and never mutated afterwards.
type SafetyConfig struct {
	AllowedActions []string `mapstructure:"allowed_actions"`
	MaxParameters  int      `mapstructure:"max_parameters"`
	WritableRoots  []string `mapstructure:"writable_roots"`
	ShellWhitelist []string `mapstructure:"shell_whitelist"`
}

// SandboxConfig holds sandbox execution parameters
type SandboxConfig struct {
	ExecTimeoutSec    int    `mapstructure:"exec_timeout_sec"`
	CompileTimeoutSec int    `mapstructure:"compile_timeout_sec"`
	ScratchDir        string `mapstructure:"scratch_dir"`
	MaxOutputKB       int    `mapstructure:"max_output_kb"`
}

// StoreConfig holds learner profile and interaction store configuration
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// KnowledgeConfig holds knowledge index configuration.
// An empty path selects an in-memory index.
type KnowledgeConfig struct {
	Path string `mapstructure:"path"`
}

// WebConfig holds settings for the web_search and fetch_url tools
type WebConfig struct {
	TimeoutSec int `mapstructure:"timeout_sec"`
	MaxFetchKB int `mapstructure:"max_fetch_kb"`
}

// DefaultAllowedActions is the action whitelist applied when the config
// file does not provide one.
var DefaultAllowedActions = []string{
	"search_knowledge",
	"ingest_document",
	"assess_understanding",
	"update_learner_profile",
	"log_interaction",
	"read_file",
	"list_directory",
	"write_file",
	"delete_file",
	"web_search",
	"fetch_url",
	"execute_command",
	"run_code",
	"set_assignment",
}

// New loads and validates the application configuration
func New() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Set default values
	viper.SetDefault("server.transport", "stdio")
	viper.SetDefault("server.http_port", 8080)

	viper.SetDefault("logging.mode", "production")
	viper.SetDefault("logging.level", "info")

	viper.SetDefault("safety.allowed_actions", DefaultAllowedActions)
	viper.SetDefault("safety.max_parameters", 10)
	viper.SetDefault("safety.writable_roots", []string{"/app/uploads", "/tmp"})
	viper.SetDefault("safety.shell_whitelist", []string{"ls", "pwd", "cat", "grep", "find", "wc", "head", "tail"})

	viper.SetDefault("sandbox.exec_timeout_sec", 10)
	viper.SetDefault("sandbox.compile_timeout_sec", 30)
	viper.SetDefault("sandbox.scratch_dir", "")
	viper.SetDefault("sandbox.max_output_kb", 64)

	viper.SetDefault("store.path", "data/tutorbox.db")
	viper.SetDefault("knowledge.path", "")

	viper.SetDefault("web.timeout_sec", 10)
	viper.SetDefault("web.max_fetch_kb", 50)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// If config file not found, continue with defaults
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &config, nil
}

// validate ensures the configuration is valid
func (c *Config) validate() error {
	if c.Server.Transport != "stdio" && c.Server.Transport != "http" {
		return fmt.Errorf("invalid server.transport: %s, must be 'stdio' or 'http'", c.Server.Transport)
	}

	if len(c.Safety.AllowedActions) == 0 {
		return fmt.Errorf("safety.allowed_actions must not be empty")
	}

	if c.Safety.MaxParameters <= 0 {
		return fmt.Errorf("safety.max_parameters must be positive, got: %d", c.Safety.MaxParameters)
	}

	if c.Sandbox.ExecTimeoutSec <= 0 {
		return fmt.Errorf("sandbox.exec_timeout_sec must be positive, got: %d", c.Sandbox.ExecTimeoutSec)
	}

	if c.Sandbox.CompileTimeoutSec <= 0 {
		return fmt.Errorf("sandbox.compile_timeout_sec must be positive, got: %d", c.Sandbox.CompileTimeoutSec)
	}

	if c.Sandbox.MaxOutputKB <= 0 {
		return fmt.Errorf("sandbox.max_output_kb must be positive, got: %d", c.Sandbox.MaxOutputKB)
	}

	if c.Store.Path == "" {
		return fmt.Errorf("store.path must not be empty")
	}

	if c.Web.TimeoutSec <= 0 {
		return fmt.Errorf("web.timeout_sec must be positive, got: %d", c.Web.TimeoutSec)
	}

	return nil
}

// ExecTimeout returns the sandbox execution timeout as a duration
func (c *Config) ExecTimeout() time.Duration {
	return time.Duration(c.Sandbox.ExecTimeoutSec) * time.Second
}

// CompileTimeout returns the sandbox compilation timeout as a duration
func (c *Config) CompileTimeout() time.Duration {
	return time.Duration(c.Sandbox.CompileTimeoutSec) * time.Second
}

// WebTimeout returns the HTTP client timeout for the web tools
func (c *Config) WebTimeout() time.Duration {
	return time.Duration(c.Web.TimeoutSec) * time.Second
}
