package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Model sources
const (
	ModelSourceFile   = "file"
	ModelSourceRemote = "remote"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Model     ModelConfig     `mapstructure:"model"`
	Reference ReferenceConfig `mapstructure:"reference"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig holds HTTP API configuration
type ServerConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Addr            string        `mapstructure:"addr"`
	Mode            string        `mapstructure:"mode"` // gin mode: debug, release, test
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// ModelConfig holds regressor configuration
type ModelConfig struct {
	Source        string        `mapstructure:"source"` // "file" or "remote"
	Path          string        `mapstructure:"path"`
	RemoteURL     string        `mapstructure:"remote_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	ClampNegative bool          `mapstructure:"clamp_negative"`
}

// ReferenceConfig holds reference table configuration
type ReferenceConfig struct {
	Path string `mapstructure:"path"` // empty means built-in tables
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"` // empty accepts any chat
	Enabled  bool   `mapstructure:"enabled"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from a .env file, the config file and environment variables.
// A missing .env file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()

	// Set config file
	v.SetConfigFile(path)

	// Set defaults
	setDefaults(v)

	// Enable environment variable override, e.g. PPSF_MODEL_PATH
	v.SetEnvPrefix("PPSF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.enabled", true)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.shutdown_timeout", "5s")

	// Model defaults
	v.SetDefault("model.source", ModelSourceFile)
	v.SetDefault("model.path", "./configs/model.json")
	v.SetDefault("model.timeout", "5s")
	v.SetDefault("model.clamp_negative", true)

	// Reference defaults
	v.SetDefault("reference.path", "")

	// Telegram defaults
	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", "")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	// Validate Server config
	if c.Server.Enabled {
		if c.Server.Addr == "" {
			return fmt.Errorf("server.addr is required when the server is enabled")
		}
		validModes := map[string]bool{"debug": true, "release": true, "test": true}
		if !validModes[c.Server.Mode] {
			return fmt.Errorf("server.mode must be one of: debug, release, test")
		}
		if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
			return fmt.Errorf("server.read_timeout and server.write_timeout must be positive")
		}
	}

	if err := c.ValidateModel(); err != nil {
		return err
	}

	// Validate Telegram config
	if c.Telegram.Enabled && c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
	}

	if !c.Server.Enabled && !c.Telegram.Enabled {
		return fmt.Errorf("at least one of server or telegram must be enabled")
	}

	// Validate Logging config
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}

// ValidateModel checks the model section only. One-shot tools that serve no
// surface use it instead of Validate.
func (c *Config) ValidateModel() error {
	switch c.Model.Source {
	case ModelSourceFile:
		if c.Model.Path == "" {
			return fmt.Errorf("model.path is required when model.source is file")
		}
	case ModelSourceRemote:
		if c.Model.RemoteURL == "" {
			return fmt.Errorf("model.remote_url is required when model.source is remote")
		}
		if c.Model.Timeout <= 0 {
			return fmt.Errorf("model.timeout must be positive")
		}
	default:
		return fmt.Errorf("model.source must be one of: file, remote")
	}

	return nil
}
