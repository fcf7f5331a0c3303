// Package config loads the btt configuration from
// $BTT_HOME/config.json (default ~/.btt).
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// HomeEnvVar overrides the configuration directory.
const HomeEnvVar = "BTT_HOME"

// DefaultHomeDir is the configuration directory under $HOME.
const DefaultHomeDir = ".btt"

// Config represents the complete btt configuration
type Config struct {
	Version int `json:"version" mapstructure:"version"`

	Transfer TransferConfig `json:"transfer" mapstructure:"transfer"`
	Archive  ArchiveConfig  `json:"archive" mapstructure:"archive"`
	Disks    DisksConfig    `json:"disks" mapstructure:"disks"`
	Register RegisterConfig `json:"register" mapstructure:"register"`
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging"`
}

// TransferConfig contains rsync transfer settings
type TransferConfig struct {
	RsyncFlags string `json:"rsyncFlags" mapstructure:"rsyncFlags"`
}

// ArchiveConfig contains raw-data compression settings
type ArchiveConfig struct {
	MetadataGlobs []string `json:"metadataGlobs" mapstructure:"metadataGlobs"`
}

// DisksConfig contains disk-age reporting settings
type DisksConfig struct {
	AgeThresholdDays float64 `json:"ageThresholdDays" mapstructure:"ageThresholdDays"`
}

// RegisterConfig contains the external registration hand-off
type RegisterConfig struct {
	Command      string `json:"command" mapstructure:"command"`
	VoxelSize    int    `json:"voxelSize" mapstructure:"voxelSize"`
	Channel      string `json:"channel" mapstructure:"channel"`
	Orientation  string `json:"orientation" mapstructure:"orientation"`
	AtlasName    string `json:"atlasName" mapstructure:"atlasName"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Transfer: TransferConfig{
			RsyncFlags: "av",
		},
		Archive: ArchiveConfig{
			MetadataGlobs: []string{"scanSettings.mat", "*.yml", "*.txt", "*.ini"},
		},
		Disks: DisksConfig{
			AgeThresholdDays: 700,
		},
		Register: RegisterConfig{
			Command:     "brainreg",
			VoxelSize:   50,
			Channel:     "red",
			Orientation: "psl",
			AtlasName:   "allen_mouse",
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// HomeDir returns the btt configuration directory.
func HomeDir() (string, error) {
	if custom := os.Getenv(HomeEnvVar); custom != "" {
		return custom, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultHomeDir), nil
}

// LoadConfig loads configuration from $BTT_HOME/config.json, falling
// back to defaults when no file exists.
func LoadConfig() (*Config, error) {
	homeDir, err := HomeDir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(homeDir)

	defaults := DefaultConfig()
	v.SetDefault("version", defaults.Version)
	v.SetDefault("transfer.rsyncFlags", defaults.Transfer.RsyncFlags)
	v.SetDefault("archive.metadataGlobs", defaults.Archive.MetadataGlobs)
	v.SetDefault("disks.ageThresholdDays", defaults.Disks.AgeThresholdDays)
	v.SetDefault("register.command", defaults.Register.Command)
	v.SetDefault("register.voxelSize", defaults.Register.VoxelSize)
	v.SetDefault("register.channel", defaults.Register.Channel)
	v.SetDefault("register.orientation", defaults.Register.Orientation)
	v.SetDefault("register.atlasName", defaults.Register.AtlasName)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.level", defaults.Logging.Level)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaults, nil
		}
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the configuration to $BTT_HOME/config.json.
func (c *Config) Save() error {
	homeDir, err := HomeDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(homeDir, "config.json"), data, 0o644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if c.Disks.AgeThresholdDays <= 0 {
		return &ConfigError{Field: "disks.ageThresholdDays", Message: "must be positive"}
	}
	if c.Transfer.RsyncFlags == "" {
		return &ConfigError{Field: "transfer.rsyncFlags", Message: "must not be empty"}
	}
	switch c.Logging.Format {
	case "human", "json":
	default:
		return &ConfigError{Field: "logging.format", Message: fmt.Sprintf("unknown format %q", c.Logging.Format)}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
