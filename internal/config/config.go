// Package config provides configuration management using viper.
// It supports loading from YAML files and environment variable overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Bot     BotConfig     `mapstructure:"bot"`
	Admin   AdminConfig   `mapstructure:"admin"`
	Data    DataConfig    `mapstructure:"data"`
	Checkin CheckinConfig `mapstructure:"checkin"`
	Robbery RobberyConfig `mapstructure:"robbery"`
	Image   ImageConfig   `mapstructure:"image"`
}

// BotConfig holds Telegram bot configuration.
type BotConfig struct {
	Token string `mapstructure:"token"`
}

// AdminConfig holds the privileged user list. Only admins may grant points
// and toggle group-level switches.
type AdminConfig struct {
	IDs []int64 `mapstructure:"ids"`
}

// DataConfig holds persistence configuration.
type DataConfig struct {
	Dir string `mapstructure:"dir"`
}

// CheckinConfig holds the base check-in reward range. The special reward
// tiers are fixed for compatibility with existing ledgers.
type CheckinConfig struct {
	MinPoints int64 `mapstructure:"min_points"`
	MaxPoints int64 `mapstructure:"max_points"`
}

// RobberyConfig holds robbery game configuration.
type RobberyConfig struct {
	MinBalance      int64 `mapstructure:"min_balance"`
	MaxRobAmount    int64 `mapstructure:"max_rob_amount"`
	MaxLoseAmount   int64 `mapstructure:"max_lose_amount"`
	CooldownSeconds int   `mapstructure:"cooldown_seconds"`
}

// ImageConfig holds the points-gated image command configuration.
type ImageConfig struct {
	NormalCost      int64  `mapstructure:"normal_cost"`
	R18Cost         int64  `mapstructure:"r18_cost"`
	CooldownSeconds int    `mapstructure:"cooldown_seconds"`
	MaxConcurrent   int64  `mapstructure:"max_concurrent"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds"`
	ExcludeAI       bool   `mapstructure:"exclude_ai"`
	NormalEnabled   bool   `mapstructure:"normal_enabled"`
	R18Enabled      bool   `mapstructure:"r18_enabled"`
	APIBaseURL      string `mapstructure:"api_base_url"`
}

// Cooldown returns the robbery cooldown as a duration.
func (r *RobberyConfig) Cooldown() time.Duration {
	return time.Duration(r.CooldownSeconds) * time.Second
}

// Cooldown returns the image cooldown as a duration.
func (i *ImageConfig) Cooldown() time.Duration {
	return time.Duration(i.CooldownSeconds) * time.Second
}

// Timeout returns the external API call timeout as a duration.
func (i *ImageConfig) Timeout() time.Duration {
	return time.Duration(i.TimeoutSeconds) * time.Second
}

// Load reads configuration from file and environment variables.
// It looks for config.yaml in the config directory.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variables use underscore separator and uppercase,
	// e.g. BOT_TOKEN, DATA_DIR, IMAGE_R18_ENABLED.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK - env vars can provide all config
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data.dir", "data")

	v.SetDefault("checkin.min_points", 10)
	v.SetDefault("checkin.max_points", 49)

	v.SetDefault("robbery.min_balance", 50)
	v.SetDefault("robbery.max_rob_amount", 50)
	v.SetDefault("robbery.max_lose_amount", 50)
	v.SetDefault("robbery.cooldown_seconds", 1800)

	v.SetDefault("image.normal_cost", 10)
	v.SetDefault("image.r18_cost", 30)
	v.SetDefault("image.cooldown_seconds", 60)
	v.SetDefault("image.max_concurrent", 10)
	v.SetDefault("image.timeout_seconds", 15)
	v.SetDefault("image.exclude_ai", true)
	v.SetDefault("image.normal_enabled", true)
	v.SetDefault("image.r18_enabled", false)
	v.SetDefault("image.api_base_url", "https://api.lolicon.app/setu/v2")
}

// IsAdmin checks if a user ID is in the admin list.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.Admin.IDs {
		if id == userID {
			return true
		}
	}
	return false
}
