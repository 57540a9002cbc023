package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config is everything the process needs at start: node mode, listen port,
// store location, and the sync settings consumed by the engine, client and
// scheduler.
type Config struct {
	Mode              string `mapstructure:"mode"`
	Port              string `mapstructure:"port"`
	DatabasePath      string `mapstructure:"database_path"`
	CloudURL          string `mapstructure:"cloud_url"`
	SyncEnabled       bool   `mapstructure:"sync_enabled"`
	SyncTime          string `mapstructure:"sync_time"`
	RequestTimeoutSec int    `mapstructure:"request_timeout_seconds"`
	AuthToken         string `mapstructure:"auth_token"`
	LogLevel          string `mapstructure:"log_level"`
}

var (
	ErrBadMode     = errors.New(`mode must be "cloud" or "local"`)
	ErrNoCloudURL  = errors.New("local mode with sync enabled requires cloud_url")
	ErrBadSyncTime = errors.New("sync_time must be HH:MM")
)

// Load reads nocsync.yaml (optional, searched in the working directory and
// /etc/nocsync) with NOCSYNC_* environment variables taking precedence.
func Load() (Config, error) {
	v := viper.New()
	v.SetDefault("mode", "cloud")
	v.SetDefault("port", "3000")
	v.SetDefault("database_path", "data/noc.db")
	v.SetDefault("cloud_url", "")
	v.SetDefault("sync_enabled", false)
	v.SetDefault("sync_time", "03:00")
	v.SetDefault("request_timeout_seconds", 30)
	v.SetDefault("auth_token", "")
	v.SetDefault("log_level", "info")

	v.SetConfigName("nocsync")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/nocsync")

	v.SetEnvPrefix("NOCSYNC")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.Mode = strings.ToLower(strings.TrimSpace(cfg.Mode))
	cfg.CloudURL = strings.TrimRight(strings.TrimSpace(cfg.CloudURL), "/")
	cfg.AuthToken = strings.TrimSpace(cfg.AuthToken)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Mode != "cloud" && c.Mode != "local" {
		return ErrBadMode
	}
	if c.Mode == "local" && c.SyncEnabled && c.CloudURL == "" {
		return ErrNoCloudURL
	}
	if _, _, err := splitClock(c.SyncTime); err != nil {
		return ErrBadSyncTime
	}
	return nil
}

func splitClock(v string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(v), ":")
	if len(parts) != 2 {
		return 0, 0, ErrBadSyncTime
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, ErrBadSyncTime
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, ErrBadSyncTime
	}
	return hour, minute, nil
}
