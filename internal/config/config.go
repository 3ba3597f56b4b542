// Package config loads application configuration: trusted URL markers,
// store location, browser settings and the orchestrator's timing policy.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"autoclic/internal/gate"
	"autoclic/internal/session"
)

// Config is the resolved application configuration.
type Config struct {
	// Markers identify the attendance portal in scanned URLs.
	Markers []string
	Store   StoreConfig
	Browser BrowserConfig
	Timings session.Timings
	Logging LoggingConfig
}

// StoreConfig locates and unlocks the credential store.
type StoreConfig struct {
	Path string
	// Key is the base64 store key. Empty means secrets are only
	// obfuscated, not encrypted.
	Key string
}

// BrowserConfig controls the embedded browser.
type BrowserConfig struct {
	// ControlURL connects to an already-running browser instead of
	// launching one.
	ControlURL string
	Headless   bool
	NavTimeout time.Duration
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Load reads configuration from the given file (or the default search
// paths when path is empty), layered under AUTOCLIC_* environment
// variables. Missing files are fine; every setting has a default.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("AUTOCLIC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("autoclic")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(defaultConfigDir())
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	return &Config{
		Markers: v.GetStringSlice("markers"),
		Store: StoreConfig{
			Path: v.GetString("store.path"),
			Key:  v.GetString("store.key"),
		},
		Browser: BrowserConfig{
			ControlURL: v.GetString("browser.control_url"),
			Headless:   v.GetBool("browser.headless"),
			NavTimeout: v.GetDuration("browser.nav_timeout"),
		},
		Timings: session.Timings{
			PageLoad:       v.GetDuration("timings.page_load"),
			Settle:         v.GetDuration("timings.settle"),
			PreWrite:       v.GetDuration("timings.pre_write"),
			PostSubmit:     v.GetDuration("timings.post_submit"),
			PostFailure:    v.GetDuration("timings.post_failure"),
			AttemptTimeout: v.GetDuration("timings.attempt_timeout"),
		},
		Logging: LoggingConfig{
			Level:      v.GetString("logging.level"),
			File:       v.GetString("logging.file"),
			MaxSizeMB:  v.GetInt("logging.max_size_mb"),
			MaxBackups: v.GetInt("logging.max_backups"),
			MaxAgeDays: v.GetInt("logging.max_age_days"),
			Compress:   v.GetBool("logging.compress"),
		},
	}, nil
}

func setDefaults(v *viper.Viper) {
	def := session.DefaultTimings()

	v.SetDefault("markers", gate.DefaultMarkers)
	v.SetDefault("store.path", filepath.Join(defaultConfigDir(), "accounts.toml"))
	v.SetDefault("store.key", "")
	v.SetDefault("browser.control_url", "")
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.nav_timeout", 30*time.Second)
	v.SetDefault("timings.page_load", def.PageLoad)
	v.SetDefault("timings.settle", def.Settle)
	v.SetDefault("timings.pre_write", def.PreWrite)
	v.SetDefault("timings.post_submit", def.PostSubmit)
	v.SetDefault("timings.post_failure", def.PostFailure)
	v.SetDefault("timings.attempt_timeout", def.AttemptTimeout)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age_days", 30)
	v.SetDefault("logging.compress", false)
}

func defaultConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "autoclic")
	}
	return "."
}
