// Package config resolves vigil's runtime settings from an optional TOML
// file, VIGIL_* environment variables, and built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/vigil-run/vigil/internal/logger"
	"github.com/vigil-run/vigil/internal/notify"
	"github.com/vigil-run/vigil/internal/registry"
)

// Config is the resolved configuration for one invocation.
type Config struct {
	// Dir is the state directory holding the registry, failure logs and
	// default log output. Defaults to ~/.vigil.
	Dir string `mapstructure:"dir"`
	// HistoryDSN enables the SQLite event mirror when non-empty, e.g.
	// "sqlite:///var/lib/vigil/history.db".
	HistoryDSN string `mapstructure:"history_dsn"`
	// MaxFailures is the default per-command failure threshold.
	MaxFailures int `mapstructure:"max_failures"`
	// NotificationRecipient is the default alert destination.
	NotificationRecipient string `mapstructure:"notification_recipient"`
	Debug                 bool   `mapstructure:"debug"`

	Log  logger.Config     `mapstructure:"log"`
	SMTP notify.SMTPConfig `mapstructure:"smtp"`
}

// RegistryPath is the persisted registry document.
func (c Config) RegistryPath() string { return filepath.Join(c.Dir, "registry.yaml") }

// LockPath is the advisory lock sidecar serializing invocations.
func (c Config) LockPath() string { return filepath.Join(c.Dir, "registry.lock") }

// FailureDir holds the per-identifier failure logs.
func (c Config) FailureDir() string { return filepath.Join(c.Dir, "failures") }

// EnsureDirs creates the state directories the invocation needs.
func (c Config) EnsureDirs() error {
	for _, d := range []string{c.Dir, c.FailureDir()} {
		if err := os.MkdirAll(d, 0o750); err != nil {
			return fmt.Errorf("create state dir %s: %w", d, err)
		}
	}
	return nil
}

// Load reads configuration. path may be empty, in which case only
// ~/.vigil/config.toml is considered and its absence is fine.
func Load(path string) (Config, error) {
	v := viper.New()
	// Defaults double as key registrations so VIGIL_* env overrides bind.
	v.SetDefault("dir", "")
	v.SetDefault("history_dsn", "")
	v.SetDefault("max_failures", registry.DefaultMaxFailures)
	v.SetDefault("notification_recipient", "")
	v.SetDefault("debug", false)
	v.SetEnvPrefix("VIGIL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if def := defaultConfigPath(); def != "" {
		if _, err := os.Stat(def); err == nil {
			v.SetConfigFile(def)
			v.SetConfigType("toml")
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("read config %s: %w", def, err)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	applyDefaults(&c)
	return c, nil
}

func applyDefaults(c *Config) {
	if c.Dir == "" {
		c.Dir = defaultStateDir()
	}
	if c.Log.Dir == "" {
		c.Log.Dir = filepath.Join(c.Dir, "logs")
	}
	if c.MaxFailures <= 0 {
		c.MaxFailures = registry.DefaultMaxFailures
	}
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".vigil"
	}
	return filepath.Join(home, ".vigil")
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".vigil", "config.toml")
}
