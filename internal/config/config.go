package config

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the runtime configuration shared by the server and the CLI.
type Config struct {
	Port          string        `yaml:"port" mapstructure:"port"`
	DBPath        string        `yaml:"db_path" mapstructure:"db_path"`
	SecureCookie  bool          `yaml:"secure_cookie" mapstructure:"secure_cookie"`
	Timezone      string        `yaml:"timezone" mapstructure:"timezone"`
	SessionTTL    time.Duration `yaml:"session_ttl" mapstructure:"session_ttl"`
	AdminUser     string        `yaml:"admin_user,omitempty" mapstructure:"admin_user"`
	AdminPassword string        `yaml:"admin_password,omitempty" mapstructure:"admin_password"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Port:       "8080",
		DBPath:     "focus.db",
		Timezone:   "Local",
		SessionTTL: 30 * 24 * time.Hour,
	}
}

// Environment variables that override the file and the defaults.
var envBindings = map[string]string{
	"port":           "PORT",
	"db_path":        "DB_PATH",
	"secure_cookie":  "SECURE_COOKIE",
	"timezone":       "TIMEZONE",
	"admin_user":     "ADMIN_USER",
	"admin_password": "ADMIN_PASSWORD",
}

// Load builds the configuration from the defaults, the YAML file at path
// (skipped when path is empty) and the environment, in increasing priority.
func Load(path string) (*Config, error) {
	def := DefaultConfig()

	v := viper.New()
	v.SetDefault("port", def.Port)
	v.SetDefault("db_path", def.DBPath)
	v.SetDefault("secure_cookie", def.SecureCookie)
	v.SetDefault("timezone", def.Timezone)
	v.SetDefault("session_ttl", def.SessionTTL)
	v.SetDefault("admin_user", "")
	v.SetDefault("admin_password", "")

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// Location resolves the configured time zone used for calendar days.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Write prints cfg as YAML with the admin password masked.
func Write(w io.Writer, cfg *Config) error {
	out := *cfg
	if out.AdminPassword != "" {
		out.AdminPassword = "********"
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&out); err != nil {
		return err
	}
	return enc.Close()
}
