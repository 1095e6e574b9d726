package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"scanstation/infrastructure/inventory"
)

// Config is the station configuration. Values come from defaults, then an
// optional YAML file, then SCANSTATION_* environment variables. Command
// flags are applied last by the caller.
type Config struct {
	ServerURL  string `yaml:"server_url"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	Addr       string `yaml:"addr"`
	Journal    string `yaml:"journal"`
	Migrations string `yaml:"migrations"`
	Operator   string `yaml:"operator"`
	Role       string `yaml:"role"`
}

var ErrServerURLRequired = errors.New("server url is required")

func Defaults() Config {
	return Config{
		ServerURL: "http://127.0.0.1:5000",
		Addr:      ":8080",
		Journal:   "scanstation.db",
		Role:      inventory.RoleAdmin,
	}
}

// Load reads path (skipped when empty) over the defaults and applies the
// process environment.
func Load(path string) (Config, error) {
	return LoadWithEnv(path, os.Getenv)
}

func LoadWithEnv(path string, getenv func(string) string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv(getenv)
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	c.ServerURL = envOr(getenv, "SCANSTATION_SERVER_URL", c.ServerURL)
	c.Username = envOr(getenv, "SCANSTATION_USERNAME", c.Username)
	c.Password = envOr(getenv, "SCANSTATION_PASSWORD", c.Password)
	c.Addr = envOr(getenv, "SCANSTATION_ADDR", c.Addr)
	c.Journal = envOr(getenv, "SCANSTATION_JOURNAL", c.Journal)
	c.Migrations = envOr(getenv, "SCANSTATION_MIGRATIONS", c.Migrations)
	c.Operator = envOr(getenv, "SCANSTATION_OPERATOR", c.Operator)
	c.Role = envOr(getenv, "SCANSTATION_ROLE", c.Role)
}

// Validate checks the fields every command needs.
func (c Config) Validate() error {
	if strings.TrimSpace(c.ServerURL) == "" {
		return ErrServerURLRequired
	}
	if !inventory.ValidRole(c.Role) {
		return fmt.Errorf("invalid role %q", c.Role)
	}
	return nil
}

// OperatorName is the name written to the journal.
func (c Config) OperatorName() string {
	if c.Operator != "" {
		return c.Operator
	}
	if c.Username != "" {
		return c.Username
	}
	return "station"
}

func envOr(getenv func(string) string, key, fallback string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return fallback
}
