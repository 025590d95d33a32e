package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/devcard/devcard/persistent"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Debug  bool `mapstructure:"debug"`
	Syslog bool `mapstructure:"syslog"`
	Store  struct {
		URL        string `mapstructure:"url"`
		ServiceKey string `mapstructure:"service_key"`
		Driver     string `mapstructure:"driver"`
		Verbose    bool   `mapstructure:"verbose"`
	} `mapstructure:"store"`
	HTTP struct {
		Addr         string `mapstructure:"addr"`
		AllowOrigins string `mapstructure:"allow_origins"`
	} `mapstructure:"http"`
	Retention struct {
		Offset time.Duration `mapstructure:"offset"`
	} `mapstructure:"retention"`
}

// Env names of the configuration keys.
var envKeys = map[string]string{
	"debug":              "DEBUG",
	"syslog":             "SYSLOG",
	"store.url":          "STORE_URL",
	"store.service_key":  "STORE_SERVICE_KEY",
	"store.driver":       "STORE_DRIVER",
	"store.verbose":      "DB_VERBOSE",
	"http.addr":          "HTTP_ADDR",
	"http.allow_origins": "ALLOW_ORIGINS",
	"retention.offset":   "RETENTION_OFFSET",
}

type MissingKeysError struct {
	Keys []string
}

func (e *MissingKeysError) Error() string {
	return strings.Join(e.Keys, ", ") + " not set"
}

// Load reads .env (if present), then config.yaml from the working directory (if
// present), then the environment. Environment wins.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.AddConfigPath(".")
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config.yaml: %w", err)
		}
		logrus.Debugln("No config.yaml, using environment only.")
	}

	v.SetDefault("store.driver", "pg")
	v.SetDefault("http.allow_origins", "")
	v.SetDefault("retention.offset", "9h")
	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// RequireServer returns *MissingKeysError if the server cannot start.
func (c Config) RequireServer() error {
	return requireKeys(map[string]string{"STORE_URL": c.Store.URL})
}

// RequireRetention returns *MissingKeysError unless both the store url and the
// privileged service key are set.
func (c Config) RequireRetention() error {
	return requireKeys(map[string]string{
		"STORE_URL":         c.Store.URL,
		"STORE_SERVICE_KEY": c.Store.ServiceKey,
	})
}

func requireKeys(values map[string]string) error {
	var missing []string
	for _, key := range []string{"STORE_URL", "STORE_SERVICE_KEY"} {
		value, ok := values[key]
		if ok && strings.TrimSpace(value) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return &MissingKeysError{Keys: missing}
	}
	return nil
}

// Persistent returns the database settings, with the service key injected as the
// password of a postgres url.
func (c Config) Persistent() (persistent.Config, error) {
	dsn := c.Store.URL
	if c.Store.ServiceKey != "" && !strings.HasPrefix(dsn, "sqlite:") {
		u, err := url.Parse(dsn)
		if err != nil {
			return persistent.Config{}, fmt.Errorf("parse store url: %w", err)
		}
		username := "postgres"
		if u.User != nil && u.User.Username() != "" {
			username = u.User.Username()
		}
		u.User = url.UserPassword(username, c.Store.ServiceKey)
		dsn = u.String()
	}
	return persistent.Config{
		DSN:     dsn,
		Driver:  c.Store.Driver,
		Verbose: c.Store.Verbose,
	}, nil
}
