package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrymomot/hireloop/pkg/cookie"
	"github.com/dmitrymomot/hireloop/pkg/geo"
	"github.com/dmitrymomot/hireloop/pkg/kv"
	"github.com/dmitrymomot/hireloop/pkg/logger"
)

// Config is read from the environment. Flags override Addr and DataDir.
type Config struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	DataDir         string        `env:"HIRELOOP_DATA_DIR"`

	CookieSecret string `env:"COOKIE_SECRET"`
	CookieSecure bool   `env:"COOKIE_SECURE"`
	// Honor X-Forwarded-For and X-Real-IP. Enable only behind a proxy that
	// overwrites them, otherwise clients choose the address sent to providers.
	TrustProxy  bool     `env:"TRUST_PROXY" envDefault:"false"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`

	Log   logger.Config
	Geo   geo.Config
	Redis kv.RedisConfig
}

// loadConfig reads the environment. Variables from a .env file in the
// working directory fill in whatever the environment leaves unset.
func loadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Geo.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// cookieSecret returns the secret for location cookies. An empty
// COOKIE_SECRET yields a random one valid until restart; a short one is an
// error rather than a silent downgrade to unsigned cookies.
func (c Config) cookieSecret() (secret string, generated bool, err error) {
	if c.CookieSecret == "" {
		return cookie.RandomSecret(), true, nil
	}
	if err := cookie.ValidateSecret(c.CookieSecret); err != nil {
		return "", false, fmt.Errorf("COOKIE_SECRET: %w", err)
	}
	return c.CookieSecret, false, nil
}

// dataDir returns the directory of the CLI location store, defaulting to
// $XDG_CONFIG_HOME/hireloop.
func (c Config) dataDir() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(base, "hireloop"), nil
}
