// Package config handles loading and parsing application configuration.
// It supports two sources for the YAML file path (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// A .env file in the working directory, if present, is loaded into the
// process environment first so its values can override YAML keys.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Environment names recognised by the logger and the error handler.
const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
type Config struct {
	// Env controls log format, verbosity, and whether internal error
	// messages reach clients. Valid values: "dev", "staging", "prod".
	Env string `yaml:"env" env:"ENV" env-default:"dev"`

	// FrontendURL is the single origin allowed by CORS.
	FrontendURL string `yaml:"frontend_url" env:"FRONTEND_URL" env-default:"http://localhost:3000"`

	HTTPServer `yaml:"http_server"`
	Storage    Storage `yaml:"storage"`
	Auth       Auth    `yaml:"auth"`
}

// HTTPServer holds settings specific to the HTTP server.
type HTTPServer struct {
	// Addr is the TCP address the server listens on, e.g. "localhost:5000".
	Addr         string        `yaml:"address" env:"HTTP_SERVER_ADDR" env-default:"localhost:5000"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"HTTP_SERVER_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"HTTP_SERVER_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"HTTP_SERVER_IDLE_TIMEOUT" env-default:"60s"`
}

// Storage selects the record store backend.
type Storage struct {
	// Driver is "memory" (default, lost on restart) or "sqlite".
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"memory"`
	// Path is the SQLite file; ignored by the memory driver.
	Path string `yaml:"path" env:"STORAGE_PATH" env-default:"storage/learning.db"`
	// Seed loads the example fixtures into an empty store at startup.
	Seed bool `yaml:"seed" env:"STORAGE_SEED" env-default:"true"`
}

// Auth configures session tokens and the bearer-token stage.
type Auth struct {
	JWTSecret string        `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	TokenTTL  time.Duration `yaml:"token_ttl" env:"TOKEN_TTL" env-default:"24h"`
	// Enforce makes /users and /enrollments reject requests without a
	// valid bearer token. Off by default: the front end does not send one.
	Enforce bool `yaml:"enforce" env:"AUTH_ENFORCE" env-default:"false"`
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProd
}

// Load reads the YAML file at path, applies environment overrides and
// defaults, and validates the result.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	switch cfg.Env {
	case EnvDev, EnvStaging, EnvProd:
	default:
		return nil, fmt.Errorf("invalid env %q: want dev, staging or prod", cfg.Env)
	}
	switch cfg.Storage.Driver {
	case "memory", "sqlite":
	default:
		return nil, fmt.Errorf("invalid storage driver %q: want memory or sqlite", cfg.Storage.Driver)
	}

	return &cfg, nil
}

// MustLoad reads, validates, and returns the application config.
// Functions prefixed with "Must" are allowed to exit on failure: if this
// returns, the config is valid.
func MustLoad() *Config {
	// A missing .env is normal; anything else is worth stopping for.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("cannot load .env file: %s", err.Error())
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	if configPath == "" {
		log.Fatal("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err.Error())
	}
	return cfg
}
