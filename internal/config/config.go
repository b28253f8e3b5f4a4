// Package config loads runtime configuration from the environment.
//
// The Config struct is built once in main and passed to the components that
// need it. There is no package-level state: anything configurable reaches
// its consumer through explicit injection.
package config

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime configuration for the server.
type Config struct {
	Addr            string        `envconfig:"ADDR" default:":8080"`
	DBPath          string        `envconfig:"DB_PATH" default:"data/harulog.db"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"15s"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`

	// Token signing. The secret has no default: a server without one must
	// fail at startup, not at the first login.
	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"60m"`

	// BcryptCost is the bcrypt work factor. HashWorkers bounds how many
	// hashing operations may run at once so bcrypt cannot starve request
	// handling under a registration burst.
	BcryptCost  int `envconfig:"BCRYPT_COST" default:"12"`
	HashWorkers int `envconfig:"HASH_WORKERS" default:"4"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads configuration from environment variables. Missing required
// values are a fatal error for the caller.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if len(cfg.JWTSecret) < 16 {
		return nil, errors.New("config: JWT_SECRET must be at least 16 characters")
	}
	if cfg.HashWorkers < 1 {
		return nil, errors.New("config: HASH_WORKERS must be at least 1")
	}
	return &cfg, nil
}
