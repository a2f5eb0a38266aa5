// Package bootstrap wires the engine's repositories, authorization
// resolver, and use cases into a running process: env-driven config, a
// connected Postgres adapter, and the command/query UseCase structs
// cmd/server and cmd/migrate depend on.
package bootstrap

import (
	"fmt"
	"os"
	"strconv"
)

// Config is the process-level configuration, populated from environment
// variables. It carries only the fields this engine's storage and logging
// layers need; the HTTP/auth/otel/multi-tenant surface of the teacher's
// bootstrap.Config is out of scope.
type Config struct {
	EnvName  string `env:"ENV_NAME"`
	LogLevel string `env:"LOG_LEVEL"`

	PostgresPrimaryDSN string `env:"DB_PRIMARY_DSN"`
	PostgresReplicaDSN string `env:"DB_REPLICA_DSN"`

	DBMaxOpenConns int `env:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns int `env:"DB_MAX_IDLE_CONNS"`

	MigrationsPath string `env:"MIGRATIONS_PATH"`
}

// LoadConfig reads Config from the environment. It looks up each variable
// by name with os.LookupEnv rather than pulling in a struct-tag library
// (the `env` tags above are not read), since the teacher's real helper
// (lib-commons's env loader) lives outside the example pack and this
// struct has only seven fields.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		EnvName:            getEnv("ENV_NAME", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		PostgresPrimaryDSN: getEnv("DB_PRIMARY_DSN", ""),
		PostgresReplicaDSN: getEnv("DB_REPLICA_DSN", ""),
		MigrationsPath:     getEnv("MIGRATIONS_PATH", "internal/migrate/sql"),
	}

	if cfg.PostgresPrimaryDSN == "" {
		return nil, fmt.Errorf("DB_PRIMARY_DSN is required")
	}

	maxOpen, err := getEnvInt("DB_MAX_OPEN_CONNS", 20)
	if err != nil {
		return nil, err
	}

	maxIdle, err := getEnvInt("DB_MAX_IDLE_CONNS", 5)
	if err != nil {
		return nil, err
	}

	cfg.DBMaxOpenConns = maxOpen
	cfg.DBMaxIdleConns = maxIdle

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}

	return n, nil
}
