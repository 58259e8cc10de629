package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultSessionTTL = 30 * time.Minute
	defaultMoveDelay  = 500 * time.Millisecond
	defaultPassDelay  = time.Second
)

// ServerConfig holds all configuration values loaded from environment variables.
type ServerConfig struct {
	ServerHost string
	ServerPort string

	// RedisURL and PostgresURL are optional, in-memory stores are used when they are empty.
	RedisURL    string
	PostgresURL string

	// MoveDelay paces moves of automatic players.
	MoveDelay time.Duration

	// PassDelay is used instead of MoveDelay when an automatic player moves again after a pass.
	PassDelay time.Duration

	// SessionTTL is the idle time after which a game session is removed.
	SessionTTL time.Duration

	// AdminUsername and AdminPassword protect the admin routes, which are disabled when either is empty.
	AdminUsername string
	AdminPassword string
}

// LoadServerConfig loads configuration from environment variables.
func LoadServerConfig() *ServerConfig {
	LoadDotEnv()

	if err := checkPrefork(getEnvBool("REVERSI_SERVER_PREFORK", false)); err != nil {
		slog.Error("Cannot load configuration", "error", err)
		os.Exit(1)
	}

	return &ServerConfig{
		ServerHost:  getEnvMust("REVERSI_SERVER_HOST"),
		ServerPort:  getEnvMust("REVERSI_SERVER_PORT"),
		RedisURL:    os.Getenv("REVERSI_REDIS_URL"),
		PostgresURL: os.Getenv("REVERSI_POSTGRES_URL"),
		MoveDelay:   getEnvDuration("REVERSI_MOVE_DELAY", defaultMoveDelay),
		PassDelay:   getEnvDuration("REVERSI_PASS_DELAY", defaultPassDelay),
		SessionTTL:  getEnvDuration("REVERSI_SESSION_TTL", defaultSessionTTL),

		AdminUsername: os.Getenv("REVERSI_ADMIN_USERNAME"),
		AdminPassword: os.Getenv("REVERSI_ADMIN_PASSWORD"),
	}
}

// checkPrefork rejects prefork mode. Game sessions live in the memory of one
// process, forked children would not see each other's sessions.
func checkPrefork(prefork bool) error {
	if prefork {
		return errors.New("REVERSI_SERVER_PREFORK is not supported, game sessions are not shared between processes")
	}
	return nil
}

// PlayConfig holds the configuration of the terminal client.
type PlayConfig struct {
	MoveDelay time.Duration
	PassDelay time.Duration
}

// LoadPlayConfig loads the terminal client configuration, all values are optional.
func LoadPlayConfig() *PlayConfig {
	LoadDotEnv()

	return &PlayConfig{
		MoveDelay: getEnvDuration("REVERSI_MOVE_DELAY", defaultMoveDelay),
		PassDelay: getEnvDuration("REVERSI_PASS_DELAY", defaultPassDelay),
	}
}

// LoadDotEnv loads a .env file from the working directory, if there is one.
// Variables that are already set are not overwritten.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("Cannot load .env file", "error", err)
		os.Exit(1)
	}
}

// getEnvMust either returns the environment variable or logs a fatal error if it is not set.
func getEnvMust(key string) string {
	value := os.Getenv(key)
	if value == "" {
		slog.Error("Environment variable is not set", "key", key)
		os.Exit(1)
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if value != "true" && value != "false" {
		slog.Error("Cannot load environment variable, it must be \"true\" or \"false\"", "key", key, "value", value)
		os.Exit(1)
	}

	return value == "true"
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil || duration < 0 {
		slog.Error("Cannot load environment variable, it must be a non-negative duration", "key", key, "value", value)
		os.Exit(1)
	}

	return duration
}
