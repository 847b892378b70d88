// Package config reads runtime settings from the environment, after loading
// an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/constants"
)

// Environment variables
const (
	EnvDB             = "CYBORG_DB"
	EnvOwner          = "CYBORG_OWNER"
	EnvDebug          = "CYBORG_DEBUG"
	EnvFoodAPIURL     = "CYBORG_FOOD_API_URL"
	EnvFoodAPITimeout = "CYBORG_FOOD_API_TIMEOUT"
	EnvUserAgent      = "CYBORG_USER_AGENT"
)

type Config struct {
	// DB is a SQLite path or a PostgreSQL connection string. Empty when
	// neither the environment nor a .env file set it.
	DB             string
	Owner          string
	Debug          bool
	FoodAPIURL     string
	FoodAPITimeout time.Duration
	UserAgent      string
}

// Load reads the given .env files (".env" when none are named) into the
// process environment without overriding variables already set, then builds
// a Config. Missing .env files are ignored.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := Config{
		DB:         os.Getenv(EnvDB),
		Owner:      getEnv(EnvOwner, constants.DefaultOwner),
		FoodAPIURL: getEnv(EnvFoodAPIURL, constants.DefaultFoodAPIURL),
		UserAgent:  getEnv(EnvUserAgent, constants.DefaultUserAgent),
	}

	if v := os.Getenv(EnvDebug); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s %q: %w", EnvDebug, v, err)
		}
		cfg.Debug = debug
	}

	cfg.FoodAPITimeout = constants.DefaultFoodAPITimeout
	if v := os.Getenv(EnvFoodAPITimeout); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s %q: %w", EnvFoodAPITimeout, v, err)
		}
		if timeout <= 0 {
			return Config{}, fmt.Errorf("invalid %s %q: must be positive", EnvFoodAPITimeout, v)
		}
		cfg.FoodAPITimeout = timeout
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// Dir returns the directory holding logs and other local state. For a
// SQLite database it is the database's directory; otherwise the default
// config directory.
func Dir(db string, isConnString bool) (string, error) {
	if isConnString || db == "" {
		db = constants.DefaultConfigPath
	}
	expanded, err := ExpandPath(db)
	if err != nil {
		return "", err
	}
	return filepath.Dir(expanded), nil
}
