// Package config resolves runtime settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables.
const (
	EnvDB        = "KNJIZNICA_DB"
	EnvAddr      = "KNJIZNICA_ADDR"
	EnvLog       = "KNJIZNICA_LOG"
	EnvRateLimit = "KNJIZNICA_RATE_LIMIT"
	EnvRateBurst = "KNJIZNICA_RATE_BURST"
)

// Config holds runtime settings.
type Config struct {
	// DB is a SQLite file path or a postgres:// URL.
	DB      string
	Addr    string
	LogPath string

	// RateLimit is API requests per second per client; 0 disables it.
	RateLimit float64
	RateBurst int
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DB:        "knjiznica.sqlite3",
		Addr:      ":8080",
		RateLimit: 20,
		RateBurst: 40,
	}
}

// Load starts from Default, applies envFile and then the process
// environment. Variables already set in the environment win over the
// file. A missing envFile is not an error.
func Load(envFile string) (Config, error) {
	cfg := Default()

	fileVars := map[string]string{}
	if envFile != "" {
		vars, err := godotenv.Read(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("reading %s: %w", envFile, err)
		}
		if vars != nil {
			fileVars = vars
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	}

	if v, ok := lookup(EnvDB); ok && v != "" {
		cfg.DB = v
	}
	if v, ok := lookup(EnvAddr); ok && v != "" {
		cfg.Addr = v
	}
	if v, ok := lookup(EnvLog); ok {
		cfg.LogPath = v
	}
	if v, ok := lookup(EnvRateLimit); ok && v != "" {
		limit, err := strconv.ParseFloat(v, 64)
		if err != nil || limit < 0 {
			return cfg, fmt.Errorf("%s must be a non-negative number, got %q", EnvRateLimit, v)
		}
		cfg.RateLimit = limit
	}
	if v, ok := lookup(EnvRateBurst); ok && v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil || burst < 1 {
			return cfg, fmt.Errorf("%s must be a positive integer, got %q", EnvRateBurst, v)
		}
		cfg.RateBurst = burst
	}

	return cfg, nil
}
