// Package config loads the CLI's settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrParsingConfig is returned when environment variables cannot be parsed.
var ErrParsingConfig = errors.New("failed to parse environment variables into config")

// Config holds all CLI settings.
type Config struct {
	APIURL      string        `env:"MEALPLANNER_API_URL" envDefault:"http://localhost:8000"`
	Home        string        `env:"MEALPLANNER_HOME"`
	LogLevel    string        `env:"MEALPLANNER_LOG_LEVEL" envDefault:"info"`
	LogFormat   string        `env:"MEALPLANNER_LOG_FORMAT" envDefault:"text"`
	HTTPTimeout time.Duration `env:"MEALPLANNER_HTTP_TIMEOUT" envDefault:"0s"`
}

// SessionPath is where the session record is stored.
func (c Config) SessionPath() string {
	return filepath.Join(c.Home, "session.json")
}

// LogPath is where the CLI writes its log.
func (c Config) LogPath() string {
	return filepath.Join(c.Home, "mealplanner.log")
}

// Load reads an optional .env file from each of envFiles (missing files are
// skipped), then parses the environment. Real environment variables win over
// .env values.
func Load(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}

	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	if cfg.APIURL == "" {
		return Config{}, errors.Join(ErrParsingConfig, errors.New("MEALPLANNER_API_URL is empty"))
	}
	if cfg.HTTPTimeout < 0 {
		return Config{}, errors.Join(ErrParsingConfig, errors.New("MEALPLANNER_HTTP_TIMEOUT must not be negative"))
	}
	if cfg.Home == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("get home dir: %w", err)
		}
		cfg.Home = filepath.Join(home, ".mealplanner")
	}
	return cfg, nil
}
