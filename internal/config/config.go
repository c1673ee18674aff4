// Package config resolves runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/cmdtrainer/cmdtrainer/internal/practice"
)

// Config holds the settings shared by every command.
type Config struct {
	// DBPath is the SQLite database file. Empty means the XDG default.
	DBPath string
	// ContentDir overrides the bundled modules with a directory.
	ContentDir string
	// Profile is the profile used when no --profile flag is given.
	Profile string
	// PracticeLimit caps the cards in one practice round.
	PracticeLimit int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Profile:       "default",
		PracticeLimit: practice.DefaultLimit,
	}
}

// LoadDotEnv loads variables from a .env file without overriding ones
// already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// FromEnv builds a Config from environment variables, falling back to
// defaults for unset values.
func FromEnv() (Config, error) {
	cfg := DefaultConfig()

	if p := os.Getenv("CMDTRAINER_DB"); p != "" {
		cfg.DBPath = p
	}
	if d := os.Getenv("CMDTRAINER_CONTENT_DIR"); d != "" {
		cfg.ContentDir = d
	}
	if p := os.Getenv("CMDTRAINER_PROFILE"); p != "" {
		cfg.Profile = p
	}
	if v := os.Getenv("CMDTRAINER_PRACTICE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return cfg, fmt.Errorf("CMDTRAINER_PRACTICE_LIMIT: invalid value %q", v)
		}
		cfg.PracticeLimit = n
	}

	return cfg, nil
}
