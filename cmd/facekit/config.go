package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the environment driven settings, all prefixed with FACEKIT_
type Config struct {
	// ModelDir is where the dlib model files live, FACEKIT_MODEL_DIR
	ModelDir string `envconfig:"MODEL_DIR"`
	// Environment selects log formatting, FACEKIT_ENV
	Environment string `envconfig:"ENV" default:"development"`
}

func loadConfig() (*Config, error) {

	var cfg Config

	if err := envconfig.Process("FACEKIT", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if cfg.ModelDir == "" {
		cfg.ModelDir = defaultModelDir()
	}

	return &cfg, nil
}

// defaultModelDir is the per user model cache location
func defaultModelDir() string {

	home, err := os.UserHomeDir()
	if err != nil {
		return "models"
	}

	return filepath.Join(home, ".facekit", "models")
}

// newLogger returns a structured logger, JSON output in production and
// readable text everywhere else
func newLogger(environment string) *slog.Logger {

	if environment == "production" {
		return slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}

	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}
