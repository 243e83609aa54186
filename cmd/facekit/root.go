package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version is the application version
const Version = "0.1.0"

var (
	cfg    *Config
	logger *slog.Logger

	// modelDir overrides FACEKIT_MODEL_DIR when set
	modelDir string
)

var rootCmd = &cobra.Command{
	Use:          "facekit",
	Short:        "Face landmark detection and recognition toolkit",
	Version:      Version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {

		var err error
		cfg, err = loadConfig()
		if err != nil {
			return err
		}

		if modelDir != "" {
			cfg.ModelDir = modelDir
		}

		logger = newLogger(cfg.Environment)
		slog.SetDefault(logger)

		return nil
	},
}

// Execute runs the root command under a signal aware context so Ctrl+C
// stops frame loops cleanly
func Execute() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&modelDir, "model-dir", "",
		"directory holding the dlib model files (default $FACEKIT_MODEL_DIR or ~/.facekit/models)")
}
