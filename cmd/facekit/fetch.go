package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/facekit/facekit/models"
)

// defaultManifest names the dlib model files the recognizer loads
var defaultManifest = models.Manifest{
	"shape_predictor_5_face_landmarks.dat": {
		URL: "https://raw.githubusercontent.com/Kagami/go-face-testdata/master/models/shape_predictor_5_face_landmarks.dat",
	},
	"mmod_human_face_detector.dat": {
		URL: "https://raw.githubusercontent.com/Kagami/go-face-testdata/master/models/mmod_human_face_detector.dat",
	},
	"dlib_face_recognition_resnet_model_v1.dat": {
		URL: "https://raw.githubusercontent.com/Kagami/go-face-testdata/master/models/dlib_face_recognition_resnet_model_v1.dat",
	},
}

var fetchOpts struct {
	manifest string
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the model files into the model directory",
	RunE: func(cmd *cobra.Command, args []string) error {

		manifest := defaultManifest

		if fetchOpts.manifest != "" {
			var err error
			manifest, err = models.LoadManifest(fetchOpts.manifest)
			if err != nil {
				return err
			}
		}

		logger.Info("fetching models",
			slog.Int("assets", len(manifest)),
			slog.String("dir", cfg.ModelDir),
		)

		fetcher := models.NewFetcher(models.WithProgress())

		return fetcher.Fetch(cmd.Context(), manifest, cfg.ModelDir)
	},
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchOpts.manifest, "manifest", "m", "",
		"path to a JSON manifest overriding the built in model list")

	rootCmd.AddCommand(fetchCmd)
}
