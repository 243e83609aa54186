package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gocv.io/x/gocv"

	"github.com/facekit/facekit/capture"
	"github.com/facekit/facekit/detect/dlib"
	"github.com/facekit/facekit/normalize"
)

var normalizeOpts struct {
	input    string
	outDir   string
	size     int
	eyeRow   float64
	upsample int
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Write aligned face crops from an image",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNormalize()
	},
}

func init() {
	normalizeCmd.Flags().StringVarP(&normalizeOpts.input, "input", "i", "",
		"path to the source image")
	normalizeCmd.Flags().StringVarP(&normalizeOpts.outDir, "out", "o", ".",
		"directory to write aligned crops into")
	normalizeCmd.Flags().IntVar(&normalizeOpts.size, "size", normalize.DefaultSize,
		"edge length of the square aligned crop")
	normalizeCmd.Flags().Float64Var(&normalizeOpts.eyeRow, "eye-row", normalize.DefaultEyeRow,
		"vertical eye placement as a fraction of the crop height")
	normalizeCmd.Flags().IntVarP(&normalizeOpts.upsample, "upsample", "u", 0,
		"frame upsampling steps to find smaller faces")

	normalizeCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize() error {

	src, err := capture.OpenFile(normalizeOpts.input)
	if err != nil {
		return err
	}
	defer src.Close()

	rec, err := dlib.New(dlib.Config{ModelDir: cfg.ModelDir})
	if err != nil {
		return err
	}
	defer rec.Close()

	norm := normalize.New(normalize.Config{
		Width:  normalizeOpts.size,
		Height: normalizeOpts.size,
		EyeRow: normalizeOpts.eyeRow,
	})

	if err := os.MkdirAll(normalizeOpts.outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	frame := gocv.NewMat()
	defer frame.Close()

	if !src.Read(&frame) {
		return fmt.Errorf("no frame in %s", normalizeOpts.input)
	}

	faces, err := rec.Detect(&frame, normalizeOpts.upsample)
	if err != nil {
		return err
	}

	if len(faces) == 0 {
		return fmt.Errorf("no faces found in %s", normalizeOpts.input)
	}

	base := filepath.Base(normalizeOpts.input)
	stem := base[:len(base)-len(filepath.Ext(base))]

	for i, face := range faces {

		aligned, err := norm.Normalize(&frame, face)
		if err != nil {
			return fmt.Errorf("align face %d: %w", i, err)
		}

		out := filepath.Join(normalizeOpts.outDir,
			fmt.Sprintf("%s-face%d.png", stem, i))

		ok := gocv.IMWrite(out, aligned)
		aligned.Close()

		if !ok {
			return fmt.Errorf("write aligned crop to %s", out)
		}

		logger.Info("aligned face written", slog.String("path", out))
	}

	return nil
}
