package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"gocv.io/x/gocv"

	"github.com/facekit/facekit/capture"
	"github.com/facekit/facekit/detect/dlib"
	"github.com/facekit/facekit/render"
	"github.com/facekit/facekit/window"
)

var landmarksOpts struct {
	input    string
	device   int
	upsample int
	output   string
	show     bool
	bounds   bool
	loop     bool
}

var landmarksCmd = &cobra.Command{
	Use:   "landmarks",
	Short: "Detect faces and draw their landmarks",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLandmarks()
	},
}

func init() {
	landmarksCmd.Flags().StringVarP(&landmarksOpts.input, "input", "i", "",
		"path to an image or video file")
	landmarksCmd.Flags().IntVarP(&landmarksOpts.device, "device", "d", -1,
		"camera device id to capture from instead of a file")
	landmarksCmd.Flags().IntVarP(&landmarksOpts.upsample, "upsample", "u", 0,
		"frame upsampling steps to find smaller faces")
	landmarksCmd.Flags().StringVarP(&landmarksOpts.output, "output", "o", "",
		"write the annotated frame to this path")
	landmarksCmd.Flags().BoolVar(&landmarksOpts.show, "show", false,
		"display annotated frames in a window")
	landmarksCmd.Flags().BoolVar(&landmarksOpts.bounds, "bounds", false,
		"draw face bounding boxes as well")
	landmarksCmd.Flags().BoolVar(&landmarksOpts.loop, "loop", false,
		"restart file media from the beginning once exhausted")

	rootCmd.AddCommand(landmarksCmd)
}

// openSource opens the configured frame source, a file or a camera device
func openSource() (capture.Source, error) {

	if landmarksOpts.device >= 0 {
		return capture.OpenDevice(landmarksOpts.device)
	}

	if landmarksOpts.input == "" {
		return nil, fmt.Errorf("either --input or --device is required")
	}

	var opts []capture.Option
	if landmarksOpts.loop {
		opts = append(opts, capture.WithLoop())
	}

	return capture.OpenFile(landmarksOpts.input, opts...)
}

func runLandmarks() error {

	src, err := openSource()
	if err != nil {
		return err
	}
	defer src.Close()

	rec, err := dlib.New(dlib.Config{ModelDir: cfg.ModelDir})
	if err != nil {
		return err
	}
	defer rec.Close()

	var win *window.Window
	if landmarksOpts.show {
		win = window.New("facekit landmarks")
		defer win.Close()
	}

	frame := gocv.NewMat()
	defer frame.Close()

	for src.Read(&frame) {

		faces, err := rec.Detect(&frame, landmarksOpts.upsample)
		if err != nil {
			return err
		}

		logger.Info("frame processed", slog.Int("faces", len(faces)))

		for _, face := range faces {
			render.FaceLandmarks(&frame, face, 2)
			if landmarksOpts.bounds {
				render.FaceBounds(&frame, face, "", render.DefaultFont(), 2)
			}
		}

		if landmarksOpts.output != "" {
			if ok := gocv.IMWrite(landmarksOpts.output, frame); !ok {
				return fmt.Errorf("write annotated frame to %s", landmarksOpts.output)
			}
		}

		if win != nil && !win.Render(&frame) {
			break
		}
	}

	return nil
}
