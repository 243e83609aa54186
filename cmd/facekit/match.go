package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"gocv.io/x/gocv"

	"github.com/facekit/facekit"
	"github.com/facekit/facekit/capture"
	"github.com/facekit/facekit/detect/dlib"
	"github.com/facekit/facekit/encode"
)

var matchOpts struct {
	probe     string
	gallery   string
	aggregate string
	threshold float64
	upsample  int
	engines   int
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score a probe face against a gallery of known faces",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMatch()
	},
}

func init() {
	matchCmd.Flags().StringVarP(&matchOpts.probe, "probe", "p", "",
		"path to the probe image")
	matchCmd.Flags().StringVarP(&matchOpts.gallery, "gallery", "g", "",
		"directory of known face images")
	matchCmd.Flags().StringVarP(&matchOpts.aggregate, "aggregate", "a", "minimum",
		"gallery distance aggregate: minimum, mean or median")
	matchCmd.Flags().Float64VarP(&matchOpts.threshold, "threshold", "t", 0.6,
		"distance below which the probe counts as a match")
	matchCmd.Flags().IntVarP(&matchOpts.upsample, "upsample", "u", 0,
		"frame upsampling steps to find smaller faces")
	matchCmd.Flags().IntVarP(&matchOpts.engines, "engines", "e", 1,
		"number of parallel recognizers encoding the gallery")

	matchCmd.MarkFlagRequired("probe")
	matchCmd.MarkFlagRequired("gallery")
	rootCmd.AddCommand(matchCmd)
}

// parseAggregate maps the flag value onto a scoring aggregate
func parseAggregate(name string) (encode.Aggregate, error) {

	switch name {
	case "minimum":
		return encode.Minimum, nil
	case "mean":
		return encode.Mean, nil
	case "median":
		return encode.Median, nil
	default:
		return 0, fmt.Errorf("unknown aggregate %q", name)
	}
}

// imageEncoding detects the most prominent face in an image file and
// returns its encoding
func imageEncoding(rec *dlib.Recognizer, path string, upsample int) (facekit.Encoding, error) {

	src, err := capture.OpenFile(path)
	if err != nil {
		return facekit.Encoding{}, err
	}
	defer src.Close()

	frame := gocv.NewMat()
	defer frame.Close()

	if !src.Read(&frame) {
		return facekit.Encoding{}, fmt.Errorf("no frame in %s", path)
	}

	faces, err := rec.Detect(&frame, upsample)
	if err != nil {
		return facekit.Encoding{}, err
	}

	if len(faces) == 0 {
		return facekit.Encoding{}, fmt.Errorf("no faces found in %s", path)
	}

	// largest face wins when several are present
	best := faces[0]
	for _, face := range faces[1:] {
		if face.Bounds.Width()*face.Bounds.Height() >
			best.Bounds.Width()*best.Bounds.Height() {
			best = face
		}
	}

	return rec.Embedding(&frame, best)
}

// galleryEncodings encodes every image in the gallery directory, checking
// a recognizer out of the pool per image so gallery enrollment runs as
// wide as the pool allows
func galleryEncodings(pool *dlib.Pool, dir string, upsample int) ([]facekit.Encoding, error) {

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read gallery directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(dir, entry.Name())

		mediaType, err := capture.DetectMediaType(path)
		if err != nil || mediaType != capture.Image {
			continue
		}

		paths = append(paths, path)
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("no images in gallery directory %s", dir)
	}

	bar := progressbar.NewOptions(len(paths),
		progressbar.OptionSetDescription("encoding gallery"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionClearOnFinish(),
	)

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		encodings = make([]facekit.Encoding, 0, len(paths))
	)

	for _, path := range paths {
		wg.Add(1)

		go func(path string) {
			defer wg.Done()
			defer bar.Add(1)

			rec := pool.Get()
			defer pool.Return(rec)

			enc, err := imageEncoding(rec, path, upsample)
			if err != nil {
				logger.Warn("gallery image skipped",
					slog.String("path", path), slog.Any("error", err))
				return
			}

			mu.Lock()
			encodings = append(encodings, enc)
			mu.Unlock()
		}(path)
	}

	wg.Wait()

	return encodings, nil
}

func runMatch() error {

	aggregate, err := parseAggregate(matchOpts.aggregate)
	if err != nil {
		return err
	}

	if matchOpts.engines < 1 {
		matchOpts.engines = 1
	}

	pool, err := dlib.NewPool(matchOpts.engines, dlib.Config{ModelDir: cfg.ModelDir})
	if err != nil {
		return err
	}
	defer pool.Close()

	gallery, err := galleryEncodings(pool, matchOpts.gallery, matchOpts.upsample)
	if err != nil {
		return err
	}

	rec := pool.Get()
	probe, err := imageEncoding(rec, matchOpts.probe, matchOpts.upsample)
	pool.Return(rec)
	if err != nil {
		return err
	}

	score, err := encode.NewScorer(aggregate).Score(probe, gallery)
	if err != nil {
		return err
	}

	matched := score <= matchOpts.threshold

	logger.Info("probe scored",
		slog.Float64("score", score),
		slog.String("aggregate", aggregate.String()),
		slog.Int("gallery", len(gallery)),
		slog.Bool("match", matched),
	)

	fmt.Printf("score: %.4f (%s over %d encodings)\n", score,
		aggregate, len(gallery))

	if matched {
		fmt.Println("match")
	} else {
		fmt.Println("no match")
	}

	return nil
}
