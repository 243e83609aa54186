// Package dlib provides a detector and embedder backed by the dlib face
// models via go-face: HOG face finding, the 5 point shape predictor for
// landmarks, and the ResNet v1 descriptor network for 128 element
// encodings.
//
// Model loading is expensive, taking from hundreds of milliseconds to low
// seconds, so construct one Recognizer up front and reuse it across
// frames.  The loaded models are read only and safe for repeated calls.
package dlib

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	goface "github.com/Kagami/go-face"
	"gocv.io/x/gocv"
	"golang.org/x/image/draw"

	"github.com/facekit/facekit"
	"github.com/facekit/facekit/detect"
	"github.com/facekit/facekit/transform"
)

const (
	// DefaultSize is the face chip edge length fed to the descriptor
	// network
	DefaultSize = 150
	// DefaultPadding is the margin kept around the face chip during
	// encoding
	DefaultPadding = 0.25
	// DefaultJitter disables encoding jitter, raise it for slightly more
	// stable encodings of the same face at a latency cost
	DefaultJitter = 0

	jpegQuality = 95
)

// Config holds the recognizer parameters
type Config struct {
	// ModelDir is the directory holding the dlib model files, see the
	// models package for fetching them
	ModelDir string
	// Size is the face chip edge length, defaults to DefaultSize
	Size int
	// Padding is the margin around the face chip, defaults to
	// DefaultPadding
	Padding float64
	// Jitter is the number of jittered copies averaged per encoding,
	// defaults to DefaultJitter
	Jitter int
}

// Recognizer implements facekit.Detector and facekit.Embedder over the
// dlib models
type Recognizer struct {
	rec *goface.Recognizer
	cfg Config
}

// New loads the dlib models from cfg.ModelDir and returns a ready
// Recognizer.  Call Close when done to free the model memory.
func New(cfg Config) (*Recognizer, error) {

	if cfg.Size <= 0 {
		cfg.Size = DefaultSize
	}
	if cfg.Padding <= 0 {
		cfg.Padding = DefaultPadding
	}
	if cfg.Jitter < 0 {
		cfg.Jitter = DefaultJitter
	}

	rec, err := goface.NewRecognizerWithConfig(cfg.ModelDir, cfg.Size,
		float32(cfg.Padding), cfg.Jitter)
	if err != nil {
		return nil, fmt.Errorf("load dlib models from %s: %w", cfg.ModelDir, err)
	}

	return &Recognizer{rec: rec, cfg: cfg}, nil
}

// Close frees the loaded model memory
func (r *Recognizer) Close() error {
	r.rec.Close()
	return nil
}

// Detect finds faces within the frame and returns one Face per detection,
// populated with the basic 5 point landmark layout.  upsample doubles the
// search image per step to improve recall on small faces, detected points
// are mapped back into source frame coordinates.
func (r *Recognizer) Detect(frame *gocv.Mat, upsample int) ([]facekit.Face, error) {

	if upsample < 0 {
		return nil, fmt.Errorf("upsample must be non-negative, got %d", upsample)
	}

	img, err := frame.ToImage()
	if err != nil {
		return nil, fmt.Errorf("convert frame: %w", err)
	}

	factor := detect.UpsampleScale(upsample)
	if factor != 1 {
		img = scaleImage(img, factor)
	}

	data, err := encodeJPEG(img)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}

	found, err := r.rec.Recognize(data)
	if err != nil {
		return nil, fmt.Errorf("detect faces: %w", err)
	}

	faces := make([]facekit.Face, 0, len(found))

	for _, f := range found {
		if len(f.Shapes) < detect.Basic.Points {
			continue
		}

		points := make(facekit.PointSequence, detect.Basic.Points)
		for i := 0; i < detect.Basic.Points; i++ {
			points[i] = facekit.Pt(float64(f.Shapes[i].X), float64(f.Shapes[i].Y))
		}

		if factor != 1 {
			points = detect.ScalePoints(points, 1/factor)
		}

		face, err := detect.Basic.Face(points)
		if err != nil {
			return nil, err
		}

		faces = append(faces, face)
	}

	return faces, nil
}

// Embedding returns the 128 element descriptor of the given face.  The
// face bounds select the frame region handed to the descriptor network,
// which performs its own alignment from the landmarks it finds there.
func (r *Recognizer) Embedding(frame *gocv.Mat, face facekit.Face) (facekit.Encoding, error) {

	crop, err := r.cropFace(frame, face)
	if err != nil {
		return facekit.Encoding{}, err
	}
	defer crop.Close()

	img, err := crop.ToImage()
	if err != nil {
		return facekit.Encoding{}, fmt.Errorf("convert face crop: %w", err)
	}

	data, err := encodeJPEG(img)
	if err != nil {
		return facekit.Encoding{}, fmt.Errorf("encode face crop: %w", err)
	}

	found, err := r.rec.RecognizeSingle(data)
	if err != nil {
		return facekit.Encoding{}, fmt.Errorf("encode face: %w", err)
	}

	if found == nil {
		return facekit.Encoding{}, fmt.Errorf("no encodable face within the face bounds")
	}

	return facekit.Encoding(found.Descriptor), nil
}

// cropFace cuts the face bounds out of the frame with a proportional
// margin so the descriptor network sees some surrounding context
func (r *Recognizer) cropFace(frame *gocv.Mat, face facekit.Face) (gocv.Mat, error) {

	marginX := face.Bounds.Width() * r.cfg.Padding
	marginY := face.Bounds.Height() * r.cfg.Padding

	start := image.Pt(
		int(face.Bounds.Min.X-marginX),
		int(face.Bounds.Min.Y-marginY),
	)
	end := image.Pt(
		int(face.Bounds.Max.X+marginX)+1,
		int(face.Bounds.Max.Y+marginY)+1,
	)

	crop, err := transform.Crop(*frame, start, end)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("crop face bounds: %w", err)
	}

	return crop, nil
}

// scaleImage resizes the search image by a uniform factor
func scaleImage(src image.Image, factor float64) image.Image {

	bounds := src.Bounds()

	dst := image.NewRGBA(image.Rect(0, 0,
		int(float64(bounds.Dx())*factor),
		int(float64(bounds.Dy())*factor)))

	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)

	return dst
}

// encodeJPEG serializes an image into the jpeg bytes dlib consumes
func encodeJPEG(img image.Image) ([]byte, error) {

	var buf bytes.Buffer

	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
