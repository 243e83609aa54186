// Package normalize produces geometrically normalized face crops: given a
// frame and a detected face it returns a new fixed-size frame in which the
// eye line is horizontal, the inter-eye distance matches a target pixel
// span, and the face sits centered with the eyes at a configurable height.
package normalize

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/facekit/facekit"
	"github.com/facekit/facekit/geometry"
)

const (
	// DefaultSize is the default width and height of the normalized frame
	DefaultSize = 256
	// DefaultEyeRow places the eye line at 35% from the top of the
	// normalized frame, leaving room for chin and forehead
	DefaultEyeRow = 0.35
	// DefaultEyeSpanRatio derives the target inter-eye distance from the
	// output width when no explicit distance is configured
	DefaultEyeSpanRatio = 0.30
)

// Config holds the normalization parameters
type Config struct {
	// Width is the output frame width in pixels, defaults to DefaultSize
	Width int
	// Height is the output frame height in pixels, defaults to DefaultSize
	Height int
	// EyeDistance is the target inter-eye distance in output pixels.  When
	// zero it is derived as DefaultEyeSpanRatio of the output width.
	EyeDistance float64
	// EyeRow is the vertical position of the eye line as a fraction of the
	// output height, defaults to DefaultEyeRow
	EyeRow float64
}

// Normalizer computes upright, scaled and centered face crops.  It holds
// no per-frame state and is safe to reuse across frames.
type Normalizer struct {
	cfg Config
}

// New returns a Normalizer for the given configuration, filling in
// defaults for zero valued fields
func New(cfg Config) *Normalizer {

	if cfg.Width <= 0 {
		cfg.Width = DefaultSize
	}
	if cfg.Height <= 0 {
		cfg.Height = DefaultSize
	}
	if cfg.EyeDistance <= 0 {
		cfg.EyeDistance = DefaultEyeSpanRatio * float64(cfg.Width)
	}
	if cfg.EyeRow <= 0 {
		cfg.EyeRow = DefaultEyeRow
	}

	return &Normalizer{cfg: cfg}
}

// Config returns the effective configuration after defaults were applied
func (n *Normalizer) Config() Config {
	return n.cfg
}

// EyeCenters returns the center position of the left and right eye of the
// given face, each computed as the mean of the eye's point sequence.
// Returns facekit.ErrInsufficientLandmarks when either eye is absent.
func (n *Normalizer) EyeCenters(face facekit.Face) (facekit.Point, facekit.Point, error) {

	if !face.HasFeature(facekit.LeftEye) || !face.HasFeature(facekit.RightEye) {
		return facekit.Point{}, facekit.Point{}, facekit.ErrInsufficientLandmarks
	}

	left, err := geometry.Mean(face.Landmarks[facekit.LeftEye])
	if err != nil {
		return facekit.Point{}, facekit.Point{}, err
	}

	right, err := geometry.Mean(face.Landmarks[facekit.RightEye])
	if err != nil {
		return facekit.Point{}, facekit.Point{}, err
	}

	return left, right, nil
}

// Params returns the eye line angle in radians and the uniform scale
// factor the normalization of the given face will apply.  Returns
// facekit.ErrDegenerateGeometry when the eye points coincide.
func (n *Normalizer) Params(face facekit.Face) (angle, scale float64, err error) {

	left, right, err := n.EyeCenters(face)
	if err != nil {
		return 0, 0, err
	}

	dist := geometry.Distance(left, right)
	if dist == 0 {
		return 0, 0, facekit.ErrDegenerateGeometry
	}

	return geometry.Angle(left, right), n.cfg.EyeDistance / dist, nil
}

// Transform returns the affine transform the normalization of the given
// face applies to the frame.  The same transform maps landmark points into
// normalized frame coordinates.
func (n *Normalizer) Transform(face facekit.Face) (geometry.Affine, error) {

	angle, scale, err := n.Params(face)
	if err != nil {
		return geometry.Affine{}, err
	}

	left, right, err := n.EyeCenters(face)
	if err != nil {
		return geometry.Affine{}, err
	}

	mid := geometry.Midpoint(left, right)

	// level the eye line and scale about the eye midpoint, then move the
	// midpoint to its configured place in the output frame
	a := geometry.NewRotation(mid, angle, scale)
	a.Translate(
		float64(n.cfg.Width)/2-mid.X,
		float64(n.cfg.Height)*n.cfg.EyeRow-mid.Y,
	)

	return a, nil
}

// Normalize returns a new frame of the configured size with the face
// upright, scaled and centered.  The input frame is not mutated and the
// caller owns the returned frame.
func (n *Normalizer) Normalize(frame *gocv.Mat, face facekit.Face) (gocv.Mat, error) {

	a, err := n.Transform(face)
	if err != nil {
		return gocv.Mat{}, err
	}

	m := gocv.NewMatWithSize(2, 3, gocv.MatTypeCV64F)
	defer m.Close()

	for row := 0; row < 2; row++ {
		for col := 0; col < 3; col++ {
			m.SetDoubleAt(row, col, a.At(row, col))
		}
	}

	dst := gocv.NewMat()
	gocv.WarpAffineWithParams(*frame, &dst, m,
		image.Pt(n.cfg.Width, n.cfg.Height),
		gocv.InterpolationCubic, gocv.BorderConstant, color.RGBA{})

	return dst, nil
}
