package normalize

import (
	"errors"
	"math"
	"testing"

	"gocv.io/x/gocv"

	"github.com/facekit/facekit"
	"github.com/facekit/facekit/detect"
	"github.com/facekit/facekit/geometry"
)

// almostEqual checks if two float64 values are approximately equal
func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

// horizontalFace returns a face with a level eye line at distance 100
func horizontalFace() facekit.Face {
	return facekit.NewFace(map[facekit.FaceFeature]facekit.PointSequence{
		facekit.LeftEye:  {facekit.Pt(100, 150)},
		facekit.RightEye: {facekit.Pt(200, 150)},
		facekit.Nose:     {facekit.Pt(150, 180)},
	})
}

func TestParamsHorizontalFace(t *testing.T) {

	n := New(Config{Width: 256, Height: 256, EyeDistance: 100})

	angle, scale, err := n.Params(horizontalFace())
	if err != nil {
		t.Fatalf("Params returned unexpected error: %v", err)
	}

	if !almostEqual(angle, 0, 1e-12) {
		t.Errorf("angle = %f, expected 0", angle)
	}

	if !almostEqual(scale, 1.0, 1e-12) {
		t.Errorf("scale = %f, expected 1.0", scale)
	}
}

func TestTransformMapsEyeMidpoint(t *testing.T) {

	n := New(Config{Width: 256, Height: 256, EyeDistance: 100})

	a, err := n.Transform(horizontalFace())
	if err != nil {
		t.Fatalf("Transform returned unexpected error: %v", err)
	}

	// the eye midpoint must land at the configured center offset
	got := a.Apply(facekit.Pt(150, 150))

	if !almostEqual(got.X, 128, 1e-9) {
		t.Errorf("midpoint x = %f, expected 128", got.X)
	}

	if !almostEqual(got.Y, 256*DefaultEyeRow, 1e-9) {
		t.Errorf("midpoint y = %f, expected %f", got.Y, 256*DefaultEyeRow)
	}
}

// TestUprightPredictorFaceStaysUpright runs an upright face through the
// whole grouping and alignment path in the point order the five point
// shape predictor emits, subject's left eye first.  The face must come
// out level and unrotated, with the forehead above the eye line.
func TestUprightPredictorFaceStaysUpright(t *testing.T) {

	points := facekit.PointSequence{
		// subject's left eye, on the image's right side
		facekit.Pt(190, 150), facekit.Pt(210, 150),
		// subject's right eye, on the image's left side
		facekit.Pt(90, 150), facekit.Pt(110, 150),
		// beneath the nose
		facekit.Pt(150, 180),
	}

	face, err := detect.Basic.Face(points)
	if err != nil {
		t.Fatalf("Face returned unexpected error: %v", err)
	}

	n := New(Config{Width: 256, Height: 256, EyeDistance: 100})

	angle, scale, err := n.Params(face)
	if err != nil {
		t.Fatalf("Params returned unexpected error: %v", err)
	}

	if !almostEqual(angle, 0, 1e-12) {
		t.Errorf("angle = %f, expected 0", angle)
	}

	if !almostEqual(scale, 1.0, 1e-12) {
		t.Errorf("scale = %f, expected 1.0", scale)
	}

	a, err := n.Transform(face)
	if err != nil {
		t.Fatalf("Transform returned unexpected error: %v", err)
	}

	// a forehead point 50 px above the eye line must stay 50 px above
	// the output eye row, not flip below it
	forehead := a.Apply(facekit.Pt(150, 100))
	eyeRow := 256 * DefaultEyeRow

	if !almostEqual(forehead.X, 128, 1e-9) {
		t.Errorf("forehead x = %f, expected 128", forehead.X)
	}

	if !almostEqual(forehead.Y, eyeRow-50, 1e-9) {
		t.Errorf("forehead y = %f, expected %f", forehead.Y, eyeRow-50)
	}
}

func TestTransformTiltedFace(t *testing.T) {

	face := facekit.NewFace(map[facekit.FaceFeature]facekit.PointSequence{
		facekit.LeftEye:  {facekit.Pt(100, 100)},
		facekit.RightEye: {facekit.Pt(180, 160)},
	})

	n := New(Config{Width: 256, Height: 256, EyeDistance: 100})

	a, err := n.Transform(face)
	if err != nil {
		t.Fatalf("Transform returned unexpected error: %v", err)
	}

	left := a.Apply(facekit.Pt(100, 100))
	right := a.Apply(facekit.Pt(180, 160))

	// eyes level and at the target span in output coordinates
	if !almostEqual(left.Y, right.Y, 1e-9) {
		t.Errorf("eyes not level after transform: %v vs %v", left, right)
	}

	if !almostEqual(geometry.Distance(left, right), 100, 1e-9) {
		t.Errorf("eye distance = %f, expected 100", geometry.Distance(left, right))
	}
}

// TestRenormalizationConverges verifies normalizing an already normalized
// face is a fixed point: the second pass angle is 0 and the scale 1
func TestRenormalizationConverges(t *testing.T) {

	face := facekit.NewFace(map[facekit.FaceFeature]facekit.PointSequence{
		facekit.LeftEye:  {facekit.Pt(90, 120), facekit.Pt(110, 124)},
		facekit.RightEye: {facekit.Pt(200, 170), facekit.Pt(220, 174)},
	})

	n := New(Config{Width: 256, Height: 256, EyeDistance: 100})

	a, err := n.Transform(face)
	if err != nil {
		t.Fatalf("Transform returned unexpected error: %v", err)
	}

	// re-detect by mapping the landmark points through the first transform
	normalized := facekit.NewFace(map[facekit.FaceFeature]facekit.PointSequence{
		facekit.LeftEye:  a.ApplySequence(face.Landmarks[facekit.LeftEye]),
		facekit.RightEye: a.ApplySequence(face.Landmarks[facekit.RightEye]),
	})

	angle, scale, err := n.Params(normalized)
	if err != nil {
		t.Fatalf("second pass Params returned unexpected error: %v", err)
	}

	if !almostEqual(angle, 0, 1e-9) {
		t.Errorf("second pass angle = %f, expected 0", angle)
	}

	if !almostEqual(scale, 1.0, 1e-9) {
		t.Errorf("second pass scale = %f, expected 1.0", scale)
	}
}

func TestMissingEyeLandmarks(t *testing.T) {

	n := New(Config{})

	face := facekit.NewFace(map[facekit.FaceFeature]facekit.PointSequence{
		facekit.LeftEye: {facekit.Pt(100, 150)},
		facekit.Nose:    {facekit.Pt(150, 180)},
	})

	_, _, err := n.Params(face)
	if !errors.Is(err, facekit.ErrInsufficientLandmarks) {
		t.Errorf("Params error = %v, expected ErrInsufficientLandmarks", err)
	}

	frame := gocv.NewMatWithSize(300, 300, gocv.MatTypeCV8UC3)
	defer frame.Close()

	_, err = n.Normalize(&frame, face)
	if !errors.Is(err, facekit.ErrInsufficientLandmarks) {
		t.Errorf("Normalize error = %v, expected ErrInsufficientLandmarks", err)
	}
}

func TestCoincidingEyes(t *testing.T) {

	n := New(Config{})

	face := facekit.NewFace(map[facekit.FaceFeature]facekit.PointSequence{
		facekit.LeftEye:  {facekit.Pt(150, 150)},
		facekit.RightEye: {facekit.Pt(150, 150)},
	})

	_, _, err := n.Params(face)
	if !errors.Is(err, facekit.ErrDegenerateGeometry) {
		t.Errorf("Params error = %v, expected ErrDegenerateGeometry", err)
	}
}

func TestDefaults(t *testing.T) {

	n := New(Config{})
	cfg := n.Config()

	if cfg.Width != DefaultSize || cfg.Height != DefaultSize {
		t.Errorf("default size = %dx%d, expected %dx%d",
			cfg.Width, cfg.Height, DefaultSize, DefaultSize)
	}

	if !almostEqual(cfg.EyeDistance, DefaultEyeSpanRatio*DefaultSize, 1e-12) {
		t.Errorf("default eye distance = %f, expected %f",
			cfg.EyeDistance, DefaultEyeSpanRatio*float64(DefaultSize))
	}

	if !almostEqual(cfg.EyeRow, DefaultEyeRow, 1e-12) {
		t.Errorf("default eye row = %f, expected %f", cfg.EyeRow, DefaultEyeRow)
	}
}

// TestNormalizeNoOpCrop verifies a face that is already level and at the
// target eye distance comes out as a plain center crop, within
// interpolation tolerance
func TestNormalizeNoOpCrop(t *testing.T) {

	// vertical gradient so every row carries its own value
	frame := gocv.NewMatWithSize(300, 300, gocv.MatTypeCV8UC3)
	defer frame.Close()

	for row := 0; row < 300; row++ {
		val := uint8(row % 256)
		for col := 0; col < 300; col++ {
			for ch := 0; ch < 3; ch++ {
				frame.SetUCharAt(row, col*3+ch, val)
			}
		}
	}

	n := New(Config{Width: 256, Height: 256, EyeDistance: 100})

	out, err := n.Normalize(&frame, horizontalFace())
	if err != nil {
		t.Fatalf("Normalize returned unexpected error: %v", err)
	}
	defer out.Close()

	if out.Cols() != 256 || out.Rows() != 256 {
		t.Fatalf("output size = %dx%d, expected 256x256", out.Cols(), out.Rows())
	}

	// the transform is a pure translation, the source eye midpoint row
	// (y=150) must land at the configured eye row of the output
	eyeRow := int(256 * DefaultEyeRow)
	shift := 150.0 - 256*DefaultEyeRow

	got := float64(out.GetUCharAt(eyeRow, 128*3))
	expected := float64(eyeRow) + shift

	if !almostEqual(got, expected, 2) {
		t.Errorf("pixel at eye row = %f, expected %f within tolerance", got, expected)
	}

	// input frame is untouched
	if frame.GetUCharAt(150, 150*3) != uint8(150) {
		t.Errorf("input frame was mutated")
	}
}
