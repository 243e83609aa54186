package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/facekit/facekit"
)

// almostEqual checks if two float64 values are approximately equal
func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

func TestDistance(t *testing.T) {

	tests := []struct {
		p1       facekit.Point
		p2       facekit.Point
		expected float64
	}{
		{facekit.Pt(0, 0), facekit.Pt(3, 4), 5},
		{facekit.Pt(100, 150), facekit.Pt(200, 150), 100},
		{facekit.Pt(-2, -3), facekit.Pt(-2, 7), 10},
		{facekit.Pt(8, 8), facekit.Pt(8, 8), 0},
	}

	for _, tc := range tests {
		if got := Distance(tc.p1, tc.p2); !almostEqual(got, tc.expected, 1e-12) {
			t.Errorf("Distance(%v, %v) = %f, expected %f", tc.p1, tc.p2, got, tc.expected)
		}

		// symmetry
		if Distance(tc.p1, tc.p2) != Distance(tc.p2, tc.p1) {
			t.Errorf("Distance(%v, %v) is not symmetric", tc.p1, tc.p2)
		}
	}
}

func TestAngle(t *testing.T) {

	tests := []struct {
		p1       facekit.Point
		p2       facekit.Point
		expected float64
	}{
		// horizontal eye line
		{facekit.Pt(100, 150), facekit.Pt(200, 150), 0},
		// right point one unit lower, y grows downward
		{facekit.Pt(0, 0), facekit.Pt(1, 1), math.Pi / 4},
		{facekit.Pt(0, 0), facekit.Pt(0, 5), math.Pi / 2},
		{facekit.Pt(0, 0), facekit.Pt(-1, 0), math.Pi},
	}

	for _, tc := range tests {
		if got := Angle(tc.p1, tc.p2); !almostEqual(got, tc.expected, 1e-12) {
			t.Errorf("Angle(%v, %v) = %f, expected %f", tc.p1, tc.p2, got, tc.expected)
		}
	}
}

// TestAngleReversal verifies reversing the vector direction shifts the
// angle by exactly pi
func TestAngleReversal(t *testing.T) {

	pairs := [][2]facekit.Point{
		{facekit.Pt(0, 0), facekit.Pt(1, 1)},
		{facekit.Pt(10, 20), facekit.Pt(-5, 7)},
		{facekit.Pt(3, 3), facekit.Pt(3, 9)},
	}

	for _, pair := range pairs {
		forward := Angle(pair[0], pair[1])
		reverse := Angle(pair[1], pair[0])

		if !almostEqual(math.Abs(forward-reverse), math.Pi, 1e-12) {
			t.Errorf("Angle(%v, %v) = %f and reversed %f do not differ by pi",
				pair[0], pair[1], forward, reverse)
		}
	}
}

// TestAngleDegenerate verifies coinciding points return 0 without panic
func TestAngleDegenerate(t *testing.T) {

	p := facekit.Pt(42, 42)

	if got := Angle(p, p); got != 0 {
		t.Errorf("Angle(p, p) = %f, expected 0", got)
	}
}

func TestMidpoint(t *testing.T) {

	got := Midpoint(facekit.Pt(100, 150), facekit.Pt(200, 150))
	expected := facekit.Pt(150, 150)

	if got != expected {
		t.Errorf("Midpoint = %v, expected %v", got, expected)
	}
}

func TestMean(t *testing.T) {

	seq := facekit.PointSequence{
		facekit.Pt(0, 0), facekit.Pt(2, 4), facekit.Pt(4, 2),
	}

	got, err := Mean(seq)
	if err != nil {
		t.Fatalf("Mean returned unexpected error: %v", err)
	}

	if got != facekit.Pt(2, 2) {
		t.Errorf("Mean = %v, expected (2, 2)", got)
	}

	_, err = Mean(nil)
	if !errors.Is(err, facekit.ErrEmptyInput) {
		t.Errorf("Mean(nil) error = %v, expected ErrEmptyInput", err)
	}
}

func TestBoundingBox(t *testing.T) {

	seq := facekit.PointSequence{
		facekit.Pt(5, 9), facekit.Pt(-1, 3), facekit.Pt(7, 2),
	}

	box, err := BoundingBox(seq)
	if err != nil {
		t.Fatalf("BoundingBox returned unexpected error: %v", err)
	}

	if box.Min != facekit.Pt(-1, 2) || box.Max != facekit.Pt(7, 9) {
		t.Errorf("BoundingBox = %v, expected min (-1, 2) max (7, 9)", box)
	}

	_, err = BoundingBox(facekit.PointSequence{})
	if !errors.Is(err, facekit.ErrEmptyInput) {
		t.Errorf("BoundingBox(empty) error = %v, expected ErrEmptyInput", err)
	}
}

func TestRotationLevelsAngle(t *testing.T) {

	left := facekit.Pt(100, 100)
	right := facekit.Pt(200, 200)

	angle := Angle(left, right)
	pivot := Midpoint(left, right)

	a := NewRotation(pivot, angle, 1.0)

	newLeft := a.Apply(left)
	newRight := a.Apply(right)

	// the eye line must come out horizontal
	if !almostEqual(newLeft.Y, newRight.Y, 1e-9) {
		t.Errorf("rotated points not level: %v vs %v", newLeft, newRight)
	}

	// rotation with scale 1 preserves distance
	if !almostEqual(Distance(newLeft, newRight), Distance(left, right), 1e-9) {
		t.Errorf("rotation changed distance: %f vs %f",
			Distance(newLeft, newRight), Distance(left, right))
	}

	// the pivot is a fixed point
	moved := a.Apply(pivot)
	if !almostEqual(moved.X, pivot.X, 1e-9) || !almostEqual(moved.Y, pivot.Y, 1e-9) {
		t.Errorf("pivot moved from %v to %v", pivot, moved)
	}
}

func TestRotationIdentity(t *testing.T) {

	// zero angle and unit scale is the identity transform
	a := NewRotation(facekit.Pt(150, 150), 0, 1.0)

	p := facekit.Pt(33, 77)
	if got := a.Apply(p); got != p {
		t.Errorf("identity transform moved %v to %v", p, got)
	}
}

func TestRotationScale(t *testing.T) {

	pivot := facekit.Pt(0, 0)
	a := NewRotation(pivot, 0, 2.0)

	got := a.Apply(facekit.Pt(10, 5))
	if got != facekit.Pt(20, 10) {
		t.Errorf("scaled point = %v, expected (20, 10)", got)
	}
}

func TestAffineTranslate(t *testing.T) {

	a := NewRotation(facekit.Pt(0, 0), 0, 1.0)
	a.Translate(7, -3)

	got := a.Apply(facekit.Pt(1, 1))
	if got != facekit.Pt(8, -2) {
		t.Errorf("translated point = %v, expected (8, -2)", got)
	}
}

func TestApplySequence(t *testing.T) {

	a := NewRotation(facekit.Pt(0, 0), 0, 3.0)

	seq := facekit.PointSequence{facekit.Pt(1, 0), facekit.Pt(0, 2)}
	out := a.ApplySequence(seq)

	if out[0] != facekit.Pt(3, 0) || out[1] != facekit.Pt(0, 6) {
		t.Errorf("ApplySequence = %v", out)
	}

	// input sequence must be untouched
	if seq[0] != facekit.Pt(1, 0) {
		t.Errorf("ApplySequence mutated its input: %v", seq)
	}
}
