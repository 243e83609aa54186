// Package geometry provides the stateless numeric primitives used by face
// normalization: angles, distances, midpoints, bounding boxes and 2D
// affine rotation-scale-translation transforms over frame points.
package geometry

import (
	"math"

	"github.com/facekit/facekit"
)

// Angle returns the signed angle in radians, measured from horizontal, of
// the vector p2-p1.  Positive y points down in frame coordinates, so a
// right eye sitting lower than the left eye yields a positive angle.
// The degenerate case p1 == p2 returns 0.
func Angle(p1, p2 facekit.Point) float64 {

	dx := p2.X - p1.X
	dy := p2.Y - p1.Y

	if dx == 0 && dy == 0 {
		return 0
	}

	return math.Atan2(dy, dx)
}

// Distance returns the euclidean distance between two points
func Distance(p1, p2 facekit.Point) float64 {
	return math.Hypot(p2.X-p1.X, p2.Y-p1.Y)
}

// Midpoint returns the arithmetic mean point of two points
func Midpoint(p1, p2 facekit.Point) facekit.Point {
	return facekit.Pt((p1.X+p2.X)/2, (p1.Y+p2.Y)/2)
}

// Mean returns the arithmetic mean point of a point sequence.  Returns
// facekit.ErrEmptyInput when the sequence is empty.
func Mean(points facekit.PointSequence) (facekit.Point, error) {

	if len(points) == 0 {
		return facekit.Point{}, facekit.ErrEmptyInput
	}

	var sumX, sumY float64

	for _, p := range points {
		sumX += p.X
		sumY += p.Y
	}

	n := float64(len(points))

	return facekit.Pt(sumX/n, sumY/n), nil
}

// BoundingBox returns the axis aligned rectangle covering all given
// points.  Returns facekit.ErrEmptyInput when given zero points.
func BoundingBox(points facekit.PointSequence) (facekit.Rect, error) {

	if len(points) == 0 {
		return facekit.Rect{}, facekit.ErrEmptyInput
	}

	box := facekit.Rect{Min: points[0], Max: points[0]}

	for _, p := range points[1:] {
		if p.X < box.Min.X {
			box.Min.X = p.X
		}
		if p.X > box.Max.X {
			box.Max.X = p.X
		}
		if p.Y < box.Min.Y {
			box.Min.Y = p.Y
		}
		if p.Y > box.Max.Y {
			box.Max.Y = p.Y
		}
	}

	return box, nil
}
