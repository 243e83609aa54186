package geometry

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/facekit/facekit"
)

// Affine is a 2x3 affine transform matrix in row major order, mapping
// frame points as p' = A * [x y 1]^T
type Affine struct {
	*mat.Dense
}

// NewRotation returns the affine transform that rotates the plane about
// center by the negative of angle, so that points lying along angle from
// the center are mapped onto the horizontal axis through it, with a
// uniform scale applied about the same pivot.  The pivot itself is a
// fixed point of the transform.
func NewRotation(center facekit.Point, angle, scale float64) Affine {

	cos := scale * math.Cos(angle)
	sin := scale * math.Sin(angle)

	// rotation block leveling the angle, third column keeps the pivot fixed
	m := mat.NewDense(2, 3, []float64{
		cos, sin, center.X - cos*center.X - sin*center.Y,
		-sin, cos, center.Y + sin*center.X - cos*center.Y,
	})

	return Affine{Dense: m}
}

// Translate shifts the transform output by the given deltas
func (a Affine) Translate(dx, dy float64) {
	a.Set(0, 2, a.At(0, 2)+dx)
	a.Set(1, 2, a.At(1, 2)+dy)
}

// Apply maps a single point through the transform
func (a Affine) Apply(p facekit.Point) facekit.Point {
	return facekit.Pt(
		a.At(0, 0)*p.X+a.At(0, 1)*p.Y+a.At(0, 2),
		a.At(1, 0)*p.X+a.At(1, 1)*p.Y+a.At(1, 2),
	)
}

// ApplySequence maps every point of a sequence through the transform,
// returning a new sequence and leaving the input untouched
func (a Affine) ApplySequence(points facekit.PointSequence) facekit.PointSequence {

	out := make(facekit.PointSequence, len(points))

	for i, p := range points {
		out[i] = a.Apply(p)
	}

	return out
}
