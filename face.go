package facekit

import (
	"fmt"
)

// Point is a single x, y coordinate relative to a frame's pixel grid.
// Detection produces points inside the frame bounds, but geometric
// transforms may legitimately push points outside of them, so consumers
// must be prepared to clip.
type Point struct {
	X float64
	Y float64
}

// Pt is shorthand for Point{X: x, Y: y}
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// PointSequence is an ordered list of points describing the outline of a
// single face feature.  The order follows the anatomical indexing
// convention of the landmark model that produced it and must be preserved.
type PointSequence []Point

// Rect is an axis aligned rectangle described by its top-left and
// bottom-right points
type Rect struct {
	// Min is the top-left point of the rectangle
	Min Point
	// Max is the bottom-right point of the rectangle
	Max Point
}

// Width returns the rectangle width
func (r Rect) Width() float64 {
	return r.Max.X - r.Min.X
}

// Height returns the rectangle height
func (r Rect) Height() float64 {
	return r.Max.Y - r.Min.Y
}

// FaceFeature identifies which anatomical region of a face a
// PointSequence represents.  Left and right name image sides, not the
// subject's: LeftEye is the eye nearer the image's left edge, so for an
// upright face its points have the smaller x coordinates.
type FaceFeature int

const (
	Jaw FaceFeature = iota
	RightEyebrow
	LeftEyebrow
	Nose
	RightEye
	LeftEye
	Mouth
	InnerMouth
	// Forehead is only populated by the most complete landmark model
	Forehead
)

// String returns a readable name of the face feature
func (f FaceFeature) String() string {
	switch f {
	case Jaw:
		return "jaw"
	case RightEyebrow:
		return "right_eyebrow"
	case LeftEyebrow:
		return "left_eyebrow"
	case Nose:
		return "nose"
	case RightEye:
		return "right_eye"
	case LeftEye:
		return "left_eye"
	case Mouth:
		return "mouth"
	case InnerMouth:
		return "inner_mouth"
	case Forehead:
		return "forehead"
	default:
		return fmt.Sprintf("unknown feature %d", int(f))
	}
}

// Face describes a single detected face within one frame.  It maps each
// detected face feature to the sequence of points outlining that feature
// and carries the union bounding box of all point sequences.  A Face is
// created once per detection pass, is never mutated afterwards, and has no
// identity across frames.
type Face struct {
	// Landmarks maps detected face features to their point sequences
	Landmarks map[FaceFeature]PointSequence
	// Bounds is the union bounding box of all landmark point sequences
	Bounds Rect
}

// NewFace creates a Face from the given landmark mapping and computes its
// bounding box as the union of all contained point sequences
func NewFace(landmarks map[FaceFeature]PointSequence) Face {

	f := Face{Landmarks: landmarks}

	first := true

	for _, seq := range landmarks {
		for _, p := range seq {
			if first {
				f.Bounds = Rect{Min: p, Max: p}
				first = false
				continue
			}

			if p.X < f.Bounds.Min.X {
				f.Bounds.Min.X = p.X
			}
			if p.X > f.Bounds.Max.X {
				f.Bounds.Max.X = p.X
			}
			if p.Y < f.Bounds.Min.Y {
				f.Bounds.Min.Y = p.Y
			}
			if p.Y > f.Bounds.Max.Y {
				f.Bounds.Max.Y = p.Y
			}
		}
	}

	return f
}

// HasFeature reports whether the face carries a non-empty point sequence
// for the given feature
func (f Face) HasFeature(feature FaceFeature) bool {
	return len(f.Landmarks[feature]) > 0
}
