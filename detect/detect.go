// Package detect provides the landmark model plumbing shared by detector
// backends: the feature slice tables describing how each supported
// landmark model lays out its points, grouping of flat point sequences
// into per-feature landmarks, and upsample scaling helpers.
//
// Three interchangeable landmark models exist, differing in which face
// features they populate and their accuracy and cost tradeoff.  The core
// pipeline is polymorphic over any detector producing a face with at
// least the left and right eye features.
//
// Shape predictors emit their points in subject order, the subject's
// left eye before the subject's right eye.  The slice tables map those
// ranges onto the image side labels of facekit.FaceFeature, so LeftEye
// always holds the eye nearer the image's left edge.
package detect

import (
	"fmt"

	"github.com/facekit/facekit"
)

// FeatureSlices maps face features to half open [start, end) index ranges
// within a landmark model's flat point sequence
type FeatureSlices map[facekit.FaceFeature][2]int

// Model describes one landmark model variant
type Model struct {
	// Name is a short model identifier
	Name string
	// Points is the number of points the model's shape predictor emits
	Points int
	// Slices is the feature layout of the flat point sequence
	Slices FeatureSlices
	// order carries feature specific point reorderings applied after
	// slicing, keyed by feature
	order map[facekit.FaceFeature][]int
}

// Basic is the lightest landmark model: eye corner pairs and the point
// beneath the nose.  It is all that is needed for finding faces and
// producing normalized face frames, but its output is too sparse for the
// embedding model.
//
// Both corners are kept per eye, so the feature mean is the eye center
// rather than a single corner.  Points 0 and 1 are the subject's left
// eye, on the image's right side.
var Basic = Model{
	Name:   "basic",
	Points: 5,
	Slices: FeatureSlices{
		facekit.RightEye: {0, 2},
		facekit.LeftEye:  {2, 4},
		facekit.Nose:     {4, 5},
	},
}

// Partial is the 68 point landmark model covering every face feature
// except the forehead
var Partial = Model{
	Name:   "partial",
	Points: 68,
	Slices: FeatureSlices{
		facekit.Jaw:          {0, 17},
		facekit.LeftEyebrow:  {17, 22},
		facekit.RightEyebrow: {22, 27},
		facekit.Nose:         {27, 36},
		facekit.LeftEye:      {36, 42},
		facekit.RightEye:     {42, 48},
		facekit.Mouth:        {48, 60},
		facekit.InnerMouth:   {60, 68},
	},
}

// Full is the 81 point landmark model adding the forehead curvature.
// The model emits its forehead points out of anatomical order, so they
// are reordered after slicing.
var Full = Model{
	Name:   "full",
	Points: 81,
	Slices: FeatureSlices{
		facekit.Jaw:          {0, 17},
		facekit.LeftEyebrow:  {17, 22},
		facekit.RightEyebrow: {22, 27},
		facekit.Nose:         {27, 36},
		facekit.LeftEye:      {36, 42},
		facekit.RightEye:     {42, 48},
		facekit.Mouth:        {48, 68},
		facekit.InnerMouth:   {60, 68},
		facekit.Forehead:     {69, 81},
	},
	order: map[facekit.FaceFeature][]int{
		facekit.Forehead: {8, 6, 7, 0, 1, 2, 11, 3, 4, 10, 5, 9},
	},
}

// Group slices a model's flat point sequence into the per-feature
// landmark mapping, preserving the anatomical point order within each
// feature
func (m Model) Group(points facekit.PointSequence) (map[facekit.FaceFeature]facekit.PointSequence, error) {

	if len(points) < m.Points {
		return nil, fmt.Errorf("%s model expects %d points, got %d",
			m.Name, m.Points, len(points))
	}

	landmarks := make(map[facekit.FaceFeature]facekit.PointSequence, len(m.Slices))

	for feature, bounds := range m.Slices {
		seq := points[bounds[0]:bounds[1]]

		if order, ok := m.order[feature]; ok {
			reordered := make(facekit.PointSequence, len(order))
			for i, idx := range order {
				reordered[i] = seq[idx]
			}
			seq = reordered
		}

		landmarks[feature] = seq
	}

	return landmarks, nil
}

// Face groups a model's flat point sequence and wraps it into a Face with
// its union bounding box computed
func (m Model) Face(points facekit.PointSequence) (facekit.Face, error) {

	landmarks, err := m.Group(points)
	if err != nil {
		return facekit.Face{}, err
	}

	return facekit.NewFace(landmarks), nil
}

// UpsampleScale returns the search image scale factor for an upsample
// count, each step doubles the image
func UpsampleScale(upsample int) float64 {

	factor := 1.0

	for i := 0; i < upsample; i++ {
		factor *= 2
	}

	return factor
}

// ScalePoints returns a copy of the point sequence with every coordinate
// multiplied by factor, used to map detections on an upsampled image back
// into source frame coordinates
func ScalePoints(points facekit.PointSequence, factor float64) facekit.PointSequence {

	out := make(facekit.PointSequence, len(points))

	for i, p := range points {
		out[i] = facekit.Pt(p.X*factor, p.Y*factor)
	}

	return out
}
