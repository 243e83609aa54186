// Package encode bridges detected faces to fixed length encodings and
// scores encodings against galleries of known encodings.
//
// Scoring returns a distance, so lower means more similar.  There is no
// universal match threshold, the cutoff is an application decision made by
// the caller against its own gallery and accuracy requirements.
package encode

import (
	"fmt"

	"gocv.io/x/gocv"

	"github.com/facekit/facekit"
)

// denseFeatures are the landmark features the embedding model requires.
// The minimal landmark model only carries eyes and nose, its output is
// not a valid encoder input.
var denseFeatures = []facekit.FaceFeature{
	facekit.Jaw,
	facekit.Mouth,
}

// Encoder produces face encodings by delegating to an embedding model
// after enforcing the landmark density contract
type Encoder struct {
	embedder facekit.Embedder
}

// NewEncoder returns an Encoder backed by the given embedding model.  The
// embedder carries expensive model state, construct it once and reuse it.
func NewEncoder(embedder facekit.Embedder) *Encoder {
	return &Encoder{embedder: embedder}
}

// Encode returns the encoding of the given face within the frame.
// Faces produced by the minimal landmark model lack the density the
// embedding model needs and fail fast with
// facekit.ErrIncompatibleDetector rather than silently producing a
// meaningless encoding.
func (e *Encoder) Encode(frame *gocv.Mat, face facekit.Face) (facekit.Encoding, error) {

	for _, feature := range denseFeatures {
		if !face.HasFeature(feature) {
			return facekit.Encoding{}, fmt.Errorf(
				"face has no %s landmarks: %w", feature, facekit.ErrIncompatibleDetector)
		}
	}

	return e.embedder.Embedding(frame, face)
}
