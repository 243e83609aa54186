package facekit

import (
	"gocv.io/x/gocv"
)

// EncodingSize is the fixed length of a face encoding vector
const EncodingSize = 128

// Encoding is a fixed length numeric vector uniquely characterizing one
// face's appearance.  Two encodings are only comparable when produced by
// the same embedding model version.
type Encoding [EncodingSize]float32

// Detector finds faces and their landmark geometry within a frame.  Any
// implementation producing faces populated with at least the LeftEye and
// RightEye features is an acceptable detector, no particular landmark
// model is assumed.
//
// upsample is the non-negative number of times the search image is doubled
// in size before detection, increasing recall on small faces at a latency
// cost.  Zero means detect on the frame as given.
//
// Detector implementations carry expensive model state loaded once at
// construction and are safe for reuse across many frames, they must not be
// recreated per frame.
type Detector interface {
	Detect(frame *gocv.Mat, upsample int) ([]Face, error)
}

// Embedder produces a fixed length encoding for one detected face within a
// frame.  It is the collaborator contract backing encode.Encoder and is
// expected to perform its own internal alignment from the face landmarks.
type Embedder interface {
	Embedding(frame *gocv.Mat, face Face) (Encoding, error)
}
