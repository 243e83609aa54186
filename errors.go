package facekit

import "errors"

// Contract violations reported by the core operations.  All of these are
// raised synchronously at the point of the offending call and are never
// retried internally, the caller decides whether to skip the offending
// frame or face and continue.
var (
	// ErrEmptyInput is returned by geometry functions given no points
	ErrEmptyInput = errors.New("no points provided")

	// ErrInsufficientLandmarks is returned when normalization is attempted
	// on a face missing the required eye landmarks
	ErrInsufficientLandmarks = errors.New("face is missing required eye landmarks")

	// ErrDegenerateGeometry is returned for unsolvable geometric
	// configurations, such as coinciding eye points
	ErrDegenerateGeometry = errors.New("degenerate face geometry")

	// ErrIncompatibleDetector is returned when encoding a face that lacks
	// the landmark density the embedding model requires
	ErrIncompatibleDetector = errors.New("face landmarks are incompatible with the embedding model")

	// ErrEmptyGallery is returned when scoring against zero known encodings
	ErrEmptyGallery = errors.New("no known encodings to score against")
)
