package encode

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/facekit/facekit"
)

// Aggregate selects how per-entry distances against a gallery are
// collapsed into a single score
type Aggregate int

const (
	// Minimum scores against the closest gallery entry.  This tolerates
	// pose and lighting variance across a same-identity gallery better
	// than a single centroid encoding, at a higher per comparison cost.
	Minimum Aggregate = iota
	// Mean scores against the average distance over the gallery
	Mean
	// Median scores against the median distance over the gallery
	Median
)

// String returns a readable name of the aggregate
func (a Aggregate) String() string {
	switch a {
	case Minimum:
		return "minimum"
	case Mean:
		return "mean"
	case Median:
		return "median"
	default:
		return "unknown"
	}
}

// Distance returns the euclidean distance between two encodings.  The
// encodings are only comparable when produced by the same embedding model
// version.
func Distance(a, b facekit.Encoding) float64 {

	var sum float64

	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}

	return math.Sqrt(sum)
}

// Scorer scores an unknown encoding against galleries of known encodings
type Scorer struct {
	// Aggregate is the gallery aggregation policy, defaults to Minimum
	Aggregate Aggregate
}

// NewScorer returns a Scorer using the given aggregate
func NewScorer(aggregate Aggregate) *Scorer {
	return &Scorer{Aggregate: aggregate}
}

// Score returns the aggregate distance of the unknown encoding against a
// non-empty gallery of known encodings believed to belong to a single
// identity.  The result is invariant to the gallery order.  Returns
// facekit.ErrEmptyGallery when the gallery is empty.
func (s *Scorer) Score(unknown facekit.Encoding, known []facekit.Encoding) (float64, error) {

	if len(known) == 0 {
		return 0, facekit.ErrEmptyGallery
	}

	distances := make([]float64, len(known))

	for i, enc := range known {
		distances[i] = Distance(unknown, enc)
	}

	switch s.Aggregate {
	case Mean:
		return stat.Mean(distances, nil), nil

	case Median:
		sort.Float64s(distances)
		return stat.Quantile(0.5, stat.Empirical, distances, nil), nil

	default:
		return floats.Min(distances), nil
	}
}
