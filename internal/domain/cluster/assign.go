package cluster

import "math"

// Assignment is the result of a nearest-centroid lookup.
type Assignment struct {
	ClusterID  int
	Confidence float64
}

// Assign finds the centroid nearest to the scaled vector under Euclidean
// distance and derives a bounded, relative confidence:
//
//	confidence = clamp(1 - d_assigned/d_max, 0, 1)
//
// where d_max is the distance to the farthest centroid. A vector equidistant
// to every centroid (d_max == 0) yields confidence 1.0. This is a relative
// measure, not a probability.
func Assign(scaled []float64, model Model) (Assignment, error) {
	if model.Clusters() == 0 {
		return Assignment{}, ErrEmptyModel
	}

	best := 0
	minDist := math.Inf(1)
	maxDist := 0.0
	for i, centroid := range model.Centroids {
		d, err := distance(scaled, centroid)
		if err != nil {
			return Assignment{}, err
		}
		if d < minDist {
			minDist = d
			best = i
		}
		if d > maxDist {
			maxDist = d
		}
	}

	confidence := 1.0
	if maxDist > 0 {
		confidence = clamp(1-minDist/maxDist, 0, 1)
	}
	return Assignment{ClusterID: best, Confidence: confidence}, nil
}

func distance(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum), nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
