// Package cluster implements feature scaling and nearest-centroid
// assignment against a pre-trained clustering model.
package cluster

import "fmt"

// Scaler holds the per-feature affine transform produced by prior training.
// Center and Scale follow the canonical feature schema order.
type Scaler struct {
	Center []float64
	Scale  []float64
}

// Transform applies (x - center) / scale per field. The input length must
// match the trained scaler length exactly; a mismatch is a model/schema
// version fault and is never silently truncated or padded.
func (s Scaler) Transform(values []float64) ([]float64, error) {
	if len(values) != len(s.Center) || len(s.Center) != len(s.Scale) {
		return nil, fmt.Errorf("%w: vector has %d fields, scaler has %d/%d",
			ErrDimensionMismatch, len(values), len(s.Center), len(s.Scale))
	}
	out := make([]float64, len(values))
	for i, v := range values {
		scale := s.Scale[i]
		if scale == 0 {
			// zero-variance feature: the centered value is already 0 for any
			// in-distribution input
			out[i] = v - s.Center[i]
			continue
		}
		out[i] = (v - s.Center[i]) / scale
	}
	return out, nil
}

// Model is a set of centroid vectors in scaled feature space, addressable
// by 0-based cluster id.
type Model struct {
	Centroids [][]float64
}

// Clusters returns the number of centroids.
func (m Model) Clusters() int { return len(m.Centroids) }
