package cluster

import "errors"

// Sentinel kinds for cluster errors.
var (
	// ErrDimensionMismatch indicates a vector whose length disagrees with the
	// trained scaler or model. This is a configuration fault, never a data
	// issue, and is fatal for the request.
	ErrDimensionMismatch = errors.New("feature dimension mismatch")

	// ErrEmptyModel indicates a model with no centroids.
	ErrEmptyModel = errors.New("model has no centroids")
)
