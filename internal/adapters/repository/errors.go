package repository

import "errors"

// Sentinel kinds for raw-data store errors.
var (
	// ErrMissingArtifact indicates a raw-table file absent at startup.
	ErrMissingArtifact = errors.New("missing data artifact")

	// ErrMissingColumn indicates a raw-table file without a required column.
	ErrMissingColumn = errors.New("missing required column")

	// ErrMalformedRow indicates a row that could not be parsed.
	ErrMalformedRow = errors.New("malformed row")
)
