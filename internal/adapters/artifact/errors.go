package artifact

import "errors"

// Sentinel kinds for artifact loading errors. Every one of these is fatal
// at startup: the pipeline must never run against a partially loaded or
// mismatched model.
var (
	ErrMissingArtifact = errors.New("missing model artifact")
	ErrInvalidArtifact = errors.New("invalid model artifact")
	ErrSchemaMismatch  = errors.New("artifact does not match feature schema")
)
