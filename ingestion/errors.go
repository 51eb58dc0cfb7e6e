package ingestion

import "errors"

var (
	// ErrWriterRequired is returned when a corpus writer is not provided.
	ErrWriterRequired = errors.New("corpus writer required")

	// ErrMalformedSnapshot is returned when a dump file cannot be parsed.
	ErrMalformedSnapshot = errors.New("malformed snapshot")
)
