package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// Ingestion failures. ErrFetchFailed is batch level; the others fail one
// record and let the batch continue.
var (
	ErrFetchFailed         = errors.New("fetch failed")
	ErrMalformedRecord     = errors.New("malformed record")
	ErrReferenceResolution = errors.New("reference resolution failed")
	ErrPersistence         = errors.New("persistence failed")
)

// RecordIngestionError is the failure of a single record inside a batch.
type RecordIngestionError struct {
	Kind  ResourceKind
	Index int
	APIID int64
	Cause error
}

func (e *RecordIngestionError) Error() string {
	if e.APIID > 0 {
		return fmt.Sprintf("ingest %s record %d (api_id=%d): %v", e.Kind, e.Index, e.APIID, e.Cause)
	}
	return fmt.Sprintf("ingest %s record %d: %v", e.Kind, e.Index, e.Cause)
}

func (e *RecordIngestionError) Unwrap() error {
	return e.Cause
}

// Reason classifies the failure for reporting.
func (e *RecordIngestionError) Reason() string {
	switch {
	case errors.Is(e.Cause, ErrMalformedRecord):
		return "malformed_record"
	case errors.Is(e.Cause, ErrReferenceResolution):
		return "reference_resolution"
	case errors.Is(e.Cause, ErrPersistence):
		return "persistence"
	default:
		return "unknown"
	}
}
