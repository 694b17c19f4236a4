// Package source holds the error taxonomy shared by all data source
// adapters. Adapters surface these failures raw; fallback policy lives
// one layer up in the repository and orchestrator.
package source

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured means the adapter has no credentials or base URL.
	// Callers degrade to the next source, never crash.
	ErrNotConfigured = errors.New("source not configured")

	// ErrNotFound means the requested id is absent upstream. Callers
	// translate it to a nil result, not a user-facing error.
	ErrNotFound = errors.New("not found")
)

// UpstreamError is a non-success HTTP status from a remote service.
type UpstreamError struct {
	Service string
	Status  int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Service, e.Status)
}

// IsUpstream reports whether err carries an UpstreamError, returning it.
func IsUpstream(err error) (*UpstreamError, bool) {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}
