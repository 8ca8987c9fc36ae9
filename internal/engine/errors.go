// File: internal/engine/errors.go
package engine

import "errors"

var (
	// ErrAllBackendsFailed is the single terminal error of Generate: every
	// catalogued backend either failed to initialize, refused, or produced
	// output below the quality bar. Individual attempt failures are soft and
	// only visible in logs.
	ErrAllBackendsFailed = errors.New("all generation backends failed or refused")

	// ErrUnknownBackend is returned by Initialize for an id that is not in
	// the registry.
	ErrUnknownBackend = errors.New("unknown generation backend")
)
