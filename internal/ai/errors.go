// Package ai holds the outbound clients for the caption and image generation
// services. Both make a single synchronous HTTP call per operation, guarded
// by a circuit breaker and a client-side rate limiter; there are no retries.
package ai

import "errors"

var (
	// ErrMissingCredential indicates the API key/token for a call path is not
	// configured. This is fatal for the request, checked before any call.
	ErrMissingCredential = errors.New("missing API credential")

	// ErrBadOutput indicates the model answered, but the payload did not match
	// the requested schema. The wrapped message carries the raw output for
	// diagnosis.
	ErrBadOutput = errors.New("ai output validation failed")

	// ErrUpstream indicates a non-success response from an external service.
	ErrUpstream = errors.New("upstream service failure")
)
