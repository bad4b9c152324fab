package bridge

import (
	"errors"
	"fmt"

	"github.com/gera-labs/contentcore/internal/genai"
)

// ErrMissingCredential means no session credential is set. Recoverable:
// prompt the user for a key and replay the same request.
var ErrMissingCredential = errors.New("bridge: missing session credential")

// ErrEmptyResponse means the upstream returned no usable text. Not retried;
// masked retries against a metered API are a cost risk.
var ErrEmptyResponse = errors.New("bridge: empty model response")

// UpstreamError wraps a network or provider failure, untouched apart from
// the wrap so a UI can still distinguish a quota message from a generic one.
type UpstreamError struct {
	Err error
}

// Error implements error.
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("bridge: upstream failure: %v", e.Err)
}

// Unwrap implements errors.Unwrap.
func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// QuotaExhausted reports whether the failure is a provider quota rejection.
func (e *UpstreamError) QuotaExhausted() bool {
	var apiErr *genai.APIError
	return errors.As(e.Err, &apiErr) && apiErr.QuotaExhausted()
}

// ParseError means structured output was requested but the response text is
// not well-formed JSON. Distinct from free text arriving as expected.
type ParseError struct {
	Err error
}

// Error implements error.
func (e *ParseError) Error() string {
	return fmt.Sprintf("bridge: malformed structured response: %v", e.Err)
}

// Unwrap implements errors.Unwrap.
func (e *ParseError) Unwrap() error {
	return e.Err
}
