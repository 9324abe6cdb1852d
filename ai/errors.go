package ai

import "errors"

// ErrMalformedResponse indicates the extraction capability returned output
// that could not be parsed into candidates. Callers treat it identically to
// a schema-invalid candidate: repair and retry, not backoff.
var ErrMalformedResponse = errors.New("malformed extraction response")
