package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

// FailureKind classifies why a chunk failed extraction.
type FailureKind string

const (
	// FailureSchemaRepairExhausted means every attempt produced output that
	// failed validation, even with repair instructions.
	FailureSchemaRepairExhausted FailureKind = "schema-repair-exhausted"

	// FailureExternalService means the extraction capability itself kept
	// failing (network, timeout, rate limit) across the attempt budget.
	FailureExternalService FailureKind = "external-service-error"
)

// ChunkFailure records one chunk that produced no usable candidates.
// A chunk failure never aborts other chunks; the controller decides at batch
// level whether the run survives.
type ChunkFailure struct {
	Source     string
	ChunkIndex int
	Kind       FailureKind
	Attempts   int
	Err        error
}

// Error implements the error interface.
func (f ChunkFailure) Error() string {
	return fmt.Sprintf("chunk %s#%d: %s after %d attempts: %v",
		f.Source, f.ChunkIndex, f.Kind, f.Attempts, f.Err)
}

// Unwrap exposes the underlying cause.
func (f ChunkFailure) Unwrap() error {
	return f.Err
}

// ChunkRefusal records a chunk the extraction capability explicitly declined
// to extract from. A refusal is not an error: ambiguous input yields no
// record, not a fabricated one, and is reported in the run summary.
type ChunkRefusal struct {
	Source     string
	ChunkIndex int
	Reason     string
}

// PipelineError is the batch-level fatal error, raised when the fraction of
// failed chunks exceeds the configured threshold. It carries every chunk
// failure for diagnosis.
type PipelineError struct {
	Failures    []ChunkFailure
	ChunkCount  int
	Threshold   float64
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "pipeline failed: %d of %d chunks failed (threshold %.0f%%)",
		len(e.Failures), e.ChunkCount, e.Threshold*100)
	for _, f := range e.Failures {
		b.WriteString("\n  ")
		b.WriteString(f.Error())
	}
	return b.String()
}

// Unwrap exposes the individual chunk failures to errors.Is/As.
func (e *PipelineError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

// Construction errors
var (
	// ErrExtractorRequired is returned when a pipeline is built without an extractor.
	ErrExtractorRequired = errors.New("task extractor required")

	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrInvalidWorkers is returned when the worker count is <= 0.
	ErrInvalidWorkers = errors.New("worker count must be greater than 0")

	// ErrInvalidFailureThreshold is returned when the batch abort threshold
	// is outside [0, 1].
	ErrInvalidFailureThreshold = errors.New("failure threshold must be in [0, 1]")
)
