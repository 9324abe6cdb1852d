package ai

import "context"

// Request is the input for one extraction call.
type Request struct {
	// ChunkText is the source segment to extract work items from.
	ChunkText string

	// RepairHint carries the accumulated repair instructions from previous
	// failed attempts. Empty on the first attempt.
	RepairHint string
}

// RawCandidate is one unvalidated field-set proposed by the extraction
// capability. All fields are raw strings; parsing and validation happen
// downstream so a bad value can be reported back as a repair instruction.
type RawCandidate struct {
	Title       string
	Description string
	Owner       string
	Priority    string
	Labels      []string
}

// Refusal is an explicit "no task found" or "ambiguous input" signal.
// It is not an error and must not trigger a retry: ambiguous input yields
// no record, not a fabricated one.
type Refusal struct {
	Reason string
}

// Extraction is the outcome of one successful extraction call: either a
// sequence of raw candidates (possibly empty, meaning the chunk contains no
// actionable task) or an explicit refusal. Never both.
type Extraction struct {
	Candidates []RawCandidate
	Refusal    *Refusal
}

// Refused reports whether the capability declined to extract.
func (e *Extraction) Refused() bool {
	return e.Refusal != nil
}

// TaskExtractor turns a chunk of unstructured text into proposed work items.
// Implementations must be thread-safe for concurrent use.
//
// Errors are service-level (network, timeout, rate limit) except for
// ErrMalformedResponse, which marks output that could not be parsed and is
// treated by callers exactly like a schema-invalid candidate.
type TaskExtractor interface {
	Extract(ctx context.Context, req Request) (*Extraction, error)
}
