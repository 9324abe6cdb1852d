package mock

import (
	"context"
	"sync"

	"github.com/poiesic/ticketsmith/ai"
)

// Response scripts the outcome of one extraction call.
// Exactly one of Extraction and Err should be set.
type Response struct {
	Extraction *ai.Extraction
	Err        error
}

// Extractor is a test double for ai.TaskExtractor.
// It replays scripted responses per call, or delegates to ExtractFunc when
// set. Safe for concurrent use; records every request for assertions.
type Extractor struct {
	// ExtractFunc is called by Extract if set, bypassing the script.
	ExtractFunc func(ctx context.Context, req ai.Request) (*ai.Extraction, error)

	mu        sync.Mutex
	script    []Response
	requests  []ai.Request
	callCount int
}

// NewExtractor creates a mock extractor with default behavior:
// every call returns an empty extraction (no actionable task).
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Script appends scripted responses replayed in order on successive calls.
// After the script runs out, calls fall back to the default behavior.
func (m *Extractor) Script(responses ...Response) *Extractor {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, responses...)
	return m
}

// Extract replays the next scripted response.
func (m *Extractor) Extract(ctx context.Context, req ai.Request) (*ai.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.callCount++
	m.requests = append(m.requests, req)
	var next *Response
	if len(m.script) > 0 {
		next = &m.script[0]
		m.script = m.script[1:]
	}
	fn := m.ExtractFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	if next != nil {
		return next.Extraction, next.Err
	}
	return &ai.Extraction{}, nil
}

// CallCount returns the number of times Extract was called.
func (m *Extractor) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Requests returns a copy of every request seen, in call order.
func (m *Extractor) Requests() []ai.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ai.Request(nil), m.requests...)
}

// Reset clears the script, the request log, and the call count.
func (m *Extractor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = nil
	m.requests = nil
	m.callCount = 0
	m.ExtractFunc = nil
}

// Candidates is a convenience constructor for a successful scripted response.
func Candidates(candidates ...ai.RawCandidate) Response {
	return Response{Extraction: &ai.Extraction{Candidates: candidates}}
}

// Refuse is a convenience constructor for a scripted refusal.
func Refuse(reason string) Response {
	return Response{Extraction: &ai.Extraction{Refusal: &ai.Refusal{Reason: reason}}}
}

// Fail is a convenience constructor for a scripted error.
func Fail(err error) Response {
	return Response{Err: err}
}
