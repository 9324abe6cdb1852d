// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/ticketsmith/ai"
	"github.com/poiesic/ticketsmith/chunk"
	"github.com/poiesic/ticketsmith/core"
)

// worker runs the validate-repair-retry loop for a single chunk. Each chunk
// gets a fresh attempt budget; nothing about one chunk's failures leaks into
// another's processing.
type worker struct {
	extractor   ai.TaskExtractor
	validator   *core.Validator
	maxAttempts int
	baseDelay   time.Duration
	logger      *slog.Logger
}

// chunkOutcome is the terminal state of one chunk. Exactly one of the three
// shapes is populated: candidates (possibly empty) on success, refusal when
// the capability declined, failure when the attempt budget ran out.
type chunkOutcome struct {
	candidates []core.CandidateRecord
	refusal    *ChunkRefusal
	failure    *ChunkFailure
}

func (w *worker) process(ctx context.Context, c chunk.Chunk) chunkOutcome {
	var (
		hints    []string
		lastKind = FailureSchemaRepairExhausted
		lastErr  error
	)

	for attempt := 1; attempt <= w.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return w.fail(c, FailureExternalService, attempt-1, err)
		}

		req := ai.Request{
			ChunkText:  c.ExtractionText(),
			RepairHint: strings.Join(hints, "\n"),
		}

		extraction, err := w.extractor.Extract(ctx, req)
		if err != nil {
			if errors.Is(err, ai.ErrMalformedResponse) {
				// Malformed output is a schema problem, not a transport
				// problem: it consumes an attempt and feeds the repair loop.
				lastKind = FailureSchemaRepairExhausted
				lastErr = err
				hints = append(hints, fmt.Sprintf("attempt %d: the response was not a single valid JSON object matching the schema", attempt))
				w.logger.Debug("malformed extraction response",
					"source", c.Source, "chunk", c.Index, "attempt", attempt)
				continue
			}

			if ctx.Err() != nil {
				return w.fail(c, FailureExternalService, attempt, ctx.Err())
			}

			lastKind = FailureExternalService
			lastErr = err
			w.logger.Debug("extraction call failed",
				"source", c.Source, "chunk", c.Index, "attempt", attempt, "error", err)
			if attempt < w.maxAttempts {
				if serr := sleepBackoff(ctx, w.baseDelay, attempt); serr != nil {
					return w.fail(c, FailureExternalService, attempt, serr)
				}
			}
			continue
		}

		if extraction.Refused() {
			w.logger.Debug("extraction refused",
				"source", c.Source, "chunk", c.Index, "reason", extraction.Refusal.Reason)
			return chunkOutcome{refusal: &ChunkRefusal{
				Source:     c.Source,
				ChunkIndex: c.Index,
				Reason:     extraction.Refusal.Reason,
			}}
		}

		candidates, result := w.convertAndValidate(extraction.Candidates, c, attempt)
		if result.Valid() {
			return chunkOutcome{candidates: candidates}
		}

		// Validation failed: accumulate the repair instruction so the next
		// attempt sees every previous mistake, and try again.
		lastKind = FailureSchemaRepairExhausted
		lastErr = fmt.Errorf("validation failed: %s", result)
		hints = append(hints, fmt.Sprintf("attempt %d: %s", attempt, result))
		w.logger.Debug("extraction failed validation",
			"source", c.Source, "chunk", c.Index, "attempt", attempt,
			"field", result.Field, "reason", result.Reason)
	}

	return w.fail(c, lastKind, w.maxAttempts, lastErr)
}

// convertAndValidate parses the raw candidates into typed records and runs
// every record through the validator. If any candidate fails, the whole
// response is rejected and the first failure becomes the repair instruction.
func (w *worker) convertAndValidate(raw []ai.RawCandidate, c chunk.Chunk, attempt int) ([]core.CandidateRecord, core.ValidationResult) {
	records := make([]core.CandidateRecord, 0, len(raw))
	for _, r := range raw {
		record, result := w.convert(r, c, attempt)
		if !result.Valid() {
			return nil, result
		}
		if result = w.validator.Validate(&record, c.ExtractionText()); !result.Valid() {
			return nil, result
		}
		records = append(records, record)
	}
	return records, core.ValidationResult{}
}

// convert maps a raw candidate onto a typed record. Enum parse failures are
// validation failures, phrased the same way the validator phrases them, so
// the repair loop can correct them.
func (w *worker) convert(r ai.RawCandidate, c chunk.Chunk, attempt int) (core.CandidateRecord, core.ValidationResult) {
	priority, err := core.ParsePriority(r.Priority)
	if err != nil {
		return core.CandidateRecord{}, core.ValidationResult{
			Field:  core.FieldPriority,
			Reason: fmt.Sprintf("priority value %q is invalid; choose from Critical, High, Low", r.Priority),
		}
	}

	labels := make([]core.Label, 0, len(r.Labels))
	for _, l := range r.Labels {
		label, err := core.ParseLabel(l)
		if err != nil {
			return core.CandidateRecord{}, core.ValidationResult{
				Field:  core.FieldLabels,
				Reason: fmt.Sprintf("label value %q is invalid; choose from Bug, Feature, Docs, TechDebt", l),
			}
		}
		labels = append(labels, label)
	}

	owner := strings.TrimSpace(r.Owner)
	if owner == "" {
		owner = core.OwnerUnassigned
	}

	return core.CandidateRecord{
		Title:       strings.TrimSpace(r.Title),
		Description: strings.TrimSpace(r.Description),
		Owner:       owner,
		Priority:    priority,
		Labels:      core.NormalizeLabels(labels),
		Provenance: core.Provenance{
			Source:        c.Source,
			SourceOrdinal: c.SourceOrdinal,
			ChunkIndex:    c.Index,
			Attempt:       attempt,
		},
	}, core.ValidationResult{}
}

func (w *worker) fail(c chunk.Chunk, kind FailureKind, attempts int, err error) chunkOutcome {
	w.logger.Warn("chunk failed",
		"source", c.Source, "chunk", c.Index, "kind", kind, "attempts", attempts, "error", err)
	return chunkOutcome{failure: &ChunkFailure{
		Source:     c.Source,
		ChunkIndex: c.Index,
		Kind:       kind,
		Attempts:   attempts,
		Err:        err,
	}}
}
