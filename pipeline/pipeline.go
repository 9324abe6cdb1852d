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
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/ticketsmith/ai"
	"github.com/poiesic/ticketsmith/chunk"
	"github.com/poiesic/ticketsmith/core"
	"github.com/poiesic/ticketsmith/reduce"
)

// Source is one named document fed into a run. Ordering matters: a later
// source is more recent than an earlier one, which the reducer uses when
// resolving conflicts inside a source.
type Source struct {
	Name string
	Text string
}

// Result is the outcome of a successful run. A run with zero tickets is
// still a success; refusals and isolated chunk failures are reported here
// rather than raised as errors.
type Result struct {
	Batch      *core.TicketBatch
	Failures   []ChunkFailure
	Refusals   []ChunkRefusal
	ChunkCount int
}

// Pipeline orchestrates a run: chunk the sources, fan extraction out over
// the worker pool, then reduce the surviving candidates into a finalized
// batch.
type Pipeline struct {
	cfg            Config
	extractor      ai.TaskExtractor
	chunker        *chunk.Chunker
	validator      *core.Validator
	reducer        *reduce.Reducer
	pool           *ants.Pool
	logger         *slog.Logger
	progressWriter io.Writer
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithProgressWriter enables progress reporting to the given writer,
// typically os.Stderr.
func WithProgressWriter(w io.Writer) Option {
	return func(p *Pipeline) error {
		p.progressWriter = w
		return nil
	}
}

// NewPipeline creates a pipeline around the given extractor. A nil config
// uses DefaultConfig.
func NewPipeline(extractor ai.TaskExtractor, cfg *Config, opts ...Option) (*Pipeline, error) {
	if extractor == nil {
		return nil, ErrExtractorRequired
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	chunkOpts := []chunk.Option{chunk.WithUnit(cfg.ChunkUnit)}
	if cfg.ChunkBudget > 0 {
		chunkOpts = append(chunkOpts, chunk.WithBudget(cfg.ChunkBudget))
	}
	if cfg.ChunkOverlap > 0 {
		chunkOpts = append(chunkOpts, chunk.WithOverlap(cfg.ChunkOverlap))
	}
	chunker, err := chunk.NewChunker(chunkOpts...)
	if err != nil {
		return nil, err
	}

	validator, err := core.NewValidator(cfg.Roster, cfg.Labels, cfg.Priorities, cfg.Verbs)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		cfg:       *cfg,
		extractor: extractor,
		chunker:   chunker,
		validator: validator,
		logger:    slog.Default().With("component", "pipeline"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			return nil, optErr
		}
	}

	reducer, err := reduce.NewReducer(
		reduce.WithTitleThreshold(cfg.TitleThreshold),
		reduce.WithDescriptionThreshold(cfg.DescriptionThreshold),
		reduce.WithLogger(p.logger),
	)
	if err != nil {
		return nil, err
	}
	p.reducer = reducer

	pool, err := ants.NewPool(cfg.Workers)
	if err != nil {
		return nil, err
	}
	p.pool = pool

	return p, nil
}

// Run executes the full map-reduce over the given sources and returns the
// finalized batch. A run fails as a whole only when the configured fraction
// of chunks is exceeded or the context expires before the map stage starts;
// individual chunk failures are isolated and reported in the Result.
func (p *Pipeline) Run(ctx context.Context, sources ...Source) (*Result, error) {
	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	var chunks []chunk.Chunk
	for ordinal, src := range sources {
		chunks = append(chunks, p.chunker.Split(src.Text, src.Name, ordinal)...)
	}
	p.logger.Info("starting run", "sources", len(sources), "chunks", len(chunks), "workers", p.cfg.Workers)

	if len(chunks) == 0 {
		return &Result{Batch: p.newBatch(sources, nil)}, nil
	}

	var progress *ProgressTracker
	if p.progressWriter != nil {
		progress = NewProgressTracker(p.progressWriter, len(chunks), 1)
		progress.Start()
		defer progress.Finish()
	}

	w := &worker{
		extractor:   p.extractor,
		validator:   p.validator,
		maxAttempts: p.cfg.MaxAttempts,
		baseDelay:   p.cfg.RetryBaseDelay,
		logger:      p.logger,
	}

	mres := mapChunks(ctx, p.pool, w, chunks, progress)

	failedFraction := float64(len(mres.failures)) / float64(len(chunks))
	if failedFraction > p.cfg.FailureThreshold {
		p.logger.Error("aborting run",
			"failed", len(mres.failures), "chunks", len(chunks), "threshold", p.cfg.FailureThreshold)
		return nil, &PipelineError{
			Failures:   mres.failures,
			ChunkCount: len(chunks),
			Threshold:  p.cfg.FailureThreshold,
		}
	}

	records := p.reducer.Reduce(mres.candidates)
	p.logger.Info("run complete",
		"candidates", len(mres.candidates), "tickets", len(records),
		"failed", len(mres.failures), "refused", len(mres.refusals))

	return &Result{
		Batch:      p.newBatch(sources, records),
		Failures:   mres.failures,
		Refusals:   mres.refusals,
		ChunkCount: len(chunks),
	}, nil
}

// Release releases the worker pool. The pipeline should not be used after
// calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// newBatch assembles the finalized batch. The run ID is content-derived from
// the source set so identical input yields an identical ID.
func (p *Pipeline) newBatch(sources []Source, records []core.FinalizedRecord) *core.TicketBatch {
	var b strings.Builder
	for _, src := range sources {
		b.WriteString(src.Name)
		b.WriteByte(0)
		b.WriteString(src.Text)
		b.WriteByte(0)
	}

	return &core.TicketBatch{
		RunID:     core.IDFromContent(b.String()),
		CreatedAt: time.Now().UTC(),
		Records:   records,
	}
}
