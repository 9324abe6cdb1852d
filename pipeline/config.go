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
	"runtime"
	"time"

	"github.com/poiesic/ticketsmith/chunk"
	"github.com/poiesic/ticketsmith/core"
	"github.com/poiesic/ticketsmith/reduce"
)

const (
	// DefaultMaxAttempts is the per-chunk attempt budget shared by repair
	// retries and service retries.
	DefaultMaxAttempts = 3

	// DefaultFailureThreshold aborts the run when strictly more than this
	// fraction of chunks fail.
	DefaultFailureThreshold = 0.5

	// DefaultRetryBaseDelay is the base delay for exponential backoff on
	// extraction service errors.
	DefaultRetryBaseDelay = time.Second
)

// Config holds the tunable parameters of a pipeline run.
type Config struct {
	// Chunking
	ChunkBudget  int
	ChunkOverlap int
	ChunkUnit    chunk.Unit

	// Map stage
	Workers        int
	MaxAttempts    int
	RetryBaseDelay time.Duration

	// Reduce stage
	TitleThreshold       float64
	DescriptionThreshold float64

	// Batch policy
	FailureThreshold float64
	Timeout          time.Duration

	// Domain vocabulary
	Roster     core.TeamRoster
	Labels     core.LabelTaxonomy
	Priorities core.PriorityTaxonomy
	Verbs      core.VerbList
}

// DefaultConfig returns a Config with sensible defaults. Worker count
// defaults to half the CPUs, minimum one.
func DefaultConfig() *Config {
	workers := runtime.NumCPU() / 2
	if workers < 1 {
		workers = 1
	}

	return &Config{
		ChunkBudget:          chunk.DefaultBudget,
		ChunkUnit:            chunk.UnitCharacters,
		Workers:              workers,
		MaxAttempts:          DefaultMaxAttempts,
		RetryBaseDelay:       DefaultRetryBaseDelay,
		TitleThreshold:       reduce.DefaultTitleThreshold,
		DescriptionThreshold: reduce.DefaultDescriptionThreshold,
		FailureThreshold:     DefaultFailureThreshold,
		Roster:               core.DefaultTeamRoster(),
		Labels:               core.DefaultLabelTaxonomy(),
		Priorities:           core.DefaultPriorityTaxonomy(),
		Verbs:                core.DefaultVerbList(),
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}
	if c.MaxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}
	if c.FailureThreshold < 0 || c.FailureThreshold > 1 {
		return ErrInvalidFailureThreshold
	}
	return nil
}
