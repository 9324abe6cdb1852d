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


// Package sink is the boundary where finalized batches leave the pipeline.
// A Sink consumes a whole batch; what happens to it afterward (a tracker, a
// board, a local archive) is the implementation's business.
package sink

import (
	"context"

	"github.com/poiesic/ticketsmith/core"
	"github.com/poiesic/ticketsmith/storage"
)

// Sink consumes finalized ticket batches.
type Sink interface {
	// Commit delivers one batch. Implementations must treat the batch as
	// immutable and may be called concurrently with distinct batches.
	Commit(ctx context.Context, batch *core.TicketBatch) error
}

// Archive is a Sink that persists batches to a local batch repository so
// runs can be listed and inspected later.
type Archive struct {
	repo storage.BatchRepository
}

var _ Sink = (*Archive)(nil)

// NewArchive creates an archive sink over the given repository.
func NewArchive(repo storage.BatchRepository) *Archive {
	return &Archive{repo: repo}
}

// Commit saves the batch under its run ID.
func (a *Archive) Commit(ctx context.Context, batch *core.TicketBatch) error {
	return a.repo.SaveBatch(ctx, batch)
}
