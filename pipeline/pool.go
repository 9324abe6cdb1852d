package pipeline

import (
	"context"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/ticketsmith/chunk"
	"github.com/poiesic/ticketsmith/core"
)

// mapResult aggregates the outcome of the fan-out stage across all chunks.
type mapResult struct {
	candidates []core.CandidateRecord
	failures   []ChunkFailure
	refusals   []ChunkRefusal
}

// mapChunks fans the chunks out over the worker pool and blocks until every
// chunk has reached a terminal state. Workers never communicate with each
// other; outcomes are collected under a mutex and ordered deterministically
// before returning.
func mapChunks(ctx context.Context, pool *ants.Pool, w *worker, chunks []chunk.Chunk, progress *ProgressTracker) mapResult {
	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		res mapResult
	)

	for _, c := range chunks {
		c := c
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			outcome := w.process(ctx, c)

			mu.Lock()
			switch {
			case outcome.failure != nil:
				res.failures = append(res.failures, *outcome.failure)
			case outcome.refusal != nil:
				res.refusals = append(res.refusals, *outcome.refusal)
			default:
				res.candidates = append(res.candidates, outcome.candidates...)
			}
			mu.Unlock()

			if progress != nil {
				progress.Increment(1)
			}
		})
		if err != nil {
			wg.Done()
			mu.Lock()
			res.failures = append(res.failures, ChunkFailure{
				Source:     c.Source,
				ChunkIndex: c.Index,
				Kind:       FailureExternalService,
				Err:        err,
			})
			mu.Unlock()
		}
	}

	// Barrier: the reduce stage must not start until the map stage is done.
	wg.Wait()

	sort.Slice(res.candidates, func(i, j int) bool {
		return res.candidates[i].Provenance.Compare(res.candidates[j].Provenance) < 0
	})
	sort.Slice(res.failures, func(i, j int) bool {
		return chunkBefore(res.failures[i].Source, res.failures[i].ChunkIndex,
			res.failures[j].Source, res.failures[j].ChunkIndex)
	})
	sort.Slice(res.refusals, func(i, j int) bool {
		return chunkBefore(res.refusals[i].Source, res.refusals[i].ChunkIndex,
			res.refusals[j].Source, res.refusals[j].ChunkIndex)
	})

	return res
}

func chunkBefore(sourceA string, chunkA int, sourceB string, chunkB int) bool {
	if sourceA != sourceB {
		return sourceA < sourceB
	}
	return chunkA < chunkB
}
