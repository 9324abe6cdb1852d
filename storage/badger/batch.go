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


package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/ticketsmith/core"
	"github.com/poiesic/ticketsmith/storage"
)

// BatchRepository implements storage.BatchRepository for BadgerDB.
type BatchRepository struct {
	backend *Backend
}

var _ storage.BatchRepository = (*BatchRepository)(nil)

// NewBatchRepository opens a BadgerDB database at path and returns a batch
// repository over it. Closing the repository closes the database.
func NewBatchRepository(path string) (storage.BatchRepository, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	return newBatchRepository(backend), nil
}

// newBatchRepository wraps an existing backend.
func newBatchRepository(backend *Backend) *BatchRepository {
	return &BatchRepository{backend: backend}
}

// Close closes the underlying database.
func (r *BatchRepository) Close() error {
	return r.backend.Close()
}

// WithTransaction delegates to the backend.
func (r *BatchRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// SaveBatch persists a batch under its run ID. Saving a batch whose run ID
// already exists replaces the stored batch and fixes up the date index.
func (r *BatchRepository) SaveBatch(ctx context.Context, batch *core.TicketBatch) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeBatchKey(batch.RunID)

		// Drop the old date index entry if the batch is being replaced
		old, err := r.readBatch(tx, key)
		if err != nil {
			return err
		}
		if old != nil && !old.CreatedAt.Equal(batch.CreatedAt) {
			if err := tx.Delete(makeBatchDateKey(old.CreatedAt, old.RunID)); err != nil {
				return err
			}
		}

		if err := tx.Set(key, storage.MarshalTicketBatch(batch)); err != nil {
			return err
		}

		dateKey := makeBatchDateKey(batch.CreatedAt, batch.RunID)
		if err := tx.Set(dateKey, storage.MarshalID(batch.RunID)); err != nil {
			return err
		}

		return tx.Commit()
	}, true)
}

// GetBatch retrieves a single batch by run ID.
func (r *BatchRepository) GetBatch(ctx context.Context, runID core.ID) (*core.TicketBatch, error) {
	var result *core.TicketBatch
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readBatch(tx, makeBatchKey(runID))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ListBatches retrieves up to limit batches, most recent first.
func (r *BatchRepository) ListBatches(ctx context.Context, limit int) ([]*core.TicketBatch, error) {
	var results []*core.TicketBatch
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Use reverse iterator to get most recent batches first
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek to the last possible key in the date index
		startKey := makePartialBatchDateKey(time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC))
		prefix := []byte(batchDatePrefix + ":")

		count := 0
		for iter.Seek(startKey); iter.Valid() && count < limit; iter.Next() {
			key := iter.Item().Key()

			// Check if we're still in the date index
			if len(key) < len(prefix) || slices.Compare(key[:len(prefix)], prefix) != 0 {
				break
			}

			// Read the run ID from the index
			var runID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				runID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			// Look up the full batch
			batch, err := r.readBatch(tx, makeBatchKey(runID))
			if err != nil {
				return err
			}
			if batch != nil {
				results = append(results, batch)
				count++
			}
		}
		return nil
	}, false)

	return results, err
}

// DeleteBatch removes a batch and its date index entry.
func (r *BatchRepository) DeleteBatch(ctx context.Context, runID core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeBatchKey(runID)

		batch, err := r.readBatch(tx, key)
		if err != nil {
			return err
		}
		if batch == nil {
			return storage.ErrNotFound
		}

		if err := tx.Delete(makeBatchDateKey(batch.CreatedAt, batch.RunID)); err != nil {
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}

		return tx.Commit()
	}, true)
}

// readBatch reads and unmarshals a batch by key. Returns nil, nil if the
// key doesn't exist.
func (r *BatchRepository) readBatch(tx *badger.Txn, key []byte) (*core.TicketBatch, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var batch *core.TicketBatch
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		batch, unmarshalErr = storage.UnmarshalTicketBatch(val)
		return unmarshalErr
	})
	return batch, err
}
