package storage

import (
	"context"

	"github.com/poiesic/ticketsmith/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// BatchRepository provides operations for managing ticket batches.
type BatchRepository interface {
	Repository
	// SaveBatch persists a batch under its run ID.
	// Run IDs are content-derived, so saving the same input twice overwrites
	// the previous batch rather than duplicating it.
	SaveBatch(ctx context.Context, batch *core.TicketBatch) error

	// GetBatch retrieves a single batch by run ID.
	// Returns ErrNotFound if the batch doesn't exist.
	GetBatch(ctx context.Context, runID core.ID) (*core.TicketBatch, error)

	// ListBatches retrieves up to limit batches, most recent first.
	ListBatches(ctx context.Context, limit int) ([]*core.TicketBatch, error)

	// DeleteBatch removes a batch by run ID.
	// Returns ErrNotFound if the batch doesn't exist.
	DeleteBatch(ctx context.Context, runID core.ID) error
}
