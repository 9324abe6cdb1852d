package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/ticketsmith/core"
	"github.com/poiesic/ticketsmith/storage"
)

func testBatch(runID core.ID, createdAt time.Time) *core.TicketBatch {
	return &core.TicketBatch{
		RunID:     runID,
		CreatedAt: createdAt,
		Records: []core.FinalizedRecord{
			{
				Title:       "Fix login page crash",
				Description: "The login page crashes on iOS at startup.",
				Owner:       "alice",
				Priority:    core.PriorityHigh,
				Labels:      []core.Label{core.LabelBug},
				MergedProvenance: []core.Provenance{
					{Source: "notes.txt", ChunkIndex: 0, Attempt: 1},
				},
			},
		},
	}
}

func TestBatchSaveAndGet(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()
	batch := testBatch(42, time.Now().UTC().Truncate(time.Microsecond))

	if err := repo.SaveBatch(ctx, batch); err != nil {
		t.Fatalf("Failed to save batch: %v", err)
	}

	retrieved, err := repo.GetBatch(ctx, 42)
	if err != nil {
		t.Fatalf("Failed to get batch: %v", err)
	}

	if retrieved.RunID != batch.RunID {
		t.Fatalf("Expected run ID %d, got %d", batch.RunID, retrieved.RunID)
	}
	if len(retrieved.Records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(retrieved.Records))
	}
	if retrieved.Records[0].Title != "Fix login page crash" {
		t.Fatalf("Unexpected title: %q", retrieved.Records[0].Title)
	}
	if len(retrieved.Records[0].MergedProvenance) != 1 {
		t.Fatalf("Expected provenance to survive a round trip")
	}
	if !retrieved.CreatedAt.Equal(batch.CreatedAt) {
		t.Fatalf("Expected CreatedAt %v, got %v", batch.CreatedAt, retrieved.CreatedAt)
	}
}

func TestBatchGetMissing(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer backend.Close()

	_, err = repo.GetBatch(context.Background(), 999)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestBatchSaveOverwrites(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()
	first := testBatch(42, time.Now().UTC().Truncate(time.Microsecond))
	if err := repo.SaveBatch(ctx, first); err != nil {
		t.Fatalf("Failed to save batch: %v", err)
	}

	second := testBatch(42, first.CreatedAt.Add(time.Hour))
	second.Records[0].Title = "Fix login page crash on iOS"
	if err := repo.SaveBatch(ctx, second); err != nil {
		t.Fatalf("Failed to overwrite batch: %v", err)
	}

	retrieved, err := repo.GetBatch(ctx, 42)
	if err != nil {
		t.Fatalf("Failed to get batch: %v", err)
	}
	if retrieved.Records[0].Title != "Fix login page crash on iOS" {
		t.Fatalf("Expected overwritten batch, got title %q", retrieved.Records[0].Title)
	}

	// The date index must not list the replaced batch twice
	batches, err := repo.ListBatches(ctx, 10)
	if err != nil {
		t.Fatalf("Failed to list batches: %v", err)
	}
	if len(batches) != 1 {
		t.Fatalf("Expected 1 batch after overwrite, got %d", len(batches))
	}
}

func TestBatchAfterClose(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}

	if err := backend.Close(); err != nil {
		t.Fatalf("Failed to close backend: %v", err)
	}

	ctx := context.Background()
	if _, err := repo.GetBatch(ctx, 42); !errors.Is(err, storage.ErrStorageClosed) {
		t.Fatalf("Expected ErrStorageClosed, got %v", err)
	}
	batch := testBatch(42, time.Now().UTC().Truncate(time.Microsecond))
	if err := repo.SaveBatch(ctx, batch); !errors.Is(err, storage.ErrStorageClosed) {
		t.Fatalf("Expected ErrStorageClosed, got %v", err)
	}
}

func TestBatchListMostRecentFirst(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Microsecond)
	for i := 0; i < 5; i++ {
		batch := testBatch(core.ID(i+1), base.Add(time.Duration(i)*time.Minute))
		if err := repo.SaveBatch(ctx, batch); err != nil {
			t.Fatalf("Failed to save batch %d: %v", i, err)
		}
	}

	batches, err := repo.ListBatches(ctx, 3)
	if err != nil {
		t.Fatalf("Failed to list batches: %v", err)
	}
	if len(batches) != 3 {
		t.Fatalf("Expected 3 batches, got %d", len(batches))
	}
	for i := 1; i < len(batches); i++ {
		if batches[i].CreatedAt.After(batches[i-1].CreatedAt) {
			t.Fatalf("Expected batches in descending CreatedAt order")
		}
	}
	if batches[0].RunID != 5 {
		t.Fatalf("Expected most recent batch first, got run ID %d", batches[0].RunID)
	}
}

func TestBatchDelete(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()
	batch := testBatch(7, time.Now().UTC().Truncate(time.Microsecond))
	if err := repo.SaveBatch(ctx, batch); err != nil {
		t.Fatalf("Failed to save batch: %v", err)
	}

	if err := repo.DeleteBatch(ctx, 7); err != nil {
		t.Fatalf("Failed to delete batch: %v", err)
	}

	if _, err := repo.GetBatch(ctx, 7); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound after delete, got %v", err)
	}

	batches, err := repo.ListBatches(ctx, 10)
	if err != nil {
		t.Fatalf("Failed to list batches: %v", err)
	}
	if len(batches) != 0 {
		t.Fatalf("Expected empty list after delete, got %d", len(batches))
	}

	if err := repo.DeleteBatch(ctx, 7); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound deleting a missing batch, got %v", err)
	}
}
