package storage

import (
	"context"
	"time"

	"github.com/poiesic/recall/core"
)

// Repository provides common storage operations shared across repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the repository and releases resources.
	Close() error
}

// MemoryRepository provides operations for managing memory records.
type MemoryRepository interface {
	Repository

	// AddMemories adds one or more memory records to storage.
	// Records with ID=0 get a content-hash ID, so re-adding identical
	// content overwrites rather than duplicates.
	// Sets CreatedAt if not already set.
	// Returns the records with IDs and timestamps populated.
	AddMemories(ctx context.Context, records ...*core.MemoryRecord) ([]*core.MemoryRecord, error)

	// UpdateMemories updates existing memory records.
	// Returns ErrNotFound if any record doesn't exist.
	UpdateMemories(ctx context.Context, records ...*core.MemoryRecord) ([]*core.MemoryRecord, error)

	// DeleteMemories removes memory records by their IDs.
	// Also removes associated index entries.
	// Returns ErrNotFound if any record doesn't exist.
	DeleteMemories(ctx context.Context, ids ...core.ID) error

	// GetMemory retrieves a single memory record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetMemory(ctx context.Context, id core.ID) (*core.MemoryRecord, error)

	// GetMemories retrieves multiple memory records by their IDs.
	// Returns only the records that exist (no error for missing records).
	GetMemories(ctx context.Context, ids ...core.ID) ([]*core.MemoryRecord, error)

	// ListMemories retrieves every stored record. The search core ranks the
	// whole visible corpus per call, so this is the read path for search.
	ListMemories(ctx context.Context) ([]*core.MemoryRecord, error)

	// GetMemoriesByScheduledRange retrieves records scheduled within a time
	// range. Returns records where start <= ScheduledDate < end, ordered by
	// scheduled date. Records without a scheduled date are never returned.
	GetMemoriesByScheduledRange(ctx context.Context, start, end time.Time) ([]*core.MemoryRecord, error)

	// GetRecentMemories retrieves the N most recently created records,
	// ordered by creation time descending.
	GetRecentMemories(ctx context.Context, limit int) ([]*core.MemoryRecord, error)

	// GetMemoryIDsByTag retrieves IDs of records carrying the given tag.
	// Tag comparison is case-insensitive.
	GetMemoryIDsByTag(ctx context.Context, tag string) ([]core.ID, error)
}
