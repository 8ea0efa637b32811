package badger

import (
	"bytes"
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/storage"
)

// MemoryRepository implements storage.MemoryRepository for BadgerDB.
type MemoryRepository struct {
	backend *Backend
}

var _ storage.MemoryRepository = (*MemoryRepository)(nil)

// NewMemoryRepository creates a new MemoryRepository.
func NewMemoryRepository(backend *Backend) (*MemoryRepository, error) {
	if backend == nil {
		return nil, storage.ErrStorageClosed
	}
	return &MemoryRepository{backend: backend}, nil
}

// Close is a no-op; the backend owns the database handle.
func (r *MemoryRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *MemoryRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddMemories adds one or more memory records to storage.
func (r *MemoryRepository) AddMemories(ctx context.Context, records ...*core.MemoryRecord) ([]*core.MemoryRecord, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			if record.Id == 0 {
				record.Id = core.IDFromContent(record.Content)
			}
			if record.CreatedAt.IsZero() {
				record.CreatedAt = time.Now().UTC()
			}

			if err := r.writeRecord(tx, record); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return records, err
}

// UpdateMemories updates existing memory records.
func (r *MemoryRepository) UpdateMemories(ctx context.Context, records ...*core.MemoryRecord) ([]*core.MemoryRecord, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			old, err := r.readRecord(tx, makeMemoryKey(record.Id))
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			if err := r.deleteIndexes(tx, old); err != nil {
				return err
			}
			if err := r.writeRecord(tx, record); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return records, err
}

// DeleteMemories removes memory records by their IDs.
func (r *MemoryRepository) DeleteMemories(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeMemoryKey(id)
			record, err := r.readRecord(tx, key)
			if err != nil {
				return err
			}
			if record == nil {
				return storage.ErrNotFound
			}

			if err := r.deleteIndexes(tx, record); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetMemory retrieves a single memory record by ID.
func (r *MemoryRepository) GetMemory(ctx context.Context, id core.ID) (*core.MemoryRecord, error) {
	var result *core.MemoryRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readRecord(tx, makeMemoryKey(id))
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

// GetMemories retrieves multiple memory records by their IDs.
func (r *MemoryRepository) GetMemories(ctx context.Context, ids ...core.ID) ([]*core.MemoryRecord, error) {
	var result []*core.MemoryRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			record, err := r.readRecord(tx, makeMemoryKey(id))
			if err != nil {
				return err
			}
			if record != nil {
				result = append(result, record)
			}
		}
		return nil
	}, false)
	return result, err
}

// ListMemories retrieves every stored record.
func (r *MemoryRepository) ListMemories(ctx context.Context) ([]*core.MemoryRecord, error) {
	var results []*core.MemoryRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(memoryRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record *core.MemoryRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalMemoryRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if record != nil {
				results = append(results, record)
			}
		}
		return nil
	}, false)
	return results, err
}

// GetMemoriesByScheduledRange retrieves records scheduled within a time range.
func (r *MemoryRepository) GetMemoriesByScheduledRange(ctx context.Context, start, end time.Time) ([]*core.MemoryRecord, error) {
	if end.Before(start) {
		return nil, storage.ErrInvalidQuery
	}
	if start.Equal(end) {
		end = start.Add(1 * time.Microsecond)
	}

	var results []*core.MemoryRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		startKey := makePartialTimeIndexKey(memoryScheduledIndex, start)
		endKey := makePartialTimeIndexKey(memoryScheduledIndex, end)
		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if slices.Compare(key, endKey) > 0 {
				break
			}

			record, err := r.readIndexedRecord(tx, iter.Item())
			if err != nil {
				return err
			}
			if record != nil {
				results = append(results, record)
			}
		}
		return nil
	}, false)

	return results, err
}

// GetRecentMemories retrieves the N most recently created records.
func (r *MemoryRepository) GetRecentMemories(ctx context.Context, limit int) ([]*core.MemoryRecord, error) {
	var results []*core.MemoryRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek to the last possible created-index key and walk backwards.
		startKey := makePartialTimeIndexKey(memoryCreatedIndex, time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC))
		prefix := []byte(memoryCreatedIndex + ":")

		count := 0
		for iter.Seek(startKey); iter.Valid() && count < limit; iter.Next() {
			key := iter.Item().Key()
			if !bytes.HasPrefix(key, prefix) {
				break
			}

			record, err := r.readIndexedRecord(tx, iter.Item())
			if err != nil {
				return err
			}
			if record != nil {
				results = append(results, record)
				count++
			}
		}
		return nil
	}, false)

	return results, err
}

// GetMemoryIDsByTag retrieves IDs of records carrying the given tag.
func (r *MemoryRepository) GetMemoryIDsByTag(ctx context.Context, tag string) ([]core.ID, error) {
	var ids []core.ID
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		startKey := makePartialTagKey(tag)
		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if !bytes.HasPrefix(key, startKey) {
				break
			}

			var id core.ID
			err := iter.Item().Value(func(val []byte) error {
				var err error
				id, err = storage.UnmarshalID(val)
				return err
			})
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	}, false)

	return ids, err
}

// Helper methods

// writeRecord stores the primary record and its index entries.
func (r *MemoryRepository) writeRecord(tx *badger.Txn, record *core.MemoryRecord) error {
	if err := tx.Set(makeMemoryKey(record.Id), storage.MarshalMemoryRecord(record)); err != nil {
		return err
	}

	idValue := storage.MarshalID(record.Id)
	if err := tx.Set(makeTimeIndexKey(memoryCreatedIndex, record.CreatedAt, record.Id), idValue); err != nil {
		return err
	}
	if record.ScheduledDate != nil {
		if err := tx.Set(makeTimeIndexKey(memoryScheduledIndex, *record.ScheduledDate, record.Id), idValue); err != nil {
			return err
		}
	}
	for _, tag := range record.Tags {
		if err := tx.Set(makeTagKey(tag, record.Id), idValue); err != nil {
			return err
		}
	}
	return nil
}

// deleteIndexes removes all index entries for a record.
func (r *MemoryRepository) deleteIndexes(tx *badger.Txn, record *core.MemoryRecord) error {
	if err := tx.Delete(makeTimeIndexKey(memoryCreatedIndex, record.CreatedAt, record.Id)); err != nil {
		return err
	}
	if record.ScheduledDate != nil {
		if err := tx.Delete(makeTimeIndexKey(memoryScheduledIndex, *record.ScheduledDate, record.Id)); err != nil {
			return err
		}
	}
	for _, tag := range record.Tags {
		if err := tx.Delete(makeTagKey(tag, record.Id)); err != nil {
			return err
		}
	}
	return nil
}

// readRecord reads a memory record from the transaction.
// Returns nil without error when the key does not exist.
func (r *MemoryRepository) readRecord(tx *badger.Txn, key []byte) (*core.MemoryRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.MemoryRecord
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		record, unmarshalErr = storage.UnmarshalMemoryRecord(val)
		return unmarshalErr
	})
	return record, err
}

// readIndexedRecord resolves an index entry to its full record.
func (r *MemoryRepository) readIndexedRecord(tx *badger.Txn, item *badger.Item) (*core.MemoryRecord, error) {
	var id core.ID
	if err := item.Value(func(val []byte) error {
		var err error
		id, err = storage.UnmarshalID(val)
		return err
	}); err != nil {
		return nil, err
	}
	return r.readRecord(tx, makeMemoryKey(id))
}
