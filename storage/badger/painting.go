package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/artguide/core"
	"github.com/poiesic/artguide/storage"
)

// PaintingRepository implements storage.PaintingRepository for BadgerDB.
type PaintingRepository struct {
	backend *Backend
}

var _ storage.PaintingRepository = (*PaintingRepository)(nil)

// NewPaintingRepository creates a new PaintingRepository.
func NewPaintingRepository(backend *Backend) *PaintingRepository {
	return &PaintingRepository{
		backend: backend,
	}
}

// Close is a no-op; the backend owns the database handle.
func (r *PaintingRepository) Close() error {
	return nil
}

// FindSimilar delegates to the backend.
func (r *PaintingRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error) {
	return r.backend.FindSimilar(ctx, vector, minSimilarity, limit)
}

// UpsertRecords writes one or more records, keyed by the hash of their source key.
func (r *PaintingRepository) UpsertRecords(ctx context.Context, records ...*core.Record) ([]*core.Record, error) {
	if err := core.ValidateBatch(records); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Timestamps are stored at microsecond precision.
		now := time.Now().UTC().Truncate(time.Microsecond)
		for _, record := range records {
			record.Id = core.IDFromContent(record.Key)
			key := makePaintingKey(record.Id)

			old, err := r.readRecord(tx, key)
			if err != nil {
				return err
			}
			if old != nil && !old.InsertedAt.IsZero() {
				record.InsertedAt = old.InsertedAt
			} else {
				record.InsertedAt = now
			}
			record.UpdatedAt = now

			if err := tx.Set(key, storage.MarshalRecord(record)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	return records, nil
}

// UpdateFields merges record fields into the stored records with the same IDs.
func (r *PaintingRepository) UpdateFields(ctx context.Context, records ...*core.Record) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC().Truncate(time.Microsecond)
		for _, record := range records {
			key := makePaintingKey(record.Id)

			stored, err := r.readRecord(tx, key)
			if err != nil {
				return err
			}
			if stored == nil {
				return fmt.Errorf("%w: id %d", storage.ErrNotFound, record.Id)
			}

			if stored.Fields == nil {
				stored.Fields = core.Fields{}
			}
			stored.Fields.Merge(record.Fields)
			stored.UpdatedAt = now

			if err := tx.Set(key, storage.MarshalRecord(stored)); err != nil {
				return err
			}

			record.Fields = stored.Fields.Clone()
			record.UpdatedAt = now
		}
		return tx.Commit()
	}, true)
}

// DeleteRecords removes records by their IDs.
func (r *PaintingRepository) DeleteRecords(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makePaintingKey(id)

			if _, err := tx.Get(key); err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					return fmt.Errorf("%w: id %d", storage.ErrNotFound, id)
				}
				return err
			}

			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetRecord retrieves a single record by ID.
func (r *PaintingRepository) GetRecord(ctx context.Context, id core.ID) (*core.Record, error) {
	var result *core.Record
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readRecord(tx, makePaintingKey(id))
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

// GetRecords retrieves multiple records by their IDs.
func (r *PaintingRepository) GetRecords(ctx context.Context, ids ...core.ID) ([]*core.Record, error) {
	var result []*core.Record
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			record, err := r.readRecord(tx, makePaintingKey(id))
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

// Count returns the number of stored records.
func (r *PaintingRepository) Count(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(paintingRecordPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// Scroll returns the next page of records after the given ID.
func (r *PaintingRepository) Scroll(ctx context.Context, after core.ID, limit int) ([]*core.Record, core.ID, error) {
	if limit <= 0 {
		return nil, 0, fmt.Errorf("%w: limit must be greater than 0", storage.ErrInvalidQuery)
	}

	var (
		page []*core.Record
		next core.ID
	)
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(paintingRecordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		start := makePaintingKey(0)
		if after != 0 {
			start = makePaintingKey(after)
		}

		for iter.Seek(start); iter.Valid(); iter.Next() {
			item := iter.Item()
			id, ok := idFromPaintingKey(item.Key())
			if !ok || (after != 0 && id == after) {
				continue
			}

			// One record past the page means there is more to read
			if len(page) == limit {
				next = page[len(page)-1].Id
				return nil
			}

			var record *core.Record
			if err := item.Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalRecord(val)
				return err
			}); err != nil {
				return err
			}
			page = append(page, record)
		}
		return nil
	}, false)
	if err != nil {
		return nil, 0, err
	}

	return page, next, nil
}

// readRecord reads a record from the transaction.
// Returns nil, nil if the key doesn't exist.
func (r *PaintingRepository) readRecord(tx *badger.Txn, key []byte) (*core.Record, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var record *core.Record
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		record, unmarshalErr = storage.UnmarshalRecord(val)
		return unmarshalErr
	})
	return record, err
}
