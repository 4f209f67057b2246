// Package store provides the Badger-backed document store.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/gamesync/gamesync-server/internal/docstore"
)

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

var _ docstore.Store = (*Store)(nil)

// New opens (or creates) the Badger database at path.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", path)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

// ReadAll returns every document in collection, ordered by ID.
func (s *Store) ReadAll(ctx context.Context, collection string) ([]docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := collectionPrefix(collection)
	var docs []docstore.Document

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchSize = 100

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			docID := string(item.Key()[len(prefix):])

			var fields map[string]any
			err := item.Value(func(val []byte) error {
				var err error
				fields, err = docstore.UnmarshalFields(val)
				return err
			})
			if err != nil {
				return fmt.Errorf("read %s/%s: %w", collection, docID, err)
			}
			docs = append(docs, docstore.Document{ID: docID, Fields: fields})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return docs, nil
}

// Get returns one document.
func (s *Store) Get(ctx context.Context, collection, docID string) (docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return docstore.Document{}, err
	}

	var fields map[string]any
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		fields, err = readFields(txn, collection, docID)
		return err
	})
	if err != nil {
		return docstore.Document{}, err
	}

	return docstore.Document{ID: docID, Fields: fields}, nil
}

// Create stores a new document under a generated ID.
func (s *Store) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	docID, err := docstore.NewID(collection)
	if err != nil {
		return "", err
	}
	data, err := docstore.MarshalFields(docstore.Merge(nil, fields))
	if err != nil {
		return "", err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(docKey(collection, docID), data)
	})
	if err != nil {
		return "", fmt.Errorf("create %s document: %w", collection, err)
	}

	return docID, nil
}

// Update merges fields into an existing document.
func (s *Store) Update(ctx context.Context, collection, docID string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return applyUpdate(txn, docstore.UpdateOp(collection, docID, fields))
	})
}

// Delete removes a document.
func (s *Store) Delete(ctx context.Context, collection, docID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return applyDelete(txn, collection, docID)
	})
}

// AtomicBatch applies ops inside one Badger transaction. Any failing op
// discards the transaction, so either every write commits or none does.
// Batches too large for a single transaction are rejected, never split.
func (s *Store) AtomicBatch(ctx context.Context, ops []docstore.Op) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := docstore.ValidateOps(ops); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		for _, op := range ops {
			var err error
			switch op.Kind {
			case docstore.OpUpdate, docstore.OpTransform:
				err = applyUpdate(txn, op)
			case docstore.OpDelete:
				err = applyDelete(txn, op.Collection, op.ID)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})

	if errors.Is(err, badger.ErrTxnTooBig) {
		return fmt.Errorf("%w: %d ops: %w", docstore.ErrBatchLimit, len(ops), err)
	}
	if err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Debug("batch committed", "ops", len(ops))
	}
	return nil
}

func readFields(txn *badger.Txn, collection, docID string) (map[string]any, error) {
	item, err := txn.Get(docKey(collection, docID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, docstore.NotFound(collection, docID)
	}
	if err != nil {
		return nil, err
	}

	var fields map[string]any
	err = item.Value(func(val []byte) error {
		fields, err = docstore.UnmarshalFields(val)
		return err
	})
	return fields, err
}

func applyUpdate(txn *badger.Txn, op docstore.Op) error {
	existing, err := readFields(txn, op.Collection, op.ID)
	if err != nil {
		return err
	}
	fields, err := docstore.Apply(existing, op)
	if err != nil {
		return err
	}
	data, err := docstore.MarshalFields(fields)
	if err != nil {
		return err
	}
	return txn.Set(docKey(op.Collection, op.ID), data)
}

func applyDelete(txn *badger.Txn, collection, docID string) error {
	key := docKey(collection, docID)
	if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
		return docstore.NotFound(collection, docID)
	} else if err != nil {
		return err
	}
	return txn.Delete(key)
}
