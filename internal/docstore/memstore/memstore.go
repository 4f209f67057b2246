// Package memstore is an in-memory docstore.Store for tests and local tooling.
// Documents are kept as serialized JSON so callers observe the same decoding
// behavior as the persistent backends.
package memstore

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/gamesync/gamesync-server/internal/docstore"
)

// ErrInjected is returned by operations failed through FailBatches or FailWrites.
var ErrInjected = errors.New("injected store failure")

// Store is an in-memory document store.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string][]byte

	failBatches int
	failWrites  int
	batches     int
}

var _ docstore.Store = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{collections: make(map[string]map[string][]byte)}
}

// FailBatches makes the next n AtomicBatch calls fail without applying anything.
func (s *Store) FailBatches(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failBatches = n
}

// FailWrites makes the next n single-document writes (Create, Update, Delete) fail.
func (s *Store) FailWrites(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWrites = n
}

// BatchCount returns how many batches have been committed.
func (s *Store) BatchCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.batches
}

// Put stores a document under a fixed ID, replacing any existing one.
// Tests use it to seed fixtures with predictable IDs.
func (s *Store) Put(collection, docID string, fields map[string]any) error {
	data, err := docstore.MarshalFields(fields)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bucket(collection)[docID] = data
	return nil
}

func (s *Store) bucket(collection string) map[string][]byte {
	b, ok := s.collections[collection]
	if !ok {
		b = make(map[string][]byte)
		s.collections[collection] = b
	}
	return b
}

func (s *Store) takeWriteFailure() bool {
	if s.failWrites > 0 {
		s.failWrites--
		return true
	}
	return false
}

// ReadAll returns every document in collection ordered by ID.
func (s *Store) ReadAll(ctx context.Context, collection string) ([]docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	b := s.collections[collection]
	ids := make([]string, 0, len(b))
	for docID := range b {
		ids = append(ids, docID)
	}
	slices.Sort(ids)

	docs := make([]docstore.Document, 0, len(ids))
	for _, docID := range ids {
		fields, err := docstore.UnmarshalFields(b[docID])
		if err != nil {
			return nil, err
		}
		docs = append(docs, docstore.Document{ID: docID, Fields: fields})
	}
	return docs, nil
}

// Get returns one document.
func (s *Store) Get(ctx context.Context, collection, docID string) (docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return docstore.Document{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.collections[collection][docID]
	if !ok {
		return docstore.Document{}, docstore.NotFound(collection, docID)
	}
	fields, err := docstore.UnmarshalFields(data)
	if err != nil {
		return docstore.Document{}, err
	}
	return docstore.Document{ID: docID, Fields: fields}, nil
}

// Create stores a new document and returns its generated ID.
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

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.takeWriteFailure() {
		return "", ErrInjected
	}
	s.bucket(collection)[docID] = data
	return docID, nil
}

// Update merges fields into an existing document.
func (s *Store) Update(ctx context.Context, collection, docID string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.takeWriteFailure() {
		return ErrInjected
	}
	data, err := s.merged(collection, docID, fields)
	if err != nil {
		return err
	}
	s.bucket(collection)[docID] = data
	return nil
}

// Delete removes a document.
func (s *Store) Delete(ctx context.Context, collection, docID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.takeWriteFailure() {
		return ErrInjected
	}
	if _, ok := s.collections[collection][docID]; !ok {
		return docstore.NotFound(collection, docID)
	}
	delete(s.collections[collection], docID)
	return nil
}

// AtomicBatch stages every op against a copy of the affected documents and
// swaps them in only when all ops succeed.
func (s *Store) AtomicBatch(ctx context.Context, ops []docstore.Op) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := docstore.ValidateOps(ops); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failBatches > 0 {
		s.failBatches--
		return ErrInjected
	}

	type key struct{ collection, id string }
	staged := make(map[key][]byte)
	deleted := make(map[key]bool)

	for _, op := range ops {
		k := key{op.Collection, op.ID}
		current, ok := staged[k]
		if !ok && !deleted[k] {
			current, ok = s.collections[op.Collection][op.ID]
		}
		if !ok {
			return docstore.NotFound(op.Collection, op.ID)
		}

		switch op.Kind {
		case docstore.OpDelete:
			delete(staged, k)
			deleted[k] = true
		case docstore.OpUpdate, docstore.OpTransform:
			existing, err := docstore.UnmarshalFields(current)
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
			staged[k] = data
		}
	}

	for k, data := range staged {
		s.bucket(k.collection)[k.id] = data
	}
	for k := range deleted {
		delete(s.collections[k.collection], k.id)
	}
	s.batches++
	return nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

func (s *Store) merged(collection, docID string, fields map[string]any) ([]byte, error) {
	data, ok := s.collections[collection][docID]
	if !ok {
		return nil, docstore.NotFound(collection, docID)
	}
	existing, err := docstore.UnmarshalFields(data)
	if err != nil {
		return nil, err
	}
	return docstore.MarshalFields(docstore.Merge(existing, fields))
}
