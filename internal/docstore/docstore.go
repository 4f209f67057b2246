// Package docstore defines the document store contract the GameSync services
// persist through: whole-collection reads, single-document writes with merge
// semantics, and an all-or-nothing multi-document batch.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gamesync/gamesync-server/internal/id"
)

// Collection names.
const (
	Games       = "games"
	Tags        = "tags"
	Sessions    = "sessions"
	Collections = "collections"
	Users       = "users"
)

var idPrefixes = map[string]string{
	Games:       id.PrefixGame,
	Tags:        id.PrefixTag,
	Sessions:    id.PrefixSession,
	Collections: id.PrefixCollection,
	Users:       id.PrefixUser,
}

// Errors returned by every Store implementation.
var (
	ErrNotFound   = errors.New("document not found")
	ErrInvalidOp  = errors.New("invalid batch operation")
	ErrBatchLimit = errors.New("batch exceeds store transaction limit")
)

// Document is a stored record: its store-assigned ID plus its fields.
// Fields never contain the "id" key.
type Document struct {
	ID     string
	Fields map[string]any
}

// OpKind is the kind of write inside an atomic batch.
type OpKind string

const (
	OpUpdate    OpKind = "update"
	OpDelete    OpKind = "delete"
	OpTransform OpKind = "transform"
)

// TransformFunc computes a patch from a document's fields as they stand inside
// the batch transaction. A nil patch leaves the document unchanged; an error
// fails the whole batch.
type TransformFunc func(fields map[string]any) (map[string]any, error)

// Op is a single write inside an atomic batch.
type Op struct {
	Collection string
	ID         string
	Kind       OpKind
	Fields     map[string]any // Merged into the document for OpUpdate; ignored otherwise
	Transform  TransformFunc  // Run against the current fields for OpTransform
}

// UpdateOp builds a partial-field update op.
func UpdateOp(collection, docID string, fields map[string]any) Op {
	return Op{Collection: collection, ID: docID, Kind: OpUpdate, Fields: fields}
}

// DeleteOp builds a delete op.
func DeleteOp(collection, docID string) Op {
	return Op{Collection: collection, ID: docID, Kind: OpDelete}
}

// TransformOp builds an op whose patch is computed from the stored document
// inside the transaction, so concurrent batches cannot overwrite each other's
// changes with values read earlier.
func TransformOp(collection, docID string, fn TransformFunc) Op {
	return Op{Collection: collection, ID: docID, Kind: OpTransform, Transform: fn}
}

// Apply returns the fields an update or transform op leaves in place of existing.
func Apply(existing map[string]any, op Op) (map[string]any, error) {
	patch := op.Fields
	if op.Kind == OpTransform {
		var err error
		patch, err = op.Transform(Merge(nil, existing))
		if err != nil {
			return nil, fmt.Errorf("transform %s/%s: %w", op.Collection, op.ID, err)
		}
	}
	return Merge(existing, patch), nil
}

// Store is a document database.
//
// Update merges the given fields into the existing document (top-level keys
// replace, absent keys are kept). AtomicBatch applies every op or none of them;
// an op that addresses a missing document fails the whole batch with ErrNotFound.
type Store interface {
	ReadAll(ctx context.Context, collection string) ([]Document, error)
	Get(ctx context.Context, collection, docID string) (Document, error)
	Create(ctx context.Context, collection string, fields map[string]any) (string, error)
	Update(ctx context.Context, collection, docID string, fields map[string]any) error
	Delete(ctx context.Context, collection, docID string) error
	AtomicBatch(ctx context.Context, ops []Op) error
	Close() error
}

// NewID generates an ID for a new document in collection.
func NewID(collection string) (string, error) {
	prefix, ok := idPrefixes[collection]
	if !ok {
		prefix = "doc"
	}
	return id.Generate(prefix)
}

// ValidateOps checks that every op names a collection, a document and a known kind.
func ValidateOps(ops []Op) error {
	for i, op := range ops {
		if op.Collection == "" || op.ID == "" {
			return fmt.Errorf("%w: op %d has no collection or id", ErrInvalidOp, i)
		}
		switch op.Kind {
		case OpUpdate, OpDelete:
		case OpTransform:
			if op.Transform == nil {
				return fmt.Errorf("%w: op %d has no transform", ErrInvalidOp, i)
			}
		default:
			return fmt.Errorf("%w: op %d has unknown kind %q", ErrInvalidOp, i, op.Kind)
		}
	}
	return nil
}

// NotFound wraps ErrNotFound with the document address.
func NotFound(collection, docID string) error {
	return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, docID)
}

// Encode converts a domain value into a field map using its JSON tags.
// The "id" field is dropped; the store owns document identity.
func Encode(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	delete(fields, "id")
	return fields, nil
}

// Decode fills dst from a document, setting its "id" field from doc.ID.
func Decode(doc Document, dst any) error {
	fields := make(map[string]any, len(doc.Fields)+1)
	for k, v := range doc.Fields {
		fields[k] = v
	}
	fields["id"] = doc.ID

	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("decode document %s: %w", doc.ID, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode document %s: %w", doc.ID, err)
	}
	return nil
}

// DecodeAll decodes every document into a T.
func DecodeAll[T any](docs []Document) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var v T
		if err := Decode(doc, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Merge returns base with patch's top-level keys applied. Neither input is modified.
func Merge(base, patch map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(patch))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range patch {
		if k == "id" {
			continue
		}
		out[k] = v
	}
	return out
}

// MarshalFields serializes a field map for storage.
func MarshalFields(fields map[string]any) ([]byte, error) {
	if fields == nil {
		fields = map[string]any{}
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("marshal fields: %w", err)
	}
	return data, nil
}

// UnmarshalFields parses stored field bytes.
func UnmarshalFields(data []byte) (map[string]any, error) {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("unmarshal fields: %w", err)
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}
