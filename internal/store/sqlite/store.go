// Package sqlite provides a SQLite-backed document store.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gamesync/gamesync-server/internal/docstore"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Store provides SQLite-backed document persistence.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ docstore.Store = (*Store)(nil)

// Open creates a new SQLite store at the given path.
// It configures WAL mode, sets pragmas, and runs schema migrations.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	if logger != nil {
		logger.Info("SQLite database opened successfully", "path", path)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ReadAll returns every document in collection, ordered by ID.
func (s *Store) ReadAll(ctx context.Context, collection string) ([]docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, data FROM documents WHERE collection = ? ORDER BY id`, collection)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []docstore.Document
	for rows.Next() {
		var (
			docID string
			data  string
		)
		if err := rows.Scan(&docID, &data); err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		fields, err := docstore.UnmarshalFields([]byte(data))
		if err != nil {
			return nil, fmt.Errorf("read %s/%s: %w", collection, docID, err)
		}
		docs = append(docs, docstore.Document{ID: docID, Fields: fields})
	}
	return docs, rows.Err()
}

// Get returns one document.
func (s *Store) Get(ctx context.Context, collection, docID string) (docstore.Document, error) {
	fields, err := readFields(ctx, s.db, collection, docID)
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

	now := formatTime(time.Now())
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		collection, docID, string(data), now, now,
	)
	if err != nil {
		return "", fmt.Errorf("insert %s document: %w", collection, err)
	}
	return docID, nil
}

// Update merges fields into an existing document.
func (s *Store) Update(ctx context.Context, collection, docID string, fields map[string]any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := applyUpdate(ctx, tx, docstore.UpdateOp(collection, docID, fields)); err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes a document.
func (s *Store) Delete(ctx context.Context, collection, docID string) error {
	return applyDelete(ctx, s.db, collection, docID)
}

// AtomicBatch applies ops inside one SQL transaction.
func (s *Store) AtomicBatch(ctx context.Context, ops []docstore.Op) error {
	if err := docstore.ValidateOps(ops); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, op := range ops {
		switch op.Kind {
		case docstore.OpUpdate, docstore.OpTransform:
			err = applyUpdate(ctx, tx, op)
		case docstore.OpDelete:
			err = applyDelete(ctx, tx, op.Collection, op.ID)
		}
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}

	if s.logger != nil {
		s.logger.Debug("batch committed", "ops", len(ops))
	}
	return nil
}

func readFields(ctx context.Context, q querier, collection, docID string) (map[string]any, error) {
	var data string
	err := q.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND id = ?`, collection, docID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, docstore.NotFound(collection, docID)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, docID, err)
	}
	return docstore.UnmarshalFields([]byte(data))
}

func applyUpdate(ctx context.Context, q querier, op docstore.Op) error {
	collection, docID := op.Collection, op.ID
	existing, err := readFields(ctx, q, collection, docID)
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

	_, err = q.ExecContext(ctx,
		`UPDATE documents SET data = ?, updated_at = ? WHERE collection = ? AND id = ?`,
		string(data), formatTime(time.Now()), collection, docID)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, docID, err)
	}
	return nil
}

func applyDelete(ctx context.Context, q querier, collection, docID string) error {
	res, err := q.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND id = ?`, collection, docID)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, docID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return docstore.NotFound(collection, docID)
	}
	return nil
}

// formatTime formats a time.Time to RFC3339Nano for storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
