// Package service orchestrates GameSync use cases over the document store,
// the catalog cache, the tag taxonomy and the search index.
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/gamesync/gamesync-server/internal/docstore"
	"github.com/gamesync/gamesync-server/internal/domain"
	domainerrors "github.com/gamesync/gamesync-server/internal/errors"
	"github.com/gamesync/gamesync-server/internal/search"
)

// Actor is the authenticated caller of a service method.
type Actor struct {
	UserID string
	Admin  bool
}

// GameIndexer is the part of the search index services write to.
type GameIndexer interface {
	IndexGame(g *domain.Game) error
	IndexGames(games []domain.Game) error
	DeleteGame(gameID string) error
	Search(ctx context.Context, params search.Params) (*search.Result, error)
}

var singular = map[string]string{
	docstore.Games:       "game",
	docstore.Tags:        "tag",
	docstore.Sessions:    "session",
	docstore.Collections: "collection",
	docstore.Users:       "user",
}

// storeError maps a store failure to a domain error.
func storeError(err error, collection, docID string) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return domainerrors.NotFoundf("%s %s not found", singular[collection], docID)
	}
	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) {
		return err
	}
	return domainerrors.Store(err, "access "+collection)
}

func getRecord[T any](ctx context.Context, st docstore.Store, collection, docID string) (*T, error) {
	if strings.TrimSpace(docID) == "" {
		return nil, domainerrors.Validationf("%s id is required", singular[collection])
	}
	doc, err := st.Get(ctx, collection, docID)
	if err != nil {
		return nil, storeError(err, collection, docID)
	}
	var v T
	if err := docstore.Decode(doc, &v); err != nil {
		return nil, domainerrors.Store(err, "decode "+singular[collection])
	}
	return &v, nil
}

func listRecords[T any](ctx context.Context, st docstore.Store, collection string) ([]T, error) {
	docs, err := st.ReadAll(ctx, collection)
	if err != nil {
		return nil, domainerrors.Store(err, "read "+collection)
	}
	items, err := docstore.DecodeAll[T](docs)
	if err != nil {
		return nil, domainerrors.Store(err, "decode "+collection)
	}
	return items, nil
}

func createRecord(ctx context.Context, st docstore.Store, collection string, v any) (string, error) {
	fields, err := docstore.Encode(v)
	if err != nil {
		return "", domainerrors.Wrap(err, domainerrors.CodeInternal, "encode "+singular[collection])
	}
	docID, err := st.Create(ctx, collection, fields)
	if err != nil {
		return "", domainerrors.Store(err, "create "+singular[collection])
	}
	return docID, nil
}

func updateFields(ctx context.Context, st docstore.Store, collection, docID string, fields map[string]any) error {
	if err := st.Update(ctx, collection, docID, fields); err != nil {
		return storeError(err, collection, docID)
	}
	return nil
}

// parseTagRefs parses "category:name" strings.
func parseTagRefs(raw []string) ([]domain.TagRef, error) {
	refs := make([]domain.TagRef, 0, len(raw))
	for _, s := range raw {
		ref, err := domain.ParseTagRef(s)
		if err != nil {
			return nil, domainerrors.Validation(err.Error())
		}
		refs = append(refs, ref)
	}
	return refs, nil
}
