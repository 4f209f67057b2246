package api

import (
	"fmt"

	"github.com/gamesync/gamesync-server/internal/domain"
	domainerrors "github.com/gamesync/gamesync-server/internal/errors"
	"github.com/gamesync/gamesync-server/internal/taxonomy"
)

// parseTagQuery parses repeated ?tag=category:name values. Categories are
// normalized the same way tags are when they are stored.
func parseTagQuery(raw []string) ([]domain.TagRef, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	refs := make([]domain.TagRef, 0, len(raw))
	details := make(map[string]string)
	for i, s := range raw {
		ref, err := domain.ParseTagRef(s)
		if err != nil {
			details[fmt.Sprintf("tag[%d]", i)] = `must look like "category:name"`
			continue
		}
		if ref.Category, err = taxonomy.NormalizeCategory(string(ref.Category)); err != nil {
			details[fmt.Sprintf("tag[%d]", i)] = err.Error()
			continue
		}
		refs = append(refs, ref)
	}
	if len(details) > 0 {
		return nil, domainerrors.ValidationWithDetails("invalid tag filter", details)
	}
	return refs, nil
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message" doc:"Human-readable result"`
}

// MessageOutput wraps MessageResponse for Huma.
type MessageOutput struct {
	Body MessageResponse
}
