package api

import (
	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/gamesync/gamesync-server/internal/errors"
	"github.com/gamesync/gamesync-server/internal/http/response"
)

// EnvelopeVersion is the "v" field of every response body.
const EnvelopeVersion = response.Version

// Envelope is the JSON body of every API response.
type Envelope = response.Envelope

// EnvelopeTransformer wraps handler output and errors in an Envelope.
func EnvelopeTransformer(_ huma.Context, _ string, v any) (any, error) {
	if apiErr, ok := v.(*APIError); ok {
		return response.Failure(domainerrors.Code(apiErr.Code), apiErr.Message, apiErr.Details), nil
	}
	return response.Success(v), nil
}
