package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/gamesync/gamesync-server/internal/domain"
)

// Params configures a game search.
type Params struct {
	Query string // User's search text

	// Filters
	Tags        []domain.TagRef // Every tag must be present
	Players     int             // Game must accept this many players (0 = any)
	MaxPlayTime int             // Upper bound on play time in minutes (0 = any)

	// Pagination
	Limit  int
	Offset int

	SortBy string // "relevance" (default), "name", "recent"

	IncludeFacets bool
}

// DefaultParams returns sensible defaults.
func DefaultParams() Params {
	return Params{
		Limit:         20,
		SortBy:        "relevance",
		IncludeFacets: true,
	}
}

// Result is a page of search hits.
type Result struct {
	Query  string       `json:"query"`
	Total  uint64       `json:"total"`
	TookMs int64        `json:"took_ms"`
	Hits   []Hit        `json:"hits"`
	Facets []FacetCount `json:"facets,omitempty"`
}

// Hit is a single matching game.
type Hit struct {
	ID         string            `json:"id"`
	Score      float64           `json:"score"`
	Name       string            `json:"name"`
	Tags       []string          `json:"tags,omitempty"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// FacetCount is a tag and how many matching games carry it.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Search executes a query.
func (s *GameIndex) Search(ctx context.Context, params Params) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if params.Limit <= 0 {
		params.Limit = DefaultParams().Limit
	}

	req := bleve.NewSearchRequestOptions(buildQuery(params), params.Limit, params.Offset, false)
	addSorting(req, params)

	if params.IncludeFacets {
		req.AddFacet("tags", bleve.NewFacetRequest("tags", 20))
	}
	if params.Query != "" {
		req.Highlight = bleve.NewHighlight()
		req.Highlight.AddField("name")
	}
	req.Fields = []string{"name", "tags"}

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &Result{
		Query:  params.Query,
		Total:  res.Total,
		TookMs: res.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(res.Hits)),
	}

	for _, h := range res.Hits {
		hit := Hit{ID: h.ID, Score: h.Score}
		if n, ok := h.Fields["name"].(string); ok {
			hit.Name = n
		}
		hit.Tags = storedStrings(h.Fields["tags"])

		if len(h.Fragments) > 0 {
			hit.Highlights = make(map[string]string)
			for field, fragments := range h.Fragments {
				if len(fragments) > 0 {
					hit.Highlights[field] = fragments[0]
				}
			}
		}
		result.Hits = append(result.Hits, hit)
	}

	if f, ok := res.Facets["tags"]; ok && f.Terms != nil {
		for _, term := range f.Terms.Terms() {
			result.Facets = append(result.Facets, FacetCount{Value: term.Term, Count: term.Count})
		}
	}

	return result, nil
}

// storedStrings reads a stored field that is a string for one value and a
// []any for several.
func storedStrings(v any) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func buildQuery(params Params) query.Query {
	var queries []query.Query

	if q := strings.TrimSpace(params.Query); q != "" {
		nameMatch := bleve.NewMatchQuery(q)
		nameMatch.SetField("name")
		nameMatch.SetBoost(3.0)

		tagMatch := bleve.NewMatchQuery(q)
		tagMatch.SetField("tag_names")
		tagMatch.SetBoost(1.5)

		descMatch := bleve.NewMatchQuery(q)
		descMatch.SetField("description")
		descMatch.SetBoost(0.5)

		// Typo tolerance on the name
		fuzzy := bleve.NewFuzzyQuery(strings.ToLower(q))
		fuzzy.SetFuzziness(1)
		fuzzy.SetField("name")
		fuzzy.SetBoost(0.8)

		textQueries := []query.Query{nameMatch, tagMatch, descMatch, fuzzy}

		// Prefix query for autocomplete (minimum 2 chars)
		if len(q) >= 2 {
			prefix := bleve.NewPrefixQuery(strings.ToLower(q))
			prefix.SetField("name")
			prefix.SetBoost(0.5)
			textQueries = append(textQueries, prefix)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	for _, ref := range params.Tags {
		tq := bleve.NewTermQuery(ref.String())
		tq.SetField("tags")
		queries = append(queries, tq)
	}

	if params.Players > 0 {
		n := float64(params.Players)
		inclusive := true

		minQ := bleve.NewNumericRangeInclusiveQuery(nil, &n, nil, &inclusive)
		minQ.SetField("min_players")
		maxQ := bleve.NewNumericRangeInclusiveQuery(&n, nil, &inclusive, nil)
		maxQ.SetField("max_players")
		queries = append(queries, minQ, maxQ)
	}

	if params.MaxPlayTime > 0 {
		limit := float64(params.MaxPlayTime)
		inclusive := true
		q := bleve.NewNumericRangeInclusiveQuery(nil, &limit, nil, &inclusive)
		q.SetField("play_time_minutes")
		queries = append(queries, q)
	}

	switch len(queries) {
	case 0:
		return bleve.NewMatchAllQuery()
	case 1:
		return queries[0]
	default:
		return bleve.NewConjunctionQuery(queries...)
	}
}

func addSorting(req *bleve.SearchRequest, params Params) {
	switch params.SortBy {
	case "name":
		req.SortBy([]string{"name", "_id"})
	case "recent":
		req.SortBy([]string{"-created_at", "_id"})
	default:
		req.SortBy([]string{"-_score", "_id"})
	}
}
