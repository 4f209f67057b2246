// Package taxonomy manages the tag taxonomy: the canonical tag records, the
// rename cascade that rewrites games embedding a tag, and the grouped tag and
// filter views list screens are built from.
package taxonomy

import (
	"regexp"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/gamesync/gamesync-server/internal/domain"
	domainerrors "github.com/gamesync/gamesync-server/internal/errors"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeCategory turns an administrator-supplied category key into its
// canonical form: NFC, lower-cased, trimmed, whitespace runs collapsed to "-".
// "Player  Count" -> "player-count".
func NormalizeCategory(raw string) (domain.Category, error) {
	s := norm.NFC.String(strings.TrimSpace(raw))
	s = strings.ToLower(s)
	s = whitespaceRun.ReplaceAllString(s, "-")
	if s == "" {
		return "", domainerrors.Validation("category cannot be empty")
	}
	return domain.Category(s), nil
}

// CategoryInfo is a known category with its display metadata.
type CategoryInfo struct {
	Key     domain.Category `json:"key"`
	Label   string          `json:"label"`
	Builtin bool            `json:"builtin"`
}

// Registry is the ordered, growable set of known categories.
// Built-in categories come first in their fixed order; administrator-created
// ones follow in the order they were registered. Safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	order []domain.Category
	info  map[domain.Category]CategoryInfo
}

// NewRegistry creates a registry seeded with the built-in categories.
func NewRegistry() *Registry {
	r := &Registry{info: make(map[domain.Category]CategoryInfo)}
	for _, c := range domain.BuiltinCategories() {
		r.order = append(r.order, c)
		r.info[c] = CategoryInfo{Key: c, Label: labelFor(c), Builtin: true}
	}
	return r
}

// Register adds key if unknown. It reports whether the key was new.
// Keys are expected in normalized form.
func (r *Registry) Register(key domain.Category) (CategoryInfo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if info, ok := r.info[key]; ok {
		return info, false
	}
	info := CategoryInfo{Key: key, Label: labelFor(key)}
	r.order = append(r.order, key)
	r.info[key] = info
	return info, true
}

// Has reports whether key is known.
func (r *Registry) Has(key domain.Category) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.info[key]
	return ok
}

// Keys returns the known category keys in display order.
func (r *Registry) Keys() []domain.Category {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Category, len(r.order))
	copy(out, r.order)
	return out
}

// Categories returns the known categories with metadata in display order.
func (r *Registry) Categories() []CategoryInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]CategoryInfo, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.info[key])
	}
	return out
}

// Label returns the display label for key, deriving one for unknown keys.
func (r *Registry) Label(key domain.Category) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if info, ok := r.info[key]; ok {
		return info.Label
	}
	return labelFor(key)
}

// labelFor derives "Player Count" from "player-count".
func labelFor(key domain.Category) string {
	words := strings.ReplaceAll(string(key), "-", " ")
	return cases.Title(language.Und).String(words)
}
