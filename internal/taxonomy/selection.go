package taxonomy

import "github.com/gamesync/gamesync-server/internal/domain"

// Selection maps a category to the tag names picked in a filter UI.
// Names are kept in the order they were added; Add ignores repeats.
// It is transient state and never persisted.
type Selection map[domain.Category][]string

// NewSelection builds a selection from refs, in order.
func NewSelection(refs ...domain.TagRef) Selection {
	s := make(Selection)
	for _, ref := range refs {
		s.Add(ref)
	}
	return s
}

// Add selects ref. It reports false if ref was already selected.
func (s Selection) Add(ref domain.TagRef) bool {
	for _, name := range s[ref.Category] {
		if name == ref.Name {
			return false
		}
	}
	s[ref.Category] = append(s[ref.Category], ref.Name)
	return true
}

// Active reports whether any category has a selected name.
func (s Selection) Active() bool {
	for _, names := range s {
		if len(names) > 0 {
			return true
		}
	}
	return false
}

// Badge is one selected (category, name) pair, as shown in an active-filter bar.
type Badge struct {
	Category domain.Category `json:"category"`
	Name     string          `json:"name"`
}
