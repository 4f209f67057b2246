package domain

import (
	"fmt"
	"strings"
)

// TagRef is the (category, name) value a game embeds for each of its tags.
// Games hold copies, not references to Tag records, so renaming a tag has to
// rewrite every game carrying the old value.
// Equality is the pair, compared case-sensitively.
type TagRef struct {
	Category Category `json:"category"`
	Name     string   `json:"name"`
}

// String renders the ref as "category:name", the form used in query strings.
func (r TagRef) String() string {
	return string(r.Category) + ":" + r.Name
}

// ParseTagRef parses "category:name". Only the first colon separates, so names may contain colons.
func ParseTagRef(s string) (TagRef, error) {
	category, name, ok := strings.Cut(s, ":")
	category = strings.TrimSpace(category)
	name = strings.TrimSpace(name)
	if !ok || category == "" || name == "" {
		return TagRef{}, fmt.Errorf("tag %q must have the form category:name", s)
	}
	return TagRef{Category: Category(category), Name: name}, nil
}

// Tag is the canonical tag record an administrator curates.
// ID is store-assigned and only addresses the record for update and delete;
// it never takes part in equality.
type Tag struct {
	Entity
	Category Category `json:"category"`
	Name     string   `json:"name"`
}

// Ref returns the value copy games embed for this tag.
func (t Tag) Ref() TagRef {
	return TagRef{Category: t.Category, Name: t.Name}
}
