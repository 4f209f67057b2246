package taxonomy

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"

	"github.com/gamesync/gamesync-server/internal/domain"
)

// DeriveCategorizedTags groups the distinct tag names found on games by
// category. Every registered category is present, with an empty slice when no
// game uses it. Names are sorted with the manager's locale collation.
// Tags in categories unknown to the registry are skipped.
func (m *Manager) DeriveCategorizedTags(games []domain.Game) map[domain.Category][]string {
	keys := m.registry.Keys()

	seen := make(map[domain.Category]map[string]struct{}, len(keys))
	out := make(map[domain.Category][]string, len(keys))
	for _, key := range keys {
		seen[key] = make(map[string]struct{})
		out[key] = []string{}
	}

	for i := range games {
		for _, t := range games[i].Tags {
			names, known := seen[t.Category]
			if !known {
				continue
			}
			if _, dup := names[t.Name]; dup {
				continue
			}
			names[t.Name] = struct{}{}
			out[t.Category] = append(out[t.Category], t.Name)
		}
	}

	c := m.newCollator()
	for key, names := range out {
		sortNames(c, names)
		out[key] = names
	}
	return out
}

// DeriveActiveFilterBadges flattens a selection into badges. Categories follow
// registry order, then unknown categories in lexical order; names keep their
// selection order.
func (m *Manager) DeriveActiveFilterBadges(sel Selection) []Badge {
	badges := []Badge{}
	emit := func(key domain.Category) {
		seen := make(map[string]struct{}, len(sel[key]))
		for _, name := range sel[key] {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			badges = append(badges, Badge{Category: key, Name: name})
		}
	}

	for _, key := range m.registry.Keys() {
		emit(key)
	}

	var unknown []domain.Category
	for key := range sel {
		if !m.registry.Has(key) {
			unknown = append(unknown, key)
		}
	}
	slices.Sort(unknown)
	for _, key := range unknown {
		emit(key)
	}

	return badges
}

// FilterGames returns the games matching search and sel, in input order.
//
// A non-blank search keeps games whose name contains it, ignoring case.
// Each category with selected names then keeps games carrying at least one of
// those names in that category (AND across categories, OR within one).
// Untagged games never match an active selection. games is not modified.
func FilterGames(games []domain.Game, sel Selection, search string) []domain.Game {
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(search))

	wanted := make(map[domain.Category]map[string]struct{})
	for key, names := range sel {
		if len(names) == 0 {
			continue
		}
		set := make(map[string]struct{}, len(names))
		for _, name := range names {
			set[name] = struct{}{}
		}
		wanted[key] = set
	}

	out := make([]domain.Game, 0, len(games))
	for _, g := range games {
		if needle != "" && !strings.Contains(fold.String(g.Name), needle) {
			continue
		}
		if !matchesAll(g.Tags, wanted) {
			continue
		}
		out = append(out, g)
	}
	return out
}

func matchesAll(tags []domain.TagRef, wanted map[domain.Category]map[string]struct{}) bool {
	for key, names := range wanted {
		matched := false
		for _, t := range tags {
			if t.Category != key {
				continue
			}
			if _, ok := names[t.Name]; ok {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// sortNames orders names by collation, falling back to byte order for
// strings the collator considers equal so the result is deterministic.
func sortNames(c *collate.Collator, names []string) {
	slices.SortFunc(names, func(a, b string) int {
		if r := c.CompareString(a, b); r != 0 {
			return r
		}
		return strings.Compare(a, b)
	})
}
