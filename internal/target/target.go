// Package target decides which conferences belong to the tracked set and
// assigns each a category. The table is injected at construction time so
// tests can substitute small fixtures.
package target

import (
	"strings"

	"ConfAlert/internal/domain"
)

// Category pairs a display category with the aliases that identify it.
type Category struct {
	Name    string
	Aliases []string
}

type entry struct {
	category string
	aliases  []string
}

// Table matches record names against an ordered category table. Earlier
// categories win when aliases overlap.
type Table struct {
	entries []entry
}

// NewTable builds a matcher from the configured categories, normalizing
// aliases to lowercase.
func NewTable(categories []Category) *Table {
	entries := make([]entry, 0, len(categories))
	for _, cat := range categories {
		aliases := make([]string, 0, len(cat.Aliases))
		for _, alias := range cat.Aliases {
			alias = strings.ToLower(strings.TrimSpace(alias))
			if alias == "" {
				continue
			}
			aliases = append(aliases, alias)
		}
		if len(aliases) == 0 {
			continue
		}
		entries = append(entries, entry{category: cat.Name, aliases: aliases})
	}
	return &Table{entries: entries}
}

// Classify resolves a record's category by case-insensitive substring match
// of each alias against name and full name. ok is false for untracked
// records.
func (t *Table) Classify(name, fullName string) (string, bool) {
	loweredName := strings.ToLower(name)
	loweredFull := strings.ToLower(fullName)

	for _, e := range t.entries {
		for _, alias := range e.aliases {
			if strings.Contains(loweredName, alias) || strings.Contains(loweredFull, alias) {
				return e.category, true
			}
		}
	}
	return "", false
}

// Apply keeps only tracked records, tagging each with its category. The
// filter is the sole gate deciding what counts as a tracked conference.
func (t *Table) Apply(records []domain.Conference) []domain.Conference {
	tracked := make([]domain.Conference, 0, len(records))
	for _, rec := range records {
		category, ok := t.Classify(rec.Name, rec.FullName)
		if !ok {
			continue
		}
		rec.Category = category
		tracked = append(tracked, rec)
	}
	return tracked
}
