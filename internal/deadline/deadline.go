// Package deadline normalizes the raw deadline strings found in upstream
// feeds. Sources disagree on format: date-only, date with time, textual
// month names, placeholder markers for unannounced dates, and rolling
// templates relative to an edition year.
package deadline

import (
	"strconv"
	"strings"
	"time"
)

// layouts are tried in order; the first full match wins. Order matters for
// the structurally ambiguous entries.
var layouts = []string{
	"2006-01-02",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
}

// placeholders mark deadlines not yet announced upstream.
var placeholders = []string{"tbd", "tba", "n/a"}

// Parse converts a raw deadline value into a timestamp. ok is false for
// empty input, placeholder markers, and values no layout accepts. Callers
// treat a false result as "milestone absent", never as an error.
func Parse(raw string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	value = strings.Trim(value, `"'`)
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	lowered := strings.ToLower(value)
	for _, marker := range placeholders {
		if strings.Contains(lowered, marker) {
			return time.Time{}, false
		}
	}

	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}

	return time.Time{}, false
}

// ResolveTemplate substitutes rolling-year tokens ahead of parsing: %Y is
// the edition year, %y the year before it. The %y offset mirrors how the
// JSON deadlines feed dates submission rounds that close the year before
// the conference itself; it is a quirk of that feed, not a parsing rule.
func ResolveTemplate(raw string, editionYear int) string {
	if !strings.Contains(raw, "%") {
		return raw
	}
	resolved := strings.ReplaceAll(raw, "%Y", strconv.Itoa(editionYear))
	resolved = strings.ReplaceAll(resolved, "%y", strconv.Itoa(editionYear-1))
	return resolved
}
