// Package render turns the aggregated deadline list into the block-based
// webhook payload.
package render

import (
	"fmt"
	"strings"
	"time"

	"ConfAlert/internal/domain"
	"ConfAlert/internal/urgency"
)

const headerTitle = "📅 Conference Deadline Alert"

// Message is the webhook payload. Blocks carry the digest; Text alone is
// sent when there is nothing to report.
type Message struct {
	Text   string  `json:"text,omitempty"`
	Blocks []Block `json:"blocks,omitempty"`
}

// Block is a single Block Kit element.
type Block struct {
	Type     string `json:"type"`
	Text     *Text  `json:"text,omitempty"`
	Elements []Text `json:"elements,omitempty"`
}

// Text is a Block Kit text object.
type Text struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Emoji bool   `json:"emoji,omitempty"`
}

// Renderer formats digests. Timestamps in the trailing context line are
// shown in the configured location.
type Renderer struct {
	location *time.Location
	sources  []string
}

// New builds a renderer; sources feed the attribution line.
func New(loc *time.Location, sources []string) *Renderer {
	if loc == nil {
		loc = time.UTC
	}
	return &Renderer{location: loc, sources: sources}
}

// Render produces the digest for the aggregated records. Records must
// already be windowed and sorted; grouping preserves their order inside
// each section. An empty input yields a plain informational message.
func (r *Renderer) Render(records []domain.Conference, now time.Time) *Message {
	if len(records) == 0 {
		return &Message{Text: "📅 *Conference Deadline Alert*\n\nNo upcoming deadlines for tracked conferences."}
	}

	blocks := []Block{
		{Type: "header", Text: &Text{Type: "plain_text", Text: headerTitle, Emoji: true}},
		{Type: "section", Text: &Text{Type: "mrkdwn", Text: fmt.Sprintf("*Tracked conferences with upcoming deadlines: %d*", len(records))}},
		{Type: "divider"},
	}

	grouped := map[urgency.Bucket][]domain.Conference{}
	for _, rec := range records {
		bucket := urgency.BucketFor(minDaysLeft(rec, now))
		grouped[bucket] = append(grouped[bucket], rec)
	}

	for _, bucket := range urgency.Buckets() {
		members := grouped[bucket]
		if len(members) == 0 {
			continue
		}
		blocks = append(blocks, Block{
			Type: "section",
			Text: &Text{Type: "mrkdwn", Text: "*" + bucket.Title() + "*"},
		})
		for _, rec := range members {
			blocks = append(blocks, Block{
				Type: "section",
				Text: &Text{Type: "mrkdwn", Text: r.conferenceText(rec, now)},
			})
		}
	}

	blocks = append(blocks, Block{Type: "divider"})
	blocks = append(blocks, Block{
		Type:     "context",
		Elements: []Text{{Type: "mrkdwn", Text: r.contextLine(now)}},
	})

	return &Message{Blocks: blocks}
}

func (r *Renderer) conferenceText(rec domain.Conference, now time.Time) string {
	tier := urgency.TierFor(minDaysLeft(rec, now))

	var b strings.Builder
	b.WriteString(tier.Marker())
	b.WriteString(" *")
	b.WriteString(displayName(rec))
	b.WriteString("*")
	if rec.Rank != "" {
		fmt.Fprintf(&b, " (%s)", rec.Rank)
	}

	b.WriteString("\n📁 ")
	b.WriteString(rec.Category)
	b.WriteString(" | 📍 ")
	b.WriteString(placeOrTBA(rec.Place))
	if rec.EventDate != "" {
		b.WriteString(" | 🗓 ")
		b.WriteString(rec.EventDate)
	}

	for _, m := range rec.Milestones {
		days := urgency.DaysLeft(now, m.Deadline)
		fmt.Fprintf(&b, "\n📆 %s: %s (%s)", m.Type.Label(), formatStamp(m.Deadline), urgency.DayLabel(days))
		if m.Comment != "" {
			b.WriteString(" · ")
			b.WriteString(m.Comment)
		}
	}

	return b.String()
}

func (r *Renderer) contextLine(now time.Time) string {
	line := "Updated: " + now.In(r.location).Format("2006-01-02 15:04 MST")
	if len(r.sources) > 0 {
		line += " | sources: " + strings.Join(r.sources, ", ")
	}
	return line
}

func displayName(rec domain.Conference) string {
	name := rec.Name
	if name == "" {
		name = rec.FullName
	}
	if rec.Year > 0 {
		name = fmt.Sprintf("%s %d", name, rec.Year)
	}
	if rec.Link != "" {
		return fmt.Sprintf("<%s|%s>", rec.Link, name)
	}
	return name
}

func placeOrTBA(place string) string {
	if strings.TrimSpace(place) == "" {
		return "TBA"
	}
	return place
}

// formatStamp hides the clock part for date-only deadlines.
func formatStamp(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04")
}

func minDaysLeft(rec domain.Conference, now time.Time) int {
	earliest, ok := rec.EarliestDeadline()
	if !ok {
		return 0
	}
	return urgency.DaysLeft(now, earliest)
}
