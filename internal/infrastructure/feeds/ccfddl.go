package feeds

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"gopkg.in/yaml.v3"

	"ConfAlert/internal/deadline"
	"ConfAlert/internal/domain"
	"ConfAlert/internal/source"
)

// ccfConference mirrors one entry of the ccfddl aggregate YAML document:
// a conference with nested edition cycles, each carrying a timeline of
// deadline entries.
type ccfConference struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Rank        struct {
		CCF string `yaml:"ccf"`
	} `yaml:"rank"`
	Confs []ccfCycle `yaml:"confs"`
}

type ccfCycle struct {
	Year     int        `yaml:"year"`
	Link     string     `yaml:"link"`
	Place    string     `yaml:"place"`
	Date     string     `yaml:"date"`
	Timeline []ccfEntry `yaml:"timeline"`
}

type ccfEntry struct {
	AbstractDeadline string `yaml:"abstract_deadline"`
	Deadline         string `yaml:"deadline"`
	Comment          string `yaml:"comment"`
}

// CCFDDL consumes the ccfddl repository's aggregated conference list.
type CCFDDL struct {
	client    *http.Client
	userAgent string
}

var _ source.Fetcher = (*CCFDDL)(nil)

// NewCCFDDL wires an HTTP client; nil falls back to a 15s timeout.
func NewCCFDDL(client *http.Client, userAgent string) *CCFDDL {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &CCFDDL{client: client, userAgent: userAgent}
}

// Name identifies the strategy inside the registry.
func (c *CCFDDL) Name() string {
	return "ccfddl"
}

// Fetch downloads the YAML document and flattens every edition cycle into
// one conference record. Timeline entries with unparseable or unannounced
// deadlines contribute no milestone; the rest of the record is unaffected.
func (c *CCFDDL) Fetch(ctx context.Context, req source.Request) ([]domain.Conference, error) {
	body, err := fetchBody(ctx, c.client, req.URL, c.userAgent)
	if err != nil {
		return nil, err
	}

	var entries []ccfConference
	if err := yaml.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("decode conference list: %w", err)
	}

	var records []domain.Conference
	for _, entry := range entries {
		for _, cycle := range entry.Confs {
			rec := domain.Conference{
				Name:      entry.Title,
				FullName:  entry.Description,
				Rank:      entry.Rank.CCF,
				Year:      cycle.Year,
				Place:     cycle.Place,
				Link:      cycle.Link,
				EventDate: cycle.Date,
				Source:    req.SourceName,
			}
			for _, item := range cycle.Timeline {
				if ts, ok := deadline.Parse(item.AbstractDeadline); ok {
					rec.Milestones = append(rec.Milestones, domain.Milestone{
						Type:     domain.AbstractRegistration,
						Deadline: ts,
						Comment:  item.Comment,
					})
				}
				if ts, ok := deadline.Parse(item.Deadline); ok {
					rec.Milestones = append(rec.Milestones, domain.Milestone{
						Type:     domain.PaperSubmission,
						Deadline: ts,
						Comment:  item.Comment,
					})
				}
			}
			records = append(records, rec)
		}
	}

	return records, nil
}
