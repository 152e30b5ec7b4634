package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"ConfAlert/internal/deadline"
	"ConfAlert/internal/domain"
	"ConfAlert/internal/source"
)

// jsonConference mirrors one object of the flat JSON deadlines feed. The
// deadline field may be a single string or a list (multiple submission
// rounds), and dates may be rolling templates relative to the edition year.
type jsonConference struct {
	Name             string     `json:"name"`
	FullName         string     `json:"full_name"`
	Year             int        `json:"year"`
	Link             string     `json:"link"`
	Place            string     `json:"place"`
	Rank             string     `json:"rank"`
	Comment          string     `json:"comment"`
	Deadline         stringList `json:"deadline"`
	AbstractDeadline string     `json:"abstract_deadline"`
}

// stringList accepts a scalar string or a list of strings.
type stringList []string

func (s *stringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = stringList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("expected string or list of strings: %w", err)
	}
	*s = stringList(many)
	return nil
}

// DeadlineJSON consumes flat JSON deadline feeds.
type DeadlineJSON struct {
	client    *http.Client
	userAgent string
}

var _ source.Fetcher = (*DeadlineJSON)(nil)

// NewDeadlineJSON wires an HTTP client; nil falls back to a 15s timeout.
func NewDeadlineJSON(client *http.Client, userAgent string) *DeadlineJSON {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &DeadlineJSON{client: client, userAgent: userAgent}
}

// Name identifies the strategy inside the registry.
func (d *DeadlineJSON) Name() string {
	return "deadline-json"
}

// Fetch downloads the JSON array and maps each object into a conference
// record, resolving rolling-year templates before parsing.
func (d *DeadlineJSON) Fetch(ctx context.Context, req source.Request) ([]domain.Conference, error) {
	body, err := fetchBody(ctx, d.client, req.URL, d.userAgent)
	if err != nil {
		return nil, err
	}

	var entries []jsonConference
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("decode deadline feed: %w", err)
	}

	var records []domain.Conference
	for _, entry := range entries {
		rec := domain.Conference{
			Name:     entry.Name,
			FullName: entry.FullName,
			Rank:     entry.Rank,
			Year:     entry.Year,
			Place:    entry.Place,
			Link:     entry.Link,
			Source:   req.SourceName,
		}

		resolved := deadline.ResolveTemplate(entry.AbstractDeadline, entry.Year)
		if ts, ok := deadline.Parse(resolved); ok {
			rec.Milestones = append(rec.Milestones, domain.Milestone{
				Type:     domain.AbstractRegistration,
				Deadline: ts,
				Comment:  entry.Comment,
			})
		}

		for _, raw := range entry.Deadline {
			resolved := deadline.ResolveTemplate(raw, entry.Year)
			ts, ok := deadline.Parse(resolved)
			if !ok {
				continue
			}
			rec.Milestones = append(rec.Milestones, domain.Milestone{
				Type:     domain.PaperSubmission,
				Deadline: ts,
				Comment:  entry.Comment,
			})
		}

		records = append(records, rec)
	}

	return records, nil
}
