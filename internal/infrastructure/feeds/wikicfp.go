package feeds

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ConfAlert/internal/deadline"
	"ConfAlert/internal/domain"
	"ConfAlert/internal/source"
)

// Search result rows alternate between these two background colors.
const (
	wikicfpRowLight = "#f6f6f6"
	wikicfpRowDark  = "#e6e6e6"
)

var editionYearExpr = regexp.MustCompile(`\b20\d{2}\b`)

// WikiCFP searches the WikiCFP servlet once per target alias and extracts
// the first matching result row.
type WikiCFP struct {
	client    *http.Client
	userAgent string
	logger    *slog.Logger
}

var _ source.Fetcher = (*WikiCFP)(nil)

// NewWikiCFP wires an HTTP client; nil falls back to a 15s timeout.
func NewWikiCFP(client *http.Client, userAgent string, logger *slog.Logger) *WikiCFP {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &WikiCFP{client: client, userAgent: userAgent, logger: logger}
}

// Name identifies the strategy inside the registry.
func (w *WikiCFP) Name() string {
	return "wikicfp"
}

// Fetch runs one search per target alias. A failed or empty search for one
// alias is logged and skipped; the remaining aliases still run.
func (w *WikiCFP) Fetch(ctx context.Context, req source.Request) ([]domain.Conference, error) {
	if len(req.Targets) == 0 {
		return nil, fmt.Errorf("no search targets provided for source %s", req.SourceName)
	}

	var records []domain.Conference
	for _, alias := range req.Targets {
		searchURL, err := buildSearchURL(req.URL, alias, req.Now.Year())
		if err != nil {
			return nil, err
		}

		doc, err := w.fetchDocument(ctx, searchURL)
		if err != nil {
			w.warn("search failed", "target", alias, "error", err)
			continue
		}

		rec, ok := extractDeadlineRow(doc, alias)
		if !ok {
			continue
		}
		rec.Source = req.SourceName
		records = append(records, rec)
	}

	return records, nil
}

func (w *WikiCFP) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if w.userAgent != "" {
		req.Header.Set("User-Agent", w.userAgent)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wikicfp returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

// extractDeadlineRow walks the result table and commits to the first row
// whose event name contains the alias. A matching row with an unparseable
// deadline yields nothing for this alias.
func extractDeadlineRow(doc *goquery.Document, alias string) (domain.Conference, bool) {
	loweredAlias := strings.ToLower(alias)

	var (
		rec   domain.Conference
		found bool
	)

	doc.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		color, _ := row.Attr("bgcolor")
		if color != wikicfpRowLight && color != wikicfpRowDark {
			return true
		}

		cells := row.Find("td")
		if cells.Length() < 4 {
			return true
		}

		eventName := strings.TrimSpace(cells.Eq(0).Text())
		if !strings.Contains(strings.ToLower(eventName), loweredAlias) {
			return true
		}

		ts, ok := deadline.Parse(strings.TrimSpace(cells.Eq(2).Text()))
		if ok {
			rec = domain.Conference{
				Name:     alias,
				FullName: eventName,
				Year:     editionYear(eventName, ts.Year()),
				Place:    strings.TrimSpace(cells.Eq(3).Text()),
				Milestones: []domain.Milestone{
					{Type: domain.PaperSubmission, Deadline: ts},
				},
			}
			found = true
		}
		return false
	})

	return rec, found
}

// editionYear takes the edition year from the event title, "CCS 2026 : ...",
// falling back to the deadline year when the title carries none. Deadlines
// often fall in the year before the edition, so the title is what keys the
// record against the other sources.
func editionYear(eventName string, fallback int) int {
	if match := editionYearExpr.FindString(eventName); match != "" {
		year, _ := strconv.Atoi(match)
		return year
	}
	return fallback
}

func buildSearchURL(base, query string, year int) (string, error) {
	parsed, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid search url %s: %w", base, err)
	}

	values := parsed.Query()
	values.Set("q", query)
	values.Set("year", strconv.Itoa(year))
	parsed.RawQuery = values.Encode()
	return parsed.String(), nil
}

func (w *WikiCFP) warn(msg string, args ...interface{}) {
	if w.logger != nil {
		w.logger.Warn(msg, args...)
	}
}
