package feeds

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ConfAlert/internal/config"
	"ConfAlert/internal/domain"
	"ConfAlert/internal/ports"
	"ConfAlert/internal/source"
)

// MultiSource implements ConferenceSource via registered fetcher strategies.
// Sources run sequentially in config order; a failing source contributes
// nothing and never aborts the run.
type MultiSource struct {
	registry *source.Registry
	sources  []config.SourceConfig
	targets  []string
	timeout  time.Duration
	logger   *slog.Logger
}

var _ ports.ConferenceSource = (*MultiSource)(nil)

// NewMultiSource wires the fetcher registry with config-defined sources.
// targets is the alias list handed to search-driven fetchers.
func NewMultiSource(reg *source.Registry, sources []config.SourceConfig, targets []string, timeout time.Duration, log *slog.Logger) *MultiSource {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &MultiSource{
		registry: reg,
		sources:  sources,
		targets:  targets,
		timeout:  timeout,
		logger:   log,
	}
}

// FetchAll iterates over configured sources and merges their records in
// config order, which downstream deduplication treats as source priority.
func (s *MultiSource) FetchAll(ctx context.Context, now time.Time) ([]domain.Conference, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("fetcher registry is not configured")
	}

	s.debug("fetch all", "sources", len(s.sources))

	var aggregated []domain.Conference
	for _, src := range s.sources {
		fetcher, err := s.registry.Resolve(src.Adapter)
		if err != nil {
			s.warn("skipping source", "source", src.Name, "error", err)
			continue
		}

		req := source.Request{
			Now:        now,
			SourceName: src.Name,
			URL:        src.URL,
			Targets:    s.targets,
			Options:    src.Options,
		}

		fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
		records, err := fetcher.Fetch(fetchCtx, req)
		cancel()
		if err != nil {
			s.warn("source failed", "source", src.Name, "error", err)
			continue
		}

		for i := range records {
			if records[i].Source == "" {
				records[i].Source = src.Name
			}
		}
		s.debug("source produced records", "source", src.Name, "count", len(records))
		aggregated = append(aggregated, records...)
	}

	s.debug("fetch done", "total_records", len(aggregated))
	return aggregated, nil
}

func (s *MultiSource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *MultiSource) warn(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
