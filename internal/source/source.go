package source

import (
	"context"
	"fmt"
	"time"

	"ConfAlert/internal/domain"
)

// Request carries all parameters required to execute one source fetch.
type Request struct {
	Now        time.Time
	SourceName string
	URL        string
	Targets    []string
	Options    map[string]string
}

// Fetcher captures a single feed strategy (ccfddl, deadline-json, wikicfp).
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, req Request) ([]domain.Conference, error)
}

// Registry keeps a mapping from fetcher names to their implementations.
type Registry struct {
	fetchers map[string]Fetcher
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{fetchers: map[string]Fetcher{}}
}

// Register adds or replaces a fetcher implementation.
func (r *Registry) Register(fetcher Fetcher) {
	if r.fetchers == nil {
		r.fetchers = map[string]Fetcher{}
	}
	r.fetchers[fetcher.Name()] = fetcher
}

// Resolve returns a fetcher by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Fetcher, error) {
	if fetcher, ok := r.fetchers[name]; ok {
		return fetcher, nil
	}
	return nil, fmt.Errorf("fetcher %s is not registered", name)
}
