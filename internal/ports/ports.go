package ports

import (
	"context"
	"time"

	"ConfAlert/internal/domain"
	"ConfAlert/internal/render"
)

// ConferenceSource pulls deadline records from upstream feeds.
type ConferenceSource interface {
	FetchAll(ctx context.Context, now time.Time) ([]domain.Conference, error)
}

// Notifier delivers a rendered digest to a chat channel.
type Notifier interface {
	Publish(ctx context.Context, message *render.Message) error
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
