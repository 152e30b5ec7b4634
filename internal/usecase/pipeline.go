package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"ConfAlert/internal/aggregate"
	"ConfAlert/internal/ports"
	"ConfAlert/internal/render"
	"ConfAlert/internal/target"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source             ports.ConferenceSource
	Filter             *target.Table
	Renderer           *render.Renderer
	Notifier           ports.Notifier
	Dump               io.Writer
	FailOnPublishError bool
	Logger             *slog.Logger
}

// Pipeline implements the fetch-filter-aggregate-render-publish workflow.
type Pipeline struct {
	source             ports.ConferenceSource
	filter             *target.Table
	renderer           *render.Renderer
	notifier           ports.Notifier
	dump               io.Writer
	failOnPublishError bool
	logger             *slog.Logger
}

// NewPipeline constructs the orchestration component. Dump defaults to
// stdout, the logger to slog's default.
func NewPipeline(deps PipelineDeps) *Pipeline {
	if deps.Dump == nil {
		deps.Dump = os.Stdout
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Pipeline{
		source:             deps.Source,
		filter:             deps.Filter,
		renderer:           deps.Renderer,
		notifier:           deps.Notifier,
		dump:               deps.Dump,
		failOnPublishError: deps.FailOnPublishError,
		logger:             deps.Logger,
	}
}

// Run executes one full cycle. Per-source and per-milestone failures never
// abort the run. A delivery failure dumps the rendered payload and aborts
// only when the fail-on-error policy is set.
func (p *Pipeline) Run(ctx context.Context, now time.Time) error {
	if p.source == nil {
		return nil
	}

	log := p.logger.With("run_id", uuid.New().String())

	records, err := p.source.FetchAll(ctx, now)
	if err != nil {
		return fmt.Errorf("fetch sources: %w", err)
	}

	tracked := records
	if p.filter != nil {
		tracked = p.filter.Apply(records)
	}

	upcoming := aggregate.Aggregate(tracked, now)
	log.Info("aggregated deadlines",
		"fetched", len(records),
		"tracked", len(tracked),
		"upcoming", len(upcoming))

	if p.renderer == nil {
		return nil
	}
	message := p.renderer.Render(upcoming, now)

	if p.notifier == nil {
		log.Warn("webhook not configured, dumping payload instead")
		p.dumpPayload(log, message)
		return nil
	}

	if err := p.notifier.Publish(ctx, message); err != nil {
		log.Error("publish digest", "error", err)
		p.dumpPayload(log, message)
		if p.failOnPublishError {
			return fmt.Errorf("publish digest: %w", err)
		}
		return nil
	}

	log.Info("digest delivered", "conferences", len(upcoming))
	return nil
}

// dumpPayload prints the rendered payload to the dump sink as indented
// JSON so an operator can inspect or replay it.
func (p *Pipeline) dumpPayload(log *slog.Logger, message *render.Message) {
	raw, err := json.MarshalIndent(message, "", "  ")
	if err != nil {
		log.Error("marshal payload dump", "error", err)
		return
	}
	fmt.Fprintln(p.dump, string(raw))
}
