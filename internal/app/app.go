package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ConfAlert/internal/config"
	"ConfAlert/internal/infrastructure/feeds"
	"ConfAlert/internal/infrastructure/scheduler"
	"ConfAlert/internal/infrastructure/slack"
	"ConfAlert/internal/logging"
	"ConfAlert/internal/ports"
	"ConfAlert/internal/render"
	"ConfAlert/internal/source"
	"ConfAlert/internal/target"
	"ConfAlert/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	client := &http.Client{Timeout: cfg.Fetch.Timeout()}

	registry := source.NewRegistry()
	registry.Register(feeds.NewCCFDDL(client, cfg.Fetch.UserAgent))
	registry.Register(feeds.NewDeadlineJSON(client, cfg.Fetch.UserAgent))
	registry.Register(feeds.NewWikiCFP(client, cfg.Fetch.UserAgent,
		baseLogger.With("component", "feeds.wikicfp")))

	src := feeds.NewMultiSource(registry, cfg.Sources, targetAliases(cfg.Targets),
		cfg.Fetch.Timeout(), baseLogger.With("component", "source"))

	var notifier ports.Notifier
	if cfg.Notifications.Slack.WebhookURL != "" {
		notifier = slack.NewNotifier(cfg.Notifications.Slack.WebhookURL, cfg.Notifications.Slack.Timeout())
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:             src,
		Filter:             target.NewTable(categories(cfg.Targets)),
		Renderer:           render.New(cfg.Scheduler.Location(), sourceNames(cfg.Sources)),
		Notifier:           notifier,
		FailOnPublishError: cfg.Notifications.Slack.FailOnError,
		Logger:             baseLogger.With("component", "pipeline"),
	})

	return &Application{cfg: cfg, logger: baseLogger, pipeline: pipeline}
}

// Run executes the pipeline once, or keeps firing it on the configured
// cron schedule until interrupted.
func (a *Application) Run(ctx context.Context) error {
	if a.pipeline == nil {
		return nil
	}

	if !a.cfg.Scheduler.Enabled {
		now := time.Now().In(a.cfg.Scheduler.Location())
		return a.pipeline.Run(ctx, now)
	}

	return a.runScheduled(ctx)
}

func (a *Application) runScheduled(ctx context.Context) error {
	driver := scheduler.NewCronScheduler(a.cfg.Scheduler.CronExpression, a.cfg.Scheduler.Location())
	sched := usecase.NewScheduler(driver, a.pipeline)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.logger.Info("scheduler started",
		"cron", a.cfg.Scheduler.CronExpression,
		"timezone", a.cfg.Scheduler.Timezone)

	return sched.RunScheduled(ctx)
}

func targetAliases(targets []config.TargetConfig) []string {
	var aliases []string
	for _, t := range targets {
		aliases = append(aliases, t.Aliases...)
	}
	return aliases
}

func categories(targets []config.TargetConfig) []target.Category {
	out := make([]target.Category, 0, len(targets))
	for _, t := range targets {
		out = append(out, target.Category{Name: t.Category, Aliases: t.Aliases})
	}
	return out
}

func sourceNames(sources []config.SourceConfig) []string {
	out := make([]string, 0, len(sources))
	for _, s := range sources {
		out = append(out, s.Name)
	}
	return out
}
