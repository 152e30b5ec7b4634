package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"ConfAlert/internal/domain"
	"ConfAlert/internal/render"
	"ConfAlert/internal/target"
)

type fakeSource struct {
	records []domain.Conference
	err     error
}

func (f *fakeSource) FetchAll(ctx context.Context, now time.Time) ([]domain.Conference, error) {
	return f.records, f.err
}

type fakeNotifier struct {
	got   *render.Message
	err   error
	calls int
}

func (f *fakeNotifier) Publish(ctx context.Context, message *render.Message) error {
	f.got = message
	f.calls++
	return f.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func messageText(message *render.Message) string {
	var sb strings.Builder
	sb.WriteString(message.Text)
	for _, block := range message.Blocks {
		if block.Text != nil {
			sb.WriteString(block.Text.Text)
			sb.WriteString("\n")
		}
		for _, el := range block.Elements {
			sb.WriteString(el.Text)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func fixtureRecords() []domain.Conference {
	return []domain.Conference{
		{
			Name: "CCS", FullName: "ACM Conference on Computer and Communications Security",
			Year: 2026, Source: "ccfddl",
			Milestones: []domain.Milestone{{
				Type:     domain.PaperSubmission,
				Deadline: time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC),
			}},
		},
		{
			Name: "CCS", FullName: "ACM Conference on Computer and Communications Security",
			Year: 2025, Source: "ccfddl",
			Milestones: []domain.Milestone{{
				Type:     domain.PaperSubmission,
				Deadline: time.Date(2025, time.August, 30, 0, 0, 0, 0, time.UTC),
			}},
		},
		{
			Name: "PLDI", Year: 2025, Source: "deadline-feed",
			Milestones: []domain.Milestone{{
				Type:     domain.PaperSubmission,
				Deadline: time.Date(2025, time.September, 10, 0, 0, 0, 0, time.UTC),
			}},
		},
	}
}

func fixtureTable() *target.Table {
	return target.NewTable([]target.Category{
		{Name: "Security", Aliases: []string{"CCS", "NDSS"}},
	})
}

func TestPipelineDeliversDigest(t *testing.T) {
	t.Parallel()

	notifier := &fakeNotifier{}
	pipeline := NewPipeline(PipelineDeps{
		Source:   &fakeSource{records: fixtureRecords()},
		Filter:   fixtureTable(),
		Renderer: render.New(time.UTC, []string{"unit"}),
		Notifier: notifier,
		Dump:     &bytes.Buffer{},
		Logger:   quietLogger(),
	})

	now := time.Date(2025, time.August, 22, 9, 0, 0, 0, time.UTC)
	if err := pipeline.Run(context.Background(), now); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if notifier.calls != 1 {
		t.Fatalf("expected one publish, got %d", notifier.calls)
	}
	if len(notifier.got.Blocks) == 0 {
		t.Fatalf("expected a block digest, got %+v", notifier.got)
	}

	text := messageText(notifier.got)
	if !strings.Contains(text, "Security") {
		t.Fatalf("category missing from digest:\n%s", text)
	}
	if strings.Contains(text, "PLDI") {
		t.Fatalf("untracked conference leaked into digest:\n%s", text)
	}

	near := strings.Index(text, "CCS 2025")
	far := strings.Index(text, "CCS 2026")
	if near < 0 || far < 0 {
		t.Fatalf("both CCS editions must survive dedup:\n%s", text)
	}
	if near > far {
		t.Fatalf("editions must be sorted by earliest deadline:\n%s", text)
	}
}

func TestPipelineDumpsOnPublishFailure(t *testing.T) {
	t.Parallel()

	dump := &bytes.Buffer{}
	notifier := &fakeNotifier{err: fmt.Errorf("webhook gone")}
	pipeline := NewPipeline(PipelineDeps{
		Source:   &fakeSource{records: fixtureRecords()},
		Filter:   fixtureTable(),
		Renderer: render.New(time.UTC, []string{"unit"}),
		Notifier: notifier,
		Dump:     dump,
		Logger:   quietLogger(),
	})

	now := time.Date(2025, time.August, 22, 9, 0, 0, 0, time.UTC)
	if err := pipeline.Run(context.Background(), now); err != nil {
		t.Fatalf("publish failures are swallowed by default, got %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(dump.Bytes(), &payload); err != nil {
		t.Fatalf("dump is not valid JSON: %v\n%s", err, dump.String())
	}
	if _, ok := payload["blocks"]; !ok {
		t.Fatalf("dumped payload misses blocks: %s", dump.String())
	}
}

func TestPipelineFailOnPublishError(t *testing.T) {
	t.Parallel()

	pipeline := NewPipeline(PipelineDeps{
		Source:             &fakeSource{records: fixtureRecords()},
		Filter:             fixtureTable(),
		Renderer:           render.New(time.UTC, []string{"unit"}),
		Notifier:           &fakeNotifier{err: fmt.Errorf("webhook gone")},
		Dump:               &bytes.Buffer{},
		FailOnPublishError: true,
		Logger:             quietLogger(),
	})

	now := time.Date(2025, time.August, 22, 9, 0, 0, 0, time.UTC)
	err := pipeline.Run(context.Background(), now)
	if err == nil {
		t.Fatalf("expected publish error to surface")
	}
	if !strings.Contains(err.Error(), "webhook gone") {
		t.Fatalf("cause lost in wrapping: %v", err)
	}
}

func TestPipelineWithoutNotifier(t *testing.T) {
	t.Parallel()

	dump := &bytes.Buffer{}
	pipeline := NewPipeline(PipelineDeps{
		Source:   &fakeSource{records: fixtureRecords()},
		Filter:   fixtureTable(),
		Renderer: render.New(time.UTC, []string{"unit"}),
		Dump:     dump,
		Logger:   quietLogger(),
	})

	now := time.Date(2025, time.August, 22, 9, 0, 0, 0, time.UTC)
	if err := pipeline.Run(context.Background(), now); err != nil {
		t.Fatalf("missing webhook must not fail the run: %v", err)
	}
	if !strings.Contains(dump.String(), "Conference Deadline Alert") {
		t.Fatalf("payload not dumped:\n%s", dump.String())
	}
}

func TestPipelineFetchErrorAborts(t *testing.T) {
	t.Parallel()

	pipeline := NewPipeline(PipelineDeps{
		Source: &fakeSource{err: fmt.Errorf("registry misconfigured")},
		Logger: quietLogger(),
	})

	if err := pipeline.Run(context.Background(), time.Now()); err == nil {
		t.Fatalf("expected fetch error to surface")
	}
}

func TestPipelineEmptyDigestStillDelivered(t *testing.T) {
	t.Parallel()

	records := []domain.Conference{{
		Name: "CCS", Year: 2024, Source: "ccfddl",
		Milestones: []domain.Milestone{{
			Type:     domain.PaperSubmission,
			Deadline: time.Date(2024, time.August, 30, 0, 0, 0, 0, time.UTC),
		}},
	}}

	notifier := &fakeNotifier{}
	pipeline := NewPipeline(PipelineDeps{
		Source:   &fakeSource{records: records},
		Filter:   fixtureTable(),
		Renderer: render.New(time.UTC, []string{"unit"}),
		Notifier: notifier,
		Dump:     &bytes.Buffer{},
		Logger:   quietLogger(),
	})

	now := time.Date(2025, time.August, 22, 9, 0, 0, 0, time.UTC)
	if err := pipeline.Run(context.Background(), now); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if notifier.calls != 1 {
		t.Fatalf("empty digests are still announced, got %d publishes", notifier.calls)
	}
	if notifier.got.Text == "" || len(notifier.got.Blocks) != 0 {
		t.Fatalf("expected text-only fallback, got %+v", notifier.got)
	}
}
