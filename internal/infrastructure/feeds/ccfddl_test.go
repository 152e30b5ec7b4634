package feeds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ConfAlert/internal/domain"
	"ConfAlert/internal/source"
)

const ccfddlFixture = `
- title: CCS
  description: ACM Conference on Computer and Communications Security
  rank:
    ccf: A
  confs:
    - year: 2025
      link: https://www.sigsac.org/ccs/CCS2025/
      timezone: UTC-12
      date: October 13-17, 2025
      place: Taipei, Taiwan
      timeline:
        - abstract_deadline: '2025-04-07 23:59:59'
          deadline: '2025-04-14 23:59:59'
          comment: second round
    - year: 2026
      link: https://www.sigsac.org/ccs/CCS2026/
      place: TBD
      timeline:
        - deadline: TBD
- title: NDSS
  description: Network and Distributed System Security Symposium
  rank:
    ccf: A
  confs:
    - year: 2026
      place: San Diego, USA
      timeline:
        - deadline: '2025-08-06 23:59:59'
          comment: summer cycle
`

func TestCCFDDLFetch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(ccfddlFixture))
	}))
	defer server.Close()

	fetcher := NewCCFDDL(server.Client(), "Mozilla/5.0")
	records, err := fetcher.Fetch(context.Background(), source.Request{
		SourceName: "ccfddl",
		URL:        server.URL,
	})
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected 3 records (one per cycle), got %d", len(records))
	}

	ccs25 := records[0]
	if ccs25.Name != "CCS" || ccs25.Year != 2025 {
		t.Fatalf("unexpected first record: %+v", ccs25)
	}
	if ccs25.FullName != "ACM Conference on Computer and Communications Security" {
		t.Fatalf("unexpected full name: %s", ccs25.FullName)
	}
	if ccs25.Rank != "A" {
		t.Fatalf("unexpected rank: %s", ccs25.Rank)
	}
	if ccs25.EventDate != "October 13-17, 2025" {
		t.Fatalf("unexpected event date: %s", ccs25.EventDate)
	}
	if ccs25.Source != "ccfddl" {
		t.Fatalf("unexpected source: %s", ccs25.Source)
	}
	if len(ccs25.Milestones) != 2 {
		t.Fatalf("expected abstract + paper milestones, got %d", len(ccs25.Milestones))
	}
	if ccs25.Milestones[0].Type != domain.AbstractRegistration {
		t.Fatalf("expected abstract milestone first, got %s", ccs25.Milestones[0].Type)
	}
	wantAbstract := time.Date(2025, time.April, 7, 23, 59, 59, 0, time.UTC)
	if !ccs25.Milestones[0].Deadline.Equal(wantAbstract) {
		t.Fatalf("unexpected abstract deadline: %v", ccs25.Milestones[0].Deadline)
	}
	if ccs25.Milestones[1].Comment != "second round" {
		t.Fatalf("unexpected comment: %s", ccs25.Milestones[1].Comment)
	}

	// The 2026 cycle announces no dates yet; the record survives with no
	// milestones and is dropped later by aggregation.
	ccs26 := records[1]
	if ccs26.Year != 2026 || len(ccs26.Milestones) != 0 {
		t.Fatalf("unexpected second record: %+v", ccs26)
	}

	ndss := records[2]
	if ndss.Name != "NDSS" || len(ndss.Milestones) != 1 {
		t.Fatalf("unexpected third record: %+v", ndss)
	}
}

func TestCCFDDLFetchNon200(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	fetcher := NewCCFDDL(server.Client(), "")
	_, err := fetcher.Fetch(context.Background(), source.Request{URL: server.URL})
	if err == nil {
		t.Fatalf("expected error on 503 response")
	}
}

func TestCCFDDLFetchMalformedDocument(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("title: [unbalanced"))
	}))
	defer server.Close()

	fetcher := NewCCFDDL(server.Client(), "")
	_, err := fetcher.Fetch(context.Background(), source.Request{URL: server.URL})
	if err == nil || !strings.Contains(err.Error(), "decode") {
		t.Fatalf("expected decode error, got %v", err)
	}
}
