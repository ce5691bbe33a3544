package jobqueue

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Marvel4tech/greenbal/internal/platform/logging"
	"github.com/Marvel4tech/greenbal/internal/platform/resilience"
)

func newTestPublisher(t *testing.T, target string) *QStashPublisher {
	t.Helper()

	return NewQStashPublisher(QStashPublisherConfig{
		BaseURL:          target,
		Token:            "test-token",
		TargetBaseURL:    "https://api.greenbal.app",
		Retries:          2,
		InternalJobToken: "internal-secret",
		CircuitBreaker:   resilience.CircuitBreakerConfig{Enabled: false},
	}, logging.NewNop())
}

func TestQStashPublisher_PublishRescore(t *testing.T) {
	var (
		gotPath    string
		gotHeaders http.Header
		gotBody    string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotHeaders = r.Header.Clone()
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	p := newTestPublisher(t, server.URL)
	if err := p.PublishRescore(context.Background(), "match-123"); err != nil {
		t.Fatalf("publish rescore: %v", err)
	}

	if !strings.HasPrefix(gotPath, "/v2/publish/") {
		t.Fatalf("unexpected publish path: %s", gotPath)
	}
	if !strings.HasSuffix(gotPath, "/v1/internal/jobs/rescore") {
		t.Fatalf("target path missing from publish url: %s", gotPath)
	}
	if gotHeaders.Get("Authorization") != "Bearer test-token" {
		t.Fatalf("missing auth header")
	}
	if gotHeaders.Get("Upstash-Deduplication-Id") != "rescore:match-123" {
		t.Fatalf("unexpected dedup id: %q", gotHeaders.Get("Upstash-Deduplication-Id"))
	}
	if gotHeaders.Get("Upstash-Forward-X-Internal-Job-Token") != "internal-secret" {
		t.Fatalf("internal job token not forwarded")
	}
	if !strings.Contains(gotBody, `"match_id":"match-123"`) {
		t.Fatalf("unexpected body: %s", gotBody)
	}
}

func TestQStashPublisher_PublishRescore_Validation(t *testing.T) {
	p := newTestPublisher(t, "https://qstash.upstash.io")

	if err := p.PublishRescore(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty match id")
	}
}

func TestQStashPublisher_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	p := newTestPublisher(t, server.URL)
	if err := p.PublishRescore(context.Background(), "match-123"); err == nil {
		t.Fatalf("expected error for 502 response")
	}
}

func TestQStashPublisher_CircuitOpensOnTransientFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	p := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:       server.URL,
		Token:         "t",
		TargetBaseURL: "https://api.greenbal.app",
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
		},
	}, logging.NewNop())

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := p.PublishRescore(ctx, "match-123"); err == nil {
			t.Fatalf("expected transient failure")
		}
	}

	err := p.PublishRescore(ctx, "match-123")
	if err == nil || !strings.Contains(err.Error(), "temporarily unavailable") {
		t.Fatalf("expected circuit breaker rejection, got %v", err)
	}
}

func TestNormalizeDelay(t *testing.T) {
	if got := normalizeDelay(0); got != "0s" {
		t.Fatalf("zero delay: %s", got)
	}
	if got := normalizeDelay(90 * time.Second); got != "90s" {
		t.Fatalf("90s delay: %s", got)
	}
}
