package apifootball

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/sports-data-service/internal/platform/resilience"
	"github.com/riskibarqy/sports-data-service/internal/usecase"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, mutate func(*ClientConfig)) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		APIKey:     "secret-key",
		MaxRetries: 2,
		RetryStep:  time.Millisecond,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return NewClient(cfg)
}

func TestClient_FetchFixturesSendsAuthAndQuery(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fixtures" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("x-rapidapi-key"); got != "secret-key" {
			t.Errorf("unexpected api key header %q", got)
		}
		if got := r.Header.Get("x-rapidapi-host"); got != defaultHost {
			t.Errorf("unexpected host header %q", got)
		}
		q := r.URL.Query()
		if q.Get("league") != "39" || q.Get("season") != "2024" || q.Get("date") != "2024-08-16" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"get":"fixtures","errors":[],"results":2,"paging":{"current":1,"total":1},"response":[{"fixture":{"id":1}},{"fixture":{"id":2}}]}`))
	}, nil)

	records, err := client.FetchFixtures(context.Background(), 39, 2024, "2024-08-16")
	if err != nil {
		t.Fatalf("fetch fixtures: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if !strings.Contains(string(records[1]), `"id":2`) {
		t.Fatalf("unexpected second record: %s", records[1])
	}
}

func TestClient_FetchLiveFixturesUsesLiveAll(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("live") != "all" {
			t.Errorf("expected live=all, got %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"get":"fixtures","errors":[],"results":0,"response":[]}`))
	}, nil)

	records, err := client.FetchLiveFixtures(context.Background())
	if err != nil {
		t.Fatalf("fetch live fixtures: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected zero records, got %d", len(records))
	}
}

func TestClient_NullResponseIsEmpty(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"get":"leagues","errors":{},"results":0,"response":null}`))
	}, nil)

	records, err := client.FetchLeagues(context.Background())
	if err != nil {
		t.Fatalf("fetch leagues: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected zero records, got %d", len(records))
	}
}

func TestClient_ErrorsEnvelopeFailsFetch(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"get":"leagues","errors":{"requests":"You have reached the request limit for the day"},"results":0,"response":[]}`))
	}, nil)

	_, err := client.FetchLeagues(context.Background())
	if err == nil || !strings.Contains(err.Error(), "request limit") {
		t.Fatalf("expected envelope error, got %v", err)
	}
}

func TestClient_RetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"errors":[],"response":[{"league":{"id":39}}]}`))
	}, nil)

	records, err := client.FetchLeagues(context.Background())
	if err != nil {
		t.Fatalf("fetch leagues: %v", err)
	}
	if len(records) != 1 || calls.Load() != 3 {
		t.Fatalf("unexpected result: records=%d calls=%d", len(records), calls.Load())
	}
}

func TestClient_DoesNotRetryClientErrorsAndRedactsKey(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"invalid key secret-key"}`))
	}, nil)

	_, err := client.FetchLeagues(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single attempt, got %d", calls.Load())
	}
	if strings.Contains(err.Error(), "secret-key") {
		t.Fatalf("api key leaked in error: %v", err)
	}
}

func TestClient_CircuitBreakerOpensAfterTransientFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}, func(cfg *ClientConfig) {
		cfg.MaxRetries = 0
		cfg.CircuitBreaker = resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		}
	})

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := client.FetchLeagues(ctx); err == nil {
			t.Fatalf("attempt %d: expected failure", i)
		}
	}

	_, err := client.FetchLeagues(ctx)
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected open breaker, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("open breaker must not reach the server, calls=%d", calls.Load())
	}
}

func TestEnvelopeErr(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw     string
		wantErr bool
	}{
		{raw: ``, wantErr: false},
		{raw: `[]`, wantErr: false},
		{raw: `{}`, wantErr: false},
		{raw: `null`, wantErr: false},
		{raw: `{"token":"Error/Missing application key."}`, wantErr: true},
		{raw: `["bad season"]`, wantErr: true},
	}
	for _, tc := range cases {
		err := envelope{Errors: []byte(tc.raw)}.err()
		if (err != nil) != tc.wantErr {
			t.Fatalf("errors=%q: got err=%v wantErr=%v", tc.raw, err, tc.wantErr)
		}
	}
}
