package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/w2wlabs/what2watch/internal/config"
	"github.com/w2wlabs/what2watch/internal/platform/logging"
)

type shipSink struct {
	mu       sync.Mutex
	requests int
	lastAuth string
}

func (s *shipSink) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests++
		s.lastAuth = r.Header.Get("Authorization")
		s.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})
}

func (s *shipSink) snapshot() (int, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests, s.lastAuth
}

func shipperConfig(endpoint, token string) config.Config {
	return config.Config{
		BetterStackEnabled:  true,
		BetterStackEndpoint: endpoint,
		BetterStackToken:    token,
		BetterStackTimeout:  2 * time.Second,
		BetterStackMinLevel: logging.LevelError,
		ServiceName:         "what2watch-api",
		AppEnv:              config.EnvDev,
	}
}

func TestInitBetterStackLogger_SendsErrorLog(t *testing.T) {
	t.Parallel()

	sink := &shipSink{}
	server := httptest.NewServer(sink.handler())
	defer server.Close()

	logger, shutdown, err := InitBetterStackLogger(shipperConfig(server.URL, "secret-token"), logging.NewNop())
	if err != nil {
		t.Fatalf("init betterstack logger: %v", err)
	}

	logger.ErrorContext(context.Background(), "backend error", "component", "httpapi")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("shutdown logger: %v", err)
	}

	requests, auth := sink.snapshot()
	if requests == 0 {
		t.Fatalf("expected the endpoint to receive at least 1 request")
	}
	if auth != "Bearer secret-token" {
		t.Fatalf("unexpected authorization header: %q", auth)
	}
}

func TestInitBetterStackLogger_RespectsMinLevel(t *testing.T) {
	t.Parallel()

	sink := &shipSink{}
	server := httptest.NewServer(sink.handler())
	defer server.Close()

	logger, shutdown, err := InitBetterStackLogger(shipperConfig(server.URL, ""), logging.NewNop())
	if err != nil {
		t.Fatalf("init betterstack logger: %v", err)
	}

	logger.InfoContext(context.Background(), "info log should not be shipped")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("shutdown logger: %v", err)
	}

	if requests, _ := sink.snapshot(); requests != 0 {
		t.Fatalf("expected no request for info log, got %d", requests)
	}
}

func TestInitBetterStackLogger_RequiresEndpoint(t *testing.T) {
	t.Parallel()

	cfg := shipperConfig("   ", "token")
	if _, _, err := InitBetterStackLogger(cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected error for blank endpoint")
	}
}

func TestBetterStackURL(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"":                         "",
		"  ":                       "",
		"in.logs.betterstack.com":  "https://in.logs.betterstack.com",
		"http://localhost:9428":    "http://localhost:9428",
		"https://ingest.example":   "https://ingest.example",
		" ingest.example.com/v1 ":  "https://ingest.example.com/v1",
	}
	for in, want := range cases {
		if got := betterStackURL(in); got != want {
			t.Fatalf("betterStackURL(%q)=%q want=%q", in, got, want)
		}
	}
}
