// Package rapidapi carries the shared HTTP plumbing for the RapidAPI-hosted
// providers: header auth, retries with backoff, circuit breaking and
// request coalescing. Provider packages layer their endpoint mapping on top.
package rapidapi

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/w2wlabs/what2watch/internal/platform/logging"
	"github.com/w2wlabs/what2watch/internal/platform/resilience"
	"github.com/w2wlabs/what2watch/internal/usecase"
)

const (
	hostHeader = "x-rapidapi-host"
	keyHeader  = "x-rapidapi-key"

	maxResponseBytes = 6 << 20
)

var errTransient = crerr.New("rapidapi transient failure")

// StatusError is a non-retryable upstream response outside the 2xx range.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider status=%d body=%s", e.Code, e.Body)
}

// HTTPStatus extracts the upstream status code from a transport error.
// It returns zero when the error did not carry one.
func HTTPStatus(err error) int {
	var statusErr *StatusError
	if stderrors.As(err, &statusErr) {
		return statusErr.Code
	}
	return 0
}

// IsTransient reports whether the error is worth counting against the
// circuit breaker.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errTransient)
}

type Config struct {
	HTTPClient *http.Client
	BaseURL    string
	Host       string
	APIKey     string
	// Headers is merged into every request, for provider quirks such as a
	// mandatory User-Agent.
	Headers        map[string]string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.BreakerConfig
}

type Transport struct {
	httpClient     *http.Client
	baseURL        string
	host           string
	apiKey         string
	extraHeaders   map[string]string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.Breaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewTransport(cfg Config) *Transport {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 15 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	host := strings.TrimSpace(cfg.Host)
	if host == "" && baseURL != "" {
		if parsed, err := url.Parse(baseURL); err == nil {
			host = parsed.Host
		}
	}

	breakerCfg := resilience.NormalizeBreakerConfig(cfg.CircuitBreaker)

	return &Transport{
		httpClient:     httpClient,
		baseURL:        baseURL,
		host:           host,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		extraHeaders:   cfg.Headers,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewBreaker(breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// GetJSON issues a GET against path, coalescing identical in-flight
// requests, and decodes the 2xx body into target. The raw body is
// returned for callers that need a second decode pass.
func (t *Transport) GetJSON(ctx context.Context, path string, query map[string]string, target any) ([]byte, error) {
	if t.circuitEnabled {
		if err := t.breaker.Allow(); err != nil {
			t.logger.WarnContext(ctx, "circuit breaker rejected request", "host", t.host, "state", t.breaker.State())
			return nil, fmt.Errorf("%w: %s is temporarily unavailable", usecase.ErrDependencyUnavailable, t.host)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := t.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	flightKey := path + "?" + values.Encode()
	out, err, _ := t.flight.Do(flightKey, func() (any, error) {
		raw, reqErr := t.executeRequest(ctx, fullURL)
		if t.circuitEnabled {
			if reqErr != nil && IsTransient(reqErr) {
				t.breaker.RecordFailure()
			} else {
				t.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}

	if target != nil {
		if err := sonic.Unmarshal(raw, target); err != nil {
			return nil, fmt.Errorf("decode provider payload: %w", err)
		}
	}

	return raw, nil
}

func (t *Transport) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= t.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		if t.host != "" {
			req.Header.Set(hostHeader, t.host)
		}
		if t.apiKey != "" {
			req.Header.Set(keyHeader, t.apiKey)
		}
		for key, value := range t.extraHeaders {
			req.Header.Set(key, value)
		}

		resp, err := t.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errTransient, t.sanitize(err.Error()))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				lastErr = &StatusError{Code: resp.StatusCode, Body: abbreviateBody(raw)}
				return nil, lastErr
			}
		}

		if attempt == t.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	t.logger.WarnContext(ctx, "provider request failed", "host", t.host, "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (t *Transport) sanitize(value string) string {
	value = strings.TrimSpace(value)
	if t.apiKey != "" {
		value = strings.ReplaceAll(value, t.apiKey, "REDACTED")
	}
	return value
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
