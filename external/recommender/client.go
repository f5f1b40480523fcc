// Package recommender wraps the AI Movie Recommender service on
// RapidAPI. The service rejects requests without a browser-style
// User-Agent, so one is always sent.
package recommender

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/w2wlabs/what2watch/external/rapidapi"
	"github.com/w2wlabs/what2watch/internal/platform/logging"
	"github.com/w2wlabs/what2watch/internal/platform/resilience"
	"github.com/w2wlabs/what2watch/internal/usecase"
)

const (
	defaultBaseURL = "https://ai-movie-recommender.p.rapidapi.com"
	defaultHost    = "ai-movie-recommender.p.rapidapi.com"

	userAgent = "Mozilla/5.0"
)

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.BreakerConfig
}

type Client struct {
	transport *rapidapi.Transport
}

var _ usecase.RecommendProvider = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	host := defaultHost
	if baseURL == "" {
		baseURL = defaultBaseURL
	} else {
		host = ""
	}

	return &Client{
		transport: rapidapi.NewTransport(rapidapi.Config{
			HTTPClient:     cfg.HTTPClient,
			BaseURL:        baseURL,
			Host:           host,
			APIKey:         cfg.APIKey,
			Headers:        map[string]string{"User-Agent": userAgent},
			Timeout:        cfg.Timeout,
			MaxRetries:     cfg.MaxRetries,
			Logger:         cfg.Logger,
			CircuitBreaker: cfg.CircuitBreaker,
		}),
	}
}

// Search asks the recommender for titles matching a free-text query.
func (c *Client) Search(ctx context.Context, query string) ([]usecase.Recommendation, error) {
	raw, err := c.transport.GetJSON(ctx, "/api/search", map[string]string{"q": query}, nil)
	if err != nil {
		return nil, fmt.Errorf("search recommendations: %w", err)
	}

	items, err := decodeRecommendations(raw)
	if err != nil {
		return nil, fmt.Errorf("decode recommendations: %w", err)
	}

	out := make([]usecase.Recommendation, 0, len(items))
	for _, item := range items {
		out = append(out, usecase.Recommendation{
			Title:       item.Title,
			Year:        int(item.Year),
			Description: item.Description,
			IMDBID:      item.IMDBID,
			TMDBID:      item.TMDBID,
		})
	}
	return out, nil
}

// decodeRecommendations accepts both a bare array and a wrapped
// {"movies": [...]} payload.
func decodeRecommendations(raw []byte) ([]recommendationItem, error) {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var items []recommendationItem
		if err := sonic.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	var wrapped struct {
		Movies []recommendationItem `json:"movies"`
	}
	if err := sonic.Unmarshal(raw, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Movies, nil
}

type recommendationItem struct {
	Title       string   `json:"title"`
	Year        flexYear `json:"year"`
	Description string   `json:"description"`
	IMDBID      string   `json:"imdb_id"`
	TMDBID      string   `json:"tmdb_id"`
}

// flexYear accepts both numeric and quoted years.
type flexYear int

func (f *flexYear) UnmarshalJSON(data []byte) error {
	text := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if text == "" || text == "null" {
		*f = 0
		return nil
	}
	parsed, err := strconv.Atoi(text)
	if err != nil {
		// Some payloads carry a date string; keep the leading year when
		// one is present.
		if len(text) >= 4 {
			if head, headErr := strconv.Atoi(text[:4]); headErr == nil {
				*f = flexYear(head)
				return nil
			}
		}
		*f = 0
		return nil
	}
	*f = flexYear(parsed)
	return nil
}
