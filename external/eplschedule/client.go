// Package eplschedule reads the month-keyed Premier League schedule feed
// on RapidAPI. The feed is forward-looking only; finished matches are
// filtered out by the consuming service.
package eplschedule

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
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
	defaultBaseURL = "https://english-premiere-league1.p.rapidapi.com"
	defaultHost    = "english-premiere-league1.p.rapidapi.com"
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

var _ usecase.ScheduleProvider = (*Client)(nil)

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
			Timeout:        cfg.Timeout,
			MaxRetries:     cfg.MaxRetries,
			Logger:         cfg.Logger,
			CircuitBreaker: cfg.CircuitBreaker,
		}),
	}
}

// MonthSchedule fetches every match scheduled in the given month, in
// date-key order.
func (c *Client) MonthSchedule(ctx context.Context, year int, month int) ([]usecase.ScheduleMatch, error) {
	query := map[string]string{
		"year":  strconv.Itoa(year),
		"month": strconv.Itoa(month),
	}

	raw, err := c.transport.GetJSON(ctx, "/schedule", query, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch schedule %d-%02d: %w", year, month, err)
	}

	days, err := decodeScheduleDays(raw)
	if err != nil {
		return nil, fmt.Errorf("decode schedule %d-%02d: %w", year, month, err)
	}

	dateKeys := make([]string, 0, len(days))
	for key := range days {
		dateKeys = append(dateKeys, key)
	}
	sort.Strings(dateKeys)

	matches := make([]usecase.ScheduleMatch, 0, len(days)*2)
	for _, key := range dateKeys {
		for _, item := range days[key] {
			matches = append(matches, mapScheduleItem(item))
		}
	}
	return matches, nil
}

// decodeScheduleDays handles both response shapes the feed has been seen
// to emit: matches nested under a "schedule" key, and matches keyed by
// date at the top level. Non-list day values are skipped.
func decodeScheduleDays(raw []byte) (map[string][]scheduleItem, error) {
	var top map[string]json.RawMessage
	if err := sonic.Unmarshal(raw, &top); err != nil {
		return nil, err
	}

	source := top
	if nested, ok := top["schedule"]; ok {
		inner := map[string]json.RawMessage{}
		if err := sonic.Unmarshal(nested, &inner); err == nil {
			source = inner
		}
	}

	days := make(map[string][]scheduleItem, len(source))
	for key, value := range source {
		var items []scheduleItem
		if err := sonic.Unmarshal(value, &items); err != nil {
			continue
		}
		days[key] = items
	}
	return days, nil
}

func mapScheduleItem(item scheduleItem) usecase.ScheduleMatch {
	teams := make([]usecase.ScheduleTeam, 0, len(item.Teams))
	for _, team := range item.Teams {
		teams = append(teams, usecase.ScheduleTeam{
			ID:     int(team.ID),
			Name:   team.DisplayName,
			Short:  team.ShortName,
			Logo:   team.Logo,
			IsHome: team.IsHome,
		})
	}

	return usecase.ScheduleMatch{
		ID:          int(item.ID),
		KickoffUTC:  item.Date,
		StatusState: item.Status.State,
		StatusText:  item.Status.Detail,
		Teams:       teams,
		Venue: usecase.ScheduleVenue{
			Name: item.Venue.FullName,
			City: item.Venue.Address.City,
		},
	}
}

type scheduleItem struct {
	ID     flexInt `json:"id"`
	Date   string  `json:"date"`
	Status struct {
		State  string `json:"state"`
		Detail string `json:"detail"`
	} `json:"status"`
	Teams []struct {
		ID          flexInt `json:"id"`
		DisplayName string  `json:"displayName"`
		ShortName   string  `json:"shortName"`
		Logo        string  `json:"logo"`
		IsHome      bool    `json:"isHome"`
	} `json:"teams"`
	Venue struct {
		FullName string `json:"fullName"`
		Address  struct {
			City string `json:"city"`
		} `json:"address"`
	} `json:"venue"`
}

// flexInt accepts both numeric and quoted identifiers; the feed is not
// consistent about which it sends.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	if text == "" || text == "null" {
		*f = 0
		return nil
	}
	text = strings.Trim(text, `"`)
	if text == "" {
		*f = 0
		return nil
	}
	parsed, err := strconv.Atoi(text)
	if err != nil {
		return fmt.Errorf("parse identifier %q: %w", text, err)
	}
	*f = flexInt(parsed)
	return nil
}
