// Package streamcatalog talks to the Streaming Availability API on
// RapidAPI. It serves show lookups, title and filter searches, and the
// country/service/genre reference lists.
package streamcatalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/w2wlabs/what2watch/external/rapidapi"
	"github.com/w2wlabs/what2watch/internal/platform/logging"
	"github.com/w2wlabs/what2watch/internal/platform/resilience"
	"github.com/w2wlabs/what2watch/internal/usecase"
)

const (
	defaultBaseURL = "https://streaming-availability.p.rapidapi.com"
	defaultHost    = "streaming-availability.p.rapidapi.com"

	outputLanguage    = "en"
	seriesGranularity = "show"
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

var _ usecase.CatalogProvider = (*Client)(nil)

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

// Show looks up one title by its catalog or IMDB id. A missing title is
// reported through the bool, not as an error.
func (c *Client) Show(ctx context.Context, showID, country string) (usecase.CatalogShow, bool, error) {
	query := map[string]string{
		"country":            country,
		"series_granularity": seriesGranularity,
		"output_language":    outputLanguage,
	}

	var item showItem
	_, err := c.transport.GetJSON(ctx, "/shows/"+url.PathEscape(showID), query, &item)
	if err != nil {
		if rapidapi.HTTPStatus(err) == http.StatusNotFound {
			return usecase.CatalogShow{}, false, nil
		}
		return usecase.CatalogShow{}, false, fmt.Errorf("fetch show id=%s: %w", showID, err)
	}
	return mapShow(item, country), true, nil
}

func (c *Client) SearchByTitle(ctx context.Context, title, country, showType string) ([]usecase.CatalogShow, error) {
	query := map[string]string{
		"title":              title,
		"country":            country,
		"series_granularity": seriesGranularity,
		"output_language":    outputLanguage,
	}
	if showType != "" {
		query["show_type"] = showType
	}

	var items []showItem
	if _, err := c.transport.GetJSON(ctx, "/shows/search/title", query, &items); err != nil {
		return nil, fmt.Errorf("search shows by title: %w", err)
	}

	shows := make([]usecase.CatalogShow, 0, len(items))
	for _, item := range items {
		shows = append(shows, mapShow(item, country))
	}
	return shows, nil
}

func (c *Client) SearchByFilters(ctx context.Context, q usecase.CatalogSearch) (usecase.CatalogPage, error) {
	query := map[string]string{
		"country":         q.Country,
		"order_by":        q.OrderBy,
		"order_direction": q.OrderDirection,
		"output_language": outputLanguage,
	}
	if len(q.Catalogs) > 0 {
		query["catalogs"] = strings.Join(q.Catalogs, ",")
	}
	if q.ShowType != "" {
		query["show_type"] = q.ShowType
	}
	if len(q.Genres) > 0 {
		query["genres"] = strings.Join(q.Genres, ",")
	}
	if q.YearMin > 0 {
		query["year_min"] = strconv.Itoa(q.YearMin)
	}
	if q.YearMax > 0 {
		query["year_max"] = strconv.Itoa(q.YearMax)
	}
	if q.RatingMin > 0 {
		query["rating_min"] = strconv.Itoa(q.RatingMin)
	}
	if q.RatingMax > 0 {
		query["rating_max"] = strconv.Itoa(q.RatingMax)
	}
	if q.Keyword != "" {
		query["keyword"] = q.Keyword
	}
	if q.Cursor != "" {
		query["cursor"] = q.Cursor
	}

	var page filterPage
	if _, err := c.transport.GetJSON(ctx, "/shows/search/filters", query, &page); err != nil {
		return usecase.CatalogPage{}, fmt.Errorf("search shows by filters: %w", err)
	}

	shows := make([]usecase.CatalogShow, 0, len(page.Shows))
	for _, item := range page.Shows {
		shows = append(shows, mapShow(item, q.Country))
	}
	return usecase.CatalogPage{
		Shows:      shows,
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	}, nil
}

// Changes lists titles recently added to, updated on or leaving the
// streaming services of a country. The upstream sends the change events
// and the affected shows in separate maps keyed by show id.
func (c *Client) Changes(ctx context.Context, country, changeType, itemType string) ([]usecase.CatalogChange, error) {
	query := map[string]string{
		"country":         country,
		"change_type":     changeType,
		"item_type":       itemType,
		"output_language": outputLanguage,
	}

	var page changesPage
	if _, err := c.transport.GetJSON(ctx, "/changes", query, &page); err != nil {
		return nil, fmt.Errorf("fetch changes: %w", err)
	}

	changes := make([]usecase.CatalogChange, 0, len(page.Changes))
	for _, change := range page.Changes {
		mapped := usecase.CatalogChange{
			ChangeType: change.ChangeType,
			Service:    change.Service.ID,
			Timestamp:  change.Timestamp,
		}
		if item, ok := page.Shows[change.ShowID]; ok {
			mapped.Show = mapShow(item, country)
		}
		changes = append(changes, mapped)
	}
	return changes, nil
}

// Countries returns the supported country codes, sorted.
func (c *Client) Countries(ctx context.Context) ([]string, error) {
	var byCode map[string]struct {
		CountryCode string `json:"countryCode"`
		Name        string `json:"name"`
	}
	if _, err := c.transport.GetJSON(ctx, "/countries", nil, &byCode); err != nil {
		return nil, fmt.Errorf("fetch countries: %w", err)
	}

	codes := make([]string, 0, len(byCode))
	for code := range byCode {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes, nil
}

// Services returns the streaming service identifiers available in a
// country, sorted.
func (c *Client) Services(ctx context.Context, country string) ([]string, error) {
	var items []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if _, err := c.transport.GetJSON(ctx, "/services", map[string]string{"country": country}, &items); err != nil {
		return nil, fmt.Errorf("fetch services: %w", err)
	}

	services := make([]string, 0, len(items))
	for _, item := range items {
		if item.ID != "" {
			services = append(services, item.ID)
		}
	}
	sort.Strings(services)
	return services, nil
}

func (c *Client) Genres(ctx context.Context) ([]string, error) {
	var items []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if _, err := c.transport.GetJSON(ctx, "/genres", nil, &items); err != nil {
		return nil, fmt.Errorf("fetch genres: %w", err)
	}

	genres := make([]string, 0, len(items))
	for _, item := range items {
		if item.Name != "" {
			genres = append(genres, item.Name)
		}
	}
	return genres, nil
}

type showItem struct {
	ID           string `json:"id"`
	IMDBID       string `json:"imdbId"`
	TMDBID       string `json:"tmdbId"`
	Title        string `json:"title"`
	ShowType     string `json:"showType"`
	Overview     string `json:"overview"`
	ReleaseYear  int    `json:"releaseYear"`
	FirstAirYear int    `json:"firstAirYear"`
	Rating       int    `json:"rating"`
	Genres       []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"genres"`
	ImageSet struct {
		VerticalPoster struct {
			W360 string `json:"w360"`
			W240 string `json:"w240"`
		} `json:"verticalPoster"`
	} `json:"imageSet"`
	StreamingOptions map[string][]streamingOption `json:"streamingOptions"`
}

type streamingOption struct {
	Service struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"service"`
	Type    string `json:"type"`
	Quality string `json:"quality"`
	Link    string `json:"link"`
}

type filterPage struct {
	Shows      []showItem `json:"shows"`
	HasMore    bool       `json:"hasMore"`
	NextCursor string     `json:"nextCursor"`
}

type changesPage struct {
	Changes []struct {
		ChangeType string `json:"changeType"`
		ShowID     string `json:"showId"`
		Timestamp  int64  `json:"timestamp"`
		Service    struct {
			ID string `json:"id"`
		} `json:"service"`
	} `json:"changes"`
	Shows map[string]showItem `json:"shows"`
}

func mapShow(item showItem, country string) usecase.CatalogShow {
	genres := make([]string, 0, len(item.Genres))
	for _, genre := range item.Genres {
		if genre.Name != "" {
			genres = append(genres, genre.Name)
		}
	}

	imageURL := item.ImageSet.VerticalPoster.W360
	if imageURL == "" {
		imageURL = item.ImageSet.VerticalPoster.W240
	}

	options := item.StreamingOptions[strings.ToLower(country)]
	offers := make([]usecase.CatalogOffer, 0, len(options))
	for _, option := range options {
		name := option.Service.Name
		if name == "" {
			name = option.Service.ID
		}
		offers = append(offers, usecase.CatalogOffer{
			Service:    name,
			AccessType: option.Type,
			Quality:    option.Quality,
			Link:       option.Link,
		})
	}

	return usecase.CatalogShow{
		ID:           item.ID,
		IMDBID:       item.IMDBID,
		TMDBID:       item.TMDBID,
		Title:        item.Title,
		ShowType:     item.ShowType,
		Overview:     item.Overview,
		ReleaseYear:  item.ReleaseYear,
		FirstAirYear: item.FirstAirYear,
		Rating:       item.Rating,
		Genres:       genres,
		ImageURL:     imageURL,
		StreamingOn:  offers,
	}
}
