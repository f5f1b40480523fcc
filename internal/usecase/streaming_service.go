package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/w2wlabs/what2watch/internal/platform/cache"
	"github.com/w2wlabs/what2watch/internal/platform/logging"
)

const (
	showCacheTTL         = 24 * time.Hour
	filterSearchCacheTTL = 30 * time.Minute
	changesCacheTTL      = 6 * time.Hour
	catalogMetaCacheTTL  = 7 * 24 * time.Hour

	defaultCountry = "us"
)

// trendingOrderBy maps a time period to the catalog's popularity sort key.
var trendingOrderBy = map[string]string{
	"1day":    "popularity_1day",
	"1week":   "popularity_1week",
	"1month":  "popularity_1month",
	"1year":   "popularity_1year",
	"alltime": "popularity_alltime",
}

type StreamingServiceConfig struct {
	Provider CatalogProvider
	Cache    *cache.Loader
	Logger   *logging.Logger
}

// StreamingService answers where shows and movies can be streamed.
type StreamingService struct {
	provider CatalogProvider
	cache    *cache.Loader
	logger   *logging.Logger
}

func NewStreamingService(cfg StreamingServiceConfig) *StreamingService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	return &StreamingService{
		provider: cfg.Provider,
		cache:    cfg.Cache,
		logger:   logger,
	}
}

// Show looks up a single title by catalog or IMDB id.
func (s *StreamingService) Show(ctx context.Context, showID, country string) (CatalogShow, error) {
	ctx, span := startUsecaseSpan(ctx, "StreamingService.Show")
	defer span.End()

	showID = strings.TrimSpace(showID)
	if showID == "" {
		return CatalogShow{}, fmt.Errorf("%w: show id is required", ErrInvalidInput)
	}
	country = normalizeCountry(country)

	key := fmt.Sprintf("show_detail_%s_%s", showID, country)
	return cache.LoadJSON(ctx, s.cache, key, showCacheTTL, func(ctx context.Context) (CatalogShow, error) {
		show, found, err := s.provider.Show(ctx, showID, country)
		if err != nil {
			return CatalogShow{}, fmt.Errorf("fetch show: %w", err)
		}
		if !found {
			return CatalogShow{}, fmt.Errorf("%w: show=%s", ErrNotFound, showID)
		}
		return show, nil
	})
}

// SearchByTitle searches the catalog by title text.
func (s *StreamingService) SearchByTitle(ctx context.Context, title, country, showType string) ([]CatalogShow, error) {
	ctx, span := startUsecaseSpan(ctx, "StreamingService.SearchByTitle")
	defer span.End()

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if err := validateShowType(showType); err != nil {
		return nil, err
	}

	shows, err := s.provider.SearchByTitle(ctx, title, normalizeCountry(country), showType)
	if err != nil {
		return nil, fmt.Errorf("search shows: %w", err)
	}
	return shows, nil
}

// SearchByFilters runs a filtered catalog search. Results are cached
// briefly because popularity ordering shifts through the day.
func (s *StreamingService) SearchByFilters(ctx context.Context, q CatalogSearch) (CatalogPage, error) {
	ctx, span := startUsecaseSpan(ctx, "StreamingService.SearchByFilters")
	defer span.End()

	if err := validateShowType(q.ShowType); err != nil {
		return CatalogPage{}, err
	}
	q.Country = normalizeCountry(q.Country)
	if q.OrderBy == "" {
		q.OrderBy = "popularity_1year"
	}
	if q.OrderDirection == "" {
		q.OrderDirection = "desc"
	}

	key := filterSearchCacheKey(q)
	return cache.LoadJSON(ctx, s.cache, key, filterSearchCacheTTL, func(ctx context.Context) (CatalogPage, error) {
		page, err := s.provider.SearchByFilters(ctx, q)
		if err != nil {
			return CatalogPage{}, fmt.Errorf("search by filters: %w", err)
		}
		return page, nil
	})
}

// Trending lists the most popular titles for a time period.
func (s *StreamingService) Trending(ctx context.Context, country, showType, timePeriod string, catalogs []string) (CatalogPage, error) {
	orderBy, ok := trendingOrderBy[timePeriod]
	if !ok {
		orderBy = trendingOrderBy["1week"]
	}

	return s.SearchByFilters(ctx, CatalogSearch{
		Country:        country,
		ShowType:       showType,
		Catalogs:       catalogs,
		OrderBy:        orderBy,
		OrderDirection: "desc",
	})
}

// Changes lists titles recently added to, updated on or leaving a
// country's streaming services.
func (s *StreamingService) Changes(ctx context.Context, country, changeType, itemType string) ([]CatalogChange, error) {
	ctx, span := startUsecaseSpan(ctx, "StreamingService.Changes")
	defer span.End()

	switch changeType {
	case "":
		changeType = "new"
	case "new", "removed", "updated", "expiring", "upcoming":
	default:
		return nil, fmt.Errorf("%w: unknown change type %q", ErrInvalidInput, changeType)
	}
	if itemType == "" {
		itemType = "show"
	}
	country = normalizeCountry(country)

	key := fmt.Sprintf("streaming_changes_%s_%s_%s", country, changeType, itemType)
	return cache.LoadJSON(ctx, s.cache, key, changesCacheTTL, func(ctx context.Context) ([]CatalogChange, error) {
		changes, err := s.provider.Changes(ctx, country, changeType, itemType)
		if err != nil {
			return nil, fmt.Errorf("fetch changes: %w", err)
		}
		return changes, nil
	})
}

// Countries lists the country codes the catalog covers.
func (s *StreamingService) Countries(ctx context.Context) ([]string, error) {
	ctx, span := startUsecaseSpan(ctx, "StreamingService.Countries")
	defer span.End()

	return cache.LoadJSON(ctx, s.cache, "streaming_countries", catalogMetaCacheTTL, func(ctx context.Context) ([]string, error) {
		countries, err := s.provider.Countries(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch countries: %w", err)
		}
		return countries, nil
	})
}

// Services lists the streaming services available in a country.
func (s *StreamingService) Services(ctx context.Context, country string) ([]string, error) {
	ctx, span := startUsecaseSpan(ctx, "StreamingService.Services")
	defer span.End()

	country = normalizeCountry(country)
	key := "streaming_services_" + country
	return cache.LoadJSON(ctx, s.cache, key, catalogMetaCacheTTL, func(ctx context.Context) ([]string, error) {
		services, err := s.provider.Services(ctx, country)
		if err != nil {
			return nil, fmt.Errorf("fetch services: %w", err)
		}
		return services, nil
	})
}

// Genres lists the catalog's genre vocabulary.
func (s *StreamingService) Genres(ctx context.Context) ([]string, error) {
	ctx, span := startUsecaseSpan(ctx, "StreamingService.Genres")
	defer span.End()

	return cache.LoadJSON(ctx, s.cache, "streaming_genres", catalogMetaCacheTTL, func(ctx context.Context) ([]string, error) {
		genres, err := s.provider.Genres(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch genres: %w", err)
		}
		return genres, nil
	})
}

func validateShowType(showType string) error {
	switch showType {
	case "", "movie", "series":
		return nil
	default:
		return fmt.Errorf("%w: show type must be movie or series", ErrInvalidInput)
	}
}

func normalizeCountry(country string) string {
	country = strings.ToLower(strings.TrimSpace(country))
	if country == "" {
		return defaultCountry
	}
	return country
}

func filterSearchCacheKey(q CatalogSearch) string {
	parts := []string{
		"search_filters",
		q.Country,
		q.ShowType,
		strings.Join(q.Catalogs, ","),
		strings.Join(q.Genres, ","),
		q.Keyword,
		q.OrderBy,
		q.OrderDirection,
		fmt.Sprintf("%d-%d", q.YearMin, q.YearMax),
		fmt.Sprintf("%d-%d", q.RatingMin, q.RatingMax),
		q.Cursor,
	}
	return strings.Join(parts, "_")
}
