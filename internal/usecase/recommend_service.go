package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/w2wlabs/what2watch/internal/platform/cache"
	"github.com/w2wlabs/what2watch/internal/platform/logging"
)

const recommendationCacheTTL = 6 * time.Hour

type RecommendServiceConfig struct {
	Provider RecommendProvider
	Cache    *cache.Loader
	Logger   *logging.Logger
}

// RecommendService turns free-text queries into movie suggestions.
type RecommendService struct {
	provider RecommendProvider
	cache    *cache.Loader
	logger   *logging.Logger
}

func NewRecommendService(cfg RecommendServiceConfig) *RecommendService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	return &RecommendService{
		provider: cfg.Provider,
		cache:    cfg.Cache,
		logger:   logger,
	}
}

// Search returns recommendations for a free-text query such as
// "90s action movies".
func (s *RecommendService) Search(ctx context.Context, query string) ([]Recommendation, error) {
	ctx, span := startUsecaseSpan(ctx, "RecommendService.Search")
	defer span.End()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", ErrInvalidInput)
	}

	key := "movie_rec_" + strings.ReplaceAll(strings.ToLower(query), " ", "_")
	return cache.LoadJSON(ctx, s.cache, key, recommendationCacheTTL, func(ctx context.Context) ([]Recommendation, error) {
		items, err := s.provider.Search(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("search recommendations: %w", err)
		}
		return items, nil
	})
}

// ByMood suggests movies for a mood, optionally narrowed to a decade such
// as "90s".
func (s *RecommendService) ByMood(ctx context.Context, mood, decade string) ([]Recommendation, error) {
	mood = strings.TrimSpace(mood)
	if mood == "" {
		return nil, fmt.Errorf("%w: mood is required", ErrInvalidInput)
	}

	query := mood + " movies"
	if decade = strings.TrimSpace(decade); decade != "" {
		query = decade + " " + query
	}
	return s.Search(ctx, query)
}

// ByGenre suggests movies for a genre, optionally narrowed to a year.
func (s *RecommendService) ByGenre(ctx context.Context, genre string, year int) ([]Recommendation, error) {
	genre = strings.TrimSpace(genre)
	if genre == "" {
		return nil, fmt.Errorf("%w: genre is required", ErrInvalidInput)
	}

	query := genre + " movies"
	if year > 0 {
		query = fmt.Sprintf("%d %s", year, query)
	}
	return s.Search(ctx, query)
}
