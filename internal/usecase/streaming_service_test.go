package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/w2wlabs/what2watch/internal/platform/cache"
	"github.com/w2wlabs/what2watch/internal/platform/logging"
)

type fakeCatalogProvider struct {
	showCalls    atomic.Int32
	filterCalls  atomic.Int32
	changesCalls atomic.Int32
	show         func(showID, country string) (CatalogShow, bool, error)
	byFilters    func(q CatalogSearch) (CatalogPage, error)
	changes      func(country, changeType, itemType string) ([]CatalogChange, error)
}

func (f *fakeCatalogProvider) Show(_ context.Context, showID, country string) (CatalogShow, bool, error) {
	f.showCalls.Add(1)
	if f.show == nil {
		return CatalogShow{}, false, nil
	}
	return f.show(showID, country)
}

func (f *fakeCatalogProvider) SearchByTitle(_ context.Context, title, country, showType string) ([]CatalogShow, error) {
	return []CatalogShow{{Title: title, ShowType: showType}}, nil
}

func (f *fakeCatalogProvider) SearchByFilters(_ context.Context, q CatalogSearch) (CatalogPage, error) {
	f.filterCalls.Add(1)
	if f.byFilters == nil {
		return CatalogPage{}, nil
	}
	return f.byFilters(q)
}

func (f *fakeCatalogProvider) Countries(context.Context) ([]string, error) {
	return []string{"us", "se"}, nil
}

func (f *fakeCatalogProvider) Services(_ context.Context, country string) ([]string, error) {
	return []string{"netflix", "prime"}, nil
}

func (f *fakeCatalogProvider) Genres(context.Context) ([]string, error) {
	return []string{"action", "drama"}, nil
}

func (f *fakeCatalogProvider) Changes(_ context.Context, country, changeType, itemType string) ([]CatalogChange, error) {
	f.changesCalls.Add(1)
	if f.changes == nil {
		return nil, nil
	}
	return f.changes(country, changeType, itemType)
}

func newTestStreamingService(provider CatalogProvider) *StreamingService {
	return NewStreamingService(StreamingServiceConfig{
		Provider: provider,
		Cache:    cache.NewLoader(cache.NewMemoryStore()),
		Logger:   logging.NewNop(),
	})
}

func TestShow_ValidatesAndCaches(t *testing.T) {
	t.Parallel()

	provider := &fakeCatalogProvider{
		show: func(showID, country string) (CatalogShow, bool, error) {
			if country != "us" {
				t.Errorf("country not defaulted: %q", country)
			}
			return CatalogShow{ID: showID, Title: "The Shawshank Redemption"}, true, nil
		},
	}
	svc := newTestStreamingService(provider)

	if _, err := svc.Show(context.Background(), "", "us"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	first, err := svc.Show(context.Background(), "tt0111161", "")
	if err != nil {
		t.Fatalf("Show: %v", err)
	}
	if first.Title != "The Shawshank Redemption" {
		t.Fatalf("unexpected show %+v", first)
	}

	if _, err := svc.Show(context.Background(), "tt0111161", ""); err != nil {
		t.Fatalf("cached Show: %v", err)
	}
	if got := provider.showCalls.Load(); got != 1 {
		t.Fatalf("provider called %d times, want 1", got)
	}
}

func TestShow_NotFound(t *testing.T) {
	t.Parallel()

	svc := newTestStreamingService(&fakeCatalogProvider{})

	_, err := svc.Show(context.Background(), "tt9999999", "us")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSearchByTitle_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestStreamingService(&fakeCatalogProvider{})

	if _, err := svc.SearchByTitle(context.Background(), "  ", "us", "movie"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty title, got %v", err)
	}
	if _, err := svc.SearchByTitle(context.Background(), "Dark", "us", "documentary"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad type, got %v", err)
	}

	shows, err := svc.SearchByTitle(context.Background(), "Dark", "de", "series")
	if err != nil {
		t.Fatalf("SearchByTitle: %v", err)
	}
	if len(shows) != 1 || shows[0].Title != "Dark" {
		t.Fatalf("unexpected shows %+v", shows)
	}
}

func TestSearchByFilters_DefaultsAndCaches(t *testing.T) {
	t.Parallel()

	provider := &fakeCatalogProvider{
		byFilters: func(q CatalogSearch) (CatalogPage, error) {
			if q.OrderBy != "popularity_1year" || q.OrderDirection != "desc" {
				t.Errorf("ordering not defaulted: %+v", q)
			}
			return CatalogPage{Shows: []CatalogShow{{Title: "Dune"}}, HasMore: true, NextCursor: "next"}, nil
		},
	}
	svc := newTestStreamingService(provider)

	q := CatalogSearch{Country: "US", Catalogs: []string{"netflix"}}
	first, err := svc.SearchByFilters(context.Background(), q)
	if err != nil {
		t.Fatalf("SearchByFilters: %v", err)
	}
	if len(first.Shows) != 1 || !first.HasMore {
		t.Fatalf("unexpected page %+v", first)
	}

	if _, err := svc.SearchByFilters(context.Background(), q); err != nil {
		t.Fatalf("cached SearchByFilters: %v", err)
	}
	if got := provider.filterCalls.Load(); got != 1 {
		t.Fatalf("provider called %d times, want 1", got)
	}
}

func TestTrending_MapsTimePeriod(t *testing.T) {
	t.Parallel()

	provider := &fakeCatalogProvider{
		byFilters: func(q CatalogSearch) (CatalogPage, error) {
			if q.OrderBy != "popularity_1month" {
				t.Errorf("order by %q", q.OrderBy)
			}
			return CatalogPage{}, nil
		},
	}
	svc := newTestStreamingService(provider)

	if _, err := svc.Trending(context.Background(), "us", "movie", "1month", nil); err != nil {
		t.Fatalf("Trending: %v", err)
	}
}

func TestTrending_UnknownPeriodFallsBackToWeek(t *testing.T) {
	t.Parallel()

	provider := &fakeCatalogProvider{
		byFilters: func(q CatalogSearch) (CatalogPage, error) {
			if q.OrderBy != "popularity_1week" {
				t.Errorf("order by %q", q.OrderBy)
			}
			return CatalogPage{}, nil
		},
	}
	svc := newTestStreamingService(provider)

	if _, err := svc.Trending(context.Background(), "us", "", "fortnight", nil); err != nil {
		t.Fatalf("Trending: %v", err)
	}
}

func TestChanges_DefaultsAndCaches(t *testing.T) {
	t.Parallel()

	provider := &fakeCatalogProvider{
		changes: func(country, changeType, itemType string) ([]CatalogChange, error) {
			if country != "us" || changeType != "new" || itemType != "show" {
				t.Errorf("defaults not applied: %q %q %q", country, changeType, itemType)
			}
			return []CatalogChange{{ChangeType: "new", Service: "netflix", Show: CatalogShow{Title: "Dark"}}}, nil
		},
	}
	svc := newTestStreamingService(provider)

	first, err := svc.Changes(context.Background(), "", "", "")
	if err != nil {
		t.Fatalf("Changes: %v", err)
	}
	if len(first) != 1 || first[0].Show.Title != "Dark" {
		t.Fatalf("unexpected changes %+v", first)
	}

	if _, err := svc.Changes(context.Background(), "", "", ""); err != nil {
		t.Fatalf("cached Changes: %v", err)
	}
	if got := provider.changesCalls.Load(); got != 1 {
		t.Fatalf("provider called %d times, want 1", got)
	}
}

func TestChanges_RejectsUnknownChangeType(t *testing.T) {
	t.Parallel()

	svc := newTestStreamingService(&fakeCatalogProvider{})

	if _, err := svc.Changes(context.Background(), "us", "vanished", "show"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCatalogMetadataEndpoints(t *testing.T) {
	t.Parallel()

	svc := newTestStreamingService(&fakeCatalogProvider{})

	countries, err := svc.Countries(context.Background())
	if err != nil || len(countries) != 2 {
		t.Fatalf("Countries: %v %v", countries, err)
	}
	services, err := svc.Services(context.Background(), "SE")
	if err != nil || len(services) != 2 {
		t.Fatalf("Services: %v %v", services, err)
	}
	genres, err := svc.Genres(context.Background())
	if err != nil || len(genres) != 2 {
		t.Fatalf("Genres: %v %v", genres, err)
	}
}
