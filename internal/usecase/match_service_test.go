package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bytedance/sonic"

	"github.com/w2wlabs/what2watch/internal/domain/broadcast"
	"github.com/w2wlabs/what2watch/internal/platform/cache"
	"github.com/w2wlabs/what2watch/internal/platform/localtime"
	"github.com/w2wlabs/what2watch/internal/platform/logging"
)

type fakeFixtureProvider struct {
	calls    atomic.Int32
	fixtures func(q FixtureQuery) ([]UpstreamFixture, error)
}

func (f *fakeFixtureProvider) Fixtures(_ context.Context, q FixtureQuery) ([]UpstreamFixture, error) {
	f.calls.Add(1)
	if f.fixtures == nil {
		return nil, nil
	}
	return f.fixtures(q)
}

func (f *fakeFixtureProvider) Leagues(context.Context, string, int) ([]UpstreamLeague, error) {
	return nil, nil
}

func (f *fakeFixtureProvider) Team(context.Context, int) (UpstreamTeam, bool, error) {
	return UpstreamTeam{}, false, nil
}

func (f *fakeFixtureProvider) SearchTeams(context.Context, string) ([]UpstreamTeam, error) {
	return nil, nil
}

func (f *fakeFixtureProvider) Standings(context.Context, int, int) ([]UpstreamStanding, error) {
	return nil, nil
}

func intPtr(v int) *int { return &v }

func testFixture(id, leagueID int, kickoff string) UpstreamFixture {
	return UpstreamFixture{
		ID:          id,
		KickoffUTC:  kickoff,
		StatusShort: "NS",
		League:      UpstreamLeague{ID: leagueID, Logo: "league.png"},
		Home:        UpstreamTeam{ID: 10, Name: "Home FC", Logo: "home.png"},
		Away:        UpstreamTeam{ID: 11, Name: "Away FC", Logo: "away.png"},
	}
}

func newTestMatchService(t *testing.T, provider FixtureProvider) *MatchService {
	t.Helper()

	converter, err := localtime.NewConverter(localtime.DefaultZone)
	if err != nil {
		t.Fatalf("NewConverter: %v", err)
	}

	return NewMatchService(MatchServiceConfig{
		Provider:  provider,
		Cache:     cache.NewLoader(cache.NewMemoryStore()),
		Converter: converter,
		Broadcast: broadcast.NewDirectory(),
		Logger:    logging.NewNop(),
		Now:       func() time.Time { return time.Date(2024, time.December, 1, 10, 0, 0, 0, time.UTC) },
	})
}

func TestMatches_EnrichesFixtures(t *testing.T) {
	t.Parallel()

	provider := &fakeFixtureProvider{
		fixtures: func(q FixtureQuery) ([]UpstreamFixture, error) {
			if q.LeagueID != 39 {
				return nil, nil
			}
			fixture := testFixture(100, 39, "2024-12-01T15:00:00Z")
			fixture.StatusShort = "FT"
			fixture.HomeGoals = intPtr(2)
			fixture.AwayGoals = intPtr(1)
			return []UpstreamFixture{fixture}, nil
		},
	}
	svc := newTestMatchService(t, provider)

	page, err := svc.Matches(context.Background(), MatchQuery{Date: "2024-12-01"})
	if err != nil {
		t.Fatalf("Matches: %v", err)
	}

	if page.Count != 1 || len(page.Matches) != 1 {
		t.Fatalf("unexpected page %+v", page)
	}

	got := page.Matches[0]
	if got.League.Name != "Premier League" || got.League.Country != "England" {
		t.Fatalf("league not normalized: %+v", got.League)
	}
	if got.Kickoff.SwedishTime != "16:00" || got.Kickoff.Timezone != "CET" {
		t.Fatalf("kickoff not converted: %+v", got.Kickoff)
	}
	if got.Kickoff.DayOfWeek != "Sunday" {
		t.Fatalf("day of week %q", got.Kickoff.DayOfWeek)
	}
	if got.Score == nil || *got.Score.Home != 2 || *got.Score.Away != 1 {
		t.Fatalf("score not mapped: %+v", got.Score)
	}
	if len(got.BroadcastChannels) != 3 || got.BroadcastChannels[0] != "Sky Sports" {
		t.Fatalf("broadcast channels %v", got.BroadcastChannels)
	}

	if page.Filters == nil || page.Filters.Date == nil || *page.Filters.Date != "2024-12-01" {
		t.Fatalf("filters not echoed: %+v", page.Filters)
	}
	if page.Filters.DaysAhead != nil {
		t.Fatal("days_ahead should be null for date queries")
	}
}

func TestMatches_InvalidLeagueSkipsUpstream(t *testing.T) {
	t.Parallel()

	provider := &fakeFixtureProvider{}
	svc := newTestMatchService(t, provider)

	page, err := svc.Matches(context.Background(), MatchQuery{League: "eredivisie"})
	if err != nil {
		t.Fatalf("Matches: %v", err)
	}

	if page.Error == "" || !strings.Contains(page.Error, "premier_league") {
		t.Fatalf("error message %q", page.Error)
	}
	if page.Matches == nil || len(page.Matches) != 0 {
		t.Fatalf("matches should be empty, got %v", page.Matches)
	}
	if provider.calls.Load() != 0 {
		t.Fatalf("provider called %d times", provider.calls.Load())
	}
}

func TestMatches_InvalidDate(t *testing.T) {
	t.Parallel()

	svc := newTestMatchService(t, &fakeFixtureProvider{})

	_, err := svc.Matches(context.Background(), MatchQuery{Date: "01-12-2024"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestMatches_DropsUncoveredLeagues(t *testing.T) {
	t.Parallel()

	provider := &fakeFixtureProvider{
		fixtures: func(q FixtureQuery) ([]UpstreamFixture, error) {
			if q.LeagueID != 39 {
				return nil, nil
			}
			return []UpstreamFixture{
				testFixture(1, 39, "2024-12-01T15:00:00Z"),
				testFixture(2, 2, "2024-12-01T15:00:00Z"),
			}, nil
		},
	}
	svc := newTestMatchService(t, provider)

	page, err := svc.Matches(context.Background(), MatchQuery{Date: "2024-12-01"})
	if err != nil {
		t.Fatalf("Matches: %v", err)
	}
	if page.Count != 1 || page.Matches[0].ID != 1 {
		t.Fatalf("unexpected matches %+v", page.Matches)
	}
}

func TestMatches_SortsByKickoffWithIDTieBreak(t *testing.T) {
	t.Parallel()

	provider := &fakeFixtureProvider{
		fixtures: func(q FixtureQuery) ([]UpstreamFixture, error) {
			switch q.LeagueID {
			case 39:
				return []UpstreamFixture{
					testFixture(9, 39, "2024-12-01T20:00:00Z"),
					testFixture(5, 39, "2024-12-01T15:00:00Z"),
				}, nil
			case 140:
				return []UpstreamFixture{
					testFixture(3, 140, "2024-12-01T15:00:00Z"),
				}, nil
			}
			return nil, nil
		},
	}
	svc := newTestMatchService(t, provider)

	page, err := svc.Matches(context.Background(), MatchQuery{Date: "2024-12-01"})
	if err != nil {
		t.Fatalf("Matches: %v", err)
	}

	ids := make([]int, 0, len(page.Matches))
	for _, m := range page.Matches {
		ids = append(ids, m.ID)
	}
	want := []int{3, 5, 9}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("order %v, want %v", ids, want)
		}
	}
}

func TestMatches_CachesPerLeagueAndDate(t *testing.T) {
	t.Parallel()

	provider := &fakeFixtureProvider{
		fixtures: func(q FixtureQuery) ([]UpstreamFixture, error) {
			return []UpstreamFixture{testFixture(q.LeagueID, q.LeagueID, "2024-12-01T15:00:00Z")}, nil
		},
	}
	svc := newTestMatchService(t, provider)

	if _, err := svc.Matches(context.Background(), MatchQuery{Date: "2024-12-01", League: "premier_league"}); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, err := svc.Matches(context.Background(), MatchQuery{Date: "2024-12-01", League: "premier_league"}); err != nil {
		t.Fatalf("second call: %v", err)
	}

	if got := provider.calls.Load(); got != 1 {
		t.Fatalf("provider called %d times, want 1", got)
	}
}

func TestMatches_PartialProviderFailureKeepsOtherLeagues(t *testing.T) {
	t.Parallel()

	provider := &fakeFixtureProvider{
		fixtures: func(q FixtureQuery) ([]UpstreamFixture, error) {
			if q.LeagueID == 140 {
				return nil, errors.New("la liga feed down")
			}
			if q.LeagueID == 39 {
				return []UpstreamFixture{testFixture(1, 39, "2024-12-01T15:00:00Z")}, nil
			}
			return nil, nil
		},
	}
	svc := newTestMatchService(t, provider)

	page, err := svc.Matches(context.Background(), MatchQuery{Date: "2024-12-01"})
	if err != nil {
		t.Fatalf("Matches: %v", err)
	}
	if page.Count != 1 {
		t.Fatalf("unexpected count %d", page.Count)
	}
}

func TestMatches_TotalProviderFailure(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("provider down")
	provider := &fakeFixtureProvider{
		fixtures: func(FixtureQuery) ([]UpstreamFixture, error) {
			return nil, wantErr
		},
	}
	svc := newTestMatchService(t, provider)

	_, err := svc.Matches(context.Background(), MatchQuery{Date: "2024-12-01"})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestMatches_RangeQueryEchoesDaysAhead(t *testing.T) {
	t.Parallel()

	provider := &fakeFixtureProvider{
		fixtures: func(q FixtureQuery) ([]UpstreamFixture, error) {
			return nil, nil
		},
	}
	svc := newTestMatchService(t, provider)

	page, err := svc.Matches(context.Background(), MatchQuery{DaysAhead: 3})
	if err != nil {
		t.Fatalf("Matches: %v", err)
	}

	if page.Filters == nil || page.Filters.DaysAhead == nil || *page.Filters.DaysAhead != 3 {
		t.Fatalf("filters %+v", page.Filters)
	}
	if page.Filters.Date != nil {
		t.Fatal("date should be null for range queries")
	}

	// 3 days x 5 leagues, one fetch per league and date.
	if got := provider.calls.Load(); got != 15 {
		t.Fatalf("provider called %d times, want 15", got)
	}
}

func TestLiveMatches_FetchesFullSetOnceAndCaches(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var seen []FixtureQuery
	provider := &fakeFixtureProvider{
		fixtures: func(q FixtureQuery) ([]UpstreamFixture, error) {
			mu.Lock()
			seen = append(seen, q)
			mu.Unlock()

			live := testFixture(7, 39, "2024-12-01T15:00:00Z")
			live.StatusShort = "2H"
			live.HomeGoals = intPtr(1)
			live.AwayGoals = intPtr(0)
			// The full live set includes a league the service does not
			// cover; filtering happens on our side.
			uncovered := testFixture(8, 2, "2024-12-01T15:00:00Z")
			uncovered.StatusShort = "1H"
			return []UpstreamFixture{live, uncovered}, nil
		},
	}
	svc := newTestMatchService(t, provider)

	first, err := svc.LiveMatches(context.Background())
	if err != nil {
		t.Fatalf("first LiveMatches: %v", err)
	}
	if first.Count != 1 || first.Matches[0].ID != 7 || first.Matches[0].Status != "2H" {
		t.Fatalf("unexpected live page %+v", first)
	}
	if first.Filters != nil {
		t.Fatal("live page should not carry filters")
	}

	if _, err := svc.LiveMatches(context.Background()); err != nil {
		t.Fatalf("second LiveMatches: %v", err)
	}

	// A single league-less live fetch, served from cache the second time.
	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 1 {
		t.Fatalf("provider called %d times with %+v, want 1", len(seen), seen)
	}
	if q := seen[0]; q.Status != "LIVE" || q.LeagueID != 0 || q.Date != "" {
		t.Fatalf("unexpected live query %+v", q)
	}
}

func TestMatches_SkipsFixturesWithoutTwoDistinctTeams(t *testing.T) {
	t.Parallel()

	provider := &fakeFixtureProvider{
		fixtures: func(q FixtureQuery) ([]UpstreamFixture, error) {
			if q.LeagueID != 39 {
				return nil, nil
			}
			mirror := testFixture(2, 39, "2024-12-01T15:00:00Z")
			mirror.Home.ID = 7
			mirror.Away.ID = 7
			missing := testFixture(3, 39, "2024-12-01T15:00:00Z")
			missing.Away = UpstreamTeam{}
			return []UpstreamFixture{
				testFixture(1, 39, "2024-12-01T15:00:00Z"),
				mirror,
				missing,
			}, nil
		},
	}
	svc := newTestMatchService(t, provider)

	page, err := svc.Matches(context.Background(), MatchQuery{Date: "2024-12-01"})
	if err != nil {
		t.Fatalf("Matches: %v", err)
	}
	if page.Count != 1 || page.Matches[0].ID != 1 {
		t.Fatalf("unexpected matches %+v", page.Matches)
	}
}

func TestTodayMatches_UsesLocalDate(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var seenDates []string
	provider := &fakeFixtureProvider{
		fixtures: func(q FixtureQuery) ([]UpstreamFixture, error) {
			mu.Lock()
			seenDates = append(seenDates, q.Date)
			mu.Unlock()
			return nil, nil
		},
	}
	svc := newTestMatchService(t, provider)

	page, err := svc.TodayMatches(context.Background(), "premier_league")
	if err != nil {
		t.Fatalf("TodayMatches: %v", err)
	}
	if page.Filters == nil || page.Filters.Date == nil || *page.Filters.Date != "2024-12-01" {
		t.Fatalf("filters %+v", page.Filters)
	}
	for _, date := range seenDates {
		if date != "2024-12-01" {
			t.Fatalf("unexpected fetch date %q", date)
		}
	}
}

func TestValidLeagueFilters(t *testing.T) {
	t.Parallel()

	svc := newTestMatchService(t, &fakeFixtureProvider{})
	keys := svc.ValidLeagueFilters()
	if len(keys) != 5 || keys[0] != "premier_league" {
		t.Fatalf("unexpected keys %v", keys)
	}
}

func TestMatchPageJSON_ScoreNullsPreserved(t *testing.T) {
	t.Parallel()

	provider := &fakeFixtureProvider{
		fixtures: func(q FixtureQuery) ([]UpstreamFixture, error) {
			if q.LeagueID != 39 {
				return nil, nil
			}
			return []UpstreamFixture{testFixture(1, 39, "2024-12-01T15:00:00Z")}, nil
		},
	}
	svc := newTestMatchService(t, provider)

	page, err := svc.Matches(context.Background(), MatchQuery{Date: "2024-12-01", League: "premier_league"})
	if err != nil {
		t.Fatalf("Matches: %v", err)
	}

	score := page.Matches[0].Score
	if score == nil || score.Home != nil || score.Away != nil {
		t.Fatalf("not-started match should carry null goals: %+v", score)
	}

	raw, err := sonic.Marshal(page)
	if err != nil {
		t.Fatalf("marshal page: %v", err)
	}
	if !strings.Contains(string(raw), `"score":{"home":null,"away":null}`) {
		t.Fatalf("score nulls not serialized: %s", raw)
	}
}
