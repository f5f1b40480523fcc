package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/pool"

	"github.com/w2wlabs/what2watch/internal/domain/broadcast"
	"github.com/w2wlabs/what2watch/internal/domain/league"
	"github.com/w2wlabs/what2watch/internal/domain/match"
	"github.com/w2wlabs/what2watch/internal/platform/cache"
	"github.com/w2wlabs/what2watch/internal/platform/localtime"
	"github.com/w2wlabs/what2watch/internal/platform/logging"
)

const (
	defaultDaysAhead  = 7
	defaultFanOut     = 5
	defaultDayWorkers = 4

	liveMatchesCacheKey = "top5_live_matches"
	liveMatchesCacheTTL = time.Minute
	leagueDayCacheTTL   = time.Hour
)

type MatchServiceConfig struct {
	Provider   FixtureProvider
	Cache      *cache.Loader
	Converter  *localtime.Converter
	Broadcast  *broadcast.Directory
	Logger     *logging.Logger
	Now        func() time.Time
	FanOut     int
	DayWorkers int
}

// MatchService aggregates fixtures from the covered leagues and enriches
// them with Swedish kickoff times and broadcast channels.
type MatchService struct {
	provider   FixtureProvider
	cache      *cache.Loader
	converter  *localtime.Converter
	broadcast  *broadcast.Directory
	logger     *logging.Logger
	now        func() time.Time
	fanOut     int
	dayWorkers int
}

func NewMatchService(cfg MatchServiceConfig) *MatchService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	fanOut := cfg.FanOut
	if fanOut <= 0 {
		fanOut = defaultFanOut
	}
	dayWorkers := cfg.DayWorkers
	if dayWorkers <= 0 {
		dayWorkers = defaultDayWorkers
	}

	return &MatchService{
		provider:   cfg.Provider,
		cache:      cfg.Cache,
		converter:  cfg.Converter,
		broadcast:  cfg.Broadcast,
		logger:     logger,
		now:        now,
		fanOut:     fanOut,
		dayWorkers: dayWorkers,
	}
}

// MatchQuery narrows a match listing. Zero values mean "no filter"; a zero
// DaysAhead defaults to a week.
type MatchQuery struct {
	Date      string
	League    string
	DaysAhead int
}

// Matches lists fixtures from the covered leagues. An unknown league filter
// yields a page with an error message and no upstream calls, matching how
// clients probe the filter vocabulary.
func (s *MatchService) Matches(ctx context.Context, q MatchQuery) (match.Page, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.Matches")
	defer span.End()

	q.League = strings.TrimSpace(q.League)
	q.Date = strings.TrimSpace(q.Date)

	if q.League != "" {
		if _, ok := league.ByKey(q.League); !ok {
			return match.Page{
				Error:   fmt.Sprintf("Invalid league filter. Valid options: %v", league.Keys()),
				Matches: []match.Match{},
			}, nil
		}
	}
	if q.Date != "" {
		if _, err := time.Parse(localtime.DateLayout, q.Date); err != nil {
			return match.Page{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
		}
	}

	daysAhead := q.DaysAhead
	if daysAhead <= 0 {
		daysAhead = defaultDaysAhead
	}

	var (
		matches []match.Match
		err     error
	)
	if q.Date != "" {
		matches, err = s.fetchForDate(ctx, q.Date, q.League)
	} else {
		matches, err = s.fetchForRange(ctx, daysAhead, q.League)
	}
	if err != nil {
		return match.Page{}, err
	}

	sortMatches(matches)

	filters := &match.Filters{}
	if q.Date != "" {
		filters.Date = &q.Date
	} else {
		filters.DaysAhead = &daysAhead
	}
	if q.League != "" {
		filters.League = &q.League
	}

	return match.Page{
		Count:   len(matches),
		Filters: filters,
		Matches: matches,
	}, nil
}

// TodayMatches lists fixtures kicking off today in the service's timezone.
func (s *MatchService) TodayMatches(ctx context.Context, leagueKey string) (match.Page, error) {
	today := s.now().In(s.converter.Location()).Format(localtime.DateLayout)
	return s.Matches(ctx, MatchQuery{Date: today, League: leagueKey})
}

// LiveMatches lists fixtures currently in play across the covered leagues.
// The whole result is cached briefly because live scores churn.
func (s *MatchService) LiveMatches(ctx context.Context) (match.Page, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.LiveMatches")
	defer span.End()

	return cache.LoadJSON(ctx, s.cache, liveMatchesCacheKey, liveMatchesCacheTTL, func(ctx context.Context) (match.Page, error) {
		// The upstream has no reliable per-league live filter. Fetch the
		// full live set in one call; enrichFixture drops any fixture
		// outside the covered leagues.
		matches, err := s.fetchAndEnrich(ctx, FixtureQuery{Status: "LIVE"})
		if err != nil {
			return match.Page{}, err
		}

		sortMatches(matches)
		return match.Page{
			Count:   len(matches),
			Matches: matches,
		}, nil
	})
}

// ValidLeagueFilters returns the accepted league filter keys.
func (s *MatchService) ValidLeagueFilters() []string {
	return league.Keys()
}

func (s *MatchService) fetchForDate(ctx context.Context, date, leagueKey string) ([]match.Match, error) {
	leagues := league.All()
	if leagueKey != "" {
		l, _ := league.ByKey(leagueKey)
		leagues = []league.League{l}
	}

	season := league.SeasonYear(s.now())
	return s.collectLeagues(ctx, leagues, func(ctx context.Context, l league.League) ([]match.Match, error) {
		key := fmt.Sprintf("top5_matches_%d_%s", l.ID, date)
		return cache.LoadJSON(ctx, s.cache, key, leagueDayCacheTTL, func(ctx context.Context) ([]match.Match, error) {
			return s.fetchAndEnrich(ctx, FixtureQuery{LeagueID: l.ID, Season: season, Date: date})
		})
	})
}

// fetchForRange walks the next daysAhead dates through a bounded worker
// pool. Each day reuses the per-league day caches, so overlapping range
// queries only hit upstream once per league and date.
func (s *MatchService) fetchForRange(ctx context.Context, daysAhead int, leagueKey string) ([]match.Match, error) {
	workers, err := ants.NewPool(s.dayWorkers)
	if err != nil {
		return nil, fmt.Errorf("create day worker pool: %w", err)
	}
	defer workers.Release()

	today := s.now().In(s.converter.Location())
	perDay := make([][]match.Match, daysAhead)
	errs := make([]error, daysAhead)

	var wg sync.WaitGroup
	for i := 0; i < daysAhead; i++ {
		i := i
		date := today.AddDate(0, 0, i).Format(localtime.DateLayout)
		wg.Add(1)
		if err := workers.Submit(func() {
			defer wg.Done()
			perDay[i], errs[i] = s.fetchForDate(ctx, date, leagueKey)
		}); err != nil {
			wg.Done()
			return nil, fmt.Errorf("submit day fetch: %w", err)
		}
	}
	wg.Wait()

	matches := make([]match.Match, 0, 32)
	var firstErr error
	for i := 0; i < daysAhead; i++ {
		if errs[i] != nil {
			if firstErr == nil {
				firstErr = errs[i]
			}
			continue
		}
		matches = append(matches, perDay[i]...)
	}
	if len(matches) == 0 && firstErr != nil {
		return nil, firstErr
	}

	return matches, nil
}

// collectLeagues fans the fetch out across leagues. A failing league is
// logged and skipped so one provider hiccup does not blank the listing;
// only a fully failed fan-out surfaces an error.
func (s *MatchService) collectLeagues(
	ctx context.Context,
	leagues []league.League,
	fetch func(ctx context.Context, l league.League) ([]match.Match, error),
) ([]match.Match, error) {
	type leagueResult struct {
		matches []match.Match
		err     error
	}

	p := pool.NewWithResults[leagueResult]().WithMaxGoroutines(s.fanOut)
	for _, l := range leagues {
		l := l
		p.Go(func() leagueResult {
			items, err := fetch(ctx, l)
			if err != nil {
				s.logger.WarnContext(ctx, "league fetch failed", "league", l.Key, "error", err)
			}
			return leagueResult{matches: items, err: err}
		})
	}

	matches := make([]match.Match, 0, 16)
	var firstErr error
	failed := 0
	for _, res := range p.Wait() {
		if res.err != nil {
			failed++
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		matches = append(matches, res.matches...)
	}
	if failed == len(leagues) && firstErr != nil {
		return nil, firstErr
	}

	return matches, nil
}

func (s *MatchService) fetchAndEnrich(ctx context.Context, q FixtureQuery) ([]match.Match, error) {
	fixtures, err := s.provider.Fixtures(ctx, q)
	if err != nil {
		return nil, err
	}

	matches := make([]match.Match, 0, len(fixtures))
	for _, fixture := range fixtures {
		enriched, ok := s.enrichFixture(ctx, fixture)
		if !ok {
			continue
		}
		matches = append(matches, enriched)
	}
	return matches, nil
}

// enrichFixture converts a raw provider fixture into the response model.
// Fixtures outside the covered leagues are dropped, as are fixtures that
// cannot name two distinct teams.
func (s *MatchService) enrichFixture(ctx context.Context, fixture UpstreamFixture) (match.Match, bool) {
	known, ok := league.ByID(fixture.League.ID)
	if !ok {
		return match.Match{}, false
	}

	if fixture.Home.ID == 0 || fixture.Away.ID == 0 || fixture.Home.ID == fixture.Away.ID {
		s.logger.WarnContext(ctx, "fixture lacks two distinct teams, skipping",
			"fixture_id", fixture.ID,
			"home_team_id", fixture.Home.ID,
			"away_team_id", fixture.Away.ID,
		)
		return match.Match{}, false
	}

	local, parsed := s.converter.Convert(fixture.KickoffUTC)
	if !parsed {
		s.logger.WarnContext(ctx, "fixture kickoff unparseable, keeping placeholder time",
			"fixture_id", fixture.ID,
			"kickoff_utc", fixture.KickoffUTC,
		)
	}

	status := fixture.StatusShort
	if status == "" {
		status = "NS"
	}

	return match.Match{
		ID: fixture.ID,
		League: match.League{
			ID:      known.ID,
			Name:    known.Name,
			Country: known.Country,
			Logo:    fixture.League.Logo,
		},
		HomeTeam: match.Team{
			ID:   fixture.Home.ID,
			Name: fixture.Home.Name,
			Logo: fixture.Home.Logo,
		},
		AwayTeam: match.Team{
			ID:   fixture.Away.ID,
			Name: fixture.Away.Name,
			Logo: fixture.Away.Logo,
		},
		Kickoff: match.Kickoff{
			UTC:         fixture.KickoffUTC,
			SwedishTime: local.Clock,
			SwedishDate: local.Date,
			DayOfWeek:   local.DayOfWeek,
			Timezone:    local.Zone,
		},
		Status: status,
		Score: &match.Score{
			Home: fixture.HomeGoals,
			Away: fixture.AwayGoals,
		},
		BroadcastChannels: s.broadcast.Channels(known.ID),
	}, true
}

// sortMatches orders by kickoff instant with the fixture id as tie-break so
// pages are stable across refetches.
func sortMatches(matches []match.Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		left, leftErr := localtime.ParseUTC(matches[i].Kickoff.UTC)
		right, rightErr := localtime.ParseUTC(matches[j].Kickoff.UTC)
		if leftErr != nil || rightErr != nil {
			if (leftErr == nil) != (rightErr == nil) {
				return leftErr == nil
			}
			return matches[i].ID < matches[j].ID
		}
		if !left.Equal(right) {
			return left.Before(right)
		}
		return matches[i].ID < matches[j].ID
	})
}
