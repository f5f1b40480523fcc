package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/w2wlabs/what2watch/internal/platform/cache"
	"github.com/w2wlabs/what2watch/internal/platform/logging"
)

type fakeMetaProvider struct {
	fakeFixtureProvider
	standingsCalls atomic.Int32
}

func (f *fakeMetaProvider) Team(_ context.Context, teamID int) (UpstreamTeam, bool, error) {
	if teamID == 42 {
		return UpstreamTeam{ID: 42, Name: "Arsenal", Logo: "arsenal.png"}, true, nil
	}
	return UpstreamTeam{}, false, nil
}

func (f *fakeMetaProvider) Standings(_ context.Context, leagueID, season int) ([]UpstreamStanding, error) {
	f.standingsCalls.Add(1)
	return []UpstreamStanding{
		{Rank: 1, Team: UpstreamTeam{ID: 50, Name: "Manchester City"}, Points: 45},
		{Rank: 2, Team: UpstreamTeam{ID: 42, Name: "Arsenal"}, Points: 43},
	}, nil
}

func newTestMetaService(provider FixtureProvider) *FootballMetaService {
	return NewFootballMetaService(FootballMetaServiceConfig{
		Provider: provider,
		Cache:    cache.NewLoader(cache.NewMemoryStore()),
		Logger:   logging.NewNop(),
		Now:      func() time.Time { return time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC) },
	})
}

func TestCoveredLeagues(t *testing.T) {
	t.Parallel()

	svc := newTestMetaService(&fakeMetaProvider{})
	leagues := svc.CoveredLeagues()
	if len(leagues) != 5 || leagues[0].ID != 39 {
		t.Fatalf("unexpected leagues %+v", leagues)
	}
}

func TestBroadcasts_CoversAllLeagues(t *testing.T) {
	t.Parallel()

	svc := newTestMetaService(&fakeMetaProvider{})
	guide := svc.Broadcasts()

	if len(guide.Leagues) != 5 {
		t.Fatalf("unexpected guide %+v", guide)
	}
	if guide.Leagues[0].League.ID != 39 || len(guide.Leagues[0].Channels) == 0 {
		t.Fatalf("premier league entry missing channels: %+v", guide.Leagues[0])
	}
	if len(guide.AllChannels) == 0 {
		t.Fatal("expected aggregated channel list")
	}
}

func TestMetaTeam(t *testing.T) {
	t.Parallel()

	svc := newTestMetaService(&fakeMetaProvider{})

	if _, err := svc.Team(context.Background(), 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Team(context.Background(), 7); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	team, err := svc.Team(context.Background(), 42)
	if err != nil {
		t.Fatalf("Team: %v", err)
	}
	if team.Name != "Arsenal" {
		t.Fatalf("unexpected team %+v", team)
	}
}

func TestMetaStandings_ValidatesLeagueAndCaches(t *testing.T) {
	t.Parallel()

	provider := &fakeMetaProvider{}
	svc := newTestMetaService(provider)

	if _, err := svc.Standings(context.Background(), "mls"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if provider.standingsCalls.Load() != 0 {
		t.Fatal("provider called for invalid league")
	}

	rows, err := svc.Standings(context.Background(), "premier_league")
	if err != nil {
		t.Fatalf("Standings: %v", err)
	}
	if len(rows) != 2 || rows[0].Rank != 1 {
		t.Fatalf("unexpected rows %+v", rows)
	}

	if _, err := svc.Standings(context.Background(), "premier_league"); err != nil {
		t.Fatalf("cached Standings: %v", err)
	}
	if got := provider.standingsCalls.Load(); got != 1 {
		t.Fatalf("provider called %d times, want 1", got)
	}
}

func TestMetaSearchTeams_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestMetaService(&fakeMetaProvider{})

	if _, err := svc.SearchTeams(context.Background(), " "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.SearchTeams(context.Background(), "Arsenal"); err != nil {
		t.Fatalf("SearchTeams: %v", err)
	}
}
