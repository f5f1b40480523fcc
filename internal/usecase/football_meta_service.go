package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/w2wlabs/what2watch/internal/domain/broadcast"
	"github.com/w2wlabs/what2watch/internal/domain/league"
	"github.com/w2wlabs/what2watch/internal/platform/cache"
	"github.com/w2wlabs/what2watch/internal/platform/logging"
)

const (
	leaguesCacheTTL   = 7 * 24 * time.Hour
	teamCacheTTL      = 7 * 24 * time.Hour
	standingsCacheTTL = 6 * time.Hour
)

type FootballMetaServiceConfig struct {
	Provider  FixtureProvider
	Cache     *cache.Loader
	Broadcast *broadcast.Directory
	Logger    *logging.Logger
	Now       func() time.Time
}

// FootballMetaService serves slow-moving football reference data: league
// listings, team profiles and standings tables.
type FootballMetaService struct {
	provider  FixtureProvider
	cache     *cache.Loader
	broadcast *broadcast.Directory
	logger    *logging.Logger
	now       func() time.Time
}

func NewFootballMetaService(cfg FootballMetaServiceConfig) *FootballMetaService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	channels := cfg.Broadcast
	if channels == nil {
		channels = broadcast.NewDirectory()
	}

	return &FootballMetaService{
		provider:  cfg.Provider,
		cache:     cfg.Cache,
		broadcast: channels,
		logger:    logger,
		now:       now,
	}
}

// LeagueBroadcast pairs one covered league with its Swedish broadcast
// channels.
type LeagueBroadcast struct {
	League   league.League
	Channels []string
}

// BroadcastGuide is the static channel coverage for all five leagues.
type BroadcastGuide struct {
	Leagues     []LeagueBroadcast
	AllChannels []string
}

// Broadcasts returns the channel guide. The table is static, so no
// upstream call and no cache involved.
func (s *FootballMetaService) Broadcasts() BroadcastGuide {
	covered := league.All()
	out := BroadcastGuide{
		Leagues:     make([]LeagueBroadcast, 0, len(covered)),
		AllChannels: s.broadcast.AllChannels(),
	}
	for _, l := range covered {
		out.Leagues = append(out.Leagues, LeagueBroadcast{
			League:   l,
			Channels: s.broadcast.Channels(l.ID),
		})
	}

	return out
}

// CoveredLeagues returns the static coverage set without an upstream call.
func (s *FootballMetaService) CoveredLeagues() []league.League {
	return league.All()
}

// Leagues lists leagues from the provider, optionally filtered by country.
func (s *FootballMetaService) Leagues(ctx context.Context, country string) ([]UpstreamLeague, error) {
	ctx, span := startUsecaseSpan(ctx, "FootballMetaService.Leagues")
	defer span.End()

	country = strings.TrimSpace(country)
	season := league.SeasonYear(s.now())

	key := fmt.Sprintf("football_leagues_%s_%d", country, season)
	return cache.LoadJSON(ctx, s.cache, key, leaguesCacheTTL, func(ctx context.Context) ([]UpstreamLeague, error) {
		leagues, err := s.provider.Leagues(ctx, country, season)
		if err != nil {
			return nil, fmt.Errorf("fetch leagues: %w", err)
		}
		return leagues, nil
	})
}

// Team returns one team's profile.
func (s *FootballMetaService) Team(ctx context.Context, teamID int) (UpstreamTeam, error) {
	ctx, span := startUsecaseSpan(ctx, "FootballMetaService.Team")
	defer span.End()

	if teamID <= 0 {
		return UpstreamTeam{}, fmt.Errorf("%w: team id must be positive", ErrInvalidInput)
	}

	key := fmt.Sprintf("football_team_%d", teamID)
	return cache.LoadJSON(ctx, s.cache, key, teamCacheTTL, func(ctx context.Context) (UpstreamTeam, error) {
		team, found, err := s.provider.Team(ctx, teamID)
		if err != nil {
			return UpstreamTeam{}, fmt.Errorf("fetch team: %w", err)
		}
		if !found {
			return UpstreamTeam{}, fmt.Errorf("%w: team=%d", ErrNotFound, teamID)
		}
		return team, nil
	})
}

// SearchTeams searches teams by name. Results are not cached because the
// query space is unbounded.
func (s *FootballMetaService) SearchTeams(ctx context.Context, name string) ([]UpstreamTeam, error) {
	ctx, span := startUsecaseSpan(ctx, "FootballMetaService.SearchTeams")
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}

	teams, err := s.provider.SearchTeams(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("search teams: %w", err)
	}
	return teams, nil
}

// Standings returns the current table for a covered league.
func (s *FootballMetaService) Standings(ctx context.Context, leagueKey string) ([]UpstreamStanding, error) {
	ctx, span := startUsecaseSpan(ctx, "FootballMetaService.Standings")
	defer span.End()

	l, ok := league.ByKey(strings.TrimSpace(leagueKey))
	if !ok {
		return nil, fmt.Errorf("%w: unknown league %q, valid options: %v", ErrInvalidInput, leagueKey, league.Keys())
	}
	season := league.SeasonYear(s.now())

	key := fmt.Sprintf("football_standings_%d_%d", l.ID, season)
	return cache.LoadJSON(ctx, s.cache, key, standingsCacheTTL, func(ctx context.Context) ([]UpstreamStanding, error) {
		rows, err := s.provider.Standings(ctx, l.ID, season)
		if err != nil {
			return nil, fmt.Errorf("fetch standings: %w", err)
		}
		return rows, nil
	})
}
