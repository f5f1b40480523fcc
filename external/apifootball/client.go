// Package apifootball talks to the API-Football v3 data service. It is
// the fixture, league, team and standings source for the aggregation
// services.
package apifootball

import (
	"context"
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/w2wlabs/what2watch/external/rapidapi"
	"github.com/w2wlabs/what2watch/internal/platform/logging"
	"github.com/w2wlabs/what2watch/internal/platform/resilience"
	"github.com/w2wlabs/what2watch/internal/usecase"
)

const (
	defaultBaseURL = "https://v3.football.api-sports.io"
	defaultHost    = "v3.football.api-sports.io"
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

var _ usecase.FixtureProvider = (*Client)(nil)

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

// Fixtures lists fixtures matching the query. Zero-valued query fields
// are left out of the upstream call.
func (c *Client) Fixtures(ctx context.Context, q usecase.FixtureQuery) ([]usecase.UpstreamFixture, error) {
	query := map[string]string{}
	if q.LeagueID > 0 {
		query["league"] = itoa(q.LeagueID)
	}
	if q.Season > 0 {
		query["season"] = itoa(q.Season)
	}
	if q.Date != "" {
		query["date"] = q.Date
	}
	if q.TeamID > 0 {
		query["team"] = itoa(q.TeamID)
	}
	if q.Status != "" {
		query["status"] = q.Status
	}
	if q.Next > 0 {
		query["next"] = itoa(q.Next)
	}

	var env envelope[fixtureItem]
	if err := c.get(ctx, "/fixtures", query, &env); err != nil {
		return nil, fmt.Errorf("fetch fixtures: %w", err)
	}

	fixtures := make([]usecase.UpstreamFixture, 0, len(env.Response))
	for _, item := range env.Response {
		fixtures = append(fixtures, usecase.UpstreamFixture{
			ID:          item.Fixture.ID,
			KickoffUTC:  item.Fixture.Date,
			StatusShort: item.Fixture.Status.Short,
			League: usecase.UpstreamLeague{
				ID:      item.League.ID,
				Name:    item.League.Name,
				Country: item.League.Country,
				Logo:    item.League.Logo,
				Season:  item.League.Season,
			},
			Home:      mapTeam(item.Teams.Home),
			Away:      mapTeam(item.Teams.Away),
			HomeGoals: item.Goals.Home,
			AwayGoals: item.Goals.Away,
		})
	}
	return fixtures, nil
}

func (c *Client) Leagues(ctx context.Context, country string, season int) ([]usecase.UpstreamLeague, error) {
	query := map[string]string{}
	if country != "" {
		query["country"] = country
	}
	if season > 0 {
		query["season"] = itoa(season)
	}

	var env envelope[leagueItem]
	if err := c.get(ctx, "/leagues", query, &env); err != nil {
		return nil, fmt.Errorf("fetch leagues: %w", err)
	}

	leagues := make([]usecase.UpstreamLeague, 0, len(env.Response))
	for _, item := range env.Response {
		mapped := usecase.UpstreamLeague{
			ID:      item.League.ID,
			Name:    item.League.Name,
			Country: item.Country.Name,
			Logo:    item.League.Logo,
			Season:  season,
		}
		for _, s := range item.Seasons {
			if s.Current {
				mapped.Season = s.Year
				break
			}
		}
		leagues = append(leagues, mapped)
	}
	return leagues, nil
}

func (c *Client) Team(ctx context.Context, teamID int) (usecase.UpstreamTeam, bool, error) {
	var env envelope[teamItem]
	if err := c.get(ctx, "/teams", map[string]string{"id": itoa(teamID)}, &env); err != nil {
		return usecase.UpstreamTeam{}, false, fmt.Errorf("fetch team id=%d: %w", teamID, err)
	}
	if len(env.Response) == 0 {
		return usecase.UpstreamTeam{}, false, nil
	}
	return mapTeam(env.Response[0].Team), true, nil
}

func (c *Client) SearchTeams(ctx context.Context, name string) ([]usecase.UpstreamTeam, error) {
	var env envelope[teamItem]
	if err := c.get(ctx, "/teams", map[string]string{"search": name}, &env); err != nil {
		return nil, fmt.Errorf("search teams: %w", err)
	}

	teams := make([]usecase.UpstreamTeam, 0, len(env.Response))
	for _, item := range env.Response {
		teams = append(teams, mapTeam(item.Team))
	}
	return teams, nil
}

func (c *Client) Standings(ctx context.Context, leagueID, season int) ([]usecase.UpstreamStanding, error) {
	query := map[string]string{
		"league": itoa(leagueID),
		"season": itoa(season),
	}

	var env envelope[standingsItem]
	if err := c.get(ctx, "/standings", query, &env); err != nil {
		return nil, fmt.Errorf("fetch standings league=%d: %w", leagueID, err)
	}

	// The standings payload groups rows per stage; the first group is the
	// overall league table.
	rows := make([]usecase.UpstreamStanding, 0, 20)
	for _, item := range env.Response {
		if len(item.League.Standings) == 0 {
			continue
		}
		for _, row := range item.League.Standings[0] {
			rows = append(rows, usecase.UpstreamStanding{
				Rank:        row.Rank,
				Team:        mapTeam(row.Team),
				Points:      row.Points,
				GoalsDiff:   row.GoalsDiff,
				Played:      row.All.Played,
				Won:         row.All.Win,
				Drawn:       row.All.Draw,
				Lost:        row.All.Lose,
				Form:        row.Form,
				LastUpdated: row.Update,
			})
		}
		break
	}
	return rows, nil
}

// get decodes the shared envelope and surfaces the provider's in-band
// error object, which API-Football reports alongside a 200 status.
func (c *Client) get(ctx context.Context, path string, query map[string]string, env interface {
	providerError() (string, bool)
}) error {
	raw, err := c.transport.GetJSON(ctx, path, query, nil)
	if err != nil {
		return err
	}
	if err := sonic.Unmarshal(raw, env); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	if message, ok := env.providerError(); ok {
		return fmt.Errorf("provider rejected request: %s", message)
	}
	return nil
}

func mapTeam(t teamBlock) usecase.UpstreamTeam {
	return usecase.UpstreamTeam{ID: t.ID, Name: t.Name, Logo: t.Logo}
}
