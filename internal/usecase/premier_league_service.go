package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/w2wlabs/what2watch/internal/domain/broadcast"
	"github.com/w2wlabs/what2watch/internal/domain/league"
	"github.com/w2wlabs/what2watch/internal/domain/match"
	"github.com/w2wlabs/what2watch/internal/platform/cache"
	"github.com/w2wlabs/what2watch/internal/platform/localtime"
	"github.com/w2wlabs/what2watch/internal/platform/logging"
)

const (
	premierLeagueID = 39

	upcomingCacheTTL = time.Hour

	// The schedule feed is month-keyed, so matches late in the month
	// need the next month fetched to fill a full look-ahead window.
	nextMonthFetchDay = 20
)

type PremierLeagueServiceConfig struct {
	Provider  ScheduleProvider
	Cache     *cache.Loader
	Converter *localtime.Converter
	Broadcast *broadcast.Directory
	Logger    *logging.Logger
	Now       func() time.Time
}

// PremierLeagueService serves upcoming Premier League matches from the
// month-keyed schedule feed, as an alternative source to the fixture
// provider.
type PremierLeagueService struct {
	provider  ScheduleProvider
	cache     *cache.Loader
	converter *localtime.Converter
	broadcast *broadcast.Directory
	logger    *logging.Logger
	now       func() time.Time
}

func NewPremierLeagueService(cfg PremierLeagueServiceConfig) *PremierLeagueService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &PremierLeagueService{
		provider:  cfg.Provider,
		cache:     cfg.Cache,
		converter: cfg.Converter,
		broadcast: cfg.Broadcast,
		logger:    logger,
		now:       now,
	}
}

// UpcomingMatches lists Premier League matches kicking off within the next
// daysAhead days, soonest first.
func (s *PremierLeagueService) UpcomingMatches(ctx context.Context, daysAhead int) (match.Page, error) {
	ctx, span := startUsecaseSpan(ctx, "PremierLeagueService.UpcomingMatches")
	defer span.End()

	if daysAhead <= 0 {
		daysAhead = defaultDaysAhead
	}

	now := s.now()
	key := fmt.Sprintf("pl_upcoming_%d_%d_%d", now.Year(), int(now.Month()), daysAhead)
	return cache.LoadJSON(ctx, s.cache, key, upcomingCacheTTL, func(ctx context.Context) (match.Page, error) {
		schedule, err := s.provider.MonthSchedule(ctx, now.Year(), int(now.Month()))
		if err != nil {
			return match.Page{}, fmt.Errorf("fetch month schedule: %w", err)
		}

		if now.Day() > nextMonthFetchDay {
			nextYear, nextMonth := now.Year(), int(now.Month())+1
			if nextMonth > 12 {
				nextYear, nextMonth = nextYear+1, 1
			}
			more, err := s.provider.MonthSchedule(ctx, nextYear, nextMonth)
			if err != nil {
				s.logger.WarnContext(ctx, "fetch next month schedule failed, serving current month only",
					"year", nextYear,
					"month", nextMonth,
					"error", err,
				)
			} else {
				schedule = append(schedule, more...)
			}
		}

		matches := s.filterUpcoming(schedule, now, daysAhead)
		sortMatches(matches)

		return match.Page{
			Count:   len(matches),
			League:  "Premier League",
			Matches: matches,
		}, nil
	})
}

// TodayMatches lists Premier League matches kicking off today.
func (s *PremierLeagueService) TodayMatches(ctx context.Context) (match.Page, error) {
	return s.UpcomingMatches(ctx, 1)
}

func (s *PremierLeagueService) filterUpcoming(schedule []ScheduleMatch, now time.Time, daysAhead int) []match.Match {
	cutoff := now.AddDate(0, 0, daysAhead)

	matches := make([]match.Match, 0, len(schedule))
	for _, item := range schedule {
		if item.StatusState == "post" || item.StatusText == "FT" {
			continue
		}

		kickoff, err := localtime.ParseUTC(item.KickoffUTC)
		if err != nil {
			continue
		}
		if kickoff.Before(now) || kickoff.After(cutoff) {
			continue
		}

		formatted, ok := s.formatMatch(item)
		if !ok {
			continue
		}
		matches = append(matches, formatted)
	}

	return matches
}

// formatMatch maps a schedule entry onto the response model. The feed marks
// the home side with a flag; when no side is flagged the second entry is
// treated as home, matching the feed's observed ordering.
func (s *PremierLeagueService) formatMatch(item ScheduleMatch) (match.Match, bool) {
	if len(item.Teams) < 2 {
		return match.Match{}, false
	}

	home, away := item.Teams[1], item.Teams[0]
	for _, team := range item.Teams {
		if team.IsHome {
			home = team
			break
		}
	}
	for _, team := range item.Teams {
		if !team.IsHome {
			away = team
			break
		}
	}

	// filterUpcoming already parsed the kickoff, so conversion cannot fail
	// here.
	local, _ := s.converter.Convert(item.KickoffUTC)

	status := item.StatusText
	if status == "" {
		status = "Scheduled"
	}

	pl, _ := league.ByID(premierLeagueID)
	return match.Match{
		ID: item.ID,
		League: match.League{
			ID:      pl.ID,
			Name:    pl.Name,
			Country: pl.Country,
		},
		HomeTeam: match.Team{
			ID:    home.ID,
			Name:  home.Name,
			Short: home.Short,
			Logo:  home.Logo,
		},
		AwayTeam: match.Team{
			ID:    away.ID,
			Name:  away.Name,
			Short: away.Short,
			Logo:  away.Logo,
		},
		Kickoff: match.Kickoff{
			UTC:         item.KickoffUTC,
			SwedishTime: local.Clock,
			SwedishDate: local.Date,
			DayOfWeek:   local.DayOfWeek,
			Timezone:    local.Zone,
		},
		Venue: &match.Venue{
			Name: item.Venue.Name,
			City: item.Venue.City,
		},
		Status:            status,
		BroadcastChannels: s.broadcast.Channels(premierLeagueID),
	}, true
}
