package usecase

import "context"

// UpstreamLeague is the league block attached to a raw fixture.
type UpstreamLeague struct {
	ID      int
	Name    string
	Country string
	Logo    string
	Season  int
}

// UpstreamTeam is one participant of a raw fixture.
type UpstreamTeam struct {
	ID   int
	Name string
	Logo string
}

// UpstreamFixture is a fixture as the football data provider reports it,
// before local time and broadcast enrichment.
type UpstreamFixture struct {
	ID          int
	KickoffUTC  string
	StatusShort string
	League      UpstreamLeague
	Home        UpstreamTeam
	Away        UpstreamTeam
	HomeGoals   *int
	AwayGoals   *int
}

// UpstreamStanding is one row of a league table.
type UpstreamStanding struct {
	Rank        int
	Team        UpstreamTeam
	Points      int
	GoalsDiff   int
	Played      int
	Won         int
	Drawn       int
	Lost        int
	Form        string
	LastUpdated string
}

// FixtureQuery narrows a fixture fetch. Zero fields are omitted from the
// upstream call.
type FixtureQuery struct {
	LeagueID int
	Season   int
	Date     string
	TeamID   int
	Status   string
	Next     int
}

// FixtureProvider is the football data dependency of the aggregation
// services.
type FixtureProvider interface {
	Fixtures(ctx context.Context, q FixtureQuery) ([]UpstreamFixture, error)
	Leagues(ctx context.Context, country string, season int) ([]UpstreamLeague, error)
	Team(ctx context.Context, teamID int) (UpstreamTeam, bool, error)
	SearchTeams(ctx context.Context, name string) ([]UpstreamTeam, error)
	Standings(ctx context.Context, leagueID, season int) ([]UpstreamStanding, error)
}

// ScheduleTeam is one side of a match in the monthly Premier League
// schedule feed.
type ScheduleTeam struct {
	ID     int
	Name   string
	Short  string
	Logo   string
	IsHome bool
}

// ScheduleVenue is where a scheduled match is played.
type ScheduleVenue struct {
	Name string
	City string
}

// ScheduleMatch is one entry of the monthly schedule feed. Teams holds both
// sides; the feed marks the home side with a flag instead of ordering.
type ScheduleMatch struct {
	ID          int
	KickoffUTC  string
	StatusState string
	StatusText  string
	Teams       []ScheduleTeam
	Venue       ScheduleVenue
}

// ScheduleProvider serves the month-keyed Premier League schedule.
type ScheduleProvider interface {
	MonthSchedule(ctx context.Context, year int, month int) ([]ScheduleMatch, error)
}

// CatalogShow is a title in the streaming catalog.
type CatalogShow struct {
	ID           string
	IMDBID       string
	TMDBID       string
	Title        string
	ShowType     string
	Overview     string
	ReleaseYear  int
	FirstAirYear int
	Rating       int
	Genres       []string
	ImageURL     string
	StreamingOn  []CatalogOffer
}

// CatalogOffer is one place a show can be streamed.
type CatalogOffer struct {
	Service    string
	AccessType string
	Quality    string
	Link       string
}

// CatalogSearch narrows a catalog search.
type CatalogSearch struct {
	Title          string
	Country        string
	ShowType       string
	Genres         []string
	Catalogs       []string
	Keyword        string
	OrderBy        string
	OrderDirection string
	YearMin        int
	YearMax        int
	RatingMin      int
	RatingMax      int
	Cursor         string
}

// CatalogPage is one page of catalog search results.
type CatalogPage struct {
	Shows      []CatalogShow
	NextCursor string
	HasMore    bool
}

// CatalogChange is one title entering or leaving a streaming service.
type CatalogChange struct {
	ChangeType string
	Service    string
	Timestamp  int64
	Show       CatalogShow
}

// CatalogProvider is the streaming availability dependency.
type CatalogProvider interface {
	Show(ctx context.Context, showID, country string) (CatalogShow, bool, error)
	SearchByTitle(ctx context.Context, title, country, showType string) ([]CatalogShow, error)
	SearchByFilters(ctx context.Context, q CatalogSearch) (CatalogPage, error)
	Changes(ctx context.Context, country, changeType, itemType string) ([]CatalogChange, error)
	Countries(ctx context.Context) ([]string, error)
	Services(ctx context.Context, country string) ([]string, error)
	Genres(ctx context.Context) ([]string, error)
}

// Recommendation is a movie suggestion from the recommender.
type Recommendation struct {
	Title       string
	Year        int
	Description string
	IMDBID      string
	TMDBID      string
}

// RecommendProvider is the movie recommender dependency.
type RecommendProvider interface {
	Search(ctx context.Context, query string) ([]Recommendation, error)
}
