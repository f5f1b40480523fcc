package match

// League identifies the competition a match belongs to.
type League struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Logo    string `json:"logo"`
}

// Team is one side of a fixture. Short is only set by feeds that carry
// abbreviated names.
type Team struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Short string `json:"short_name,omitempty"`
	Logo  string `json:"logo"`
}

// Venue is where a match is played.
type Venue struct {
	Name string `json:"name"`
	City string `json:"city"`
}

// Kickoff carries the raw UTC timestamp alongside its Swedish rendering.
type Kickoff struct {
	UTC         string `json:"utc"`
	SwedishTime string `json:"swedish_time"`
	SwedishDate string `json:"swedish_date"`
	DayOfWeek   string `json:"day_of_week"`
	Timezone    string `json:"timezone"`
}

// Score uses pointers because matches that have not started have no goals
// and must serialize as null rather than zero.
type Score struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

// Match is a fixture enriched with local kickoff time and broadcast info.
type Match struct {
	ID                int      `json:"id"`
	League            League   `json:"league"`
	HomeTeam          Team     `json:"home_team"`
	AwayTeam          Team     `json:"away_team"`
	Kickoff           Kickoff  `json:"kickoff"`
	Venue             *Venue   `json:"venue,omitempty"`
	Status            string   `json:"status"`
	Score             *Score   `json:"score,omitempty"`
	BroadcastChannels []string `json:"broadcast_channels"`
}

// Filters echoes the query parameters a match listing was built from. The
// fields are pointers so unused filters serialize as null.
type Filters struct {
	Date      *string `json:"date"`
	League    *string `json:"league"`
	DaysAhead *int    `json:"days_ahead"`
}

// Page is the aggregated listing returned to clients. Error is set instead
// of Matches when the request itself was invalid. League is only set by
// single-league feeds.
type Page struct {
	Count   int      `json:"count"`
	League  string   `json:"league,omitempty"`
	Filters *Filters `json:"filters,omitempty"`
	Matches []Match  `json:"matches"`
	Error   string   `json:"error,omitempty"`
}
