package league

import "time"

// League is one of the five European leagues the aggregator serves.
type League struct {
	Key     string
	ID      int
	Name    string
	Country string
}

// top5 is the full coverage set. Order matters: callers iterate it when no
// league filter is given, and responses list leagues in this order.
var top5 = []League{
	{Key: "premier_league", ID: 39, Name: "Premier League", Country: "England"},
	{Key: "la_liga", ID: 140, Name: "La Liga", Country: "Spain"},
	{Key: "bundesliga", ID: 78, Name: "Bundesliga", Country: "Germany"},
	{Key: "serie_a", ID: 135, Name: "Serie A", Country: "Italy"},
	{Key: "ligue_1", ID: 61, Name: "Ligue 1", Country: "France"},
}

// All returns the supported leagues in canonical order.
func All() []League {
	out := make([]League, len(top5))
	copy(out, top5)
	return out
}

// Keys returns the valid league filter keys in canonical order.
func Keys() []string {
	keys := make([]string, 0, len(top5))
	for _, l := range top5 {
		keys = append(keys, l.Key)
	}
	return keys
}

// ByKey resolves a league filter key such as "premier_league".
func ByKey(key string) (League, bool) {
	for _, l := range top5 {
		if l.Key == key {
			return l, true
		}
	}
	return League{}, false
}

// ByID resolves an upstream league identifier.
func ByID(id int) (League, bool) {
	for _, l := range top5 {
		if l.ID == id {
			return l, true
		}
	}
	return League{}, false
}

// Covered reports whether the upstream league id is in the coverage set.
func Covered(id int) bool {
	_, ok := ByID(id)
	return ok
}

// SeasonYear returns the starting year of the football season that contains
// now. Seasons span two calendar years and start in August, so January
// through July belong to the season that started the previous year.
func SeasonYear(now time.Time) int {
	if now.Month() < time.August {
		return now.Year() - 1
	}
	return now.Year()
}
