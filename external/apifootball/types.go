package apifootball

import (
	"encoding/json"
	"strconv"
	"strings"
)

// envelope is the common API-Football response wrapper. The errors field
// is an empty array on success and an object keyed by parameter name on
// failure, so it is kept raw and inspected separately.
type envelope[T any] struct {
	Errors   json.RawMessage `json:"errors"`
	Results  int             `json:"results"`
	Response []T             `json:"response"`
}

func (e envelope[T]) providerError() (string, bool) {
	trimmed := strings.TrimSpace(string(e.Errors))
	if trimmed == "" || trimmed == "[]" || trimmed == "{}" || trimmed == "null" {
		return "", false
	}

	var byParam map[string]string
	if err := json.Unmarshal(e.Errors, &byParam); err != nil || len(byParam) == 0 {
		return trimmed, true
	}

	parts := make([]string, 0, len(byParam))
	for param, message := range byParam {
		parts = append(parts, param+": "+message)
	}
	return strings.Join(parts, "; "), true
}

type fixtureItem struct {
	Fixture struct {
		ID     int    `json:"id"`
		Date   string `json:"date"`
		Status struct {
			Short string `json:"short"`
		} `json:"status"`
	} `json:"fixture"`
	League leagueBlock `json:"league"`
	Teams  struct {
		Home teamBlock `json:"home"`
		Away teamBlock `json:"away"`
	} `json:"teams"`
	Goals struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	} `json:"goals"`
}

type leagueBlock struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Logo    string `json:"logo"`
	Season  int    `json:"season"`
}

type teamBlock struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo"`
}

type leagueItem struct {
	League  leagueBlock `json:"league"`
	Country struct {
		Name string `json:"name"`
	} `json:"country"`
	Seasons []struct {
		Year    int  `json:"year"`
		Current bool `json:"current"`
	} `json:"seasons"`
}

type teamItem struct {
	Team teamBlock `json:"team"`
}

type standingsItem struct {
	League struct {
		ID        int              `json:"id"`
		Standings [][]standingsRow `json:"standings"`
	} `json:"league"`
}

type standingsRow struct {
	Rank      int       `json:"rank"`
	Team      teamBlock `json:"team"`
	Points    int       `json:"points"`
	GoalsDiff int       `json:"goalsDiff"`
	Form      string    `json:"form"`
	Update    string    `json:"update"`
	All       struct {
		Played int `json:"played"`
		Win    int `json:"win"`
		Draw   int `json:"draw"`
		Lose   int `json:"lose"`
	} `json:"all"`
}

func itoa(v int) string {
	return strconv.Itoa(v)
}
