package httpapi

import (
	"time"

	"github.com/w2wlabs/what2watch/internal/domain/watchlist"
	"github.com/w2wlabs/what2watch/internal/usecase"
)

type coveredLeagueDTO struct {
	Key     string `json:"key"`
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

type leagueDTO struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Logo    string `json:"logo,omitempty"`
	Season  int    `json:"season,omitempty"`
}

type teamDTO struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
}

type standingDTO struct {
	Rank        int     `json:"rank"`
	Team        teamDTO `json:"team"`
	Points      int     `json:"points"`
	GoalsDiff   int     `json:"goals_diff"`
	Played      int     `json:"played"`
	Won         int     `json:"won"`
	Drawn       int     `json:"drawn"`
	Lost        int     `json:"lost"`
	Form        string  `json:"form,omitempty"`
	LastUpdated string  `json:"last_updated,omitempty"`
}

type leagueBroadcastDTO struct {
	League   coveredLeagueDTO `json:"league"`
	Channels []string         `json:"channels"`
}

type broadcastGuideDTO struct {
	Leagues     []leagueBroadcastDTO `json:"leagues"`
	AllChannels []string             `json:"all_channels"`
}

type catalogChangeDTO struct {
	ChangeType string  `json:"change_type"`
	Service    string  `json:"service,omitempty"`
	Timestamp  int64   `json:"timestamp,omitempty"`
	Show       showDTO `json:"show"`
}

type showDTO struct {
	ID           string     `json:"id"`
	IMDBID       string     `json:"imdb_id,omitempty"`
	TMDBID       string     `json:"tmdb_id,omitempty"`
	Title        string     `json:"title"`
	ShowType     string     `json:"show_type,omitempty"`
	Overview     string     `json:"overview,omitempty"`
	ReleaseYear  int        `json:"release_year,omitempty"`
	FirstAirYear int        `json:"first_air_year,omitempty"`
	Rating       int        `json:"rating,omitempty"`
	Genres       []string   `json:"genres,omitempty"`
	ImageURL     string     `json:"image_url,omitempty"`
	StreamingOn  []offerDTO `json:"streaming_on"`
}

type offerDTO struct {
	Service    string `json:"service"`
	AccessType string `json:"access_type,omitempty"`
	Quality    string `json:"quality,omitempty"`
	Link       string `json:"link,omitempty"`
}

type showPageDTO struct {
	Shows      []showDTO `json:"shows"`
	HasMore    bool      `json:"has_more"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

type recommendationDTO struct {
	Title       string `json:"title"`
	Year        int    `json:"year,omitempty"`
	Description string `json:"description,omitempty"`
	IMDBID      string `json:"imdb_id,omitempty"`
	TMDBID      string `json:"tmdb_id,omitempty"`
}

type watchlistItemDTO struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	ContentID string    `json:"content_id"`
	Title     string    `json:"title"`
	Note      string    `json:"note,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func leagueToDTO(l usecase.UpstreamLeague) leagueDTO {
	return leagueDTO{
		ID:      l.ID,
		Name:    l.Name,
		Country: l.Country,
		Logo:    l.Logo,
		Season:  l.Season,
	}
}

func teamToDTO(t usecase.UpstreamTeam) teamDTO {
	return teamDTO{ID: t.ID, Name: t.Name, Logo: t.Logo}
}

func standingToDTO(s usecase.UpstreamStanding) standingDTO {
	return standingDTO{
		Rank:        s.Rank,
		Team:        teamToDTO(s.Team),
		Points:      s.Points,
		GoalsDiff:   s.GoalsDiff,
		Played:      s.Played,
		Won:         s.Won,
		Drawn:       s.Drawn,
		Lost:        s.Lost,
		Form:        s.Form,
		LastUpdated: s.LastUpdated,
	}
}

func broadcastGuideToDTO(guide usecase.BroadcastGuide) broadcastGuideDTO {
	leagues := make([]leagueBroadcastDTO, 0, len(guide.Leagues))
	for _, entry := range guide.Leagues {
		leagues = append(leagues, leagueBroadcastDTO{
			League: coveredLeagueDTO{
				Key:     entry.League.Key,
				ID:      entry.League.ID,
				Name:    entry.League.Name,
				Country: entry.League.Country,
			},
			Channels: entry.Channels,
		})
	}
	return broadcastGuideDTO{Leagues: leagues, AllChannels: guide.AllChannels}
}

func changesToDTO(changes []usecase.CatalogChange) []catalogChangeDTO {
	items := make([]catalogChangeDTO, 0, len(changes))
	for _, change := range changes {
		items = append(items, catalogChangeDTO{
			ChangeType: change.ChangeType,
			Service:    change.Service,
			Timestamp:  change.Timestamp,
			Show:       showToDTO(change.Show),
		})
	}
	return items
}

func showToDTO(s usecase.CatalogShow) showDTO {
	offers := make([]offerDTO, 0, len(s.StreamingOn))
	for _, offer := range s.StreamingOn {
		offers = append(offers, offerDTO{
			Service:    offer.Service,
			AccessType: offer.AccessType,
			Quality:    offer.Quality,
			Link:       offer.Link,
		})
	}

	return showDTO{
		ID:           s.ID,
		IMDBID:       s.IMDBID,
		TMDBID:       s.TMDBID,
		Title:        s.Title,
		ShowType:     s.ShowType,
		Overview:     s.Overview,
		ReleaseYear:  s.ReleaseYear,
		FirstAirYear: s.FirstAirYear,
		Rating:       s.Rating,
		Genres:       s.Genres,
		ImageURL:     s.ImageURL,
		StreamingOn:  offers,
	}
}

func showsToDTO(shows []usecase.CatalogShow) []showDTO {
	items := make([]showDTO, 0, len(shows))
	for _, show := range shows {
		items = append(items, showToDTO(show))
	}
	return items
}

func pageToDTO(page usecase.CatalogPage) showPageDTO {
	return showPageDTO{
		Shows:      showsToDTO(page.Shows),
		HasMore:    page.HasMore,
		NextCursor: page.NextCursor,
	}
}

func recommendationsToDTO(recs []usecase.Recommendation) []recommendationDTO {
	items := make([]recommendationDTO, 0, len(recs))
	for _, rec := range recs {
		items = append(items, recommendationDTO{
			Title:       rec.Title,
			Year:        rec.Year,
			Description: rec.Description,
			IMDBID:      rec.IMDBID,
			TMDBID:      rec.TMDBID,
		})
	}
	return items
}

func watchlistItemToDTO(item watchlist.Item) watchlistItemDTO {
	return watchlistItemDTO{
		ID:        item.ID,
		Kind:      item.Kind,
		ContentID: item.ContentID,
		Title:     item.Title,
		Note:      item.Note,
		Status:    item.Status,
		CreatedAt: item.CreatedAt,
	}
}
