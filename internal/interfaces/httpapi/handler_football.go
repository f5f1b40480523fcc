package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/w2wlabs/what2watch/internal/usecase"
)

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	daysAhead, err := queryInt(r, "days_ahead")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	page, err := h.matchService.Matches(ctx, usecase.MatchQuery{
		Date:      strings.TrimSpace(r.URL.Query().Get("date")),
		League:    strings.TrimSpace(r.URL.Query().Get("league")),
		DaysAhead: daysAhead,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "list matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, page)
}

func (h *Handler) ListTodayMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTodayMatches")
	defer span.End()

	page, err := h.matchService.TodayMatches(ctx, strings.TrimSpace(r.URL.Query().Get("league")))
	if err != nil {
		h.logger.WarnContext(ctx, "list today matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, page)
}

func (h *Handler) ListLiveMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLiveMatches")
	defer span.End()

	page, err := h.matchService.LiveMatches(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list live matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, page)
}

func (h *Handler) ListCoveredLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCoveredLeagues")
	defer span.End()

	leagues := h.footballMeta.CoveredLeagues()
	items := make([]coveredLeagueDTO, 0, len(leagues))
	for _, l := range leagues {
		items = append(items, coveredLeagueDTO{
			Key:     l.Key,
			ID:      l.ID,
			Name:    l.Name,
			Country: l.Country,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListBroadcasts(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListBroadcasts")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, broadcastGuideToDTO(h.footballMeta.Broadcasts()))
}

func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagues")
	defer span.End()

	leagues, err := h.footballMeta.Leagues(ctx, strings.TrimSpace(r.URL.Query().Get("country")))
	if err != nil {
		h.logger.WarnContext(ctx, "list leagues failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leagueDTO, 0, len(leagues))
	for _, l := range leagues {
		items = append(items, leagueToDTO(l))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeam")
	defer span.End()

	teamID, err := strconv.Atoi(r.PathValue("teamID"))
	if err != nil {
		writeError(ctx, w, usecase.ErrInvalidInput)
		return
	}

	team, err := h.footballMeta.Team(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "get team failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(team))
}

func (h *Handler) SearchTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SearchTeams")
	defer span.End()

	teams, err := h.footballMeta.SearchTeams(ctx, strings.TrimSpace(r.URL.Query().Get("search")))
	if err != nil {
		h.logger.WarnContext(ctx, "search teams failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamToDTO(t))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListStandings")
	defer span.End()

	leagueKey := r.PathValue("league")
	rows, err := h.footballMeta.Standings(ctx, leagueKey)
	if err != nil {
		h.logger.WarnContext(ctx, "list standings failed", "league", leagueKey, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]standingDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, standingToDTO(row))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListUpcomingPremierLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUpcomingPremierLeague")
	defer span.End()

	daysAhead, err := queryInt(r, "days_ahead")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	page, err := h.premierLeague.UpcomingMatches(ctx, daysAhead)
	if err != nil {
		h.logger.WarnContext(ctx, "list upcoming premier league failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, page)
}

func (h *Handler) ListTodayPremierLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTodayPremierLeague")
	defer span.End()

	page, err := h.premierLeague.TodayMatches(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list today premier league failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, page)
}
