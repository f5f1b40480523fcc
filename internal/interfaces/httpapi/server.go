package httpapi

import (
	"net/http"

	"github.com/w2wlabs/what2watch/internal/platform/logging"
)

func NewRouter(
	handler *Handler,
	logger *logging.Logger,
	corsAllowedOrigins []string,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	registerFootballRoutes(mux, handler)
	registerStreamingRoutes(mux, handler)
	registerRecommendationRoutes(mux, handler)
	registerWatchlistRoutes(mux, handler)

	return RequestTracing(RequestLogging(logger, CORS(corsAllowedOrigins, recoverPanic(logger, mux))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerFootballRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/football/matches", handler.ListMatches)
	mux.HandleFunc("GET /v1/football/matches/today", handler.ListTodayMatches)
	mux.HandleFunc("GET /v1/football/matches/live", handler.ListLiveMatches)
	mux.HandleFunc("GET /v1/football/leagues/covered", handler.ListCoveredLeagues)
	mux.HandleFunc("GET /v1/football/leagues", handler.ListLeagues)
	mux.HandleFunc("GET /v1/football/broadcasts", handler.ListBroadcasts)
	mux.HandleFunc("GET /v1/football/teams", handler.SearchTeams)
	mux.HandleFunc("GET /v1/football/teams/{teamID}", handler.GetTeam)
	mux.HandleFunc("GET /v1/football/standings/{league}", handler.ListStandings)
	mux.HandleFunc("GET /v1/epl/upcoming", handler.ListUpcomingPremierLeague)
	mux.HandleFunc("GET /v1/epl/today", handler.ListTodayPremierLeague)
}

func registerStreamingRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/streaming/shows/{showID}", handler.GetShow)
	mux.HandleFunc("GET /v1/streaming/search/title", handler.SearchShowsByTitle)
	mux.HandleFunc("GET /v1/streaming/search/filters", handler.SearchShowsByFilters)
	mux.HandleFunc("GET /v1/streaming/trending", handler.ListTrendingShows)
	mux.HandleFunc("GET /v1/streaming/changes", handler.ListStreamingChanges)
	mux.HandleFunc("GET /v1/streaming/countries", handler.ListStreamingCountries)
	mux.HandleFunc("GET /v1/streaming/services", handler.ListStreamingServices)
	mux.HandleFunc("GET /v1/streaming/genres", handler.ListStreamingGenres)
}

func registerRecommendationRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/recommendations/search", handler.SearchRecommendations)
	mux.HandleFunc("GET /v1/recommendations/mood", handler.RecommendationsByMood)
	mux.HandleFunc("GET /v1/recommendations/genre", handler.RecommendationsByGenre)
}

func registerWatchlistRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/watchlist", handler.AddWatchlistItem)
	mux.HandleFunc("GET /v1/watchlist", handler.ListWatchlistItems)
	mux.HandleFunc("PATCH /v1/watchlist/{itemID}", handler.UpdateWatchlistItemStatus)
	mux.HandleFunc("DELETE /v1/watchlist/{itemID}", handler.RemoveWatchlistItem)
}
