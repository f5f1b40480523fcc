package httpapi

import (
	"net/http"
	"strings"

	"github.com/w2wlabs/what2watch/internal/usecase"
)

func (h *Handler) GetShow(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetShow")
	defer span.End()

	showID := r.PathValue("showID")
	country := strings.TrimSpace(r.URL.Query().Get("country"))

	show, err := h.streamingService.Show(ctx, showID, country)
	if err != nil {
		h.logger.WarnContext(ctx, "get show failed", "show_id", showID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, showToDTO(show))
}

func (h *Handler) SearchShowsByTitle(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SearchShowsByTitle")
	defer span.End()

	q := r.URL.Query()
	shows, err := h.streamingService.SearchByTitle(ctx,
		strings.TrimSpace(q.Get("title")),
		strings.TrimSpace(q.Get("country")),
		strings.TrimSpace(q.Get("show_type")),
	)
	if err != nil {
		h.logger.WarnContext(ctx, "search shows by title failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, showsToDTO(shows))
}

func (h *Handler) SearchShowsByFilters(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SearchShowsByFilters")
	defer span.End()

	q := r.URL.Query()
	yearMin, err := queryInt(r, "year_min")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	yearMax, err := queryInt(r, "year_max")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	ratingMin, err := queryInt(r, "rating_min")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	ratingMax, err := queryInt(r, "rating_max")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	page, err := h.streamingService.SearchByFilters(ctx, usecase.CatalogSearch{
		Country:        strings.TrimSpace(q.Get("country")),
		ShowType:       strings.TrimSpace(q.Get("show_type")),
		Genres:         queryList(r, "genres"),
		Catalogs:       queryList(r, "catalogs"),
		Keyword:        strings.TrimSpace(q.Get("keyword")),
		OrderBy:        strings.TrimSpace(q.Get("order_by")),
		OrderDirection: strings.TrimSpace(q.Get("order_direction")),
		YearMin:        yearMin,
		YearMax:        yearMax,
		RatingMin:      ratingMin,
		RatingMax:      ratingMax,
		Cursor:         strings.TrimSpace(q.Get("cursor")),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "search shows by filters failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pageToDTO(page))
}

func (h *Handler) ListTrendingShows(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTrendingShows")
	defer span.End()

	q := r.URL.Query()
	page, err := h.streamingService.Trending(ctx,
		strings.TrimSpace(q.Get("country")),
		strings.TrimSpace(q.Get("show_type")),
		strings.TrimSpace(q.Get("period")),
		queryList(r, "catalogs"),
	)
	if err != nil {
		h.logger.WarnContext(ctx, "list trending shows failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pageToDTO(page))
}

func (h *Handler) ListStreamingChanges(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListStreamingChanges")
	defer span.End()

	q := r.URL.Query()
	changes, err := h.streamingService.Changes(ctx,
		strings.TrimSpace(q.Get("country")),
		strings.TrimSpace(q.Get("change_type")),
		strings.TrimSpace(q.Get("item_type")),
	)
	if err != nil {
		h.logger.WarnContext(ctx, "list streaming changes failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, changesToDTO(changes))
}

func (h *Handler) ListStreamingCountries(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListStreamingCountries")
	defer span.End()

	countries, err := h.streamingService.Countries(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list streaming countries failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, countries)
}

func (h *Handler) ListStreamingServices(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListStreamingServices")
	defer span.End()

	services, err := h.streamingService.Services(ctx, strings.TrimSpace(r.URL.Query().Get("country")))
	if err != nil {
		h.logger.WarnContext(ctx, "list streaming services failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, services)
}

func (h *Handler) ListStreamingGenres(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListStreamingGenres")
	defer span.End()

	genres, err := h.streamingService.Genres(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list streaming genres failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, genres)
}
