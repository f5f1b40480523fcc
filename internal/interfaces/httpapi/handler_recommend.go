package httpapi

import (
	"net/http"
	"strings"
)

func (h *Handler) SearchRecommendations(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SearchRecommendations")
	defer span.End()

	recs, err := h.recommendService.Search(ctx, strings.TrimSpace(r.URL.Query().Get("q")))
	if err != nil {
		h.logger.WarnContext(ctx, "search recommendations failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, recommendationsToDTO(recs))
}

func (h *Handler) RecommendationsByMood(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecommendationsByMood")
	defer span.End()

	q := r.URL.Query()
	recs, err := h.recommendService.ByMood(ctx,
		strings.TrimSpace(q.Get("mood")),
		strings.TrimSpace(q.Get("decade")),
	)
	if err != nil {
		h.logger.WarnContext(ctx, "recommendations by mood failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, recommendationsToDTO(recs))
}

func (h *Handler) RecommendationsByGenre(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecommendationsByGenre")
	defer span.End()

	year, err := queryInt(r, "year")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	recs, err := h.recommendService.ByGenre(ctx, strings.TrimSpace(r.URL.Query().Get("genre")), year)
	if err != nil {
		h.logger.WarnContext(ctx, "recommendations by genre failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, recommendationsToDTO(recs))
}
