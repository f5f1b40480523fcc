package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/w2wlabs/what2watch/internal/platform/logging"
	"github.com/w2wlabs/what2watch/internal/usecase"
)

type Handler struct {
	matchService     *usecase.MatchService
	premierLeague    *usecase.PremierLeagueService
	footballMeta     *usecase.FootballMetaService
	streamingService *usecase.StreamingService
	recommendService *usecase.RecommendService
	watchlistService *usecase.WatchlistService
	logger           *logging.Logger
	validator        *validator.Validate
}

func NewHandler(
	matchService *usecase.MatchService,
	premierLeague *usecase.PremierLeagueService,
	footballMeta *usecase.FootballMetaService,
	streamingService *usecase.StreamingService,
	recommendService *usecase.RecommendService,
	watchlistService *usecase.WatchlistService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		matchService:     matchService,
		premierLeague:    premierLeague,
		footballMeta:     footballMeta,
		streamingService: streamingService,
		recommendService: recommendService,
		watchlistService: watchlistService,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// queryInt reads an optional integer query parameter. A malformed value
// is an input error rather than a silent default.
func queryInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", usecase.ErrInvalidInput, name)
	}
	return value, nil
}

// queryList splits a comma-separated query parameter, dropping empty
// segments.
func queryList(r *http.Request, name string) []string {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
