package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/w2wlabs/what2watch/internal/usecase"
)

const userIDHeader = "X-User-ID"

type addWatchlistItemRequest struct {
	Kind      string `json:"kind" validate:"required,oneof=show movie match"`
	ContentID string `json:"content_id" validate:"required"`
	Title     string `json:"title" validate:"required"`
	Note      string `json:"note"`
}

// userID pulls the caller identity from the X-User-ID header. The
// watchlist has no account system behind it; the header is the scope key.
func userID(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.Header.Get(userIDHeader))
	if id == "" {
		return "", fmt.Errorf("%w: missing %s header", usecase.ErrUnauthorized, userIDHeader)
	}
	return id, nil
}

func (h *Handler) AddWatchlistItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddWatchlistItem")
	defer span.End()

	uid, err := userID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req addWatchlistItemRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: malformed request body", usecase.ErrInvalidInput))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	item, err := h.watchlistService.AddItem(ctx, usecase.AddItemInput{
		UserID:    uid,
		Kind:      req.Kind,
		ContentID: req.ContentID,
		Title:     req.Title,
		Note:      req.Note,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "add watchlist item failed", "user_id", uid, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, watchlistItemToDTO(item))
}

func (h *Handler) ListWatchlistItems(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListWatchlistItems")
	defer span.End()

	uid, err := userID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.watchlistService.ListItems(ctx, uid)
	if err != nil {
		h.logger.WarnContext(ctx, "list watchlist items failed", "user_id", uid, "error", err)
		writeError(ctx, w, err)
		return
	}

	dtos := make([]watchlistItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, watchlistItemToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, dtos)
}

type updateWatchlistStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=queued watching done"`
}

func (h *Handler) UpdateWatchlistItemStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateWatchlistItemStatus")
	defer span.End()

	uid, err := userID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req updateWatchlistStatusRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: malformed request body", usecase.ErrInvalidInput))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	itemID := r.PathValue("itemID")
	item, err := h.watchlistService.UpdateItemStatus(ctx, uid, itemID, req.Status)
	if err != nil {
		h.logger.WarnContext(ctx, "update watchlist status failed", "user_id", uid, "item_id", itemID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, watchlistItemToDTO(item))
}

func (h *Handler) RemoveWatchlistItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RemoveWatchlistItem")
	defer span.End()

	uid, err := userID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	itemID := r.PathValue("itemID")
	if err := h.watchlistService.RemoveItem(ctx, uid, itemID); err != nil {
		h.logger.WarnContext(ctx, "remove watchlist item failed", "user_id", uid, "item_id", itemID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}
