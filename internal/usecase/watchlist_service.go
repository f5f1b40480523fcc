package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/w2wlabs/what2watch/internal/domain/watchlist"
	"github.com/w2wlabs/what2watch/internal/platform/id"
)

// WatchlistService manages per-user saved content.
type WatchlistService struct {
	repo  watchlist.Repository
	idGen id.Generator
	now   func() time.Time
}

func NewWatchlistService(repo watchlist.Repository, idGen id.Generator) *WatchlistService {
	return &WatchlistService{
		repo:  repo,
		idGen: idGen,
		now:   time.Now,
	}
}

// AddItemInput is what callers provide when saving content.
type AddItemInput struct {
	UserID    string
	Kind      string
	ContentID string
	Title     string
	Note      string
}

// AddItem saves a piece of content to the user's watchlist. Saving the same
// content twice is rejected.
func (s *WatchlistService) AddItem(ctx context.Context, input AddItemInput) (watchlist.Item, error) {
	ctx, span := startUsecaseSpan(ctx, "WatchlistService.AddItem")
	defer span.End()

	item := watchlist.Item{
		UserID:    strings.TrimSpace(input.UserID),
		Kind:      strings.TrimSpace(input.Kind),
		ContentID: strings.TrimSpace(input.ContentID),
		Title:     strings.TrimSpace(input.Title),
		Note:      strings.TrimSpace(input.Note),
		Status:    watchlist.StatusQueued,
		CreatedAt: s.now().UTC(),
	}
	if err := item.Validate(); err != nil {
		return watchlist.Item{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	existing, err := s.repo.ListByUser(ctx, item.UserID)
	if err != nil {
		return watchlist.Item{}, fmt.Errorf("list watchlist: %w", err)
	}
	for _, other := range existing {
		if other.Kind == item.Kind && other.ContentID == item.ContentID {
			return watchlist.Item{}, fmt.Errorf("%w: content already on watchlist", ErrInvalidInput)
		}
	}

	newID, err := s.idGen.NewID()
	if err != nil {
		return watchlist.Item{}, fmt.Errorf("generate item id: %w", err)
	}
	item.ID = newID

	if err := s.repo.Add(ctx, item); err != nil {
		return watchlist.Item{}, fmt.Errorf("add watchlist item: %w", err)
	}

	return item, nil
}

// ListItems returns the user's watchlist, newest first.
func (s *WatchlistService) ListItems(ctx context.Context, userID string) ([]watchlist.Item, error) {
	ctx, span := startUsecaseSpan(ctx, "WatchlistService.ListItems")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}
	return items, nil
}

// UpdateItemStatus moves a saved item between the queued, watching and
// done states.
func (s *WatchlistService) UpdateItemStatus(ctx context.Context, userID, itemID, status string) (watchlist.Item, error) {
	ctx, span := startUsecaseSpan(ctx, "WatchlistService.UpdateItemStatus")
	defer span.End()

	userID = strings.TrimSpace(userID)
	itemID = strings.TrimSpace(itemID)
	status = strings.TrimSpace(status)
	if userID == "" {
		return watchlist.Item{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if itemID == "" {
		return watchlist.Item{}, fmt.Errorf("%w: item id is required", ErrInvalidInput)
	}
	if !watchlist.ValidStatus(status) {
		return watchlist.Item{}, fmt.Errorf("%w: status %q is not supported", ErrInvalidInput, status)
	}

	updated, err := s.repo.UpdateStatus(ctx, userID, itemID, status)
	if err != nil {
		return watchlist.Item{}, fmt.Errorf("update watchlist status: %w", err)
	}
	if !updated {
		return watchlist.Item{}, fmt.Errorf("%w: item=%s", ErrNotFound, itemID)
	}

	item, found, err := s.repo.GetByID(ctx, userID, itemID)
	if err != nil {
		return watchlist.Item{}, fmt.Errorf("reload watchlist item: %w", err)
	}
	if !found {
		return watchlist.Item{}, fmt.Errorf("%w: item=%s", ErrNotFound, itemID)
	}

	return item, nil
}

// RemoveItem deletes one saved item from the user's watchlist.
func (s *WatchlistService) RemoveItem(ctx context.Context, userID, itemID string) error {
	ctx, span := startUsecaseSpan(ctx, "WatchlistService.RemoveItem")
	defer span.End()

	userID = strings.TrimSpace(userID)
	itemID = strings.TrimSpace(itemID)
	if userID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if itemID == "" {
		return fmt.Errorf("%w: item id is required", ErrInvalidInput)
	}

	deleted, err := s.repo.Delete(ctx, userID, itemID)
	if err != nil {
		return fmt.Errorf("delete watchlist item: %w", err)
	}
	if !deleted {
		return fmt.Errorf("%w: item=%s", ErrNotFound, itemID)
	}

	return nil
}
