package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/w2wlabs/what2watch/internal/domain/watchlist"
)

type WatchlistRepository struct {
	mu    sync.RWMutex
	items map[string][]watchlist.Item
}

func NewWatchlistRepository() *WatchlistRepository {
	return &WatchlistRepository{
		items: make(map[string][]watchlist.Item),
	}
}

func (r *WatchlistRepository) Add(_ context.Context, item watchlist.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.UserID] = append(r.items[item.UserID], item)
	return nil
}

func (r *WatchlistRepository) ListByUser(_ context.Context, userID string) ([]watchlist.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.items[userID]
	out := make([]watchlist.Item, len(stored))
	copy(out, stored)

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}

func (r *WatchlistRepository) GetByID(_ context.Context, userID, itemID string) (watchlist.Item, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items[userID] {
		if item.ID == itemID {
			return item, true, nil
		}
	}

	return watchlist.Item{}, false, nil
}

func (r *WatchlistRepository) UpdateStatus(_ context.Context, userID, itemID, status string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := r.items[userID]
	for i, item := range stored {
		if item.ID == itemID {
			stored[i].Status = status
			return true, nil
		}
	}

	return false, nil
}

func (r *WatchlistRepository) Delete(_ context.Context, userID, itemID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := r.items[userID]
	for i, item := range stored {
		if item.ID == itemID {
			r.items[userID] = append(stored[:i], stored[i+1:]...)
			return true, nil
		}
	}

	return false, nil
}
