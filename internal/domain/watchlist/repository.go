package watchlist

import "context"

// Repository describes watchlist persistence needs from use cases.
type Repository interface {
	Add(ctx context.Context, item Item) error
	ListByUser(ctx context.Context, userID string) ([]Item, error)
	GetByID(ctx context.Context, userID, itemID string) (Item, bool, error)
	UpdateStatus(ctx context.Context, userID, itemID, status string) (bool, error)
	Delete(ctx context.Context, userID, itemID string) (bool, error)
}
