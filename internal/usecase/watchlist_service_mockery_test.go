package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/w2wlabs/what2watch/internal/domain/watchlist"
	watchlistmock "github.com/w2wlabs/what2watch/internal/mocks/domain/watchlist"
	idgen "github.com/w2wlabs/what2watch/internal/platform/id"
)

func TestWatchlistService_AddItem_SuccessUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := watchlistmock.NewRepository(t)
	service := NewWatchlistService(repo, idgen.NewRandomGenerator())

	repo.
		On("ListByUser", mock.Anything, "user-1").
		Return([]watchlist.Item{}, nil).
		Once()
	repo.
		On("Add", mock.Anything, mock.MatchedBy(func(item watchlist.Item) bool {
			return item.ID != "" && item.UserID == "user-1" && item.ContentID == "tt0111161"
		})).
		Return(nil).
		Once()

	item, err := service.AddItem(ctx, AddItemInput{
		UserID:    "user-1",
		Kind:      "movie",
		ContentID: "tt0111161",
		Title:     "The Shawshank Redemption",
	})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if item.ID == "" {
		t.Fatalf("expected generated item id")
	}
}

func TestWatchlistService_RemoveItem_RepositoryErrorUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := watchlistmock.NewRepository(t)
	service := NewWatchlistService(repo, idgen.NewRandomGenerator())

	repoErr := errors.New("connection reset")
	repo.
		On("Delete", mock.Anything, "user-1", "item-9").
		Return(false, repoErr).
		Once()

	err := service.RemoveItem(ctx, "user-1", "item-9")
	if err == nil {
		t.Fatalf("expected error from repository")
	}
	if !errors.Is(err, repoErr) {
		t.Fatalf("expected wrapped repository error, got %v", err)
	}
}
