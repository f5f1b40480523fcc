package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/w2wlabs/what2watch/internal/domain/watchlist"
	"github.com/w2wlabs/what2watch/internal/infrastructure/repository/memory"
	"github.com/w2wlabs/what2watch/internal/platform/id"
)

func newTestWatchlistService() *WatchlistService {
	return NewWatchlistService(memory.NewWatchlistRepository(), id.NewRandomGenerator())
}

func TestAddItem_ValidatesInput(t *testing.T) {
	t.Parallel()

	svc := newTestWatchlistService()

	cases := []AddItemInput{
		{Kind: watchlist.KindShow, ContentID: "tt1", Title: "Dark"},
		{UserID: "u1", Kind: "podcast", ContentID: "tt1", Title: "Dark"},
		{UserID: "u1", Kind: watchlist.KindShow, Title: "Dark"},
		{UserID: "u1", Kind: watchlist.KindShow, ContentID: "tt1"},
	}
	for i, input := range cases {
		if _, err := svc.AddItem(context.Background(), input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestAddItem_RejectsDuplicates(t *testing.T) {
	t.Parallel()

	svc := newTestWatchlistService()
	input := AddItemInput{
		UserID:    "u1",
		Kind:      watchlist.KindMovie,
		ContentID: "tt0111161",
		Title:     "The Shawshank Redemption",
	}

	item, err := svc.AddItem(context.Background(), input)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if item.ID == "" {
		t.Fatal("item id not generated")
	}
	if item.CreatedAt.IsZero() {
		t.Fatal("created at not set")
	}

	if _, err := svc.AddItem(context.Background(), input); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected duplicate rejection, got %v", err)
	}

	// Same content under a different kind is a different entry.
	input.Kind = watchlist.KindShow
	if _, err := svc.AddItem(context.Background(), input); err != nil {
		t.Fatalf("AddItem different kind: %v", err)
	}
}

func TestListItems_ScopedToUser(t *testing.T) {
	t.Parallel()

	svc := newTestWatchlistService()

	if _, err := svc.ListItems(context.Background(), ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	for _, input := range []AddItemInput{
		{UserID: "u1", Kind: watchlist.KindShow, ContentID: "s1", Title: "Dark"},
		{UserID: "u1", Kind: watchlist.KindMatch, ContentID: "m1", Title: "Arsenal vs Chelsea"},
		{UserID: "u2", Kind: watchlist.KindMovie, ContentID: "f1", Title: "Heat"},
	} {
		if _, err := svc.AddItem(context.Background(), input); err != nil {
			t.Fatalf("AddItem %+v: %v", input, err)
		}
	}

	items, err := svc.ListItems(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items", len(items))
	}
	for _, item := range items {
		if item.UserID != "u1" {
			t.Fatalf("foreign item leaked: %+v", item)
		}
	}
}

func TestUpdateItemStatus(t *testing.T) {
	t.Parallel()

	svc := newTestWatchlistService()

	item, err := svc.AddItem(context.Background(), AddItemInput{
		UserID:    "u1",
		Kind:      watchlist.KindShow,
		ContentID: "s1",
		Title:     "Dark",
	})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if item.Status != watchlist.StatusQueued {
		t.Fatalf("new item status %q, want queued", item.Status)
	}

	if _, err := svc.UpdateItemStatus(context.Background(), "u1", item.ID, "binged"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.UpdateItemStatus(context.Background(), "u2", item.ID, watchlist.StatusDone); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign user, got %v", err)
	}

	updated, err := svc.UpdateItemStatus(context.Background(), "u1", item.ID, watchlist.StatusWatching)
	if err != nil {
		t.Fatalf("UpdateItemStatus: %v", err)
	}
	if updated.Status != watchlist.StatusWatching {
		t.Fatalf("status %q, want watching", updated.Status)
	}
}

func TestRemoveItem(t *testing.T) {
	t.Parallel()

	svc := newTestWatchlistService()

	item, err := svc.AddItem(context.Background(), AddItemInput{
		UserID:    "u1",
		Kind:      watchlist.KindShow,
		ContentID: "s1",
		Title:     "Dark",
	})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	if err := svc.RemoveItem(context.Background(), "u2", item.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign user, got %v", err)
	}
	if err := svc.RemoveItem(context.Background(), "u1", item.ID); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if err := svc.RemoveItem(context.Background(), "u1", item.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	items, err := svc.ListItems(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("items remain: %+v", items)
	}
}
