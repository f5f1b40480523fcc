package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/w2wlabs/what2watch/internal/domain/watchlist"
	qb "github.com/w2wlabs/what2watch/internal/platform/querybuilder"
)

type WatchlistRepository struct {
	db *sqlx.DB
}

func NewWatchlistRepository(db *sqlx.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

func (r *WatchlistRepository) Add(ctx context.Context, item watchlist.Item) error {
	query, args, err := qb.InsertInto("watchlist_items").
		Columns("public_id", "user_id", "kind", "content_id", "title", "note", "status", "created_at").
		Values(item.ID, item.UserID, item.Kind, item.ContentID, item.Title, item.Note, item.Status, item.CreatedAt).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert watchlist item query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert watchlist item: %w", err)
	}

	return nil
}

func (r *WatchlistRepository) ListByUser(ctx context.Context, userID string) ([]watchlist.Item, error) {
	query, args, err := qb.Select("*").From("watchlist_items").
		Where(qb.Eq("user_id", userID)).
		OrderBy("created_at DESC", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select watchlist query: %w", err)
	}

	var rows []watchlistTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select watchlist items: %w", err)
	}

	out := make([]watchlist.Item, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapWatchlistRow(row))
	}

	return out, nil
}

func (r *WatchlistRepository) GetByID(ctx context.Context, userID, itemID string) (watchlist.Item, bool, error) {
	query, args, err := qb.Select("*").From("watchlist_items").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("public_id", itemID),
		).
		ToSQL()
	if err != nil {
		return watchlist.Item{}, false, fmt.Errorf("build get watchlist item query: %w", err)
	}

	var row watchlistTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return watchlist.Item{}, false, nil
		}
		return watchlist.Item{}, false, fmt.Errorf("get watchlist item: %w", err)
	}

	return mapWatchlistRow(row), true, nil
}

func (r *WatchlistRepository) UpdateStatus(ctx context.Context, userID, itemID, status string) (bool, error) {
	query, args, err := qb.Update("watchlist_items").
		Set("status", status).
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("public_id", itemID),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build update watchlist status query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update watchlist status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read update result: %w", err)
	}

	return affected > 0, nil
}

func (r *WatchlistRepository) Delete(ctx context.Context, userID, itemID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM watchlist_items WHERE user_id = $1 AND public_id = $2",
		userID, itemID,
	)
	if err != nil {
		return false, fmt.Errorf("delete watchlist item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read delete result: %w", err)
	}

	return affected > 0, nil
}

func mapWatchlistRow(row watchlistTableModel) watchlist.Item {
	return watchlist.Item{
		ID:        row.PublicID,
		UserID:    row.UserID,
		Kind:      row.Kind,
		ContentID: row.ContentID,
		Title:     row.Title,
		Note:      row.Note,
		Status:    row.Status,
		CreatedAt: row.CreatedAt,
	}
}
