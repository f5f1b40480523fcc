package postgres

import "time"

type watchlistTableModel struct {
	ID        int64     `db:"id"`
	PublicID  string    `db:"public_id"`
	UserID    string    `db:"user_id"`
	Kind      string    `db:"kind"`
	ContentID string    `db:"content_id"`
	Title     string    `db:"title"`
	Note      string    `db:"note"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}
