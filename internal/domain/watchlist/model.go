package watchlist

import (
	"fmt"
	"time"
)

// Content kinds a watchlist item can point at.
const (
	KindShow  = "show"
	KindMovie = "movie"
	KindMatch = "match"
)

// Progress states of a saved item.
const (
	StatusQueued   = "queued"
	StatusWatching = "watching"
	StatusDone     = "done"
)

// ValidStatus reports whether s is one of the recognised progress states.
func ValidStatus(s string) bool {
	switch s {
	case StatusQueued, StatusWatching, StatusDone:
		return true
	}
	return false
}

// Item is a piece of content a user saved for later.
type Item struct {
	ID        string
	UserID    string
	Kind      string
	ContentID string
	Title     string
	Note      string
	Status    string
	CreatedAt time.Time
}

func (i Item) Validate() error {
	if i.UserID == "" {
		return fmt.Errorf("watchlist user id is required")
	}
	if i.ContentID == "" {
		return fmt.Errorf("watchlist content id is required")
	}
	if i.Title == "" {
		return fmt.Errorf("watchlist title is required")
	}
	switch i.Kind {
	case KindShow, KindMovie, KindMatch:
	default:
		return fmt.Errorf("watchlist kind %q is not supported", i.Kind)
	}
	if !ValidStatus(i.Status) {
		return fmt.Errorf("watchlist status %q is not supported", i.Status)
	}

	return nil
}
