package models

import (
	"strconv"
	"time"
)

// WatchlistEntry relates a user identity to a movie saved for later viewing.
// Movie is a denormalized snapshot taken at add time; it is never refreshed
// in place, so the watchlist renders without a second catalog fetch.
type WatchlistEntry struct {
	UserID  string    `json:"userId"`
	Movie   Movie     `json:"movie"`
	AddedAt time.Time `json:"addedAt"`
}

// Key returns the uniqueness key of the entry. There is at most one entry
// per (user, movie id) pair.
func (e WatchlistEntry) Key() string {
	return e.UserID + ":" + strconv.Itoa(e.Movie.ID)
}
