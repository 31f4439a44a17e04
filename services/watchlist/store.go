// Package watchlist persists the set of movies each user has saved for
// later viewing. Two interchangeable backends implement the same contract:
// a relational table (sqlite or postgres) and device-local JSON files.
package watchlist

import (
	"context"

	"reelist/models"
)

// Store is the per-user watchlist contract. Every operation is scoped by a
// caller-supplied opaque user identity, which the store treats as an
// untyped partition key. An entry is either absent or present; Add and
// Remove are no-ops when the entry is already in the requested state.
type Store interface {
	// Get returns the movies saved by userID. Missing or corrupt backing
	// records yield an empty slice, not an error.
	Get(ctx context.Context, userID string) ([]models.Movie, error)

	// Add saves a full movie snapshot for userID. Adding an id that is
	// already present is a no-op; concurrent adds of the same (user, id)
	// pair never produce duplicates.
	Add(ctx context.Context, userID string, movie models.Movie) error

	// Remove deletes the entry for (userID, movieID) if present; absent
	// entries are a no-op, not an error.
	Remove(ctx context.Context, userID string, movieID int) error

	// Contains reports whether movieID is in userID's watchlist. It always
	// agrees with Get filtered by id.
	Contains(ctx context.Context, userID string, movieID int) (bool, error)

	// Clear removes every entry owned by userID.
	Clear(ctx context.Context, userID string) error
}
