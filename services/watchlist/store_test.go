package watchlist_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"reelist/internal/database"
	"reelist/models"
	"reelist/services/watchlist"
)

func strptr(s string) *string { return &s }

func testMovie(id int, title string) models.Movie {
	return models.Movie{
		ID:          id,
		Title:       title,
		Overview:    "overview of " + title,
		PosterPath:  strptr("/p.jpg"),
		VoteAverage: 7.5,
		VoteCount:   1200,
	}
}

// both backends must satisfy the same contract, so every test runs against
// each of them.
func forEachStore(t *testing.T, fn func(t *testing.T, store watchlist.Store)) {
	t.Run("sql", func(t *testing.T) {
		db, err := database.New(database.Config{
			Driver: "sqlite3",
			DSN:    filepath.Join(t.TempDir(), "watchlist.db"),
		})
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })
		fn(t, watchlist.NewSQLStore(db))
	})
	t.Run("local", func(t *testing.T) {
		store, err := watchlist.NewLocalStore(afero.NewMemMapFs(), "/data")
		require.NoError(t, err)
		fn(t, store)
	})
}

func TestAddThenGet(t *testing.T) {
	forEachStore(t, func(t *testing.T, store watchlist.Store) {
		ctx := context.Background()

		movies, err := store.Get(ctx, "u1")
		require.NoError(t, err)
		require.Empty(t, movies)

		require.NoError(t, store.Add(ctx, "u1", testMovie(42, "X")))

		movies, err = store.Get(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, movies, 1)
		require.Equal(t, 42, movies[0].ID)
		require.Equal(t, "X", movies[0].Title)
	})
}

func TestAddIsIdempotent(t *testing.T) {
	forEachStore(t, func(t *testing.T, store watchlist.Store) {
		ctx := context.Background()

		require.NoError(t, store.Add(ctx, "u1", testMovie(42, "X")))
		require.NoError(t, store.Add(ctx, "u1", testMovie(42, "X")))

		movies, err := store.Get(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, movies, 1, "double add must not duplicate the entry")
	})
}

func TestAddKeepsFirstSnapshot(t *testing.T) {
	forEachStore(t, func(t *testing.T, store watchlist.Store) {
		ctx := context.Background()

		require.NoError(t, store.Add(ctx, "u1", testMovie(42, "Original Title")))
		require.NoError(t, store.Add(ctx, "u1", testMovie(42, "Renamed Title")))

		movies, err := store.Get(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, movies, 1)
		// An existing entry is never mutated in place; remove+re-add is the
		// only way to refresh a snapshot.
		require.Equal(t, "Original Title", movies[0].Title)
	})
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	forEachStore(t, func(t *testing.T, store watchlist.Store) {
		ctx := context.Background()

		require.NoError(t, store.Add(ctx, "u1", testMovie(1, "A")))
		require.NoError(t, store.Remove(ctx, "u1", 999))

		movies, err := store.Get(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, movies, 1, "removing an absent id must leave the list unchanged")
	})
}

func TestContainsAgreesWithGet(t *testing.T) {
	forEachStore(t, func(t *testing.T, store watchlist.Store) {
		ctx := context.Background()

		check := func(movieID int) {
			present, err := store.Contains(ctx, "u1", movieID)
			require.NoError(t, err)

			movies, err := store.Get(ctx, "u1")
			require.NoError(t, err)
			inGet := false
			for _, m := range movies {
				if m.ID == movieID {
					inGet = true
				}
			}
			require.Equal(t, inGet, present, "Contains must agree with Get for id %d", movieID)
		}

		check(42)
		require.NoError(t, store.Add(ctx, "u1", testMovie(42, "X")))
		check(42)
		require.NoError(t, store.Remove(ctx, "u1", 42))
		check(42)
	})
}

func TestLifecycleScenario(t *testing.T) {
	forEachStore(t, func(t *testing.T, store watchlist.Store) {
		ctx := context.Background()

		movies, err := store.Get(ctx, "u1")
		require.NoError(t, err)
		require.Empty(t, movies)

		require.NoError(t, store.Add(ctx, "u1", testMovie(42, "X")))
		movies, err = store.Get(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, movies, 1)
		require.Equal(t, 42, movies[0].ID)

		require.NoError(t, store.Add(ctx, "u1", testMovie(42, "X")))
		movies, err = store.Get(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, movies, 1)

		require.NoError(t, store.Remove(ctx, "u1", 42))
		movies, err = store.Get(ctx, "u1")
		require.NoError(t, err)
		require.Empty(t, movies)
	})
}

func TestUsersArePartitioned(t *testing.T) {
	forEachStore(t, func(t *testing.T, store watchlist.Store) {
		ctx := context.Background()

		require.NoError(t, store.Add(ctx, "alice", testMovie(1, "A")))
		require.NoError(t, store.Add(ctx, "bob", testMovie(2, "B")))

		aliceMovies, err := store.Get(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, aliceMovies, 1)
		require.Equal(t, 1, aliceMovies[0].ID)

		require.NoError(t, store.Clear(ctx, "alice"))

		aliceMovies, err = store.Get(ctx, "alice")
		require.NoError(t, err)
		require.Empty(t, aliceMovies)

		bobMovies, err := store.Get(ctx, "bob")
		require.NoError(t, err)
		require.Len(t, bobMovies, 1, "clearing one user must not touch another")
	})
}

func TestClearEmptyIsNoop(t *testing.T) {
	forEachStore(t, func(t *testing.T, store watchlist.Store) {
		require.NoError(t, store.Clear(context.Background(), "nobody"))
	})
}

func TestConcurrentAddsSameMovie(t *testing.T) {
	forEachStore(t, func(t *testing.T, store watchlist.Store) {
		ctx := context.Background()

		done := make(chan error, 8)
		for i := 0; i < 8; i++ {
			go func() {
				done <- store.Add(ctx, "u1", testMovie(42, "X"))
			}()
		}
		for i := 0; i < 8; i++ {
			require.NoError(t, <-done)
		}

		movies, err := store.Get(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, movies, 1, "concurrent adds must not duplicate the entry")
	})
}

func TestSQLStoreCorruptSnapshotIsAbsentEverywhere(t *testing.T) {
	db, err := database.New(database.Config{
		Driver: "sqlite3",
		DSN:    filepath.Join(t.TempDir(), "watchlist.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	store := watchlist.NewSQLStore(db)
	ctx := context.Background()

	_, err = db.Connection().Exec(
		"INSERT INTO watchlist (user_id, movie_id, movie_data, added_at) VALUES (?, ?, ?, ?)",
		"u1", 42, "{not json", time.Now().UTC())
	require.NoError(t, err)

	movies, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, movies, "corrupt snapshot must not surface in Get")

	present, err := store.Contains(ctx, "u1", 42)
	require.NoError(t, err)
	require.False(t, present, "Contains must agree with Get for a corrupt snapshot")
}

func TestLocalStoreToleratesCorruptFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	store, err := watchlist.NewLocalStore(fs, "/data")
	require.NoError(t, err)

	require.NoError(t, afero.WriteFile(fs, "/data/watchlist_u1.json", []byte("{not json"), 0644))

	movies, err := store.Get(context.Background(), "u1")
	require.NoError(t, err, "corrupt backing record must read as empty, not fail")
	require.Empty(t, movies)

	// The store must recover on the next write.
	require.NoError(t, store.Add(context.Background(), "u1", testMovie(1, "A")))
	movies, err = store.Get(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, movies, 1)
}
