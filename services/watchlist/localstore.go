package watchlist

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/spf13/afero"

	"reelist/models"
)

// LocalStore keeps one JSON file per user, named watchlist_<userID>.json,
// holding the array of movie snapshots. It is the device-local counterpart
// of SQLStore for installs without a database. A single mutex serializes
// writes, which makes the idempotent-add check atomic and reads
// read-your-writes.
type LocalStore struct {
	fs  afero.Fs
	dir string
	mu  sync.Mutex
}

// NewLocalStore creates a store rooted at dir on the given filesystem,
// creating dir if needed.
func NewLocalStore(fs afero.Fs, dir string) (*LocalStore, error) {
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create watchlist directory: %w", err)
	}
	return &LocalStore{fs: fs, dir: dir}, nil
}

func (s *LocalStore) path(userID string) string {
	return s.dir + "/watchlist_" + userID + ".json"
}

// read loads the user's file. A missing or unreadable file is an empty
// watchlist, never an error.
func (s *LocalStore) read(userID string) []models.Movie {
	raw, err := afero.ReadFile(s.fs, s.path(userID))
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("failed to read watchlist file", "user", userID, "err", err)
		}
		return []models.Movie{}
	}
	var movies []models.Movie
	if err := json.Unmarshal(raw, &movies); err != nil {
		slog.Warn("ignoring corrupt watchlist file", "user", userID, "err", err)
		return []models.Movie{}
	}
	return movies
}

// write persists the list via a temp file and rename so a failed write
// never leaves a half-written record behind.
func (s *LocalStore) write(userID string, movies []models.Movie) error {
	raw, err := json.Marshal(movies)
	if err != nil {
		return fmt.Errorf("encode watchlist: %w", err)
	}
	tmp := s.path(userID) + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, raw, 0644); err != nil {
		return fmt.Errorf("write watchlist file: %w", err)
	}
	if err := s.fs.Rename(tmp, s.path(userID)); err != nil {
		return fmt.Errorf("replace watchlist file: %w", err)
	}
	return nil
}

func (s *LocalStore) Get(ctx context.Context, userID string) ([]models.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(userID), nil
}

func (s *LocalStore) Add(ctx context.Context, userID string, movie models.Movie) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	movies := s.read(userID)
	for _, m := range movies {
		if m.ID == movie.ID {
			return nil
		}
	}
	return s.write(userID, append(movies, movie))
}

func (s *LocalStore) Remove(ctx context.Context, userID string, movieID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	movies := s.read(userID)
	kept := movies[:0]
	for _, m := range movies {
		if m.ID != movieID {
			kept = append(kept, m)
		}
	}
	if len(kept) == len(movies) {
		return nil
	}
	return s.write(userID, kept)
}

func (s *LocalStore) Contains(ctx context.Context, userID string, movieID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.read(userID) {
		if m.ID == movieID {
			return true, nil
		}
	}
	return false, nil
}

func (s *LocalStore) Clear(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.fs.Remove(s.path(userID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear watchlist: %w", err)
	}
	return nil
}
