package watchlist

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"reelist/internal/database"
	"reelist/models"
)

// SQLStore keeps watchlist entries in a relational table with a primary key
// on (user_id, movie_id). The insert is ON CONFLICT DO NOTHING, so the
// uniqueness invariant under concurrent adds is enforced by the database,
// not by client-side locking.
type SQLStore struct {
	conn   *sql.DB
	driver string
}

// NewSQLStore creates a store over an already-migrated database.
func NewSQLStore(db *database.DB) *SQLStore {
	return &SQLStore{conn: db.Connection(), driver: db.Driver()}
}

// bind rewrites ? placeholders to $n for the postgres driver.
func (s *SQLStore) bind(query string) string {
	if s.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

func (s *SQLStore) Get(ctx context.Context, userID string) ([]models.Movie, error) {
	rows, err := s.conn.QueryContext(ctx, s.bind(
		"SELECT movie_data FROM watchlist WHERE user_id = ? ORDER BY added_at"), userID)
	if err != nil {
		return nil, fmt.Errorf("query watchlist: %w", err)
	}
	defer rows.Close()

	movies := []models.Movie{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan watchlist row: %w", err)
		}
		var movie models.Movie
		if err := json.Unmarshal(raw, &movie); err != nil {
			// A corrupt snapshot should not take the whole list down.
			slog.Warn("skipping corrupt watchlist snapshot", "user", userID, "err", err)
			continue
		}
		movies = append(movies, movie)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate watchlist rows: %w", err)
	}
	return movies, nil
}

func (s *SQLStore) Add(ctx context.Context, userID string, movie models.Movie) error {
	entry := models.WatchlistEntry{UserID: userID, Movie: movie, AddedAt: time.Now().UTC()}

	raw, err := json.Marshal(entry.Movie)
	if err != nil {
		return fmt.Errorf("encode movie snapshot: %w", err)
	}

	_, err = s.conn.ExecContext(ctx, s.bind(
		"INSERT INTO watchlist (user_id, movie_id, movie_data, added_at) VALUES (?, ?, ?, ?) "+
			"ON CONFLICT (user_id, movie_id) DO NOTHING"),
		entry.UserID, entry.Movie.ID, string(raw), entry.AddedAt)
	if err != nil {
		return fmt.Errorf("insert watchlist entry: %w", err)
	}
	slog.Debug("watchlist entry saved", "key", entry.Key())
	return nil
}

func (s *SQLStore) Remove(ctx context.Context, userID string, movieID int) error {
	_, err := s.conn.ExecContext(ctx, s.bind(
		"DELETE FROM watchlist WHERE user_id = ? AND movie_id = ?"), userID, movieID)
	if err != nil {
		return fmt.Errorf("delete watchlist entry: %w", err)
	}
	return nil
}

func (s *SQLStore) Contains(ctx context.Context, userID string, movieID int) (bool, error) {
	var raw []byte
	err := s.conn.QueryRowContext(ctx, s.bind(
		"SELECT movie_data FROM watchlist WHERE user_id = ? AND movie_id = ?"), userID, movieID).Scan(&raw)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query watchlist entry: %w", err)
	}

	// Get skips corrupt snapshots, so they must count as absent here too or
	// the two views of the list disagree.
	var movie models.Movie
	if err := json.Unmarshal(raw, &movie); err != nil {
		slog.Warn("corrupt watchlist snapshot treated as absent", "user", userID, "movie", movieID, "err", err)
		return false, nil
	}
	return true, nil
}

func (s *SQLStore) Clear(ctx context.Context, userID string) error {
	_, err := s.conn.ExecContext(ctx, s.bind(
		"DELETE FROM watchlist WHERE user_id = ?"), userID)
	if err != nil {
		return fmt.Errorf("clear watchlist: %w", err)
	}
	return nil
}
