// Package accounts is the email+password registry behind the auth
// boundary. It only answers "does this credential check out" and hands back
// opaque user ids; session lifecycle lives in the auth middleware.
package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-password/password"
	"golang.org/x/crypto/bcrypt"

	"reelist/internal/database"
	"reelist/models"
)

// ErrEmailTaken is returned by Register when the email is already in use.
var ErrEmailTaken = errors.New("email already registered")

// ErrInvalidCredentials is returned by Check for unknown emails and wrong
// passwords alike.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidEmail and ErrWeakPassword are Register validation failures,
// safe to show to the user verbatim.
var (
	ErrInvalidEmail = errors.New("invalid email address")
	ErrWeakPassword = errors.New("password must be at least 6 characters")
)

// Service manages registered accounts.
type Service struct {
	conn   *sql.DB
	driver string
}

// NewService creates the registry and seeds the demo account when the table
// is empty, so a fresh install is immediately usable.
func NewService(db *database.DB) (*Service, error) {
	s := &Service{conn: db.Connection(), driver: db.Driver()}
	if err := s.seedDemoUser(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Service) bind(query string) string {
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

// Register creates an account and returns it. The email must be unused.
func (s *Service) Register(ctx context.Context, email, pass string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return models.User{}, ErrInvalidEmail
	}
	if len(pass) < 6 {
		return models.User{}, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		ID:        uuid.NewString(),
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}

	_, err = s.conn.ExecContext(ctx, s.bind(
		"INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)"),
		user.ID, user.Email, string(hash), user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// Check verifies an email+password pair and returns the matching account.
func (s *Service) Check(ctx context.Context, email, pass string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	var hash string
	err := s.conn.QueryRowContext(ctx, s.bind(
		"SELECT id, email, password_hash, created_at FROM users WHERE email = ?"), email).
		Scan(&user.ID, &user.Email, &hash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, fmt.Errorf("query user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(pass)) != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// seedDemoUser creates the demo account with a generated password the first
// time the service starts against an empty table.
func (s *Service) seedDemoUser() error {
	var count int
	if err := s.conn.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	pass, err := password.Generate(16, 4, 0, false, false)
	if err != nil {
		return fmt.Errorf("generate demo password: %w", err)
	}

	user, err := s.Register(context.Background(), models.DemoEmail, pass)
	if err != nil {
		return fmt.Errorf("seed demo user: %w", err)
	}

	// Printed once; there is no other way to learn the generated value.
	slog.Info("seeded demo account", "email", user.Email, "password", pass)
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // sqlite
		strings.Contains(msg, "duplicate key value") // postgres
}
