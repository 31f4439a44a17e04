package models

import "time"

const (
	// DemoEmail is the account seeded on first run so the app is usable
	// before anyone signs up.
	DemoEmail = "demo@example.com"
)

// User is a registered account capable of holding watchlist data. ID is the
// opaque identity the watchlist store partitions by; Email is a login
// credential only and never serves as a storage key.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}
