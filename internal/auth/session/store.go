package session

import (
	"context"
	"time"
)

// Row is a persisted session record.
//
// ID is a ULID and doubles as the token's session claim. Blacklisted rows are
// dead: they fail strict authentication and are hard-deleted by the sweeper.
type Row struct {
	ID           string
	AdminID      int64
	IPAddress    string
	UserAgent    string
	IssuedAt     time.Time
	LastActivity time.Time
	ExpiresAt    time.Time
	Blacklisted  bool
}

// Store persists session rows.
//
// CreateReplacingActive and Rotate are transactional: their blacklist and
// insert steps commit together or not at all.
type Store interface {
	// GetActive returns the non-blacklisted row with the given id belonging
	// to adminID, or ErrSessionInvalidated when no such row exists.
	GetActive(ctx context.Context, id string, adminID int64) (Row, error)

	// CreateReplacingActive blacklists every live row of the admin and
	// inserts row in the same transaction.
	CreateReplacingActive(ctx context.Context, row Row) error

	// Rotate blacklists the row with oldID and inserts next in the same
	// transaction. It returns ErrSessionInvalidated when oldID no longer
	// names a live row.
	Rotate(ctx context.Context, oldID string, next Row) error

	// Blacklist marks the row with the given id belonging to adminID.
	// Missing rows are not an error; the operation is idempotent.
	Blacklist(ctx context.Context, id string, adminID int64) error

	// TouchActivity sets last_activity on the live row with the given id
	// belonging to adminID and reports how many rows were updated.
	TouchActivity(ctx context.Context, id string, adminID int64, at time.Time) (int64, error)

	// MarkExpired blacklists live rows whose expiry is at or before now and
	// returns the count.
	MarkExpired(ctx context.Context, now time.Time) (int64, error)

	// DeleteBlacklisted removes blacklisted rows and returns the count.
	DeleteBlacklisted(ctx context.Context) (int64, error)
}
