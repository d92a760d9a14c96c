package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store on PostgreSQL (admin_sessions table).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed session store.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, errors.New("session: nil db pool")
	}
	return &PostgresStore{pool: pool}, nil
}

const sessionColumns = `id, admin_id, ip_address, user_agent, issued_at, last_activity, expires_at, blacklisted`

func scanRow(r pgx.Row) (Row, error) {
	var row Row
	err := r.Scan(&row.ID, &row.AdminID, &row.IPAddress, &row.UserAgent,
		&row.IssuedAt, &row.LastActivity, &row.ExpiresAt, &row.Blacklisted)
	return row, err
}

func (s *PostgresStore) GetActive(ctx context.Context, id string, adminID int64) (Row, error) {
	row, err := scanRow(s.pool.QueryRow(ctx, `
		SELECT `+sessionColumns+`
		FROM admin_sessions
		WHERE id = $1 AND admin_id = $2 AND NOT blacklisted
	`, id, adminID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Row{}, ErrSessionInvalidated
	}
	if err != nil {
		return Row{}, fmt.Errorf("session.GetActive: %w", err)
	}
	return row, nil
}

func (s *PostgresStore) CreateReplacingActive(ctx context.Context, row Row) error {
	const op = "session.CreateReplacingActive"

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		UPDATE admin_sessions SET blacklisted = TRUE
		WHERE admin_id = $1 AND NOT blacklisted
	`, row.AdminID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := insertRow(ctx, tx, row); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) Rotate(ctx context.Context, oldID string, next Row) error {
	const op = "session.Rotate"

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		UPDATE admin_sessions SET blacklisted = TRUE
		WHERE id = $1 AND NOT blacklisted
	`, oldID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionInvalidated
	}

	if err := insertRow(ctx, tx, next); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) Blacklist(ctx context.Context, id string, adminID int64) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE admin_sessions SET blacklisted = TRUE
		WHERE id = $1 AND admin_id = $2
	`, id, adminID)
	if err != nil {
		return fmt.Errorf("session.Blacklist: %w", err)
	}
	return nil
}

func (s *PostgresStore) TouchActivity(ctx context.Context, id string, adminID int64, at time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE admin_sessions SET last_activity = $3
		WHERE id = $1 AND admin_id = $2 AND NOT blacklisted
	`, id, adminID, at)
	if err != nil {
		return 0, fmt.Errorf("session.TouchActivity: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresStore) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE admin_sessions SET blacklisted = TRUE
		WHERE expires_at <= $1 AND NOT blacklisted
	`, now)
	if err != nil {
		return 0, fmt.Errorf("session.MarkExpired: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresStore) DeleteBlacklisted(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM admin_sessions WHERE blacklisted
	`)
	if err != nil {
		return 0, fmt.Errorf("session.DeleteBlacklisted: %w", err)
	}
	return tag.RowsAffected(), nil
}

func insertRow(ctx context.Context, tx pgx.Tx, row Row) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO admin_sessions (id, admin_id, ip_address, user_agent, issued_at, last_activity, expires_at, blacklisted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE)
	`, row.ID, row.AdminID, row.IPAddress, row.UserAgent, row.IssuedAt, row.LastActivity, row.ExpiresAt)
	return err
}
