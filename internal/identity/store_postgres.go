package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements account persistence on PostgreSQL (admins table).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed account store.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, errors.New("identity: nil db pool")
	}
	return &PostgresStore{pool: pool}, nil
}

const accountColumns = `id, name, email, number, password_hash, status, created_at, updated_at`

func scanAccount(row pgx.Row) (Account, error) {
	var a Account
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.Number, &a.PasswordHash, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// GetByIdentifier loads an account whose email or number equals identifier.
// The caller must not leak which of the two matched (or that neither did).
func (s *PostgresStore) GetByIdentifier(ctx context.Context, identifier string) (Account, error) {
	a, err := scanAccount(s.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM admins
		WHERE email = $1 OR number = $1
	`, NormalizeEmail(identifier)))
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, OpError{Op: "identity.GetByIdentifier", Kind: ErrNotFound}
	}
	if err != nil {
		return Account{}, fmt.Errorf("identity.GetByIdentifier: %w", err)
	}
	return a, nil
}

// GetByID loads an account by primary key.
func (s *PostgresStore) GetByID(ctx context.Context, id int64) (Account, error) {
	a, err := scanAccount(s.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM admins
		WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, OpError{Op: "identity.GetByID", Kind: ErrNotFound}
	}
	if err != nil {
		return Account{}, fmt.Errorf("identity.GetByID: %w", err)
	}
	return a, nil
}

// List returns all accounts, newest first.
func (s *PostgresStore) List(ctx context.Context) ([]Account, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+accountColumns+`
		FROM admins
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("identity.List: %w", err)
	}
	defer rows.Close()

	var list []Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("identity.List: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// Create hashes the password and inserts a new account.
// Uniqueness of name, email and number is checked up front so the caller can
// report every conflicting field at once; the unique indexes remain the
// backstop for races.
func (s *PostgresStore) Create(ctx context.Context, in CreateAccountInput) (Account, error) {
	const op = "identity.Create"

	fields, err := s.findConflicts(ctx, in.Name, in.Email, in.Number)
	if err != nil {
		return Account{}, fmt.Errorf("%s: %w", op, err)
	}
	if len(fields) > 0 {
		return Account{}, ConflictError{Op: op, Fields: fields}
	}

	hash, err := HashPassword(in.Password, DefaultArgon2idParams())
	if err != nil {
		return Account{}, err
	}

	status := in.Status
	if status != StatusBlocked {
		status = StatusActive
	}

	a, err := scanAccount(s.pool.QueryRow(ctx, `
		INSERT INTO admins (name, email, number, password_hash, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+accountColumns+`
	`, in.Name, NormalizeEmail(in.Email), NormalizeNumber(in.Number), hash, status))
	if isUniqueViolation(err) {
		return Account{}, ConflictError{Op: op}
	}
	if err != nil {
		return Account{}, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

// Update applies a partial update; nil fields keep their current value.
func (s *PostgresStore) Update(ctx context.Context, id int64, in UpdateAccountInput) error {
	const op = "identity.Update"

	set := "updated_at = now()"
	args := []any{id}

	add := func(col string, v any) {
		args = append(args, v)
		set += fmt.Sprintf(", %s = $%d", col, len(args))
	}

	if in.Name != nil {
		add("name", *in.Name)
	}
	if in.Email != nil {
		add("email", NormalizeEmail(*in.Email))
	}
	if in.Number != nil {
		add("number", NormalizeNumber(*in.Number))
	}
	if in.Status != nil {
		add("status", *in.Status)
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := HashPassword(*in.Password, DefaultArgon2idParams())
		if err != nil {
			return err
		}
		add("password_hash", hash)
	}

	tag, err := s.pool.Exec(ctx, `UPDATE admins SET `+set+` WHERE id = $1`, args...)
	if isUniqueViolation(err) {
		return ConflictError{Op: op}
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return OpError{Op: op, Kind: ErrNotFound}
	}
	return nil
}

// UpdateStatus transitions an account between active and blocked.
func (s *PostgresStore) UpdateStatus(ctx context.Context, id int64, status Status) (Account, error) {
	const op = "identity.UpdateStatus"

	if status != StatusActive && status != StatusBlocked {
		return Account{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: string(status)}
	}

	a, err := scanAccount(s.pool.QueryRow(ctx, `
		UPDATE admins SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+accountColumns+`
	`, id, status))
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, OpError{Op: op, Kind: ErrNotFound}
	}
	if err != nil {
		return Account{}, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

// Delete removes the account and its session rows in one transaction, so an
// account is never deleted while live sessions still reference it.
func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	const op = "identity.Delete"

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM admin_sessions WHERE admin_id = $1`, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM admins WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return OpError{Op: op, Kind: ErrNotFound}
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) findConflicts(ctx context.Context, name, email, number string) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT name, email, number
		FROM admins
		WHERE name = $1 OR email = $2 OR number = $3
	`, name, NormalizeEmail(email), NormalizeNumber(number))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seen := map[string]bool{}
	var fields []string
	mark := func(f string) {
		if !seen[f] {
			seen[f] = true
			fields = append(fields, f)
		}
	}

	for rows.Next() {
		var n, e, num string
		if err := rows.Scan(&n, &e, &num); err != nil {
			return nil, err
		}
		if e == NormalizeEmail(email) {
			mark("Email")
		}
		if num == NormalizeNumber(number) {
			mark("Number")
		}
		if n == name {
			mark("Name")
		}
	}
	return fields, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
