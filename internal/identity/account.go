package identity

import "time"

// Status is the account lifecycle state. Only active accounts may log in;
// blocked accounts get a distinct, user-visible rejection.
type Status string

const (
	StatusActive  Status = "active"
	StatusBlocked Status = "blocked"
)

// Account is the canonical admin principal.
type Account struct {
	ID           int64
	Name         string
	Email        string
	Number       string
	PasswordHash string
	Status       Status

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateAccountInput describes a new admin account. Password is plain text
// and is hashed by the store before persistence.
type CreateAccountInput struct {
	Name     string
	Email    string
	Number   string
	Password string
	Status   Status
}

// UpdateAccountInput carries partial updates. Nil fields are left untouched;
// a nil or empty Password keeps the existing hash.
type UpdateAccountInput struct {
	Name     *string
	Email    *string
	Number   *string
	Password *string
	Status   *Status
}
