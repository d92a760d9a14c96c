package session

import "errors"

var (
	// ErrInvalidCredentials is returned for an unknown identifier or a wrong
	// password. The two cases are deliberately indistinguishable to avoid
	// account enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountBlocked is returned when the account status is blocked.
	ErrAccountBlocked = errors.New("account blocked")

	// ErrAccountInactive is returned when the account status is neither
	// active nor blocked.
	ErrAccountInactive = errors.New("account not active")

	// ErrAccountNotFound is returned when the account behind a live session
	// no longer exists (refresh re-fetch).
	ErrAccountNotFound = errors.New("account not found")

	// ErrSessionInvalidated is returned when no live (non-blacklisted)
	// session row matches the presented claims.
	ErrSessionInvalidated = errors.New("session invalidated")

	// ErrSessionExpired is returned when a session is refreshed without any
	// recorded activity; the session is blacklisted as a side effect.
	ErrSessionExpired = errors.New("session expired")

	// ErrMissingToken is returned when no bearer token is present.
	ErrMissingToken = errors.New("missing token")

	// ErrInvalidToken is returned when signature verification fails or the
	// token is expired.
	ErrInvalidToken = errors.New("invalid token")

	// ErrConfig is returned for invalid configuration.
	ErrConfig = errors.New("invalid config")
)
