package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"storeadmin/internal/identity"
)

// AccountDirectory is the slice of account storage the session service needs.
type AccountDirectory interface {
	GetByIdentifier(ctx context.Context, identifier string) (identity.Account, error)
	GetByID(ctx context.Context, id int64) (identity.Account, error)
}

// LoginResult is a freshly minted token plus the authenticated account.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Account   identity.Account
}

// RefreshResult is the token a refresh leaves the client holding. Rotated is
// false when the session was inside its no-op window and the presented token
// came back unchanged.
type RefreshResult struct {
	Token     string
	ExpiresAt time.Time
	Rotated   bool
}

// Service owns the session lifecycle: login, refresh, activity, logout, and
// the expiry sweep.
type Service struct {
	cfg      Config
	log      *slog.Logger
	accounts AccountDirectory
	store    Store
	tokens   AccessTokenManager

	now func() time.Time
}

// NewService wires a session service. All dependencies are required.
func NewService(cfg Config, log *slog.Logger, accounts AccountDirectory, store Store, tokens AccessTokenManager) (*Service, error) {
	if log == nil || accounts == nil || store == nil || tokens == nil {
		return nil, errors.New("session: nil dependency")
	}
	return &Service{
		cfg:      cfg,
		log:      log,
		accounts: accounts,
		store:    store,
		tokens:   tokens,
		now:      time.Now,
	}, nil
}

// Login authenticates identifier (email or number) and password, blacklists
// every prior live session of the account, and mints a fresh session.
func (s *Service) Login(ctx context.Context, identifier, password, ip, userAgent string) (LoginResult, error) {
	acct, err := s.accounts.GetByIdentifier(ctx, identifier)
	if identity.IsNotFound(err) {
		loginTotal.WithLabelValues("invalid_credentials").Inc()
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, err
	}

	// Status gates come before the password check: a blocked admin gets the
	// blocked message even with bad credentials.
	switch acct.Status {
	case identity.StatusActive:
	case identity.StatusBlocked:
		loginTotal.WithLabelValues("blocked").Inc()
		return LoginResult{}, ErrAccountBlocked
	default:
		loginTotal.WithLabelValues("inactive").Inc()
		return LoginResult{}, ErrAccountInactive
	}

	ok, err := identity.VerifyPassword(password, acct.PasswordHash)
	if err != nil || !ok {
		loginTotal.WithLabelValues("invalid_credentials").Inc()
		return LoginResult{}, ErrInvalidCredentials
	}

	now := s.now()
	sid := ulid.Make().String()

	token, exp, err := s.tokens.Issue(acct, sid, ip, userAgent, now)
	if err != nil {
		return LoginResult{}, err
	}

	err = s.store.CreateReplacingActive(ctx, Row{
		ID:           sid,
		AdminID:      acct.ID,
		IPAddress:    ip,
		UserAgent:    userAgent,
		IssuedAt:     now,
		LastActivity: now,
		ExpiresAt:    exp,
	})
	if err != nil {
		return LoginResult{}, err
	}

	loginTotal.WithLabelValues("ok").Inc()
	s.log.InfoContext(ctx, "admin login", "admin_id", acct.ID, "session_id", sid)
	return LoginResult{Token: token, ExpiresAt: exp, Account: acct}, nil
}

// Refresh exchanges a live token for a rotated one.
//
// Inside the no-op window the presented token is returned unchanged. A
// session that never saw activity after issue is treated as idle: it is
// blacklisted and ErrSessionExpired is returned. Otherwise the account is
// re-fetched and the session rotated.
func (s *Service) Refresh(ctx context.Context, token, ip, userAgent string) (RefreshResult, error) {
	now := s.now()

	claims, err := s.tokens.Verify(token, now)
	if err != nil {
		refreshTotal.WithLabelValues("invalid_token").Inc()
		return RefreshResult{}, err
	}

	row, err := s.store.GetActive(ctx, claims.SessionID, claims.AdminID)
	if err != nil {
		refreshTotal.WithLabelValues("invalidated").Inc()
		return RefreshResult{}, err
	}

	if now.Sub(row.IssuedAt) < s.cfg.RefreshMinAge {
		refreshTotal.WithLabelValues("noop").Inc()
		return RefreshResult{Token: token, ExpiresAt: row.ExpiresAt, Rotated: false}, nil
	}

	if row.LastActivity.Sub(row.IssuedAt) < s.cfg.ActivityMinGap {
		if err := s.store.Blacklist(ctx, row.ID, row.AdminID); err != nil {
			return RefreshResult{}, err
		}
		refreshTotal.WithLabelValues("idle_expired").Inc()
		s.log.InfoContext(ctx, "session expired on refresh, no activity", "session_id", row.ID)
		return RefreshResult{}, ErrSessionExpired
	}

	// The re-fetch only guards against a deleted account. Status is not
	// re-checked here: the rotated token carries whatever status the account
	// has now, and the authenticators act on it.
	acct, err := s.accounts.GetByID(ctx, row.AdminID)
	if identity.IsNotFound(err) {
		refreshTotal.WithLabelValues("account_gone").Inc()
		return RefreshResult{}, ErrAccountNotFound
	}
	if err != nil {
		return RefreshResult{}, err
	}

	sid := ulid.Make().String()
	next, exp, err := s.tokens.Issue(acct, sid, ip, userAgent, now)
	if err != nil {
		return RefreshResult{}, err
	}

	err = s.store.Rotate(ctx, row.ID, Row{
		ID:           sid,
		AdminID:      acct.ID,
		IPAddress:    ip,
		UserAgent:    userAgent,
		IssuedAt:     now,
		LastActivity: now,
		ExpiresAt:    exp,
	})
	if err != nil {
		return RefreshResult{}, err
	}

	refreshTotal.WithLabelValues("rotated").Inc()
	s.log.InfoContext(ctx, "session rotated", "admin_id", acct.ID, "old_session_id", row.ID, "session_id", sid)
	return RefreshResult{Token: next, ExpiresAt: exp, Rotated: true}, nil
}

// Authenticate verifies the token signature, expiry, and the status snapshot
// baked in at mint time. It never touches the store, so a blacklisted session
// still passes; use AuthenticateStrict where revocation must bite.
func (s *Service) Authenticate(ctx context.Context, token string) (AccessClaims, error) {
	claims, err := s.tokens.Verify(token, s.now())
	if err != nil {
		return AccessClaims{}, err
	}
	if claims.Status == string(identity.StatusBlocked) {
		return AccessClaims{}, ErrAccountBlocked
	}
	return claims, nil
}

// AuthenticateStrict verifies the token and additionally requires a live
// session row, so blacklisting takes effect immediately.
func (s *Service) AuthenticateStrict(ctx context.Context, token string) (AccessClaims, error) {
	claims, err := s.Authenticate(ctx, token)
	if err != nil {
		return AccessClaims{}, err
	}
	if _, err := s.store.GetActive(ctx, claims.SessionID, claims.AdminID); err != nil {
		return AccessClaims{}, err
	}
	return claims, nil
}

// TouchActivity records activity on the session. A stale or already
// blacklisted session is not an error; the touch just updates nothing.
func (s *Service) TouchActivity(ctx context.Context, sessionID string, adminID int64) error {
	_, err := s.store.TouchActivity(ctx, sessionID, adminID, s.now())
	return err
}

// Logout blacklists the session. Idempotent: logging out a session that is
// already dead succeeds.
func (s *Service) Logout(ctx context.Context, sessionID string, adminID int64) error {
	if err := s.store.Blacklist(ctx, sessionID, adminID); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "admin logout", "session_id", sessionID, "admin_id", adminID)
	return nil
}

// SweepOnce runs one expiry pass: blacklist sessions past their expiry, then
// delete everything blacklisted. Returns the counts.
func (s *Service) SweepOnce(ctx context.Context) (marked, deleted int64, err error) {
	marked, err = s.store.MarkExpired(ctx, s.now())
	if err != nil {
		return 0, 0, err
	}
	deleted, err = s.store.DeleteBlacklisted(ctx)
	if err != nil {
		return marked, 0, err
	}

	sweepMarked.Add(float64(marked))
	sweepDeleted.Add(float64(deleted))
	if marked > 0 || deleted > 0 {
		s.log.InfoContext(ctx, "session sweep", "marked", marked, "deleted", deleted)
	}
	return marked, deleted, nil
}
