package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	paseto "aidanwoods.dev/go-paseto"

	"storeadmin/internal/identity"
)

type memoryStore struct {
	mu   sync.Mutex
	rows map[string]Row
}

func newMemoryStore() *memoryStore {
	return &memoryStore{rows: map[string]Row{}}
}

func (m *memoryStore) GetActive(_ context.Context, id string, adminID int64) (Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok || row.AdminID != adminID || row.Blacklisted {
		return Row{}, ErrSessionInvalidated
	}
	return row, nil
}

func (m *memoryStore) CreateReplacingActive(_ context.Context, row Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, r := range m.rows {
		if r.AdminID == row.AdminID && !r.Blacklisted {
			r.Blacklisted = true
			m.rows[id] = r
		}
	}
	m.rows[row.ID] = row
	return nil
}

func (m *memoryStore) Rotate(_ context.Context, oldID string, next Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.rows[oldID]
	if !ok || old.Blacklisted {
		return ErrSessionInvalidated
	}
	old.Blacklisted = true
	m.rows[oldID] = old
	m.rows[next.ID] = next
	return nil
}

func (m *memoryStore) Blacklist(_ context.Context, id string, adminID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row, ok := m.rows[id]; ok && row.AdminID == adminID {
		row.Blacklisted = true
		m.rows[id] = row
	}
	return nil
}

func (m *memoryStore) TouchActivity(_ context.Context, id string, adminID int64, at time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok || row.AdminID != adminID || row.Blacklisted {
		return 0, nil
	}
	row.LastActivity = at
	m.rows[id] = row
	return 1, nil
}

func (m *memoryStore) MarkExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, row := range m.rows {
		if !row.Blacklisted && !row.ExpiresAt.After(now) {
			row.Blacklisted = true
			m.rows[id] = row
			n++
		}
	}
	return n, nil
}

func (m *memoryStore) DeleteBlacklisted(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, row := range m.rows {
		if row.Blacklisted {
			delete(m.rows, id)
			n++
		}
	}
	return n, nil
}

func (m *memoryStore) live(adminID int64) []Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Row
	for _, row := range m.rows {
		if row.AdminID == adminID && !row.Blacklisted {
			out = append(out, row)
		}
	}
	return out
}

type stubDirectory struct {
	accounts map[int64]identity.Account
}

func (d *stubDirectory) GetByIdentifier(_ context.Context, identifier string) (identity.Account, error) {
	for _, a := range d.accounts {
		if a.Email == identifier || a.Number == identifier {
			return a, nil
		}
	}
	return identity.Account{}, identity.OpError{Op: "stub", Kind: identity.ErrNotFound}
}

func (d *stubDirectory) GetByID(_ context.Context, id int64) (identity.Account, error) {
	a, ok := d.accounts[id]
	if !ok {
		return identity.Account{}, identity.OpError{Op: "stub", Kind: identity.ErrNotFound}
	}
	return a, nil
}

type fixture struct {
	svc   *Service
	store *memoryStore
	dir   *stubDirectory
	now   time.Time
}

func (f *fixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := DefaultConfig()
	cfg.PasetoV4SecretKeyHex = paseto.NewV4AsymmetricSecretKey().ExportHex()

	tokens, err := NewPasetoV4PublicManager(cfg)
	if err != nil {
		t.Fatalf("NewPasetoV4PublicManager: %v", err)
	}

	hash, err := identity.HashPassword("secret1", testArgonParams())
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	dir := &stubDirectory{accounts: map[int64]identity.Account{
		1: {ID: 1, Name: "Owner", Email: "owner@example.com", Number: "1234567890", PasswordHash: hash, Status: identity.StatusActive},
		2: {ID: 2, Name: "Blocked", Email: "blocked@example.com", Number: "2234567890", PasswordHash: hash, Status: identity.StatusBlocked},
		3: {ID: 3, Name: "Dormant", Email: "dormant@example.com", Number: "3234567890", PasswordHash: hash, Status: identity.Status("inactive")},
	}}

	store := newMemoryStore()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc, err := NewService(cfg, log, dir, store, tokens)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	f := &fixture{svc: svc, store: store, dir: dir, now: time.Now().Truncate(time.Second)}
	svc.now = func() time.Time { return f.now }
	return f
}

// testArgonParams keeps hashing fast in unit tests.
func testArgonParams() identity.Argon2idParams {
	p := identity.DefaultArgon2idParams()
	p.MemoryKiB = 8 * 1024
	p.Time = 1
	return p
}

func TestLogin_ByEmailAndNumber(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Login(ctx, "owner@example.com", "secret1", "10.0.0.1", "go-test")
	if err != nil {
		t.Fatalf("login by email: %v", err)
	}
	if res.Token == "" || res.Account.ID != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}

	if _, err := f.svc.Login(ctx, "1234567890", "secret1", "10.0.0.1", "go-test"); err != nil {
		t.Fatalf("login by number: %v", err)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Login(ctx, "nobody@example.com", "secret1", "", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown identifier: got %v", err)
	}
	if _, err := f.svc.Login(ctx, "owner@example.com", "wrong", "", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v", err)
	}
}

func TestLogin_StatusGates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Login(ctx, "blocked@example.com", "secret1", "", ""); !errors.Is(err, ErrAccountBlocked) {
		t.Fatalf("blocked: got %v", err)
	}
	if _, err := f.svc.Login(ctx, "dormant@example.com", "secret1", "", ""); !errors.Is(err, ErrAccountInactive) {
		t.Fatalf("inactive: got %v", err)
	}
}

func TestLogin_StatusCheckedBeforePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// A blocked admin sees the blocked message even with a wrong password.
	if _, err := f.svc.Login(ctx, "blocked@example.com", "wrong", "", ""); !errors.Is(err, ErrAccountBlocked) {
		t.Fatalf("blocked with wrong password: got %v", err)
	}
	if _, err := f.svc.Login(ctx, "dormant@example.com", "wrong", "", ""); !errors.Is(err, ErrAccountInactive) {
		t.Fatalf("inactive with wrong password: got %v", err)
	}
}

func TestLogin_BlacklistsPriorSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Login(ctx, "owner@example.com", "secret1", "", ""); err != nil {
		t.Fatalf("first login: %v", err)
	}
	if _, err := f.svc.Login(ctx, "owner@example.com", "secret1", "", ""); err != nil {
		t.Fatalf("second login: %v", err)
	}

	if live := f.store.live(1); len(live) != 1 {
		t.Fatalf("expected exactly one live session, got %d", len(live))
	}
}

func TestRefresh_NoOpInsideWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Login(ctx, "owner@example.com", "secret1", "", "")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	f.advance(5 * time.Minute)
	ref, err := f.svc.Refresh(ctx, res.Token, "", "")
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if ref.Rotated {
		t.Fatalf("expected no-op refresh inside the window")
	}
	if ref.Token != res.Token {
		t.Fatalf("expected the same token back")
	}
}

func TestRefresh_RotatesAfterWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Login(ctx, "owner@example.com", "secret1", "", "")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	f.advance(2 * time.Minute)
	if err := f.svc.TouchActivity(ctx, sessionIDOf(t, f, res.Token), 1); err != nil {
		t.Fatalf("touch: %v", err)
	}

	f.advance(12 * time.Minute)
	ref, err := f.svc.Refresh(ctx, res.Token, "", "")
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if !ref.Rotated {
		t.Fatalf("expected rotation past the window")
	}
	if ref.Token == res.Token {
		t.Fatalf("expected a new token")
	}

	// The old session is dead: refreshing the old token again fails.
	if _, err := f.svc.Refresh(ctx, res.Token, "", ""); !errors.Is(err, ErrSessionInvalidated) {
		t.Fatalf("old token after rotation: got %v", err)
	}

	if live := f.store.live(1); len(live) != 1 {
		t.Fatalf("expected exactly one live session after rotation, got %d", len(live))
	}
}

func TestRefresh_IdleSessionExpires(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Login(ctx, "owner@example.com", "secret1", "", "")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	// No activity after login.
	f.advance(14 * time.Minute)
	if _, err := f.svc.Refresh(ctx, res.Token, "", ""); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("idle refresh: got %v", err)
	}

	if live := f.store.live(1); len(live) != 0 {
		t.Fatalf("idle session should be blacklisted, %d live", len(live))
	}
}

func TestRefresh_RotatesForBlockedAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Login(ctx, "owner@example.com", "secret1", "", "")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	sid := sessionIDOf(t, f, res.Token)

	f.advance(2 * time.Minute)
	if err := f.svc.TouchActivity(ctx, sid, 1); err != nil {
		t.Fatalf("touch: %v", err)
	}

	acct := f.dir.accounts[1]
	acct.Status = identity.StatusBlocked
	f.dir.accounts[1] = acct

	// Rotation itself has no status gate; the rotated token carries the
	// fresh status snapshot and the authenticators act on it.
	f.advance(12 * time.Minute)
	ref, err := f.svc.Refresh(ctx, res.Token, "", "")
	if err != nil {
		t.Fatalf("refresh after block: %v", err)
	}
	if !ref.Rotated {
		t.Fatalf("expected rotation")
	}
	if _, err := f.svc.Authenticate(ctx, ref.Token); !errors.Is(err, ErrAccountBlocked) {
		t.Fatalf("rotated token should carry the blocked snapshot: got %v", err)
	}
}

func TestRefresh_DeletedAccountRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Login(ctx, "owner@example.com", "secret1", "", "")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	sid := sessionIDOf(t, f, res.Token)

	f.advance(2 * time.Minute)
	if err := f.svc.TouchActivity(ctx, sid, 1); err != nil {
		t.Fatalf("touch: %v", err)
	}
	delete(f.dir.accounts, 1)

	f.advance(12 * time.Minute)
	if _, err := f.svc.Refresh(ctx, res.Token, "", ""); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("deleted-account refresh: got %v", err)
	}
}

func TestRefresh_GarbageToken(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.Refresh(context.Background(), "not-a-token", "", ""); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("garbage token: got %v", err)
	}
}

func TestTouchActivity_StaleSessionSucceeds(t *testing.T) {
	f := newFixture(t)
	if err := f.svc.TouchActivity(context.Background(), "01ARZ3NDEKTSV4RRFFQ69G5FAV", 1); err != nil {
		t.Fatalf("touch on missing session: %v", err)
	}
}

func TestTouchActivity_ScopedToAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Login(ctx, "owner@example.com", "secret1", "", "")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	sid := sessionIDOf(t, f, res.Token)

	before := f.store.live(1)[0].LastActivity

	// The wrong account id must not reach the row.
	f.advance(time.Minute)
	if err := f.svc.TouchActivity(ctx, sid, 2); err != nil {
		t.Fatalf("touch with foreign account: %v", err)
	}
	if got := f.store.live(1)[0].LastActivity; !got.Equal(before) {
		t.Fatalf("foreign touch updated last_activity: %v", got)
	}

	if err := f.svc.TouchActivity(ctx, sid, 1); err != nil {
		t.Fatalf("touch: %v", err)
	}
	if got := f.store.live(1)[0].LastActivity; got.Equal(before) {
		t.Fatalf("owner touch did not update last_activity")
	}
}

func TestLogout_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Login(ctx, "owner@example.com", "secret1", "", "")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	sid := sessionIDOf(t, f, res.Token)

	if err := f.svc.Logout(ctx, sid, 1); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if err := f.svc.Logout(ctx, sid, 1); err != nil {
		t.Fatalf("repeat logout: %v", err)
	}
	if live := f.store.live(1); len(live) != 0 {
		t.Fatalf("expected no live sessions after logout")
	}
}

func TestSweepOnce_TwoPhases(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Login(ctx, "owner@example.com", "secret1", "", ""); err != nil {
		t.Fatalf("login: %v", err)
	}

	// The delete phase runs after the mark phase in the same pass, so an
	// expired session is blacklisted and removed in one sweep.
	f.advance(31 * time.Minute)
	marked, deleted, err := f.svc.SweepOnce(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if marked != 1 || deleted != 1 {
		t.Fatalf("expected 1 marked / 1 deleted, got %d / %d", marked, deleted)
	}

	// Idempotent once drained.
	marked, deleted, err = f.svc.SweepOnce(ctx)
	if err != nil {
		t.Fatalf("third sweep: %v", err)
	}
	if marked != 0 || deleted != 0 {
		t.Fatalf("expected empty sweep, got %d / %d", marked, deleted)
	}
}

func sessionIDOf(t *testing.T, f *fixture, token string) string {
	t.Helper()
	claims, err := f.svc.tokens.Verify(token, f.now)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	return claims.SessionID
}
