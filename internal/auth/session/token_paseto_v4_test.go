package session

import (
	"errors"
	"testing"
	"time"

	paseto "aidanwoods.dev/go-paseto"

	"storeadmin/internal/identity"
)

func newTokenManager(t *testing.T) AccessTokenManager {
	t.Helper()
	cfg := DefaultConfig()
	cfg.PasetoV4SecretKeyHex = paseto.NewV4AsymmetricSecretKey().ExportHex()
	m, err := NewPasetoV4PublicManager(cfg)
	if err != nil {
		t.Fatalf("NewPasetoV4PublicManager: %v", err)
	}
	return m
}

func TestTokenRoundTrip(t *testing.T) {
	m := newTokenManager(t)
	now := time.Now()

	acct := identity.Account{ID: 42, Name: "Owner", Email: "owner@example.com", Status: identity.StatusActive}
	token, exp, err := m.Issue(acct, "01ARZ3NDEKTSV4RRFFQ69G5FAV", "10.0.0.1", "go-test", now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if !exp.After(now) {
		t.Fatalf("expiry not in the future: %v", exp)
	}

	claims, err := m.Verify(token, now)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.AdminID != 42 || claims.Email != "owner@example.com" || claims.Name != "Owner" {
		t.Fatalf("identity claims lost: %+v", claims)
	}
	if claims.Status != "active" {
		t.Fatalf("status snapshot lost: %q", claims.Status)
	}
	if claims.SessionID != "01ARZ3NDEKTSV4RRFFQ69G5FAV" {
		t.Fatalf("session id lost: %q", claims.SessionID)
	}
	if claims.IPAddress != "10.0.0.1" || claims.UserAgent != "go-test" {
		t.Fatalf("origin claims lost: %+v", claims)
	}
	if claims.Issuer != "storeadmin" {
		t.Fatalf("issuer: %q", claims.Issuer)
	}
}

func TestTokenExpiryEnforced(t *testing.T) {
	m := newTokenManager(t)
	now := time.Now()

	token, _, err := m.Issue(identity.Account{ID: 1, Status: identity.StatusActive}, "sid", "", "", now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := m.Verify(token, now.Add(31*time.Minute)); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token to fail, got %v", err)
	}
}

func TestTokenWrongKeyRejected(t *testing.T) {
	a := newTokenManager(t)
	b := newTokenManager(t)
	now := time.Now()

	token, _, err := a.Issue(identity.Account{ID: 1, Status: identity.StatusActive}, "sid", "", "", now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := b.Verify(token, now); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected foreign signature to fail, got %v", err)
	}
}

func TestTokenManagerRejectsBadSecret(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PasetoV4SecretKeyHex = "deadbeef"
	if _, err := NewPasetoV4PublicManager(cfg); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
}
