package goIdentity

import (
	"context"
	"errors"
	"testing"
)

func TestRegisterSuccess(t *testing.T) {
	store := newMockStore()
	engine, _, done := newTestEngine(t, testConfig(), store)
	defer done()

	user := mustRegister(t, engine, "Alice@Example.com", "correct horse battery")

	if user.ID == "" {
		t.Fatal("expected created user id")
	}
	if user.Email != "Alice@Example.com" {
		t.Fatalf("expected email stored as presented, got %q", user.Email)
	}
	if user.Provider != ProviderLocal {
		t.Fatalf("expected LOCAL provider, got %s", user.Provider)
	}
	if !user.HasRole(RoleUser) {
		t.Fatal("expected default USER role")
	}

	if user.PasswordHash == "" || user.PasswordHash == "correct horse battery" {
		t.Fatal("expected stored password to be hashed")
	}
	ok, err := engine.passwordHash.Verify("correct horse battery", user.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("expected stored hash to verify, ok=%v err=%v", ok, err)
	}
}

func TestRegisterEmailCaseSensitive(t *testing.T) {
	store := newMockStore()
	engine, _, done := newTestEngine(t, testConfig(), store)
	defer done()

	upper := mustRegister(t, engine, "Alice@example.com", "first-password")
	lower := mustRegister(t, engine, "alice@example.com", "second-password")

	if upper.ID == lower.ID {
		t.Fatal("case-differing emails must create distinct accounts")
	}
	if upper.Email != "Alice@example.com" || lower.Email != "alice@example.com" {
		t.Fatalf("emails must be stored as presented, got %q and %q", upper.Email, lower.Email)
	}

	// Each account is reachable only under its own spelling.
	found, err := engine.FindUser(context.Background(), "Alice@example.com")
	if err != nil {
		t.Fatalf("FindUser failed: %v", err)
	}
	if found.ID != upper.ID {
		t.Fatalf("lookup by exact email resolved the wrong account: got %s, want %s", found.ID, upper.ID)
	}
}

func TestRegisterDuplicateRejected(t *testing.T) {
	store := newMockStore()
	engine, _, done := newTestEngine(t, testConfig(), store)
	defer done()

	first := mustRegister(t, engine, "alice@example.com", "first-password")

	_, err := engine.Register(context.Background(), "alice@example.com", "second-password")
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	// The existing account must be untouched.
	current, err := engine.FindUser(context.Background(), first.ID)
	if err != nil {
		t.Fatalf("FindUser failed: %v", err)
	}
	if current.PasswordHash != first.PasswordHash {
		t.Fatal("duplicate registration must not change the stored hash")
	}
}

func TestRegisterStoreOutageFailsClosed(t *testing.T) {
	store := newMockStore()
	engine, _, done := newTestEngine(t, testConfig(), store)
	defer done()

	store.findUserErr = errors.New("connection refused")

	_, err := engine.Register(context.Background(), "bob@example.com", "some-password")
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if store.upsertCalls != 0 {
		t.Fatal("must not attempt account creation when the duplicate check failed")
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	store := newMockStore()
	engine, _, done := newTestEngine(t, testConfig(), store)
	defer done()

	if _, err := engine.Register(context.Background(), "bob@example.com", "tiny"); err == nil {
		t.Fatal("expected error for short password")
	}
	if store.upsertCalls != 0 {
		t.Fatal("no account should be created for a rejected password")
	}
}

func TestRegisterMetrics(t *testing.T) {
	store := newMockStore()
	engine, _, done := newTestEngine(t, testConfig(), store)
	defer done()

	mustRegister(t, engine, "alice@example.com", "first-password")
	_, _ = engine.Register(context.Background(), "alice@example.com", "second-password")

	snap := engine.MetricsSnapshot()
	if snap.Counters[MetricRegisterSuccess] != 1 {
		t.Fatalf("expected 1 register success, got %d", snap.Counters[MetricRegisterSuccess])
	}
	if snap.Counters[MetricRegisterDuplicate] != 1 {
		t.Fatalf("expected 1 register duplicate, got %d", snap.Counters[MetricRegisterDuplicate])
	}
}
