package goIdentity

import (
	"context"
	"errors"
	"testing"

	"github.com/MrEthical07/goIdentity/provider"
)

type fakeVerifier struct {
	name      string
	identity  *provider.Identity
	verifyErr error
	calls     int
}

func (f *fakeVerifier) Name() string { return f.name }

func (f *fakeVerifier) Verify(ctx context.Context, accessToken string) (*provider.Identity, error) {
	f.calls++
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return f.identity, nil
}

func TestProviderLoginCreatesAccount(t *testing.T) {
	store := newMockStore()
	engine, _, done := newTestEngine(t, testConfig(), store)
	defer done()

	verifier := &fakeVerifier{
		name:     "GOOGLE",
		identity: &provider.Identity{Email: "Alice@Example.com"},
	}

	pair, err := engine.ProviderLogin(context.Background(), verifier, "provider-token", "android")
	if err != nil {
		t.Fatalf("ProviderLogin failed: %v", err)
	}

	identity, err := engine.Authenticate(pair.AccessToken)
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if identity.Email != "Alice@Example.com" {
		t.Fatalf("expected verified email in claims, got %q", identity.Email)
	}

	user, err := engine.FindUser(context.Background(), "Alice@Example.com")
	if err != nil {
		t.Fatalf("FindUser failed: %v", err)
	}
	if user.Provider != ProviderGoogle {
		t.Fatalf("expected GOOGLE provider tag, got %s", user.Provider)
	}
	if user.PasswordHash != "" {
		t.Fatal("provider-created account must have no password hash")
	}
	if !user.HasRole(RoleUser) {
		t.Fatal("expected default USER role")
	}
}

func TestProviderLoginLastProviderWins(t *testing.T) {
	store := newMockStore()
	engine, _, done := newTestEngine(t, testConfig(), store)
	defer done()

	mustRegister(t, engine, "alice@example.com", "correct horse battery")

	verifier := &fakeVerifier{
		name:     "YANDEX",
		identity: &provider.Identity{Email: "alice@example.com"},
	}
	if _, err := engine.ProviderLogin(context.Background(), verifier, "provider-token", "android"); err != nil {
		t.Fatalf("ProviderLogin failed: %v", err)
	}

	user, err := engine.FindUser(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("FindUser failed: %v", err)
	}
	if user.Provider != ProviderYandex {
		t.Fatalf("expected provider tag to follow the last login, got %s", user.Provider)
	}

	// Linking a provider must not destroy the local credential.
	if _, err := engine.Login(context.Background(), "alice@example.com", "correct horse battery", "firefox"); err != nil {
		t.Fatalf("password login must still work after provider link, got %v", err)
	}
}

func TestProviderLoginRejectedToken(t *testing.T) {
	store := newMockStore()
	engine, _, done := newTestEngine(t, testConfig(), store)
	defer done()

	verifier := &fakeVerifier{
		name:      "GOOGLE",
		verifyErr: provider.ErrInvalidToken,
	}

	_, err := engine.ProviderLogin(context.Background(), verifier, "bad-token", "android")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if store.upsertCalls != 0 {
		t.Fatal("no account activity on a rejected token")
	}
}

func TestProviderLoginStoreFailure(t *testing.T) {
	store := newMockStore()
	engine, _, done := newTestEngine(t, testConfig(), store)
	defer done()

	store.upsertErr = errors.New("connection refused")
	verifier := &fakeVerifier{
		name:     "GOOGLE",
		identity: &provider.Identity{Email: "alice@example.com"},
	}

	_, err := engine.ProviderLogin(context.Background(), verifier, "provider-token", "android")
	if !errors.Is(err, ErrProviderAuth) {
		t.Fatalf("expected ErrProviderAuth, got %v", err)
	}
}

func TestProviderAuthWithVerifiedEmail(t *testing.T) {
	store := newMockStore()
	engine, _, done := newTestEngine(t, testConfig(), store)
	defer done()

	pair, err := engine.ProviderAuth(context.Background(), "alice@example.com", "ios", ProviderGoogle)
	if err != nil {
		t.Fatalf("ProviderAuth failed: %v", err)
	}
	if pair.RefreshToken.UserAgent != "ios" {
		t.Fatalf("expected device binding, got %q", pair.RefreshToken.UserAgent)
	}

	if _, err := engine.ProviderAuth(context.Background(), "", "ios", ProviderGoogle); err == nil {
		t.Fatal("expected error for empty email")
	}
	if _, err := engine.ProviderAuth(context.Background(), "alice@example.com", "ios", ""); err == nil {
		t.Fatal("expected error for empty provider")
	}
}

func TestProviderLoginNilVerifier(t *testing.T) {
	store := newMockStore()
	engine, _, done := newTestEngine(t, testConfig(), store)
	defer done()

	if _, err := engine.ProviderLogin(context.Background(), nil, "token", "android"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
