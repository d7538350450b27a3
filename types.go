package goIdentity

import (
	"context"
	"time"
)

// Role is a coarse authorization role carried in access-token claims.
type Role string

const (
	// RoleUser is the default role assigned to every new account.
	RoleUser Role = "USER"
	// RoleAdmin grants administrative operations such as deleting other accounts.
	RoleAdmin Role = "ADMIN"
)

// Provider tags the identity provider an account was last authenticated through.
type Provider string

const (
	// ProviderLocal marks accounts registered with an email and password.
	ProviderLocal Provider = "LOCAL"
	// ProviderGoogle marks accounts linked through Google OAuth.
	ProviderGoogle Provider = "GOOGLE"
	// ProviderYandex marks accounts linked through Yandex OAuth.
	ProviderYandex Provider = "YANDEX"
)

// User is the account record exchanged with the [IdentityStore] and cached by the
// engine. PasswordHash is empty for provider-only accounts; it is never included in
// access-token claims and callers rendering users outward must drop it themselves.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Roles        []Role
	Provider     Provider
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(role Role) bool {
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// TokenRecord is a persisted refresh token bound to one (user, device) pair.
// At most one live record exists per pair: a new login from the same device
// replaces the record's value and expiry rather than appending a second one.
type TokenRecord struct {
	Token     string
	UserID    string
	UserAgent string
	ExpiresAt time.Time
}

// TokenPair is returned by Login, Refresh, and ProviderAuth. AccessToken is a
// short-lived signed JWT; RefreshToken is the stored record, whose value the
// caller transports back verbatim on the next refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken TokenRecord
}

// AccessIdentity is the authenticated actor extracted from a validated access
// token, used for authorization decisions such as [Engine.DeleteUser].
type AccessIdentity struct {
	UserID string
	Email  string
	Roles  []Role
}

// HasRole reports whether the actor carries the given role.
func (a AccessIdentity) HasRole(role Role) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// UpsertUserInput describes a user create-or-update keyed by email.
// A nil PasswordHash leaves the stored hash untouched on update and creates a
// provider-only account on insert. Empty Roles default to {RoleUser} on insert.
type UpsertUserInput struct {
	Email        string
	PasswordHash *string
	Roles        []Role
	Provider     Provider
}

// IdentityStore is the transactional persistence contract the engine consumes.
// Implementations own durable state and uniqueness enforcement (email, token
// value); the engine never relies on the cache for either.
//
// DeleteAndReturnRefreshTokenByValue must be atomic: concurrent calls for the
// same value yield the record to exactly one caller and (nil, nil) to the rest.
// A plain read-then-delete is insufficient and permits refresh reuse races.
type IdentityStore interface {
	// FindUserByIDOrEmail returns the user whose id or email equals key, or
	// (nil, nil) when no such user exists.
	FindUserByIDOrEmail(ctx context.Context, key string) (*User, error)

	// UpsertUserByEmail inserts or updates a user keyed by email and returns
	// the resulting record.
	UpsertUserByEmail(ctx context.Context, input UpsertUserInput) (*User, error)

	// DeleteUserByID removes the user and returns (false, nil) when absent.
	DeleteUserByID(ctx context.Context, id string) (bool, error)

	// FindRefreshTokenByUserAndDevice returns the live record for the pair,
	// or (nil, nil) when none exists. The engine's issuance path folds the
	// lookup into UpsertRefreshTokenByUserAndDevice and never calls this; it
	// is part of the contract for callers inspecting session state directly.
	FindRefreshTokenByUserAndDevice(ctx context.Context, userID, userAgent string) (*TokenRecord, error)

	// UpsertRefreshTokenByUserAndDevice inserts a record for the pair or
	// replaces the existing record's token value and expiry in place.
	UpsertRefreshTokenByUserAndDevice(ctx context.Context, record TokenRecord) error

	// DeleteAndReturnRefreshTokenByValue atomically removes the record with
	// the given token value and returns it, or (nil, nil) when absent.
	DeleteAndReturnRefreshTokenByValue(ctx context.Context, token string) (*TokenRecord, error)
}

func cloneRoles(roles []Role) []Role {
	if len(roles) == 0 {
		return nil
	}
	out := make([]Role, len(roles))
	copy(out, roles)
	return out
}

func cloneUser(u *User) *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Roles = cloneRoles(u.Roles)
	return &c
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
