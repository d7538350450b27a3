package goIdentity

import "errors"

var (
	// ErrAlreadyExists is returned by Register when the email is taken.
	ErrAlreadyExists = errors.New("user already registered")
	// ErrInvalidCredentials is returned by Login for an unknown email or a
	// wrong password; the two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized is returned by Refresh for a missing, expired, or
	// already-consumed refresh token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is returned by DeleteUser when the actor is neither the
	// target account nor an administrator.
	ErrForbidden = errors.New("permission denied")
	// ErrUserNotFound is returned by lookups and deletes of absent users.
	ErrUserNotFound = errors.New("user not found")
	// ErrProviderAuth is returned by ProviderAuth when account creation fails
	// at the store layer.
	ErrProviderAuth = errors.New("provider account creation failed")
	// ErrStoreUnavailable is returned when the identity store fails on a path
	// that must not be misreported as a miss (e.g. the registration
	// duplicate check).
	ErrStoreUnavailable = errors.New("identity store unavailable")
	// ErrStoreTimeout is returned when a store call exceeds the configured
	// timeout.
	ErrStoreTimeout = errors.New("identity store timeout")
	// ErrEngineNotReady is returned when an Engine is used before Build.
	ErrEngineNotReady = errors.New("engine not initialized")
)
