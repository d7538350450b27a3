package goIdentity

import (
	"context"
	"errors"
	"fmt"
)

// Register creates a local account for the given email and password.
//
// The email is stored exactly as presented and matched case-sensitively;
// addresses differing only in case are distinct accounts.
//
// The duplicate check reads the store directly, never the cache, and a store
// failure during it fails the call with [ErrStoreUnavailable] rather than
// risking a second account behind a false miss. The new account carries the
// configured default roles and the LOCAL provider tag. The cache is not
// populated here; the first resolution after login warms it.
func (e *Engine) Register(ctx context.Context, email, passwd string) (*User, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	if email == "" {
		return nil, errors.New("email required")
	}

	existing, err := e.storeFindUser(ctx, email)
	if err != nil {
		e.emitAudit(ctx, auditEventRegisterFailure, false, "", email, "", err, nil)
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if existing != nil {
		e.metricInc(MetricRegisterDuplicate)
		e.emitAudit(ctx, auditEventRegisterDuplicate, false, existing.ID, email, "", ErrAlreadyExists, nil)
		return nil, ErrAlreadyExists
	}

	hash, err := e.passwordHash.Hash(passwd)
	if err != nil {
		return nil, err
	}

	sctx, cancel := context.WithTimeout(ctx, e.config.Timeouts.Store)
	defer cancel()

	user, err := e.store.UpsertUserByEmail(sctx, UpsertUserInput{
		Email:        email,
		PasswordHash: &hash,
		Roles:        cloneRoles(e.config.Account.DefaultRoles),
		Provider:     ProviderLocal,
	})
	if err != nil {
		mapped := e.storeErr(sctx, err)
		e.emitAudit(ctx, auditEventRegisterFailure, false, "", email, "", mapped, nil)
		return nil, mapped
	}

	e.metricInc(MetricRegisterSuccess)
	e.emitAudit(ctx, auditEventRegisterSuccess, true, user.ID, email, "", nil, nil)

	return cloneUser(user), nil
}
