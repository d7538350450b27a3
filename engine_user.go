package goIdentity

import (
	"context"
	"log"
)

// FindUser resolves a user by id or email through the cache-aside path.
// Returns [ErrUserNotFound] when no account matches.
func (e *Engine) FindUser(ctx context.Context, key string) (*User, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	user, err := e.resolveUser(ctx, key, false)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return user, nil
}

// UpsertUser creates or updates an account keyed by email and eagerly
// refreshes its cache entries. This is the administrative write path; it does
// no authorization of its own.
func (e *Engine) UpsertUser(ctx context.Context, input UpsertUserInput) (*User, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	sctx, cancel := context.WithTimeout(ctx, e.config.Timeouts.Store)
	user, err := e.store.UpsertUserByEmail(sctx, input)
	cancel()
	if err != nil {
		return nil, e.storeErr(sctx, err)
	}

	if err := e.cachePopulate(ctx, user); err != nil {
		log.Print("goIdentity: cache populate failed: ", err)
		e.invalidateUser(ctx, user.ID, user.Email)
	}

	e.emitAudit(ctx, auditEventUserUpserted, true, user.ID, user.Email, "", nil, nil)

	return cloneUser(user), nil
}

// DeleteUser removes the account with the given id and returns that id. The
// actor must be the target itself or carry [RoleAdmin]; anything else is
// [ErrForbidden]. On success the deleted account's cache entries, both id
// and email, are evicted so a cached snapshot cannot resurrect it within the
// TTL window.
func (e *Engine) DeleteUser(ctx context.Context, id string, actor AccessIdentity) (string, error) {
	if err := e.ready(); err != nil {
		return "", err
	}

	if actor.UserID != id && !actor.HasRole(RoleAdmin) {
		e.emitAudit(ctx, auditEventUserDeleteDenied, false, actor.UserID, actor.Email, "", ErrForbidden, func() map[string]string {
			return map[string]string{"target": id}
		})
		return "", ErrForbidden
	}

	target, err := e.storeFindUser(ctx, id)
	if err != nil {
		return "", err
	}
	if target == nil {
		return "", ErrUserNotFound
	}

	sctx, cancel := context.WithTimeout(ctx, e.config.Timeouts.Store)
	deleted, err := e.store.DeleteUserByID(sctx, id)
	cancel()
	if err != nil {
		return "", e.storeErr(sctx, err)
	}
	if !deleted {
		return "", ErrUserNotFound
	}

	e.invalidateUser(ctx, target.ID, target.Email)

	e.metricInc(MetricUserDeleted)
	e.emitAudit(ctx, auditEventUserDeleted, true, actor.UserID, actor.Email, "", nil, func() map[string]string {
		return map[string]string{"target": id}
	})

	return target.ID, nil
}
