package goIdentity

import (
	"context"
	"time"
)

// Refresh rotates a refresh token: the presented value is atomically consumed
// and a new pair is issued for the presenting device. When several callers
// race on one value, exactly one wins; the rest get [ErrUnauthorized].
//
// The owning user is re-read from the store, not the cache, so role changes
// and deletions take effect in the new access token. An expired record is
// consumed but honored for nothing. A device different from the one the
// record was minted for migrates the session: the new record binds to the
// presenting device. An empty device keeps the record's existing binding.
func (e *Engine) Refresh(ctx context.Context, refreshToken, device string) (*TokenPair, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if refreshToken == "" {
		return nil, ErrUnauthorized
	}

	sctx, cancel := context.WithTimeout(ctx, e.config.Timeouts.Store)
	record, err := e.store.DeleteAndReturnRefreshTokenByValue(sctx, refreshToken)
	cancel()
	if err != nil {
		mapped := e.storeErr(sctx, err)
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefreshInvalid, false, "", "", device, mapped, nil)
		return nil, mapped
	}
	if record == nil {
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefreshInvalid, false, "", "", device, ErrUnauthorized, nil)
		return nil, ErrUnauthorized
	}

	if device == "" {
		device = record.UserAgent
	}

	if time.Now().After(record.ExpiresAt) {
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefreshInvalid, false, record.UserID, "", device, ErrUnauthorized, func() map[string]string {
			return map[string]string{"reason": "expired"}
		})
		return nil, ErrUnauthorized
	}

	user, err := e.resolveUser(ctx, record.UserID, true)
	if err != nil {
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefreshInvalid, false, record.UserID, "", device, err, nil)
		return nil, err
	}
	if user == nil {
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefreshInvalid, false, record.UserID, "", device, ErrUnauthorized, func() map[string]string {
			return map[string]string{"reason": "user gone"}
		})
		return nil, ErrUnauthorized
	}

	pair, err := e.issueTokens(ctx, user, device)
	if err != nil {
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefreshInvalid, false, user.ID, user.Email, device, err, nil)
		return nil, err
	}

	e.metricInc(MetricRefreshSuccess)
	e.emitAudit(ctx, auditEventRefreshSuccess, true, user.ID, user.Email, device, nil, nil)

	return pair, nil
}
