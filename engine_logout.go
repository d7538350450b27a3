package goIdentity

import "context"

// Logout consumes the given refresh token so it can never rotate again.
// Logging out an unknown or already-consumed token is a success; the caller
// only cares that the token is dead afterwards. The access token, being
// stateless, stays valid until its expiry passes.
func (e *Engine) Logout(ctx context.Context, refreshToken string) error {
	if err := e.ready(); err != nil {
		return err
	}
	if refreshToken == "" {
		return nil
	}

	sctx, cancel := context.WithTimeout(ctx, e.config.Timeouts.Store)
	defer cancel()

	record, err := e.store.DeleteAndReturnRefreshTokenByValue(sctx, refreshToken)
	if err != nil {
		return e.storeErr(sctx, err)
	}
	if record == nil {
		return nil
	}

	e.metricInc(MetricLogout)
	e.emitAudit(ctx, auditEventLogoutSession, true, record.UserID, "", record.UserAgent, nil, nil)

	return nil
}
