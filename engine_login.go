package goIdentity

import "context"

// Login authenticates an email and password and issues a fresh token pair
// bound to the calling device.
//
// The user read bypasses the cache so a rotated password takes effect
// immediately. Unknown email, provider-only account, and wrong password all
// return [ErrInvalidCredentials]; the failure paths verify against a decoy
// hash so their timing does not reveal which case occurred.
func (e *Engine) Login(ctx context.Context, email, passwd, device string) (*TokenPair, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	user, err := e.resolveUser(ctx, email, true)
	if err != nil {
		// A failed lookup must read exactly like an unknown email; the audit
		// event keeps the real cause.
		_, _ = e.passwordHash.Verify(passwd, e.dummyHash)
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, "", email, device, err, nil)
		return nil, ErrInvalidCredentials
	}

	if user == nil || user.PasswordHash == "" {
		_, _ = e.passwordHash.Verify(passwd, e.dummyHash)
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, "", email, device, ErrInvalidCredentials, nil)
		return nil, ErrInvalidCredentials
	}

	ok, err := e.passwordHash.Verify(passwd, user.PasswordHash)
	if err != nil || !ok {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, user.ID, email, device, ErrInvalidCredentials, nil)
		return nil, ErrInvalidCredentials
	}

	pair, err := e.issueTokens(ctx, user, device)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, user.ID, email, device, err, nil)
		return nil, err
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, user.ID, email, device, nil, nil)

	return pair, nil
}
