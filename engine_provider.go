package goIdentity

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/goIdentity/provider"
)

// ProviderAuth signs in a user whose email was already verified by an
// external identity provider: the account is created or relinked by email,
// tagged with the provider, and a token pair is issued for the device.
//
// The account upsert failing maps to [ErrProviderAuth]. The provider tag
// always records the provider used last, and a first-time provider account
// is created without a password hash, so it cannot be used for password
// login. Use [Engine.ProviderLogin] when the provider token still needs
// verifying.
func (e *Engine) ProviderAuth(ctx context.Context, email, device string, p Provider) (*TokenPair, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	if email == "" {
		return nil, errors.New("email required")
	}
	if p == "" {
		return nil, errors.New("provider required")
	}

	sctx, cancel := context.WithTimeout(ctx, e.config.Timeouts.Store)
	user, err := e.store.UpsertUserByEmail(sctx, UpsertUserInput{
		Email:    email,
		Provider: p,
	})
	cancel()
	if err != nil {
		mapped := e.storeErr(sctx, err)
		e.metricInc(MetricProviderLoginFailure)
		e.emitAudit(ctx, auditEventProviderLoginFailure, false, "", email, device, mapped, func() map[string]string {
			return map[string]string{"provider": string(p)}
		})
		return nil, fmt.Errorf("%w: %v", ErrProviderAuth, mapped)
	}

	// The provider tag just changed; refresh the cached snapshot now so reads
	// in the access-token window see it.
	if err := e.cachePopulate(ctx, user); err != nil {
		e.invalidateUser(ctx, user.ID, user.Email)
	}

	pair, err := e.issueTokens(ctx, user, device)
	if err != nil {
		e.metricInc(MetricProviderLoginFailure)
		e.emitAudit(ctx, auditEventProviderLoginFailure, false, user.ID, email, device, err, nil)
		return nil, err
	}

	e.metricInc(MetricProviderLoginSuccess)
	e.emitAudit(ctx, auditEventProviderLoginSuccess, true, user.ID, email, device, nil, func() map[string]string {
		return map[string]string{"provider": string(p)}
	})

	return pair, nil
}

// ProviderLogin verifies a provider access token and signs the verified
// identity in. A rejected or unreachable provider maps to [ErrUnauthorized];
// the rest is [Engine.ProviderAuth].
func (e *Engine) ProviderLogin(ctx context.Context, verifier provider.Verifier, providerToken, device string) (*TokenPair, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if verifier == nil {
		return nil, ErrUnauthorized
	}

	pctx, cancel := context.WithTimeout(ctx, e.config.Timeouts.Provider)
	identity, err := verifier.Verify(pctx, providerToken)
	cancel()
	if err != nil {
		e.metricInc(MetricProviderLoginFailure)
		e.emitAudit(ctx, auditEventProviderLoginFailure, false, "", "", device, err, func() map[string]string {
			return map[string]string{"provider": verifier.Name()}
		})
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	return e.ProviderAuth(ctx, identity.Email, device, Provider(verifier.Name()))
}
