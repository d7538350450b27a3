package goIdentity

import (
	"context"
	"errors"
	"log"

	"github.com/MrEthical07/goIdentity/idcache"
	"github.com/MrEthical07/goIdentity/jwt"
	"github.com/MrEthical07/goIdentity/password"
)

// Engine is the identity lifecycle facade: registration, credential and
// provider login, token refresh, logout, and account management. Build one
// through [Builder]; an Engine is immutable and safe for concurrent use.
type Engine struct {
	config       Config
	store        IdentityStore
	cache        *idcache.Cache
	audit        *auditDispatcher
	metrics      *Metrics
	passwordHash *password.Argon2
	jwtManager   *jwt.Manager
	dummyHash    string
}

// Close stops the audit dispatcher after draining buffered events.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped reports how many audit events were discarded because the
// dispatcher buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of all counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) ready() error {
	if e == nil || e.store == nil || e.cache == nil || e.jwtManager == nil || e.passwordHash == nil {
		return ErrEngineNotReady
	}
	return nil
}

// Authenticate validates an access token and returns the actor it asserts.
// Any signature, expiry, or claim failure maps to [ErrUnauthorized].
func (e *Engine) Authenticate(token string) (AccessIdentity, error) {
	if err := e.ready(); err != nil {
		return AccessIdentity{}, err
	}

	claims, err := e.jwtManager.ParseAccess(token)
	if err != nil {
		return AccessIdentity{}, ErrUnauthorized
	}

	roles := make([]Role, len(claims.Roles))
	for i, r := range claims.Roles {
		roles[i] = Role(r)
	}

	return AccessIdentity{
		UserID: claims.UID,
		Email:  claims.Email,
		Roles:  roles,
	}, nil
}

// resolveUser is the cache-aside read path shared by every user lookup.
//
// With bypass set, the cached entry for key is deleted before the store read
// so a stale snapshot cannot satisfy the call. Cache failures on reads and
// populates are logged and absorbed; only the store is authoritative, and
// only its errors propagate. Misses are never cached.
//
// Keys are matched exactly. Emails are case-sensitive, both as stored and as
// looked up; the email cache alias is always written from the stored value,
// so cache and store agree without any canonicalization.
func (e *Engine) resolveUser(ctx context.Context, key string, bypass bool) (*User, error) {
	if key == "" {
		return nil, nil
	}

	if bypass {
		if err := e.cacheDelete(ctx, key); err != nil {
			log.Print("goIdentity: cache evict failed: ", err)
		}
	} else {
		rec, err := e.cacheGet(ctx, key)
		if err != nil {
			log.Print("goIdentity: cache read failed: ", err)
		} else if rec != nil {
			e.metricInc(MetricCacheHit)
			return userFromRecord(rec), nil
		}
	}

	e.metricInc(MetricCacheMiss)

	user, err := e.storeFindUser(ctx, key)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	if err := e.cachePopulate(ctx, user); err != nil {
		log.Print("goIdentity: cache populate failed: ", err)
	}

	return user, nil
}

// cachePopulate writes the user under both aliases with the configured TTL.
func (e *Engine) cachePopulate(ctx context.Context, user *User) error {
	cctx, cancel := context.WithTimeout(ctx, e.config.Timeouts.Cache)
	defer cancel()
	return e.cache.Set(cctx, recordFromUser(user), e.config.cacheTTL())
}

func (e *Engine) cacheGet(ctx context.Context, key string) (*idcache.Record, error) {
	cctx, cancel := context.WithTimeout(ctx, e.config.Timeouts.Cache)
	defer cancel()
	return e.cache.Get(cctx, key)
}

func (e *Engine) cacheDelete(ctx context.Context, keys ...string) error {
	cctx, cancel := context.WithTimeout(ctx, e.config.Timeouts.Cache)
	defer cancel()
	return e.cache.Delete(cctx, keys...)
}

// invalidateUser evicts both aliases of a user whose durable state changed.
func (e *Engine) invalidateUser(ctx context.Context, id, email string) {
	if err := e.cacheDelete(ctx, id, email); err != nil {
		log.Print("goIdentity: cache invalidate failed: ", err)
	}
}

func (e *Engine) storeFindUser(ctx context.Context, key string) (*User, error) {
	sctx, cancel := context.WithTimeout(ctx, e.config.Timeouts.Store)
	defer cancel()

	user, err := e.store.FindUserByIDOrEmail(sctx, key)
	if err != nil {
		return nil, e.storeErr(sctx, err)
	}
	return user, nil
}

// storeErr maps a store failure to the package error taxonomy: deadline hits
// become [ErrStoreTimeout], everything else stays as delivered.
func (e *Engine) storeErr(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrStoreTimeout
	}
	return err
}

func userFromRecord(rec *idcache.Record) *User {
	if rec == nil {
		return nil
	}
	roles := make([]Role, len(rec.Roles))
	for i, r := range rec.Roles {
		roles[i] = Role(r)
	}
	return &User{
		ID:           rec.ID,
		Email:        rec.Email,
		PasswordHash: rec.PasswordHash,
		Roles:        roles,
		Provider:     Provider(rec.Provider),
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
}

func recordFromUser(user *User) *idcache.Record {
	if user == nil {
		return nil
	}
	roles := make([]string, len(user.Roles))
	for i, r := range user.Roles {
		roles[i] = string(r)
	}
	return &idcache.Record{
		ID:           user.ID,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Roles:        roles,
		Provider:     string(user.Provider),
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

func rolesToStrings(roles []Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}
