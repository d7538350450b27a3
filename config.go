package goIdentity

import (
	"errors"
	"time"
)

// Config is the complete engine configuration. It is cloned by
// [Builder.Build]; mutating a Config after Build has no effect on the engine.
type Config struct {
	JWT      JWTConfig
	Refresh  RefreshConfig
	Cache    CacheConfig
	Password PasswordConfig
	Timeouts TimeoutConfig
	Account  AccountConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig controls access-token signing. SigningMethod is "ed25519"
// (default) or "hs256".
type JWTConfig struct {
	AccessTTL     time.Duration
	SigningMethod string
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Leeway        time.Duration
}

/*
====================================
REFRESH CONFIG
====================================
*/

// RefreshConfig controls refresh-token lifetime. Expiry is computed in
// calendar months: the same day-of-month LifetimeMonths later, clamped to the
// last day when the target month is shorter.
type RefreshConfig struct {
	LifetimeMonths int
}

/*
====================================
CACHE CONFIG
====================================
*/

// CacheConfig controls the Redis identity cache. A zero TTL derives the entry
// lifetime from JWTConfig.AccessTTL.
type CacheConfig struct {
	RedisPrefix string
	TTL         time.Duration
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig holds argon2id parameters. Memory is in KB.
type PasswordConfig struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

/*
====================================
TIMEOUT CONFIG
====================================
*/

// TimeoutConfig bounds every outbound call so a stalled collaborator fails the
// operation with [ErrStoreTimeout] instead of hanging the caller.
type TimeoutConfig struct {
	Store    time.Duration
	Cache    time.Duration
	Provider time.Duration
}

/*
====================================
ACCOUNT CONFIG
====================================
*/

// AccountConfig controls defaults applied to newly registered accounts.
type AccountConfig struct {
	DefaultRoles []Role
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process counters.
type MetricsConfig struct {
	Enabled bool
}

func defaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			AccessTTL:     5 * time.Minute,
			SigningMethod: "ed25519",
		},
		Refresh: RefreshConfig{
			LifetimeMonths: 1,
		},
		Cache: CacheConfig{
			RedisPrefix: "gid",
		},
		Password: PasswordConfig{
			Memory:      64 * 1024,
			Time:        3,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
		},
		Timeouts: TimeoutConfig{
			Store:    3 * time.Second,
			Cache:    time.Second,
			Provider: 5 * time.Second,
		},
		Account: AccountConfig{
			DefaultRoles: []Role{RoleUser},
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.JWT.PrivateKey = cloneBytes(cfg.JWT.PrivateKey)
	out.JWT.PublicKey = cloneBytes(cfg.JWT.PublicKey)
	out.Account.DefaultRoles = cloneRoles(cfg.Account.DefaultRoles)
	return out
}

// Validate reports the first configuration error, if any. Build calls it;
// exposing it lets callers validate configs loaded from their own sources.
func (c Config) Validate() error {
	if c.JWT.AccessTTL <= 0 {
		return errors.New("JWT AccessTTL must be positive")
	}
	switch c.JWT.SigningMethod {
	case "ed25519", "hs256":
	default:
		return errors.New("unsupported JWT signing method")
	}
	if c.Refresh.LifetimeMonths < 1 {
		return errors.New("Refresh LifetimeMonths must be >= 1")
	}
	if c.Cache.TTL < 0 {
		return errors.New("Cache TTL must not be negative")
	}
	if c.Cache.RedisPrefix == "" {
		return errors.New("Cache RedisPrefix must not be empty")
	}
	if c.Timeouts.Store <= 0 || c.Timeouts.Cache <= 0 || c.Timeouts.Provider <= 0 {
		return errors.New("Timeouts must be positive")
	}
	if len(c.Account.DefaultRoles) == 0 {
		return errors.New("Account DefaultRoles must not be empty")
	}
	return nil
}

// cacheTTL resolves the effective identity-cache entry lifetime: the explicit
// Cache.TTL when set, otherwise the access-token lifetime.
func (c Config) cacheTTL() time.Duration {
	if c.Cache.TTL > 0 {
		return c.Cache.TTL
	}
	return c.JWT.AccessTTL
}
