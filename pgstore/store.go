package pgstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrEthical07/goIdentity"
)

// Schema creates the tables the store expects. Run it through your migration
// tooling; the store never executes DDL on its own.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT,
	roles         TEXT[] NOT NULL,
	provider      TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS refresh_tokens (
	token      TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	user_agent TEXT NOT NULL,
	expires_at TIMESTAMPTZ NOT NULL,
	UNIQUE (user_id, user_agent)
);
`

// DatabaseIface is the connection surface the store needs. pgxpool.Pool and
// pgxmock both satisfy it.
type DatabaseIface interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Close()
}

// Store implements the identity store contract on PostgreSQL.
type Store struct {
	db     DatabaseIface
	logger *slog.Logger
}

// New creates a Store on the given connection. A nil logger falls back to
// slog.Default.
func New(db DatabaseIface, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		db:     db,
		logger: logger.With("component", "pgstore"),
	}
}

// Close releases the underlying connection pool.
func (s *Store) Close() {
	s.db.Close()
}

const userColumns = "id, email, password_hash, roles, provider, created_at, updated_at"

// FindUserByIDOrEmail returns the user whose id or email equals key, or
// (nil, nil) when no row matches.
func (s *Store) FindUserByIDOrEmail(ctx context.Context, key string) (*goIdentity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 OR email = $1`

	user, err := scanUser(s.db.QueryRow(ctx, query, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		s.logger.Error("user lookup failed", "error", err)
		return nil, fmt.Errorf("find user: %w", err)
	}

	return user, nil
}

// UpsertUserByEmail inserts a user or updates the existing row with the same
// email. A nil PasswordHash keeps the stored hash; empty Roles keep the
// stored roles on update and default to USER on insert. The provider tag is
// always overwritten.
func (s *Store) UpsertUserByEmail(ctx context.Context, input goIdentity.UpsertUserInput) (*goIdentity.User, error) {
	if input.Email == "" {
		return nil, errors.New("email required")
	}
	if input.Provider == "" {
		input.Provider = goIdentity.ProviderLocal
	}

	insertRoles := rolesToStrings(input.Roles)
	if len(insertRoles) == 0 {
		insertRoles = []string{string(goIdentity.RoleUser)}
	}

	query := `
		INSERT INTO users (id, email, password_hash, roles, provider)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO UPDATE SET
			password_hash = COALESCE(EXCLUDED.password_hash, users.password_hash),
			roles = CASE WHEN $6 THEN EXCLUDED.roles ELSE users.roles END,
			provider = EXCLUDED.provider,
			updated_at = now()
		RETURNING ` + userColumns

	row := s.db.QueryRow(ctx, query,
		uuid.New().String(),
		input.Email,
		input.PasswordHash,
		insertRoles,
		string(input.Provider),
		len(input.Roles) > 0,
	)

	user, err := scanUser(row)
	if err != nil {
		s.logger.Error("user upsert failed", "email", input.Email, "error", err)
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	return user, nil
}

// DeleteUserByID removes the user and, via the schema cascade, every refresh
// record it owns. Returns (false, nil) when no row matched.
func (s *Store) DeleteUserByID(ctx context.Context, id string) (bool, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		s.logger.Error("user delete failed", "user_id", id, "error", err)
		return false, fmt.Errorf("delete user: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// FindRefreshTokenByUserAndDevice returns the live record for the pair, or
// (nil, nil) when none exists.
func (s *Store) FindRefreshTokenByUserAndDevice(ctx context.Context, userID, userAgent string) (*goIdentity.TokenRecord, error) {
	query := `SELECT token, user_id, user_agent, expires_at FROM refresh_tokens WHERE user_id = $1 AND user_agent = $2`

	record, err := scanTokenRecord(s.db.QueryRow(ctx, query, userID, userAgent))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		s.logger.Error("refresh token lookup failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("find refresh token: %w", err)
	}

	return record, nil
}

// UpsertRefreshTokenByUserAndDevice inserts a record or replaces the token
// value and expiry of the pair's existing record in place.
func (s *Store) UpsertRefreshTokenByUserAndDevice(ctx context.Context, record goIdentity.TokenRecord) error {
	query := `
		INSERT INTO refresh_tokens (token, user_id, user_agent, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, user_agent) DO UPDATE SET
			token = EXCLUDED.token,
			expires_at = EXCLUDED.expires_at`

	_, err := s.db.Exec(ctx, query, record.Token, record.UserID, record.UserAgent, record.ExpiresAt)
	if err != nil {
		s.logger.Error("refresh token upsert failed", "user_id", record.UserID, "error", err)
		return fmt.Errorf("upsert refresh token: %w", err)
	}

	return nil
}

// DeleteAndReturnRefreshTokenByValue consumes the record with the given
// value. DELETE RETURNING resolves concurrent calls inside the database, so
// exactly one caller receives the record and the rest get (nil, nil).
func (s *Store) DeleteAndReturnRefreshTokenByValue(ctx context.Context, token string) (*goIdentity.TokenRecord, error) {
	query := `DELETE FROM refresh_tokens WHERE token = $1 RETURNING token, user_id, user_agent, expires_at`

	record, err := scanTokenRecord(s.db.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		s.logger.Error("refresh token consume failed", "error", err)
		return nil, fmt.Errorf("consume refresh token: %w", err)
	}

	return record, nil
}

func scanUser(row pgx.Row) (*goIdentity.User, error) {
	var (
		user  goIdentity.User
		hash  *string
		roles []string
	)

	err := row.Scan(&user.ID, &user.Email, &hash, &roles, (*string)(&user.Provider), &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if hash != nil {
		user.PasswordHash = *hash
	}
	user.Roles = make([]goIdentity.Role, len(roles))
	for i, r := range roles {
		user.Roles[i] = goIdentity.Role(r)
	}

	return &user, nil
}

func scanTokenRecord(row pgx.Row) (*goIdentity.TokenRecord, error) {
	var record goIdentity.TokenRecord
	if err := row.Scan(&record.Token, &record.UserID, &record.UserAgent, &record.ExpiresAt); err != nil {
		return nil, err
	}
	return &record, nil
}

func rolesToStrings(roles []goIdentity.Role) []string {
	if len(roles) == 0 {
		return nil
	}
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}
