package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/smartruga/livestock-api/internal/model"
)

// TokenRepo persists refresh-token hashes and their rotation chain.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Store inserts a refresh token hash row.
func (r *TokenRepo) Store(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, exp)
	return err
}

// GetByHash loads a stored refresh token by its hash.
func (r *TokenRepo) GetByHash(ctx context.Context, tokenHash string) (model.RefreshToken, error) {
	var t model.RefreshToken
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, token_hash, expires_at, revoked_at, replaced_by_hash, created_at FROM refresh_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.RevokedAt, &t.ReplacedByHash, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return t, ErrNotFound
	}
	return t, err
}

// Rotate atomically spends the presented token and records its successor.
// The conditional WHERE closes the two-concurrent-refreshes race: only one
// caller sees a row flip from active to revoked; the loser gets
// ErrTokenRevoked.  The successor row is inserted only after the spend
// succeeds, so a token never gains two successors.
func (r *TokenRepo) Rotate(ctx context.Context, oldHash, newHash string, userID uint64, newExp time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW(), replaced_by_hash=? WHERE token_hash=? AND revoked_at IS NULL",
		newHash, oldHash)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTokenRevoked
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, newHash, newExp)
	return err
}

// Revoke marks a token revoked if it is still active.  It reports no error
// for unknown or already-revoked hashes: logout must always succeed.
func (r *TokenRepo) Revoke(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE token_hash=? AND revoked_at IS NULL",
		tokenHash)
	return err
}
