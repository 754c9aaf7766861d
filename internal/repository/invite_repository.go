package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/smartruga/livestock-api/internal/model"
)

// InviteRepo persists ranch invitations.  The unique key over
// (ranch_id, email, open) rejects a second unused invite for the same pair
// at the storage layer, so the duplicate check holds under concurrency.
type InviteRepo struct{ DB *sql.DB }

func NewInviteRepo(db *sql.DB) *InviteRepo { return &InviteRepo{DB: db} }

const inviteColumns = "id, ranch_id, email, role, token_hash, expires_at, created_by, used_at, created_at"

func scanInvite(row *sql.Row) (model.Invite, error) {
	var i model.Invite
	err := row.Scan(&i.ID, &i.RanchID, &i.Email, &i.Role, &i.TokenHash,
		&i.ExpiresAt, &i.CreatedBy, &i.UsedAt, &i.CreatedAt)
	if err == sql.ErrNoRows {
		return i, ErrNotFound
	}
	return i, err
}

// Create inserts an invite.  A duplicate-key violation means an unused
// invite already exists for the (ranch, email) pair.
func (r *InviteRepo) Create(ctx context.Context, i *model.Invite) error {
	i.Email = strings.ToLower(strings.TrimSpace(i.Email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO invites (ranch_id, email, role, token_hash, expires_at, created_by) VALUES (?,?,?,?,?,?)",
		i.RanchID, i.Email, i.Role, i.TokenHash, i.ExpiresAt, i.CreatedBy)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrInviteExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	i.ID = uint64(id)
	return nil
}

// HasOpen reports whether an unused invite exists for the (ranch, email)
// pair, to fail fast before generating a token.
func (r *InviteRepo) HasOpen(ctx context.Context, ranchID uint64, email string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM invites WHERE ranch_id=? AND email=? AND used_at IS NULL",
		ranchID, strings.ToLower(strings.TrimSpace(email))).Scan(&n)
	return n > 0, err
}

// GetByTokenHash loads an invite by the hash of its bearer token.
func (r *InviteRepo) GetByTokenHash(ctx context.Context, tokenHash string) (model.Invite, error) {
	return scanInvite(r.DB.QueryRowContext(ctx,
		"SELECT "+inviteColumns+" FROM invites WHERE token_hash=? LIMIT 1", tokenHash))
}

// GetByID loads an invite scoped to a ranch; invites of other ranches read
// as not found.
func (r *InviteRepo) GetByID(ctx context.Context, id, ranchID uint64) (model.Invite, error) {
	return scanInvite(r.DB.QueryRowContext(ctx,
		"SELECT "+inviteColumns+" FROM invites WHERE id=? AND ranch_id=? LIMIT 1", id, ranchID))
}

// ListByRanch returns all invites of a ranch, newest first.
func (r *InviteRepo) ListByRanch(ctx context.Context, ranchID uint64) ([]model.Invite, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+inviteColumns+" FROM invites WHERE ranch_id=? ORDER BY created_at DESC", ranchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Invite
	for rows.Next() {
		var i model.Invite
		if err := rows.Scan(&i.ID, &i.RanchID, &i.Email, &i.Role, &i.TokenHash,
			&i.ExpiresAt, &i.CreatedBy, &i.UsedAt, &i.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

// MarkUsed sets used_at if it is still null.  Both acceptance and explicit
// revocation land here; only the caller's intent differs.  The conditional
// WHERE makes a double accept lose cleanly.
func (r *InviteRepo) MarkUsed(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE invites SET used_at=NOW() WHERE id=? AND used_at IS NULL", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrConflict
	}
	return nil
}

// RotateToken swaps in a new token hash and expiry, leaving used_at null.
// Used by resend: the invite stays pending under a fresh credential.
func (r *InviteRepo) RotateToken(ctx context.Context, id uint64, tokenHash string, expiresAt time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE invites SET token_hash=?, expires_at=? WHERE id=? AND used_at IS NULL",
		tokenHash, expiresAt, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrConflict
	}
	return nil
}
