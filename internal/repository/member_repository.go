package repository

import (
	"context"
	"database/sql"

	"github.com/smartruga/livestock-api/internal/model"
)

// MemberRepo persists ranch memberships.  The schema guarantees at most one
// row per (ranch, user) pair; Upsert leans on that constraint instead of a
// read-then-write pair.
type MemberRepo struct{ DB *sql.DB }

func NewMemberRepo(db *sql.DB) *MemberRepo { return &MemberRepo{DB: db} }

// Create inserts a membership row (used for the ranch creator's owner row).
func (r *MemberRepo) Create(ctx context.Context, m *model.RanchMember) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO ranch_members (ranch_id, user_id, role, status) VALUES (?,?,?,?)",
		m.RanchID, m.UserID, m.Role, m.Status)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// Upsert creates the membership or, when the (ranch, user) row already
// exists, overwrites its role and status.  Invite creation parks the row at
// pending; acceptance flips it to active.
func (r *MemberRepo) Upsert(ctx context.Context, ranchID, userID uint64, role model.RanchRole, status model.MemberStatus) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO ranch_members (ranch_id, user_id, role, status) VALUES (?,?,?,?)
		ON DUPLICATE KEY UPDATE role=VALUES(role), status=VALUES(status)`,
		ranchID, userID, role, status)
	return err
}

// Get fetches the membership for a (ranch, user) pair.
func (r *MemberRepo) Get(ctx context.Context, ranchID, userID uint64) (model.RanchMember, error) {
	var m model.RanchMember
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, ranch_id, user_id, role, status, created_at, updated_at FROM ranch_members WHERE ranch_id=? AND user_id=? LIMIT 1",
		ranchID, userID).Scan(&m.ID, &m.RanchID, &m.UserID, &m.Role, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		return m, ErrNotFound
	}
	return m, err
}

// MemberWithUser is a membership row joined with the member's identity.
type MemberWithUser struct {
	Member    model.RanchMember
	Email     string
	FirstName *string
	LastName  *string
}

// ListByRanch returns all memberships of a ranch with member identities,
// owners first, then by join date.
func (r *MemberRepo) ListByRanch(ctx context.Context, ranchID uint64) ([]MemberWithUser, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT m.id, m.ranch_id, m.user_id, m.role, m.status, m.created_at, m.updated_at,
		       u.email, u.first_name, u.last_name
		FROM ranch_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.ranch_id = ?
		ORDER BY FIELD(m.role,'owner','manager','vet','storekeeper','worker'), m.created_at`, ranchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MemberWithUser
	for rows.Next() {
		var it MemberWithUser
		m := &it.Member
		if err := rows.Scan(&m.ID, &m.RanchID, &m.UserID, &m.Role, &m.Status, &m.CreatedAt, &m.UpdatedAt,
			&it.Email, &it.FirstName, &it.LastName); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
