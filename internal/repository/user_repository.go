package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/smartruga/livestock-api/internal/model"
)

// UserRepo persists platform users.  Deletion is always soft: rows keep
// their email but set deleted_at, and lookups used for authentication load
// the flags so callers can reject deactivated accounts.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,email,password_hash,first_name,last_name,platform_role,is_active,deleted_at,created_at,updated_at"

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.PlatformRole, &u.IsActive, &u.DeletedAt, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return u, ErrNotFound
	}
	return u, err
}

// Create inserts a user with a pre-hashed password and returns its ID.
func (r *UserRepo) Create(ctx context.Context, email, passwordHash string, firstName, lastName *string, role model.PlatformRole) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, first_name, last_name, platform_role) VALUES (?,?,?,?,?)",
		email, passwordHash, firstName, lastName, role)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// UpdatePlatformRole sets a user's platform role.
func (r *UserRepo) UpdatePlatformRole(ctx context.Context, id uint64, role model.PlatformRole) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET platform_role=? WHERE id=?", role, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// HasSuperAdmin reports whether any super_admin account exists.  Used by the
// startup bootstrap to guarantee at least one.
func (r *UserRepo) HasSuperAdmin(ctx context.Context) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE platform_role=?", model.PlatformRoleSuperAdmin).Scan(&n)
	return n > 0, err
}
