package repository

import (
	"context"
	"database/sql"

	"github.com/smartruga/livestock-api/internal/model"
)

// RanchRepo persists tenant workspaces.
type RanchRepo struct{ DB *sql.DB }

func NewRanchRepo(db *sql.DB) *RanchRepo { return &RanchRepo{DB: db} }

const ranchColumns = "id,name,slug,created_by,location_name,address,latitude,longitude,created_at,updated_at"

func scanRanch(row *sql.Row) (model.Ranch, error) {
	var rn model.Ranch
	err := row.Scan(&rn.ID, &rn.Name, &rn.Slug, &rn.CreatedBy, &rn.LocationName,
		&rn.Address, &rn.Latitude, &rn.Longitude, &rn.CreatedAt, &rn.UpdatedAt)
	if err == sql.ErrNoRows {
		return rn, ErrNotFound
	}
	return rn, err
}

// Create inserts a ranch and returns its ID.  Slug uniqueness is enforced by
// the schema; callers disambiguate beforehand via SlugExists.
func (r *RanchRepo) Create(ctx context.Context, rn *model.Ranch) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO ranches (name, slug, created_by, location_name, address, latitude, longitude) VALUES (?,?,?,?,?,?,?)",
		rn.Name, rn.Slug, rn.CreatedBy, rn.LocationName, rn.Address, rn.Latitude, rn.Longitude)
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
	rn.ID = uint64(id)
	return nil
}

// SlugExists reports whether a slug is already taken.
func (r *RanchRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM ranches WHERE slug=?", slug).Scan(&n)
	return n > 0, err
}

// GetBySlug fetches a ranch by its slug.
func (r *RanchRepo) GetBySlug(ctx context.Context, slug string) (model.Ranch, error) {
	return scanRanch(r.DB.QueryRowContext(ctx,
		"SELECT "+ranchColumns+" FROM ranches WHERE slug=? LIMIT 1", slug))
}

// RanchWithMembership is a ranch joined with the caller's membership row,
// as returned by ListForUser.
type RanchWithMembership struct {
	Ranch  model.Ranch
	Role   model.RanchRole
	Status model.MemberStatus
}

// ListForUser returns every ranch the user has a membership in, newest
// membership first, regardless of membership status.
func (r *RanchRepo) ListForUser(ctx context.Context, userID uint64) ([]RanchWithMembership, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT r.id, r.name, r.slug, r.created_by, r.location_name, r.address, r.latitude, r.longitude,
		       r.created_at, r.updated_at, m.role, m.status
		FROM ranch_members m
		JOIN ranches r ON r.id = m.ranch_id
		WHERE m.user_id = ?
		ORDER BY m.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RanchWithMembership
	for rows.Next() {
		var it RanchWithMembership
		rn := &it.Ranch
		if err := rows.Scan(&rn.ID, &rn.Name, &rn.Slug, &rn.CreatedBy, &rn.LocationName,
			&rn.Address, &rn.Latitude, &rn.Longitude, &rn.CreatedAt, &rn.UpdatedAt,
			&it.Role, &it.Status); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
