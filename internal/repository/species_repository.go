package repository

import (
	"context"
	"database/sql"

	"github.com/smartruga/livestock-api/internal/model"
)

// SpeciesRepo reads the seeded species catalog.
type SpeciesRepo struct{ DB *sql.DB }

func NewSpeciesRepo(db *sql.DB) *SpeciesRepo { return &SpeciesRepo{DB: db} }

// List returns the full catalog ordered by name.
func (r *SpeciesRepo) List(ctx context.Context) ([]model.Species, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, name, code FROM species ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Species
	for rows.Next() {
		var s model.Species
		if err := rows.Scan(&s.ID, &s.Name, &s.Code); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetByID fetches one species row.
func (r *SpeciesRepo) GetByID(ctx context.Context, id uint64) (model.Species, error) {
	var s model.Species
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, code FROM species WHERE id=? LIMIT 1", id).Scan(&s.ID, &s.Name, &s.Code)
	if err == sql.ErrNoRows {
		return s, ErrNotFound
	}
	return s, err
}
