package repository

import (
	"context"
	"database/sql"

	"github.com/smartruga/livestock-api/internal/model"
)

// HealthEventRepo persists the append-only health log of an animal.
type HealthEventRepo struct{ DB *sql.DB }

func NewHealthEventRepo(db *sql.DB) *HealthEventRepo { return &HealthEventRepo{DB: db} }

// Create appends one health observation.
func (r *HealthEventRepo) Create(ctx context.Context, e *model.HealthEvent) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO animal_health_events (animal_id, status, notes, recorded_by) VALUES (?,?,?,?)",
		e.AnimalID, e.Status, e.Notes, e.RecordedBy)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// HealthEventWithActor is a health event joined with the recorder's identity.
type HealthEventWithActor struct {
	Event          model.HealthEvent
	ActorEmail     string
	ActorFirstName *string
	ActorLastName  *string
}

// ListByAnimal returns a page of health events, newest first, with the total
// count.
func (r *HealthEventRepo) ListByAnimal(ctx context.Context, animalID uint64, page, limit int) ([]HealthEventWithActor, int, error) {
	var total int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM animal_health_events WHERE animal_id=?", animalID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return nil, 0, nil
	}

	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	rows, err := r.DB.QueryContext(ctx, `
		SELECT e.id, e.animal_id, e.status, e.notes, e.recorded_by, e.created_at,
		       u.email, u.first_name, u.last_name
		FROM animal_health_events e
		JOIN users u ON u.id = e.recorded_by
		WHERE e.animal_id = ?
		ORDER BY e.created_at DESC, e.id DESC
		LIMIT ? OFFSET ?`, animalID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []HealthEventWithActor
	for rows.Next() {
		var it HealthEventWithActor
		e := &it.Event
		if err := rows.Scan(&e.ID, &e.AnimalID, &e.Status, &e.Notes, &e.RecordedBy, &e.CreatedAt,
			&it.ActorEmail, &it.ActorFirstName, &it.ActorLastName); err != nil {
			return nil, 0, err
		}
		out = append(out, it)
	}
	return out, total, rows.Err()
}

// Latest returns the most recent health status of an animal, falling back to
// the healthy default when no event exists.
func (r *HealthEventRepo) Latest(ctx context.Context, animalID uint64) (model.HealthStatus, error) {
	var s model.HealthStatus
	err := r.DB.QueryRowContext(ctx,
		"SELECT status FROM animal_health_events WHERE animal_id=? ORDER BY created_at DESC, id DESC LIMIT 1",
		animalID).Scan(&s)
	if err == sql.ErrNoRows {
		return model.DefaultHealthStatus, nil
	}
	return s, err
}
