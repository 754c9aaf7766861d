package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/smartruga/livestock-api/internal/model"
)

// AnimalRepo provides CRUD operations for livestock records.  Every query is
// scoped to a ranch id, so animals of other tenants read as not found.  The
// derived health status is computed with a correlated latest-row subquery
// and defaults to healthy when no event exists.
type AnimalRepo struct{ DB *sql.DB }

func NewAnimalRepo(db *sql.DB) *AnimalRepo { return &AnimalRepo{DB: db} }

const animalColumns = "a.id, a.public_id, a.ranch_id, a.species_id, a.tag_number, a.sex, a.date_of_birth, a.status, a.created_at, a.updated_at"

const latestHealthExpr = "COALESCE((SELECT e.status FROM animal_health_events e WHERE e.animal_id = a.id ORDER BY e.created_at DESC LIMIT 1), '" +
	string(model.DefaultHealthStatus) + "')"

// AnimalDetail is an animal joined with its species and derived health.
type AnimalDetail struct {
	Animal       model.Animal
	SpeciesName  string
	SpeciesCode  string
	HealthStatus model.HealthStatus
}

// AnimalFilter narrows List results.  Zero values mean "no filter".
type AnimalFilter struct {
	SpeciesID    uint64
	Status       model.AnimalStatus
	Sex          model.Sex
	HealthStatus model.HealthStatus
	TagQuery     string
	SortBy       string // "created_at" or "tag_number"
	SortDesc     bool
	Page         int
	Limit        int
}

// Create inserts an animal and returns its generated id.
func (r *AnimalRepo) Create(ctx context.Context, a *model.Animal) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO animals (public_id, ranch_id, species_id, tag_number, sex, date_of_birth, status) VALUES (?,?,?,?,?,?,?)",
		a.PublicID, a.RanchID, a.SpeciesID, a.TagNumber, a.Sex, a.DateOfBirth, a.Status)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateTag
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

func scanDetail(sc interface{ Scan(...any) error }) (AnimalDetail, error) {
	var d AnimalDetail
	a := &d.Animal
	err := sc.Scan(&a.ID, &a.PublicID, &a.RanchID, &a.SpeciesID, &a.TagNumber, &a.Sex,
		&a.DateOfBirth, &a.Status, &a.CreatedAt, &a.UpdatedAt,
		&d.SpeciesName, &d.SpeciesCode, &d.HealthStatus)
	if err == sql.ErrNoRows {
		return d, ErrNotFound
	}
	return d, err
}

const detailQuery = "SELECT " + animalColumns + ", s.name, s.code, " + latestHealthExpr + " " +
	"FROM animals a JOIN species s ON s.id = a.species_id"

// GetByID fetches an animal within a ranch.
func (r *AnimalRepo) GetByID(ctx context.Context, id, ranchID uint64) (AnimalDetail, error) {
	return scanDetail(r.DB.QueryRowContext(ctx,
		detailQuery+" WHERE a.id=? AND a.ranch_id=? LIMIT 1", id, ranchID))
}

// GetByPublicID fetches an animal by its public (QR) identifier without a
// ranch scope; this backs the unauthenticated scan endpoint which exposes
// only sanitized fields.
func (r *AnimalRepo) GetByPublicID(ctx context.Context, publicID string) (AnimalDetail, error) {
	return scanDetail(r.DB.QueryRowContext(ctx,
		detailQuery+" WHERE a.public_id=? LIMIT 1", publicID))
}

// List returns a page of animals matching the filter along with the total
// match count.
func (r *AnimalRepo) List(ctx context.Context, ranchID uint64, f AnimalFilter) ([]AnimalDetail, int, error) {
	where := []string{"a.ranch_id = ?"}
	args := []any{ranchID}
	if f.SpeciesID != 0 {
		where = append(where, "a.species_id = ?")
		args = append(args, f.SpeciesID)
	}
	if f.Status != "" {
		where = append(where, "a.status = ?")
		args = append(args, f.Status)
	}
	if f.Sex != "" {
		where = append(where, "a.sex = ?")
		args = append(args, f.Sex)
	}
	if f.TagQuery != "" {
		where = append(where, "a.tag_number LIKE ?")
		args = append(args, "%"+f.TagQuery+"%")
	}
	if f.HealthStatus != "" {
		where = append(where, latestHealthExpr+" = ?")
		args = append(args, f.HealthStatus)
	}
	whereSQL := " WHERE " + strings.Join(where, " AND ")

	var total int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM animals a"+whereSQL, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return nil, 0, nil
	}

	sortCol := "a.created_at"
	if f.SortBy == "tag_number" {
		sortCol = "a.tag_number"
	}
	dir := "ASC"
	if f.SortDesc {
		dir = "DESC"
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	q := detailQuery + whereSQL + fmt.Sprintf(" ORDER BY %s %s, a.id %s LIMIT ? OFFSET ?", sortCol, dir, dir)
	rows, err := r.DB.QueryContext(ctx, q, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []AnimalDetail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	return out, total, rows.Err()
}

// ApplyUpdate persists an animal update together with its audit trail in one
// transaction: the row update, an optional status event, and one activity
// event per changed field.  The status event is written before the generic
// events so the lifecycle log never lags the activity log.
func (r *AnimalRepo) ApplyUpdate(ctx context.Context, a *model.Animal, statusEv *model.StatusEvent, events []model.ActivityEvent) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		"UPDATE animals SET species_id=?, tag_number=?, sex=?, date_of_birth=?, status=? WHERE id=? AND ranch_id=?",
		a.SpeciesID, a.TagNumber, a.Sex, a.DateOfBirth, a.Status, a.ID, a.RanchID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateTag
		}
		return err
	}

	if statusEv != nil {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO animal_status_events (animal_id, from_status, to_status, notes, recorded_by) VALUES (?,?,?,?,?)",
			statusEv.AnimalID, statusEv.FromStatus, statusEv.ToStatus, statusEv.Notes, statusEv.RecordedBy)
		if err != nil {
			return err
		}
	}

	if len(events) > 0 {
		q := "INSERT INTO animal_activity_events (ranch_id, animal_id, event_type, field, from_value, to_value, notes, recorded_by) VALUES "
		eargs := make([]any, 0, len(events)*8)
		for i, e := range events {
			if i > 0 {
				q += ","
			}
			q += "(?,?,?,?,?,?,?,?)"
			eargs = append(eargs, e.RanchID, e.AnimalID, e.EventType, e.Field, e.FromValue, e.ToValue, e.Notes, e.RecordedBy)
		}
		if _, err := tx.ExecContext(ctx, q, eargs...); err != nil {
			return err
		}
	}

	return tx.Commit()
}
