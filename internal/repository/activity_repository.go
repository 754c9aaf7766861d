package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/smartruga/livestock-api/internal/model"
)

// ActivityRepo reads the audit trail: field-level activity events, lifecycle
// status events, and the merged per-animal timeline.  All three are
// append-only; writes happen inside AnimalRepo.ApplyUpdate so they share the
// update's transaction.
type ActivityRepo struct{ DB *sql.DB }

func NewActivityRepo(db *sql.DB) *ActivityRepo { return &ActivityRepo{DB: db} }

// ActivityFilter narrows the ranch-wide feed.  Zero values mean "no filter".
type ActivityFilter struct {
	EventType string
	AnimalID  uint64
	UserID    uint64
	From      *time.Time
	To        *time.Time
	Page      int
	Limit     int
}

// ActivityWithContext is an activity event joined with the actor identity
// and, when the event targets an animal, that animal's public handle.
type ActivityWithContext struct {
	Event           model.ActivityEvent
	ActorEmail      string
	ActorFirstName  *string
	ActorLastName   *string
	AnimalPublicID  *string
	AnimalTagNumber *string
}

const activitySelect = `
	SELECT e.id, e.ranch_id, e.animal_id, e.event_type, e.field, e.from_value, e.to_value,
	       e.notes, e.recorded_by, e.created_at,
	       u.email, u.first_name, u.last_name,
	       a.public_id, a.tag_number
	FROM animal_activity_events e
	JOIN users u ON u.id = e.recorded_by
	LEFT JOIN animals a ON a.id = e.animal_id`

func scanActivityRows(rows *sql.Rows) ([]ActivityWithContext, error) {
	defer rows.Close()
	var out []ActivityWithContext
	for rows.Next() {
		var it ActivityWithContext
		e := &it.Event
		if err := rows.Scan(&e.ID, &e.RanchID, &e.AnimalID, &e.EventType, &e.Field,
			&e.FromValue, &e.ToValue, &e.Notes, &e.RecordedBy, &e.CreatedAt,
			&it.ActorEmail, &it.ActorFirstName, &it.ActorLastName,
			&it.AnimalPublicID, &it.AnimalTagNumber); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// ListByRanch returns a page of the ranch-wide activity feed, newest first,
// with the total match count.
func (r *ActivityRepo) ListByRanch(ctx context.Context, ranchID uint64, f ActivityFilter) ([]ActivityWithContext, int, error) {
	where := []string{"e.ranch_id = ?"}
	args := []any{ranchID}
	if f.EventType != "" {
		where = append(where, "e.event_type = ?")
		args = append(args, f.EventType)
	}
	if f.AnimalID != 0 {
		where = append(where, "e.animal_id = ?")
		args = append(args, f.AnimalID)
	}
	if f.UserID != 0 {
		where = append(where, "e.recorded_by = ?")
		args = append(args, f.UserID)
	}
	if f.From != nil {
		where = append(where, "e.created_at >= ?")
		args = append(args, *f.From)
	}
	if f.To != nil {
		where = append(where, "e.created_at <= ?")
		args = append(args, *f.To)
	}
	whereSQL := " WHERE " + strings.Join(where, " AND ")

	var total int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM animal_activity_events e"+whereSQL, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return nil, 0, nil
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}
	rows, err := r.DB.QueryContext(ctx,
		activitySelect+whereSQL+" ORDER BY e.created_at DESC, e.id DESC LIMIT ? OFFSET ?",
		append(args, limit, (page-1)*limit)...)
	if err != nil {
		return nil, 0, err
	}
	items, err := scanActivityRows(rows)
	return items, total, err
}

// ListByAnimal returns a page of a single animal's activity events.
func (r *ActivityRepo) ListByAnimal(ctx context.Context, ranchID, animalID uint64, page, limit int) ([]ActivityWithContext, int, error) {
	return r.ListByRanch(ctx, ranchID, ActivityFilter{AnimalID: animalID, Page: page, Limit: limit})
}

// StatusEventWithActor is a status event joined with the recorder's identity.
type StatusEventWithActor struct {
	Event          model.StatusEvent
	ActorEmail     string
	ActorFirstName *string
	ActorLastName  *string
}

// ListStatusEvents returns an animal's lifecycle transitions, newest first.
func (r *ActivityRepo) ListStatusEvents(ctx context.Context, animalID uint64, page, limit int) ([]StatusEventWithActor, int, error) {
	var total int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM animal_status_events WHERE animal_id=?", animalID).Scan(&total)
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
		SELECT e.id, e.animal_id, e.from_status, e.to_status, e.notes, e.recorded_by, e.created_at,
		       u.email, u.first_name, u.last_name
		FROM animal_status_events e
		JOIN users u ON u.id = e.recorded_by
		WHERE e.animal_id = ?
		ORDER BY e.created_at DESC, e.id DESC
		LIMIT ? OFFSET ?`, animalID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []StatusEventWithActor
	for rows.Next() {
		var it StatusEventWithActor
		e := &it.Event
		if err := rows.Scan(&e.ID, &e.AnimalID, &e.FromStatus, &e.ToStatus, &e.Notes, &e.RecordedBy, &e.CreatedAt,
			&it.ActorEmail, &it.ActorFirstName, &it.ActorLastName); err != nil {
			return nil, 0, err
		}
		out = append(out, it)
	}
	return out, total, rows.Err()
}

// TimelineEntry is one row of the merged per-animal history.  Kind is
// "health" for health events and the activity event type otherwise; the
// unused columns of the other branch are nil.
type TimelineEntry struct {
	Kind           string
	ID             uint64
	Status         *string
	Field          *string
	FromValue      *string
	ToValue        *string
	Notes          *string
	RecordedBy     uint64
	ActorEmail     string
	ActorFirstName *string
	ActorLastName  *string
	CreatedAt      time.Time
}

// Timeline merges an animal's health log and activity log into one
// chronological page, newest first, with the combined total.
func (r *ActivityRepo) Timeline(ctx context.Context, animalID uint64, page, limit int) ([]TimelineEntry, int, error) {
	var total int
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM (
			SELECT id FROM animal_health_events WHERE animal_id = ?
			UNION ALL
			SELECT id FROM animal_activity_events WHERE animal_id = ?
		) x`, animalID, animalID).Scan(&total)
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
		SELECT * FROM (
			SELECT 'health' AS kind, e.id, e.status, NULL AS field, NULL AS from_value, NULL AS to_value,
			       e.notes, e.recorded_by, u.email, u.first_name, u.last_name, e.created_at
			FROM animal_health_events e
			JOIN users u ON u.id = e.recorded_by
			WHERE e.animal_id = ?
			UNION ALL
			SELECT a.event_type AS kind, a.id, NULL AS status, a.field, a.from_value, a.to_value,
			       a.notes, a.recorded_by, u.email, u.first_name, u.last_name, a.created_at
			FROM animal_activity_events a
			JOIN users u ON u.id = a.recorded_by
			WHERE a.animal_id = ?
		) t
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`, animalID, animalID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []TimelineEntry
	for rows.Next() {
		var e TimelineEntry
		if err := rows.Scan(&e.Kind, &e.ID, &e.Status, &e.Field, &e.FromValue, &e.ToValue,
			&e.Notes, &e.RecordedBy, &e.ActorEmail, &e.ActorFirstName, &e.ActorLastName, &e.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}
