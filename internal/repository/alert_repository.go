package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/smartruga/livestock-api/internal/model"
)

// AlertRepo persists ranch alerts.  Rows are written on alert-worthy domain
// mutations and only the is_read flag changes afterwards.
type AlertRepo struct{ DB *sql.DB }

func NewAlertRepo(db *sql.DB) *AlertRepo { return &AlertRepo{DB: db} }

// Create inserts an alert row.
func (r *AlertRepo) Create(ctx context.Context, a *model.RanchAlert) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO ranch_alerts (ranch_id, animal_id, alert_type, message) VALUES (?,?,?,?)",
		a.RanchID, a.AnimalID, a.AlertType, a.Message)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

// AlertFilter narrows List results.
type AlertFilter struct {
	Types  []model.AlertType
	Unread *bool // nil: both, true: unread only, false: read only
	Page   int
	Limit  int
}

// AlertWithAnimal is an alert joined with its animal's public handle, when
// the animal still exists.
type AlertWithAnimal struct {
	Alert           model.RanchAlert
	AnimalPublicID  *string
	AnimalTagNumber *string
}

// List returns a page of a ranch's alerts, newest first, with the total
// match count.
func (r *AlertRepo) List(ctx context.Context, ranchID uint64, f AlertFilter) ([]AlertWithAnimal, int, error) {
	where := []string{"a.ranch_id = ?"}
	args := []any{ranchID}
	if len(f.Types) > 0 {
		where = append(where, "a.alert_type IN (?"+strings.Repeat(",?", len(f.Types)-1)+")")
		for _, t := range f.Types {
			args = append(args, t)
		}
	}
	if f.Unread != nil {
		where = append(where, "a.is_read = ?")
		args = append(args, !*f.Unread)
	}
	whereSQL := " WHERE " + strings.Join(where, " AND ")

	var total int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM ranch_alerts a"+whereSQL, args...).Scan(&total)
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
	rows, err := r.DB.QueryContext(ctx, `
		SELECT a.id, a.ranch_id, a.animal_id, a.alert_type, a.message, a.is_read, a.created_at,
		       an.public_id, an.tag_number
		FROM ranch_alerts a
		LEFT JOIN animals an ON an.id = a.animal_id`+whereSQL+`
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT ? OFFSET ?`, append(args, limit, (page-1)*limit)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []AlertWithAnimal
	for rows.Next() {
		var it AlertWithAnimal
		al := &it.Alert
		if err := rows.Scan(&al.ID, &al.RanchID, &al.AnimalID, &al.AlertType, &al.Message,
			&al.IsRead, &al.CreatedAt, &it.AnimalPublicID, &it.AnimalTagNumber); err != nil {
			return nil, 0, err
		}
		out = append(out, it)
	}
	return out, total, rows.Err()
}

// UnreadCount returns the number of unread alerts in a ranch.
func (r *AlertRepo) UnreadCount(ctx context.Context, ranchID uint64) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM ranch_alerts WHERE ranch_id=? AND is_read=0", ranchID).Scan(&n)
	return n, err
}

// Get fetches one alert scoped to a ranch.
func (r *AlertRepo) Get(ctx context.Context, id, ranchID uint64) (model.RanchAlert, error) {
	var a model.RanchAlert
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, ranch_id, animal_id, alert_type, message, is_read, created_at FROM ranch_alerts WHERE id=? AND ranch_id=? LIMIT 1",
		id, ranchID).Scan(&a.ID, &a.RanchID, &a.AnimalID, &a.AlertType, &a.Message, &a.IsRead, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return a, ErrNotFound
	}
	return a, err
}

// MarkRead flips one unread alert to read and reports whether a row changed.
// A false return with no error means the alert was already read.
func (r *AlertRepo) MarkRead(ctx context.Context, id, ranchID uint64) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE ranch_alerts SET is_read=1 WHERE id=? AND ranch_id=? AND is_read=0", id, ranchID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// MarkReadBulk flips a set of alerts to read, ignoring ids that are unknown,
// foreign, or already read, and returns how many rows changed.
func (r *AlertRepo) MarkReadBulk(ctx context.Context, ranchID uint64, ids []uint64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	args := []any{ranchID}
	for _, id := range ids {
		args = append(args, id)
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE ranch_alerts SET is_read=1 WHERE ranch_id=? AND is_read=0 AND id IN (?"+strings.Repeat(",?", len(ids)-1)+")",
		args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}
