package store

import (
	"context"
	"database/sql"
	"time"
)

// Meeting mirrors the meetings table. StartsAt is stored in UTC.
type Meeting struct {
	ID       string
	TenantID string
	Title    string
	StartsAt time.Time
	Location string
}

type MeetingRepo struct {
	db *sql.DB
}

func NewMeetingRepo(db *sql.DB) *MeetingRepo { return &MeetingRepo{db: db} }

func (r *MeetingRepo) GetByID(ctx context.Context, meetingID, tenantID string) (*Meeting, error) {
	const q = `SELECT id, tenant_id, title, starts_at, location
		FROM meetings WHERE id = ? AND tenant_id = ?`
	var m Meeting
	var location sql.NullString
	err := r.db.QueryRowContext(ctx, q, meetingID, tenantID).
		Scan(&m.ID, &m.TenantID, &m.Title, &m.StartsAt, &location)
	if err != nil {
		return nil, err
	}
	m.Location = location.String
	return &m, nil
}

func (r *MeetingRepo) ListUpcoming(ctx context.Context, tenantID string, after time.Time) ([]Meeting, error) {
	const q = `SELECT id, tenant_id, title, starts_at, location
		FROM meetings WHERE tenant_id = ? AND starts_at > ? ORDER BY starts_at`
	rows, err := r.db.QueryContext(ctx, q, tenantID, after)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meetings []Meeting
	for rows.Next() {
		var m Meeting
		var location sql.NullString
		if err := rows.Scan(&m.ID, &m.TenantID, &m.Title, &m.StartsAt, &location); err != nil {
			return nil, err
		}
		m.Location = location.String
		meetings = append(meetings, m)
	}
	return meetings, rows.Err()
}
