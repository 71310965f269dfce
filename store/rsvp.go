package store

import (
	"context"
	"database/sql"
	"time"
)

const (
	RSVPStatusPending    = "pending"
	RSVPStatusConfirmed  = "confirmed"
	RSVPStatusSubstitute = "substitute"
	RSVPStatusLeave      = "leave"

	RSVPViaBot       = "bot"
	RSVPViaDashboard = "dashboard"
)

// RSVP mirrors the rsvps table, keyed uniquely by (meeting_id,
// participant_id). Status transitions are last-write-wins: the most recent
// webhook event decides the final state.
type RSVP struct {
	TenantID          string
	MeetingID         string
	ParticipantID     string
	Status            string
	LeaveReason       string
	RespondedAt       *time.Time
	RespondedVia      string
	LastNotifiedAt    *time.Time
	NotificationCount int
}

type RSVPRepo struct {
	db *sql.DB
}

func NewRSVPRepo(db *sql.DB) *RSVPRepo { return &RSVPRepo{db: db} }

// Upsert records a participant's response. An existing row for the same
// meeting and participant is overwritten, never duplicated.
func (r *RSVPRepo) Upsert(ctx context.Context, rec RSVP) error {
	const q = `INSERT INTO rsvps
		(tenant_id, meeting_id, participant_id, status, leave_reason, responded_at, responded_via)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			status = VALUES(status),
			leave_reason = VALUES(leave_reason),
			responded_at = VALUES(responded_at),
			responded_via = VALUES(responded_via)`
	_, err := r.db.ExecContext(ctx, q,
		rec.TenantID, rec.MeetingID, rec.ParticipantID, rec.Status,
		nullString(rec.LeaveReason), rec.RespondedAt, rec.RespondedVia)
	return err
}

// MarkNotified upserts a pending row for a reminded member, bumping the
// notification counter. A member who already responded keeps their status.
func (r *RSVPRepo) MarkNotified(ctx context.Context, tenantID, meetingID, participantID string, notifiedAt time.Time) error {
	const q = `INSERT INTO rsvps
		(tenant_id, meeting_id, participant_id, status, last_notified_at, notification_count)
		VALUES (?, ?, ?, ?, ?, 1)
		ON DUPLICATE KEY UPDATE
			last_notified_at = VALUES(last_notified_at),
			notification_count = notification_count + 1`
	_, err := r.db.ExecContext(ctx, q, tenantID, meetingID, participantID, RSVPStatusPending, notifiedAt)
	return err
}

func (r *RSVPRepo) Get(ctx context.Context, meetingID, participantID string) (*RSVP, error) {
	const q = `SELECT tenant_id, meeting_id, participant_id, status, leave_reason,
			responded_at, responded_via, last_notified_at, notification_count
		FROM rsvps WHERE meeting_id = ? AND participant_id = ?`
	var rec RSVP
	var leaveReason, respondedVia sql.NullString
	var respondedAt, lastNotifiedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, q, meetingID, participantID).Scan(
		&rec.TenantID, &rec.MeetingID, &rec.ParticipantID, &rec.Status,
		&leaveReason, &respondedAt, &respondedVia, &lastNotifiedAt, &rec.NotificationCount)
	if err != nil {
		return nil, err
	}
	rec.LeaveReason = leaveReason.String
	rec.RespondedVia = respondedVia.String
	if respondedAt.Valid {
		t := respondedAt.Time
		rec.RespondedAt = &t
	}
	if lastNotifiedAt.Valid {
		t := lastNotifiedAt.Time
		rec.LastNotifiedAt = &t
	}
	return &rec, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
