package store

import (
	"context"
	"database/sql"
	"time"
)

const (
	ParticipantStatusPending  = "pending"
	ParticipantStatusMember   = "member"
	ParticipantStatusInactive = "inactive"
)

// Participant mirrors the participants table. LineUserID is empty for
// participants who never linked the bot.
type Participant struct {
	ID         string
	TenantID   string
	Name       string
	Status     string
	LineUserID string
	UserID     string
	JoinedDate *time.Time
}

type ParticipantRepo struct {
	db *sql.DB
}

func NewParticipantRepo(db *sql.DB) *ParticipantRepo { return &ParticipantRepo{db: db} }

func (r *ParticipantRepo) GetByID(ctx context.Context, participantID, tenantID string) (*Participant, error) {
	const q = `SELECT id, tenant_id, name, status, line_user_id, user_id, joined_date
		FROM participants WHERE id = ? AND tenant_id = ?`
	return scanParticipant(r.db.QueryRowContext(ctx, q, participantID, tenantID))
}

// GetByLineUserID resolves the sender of a webhook event to a roster row.
func (r *ParticipantRepo) GetByLineUserID(ctx context.Context, tenantID, lineUserID string) (*Participant, error) {
	const q = `SELECT id, tenant_id, name, status, line_user_id, user_id, joined_date
		FROM participants WHERE tenant_id = ? AND line_user_id = ?`
	return scanParticipant(r.db.QueryRowContext(ctx, q, tenantID, lineUserID))
}

// ListMembers returns active members of a tenant, linked or not.
func (r *ParticipantRepo) ListMembers(ctx context.Context, tenantID string) ([]Participant, error) {
	const q = `SELECT id, tenant_id, name, status, line_user_id, user_id, joined_date
		FROM participants WHERE tenant_id = ? AND status = ?`
	rows, err := r.db.QueryContext(ctx, q, tenantID, ParticipantStatusMember)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []Participant
	for rows.Next() {
		p, err := scanParticipantRows(rows)
		if err != nil {
			return nil, err
		}
		participants = append(participants, *p)
	}
	return participants, rows.Err()
}

// MarkMember flips a participant to member status. joined_date is set only
// when it was never set before, so re-approval keeps the original date.
func (r *ParticipantRepo) MarkMember(ctx context.Context, participantID, tenantID string, joinedAt time.Time) error {
	const q = `UPDATE participants
		SET status = ?, joined_date = COALESCE(joined_date, ?)
		WHERE id = ? AND tenant_id = ?`
	_, err := r.db.ExecContext(ctx, q, ParticipantStatusMember, joinedAt, participantID, tenantID)
	return err
}

func scanParticipant(row *sql.Row) (*Participant, error) {
	var p Participant
	var lineUserID, userID sql.NullString
	var joinedDate sql.NullTime
	err := row.Scan(&p.ID, &p.TenantID, &p.Name, &p.Status, &lineUserID, &userID, &joinedDate)
	if err != nil {
		return nil, err
	}
	p.LineUserID = lineUserID.String
	p.UserID = userID.String
	if joinedDate.Valid {
		d := joinedDate.Time
		p.JoinedDate = &d
	}
	return &p, nil
}

func scanParticipantRows(rows *sql.Rows) (*Participant, error) {
	var p Participant
	var lineUserID, userID sql.NullString
	var joinedDate sql.NullTime
	err := rows.Scan(&p.ID, &p.TenantID, &p.Name, &p.Status, &lineUserID, &userID, &joinedDate)
	if err != nil {
		return nil, err
	}
	p.LineUserID = lineUserID.String
	p.UserID = userID.String
	if joinedDate.Valid {
		d := joinedDate.Time
		p.JoinedDate = &d
	}
	return &p, nil
}
