package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusApproved = "approved"
	ApplicationStatusRejected = "rejected"
)

// ApplicationRequest mirrors the membership_requests table.
type ApplicationRequest struct {
	ID            string
	ParticipantID string
	TenantID      string
	Status        string
	DecidedBy     string
	DecidedAt     *time.Time
}

type ApplicationRepo struct {
	db *sql.DB
}

func NewApplicationRepo(db *sql.DB) *ApplicationRepo { return &ApplicationRepo{db: db} }

// GetPendingByParticipant returns the open request for a participant, or nil
// when none is pending.
func (r *ApplicationRepo) GetPendingByParticipant(ctx context.Context, participantID, tenantID string) (*ApplicationRequest, error) {
	const q = `SELECT id, participant_id, tenant_id, status, decided_by, decided_at
		FROM membership_requests
		WHERE participant_id = ? AND tenant_id = ? AND status = ?`
	var req ApplicationRequest
	var decidedBy sql.NullString
	var decidedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, q, participantID, tenantID, ApplicationStatusPending).
		Scan(&req.ID, &req.ParticipantID, &req.TenantID, &req.Status, &decidedBy, &decidedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	req.DecidedBy = decidedBy.String
	if decidedAt.Valid {
		t := decidedAt.Time
		req.DecidedAt = &t
	}
	return &req, nil
}

// MarkApproved moves a pending request to approved. The status guard means
// racing approve and reject calls cannot both succeed: exactly one affects
// a row, the other observes false.
func (r *ApplicationRepo) MarkApproved(ctx context.Context, requestID, decidedBy string, decidedAt time.Time) (bool, error) {
	return r.decide(ctx, requestID, ApplicationStatusApproved, decidedBy, decidedAt)
}

func (r *ApplicationRepo) MarkRejected(ctx context.Context, requestID, decidedBy string, decidedAt time.Time) (bool, error) {
	return r.decide(ctx, requestID, ApplicationStatusRejected, decidedBy, decidedAt)
}

func (r *ApplicationRepo) decide(ctx context.Context, requestID, status, decidedBy string, decidedAt time.Time) (bool, error) {
	const q = `UPDATE membership_requests
		SET status = ?, decided_by = ?, decided_at = ?
		WHERE id = ? AND status = ?`
	result, err := r.db.ExecContext(ctx, q, status, nullString(decidedBy), decidedAt, requestID, ApplicationStatusPending)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// RevertToPending is the compensating write when the participant update
// fails after the request was already marked approved.
func (r *ApplicationRepo) RevertToPending(ctx context.Context, requestID string) error {
	const q = `UPDATE membership_requests
		SET status = ?, decided_by = NULL, decided_at = NULL
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, ApplicationStatusPending, requestID)
	return err
}
