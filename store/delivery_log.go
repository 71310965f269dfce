package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
)

// DeliveryLog records that a notification was sent for a subject (meeting or
// tenant) on a given day. Existence of a row is the sole dedupe signal.
type DeliveryLog struct {
	ID               string
	TenantID         string
	SubjectID        string
	NotificationType string
	Day              string
	SentCount        int
	FailedCount      int
	SentAt           time.Time
}

type DeliveryLogRepo struct {
	db *sql.DB
}

func NewDeliveryLogRepo(db *sql.DB) *DeliveryLogRepo { return &DeliveryLogRepo{db: db} }

// Exists reports whether a notification of this type already went out for
// the subject on the given day.
func (r *DeliveryLogRepo) Exists(ctx context.Context, subjectID, notificationType, day string) (bool, error) {
	const q = `SELECT 1 FROM delivery_logs
		WHERE subject_id = ? AND notification_type = ? AND day = ? LIMIT 1`
	var one int
	err := r.db.QueryRowContext(ctx, q, subjectID, notificationType, day).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Record inserts the dedupe row. The table carries a unique key on
// (subject_id, notification_type, day); losing the check-then-insert race
// surfaces as a duplicate-key error, which is treated as already recorded.
func (r *DeliveryLogRepo) Record(ctx context.Context, rec DeliveryLog) error {
	const q = `INSERT INTO delivery_logs
		(id, tenant_id, subject_id, notification_type, day, sent_count, failed_count, sent_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q,
		uuid.NewString(), rec.TenantID, rec.SubjectID, rec.NotificationType,
		rec.Day, rec.SentCount, rec.FailedCount, rec.SentAt)
	if isDuplicateKey(err) {
		return nil
	}
	return err
}

func isDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
