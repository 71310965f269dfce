package store

import (
	"context"
	"database/sql"
	"time"
)

const (
	TenantStatusActive   = "active"
	TenantStatusTrialing = "trialing"
	TenantStatusCanceled = "canceled"

	PlanFree = "free"
	PlanPro  = "pro"
)

// Tenant mirrors the tenants table. Reminder flags control which meeting
// reminder offsets the scheduler considers for the tenant.
type Tenant struct {
	ID           string
	Name         string
	Plan         string
	Status       string
	TrialEndsAt  *time.Time
	Remind7Days  bool
	Remind1Day   bool
	Remind2Hours bool
}

type TenantRepo struct {
	db *sql.DB
}

func NewTenantRepo(db *sql.DB) *TenantRepo { return &TenantRepo{db: db} }

func (r *TenantRepo) GetByID(ctx context.Context, tenantID string) (*Tenant, error) {
	const q = `SELECT id, name, plan, status, trial_ends_at, remind_7_days, remind_1_day, remind_2_hours
		FROM tenants WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, q, tenantID))
}

// ListWithRemindersEnabled returns tenants with at least one reminder offset
// switched on.
func (r *TenantRepo) ListWithRemindersEnabled(ctx context.Context) ([]Tenant, error) {
	const q = `SELECT id, name, plan, status, trial_ends_at, remind_7_days, remind_1_day, remind_2_hours
		FROM tenants WHERE remind_7_days = 1 OR remind_1_day = 1 OR remind_2_hours = 1`
	return r.list(ctx, q)
}

// ListTrialing returns every tenant still in the trialing state, regardless
// of whether the trial end has passed. Callers filter by date.
func (r *TenantRepo) ListTrialing(ctx context.Context) ([]Tenant, error) {
	const q = `SELECT id, name, plan, status, trial_ends_at, remind_7_days, remind_1_day, remind_2_hours
		FROM tenants WHERE status = ? AND trial_ends_at IS NOT NULL`
	return r.list(ctx, q, TenantStatusTrialing)
}

// DowngradeExpiredTrial flips a trialing tenant to the free plan. The status
// guard makes the flip the one-time gate: a second call affects zero rows.
func (r *TenantRepo) DowngradeExpiredTrial(ctx context.Context, tenantID string) (bool, error) {
	const q = `UPDATE tenants SET status = ?, plan = ? WHERE id = ? AND status = ?`
	result, err := r.db.ExecContext(ctx, q, TenantStatusCanceled, PlanFree, tenantID, TenantStatusTrialing)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *TenantRepo) UpdateName(ctx context.Context, tenantID, name string) error {
	const q = `UPDATE tenants SET name = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, name, tenantID)
	return err
}

func (r *TenantRepo) list(ctx context.Context, query string, args ...any) ([]Tenant, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []Tenant
	for rows.Next() {
		var t Tenant
		var trialEndsAt sql.NullTime
		if err := rows.Scan(&t.ID, &t.Name, &t.Plan, &t.Status, &trialEndsAt,
			&t.Remind7Days, &t.Remind1Day, &t.Remind2Hours); err != nil {
			return nil, err
		}
		if trialEndsAt.Valid {
			ts := trialEndsAt.Time
			t.TrialEndsAt = &ts
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

func (r *TenantRepo) scanOne(row *sql.Row) (*Tenant, error) {
	var t Tenant
	var trialEndsAt sql.NullTime
	err := row.Scan(&t.ID, &t.Name, &t.Plan, &t.Status, &trialEndsAt,
		&t.Remind7Days, &t.Remind1Day, &t.Remind2Hours)
	if err != nil {
		return nil, err
	}
	if trialEndsAt.Valid {
		ts := trialEndsAt.Time
		t.TrialEndsAt = &ts
	}
	return &t, nil
}
