package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

type UserRoleRepo struct {
	db *sql.DB
}

func NewUserRoleRepo(db *sql.DB) *UserRoleRepo { return &UserRoleRepo{db: db} }

// ListAdminLineUserIDs returns the bot user ids of every admin whose linked
// participant row carries one. Admins without a linked bot account are
// silently absent from the result.
func (r *UserRoleRepo) ListAdminLineUserIDs(ctx context.Context, tenantID string) ([]string, error) {
	const q = `SELECT p.line_user_id
		FROM user_roles ur
		JOIN participants p ON p.user_id = ur.user_id AND p.tenant_id = ur.tenant_id
		WHERE ur.tenant_id = ? AND ur.role = ? AND p.line_user_id IS NOT NULL AND p.line_user_id <> ''`
	rows, err := r.db.QueryContext(ctx, q, tenantID, RoleAdmin)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UpsertMemberRole grants the member role to a user account, once.
func (r *UserRoleRepo) UpsertMemberRole(ctx context.Context, userID, tenantID string, grantedAt time.Time) error {
	const q = `INSERT INTO user_roles (id, user_id, tenant_id, role, granted_at)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE role = role`
	_, err := r.db.ExecContext(ctx, q, uuid.NewString(), userID, tenantID, RoleMember, grantedAt)
	return err
}
