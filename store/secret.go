package store

import (
	"context"
	"database/sql"
	"errors"
)

// ErrSecretNotFound is returned when a tenant has no row for the requested
// secret key.
var ErrSecretNotFound = errors.New("secret not found")

// SecretRepo persists individually encrypted credential fields as
// (tenant_id, secret_key, secret_value) rows so a single field can be
// rotated without rewriting the whole credential.
type SecretRepo struct {
	db *sql.DB
}

func NewSecretRepo(db *sql.DB) *SecretRepo { return &SecretRepo{db: db} }

func (r *SecretRepo) Get(ctx context.Context, tenantID, key string) (string, error) {
	const q = `SELECT secret_value FROM tenant_secrets WHERE tenant_id = ? AND secret_key = ?`
	var value string
	err := r.db.QueryRowContext(ctx, q, tenantID, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrSecretNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (r *SecretRepo) Put(ctx context.Context, tenantID, key, value string) error {
	const q = `INSERT INTO tenant_secrets (tenant_id, secret_key, secret_value)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE secret_value = VALUES(secret_value)`
	_, err := r.db.ExecContext(ctx, q, tenantID, key, value)
	return err
}

// ListTenantIDsWithKey returns every tenant holding a row for the given
// secret key. Used by the vault's bot-id reverse lookup.
func (r *SecretRepo) ListTenantIDsWithKey(ctx context.Context, key string) ([]string, error) {
	const q = `SELECT tenant_id FROM tenant_secrets WHERE secret_key = ?`
	rows, err := r.db.QueryContext(ctx, q, key)
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
