package vault

import (
	"context"
	"errors"
	"fmt"

	"github.com/chapterhq/membot-go/store"
	"github.com/rs/zerolog/log"
)

const (
	keyChannelID     = "line_channel_id"
	keyAccessToken   = "line_access_token"
	keyChannelSecret = "line_channel_secret"
)

// Credential is a tenant's decrypted bot credential set. It is usable only
// when all three fields were present and decrypted cleanly.
type Credential struct {
	ChannelID     string
	AccessToken   string
	ChannelSecret string
}

// SecretStore is the persistence surface the vault needs. The SQL
// implementation lives in the store package.
type SecretStore interface {
	Get(ctx context.Context, tenantID, key string) (string, error)
	Put(ctx context.Context, tenantID, key, value string) error
	ListTenantIDsWithKey(ctx context.Context, key string) ([]string, error)
}

type Vault struct {
	secrets SecretStore
	cipher  *Cipher
}

func New(secrets SecretStore, cipher *Cipher) *Vault {
	return &Vault{secrets: secrets, cipher: cipher}
}

// Save writes the three credential fields as independently encrypted rows.
// Each upsert is keyed by (tenantID, key); the first failing write aborts.
func (v *Vault) Save(ctx context.Context, tenantID, accessToken, channelSecret, channelID string) error {
	fields := []struct{ key, value string }{
		{keyChannelID, channelID},
		{keyAccessToken, accessToken},
		{keyChannelSecret, channelSecret},
	}
	for _, f := range fields {
		encrypted, err := v.cipher.Encrypt(f.value)
		if err != nil {
			return fmt.Errorf("failed to encrypt %s: %w", f.key, err)
		}
		if err := v.secrets.Put(ctx, tenantID, f.key, encrypted); err != nil {
			return fmt.Errorf("failed to store %s: %w", f.key, err)
		}
	}
	return nil
}

// Resolve returns the tenant's credential set, or ok=false when any field is
// missing or fails to decrypt. Only transport errors propagate; an
// incomplete or corrupt credential is "not configured", not an error.
func (v *Vault) Resolve(ctx context.Context, tenantID string) (Credential, bool, error) {
	var cred Credential
	fields := []struct {
		key  string
		dest *string
	}{
		{keyChannelID, &cred.ChannelID},
		{keyAccessToken, &cred.AccessToken},
		{keyChannelSecret, &cred.ChannelSecret},
	}
	for _, f := range fields {
		encrypted, err := v.secrets.Get(ctx, tenantID, f.key)
		if errors.Is(err, store.ErrSecretNotFound) {
			return Credential{}, false, nil
		}
		if err != nil {
			return Credential{}, false, err
		}
		value, err := v.cipher.Decrypt(encrypted)
		if err != nil {
			log.Warn().
				Str("tenant_id", tenantID).
				Str("secret_key", f.key).
				Msg("Credential field failed to decrypt, treating tenant as not configured")
			return Credential{}, false, nil
		}
		*f.dest = value
	}
	return cred, true, nil
}

// ResolveByBotID routes an inbound webhook, which only carries the bot's
// channel id, back to its owning tenant. It scans every tenant holding a
// channel-id row and decrypts each until one matches. Decrypt failures for
// unrelated tenants are skipped, not propagated.
func (v *Vault) ResolveByBotID(ctx context.Context, botID string) (string, Credential, bool, error) {
	tenantIDs, err := v.secrets.ListTenantIDsWithKey(ctx, keyChannelID)
	if err != nil {
		return "", Credential{}, false, err
	}

	for _, tenantID := range tenantIDs {
		encrypted, err := v.secrets.Get(ctx, tenantID, keyChannelID)
		if err != nil {
			continue
		}
		channelID, err := v.cipher.Decrypt(encrypted)
		if err != nil {
			continue
		}
		if channelID != botID {
			continue
		}
		cred, ok, err := v.Resolve(ctx, tenantID)
		if err != nil {
			return "", Credential{}, false, err
		}
		if !ok {
			return "", Credential{}, false, nil
		}
		return tenantID, cred, true, nil
	}
	return "", Credential{}, false, nil
}
