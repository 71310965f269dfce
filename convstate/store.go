// Package convstate holds the short-lived memory of "what multi-turn flow is
// this user currently in". One logical slot per (tenant, user): a second
// Start before the first is cleared silently overwrites it, since the UI
// only allows one conversation at a time.
package convstate

import (
	"context"
	"time"
)

// TTL is how long a started conversation waits for its continuation before
// expiring.
const TTL = 5 * time.Minute

const (
	StepAwaitingLeaveReason = "awaiting_leave_reason"
)

// State is the pending multi-step interaction for one user. A crash loses
// in-flight conversations; the user restarts the flow.
type State struct {
	TenantID  string            `json:"tenant_id"`
	UserID    string            `json:"user_id"`
	Step      string            `json:"step"`
	Action    string            `json:"action"`
	Payload   map[string]string `json:"payload,omitempty"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// Store is injected into handlers rather than referenced as a singleton, so
// tests get an isolated instance per test. MemoryStore suits single-instance
// deployments; RedisStore is the shared variant for horizontal scaling.
type Store interface {
	Start(ctx context.Context, state State) error
	Get(ctx context.Context, tenantID, userID string) (State, bool, error)
	Clear(ctx context.Context, tenantID, userID string) error
}

func stateKey(tenantID, userID string) string {
	return tenantID + ":" + userID
}
