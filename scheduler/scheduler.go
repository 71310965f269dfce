// Package scheduler holds the cron-invoked notification jobs. Both follow
// the same shape: compute due notifications, check the dedupe log, send,
// record. Cron invocations may overlap; the unique key on the delivery log
// is the safety net against double-send.
package scheduler

import (
	"context"
	"time"

	"github.com/chapterhq/membot-go/line"
	"github.com/chapterhq/membot-go/store"
	"github.com/chapterhq/membot-go/vault"
)

type TenantStore interface {
	ListWithRemindersEnabled(ctx context.Context) ([]store.Tenant, error)
	ListTrialing(ctx context.Context) ([]store.Tenant, error)
	DowngradeExpiredTrial(ctx context.Context, tenantID string) (bool, error)
}

type MeetingStore interface {
	ListUpcoming(ctx context.Context, tenantID string, after time.Time) ([]store.Meeting, error)
}

type ParticipantStore interface {
	ListMembers(ctx context.Context, tenantID string) ([]store.Participant, error)
}

type RSVPStore interface {
	MarkNotified(ctx context.Context, tenantID, meetingID, participantID string, notifiedAt time.Time) error
}

type DeliveryLogStore interface {
	Exists(ctx context.Context, subjectID, notificationType, day string) (bool, error)
	Record(ctx context.Context, rec store.DeliveryLog) error
}

type AdminDirectory interface {
	ListAdminLineUserIDs(ctx context.Context, tenantID string) ([]string, error)
}

type CredentialResolver interface {
	Resolve(ctx context.Context, tenantID string) (vault.Credential, bool, error)
}

type Sender interface {
	Push(toUserID string, messages []line.Message) error
}

type SenderFactory func(accessToken string) Sender

// dayKey is the date component of the dedupe key.
func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// calendarDaysUntil returns the whole calendar days between now and t,
// ignoring time of day.
func calendarDaysUntil(now, t time.Time) int {
	ny, nm, nd := now.UTC().Date()
	ty, tm, td := t.UTC().Date()
	a := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
