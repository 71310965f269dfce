package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/chapterhq/membot-go/line"
	"github.com/chapterhq/membot-go/store"
	"github.com/chapterhq/membot-go/template"
	"github.com/rs/zerolog/log"
)

// trialNotifyDays are the days-remaining marks that trigger an expiry notice.
var trialNotifyDays = map[int]bool{1: true, 3: true, 7: true}

type TrialSummary struct {
	Notified   int `json:"notified"`
	Downgraded int `json:"downgraded"`
	Failed     int `json:"failed"`
}

// TrialService warns admins before a trial ends and downgrades tenants whose
// trial already ended.
type TrialService struct {
	tenants     TenantStore
	admins      AdminDirectory
	deliveries  DeliveryLogStore
	credentials CredentialResolver
	newSender   SenderFactory
	now         func() time.Time
}

func NewTrialService(
	tenants TenantStore,
	admins AdminDirectory,
	deliveries DeliveryLogStore,
	credentials CredentialResolver,
	newSender SenderFactory,
) *TrialService {
	return &TrialService{
		tenants:     tenants,
		admins:      admins,
		deliveries:  deliveries,
		credentials: credentials,
		newSender:   newSender,
		now:         time.Now,
	}
}

// RunNotifications sends the urgency-scaled expiry notice to tenants at
// exactly 1, 3 or 7 days remaining, once per tenant per mark per day.
func (s *TrialService) RunNotifications(ctx context.Context) (TrialSummary, error) {
	var summary TrialSummary

	tenants, err := s.tenants.ListTrialing(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to list trialing tenants: %w", err)
	}

	now := s.now()
	for _, tenant := range tenants {
		if tenant.TrialEndsAt == nil {
			continue
		}
		daysLeft := calendarDaysUntil(now, *tenant.TrialEndsAt)
		if !trialNotifyDays[daysLeft] {
			continue
		}

		notificationType := fmt.Sprintf("trial_expiring_%dd", daysLeft)
		exists, err := s.deliveries.Exists(ctx, tenant.ID, notificationType, dayKey(now))
		if err != nil {
			log.Error().Err(err).
				Str("tenant_id", tenant.ID).
				Msg("Error checking trial delivery log")
			continue
		}
		if exists {
			continue
		}

		sent, failed := s.pushToAdmins(ctx, tenant.ID, template.TrialExpiring(tenant.Name, daysLeft))
		summary.Failed += failed
		if sent == 0 && failed == 0 {
			// no admins or no credentials: expected, nothing to record
			continue
		}
		summary.Notified++

		logRow := store.DeliveryLog{
			TenantID:         tenant.ID,
			SubjectID:        tenant.ID,
			NotificationType: notificationType,
			Day:              dayKey(now),
			SentCount:        sent,
			FailedCount:      failed,
			SentAt:           now,
		}
		if err := s.deliveries.Record(ctx, logRow); err != nil {
			log.Error().Err(err).
				Str("tenant_id", tenant.ID).
				Str("notification_type", notificationType).
				Msg("Error recording trial delivery log")
		}
	}

	log.Info().
		Int("notified", summary.Notified).
		Int("failed", summary.Failed).
		Msg("Trial notification run complete")
	return summary, nil
}

// RunDowngrade flips expired trials to the free plan. The conditional status
// flip itself is the one-time gate, so no dedupe log is involved: once
// downgraded, the tenant no longer matches the trialing filter.
func (s *TrialService) RunDowngrade(ctx context.Context) (TrialSummary, error) {
	var summary TrialSummary

	tenants, err := s.tenants.ListTrialing(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to list trialing tenants: %w", err)
	}

	now := s.now()
	for _, tenant := range tenants {
		if tenant.TrialEndsAt == nil || tenant.TrialEndsAt.After(now) {
			continue
		}

		downgraded, err := s.tenants.DowngradeExpiredTrial(ctx, tenant.ID)
		if err != nil {
			log.Error().Err(err).
				Str("tenant_id", tenant.ID).
				Msg("Error downgrading expired trial")
			continue
		}
		if !downgraded {
			// another invocation won the flip
			continue
		}
		summary.Downgraded++

		_, failed := s.pushToAdmins(ctx, tenant.ID, template.TrialDowngraded(tenant.Name))
		summary.Failed += failed
	}

	log.Info().
		Int("downgraded", summary.Downgraded).
		Int("failed", summary.Failed).
		Msg("Trial downgrade run complete")
	return summary, nil
}

// pushToAdmins sends one message to every admin with a linked bot id,
// tolerating per-recipient failures. Zero admins or unconfigured credentials
// are silent no-ops.
func (s *TrialService) pushToAdmins(ctx context.Context, tenantID string, msg line.Message) (sent, failed int) {
	cred, ok, err := s.credentials.Resolve(ctx, tenantID)
	if err != nil {
		log.Error().Err(err).Str("tenant_id", tenantID).Msg("Error resolving credentials for trial notice")
		return 0, 0
	}
	if !ok {
		log.Info().Str("tenant_id", tenantID).Msg("Bot not configured, skipping trial notice")
		return 0, 0
	}

	adminIDs, err := s.admins.ListAdminLineUserIDs(ctx, tenantID)
	if err != nil {
		log.Error().Err(err).Str("tenant_id", tenantID).Msg("Error listing admins for trial notice")
		return 0, 0
	}
	if len(adminIDs) == 0 {
		log.Info().Str("tenant_id", tenantID).Msg("No admins with linked bot accounts, skipping trial notice")
		return 0, 0
	}

	sender := s.newSender(cred.AccessToken)
	for _, adminID := range adminIDs {
		if err := sender.Push(adminID, []line.Message{msg}); err != nil {
			failed++
			log.Error().Err(err).
				Str("tenant_id", tenantID).
				Str("admin_id", adminID).
				Msg("Error pushing trial notice to admin")
			continue
		}
		sent++
	}
	return sent, failed
}
