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

// ReminderSummary is returned to the cron endpoint.
type ReminderSummary struct {
	Tenants  int `json:"tenants"`
	Meetings int `json:"meetings"`
	Sent     int `json:"sent"`
	Failed   int `json:"failed"`
}

// ReminderService sends meeting reminders at the 7-day, 1-day and 2-hour
// marks, at most one variant per meeting per run.
type ReminderService struct {
	tenants      TenantStore
	meetings     MeetingStore
	participants ParticipantStore
	rsvps        RSVPStore
	deliveries   DeliveryLogStore
	credentials  CredentialResolver
	newSender    SenderFactory
	now          func() time.Time
}

func NewReminderService(
	tenants TenantStore,
	meetings MeetingStore,
	participants ParticipantStore,
	rsvps RSVPStore,
	deliveries DeliveryLogStore,
	credentials CredentialResolver,
	newSender SenderFactory,
) *ReminderService {
	return &ReminderService{
		tenants:      tenants,
		meetings:     meetings,
		participants: participants,
		rsvps:        rsvps,
		deliveries:   deliveries,
		credentials:  credentials,
		newSender:    newSender,
		now:          time.Now,
	}
}

// selectVariant maps a meeting's distance to at most one reminder type.
// The 2-hour window wins when it overlaps the 1-day calendar boundary.
func selectVariant(tenant store.Tenant, now time.Time, startsAt time.Time) (template.ReminderVariant, bool) {
	hoursUntil := startsAt.Sub(now).Hours()
	daysUntil := calendarDaysUntil(now, startsAt)

	switch {
	case tenant.Remind2Hours && hoursUntil > 0 && hoursUntil <= 2:
		return template.Reminder2Hours, true
	case tenant.Remind1Day && daysUntil == 1 && hoursUntil > 2:
		return template.Reminder1Day, true
	case tenant.Remind7Days && daysUntil == 7:
		return template.Reminder7Days, true
	}
	return "", false
}

func (s *ReminderService) Run(ctx context.Context) (ReminderSummary, error) {
	var summary ReminderSummary

	tenants, err := s.tenants.ListWithRemindersEnabled(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to list tenants: %w", err)
	}

	now := s.now()
	for _, tenant := range tenants {
		summary.Tenants++
		if err := s.runTenant(ctx, tenant, now, &summary); err != nil {
			log.Error().Err(err).
				Str("tenant_id", tenant.ID).
				Msg("Error processing tenant reminders")
		}
	}

	log.Info().
		Int("tenants", summary.Tenants).
		Int("meetings", summary.Meetings).
		Int("sent", summary.Sent).
		Int("failed", summary.Failed).
		Msg("Reminder run complete")
	return summary, nil
}

func (s *ReminderService) runTenant(ctx context.Context, tenant store.Tenant, now time.Time, summary *ReminderSummary) error {
	cred, ok, err := s.credentials.Resolve(ctx, tenant.ID)
	if err != nil {
		return fmt.Errorf("failed to resolve credentials: %w", err)
	}
	if !ok {
		log.Info().Str("tenant_id", tenant.ID).Msg("Bot not configured, skipping reminders")
		return nil
	}
	sender := s.newSender(cred.AccessToken)

	meetings, err := s.meetings.ListUpcoming(ctx, tenant.ID, now)
	if err != nil {
		return fmt.Errorf("failed to list meetings: %w", err)
	}

	for _, meeting := range meetings {
		variant, due := selectVariant(tenant, now, meeting.StartsAt)
		if !due {
			continue
		}

		exists, err := s.deliveries.Exists(ctx, meeting.ID, string(variant), dayKey(now))
		if err != nil {
			log.Error().Err(err).
				Str("meeting_id", meeting.ID).
				Msg("Error checking delivery log")
			continue
		}
		if exists {
			continue
		}

		sent, failed, err := s.sendMeetingReminder(ctx, tenant, meeting, variant, sender, now)
		if err != nil {
			// no delivery row: the next invocation retries this meeting
			log.Error().Err(err).
				Str("meeting_id", meeting.ID).
				Str("notification_type", string(variant)).
				Msg("Error sending meeting reminder")
			continue
		}
		summary.Meetings++
		summary.Sent += sent
		summary.Failed += failed

		logRow := store.DeliveryLog{
			TenantID:         tenant.ID,
			SubjectID:        meeting.ID,
			NotificationType: string(variant),
			Day:              dayKey(now),
			SentCount:        sent,
			FailedCount:      failed,
			SentAt:           now,
		}
		if err := s.deliveries.Record(ctx, logRow); err != nil {
			log.Error().Err(err).
				Str("meeting_id", meeting.ID).
				Str("notification_type", string(variant)).
				Msg("Error recording delivery log")
		}
	}
	return nil
}

// sendMeetingReminder fans the reminder out to every member with a linked
// bot id. One member's failure never aborts the batch, but a failed roster
// lookup is an error: nothing was attempted, so nothing may be recorded.
func (s *ReminderService) sendMeetingReminder(ctx context.Context, tenant store.Tenant, meeting store.Meeting, variant template.ReminderVariant, sender Sender, now time.Time) (sent, failed int, err error) {
	members, err := s.participants.ListMembers(ctx, tenant.ID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list members: %w", err)
	}

	reminder := template.EventReminder(template.ReminderParams{
		Variant:      variant,
		MeetingID:    meeting.ID,
		MeetingTitle: meeting.Title,
		StartsAt:     meeting.StartsAt,
		Location:     meeting.Location,
	})

	for _, member := range members {
		if member.LineUserID == "" {
			continue
		}
		if err := sender.Push(member.LineUserID, []line.Message{reminder}); err != nil {
			failed++
			log.Error().Err(err).
				Str("meeting_id", meeting.ID).
				Str("participant_id", member.ID).
				Msg("Error pushing meeting reminder")
			continue
		}
		sent++
		if err := s.rsvps.MarkNotified(ctx, tenant.ID, meeting.ID, member.ID, now); err != nil {
			log.Error().Err(err).
				Str("meeting_id", meeting.ID).
				Str("participant_id", member.ID).
				Msg("Error marking participant as notified")
		}
	}
	return sent, failed, nil
}
