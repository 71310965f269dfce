package bot

import (
	"context"

	"github.com/chapterhq/membot-go/convstate"
	"github.com/chapterhq/membot-go/line"
	"github.com/chapterhq/membot-go/store"
	"github.com/chapterhq/membot-go/template"
	"github.com/rs/zerolog/log"
)

// validateSender resolves the event sender to a roster participant. A nil
// return means the apologetic reply already went out.
func (r *Router) validateSender(ctx context.Context, tenantID string, sender Sender, ev line.Event) *store.Participant {
	participant, err := r.participants.GetByLineUserID(ctx, tenantID, ev.Source.UserID)
	if err != nil {
		log.Error().Err(err).
			Str("tenant_id", tenantID).
			Str("user_id", ev.Source.UserID).
			Msg("Error resolving participant for webhook event")
		r.replyError(sender, ev.ReplyToken)
		return nil
	}
	return participant
}

func (r *Router) fetchMeeting(ctx context.Context, tenantID, meetingID string, sender Sender, ev line.Event) *store.Meeting {
	meeting, err := r.meetings.GetByID(ctx, meetingID, tenantID)
	if err != nil {
		log.Error().Err(err).
			Str("tenant_id", tenantID).
			Str("meeting_id", meetingID).
			Msg("Error fetching meeting for webhook event")
		r.replyError(sender, ev.ReplyToken)
		return nil
	}
	return meeting
}

func (r *Router) handleRSVPConfirm(ctx context.Context, tenantID string, sender Sender, ev line.Event, meetingID string) {
	participant := r.validateSender(ctx, tenantID, sender, ev)
	if participant == nil {
		return
	}
	meeting := r.fetchMeeting(ctx, tenantID, meetingID, sender, ev)
	if meeting == nil {
		return
	}

	now := r.now()
	rec := store.RSVP{
		TenantID:      tenantID,
		MeetingID:     meetingID,
		ParticipantID: participant.ID,
		Status:        store.RSVPStatusConfirmed,
		RespondedAt:   &now,
		RespondedVia:  store.RSVPViaBot,
	}
	if err := r.rsvps.Upsert(ctx, rec); err != nil {
		log.Error().Err(err).
			Str("meeting_id", meetingID).
			Str("participant_id", participant.ID).
			Msg("Error recording RSVP confirmation")
		r.replyError(sender, ev.ReplyToken)
		return
	}

	if err := sender.Reply(ev.ReplyToken, []line.Message{template.RSVPConfirmed(meeting.Title)}); err != nil {
		log.Error().Err(err).
			Str("participant_id", participant.ID).
			Msg("Error sending RSVP confirmation reply")
	}
}

func (r *Router) handleRSVPSubstitute(ctx context.Context, tenantID string, sender Sender, ev line.Event, meetingID string) {
	participant := r.validateSender(ctx, tenantID, sender, ev)
	if participant == nil {
		return
	}
	meeting := r.fetchMeeting(ctx, tenantID, meetingID, sender, ev)
	if meeting == nil {
		return
	}

	now := r.now()
	rec := store.RSVP{
		TenantID:      tenantID,
		MeetingID:     meetingID,
		ParticipantID: participant.ID,
		Status:        store.RSVPStatusSubstitute,
		RespondedAt:   &now,
		RespondedVia:  store.RSVPViaBot,
	}
	if err := r.rsvps.Upsert(ctx, rec); err != nil {
		log.Error().Err(err).
			Str("meeting_id", meetingID).
			Str("participant_id", participant.ID).
			Msg("Error recording substitute RSVP")
		r.replyError(sender, ev.ReplyToken)
		return
	}

	link, err := r.tokens.Link(participant.ID, tenantID, meetingID)
	if err != nil {
		log.Error().Err(err).
			Str("participant_id", participant.ID).
			Msg("Error building substitute registration link")
		r.replyError(sender, ev.ReplyToken)
		return
	}

	if err := sender.Reply(ev.ReplyToken, []line.Message{template.RSVPSubstitute(meeting.Title, link)}); err != nil {
		log.Error().Err(err).
			Str("participant_id", participant.ID).
			Msg("Error sending substitute reply")
	}
}

// handleRSVPLeave opens the leave flow. No RSVP row is written yet; that
// happens once the reason arrives.
func (r *Router) handleRSVPLeave(ctx context.Context, tenantID string, sender Sender, ev line.Event, meetingID string) {
	participant := r.validateSender(ctx, tenantID, sender, ev)
	if participant == nil {
		return
	}
	if r.fetchMeeting(ctx, tenantID, meetingID, sender, ev) == nil {
		return
	}

	state := convstate.State{
		TenantID:  tenantID,
		UserID:    ev.Source.UserID,
		Step:      convstate.StepAwaitingLeaveReason,
		Action:    actionRSVPLeave,
		Payload:   map[string]string{"meeting_id": meetingID},
		ExpiresAt: r.now().Add(convstate.TTL),
	}
	if err := r.conv.Start(ctx, state); err != nil {
		log.Error().Err(err).
			Str("tenant_id", tenantID).
			Str("user_id", ev.Source.UserID).
			Msg("Error starting leave conversation")
		r.replyError(sender, ev.ReplyToken)
		return
	}

	if err := sender.Reply(ev.ReplyToken, []line.Message{template.LeaveReasonPrompt()}); err != nil {
		log.Error().Err(err).
			Str("participant_id", participant.ID).
			Msg("Error sending leave reason prompt")
	}
}

// handleText is the continuation side of the leave flow. Without an open
// conversation the text is an unrelated message and the router declines to
// act, so arbitrary chatter is never mistaken for a leave reason.
func (r *Router) handleText(ctx context.Context, tenantID string, sender Sender, ev line.Event) {
	state, ok, err := r.conv.Get(ctx, tenantID, ev.Source.UserID)
	if err != nil {
		log.Error().Err(err).
			Str("tenant_id", tenantID).
			Str("user_id", ev.Source.UserID).
			Msg("Error reading conversation state")
		return
	}
	if !ok || state.Step != convstate.StepAwaitingLeaveReason {
		log.Debug().
			Str("tenant_id", tenantID).
			Str("user_id", ev.Source.UserID).
			Msg("Text message with no open conversation, ignoring")
		return
	}

	participant := r.validateSender(ctx, tenantID, sender, ev)
	if participant == nil {
		return
	}

	meetingID := state.Payload["meeting_id"]
	meeting := r.fetchMeeting(ctx, tenantID, meetingID, sender, ev)
	if meeting == nil {
		return
	}

	reason := ev.Message.Text
	now := r.now()
	rec := store.RSVP{
		TenantID:      tenantID,
		MeetingID:     meetingID,
		ParticipantID: participant.ID,
		Status:        store.RSVPStatusLeave,
		LeaveReason:   reason,
		RespondedAt:   &now,
		RespondedVia:  store.RSVPViaBot,
	}
	if err := r.rsvps.Upsert(ctx, rec); err != nil {
		log.Error().Err(err).
			Str("meeting_id", meetingID).
			Str("participant_id", participant.ID).
			Msg("Error recording leave RSVP")
		r.replyError(sender, ev.ReplyToken)
		return
	}

	if err := r.conv.Clear(ctx, tenantID, ev.Source.UserID); err != nil {
		log.Error().Err(err).
			Str("tenant_id", tenantID).
			Str("user_id", ev.Source.UserID).
			Msg("Error clearing conversation state")
	}

	if err := sender.Reply(ev.ReplyToken, []line.Message{template.RSVPLeaveRecorded(meeting.Title, reason)}); err != nil {
		log.Error().Err(err).
			Str("participant_id", participant.ID).
			Msg("Error sending leave confirmation reply")
	}

	r.notifyAdminsLeave(ctx, tenantID, sender, participant.Name, meeting.Title, reason, ev.Source.UserID)
}

// notifyAdminsLeave fans a leave notice out to every tenant admin except the
// submitting user. Individual failures are logged, never surfaced to the
// submitter.
func (r *Router) notifyAdminsLeave(ctx context.Context, tenantID string, sender Sender, participantName, meetingTitle, reason, excludeUserID string) {
	adminIDs, err := r.admins.ListAdminLineUserIDs(ctx, tenantID)
	if err != nil {
		log.Error().Err(err).
			Str("tenant_id", tenantID).
			Msg("Error listing admins for leave notification")
		return
	}

	notice := template.Text(participantName + " ลาประชุม " + meetingTitle + " เหตุผล: " + reason)
	for _, adminID := range adminIDs {
		if adminID == excludeUserID {
			continue
		}
		if err := sender.Push(adminID, []line.Message{notice}); err != nil {
			log.Error().Err(err).
				Str("tenant_id", tenantID).
				Str("admin_id", adminID).
				Msg("Error notifying admin of leave request")
		}
	}
}
