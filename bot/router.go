package bot

import (
	"context"
	"net/url"
	"time"

	"github.com/chapterhq/membot-go/convstate"
	"github.com/chapterhq/membot-go/line"
	"github.com/chapterhq/membot-go/template"
	"github.com/rs/zerolog/log"
)

const (
	actionRSVPConfirm    = "rsvp_confirm"
	actionRSVPSubstitute = "rsvp_substitute"
	actionRSVPLeave      = "rsvp_leave"
	actionApproveMember  = "approve_member"
	actionRejectMember   = "reject_member"
)

// Router turns verified webhook events into business actions. Every code
// path ends in a reply or a logged no-op; nothing propagates to the caller.
type Router struct {
	participants ParticipantStore
	meetings     MeetingStore
	rsvps        RSVPStore
	admins       AdminDirectory
	conv         convstate.Store
	approvals    ApprovalActions
	tokens       *SubstituteTokenIssuer
	now          func() time.Time
}

func NewRouter(
	participants ParticipantStore,
	meetings MeetingStore,
	rsvps RSVPStore,
	admins AdminDirectory,
	conv convstate.Store,
	approvals ApprovalActions,
	tokens *SubstituteTokenIssuer,
) *Router {
	return &Router{
		participants: participants,
		meetings:     meetings,
		rsvps:        rsvps,
		admins:       admins,
		conv:         conv,
		approvals:    approvals,
		tokens:       tokens,
		now:          time.Now,
	}
}

// HandleEvent dispatches one inbound event for an already-resolved tenant.
func (r *Router) HandleEvent(ctx context.Context, tenantID string, sender Sender, ev line.Event) {
	switch ev.Type {
	case line.EventTypePostback:
		if ev.Postback == nil {
			log.Warn().Str("tenant_id", tenantID).Msg("Postback event without payload")
			return
		}
		r.handlePostback(ctx, tenantID, sender, ev)
	case line.EventTypeMessage:
		if ev.Message == nil || ev.Message.Type != "text" {
			return
		}
		r.handleText(ctx, tenantID, sender, ev)
	default:
		log.Debug().
			Str("tenant_id", tenantID).
			Str("event_type", ev.Type).
			Msg("Ignoring unsupported event type")
	}
}

func (r *Router) handlePostback(ctx context.Context, tenantID string, sender Sender, ev line.Event) {
	values, err := url.ParseQuery(ev.Postback.Data)
	if err != nil {
		log.Error().Err(err).
			Str("tenant_id", tenantID).
			Str("data", ev.Postback.Data).
			Msg("Error parsing postback data")
		r.replyError(sender, ev.ReplyToken)
		return
	}

	action := values.Get("action")
	log.Info().
		Str("tenant_id", tenantID).
		Str("user_id", ev.Source.UserID).
		Str("action", action).
		Msg("Handling postback")

	switch action {
	case actionRSVPConfirm:
		r.handleRSVPConfirm(ctx, tenantID, sender, ev, values.Get("meeting_id"))
	case actionRSVPSubstitute:
		r.handleRSVPSubstitute(ctx, tenantID, sender, ev, values.Get("meeting_id"))
	case actionRSVPLeave:
		r.handleRSVPLeave(ctx, tenantID, sender, ev, values.Get("meeting_id"))
	case actionApproveMember:
		r.handleApproval(ctx, tenantID, sender, ev, values.Get("participant_id"), true)
	case actionRejectMember:
		r.handleApproval(ctx, tenantID, sender, ev, values.Get("participant_id"), false)
	default:
		log.Warn().
			Str("tenant_id", tenantID).
			Str("action", action).
			Msg("Unknown postback action")
	}
}

func (r *Router) replyError(sender Sender, replyToken string) {
	if err := sender.Reply(replyToken, []line.Message{template.ErrorNotice()}); err != nil {
		log.Error().Err(err).Msg("Error sending error reply")
	}
}
