package bot

import (
	"context"

	"github.com/chapterhq/membot-go/approval"
	"github.com/chapterhq/membot-go/line"
	"github.com/chapterhq/membot-go/template"
	"github.com/rs/zerolog/log"
)

// handleApproval dispatches an approve/reject button tap from the admin
// application card. The card embeds the participant id; the tenant comes
// from the webhook's resolved destination.
func (r *Router) handleApproval(ctx context.Context, tenantID string, sender Sender, ev line.Event, participantID string, approve bool) {
	if participantID == "" {
		log.Warn().Str("tenant_id", tenantID).Msg("Approval postback without participant id")
		r.replyError(sender, ev.ReplyToken)
		return
	}

	var result approval.Result
	var err error
	if approve {
		result, err = r.approvals.ApproveMember(ctx, participantID, tenantID, ev.Source.UserID)
	} else {
		result, err = r.approvals.RejectMember(ctx, participantID, tenantID, ev.Source.UserID)
	}
	if err != nil {
		log.Error().Err(err).
			Str("tenant_id", tenantID).
			Str("participant_id", participantID).
			Bool("approve", approve).
			Msg("Error processing membership decision")
		r.replyError(sender, ev.ReplyToken)
		return
	}

	var reply line.Message
	switch {
	case result.AlreadyProcessed:
		reply = template.Text("ใบสมัครนี้ถูกดำเนินการไปแล้ว")
	case approve:
		reply = template.Text("อนุมัติสมาชิกเรียบร้อยแล้ว")
	default:
		reply = template.Text("ปฏิเสธใบสมัครเรียบร้อยแล้ว")
	}

	if err := sender.Reply(ev.ReplyToken, []line.Message{reply}); err != nil {
		log.Error().Err(err).
			Str("tenant_id", tenantID).
			Str("participant_id", participantID).
			Msg("Error sending approval outcome reply")
	}
}
