package bot

import (
	"context"

	"github.com/chapterhq/membot-go/approval"
	"github.com/chapterhq/membot-go/line"
	"github.com/chapterhq/membot-go/store"
)

// Sender is the outbound side of the messaging platform. line.Client
// satisfies it; tests use a recording fake.
type Sender interface {
	Push(toUserID string, messages []line.Message) error
	Reply(replyToken string, messages []line.Message) error
}

// ParticipantStore defines the roster lookups handlers need.
type ParticipantStore interface {
	GetByLineUserID(ctx context.Context, tenantID, lineUserID string) (*store.Participant, error)
}

type MeetingStore interface {
	GetByID(ctx context.Context, meetingID, tenantID string) (*store.Meeting, error)
}

type RSVPStore interface {
	Upsert(ctx context.Context, rec store.RSVP) error
}

// AdminDirectory resolves the bot user ids of a tenant's admins.
type AdminDirectory interface {
	ListAdminLineUserIDs(ctx context.Context, tenantID string) ([]string, error)
}

// ApprovalActions is the slice of the approval service the router dispatches
// approve/reject postbacks to.
type ApprovalActions interface {
	ApproveMember(ctx context.Context, participantID, tenantID, decidedBy string) (approval.Result, error)
	RejectMember(ctx context.Context, participantID, tenantID, decidedBy string) (approval.Result, error)
}
