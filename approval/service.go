// Package approval orchestrates membership-application notifications and the
// approve/reject transitions.
package approval

import (
	"context"
	"fmt"
	"time"

	"github.com/chapterhq/membot-go/line"
	"github.com/chapterhq/membot-go/store"
	"github.com/chapterhq/membot-go/template"
	"github.com/chapterhq/membot-go/vault"
	"github.com/rs/zerolog/log"
)

type ParticipantStore interface {
	GetByID(ctx context.Context, participantID, tenantID string) (*store.Participant, error)
	MarkMember(ctx context.Context, participantID, tenantID string, joinedAt time.Time) error
}

type RoleStore interface {
	ListAdminLineUserIDs(ctx context.Context, tenantID string) ([]string, error)
	UpsertMemberRole(ctx context.Context, userID, tenantID string, grantedAt time.Time) error
}

type ApplicationStore interface {
	GetPendingByParticipant(ctx context.Context, participantID, tenantID string) (*store.ApplicationRequest, error)
	MarkApproved(ctx context.Context, requestID, decidedBy string, decidedAt time.Time) (bool, error)
	MarkRejected(ctx context.Context, requestID, decidedBy string, decidedAt time.Time) (bool, error)
	RevertToPending(ctx context.Context, requestID string) error
}

type TenantStore interface {
	GetByID(ctx context.Context, tenantID string) (*store.Tenant, error)
}

// CredentialResolver yields a tenant's bot credential, or ok=false when the
// tenant never configured one. The vault satisfies it.
type CredentialResolver interface {
	Resolve(ctx context.Context, tenantID string) (vault.Credential, bool, error)
}

type Sender interface {
	Push(toUserID string, messages []line.Message) error
}

// SenderFactory builds a messaging client for a resolved access token.
type SenderFactory func(accessToken string) Sender

// Result reports the outcome of an approve/reject call. AlreadyProcessed
// means the request was decided before this call: a repeat tap or the loser
// of a concurrent approve+reject race.
type Result struct {
	AlreadyProcessed bool
}

type Service struct {
	participants ParticipantStore
	roles        RoleStore
	applications ApplicationStore
	tenants      TenantStore
	credentials  CredentialResolver
	newSender    SenderFactory
	now          func() time.Time
}

func New(
	participants ParticipantStore,
	roles RoleStore,
	applications ApplicationStore,
	tenants TenantStore,
	credentials CredentialResolver,
	newSender SenderFactory,
) *Service {
	return &Service{
		participants: participants,
		roles:        roles,
		applications: applications,
		tenants:      tenants,
		credentials:  credentials,
		newSender:    newSender,
		now:          time.Now,
	}
}

// resolveSender returns a sender for the tenant, or ok=false when the bot is
// not configured yet. Not configured is an expected state, never an error.
func (s *Service) resolveSender(ctx context.Context, tenantID string) (Sender, bool, error) {
	cred, ok, err := s.credentials.Resolve(ctx, tenantID)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	return s.newSender(cred.AccessToken), true, nil
}

// NotifyAdminsNewApplication pushes the application card to every admin with
// a linked bot id. Zero admins or unconfigured credentials exit silently.
func (s *Service) NotifyAdminsNewApplication(ctx context.Context, tenantID string, participant store.Participant, tenantName string) error {
	adminIDs, err := s.roles.ListAdminLineUserIDs(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("failed to list admins: %w", err)
	}
	if len(adminIDs) == 0 {
		log.Info().Str("tenant_id", tenantID).Msg("No admins with linked bot accounts, skipping application notification")
		return nil
	}

	sender, ok, err := s.resolveSender(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("failed to resolve credentials: %w", err)
	}
	if !ok {
		log.Info().Str("tenant_id", tenantID).Msg("Bot not configured, skipping application notification")
		return nil
	}

	card := template.ApplicationCard(template.ApplicationParams{
		ParticipantID:   participant.ID,
		ParticipantName: participant.Name,
		TenantID:        tenantID,
		TenantName:      tenantName,
	})
	for _, adminID := range adminIDs {
		if err := sender.Push(adminID, []line.Message{card}); err != nil {
			log.Error().Err(err).
				Str("tenant_id", tenantID).
				Str("admin_id", adminID).
				Msg("Error pushing application card to admin")
		}
	}
	return nil
}

// ApproveMember flips a pending applicant to member. Idempotent: a repeat
// call, or losing the race against a concurrent decision, reports
// AlreadyProcessed instead of an error.
func (s *Service) ApproveMember(ctx context.Context, participantID, tenantID, decidedBy string) (Result, error) {
	participant, err := s.participants.GetByID(ctx, participantID, tenantID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load participant: %w", err)
	}
	if participant.Status == store.ParticipantStatusMember {
		return Result{AlreadyProcessed: true}, nil
	}

	request, err := s.applications.GetPendingByParticipant(ctx, participantID, tenantID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load application request: %w", err)
	}
	if request == nil {
		return Result{AlreadyProcessed: true}, nil
	}

	now := s.now()
	decided, err := s.applications.MarkApproved(ctx, request.ID, decidedBy, now)
	if err != nil {
		return Result{}, fmt.Errorf("failed to approve request: %w", err)
	}
	if !decided {
		return Result{AlreadyProcessed: true}, nil
	}

	if err := s.participants.MarkMember(ctx, participantID, tenantID, now); err != nil {
		// Compensate: the request row was already flipped. Best effort; the
		// revert itself can fail, leaving request=approved, participant=not
		// member, which a reconciliation pass has to detect.
		if revertErr := s.applications.RevertToPending(ctx, request.ID); revertErr != nil {
			log.Error().Err(revertErr).
				Str("request_id", request.ID).
				Str("participant_id", participantID).
				Msg("Inconsistent state: approved request could not be reverted after participant update failure")
		}
		return Result{}, fmt.Errorf("failed to update participant status: %w", err)
	}

	if participant.UserID != "" {
		if err := s.roles.UpsertMemberRole(ctx, participant.UserID, tenantID, now); err != nil {
			log.Error().Err(err).
				Str("user_id", participant.UserID).
				Str("tenant_id", tenantID).
				Msg("Error upserting member role for approved participant")
		}
	}

	s.notifyDecision(ctx, tenantID, participant, decidedBy, true)
	return Result{}, nil
}

// RejectMember is the symmetric transition, idempotent on double-reject.
func (s *Service) RejectMember(ctx context.Context, participantID, tenantID, decidedBy string) (Result, error) {
	participant, err := s.participants.GetByID(ctx, participantID, tenantID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load participant: %w", err)
	}

	request, err := s.applications.GetPendingByParticipant(ctx, participantID, tenantID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load application request: %w", err)
	}
	if request == nil {
		return Result{AlreadyProcessed: true}, nil
	}

	decided, err := s.applications.MarkRejected(ctx, request.ID, decidedBy, s.now())
	if err != nil {
		return Result{}, fmt.Errorf("failed to reject request: %w", err)
	}
	if !decided {
		return Result{AlreadyProcessed: true}, nil
	}

	s.notifyDecision(ctx, tenantID, participant, decidedBy, false)
	return Result{}, nil
}

// notifyDecision handles the applicant-facing notice and the admin
// broadcast. Both best-effort: failures are logged, the decision stands.
func (s *Service) notifyDecision(ctx context.Context, tenantID string, participant *store.Participant, decidedBy string, approved bool) {
	// the notices tolerate an empty name; the internal id never reaches a user
	tenantName := ""
	if tenant, err := s.tenants.GetByID(ctx, tenantID); err != nil {
		log.Error().Err(err).Str("tenant_id", tenantID).Msg("Error loading tenant name for decision notification")
	} else {
		tenantName = tenant.Name
	}

	sender, ok, err := s.resolveSender(ctx, tenantID)
	if err != nil || !ok {
		if err != nil {
			log.Error().Err(err).Str("tenant_id", tenantID).Msg("Error resolving credentials for decision notification")
		}
		return
	}

	if participant.LineUserID != "" {
		var notice line.Message
		if approved {
			notice = template.WelcomeNotice(tenantName)
		} else {
			notice = template.RejectionNotice(tenantName)
		}
		if err := sender.Push(participant.LineUserID, []line.Message{notice}); err != nil {
			log.Error().Err(err).
				Str("participant_id", participant.ID).
				Msg("Error notifying applicant of decision")
		}
	}

	text := participant.Name + " ได้รับการอนุมัติเป็นสมาชิกแล้ว"
	if !approved {
		text = "ใบสมัครของ " + participant.Name + " ถูกปฏิเสธ"
	}
	if _, err := s.broadcast(ctx, sender, tenantID, text, decidedBy); err != nil {
		log.Error().Err(err).Str("tenant_id", tenantID).Msg("Error broadcasting decision to admins")
	}
}

// BroadcastToAdmins pushes a text notice to every admin except the one whose
// id matches excludeUserID, so an admin never receives an echo of their own
// action. Returns how many pushes succeeded.
func (s *Service) BroadcastToAdmins(ctx context.Context, tenantID, text, excludeUserID string) (int, error) {
	sender, ok, err := s.resolveSender(ctx, tenantID)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve credentials: %w", err)
	}
	if !ok {
		log.Info().Str("tenant_id", tenantID).Msg("Bot not configured, skipping admin broadcast")
		return 0, nil
	}
	return s.broadcast(ctx, sender, tenantID, text, excludeUserID)
}

func (s *Service) broadcast(ctx context.Context, sender Sender, tenantID, text, excludeUserID string) (int, error) {
	adminIDs, err := s.roles.ListAdminLineUserIDs(ctx, tenantID)
	if err != nil {
		return 0, fmt.Errorf("failed to list admins: %w", err)
	}

	sent := 0
	notice := template.Text(text)
	for _, adminID := range adminIDs {
		if adminID == excludeUserID {
			continue
		}
		if err := sender.Push(adminID, []line.Message{notice}); err != nil {
			log.Error().Err(err).
				Str("tenant_id", tenantID).
				Str("admin_id", adminID).
				Msg("Error pushing broadcast to admin")
			continue
		}
		sent++
	}
	return sent, nil
}
