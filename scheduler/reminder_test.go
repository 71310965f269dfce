package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/chapterhq/membot-go/line"
	"github.com/chapterhq/membot-go/store"
	"github.com/chapterhq/membot-go/template"
	"github.com/chapterhq/membot-go/vault"
)

type fakeTenants struct {
	reminders []store.Tenant
	trialing  []store.Tenant

	mu          sync.Mutex
	downgraded  []string
	downgradeOK map[string]bool
}

func (f *fakeTenants) ListWithRemindersEnabled(ctx context.Context) ([]store.Tenant, error) {
	return f.reminders, nil
}

func (f *fakeTenants) ListTrialing(ctx context.Context) ([]store.Tenant, error) {
	return f.trialing, nil
}

func (f *fakeTenants) DowngradeExpiredTrial(ctx context.Context, tenantID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.downgraded = append(f.downgraded, tenantID)
	if f.downgradeOK == nil {
		return true, nil
	}
	return f.downgradeOK[tenantID], nil
}

type fakeMeetingList struct {
	meetings []store.Meeting
}

func (f *fakeMeetingList) ListUpcoming(ctx context.Context, tenantID string, after time.Time) ([]store.Meeting, error) {
	var out []store.Meeting
	for _, m := range f.meetings {
		if m.TenantID == tenantID && m.StartsAt.After(after) {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeMembers struct {
	members []store.Participant
	err     error
}

func (f *fakeMembers) ListMembers(ctx context.Context, tenantID string) ([]store.Participant, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.members, nil
}

type fakeNotifiedLog struct {
	mu       sync.Mutex
	notified []string
}

func (f *fakeNotifiedLog) MarkNotified(ctx context.Context, tenantID, meetingID, participantID string, notifiedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notified = append(f.notified, meetingID+":"+participantID)
	return nil
}

type fakeDeliveries struct {
	mu       sync.Mutex
	existing map[string]bool
	recorded []store.DeliveryLog
}

func deliveryKey(subjectID, notificationType, day string) string {
	return subjectID + "|" + notificationType + "|" + day
}

func (f *fakeDeliveries) Exists(ctx context.Context, subjectID, notificationType, day string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.existing[deliveryKey(subjectID, notificationType, day)], nil
}

func (f *fakeDeliveries) Record(ctx context.Context, rec store.DeliveryLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existing == nil {
		f.existing = make(map[string]bool)
	}
	f.existing[deliveryKey(rec.SubjectID, rec.NotificationType, rec.Day)] = true
	f.recorded = append(f.recorded, rec)
	return nil
}

type fakeCredentials struct {
	configured map[string]bool
}

func (f *fakeCredentials) Resolve(ctx context.Context, tenantID string) (vault.Credential, bool, error) {
	if !f.configured[tenantID] {
		return vault.Credential{}, false, nil
	}
	return vault.Credential{AccessToken: "token-" + tenantID}, true, nil
}

type pushRecord struct {
	target  string
	message line.Message
}

type fakePusher struct {
	mu      sync.Mutex
	pushes  []pushRecord
	failFor map[string]bool
}

func (f *fakePusher) Push(toUserID string, messages []line.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[toUserID] {
		return errors.New("push failed")
	}
	for _, m := range messages {
		f.pushes = append(f.pushes, pushRecord{target: toUserID, message: m})
	}
	return nil
}

func (f *fakePusher) targets() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.pushes))
	for _, p := range f.pushes {
		out = append(out, p.target)
	}
	return out
}

func reminderTenant() store.Tenant {
	return store.Tenant{
		ID:           "t1",
		Name:         "Bangkok Chapter",
		Status:       store.TenantStatusActive,
		Remind7Days:  true,
		Remind1Day:   true,
		Remind2Hours: true,
	}
}

type reminderFixture struct {
	service    *ReminderService
	deliveries *fakeDeliveries
	rsvps      *fakeNotifiedLog
	pusher     *fakePusher
	members    *fakeMembers
}

func newReminderFixture(t *testing.T, tenant store.Tenant, meetings []store.Meeting, now time.Time) *reminderFixture {
	t.Helper()

	deliveries := &fakeDeliveries{}
	rsvps := &fakeNotifiedLog{}
	pusher := &fakePusher{}
	members := &fakeMembers{members: []store.Participant{
		{ID: "P1", TenantID: tenant.ID, Name: "สมชาย", Status: store.ParticipantStatusMember, LineUserID: "U1"},
		{ID: "P2", TenantID: tenant.ID, Name: "สมหญิง", Status: store.ParticipantStatusMember, LineUserID: "U2"},
		{ID: "P3", TenantID: tenant.ID, Name: "ไม่มีไลน์", Status: store.ParticipantStatusMember},
	}}

	svc := NewReminderService(
		&fakeTenants{reminders: []store.Tenant{tenant}},
		&fakeMeetingList{meetings: meetings},
		members,
		rsvps,
		deliveries,
		&fakeCredentials{configured: map[string]bool{tenant.ID: true}},
		func(string) Sender { return pusher },
	)
	svc.now = func() time.Time { return now }

	return &reminderFixture{service: svc, deliveries: deliveries, rsvps: rsvps, pusher: pusher, members: members}
}

func TestSelectVariant(t *testing.T) {
	now := time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)
	tenant := reminderTenant()

	testCases := []struct {
		name     string
		startsAt time.Time
		variant  template.ReminderVariant
		due      bool
	}{
		{"seven days out", now.AddDate(0, 0, 7), template.Reminder7Days, true},
		{"tomorrow", now.Add(26 * time.Hour), template.Reminder1Day, true},
		{"ninety minutes out", now.Add(90 * time.Minute), template.Reminder2Hours, true},
		{"three days out", now.AddDate(0, 0, 3), "", false},
		{"already started", now.Add(-time.Hour), "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			variant, due := selectVariant(tenant, now, tc.startsAt)
			if due != tc.due || variant != tc.variant {
				t.Errorf("Expected (%q, %v), got (%q, %v)", tc.variant, tc.due, variant, due)
			}
		})
	}
}

func TestSelectVariant_TwoHourWinsAcrossMidnight(t *testing.T) {
	// 23:30 today, meeting 01:00 tomorrow: one calendar day away but only
	// ninety minutes out, so the urgent variant wins
	now := time.Date(2026, 3, 7, 23, 30, 0, 0, time.UTC)
	startsAt := time.Date(2026, 3, 8, 1, 0, 0, 0, time.UTC)

	variant, due := selectVariant(reminderTenant(), now, startsAt)
	if !due || variant != template.Reminder2Hours {
		t.Errorf("Expected 2-hour variant, got (%q, %v)", variant, due)
	}
}

func TestSelectVariant_RespectsTenantFlags(t *testing.T) {
	now := time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)
	tenant := reminderTenant()
	tenant.Remind7Days = false

	if _, due := selectVariant(tenant, now, now.AddDate(0, 0, 7)); due {
		t.Error("Expected disabled 7-day flag to suppress the reminder")
	}
	if variant, due := selectVariant(tenant, now, now.Add(90*time.Minute)); !due || variant != template.Reminder2Hours {
		t.Error("Expected other marks to stay active")
	}
}

func TestReminderRun_SevenDayMark(t *testing.T) {
	now := time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)
	meeting := store.Meeting{ID: "M1", TenantID: "t1", Title: "Weekly Meeting", StartsAt: now.AddDate(0, 0, 7)}
	f := newReminderFixture(t, reminderTenant(), []store.Meeting{meeting}, now)

	summary, err := f.service.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if summary.Tenants != 1 || summary.Meetings != 1 {
		t.Errorf("Expected 1 tenant and 1 meeting, got %+v", summary)
	}
	// two members have a linked bot id, the third is skipped
	if summary.Sent != 2 || summary.Failed != 0 {
		t.Errorf("Expected 2 sent 0 failed, got %+v", summary)
	}

	if len(f.rsvps.notified) != 2 {
		t.Errorf("Expected 2 pending RSVP rows, got %v", f.rsvps.notified)
	}

	if len(f.deliveries.recorded) != 1 {
		t.Fatalf("Expected 1 delivery log row, got %d", len(f.deliveries.recorded))
	}
	rec := f.deliveries.recorded[0]
	if rec.SubjectID != "M1" || rec.NotificationType != string(template.Reminder7Days) {
		t.Errorf("Unexpected delivery log row: %+v", rec)
	}
	if rec.Day != "2026-03-07" {
		t.Errorf("Expected day key 2026-03-07, got %s", rec.Day)
	}
}

func TestReminderRun_DedupeSuppressesRepeat(t *testing.T) {
	now := time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)
	meeting := store.Meeting{ID: "M1", TenantID: "t1", Title: "Weekly Meeting", StartsAt: now.AddDate(0, 0, 7)}
	f := newReminderFixture(t, reminderTenant(), []store.Meeting{meeting}, now)

	if _, err := f.service.Run(context.Background()); err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	summary, err := f.service.Run(context.Background())
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}

	if summary.Sent != 0 || summary.Meetings != 0 {
		t.Errorf("Expected second run to send nothing, got %+v", summary)
	}
	if len(f.pusher.pushes) != 2 {
		t.Errorf("Expected pushes from first run only, got %d", len(f.pusher.pushes))
	}
}

func TestReminderRun_MemberFailureTolerated(t *testing.T) {
	now := time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)
	meeting := store.Meeting{ID: "M1", TenantID: "t1", Title: "Weekly Meeting", StartsAt: now.AddDate(0, 0, 7)}
	f := newReminderFixture(t, reminderTenant(), []store.Meeting{meeting}, now)
	f.pusher.failFor = map[string]bool{"U1": true}

	summary, err := f.service.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if summary.Sent != 1 || summary.Failed != 1 {
		t.Errorf("Expected 1 sent 1 failed, got %+v", summary)
	}
	if got := f.pusher.targets(); len(got) != 1 || got[0] != "U2" {
		t.Errorf("Expected delivery to U2 only, got %v", got)
	}
	// only the delivered member gets a pending RSVP row
	if len(f.rsvps.notified) != 1 || f.rsvps.notified[0] != "M1:P2" {
		t.Errorf("Expected M1:P2 notified, got %v", f.rsvps.notified)
	}
	rec := f.deliveries.recorded[0]
	if rec.SentCount != 1 || rec.FailedCount != 1 {
		t.Errorf("Expected counts in delivery log, got %+v", rec)
	}
}

func TestReminderRun_FailedRosterLookupRetriedSameDay(t *testing.T) {
	now := time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)
	meeting := store.Meeting{ID: "M1", TenantID: "t1", Title: "Weekly Meeting", StartsAt: now.AddDate(0, 0, 7)}
	f := newReminderFixture(t, reminderTenant(), []store.Meeting{meeting}, now)

	f.members.err = errors.New("db timeout")
	summary, err := f.service.Run(context.Background())
	if err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	if summary.Meetings != 0 || summary.Sent != 0 {
		t.Errorf("Expected nothing counted on a failed roster lookup, got %+v", summary)
	}
	// no delivery row: the day's only send window must stay open
	if len(f.deliveries.recorded) != 0 {
		t.Fatalf("Expected no delivery log row, got %v", f.deliveries.recorded)
	}

	f.members.err = nil
	summary, err = f.service.Run(context.Background())
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}
	if summary.Meetings != 1 || summary.Sent != 2 {
		t.Errorf("Expected rerun to deliver, got %+v", summary)
	}
	if len(f.deliveries.recorded) != 1 {
		t.Errorf("Expected delivery log row after successful rerun, got %d", len(f.deliveries.recorded))
	}
}

func TestReminderRun_SkipsUnconfiguredTenant(t *testing.T) {
	now := time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)
	meeting := store.Meeting{ID: "M1", TenantID: "t1", Title: "Weekly Meeting", StartsAt: now.AddDate(0, 0, 7)}
	f := newReminderFixture(t, reminderTenant(), []store.Meeting{meeting}, now)
	f.service.credentials = &fakeCredentials{}

	summary, err := f.service.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Sent != 0 || len(f.pusher.pushes) != 0 {
		t.Errorf("Expected no sends without credentials, got %+v", summary)
	}
}
