package convstate

import (
	"context"
	"testing"
	"time"
)

func testClock(start time.Time) (*time.Time, func() time.Time) {
	current := start
	return &current, func() time.Time { return current }
}

func TestMemoryStore_StartGetClear(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	state := State{
		TenantID: "t1",
		UserID:   "u1",
		Step:     StepAwaitingLeaveReason,
		Action:   "rsvp_leave",
		Payload:  map[string]string{"meeting_id": "m1"},
	}
	if err := s.Start(ctx, state); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	got, ok, err := s.Get(ctx, "t1", "u1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok {
		t.Fatal("Expected state to be present")
	}
	if got.Payload["meeting_id"] != "m1" {
		t.Errorf("Expected payload meeting_id m1, got %q", got.Payload["meeting_id"])
	}

	// other users and tenants see nothing
	if _, ok, _ := s.Get(ctx, "t1", "u2"); ok {
		t.Error("Expected no state for another user")
	}
	if _, ok, _ := s.Get(ctx, "t2", "u1"); ok {
		t.Error("Expected no state for another tenant")
	}

	if err := s.Clear(ctx, "t1", "u1"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "t1", "u1"); ok {
		t.Error("Expected state to be gone after Clear")
	}
}

func TestMemoryStore_LazyExpiry(t *testing.T) {
	s := NewMemoryStore()
	current, clock := testClock(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))
	s.now = clock
	ctx := context.Background()

	if err := s.Start(ctx, State{TenantID: "t1", UserID: "u1", Step: StepAwaitingLeaveReason}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	*current = current.Add(TTL - time.Second)
	if _, ok, _ := s.Get(ctx, "t1", "u1"); !ok {
		t.Error("Expected state to survive inside the TTL")
	}

	*current = current.Add(2 * time.Second)
	if _, ok, _ := s.Get(ctx, "t1", "u1"); ok {
		t.Error("Expected state to expire past the TTL")
	}

	// expiry deletes: a later Get inside a fresh window still sees nothing
	if _, ok, _ := s.Get(ctx, "t1", "u1"); ok {
		t.Error("Expected expired state to stay gone")
	}
}

func TestMemoryStore_SecondStartOverwrites(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.Start(ctx, State{TenantID: "t1", UserID: "u1", Step: StepAwaitingLeaveReason,
		Payload: map[string]string{"meeting_id": "m1"}})
	s.Start(ctx, State{TenantID: "t1", UserID: "u1", Step: StepAwaitingLeaveReason,
		Payload: map[string]string{"meeting_id": "m2"}})

	got, ok, _ := s.Get(ctx, "t1", "u1")
	if !ok {
		t.Fatal("Expected state to be present")
	}
	if got.Payload["meeting_id"] != "m2" {
		t.Errorf("Expected last writer to win, got meeting_id %q", got.Payload["meeting_id"])
	}
}
