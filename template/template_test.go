package template

import (
	"strings"
	"testing"
	"time"
)

func TestEventReminder_VariantStyles(t *testing.T) {
	startsAt := time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)

	testCases := []struct {
		variant  ReminderVariant
		color    string
		headline string
	}{
		{Reminder7Days, colorInfo, "ประชุมในอีก 7 วัน"},
		{Reminder1Day, colorWarning, "ประชุมพรุ่งนี้"},
		{Reminder2Hours, colorUrgent, "ประชุมในอีก 2 ชั่วโมง"},
		{ReminderManual, colorNeutral, "แจ้งเตือนการประชุม"},
	}

	for _, tc := range testCases {
		t.Run(string(tc.variant), func(t *testing.T) {
			msg := EventReminder(ReminderParams{
				Variant:      tc.variant,
				MeetingID:    "M1",
				MeetingTitle: "Weekly Chapter Meeting",
				StartsAt:     startsAt,
				Location:     "Room 4",
			})

			if msg.Type != "flex" || msg.Contents == nil {
				t.Fatalf("Expected flex message with contents, got %+v", msg)
			}
			header := msg.Contents.Header
			if header == nil || header.BackgroundColor != tc.color {
				t.Errorf("Expected header color %s, got %+v", tc.color, header)
			}
			if header.Contents[0].Text != tc.headline {
				t.Errorf("Expected headline %q, got %q", tc.headline, header.Contents[0].Text)
			}
		})
	}
}

func TestEventReminder_ButtonsEmbedMeetingID(t *testing.T) {
	msg := EventReminder(ReminderParams{
		Variant:      Reminder1Day,
		MeetingID:    "M42",
		MeetingTitle: "Monthly Meetup",
		StartsAt:     time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC),
	})

	footer := msg.Contents.Footer
	if footer == nil || len(footer.Contents) != 3 {
		t.Fatalf("Expected 3 footer buttons, got %+v", footer)
	}

	expected := []string{
		"action=rsvp_confirm&meeting_id=M42",
		"action=rsvp_substitute&meeting_id=M42",
		"action=rsvp_leave&meeting_id=M42",
	}
	for i, want := range expected {
		action := footer.Contents[i].Action
		if action == nil || action.Data != want {
			t.Errorf("Button %d: expected data %q, got %+v", i, want, action)
		}
	}
}

func TestLeaveReasonPrompt(t *testing.T) {
	msg := LeaveReasonPrompt()

	if msg.Type != "text" {
		t.Errorf("Expected text message, got %s", msg.Type)
	}
	if msg.QuickReply == nil || len(msg.QuickReply.Items) == 0 {
		t.Fatal("Expected quick reply items")
	}
	for _, item := range msg.QuickReply.Items {
		if item.Action.Type != "message" {
			t.Errorf("Expected message action, got %s", item.Action.Type)
		}
		if item.Action.Text != item.Action.Label {
			t.Errorf("Expected action text to match label, got %q vs %q", item.Action.Text, item.Action.Label)
		}
	}
}

func TestApplicationCard_EmbedsIDs(t *testing.T) {
	msg := ApplicationCard(ApplicationParams{
		ParticipantID:   "P7",
		ParticipantName: "สมชาย",
		TenantID:        "T3",
		TenantName:      "Bangkok Chapter",
	})

	footer := msg.Contents.Footer
	if footer == nil || len(footer.Contents) != 2 {
		t.Fatalf("Expected approve and reject buttons, got %+v", footer)
	}

	approve := footer.Contents[0].Action
	if approve.Data != "action=approve_member&participant_id=P7&tenant_id=T3" {
		t.Errorf("Unexpected approve data: %q", approve.Data)
	}
	reject := footer.Contents[1].Action
	if reject.Data != "action=reject_member&participant_id=P7&tenant_id=T3" {
		t.Errorf("Unexpected reject data: %q", reject.Data)
	}

	if !strings.Contains(msg.Contents.Body.Contents[0].Text, "สมชาย") {
		t.Error("Expected card body to name the applicant")
	}
}

func TestDecisionNotices_NameOptional(t *testing.T) {
	welcome := WelcomeNotice("Bangkok Chapter")
	if !strings.Contains(welcome.Contents.Body.Contents[0].Text, "Bangkok Chapter") {
		t.Error("Expected welcome notice to name the tenant")
	}

	anonymous := WelcomeNotice("")
	body := anonymous.Contents.Body.Contents[0].Text
	if strings.HasSuffix(body, " ") || strings.Contains(body, "สู่") {
		t.Errorf("Expected generic welcome without a name slot, got %q", body)
	}
	if strings.HasSuffix(anonymous.AltText, " ") {
		t.Errorf("Expected clean alt text, got %q", anonymous.AltText)
	}

	rejection := RejectionNotice("Bangkok Chapter")
	if !strings.Contains(rejection.Text, "Bangkok Chapter") {
		t.Error("Expected rejection notice to name the tenant")
	}
	if anonymousRejection := RejectionNotice(""); strings.Contains(anonymousRejection.Text, "เข้าร่วม ") {
		t.Errorf("Expected generic rejection without a name slot, got %q", anonymousRejection.Text)
	}
}

func TestTrialExpiring_UrgencyScales(t *testing.T) {
	testCases := []struct {
		daysLeft int
		color    string
	}{
		{7, colorInfo},
		{3, colorWarning},
		{1, colorUrgent},
	}

	for _, tc := range testCases {
		msg := TrialExpiring("Bangkok Chapter", tc.daysLeft)
		header := msg.Contents.Header
		if header.BackgroundColor != tc.color {
			t.Errorf("Days %d: expected color %s, got %s", tc.daysLeft, tc.color, header.BackgroundColor)
		}
	}
}

func TestRSVPOutcomes_DistinctHeadlines(t *testing.T) {
	confirmed := RSVPConfirmed("Weekly Meeting")
	substitute := RSVPSubstitute("Weekly Meeting", "https://example.com/substitute?token=x")
	leave := RSVPLeaveRecorded("Weekly Meeting", "ไม่สบาย")

	headlines := map[string]bool{}
	for _, m := range []string{
		confirmed.Contents.Header.Contents[0].Text,
		substitute.Contents.Header.Contents[0].Text,
		leave.Contents.Header.Contents[0].Text,
	} {
		if headlines[m] {
			t.Errorf("Duplicate headline %q across RSVP outcomes", m)
		}
		headlines[m] = true
	}

	if substitute.Contents.Footer == nil || substitute.Contents.Footer.Contents[0].Action.URI == "" {
		t.Error("Expected substitute message to carry the registration link")
	}
	if !strings.Contains(leave.Contents.Body.Contents[1].Text, "ไม่สบาย") {
		t.Error("Expected leave confirmation to echo the reason")
	}
}
