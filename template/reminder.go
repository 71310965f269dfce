package template

import (
	"time"

	"github.com/chapterhq/membot-go/line"
)

// ReminderVariant selects the urgency of an event reminder.
type ReminderVariant string

const (
	Reminder7Days  ReminderVariant = "7_days"
	Reminder1Day   ReminderVariant = "1_day"
	Reminder2Hours ReminderVariant = "2_hours"
	ReminderManual ReminderVariant = "manual"
)

type ReminderParams struct {
	Variant      ReminderVariant
	MeetingID    string
	MeetingTitle string
	StartsAt     time.Time
	Location     string
}

func reminderStyle(variant ReminderVariant) (headline, color string) {
	switch variant {
	case Reminder7Days:
		return "ประชุมในอีก 7 วัน", colorInfo
	case Reminder1Day:
		return "ประชุมพรุ่งนี้", colorWarning
	case Reminder2Hours:
		return "ประชุมในอีก 2 ชั่วโมง", colorUrgent
	default:
		return "แจ้งเตือนการประชุม", colorNeutral
	}
}

// EventReminder builds the reminder card. The RSVP buttons carry the meeting
// id in their postback data so the next event is self-describing.
func EventReminder(p ReminderParams) line.Message {
	headline, color := reminderStyle(p.Variant)

	lines := []string{
		p.MeetingTitle,
		"วันที่ " + p.StartsAt.Format("02/01/2006 15:04"),
	}
	if p.Location != "" {
		lines = append(lines, "สถานที่ "+p.Location)
	}

	bubble := line.Bubble{
		Type:   "bubble",
		Header: header(headline, color),
		Body:   bodyLines(lines...),
		Footer: footerButtons(
			postbackButton("เข้าร่วม", postbackData("rsvp_confirm", "meeting_id", p.MeetingID), "primary"),
			postbackButton("ส่งตัวแทน", postbackData("rsvp_substitute", "meeting_id", p.MeetingID), "secondary"),
			postbackButton("ลาประชุม", postbackData("rsvp_leave", "meeting_id", p.MeetingID), "secondary"),
		),
	}

	return flexMessage(headline+": "+p.MeetingTitle, bubble)
}

// LeaveReasonPrompt asks for the reason behind a leave request: canned
// quick-reply choices plus an invitation to type freely.
func LeaveReasonPrompt() line.Message {
	reasons := []string{"ติดภารกิจงาน", "ไม่สบาย", "ติดธุระส่วนตัว", "เดินทางต่างจังหวัด"}

	items := make([]line.QuickReplyItem, 0, len(reasons))
	for _, reason := range reasons {
		items = append(items, line.QuickReplyItem{
			Type: "action",
			Action: line.Action{
				Type:  "message",
				Label: reason,
				Text:  reason,
			},
		})
	}

	msg := textMessage("กรุณาระบุเหตุผลการลา เลือกจากตัวเลือกด้านล่าง หรือพิมพ์เหตุผลของคุณได้เลย")
	msg.QuickReply = &line.QuickReply{Items: items}
	return msg
}
