package template

import "github.com/chapterhq/membot-go/line"

type ApplicationParams struct {
	ParticipantID   string
	ParticipantName string
	TenantID        string
	TenantName      string
}

// ApplicationCard is the admin-facing membership-application notice. The
// approve and reject buttons embed the participant and tenant ids, so the
// resulting postback needs no session lookup.
func ApplicationCard(p ApplicationParams) line.Message {
	bubble := line.Bubble{
		Type:   "bubble",
		Header: header("ใบสมัครสมาชิกใหม่", colorInfo),
		Body: bodyLines(
			p.ParticipantName+" สมัครเข้าร่วม "+p.TenantName,
			"กรุณาตรวจสอบและอนุมัติใบสมัคร",
		),
		Footer: footerButtons(
			postbackButton("อนุมัติ",
				postbackData("approve_member", "participant_id", p.ParticipantID, "tenant_id", p.TenantID),
				"primary"),
			postbackButton("ปฏิเสธ",
				postbackData("reject_member", "participant_id", p.ParticipantID, "tenant_id", p.TenantID),
				"secondary"),
		),
	}
	return flexMessage("ใบสมัครสมาชิกใหม่จาก "+p.ParticipantName, bubble)
}

// WelcomeNotice is pushed to an applicant whose membership was approved.
// An empty tenantName yields a generic greeting.
func WelcomeNotice(tenantName string) line.Message {
	body := "ใบสมัครของคุณได้รับการอนุมัติแล้ว ยินดีต้อนรับ"
	altText := "ยินดีต้อนรับ"
	if tenantName != "" {
		body = "ใบสมัครของคุณได้รับการอนุมัติแล้ว ยินดีต้อนรับสู่ " + tenantName
		altText = "ยินดีต้อนรับสู่ " + tenantName
	}
	bubble := line.Bubble{
		Type:   "bubble",
		Header: header("ยินดีต้อนรับ", colorSuccess),
		Body:   bodyLines(body),
	}
	return flexMessage(altText, bubble)
}

// RejectionNotice is pushed to an applicant whose membership was rejected.
func RejectionNotice(tenantName string) line.Message {
	if tenantName == "" {
		return textMessage("ขออภัย ใบสมัครของคุณไม่ได้รับการอนุมัติในครั้งนี้")
	}
	return textMessage("ขออภัย ใบสมัครเข้าร่วม " + tenantName + " ของคุณไม่ได้รับการอนุมัติในครั้งนี้")
}
