package template

import (
	"fmt"

	"github.com/chapterhq/membot-go/line"
)

// TrialExpiring warns admins that the trial ends in daysLeft days. Urgency
// scales with proximity: one day left gets the highest urgency color.
func TrialExpiring(tenantName string, daysLeft int) line.Message {
	color := colorInfo
	switch {
	case daysLeft <= 1:
		color = colorUrgent
	case daysLeft <= 3:
		color = colorWarning
	}

	headline := fmt.Sprintf("ช่วงทดลองใช้เหลืออีก %d วัน", daysLeft)
	bubble := line.Bubble{
		Type:   "bubble",
		Header: header(headline, color),
		Body: bodyLines(
			fmt.Sprintf("ช่วงทดลองใช้ของ %s จะสิ้นสุดในอีก %d วัน", tenantName, daysLeft),
			"อัปเกรดแพ็กเกจเพื่อใช้งานต่อเนื่องโดยไม่สะดุด",
		),
	}
	return flexMessage(headline, bubble)
}

// TrialDowngraded informs admins that the trial ended and the tenant moved
// to the free plan.
func TrialDowngraded(tenantName string) line.Message {
	bubble := line.Bubble{
		Type:   "bubble",
		Header: header("ช่วงทดลองใช้สิ้นสุดแล้ว", colorMuted),
		Body: bodyLines(
			tenantName+" ถูกปรับเป็นแพ็กเกจฟรีแล้ว",
			"ข้อมูลของคุณยังอยู่ครบ อัปเกรดได้ทุกเมื่อเพื่อกลับมาใช้ฟีเจอร์ทั้งหมด",
		),
	}
	return flexMessage("ช่วงทดลองใช้สิ้นสุดแล้ว", bubble)
}
