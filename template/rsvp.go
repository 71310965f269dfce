package template

import "github.com/chapterhq/membot-go/line"

// RSVPConfirmed acknowledges an attendance confirmation.
func RSVPConfirmed(meetingTitle string) line.Message {
	bubble := line.Bubble{
		Type:   "bubble",
		Header: header("ยืนยันเข้าร่วมแล้ว", colorSuccess),
		Body:   bodyLines("บันทึกการเข้าร่วม " + meetingTitle + " เรียบร้อยแล้ว แล้วพบกันครับ"),
	}
	return flexMessage("ยืนยันเข้าร่วมแล้ว", bubble)
}

// RSVPSubstitute acknowledges a substitute response and carries the deep
// link for registering the substitute's details.
func RSVPSubstitute(meetingTitle, registrationLink string) line.Message {
	bubble := line.Bubble{
		Type:   "bubble",
		Header: header("ส่งตัวแทนเข้าประชุม", colorInfo),
		Body:   bodyLines("บันทึกการส่งตัวแทนสำหรับ " + meetingTitle + " แล้ว กรุณากรอกข้อมูลตัวแทนผ่านลิงก์ด้านล่าง"),
		Footer: footerButtons(
			uriButton("ลงทะเบียนตัวแทน", registrationLink),
		),
	}
	return flexMessage("ลงทะเบียนตัวแทนเข้าประชุม", bubble)
}

// RSVPLeaveRecorded acknowledges a completed leave request.
func RSVPLeaveRecorded(meetingTitle, reason string) line.Message {
	bubble := line.Bubble{
		Type:   "bubble",
		Header: header("บันทึกการลาแล้ว", colorNeutral),
		Body: bodyLines(
			"บันทึกการลาสำหรับ "+meetingTitle+" เรียบร้อยแล้ว",
			"เหตุผล: "+reason,
		),
	}
	return flexMessage("บันทึกการลาแล้ว", bubble)
}
