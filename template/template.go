// Package template builds the structured message payloads the bot sends.
// Every function is pure: typed parameters in, line.Message out, no I/O.
// Action buttons embed the ids the next inbound event needs, so handling a
// tap requires no server-side session beyond the conversation store.
package template

import (
	"fmt"

	"github.com/chapterhq/membot-go/line"
)

const (
	colorNeutral = "#4A6572"
	colorInfo    = "#1E88E5"
	colorWarning = "#F9A825"
	colorUrgent  = "#E53935"
	colorSuccess = "#43A047"
	colorMuted   = "#9E9E9E"
	colorWhite   = "#FFFFFF"
)

// Text wraps a plain string as a sendable message.
func Text(text string) line.Message {
	return line.Message{Type: "text", Text: text}
}

// ErrorNotice is the only failure a user ever sees; technical details stay
// in the server log.
func ErrorNotice() line.Message {
	return Text("เกิดข้อผิดพลาด กรุณาลองใหม่อีกครั้ง")
}

func textMessage(text string) line.Message {
	return Text(text)
}

func flexMessage(altText string, bubble line.Bubble) line.Message {
	return line.Message{
		Type:     "flex",
		AltText:  altText,
		Contents: &bubble,
	}
}

func header(text, backgroundColor string) *line.Box {
	return &line.Box{
		Type:            "box",
		Layout:          "vertical",
		BackgroundColor: backgroundColor,
		PaddingAll:      "16px",
		Contents: []line.Component{
			{Type: "text", Text: text, Size: "lg", Weight: "bold", Color: colorWhite, Wrap: true},
		},
	}
}

func bodyLines(lines ...string) *line.Box {
	contents := make([]line.Component, 0, len(lines))
	for i, l := range lines {
		c := line.Component{Type: "text", Text: l, Size: "md", Wrap: true}
		if i > 0 {
			c.Margin = "md"
		}
		contents = append(contents, c)
	}
	return &line.Box{
		Type:     "box",
		Layout:   "vertical",
		Spacing:  "sm",
		Contents: contents,
	}
}

func postbackButton(label, data, style string) line.Component {
	return line.Component{
		Type:   "button",
		Style:  style,
		Height: "sm",
		Action: &line.Action{
			Type:  "postback",
			Label: label,
			Data:  data,
		},
	}
}

func uriButton(label, uri string) line.Component {
	return line.Component{
		Type:   "button",
		Style:  "link",
		Height: "sm",
		Action: &line.Action{
			Type:  "uri",
			Label: label,
			URI:   uri,
		},
	}
}

func footerButtons(buttons ...line.Component) *line.Box {
	return &line.Box{
		Type:     "box",
		Layout:   "vertical",
		Spacing:  "sm",
		Contents: buttons,
	}
}

func postbackData(action string, pairs ...string) string {
	data := "action=" + action
	for i := 0; i+1 < len(pairs); i += 2 {
		data += fmt.Sprintf("&%s=%s", pairs[i], pairs[i+1])
	}
	return data
}
