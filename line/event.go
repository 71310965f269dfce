package line

// WebhookRequest is the inbound webhook body. Destination carries the bot's
// channel id, which is how the owning tenant is resolved. Signature
// verification happens upstream; events arrive already verified.
type WebhookRequest struct {
	Destination string  `json:"destination"`
	Events      []Event `json:"events"`
}

const (
	EventTypeMessage  = "message"
	EventTypePostback = "postback"
)

type Event struct {
	Type       string        `json:"type"`
	ReplyToken string        `json:"replyToken"`
	Source     EventSource   `json:"source"`
	Message    *EventMessage `json:"message,omitempty"`
	Postback   *Postback     `json:"postback,omitempty"`
	Timestamp  int64         `json:"timestamp"`
}

type EventSource struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

type EventMessage struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Text string `json:"text"`
}

// Postback carries the action payload of a button tap as a query string,
// e.g. "action=rsvp_confirm&meeting_id=M1".
type Postback struct {
	Data string `json:"data"`
}
