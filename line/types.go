package line

type Config struct {
	AccessToken string
	APIURL      string
}

type PushPayload struct {
	To       string    `json:"to"`
	Messages []Message `json:"messages"`
}

type ReplyPayload struct {
	ReplyToken string    `json:"replyToken"`
	Messages   []Message `json:"messages"`
}

// Message is the outbound payload unit. The client does not interpret its
// shape beyond serialization; the template package builds them.
type Message struct {
	Type       string      `json:"type"`
	Text       string      `json:"text,omitempty"`
	AltText    string      `json:"altText,omitempty"`
	Contents   *Bubble     `json:"contents,omitempty"`
	QuickReply *QuickReply `json:"quickReply,omitempty"`
}

type QuickReply struct {
	Items []QuickReplyItem `json:"items"`
}

type QuickReplyItem struct {
	Type   string `json:"type"`
	Action Action `json:"action"`
}

type Action struct {
	Type        string `json:"type"`
	Label       string `json:"label"`
	Text        string `json:"text,omitempty"`
	Data        string `json:"data,omitempty"`
	DisplayText string `json:"displayText,omitempty"`
	URI         string `json:"uri,omitempty"`
}

// Bubble is a flex-message container: header/body/footer boxes of components.
type Bubble struct {
	Type   string `json:"type"`
	Header *Box   `json:"header,omitempty"`
	Body   *Box   `json:"body,omitempty"`
	Footer *Box   `json:"footer,omitempty"`
}

type Box struct {
	Type            string      `json:"type"`
	Layout          string      `json:"layout"`
	Contents        []Component `json:"contents"`
	BackgroundColor string      `json:"backgroundColor,omitempty"`
	Spacing         string      `json:"spacing,omitempty"`
	PaddingAll      string      `json:"paddingAll,omitempty"`
}

type Component struct {
	Type   string  `json:"type"`
	Text   string  `json:"text,omitempty"`
	Size   string  `json:"size,omitempty"`
	Weight string  `json:"weight,omitempty"`
	Color  string  `json:"color,omitempty"`
	Wrap   bool    `json:"wrap,omitempty"`
	Margin string  `json:"margin,omitempty"`
	Style  string  `json:"style,omitempty"`
	Height string  `json:"height,omitempty"`
	Action *Action `json:"action,omitempty"`
}
