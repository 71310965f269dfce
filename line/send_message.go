package line

// Push proactively sends messages to a user id outside any inbound event.
func (c *Client) Push(toUserID string, messages []Message) error {
	payload := PushPayload{
		To:       toUserID,
		Messages: messages,
	}
	_, err := c.sendRequest("POST", c.config.APIURL+"/v2/bot/message/push", payload)
	return err
}

// Reply responds to a specific inbound event via its one-time reply token.
func (c *Client) Reply(replyToken string, messages []Message) error {
	payload := ReplyPayload{
		ReplyToken: replyToken,
		Messages:   messages,
	}
	_, err := c.sendRequest("POST", c.config.APIURL+"/v2/bot/message/reply", payload)
	return err
}
