package fallback

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"visionstore/order"
)

// Message is a manual order draft for the visitor's mail client. Reason is
// kept for logs and never placed in the body.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Reason  string `json:"-"`
}

// MailtoURL encodes the draft the way encodeURIComponent would, so spaces
// become %20 rather than '+'.
func (m Message) MailtoURL() string {
	return fmt.Sprintf("mailto:%s?subject=%s&body=%s", m.To, escape(m.Subject), escape(m.Body))
}

func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

type Composer struct {
	to      string
	subject string
}

func NewComposer(to, subject string) *Composer {
	return &Composer{to: to, subject: subject}
}

// Compose never fails: if the request cannot be rendered as JSON the body
// falls back to Go syntax.
func (c *Composer) Compose(req order.Request, reason error) Message {
	msg := Message{To: c.to, Subject: c.subject}
	if reason != nil {
		msg.Reason = reason.Error()
	}
	body, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		msg.Body = fmt.Sprintf("%+v", req)
		return msg
	}
	msg.Body = string(body)
	return msg
}
