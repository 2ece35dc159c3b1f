package models

// Direction tells whether a message was received from a peer or sent by the local account.
type Direction string

const (
	DirectionIncoming Direction = "incoming"
	DirectionOutgoing Direction = "outgoing"
)

// MessageStatus is the delivery status stored with a message.
type MessageStatus string

const (
	MessageStatusPending  MessageStatus = "pending"
	MessageStatusSent     MessageStatus = "sent"
	MessageStatusReceived MessageStatus = "received"
)

// Message is a single chat message. Timestamps are Unix epoch milliseconds.
type Message struct {
	ID          string        `json:"id"`
	ThreadID    string        `json:"thread_id"`
	RecipientID string        `json:"recipient_id"`
	AuthorID    string        `json:"author_id"`
	Direction   Direction     `json:"direction"`
	Status      MessageStatus `json:"status"`
	Body        *string       `json:"body,omitempty"`
	SentAt      int64         `json:"sent_at"`
	ReceivedAt  int64         `json:"received_at"`
	ServerAt    int64         `json:"server_at"`
	IsSecure    bool          `json:"is_secure"`
	Quote       *Quote        `json:"quote,omitempty"`
	Attachments []Attachment  `json:"attachments,omitempty"`
}

// BodyText returns the body, or an empty string for media-only messages.
func (m *Message) BodyText() string {
	if m.Body == nil {
		return ""
	}
	return *m.Body
}

// Quote references an earlier message by its sent timestamp and author.
type Quote struct {
	ID       int64  `json:"id"`
	AuthorID string `json:"author_id"`
	Body     string `json:"body"`
	Missing  bool   `json:"missing"`
}
