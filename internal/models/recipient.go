package models

import (
	"time"
)

// Recipient is a peer (or the local account) that messages are exchanged with.
type Recipient struct {
	ID          string    `json:"id"`
	ServiceID   string    `json:"service_id"`
	DisplayName string    `json:"display_name"`
	IsSelf      bool      `json:"is_self"`
	CreatedAt   time.Time `json:"created_at"`
}

// SelfServiceID is the service id under which the local account is stored.
const SelfServiceID = "self"

type Thread struct {
	ID            string    `json:"id"`
	RecipientID   string    `json:"recipient_id"`
	Snippet       string    `json:"snippet"`
	LastMessageAt int64     `json:"last_message_at"`
	MessageCount  int       `json:"message_count"`
	Messages      []Message `json:"messages,omitempty"`
}
