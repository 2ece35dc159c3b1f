package models

// TransferState is the lifecycle flag of an attachment's media fetch.
type TransferState string

const (
	TransferStatePending TransferState = "pending"
	TransferStateDone    TransferState = "done"
	TransferStateFailed  TransferState = "failed"
)

// IsFinal reports whether the state is terminal.
func (s TransferState) IsFinal() bool {
	return s == TransferStateDone || s == TransferStateFailed
}

// Valid reports whether s is one of the known states.
func (s TransferState) Valid() bool {
	return s == TransferStatePending || s.IsFinal()
}

// CanTransitionTo reports whether an attachment in state s may move to next.
// Only pending attachments move, and only to a terminal state.
func (s TransferState) CanTransitionTo(next TransferState) bool {
	return s == TransferStatePending && next.IsFinal()
}

type Attachment struct {
	ID              string        `json:"id"`
	MessageID       string        `json:"message_id"`
	ContentType     string        `json:"content_type"`
	RemoteID        string        `json:"remote_id"`
	CDNNumber       int           `json:"cdn_number"`
	Width           int           `json:"width"`
	Height          int           `json:"height"`
	SizeBytes       int64         `json:"size_bytes"`
	FileName        string        `json:"file_name"`
	VoiceNote       bool          `json:"voice_note"`
	Borderless      bool          `json:"borderless"`
	Gif             bool          `json:"gif"`
	UploadTimestamp int64         `json:"upload_timestamp"`
	TransferState   TransferState `json:"transfer_state"`
	DisplayOrder    int           `json:"display_order"`
}
