package models

import "errors"

// Not-found and state errors shared by every store backend.
var (
	ErrRecipientNotFound  = errors.New("recipient not found")
	ErrThreadNotFound     = errors.New("thread not found")
	ErrMessageNotFound    = errors.New("message not found")
	ErrAttachmentNotFound = errors.New("attachment not found")

	// ErrTransferStateFinal is returned when an attachment already left the pending state.
	ErrTransferStateFinal = errors.New("attachment transfer state is already final")
)
