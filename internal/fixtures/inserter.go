package fixtures

import (
	"context"
	"errors"
	"fmt"

	"github.com/vdavid/chatseed/internal/models"
)

var (
	// ErrQuoteOnOutgoing is returned when an outgoing draft carries a quote.
	ErrQuoteOnOutgoing = errors.New("quotes are only supported on incoming messages")

	// ErrUnknownDirection is returned for a draft that is neither incoming nor outgoing.
	ErrUnknownDirection = errors.New("unknown message direction")
)

// Inserter persists drafts into a thread of the target recipient.
type Inserter struct {
	store Store
	self  *models.Recipient
}

// NewInserter returns an inserter that writes to store. Outgoing messages
// are authored by self.
func NewInserter(store Store, self *models.Recipient) *Inserter {
	return &Inserter{store: store, self: self}
}

// Insert resolves the recipient's thread and stores the draft in it.
// Outgoing messages are marked sent right away; if the draft carries a
// caller-supplied timestamp, their received time is forced to it.
// Attachments are stored in the pending transfer state.
func (i *Inserter) Insert(ctx context.Context, recipient *models.Recipient, draft *Draft) (string, error) {
	if draft.Direction == models.DirectionOutgoing && draft.Message.Quote != nil {
		return "", ErrQuoteOnOutgoing
	}
	if draft.Direction != models.DirectionOutgoing && draft.Direction != models.DirectionIncoming {
		return "", fmt.Errorf("%w: %q", ErrUnknownDirection, draft.Direction)
	}

	threadID, err := i.store.GetOrCreateThread(ctx, recipient.ID)
	if err != nil {
		return "", fmt.Errorf("failed to get thread for recipient %s: %w", recipient.ID, err)
	}

	message := draft.Message
	message.ThreadID = threadID
	message.RecipientID = recipient.ID
	message.Attachments = make([]models.Attachment, len(draft.Message.Attachments))
	for idx, attachment := range draft.Message.Attachments {
		attachment.TransferState = models.TransferStatePending
		message.Attachments[idx] = attachment
	}

	if draft.Direction == models.DirectionOutgoing {
		return i.insertOutgoing(ctx, &message, threadID, draft.Timestamp)
	}
	return i.insertIncoming(ctx, recipient, &message, threadID)
}

func (i *Inserter) insertOutgoing(ctx context.Context, message *models.Message, threadID string, timestamp *int64) (string, error) {
	if i.self != nil {
		message.AuthorID = i.self.ID
	}
	message.Status = models.MessageStatusPending

	id, err := i.store.InsertOutgoingMessage(ctx, message, threadID)
	if err != nil {
		return "", fmt.Errorf("failed to insert outgoing message: %w", err)
	}

	if timestamp != nil {
		if err := i.store.SetMessageReceived(ctx, id, *timestamp); err != nil {
			return "", fmt.Errorf("failed to set received time of message %s: %w", id, err)
		}
	}

	if err := i.store.MarkAsSent(ctx, id); err != nil {
		return "", fmt.Errorf("failed to mark message %s as sent: %w", id, err)
	}

	return id, nil
}

func (i *Inserter) insertIncoming(ctx context.Context, recipient *models.Recipient, message *models.Message, threadID string) (string, error) {
	message.AuthorID = recipient.ID
	message.Status = models.MessageStatusReceived

	id, err := i.store.InsertIncomingMessage(ctx, message, threadID)
	if err != nil {
		return "", fmt.Errorf("failed to insert incoming message: %w", err)
	}

	return id, nil
}
