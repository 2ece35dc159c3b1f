package fixtures

import (
	"context"
	"errors"
	"fmt"

	"github.com/vdavid/chatseed/internal/models"
)

var (
	// ErrTransferAlreadyApplied is returned when a message's attachments were already driven to a final state.
	ErrTransferAlreadyApplied = errors.New("attachment transfer already applied")

	// ErrAttachmentOwnerMismatch is returned when a listed attachment does not name the message it was listed for.
	ErrAttachmentOwnerMismatch = errors.New("attachment does not belong to message")
)

// Disposition is the simulated outcome of a message's media transfer.
type Disposition int

const (
	DispositionSucceeded Disposition = iota
	DispositionFailed
)

// State returns the terminal transfer state for d.
func (d Disposition) State() models.TransferState {
	if d == DispositionFailed {
		return models.TransferStateFailed
	}
	return models.TransferStateDone
}

func (d Disposition) String() string {
	if d == DispositionFailed {
		return "failed"
	}
	return "succeeded"
}

// Driver forces the attachments of a message into a terminal transfer
// state without going through a media pipeline.
type Driver struct {
	store Store
}

// NewDriver returns a driver writing to store.
func NewDriver(store Store) *Driver {
	return &Driver{store: store}
}

// Apply sets every attachment of the message to the state of d. A message
// without attachments is left alone. Attachments that already left the
// pending state make the whole call fail before anything is written.
func (d *Driver) Apply(ctx context.Context, messageID string, disposition Disposition) error {
	attachments, err := d.store.GetAttachmentsForMessage(ctx, messageID)
	if err != nil {
		return fmt.Errorf("failed to get attachments for message %s: %w", messageID, err)
	}
	if len(attachments) == 0 {
		return nil
	}

	target := disposition.State()
	for _, attachment := range attachments {
		if attachment.MessageID != messageID {
			return fmt.Errorf("%w: attachment %s, message %s", ErrAttachmentOwnerMismatch, attachment.ID, messageID)
		}
		if !attachment.TransferState.CanTransitionTo(target) {
			return fmt.Errorf("%w: attachment %s is %s", ErrTransferAlreadyApplied, attachment.ID, attachment.TransferState)
		}
	}

	for _, attachment := range attachments {
		err := d.store.SetAttachmentTransferState(ctx, attachment.ID, messageID, target)
		if errors.Is(err, models.ErrTransferStateFinal) {
			return fmt.Errorf("%w: %w", ErrTransferAlreadyApplied, err)
		}
		if err != nil {
			return fmt.Errorf("failed to set transfer state of attachment %s: %w", attachment.ID, err)
		}
	}

	return nil
}

// MarkTransferred marks every attachment of the message as done.
func (d *Driver) MarkTransferred(ctx context.Context, messageID string) error {
	return d.Apply(ctx, messageID, DispositionSucceeded)
}

// MarkFailed marks every attachment of the message as permanently failed.
func (d *Driver) MarkFailed(ctx context.Context, messageID string) error {
	return d.Apply(ctx, messageID, DispositionFailed)
}
