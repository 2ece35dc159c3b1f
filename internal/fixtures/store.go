// Package fixtures synthesizes messages, threads and attachments for tests
// and benchmarks, and forces attachment transfers into a terminal state.
package fixtures

import (
	"context"

	"github.com/vdavid/chatseed/internal/models"
)

// Store is the persistence layer the fixtures write into.
// Not-found conditions are reported with the sentinel errors in models.
type Store interface {
	GetOrCreateThread(ctx context.Context, recipientID string) (string, error)
	InsertOutgoingMessage(ctx context.Context, message *models.Message, threadID string) (string, error)
	MarkAsSent(ctx context.Context, messageID string) error
	SetMessageReceived(ctx context.Context, messageID string, timestamp int64) error
	InsertIncomingMessage(ctx context.Context, message *models.Message, threadID string) (string, error)
	GetAttachmentsForMessage(ctx context.Context, messageID string) ([]*models.Attachment, error)
	SetAttachmentTransferState(ctx context.Context, attachmentID, messageID string, state models.TransferState) error
}
