// Package api serves a read-only JSON view of a seeded store, so fixtures can
// be inspected without a database client.
package api

import (
	"context"

	"github.com/vdavid/chatseed/internal/models"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// Reader is the read side of a store. Both the Postgres and the SQLite store implement it.
type Reader interface {
	GetThreads(ctx context.Context, limit, offset int) ([]*models.Thread, error)
	CountThreads(ctx context.Context) (int, error)
	GetThreadByID(ctx context.Context, threadID string) (*models.Thread, error)
	GetMessagesForThread(ctx context.Context, threadID string) ([]*models.Message, error)
	GetAttachmentsForMessage(ctx context.Context, messageID string) ([]*models.Attachment, error)
}
