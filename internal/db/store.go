package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vdavid/chatseed/internal/fixtures"
	"github.com/vdavid/chatseed/internal/models"
)

// Store implements fixtures.Store on top of a database pool.
type Store struct {
	pool *pgxpool.Pool
}

var _ fixtures.Store = (*Store)(nil)

// NewStore creates a Store that uses the given database pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) GetOrCreateThread(ctx context.Context, recipientID string) (string, error) {
	return GetOrCreateThread(ctx, s.pool, recipientID)
}

func (s *Store) InsertOutgoingMessage(ctx context.Context, message *models.Message, threadID string) (string, error) {
	return InsertOutgoingMessage(ctx, s.pool, message, threadID)
}

func (s *Store) MarkAsSent(ctx context.Context, messageID string) error {
	return MarkAsSent(ctx, s.pool, messageID)
}

func (s *Store) SetMessageReceived(ctx context.Context, messageID string, timestamp int64) error {
	return SetMessageReceived(ctx, s.pool, messageID, timestamp)
}

func (s *Store) InsertIncomingMessage(ctx context.Context, message *models.Message, threadID string) (string, error) {
	return InsertIncomingMessage(ctx, s.pool, message, threadID)
}

func (s *Store) GetAttachmentsForMessage(ctx context.Context, messageID string) ([]*models.Attachment, error) {
	return GetAttachmentsForMessage(ctx, s.pool, messageID)
}

func (s *Store) SetAttachmentTransferState(ctx context.Context, attachmentID, messageID string, state models.TransferState) error {
	return SetAttachmentTransferState(ctx, s.pool, attachmentID, messageID, state)
}

func (s *Store) GetOrCreateRecipient(ctx context.Context, serviceID, displayName string) (*models.Recipient, error) {
	return GetOrCreateRecipient(ctx, s.pool, serviceID, displayName)
}

func (s *Store) GetOrCreateSelf(ctx context.Context) (*models.Recipient, error) {
	return GetOrCreateSelf(ctx, s.pool)
}

func (s *Store) GetThreadForRecipient(ctx context.Context, recipientID string) (*models.Thread, error) {
	return GetThreadForRecipient(ctx, s.pool, recipientID)
}

// Close closes the underlying pool.
func (s *Store) Close() error {
	CloseConnection(s.pool)
	return nil
}

func (s *Store) GetThreadByID(ctx context.Context, threadID string) (*models.Thread, error) {
	return GetThreadByID(ctx, s.pool, threadID)
}

func (s *Store) GetThreads(ctx context.Context, limit, offset int) ([]*models.Thread, error) {
	return GetThreads(ctx, s.pool, limit, offset)
}

func (s *Store) CountThreads(ctx context.Context) (int, error) {
	return CountThreads(ctx, s.pool)
}

func (s *Store) GetMessagesForThread(ctx context.Context, threadID string) ([]*models.Message, error) {
	return GetMessagesForThread(ctx, s.pool, threadID)
}
