package fixtures

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vdavid/chatseed/internal/models"
)

// mockStore is a mock implementation of Store for testing.
type mockStore struct {
	mock.Mock
}

func (m *mockStore) GetOrCreateThread(ctx context.Context, recipientID string) (string, error) {
	args := m.Called(ctx, recipientID)
	return args.String(0), args.Error(1)
}

func (m *mockStore) InsertOutgoingMessage(ctx context.Context, message *models.Message, threadID string) (string, error) {
	args := m.Called(ctx, message, threadID)
	return args.String(0), args.Error(1)
}

func (m *mockStore) MarkAsSent(ctx context.Context, messageID string) error {
	args := m.Called(ctx, messageID)
	return args.Error(0)
}

func (m *mockStore) SetMessageReceived(ctx context.Context, messageID string, timestamp int64) error {
	args := m.Called(ctx, messageID, timestamp)
	return args.Error(0)
}

func (m *mockStore) InsertIncomingMessage(ctx context.Context, message *models.Message, threadID string) (string, error) {
	args := m.Called(ctx, message, threadID)
	return args.String(0), args.Error(1)
}

func (m *mockStore) GetAttachmentsForMessage(ctx context.Context, messageID string) ([]*models.Attachment, error) {
	args := m.Called(ctx, messageID)
	attachments, _ := args.Get(0).([]*models.Attachment)
	return attachments, args.Error(1)
}

func (m *mockStore) SetAttachmentTransferState(ctx context.Context, attachmentID, messageID string, state models.TransferState) error {
	args := m.Called(ctx, attachmentID, messageID, state)
	return args.Error(0)
}
