package api

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/vdavid/chatseed/internal/fixtures"
	"github.com/vdavid/chatseed/internal/models"
	"github.com/vdavid/chatseed/internal/sqlitestore"
	"github.com/vdavid/chatseed/internal/testutil"
)

// seededStore returns an in-memory store holding one conversation with
// the returned recipient.
func seededStore(t *testing.T, messages int) (*sqlitestore.Store, *models.Recipient) {
	t.Helper()
	ctx := context.Background()

	store := testutil.NewTestSQLiteStore(t)
	self, err := store.GetOrCreateSelf(ctx)
	if err != nil {
		t.Fatalf("Failed to create self: %v", err)
	}
	recipient, err := store.GetOrCreateRecipient(ctx, "alice", "Alice")
	if err != nil {
		t.Fatalf("Failed to create recipient: %v", err)
	}

	start := int64(1_000)
	seeder := fixtures.NewSeeder(store, self, fixtures.FixedClock(1_700_000_000_000))
	if _, err := seeder.SeedConversation(ctx, recipient, fixtures.ConversationOptions{
		Messages:    messages,
		ImageEvery:  2,
		FailedEvery: 3,
		Start:       &start,
	}); err != nil {
		t.Fatalf("Failed to seed conversation: %v", err)
	}

	return store, recipient
}

// mockReader is a mock implementation of Reader for error paths.
type mockReader struct {
	mock.Mock
}

func (m *mockReader) GetThreads(ctx context.Context, limit, offset int) ([]*models.Thread, error) {
	args := m.Called(ctx, limit, offset)
	threads, _ := args.Get(0).([]*models.Thread)
	return threads, args.Error(1)
}

func (m *mockReader) CountThreads(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockReader) GetThreadByID(ctx context.Context, threadID string) (*models.Thread, error) {
	args := m.Called(ctx, threadID)
	thread, _ := args.Get(0).(*models.Thread)
	return thread, args.Error(1)
}

func (m *mockReader) GetMessagesForThread(ctx context.Context, threadID string) ([]*models.Message, error) {
	args := m.Called(ctx, threadID)
	messages, _ := args.Get(0).([]*models.Message)
	return messages, args.Error(1)
}

func (m *mockReader) GetAttachmentsForMessage(ctx context.Context, messageID string) ([]*models.Attachment, error) {
	args := m.Called(ctx, messageID)
	attachments, _ := args.Get(0).([]*models.Attachment)
	return attachments, args.Error(1)
}
