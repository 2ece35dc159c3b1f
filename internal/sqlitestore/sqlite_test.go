package sqlitestore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vdavid/chatseed/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func newTestThread(t *testing.T, s *Store, serviceID string) (*models.Recipient, string) {
	t.Helper()

	recipient, err := s.GetOrCreateRecipient(context.Background(), serviceID, "Test "+serviceID)
	require.NoError(t, err)
	threadID, err := s.GetOrCreateThread(context.Background(), recipient.ID)
	require.NoError(t, err)
	return recipient, threadID
}

func TestNewReopensExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chatseed.db")

	first, err := New(path)
	require.NoError(t, err)
	_, err = first.GetOrCreateRecipient(context.Background(), "alice", "Alice")
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := New(path)
	require.NoError(t, err)
	defer second.Close()

	recipient, err := second.GetOrCreateRecipient(context.Background(), "alice", "")
	require.NoError(t, err)
	assert.Equal(t, "Alice", recipient.DisplayName)
}

func TestGetOrCreateRecipient(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.GetOrCreateRecipient(ctx, "bob", "Bob")
	require.NoError(t, err)
	second, err := s.GetOrCreateRecipient(ctx, "bob", "Bob")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.False(t, first.IsSelf)

	self, err := s.GetOrCreateSelf(ctx)
	require.NoError(t, err)
	assert.True(t, self.IsSelf)
	assert.Equal(t, models.SelfServiceID, self.ServiceID)

	byID, err := s.GetRecipientByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", byID.ServiceID)

	_, err = s.GetRecipientByID(ctx, "missing")
	assert.True(t, errors.Is(err, models.ErrRecipientNotFound))
}

func TestGetOrCreateThread(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	recipient, threadID := newTestThread(t, s, "carol")

	again, err := s.GetOrCreateThread(ctx, recipient.ID)
	require.NoError(t, err)
	assert.Equal(t, threadID, again)

	thread, err := s.GetThreadForRecipient(ctx, recipient.ID)
	require.NoError(t, err)
	assert.Equal(t, threadID, thread.ID)
	assert.Equal(t, 0, thread.MessageCount)

	_, err = s.GetOrCreateThread(ctx, "missing")
	assert.True(t, errors.Is(err, models.ErrRecipientNotFound))

	_, err = s.GetThreadByID(ctx, "missing")
	assert.True(t, errors.Is(err, models.ErrThreadNotFound))
}

func TestOutgoingMessageLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, threadID := newTestThread(t, s, "dave")

	self, err := s.GetOrCreateSelf(ctx)
	require.NoError(t, err)

	body := "hello"
	message := &models.Message{
		AuthorID:   self.ID,
		Body:       &body,
		SentAt:     1000,
		ReceivedAt: 2000,
		IsSecure:   true,
	}
	id, err := s.InsertOutgoingMessage(ctx, message, threadID)
	require.NoError(t, err)

	stored, err := s.GetMessageByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.MessageStatusPending, stored.Status)
	assert.Equal(t, models.DirectionOutgoing, stored.Direction)

	require.NoError(t, s.SetMessageReceived(ctx, id, 1000))
	require.NoError(t, s.MarkAsSent(ctx, id))

	stored, err = s.GetMessageByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.MessageStatusSent, stored.Status)
	assert.Equal(t, int64(1000), stored.ReceivedAt)
	assert.Equal(t, "hello", stored.BodyText())
	assert.True(t, stored.IsSecure)

	thread, err := s.GetThreadByID(ctx, threadID)
	require.NoError(t, err)
	assert.Equal(t, 1, thread.MessageCount)
	assert.Equal(t, int64(1000), thread.LastMessageAt)
	assert.Equal(t, "hello", thread.Snippet)

	t.Run("incoming messages cannot be marked sent", func(t *testing.T) {
		incoming, err := s.InsertIncomingMessage(ctx, &models.Message{SentAt: 3000, ReceivedAt: 3000}, threadID)
		require.NoError(t, err)
		assert.True(t, errors.Is(s.MarkAsSent(ctx, incoming), models.ErrMessageNotFound))
	})

	t.Run("unknown ids are reported", func(t *testing.T) {
		assert.True(t, errors.Is(s.SetMessageReceived(ctx, "missing", 1), models.ErrMessageNotFound))
		_, err := s.GetMessageByID(ctx, "missing")
		assert.True(t, errors.Is(err, models.ErrMessageNotFound))
		_, err = s.InsertIncomingMessage(ctx, &models.Message{}, "missing")
		assert.True(t, errors.Is(err, models.ErrThreadNotFound))
	})
}

func TestBackdatedOutgoingKeepsNewestSnippet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	recipient, threadID := newTestThread(t, s, "bea")

	self, err := s.GetOrCreateSelf(ctx)
	require.NoError(t, err)

	latest := "latest"
	_, err = s.InsertIncomingMessage(ctx, &models.Message{
		AuthorID:   recipient.ID,
		Body:       &latest,
		SentAt:     2000,
		ReceivedAt: 2000,
	}, threadID)
	require.NoError(t, err)

	older := "older"
	id, err := s.InsertOutgoingMessage(ctx, &models.Message{
		AuthorID:   self.ID,
		Body:       &older,
		SentAt:     1000,
		ReceivedAt: 9000,
	}, threadID)
	require.NoError(t, err)

	thread, err := s.GetThreadByID(ctx, threadID)
	require.NoError(t, err)
	assert.Equal(t, "older", thread.Snippet)

	require.NoError(t, s.SetMessageReceived(ctx, id, 1000))

	thread, err = s.GetThreadByID(ctx, threadID)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), thread.LastMessageAt)
	assert.Equal(t, "latest", thread.Snippet)
	assert.Equal(t, 2, thread.MessageCount)
}

func TestMessagesForThreadOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, threadID := newTestThread(t, s, "erin")

	for _, ts := range []int64{3000, 1000, 2000} {
		_, err := s.InsertIncomingMessage(ctx, &models.Message{SentAt: ts, ReceivedAt: ts, ServerAt: ts}, threadID)
		require.NoError(t, err)
	}

	messages, err := s.GetMessagesForThread(ctx, threadID)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, int64(1000), messages[0].ReceivedAt)
	assert.Equal(t, int64(2000), messages[1].ReceivedAt)
	assert.Equal(t, int64(3000), messages[2].ReceivedAt)
}

func TestAttachmentTransferState(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, threadID := newTestThread(t, s, "frank")

	message := &models.Message{
		SentAt: 1000,
		Attachments: []models.Attachment{
			{ContentType: "image/webp", FileName: "/not-there.jpg", Width: 1024, Height: 1024, DisplayOrder: 0},
			{ContentType: "image/webp", FileName: "/not-there.jpg", Width: 1024, Height: 1024, DisplayOrder: 1},
		},
	}
	id, err := s.InsertIncomingMessage(ctx, message, threadID)
	require.NoError(t, err)

	attachments, err := s.GetAttachmentsForMessage(ctx, id)
	require.NoError(t, err)
	require.Len(t, attachments, 2)
	for i, attachment := range attachments {
		assert.Equal(t, id, attachment.MessageID)
		assert.Equal(t, models.TransferStatePending, attachment.TransferState)
		assert.Equal(t, i, attachment.DisplayOrder)
	}

	first := attachments[0]
	require.NoError(t, s.SetAttachmentTransferState(ctx, first.ID, id, models.TransferStateFailed))

	err = s.SetAttachmentTransferState(ctx, first.ID, id, models.TransferStateDone)
	assert.True(t, errors.Is(err, models.ErrTransferStateFinal))

	err = s.SetAttachmentTransferState(ctx, first.ID, "other-message", models.TransferStateDone)
	assert.True(t, errors.Is(err, models.ErrAttachmentNotFound))

	err = s.SetAttachmentTransferState(ctx, attachments[1].ID, id, models.TransferStatePending)
	assert.Error(t, err)

	attachments, err = s.GetAttachmentsForMessage(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.TransferStateFailed, attachments[0].TransferState)
	assert.Equal(t, models.TransferStatePending, attachments[1].TransferState)

	t.Run("a message without attachments lists none", func(t *testing.T) {
		textID, err := s.InsertIncomingMessage(ctx, &models.Message{SentAt: 2000}, threadID)
		require.NoError(t, err)

		attachments, err := s.GetAttachmentsForMessage(ctx, textID)
		require.NoError(t, err)
		assert.Empty(t, attachments)
	})

	t.Run("an unknown message is reported", func(t *testing.T) {
		_, err := s.GetAttachmentsForMessage(ctx, "missing")
		assert.True(t, errors.Is(err, models.ErrMessageNotFound))
	})
}

func TestFindQuotedMessage(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	recipient, threadID := newTestThread(t, s, "grace")

	body := "original"
	id, err := s.InsertIncomingMessage(ctx, &models.Message{
		AuthorID: recipient.ID,
		Body:     &body,
		SentAt:   4242,
	}, threadID)
	require.NoError(t, err)

	replyBody := "reply"
	replyID, err := s.InsertIncomingMessage(ctx, &models.Message{
		AuthorID: recipient.ID,
		Body:     &replyBody,
		SentAt:   5000,
		Quote:    &models.Quote{ID: 4242, AuthorID: recipient.ID, Body: body},
	}, threadID)
	require.NoError(t, err)

	reply, err := s.GetMessageByID(ctx, replyID)
	require.NoError(t, err)
	require.NotNil(t, reply.Quote)

	quoted, err := s.FindQuotedMessage(ctx, threadID, *reply.Quote)
	require.NoError(t, err)
	assert.Equal(t, id, quoted.ID)

	_, err = s.FindQuotedMessage(ctx, threadID, models.Quote{ID: 1, AuthorID: recipient.ID})
	assert.True(t, errors.Is(err, models.ErrMessageNotFound))

	t.Run("a message with the same timestamp in another thread is not matched", func(t *testing.T) {
		_, otherThreadID := newTestThread(t, s, "grace-twin")
		twinID, err := s.InsertIncomingMessage(ctx, &models.Message{
			AuthorID:   recipient.ID,
			Body:       &body,
			SentAt:     4242,
			ReceivedAt: 1,
		}, otherThreadID)
		require.NoError(t, err)

		quoted, err := s.FindQuotedMessage(ctx, threadID, *reply.Quote)
		require.NoError(t, err)
		assert.Equal(t, id, quoted.ID)

		twin, err := s.FindQuotedMessage(ctx, otherThreadID, *reply.Quote)
		require.NoError(t, err)
		assert.Equal(t, twinID, twin.ID)
	})
}

func TestGetThreads(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i, serviceID := range []string{"a", "b", "c"} {
		_, threadID := newTestThread(t, s, serviceID)
		ts := int64(1000 * (i + 1))
		_, err := s.InsertIncomingMessage(ctx, &models.Message{SentAt: ts, ReceivedAt: ts}, threadID)
		require.NoError(t, err)
	}

	count, err := s.CountThreads(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	threads, err := s.GetThreads(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, threads, 2)
	assert.Equal(t, int64(3000), threads[0].LastMessageAt)
	assert.Equal(t, int64(2000), threads[1].LastMessageAt)

	rest, err := s.GetThreads(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
}
