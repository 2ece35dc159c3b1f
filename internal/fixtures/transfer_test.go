package fixtures

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/vdavid/chatseed/internal/models"
)

func pendingAttachments(messageID string, count int) []*models.Attachment {
	attachments := make([]*models.Attachment, 0, count)
	for i := 0; i < count; i++ {
		attachments = append(attachments, &models.Attachment{
			ID:            string(rune('a' + i)),
			MessageID:     messageID,
			TransferState: models.TransferStatePending,
		})
	}
	return attachments
}

func TestDriverApply(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		disposition Disposition
		expected    models.TransferState
	}{
		{name: "succeeded marks done", disposition: DispositionSucceeded, expected: models.TransferStateDone},
		{name: "failed marks failed", disposition: DispositionFailed, expected: models.TransferStateFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(mockStore)
			store.On("GetAttachmentsForMessage", mock.Anything, "msg").Return(pendingAttachments("msg", 3), nil)
			store.On("SetAttachmentTransferState", mock.Anything, mock.Anything, "msg", tt.expected).Return(nil)

			err := NewDriver(store).Apply(ctx, "msg", tt.disposition)

			assert.NoError(t, err)
			store.AssertNumberOfCalls(t, "SetAttachmentTransferState", 3)
			store.AssertExpectations(t)
		})
	}
}

func TestDriverNoAttachments(t *testing.T) {
	store := new(mockStore)
	store.On("GetAttachmentsForMessage", mock.Anything, "msg").Return([]*models.Attachment{}, nil)

	err := NewDriver(store).MarkFailed(context.Background(), "msg")

	assert.NoError(t, err)
	store.AssertNotCalled(t, "SetAttachmentTransferState", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDriverAlreadyApplied(t *testing.T) {
	store := new(mockStore)
	attachments := pendingAttachments("msg", 2)
	attachments[1].TransferState = models.TransferStateDone
	store.On("GetAttachmentsForMessage", mock.Anything, "msg").Return(attachments, nil)

	err := NewDriver(store).MarkTransferred(context.Background(), "msg")

	assert.True(t, errors.Is(err, ErrTransferAlreadyApplied))
	store.AssertNotCalled(t, "SetAttachmentTransferState", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDriverStoreRejectsSecondTransition(t *testing.T) {
	store := new(mockStore)
	store.On("GetAttachmentsForMessage", mock.Anything, "msg").Return(pendingAttachments("msg", 1), nil)
	store.On("SetAttachmentTransferState", mock.Anything, "a", "msg", models.TransferStateFailed).
		Return(models.ErrTransferStateFinal)

	err := NewDriver(store).MarkFailed(context.Background(), "msg")

	assert.True(t, errors.Is(err, ErrTransferAlreadyApplied))
	assert.True(t, errors.Is(err, models.ErrTransferStateFinal))
}

func TestDriverPropagatesNotFound(t *testing.T) {
	store := new(mockStore)
	store.On("GetAttachmentsForMessage", mock.Anything, "missing").Return(nil, models.ErrMessageNotFound)

	err := NewDriver(store).MarkTransferred(context.Background(), "missing")

	assert.True(t, errors.Is(err, models.ErrMessageNotFound))
}

func TestDriverOwnerMismatch(t *testing.T) {
	store := new(mockStore)
	store.On("GetAttachmentsForMessage", mock.Anything, "msg").Return(pendingAttachments("other", 1), nil)

	err := NewDriver(store).MarkTransferred(context.Background(), "msg")

	assert.True(t, errors.Is(err, ErrAttachmentOwnerMismatch))
}

func TestDispositionState(t *testing.T) {
	assert.Equal(t, models.TransferStateDone, DispositionSucceeded.State())
	assert.Equal(t, models.TransferStateFailed, DispositionFailed.State())
	assert.Equal(t, "failed", DispositionFailed.String())
}
