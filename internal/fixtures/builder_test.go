package fixtures

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vdavid/chatseed/internal/models"
)

const testNow int64 = 1_700_000_000_000

func TestBuilderImageMessages(t *testing.T) {
	builder := NewBuilder(FixedClock(testNow))

	for _, count := range []int{0, 1, 3, 10} {
		t.Run(fmt.Sprintf("%d attachments", count), func(t *testing.T) {
			for _, draft := range []*Draft{
				builder.IncomingImage(Options{AttachmentCount: count}),
				builder.OutgoingImage(Options{AttachmentCount: count}),
			} {
				require.Len(t, draft.Message.Attachments, count)
				for i, attachment := range draft.Message.Attachments {
					assert.Equal(t, "image/webp", attachment.ContentType)
					assert.Equal(t, 1024, attachment.Width)
					assert.Equal(t, 1024, attachment.Height)
					assert.Equal(t, "/not-there.jpg", attachment.FileName)
					assert.Empty(t, attachment.RemoteID)
					assert.False(t, attachment.VoiceNote)
					assert.Equal(t, models.TransferStatePending, attachment.TransferState)
					assert.Equal(t, i, attachment.DisplayOrder)
					assert.Equal(t, testNow, attachment.UploadTimestamp)
				}
				assert.Nil(t, draft.Message.Body)
			}
		})
	}

	t.Run("negative count yields no attachments", func(t *testing.T) {
		draft := builder.IncomingImage(Options{AttachmentCount: -2})
		assert.Empty(t, draft.Message.Attachments)
	})

	t.Run("keeps an optional body", func(t *testing.T) {
		body := "look"
		draft := builder.OutgoingImage(Options{Body: &body, AttachmentCount: 2})
		require.NotNil(t, draft.Message.Body)
		assert.Equal(t, "look", *draft.Message.Body)
	})
}

func TestBuilderVoiceMessage(t *testing.T) {
	builder := NewBuilder(FixedClock(testNow))

	draft := builder.IncomingVoice(Options{})

	require.Len(t, draft.Message.Attachments, 1)
	voice := draft.Message.Attachments[0]
	assert.Equal(t, "audio/aac", voice.ContentType)
	assert.True(t, voice.VoiceNote)
	assert.Equal(t, "/not-there.aac", voice.FileName)
	assert.Equal(t, models.DirectionIncoming, draft.Direction)
}

func TestBuilderTextMessages(t *testing.T) {
	builder := NewBuilder(FixedClock(testNow))

	t.Run("outgoing text uses the clock when no timestamp is given", func(t *testing.T) {
		draft := builder.OutgoingText("hello", Options{})

		assert.Equal(t, models.DirectionOutgoing, draft.Direction)
		assert.Nil(t, draft.Timestamp)
		assert.Equal(t, "hello", draft.Message.BodyText())
		assert.Equal(t, testNow, draft.Message.SentAt)
		assert.Empty(t, draft.Message.Attachments)
		assert.True(t, draft.Message.IsSecure)
	})

	t.Run("outgoing text ignores an attachment count", func(t *testing.T) {
		draft := builder.OutgoingText("hello", Options{AttachmentCount: 4})
		assert.Empty(t, draft.Message.Attachments)
	})

	t.Run("incoming text copies the timestamp into all three fields", func(t *testing.T) {
		ts := int64(1234)
		draft := builder.IncomingText("hi", Options{Timestamp: &ts})

		assert.Equal(t, &ts, draft.Timestamp)
		assert.Equal(t, ts, draft.Message.SentAt)
		assert.Equal(t, ts, draft.Message.ReceivedAt)
		assert.Equal(t, ts, draft.Message.ServerAt)
		assert.Equal(t, models.MessageStatusReceived, draft.Message.Status)
	})

	t.Run("incoming quote carries the quote", func(t *testing.T) {
		quote := models.Quote{ID: 99, AuthorID: "author", Body: "original"}
		draft := builder.IncomingQuote("reply", quote, Options{})

		require.NotNil(t, draft.Message.Quote)
		assert.Equal(t, quote, *draft.Message.Quote)
		assert.Equal(t, "reply", draft.Message.BodyText())
	})
}

func TestNewAttachment(t *testing.T) {
	t.Run("rejects unsupported kinds", func(t *testing.T) {
		_, err := NewAttachment(AttachmentKind("video"), testNow)
		assert.True(t, errors.Is(err, ErrUnsupportedAttachmentKind))
	})

	t.Run("builds an image pointer", func(t *testing.T) {
		attachment, err := NewAttachment(AttachmentKindImage, testNow)
		require.NoError(t, err)
		assert.Equal(t, ReleaseChannelCDN, attachment.CDNNumber)
		assert.Equal(t, ImageContentType, attachment.ContentType)
	})
}

func TestQuoteOf(t *testing.T) {
	body := "original text"
	message := &models.Message{SentAt: 500, AuthorID: "author-1", Body: &body}

	t.Run("defaults to the message body", func(t *testing.T) {
		quote := QuoteOf(message, "")
		assert.Equal(t, models.Quote{ID: 500, AuthorID: "author-1", Body: "original text"}, quote)
	})

	t.Run("uses an explicit body", func(t *testing.T) {
		quote := QuoteOf(message, "excerpt")
		assert.Equal(t, "excerpt", quote.Body)
	})
}
