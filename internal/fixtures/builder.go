package fixtures

import (
	"errors"
	"fmt"

	"github.com/vdavid/chatseed/internal/models"
)

// ErrUnsupportedAttachmentKind is returned for an attachment kind the builder cannot synthesize.
var ErrUnsupportedAttachmentKind = errors.New("unsupported attachment kind")

// AttachmentKind selects the synthetic media an attachment points to.
type AttachmentKind string

const (
	AttachmentKindImage AttachmentKind = "image"
	AttachmentKindVoice AttachmentKind = "voice"
)

// Placeholder media values. The files they name do not exist.
const (
	ImageContentType = "image/webp"
	VoiceContentType = "audio/aac"
	ImageFileName    = "/not-there.jpg"
	VoiceFileName    = "/not-there.aac"

	PlaceholderWidth  = 1024
	PlaceholderHeight = 1024

	// ReleaseChannelCDN is the CDN number of the synthetic pointers.
	ReleaseChannelCDN = 0
)

// Options configures a draft. The zero value means: no body, no
// attachments, timestamp read from the builder's clock, no quote.
type Options struct {
	Body            *string
	AttachmentCount int
	Timestamp       *int64
	Quote           *models.Quote
}

// Draft is a message descriptor ready to be inserted.
type Draft struct {
	Direction models.Direction
	Message   models.Message

	// Timestamp is the caller-supplied timestamp, or nil when the clock was used.
	Timestamp *int64
}

// Builder constructs drafts. It never touches a store.
type Builder struct {
	clock Clock
}

// NewBuilder returns a builder reading "now" from clock. A nil clock means the system clock.
func NewBuilder(clock Clock) *Builder {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Builder{clock: clock}
}

// OutgoingText builds a text-only message sent by the local account.
func (b *Builder) OutgoingText(body string, opts Options) *Draft {
	opts.Body = &body
	opts.AttachmentCount = 0
	return b.outgoing(opts, nil)
}

// OutgoingImage builds an outgoing message with opts.AttachmentCount image attachments.
func (b *Builder) OutgoingImage(opts Options) *Draft {
	return b.outgoing(opts, b.images(opts.AttachmentCount))
}

// IncomingText builds a text-only message received from a peer.
func (b *Builder) IncomingText(body string, opts Options) *Draft {
	opts.Body = &body
	return b.incoming(opts, nil)
}

// IncomingQuote builds an incoming text message that quotes an earlier message.
func (b *Builder) IncomingQuote(body string, quote models.Quote, opts Options) *Draft {
	opts.Body = &body
	opts.Quote = &quote
	return b.incoming(opts, nil)
}

// IncomingImage builds an incoming message with opts.AttachmentCount image attachments.
func (b *Builder) IncomingImage(opts Options) *Draft {
	return b.incoming(opts, b.images(opts.AttachmentCount))
}

// IncomingVoice builds an incoming message with a single voice note.
func (b *Builder) IncomingVoice(opts Options) *Draft {
	voice, _ := NewAttachment(AttachmentKindVoice, b.clock.NowMillis())
	return b.incoming(opts, []models.Attachment{voice})
}

func (b *Builder) outgoing(opts Options, attachments []models.Attachment) *Draft {
	ts := b.resolve(opts.Timestamp)
	return &Draft{
		Direction: models.DirectionOutgoing,
		Timestamp: opts.Timestamp,
		Message: models.Message{
			Direction:   models.DirectionOutgoing,
			Status:      models.MessageStatusPending,
			Body:        opts.Body,
			SentAt:      ts,
			ReceivedAt:  b.clock.NowMillis(),
			IsSecure:    true,
			Quote:       opts.Quote,
			Attachments: attachments,
		},
	}
}

func (b *Builder) incoming(opts Options, attachments []models.Attachment) *Draft {
	ts := b.resolve(opts.Timestamp)
	return &Draft{
		Direction: models.DirectionIncoming,
		Timestamp: opts.Timestamp,
		Message: models.Message{
			Direction:   models.DirectionIncoming,
			Status:      models.MessageStatusReceived,
			Body:        opts.Body,
			SentAt:      ts,
			ReceivedAt:  ts,
			ServerAt:    ts,
			IsSecure:    true,
			Quote:       opts.Quote,
			Attachments: attachments,
		},
	}
}

func (b *Builder) resolve(ts *int64) int64 {
	if ts != nil {
		return *ts
	}
	return b.clock.NowMillis()
}

func (b *Builder) images(count int) []models.Attachment {
	if count <= 0 {
		return nil
	}
	uploadedAt := b.clock.NowMillis()
	attachments := make([]models.Attachment, 0, count)
	for i := 0; i < count; i++ {
		image, _ := NewAttachment(AttachmentKindImage, uploadedAt)
		image.DisplayOrder = i
		attachments = append(attachments, image)
	}
	return attachments
}

// NewAttachment returns a pending attachment pointer of the given kind.
// The pointer has an empty remote id and a local file hint that does not exist.
func NewAttachment(kind AttachmentKind, uploadedAt int64) (models.Attachment, error) {
	attachment := models.Attachment{
		CDNNumber:       ReleaseChannelCDN,
		Width:           PlaceholderWidth,
		Height:          PlaceholderHeight,
		UploadTimestamp: uploadedAt,
		TransferState:   models.TransferStatePending,
	}

	switch kind {
	case AttachmentKindImage:
		attachment.ContentType = ImageContentType
		attachment.FileName = ImageFileName
	case AttachmentKindVoice:
		attachment.ContentType = VoiceContentType
		attachment.FileName = VoiceFileName
		attachment.VoiceNote = true
	default:
		return models.Attachment{}, fmt.Errorf("%w: %q", ErrUnsupportedAttachmentKind, kind)
	}

	return attachment, nil
}

// QuoteOf returns a quote pointing at message. The quoted text defaults to
// the message body when body is empty.
func QuoteOf(message *models.Message, body string) models.Quote {
	if body == "" {
		body = message.BodyText()
	}
	return models.Quote{
		ID:       message.SentAt,
		AuthorID: message.AuthorID,
		Body:     body,
	}
}
