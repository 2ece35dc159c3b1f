package fixtures

import (
	"context"
	"fmt"

	"github.com/vdavid/chatseed/internal/models"
)

// DefaultConversationMessages is used when ConversationOptions.Messages is zero.
const DefaultConversationMessages = 20

// ConversationOptions shapes a synthesized conversation. The *Every fields
// pick every n-th message (1-based) for a kind; zero disables the kind.
type ConversationOptions struct {
	Messages         int
	ImageEvery       int
	ImagesPerMessage int
	VoiceEvery       int
	QuoteEvery       int
	FailedEvery      int

	// Start seeds the timestamp generator. Nil means the seeder's clock.
	Start *int64
}

func (o ConversationOptions) withDefaults() ConversationOptions {
	if o.Messages <= 0 {
		o.Messages = DefaultConversationMessages
	}
	if o.ImagesPerMessage <= 0 {
		o.ImagesPerMessage = 1
	}
	return o
}

func every(n, position int) bool {
	return n > 0 && position%n == 0
}

// SeedConversation stores an ordered back-and-forth with recipient,
// starting with an incoming message. Voice notes, quotes and failed media
// are only synthesized on incoming turns. It returns the message ids in
// insertion order.
func (s *Seeder) SeedConversation(ctx context.Context, recipient *models.Recipient, opts ConversationOptions) ([]string, error) {
	opts = opts.withDefaults()

	var generator *TimestampGenerator
	if opts.Start != nil {
		generator = NewTimestampGenerator(*opts.Start)
	} else {
		generator = NewTimestampGeneratorFromClock(s.clock)
	}

	ids := make([]string, 0, opts.Messages)
	var previous *models.Message

	for i := 0; i < opts.Messages; i++ {
		position := i + 1
		ts := generator.Next()
		incoming := i%2 == 0
		body := fmt.Sprintf("Message %d", position)

		var (
			draft       *Draft
			disposition *Disposition
		)

		switch {
		case incoming && every(opts.VoiceEvery, position):
			draft = s.builder.IncomingVoice(Options{Timestamp: &ts})
			disposition = dispositionPtr(DispositionSucceeded)
		case every(opts.ImageEvery, position):
			imageOpts := Options{Body: &body, AttachmentCount: opts.ImagesPerMessage, Timestamp: &ts}
			d := DispositionSucceeded
			if incoming {
				draft = s.builder.IncomingImage(imageOpts)
				if every(opts.FailedEvery, position) {
					d = DispositionFailed
				}
			} else {
				draft = s.builder.OutgoingImage(imageOpts)
			}
			disposition = &d
		case incoming && previous != nil && every(opts.QuoteEvery, position):
			draft = s.builder.IncomingQuote(body, QuoteOf(previous, ""), Options{Timestamp: &ts})
		case incoming:
			draft = s.builder.IncomingText(body, Options{Timestamp: &ts})
		default:
			draft = s.builder.OutgoingText(body, Options{Timestamp: &ts})
		}

		id, err := s.inserter.Insert(ctx, recipient, draft)
		if err != nil {
			return ids, fmt.Errorf("failed to insert message %d of conversation: %w", position, err)
		}
		if disposition != nil {
			if err := s.driver.Apply(ctx, id, *disposition); err != nil {
				return ids, fmt.Errorf("failed to apply transfer to message %d of conversation: %w", position, err)
			}
		}
		ids = append(ids, id)

		previous = s.describe(recipient, draft)
	}

	return ids, nil
}

// describe returns what a quote needs to know about an inserted draft.
func (s *Seeder) describe(recipient *models.Recipient, draft *Draft) *models.Message {
	message := draft.Message
	message.AuthorID = recipient.ID
	if draft.Direction == models.DirectionOutgoing && s.self != nil {
		message.AuthorID = s.self.ID
	}
	return &message
}

func dispositionPtr(d Disposition) *Disposition {
	return &d
}
