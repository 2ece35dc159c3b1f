package fixtures

import (
	"context"
	"fmt"

	"github.com/vdavid/chatseed/internal/models"
)

// Seeder combines the builder, inserter and driver into one-call helpers.
type Seeder struct {
	clock    Clock
	self     *models.Recipient
	builder  *Builder
	inserter *Inserter
	driver   *Driver
}

// NewSeeder returns a seeder writing to store, authoring outgoing messages as self.
func NewSeeder(store Store, self *models.Recipient, clock Clock) *Seeder {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Seeder{
		clock:    clock,
		self:     self,
		builder:  NewBuilder(clock),
		inserter: NewInserter(store, self),
		driver:   NewDriver(store),
	}
}

// Builder returns the seeder's builder.
func (s *Seeder) Builder() *Builder { return s.builder }

// Driver returns the seeder's transfer-state driver.
func (s *Seeder) Driver() *Driver { return s.driver }

// Insert stores an arbitrary draft for recipient.
func (s *Seeder) Insert(ctx context.Context, recipient *models.Recipient, draft *Draft) (string, error) {
	return s.inserter.Insert(ctx, recipient, draft)
}

// InsertOutgoingText stores a sent text message from the local account.
func (s *Seeder) InsertOutgoingText(ctx context.Context, recipient *models.Recipient, body string, timestamp *int64) (string, error) {
	return s.inserter.Insert(ctx, recipient, s.builder.OutgoingText(body, Options{Timestamp: timestamp}))
}

// InsertOutgoingImage stores an outgoing image message whose attachments all end up done.
func (s *Seeder) InsertOutgoingImage(ctx context.Context, recipient *models.Recipient, body *string, attachmentCount int, timestamp *int64) (string, error) {
	draft := s.builder.OutgoingImage(Options{Body: body, AttachmentCount: attachmentCount, Timestamp: timestamp})
	return s.insertMedia(ctx, recipient, draft, DispositionSucceeded)
}

// InsertIncomingText stores a text message received from recipient.
func (s *Seeder) InsertIncomingText(ctx context.Context, recipient *models.Recipient, body string, timestamp *int64) (string, error) {
	return s.inserter.Insert(ctx, recipient, s.builder.IncomingText(body, Options{Timestamp: timestamp}))
}

// InsertIncomingQuoteText stores a received text message quoting an earlier one.
func (s *Seeder) InsertIncomingQuoteText(ctx context.Context, recipient *models.Recipient, body string, quote models.Quote, timestamp *int64) (string, error) {
	return s.inserter.Insert(ctx, recipient, s.builder.IncomingQuote(body, quote, Options{Timestamp: timestamp}))
}

// InsertIncomingImage stores an incoming image message. Its attachments end
// up failed when failed is set, done otherwise.
func (s *Seeder) InsertIncomingImage(ctx context.Context, recipient *models.Recipient, body *string, attachmentCount int, timestamp *int64, failed bool) (string, error) {
	draft := s.builder.IncomingImage(Options{Body: body, AttachmentCount: attachmentCount, Timestamp: timestamp})
	disposition := DispositionSucceeded
	if failed {
		disposition = DispositionFailed
	}
	return s.insertMedia(ctx, recipient, draft, disposition)
}

// InsertIncomingVoice stores a received voice note whose attachment ends up done.
func (s *Seeder) InsertIncomingVoice(ctx context.Context, recipient *models.Recipient, timestamp *int64) (string, error) {
	return s.insertMedia(ctx, recipient, s.builder.IncomingVoice(Options{Timestamp: timestamp}), DispositionSucceeded)
}

func (s *Seeder) insertMedia(ctx context.Context, recipient *models.Recipient, draft *Draft, disposition Disposition) (string, error) {
	id, err := s.inserter.Insert(ctx, recipient, draft)
	if err != nil {
		return "", err
	}
	if err := s.driver.Apply(ctx, id, disposition); err != nil {
		return "", fmt.Errorf("failed to apply %s transfer to message %s: %w", disposition, id, err)
	}
	return id, nil
}
