package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vdavid/chatseed/internal/models"
)

const messageColumns = `
	id, thread_id, recipient_id, author_id, direction, status, body,
	sent_at, received_at, server_at, is_secure,
	quote_id, quote_author_id, quote_body, quote_missing`

type messageRow struct {
	ID            string               `db:"id"`
	ThreadID      string               `db:"thread_id"`
	RecipientID   string               `db:"recipient_id"`
	AuthorID      sql.NullString       `db:"author_id"`
	Direction     models.Direction     `db:"direction"`
	Status        models.MessageStatus `db:"status"`
	Body          sql.NullString       `db:"body"`
	SentAt        int64                `db:"sent_at"`
	ReceivedAt    int64                `db:"received_at"`
	ServerAt      int64                `db:"server_at"`
	IsSecure      bool                 `db:"is_secure"`
	QuoteID       sql.NullInt64        `db:"quote_id"`
	QuoteAuthorID sql.NullString       `db:"quote_author_id"`
	QuoteBody     sql.NullString       `db:"quote_body"`
	QuoteMissing  bool                 `db:"quote_missing"`
}

func (r messageRow) toModel() *models.Message {
	msg := &models.Message{
		ID:          r.ID,
		ThreadID:    r.ThreadID,
		RecipientID: r.RecipientID,
		AuthorID:    r.AuthorID.String,
		Direction:   r.Direction,
		Status:      r.Status,
		SentAt:      r.SentAt,
		ReceivedAt:  r.ReceivedAt,
		ServerAt:    r.ServerAt,
		IsSecure:    r.IsSecure,
	}
	if r.Body.Valid {
		body := r.Body.String
		msg.Body = &body
	}
	if r.QuoteID.Valid {
		msg.Quote = &models.Quote{
			ID:       r.QuoteID.Int64,
			AuthorID: r.QuoteAuthorID.String,
			Body:     r.QuoteBody.String,
			Missing:  r.QuoteMissing,
		}
	}
	return msg
}

// InsertOutgoingMessage stores a pending outgoing message and its attachments.
func (s *Store) InsertOutgoingMessage(ctx context.Context, message *models.Message, threadID string) (string, error) {
	message.Direction = models.DirectionOutgoing
	message.Status = models.MessageStatusPending
	return s.insertMessage(ctx, message, threadID)
}

// InsertIncomingMessage stores a received message and its attachments.
func (s *Store) InsertIncomingMessage(ctx context.Context, message *models.Message, threadID string) (string, error) {
	message.Direction = models.DirectionIncoming
	message.Status = models.MessageStatusReceived
	return s.insertMessage(ctx, message, threadID)
}

func (s *Store) insertMessage(ctx context.Context, message *models.Message, threadID string) (string, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.GetContext(ctx, &exists,
		"SELECT EXISTS (SELECT 1 FROM threads WHERE id = ?)", threadID); err != nil {
		return "", fmt.Errorf("failed to check thread: %w", err)
	}
	if !exists {
		return "", fmt.Errorf("%w: %s", models.ErrThreadNotFound, threadID)
	}

	var (
		quoteID       sql.NullInt64
		quoteAuthorID sql.NullString
		quoteBody     sql.NullString
		quoteMissing  bool
	)
	if q := message.Quote; q != nil {
		quoteID = sql.NullInt64{Int64: q.ID, Valid: true}
		quoteAuthorID = nullString(q.AuthorID)
		quoteBody = sql.NullString{String: q.Body, Valid: true}
		quoteMissing = q.Missing
	}

	var body sql.NullString
	if message.Body != nil {
		body = sql.NullString{String: *message.Body, Valid: true}
	}

	id := uuid.New().String()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO messages (
			id, thread_id, recipient_id, author_id, direction, status, body,
			sent_at, received_at, server_at, is_secure,
			quote_id, quote_author_id, quote_body, quote_missing
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, threadID, message.RecipientID, nullString(message.AuthorID),
		string(message.Direction), string(message.Status), body,
		message.SentAt, message.ReceivedAt, message.ServerAt, boolToInt(message.IsSecure),
		quoteID, quoteAuthorID, quoteBody, boolToInt(quoteMissing),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert message: %w", err)
	}

	for i := range message.Attachments {
		attachment := &message.Attachments[i]
		attachment.MessageID = id
		attachment.TransferState = models.TransferStatePending
		if err := insertAttachment(ctx, tx, attachment); err != nil {
			return "", err
		}
	}

	if err := touchThread(ctx, tx, threadID, message.BodyText(), message.ReceivedAt); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit message: %w", err)
	}

	message.ID = id
	message.ThreadID = threadID
	return id, nil
}

// MarkAsSent moves an outgoing message to the sent status.
func (s *Store) MarkAsSent(ctx context.Context, messageID string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE messages SET status = 'sent' WHERE id = ? AND direction = 'outgoing'", messageID)
	if err != nil {
		return fmt.Errorf("failed to mark message as sent: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check sent update: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: outgoing message %s", models.ErrMessageNotFound, messageID)
	}
	return nil
}

// SetMessageReceived overwrites the received timestamp of a message and
// refreshes the activity time of its thread.
func (s *Store) SetMessageReceived(ctx context.Context, messageID string, timestamp int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var threadID string
	err = tx.GetContext(ctx, &threadID, "SELECT thread_id FROM messages WHERE id = ?", messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", models.ErrMessageNotFound, messageID)
	}
	if err != nil {
		return fmt.Errorf("failed to get message: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE messages SET received_at = ? WHERE id = ?", timestamp, messageID); err != nil {
		return fmt.Errorf("failed to set received timestamp: %w", err)
	}

	if err := refreshThreadActivity(ctx, tx, threadID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit received timestamp: %w", err)
	}
	return nil
}

// GetMessageByID returns a message with its attachments.
func (s *Store) GetMessageByID(ctx context.Context, messageID string) (*models.Message, error) {
	var row messageRow
	err := s.db.GetContext(ctx, &row,
		"SELECT "+messageColumns+" FROM messages WHERE id = ?", messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrMessageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}

	msg := row.toModel()
	attachments, err := s.GetAttachmentsForMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	for _, attachment := range attachments {
		msg.Attachments = append(msg.Attachments, *attachment)
	}

	return msg, nil
}

// GetMessagesForThread returns all messages of a thread in received order,
// without attachments.
func (s *Store) GetMessagesForThread(ctx context.Context, threadID string) ([]*models.Message, error) {
	var rows []messageRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT "+messageColumns+" FROM messages WHERE thread_id = ? ORDER BY received_at, sent_at", threadID)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}

	messages := make([]*models.Message, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, row.toModel())
	}
	return messages, nil
}

// FindQuotedMessage resolves a quote back to the message it points at.
// Quotes only refer to messages of the same thread.
func (s *Store) FindQuotedMessage(ctx context.Context, threadID string, quote models.Quote) (*models.Message, error) {
	var row messageRow
	err := s.db.GetContext(ctx, &row,
		"SELECT "+messageColumns+" FROM messages WHERE thread_id = ? AND sent_at = ? AND author_id = ? ORDER BY received_at LIMIT 1",
		threadID, quote.ID, quote.AuthorID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrMessageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find quoted message: %w", err)
	}
	return row.toModel(), nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
