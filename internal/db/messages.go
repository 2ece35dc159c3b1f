package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vdavid/chatseed/internal/models"
)

// ErrMessageNotFound is returned when a requested message cannot be found.
var ErrMessageNotFound = models.ErrMessageNotFound

const messageColumns = `
	id,
	thread_id,
	recipient_id,
	author_id,
	direction,
	status,
	body,
	sent_at,
	received_at,
	server_at,
	is_secure,
	quote_id,
	quote_author_id,
	quote_body,
	quote_missing`

// InsertOutgoingMessage stores a message sent by the local account in the
// given thread, together with its attachments in the pending state.
// The message starts out pending; see MarkAsSent.
func InsertOutgoingMessage(ctx context.Context, pool *pgxpool.Pool, message *models.Message, threadID string) (string, error) {
	message.Direction = models.DirectionOutgoing
	message.Status = models.MessageStatusPending
	return insertMessage(ctx, pool, message, threadID)
}

// InsertIncomingMessage stores a received and decrypted message in the
// given thread, together with its attachments in the pending state.
func InsertIncomingMessage(ctx context.Context, pool *pgxpool.Pool, message *models.Message, threadID string) (string, error) {
	message.Direction = models.DirectionIncoming
	message.Status = models.MessageStatusReceived
	return insertMessage(ctx, pool, message, threadID)
}

func insertMessage(ctx context.Context, pool *pgxpool.Pool, message *models.Message, threadID string) (string, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var quoteID *int64
	var quoteAuthorID, quoteBody *string
	quoteMissing := false
	if message.Quote != nil {
		quoteID = &message.Quote.ID
		quoteAuthorID = nullableID(message.Quote.AuthorID)
		quoteBody = &message.Quote.Body
		quoteMissing = message.Quote.Missing
	}

	var id string
	err = tx.QueryRow(ctx, `
		INSERT INTO messages (
			thread_id,
			recipient_id,
			author_id,
			direction,
			status,
			body,
			sent_at,
			received_at,
			server_at,
			is_secure,
			quote_id,
			quote_author_id,
			quote_body,
			quote_missing
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`,
		threadID,
		message.RecipientID,
		nullableID(message.AuthorID),
		message.Direction,
		message.Status,
		message.Body,
		message.SentAt,
		message.ReceivedAt,
		message.ServerAt,
		message.IsSecure,
		quoteID,
		quoteAuthorID,
		quoteBody,
		quoteMissing,
	).Scan(&id)

	if isForeignKeyViolation(err) {
		return "", fmt.Errorf("%w: %s", ErrThreadNotFound, threadID)
	}

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

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("failed to commit message: %w", err)
	}

	message.ID = id
	message.ThreadID = threadID
	return id, nil
}

// MarkAsSent moves an outgoing message to the sent status.
func MarkAsSent(ctx context.Context, pool *pgxpool.Pool, messageID string) error {
	tag, err := pool.Exec(ctx, `
		UPDATE messages
		SET status = 'sent'
		WHERE id = $1 AND direction = 'outgoing'
	`, messageID)

	if err != nil {
		return fmt.Errorf("failed to mark message as sent: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: outgoing message %s", ErrMessageNotFound, messageID)
	}

	return nil
}

// SetMessageReceived overwrites the received timestamp of a message and
// refreshes the activity time of its thread.
func SetMessageReceived(ctx context.Context, pool *pgxpool.Pool, messageID string, timestamp int64) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var threadID string
	err = tx.QueryRow(ctx, `
		UPDATE messages
		SET received_at = $2
		WHERE id = $1
		RETURNING thread_id
	`, messageID, timestamp).Scan(&threadID)

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrMessageNotFound, messageID)
	}

	if err != nil {
		return fmt.Errorf("failed to set received timestamp: %w", err)
	}

	if err := refreshThreadActivity(ctx, tx, threadID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit received timestamp: %w", err)
	}

	return nil
}

// GetMessageByID returns a message with its attachments.
func GetMessageByID(ctx context.Context, pool *pgxpool.Pool, messageID string) (*models.Message, error) {
	msg, err := scanMessage(pool.QueryRow(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE id = $1
	`, messageID))

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrMessageNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}

	attachments, err := GetAttachmentsForMessage(ctx, pool, msg.ID)
	if err != nil {
		return nil, err
	}
	for _, attachment := range attachments {
		msg.Attachments = append(msg.Attachments, *attachment)
	}

	return msg, nil
}

// GetMessagesForThread returns all messages of a thread in received order.
// Attachments are not loaded.
func GetMessagesForThread(ctx context.Context, pool *pgxpool.Pool, threadID string) ([]*models.Message, error) {
	rows, err := pool.Query(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE thread_id = $1
		ORDER BY received_at, sent_at
	`, threadID)

	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}

	return messages, nil
}

// FindQuotedMessage resolves a quote back to the message it points at.
// Quotes only refer to messages of the same thread.
func FindQuotedMessage(ctx context.Context, pool *pgxpool.Pool, threadID string, quote models.Quote) (*models.Message, error) {
	msg, err := scanMessage(pool.QueryRow(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE thread_id = $1 AND sent_at = $2 AND author_id = $3
		ORDER BY received_at
		LIMIT 1
	`, threadID, quote.ID, quote.AuthorID))

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrMessageNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to find quoted message: %w", err)
	}

	return msg, nil
}

func scanMessage(row pgx.Row) (*models.Message, error) {
	var (
		msg           models.Message
		authorID      *string
		quoteID       *int64
		quoteAuthorID *string
		quoteBody     *string
		quoteMissing  bool
	)

	if err := row.Scan(
		&msg.ID,
		&msg.ThreadID,
		&msg.RecipientID,
		&authorID,
		&msg.Direction,
		&msg.Status,
		&msg.Body,
		&msg.SentAt,
		&msg.ReceivedAt,
		&msg.ServerAt,
		&msg.IsSecure,
		&quoteID,
		&quoteAuthorID,
		&quoteBody,
		&quoteMissing,
	); err != nil {
		return nil, err
	}

	if authorID != nil {
		msg.AuthorID = *authorID
	}

	if quoteID != nil {
		msg.Quote = &models.Quote{ID: *quoteID, Missing: quoteMissing}
		if quoteAuthorID != nil {
			msg.Quote.AuthorID = *quoteAuthorID
		}
		if quoteBody != nil {
			msg.Quote.Body = *quoteBody
		}
	}

	return &msg, nil
}

// nullableID maps an empty id to SQL NULL.
func nullableID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
