package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vdavid/chatseed/internal/models"
)

// ErrThreadNotFound is returned when a requested thread cannot be found.
var ErrThreadNotFound = models.ErrThreadNotFound

// foreignKeyViolation is the Postgres SQLSTATE for a missing referenced row.
const foreignKeyViolation = "23503"

// GetOrCreateThread returns the id of the recipient's thread, creating the
// thread on first use. A recipient never has more than one thread.
func GetOrCreateThread(ctx context.Context, pool *pgxpool.Pool, recipientID string) (string, error) {
	var threadID string

	err := pool.QueryRow(ctx, `
		INSERT INTO threads (recipient_id)
		VALUES ($1)
		ON CONFLICT (recipient_id) DO UPDATE SET recipient_id = EXCLUDED.recipient_id
		RETURNING id
	`, recipientID).Scan(&threadID)

	if isForeignKeyViolation(err) {
		return "", fmt.Errorf("%w: %s", ErrRecipientNotFound, recipientID)
	}

	if err != nil {
		return "", fmt.Errorf("failed to get or create thread: %w", err)
	}

	return threadID, nil
}

// GetThreadByID returns a thread by its database ID.
func GetThreadByID(ctx context.Context, pool *pgxpool.Pool, threadID string) (*models.Thread, error) {
	var thread models.Thread

	err := pool.QueryRow(ctx, `
		SELECT id, recipient_id, snippet, last_message_at, message_count
		FROM threads
		WHERE id = $1
	`, threadID).Scan(
		&thread.ID,
		&thread.RecipientID,
		&thread.Snippet,
		&thread.LastMessageAt,
		&thread.MessageCount,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrThreadNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get thread by ID: %w", err)
	}

	return &thread, nil
}

// GetThreadForRecipient returns the recipient's thread without creating it.
func GetThreadForRecipient(ctx context.Context, pool *pgxpool.Pool, recipientID string) (*models.Thread, error) {
	var thread models.Thread

	err := pool.QueryRow(ctx, `
		SELECT id, recipient_id, snippet, last_message_at, message_count
		FROM threads
		WHERE recipient_id = $1
	`, recipientID).Scan(
		&thread.ID,
		&thread.RecipientID,
		&thread.Snippet,
		&thread.LastMessageAt,
		&thread.MessageCount,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrThreadNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get thread: %w", err)
	}

	return &thread, nil
}

// GetThreads returns all threads, most recently active first.
func GetThreads(ctx context.Context, pool *pgxpool.Pool, limit, offset int) ([]*models.Thread, error) {
	rows, err := pool.Query(ctx, `
		SELECT id, recipient_id, snippet, last_message_at, message_count
		FROM threads
		ORDER BY last_message_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)

	if err != nil {
		return nil, fmt.Errorf("failed to get threads: %w", err)
	}
	defer rows.Close()

	var threads []*models.Thread
	for rows.Next() {
		var thread models.Thread
		if err := rows.Scan(
			&thread.ID,
			&thread.RecipientID,
			&thread.Snippet,
			&thread.LastMessageAt,
			&thread.MessageCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan thread: %w", err)
		}
		threads = append(threads, &thread)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating threads: %w", err)
	}

	return threads, nil
}

// CountThreads returns the number of threads.
func CountThreads(ctx context.Context, pool *pgxpool.Pool) (int, error) {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM threads").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count threads: %w", err)
	}
	return count, nil
}

// touchThread records a newly inserted message on its thread.
func touchThread(ctx context.Context, tx pgx.Tx, threadID, snippet string, receivedAt int64) error {
	tag, err := tx.Exec(ctx, `
		UPDATE threads SET
			snippet = CASE WHEN $3 >= last_message_at THEN $2 ELSE snippet END,
			last_message_at = GREATEST(last_message_at, $3),
			message_count = message_count + 1
		WHERE id = $1
	`, threadID, snippet, receivedAt)

	if err != nil {
		return fmt.Errorf("failed to update thread: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrThreadNotFound
	}

	return nil
}

// refreshThreadActivity recomputes the thread's last activity and snippet
// from its newest message.
func refreshThreadActivity(ctx context.Context, tx pgx.Tx, threadID string) error {
	_, err := tx.Exec(ctx, `
		UPDATE threads SET
			last_message_at = COALESCE((SELECT MAX(received_at) FROM messages WHERE thread_id = $1), 0),
			snippet = COALESCE((
				SELECT COALESCE(body, '') FROM messages
				WHERE thread_id = $1
				ORDER BY received_at DESC, sent_at DESC
				LIMIT 1
			), '')
		WHERE id = $1
	`, threadID)

	if err != nil {
		return fmt.Errorf("failed to refresh thread activity: %w", err)
	}

	return nil
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}
