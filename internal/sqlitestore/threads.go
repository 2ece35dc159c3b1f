package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vdavid/chatseed/internal/models"
)

type threadRow struct {
	ID            string `db:"id"`
	RecipientID   string `db:"recipient_id"`
	Snippet       string `db:"snippet"`
	LastMessageAt int64  `db:"last_message_at"`
	MessageCount  int    `db:"message_count"`
}

func (r threadRow) toModel() *models.Thread {
	return &models.Thread{
		ID:            r.ID,
		RecipientID:   r.RecipientID,
		Snippet:       r.Snippet,
		LastMessageAt: r.LastMessageAt,
		MessageCount:  r.MessageCount,
	}
}

// GetOrCreateThread returns the id of the recipient's thread, creating the
// thread on first use.
func (s *Store) GetOrCreateThread(ctx context.Context, recipientID string) (string, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.GetContext(ctx, &exists,
		"SELECT EXISTS (SELECT 1 FROM recipients WHERE id = ?)", recipientID); err != nil {
		return "", fmt.Errorf("failed to check recipient: %w", err)
	}
	if !exists {
		return "", fmt.Errorf("%w: %s", models.ErrRecipientNotFound, recipientID)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO threads (id, recipient_id)
		VALUES (?, ?)
		ON CONFLICT (recipient_id) DO NOTHING`,
		uuid.New().String(), recipientID,
	); err != nil {
		return "", fmt.Errorf("failed to create thread: %w", err)
	}

	var threadID string
	if err := tx.GetContext(ctx, &threadID,
		"SELECT id FROM threads WHERE recipient_id = ?", recipientID); err != nil {
		return "", fmt.Errorf("failed to get thread: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit thread: %w", err)
	}

	return threadID, nil
}

// GetThreadByID returns a thread by its ID.
func (s *Store) GetThreadByID(ctx context.Context, threadID string) (*models.Thread, error) {
	return s.getThread(ctx, "id", threadID)
}

// GetThreadForRecipient returns the recipient's thread without creating it.
func (s *Store) GetThreadForRecipient(ctx context.Context, recipientID string) (*models.Thread, error) {
	return s.getThread(ctx, "recipient_id", recipientID)
}

func (s *Store) getThread(ctx context.Context, column, value string) (*models.Thread, error) {
	var row threadRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, recipient_id, snippet, last_message_at, message_count
		FROM threads
		WHERE `+column+` = ?`, value)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrThreadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get thread: %w", err)
	}

	return row.toModel(), nil
}

// GetThreads returns all threads, most recently active first.
func (s *Store) GetThreads(ctx context.Context, limit, offset int) ([]*models.Thread, error) {
	var rows []threadRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, recipient_id, snippet, last_message_at, message_count
		FROM threads
		ORDER BY last_message_at DESC
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get threads: %w", err)
	}

	threads := make([]*models.Thread, 0, len(rows))
	for _, row := range rows {
		threads = append(threads, row.toModel())
	}
	return threads, nil
}

// CountThreads returns the number of threads.
func (s *Store) CountThreads(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM threads"); err != nil {
		return 0, fmt.Errorf("failed to count threads: %w", err)
	}
	return count, nil
}

// touchThread records a newly inserted message on its thread.
func touchThread(ctx context.Context, tx *sqlx.Tx, threadID, snippet string, receivedAt int64) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE threads SET
			snippet = CASE WHEN ? >= last_message_at THEN ? ELSE snippet END,
			last_message_at = MAX(last_message_at, ?),
			message_count = message_count + 1
		WHERE id = ?`,
		receivedAt, snippet, receivedAt, threadID,
	)
	if err != nil {
		return fmt.Errorf("failed to update thread: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check thread update: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", models.ErrThreadNotFound, threadID)
	}
	return nil
}

// refreshThreadActivity recomputes the thread's last activity and snippet
// from its newest message.
func refreshThreadActivity(ctx context.Context, tx *sqlx.Tx, threadID string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE threads SET
			last_message_at = COALESCE((SELECT MAX(received_at) FROM messages WHERE thread_id = ?), 0),
			snippet = COALESCE((
				SELECT COALESCE(body, '') FROM messages
				WHERE thread_id = ?
				ORDER BY received_at DESC, sent_at DESC, rowid DESC
				LIMIT 1
			), '')
		WHERE id = ?`,
		threadID, threadID, threadID,
	)
	if err != nil {
		return fmt.Errorf("failed to refresh thread activity: %w", err)
	}
	return nil
}
