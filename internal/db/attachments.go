package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vdavid/chatseed/internal/models"
)

var (
	// ErrAttachmentNotFound is returned when no attachment matches the id and message id.
	ErrAttachmentNotFound = models.ErrAttachmentNotFound

	// ErrTransferStateFinal is returned when an attachment already left the pending state.
	ErrTransferStateFinal = models.ErrTransferStateFinal

	// ErrInvalidTransferState is returned for a transition target other than done or failed.
	ErrInvalidTransferState = errors.New("invalid transfer state")
)

const attachmentColumns = `
	id,
	message_id,
	content_type,
	remote_id,
	cdn_number,
	width,
	height,
	size_bytes,
	file_name,
	voice_note,
	borderless,
	gif,
	upload_timestamp,
	transfer_state,
	display_order`

func insertAttachment(ctx context.Context, tx pgx.Tx, attachment *models.Attachment) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO attachments (
			message_id,
			content_type,
			remote_id,
			cdn_number,
			width,
			height,
			size_bytes,
			file_name,
			voice_note,
			borderless,
			gif,
			upload_timestamp,
			transfer_state,
			display_order
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`,
		attachment.MessageID,
		attachment.ContentType,
		attachment.RemoteID,
		attachment.CDNNumber,
		attachment.Width,
		attachment.Height,
		attachment.SizeBytes,
		attachment.FileName,
		attachment.VoiceNote,
		attachment.Borderless,
		attachment.Gif,
		attachment.UploadTimestamp,
		attachment.TransferState,
		attachment.DisplayOrder,
	).Scan(&attachment.ID)

	if err != nil {
		return fmt.Errorf("failed to save attachment: %w", err)
	}

	return nil
}

// GetAttachmentsForMessage returns all attachments of a message in display order.
// It returns ErrMessageNotFound when the message does not exist.
func GetAttachmentsForMessage(ctx context.Context, pool *pgxpool.Pool, messageID string) ([]*models.Attachment, error) {
	rows, err := pool.Query(ctx, `
		SELECT `+attachmentColumns+`
		FROM attachments
		WHERE message_id = $1
		ORDER BY display_order
	`, messageID)

	if err != nil {
		return nil, fmt.Errorf("failed to get attachments: %w", err)
	}
	defer rows.Close()

	var attachments []*models.Attachment
	for rows.Next() {
		var att models.Attachment
		if err := rows.Scan(
			&att.ID,
			&att.MessageID,
			&att.ContentType,
			&att.RemoteID,
			&att.CDNNumber,
			&att.Width,
			&att.Height,
			&att.SizeBytes,
			&att.FileName,
			&att.VoiceNote,
			&att.Borderless,
			&att.Gif,
			&att.UploadTimestamp,
			&att.TransferState,
			&att.DisplayOrder,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		attachments = append(attachments, &att)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attachments: %w", err)
	}

	if len(attachments) == 0 {
		exists, err := messageExists(ctx, pool, messageID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("%w: %s", ErrMessageNotFound, messageID)
		}
	}

	return attachments, nil
}

// SetAttachmentTransferState moves a pending attachment of the given message
// to a terminal transfer state. The update is a single conditional statement,
// so concurrent callers cannot both succeed.
func SetAttachmentTransferState(ctx context.Context, pool *pgxpool.Pool, attachmentID, messageID string, state models.TransferState) error {
	if !state.IsFinal() {
		return fmt.Errorf("%w: %q", ErrInvalidTransferState, state)
	}

	tag, err := pool.Exec(ctx, `
		UPDATE attachments
		SET transfer_state = $3, updated_at = now()
		WHERE id = $1 AND message_id = $2 AND transfer_state = 'pending'
	`, attachmentID, messageID, state)

	if err != nil {
		return fmt.Errorf("failed to set transfer state: %w", err)
	}

	if tag.RowsAffected() == 1 {
		return nil
	}

	var current models.TransferState
	err = pool.QueryRow(ctx, `
		SELECT transfer_state
		FROM attachments
		WHERE id = $1 AND message_id = $2
	`, attachmentID, messageID).Scan(&current)

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: attachment %s of message %s", ErrAttachmentNotFound, attachmentID, messageID)
	}

	if err != nil {
		return fmt.Errorf("failed to get transfer state: %w", err)
	}

	return fmt.Errorf("%w: attachment %s is %s", ErrTransferStateFinal, attachmentID, current)
}

func messageExists(ctx context.Context, pool *pgxpool.Pool, messageID string) (bool, error) {
	var exists bool
	err := pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM messages WHERE id = $1)
	`, messageID).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("failed to check message: %w", err)
	}

	return exists, nil
}
