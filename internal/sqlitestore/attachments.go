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

const attachmentColumns = `
	id, message_id, content_type, remote_id, cdn_number, width, height, size_bytes,
	file_name, voice_note, borderless, gif, upload_timestamp, transfer_state, display_order`

type attachmentRow struct {
	ID              string               `db:"id"`
	MessageID       string               `db:"message_id"`
	ContentType     string               `db:"content_type"`
	RemoteID        string               `db:"remote_id"`
	CDNNumber       int                  `db:"cdn_number"`
	Width           int                  `db:"width"`
	Height          int                  `db:"height"`
	SizeBytes       int64                `db:"size_bytes"`
	FileName        string               `db:"file_name"`
	VoiceNote       bool                 `db:"voice_note"`
	Borderless      bool                 `db:"borderless"`
	Gif             bool                 `db:"gif"`
	UploadTimestamp int64                `db:"upload_timestamp"`
	TransferState   models.TransferState `db:"transfer_state"`
	DisplayOrder    int                  `db:"display_order"`
}

func (r attachmentRow) toModel() *models.Attachment {
	return &models.Attachment{
		ID:              r.ID,
		MessageID:       r.MessageID,
		ContentType:     r.ContentType,
		RemoteID:        r.RemoteID,
		CDNNumber:       r.CDNNumber,
		Width:           r.Width,
		Height:          r.Height,
		SizeBytes:       r.SizeBytes,
		FileName:        r.FileName,
		VoiceNote:       r.VoiceNote,
		Borderless:      r.Borderless,
		Gif:             r.Gif,
		UploadTimestamp: r.UploadTimestamp,
		TransferState:   r.TransferState,
		DisplayOrder:    r.DisplayOrder,
	}
}

func insertAttachment(ctx context.Context, tx *sqlx.Tx, attachment *models.Attachment) error {
	id := uuid.New().String()
	_, err := tx.ExecContext(ctx, `
		INSERT INTO attachments (
			id, message_id, content_type, remote_id, cdn_number, width, height, size_bytes,
			file_name, voice_note, borderless, gif, upload_timestamp, transfer_state, display_order
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, attachment.MessageID, attachment.ContentType, attachment.RemoteID,
		attachment.CDNNumber, attachment.Width, attachment.Height, attachment.SizeBytes,
		attachment.FileName, boolToInt(attachment.VoiceNote), boolToInt(attachment.Borderless),
		boolToInt(attachment.Gif), attachment.UploadTimestamp, string(attachment.TransferState),
		attachment.DisplayOrder,
	)
	if err != nil {
		return fmt.Errorf("failed to save attachment: %w", err)
	}

	attachment.ID = id
	return nil
}

// GetAttachmentsForMessage returns all attachments of a message in display order.
// It returns models.ErrMessageNotFound when the message does not exist.
func (s *Store) GetAttachmentsForMessage(ctx context.Context, messageID string) ([]*models.Attachment, error) {
	var rows []attachmentRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT "+attachmentColumns+" FROM attachments WHERE message_id = ? ORDER BY display_order", messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to get attachments: %w", err)
	}

	if len(rows) == 0 {
		var exists bool
		if err := s.db.GetContext(ctx, &exists,
			"SELECT EXISTS (SELECT 1 FROM messages WHERE id = ?)", messageID); err != nil {
			return nil, fmt.Errorf("failed to check message: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("%w: %s", models.ErrMessageNotFound, messageID)
		}
	}

	attachments := make([]*models.Attachment, 0, len(rows))
	for _, row := range rows {
		attachments = append(attachments, row.toModel())
	}
	return attachments, nil
}

// SetAttachmentTransferState moves a pending attachment of the given message
// to a terminal transfer state.
func (s *Store) SetAttachmentTransferState(ctx context.Context, attachmentID, messageID string, state models.TransferState) error {
	if !state.IsFinal() {
		return fmt.Errorf("invalid transfer state %q", state)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE attachments SET transfer_state = ?
		WHERE id = ? AND message_id = ? AND transfer_state = 'pending'`,
		string(state), attachmentID, messageID,
	)
	if err != nil {
		return fmt.Errorf("failed to set transfer state: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check transfer state update: %w", err)
	}
	if rows == 1 {
		return nil
	}

	var current string
	err = s.db.GetContext(ctx, &current,
		"SELECT transfer_state FROM attachments WHERE id = ? AND message_id = ?", attachmentID, messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: attachment %s of message %s", models.ErrAttachmentNotFound, attachmentID, messageID)
	}
	if err != nil {
		return fmt.Errorf("failed to get transfer state: %w", err)
	}

	return fmt.Errorf("%w: attachment %s is %s", models.ErrTransferStateFinal, attachmentID, current)
}
