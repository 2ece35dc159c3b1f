package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vdavid/chatseed/internal/models"
)

type recipientRow struct {
	ID          string    `db:"id"`
	ServiceID   string    `db:"service_id"`
	DisplayName string    `db:"display_name"`
	IsSelf      bool      `db:"is_self"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r recipientRow) toModel() *models.Recipient {
	return &models.Recipient{
		ID:          r.ID,
		ServiceID:   r.ServiceID,
		DisplayName: r.DisplayName,
		IsSelf:      r.IsSelf,
		CreatedAt:   r.CreatedAt,
	}
}

// GetOrCreateRecipient returns the recipient with the given service id,
// creating it if needed. A non-empty display name replaces the stored one.
func (s *Store) GetOrCreateRecipient(ctx context.Context, serviceID, displayName string) (*models.Recipient, error) {
	return s.getOrCreateRecipient(ctx, serviceID, displayName, false)
}

// GetOrCreateSelf returns the recipient that represents the local account.
func (s *Store) GetOrCreateSelf(ctx context.Context) (*models.Recipient, error) {
	return s.getOrCreateRecipient(ctx, models.SelfServiceID, "Note to Self", true)
}

func (s *Store) getOrCreateRecipient(ctx context.Context, serviceID, displayName string, isSelf bool) (*models.Recipient, error) {
	var row recipientRow
	err := s.db.GetContext(ctx, &row, `
		INSERT INTO recipients (id, service_id, display_name, is_self, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (service_id) DO UPDATE SET
			display_name = COALESCE(NULLIF(excluded.display_name, ''), recipients.display_name)
		RETURNING id, service_id, display_name, is_self, created_at`,
		uuid.New().String(), serviceID, displayName, boolToInt(isSelf), time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create recipient: %w", err)
	}

	return row.toModel(), nil
}

// GetRecipientByID returns a recipient by its ID.
func (s *Store) GetRecipientByID(ctx context.Context, recipientID string) (*models.Recipient, error) {
	var row recipientRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, service_id, display_name, is_self, created_at
		FROM recipients
		WHERE id = ?`, recipientID)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrRecipientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recipient: %w", err)
	}

	return row.toModel(), nil
}
