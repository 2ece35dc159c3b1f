package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vdavid/chatseed/internal/models"
)

// ErrRecipientNotFound is returned when a requested recipient cannot be found.
var ErrRecipientNotFound = models.ErrRecipientNotFound

// GetOrCreateRecipient returns the recipient with the given service id.
// If no such recipient exists, it creates one. A non-empty display name
// replaces the stored one.
func GetOrCreateRecipient(ctx context.Context, pool *pgxpool.Pool, serviceID, displayName string) (*models.Recipient, error) {
	return getOrCreateRecipient(ctx, pool, serviceID, displayName, false)
}

// GetOrCreateSelf returns the recipient that represents the local account.
func GetOrCreateSelf(ctx context.Context, pool *pgxpool.Pool) (*models.Recipient, error) {
	return getOrCreateRecipient(ctx, pool, models.SelfServiceID, "Note to Self", true)
}

func getOrCreateRecipient(ctx context.Context, pool *pgxpool.Pool, serviceID, displayName string, isSelf bool) (*models.Recipient, error) {
	var recipient models.Recipient

	err := pool.QueryRow(ctx, `
		INSERT INTO recipients (service_id, display_name, is_self)
		VALUES ($1, $2, $3)
		ON CONFLICT (service_id) DO UPDATE SET
			display_name = COALESCE(NULLIF(EXCLUDED.display_name, ''), recipients.display_name)
		RETURNING id, service_id, display_name, is_self, created_at
	`, serviceID, displayName, isSelf).Scan(
		&recipient.ID,
		&recipient.ServiceID,
		&recipient.DisplayName,
		&recipient.IsSelf,
		&recipient.CreatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to get or create recipient: %w", err)
	}

	return &recipient, nil
}

// GetRecipientByID returns a recipient by its database ID.
func GetRecipientByID(ctx context.Context, pool *pgxpool.Pool, recipientID string) (*models.Recipient, error) {
	var recipient models.Recipient

	err := pool.QueryRow(ctx, `
		SELECT id, service_id, display_name, is_self, created_at
		FROM recipients
		WHERE id = $1
	`, recipientID).Scan(
		&recipient.ID,
		&recipient.ServiceID,
		&recipient.DisplayName,
		&recipient.IsSelf,
		&recipient.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRecipientNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get recipient: %w", err)
	}

	return &recipient, nil
}
