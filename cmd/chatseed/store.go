package main

import (
	"context"
	"fmt"
	"log"

	"github.com/vdavid/chatseed/internal/api"
	"github.com/vdavid/chatseed/internal/config"
	"github.com/vdavid/chatseed/internal/db"
	"github.com/vdavid/chatseed/internal/fixtures"
	"github.com/vdavid/chatseed/internal/models"
	"github.com/vdavid/chatseed/internal/schema"
	"github.com/vdavid/chatseed/internal/sqlitestore"
)

// seedStore is what the commands need from either backend.
type seedStore interface {
	fixtures.Store
	api.Reader
	GetOrCreateRecipient(ctx context.Context, serviceID, displayName string) (*models.Recipient, error)
	GetOrCreateSelf(ctx context.Context) (*models.Recipient, error)
	GetThreadForRecipient(ctx context.Context, recipientID string) (*models.Thread, error)
	Close() error
}

// openStore connects to the configured backend with its schema in place.
// SQLite applies its schema on open; Postgres runs the migration files.
func openStore(ctx context.Context, cfg *config.Config) (seedStore, error) {
	switch cfg.StoreBackend {
	case config.StoreSQLite:
		store, err := sqlitestore.New(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		log.Printf("Opened SQLite store at %s", cfg.SQLitePath)
		return store, nil

	case config.StorePostgres:
		pool, err := db.NewConnection(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := schema.Run(ctx, pool, cfg.MigrationsDir); err != nil {
			db.CloseConnection(pool)
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Printf("Connected to Postgres at %s:%s/%s", cfg.DBHost, cfg.DBPort, cfg.DBName)
		return db.NewStore(pool), nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
