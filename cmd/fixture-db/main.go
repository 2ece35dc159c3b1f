// Command fixture-db starts a disposable Postgres, applies the schema, seeds a
// demo data set and keeps the database running until interrupted.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vdavid/chatseed/internal/db"
	"github.com/vdavid/chatseed/internal/fixtures"
	"github.com/vdavid/chatseed/internal/models"
	"github.com/vdavid/chatseed/internal/schema"
	"github.com/vdavid/chatseed/internal/testutil"
)

func main() {
	ctx := context.Background()

	log.Println("Starting fixture Postgres database...")
	container, connStr, err := testutil.StartPostgres(ctx)
	if err != nil {
		log.Fatalf("Failed to start Postgres: %v", err)
	}
	defer func() {
		if err := container.Terminate(ctx); err != nil {
			log.Printf("Failed to terminate Postgres container: %v", err)
		}
	}()

	pool, err := setupDatabase(ctx, connStr)
	if err != nil {
		log.Fatalf("Failed to setup database: %v", err)
	}
	defer pool.Close()

	if err := seedDemoData(ctx, pool); err != nil {
		log.Fatalf("Failed to seed demo data: %v", err)
	}

	log.Printf("Fixture database ready: %s", connStr)
	log.Println("Press Ctrl+C to stop.")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Printf("Received signal %v, shutting down...", sig)
}

// setupDatabase creates a database connection pool and runs migrations.
func setupDatabase(ctx context.Context, connStr string) (*pgxpool.Pool, error) {
	pool, err := db.NewConnectionFromURL(ctx, connStr)
	if err != nil {
		return nil, err
	}

	if err := schema.Run(ctx, pool, os.Getenv("CHATSEED_MIGRATIONS_DIR")); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Successfully connected to database and ran migrations")
	return pool, nil
}

// demoRecipients are the contacts every fixture database starts with.
var demoRecipients = []struct {
	serviceID   string
	displayName string
}{
	{"demo-alice", "Alice"},
	{"demo-bob", "Bob"},
	{"demo-carol", "Carol"},
}

// seedDemoData writes one hand-shaped conversation and one generated
// conversation per demo recipient.
func seedDemoData(ctx context.Context, pool *pgxpool.Pool) error {
	store := db.NewStore(pool)

	self, err := db.GetOrCreateSelf(ctx, pool)
	if err != nil {
		return fmt.Errorf("failed to get self recipient: %w", err)
	}

	seeder := fixtures.NewSeeder(store, self, fixtures.SystemClock{})
	timestamps := fixtures.NewTimestampGeneratorFromClock(fixtures.SystemClock{})

	recipients := make([]*models.Recipient, 0, len(demoRecipients))
	for _, r := range demoRecipients {
		recipient, err := db.GetOrCreateRecipient(ctx, pool, r.serviceID, r.displayName)
		if err != nil {
			return fmt.Errorf("failed to create recipient %s: %w", r.displayName, err)
		}
		recipients = append(recipients, recipient)
	}

	alice := recipients[0]
	ts := timestamps.Next()
	greetingID, err := seeder.InsertOutgoingText(ctx, alice, "Hey, are we still on for tonight?", &ts)
	if err != nil {
		return err
	}
	greeting, err := db.GetMessageByID(ctx, pool, greetingID)
	if err != nil {
		return fmt.Errorf("failed to read back greeting: %w", err)
	}

	ts = timestamps.Next()
	if _, err := seeder.InsertIncomingQuoteText(ctx, alice, "Yes! See you at 8.", fixtures.QuoteOf(greeting, ""), &ts); err != nil {
		return err
	}
	ts = timestamps.Next()
	if _, err := seeder.InsertIncomingImage(ctx, alice, nil, 3, &ts, false); err != nil {
		return err
	}
	ts = timestamps.Next()
	if _, err := seeder.InsertIncomingImage(ctx, alice, nil, 1, &ts, true); err != nil {
		return err
	}
	ts = timestamps.Next()
	if _, err := seeder.InsertIncomingVoice(ctx, alice, &ts); err != nil {
		return err
	}
	log.Printf("Seeded hand-shaped conversation with %s", alice.DisplayName)

	for _, recipient := range recipients[1:] {
		start := timestamps.Next()
		ids, err := seeder.SeedConversation(ctx, recipient, fixtures.ConversationOptions{
			Messages:    40,
			ImageEvery:  5,
			VoiceEvery:  7,
			QuoteEvery:  3,
			FailedEvery: 10,
			Start:       &start,
		})
		if err != nil {
			return err
		}
		log.Printf("Seeded %d messages for %s", len(ids), recipient.DisplayName)
	}

	return nil
}
