package main

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vdavid/chatseed/internal/config"
	"github.com/vdavid/chatseed/internal/fixtures"
)

type conversationFlags struct {
	recipients       int
	messages         int
	imagesEvery      int
	imagesPerMessage int
	voiceEvery       int
	quoteEvery       int
	failedEvery      int
	start            int64
}

var convFlags conversationFlags

var conversationCmd = &cobra.Command{
	Use:   "conversation",
	Short: "Seed one conversation per synthetic recipient",
	Long: `Conversation creates --recipients new recipients and seeds each with a
back-and-forth of --messages messages, starting with an incoming one.

Example:
  chatseed conversation --recipients 3 --messages 50 --images-every 4 --failed-every 8
  chatseed conversation --voice-every 5 --quote-every 3 --start 1700000000000`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := convFlags.validate(); err != nil {
			return err
		}

		cfg, err := config.NewConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		store, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		return seedConversations(cmd.Context(), store, convFlags, cmd.OutOrStdout())
	},
}

func init() {
	f := conversationCmd.Flags()
	f.IntVar(&convFlags.recipients, "recipients", 1, "number of recipients to create")
	f.IntVar(&convFlags.messages, "messages", fixtures.DefaultConversationMessages, "messages per conversation")
	f.IntVar(&convFlags.imagesEvery, "images-every", 0, "make every n-th message an image message (0 disables)")
	f.IntVar(&convFlags.imagesPerMessage, "images-per-message", 1, "attachments per image message")
	f.IntVar(&convFlags.voiceEvery, "voice-every", 0, "make every n-th incoming message a voice note (0 disables)")
	f.IntVar(&convFlags.quoteEvery, "quote-every", 0, "make every n-th incoming message quote the previous one (0 disables)")
	f.IntVar(&convFlags.failedEvery, "failed-every", 0, "fail the transfer of every n-th incoming image message (0 disables)")
	f.Int64Var(&convFlags.start, "start", 0, "timestamp the conversation starts after, in epoch milliseconds; 0 means now")
}

func (f conversationFlags) validate() error {
	if f.recipients < 1 {
		return fmt.Errorf("--recipients must be at least 1, got %d", f.recipients)
	}
	if f.messages < 1 {
		return fmt.Errorf("--messages must be at least 1, got %d", f.messages)
	}
	for name, value := range map[string]int{
		"--images-every":       f.imagesEvery,
		"--images-per-message": f.imagesPerMessage,
		"--voice-every":        f.voiceEvery,
		"--quote-every":        f.quoteEvery,
		"--failed-every":       f.failedEvery,
	} {
		if value < 0 {
			return fmt.Errorf("%s must not be negative, got %d", name, value)
		}
	}
	return nil
}

func (f conversationFlags) options() fixtures.ConversationOptions {
	opts := fixtures.ConversationOptions{
		Messages:         f.messages,
		ImageEvery:       f.imagesEvery,
		ImagesPerMessage: f.imagesPerMessage,
		VoiceEvery:       f.voiceEvery,
		QuoteEvery:       f.quoteEvery,
		FailedEvery:      f.failedEvery,
	}
	if f.start > 0 {
		start := f.start
		opts.Start = &start
	}
	return opts
}

// seedConversations creates the recipients and their conversations, and
// prints one line per recipient to out.
func seedConversations(ctx context.Context, store seedStore, f conversationFlags, out io.Writer) error {
	self, err := store.GetOrCreateSelf(ctx)
	if err != nil {
		return fmt.Errorf("failed to get self recipient: %w", err)
	}

	seeder := fixtures.NewSeeder(store, self, fixtures.SystemClock{})
	opts := f.options()

	for i := 0; i < f.recipients; i++ {
		serviceID := uuid.New().String()
		recipient, err := store.GetOrCreateRecipient(ctx, serviceID, fmt.Sprintf("Recipient %d", i+1))
		if err != nil {
			return fmt.Errorf("failed to create recipient %d: %w", i+1, err)
		}

		ids, err := seeder.SeedConversation(ctx, recipient, opts)
		if err != nil {
			return fmt.Errorf("failed to seed conversation with %s: %w", recipient.DisplayName, err)
		}

		thread, err := store.GetThreadForRecipient(ctx, recipient.ID)
		if err != nil {
			return fmt.Errorf("failed to read thread of %s: %w", recipient.DisplayName, err)
		}

		log.Printf("Seeded %d messages for %s", len(ids), recipient.DisplayName)
		fmt.Fprintf(out, "%s\t%s\t%s\t%d\n", recipient.ID, serviceID, thread.ID, len(ids))
	}

	return nil
}
