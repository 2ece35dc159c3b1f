// Command chatseed writes synthetic chat history into a Postgres or SQLite store.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "chatseed",
	Short: "Seed a chat store with synthetic conversations",
	Long: `chatseed fills a chat database with recipients, threads, messages and
attachments whose transfer state is forced to done or failed. The store is
chosen with CHATSEED_STORE (postgres or sqlite).`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(conversationCmd)
}
