package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "webby",
	Short: "Webby chat-bot runtime",
	Long:  "Webby routes inbound chat events through middleware chains and ordered listeners.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
