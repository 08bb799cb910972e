package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "placequery",
	Short: "query the place search aggregator from the command line",
	Long: `
placequery runs the place search pipeline in-process: it fans a query out to
every configured provider, then deduplicates, ranks, and prints the results.
Configuration is read from the environment and from .env when present.
`,
	SilenceUsage: true,
	PersistentPreRun: func(*cobra.Command, []string) {
		_ = godotenv.Load()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
