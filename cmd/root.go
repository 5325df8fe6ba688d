// Package cmd implements the curator command line interface.
package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "curator",
	Short: "Conversational product curation with taste-aware retrieval",
	Long: `Curator answers shopper questions about a fashion catalog. It embeds
each question, retrieves the most relevant product passages, re-ranks
them against the shopper's six-axis taste profile, and generates a
grounded recommendation. Conversations feed a pattern learner so
frequent questions can eventually be answered instantly.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// .env is optional; environment wins either way.
		_ = godotenv.Load()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".curator.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
