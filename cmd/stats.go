package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps()
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := cmd.Context()

		stats, err := d.logger.Stats(ctx)
		if err != nil {
			return fmt.Errorf("loading stats: %w", err)
		}
		total, embedded, err := d.store.Count(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Passages:          %d (%d embedded)\n", total, embedded)
		fmt.Printf("Conversations:     %d\n", stats.TotalConversations)
		fmt.Printf("Unique sessions:   %d\n", stats.UniqueSessions)

		fmt.Println("\nTop keywords:")
		if len(stats.TopKeywords) == 0 {
			fmt.Println("  (none yet)")
		}
		for _, kw := range stats.TopKeywords {
			fmt.Printf("  - %s\n", kw)
		}

		fmt.Println("\nFrequent questions:")
		if len(stats.TopQuestions) == 0 {
			fmt.Println("  (none yet)")
		}
		for _, q := range stats.TopQuestions {
			fmt.Printf("  - %s\n", q)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
