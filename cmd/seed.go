package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/daeunko/curator/internal/passages"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Ingest product passages and build the vector index",
	Long: `Reads product passages from a JSON file, stores them, embeds every
passage that has no embedding yet, and persists the vector index.
Safe to re-run: existing passages are skipped and only pending ones
are embedded.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps()
		if err != nil {
			return err
		}
		defer d.Close()

		data, err := os.ReadFile(seedFile)
		if err != nil {
			return fmt.Errorf("reading %s: %w", seedFile, err)
		}
		var ps []passages.Passage
		if err := json.Unmarshal(data, &ps); err != nil {
			return fmt.Errorf("parsing %s: %w", seedFile, err)
		}
		if len(ps) == 0 {
			return fmt.Errorf("%s contains no passages", seedFile)
		}

		ctx := cmd.Context()
		if err := d.store.Seed(ctx, ps); err != nil {
			return fmt.Errorf("seeding passages: %w", err)
		}

		var bar *progressbar.ProgressBar
		embedded, err := d.store.Backfill(ctx, func(done, total int) {
			if bar == nil {
				bar = progressbar.Default(int64(total), "embedding")
			}
			bar.Add(1)
		})
		if err != nil {
			return fmt.Errorf("embedding passages (%d done): %w", embedded, err)
		}

		if err := os.MkdirAll(d.cfg.VectorDir, 0o755); err != nil {
			return fmt.Errorf("creating vector dir: %w", err)
		}
		if err := d.store.Persist(d.cfg.VectorDir); err != nil {
			return fmt.Errorf("persisting vector index: %w", err)
		}

		total, withVectors, err := d.store.Count(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Seeded %d passages (%d embedded, %d newly embedded)\n", total, withVectors, embedded)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "passages.json", "JSON file with product passages")
	rootCmd.AddCommand(seedCmd)
}
