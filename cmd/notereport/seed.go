package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"editor-note/internal/drafts"
)

var seedCmd = &cobra.Command{
	Use:   "seed <fixtures.yaml>",
	Short: "Load users and documents from a YAML fixtures file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := openStore()
		if err != nil {
			return err
		}
		defer func() {
			_ = db.Close()
		}()

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer func() {
			_ = f.Close()
		}()

		manager, err := drafts.NewManager()
		if err != nil {
			return err
		}
		pipeline, err := newPipeline(manager, db)
		if err != nil {
			return err
		}

		stats, err := pipeline.LoadFixtures(cmd.Context(), f)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "loaded %d users, %d documents\n", stats.Users, stats.Documents)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
