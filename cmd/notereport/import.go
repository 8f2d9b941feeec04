package main

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"editor-note/internal/drafts"
	"editor-note/internal/editor"
	"editor-note/internal/importer"
	"editor-note/internal/storage"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import markdown drafts from the configured sources",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := openStore()
		if err != nil {
			return err
		}
		defer func() {
			_ = db.Close()
		}()

		sources := make([]drafts.Source, 0, len(cfg.DraftSources))
		for _, s := range cfg.DraftSources {
			sources = append(sources, drafts.Source{Name: s.Name, Root: s.Path})
		}
		if len(sources) == 0 {
			return fmt.Errorf("no draft sources configured; set DRAFT_SOURCES")
		}
		manager, err := drafts.NewManager(sources...)
		if err != nil {
			return err
		}

		pipeline, err := newPipeline(manager, db)
		if err != nil {
			return err
		}

		stats, err := pipeline.ImportAll(cmd.Context())
		fmt.Fprintf(cmd.OutOrStdout(), "scanned %d, imported %d, skipped %d, failed %d\n",
			stats.Scanned, stats.Imported, stats.Skipped, stats.Failed)
		return err
	},
}

func newPipeline(manager *drafts.Manager, db *sql.DB) (*importer.Pipeline, error) {
	registry, err := editor.NewDefaultRegistry()
	if err != nil {
		return nil, err
	}
	return importer.NewPipeline(manager, storage.NewDocumentRepo(db), storage.NewUserRepo(db), registry), nil
}

func init() {
	rootCmd.AddCommand(importCmd)
}
