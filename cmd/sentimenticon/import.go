package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/japaniel/sentimenticon/pkg/db"
	"github.com/japaniel/sentimenticon/pkg/lexicon"
	"github.com/japaniel/sentimenticon/pkg/sentimenticon"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy the lexicon from the data directory into the database",
	Long:  "Parse the lexicon table for the configured language and upsert every entry into the SQLite database, so later runs can use --lexicon-from-db.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		start := time.Now()
		ac := settings.Analyzer()
		ac.Logger = logger
		analyzer, err := sentimenticon.New(ac)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Loaded %d %s entries in %v\n", analyzer.Lexicon().Len(), analyzer.Language(), time.Since(start))

		conn, err := db.Open(settings.DBPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer conn.Close()

		count, err := lexicon.NewImporter(conn, analyzer.Lexicon()).Import()
		if err != nil {
			return fmt.Errorf("import lexicon: %w", err)
		}
		fmt.Fprintf(out, "Imported %d entries into %s\n", count, settings.DBPath)
		return nil
	},
}
