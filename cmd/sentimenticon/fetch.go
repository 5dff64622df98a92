package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/japaniel/sentimenticon/pkg/lexicon"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the English lexicon into the data directory",
	Long: `Download the hedonometer table (Dodds et al. 2011, supplementary S1) to
<data-dir>/<language>/` + lexicon.FileName + ` unless it is already there.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := settings.LexiconPath()
		if err := lexicon.EnsureLexicon(cmd.Context(), path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "lexicon ready at %s\n", path)
		return nil
	},
}
