package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/japaniel/sentimenticon/pkg/lexicon"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the loaded lexicon",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		analyzer, err := loadAnalyzer()
		if err != nil {
			return err
		}
		s := lexicon.Summarize(analyzer.Lexicon())

		out := cmd.OutOrStdout()
		if statsJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(s)
		}
		fmt.Fprintf(out, "language  %s\n", s.Language)
		fmt.Fprintf(out, "words     %d (%d positive, %d negative, %d neutral)\n", s.Words, s.Positive, s.Negative, s.Neutral)
		fmt.Fprintf(out, "mean      %s (std %.4f)\n", colorScore(s.Mean), s.StdDev)
		fmt.Fprintf(out, "median    %s\n", colorScore(s.Median))
		fmt.Fprintf(out, "range     %s .. %s\n", colorScore(s.Min), colorScore(s.Max))
		return nil
	},
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "print JSON")
}
