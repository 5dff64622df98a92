package main

import (
	"database/sql"
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect WORD",
	Short: "Show the full lexicon record of a word",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		analyzer, err := loadAnalyzer()
		if err != nil {
			return err
		}
		e, ok := analyzer.SentimentObject(args[0])
		if !ok {
			return fmt.Errorf("%q is not in the %s lexicon", args[0], analyzer.Language())
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		bold := color.New(color.Bold).SprintFunc()
		fmt.Fprintf(tw, "%s\t%s\n", bold("word"), e.Word)
		fmt.Fprintf(tw, "%s\t%s\n", bold("sentiment"), colorScore(e.NormalizedAverage))
		fmt.Fprintf(tw, "%s\t%d\n", bold("happiness rank"), e.Rank)
		fmt.Fprintf(tw, "%s\t%.2f\n", bold("happiness average"), e.Average)
		fmt.Fprintf(tw, "%s\t%.4f\n", bold("happiness std"), e.Std)
		fmt.Fprintf(tw, "%s\t%s\n", bold("twitter rank"), rankString(e.Twitter))
		fmt.Fprintf(tw, "%s\t%s\n", bold("google rank"), rankString(e.Google))
		fmt.Fprintf(tw, "%s\t%s\n", bold("nyt rank"), rankString(e.NYT))
		fmt.Fprintf(tw, "%s\t%s\n", bold("lyrics rank"), rankString(e.Lyrics))
		return tw.Flush()
	},
}

func rankString(r sql.Null[int64]) string {
	if !r.Valid {
		return "--"
	}
	return fmt.Sprintf("%d", r.V)
}
