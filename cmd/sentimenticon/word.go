package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var wordDefault float64

var wordCmd = &cobra.Command{
	Use:   "word WORD...",
	Short: "Print the sentiment of each word",
	Long:  "Print the normalized sentiment of each word. Words are looked up exactly as given; unknown words print the --default value.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		analyzer, err := loadAnalyzer()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, w := range args {
			_, known := analyzer.SentimentObject(w)
			printSentiment(out, w, analyzer.WordSentiment(w, wordDefault), known)
		}
		return nil
	},
}

func init() {
	wordCmd.Flags().Float64Var(&wordDefault, "default", 0.0, "value printed for words missing from the lexicon")
}

func printSentiment(out io.Writer, label string, v float64, known bool) {
	suffix := ""
	if !known {
		suffix = color.New(color.Faint).Sprint(" (unknown)")
	}
	fmt.Fprintf(out, "%s\t%s%s\n", label, colorScore(v), suffix)
}

// colorScore renders v green when positive, red when negative.
func colorScore(v float64) string {
	s := fmt.Sprintf("%+.4f", v)
	switch {
	case v > 0:
		return color.GreenString(s)
	case v < 0:
		return color.RedString(s)
	default:
		return s
	}
}
