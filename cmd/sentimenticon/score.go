package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/japaniel/sentimenticon/pkg/segment"
	"github.com/japaniel/sentimenticon/pkg/sentimenticon"
)

var (
	scoreFile          string
	scoreURL           string
	scoreSentences     bool
	scoreSkipStopwords bool
	scoreJSON          bool
)

var scoreCmd = &cobra.Command{
	Use:   "score [TEXT...]",
	Short: "Average sentiment of text",
	Long: `Lowercase the text, split it on whitespace and print the average word sentiment.
Unknown words count as 0.0. Text comes from the arguments, --file (- for stdin) or --url.`,
	RunE: runScore,
}

func init() {
	f := scoreCmd.Flags()
	f.StringVar(&scoreFile, "file", "", "read text from a file (- for stdin)")
	f.StringVar(&scoreURL, "url", "", "fetch an article and score its readable text")
	f.BoolVar(&scoreSentences, "sentences", false, "also score every sentence")
	f.BoolVar(&scoreSkipStopwords, "skip-stopwords", false, "drop stopwords before scoring")
	f.BoolVar(&scoreJSON, "json", false, "print JSON")
	scoreCmd.MarkFlagsMutuallyExclusive("file", "url")
}

type sentenceScore struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
	sentimenticon.Score
}

type scoreReport struct {
	Title string `json:"title,omitempty"`
	sentimenticon.Score
	Sentences []sentenceScore `json:"sentences,omitempty"`
}

func runScore(cmd *cobra.Command, args []string) error {
	var doc document
	switch {
	case scoreFile != "" || scoreURL != "":
		if len(args) > 0 {
			return errors.New("pass text either as arguments or with --file/--url")
		}
		source := scoreFile
		if scoreURL != "" {
			source = scoreURL
		}
		var err error
		doc, err = loadDocument(cmd.Context(), cmd.InOrStdin(), source)
		if err != nil {
			return err
		}
	case len(args) > 0:
		doc = document{Text: strings.Join(args, " ")}
	default:
		return errors.New("nothing to score: pass text, --file or --url")
	}

	analyzer, err := loadAnalyzer()
	if err != nil {
		return err
	}

	words := func(text string) []string {
		ws := segment.Words(text, settings.Language)
		if scoreSkipStopwords {
			ws = segment.DropStopwords(ws, settings.Language)
		}
		return ws
	}

	report := scoreReport{Title: doc.Title, Score: analyzer.Score(words(doc.Text))}
	if scoreSentences {
		sentences, err := segment.Sentences(doc.Text)
		if err != nil {
			return fmt.Errorf("split sentences: %w", err)
		}
		for i, s := range sentences {
			report.Sentences = append(report.Sentences, sentenceScore{Index: i, Text: s, Score: analyzer.Score(words(s))})
		}
	}

	out := cmd.OutOrStdout()
	if scoreJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	if report.Title != "" {
		fmt.Fprintf(out, "Title: %s\n", report.Title)
	}
	for _, s := range report.Sentences {
		fmt.Fprintf(out, "%4d  %s  %s\n", s.Index, colorScore(s.Average), s.Text)
	}
	fmt.Fprintf(out, "score\t%s\t(%d of %d words known)\n", colorScore(report.Average), report.Known, report.Total)
	return nil
}
