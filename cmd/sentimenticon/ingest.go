package main

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/japaniel/sentimenticon/pkg/db"
	"github.com/japaniel/sentimenticon/pkg/ingest"
	"github.com/japaniel/sentimenticon/pkg/segment"
)

var (
	ingestSkipStopwords bool
	ingestParallel      int
)

var ingestCmd = &cobra.Command{
	Use:   "ingest SOURCE...",
	Short: "Score documents sentence by sentence and store the results",
	Long: `Each SOURCE is a file path, - for stdin, or an http(s) URL whose article text is
extracted. Sentence scores are written to the database with a progress checkpoint,
so re-running an interrupted ingest continues where it stopped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestSkipStopwords, "skip-stopwords", false, "drop stopwords before scoring")
	ingestCmd.Flags().IntVar(&ingestParallel, "parallel", 2, "documents ingested at the same time")
}

func runIngest(cmd *cobra.Command, args []string) error {
	analyzer, err := loadAnalyzer()
	if err != nil {
		return err
	}

	conn, err := db.Open(settings.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer conn.Close()

	var outMu sync.Mutex
	printf := func(format string, a ...any) {
		outMu.Lock()
		defer outMu.Unlock()
		fmt.Fprintf(cmd.OutOrStdout(), format, a...)
	}

	g, gctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(max(1, ingestParallel))

	for _, source := range args {
		g.Go(func() error {
			doc, err := loadDocument(gctx, cmd.InOrStdin(), source)
			if err != nil {
				return fmt.Errorf("%s: %w", source, err)
			}
			sentences, err := segment.Sentences(doc.Text)
			if err != nil {
				return fmt.Errorf("%s: split sentences: %w", source, err)
			}

			docID, err := db.CreateOrGetDocument(conn, doc.SourceType, doc.Title, doc.URL, settings.Language)
			if err != nil {
				return fmt.Errorf("%s: failed to persist document: %w", source, err)
			}

			ig := ingest.NewIngester(conn, analyzer, settings.Language)
			ig.Workers = settings.Workers
			ig.SkipStopwords = ingestSkipStopwords
			ig.Logger = logger.With("source", source)

			n, err := ig.Ingest(gctx, docID, sentences)
			if err != nil {
				return fmt.Errorf("%s: ingestion failed: %w", source, err)
			}

			avg, scored, err := db.GetDocumentScore(conn, docID)
			if err != nil {
				return fmt.Errorf("%s: %w", source, err)
			}
			printf("%s\tdocument %d\t%s\t%d sentences (%d new)\n", source, docID, colorScore(avg), scored, n)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	printf("Processing complete.\n")
	return nil
}
