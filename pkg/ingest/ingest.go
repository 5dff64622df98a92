package ingest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/japaniel/sentimenticon/pkg/db"
	"github.com/japaniel/sentimenticon/pkg/segment"
	"github.com/japaniel/sentimenticon/pkg/sentimenticon"
)

// WorkerPoolInterface abstracts the worker pool so tests can inject failing implementations.
type WorkerPoolInterface interface {
	Start(ctx context.Context)
	Submit(Job) error
	// SubmitCtx attempts to enqueue a job but returns promptly if ctx is canceled.
	SubmitCtx(ctx context.Context, job Job) error
	Close()
}

// Scorer scores a lowercased word sequence. *sentimenticon.Analyzer implements it.
type Scorer interface {
	Score(words []string) sentimenticon.Score
}

// Ingester scores the sentences of a document and stores one row per sentence.
type Ingester struct {
	DB     *sql.DB
	Scorer Scorer
	// Language is used to lowercase words and pick the stopword list.
	Language string
	// SkipStopwords drops stopwords before scoring.
	SkipStopwords bool
	BatchSize     int
	// Logger is used for informational messages (e.g. resume status). nil means no logging.
	Logger *slog.Logger
	// OnProgress is called periodically with the number of processed sentences and total sentences.
	OnProgress func(current, total int)

	Workers int

	// PoolFactory allows tests to inject custom worker pool implementations.
	PoolFactory func(workers, queue int) WorkerPoolInterface
}

// NewIngester creates a new Ingester.
func NewIngester(conn *sql.DB, scorer Scorer, language string) *Ingester {
	return &Ingester{
		DB:        conn,
		Scorer:    scorer,
		Language:  language,
		BatchSize: 50,
		Workers:   4,
	}
}

// scoredSentence is the result of scoring one sentence before it is written.
type scoredSentence struct {
	Index int
	Text  string
	Score sentimenticon.Score
}

// Ingest scores sentences on the worker pool and writes them in order, checkpointing
// the document's progress with every sentence. Sentences up to the stored checkpoint
// are skipped, so an interrupted ingest resumes where it stopped. A failed write stops
// all later writes, so the checkpoint never passes a sentence that was not stored.
// It returns the number of sentences committed by this call.
func (ig *Ingester) Ingest(ctx context.Context, documentID int64, sentences []string) (int, error) {
	if ig.Scorer == nil {
		return 0, errors.New("ingest: no scorer configured")
	}

	lastProcessed, err := db.GetDocumentProgress(ig.DB, documentID)
	if err != nil {
		ig.logf("failed to retrieve progress, starting from the first sentence", "document", documentID, "error", err)
		lastProcessed = -1
	}
	if lastProcessed >= 0 {
		ig.logf("resuming ingest", "document", documentID, "from_sentence", lastProcessed+1)
	}

	total := len(sentences)
	startIdx := lastProcessed + 1
	if startIdx >= total {
		return 0, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wp WorkerPoolInterface
	if ig.PoolFactory != nil {
		wp = ig.PoolFactory(ig.Workers, ig.Workers*2)
	} else {
		wp = NewWorkerPool(ig.Workers, ig.Workers*2)
	}
	resultCh := make(chan scoredSentence, ig.Workers*2)
	doneCh := make(chan error, 1)

	bw := NewBatchWriter(ig.DB, ig.BatchSize, 100*time.Millisecond)
	bw.OnError = func(error) { cancel() }

	wp.Start(ctx)

	// Consumer: restore sentence order and hand rows to the batch writer.
	go func() {
		defer close(doneCh)
		pending := make(map[int]scoredSentence)
		next := startIdx
		for res := range resultCh {
			pending[res.Index] = res
			for {
				item, ok := pending[next]
				if !ok {
					break
				}
				delete(pending, next)
				if err := bw.Submit(ig.writeSentence(documentID, item)); err != nil {
					cancel()
					doneCh <- err
					// Drain so producers never block on a full resultCh.
					for range resultCh {
					}
					return
				}
				next++
				if ig.OnProgress != nil && next%ig.batchSize() == 0 {
					ig.OnProgress(next, total)
				}
			}
		}
		if ig.OnProgress != nil && next == total {
			ig.OnProgress(total, total)
		}
	}()

	// Producer: one scoring job per remaining sentence.
	var submitErr error
	for i := startIdx; i < total; i++ {
		if ctx.Err() != nil {
			break
		}
		idx, text := i, sentences[i]
		job := func(ctx context.Context) error {
			res := ig.scoreSentence(idx, text)
			select {
			case resultCh <- res:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err := wp.SubmitCtx(ctx, job); err != nil {
			if ctx.Err() == nil && !errors.Is(err, ErrPoolClosed) {
				submitErr = err
			}
			break
		}
	}

	// All jobs are finished once Close returns, so nothing sends on resultCh afterwards.
	wp.Close()
	close(resultCh)
	if p, ok := wp.(*WorkerPool); ok && ig.Logger != nil {
		ig.Logger.Debug("scoring finished", "document", documentID, "jobs", p.Processed(), "error", p.Err())
	}

	consumerErr := <-doneCh
	closeErr := bw.Close()

	n := ig.committedSince(documentID, lastProcessed)
	switch {
	case submitErr != nil:
		return n, submitErr
	case consumerErr != nil:
		return n, consumerErr
	case closeErr != nil:
		return n, closeErr
	}
	return n, ctx.Err()
}

func (ig *Ingester) scoreSentence(index int, text string) scoredSentence {
	words := segment.Words(text, ig.Language)
	if ig.SkipStopwords {
		words = segment.DropStopwords(words, ig.Language)
	}
	return scoredSentence{
		Index: index,
		Text:  text,
		Score: ig.Scorer.Score(words),
	}
}

func (ig *Ingester) writeSentence(documentID int64, s scoredSentence) WriteFunc {
	return func(ctx context.Context, tx *sql.Tx) error {
		err := db.SaveSentenceScore(tx, db.SentenceScore{
			DocumentID:    documentID,
			SentenceIndex: s.Index,
			Text:          s.Text,
			Score:         s.Score.Average,
			KnownWords:    s.Score.Known,
			TotalWords:    s.Score.Total,
		})
		if err != nil {
			return fmt.Errorf("failed to persist sentence %d: %w", s.Index, err)
		}
		// Checkpoint progress for this sentence
		if err := db.UpdateDocumentProgress(tx, documentID, s.Index); err != nil {
			return fmt.Errorf("failed to save progress: %w", err)
		}
		return nil
	}
}

// committedSince counts sentences past lastProcessed that the stored checkpoint covers.
// Batches commit in order and stop at the first failure, so the checkpoint is exact.
func (ig *Ingester) committedSince(documentID int64, lastProcessed int) int {
	progress, err := db.GetDocumentProgress(ig.DB, documentID)
	if err != nil || progress <= lastProcessed {
		return 0
	}
	return progress - lastProcessed
}

func (ig *Ingester) batchSize() int {
	if ig.BatchSize <= 0 {
		return 1
	}
	return ig.BatchSize
}

func (ig *Ingester) logf(msg string, args ...any) {
	if ig.Logger != nil {
		ig.Logger.Info(msg, args...)
	}
}
