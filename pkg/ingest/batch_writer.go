package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// WriteFunc is a callback that performs database writes inside a transaction.
// tx is nil when the writer has no database.
type WriteFunc func(ctx context.Context, tx *sql.Tx) error

// BatchWriter groups writes and commits each group in one transaction.
// A group is committed when it reaches the batch size, when the flush interval
// elapses, or on Close. Writes run in submission order on a single goroutine.
// After the first failed batch nothing else is committed: later writes are
// dropped and Submit returns that error.
type BatchWriter struct {
	db        *sql.DB
	batchSize int
	interval  time.Duration

	in   chan WriteFunc
	done chan struct{}

	mu     sync.Mutex
	closed bool

	// OnError is called for every failed batch. It must be set before the first Submit.
	OnError func(error)

	errMu    sync.Mutex
	firstErr error
}

// NewBatchWriter starts a writer committing every batchSize writes or every
// flushInterval (0 disables the timer).
func NewBatchWriter(db *sql.DB, batchSize int, flushInterval time.Duration) *BatchWriter {
	if batchSize <= 0 {
		batchSize = 10
	}
	bw := &BatchWriter{
		db:        db,
		batchSize: batchSize,
		interval:  flushInterval,
		in:        make(chan WriteFunc, batchSize),
		done:      make(chan struct{}),
	}
	go bw.run()
	return bw
}

// Submit enqueues a write. It blocks while the writer is busy committing.
func (bw *BatchWriter) Submit(w WriteFunc) error {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	if bw.closed {
		return ErrBatchWriterClosed
	}
	if err := bw.Err(); err != nil {
		return err
	}
	bw.in <- w
	return nil
}

// Err returns the first error recorded by a failed batch.
func (bw *BatchWriter) Err() error {
	bw.errMu.Lock()
	defer bw.errMu.Unlock()
	return bw.firstErr
}

// Close commits pending writes, stops the writer and returns the first batch error.
// Closing twice returns ErrBatchWriterClosed.
func (bw *BatchWriter) Close() error {
	bw.mu.Lock()
	if bw.closed {
		bw.mu.Unlock()
		return ErrBatchWriterClosed
	}
	bw.closed = true
	close(bw.in)
	bw.mu.Unlock()

	<-bw.done
	return bw.Err()
}

func (bw *BatchWriter) run() {
	defer close(bw.done)

	var tick <-chan time.Time
	if bw.interval > 0 {
		ticker := time.NewTicker(bw.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	batch := make([]WriteFunc, 0, bw.batchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if bw.Err() != nil {
			batch = batch[:0]
			return
		}
		if err := bw.commit(batch); err != nil {
			bw.errMu.Lock()
			if bw.firstErr == nil {
				bw.firstErr = err
			}
			bw.errMu.Unlock()
			if bw.OnError != nil {
				bw.OnError(err)
			}
		}
		batch = make([]WriteFunc, 0, bw.batchSize)
	}

	for {
		select {
		case w, ok := <-bw.in:
			if !ok {
				flush()
				return
			}
			batch = append(batch, w)
			if len(batch) >= bw.batchSize {
				flush()
			}
		case <-tick:
			flush()
		}
	}
}

func (bw *BatchWriter) commit(batch []WriteFunc) error {
	// Writes never see the caller's context so a cancelled ingest still commits what it scored.
	ctx := context.Background()

	if bw.db == nil {
		for _, w := range batch {
			if err := w(ctx, nil); err != nil {
				return err
			}
		}
		return nil
	}

	tx, err := bw.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin batch tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // ignored if committed
	}()

	for _, w := range batch {
		if err := w(ctx, tx); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch (%d items): %w", len(batch), err)
	}
	return nil
}

// ErrBatchWriterClosed is returned by Submit and Close after Close.
var ErrBatchWriterClosed = &BatchWriterError{"batch writer closed"}

type BatchWriterError struct{ msg string }

func (e *BatchWriterError) Error() string { return e.msg }
