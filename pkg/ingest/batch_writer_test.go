package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

func openTestTable(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("CREATE TABLE test (id INTEGER PRIMARY KEY, val TEXT)"); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
	return db
}

func insert(val string) WriteFunc {
	return func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.Exec("INSERT INTO test (val) VALUES (?)", val)
		return err
	}
}

func countRows(t *testing.T, db *sql.DB) int {
	t.Helper()
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM test").Scan(&count); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	return count
}

func TestBatchWriterTransactions(t *testing.T) {
	db := openTestTable(t)
	defer db.Close()

	bw := NewBatchWriter(db, 2, 0)
	for _, v := range []string{"A", "B", "C"} {
		if err := bw.Submit(insert(v)); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	doneCh := make(chan error, 1)
	go func() {
		doneCh <- bw.Close()
	}()
	select {
	case err := <-doneCh:
		if err != nil {
			t.Fatalf("close failed: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for batch commit/close")
	}

	if got := countRows(t, db); got != 3 {
		t.Fatalf("expected 3 rows, got %d", got)
	}
}

func TestBatchWriterRollback(t *testing.T) {
	db := openTestTable(t)
	defer db.Close()

	bw := NewBatchWriter(db, 2, 0)
	errCh := make(chan error, 1)
	bw.OnError = func(e error) {
		errCh <- e
	}

	// Batch of 2: first succeeds, second fails. Whole batch rolls back.
	bw.Submit(insert("C"))
	bw.Submit(func(ctx context.Context, tx *sql.Tx) error {
		return fmt.Errorf("intentional error")
	})

	if err := bw.Close(); err == nil {
		t.Fatal("expected Close to report the batch error")
	}

	select {
	case err := <-errCh:
		if err == nil {
			t.Fatal("expected error, got nil")
		}
	default:
		t.Fatal("expected OnError to be called")
	}

	if got := countRows(t, db); got != 0 {
		t.Fatalf("expected 0 rows (rollback), got %d", got)
	}
}

func TestBatchWriterStopsAfterFailedBatch(t *testing.T) {
	db := openTestTable(t)
	defer db.Close()

	bw := NewBatchWriter(db, 1, 0)
	if err := bw.Submit(func(ctx context.Context, tx *sql.Tx) error {
		return fmt.Errorf("intentional error")
	}); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	// Later writes are either refused or dropped, never committed.
	for _, v := range []string{"A", "B", "C"} {
		_ = bw.Submit(insert(v))
	}

	if err := bw.Close(); err == nil {
		t.Fatal("expected Close to report the batch error")
	}
	if got := countRows(t, db); got != 0 {
		t.Fatalf("expected no rows after a failed batch, got %d", got)
	}
	if err := bw.Err(); err == nil {
		t.Fatal("expected Err to keep the first failure")
	}
}

func TestBatchWriterFlushesBySize(t *testing.T) {
	bw := NewBatchWriter(nil, 5, 0)
	var mu sync.Mutex
	var order []int
	for i := 0; i < 12; i++ {
		i := i
		if err := bw.Submit(func(ctx context.Context, tx *sql.Tx) error {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return nil
		}); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}
	if err := bw.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if len(order) != 12 {
		t.Fatalf("expected 12 calls, got %d", len(order))
	}
	for i, v := range order {
		if v != i {
			t.Fatalf("writes ran out of order: %v", order)
		}
	}
}

func TestBatchWriterFlushesOnInterval(t *testing.T) {
	bw := NewBatchWriter(nil, 10, 20*time.Millisecond)
	defer bw.Close()

	flushed := make(chan struct{})
	if err := bw.Submit(func(ctx context.Context, tx *sql.Tx) error {
		close(flushed)
		return nil
	}); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	select {
	case <-flushed:
	case <-time.After(time.Second):
		t.Fatal("expected interval flush before Close")
	}
}

func TestBatchWriterSubmitAfterClose(t *testing.T) {
	bw := NewBatchWriter(nil, 1, 0)
	if err := bw.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if err := bw.Submit(func(ctx context.Context, tx *sql.Tx) error { return nil }); err != ErrBatchWriterClosed {
		t.Fatalf("expected ErrBatchWriterClosed, got %v", err)
	}
	if err := bw.Close(); err != ErrBatchWriterClosed {
		t.Fatalf("expected ErrBatchWriterClosed on second close, got %v", err)
	}
}
