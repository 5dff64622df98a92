package ingest

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(context.Context) error { return nil }

func TestWorkerPoolRunsEveryJob(t *testing.T) {
	p := NewWorkerPool(4, 16)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)

	var ran atomic.Int32
	for i := 0; i < 100; i++ {
		require.NoError(t, p.Submit(func(context.Context) error {
			ran.Add(1)
			return nil
		}))
	}
	p.Close()

	assert.Equal(t, int32(100), ran.Load())
	assert.Equal(t, int64(100), p.Processed())
	assert.NoError(t, p.Err())
}

func TestWorkerPoolKeepsFirstJobError(t *testing.T) {
	p := NewWorkerPool(1, 4)
	p.Start(context.Background())

	first := errors.New("first")
	require.NoError(t, p.Submit(func(context.Context) error { return first }))
	require.NoError(t, p.Submit(func(context.Context) error { return errors.New("second") }))
	require.NoError(t, p.Submit(noop))
	p.Close()

	assert.ErrorIs(t, p.Err(), first)
	assert.Equal(t, int64(3), p.Processed())
}

func TestWorkerPoolSubmitAfterClose(t *testing.T) {
	p := NewWorkerPool(1, 2)
	p.Start(context.Background())
	p.Close()
	p.Close()

	assert.Equal(t, ErrPoolClosed, p.Submit(noop))
}

func TestWorkerPoolCloseReleasesBlockedSubmit(t *testing.T) {
	p := NewWorkerPool(1, 1)
	// No workers, so the queue stays full after one job.
	require.NoError(t, p.Submit(noop))

	done := make(chan error, 1)
	go func() { done <- p.Submit(noop) }()
	time.Sleep(10 * time.Millisecond)

	p.Close()

	select {
	case err := <-done:
		assert.Equal(t, ErrPoolClosed, err)
	case <-time.After(time.Second):
		t.Fatal("blocked Submit did not return after Close")
	}
}

func TestWorkerPoolSubmitCtxDeadline(t *testing.T) {
	p := NewWorkerPool(1, 1)
	defer p.Close()
	require.NoError(t, p.Submit(noop))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, p.SubmitCtx(ctx, noop), context.DeadlineExceeded)
}

func TestWorkerPoolStopsOnContextCancel(t *testing.T) {
	p := NewWorkerPool(2, 16)
	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		p.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Close blocked after context cancellation")
	}
}
