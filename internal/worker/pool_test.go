package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_RetriesUntilSuccess(t *testing.T) {
	p := New(Options{Workers: 1, MaxAttempts: 3})
	p.Start(context.Background())

	var calls int32
	done := make(chan struct{})
	ok := p.Submit(Job{Name: "flaky", Run: func(ctx context.Context) error {
		if atomic.AddInt32(&calls, 1) < 3 {
			return errors.New("sheet unavailable")
		}
		close(done)
		return nil
	}})
	require.True(t, ok)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not succeed")
	}
	p.Shutdown()
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestPool_GivesUpAfterMaxAttempts(t *testing.T) {
	p := New(Options{Workers: 1, MaxAttempts: 2})
	p.Start(context.Background())

	var calls int32
	p.Submit(Job{Name: "broken", Run: func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("boom")
	}})
	p.Shutdown()

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestPool_RecoversPanics(t *testing.T) {
	p := New(Options{Workers: 1, MaxAttempts: 1})
	p.Start(context.Background())

	var after int32
	p.Submit(Job{Name: "panics", Run: func(ctx context.Context) error { panic("bad row") }})
	p.Submit(Job{Name: "next", Run: func(ctx context.Context) error {
		atomic.StoreInt32(&after, 1)
		return nil
	}})
	p.Shutdown()

	assert.Equal(t, int32(1), atomic.LoadInt32(&after))
}

func TestPool_DropsWhenQueueFull(t *testing.T) {
	p := New(Options{Workers: 1, QueueSize: 1, MaxAttempts: 1})
	p.Start(context.Background())

	release := make(chan struct{})
	running := make(chan struct{})
	var once sync.Once
	blocker := Job{Name: "block", Run: func(ctx context.Context) error {
		once.Do(func() { close(running) })
		<-release
		return nil
	}}

	require.True(t, p.Submit(blocker))
	<-running
	require.True(t, p.Submit(blocker))
	assert.False(t, p.Submit(blocker), "third job must be dropped")

	close(release)
	p.Shutdown()
	assert.False(t, p.Submit(blocker), "closed pool rejects jobs")
}

func TestPool_JobTimeout(t *testing.T) {
	p := New(Options{Workers: 1, MaxAttempts: 1, Timeout: 20 * time.Millisecond})
	p.Start(context.Background())

	var gotErr atomic.Value
	p.Submit(Job{Name: "slow", Run: func(ctx context.Context) error {
		<-ctx.Done()
		gotErr.Store(ctx.Err())
		return ctx.Err()
	}})
	p.Shutdown()

	assert.Equal(t, context.DeadlineExceeded, gotErr.Load())
}

func TestPool_CancelledContextAbandonsRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := New(Options{Workers: 1, MaxAttempts: 5, Backoff: time.Hour})
	p.Start(ctx)

	var calls int32
	p.Submit(Job{Name: "retry", Run: func(context.Context) error {
		atomic.AddInt32(&calls, 1)
		cancel()
		return errors.New("nope")
	}})
	p.Shutdown()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
