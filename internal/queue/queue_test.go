package queue

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestQueue_ProcessesJobSuccessfully(t *testing.T) {
	var processed int32
	q := New(Config{Workers: 2, MaxAttempts: 3}, func(ctx context.Context, name string, payload any) error {
		atomic.AddInt32(&processed, 1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)
	defer q.Stop()

	q.Enqueue("batch", "payload-1")

	waitFor(t, func() bool { return atomic.LoadInt32(&processed) == 1 })

	stats := q.GetQueueStats()
	if stats.Completed != 1 {
		t.Fatalf("got stats %+v, want 1 completed", stats)
	}
}

func TestQueue_RetriesOnFailureThenSucceeds(t *testing.T) {
	var attempts int32
	q := New(Config{Workers: 1, MaxAttempts: 3}, func(ctx context.Context, name string, payload any) error {
		n := atomic.AddInt32(&attempts, 1)
		if n < 3 {
			return errFailing
		}
		return nil
	})
	// keep the stalled-job reclaimer from firing during the test
	q.cfg.StalledInterval = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)
	defer q.Stop()

	q.Enqueue("persist-batch-terms", "payload")

	waitFor(t, func() bool { return atomic.LoadInt32(&attempts) == 3 })

	stats := q.GetQueueStats()
	if stats.Completed != 1 {
		t.Fatalf("got stats %+v, want eventual completion after retries", stats)
	}
}

func TestQueue_ExhaustsRetriesAndFails(t *testing.T) {
	q := New(Config{Workers: 1, MaxAttempts: 2}, func(ctx context.Context, name string, payload any) error {
		return errFailing
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)
	defer q.Stop()

	q.Enqueue("batch", "payload")

	waitFor(t, func() bool { return q.GetQueueStats().Failed == 1 })
}

func TestQueue_DetailedStatsByJobName(t *testing.T) {
	q := New(Config{Workers: 1, MaxAttempts: 1}, func(ctx context.Context, name string, payload any) error {
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)
	defer q.Stop()

	q.Enqueue("batch", nil)
	q.Enqueue("drain-dirty-list", nil)

	waitFor(t, func() bool {
		detailed := q.GetDetailedQueueStats()
		return detailed["batch"][StateCompleted] == 1 && detailed["drain-dirty-list"][StateCompleted] == 1
	})
}

func TestQueue_PauseStopsDispatch(t *testing.T) {
	var processed int32
	q := New(Config{Workers: 1, MaxAttempts: 1}, func(ctx context.Context, name string, payload any) error {
		atomic.AddInt32(&processed, 1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)
	defer q.Stop()

	q.Pause()
	q.Enqueue("batch", nil)
	time.Sleep(100 * time.Millisecond)
	if atomic.LoadInt32(&processed) != 0 {
		t.Fatal("expected no jobs processed while paused")
	}

	q.Resume()
	waitFor(t, func() bool { return atomic.LoadInt32(&processed) == 1 })
}

type staticError string

func (e staticError) Error() string { return string(e) }

const errFailing = staticError("simulated failure")

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
