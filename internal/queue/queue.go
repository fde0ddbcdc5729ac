// Package queue implements the named job queues the bulk pipeline and
// persistence worker run on: a parallel indexing queue and a strictly
// sequential persistence queue, both with retry/backoff and stalled-job
// reclaim.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
)

// State is a job's lifecycle state within a Queue.
type State string

const (
	StateQueued    State = "queued"
	StateActive    State = "active"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// Handler processes one job's payload for a given job name.
type Handler func(ctx context.Context, jobName string, payload any) error

// Job is one unit of work tracked by a Queue.
type Job struct {
	ID          string
	Name        string
	Payload     any
	Attempts    int
	MaxAttempts int
	State       State
	Error       string
	EnqueuedAt  time.Time
	StartedAt   time.Time
}

// Config configures a Queue's concurrency and retry behavior.
type Config struct {
	Workers         int           // number of concurrent workers pulling jobs
	MaxAttempts     int           // attempts (first run included) before a job is marked failed
	StalledInterval time.Duration // how long an active job may run before being reclaimed
}

// Queue is a single named worker pool with retry/backoff and stalled-job
// reclaim, matching spec.md's indexing-queue/persistence-queue model.
type Queue struct {
	cfg     Config
	handler Handler

	mu   sync.Mutex
	jobs map[string]*Job

	ch       chan *Job
	paused   bool
	pauseMu  sync.Mutex
	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// New creates a Queue bound to handler, not yet started.
func New(cfg Config, handler Handler) *Queue {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.StalledInterval <= 0 {
		cfg.StalledInterval = 120 * time.Second
	}
	return &Queue{
		cfg:     cfg,
		handler: handler,
		jobs:    make(map[string]*Job),
		ch:      make(chan *Job, 1024),
		stopCh:  make(chan struct{}),
	}
}

// NewIndexingQueue builds the parallel indexing queue: N workers, 3
// attempts, a 120s stalled-job reclaim window.
func NewIndexingQueue(workers int, handler Handler) *Queue {
	return New(Config{Workers: workers, MaxAttempts: 3, StalledInterval: 120 * time.Second}, handler)
}

// NewPersistenceQueue builds the strictly sequential persistence queue: 1
// worker, 5 attempts, a 60s stalled-job reclaim window.
func NewPersistenceQueue(handler Handler) *Queue {
	return New(Config{Workers: 1, MaxAttempts: 5, StalledInterval: 60 * time.Second}, handler)
}

// Start launches the queue's workers and its stalled-job reclaimer. It
// returns immediately; call Stop (via context cancellation) to shut down.
func (q *Queue) Start(ctx context.Context) {
	for i := 0; i < q.cfg.Workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx)
	}
	q.wg.Add(1)
	go q.reclaimLoop(ctx)
}

// Stop signals all workers to exit and waits for them.
func (q *Queue) Stop() {
	q.stopOnce.Do(func() { close(q.stopCh) })
	q.wg.Wait()
}

// Enqueue adds a named job with payload, returning its ID.
func (q *Queue) Enqueue(name string, payload any) string {
	job := &Job{
		ID:          uuid.New().String(),
		Name:        name,
		Payload:     payload,
		MaxAttempts: q.cfg.MaxAttempts,
		State:       StateQueued,
		EnqueuedAt:  time.Now(),
	}

	q.mu.Lock()
	q.jobs[job.ID] = job
	q.mu.Unlock()

	q.ch <- job
	return job.ID
}

// Pause stops workers from pulling new jobs (in-flight jobs finish).
func (q *Queue) Pause() {
	q.pauseMu.Lock()
	q.paused = true
	q.pauseMu.Unlock()
}

// Resume re-enables job dispatch after Pause.
func (q *Queue) Resume() {
	q.pauseMu.Lock()
	q.paused = false
	q.pauseMu.Unlock()
}

func (q *Queue) isPaused() bool {
	q.pauseMu.Lock()
	defer q.pauseMu.Unlock()
	return q.paused
}

// Clean removes completed and failed jobs from the tracked set, returning
// the count removed.
func (q *Queue) Clean() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	removed := 0
	for id, job := range q.jobs {
		if job.State == StateCompleted || job.State == StateFailed {
			delete(q.jobs, id)
			removed++
		}
	}
	return removed
}

func (q *Queue) worker(ctx context.Context) {
	defer q.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-q.stopCh:
			return
		case job := <-q.ch:
			if q.isPaused() {
				// put it back and wait a beat before checking again
				go func(j *Job) {
					time.Sleep(50 * time.Millisecond)
					q.ch <- j
				}(job)
				continue
			}
			q.run(ctx, job)
		}
	}
}

func (q *Queue) run(ctx context.Context, job *Job) {
	q.mu.Lock()
	job.Attempts++
	job.State = StateActive
	job.StartedAt = time.Now()
	q.mu.Unlock()

	err := q.handler(ctx, job.Name, job.Payload)

	q.mu.Lock()
	defer q.mu.Unlock()
	if err == nil {
		job.State = StateCompleted
		job.Error = ""
		return
	}

	job.Error = err.Error()
	if job.Attempts >= job.MaxAttempts {
		job.State = StateFailed
		return
	}

	job.State = StateQueued
	delay := retryDelay(job.Attempts)
	go func(j *Job) {
		time.Sleep(delay)
		q.ch <- j
	}(job)
}

// retryDelay computes the exponential backoff delay before attempt n+1.
func retryDelay(attempt int) time.Duration {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	var d time.Duration
	for i := 0; i < attempt; i++ {
		d = b.NextBackOff()
	}
	if d <= 0 {
		d = b.MaxInterval
	}
	return d
}

// reclaimLoop periodically requeues jobs that have been active longer than
// StalledInterval, treating the stall as a failed attempt.
func (q *Queue) reclaimLoop(ctx context.Context) {
	defer q.wg.Done()
	ticker := time.NewTicker(q.cfg.StalledInterval / 4)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-q.stopCh:
			return
		case <-ticker.C:
			q.reclaimStalled()
		}
	}
}

func (q *Queue) reclaimStalled() {
	now := time.Now()
	var stalled []*Job

	q.mu.Lock()
	for _, job := range q.jobs {
		if job.State == StateActive && now.Sub(job.StartedAt) > q.cfg.StalledInterval {
			stalled = append(stalled, job)
		}
	}
	q.mu.Unlock()

	for _, job := range stalled {
		q.mu.Lock()
		if job.Attempts >= job.MaxAttempts {
			job.State = StateFailed
			job.Error = "stalled: reclaim limit exhausted"
			q.mu.Unlock()
			continue
		}
		job.State = StateQueued
		q.mu.Unlock()
		q.ch <- job
	}
}

// Stats summarizes a queue's job counts by state.
type Stats struct {
	Queued    int
	Active    int
	Completed int
	Failed    int
}

// GetQueueStats returns the aggregate counts by state.
func (q *Queue) GetQueueStats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()

	var s Stats
	for _, job := range q.jobs {
		switch job.State {
		case StateQueued:
			s.Queued++
		case StateActive:
			s.Active++
		case StateCompleted:
			s.Completed++
		case StateFailed:
			s.Failed++
		}
	}
	return s
}

// GetQueueHealth reports whether the queue is accepting and making
// progress: not paused, and no job stuck beyond its stalled interval.
func (q *Queue) GetQueueHealth() bool {
	if q.isPaused() {
		return false
	}
	now := time.Now()
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, job := range q.jobs {
		if job.State == StateActive && now.Sub(job.StartedAt) > q.cfg.StalledInterval {
			return false
		}
	}
	return true
}

// GetDetailedQueueStats breaks counts down by job name and state:
// stats["batch"][StateCompleted] == 3, for example.
func (q *Queue) GetDetailedQueueStats() map[string]map[State]int {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make(map[string]map[State]int)
	for _, job := range q.jobs {
		byState, ok := out[job.Name]
		if !ok {
			byState = make(map[State]int)
			out[job.Name] = byState
		}
		byState[job.State]++
	}
	return out
}
