package bulk

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/ogini-search/core/index"
	"github.com/ogini-search/core/internal/analysis"
	"github.com/ogini-search/core/internal/docproc"
	"github.com/ogini-search/core/internal/indexing"
	"github.com/ogini-search/core/internal/remotecache"
	"github.com/ogini-search/core/internal/remotestore"
	"github.com/ogini-search/core/internal/tracker"
	"github.com/ogini-search/core/model"
	"github.com/ogini-search/core/store"
)

func newTestPipeline(t *testing.T) (*Pipeline, *tracker.Tracker, *remotestore.Store) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := remotecache.NewWithClient(client)

	registry := analysis.NewRegistry()
	processor := docproc.NewProcessor(registry)
	mapping := docproc.Mapping{
		"title": {Analyzer: "standard", Indexed: true, Stored: true, Weight: 1},
	}
	hot, err := index.NewHotTier(1000)
	if err != nil {
		t.Fatalf("NewHotTier: %v", err)
	}
	remote := remotestore.NewStore(remotestore.NewMemoryCollection())
	docs := store.NewDocumentStore(nil, "products")
	svc := indexing.NewService("products", hot, nil, remote, docs, processor, mapping)

	tr := tracker.New(cache)
	p := New("products", svc, tr, cache, remote, 4)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	p.Start(ctx)
	t.Cleanup(p.Stop)

	return p, tr, remote
}

func waitForCondition(t *testing.T, cond func() bool) {
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

func TestQueueBulkIndexing_IndexesAllDocumentsAndCompletes(t *testing.T) {
	p, tr, remote := newTestPipeline(t)
	ctx := context.Background()

	docs := []Document{
		{ID: "1", Source: map[string]any{"title": "alpha one"}},
		{ID: "2", Source: map[string]any{"title": "alpha two"}},
		{ID: "3", Source: map[string]any{"title": "beta three"}},
	}

	bulkOpID, err := p.QueueBulkIndexing(ctx, docs, Options{BatchSize: 2})
	if err != nil {
		t.Fatalf("QueueBulkIndexing: %v", err)
	}

	waitForCondition(t, func() bool {
		op, ok := tr.GetOperation(bulkOpID)
		return ok && op.Status == model.BulkStatusCompleted
	})

	list, err := remote.Read(ctx, "products", "title:alpha")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if list.Len() != 2 {
		t.Fatalf("got %d entries for 'alpha' in remote tier, want 2", list.Len())
	}

	op, _ := tr.GetOperation(bulkOpID)
	if op.IndexedBatches != op.TotalBatches || op.PersistedBatches != op.TotalBatches {
		t.Fatalf("got %+v, want all batches indexed and persisted", op)
	}
}

func TestQueueBulkIndexing_EmptyBatchSizeUsesDefault(t *testing.T) {
	p, tr, _ := newTestPipeline(t)
	ctx := context.Background()

	bulkOpID, err := p.QueueBulkIndexing(ctx, []Document{{ID: "1", Source: map[string]any{"title": "solo"}}}, Options{})
	if err != nil {
		t.Fatalf("QueueBulkIndexing: %v", err)
	}

	waitForCondition(t, func() bool {
		op, ok := tr.GetOperation(bulkOpID)
		return ok && op.Status == model.BulkStatusCompleted
	})

	op, _ := tr.GetOperation(bulkOpID)
	if op.TotalBatches != 1 {
		t.Fatalf("got %d total batches, want 1 for a single small request", op.TotalBatches)
	}
}

func TestResolvePayload_FallsBackToPendingJobsTableOnCacheMiss(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run: %v", err)
	}
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := remotecache.NewWithClient(client)
	coll := remotestore.NewMemoryCollection()

	ctx := context.Background()
	job := remotestore.PendingJob{Key: "bulkpayload:op1:b0", Payload: []byte(`{"IndexName":"products"}`)}
	if err := coll.PutPendingJob(ctx, job); err != nil {
		t.Fatalf("PutPendingJob: %v", err)
	}

	raw, ok, err := resolvePayload(ctx, cache, coll, "bulkpayload:op1:b0")
	if err != nil {
		t.Fatalf("resolvePayload: %v", err)
	}
	if !ok {
		t.Fatal("expected payload to be recovered from the pending-jobs table")
	}
	if string(raw) != `{"IndexName":"products"}` {
		t.Fatalf("got payload %q, want the pending job's stored bytes", raw)
	}
}

func TestResolvePayload_FindsNonOldestPendingJobByKey(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run: %v", err)
	}
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := remotecache.NewWithClient(client)
	coll := remotestore.NewMemoryCollection()

	ctx := context.Background()
	older := remotestore.PendingJob{
		Key:       "bulkpayload:op1:b0",
		Payload:   []byte(`{"IndexName":"products","BatchID":"b0"}`),
		CreatedAt: time.Now().Add(-time.Hour),
	}
	sought := remotestore.PendingJob{
		Key:       "bulkpayload:op1:b1",
		Payload:   []byte(`{"IndexName":"products","BatchID":"b1"}`),
		CreatedAt: time.Now(),
	}
	if err := coll.PutPendingJob(ctx, older); err != nil {
		t.Fatalf("PutPendingJob(older): %v", err)
	}
	if err := coll.PutPendingJob(ctx, sought); err != nil {
		t.Fatalf("PutPendingJob(sought): %v", err)
	}

	raw, ok, err := resolvePayload(ctx, cache, coll, "bulkpayload:op1:b1")
	if err != nil {
		t.Fatalf("resolvePayload: %v", err)
	}
	if !ok {
		t.Fatal("expected the non-oldest pending job to be found by key")
	}
	if string(raw) != `{"IndexName":"products","BatchID":"b1"}` {
		t.Fatalf("got payload %q, want sought job's stored bytes", raw)
	}

	// The older entry must still be resolvable afterward: a key lookup must
	// not consume entries it didn't match.
	raw, ok, err = resolvePayload(ctx, cache, coll, "bulkpayload:op1:b0")
	if err != nil {
		t.Fatalf("resolvePayload(older): %v", err)
	}
	if !ok {
		t.Fatal("expected the older pending job to still be resolvable")
	}
	if string(raw) != `{"IndexName":"products","BatchID":"b0"}` {
		t.Fatalf("got payload %q, want older job's stored bytes", raw)
	}
}
