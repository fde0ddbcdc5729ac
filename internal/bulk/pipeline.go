package bulk

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ogini-search/core/internal/indexing"
	"github.com/ogini-search/core/internal/queue"
	"github.com/ogini-search/core/internal/remotecache"
	"github.com/ogini-search/core/internal/remotestore"
	"github.com/ogini-search/core/internal/tracker"
)

// Pipeline runs the bulk-indexing flow described by spec.md's queue-based
// architecture: an indexing queue fans documents out in batches, a
// persistence queue merges each batch's dirty terms into the remote tier,
// and a background drain keeps the per-operation dirty list bounded.
type Pipeline struct {
	indexName string
	svc       *indexing.Service
	tracker   *tracker.Tracker
	cache     *remotecache.Cache
	remote    *remotestore.Store
	coll      remotestore.Collection

	indexingQueue    *queue.Queue
	persistenceQueue *queue.Queue
}

// New wires a Pipeline for a single index. indexingWorkers sizes the
// parallel indexing queue; the persistence queue is always single-worker,
// per spec.md's strictly-sequential persistence model.
func New(
	indexName string,
	svc *indexing.Service,
	tr *tracker.Tracker,
	cache *remotecache.Cache,
	remote *remotestore.Store,
	indexingWorkers int,
) *Pipeline {
	p := &Pipeline{
		indexName: indexName,
		svc:       svc,
		tracker:   tr,
		cache:     cache,
		remote:    remote,
		coll:      remote.Collection(),
	}
	p.indexingQueue = queue.NewIndexingQueue(indexingWorkers, p.handleIndexingJob)
	p.persistenceQueue = queue.NewPersistenceQueue(p.handlePersistenceJob)
	return p
}

// Start launches both queues' workers.
func (p *Pipeline) Start(ctx context.Context) {
	p.indexingQueue.Start(ctx)
	p.persistenceQueue.Start(ctx)
}

// Stop shuts down both queues.
func (p *Pipeline) Stop() {
	p.indexingQueue.Stop()
	p.persistenceQueue.Stop()
}

// QueueBulkIndexing partitions documents into batches, records the bulk
// operation with the tracker, enqueues one "batch" job per batch on the
// indexing queue, and starts a background drain of the operation's dirty
// list. It returns the bulk operation's ID immediately; progress is
// observed through the tracker.
func (p *Pipeline) QueueBulkIndexing(ctx context.Context, documents []Document, opts Options) (string, error) {
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	bulkOpID := uuid.New().String()
	totalBatches := int(math.Ceil(float64(len(documents)) / float64(batchSize)))

	batchIDs := make([]string, 0, totalBatches)
	batches := make([][]Document, 0, totalBatches)
	for i := 0; i < len(documents); i += batchSize {
		end := i + batchSize
		if end > len(documents) {
			end = len(documents)
		}
		idx := len(batchIDs)
		batchIDs = append(batchIDs, fmt.Sprintf("%s-%d", bulkOpID, idx))
		batches = append(batches, documents[i:end])
	}

	if _, err := p.tracker.CreateOperation(ctx, bulkOpID, p.indexName, totalBatches, batchIDs, len(documents)); err != nil {
		return "", err
	}

	log.Info().
		Str("index", p.indexName).
		Str("bulk_op", bulkOpID).
		Int("documents", len(documents)).
		Int("batches", totalBatches).
		Msg("bulk indexing queued")

	for i, docs := range batches {
		p.indexingQueue.Enqueue("batch", batchJob{
			BulkOpID:  bulkOpID,
			BatchID:   batchIDs[i],
			IndexName: p.indexName,
			Documents: docs,
		})
	}

	go p.drainDirtyList(ctx, bulkOpID)

	return bulkOpID, nil
}

// drainDirtyList keeps bulkOpID's durable dirty list from growing
// unbounded while batches are still indexing. It runs as an independent
// goroutine rather than a persistence-queue job: spec.md describes
// drain-dirty-list as running concurrently with persist-batch-terms, but
// the persistence queue itself is single-worker, so the two cannot both
// be jobs on that one queue without serializing against each other. A
// free-running goroutine is the only way to honor both statements at
// once. The popped terms are not re-merged here: persist-batch-terms jobs
// are the sole writer to the remote tier, so draining only needs to keep
// the list's length bounded and detect when it is safe to delete.
func (p *Pipeline) drainDirtyList(ctx context.Context, bulkOpID string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		terms, err := p.tracker.PopDirtyTermsBatch(ctx, bulkOpID)
		if err != nil {
			log.Error().Err(err).Str("bulk_op", bulkOpID).Msg("drain dirty list: pop batch failed")
			return
		}
		if len(terms) > 0 {
			continue
		}

		op, ok, err := p.tracker.GetOrLoadOperation(ctx, bulkOpID)
		if err != nil {
			return
		}
		if ok && op.AllBatchesIndexed() {
			length, err := p.tracker.DirtyListLength(ctx, bulkOpID)
			if err == nil && length == 0 {
				_ = p.tracker.DeleteDirtyList(ctx, bulkOpID)
				log.Debug().Str("bulk_op", bulkOpID).Msg("dirty list drained")
				return
			}
		}

		time.Sleep(50 * time.Millisecond)
	}
}
