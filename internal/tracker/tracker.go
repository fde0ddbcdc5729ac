// Package tracker implements the bulk-operation tracker: a durable,
// monotone-counter record of one queueBulkIndexing call's progress,
// mirrored to the remote cache within every mutating call so it survives a
// restart.
package tracker

import (
	"context"
	"sync"
	"time"

	cerrors "github.com/ogini-search/core/internal/errors"
	"github.com/ogini-search/core/internal/remotecache"
	"github.com/ogini-search/core/model"
)

func operationKey(id string) string { return "bulkop:" + id }

// Tracker holds bulk-operation records in memory, mirrored to cache on
// every mutation. A single process-wide Tracker is shared by the bulk
// pipeline and the persistence worker for one engine instance.
type Tracker struct {
	mu    sync.Mutex
	ops   map[string]*model.BulkOperation
	cache *remotecache.Cache

	// onAllBatchesIndexed fires exactly once per operation, the moment
	// IndexedBatches reaches TotalBatches.
	onAllBatchesIndexed func(op model.BulkOperation)
}

// New creates a Tracker mirrored to cache. cache may be nil for tests that
// don't need restart durability.
func New(cache *remotecache.Cache) *Tracker {
	return &Tracker{
		ops:   make(map[string]*model.BulkOperation),
		cache: cache,
	}
}

// OnAllBatchesIndexed registers the callback fired when an operation's
// IndexedBatches first reaches TotalBatches.
func (t *Tracker) OnAllBatchesIndexed(fn func(op model.BulkOperation)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onAllBatchesIndexed = fn
}

// CreateOperation registers a new bulk operation.
func (t *Tracker) CreateOperation(ctx context.Context, id, indexName string, totalBatches int, batchIDs []string, totalDocuments int) (*model.BulkOperation, error) {
	op := &model.BulkOperation{
		ID:             id,
		IndexName:      indexName,
		TotalBatches:   totalBatches,
		BatchIDs:       batchIDs,
		TotalDocuments: totalDocuments,
		Status:         model.BulkStatusIndexing,
		CreatedAt:      time.Now(),
	}

	t.mu.Lock()
	t.ops[id] = op
	t.mu.Unlock()

	return op, t.mirror(ctx, op)
}

// GetOperation returns the in-memory record for id.
func (t *Tracker) GetOperation(id string) (model.BulkOperation, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	op, ok := t.ops[id]
	if !ok {
		return model.BulkOperation{}, false
	}
	return *op, true
}

// GetOrLoadOperation returns the in-memory record, falling back to the
// cache mirror (e.g. after a process restart) on a local miss.
func (t *Tracker) GetOrLoadOperation(ctx context.Context, id string) (model.BulkOperation, bool, error) {
	if op, ok := t.GetOperation(id); ok {
		return op, true, nil
	}
	if t.cache == nil {
		return model.BulkOperation{}, false, nil
	}

	var op model.BulkOperation
	ok, err := t.cache.LoadJSON(ctx, operationKey(id), &op)
	if err != nil || !ok {
		return model.BulkOperation{}, false, err
	}

	t.mu.Lock()
	t.ops[id] = &op
	t.mu.Unlock()
	return op, true, nil
}

// MarkBatchIndexed increments IndexedBatches for id (capped at
// TotalBatches) and fires the all-batches-indexed callback exactly once
// when the threshold is first reached.
func (t *Tracker) MarkBatchIndexed(ctx context.Context, id string) error {
	t.mu.Lock()
	op, ok := t.ops[id]
	if !ok {
		t.mu.Unlock()
		return cerrors.NewInvalidConfigError("tracker.MarkBatchIndexed: unknown operation " + id)
	}

	wasNotYetFull := op.IndexedBatches < op.TotalBatches
	if op.IndexedBatches < op.TotalBatches {
		op.IndexedBatches++
	}
	if op.Status == model.BulkStatusIndexing && op.AllBatchesIndexed() {
		op.Status = model.BulkStatusPersisting
	}
	justCompleted := wasNotYetFull && op.AllBatchesIndexed()
	snapshot := *op
	callback := t.onAllBatchesIndexed
	t.mu.Unlock()

	if justCompleted && callback != nil {
		callback(snapshot)
	}
	return t.mirror(ctx, &snapshot)
}

// MarkBatchPersisted increments PersistedBatches for id (capped at
// TotalBatches) and transitions the operation to completed once every
// batch has been persisted.
func (t *Tracker) MarkBatchPersisted(ctx context.Context, id string) error {
	t.mu.Lock()
	op, ok := t.ops[id]
	if !ok {
		t.mu.Unlock()
		return cerrors.NewInvalidConfigError("tracker.MarkBatchPersisted: unknown operation " + id)
	}

	if op.PersistedBatches < op.TotalBatches {
		op.PersistedBatches++
	}
	if op.Status != model.BulkStatusFailed && op.AllBatchesPersisted() {
		op.Status = model.BulkStatusCompleted
	}
	snapshot := *op
	t.mu.Unlock()

	return t.mirror(ctx, &snapshot)
}

// MarkOperationFailed transitions id to failed with the given error
// message, unless it has already completed (no back-transitions).
func (t *Tracker) MarkOperationFailed(ctx context.Context, id, errMsg string) error {
	t.mu.Lock()
	op, ok := t.ops[id]
	if !ok {
		t.mu.Unlock()
		return cerrors.NewInvalidConfigError("tracker.MarkOperationFailed: unknown operation " + id)
	}
	if op.Status == model.BulkStatusCompleted {
		t.mu.Unlock()
		return nil
	}
	op.Status = model.BulkStatusFailed
	op.Error = errMsg
	snapshot := *op
	t.mu.Unlock()

	return t.mirror(ctx, &snapshot)
}

func (t *Tracker) mirror(ctx context.Context, op *model.BulkOperation) error {
	if t.cache == nil {
		return nil
	}
	return t.cache.SaveJSON(ctx, operationKey(op.ID), op)
}

// PushDirtyTerms appends dirty term keys to id's durable dirty list.
func (t *Tracker) PushDirtyTerms(ctx context.Context, id string, terms []string) error {
	if t.cache == nil {
		return nil
	}
	return t.cache.PushDirtyTerms(ctx, id, terms)
}

// PopDirtyTermsBatch pops up to one batch (100) of dirty terms for id.
func (t *Tracker) PopDirtyTermsBatch(ctx context.Context, id string) ([]string, error) {
	if t.cache == nil {
		return nil, nil
	}
	return t.cache.PopDirtyTermsBatch(ctx, id)
}

// DirtyListLength reports id's dirty-list length.
func (t *Tracker) DirtyListLength(ctx context.Context, id string) (int64, error) {
	if t.cache == nil {
		return 0, nil
	}
	return t.cache.DirtyListLength(ctx, id)
}

// DeleteDirtyList removes id's dirty list entirely.
func (t *Tracker) DeleteDirtyList(ctx context.Context, id string) error {
	if t.cache == nil {
		return nil
	}
	return t.cache.DeleteDirtyList(ctx, id)
}
