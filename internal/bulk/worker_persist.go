package bulk

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	cerrors "github.com/ogini-search/core/internal/errors"
	"github.com/ogini-search/core/index"
)

// handlePersistenceJob dispatches a job pulled off the persistence queue.
func (p *Pipeline) handlePersistenceJob(ctx context.Context, jobName string, raw any) error {
	switch jobName {
	case "persist-batch-terms":
		job, ok := raw.(persistJob)
		if !ok {
			return cerrors.NewInvalidConfigError("bulk: persistence job payload is not a persistJob")
		}
		return p.handlePersistBatchTerms(ctx, job)
	default:
		return cerrors.NewInvalidConfigError("bulk: unknown persistence job " + jobName)
	}
}

// handlePersistBatchTerms resolves the batch's staged payload, merges
// every term's posting-list snapshot into the remote tier, and marks the
// batch persisted. An empty PayloadKey signals the crash-recovery path: no
// specific batch is named, so the oldest pending reference is claimed
// instead.
func (p *Pipeline) handlePersistBatchTerms(ctx context.Context, job persistJob) error {
	if job.PayloadKey == "" {
		return p.recoverOldestPending(ctx)
	}

	raw, ok, err := resolvePayload(ctx, p.cache, p.coll, job.PayloadKey)
	if err != nil {
		return err
	}
	if !ok {
		return p.handleLostPayload(ctx, job)
	}

	return p.applyPayload(ctx, job.BulkOpID, job.PayloadKey, raw)
}

// handleLostPayload covers the case where both the cache and the
// pending-jobs-table fallback came up empty. If the operation's tracker
// record shows every batch already persisted, this is a duplicate retry
// of a job that already succeeded, and is a no-op. Otherwise the payload
// is genuinely gone and the job fails permanently.
func (p *Pipeline) handleLostPayload(ctx context.Context, job persistJob) error {
	op, ok, err := p.tracker.GetOrLoadOperation(ctx, job.BulkOpID)
	if err != nil {
		return err
	}
	if ok && op.AllBatchesPersisted() {
		return nil
	}
	log.Error().Str("bulk_op", job.BulkOpID).Str("batch", job.BatchID).
		Msg("bulk persist: payload unrecoverable in cache and pending-jobs table")
	return cerrors.NewDataLossPreventionError(
		"bulk: payload " + job.PayloadKey + " for batch " + job.BatchID + " could not be recovered from cache or the pending-jobs table",
	)
}

// recoverOldestPending claims and applies the oldest pending job
// reference, for the worker-restart recovery path where a job is handed
// an unnamed/empty payload key.
func (p *Pipeline) recoverOldestPending(ctx context.Context) error {
	job, ok, err := p.coll.PopOldestPendingJob(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	log.Warn().Str("bulk_op", job.BulkOpID).Str("key", job.Key).
		Msg("bulk persist: recovering orphaned pending job")
	return p.applyPayload(ctx, job.BulkOpID, job.Key, job.Payload)
}

// applyPayload merges every term in the decoded payload into the remote
// tier via AtomicMerge (idempotent: re-applying an already-merged snapshot
// sets the same docID fields again), marks the batch persisted, then
// deletes the pending-jobs reference before the cached payload. That
// order matters: if the worker crashes between the two deletes, what is
// left is an orphan cached payload that expires after payloadTTL, never a
// pending-jobs reference to a batch that has already been persisted.
func (p *Pipeline) applyPayload(ctx context.Context, bulkOpID, payloadKey string, raw []byte) error {
	var pl payload
	if err := json.Unmarshal(raw, &pl); err != nil {
		return cerrors.NewInvalidConfigError("bulk.applyPayload: " + err.Error())
	}

	for termKey, list := range pl.Postings {
		indexName, field, term, ok := index.SplitTermKey(termKey)
		if !ok {
			continue
		}
		postings := make(map[string]index.PostingEntry, len(list))
		for _, e := range list {
			postings[e.DocID] = e
		}
		if err := p.remote.AtomicMerge(ctx, indexName, field+":"+term, postings); err != nil {
			return err
		}
	}

	if err := p.tracker.MarkBatchPersisted(ctx, bulkOpID); err != nil {
		return err
	}

	_ = p.coll.DeletePendingJob(ctx, payloadKey)
	_ = p.cache.DeletePayload(ctx, payloadKey)
	return nil
}
