package bulk

import (
	"context"

	cerrors "github.com/ogini-search/core/internal/errors"
	"github.com/ogini-search/core/index"
)

// handleIndexingJob dispatches a job pulled off the indexing queue.
func (p *Pipeline) handleIndexingJob(ctx context.Context, jobName string, raw any) error {
	switch jobName {
	case "batch":
		job, ok := raw.(batchJob)
		if !ok {
			return cerrors.NewInvalidConfigError("bulk: indexing job payload is not a batchJob")
		}
		return p.handleBatchJob(ctx, job)
	default:
		return cerrors.NewInvalidConfigError("bulk: unknown indexing job " + jobName)
	}
}

// handleBatchJob indexes one batch's documents in sub-batches of
// subBatchSize, stages the batch's dirty terms as a persistence payload,
// enqueues the matching persist-batch-terms job, and marks the batch
// indexed in the tracker. It reports no progress while the batch runs.
func (p *Pipeline) handleBatchJob(ctx context.Context, job batchJob) error {
	dirtySeen := make(map[string]struct{})
	var dirty []string
	markDirty := func(key string) {
		if _, ok := dirtySeen[key]; ok {
			return
		}
		dirtySeen[key] = struct{}{}
		dirty = append(dirty, key)
	}

	for i := 0; i < len(job.Documents); i += subBatchSize {
		end := i + subBatchSize
		if end > len(job.Documents) {
			end = len(job.Documents)
		}

		for _, doc := range job.Documents[i:end] {
			keys, err := p.svc.IndexDocument(ctx, doc.ID, doc.Source, true)
			if err != nil {
				return err
			}
			for _, k := range keys {
				markDirty(k)
			}
		}
	}

	if len(dirty) > 0 {
		if err := p.tracker.PushDirtyTerms(ctx, job.BulkOpID, dirty); err != nil {
			return err
		}
	}

	snapshot := make(map[string]index.PostingList, len(dirty))
	for _, key := range dirty {
		list, _ := p.svc.Hot().Get(key)
		snapshot[key] = list
	}

	key, err := stagePayload(ctx, p.cache, p.coll, payload{
		IndexName: job.IndexName,
		BatchID:   job.BatchID,
		BulkOpID:  job.BulkOpID,
		Postings:  snapshot,
	})
	if err != nil {
		return err
	}

	p.persistenceQueue.Enqueue("persist-batch-terms", persistJob{
		IndexName:  job.IndexName,
		BatchID:    job.BatchID,
		BulkOpID:   job.BulkOpID,
		PayloadKey: key,
	})

	return p.tracker.MarkBatchIndexed(ctx, job.BulkOpID)
}
