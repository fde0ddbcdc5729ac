package bulk

import (
	"context"
	"encoding/json"
	"time"

	cerrors "github.com/ogini-search/core/internal/errors"
	"github.com/ogini-search/core/internal/remotecache"
	"github.com/ogini-search/core/internal/remotestore"
)

// payloadTTL bounds how long a staged payload survives in the cache before
// the persistence worker must have claimed it. The pending-jobs table is
// the durable fallback once it expires.
const payloadTTL = 24 * time.Hour

func payloadKey(bulkOpID, batchID string) string {
	return "bulkpayload:" + bulkOpID + ":" + batchID
}

// stagePayload writes p to the cache and then mirrors a durable reference
// to the pending-jobs table. If the mirror write fails, the error is
// returned (so the batch job fails and is retried) and the cached copy is
// left to expire after payloadTTL.
func stagePayload(ctx context.Context, cache *remotecache.Cache, coll remotestore.Collection, p payload) (string, error) {
	key := payloadKey(p.BulkOpID, p.BatchID)

	raw, err := json.Marshal(p)
	if err != nil {
		return "", cerrors.NewInvalidConfigError("bulk.stagePayload: " + err.Error())
	}

	if err := cache.StagePayload(ctx, key, raw, payloadTTL); err != nil {
		return "", err
	}

	job := remotestore.PendingJob{
		Key:       key,
		IndexName: p.IndexName,
		BatchID:   p.BatchID,
		BulkOpID:  p.BulkOpID,
		Payload:   raw,
		CreatedAt: time.Now(),
	}
	if err := coll.PutPendingJob(ctx, job); err != nil {
		return "", err
	}

	return key, nil
}

// resolvePayload recovers a staged payload given the job's own PayloadKey.
// It tries the cache first and falls back to the pending-jobs table on a
// miss, since the cache is allowed to evict payloads the pending-jobs
// table still holds durably. The fallback looks the key up directly rather
// than popping the oldest pending entry: several indexing workers stage
// batches in parallel, so the pending-jobs table routinely holds more than
// one un-persisted reference at a time, and the one this worker wants is
// not necessarily the oldest.
func resolvePayload(ctx context.Context, cache *remotecache.Cache, coll remotestore.Collection, key string) ([]byte, bool, error) {
	raw, ok, err := cache.GetPayload(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if ok {
		return raw, true, nil
	}

	job, found, err := coll.FindPendingJobByKey(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}
	return job.Payload, true, nil
}
