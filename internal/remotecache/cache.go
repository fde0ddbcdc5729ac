// Package remotecache implements the remote in-memory cache tier: the
// durable dirty-term list, payload staging for crash-safe persistence
// jobs, and the asynchronous tracker mirror. Backed by Redis.
package remotecache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	cerrors "github.com/ogini-search/core/internal/errors"
)

// dirtyListBatchSize is the fixed batch size the persistence worker drains
// the dirty list in, per the concurrency model's dirty-list contract.
const dirtyListBatchSize = 100

// Cache wraps a Redis client with the operations the bulk pipeline and
// tracker need: dirty-term lists, payload staging, and JSON blob mirrors.
type Cache struct {
	client *redis.Client
}

// New connects to addr (host:port).
func New(addr string) *Cache {
	return &Cache{client: redis.NewClient(&redis.Options{Addr: addr})}
}

// NewWithClient wraps an already-configured client (used in tests with
// miniredis, or when the caller wants custom dial options).
func NewWithClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Close releases the underlying connection pool.
func (c *Cache) Close() error {
	return c.client.Close()
}

func dirtyListKey(bulkOpID string) string {
	return "dirty:" + bulkOpID
}

// PushDirtyTerms appends terms to the right of the bulk operation's dirty
// list (RPUSH/LPOP in fixed batches of 100, per the concurrency model).
func (c *Cache) PushDirtyTerms(ctx context.Context, bulkOpID string, terms []string) error {
	if len(terms) == 0 {
		return nil
	}
	args := make([]any, len(terms))
	for i, t := range terms {
		args[i] = t
	}
	if err := c.client.RPush(ctx, dirtyListKey(bulkOpID), args...).Err(); err != nil {
		return cerrors.NewTransientIOError("remotecache.PushDirtyTerms", err)
	}
	return nil
}

// PopDirtyTermsBatch pops up to dirtyListBatchSize terms from the left of
// the dirty list. An empty result (nil, nil) means the list is currently
// empty, not an error.
func (c *Cache) PopDirtyTermsBatch(ctx context.Context, bulkOpID string) ([]string, error) {
	terms, err := c.client.LPopCount(ctx, dirtyListKey(bulkOpID), dirtyListBatchSize).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, cerrors.NewTransientIOError("remotecache.PopDirtyTermsBatch", err)
	}
	return terms, nil
}

// DirtyListLength reports the dirty list's current length.
func (c *Cache) DirtyListLength(ctx context.Context, bulkOpID string) (int64, error) {
	n, err := c.client.LLen(ctx, dirtyListKey(bulkOpID)).Result()
	if err != nil {
		return 0, cerrors.NewTransientIOError("remotecache.DirtyListLength", err)
	}
	return n, nil
}

// DeleteDirtyList removes a bulk operation's dirty list entirely. Per the
// persistence worker's contract, this is a drain-only operation: it never
// writes posting data, only clears the queue of term names still to be
// merged by per-batch jobs.
func (c *Cache) DeleteDirtyList(ctx context.Context, bulkOpID string) error {
	if err := c.client.Del(ctx, dirtyListKey(bulkOpID)).Err(); err != nil {
		return cerrors.NewTransientIOError("remotecache.DeleteDirtyList", err)
	}
	return nil
}

// StagePayload writes a job payload to the cache under key, with a TTL so
// an abandoned staging entry doesn't live forever.
func (c *Cache) StagePayload(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return cerrors.NewTransientIOError("remotecache.StagePayload", err)
	}
	return nil
}

// GetPayload reads a staged payload. ok is false on a cache miss (the
// caller should fall back to the remote store's pending-jobs table).
func (c *Cache) GetPayload(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, cerrors.NewTransientIOError("remotecache.GetPayload", err)
	}
	return v, true, nil
}

// DeletePayload removes a staged payload.
func (c *Cache) DeletePayload(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return cerrors.NewTransientIOError("remotecache.DeletePayload", err)
	}
	return nil
}

// SaveJSON mirrors an arbitrary value (the bulk-operation tracker record)
// to the cache as JSON under key.
func (c *Cache) SaveJSON(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return cerrors.NewInvalidConfigError("remotecache.SaveJSON: " + err.Error())
	}
	if err := c.client.Set(ctx, key, b, 0).Err(); err != nil {
		return cerrors.NewTransientIOError("remotecache.SaveJSON", err)
	}
	return nil
}

// LoadJSON reads a JSON mirror back into v. ok is false on a cache miss.
func (c *Cache) LoadJSON(ctx context.Context, key string, v any) (bool, error) {
	b, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, cerrors.NewTransientIOError("remotecache.LoadJSON", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return false, cerrors.NewPersistenceError("remotecache.LoadJSON:unmarshal", err)
	}
	return true, nil
}

// DeleteJSON removes a JSON mirror entry.
func (c *Cache) DeleteJSON(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return cerrors.NewTransientIOError("remotecache.DeleteJSON", err)
	}
	return nil
}
