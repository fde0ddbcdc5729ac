package index

import (
	"hash/fnv"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// shardCount is the number of fine-grained locks guarding fallthrough
// reads. One process-wide LRU is shared across every index; a single
// mutex around it would serialize a durable-tier fetch behind every other
// term's hot-tier traffic, so lookups that miss are coordinated per-term
// instead.
const shardCount = 256

// HotTier is the bounded, process-wide LRU term dictionary sitting in
// front of the embedded KV tier and the remote chunked store. A miss here
// is never fatal: callers fall through to the durable tiers and populate
// the hot tier with what they find.
type HotTier struct {
	cache  *lru.Cache[string, PostingList]
	shards [shardCount]sync.Mutex
}

// NewHotTier builds a hot tier capped at capacity entries (one entry per
// term key). Eviction is plain LRU; it never triggers a synchronous
// write-through to a durable tier.
func NewHotTier(capacity int) (*HotTier, error) {
	if capacity <= 0 {
		capacity = 1
	}
	c, err := lru.New[string, PostingList](capacity)
	if err != nil {
		return nil, err
	}
	return &HotTier{cache: c}, nil
}

func (h *HotTier) shardFor(key string) *sync.Mutex {
	sum := fnv.New32a()
	_, _ = sum.Write([]byte(key))
	return &h.shards[sum.Sum32()%shardCount]
}

// Get returns the cached posting list for key, if present.
func (h *HotTier) Get(key string) (PostingList, bool) {
	return h.cache.Get(key)
}

// Put inserts or replaces the cached posting list for key.
func (h *HotTier) Put(key string, list PostingList) {
	h.cache.Add(key, list)
}

// Evict drops key from the hot tier, e.g. after a remote-tier delete so a
// stale cached list can't be served.
func (h *HotTier) Evict(key string) {
	h.cache.Remove(key)
}

// Lock acquires the fine-grained lock for key, used to de-duplicate
// concurrent durable-tier fetches for the same term (only one caller
// performs the fallthrough fetch; the rest observe its result via Get
// after Unlock).
func (h *HotTier) Lock(key string) func() {
	m := h.shardFor(key)
	m.Lock()
	return m.Unlock
}

// Len reports the number of entries currently cached.
func (h *HotTier) Len() int {
	return h.cache.Len()
}
