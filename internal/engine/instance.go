package engine

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ogini-search/core/index"
	"github.com/ogini-search/core/internal/analysis"
	"github.com/ogini-search/core/internal/bulk"
	"github.com/ogini-search/core/internal/docproc"
	cerrors "github.com/ogini-search/core/internal/errors"
	"github.com/ogini-search/core/internal/indexing"
	"github.com/ogini-search/core/internal/kv"
	"github.com/ogini-search/core/internal/remotecache"
	"github.com/ogini-search/core/internal/remotestore"
	"github.com/ogini-search/core/internal/search"
	"github.com/ogini-search/core/internal/tracker"
	"github.com/ogini-search/core/model"
	"github.com/ogini-search/core/store"
)

// Index bundles one index's collaborators: the document store, the
// indexing service (hot/KV/stats writer), the posting-list reader, the
// bulk-indexing pipeline, and its operation tracker. The hot tier, KV
// tier, remote tier, and remote cache it wraps are shared with every
// other Index in the same Engine.
type Index struct {
	name string
	meta model.IndexMeta

	docs    *store.DocumentStore
	indexer *indexing.Service
	reader  *search.Reader
	tracker *tracker.Tracker
	bulk    *bulk.Pipeline
}

func newIndex(
	name string,
	meta model.IndexMeta,
	hot *index.HotTier,
	kvStore *kv.Store,
	remote *remotestore.Store,
	cache *remotecache.Cache,
	registry *analysis.Registry,
	indexingWorkers int,
) (*Index, error) {
	processor := docproc.NewProcessor(registry)
	mapping := docproc.ToMapping(meta.Mapping)

	docs := store.NewDocumentStore(kvStore, name)
	if err := docs.LoadAll(); err != nil {
		return nil, err
	}

	if err := restoreHotSnapshot(kvStore, name, hot); err != nil {
		log.Warn().Err(err).Str("index", name).Msg("engine: failed to restore hot-tier snapshot, starting cold")
	}

	svc := indexing.NewService(name, hot, kvStore, remote, docs, processor, mapping)
	reader := search.NewReader(hot, kvStore, remote)
	tr := tracker.New(cache)
	pipeline := bulk.New(name, svc, tr, cache, remote, indexingWorkers)

	return &Index{
		name:    name,
		meta:    meta,
		docs:    docs,
		indexer: svc,
		reader:  reader,
		tracker: tr,
		bulk:    pipeline,
	}, nil
}

// Name returns the index's registered name.
func (i *Index) Name() string { return i.name }

// Meta returns the index's metadata with its live document count filled
// in from the indexing service's atomic counter.
func (i *Index) Meta() model.IndexMeta {
	meta := i.meta
	meta.DocumentCount = i.indexer.DocumentCount()
	return meta
}

// Indexer exposes the single-document indexing path.
func (i *Index) Indexer() *indexing.Service { return i.indexer }

// Reader exposes the posting-list query interface.
func (i *Index) Reader() *search.Reader { return i.reader }

// Bulk exposes the bulk-indexing pipeline.
func (i *Index) Bulk() *bulk.Pipeline { return i.bulk }

// Tracker exposes the bulk-operation tracker.
func (i *Index) Tracker() *tracker.Tracker { return i.tracker }

// DocumentStore exposes the processed-document store.
func (i *Index) DocumentStore() *store.DocumentStore { return i.docs }

// restoreHotSnapshot loads a previously persisted hot-tier snapshot for
// name, if one exists, and replays its term entries into hot. A missing
// snapshot is not an error: the hot tier is a cache over the KV and
// remote tiers, so the worst case is a cold start that refills on demand.
func restoreHotSnapshot(kvStore *kv.Store, name string, hot *index.HotTier) error {
	raw, ok, err := kvStore.Get(kv.HotSnapshotKey(name))
	if err != nil || !ok {
		return err
	}

	snap := index.NewSnapshot()
	if err := snap.GobDecode(raw); err != nil {
		return cerrors.NewInvalidConfigError("engine.restoreHotSnapshot: " + err.Error())
	}
	snap.Restore(hot)
	return nil
}

// persistHotSnapshot captures whichever of name's term keys are currently
// resident in the hot tier and writes them to the KV tier under
// kv.HotSnapshotKey, for the next restoreHotSnapshot to replay.
func persistHotSnapshot(kvStore *kv.Store, name string, hot *index.HotTier) error {
	entries, err := kvStore.GetByPrefix(kv.TermPrefix(name))
	if err != nil {
		return err
	}

	termKeys := make([]string, 0, len(entries))
	for _, e := range entries {
		termKeys = append(termKeys, strings.TrimPrefix(e.Key, "term:"))
	}

	snap := index.NewSnapshot()
	snap.Capture(hot, termKeys)

	raw, err := snap.GobEncode()
	if err != nil {
		return cerrors.NewInvalidConfigError("engine.persistHotSnapshot: " + err.Error())
	}
	return kvStore.Put(kv.HotSnapshotKey(name), raw)
}
