// Package engine is the index registry and lifecycle orchestrator:
// createIndex/getIndex/listIndices/deleteIndex/clearIndex/renameIndex, wiring each
// index's hot-tier, embedded-KV, remote, cache, and bulk-pipeline
// collaborators and persisting index metadata. Kept in the teacher's
// Engine shape (a name->instance map guarded by sync.RWMutex, backed by
// internal/jobs.Manager for long-running admin operations) and
// generalized to the multi-tier storage model this core implements.
package engine

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ogini-search/core/config"
	"github.com/ogini-search/core/index"
	"github.com/ogini-search/core/internal/analysis"
	"github.com/ogini-search/core/internal/docproc"
	cerrors "github.com/ogini-search/core/internal/errors"
	"github.com/ogini-search/core/internal/jobs"
	"github.com/ogini-search/core/internal/kv"
	"github.com/ogini-search/core/internal/remotecache"
	"github.com/ogini-search/core/internal/remotestore"
	"github.com/ogini-search/core/model"
)

// maxAdminWorkers bounds how many create/delete/reindex admin jobs the
// engine's job manager runs concurrently; these are rare, heavier
// operations than document indexing, so a small pool is enough.
const maxAdminWorkers = 4

// Engine owns every index in one process: the shared hot tier, embedded
// KV tier, remote tier, and remote cache are process-wide collaborators;
// each Index wraps them with its own document store, stats, indexing
// service, and bulk pipeline.
type Engine struct {
	mu      sync.RWMutex
	indexes map[string]*Index

	hot              *index.HotTier
	kv               *kv.Store
	remote           *remotestore.Store
	cache            *remotecache.Cache
	analysisRegistry *analysis.Registry
	jobManager       *jobs.Manager

	indexingWorkers int
}

// NewEngine wires an Engine over its shared storage tiers. hotCapacity
// sizes the process-wide term-dictionary LRU; indexingWorkers sizes each
// index's bulk-indexing queue.
func NewEngine(kvStore *kv.Store, coll remotestore.Collection, cache *remotecache.Cache, hotCapacity, indexingWorkers int) (*Engine, error) {
	hot, err := index.NewHotTier(hotCapacity)
	if err != nil {
		return nil, err
	}

	jobManager := jobs.NewManager(maxAdminWorkers)
	jobManager.Start()

	e := &Engine{
		indexes:          make(map[string]*Index),
		hot:              hot,
		kv:               kvStore,
		remote:           remotestore.NewStore(coll),
		cache:            cache,
		analysisRegistry: analysis.NewRegistry(),
		jobManager:       jobManager,
		indexingWorkers:  indexingWorkers,
	}

	if err := e.loadExistingIndices(); err != nil {
		jobManager.Stop()
		return nil, err
	}

	return e, nil
}

// loadExistingIndices rediscovers every index a prior process registered,
// by scanning the KV tier for persisted metadata rows, and re-wires each
// one's collaborators (restoring its hot-tier snapshot along the way via
// newIndex) so a restart doesn't lose the registry.
func (e *Engine) loadExistingIndices() error {
	entries, err := e.kv.GetByPrefix("idx:")
	if err != nil {
		return err
	}

	seen := make(map[string]bool)
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Key, ":meta") {
			continue
		}
		name := strings.TrimSuffix(strings.TrimPrefix(entry.Key, "idx:"), ":meta")
		if seen[name] {
			continue
		}
		seen[name] = true

		meta, ok, err := loadMeta(e.kv, name)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		idx, err := newIndex(name, meta, e.hot, e.kv, e.remote, e.cache, e.analysisRegistry, e.indexingWorkers)
		if err != nil {
			return err
		}
		idx.bulk.Start(context.Background())
		e.indexes[name] = idx
		log.Info().Str("index", name).Msg("index restored from persisted metadata")
	}
	return nil
}

// Stop shuts down every index's bulk pipeline, persisting each index's
// hot-tier snapshot right after its pipeline stops so the next NewEngine
// can warm-restart instead of starting every term cold, and then stops the
// admin job manager.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for name, idx := range e.indexes {
		idx.bulk.Stop()
		if err := persistHotSnapshot(e.kv, name, e.hot); err != nil {
			log.Warn().Err(err).Str("index", name).Msg("engine: failed to persist hot-tier snapshot")
		}
	}
	e.jobManager.Stop()
}

// CreateIndex registers a new index, persists its metadata, and starts its
// bulk pipeline. Returns an IndexAlreadyExistsError if the name is already
// taken.
func (e *Engine) CreateIndex(ctx context.Context, name string, settings config.IndexSettings, mapping docproc.IndexMapping) (*Index, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.indexes[name]; exists {
		return nil, cerrors.NewIndexAlreadyExistsError(name)
	}

	settings.Name = name
	settings.ApplyDefaults()

	meta := model.IndexMeta{
		Settings:  settings,
		Mapping:   mapping,
		CreatedAt: now(),
	}

	idx, err := newIndex(name, meta, e.hot, e.kv, e.remote, e.cache, e.analysisRegistry, e.indexingWorkers)
	if err != nil {
		return nil, err
	}

	if err := saveMeta(e.kv, name, meta); err != nil {
		return nil, err
	}

	idx.bulk.Start(ctx)
	e.indexes[name] = idx
	log.Info().Str("index", name).Msg("index created")
	return idx, nil
}

// GetIndex returns the live Index for name.
func (e *Engine) GetIndex(name string) (*Index, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	idx, ok := e.indexes[name]
	if !ok {
		return nil, cerrors.NewIndexNotFoundError(name)
	}
	return idx, nil
}

// ListIndices returns the metadata of every registered index.
func (e *Engine) ListIndices() []model.IndexMeta {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]model.IndexMeta, 0, len(e.indexes))
	for _, idx := range e.indexes {
		out = append(out, idx.Meta())
	}
	return out
}

// DeleteIndex removes an index's metadata and purges its durable data: the
// KV tier's `idx:{index}:`, `term:{index}:` and `stats:{index}:` rows and
// the remote tier's chunks, and drops the Index (with its in-memory
// document store) from the registry. The hot tier is left to evict
// naturally, since it has no reverse index from key to owning index.
func (e *Engine) DeleteIndex(ctx context.Context, name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx, ok := e.indexes[name]
	if !ok {
		return cerrors.NewIndexNotFoundError(name)
	}
	idx.bulk.Stop()
	delete(e.indexes, name)

	if _, err := e.kv.DeleteByPrefix(kv.IndexPrefix(name)); err != nil {
		return err
	}
	if _, err := e.kv.DeleteByPrefix(kv.TermPrefix(name)); err != nil {
		return err
	}
	if _, err := e.kv.DeleteByPrefix(kv.StatsPrefix(name)); err != nil {
		return err
	}
	err := e.remote.DeleteIndex(ctx, name)
	if err == nil {
		log.Info().Str("index", name).Msg("index deleted")
	}
	return err
}

// ClearIndex removes every document from an index without deleting the
// index itself (settings and mapping are untouched).
func (e *Engine) ClearIndex(ctx context.Context, name string) error {
	e.mu.RLock()
	idx, ok := e.indexes[name]
	e.mu.RUnlock()
	if !ok {
		return cerrors.NewIndexNotFoundError(name)
	}

	docs := idx.docs.List(nil, 0, 0)
	for _, doc := range docs {
		if err := idx.indexer.RemoveDocument(ctx, doc.ID); err != nil {
			return err
		}
	}
	return nil
}

// RenameIndex changes an index's registered name by re-indexing every
// stored document under newName (the storage tiers are scoped by name, not
// by instance), then deleting oldName's metadata row and remote-tier
// chunks; oldName's other KV-tier rows are not removed. Harmless superset
// of spec.md's named operations, kept from the teacher.
func (e *Engine) RenameIndex(ctx context.Context, oldName, newName string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx, ok := e.indexes[oldName]
	if !ok {
		return cerrors.NewIndexNotFoundError(oldName)
	}
	if _, exists := e.indexes[newName]; exists {
		return cerrors.NewIndexAlreadyExistsError(newName)
	}

	newIdx, err := newIndex(newName, idx.Meta(), e.hot, e.kv, e.remote, e.cache, e.analysisRegistry, e.indexingWorkers)
	if err != nil {
		return err
	}
	meta := idx.Meta()
	meta.Settings.Name = newName
	if err := saveMeta(e.kv, newName, meta); err != nil {
		return err
	}

	docs := idx.docs.List(nil, 0, 0)
	for _, doc := range docs {
		if _, err := newIdx.indexer.IndexDocument(ctx, doc.ID, doc.Source, false); err != nil {
			return err
		}
	}

	idx.bulk.Stop()
	newIdx.bulk.Start(ctx)
	delete(e.indexes, oldName)
	e.indexes[newName] = newIdx

	if _, err := e.kv.DeleteByPrefix(kv.MetaKey(oldName)); err != nil {
		return err
	}
	if err := e.remote.DeleteIndex(ctx, oldName); err != nil {
		return err
	}
	log.Info().Str("from", oldName).Str("to", newName).Msg("index renamed")
	return nil
}

// JobManager exposes the admin job manager so callers can run
// create/delete/reindex as tracked background jobs.
func (e *Engine) JobManager() *jobs.Manager { return e.jobManager }

func now() time.Time { return time.Now() }
