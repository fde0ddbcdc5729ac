package engine

import (
	"encoding/json"

	"github.com/ogini-search/core/internal/kv"
	"github.com/ogini-search/core/model"
)

// saveMeta persists an index's settings and mapping to the KV tier so a
// restarted process can rediscover which indexes exist.
func saveMeta(kvStore *kv.Store, name string, meta model.IndexMeta) error {
	raw, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return kvStore.Put(kv.MetaKey(name), raw)
}

// loadMeta reads a previously persisted index's metadata back from the KV
// tier. ok is false if no index of that name was ever created.
func loadMeta(kvStore *kv.Store, name string) (model.IndexMeta, bool, error) {
	raw, ok, err := kvStore.Get(kv.MetaKey(name))
	if err != nil || !ok {
		return model.IndexMeta{}, ok, err
	}
	var meta model.IndexMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		return model.IndexMeta{}, false, err
	}
	return meta, true, nil
}
