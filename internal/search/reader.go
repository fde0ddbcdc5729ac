// Package search implements the posting-list query interface consumed by
// the (out-of-scope) query-execution layer: resolving a term key through
// the hot/KV/remote tiers, and scoring a single term/document pair with
// BM25. Full query parsing, filtering, and ranking sit above this package
// and are not part of this core.
package search

import (
	"context"
	"encoding/json"

	"github.com/ogini-search/core/index"
	"github.com/ogini-search/core/internal/kv"
	"github.com/ogini-search/core/internal/remotestore"
)

// Reader resolves posting lists for a term key through the hot tier, then
// the embedded KV tier, then the remote chunked tier — populating the hot
// tier on a durable-tier hit so the next lookup is fast.
type Reader struct {
	hot    *index.HotTier
	kv     *kv.Store
	remote *remotestore.Store
}

// NewReader wires a Reader over one index's storage tiers.
func NewReader(hot *index.HotTier, kvStore *kv.Store, remote *remotestore.Store) *Reader {
	return &Reader{hot: hot, kv: kvStore, remote: remote}
}

// Resolve returns the posting list for termKey (an index:field:term key, as
// built by index.TermKey/index.AllFieldsKey), trying the hot tier, then the
// KV tier, then the remote tier in that order.
func (r *Reader) Resolve(ctx context.Context, termKey string) (index.PostingList, error) {
	if list, ok := r.hot.Get(termKey); ok {
		return list, nil
	}

	if r.kv != nil {
		raw, ok, err := r.kv.Get(kv.TermKey(termKey))
		if err != nil {
			return nil, err
		}
		if ok {
			var list index.PostingList
			if err := json.Unmarshal(raw, &list); err != nil {
				return nil, err
			}
			r.hot.Put(termKey, list)
			return list, nil
		}
	}

	indexName, field, term, ok := index.SplitTermKey(termKey)
	if !ok {
		return index.PostingList{}, nil
	}
	list, err := r.remote.Read(ctx, indexName, field+":"+term)
	if err != nil {
		return nil, err
	}
	r.hot.Put(termKey, list)
	return list, nil
}
