package model

import (
	"time"

	"github.com/ogini-search/core/config"
	"github.com/ogini-search/core/internal/docproc"
)

// IndexMeta is the persisted registration record for one index: its
// settings, derived document mapping, creation time, and running document
// count. It is the authoritative row the metadata store owns; posting
// data lives in the hot/KV/remote tiers, keyed by index name only.
type IndexMeta struct {
	Settings      config.IndexSettings `json:"settings"`
	Mapping       docproc.IndexMapping `json:"mapping"`
	CreatedAt     time.Time            `json:"createdAt"`
	DocumentCount int64                `json:"documentCount"`
}
