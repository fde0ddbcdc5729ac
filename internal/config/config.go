// Package config loads the runtime configuration for the storage tiers and
// search ranking that cmd/search_engine wires at startup: Redis connection,
// embedded KV path, hot-tier sizing, and BM25 defaults. Generalizes the
// binary's plain flag.Bool/flag.String pairs (cmd/search_engine/main.go) and
// config.IndexSettings' compile-time ranking defaults into the ~10 env-driven
// knobs a multi-tier engine needs at process start.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// FieldWeight pins one searchable field's contribution to a document's BM25
// score, parsed from SEARCH_FIELD_WEIGHTS ("title:3,description:1").
type FieldWeight struct {
	Field  string
	Weight float64
}

// Config is the fully-resolved runtime configuration, defaults applied.
type Config struct {
	RedisHost string
	RedisPort int

	KVPath string

	// MongoURI is the chunked remote tier's connection string. Empty means
	// no Mongo is configured; cmd/search_engine falls back to an in-process
	// memory collection so the binary still runs for local development.
	MongoURI string
	MongoDB  string

	HotTierCapacity int
	IndexingWorkers int

	MaxCacheSize          int
	EvictionThreshold     float64
	GCInterval            time.Duration
	MemoryMonitorInterval time.Duration

	BM25K1 float64
	BM25B  float64

	SearchFields       []string
	SearchFieldWeights []FieldWeight

	BatchSize              int
	PersistenceConcurrency int
}

// Load reads configuration from environment variables (and any process
// flags viper has been bound to), applying documented defaults for
// anything unset.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("")
	v.AutomaticEnv()

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("KV_PATH", "./search_data/kv.db")
	v.SetDefault("MAX_CACHE_SIZE", 100000)
	v.SetDefault("EVICTION_THRESHOLD", 0.9)
	v.SetDefault("GC_INTERVAL", "5m")
	v.SetDefault("MEMORY_MONITOR_INTERVAL", "30s")
	v.SetDefault("SEARCH_BM25_K1", 1.2)
	v.SetDefault("SEARCH_BM25_B", 0.75)
	v.SetDefault("SEARCH_FIELDS", "")
	v.SetDefault("SEARCH_FIELD_WEIGHTS", "")
	v.SetDefault("BULK_BATCH_SIZE", 1000)
	v.SetDefault("PERSISTENCE_CONCURRENCY", 1)
	v.SetDefault("MONGO_URI", "")
	v.SetDefault("MONGO_DB", "ogini")
	v.SetDefault("HOT_TIER_CAPACITY", 100000)
	v.SetDefault("INDEXING_WORKERS", 4)

	gcInterval, err := time.ParseDuration(v.GetString("GC_INTERVAL"))
	if err != nil {
		return nil, fmt.Errorf("config: invalid GC_INTERVAL: %w", err)
	}
	memInterval, err := time.ParseDuration(v.GetString("MEMORY_MONITOR_INTERVAL"))
	if err != nil {
		return nil, fmt.Errorf("config: invalid MEMORY_MONITOR_INTERVAL: %w", err)
	}

	weights, err := parseFieldWeights(v.GetString("SEARCH_FIELD_WEIGHTS"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		RedisHost: v.GetString("REDIS_HOST"),
		RedisPort: v.GetInt("REDIS_PORT"),

		KVPath: v.GetString("KV_PATH"),

		MongoURI: v.GetString("MONGO_URI"),
		MongoDB:  v.GetString("MONGO_DB"),

		HotTierCapacity: v.GetInt("HOT_TIER_CAPACITY"),
		IndexingWorkers: v.GetInt("INDEXING_WORKERS"),

		MaxCacheSize:          v.GetInt("MAX_CACHE_SIZE"),
		EvictionThreshold:     v.GetFloat64("EVICTION_THRESHOLD"),
		GCInterval:            gcInterval,
		MemoryMonitorInterval: memInterval,

		BM25K1: v.GetFloat64("SEARCH_BM25_K1"),
		BM25B:  v.GetFloat64("SEARCH_BM25_B"),

		SearchFields:       splitNonEmpty(v.GetString("SEARCH_FIELDS")),
		SearchFieldWeights: weights,

		BatchSize:              v.GetInt("BULK_BATCH_SIZE"),
		PersistenceConcurrency: v.GetInt("PERSISTENCE_CONCURRENCY"),
	}

	if cfg.EvictionThreshold <= 0 || cfg.EvictionThreshold > 1 {
		return nil, fmt.Errorf("config: EVICTION_THRESHOLD must be in (0, 1], got %v", cfg.EvictionThreshold)
	}
	if cfg.MaxCacheSize <= 0 {
		return nil, fmt.Errorf("config: MAX_CACHE_SIZE must be positive, got %d", cfg.MaxCacheSize)
	}

	return cfg, nil
}

// RedisAddr is the host:port form go-redis expects.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

func splitNonEmpty(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseFieldWeights(s string) ([]FieldWeight, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	weights := make([]FieldWeight, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		kv := strings.SplitN(p, ":", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("config: malformed SEARCH_FIELD_WEIGHTS entry %q, want field:weight", p)
		}
		var weight float64
		if _, err := fmt.Sscanf(kv[1], "%g", &weight); err != nil {
			return nil, fmt.Errorf("config: malformed weight in SEARCH_FIELD_WEIGHTS entry %q: %w", p, err)
		}
		weights = append(weights, FieldWeight{Field: strings.TrimSpace(kv[0]), Weight: weight})
	}
	return weights, nil
}
