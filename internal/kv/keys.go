package kv

// Key-building helpers for the three namespaces the embedded KV tier
// holds: idx:{index}:{kind}:{id} structured rows, term:{termKey} serialized
// posting lists, stats:{index}:{metric} numeric stats.

func DocKey(indexName, docID string) string {
	return "idx:" + indexName + ":doc:" + docID
}

func DocPrefix(indexName string) string {
	return "idx:" + indexName + ":doc:"
}

func MetaKey(indexName string) string {
	return "idx:" + indexName + ":meta"
}

func IndexPrefix(indexName string) string {
	return "idx:" + indexName + ":"
}

func TermKey(termKey string) string {
	return "term:" + termKey
}

func TermPrefix(indexName string) string {
	return "term:" + indexName + ":"
}

func StatsKey(indexName, metric string) string {
	return "stats:" + indexName + ":" + metric
}

func StatsPrefix(indexName string) string {
	return "stats:" + indexName + ":"
}

func HotSnapshotKey(indexName string) string {
	return "idx:" + indexName + ":hotsnapshot"
}
