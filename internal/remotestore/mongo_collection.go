package remotestore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ogini-search/core/index"
	cerrors "github.com/ogini-search/core/internal/errors"
)

// MongoCollection is the production Collection implementation, backed by
// two MongoDB collections: chunks (the authoritative posting storage) and
// pending_jobs (the durable payload-staging mirror from §4.9).
type MongoCollection struct {
	chunks      *mongo.Collection
	pendingJobs *mongo.Collection
}

// NewMongoCollection wires a Collection against the given database's
// "chunks" and "pending_jobs" collections.
func NewMongoCollection(db *mongo.Database) *MongoCollection {
	return &MongoCollection{
		chunks:      db.Collection("chunks"),
		pendingJobs: db.Collection("pending_jobs"),
	}
}

func chunkFilter(indexName, term string, chunkIndex int) bson.M {
	return bson.M{"indexName": indexName, "term": term, "chunkIndex": chunkIndex}
}

func (m *MongoCollection) FindOne(ctx context.Context, indexName, term string, chunkIndex int) (Chunk, bool, error) {
	var c Chunk
	err := m.chunks.FindOne(ctx, chunkFilter(indexName, term, chunkIndex)).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return Chunk{}, false, nil
	}
	if err != nil {
		return Chunk{}, false, cerrors.NewTransientIOError("remotestore.FindOne", err)
	}
	return c, true, nil
}

func (m *MongoCollection) Find(ctx context.Context, indexName, term string) ([]Chunk, error) {
	opts := options.Find().SetSort(bson.M{"chunkIndex": 1})
	cur, err := m.chunks.Find(ctx, bson.M{"indexName": indexName, "term": term}, opts)
	if err != nil {
		return nil, cerrors.NewTransientIOError("remotestore.Find", err)
	}
	defer cur.Close(ctx)

	var chunks []Chunk
	if err := cur.All(ctx, &chunks); err != nil {
		return nil, cerrors.NewTransientIOError("remotestore.Find:decode", err)
	}
	return chunks, nil
}

func (m *MongoCollection) UpsertChunk(ctx context.Context, chunk Chunk) error {
	chunk.LastUpdated = chunk.LastUpdated.UTC()
	_, err := m.chunks.ReplaceOne(ctx,
		chunkFilter(chunk.IndexName, chunk.Term, chunk.ChunkIndex),
		chunk,
		options.Replace().SetUpsert(true))
	if err != nil {
		return cerrors.NewPersistenceError("remotestore.UpsertChunk", err)
	}
	return nil
}

// MergePostings sets postings.{docId} for each entry in a single upsert,
// never reading the chunk first: a transient read failure can never erase
// previously merged data, matching §4.5's atomic-merge contract.
func (m *MongoCollection) MergePostings(ctx context.Context, indexName, term string, chunkIndex int, postings map[string]index.PostingEntry) error {
	set := bson.M{
		"indexName":   indexName,
		"term":        term,
		"chunkIndex":  chunkIndex,
		"lastUpdated": time.Now().UTC(),
	}
	for docID, entry := range postings {
		set[fmt.Sprintf("postings.%s", docID)] = entry
	}
	inc := bson.M{"documentCount": len(postings)}

	_, err := m.chunks.UpdateOne(ctx,
		chunkFilter(indexName, term, chunkIndex),
		bson.M{"$set": set, "$inc": inc},
		options.Update().SetUpsert(true))
	if err != nil {
		return cerrors.NewPersistenceError("remotestore.MergePostings", err)
	}
	return nil
}

func (m *MongoCollection) DeleteChunksFrom(ctx context.Context, indexName, term string, fromChunkIndex int) (int64, error) {
	res, err := m.chunks.DeleteMany(ctx, bson.M{
		"indexName":  indexName,
		"term":       term,
		"chunkIndex": bson.M{"$gte": fromChunkIndex},
	})
	if err != nil {
		return 0, cerrors.NewPersistenceError("remotestore.DeleteChunksFrom", err)
	}
	return res.DeletedCount, nil
}

func (m *MongoCollection) DeleteAllForIndex(ctx context.Context, indexName string) (int64, error) {
	res, err := m.chunks.DeleteMany(ctx, bson.M{"indexName": indexName})
	if err != nil {
		return 0, cerrors.NewPersistenceError("remotestore.DeleteAllForIndex", err)
	}
	return res.DeletedCount, nil
}

func (m *MongoCollection) DeleteAllForTerm(ctx context.Context, indexName, term string) (int64, error) {
	res, err := m.chunks.DeleteMany(ctx, bson.M{"indexName": indexName, "term": term})
	if err != nil {
		return 0, cerrors.NewPersistenceError("remotestore.DeleteAllForTerm", err)
	}
	return res.DeletedCount, nil
}

func (m *MongoCollection) DistinctTermsWithPrefix(ctx context.Context, indexName, fieldValuePrefix string) ([]string, error) {
	filter := bson.M{
		"indexName": indexName,
		"term":      bson.M{"$regex": "^" + fieldValuePrefix},
	}
	values, err := m.chunks.Distinct(ctx, "term", filter)
	if err != nil {
		return nil, cerrors.NewTransientIOError("remotestore.DistinctTermsWithPrefix", err)
	}

	terms := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			terms = append(terms, s)
		}
	}
	return terms, nil
}

func (m *MongoCollection) PutPendingJob(ctx context.Context, job PendingJob) error {
	job.CreatedAt = job.CreatedAt.UTC()
	_, err := m.pendingJobs.ReplaceOne(ctx,
		bson.M{"key": job.Key}, job, options.Replace().SetUpsert(true))
	if err != nil {
		return cerrors.NewPersistenceError("remotestore.PutPendingJob", err)
	}
	return nil
}

func (m *MongoCollection) PopOldestPendingJob(ctx context.Context) (PendingJob, bool, error) {
	opts := options.FindOneAndDelete().SetSort(bson.M{"createdAt": 1})
	var job PendingJob
	err := m.pendingJobs.FindOneAndDelete(ctx, bson.M{}, opts).Decode(&job)
	if err == mongo.ErrNoDocuments {
		return PendingJob{}, false, nil
	}
	if err != nil {
		return PendingJob{}, false, cerrors.NewTransientIOError("remotestore.PopOldestPendingJob", err)
	}
	return job, true, nil
}

func (m *MongoCollection) FindPendingJobByKey(ctx context.Context, key string) (PendingJob, bool, error) {
	var job PendingJob
	err := m.pendingJobs.FindOne(ctx, bson.M{"key": key}).Decode(&job)
	if err == mongo.ErrNoDocuments {
		return PendingJob{}, false, nil
	}
	if err != nil {
		return PendingJob{}, false, cerrors.NewTransientIOError("remotestore.FindPendingJobByKey", err)
	}
	return job, true, nil
}

func (m *MongoCollection) DeletePendingJob(ctx context.Context, key string) error {
	_, err := m.pendingJobs.DeleteOne(ctx, bson.M{"key": key})
	if err != nil {
		return cerrors.NewPersistenceError("remotestore.DeletePendingJob", err)
	}
	return nil
}
