// Package kv implements the embedded, locally durable key-value tier: a
// fast mirror of term postings and structured rows that survives a
// process restart even when the remote tier hasn't been reached yet.
package kv

import (
	"bytes"
	"time"

	bolt "go.etcd.io/bbolt"

	cerrors "github.com/ogini-search/core/internal/errors"
)

// bucketName is the single bbolt bucket everything lives in. Namespacing
// is done via key prefix (idx:, term:, stats:) rather than separate
// buckets, so a prefix scan across "term:" can use one cursor instead of
// iterating buckets.
var bucketName = []byte("kv")

// Store is the embedded KV tier, backed by a bbolt database file.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if needed) a bbolt database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, cerrors.NewTransientIOError("kv.Open", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, cerrors.NewPersistenceError("kv.Open:createBucket", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the raw value for key, and false if it doesn't exist.
func (s *Store) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketName).Get([]byte(key))
		if v != nil {
			value = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, cerrors.NewTransientIOError("kv.Get", err)
	}
	return value, value != nil, nil
}

// Put writes key/value synchronously.
func (s *Store) Put(key string, value []byte) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), value)
	})
	if err != nil {
		return cerrors.NewPersistenceError("kv.Put", err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(key))
	})
	if err != nil {
		return cerrors.NewPersistenceError("kv.Delete", err)
	}
	return nil
}

// Entry is one key/value pair returned by GetByPrefix.
type Entry struct {
	Key   string
	Value []byte
}

// GetByPrefix returns every key/value pair whose key starts with prefix,
// in key order.
func (s *Store) GetByPrefix(prefix string) ([]Entry, error) {
	var entries []Entry
	pfx := []byte(prefix)

	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketName).Cursor()
		for k, v := c.Seek(pfx); k != nil && bytes.HasPrefix(k, pfx); k, v = c.Next() {
			entries = append(entries, Entry{
				Key:   string(k),
				Value: append([]byte(nil), v...),
			})
		}
		return nil
	})
	if err != nil {
		return nil, cerrors.NewTransientIOError("kv.GetByPrefix", err)
	}
	return entries, nil
}

// DeleteByPrefix removes every key starting with prefix, returning the
// count removed. Used to purge all rows for a deleted index.
func (s *Store) DeleteByPrefix(prefix string) (int, error) {
	pfx := []byte(prefix)
	count := 0

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		c := b.Cursor()
		var keys [][]byte
		for k, _ := c.Seek(pfx); k != nil && bytes.HasPrefix(k, pfx); k, _ = c.Next() {
			keys = append(keys, append([]byte(nil), k...))
		}
		for _, k := range keys {
			if err := b.Delete(k); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, cerrors.NewPersistenceError("kv.DeleteByPrefix", err)
	}
	return count, nil
}
