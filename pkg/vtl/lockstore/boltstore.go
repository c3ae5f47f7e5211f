/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package lockstore provides the durable append-only log of lock-monitor actions.
// There is no compaction; history is audit.
package lockstore

import (
	"encoding/binary"
	"encoding/json"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	"github.com/sandrask/sidetree/pkg/vtl"
)

var lockBucket = []byte("locktxns")

// Store is a bbolt-backed lock transaction store. Writes are committed (and fsynced)
// before Put returns, which the monitor's persist-before-broadcast ordering relies on.
type Store struct {
	db *bolt.DB
}

// New opens (creating if needed) a lock transaction store at the given path.
func New(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, errors.Wrap(err, "open lock transaction store")
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(lockBucket)

		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "create lock transaction bucket")
	}

	return &Store{db: db}, nil
}

// Put appends the record to the log. Keys are monotonic sequence numbers so insertion
// order is the iteration order.
func (s *Store) Put(record *vtl.LockRecord) error {
	value, err := json.Marshal(record)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(lockBucket)

		seq, err := bucket.NextSequence()
		if err != nil {
			return err
		}

		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)

		return bucket.Put(key, value)
	})
}

// GetLastLock returns the last appended record, or nil if the store is empty.
func (s *Store) GetLastLock() (*vtl.LockRecord, error) {
	var record *vtl.LockRecord

	err := s.db.View(func(tx *bolt.Tx) error {
		_, value := tx.Bucket(lockBucket).Cursor().Last()
		if value == nil {
			return nil
		}

		record = &vtl.LockRecord{}

		return json.Unmarshal(value, record)
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
