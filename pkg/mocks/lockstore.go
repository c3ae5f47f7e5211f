/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mocks

import (
	"sync"

	"github.com/sandrask/sidetree/pkg/vtl"
)

// MockLockStore mocks the lock transaction store for testing purposes.
type MockLockStore struct {
	sync.RWMutex
	records []*vtl.LockRecord

	PutErr error
	GetErr error
}

// NewMockLockStore creates a mock lock transaction store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{}
}

// Put appends a record.
func (m *MockLockStore) Put(record *vtl.LockRecord) error {
	if m.PutErr != nil {
		return m.PutErr
	}

	m.Lock()
	defer m.Unlock()

	m.records = append(m.records, record)

	return nil
}

// GetLastLock returns the last appended record, or nil if the store is empty.
func (m *MockLockStore) GetLastLock() (*vtl.LockRecord, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}

	m.RLock()
	defer m.RUnlock()

	if len(m.records) == 0 {
		return nil, nil
	}

	return m.records[len(m.records)-1], nil
}

// Records returns all appended records in insertion order.
func (m *MockLockStore) Records() []*vtl.LockRecord {
	m.RLock()
	defer m.RUnlock()

	return append([]*vtl.LockRecord{}, m.records...)
}
