/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mocks

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/sandrask/sidetree/pkg/api/batch"
	"github.com/sandrask/sidetree/pkg/api/protocol"
	"github.com/sandrask/sidetree/pkg/document"
	"github.com/sandrask/sidetree/pkg/docutil"
	"github.com/sandrask/sidetree/pkg/processor"
)

// MockDocumentHandler mocks the document handler: it anchors operations directly into
// an in-memory store and resolves documents with the operation processor.
type MockDocumentHandler struct {
	namespace      string
	protocolClient protocol.Client
	store          *MockOperationStore
	processor      *processor.OperationProcessor
	txnNumber      uint64

	Err error
}

// NewMockDocumentHandler creates a mock document handler.
func NewMockDocumentHandler() *MockDocumentHandler {
	store := NewMockOperationStore(nil)

	return &MockDocumentHandler{
		namespace:      "did:sidetree",
		protocolClient: NewMockProtocolClient(),
		store:          store,
		processor:      processor.New("mock", store),
	}
}

// WithNamespace sets the namespace.
func (m *MockDocumentHandler) WithNamespace(namespace string) *MockDocumentHandler {
	m.namespace = namespace

	return m
}

// Namespace returns the namespace of the document handler.
func (m *MockDocumentHandler) Namespace() string {
	return m.namespace
}

// Protocol returns the protocol client.
func (m *MockDocumentHandler) Protocol() protocol.Client {
	return m.protocolClient
}

// ProcessOperation anchors the operation and resolves the resulting document.
func (m *MockDocumentHandler) ProcessOperation(op *batch.Operation) (document.Document, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	m.txnNumber++
	op.TransactionNumber = m.txnNumber

	if err := m.store.Put(op); err != nil {
		return nil, err
	}

	return m.processor.Resolve(op.UniqueSuffix)
}

// ResolveDocument resolves the document with the given ID.
func (m *MockDocumentHandler) ResolveDocument(idOrDocument string) (document.Document, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	prefix := m.namespace + docutil.NamespaceDelimiter
	if !strings.HasPrefix(idOrDocument, prefix) {
		return nil, errors.New("bad request: id does not belong to this namespace")
	}

	return m.processor.Resolve(strings.TrimPrefix(idOrDocument, prefix))
}
