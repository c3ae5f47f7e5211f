/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mocks

import (
	"github.com/sandrask/sidetree/pkg/api/protocol"
)

// MockProtocolClient mocks the protocol client for testing purposes.
type MockProtocolClient struct {
	Protocol protocol.Protocol
}

// NewMockProtocolClient creates a mock protocol client with default protocol parameters.
func NewMockProtocolClient() *MockProtocolClient {
	return &MockProtocolClient{
		Protocol: protocol.Protocol{
			StartingBlockChainTime:       0,
			HashAlgorithmInMultiHashCode: 18, // sha2-256
			MaxOperationsPerBatch:        100,
			MaxOperationByteSize:         2000,
		},
	}
}

// Current returns the latest version of the protocol.
func (m *MockProtocolClient) Current() protocol.Protocol {
	return m.Protocol
}
