/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package batch

import (
	"github.com/sandrask/sidetree/pkg/jws"
	"github.com/sandrask/sidetree/pkg/restapi/model"
)

// Operation defines a parsed operation. Every operation carries its original request
// buffer so that any hash over the request is reproducible byte-for-byte.
type Operation struct {

	// Operation type
	Type OperationType `json:"type"`

	// ID is the full ID for this document - namespace + unique suffix
	ID string `json:"id"`

	// The unique suffix - encoded multihash of the encoded suffix data
	UniqueSuffix string `json:"uniqueSuffix"`

	// OperationBuffer is the original operation request
	OperationBuffer []byte `json:"operationBuffer"`

	// Encoded suffix data (create)
	EncodedSuffixData string `json:"encodedSuffixData,omitempty"`

	// Parsed suffix data (create)
	SuffixData *model.SuffixDataSchema `json:"suffixData,omitempty"`

	// Encoded operation data (create, update, recover)
	EncodedOperationData string `json:"encodedOperationData,omitempty"`

	// Parsed operation data (create, recover)
	OperationData *model.OperationDataSchema `json:"operationData,omitempty"`

	// Parsed operation data (update)
	UpdateOperationData *model.UpdateOperationDataSchema `json:"updateOperationData,omitempty"`

	// One-time password for this update operation
	UpdateOTP string `json:"updateOtp,omitempty"`

	// One-time password for this recovery/revoke operation
	RecoveryOTP string `json:"recoveryOtp,omitempty"`

	// JWS over the operation data hash (update)
	SignedOperationDataHash *jws.JWS `json:"signedOperationDataHash,omitempty"`

	// JWS over the signed operation data model (recover, revoke)
	SignedOperationData *jws.JWS `json:"signedOperationData,omitempty"`

	// Parsed signed operation data payload (recover)
	SignedData *model.SignedOperationDataSchema `json:"signedData,omitempty"`

	// HashAlgorithmInMultiHashCode is the hash algorithm in multihash code
	HashAlgorithmInMultiHashCode uint `json:"hashAlgorithmInMultiHashCode"`

	// The logical blockchain time that this operation was anchored on the blockchain
	TransactionTime uint64 `json:"transactionTime"`

	// The transaction number of the transaction this operation was batched within
	TransactionNumber uint64 `json:"transactionNumber"`

	// The index this operation was assigned to in the batch
	OperationIndex uint `json:"operationIndex"`
}

// OperationType defines valid values for operation type.
type OperationType string

const (

	// OperationTypeCreate captures "create" operation type.
	OperationTypeCreate OperationType = "create"

	// OperationTypeUpdate captures "update" operation type.
	OperationTypeUpdate OperationType = "update"

	// OperationTypeRecover captures "recover" operation type.
	OperationTypeRecover OperationType = "recover"

	// OperationTypeRevoke captures "revoke" operation type.
	OperationTypeRevoke OperationType = "revoke"
)

// OperationInfo contains the unique suffix as well as the operation payload.
type OperationInfo struct {
	Data         []byte
	UniqueSuffix string
}
