/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package model

import (
	"github.com/sandrask/sidetree/pkg/jws"
	"github.com/sandrask/sidetree/pkg/patch"
)

// CreateRequest is the struct for create payload.
type CreateRequest struct {
	// operation
	// Required: true
	Operation OperationType `json:"type"`

	// Encoded JSON object containing data required for creating the unique suffix
	// Required: true
	SuffixData string `json:"suffixData"`

	// Encoded JSON object containing create operation data
	// Required: true
	OperationData string `json:"operationData"`
}

// SuffixDataSchema is part of the create request.
type SuffixDataSchema struct {

	// Hash of the encoded operation data string
	OperationDataHash string `json:"operationDataHash"`

	// The recovery public key as a HEX string
	RecoveryKey PublicKey `json:"recoveryKey"`

	// Hash of the one-time password for the next recovery/revoke operation
	NextRecoveryOTPHash string `json:"nextRecoveryOtpHash"`
}

// PublicKey is a holder for a public key in hex.
type PublicKey struct {
	// public key as a HEX string
	PublicKeyHex string `json:"publicKeyHex"`
}

// OperationDataSchema contains operation data (used for create and recover).
type OperationDataSchema struct {

	// Hash of the one-time password for the next update operation
	NextUpdateOTPHash string `json:"nextUpdateOtpHash"`

	// Opaque document content
	Document string `json:"document"`
}

// UpdateRequest is the struct for update request.
type UpdateRequest struct {
	Operation OperationType `json:"type"`

	// The unique suffix of the DID
	DidUniqueSuffix string `json:"didUniqueSuffix"`

	// One-time password for this update operation
	UpdateOTP string `json:"updateOtp"`

	// JWS whose payload is the hash of the encoded operation data
	SignedOperationDataHash *jws.JWS `json:"signedOperationDataHash"`

	// Encoded JSON object containing update operation data
	OperationData string `json:"operationData"`
}

// UpdateOperationDataSchema contains update operation data.
type UpdateOperationDataSchema struct {

	// Patches to be applied to the DID document
	Patches []patch.Patch `json:"patches"`

	// Hash of the one-time password for the next update operation
	NextUpdateOTPHash string `json:"nextUpdateOtpHash"`
}

// RecoverRequest is the struct for document recovery payload.
type RecoverRequest struct {
	// operation
	// Required: true
	Operation OperationType `json:"type"`

	// The unique suffix of the DID
	// Required: true
	DidUniqueSuffix string `json:"didUniqueSuffix"`

	// One-time recovery password for this recovery
	// Required: true
	RecoveryOTP string `json:"recoveryOtp"`

	// JWS signature information
	SignedOperationData *jws.JWS `json:"signedOperationData"`

	// Encoded JSON object containing the unsigned portion of the recovery request
	// Required: true
	OperationData string `json:"operationData"`
}

// SignedOperationDataSchema is the signed payload of a recover request.
type SignedOperationDataSchema struct {

	// Hash of the encoded unsigned operation data
	OperationDataHash string `json:"operationDataHash"`

	// The new recovery key
	RecoveryKey PublicKey `json:"recoveryKey"`

	// Hash of the one-time password to be used for the next recovery/revoke
	NextRecoveryOTPHash string `json:"nextRecoveryOtpHash"`
}

// RevokeRequest is the struct for revoking a document.
type RevokeRequest struct {
	// operation
	// Required: true
	Operation OperationType `json:"type"`

	// The unique suffix of the DID
	// Required: true
	DidUniqueSuffix string `json:"didUniqueSuffix"`

	// The current one-time recovery password
	// Required: true
	RecoveryOTP string `json:"recoveryOtp"`

	// JWS signature information
	SignedOperationData *jws.JWS `json:"signedOperationData"`
}

// RevokeSignedDataSchema is the signed payload of a revoke request.
type RevokeSignedDataSchema struct {

	// The unique suffix of the DID; has to match the request value
	DidUniqueSuffix string `json:"didUniqueSuffix"`

	// The current one-time recovery password; has to match the request value
	RecoveryOTP string `json:"recoveryOtp"`
}
