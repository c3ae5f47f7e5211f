/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package helper

import (
	"errors"

	"github.com/sandrask/sidetree/pkg/docutil"
	"github.com/sandrask/sidetree/pkg/restapi/model"
)

// CreateRequestInfo contains data for creating a create request.
type CreateRequestInfo struct {

	// opaque document content
	OpaqueDocument string

	// the recovery public key as a HEX string
	RecoveryKey string

	// one-time password to be used for the next recovery
	NextRecoveryOTP string

	// one-time password to be used for the next update
	NextUpdateOTP string

	// latest hashing algorithm supported by protocol
	MultihashCode uint
}

// NewCreateRequest is a utility function to create a payload for a 'create' request.
func NewCreateRequest(info *CreateRequestInfo) ([]byte, error) {
	if info.OpaqueDocument == "" {
		return nil, errors.New("missing opaque document")
	}

	if info.RecoveryKey == "" {
		return nil, errors.New("missing recovery key")
	}

	nextUpdateOTPHash, err := hashOfString(info.MultihashCode, info.NextUpdateOTP)
	if err != nil {
		return nil, err
	}

	encodedOperationData, err := encodeModel(model.OperationDataSchema{
		NextUpdateOTPHash: nextUpdateOTPHash,
		Document:          info.OpaqueDocument,
	})
	if err != nil {
		return nil, err
	}

	operationDataHash, err := hashOfString(info.MultihashCode, encodedOperationData)
	if err != nil {
		return nil, err
	}

	nextRecoveryOTPHash, err := hashOfString(info.MultihashCode, info.NextRecoveryOTP)
	if err != nil {
		return nil, err
	}

	encodedSuffixData, err := encodeModel(model.SuffixDataSchema{
		OperationDataHash:   operationDataHash,
		RecoveryKey:         model.PublicKey{PublicKeyHex: info.RecoveryKey},
		NextRecoveryOTPHash: nextRecoveryOTPHash,
	})
	if err != nil {
		return nil, err
	}

	return docutil.MarshalCanonical(&model.CreateRequest{
		Operation:     model.OperationTypeCreate,
		SuffixData:    encodedSuffixData,
		OperationData: encodedOperationData,
	})
}
