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

// RecoverRequestInfo is the information required to create a recover request.
type RecoverRequestInfo struct {

	// unique suffix of the DID
	DidUniqueSuffix string

	// one-time recovery password for this recovery
	RecoveryOTP string

	// opaque content of the replacement document
	OpaqueDocument string

	// the new recovery public key as a HEX string
	NewRecoveryKey string

	// one-time password to be used for the next recovery
	NextRecoveryOTP string

	// one-time password to be used for the next update
	NextUpdateOTP string

	// signer signs with the current recovery key
	Signer Signer

	// latest hashing algorithm supported by protocol
	MultihashCode uint
}

// NewRecoverRequest is a utility function to create a payload for a 'recover' request.
func NewRecoverRequest(info *RecoverRequestInfo) ([]byte, error) {
	if info.DidUniqueSuffix == "" {
		return nil, errors.New("missing did unique suffix")
	}

	if info.OpaqueDocument == "" {
		return nil, errors.New("missing opaque document")
	}

	if info.NewRecoveryKey == "" {
		return nil, errors.New("missing new recovery key")
	}

	if info.Signer == nil {
		return nil, errors.New("missing signer")
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

	signedPayload, err := encodeModel(model.SignedOperationDataSchema{
		OperationDataHash:   operationDataHash,
		RecoveryKey:         model.PublicKey{PublicKeyHex: info.NewRecoveryKey},
		NextRecoveryOTPHash: nextRecoveryOTPHash,
	})
	if err != nil {
		return nil, err
	}

	signedOperationData, err := info.Signer.SignPayload(signedPayload)
	if err != nil {
		return nil, err
	}

	return docutil.MarshalCanonical(&model.RecoverRequest{
		Operation:           model.OperationTypeRecover,
		DidUniqueSuffix:     info.DidUniqueSuffix,
		RecoveryOTP:         info.RecoveryOTP,
		SignedOperationData: signedOperationData,
		OperationData:       encodedOperationData,
	})
}
