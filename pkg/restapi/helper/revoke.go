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

// RevokeRequestInfo is the information required to create a revoke request.
type RevokeRequestInfo struct {

	// unique suffix of the DID
	DidUniqueSuffix string

	// one-time recovery password for this revoke operation
	RecoveryOTP string

	// signer signs with the current recovery key
	Signer Signer
}

// NewRevokeRequest is a utility function to create a payload for a 'revoke' request.
func NewRevokeRequest(info *RevokeRequestInfo) ([]byte, error) {
	if info.DidUniqueSuffix == "" {
		return nil, errors.New("missing did unique suffix")
	}

	if info.Signer == nil {
		return nil, errors.New("missing signer")
	}

	// the signed payload embeds the did unique suffix and recovery OTP; both have to
	// match the outer request values
	signedPayload, err := encodeModel(model.RevokeSignedDataSchema{
		DidUniqueSuffix: info.DidUniqueSuffix,
		RecoveryOTP:     info.RecoveryOTP,
	})
	if err != nil {
		return nil, err
	}

	signedOperationData, err := info.Signer.SignPayload(signedPayload)
	if err != nil {
		return nil, err
	}

	return docutil.MarshalCanonical(&model.RevokeRequest{
		Operation:           model.OperationTypeRevoke,
		DidUniqueSuffix:     info.DidUniqueSuffix,
		RecoveryOTP:         info.RecoveryOTP,
		SignedOperationData: signedOperationData,
	})
}
