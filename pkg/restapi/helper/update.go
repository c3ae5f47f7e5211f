/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package helper

import (
	"errors"

	"github.com/sandrask/sidetree/pkg/docutil"
	"github.com/sandrask/sidetree/pkg/patch"
	"github.com/sandrask/sidetree/pkg/restapi/model"
)

// UpdateRequestInfo is the information required to create an update request.
type UpdateRequestInfo struct {

	// unique suffix of the DID
	DidUniqueSuffix string

	// patches to be applied to the DID document
	Patches []patch.Patch

	// one-time password for this update operation
	UpdateOTP string

	// one-time password for the next update operation
	NextUpdateOTP string

	// signer signs with the document signing key
	Signer Signer

	// latest hashing algorithm supported by protocol
	MultihashCode uint
}

// NewUpdateRequest is a utility function to create a payload for an 'update' request.
func NewUpdateRequest(info *UpdateRequestInfo) ([]byte, error) {
	if info.DidUniqueSuffix == "" {
		return nil, errors.New("missing did unique suffix")
	}

	if len(info.Patches) == 0 {
		return nil, errors.New("missing update information")
	}

	if info.Signer == nil {
		return nil, errors.New("missing signer")
	}

	nextUpdateOTPHash, err := hashOfString(info.MultihashCode, info.NextUpdateOTP)
	if err != nil {
		return nil, err
	}

	encodedOperationData, err := encodeModel(model.UpdateOperationDataSchema{
		Patches:           info.Patches,
		NextUpdateOTPHash: nextUpdateOTPHash,
	})
	if err != nil {
		return nil, err
	}

	operationDataHash, err := hashOfString(info.MultihashCode, encodedOperationData)
	if err != nil {
		return nil, err
	}

	// the JWS payload carries the operation data hash verbatim
	signedOperationDataHash, err := info.Signer.SignPayload(operationDataHash)
	if err != nil {
		return nil, err
	}

	return docutil.MarshalCanonical(&model.UpdateRequest{
		Operation:               model.OperationTypeUpdate,
		DidUniqueSuffix:         info.DidUniqueSuffix,
		UpdateOTP:               info.UpdateOTP,
		SignedOperationDataHash: signedOperationDataHash,
		OperationData:           encodedOperationData,
	})
}
