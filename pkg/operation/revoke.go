/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package operation

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/sandrask/sidetree/pkg/api/batch"
	"github.com/sandrask/sidetree/pkg/api/protocol"
	"github.com/sandrask/sidetree/pkg/restapi/model"
)

// ParseRevokeOperation will parse a revoke operation.
func ParseRevokeOperation(request []byte, p protocol.Protocol) (*batch.Operation, error) {
	schema, err := parseRevokeRequest(request)
	if err != nil {
		return nil, err
	}

	if err := parseSignedDataForRevoke(schema); err != nil {
		return nil, err
	}

	return &batch.Operation{
		Type:                         batch.OperationTypeRevoke,
		OperationBuffer:              request,
		UniqueSuffix:                 schema.DidUniqueSuffix,
		RecoveryOTP:                  schema.RecoveryOTP,
		SignedOperationData:          schema.SignedOperationData,
		HashAlgorithmInMultiHashCode: p.HashAlgorithmInMultiHashCode,
	}, nil
}

func parseRevokeRequest(request []byte) (*model.RevokeRequest, error) {
	if err := validatePropertyCount(request, revokePropertyCount); err != nil {
		return nil, errors.Wrap(err, "revoke")
	}

	schema := &model.RevokeRequest{}
	if err := json.Unmarshal(request, schema); err != nil {
		return nil, err
	}

	if err := validateRevokeRequest(schema); err != nil {
		return nil, err
	}

	return schema, nil
}

func validateRevokeRequest(req *model.RevokeRequest) error {
	if req.DidUniqueSuffix == "" {
		return errors.New("missing did unique suffix")
	}

	return validateOTP(req.RecoveryOTP)
}

// parseSignedDataForRevoke checks that the signed payload embeds the same did unique
// suffix and recovery OTP as the outer request.
func parseSignedDataForRevoke(req *model.RevokeRequest) error {
	signed, err := parseSignedData(req.SignedOperationData)
	if err != nil {
		return errors.Wrap(err, "revoke")
	}

	schema := &model.RevokeSignedDataSchema{}
	if err := decodeJSON(signed.Payload, schema); err != nil {
		return errors.Wrap(err, "failed to unmarshal signed operation data for revoke")
	}

	if schema.DidUniqueSuffix != req.DidUniqueSuffix {
		return ErrSignedDidUniqueSuffixMismatch
	}

	if schema.RecoveryOTP != req.RecoveryOTP {
		return ErrSignedRecoveryOTPMismatch
	}

	return nil
}
