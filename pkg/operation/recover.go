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
	"github.com/sandrask/sidetree/pkg/docutil"
	"github.com/sandrask/sidetree/pkg/restapi/model"
)

// ParseRecoverOperation will parse a recover operation.
func ParseRecoverOperation(request []byte, p protocol.Protocol) (*batch.Operation, error) {
	schema, err := parseRecoverRequest(request)
	if err != nil {
		return nil, err
	}

	code := p.HashAlgorithmInMultiHashCode

	operationData, err := parseOperationData(schema.OperationData, code)
	if err != nil {
		return nil, err
	}

	signedData, err := parseSignedDataForRecovery(schema, code)
	if err != nil {
		return nil, err
	}

	return &batch.Operation{
		Type:                         batch.OperationTypeRecover,
		OperationBuffer:              request,
		UniqueSuffix:                 schema.DidUniqueSuffix,
		RecoveryOTP:                  schema.RecoveryOTP,
		EncodedOperationData:         schema.OperationData,
		OperationData:                operationData,
		SignedOperationData:          schema.SignedOperationData,
		SignedData:                   signedData,
		HashAlgorithmInMultiHashCode: code,
	}, nil
}

func parseRecoverRequest(request []byte) (*model.RecoverRequest, error) {
	if err := validatePropertyCount(request, recoverPropertyCount); err != nil {
		return nil, errors.Wrap(err, "recover")
	}

	schema := &model.RecoverRequest{}
	if err := json.Unmarshal(request, schema); err != nil {
		return nil, err
	}

	if err := validateRecoverRequest(schema); err != nil {
		return nil, err
	}

	return schema, nil
}

func parseSignedDataForRecovery(req *model.RecoverRequest, code uint) (*model.SignedOperationDataSchema, error) {
	signed, err := parseSignedData(req.SignedOperationData)
	if err != nil {
		return nil, errors.Wrap(err, "recover")
	}

	schema := &model.SignedOperationDataSchema{}
	if err := decodeJSON(signed.Payload, schema); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal signed operation data for recovery")
	}

	if err := validateSignedDataForRecovery(schema, code); err != nil {
		return nil, err
	}

	return schema, nil
}

func validateRecoverRequest(req *model.RecoverRequest) error {
	if req.DidUniqueSuffix == "" {
		return errors.New("missing did unique suffix")
	}

	if req.OperationData == "" {
		return errors.New("missing operation data")
	}

	return validateOTP(req.RecoveryOTP)
}

func validateSignedDataForRecovery(signedData *model.SignedOperationDataSchema, code uint) error {
	if signedData.RecoveryKey.PublicKeyHex == "" {
		return errors.New("signed data for recovery: missing new recovery key")
	}

	if !docutil.IsComputedUsingHashAlgorithm(signedData.NextRecoveryOTPHash, uint64(code)) {
		return errors.New("next recovery OTP hash is not computed with the required hash algorithm")
	}

	if !docutil.IsComputedUsingHashAlgorithm(signedData.OperationDataHash, uint64(code)) {
		return errors.New("operation data hash is not computed with the required hash algorithm")
	}

	return nil
}
