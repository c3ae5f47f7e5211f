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

// ParseUpdateOperation will parse an update operation. The signed operation data hash
// is compared against the resolution state at apply time, not here.
func ParseUpdateOperation(request []byte, p protocol.Protocol) (*batch.Operation, error) {
	schema, err := parseUpdateRequest(request)
	if err != nil {
		return nil, err
	}

	code := p.HashAlgorithmInMultiHashCode

	operationData, err := parseUpdateOperationData(schema.OperationData, code)
	if err != nil {
		return nil, err
	}

	if _, err := parseSignedData(schema.SignedOperationDataHash); err != nil {
		return nil, errors.Wrap(err, "update")
	}

	return &batch.Operation{
		Type:                         batch.OperationTypeUpdate,
		OperationBuffer:              request,
		UniqueSuffix:                 schema.DidUniqueSuffix,
		UpdateOTP:                    schema.UpdateOTP,
		EncodedOperationData:         schema.OperationData,
		UpdateOperationData:          operationData,
		SignedOperationDataHash:      schema.SignedOperationDataHash,
		HashAlgorithmInMultiHashCode: code,
	}, nil
}

func parseUpdateRequest(request []byte) (*model.UpdateRequest, error) {
	if err := validatePropertyCount(request, updatePropertyCount); err != nil {
		return nil, errors.Wrap(err, "update")
	}

	schema := &model.UpdateRequest{}
	if err := json.Unmarshal(request, schema); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal update request")
	}

	if err := validateUpdateRequest(schema); err != nil {
		return nil, err
	}

	return schema, nil
}

func parseUpdateOperationData(encoded string, code uint) (*model.UpdateOperationDataSchema, error) {
	schema := &model.UpdateOperationDataSchema{}
	if err := decodeJSON(encoded, schema); err != nil {
		return nil, err
	}

	if err := validateUpdateOperationData(schema, code); err != nil {
		return nil, err
	}

	return schema, nil
}

func validateUpdateRequest(update *model.UpdateRequest) error {
	if update.DidUniqueSuffix == "" {
		return errors.New("missing did unique suffix")
	}

	if update.OperationData == "" {
		return errors.New("missing operation data")
	}

	return validateOTP(update.UpdateOTP)
}

func validateUpdateOperationData(opData *model.UpdateOperationDataSchema, code uint) error {
	if len(opData.Patches) == 0 {
		return errors.New("missing patches")
	}

	for _, p := range opData.Patches {
		if err := p.Validate(); err != nil {
			return err
		}
	}

	if !docutil.IsComputedUsingHashAlgorithm(opData.NextUpdateOTPHash, uint64(code)) {
		return errors.New("next update OTP hash is not computed with the required hash algorithm")
	}

	return nil
}
