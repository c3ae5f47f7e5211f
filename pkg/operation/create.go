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

// ParseCreateOperation will parse a create operation. The unique suffix is derived
// from the encoded suffix data; it is never supplied by the client.
func ParseCreateOperation(request []byte, p protocol.Protocol) (*batch.Operation, error) {
	schema, err := parseCreateRequest(request)
	if err != nil {
		return nil, err
	}

	code := p.HashAlgorithmInMultiHashCode

	suffixData, err := parseSuffixData(schema.SuffixData, code)
	if err != nil {
		return nil, err
	}

	operationData, err := parseOperationData(schema.OperationData, code)
	if err != nil {
		return nil, err
	}

	uniqueSuffix, err := docutil.CalculateUniqueSuffix(schema.SuffixData, code)
	if err != nil {
		return nil, err
	}

	return &batch.Operation{
		Type:                         batch.OperationTypeCreate,
		OperationBuffer:              request,
		UniqueSuffix:                 uniqueSuffix,
		EncodedSuffixData:            schema.SuffixData,
		SuffixData:                   suffixData,
		EncodedOperationData:         schema.OperationData,
		OperationData:                operationData,
		HashAlgorithmInMultiHashCode: code,
	}, nil
}

func parseCreateRequest(request []byte) (*model.CreateRequest, error) {
	if err := validatePropertyCount(request, createPropertyCount); err != nil {
		return nil, errors.Wrap(err, "create")
	}

	schema := &model.CreateRequest{}
	if err := json.Unmarshal(request, schema); err != nil {
		return nil, err
	}

	if schema.Operation != model.OperationTypeCreate {
		return nil, errors.New("create: operation type incorrect")
	}

	return schema, nil
}

func parseSuffixData(encoded string, code uint) (*model.SuffixDataSchema, error) {
	schema := &model.SuffixDataSchema{}
	if err := decodeJSON(encoded, schema); err != nil {
		return nil, err
	}

	if err := validateSuffixData(schema, code); err != nil {
		return nil, err
	}

	return schema, nil
}

// parseOperationData parses the operation data of create and recover operations.
func parseOperationData(encoded string, code uint) (*model.OperationDataSchema, error) {
	schema := &model.OperationDataSchema{}
	if err := decodeJSON(encoded, schema); err != nil {
		return nil, err
	}

	if err := validateOperationData(schema, code); err != nil {
		return nil, err
	}

	return schema, nil
}

func validateOperationData(opData *model.OperationDataSchema, code uint) error {
	if opData.Document == "" {
		return errors.New("missing opaque document")
	}

	if !docutil.IsComputedUsingHashAlgorithm(opData.NextUpdateOTPHash, uint64(code)) {
		return errors.New("next update OTP hash is not computed with the required hash algorithm")
	}

	return nil
}

func validateSuffixData(suffixData *model.SuffixDataSchema, code uint) error {
	if suffixData.RecoveryKey.PublicKeyHex == "" {
		return errors.New("missing recovery key")
	}

	if !docutil.IsComputedUsingHashAlgorithm(suffixData.NextRecoveryOTPHash, uint64(code)) {
		return errors.New("next recovery OTP hash is not computed with the required hash algorithm")
	}

	if !docutil.IsComputedUsingHashAlgorithm(suffixData.OperationDataHash, uint64(code)) {
		return errors.New("operation data hash is not computed with the required hash algorithm")
	}

	return nil
}
