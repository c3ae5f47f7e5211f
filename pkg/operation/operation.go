/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package operation

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"

	"github.com/sandrask/sidetree/pkg/api/batch"
	"github.com/sandrask/sidetree/pkg/api/protocol"
	"github.com/sandrask/sidetree/pkg/docutil"
	"github.com/sandrask/sidetree/pkg/encoder"
	internal "github.com/sandrask/sidetree/pkg/internal/jws"
	"github.com/sandrask/sidetree/pkg/jws"
	"github.com/sandrask/sidetree/pkg/restapi/model"
)

// maxOTPLength is the maximum length of an encoded one-time password.
const maxOTPLength = 50

// Parse errors. The operation processor treats any of these as an invalid operation;
// they never abort resolution.
var (
	// ErrMissingOrUnknownProperty indicates that the request property count doesn't
	// match the schema for the declared type.
	ErrMissingOrUnknownProperty = errors.New("missing or unknown property")

	// ErrOTPTooLong indicates that an encoded one-time password exceeds the maximum length.
	ErrOTPTooLong = errors.New("one-time password exceeds maximum allowed length")

	// ErrSignedDidUniqueSuffixMismatch indicates that the signed payload embeds a different
	// did unique suffix than the request.
	ErrSignedDidUniqueSuffixMismatch = errors.New("signed did unique suffix mismatch")

	// ErrSignedRecoveryOTPMismatch indicates that the signed payload embeds a different
	// recovery OTP than the request.
	ErrSignedRecoveryOTPMismatch = errors.New("signed recovery OTP mismatch")
)

// expected top-level property count per operation type
const (
	createPropertyCount  = 3
	updatePropertyCount  = 5
	recoverPropertyCount = 5
	revokePropertyCount  = 4
)

// ParseOperation parses and validates an operation request. Parsers are pure: they
// never consult resolution state.
func ParseOperation(namespace string, operationBuffer []byte, p protocol.Protocol) (*batch.Operation, error) {
	schema := &operationSchema{}

	err := json.Unmarshal(operationBuffer, schema)
	if err != nil {
		return nil, err
	}

	var op *batch.Operation
	var parseErr error

	switch schema.Operation {
	case model.OperationTypeCreate:
		op, parseErr = ParseCreateOperation(operationBuffer, p)
	case model.OperationTypeUpdate:
		op, parseErr = ParseUpdateOperation(operationBuffer, p)
	case model.OperationTypeRecover:
		op, parseErr = ParseRecoverOperation(operationBuffer, p)
	case model.OperationTypeRevoke:
		op, parseErr = ParseRevokeOperation(operationBuffer, p)
	default:
		return nil, fmt.Errorf("operation type [%s] not implemented", schema.Operation)
	}

	if parseErr != nil {
		return nil, parseErr
	}

	op.ID = namespace + docutil.NamespaceDelimiter + op.UniqueSuffix

	return op, nil
}

// operationSchema is used to get the operation type.
type operationSchema struct {

	// operation
	Operation model.OperationType `json:"type"`
}

// validatePropertyCount rejects a request whose top-level property count differs
// from the schema for the declared type; extra or missing fields are both caught.
func validatePropertyCount(request []byte, expected int) error {
	properties := make(map[string]json.RawMessage)

	if err := json.Unmarshal(request, &properties); err != nil {
		return err
	}

	if len(properties) != expected {
		return errors.Wrapf(ErrMissingOrUnknownProperty, "expected %d properties, got %d", expected, len(properties))
	}

	return nil
}

// validateOTP checks the encoded one-time password length.
func validateOTP(otp string) error {
	if len(otp) > maxOTPLength {
		return ErrOTPTooLong
	}

	return nil
}

// parseSignedData parses and validates the JWS header of signed data.
func parseSignedData(signed *jws.JWS) (*internal.JSONWebSignature, error) {
	return internal.ParseJWS(signed)
}

func decodeJSON(encoded string, v interface{}) error {
	bytes, err := encoder.DecodeString(encoded)
	if err != nil {
		return err
	}

	return json.Unmarshal(bytes, v)
}
