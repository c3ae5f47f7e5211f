/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package operation

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/sandrask/sidetree/pkg/docutil"
	"github.com/sandrask/sidetree/pkg/encoder"
)

func TestParseCreateOperation(t *testing.T) {
	p := newProtocol()

	t.Run("success", func(t *testing.T) {
		request := newCreateRequest(t)

		op, err := ParseCreateOperation(request, p)
		require.NoError(t, err)
		require.Equal(t, request, op.OperationBuffer)
		require.NotNil(t, op.SuffixData)
		require.NotNil(t, op.OperationData)

		// the unique suffix is derived from the encoded suffix data, never supplied
		expectedSuffix, err := docutil.CalculateUniqueSuffix(op.EncodedSuffixData, p.HashAlgorithmInMultiHashCode)
		require.NoError(t, err)
		require.Equal(t, expectedSuffix, op.UniqueSuffix)
	})

	t.Run("error - property added", func(t *testing.T) {
		op, err := ParseCreateOperation(withProperty(t, newCreateRequest(t), "extra", "value"), p)
		require.True(t, errors.Is(err, ErrMissingOrUnknownProperty))
		require.Nil(t, op)
	})

	t.Run("error - property removed", func(t *testing.T) {
		op, err := ParseCreateOperation(withoutProperty(t, newCreateRequest(t), "operationData"), p)
		require.True(t, errors.Is(err, ErrMissingOrUnknownProperty))
		require.Nil(t, op)
	})

	t.Run("error - operation type incorrect", func(t *testing.T) {
		op, err := ParseCreateOperation(withProperty(t, newCreateRequest(t), "type", "update"), p)
		require.Error(t, err)
		require.Contains(t, err.Error(), "operation type incorrect")
		require.Nil(t, op)
	})

	t.Run("error - suffix data is not valid base64url", func(t *testing.T) {
		op, err := ParseCreateOperation(withProperty(t, newCreateRequest(t), "suffixData", "invalid!"), p)
		require.Error(t, err)
		require.Nil(t, op)
	})

	t.Run("error - missing recovery key", func(t *testing.T) {
		suffixData := encoder.EncodeToString([]byte(`{"operationDataHash":"hash","nextRecoveryOtpHash":"hash"}`))

		op, err := ParseCreateOperation(withProperty(t, newCreateRequest(t), "suffixData", suffixData), p)
		require.Error(t, err)
		require.Contains(t, err.Error(), "missing recovery key")
		require.Nil(t, op)
	})

	t.Run("error - hash not computed with required algorithm", func(t *testing.T) {
		suffixData := encoder.EncodeToString([]byte(`{"operationDataHash":"hash","recoveryKey":{"publicKeyHex":"02abab"},"nextRecoveryOtpHash":"hash"}`))

		op, err := ParseCreateOperation(withProperty(t, newCreateRequest(t), "suffixData", suffixData), p)
		require.Error(t, err)
		require.Contains(t, err.Error(), "not computed with the required hash algorithm")
		require.Nil(t, op)
	})

	t.Run("error - missing opaque document", func(t *testing.T) {
		operationData := encoder.EncodeToString([]byte(`{"nextUpdateOtpHash":"hash"}`))

		op, err := ParseCreateOperation(withProperty(t, newCreateRequest(t), "operationData", operationData), p)
		require.Error(t, err)
		require.Contains(t, err.Error(), "missing opaque document")
		require.Nil(t, op)
	})
}
