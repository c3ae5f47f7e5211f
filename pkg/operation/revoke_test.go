/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package operation

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/sandrask/sidetree/pkg/api/batch"
)

func TestParseRevokeOperation(t *testing.T) {
	p := newProtocol()

	t.Run("success", func(t *testing.T) {
		request := newRevokeRequest(t, "suffix", "recoveryOTP")

		op, err := ParseRevokeOperation(request, p)
		require.NoError(t, err)
		require.Equal(t, batch.OperationTypeRevoke, op.Type)
		require.Equal(t, "suffix", op.UniqueSuffix)
		require.Equal(t, "recoveryOTP", op.RecoveryOTP)
	})

	t.Run("error - three properties", func(t *testing.T) {
		op, err := ParseRevokeOperation(withoutProperty(t, newRevokeRequest(t, "suffix", "recoveryOTP"), "recoveryOtp"), p)
		require.True(t, errors.Is(err, ErrMissingOrUnknownProperty))
		require.Nil(t, op)
	})

	t.Run("error - five properties", func(t *testing.T) {
		op, err := ParseRevokeOperation(withProperty(t, newRevokeRequest(t, "suffix", "recoveryOTP"), "extra", "value"), p)
		require.True(t, errors.Is(err, ErrMissingOrUnknownProperty))
		require.Nil(t, op)
	})

	t.Run("error - signed did unique suffix mismatch", func(t *testing.T) {
		// the signed payload embeds a different suffix than the outer request
		request := withProperty(t, newRevokeRequest(t, "other", "recoveryOTP"), "didUniqueSuffix", "suffix")

		op, err := ParseRevokeOperation(request, p)
		require.True(t, errors.Is(err, ErrSignedDidUniqueSuffixMismatch))
		require.Nil(t, op)
	})

	t.Run("error - signed recovery OTP mismatch", func(t *testing.T) {
		request := withProperty(t, newRevokeRequest(t, "suffix", "otherOTP"), "recoveryOtp", "recoveryOTP")

		op, err := ParseRevokeOperation(request, p)
		require.True(t, errors.Is(err, ErrSignedRecoveryOTPMismatch))
		require.Nil(t, op)
	})

	t.Run("error - missing did unique suffix", func(t *testing.T) {
		op, err := ParseRevokeOperation(withProperty(t, newRevokeRequest(t, "suffix", "recoveryOTP"), "didUniqueSuffix", ""), p)
		require.Error(t, err)
		require.Contains(t, err.Error(), "missing did unique suffix")
		require.Nil(t, op)
	})
}
