/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package patch

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromBytes(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		p, err := FromBytes([]byte(`{"action":"add-public-keys","publicKeys":[{"id":"#key1"}]}`))
		require.NoError(t, err)
		require.Equal(t, AddPublicKeys, p.GetAction())
		require.NoError(t, p.Validate())
	})

	t.Run("error - invalid json", func(t *testing.T) {
		p, err := FromBytes([]byte("invalid"))
		require.Error(t, err)
		require.Nil(t, p)
	})
}

func TestNewAddPublicKeysPatch(t *testing.T) {
	p, err := NewAddPublicKeysPatch(`[{"id":"#key1","publicKeyHex":"02abab"}]`)
	require.NoError(t, err)
	require.Equal(t, AddPublicKeys, p.GetAction())
	require.NoError(t, p.Validate())

	p, err = NewAddPublicKeysPatch("invalid")
	require.Error(t, err)
	require.Nil(t, p)
}

func TestNewRemovePublicKeysPatch(t *testing.T) {
	p, err := NewRemovePublicKeysPatch(`["#key1"]`)
	require.NoError(t, err)
	require.Equal(t, RemovePublicKeys, p.GetAction())
	require.NoError(t, p.Validate())
}

func TestNewServiceEndpointPatches(t *testing.T) {
	p, err := NewAddServiceEndpointsPatch("IdentityHub", `["did:bar:456"]`)
	require.NoError(t, err)
	require.Equal(t, AddServiceEndpoints, p.GetAction())
	require.Equal(t, "IdentityHub", p.GetStringValue(ServiceTypeKey))
	require.NoError(t, p.Validate())

	p, err = NewRemoveServiceEndpointsPatch("IdentityHub", `["did:bar:456"]`)
	require.NoError(t, err)
	require.Equal(t, RemoveServiceEndpoints, p.GetAction())
	require.NoError(t, p.Validate())
}

func TestNewJSONPatch(t *testing.T) {
	p, err := NewJSONPatch(`[{"op":"replace","path":"/name","value":"value"}]`)
	require.NoError(t, err)
	require.Equal(t, JSONPatch, p.GetAction())
	require.NoError(t, p.Validate())

	p, err = NewJSONPatch(`[{"op":"replace","value":"value"}]`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "path not found")
	require.Nil(t, p)
}

func TestValidate(t *testing.T) {
	t.Run("error - missing action", func(t *testing.T) {
		p, err := FromBytes([]byte(`{"publicKeys":[]}`))
		require.NoError(t, err)
		require.Error(t, p.Validate())
		require.Contains(t, p.Validate().Error(), "missing action")
	})

	t.Run("error - missing public keys", func(t *testing.T) {
		p, err := FromBytes([]byte(`{"action":"remove-public-keys"}`))
		require.NoError(t, err)
		require.Error(t, p.Validate())
	})

	t.Run("error - missing service type", func(t *testing.T) {
		p, err := FromBytes([]byte(`{"action":"add-service-endpoints","serviceEndpoints":[]}`))
		require.NoError(t, err)
		require.Error(t, p.Validate())
		require.Contains(t, p.Validate().Error(), "missing service type")
	})

	t.Run("success - unknown action is valid", func(t *testing.T) {
		p, err := FromBytes([]byte(`{"action":"some-future-action","content":"opaque"}`))
		require.NoError(t, err)
		require.NoError(t, p.Validate())
	})
}

func TestBytes(t *testing.T) {
	p, err := NewRemovePublicKeysPatch(`["#key1"]`)
	require.NoError(t, err)

	bytes, err := p.Bytes()
	require.NoError(t, err)

	parsed, err := FromBytes(bytes)
	require.NoError(t, err)
	require.Equal(t, RemovePublicKeys, parsed.GetAction())
}
