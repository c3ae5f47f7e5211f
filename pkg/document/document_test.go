/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package document

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const docJSON = `{
  "@context": ["https://w3id.org/did/v1"],
  "id": "did:sidetree:abc",
  "publicKey": [
    {"id": "#key1", "type": "Secp256k1VerificationKey2018", "usage": "signing", "controller": "did:sidetree:abc", "publicKeyHex": "02aaaa"}
  ],
  "service": [
    {"type": "IdentityHub", "serviceEndpoint": {"@context": "schema.identity.foundation/hub", "@type": "UserServiceEndpoint", "instances": ["did:bar:456"]}}
  ]
}`

func TestDocument(t *testing.T) {
	doc, err := FromBytes([]byte(docJSON))
	require.NoError(t, err)

	require.Equal(t, "did:sidetree:abc", doc.ID())
	require.Len(t, doc.Context(), 1)
	require.Len(t, doc.PublicKeys(), 1)
	require.Equal(t, "did:sidetree:abc", doc.GetStringValue("id"))
	require.NotNil(t, doc.JSONLdObject())

	bytes, err := doc.Bytes()
	require.NoError(t, err)
	require.NotEmpty(t, bytes)

	doc, err = FromBytes([]byte("invalid"))
	require.Error(t, err)
	require.Nil(t, doc)
}

func TestDocumentCopy(t *testing.T) {
	doc, err := FromBytes([]byte(docJSON))
	require.NoError(t, err)

	docCopy, err := doc.Copy()
	require.NoError(t, err)
	require.Equal(t, doc, docCopy)

	// mutating the copy leaves the original untouched
	docCopy[IDProperty] = "did:sidetree:xyz"
	require.Equal(t, "did:sidetree:abc", doc.ID())

	var nilDoc Document

	docCopy, err = nilDoc.Copy()
	require.NoError(t, err)
	require.Nil(t, docCopy)
}

func TestDIDDocument(t *testing.T) {
	doc, err := DidDocumentFromBytes([]byte(docJSON))
	require.NoError(t, err)

	require.Equal(t, "did:sidetree:abc", doc.ID())
	require.Len(t, doc.Context(), 1)

	keys := doc.PublicKeys()
	require.Len(t, keys, 1)
	require.Equal(t, "#key1", keys[0].ID())
	require.Equal(t, "Secp256k1VerificationKey2018", keys[0].Type())
	require.Equal(t, "signing", keys[0].Usage())
	require.Equal(t, "did:sidetree:abc", keys[0].Controller())
	require.Equal(t, "02aaaa", keys[0].PublicKeyHex())
	require.NotNil(t, keys[0].JSONLdObject())

	services := doc.Services()
	require.Len(t, services, 1)
	require.Equal(t, "IdentityHub", services[0].Type())
	require.Empty(t, services[0].ID())
	require.Equal(t, []string{"did:bar:456"}, services[0].EndpointInstances())
	require.NotNil(t, services[0].JSONLdObject())
}

func TestStringArray(t *testing.T) {
	require.Nil(t, StringArray(nil))
	require.Nil(t, StringArray("not an array"))
	require.Equal(t, []string{"a"}, StringArray([]interface{}{"a", 1}))
}
