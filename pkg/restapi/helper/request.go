/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package helper

import (
	"github.com/sandrask/sidetree/pkg/docutil"
	"github.com/sandrask/sidetree/pkg/encoder"
	"github.com/sandrask/sidetree/pkg/jws"
)

// Signer signs the payload of a flattened JWS.
type Signer interface {

	// SignPayload builds a flattened JWS over the given payload string.
	SignPayload(payload string) (*jws.JWS, error)
}

// encodeModel marshals the model canonically and encodes it with base64url.
func encodeModel(model interface{}) (string, error) {
	bytes, err := docutil.MarshalCanonical(model)
	if err != nil {
		return "", err
	}

	return encoder.EncodeToString(bytes), nil
}

// hashOfString computes the encoded multihash over the UTF-8 bytes of the given
// string. Hashes commit to the encoded wire form: encoded operation data and
// one-time passwords are hashed as the strings that travel on the wire.
func hashOfString(mhCode uint, value string) (string, error) {
	hash, err := docutil.ComputeMultihash(mhCode, []byte(value))
	if err != nil {
		return "", err
	}

	return encoder.EncodeToString(hash), nil
}
