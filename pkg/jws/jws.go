/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package jws

// AlgES256K is the only signing algorithm accepted for operation requests:
// secp256k1 ECDSA (DER) over SHA-256.
const AlgES256K = "ES256K"

// Header is the decoded protected header of a JWS.
type Header struct {
	// alg
	// Required: true
	Alg string `json:"alg"`

	// kid
	// Required: true
	Kid string `json:"kid"`
}

// JWS contains a flattened JWS with a detached or attached payload. The protected header
// is carried in its encoded form so that the signing input is reproducible byte-for-byte.
type JWS struct {
	// base64url-encoded protected header
	// Required: true
	Protected string `json:"protected"`

	// JWS payload
	// Required: true
	Payload string `json:"payload"`

	// base64url-encoded signature
	// Required: true
	Signature string `json:"signature"`
}
