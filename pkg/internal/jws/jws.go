/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package jws

import (
	"github.com/pkg/errors"
	"github.com/square/go-jose/v3/json"

	"github.com/sandrask/sidetree/pkg/encoder"
	"github.com/sandrask/sidetree/pkg/jws"
)

// Parse/verification failure modes.
var (
	// ErrMissingField indicates that a required JWS field is missing or empty.
	ErrMissingField = errors.New("missing JWS field")

	// ErrUnsupportedAlgorithm indicates that the alg header is not ES256K.
	ErrUnsupportedAlgorithm = errors.New("unsupported JWS algorithm")

	// ErrSignatureInvalid indicates that the signature doesn't verify under the supplied key.
	ErrSignatureInvalid = errors.New("JWS signature is invalid")
)

// JSONWebSignature is a parsed flattened JWS (https://tools.ietf.org/html/rfc7515).
type JSONWebSignature struct {
	// Header is the decoded protected header.
	Header jws.Header

	// Payload is the payload exactly as it appears on the wire.
	Payload string

	encodedProtected string
	signature        []byte
}

// ParseJWS parses a flattened JWS and validates its protected header. Signature
// verification is a separate step (Verify) since the verification key is
// resolved from state, not from the message.
func ParseJWS(signed *jws.JWS) (*JSONWebSignature, error) {
	if signed == nil {
		return nil, errors.Wrap(ErrMissingField, "signature object")
	}

	if signed.Protected == "" {
		return nil, errors.Wrap(ErrMissingField, "protected")
	}

	if signed.Payload == "" {
		return nil, errors.Wrap(ErrMissingField, "payload")
	}

	if signed.Signature == "" {
		return nil, errors.Wrap(ErrMissingField, "signature")
	}

	headerBytes, err := encoder.DecodeString(signed.Protected)
	if err != nil {
		return nil, errors.Wrap(err, "decode protected header")
	}

	var header jws.Header
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, errors.Wrap(err, "unmarshal protected header")
	}

	if header.Kid == "" {
		return nil, errors.Wrap(ErrMissingField, "kid")
	}

	if header.Alg == "" {
		return nil, errors.Wrap(ErrMissingField, "alg")
	}

	if header.Alg != jws.AlgES256K {
		return nil, errors.Wrapf(ErrUnsupportedAlgorithm, "'%s'", header.Alg)
	}

	sig, err := encoder.DecodeString(signed.Signature)
	if err != nil {
		return nil, errors.Wrap(err, "decode signature")
	}

	return &JSONWebSignature{
		Header:           header,
		Payload:          signed.Payload,
		encodedProtected: signed.Protected,
		signature:        sig,
	}, nil
}

// SigningInput reconstructs the input that was signed: protected || "." || payload.
func (s *JSONWebSignature) SigningInput() []byte {
	return []byte(s.encodedProtected + "." + s.Payload)
}

// Verify verifies the signature against the supplied secp256k1 public key
// (compressed or uncompressed, hex-encoded).
func (s *JSONWebSignature) Verify(pubKeyHex string) error {
	return VerifySignature(pubKeyHex, s.signature, s.SigningInput())
}
