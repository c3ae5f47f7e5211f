/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package ecsigner

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/btcsuite/btcd/btcec"
	"github.com/pkg/errors"

	"github.com/sandrask/sidetree/pkg/docutil"
	"github.com/sandrask/sidetree/pkg/encoder"
	"github.com/sandrask/sidetree/pkg/jws"
)

// Signer produces ES256K signatures for operation requests.
type Signer struct {
	privateKey *btcec.PrivateKey
	kid        string
}

// New creates a new secp256k1 signer with the given key ID.
func New(privKey *btcec.PrivateKey, kid string) *Signer {
	return &Signer{privateKey: privKey, kid: kid}
}

// Kid returns the signing key ID.
func (s *Signer) Kid() string {
	return s.kid
}

// PublicKeyHex returns the compressed public key as a hex string.
func (s *Signer) PublicKeyHex() string {
	return hex.EncodeToString(s.privateKey.PubKey().SerializeCompressed())
}

// Sign signs msg and returns a DER-encoded ECDSA signature over its SHA-256 digest.
func (s *Signer) Sign(msg []byte) ([]byte, error) {
	if s.privateKey == nil {
		return nil, errors.New("private key not provided")
	}

	digest := sha256.Sum256(msg)

	sig, err := s.privateKey.Sign(digest[:])
	if err != nil {
		return nil, err
	}

	return sig.Serialize(), nil
}

// SignPayload builds a flattened JWS over the given payload string. The payload is
// carried verbatim; the signing input is protected || "." || payload.
func (s *Signer) SignPayload(payload string) (*jws.JWS, error) {
	headerBytes, err := docutil.MarshalCanonical(jws.Header{Alg: jws.AlgES256K, Kid: s.kid})
	if err != nil {
		return nil, err
	}

	protected := encoder.EncodeToString(headerBytes)

	signature, err := s.Sign([]byte(protected + "." + payload))
	if err != nil {
		return nil, err
	}

	return &jws.JWS{
		Protected: protected,
		Payload:   payload,
		Signature: encoder.EncodeToString(signature),
	}, nil
}
