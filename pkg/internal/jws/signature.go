/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package jws

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/btcsuite/btcd/btcec"
	"github.com/pkg/errors"
)

// VerifySignature verifies a DER-encoded secp256k1 ECDSA signature over the
// SHA-256 digest of msg.
func VerifySignature(pubKeyHex string, signature, msg []byte) error {
	pubKeyBytes, err := hex.DecodeString(pubKeyHex)
	if err != nil {
		return errors.Wrap(err, "decode public key hex")
	}

	pubKey, err := btcec.ParsePubKey(pubKeyBytes, btcec.S256())
	if err != nil {
		return errors.Wrap(err, "parse secp256k1 public key")
	}

	sig, err := btcec.ParseDERSignature(signature, btcec.S256())
	if err != nil {
		return errors.Wrap(err, "parse DER signature")
	}

	digest := sha256.Sum256(msg)

	if !sig.Verify(digest[:], pubKey) {
		return ErrSignatureInvalid
	}

	return nil
}
