/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package docutil

import (
	"crypto"
	"fmt"
	"hash"

	"github.com/multiformats/go-multihash"
	"github.com/pkg/errors"

	"github.com/sandrask/sidetree/pkg/encoder"
)

// ComputeMultihash will compute the hash for the supplied bytes using multihash code.
func ComputeMultihash(multihashCode uint, bytes []byte) ([]byte, error) {
	h, err := GetHash(multihashCode)
	if err != nil {
		return nil, err
	}

	if _, hashErr := h.Write(bytes); hashErr != nil {
		return nil, hashErr
	}

	return multihash.Encode(h.Sum(nil), uint64(multihashCode))
}

// GetHash will return hash based on specified multihash code.
func GetHash(multihashCode uint) (h hash.Hash, err error) {
	switch multihashCode {
	case multihash.SHA2_256:
		h = crypto.SHA256.New()
	default:
		err = fmt.Errorf("algorithm not supported, unable to compute hash")
	}

	return h, err
}

// GetMultihashCode returns multihash code from encoded multihash.
func GetMultihashCode(encodedMultihash string) (uint64, error) {
	multihashBytes, err := encoder.DecodeString(encodedMultihash)
	if err != nil {
		return 0, err
	}

	mh, err := multihash.Decode(multihashBytes)
	if err != nil {
		return 0, err
	}

	return mh.Code, nil
}

// IsComputedUsingHashAlgorithm checks to see if the given encoded hash has been hashed using multihash code.
func IsComputedUsingHashAlgorithm(encodedMultihash string, code uint64) bool {
	mhCode, err := GetMultihashCode(encodedMultihash)
	if err != nil {
		return false
	}

	return mhCode == code
}

// IsValidHash checks that the content matches the expected multihash. The hash is computed
// over the raw bytes of the encoded content string - this is the wire contract for all hash
// comparisons in the protocol (hashes commit to the encoded form, not the decoded plaintext).
func IsValidHash(encodedContent, encodedMultihash string) error {
	code, err := GetMultihashCode(encodedMultihash)
	if err != nil {
		return err
	}

	computedMultihash, err := ComputeMultihash(uint(code), []byte(encodedContent))
	if err != nil {
		return err
	}

	if encoder.EncodeToString(computedMultihash) != encodedMultihash {
		return errors.New("supplied hash doesn't match original content")
	}

	return nil
}
