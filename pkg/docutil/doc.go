/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package docutil

import (
	"github.com/sandrask/sidetree/pkg/encoder"
)

// NamespaceDelimiter is the delimiter that separates the namespace from the unique suffix.
const NamespaceDelimiter = ":"

// CalculateID calculates the document ID from the encoded suffix data of a create operation.
func CalculateID(namespace, encodedSuffixData string, hashAlgorithmAsMultihashCode uint) (string, error) {
	uniqueSuffix, err := CalculateUniqueSuffix(encodedSuffixData, hashAlgorithmAsMultihashCode)
	if err != nil {
		return "", err
	}

	return namespace + NamespaceDelimiter + uniqueSuffix, nil
}

// CalculateUniqueSuffix calculates the unique suffix from the encoded suffix data of a create
// operation. The hash is over the UTF-8 bytes of the encoded string.
func CalculateUniqueSuffix(encodedSuffixData string, hashAlgorithmAsMultihashCode uint) (string, error) {
	multihashBytes, err := ComputeMultihash(hashAlgorithmAsMultihashCode, []byte(encodedSuffixData))
	if err != nil {
		return "", err
	}

	return encoder.EncodeToString(multihashBytes), nil
}
