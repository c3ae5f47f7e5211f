/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package cas

// Client defines the interface to content-addressable storage. Implemented by the
// CAS provider which is external to this module.
type Client interface {

	// Write writes the given content to CAS and returns its address.
	Write(content []byte) (string, error)

	// Read reads the content of the given address from CAS.
	Read(address string) ([]byte, error)
}
