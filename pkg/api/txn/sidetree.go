/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package txn

// SidetreeTxn defines the data structure of a sidetree transaction read from the
// anchoring blockchain. Transaction number and operation index within the batch
// fix the position of every operation in the global total order.
type SidetreeTxn struct {
	TransactionTime   uint64
	TransactionNumber uint64
	AnchorAddress     string
}

// Client defines the interface to access the underlying anchoring blockchain.
// Implemented by the transaction observer/anchor reader which is external to this module.
type Client interface {

	// WriteAnchor writes the anchor file address to the anchoring blockchain.
	WriteAnchor(anchorFileAddress string) error

	// Read reads transactions since the given transaction number.
	Read(sinceTransactionNumber int) (bool, *SidetreeTxn)
}
