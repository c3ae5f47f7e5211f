/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package bitcoin defines the contract into which a real bitcoin node plugs, plus the
// script and transaction helpers shared by the value-time-lock resolver and monitor.
package bitcoin

import (
	"bytes"
	"encoding/hex"

	"github.com/btcsuite/btcd/wire"
	"github.com/pkg/errors"
)

// ErrTransactionNotFound is returned by GetRawTransaction when the transaction is not
// known to the node. The lock monitor recognizes it as a rebroadcast signal.
var ErrTransactionNotFound = errors.New("transaction not found")

// LockTransaction describes a constructed (not necessarily broadcast) lock transaction.
type LockTransaction struct {
	// TransactionID is the id of the constructed transaction.
	TransactionID string

	// RedeemScriptAsHex is the hex-encoded redeem script of the lock output.
	RedeemScriptAsHex string

	// SerializedTransaction is the hex-encoded serialized transaction.
	SerializedTransaction string

	// TransactionFee is the fee paid by the transaction in satoshis.
	TransactionFee int64
}

// Transaction is a transaction read from the chain.
type Transaction struct {
	ID      string
	Outputs []Output
}

// Output is a transaction output.
type Output struct {
	SatoshiValue    int64
	ScriptPubKeyHex string
}

// Client is the interface into which a real bitcoin node plugs. Calls are subject to
// implementation-provided timeouts; a timed-out call returns an error and the caller
// treats it as retriable.
type Client interface {

	// GetBalanceInSatoshis returns the spendable wallet balance.
	GetBalanceInSatoshis() (int64, error)

	// GetCurrentBlockHeight returns the current best block height.
	GetCurrentBlockHeight() (int64, error)

	// GetRawTransaction returns the transaction with the given id, or
	// ErrTransactionNotFound if the node doesn't know it.
	GetRawTransaction(transactionID string) (*Transaction, error)

	// CreateLockTransaction constructs a transaction locking the given amount of
	// wallet funds until the given block height. The transaction is not broadcast.
	CreateLockTransaction(amountInSatoshis, lockUntilBlock int64) (*LockTransaction, error)

	// CreateRelockTransaction constructs a transaction spending a matured lock into a
	// new lock until the given block height. The transaction is not broadcast.
	CreateRelockTransaction(previousTransactionID string, previousLockUntilBlock, lockUntilBlock int64) (*LockTransaction, error)

	// CreateReleaseLockTransaction constructs a transaction spending a matured lock
	// back to the wallet. The transaction is not broadcast.
	CreateReleaseLockTransaction(previousTransactionID string, previousLockUntilBlock int64) (*LockTransaction, error)

	// BroadcastLockTransaction broadcasts the given transaction and returns its id.
	// Broadcasting an already-mined transaction is not an error for the caller:
	// the node rejects the double-spend and both outcomes converge.
	BroadcastLockTransaction(transaction *LockTransaction) (string, error)
}

// DecodeTransaction decodes a hex-encoded serialized transaction into the Transaction
// model used by the resolver.
func DecodeTransaction(serializedTransaction string) (*Transaction, error) {
	raw, err := hex.DecodeString(serializedTransaction)
	if err != nil {
		return nil, errors.Wrap(err, "decode transaction hex")
	}

	var msgTx wire.MsgTx
	if err := msgTx.Deserialize(bytes.NewReader(raw)); err != nil {
		return nil, errors.Wrap(err, "deserialize transaction")
	}

	tx := &Transaction{ID: msgTx.TxHash().String()}

	for _, out := range msgTx.TxOut {
		tx.Outputs = append(tx.Outputs, Output{
			SatoshiValue:    out.Value,
			ScriptPubKeyHex: hex.EncodeToString(out.PkScript),
		})
	}

	return tx, nil
}
