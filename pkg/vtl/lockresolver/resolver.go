/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package lockresolver validates an on-chain output as a well-formed value-time-lock.
package lockresolver

import (
	"encoding/hex"

	"github.com/pkg/errors"

	"github.com/sandrask/sidetree/pkg/vtl"
	"github.com/sandrask/sidetree/pkg/vtl/bitcoin"
	"github.com/sandrask/sidetree/pkg/vtl/lockid"
)

// ErrTransactionNotFound is returned when the lock transaction is not on the chain.
// It is a recognized recovery signal (rebroadcast), distinguished from
// malformed-script errors which are fatal.
var ErrTransactionNotFound = errors.New("lock transaction not found")

// Resolver resolves lock identifiers into value-time-locks.
type Resolver struct {
	client bitcoin.Client
}

// New returns a new lock resolver.
func New(client bitcoin.Client) *Resolver {
	return &Resolver{client: client}
}

// ResolveSerializedIdentifier resolves a serialized lock identifier into a value-time-lock.
func (r *Resolver) ResolveSerializedIdentifier(serialized string) (*vtl.ValueTimeLock, error) {
	identifier, err := lockid.Deserialize(serialized)
	if err != nil {
		return nil, err
	}

	return r.ResolveLockIdentifier(identifier)
}

// ResolveLockIdentifier resolves a lock identifier into a value-time-lock by parsing
// its redeem script, fetching the named transaction and locating the output paying to
// P2SH(redeemScript).
func (r *Resolver) ResolveLockIdentifier(identifier *lockid.LockIdentifier) (*vtl.ValueTimeLock, error) {
	redeemScript, err := hex.DecodeString(identifier.RedeemScriptAsHex)
	if err != nil {
		return nil, errors.Wrap(err, "decode redeem script hex")
	}

	lockScript, err := bitcoin.ParseLockScript(redeemScript)
	if err != nil {
		return nil, err
	}

	transaction, err := r.client.GetRawTransaction(identifier.TransactionID)
	if err != nil {
		if errors.Is(err, bitcoin.ErrTransactionNotFound) {
			return nil, errors.Wrap(ErrTransactionNotFound, identifier.TransactionID)
		}

		return nil, err
	}

	payToScript, err := bitcoin.PayToScriptHashScript(redeemScript)
	if err != nil {
		return nil, err
	}

	output := findOutput(transaction, hex.EncodeToString(payToScript))
	if output == nil {
		return nil, errors.Errorf("transaction %s doesn't pay to the lock script", identifier.TransactionID)
	}

	serialized, err := lockid.Serialize(identifier)
	if err != nil {
		return nil, err
	}

	return &vtl.ValueTimeLock{
		Identifier:            serialized,
		AmountLocked:          output.SatoshiValue,
		UnlockTransactionTime: lockScript.LockUntilBlock,
		Owner:                 hex.EncodeToString(lockScript.PubKeyHash),
	}, nil
}

func findOutput(transaction *bitcoin.Transaction, scriptPubKeyHex string) *bitcoin.Output {
	for i := range transaction.Outputs {
		if transaction.Outputs[i].ScriptPubKeyHex == scriptPubKeyHex {
			return &transaction.Outputs[i]
		}
	}

	return nil
}
