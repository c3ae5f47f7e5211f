/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package vtl holds the shared models of the bitcoin value-time-lock subsystem: the
// on-chain lock reconstructed by the resolver and the durable records written by the
// lock monitor.
package vtl

// TransactionType is the type of a lock transaction record.
type TransactionType string

const (

	// TransactionTypeCreate captures the creation of a new lock from wallet funds.
	TransactionTypeCreate TransactionType = "create"

	// TransactionTypeRelock captures spending a matured lock into a new lock.
	TransactionTypeRelock TransactionType = "relock"

	// TransactionTypeReturnToWallet captures releasing a lock back to the wallet.
	TransactionTypeReturnToWallet TransactionType = "returnToWallet"
)

// LockRecord is a durable record of a lock-monitor action. Records are written to the
// lock transaction store before the corresponding transaction is broadcast.
type LockRecord struct {
	Type TransactionType `json:"type"`

	TransactionID string `json:"transactionId"`

	RedeemScriptAsHex string `json:"redeemScriptAsHex"`

	// RawTransaction is the serialized transaction; kept so that a crash between
	// store and broadcast can be recovered by rebroadcasting.
	RawTransaction string `json:"rawTransaction"`

	DesiredLockAmountInSatoshis int64 `json:"desiredLockAmountInSatoshis"`

	CreateTimestamp int64 `json:"createTimestamp"`
}

// ValueTimeLock describes an on-chain value-time-lock reconstructed from the chain
// given a lock identifier.
type ValueTimeLock struct {
	// Identifier is the serialized lock identifier.
	Identifier string

	// AmountLocked is the locked amount in satoshis.
	AmountLocked int64

	// UnlockTransactionTime is the block height at which the lock expires.
	UnlockTransactionTime int64

	// Owner is the hex-encoded public key hash that can redeem the lock after expiry.
	Owner string
}

// LockTransactionStore is the durable append-only log of lock-monitor actions.
type LockTransactionStore interface {

	// Put durably appends a record; it has to be safe to broadcast the corresponding
	// transaction once Put returns.
	Put(record *LockRecord) error

	// GetLastLock returns the last appended record by insertion order, or nil if the
	// store is empty.
	GetLastLock() (*LockRecord, error)
}
