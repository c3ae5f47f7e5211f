/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mocks

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"sync"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/btcutil"
	"github.com/pkg/errors"

	"github.com/sandrask/sidetree/pkg/vtl/bitcoin"
)

// MockBitcoinClient mocks a bitcoin node and wallet for testing purposes. Constructed
// transactions are real serialized transactions paying to P2SH(redeemScript);
// broadcasting registers them so that GetRawTransaction finds them afterwards.
type MockBitcoinClient struct {
	sync.RWMutex
	balance          int64
	blockHeight      int64
	transactionFee   int64
	walletPubKeyHash []byte
	transactions     map[string]*bitcoin.Transaction
	broadcastCount   map[string]int
	inputCounter     uint64

	BalanceErr   error
	HeightErr    error
	CreateErr    error
	BroadcastErr error
}

// NewMockBitcoinClient creates a mock bitcoin client.
func NewMockBitcoinClient() *MockBitcoinClient {
	return &MockBitcoinClient{
		transactionFee:   1000,
		walletPubKeyHash: btcutil.Hash160([]byte("mock wallet key")),
		transactions:     make(map[string]*bitcoin.Transaction),
		broadcastCount:   make(map[string]int),
	}
}

// WithBalance sets the wallet balance.
func (m *MockBitcoinClient) WithBalance(balance int64) *MockBitcoinClient {
	m.Lock()
	defer m.Unlock()

	m.balance = balance

	return m
}

// WithBlockHeight sets the current block height.
func (m *MockBitcoinClient) WithBlockHeight(height int64) *MockBitcoinClient {
	m.Lock()
	defer m.Unlock()

	m.blockHeight = height

	return m
}

// WithTransactionFee sets the fee charged by constructed transactions.
func (m *MockBitcoinClient) WithTransactionFee(fee int64) *MockBitcoinClient {
	m.Lock()
	defer m.Unlock()

	m.transactionFee = fee

	return m
}

// AddBlocks advances the current block height.
func (m *MockBitcoinClient) AddBlocks(blocks int64) {
	m.Lock()
	defer m.Unlock()

	m.blockHeight += blocks
}

// BroadcastCount returns how many times the given transaction was broadcast.
func (m *MockBitcoinClient) BroadcastCount(transactionID string) int {
	m.RLock()
	defer m.RUnlock()

	return m.broadcastCount[transactionID]
}

// RemoveTransaction removes a transaction as if it had never been broadcast.
func (m *MockBitcoinClient) RemoveTransaction(transactionID string) {
	m.Lock()
	defer m.Unlock()

	delete(m.transactions, transactionID)
}

// GetBalanceInSatoshis returns the spendable wallet balance.
func (m *MockBitcoinClient) GetBalanceInSatoshis() (int64, error) {
	if m.BalanceErr != nil {
		return 0, m.BalanceErr
	}

	m.RLock()
	defer m.RUnlock()

	return m.balance, nil
}

// GetCurrentBlockHeight returns the current best block height.
func (m *MockBitcoinClient) GetCurrentBlockHeight() (int64, error) {
	if m.HeightErr != nil {
		return 0, m.HeightErr
	}

	m.RLock()
	defer m.RUnlock()

	return m.blockHeight, nil
}

// GetRawTransaction returns a broadcast transaction.
func (m *MockBitcoinClient) GetRawTransaction(transactionID string) (*bitcoin.Transaction, error) {
	m.RLock()
	defer m.RUnlock()

	tx, ok := m.transactions[transactionID]
	if !ok {
		return nil, errors.Wrap(bitcoin.ErrTransactionNotFound, transactionID)
	}

	return tx, nil
}

// CreateLockTransaction constructs a transaction locking wallet funds.
func (m *MockBitcoinClient) CreateLockTransaction(amountInSatoshis, lockUntilBlock int64) (*bitcoin.LockTransaction, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}

	m.Lock()
	defer m.Unlock()

	m.inputCounter++

	var input chainhash.Hash
	binary.BigEndian.PutUint64(input[:8], m.inputCounter)

	return m.buildLockTransaction(&input, amountInSatoshis, lockUntilBlock)
}

// CreateRelockTransaction constructs a transaction spending a lock into a new lock.
func (m *MockBitcoinClient) CreateRelockTransaction(previousTransactionID string, previousLockUntilBlock, lockUntilBlock int64) (*bitcoin.LockTransaction, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}

	m.Lock()
	defer m.Unlock()

	input, amount, err := m.previousLockOutput(previousTransactionID)
	if err != nil {
		return nil, err
	}

	return m.buildLockTransaction(input, amount-m.transactionFee, lockUntilBlock)
}

// CreateReleaseLockTransaction constructs a transaction spending a lock back to the wallet.
func (m *MockBitcoinClient) CreateReleaseLockTransaction(previousTransactionID string, previousLockUntilBlock int64) (*bitcoin.LockTransaction, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}

	m.Lock()
	defer m.Unlock()

	input, amount, err := m.previousLockOutput(previousTransactionID)
	if err != nil {
		return nil, err
	}

	payToWallet, err := txscript.NewScriptBuilder().
		AddOp(txscript.OP_DUP).
		AddOp(txscript.OP_HASH160).
		AddData(m.walletPubKeyHash).
		AddOp(txscript.OP_EQUALVERIFY).
		AddOp(txscript.OP_CHECKSIG).
		Script()
	if err != nil {
		return nil, err
	}

	msgTx, err := m.buildTransaction(input, amount-m.transactionFee, payToWallet)
	if err != nil {
		return nil, err
	}

	return &bitcoin.LockTransaction{
		TransactionID:         msgTx.ID,
		SerializedTransaction: msgTx.Raw,
		TransactionFee:        m.transactionFee,
	}, nil
}

// BroadcastLockTransaction registers the transaction as mined.
func (m *MockBitcoinClient) BroadcastLockTransaction(transaction *bitcoin.LockTransaction) (string, error) {
	if m.BroadcastErr != nil {
		return "", m.BroadcastErr
	}

	decoded, err := bitcoin.DecodeTransaction(transaction.SerializedTransaction)
	if err != nil {
		return "", err
	}

	m.Lock()
	defer m.Unlock()

	m.transactions[decoded.ID] = decoded
	m.broadcastCount[decoded.ID]++

	return decoded.ID, nil
}

type builtTransaction struct {
	ID  string
	Raw string
}

func (m *MockBitcoinClient) buildLockTransaction(input *chainhash.Hash, amountInSatoshis, lockUntilBlock int64) (*bitcoin.LockTransaction, error) {
	redeemScript, err := bitcoin.BuildLockScript(lockUntilBlock, m.walletPubKeyHash)
	if err != nil {
		return nil, err
	}

	payToScript, err := bitcoin.PayToScriptHashScript(redeemScript)
	if err != nil {
		return nil, err
	}

	msgTx, err := m.buildTransaction(input, amountInSatoshis, payToScript)
	if err != nil {
		return nil, err
	}

	return &bitcoin.LockTransaction{
		TransactionID:         msgTx.ID,
		RedeemScriptAsHex:     hex.EncodeToString(redeemScript),
		SerializedTransaction: msgTx.Raw,
		TransactionFee:        m.transactionFee,
	}, nil
}

func (m *MockBitcoinClient) buildTransaction(input *chainhash.Hash, amountInSatoshis int64, pkScript []byte) (*builtTransaction, error) {
	msgTx := wire.NewMsgTx(wire.TxVersion)
	msgTx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(input, 0), nil, nil))
	msgTx.AddTxOut(wire.NewTxOut(amountInSatoshis, pkScript))

	var raw bytes.Buffer
	if err := msgTx.Serialize(&raw); err != nil {
		return nil, err
	}

	return &builtTransaction{
		ID:  msgTx.TxHash().String(),
		Raw: hex.EncodeToString(raw.Bytes()),
	}, nil
}

func (m *MockBitcoinClient) previousLockOutput(previousTransactionID string) (*chainhash.Hash, int64, error) {
	prev, ok := m.transactions[previousTransactionID]
	if !ok {
		return nil, 0, errors.Wrap(bitcoin.ErrTransactionNotFound, previousTransactionID)
	}

	input, err := chainhash.NewHashFromStr(previousTransactionID)
	if err != nil {
		return nil, 0, err
	}

	return input, prev.Outputs[0].SatoshiValue, nil
}
