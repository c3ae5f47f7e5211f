/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package lockmonitor maintains exactly one on-chain value-time-lock sized to the
// configured target. The monitor is a single-agent control loop: each tick reconciles
// against the last stored record plus on-chain presence, then takes at most one
// corrective action (create, relock or release).
package lockmonitor

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/sandrask/sidetree/pkg/vtl"
	"github.com/sandrask/sidetree/pkg/vtl/bitcoin"
	"github.com/sandrask/sidetree/pkg/vtl/lockid"
	"github.com/sandrask/sidetree/pkg/vtl/lockresolver"
)

// ErrNotEnoughBalanceForFirstLock is returned when the wallet balance cannot cover the
// desired lock amount plus the first-lock fee. It is an expected control-flow signal;
// the monitor waits for the next tick.
var ErrNotEnoughBalanceForFirstLock = errors.New("not enough balance to create first lock")

// Config holds the lock monitor parameters.
type Config struct {
	// DesiredLockAmountInSatoshis is the target bond size; zero means no lock is required.
	DesiredLockAmountInSatoshis int64

	// LockPeriodInBlocks is the number of blocks each lock is created or renewed for.
	LockPeriodInBlocks int64

	// PollPeriod is the pause between the completion of one tick and the start of the next.
	PollPeriod time.Duration

	// FirstLockFeeAmountInSatoshis is the fee margin added on top of the desired amount
	// when the first lock is created, so that later relock fees don't dip the locked
	// amount below the target.
	FirstLockFeeAmountInSatoshis int64
}

// Resolver resolves a serialized lock identifier into a value-time-lock.
type Resolver interface {
	ResolveSerializedIdentifier(serialized string) (*vtl.ValueTimeLock, error)
}

// Monitor is the value-time-lock monitor.
type Monitor struct {
	client   bitcoin.Client
	store    vtl.LockTransactionStore
	resolver Resolver
	cfg      Config

	mutex  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a new lock monitor. Call Start to begin polling.
func New(client bitcoin.Client, store vtl.LockTransactionStore, resolver Resolver, cfg Config) *Monitor {
	return &Monitor{
		client:   client,
		store:    store,
		resolver: resolver,
		cfg:      cfg,
	}
}

// Start begins the polling loop. A previous loop is cancelled and awaited first, so
// overlapping ticks are impossible even under repeated Start calls. A new tick is
// scheduled PollPeriod after the previous tick completes.
func (m *Monitor) Start() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.stopLocked()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	m.cancel = cancel
	m.done = done

	go m.run(ctx, done)
}

// Stop cancels the polling loop and waits for the in-flight tick to finish.
func (m *Monitor) Stop() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.stopLocked()
}

func (m *Monitor) stopLocked() {
	if m.cancel == nil {
		return
	}

	m.cancel()
	<-m.done

	m.cancel = nil
	m.done = nil
}

func (m *Monitor) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	for {
		// a tick that fails is logged and abandoned; the next tick re-reconciles
		// from persistent state
		if err := m.tick(); err != nil {
			log.Warnf("lock monitor tick failed: %s", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(m.cfg.PollPeriod):
		}
	}
}

// lockState is the reconciled view of the last stored record plus on-chain presence.
// The pending states of the lock lifecycle are implicit: a record whose transaction is
// not yet on the chain is pending and the tick takes no further action.
type lockState struct {
	record  *vtl.LockRecord
	lock    *vtl.ValueTimeLock
	pending bool
}

// tick runs one reconcile-and-decide cycle.
func (m *Monitor) tick() error {
	state, err := m.reconcile()
	if err != nil {
		return err
	}

	if state.pending {
		log.Debugf("lock transaction %s is pending confirmation", state.record.TransactionID)

		return nil
	}

	lockRequired := m.cfg.DesiredLockAmountInSatoshis > 0

	switch {
	case lockRequired && state.lock == nil:
		return m.createFirstLock()
	case lockRequired && state.lock != nil:
		return m.renewIfRequired(state)
	case !lockRequired && state.lock != nil:
		log.Info("no lock is required; releasing active lock")

		return m.releaseLock(state)
	default:
		return nil
	}
}

// reconcile reads the last record from the store and classifies the current state.
// A record whose transaction never made it to the chain is rebroadcast: the record is
// always persisted before the broadcast, so a crash in between is recovered here.
// Rebroadcasting is idempotent because the chain rejects double-spends.
func (m *Monitor) reconcile() (*lockState, error) {
	record, err := m.store.GetLastLock()
	if err != nil {
		return nil, err
	}

	if record == nil {
		return &lockState{}, nil
	}

	if record.Type == vtl.TransactionTypeReturnToWallet {
		broadcasted, err := m.isBroadcasted(record.TransactionID)
		if err != nil {
			return nil, err
		}

		if !broadcasted {
			if err := m.rebroadcast(record); err != nil {
				return nil, err
			}

			return &lockState{record: record, pending: true}, nil
		}

		// released; no active lock
		return &lockState{record: record}, nil
	}

	serialized, err := serializeRecordID(record)
	if err != nil {
		return nil, err
	}

	lock, err := m.resolver.ResolveSerializedIdentifier(serialized)
	if err != nil {
		if errors.Is(err, lockresolver.ErrTransactionNotFound) {
			if err := m.rebroadcast(record); err != nil {
				return nil, err
			}

			return &lockState{record: record, pending: true}, nil
		}

		// any other resolver error is fatal to this tick
		return nil, err
	}

	return &lockState{record: record, lock: lock}, nil
}

func (m *Monitor) createFirstLock() error {
	balance, err := m.client.GetBalanceInSatoshis()
	if err != nil {
		return err
	}

	required := m.cfg.DesiredLockAmountInSatoshis + m.cfg.FirstLockFeeAmountInSatoshis
	if balance <= required {
		return errors.Wrapf(ErrNotEnoughBalanceForFirstLock, "balance %d, required more than %d", balance, required)
	}

	height, err := m.client.GetCurrentBlockHeight()
	if err != nil {
		return err
	}

	lockTx, err := m.client.CreateLockTransaction(required, height+m.cfg.LockPeriodInBlocks)
	if err != nil {
		return err
	}

	log.Infof("creating lock of %d satoshis until block %d: %s", required, height+m.cfg.LockPeriodInBlocks, lockTx.TransactionID)

	return m.saveThenBroadcast(vtl.TransactionTypeCreate, lockTx)
}

// renewIfRequired renews a lock that is about to expire. If the configured amount
// changed, or the relock fee would reduce the locked amount below the desired target,
// the lock is released instead.
func (m *Monitor) renewIfRequired(state *lockState) error {
	height, err := m.client.GetCurrentBlockHeight()
	if err != nil {
		return err
	}

	if state.lock.UnlockTransactionTime-height > 1 {
		return nil
	}

	if state.record.DesiredLockAmountInSatoshis != m.cfg.DesiredLockAmountInSatoshis {
		log.Infof("desired lock amount changed from %d to %d; releasing lock",
			state.record.DesiredLockAmountInSatoshis, m.cfg.DesiredLockAmountInSatoshis)

		return m.releaseLock(state)
	}

	result, err := m.relock(state, height)
	if err != nil {
		return err
	}

	if result == insufficientFundsFallbackToRelease {
		log.Infof("relock fee would reduce the locked amount below %d; releasing lock",
			m.cfg.DesiredLockAmountInSatoshis)

		return m.releaseLock(state)
	}

	return nil
}

// renewResult makes the relock fallback explicit: a shortfall is control flow, not an error.
type renewResult int

const (
	relocked renewResult = iota
	insufficientFundsFallbackToRelease
)

func (m *Monitor) relock(state *lockState, height int64) (renewResult, error) {
	relockTx, err := m.client.CreateRelockTransaction(
		state.record.TransactionID, state.lock.UnlockTransactionTime, height+m.cfg.LockPeriodInBlocks)
	if err != nil {
		return 0, err
	}

	if state.lock.AmountLocked-relockTx.TransactionFee < m.cfg.DesiredLockAmountInSatoshis {
		return insufficientFundsFallbackToRelease, nil
	}

	log.Infof("relocking %d satoshis until block %d: %s",
		state.lock.AmountLocked-relockTx.TransactionFee, height+m.cfg.LockPeriodInBlocks, relockTx.TransactionID)

	return relocked, m.saveThenBroadcast(vtl.TransactionTypeRelock, relockTx)
}

func (m *Monitor) releaseLock(state *lockState) error {
	releaseTx, err := m.client.CreateReleaseLockTransaction(state.record.TransactionID, state.lock.UnlockTransactionTime)
	if err != nil {
		return err
	}

	log.Infof("releasing lock %s back to wallet: %s", state.record.TransactionID, releaseTx.TransactionID)

	return m.saveThenBroadcast(vtl.TransactionTypeReturnToWallet, releaseTx)
}

// saveThenBroadcast persists the record before broadcasting. The ordering is mandatory:
// a broadcast-then-crash would leave an on-chain transaction undiscoverable from
// monitor state, while a store-then-crash is recovered by the next-tick rebroadcast.
func (m *Monitor) saveThenBroadcast(recordType vtl.TransactionType, lockTx *bitcoin.LockTransaction) error {
	record := &vtl.LockRecord{
		Type:                        recordType,
		TransactionID:               lockTx.TransactionID,
		RedeemScriptAsHex:           lockTx.RedeemScriptAsHex,
		RawTransaction:              lockTx.SerializedTransaction,
		DesiredLockAmountInSatoshis: m.cfg.DesiredLockAmountInSatoshis,
		CreateTimestamp:             time.Now().UnixNano() / int64(time.Millisecond),
	}

	if err := m.store.Put(record); err != nil {
		return err
	}

	_, err := m.client.BroadcastLockTransaction(lockTx)

	return err
}

func serializeRecordID(record *vtl.LockRecord) (string, error) {
	return lockid.Serialize(&lockid.LockIdentifier{
		TransactionID:     record.TransactionID,
		RedeemScriptAsHex: record.RedeemScriptAsHex,
	})
}

func (m *Monitor) isBroadcasted(transactionID string) (bool, error) {
	_, err := m.client.GetRawTransaction(transactionID)
	if err != nil {
		if errors.Is(err, bitcoin.ErrTransactionNotFound) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

func (m *Monitor) rebroadcast(record *vtl.LockRecord) error {
	log.Infof("rebroadcasting lock transaction %s", record.TransactionID)

	_, err := m.client.BroadcastLockTransaction(&bitcoin.LockTransaction{
		TransactionID:         record.TransactionID,
		RedeemScriptAsHex:     record.RedeemScriptAsHex,
		SerializedTransaction: record.RawTransaction,
	})

	return err
}
