// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package mempool admits signed transactions per register and hands them
// to the sealer in batches. Admission enforces register status, tx id
// uniqueness, signature validity and, for control transactions, legal
// roster succession.
package mempool

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/pkg/errors"

	"github.com/sorcha-ledger/sorcha/cry"
	"github.com/sorcha-ledger/sorcha/did"
	"github.com/sorcha-ledger/sorcha/log"
	"github.com/sorcha-ledger/sorcha/metrics"
	"github.com/sorcha-ledger/sorcha/register"
	"github.com/sorcha-ledger/sorcha/roster"
	"github.com/sorcha-ledger/sorcha/sorcha"
	"github.com/sorcha-ledger/sorcha/tx"
)

var (
	logger = log.WithContext("pkg", "mempool")

	metricAdmitted = metrics.LazyLoadCounter("mempool_admitted_count")
	metricRejected = metrics.LazyLoadCounterVec("mempool_rejected_count", []string{"reason"})
	metricPoolSize = metrics.LazyLoadGauge("mempool_size_gauge")
)

// TxEvent is published on every successful admission.
type TxEvent struct {
	Tx *tx.Transaction
}

// Entry is an admitted transaction with its admission metadata. Seq is a
// process-wide monotonic admission counter; within a priority class it
// gives FIFO sealing order.
type Entry struct {
	Tx         *tx.Transaction
	Seq        uint64
	AdmittedAt uint64
}

// Mempool holds admitted transactions per register until sealed.
type Mempool struct {
	repo     *register.Repository
	resolver *did.Resolver
	feed     event.Feed
	scope    event.SubscriptionScope

	lock    sync.Mutex
	queues  map[sorcha.RegisterID]map[sorcha.Bytes32]*Entry
	nextSeq uint64

	nowFunc func() uint64
}

// New creates a mempool over the repository and resolver.
func New(repo *register.Repository, resolver *did.Resolver) *Mempool {
	return &Mempool{
		repo:     repo,
		resolver: resolver,
		queues:   make(map[sorcha.RegisterID]map[sorcha.Bytes32]*Entry),
		nowFunc:  func() uint64 { return uint64(time.Now().Unix()) },
	}
}

// SubscribeTxEvent subscribes to admission events.
func (m *Mempool) SubscribeTxEvent(ch chan TxEvent) event.Subscription {
	return m.scope.Track(m.feed.Subscribe(ch))
}

// Close unsubscribes all event subscribers.
func (m *Mempool) Close() {
	m.scope.Close()
}

// Add validates and admits a transaction. The returned error carries one
// of the rejection sentinels.
func (m *Mempool) Add(ctx context.Context, trx *tx.Transaction) error {
	if err := m.validate(ctx, trx); err != nil {
		reason := rejectReason(err)
		metricRejected().AddWithLabel(1, map[string]string{"reason": reason})
		logger.Debug("tx rejected", "id", trx.ID().AbbrevString(), "reason", reason, "err", err)
		return err
	}

	m.lock.Lock()
	queue, ok := m.queues[trx.RegisterID()]
	if !ok {
		queue = make(map[sorcha.Bytes32]*Entry)
		m.queues[trx.RegisterID()] = queue
	}
	if _, dup := queue[trx.ID()]; dup {
		m.lock.Unlock()
		metricRejected().AddWithLabel(1, map[string]string{"reason": "duplicate"})
		return errors.Wrapf(errDuplicateTx, "%v", trx.ID())
	}
	entry := &Entry{Tx: trx, Seq: m.nextSeq, AdmittedAt: m.nowFunc()}
	m.nextSeq++
	queue[trx.ID()] = entry
	m.lock.Unlock()

	metricAdmitted().Add(1)
	metricPoolSize().Add(1)
	logger.Debug("tx admitted", "id", trx.ID().AbbrevString(), "type", trx.Type(), "priority", trx.Priority())
	m.feed.Send(TxEvent{Tx: trx})
	return nil
}

// Pop atomically takes every admitted entry of the register. Entries are
// returned in admission order; the sealer applies priority ordering.
func (m *Mempool) Pop(regID sorcha.RegisterID) []*Entry {
	m.lock.Lock()
	queue := m.queues[regID]
	delete(m.queues, regID)
	m.lock.Unlock()
	if len(queue) == 0 {
		return nil
	}

	entries := make([]*Entry, 0, len(queue))
	for _, e := range queue {
		entries = append(entries, e)
	}
	sortBySeq(entries)
	metricPoolSize().Add(-int64(len(entries)))
	return entries
}

// Requeue returns entries to the pool after a failed seal, keeping their
// original admission metadata.
func (m *Mempool) Requeue(regID sorcha.RegisterID, entries []*Entry) {
	if len(entries) == 0 {
		return
	}
	m.lock.Lock()
	queue, ok := m.queues[regID]
	if !ok {
		queue = make(map[sorcha.Bytes32]*Entry)
		m.queues[regID] = queue
	}
	restored := 0
	for _, e := range entries {
		if _, dup := queue[e.Tx.ID()]; dup {
			continue
		}
		queue[e.Tx.ID()] = e
		restored++
	}
	m.lock.Unlock()
	metricPoolSize().Add(int64(restored))
}

// Len returns the number of pending entries for the register.
func (m *Mempool) Len(regID sorcha.RegisterID) int {
	m.lock.Lock()
	defer m.lock.Unlock()
	return len(m.queues[regID])
}

// Registers returns the ids of registers with pending entries.
func (m *Mempool) Registers() []sorcha.RegisterID {
	m.lock.Lock()
	defer m.lock.Unlock()
	ids := make([]sorcha.RegisterID, 0, len(m.queues))
	for id := range m.queues {
		ids = append(ids, id)
	}
	return ids
}

func (m *Mempool) validate(ctx context.Context, trx *tx.Transaction) error {
	if trx.Size() > sorcha.MaxTxSize {
		return errors.Wrapf(errTxTooLarge, "%d bytes", trx.Size())
	}

	reg, err := m.repo.GetRegister(trx.RegisterID())
	if err != nil {
		if register.IsNotFound(err) {
			return errors.Wrapf(errRegisterUnavailable, "register %v unknown", trx.RegisterID())
		}
		return err
	}
	if !reg.AcceptsType(trx.Type() == tx.TypeGenesis) {
		return errors.Wrapf(errRegisterUnavailable, "register %v is %v", reg.ID, reg.RegStatus)
	}

	stored, err := m.repo.HasTransaction(reg.ID, trx.ID())
	if err != nil {
		return err
	}
	if stored {
		return errors.Wrapf(errDuplicateTx, "%v already sealed", trx.ID())
	}
	m.lock.Lock()
	_, pending := m.queues[reg.ID][trx.ID()]
	m.lock.Unlock()
	if pending {
		return errors.Wrapf(errDuplicateTx, "%v", trx.ID())
	}

	if err := m.verifySignature(ctx, trx); err != nil {
		return err
	}

	switch trx.Type() {
	case tx.TypeControl:
		return m.validateControl(trx)
	case tx.TypeGenesis:
		return m.validateGenesis(trx)
	default:
		return m.validateAction(trx)
	}
}

func (m *Mempool) verifySignature(ctx context.Context, trx *tx.Transaction) error {
	key, err := m.resolver.Resolve(ctx, trx.SenderDID())
	if err != nil {
		return errors.Wrapf(errBadSignature, "resolve sender: %v", err)
	}
	if err := cry.VerifyPreHashed(key.Algorithm, key.PublicKey, trx.SigningHash(), trx.Signature()); err != nil {
		return errors.Wrapf(errBadSignature, "%v", err)
	}
	return nil
}

// validateControl re-checks the governance state machine server-side: the
// embedded roster must be exactly the successor produced by applying the
// embedded operation to the current roster.
func (m *Mempool) validateControl(trx *tx.Transaction) error {
	payloads := trx.Payloads()
	if len(payloads) == 0 {
		return errors.Wrap(errBadControlPayload, "no payload")
	}
	payload, err := roster.DecodePayload(payloads[0].Data)
	if err != nil {
		return errors.Wrapf(errBadControlPayload, "%v", err)
	}
	if payload.Operation == nil {
		return errors.Wrap(errBadControlPayload, "no operation")
	}
	if err := payload.Roster.Validate(); err != nil {
		return errors.Wrapf(errBadControlPayload, "%v", err)
	}

	current, err := roster.Reconstruct(m.repo, trx.RegisterID())
	if err != nil {
		return err
	}
	if current == nil {
		return errors.Wrap(errBadControlPayload, "register has no roster")
	}

	op := payload.Operation
	if result := roster.ValidateProposal(current.ControlRecord, op, m.nowFunc()); !result.IsValid {
		return errors.Wrapf(errBadControlPayload, "proposal invalid: %v", result.Errors[0])
	}

	var attestation *roster.Attestation
	if op.Type == roster.OpAdd {
		att, ok := payload.Roster.Find(op.TargetDID)
		if !ok {
			return errors.Wrap(errBadControlPayload, "added member missing from successor roster")
		}
		attestation = att
	}
	successor, err := roster.Apply(current.ControlRecord, op, attestation)
	if err != nil {
		return errors.Wrapf(errBadControlPayload, "%v", err)
	}

	want, err := encodeRecord(successor)
	if err != nil {
		return err
	}
	got, err := encodeRecord(payload.Roster)
	if err != nil {
		return err
	}
	if !bytes.Equal(want, got) {
		return errors.Wrap(errBadControlPayload, "embedded roster is not the legal successor")
	}
	return nil
}

func (m *Mempool) validateGenesis(trx *tx.Transaction) error {
	payloads := trx.Payloads()
	if len(payloads) == 0 {
		return errors.Wrap(errBadControlPayload, "no payload")
	}
	payload, err := roster.DecodePayload(payloads[0].Data)
	if err != nil {
		return errors.Wrapf(errBadControlPayload, "%v", err)
	}
	if payload.Roster.RegisterID != trx.RegisterID() {
		return errors.Wrap(errBadControlPayload, "roster register id mismatch")
	}
	if err := payload.Roster.Validate(); err != nil {
		return errors.Wrapf(errBadControlPayload, "%v", err)
	}
	if payload.Roster.Owner() == nil {
		return errors.Wrap(errBadControlPayload, "genesis roster without owner")
	}
	return nil
}

func (m *Mempool) validateAction(trx *tx.Transaction) error {
	prev := trx.PrevTxID()
	if prev == nil {
		return nil
	}
	exists, err := m.repo.HasTransaction(trx.RegisterID(), *prev)
	if err != nil {
		return err
	}
	if !exists {
		return errors.Wrapf(errUnknownPrevTx, "%v", *prev)
	}
	return nil
}

func encodeRecord(rec *roster.ControlRecord) ([]byte, error) {
	payload := roster.NewPayload(rec, nil)
	return payload.Encode()
}

func sortBySeq(entries []*Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Seq < entries[j].Seq
	})
}
