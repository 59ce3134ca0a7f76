// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package sealer drains the mempool on a fixed interval and seals admitted
// transactions into the docket chain of their register.
package sealer

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/sorcha-ledger/sorcha/co"
	"github.com/sorcha-ledger/sorcha/docket"
	"github.com/sorcha-ledger/sorcha/log"
	"github.com/sorcha-ledger/sorcha/mempool"
	"github.com/sorcha-ledger/sorcha/metrics"
	"github.com/sorcha-ledger/sorcha/register"
	"github.com/sorcha-ledger/sorcha/sorcha"
	"github.com/sorcha-ledger/sorcha/tx"
	"github.com/sorcha-ledger/sorcha/wallet"
)

var (
	logger = log.WithContext("pkg", "sealer")

	metricSealed     = metrics.LazyLoadCounter("sealer_dockets_sealed_count")
	metricSealedTxs  = metrics.LazyLoadCounter("sealer_txs_sealed_count")
	metricSealErrors = metrics.LazyLoadCounter("sealer_errors_count")
	metricSealMs     = metrics.LazyLoadHistogram("sealer_seal_duration_ms", metrics.Bucket10s)
)

// Sealer periodically seals mempool batches into dockets.
type Sealer struct {
	repo          *register.Repository
	pool          *mempool.Mempool
	signer        wallet.Signer
	systemAddress string
	interval      time.Duration

	goes   co.Goes
	cancel func()
	wakeup co.Signal

	lock     sync.Mutex
	regLocks map[sorcha.RegisterID]*sync.Mutex

	nowFunc func() uint64
}

// New creates a sealer. The system wallet signs every sealed docket.
func New(repo *register.Repository, pool *mempool.Mempool, signer wallet.Signer, systemAddress string, interval time.Duration) *Sealer {
	if interval <= 0 {
		interval = sorcha.SealInterval
	}
	return &Sealer{
		repo:          repo,
		pool:          pool,
		signer:        signer,
		systemAddress: systemAddress,
		interval:      interval,
		regLocks:      make(map[sorcha.RegisterID]*sync.Mutex),
		nowFunc:       func() uint64 { return uint64(time.Now().Unix()) },
	}
}

// Start launches the sealing loop. Mempool admissions wake the loop early;
// the interval ticker is the fallback for anything the wakeups miss.
func (s *Sealer) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	txCh := make(chan mempool.TxEvent, 64)
	sub := s.pool.SubscribeTxEvent(txCh)
	s.goes.Go(func() {
		defer sub.Unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case <-txCh:
				// bursts coalesce into a single pending wakeup
				s.wakeup.Signal()
			}
		}
	})

	s.goes.Go(func() { s.loop(ctx) })
	logger.Info("sealer started", "interval", s.interval)
}

// Stop terminates the loop and waits for the in-flight pass to finish.
func (s *Sealer) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.goes.Wait()
	logger.Info("sealer stopped")
}

func (s *Sealer) loop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	waiter := s.wakeup.NewWaiter()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-waiter.C():
		}
		s.SealAll(ctx)
	}
}

// SealAll runs one sealing pass over every register with pending entries.
func (s *Sealer) SealAll(ctx context.Context) {
	for _, regID := range s.pool.Registers() {
		if ctx.Err() != nil {
			return
		}
		if err := s.SealRegister(ctx, regID); err != nil {
			metricSealErrors().Add(1)
			logger.Warn("seal failed", "register", regID, "err", err)
		}
	}
}

// SealRegister drains the register's mempool entries into one sealed
// docket. The pass serializes per register, so docket ids stay contiguous.
// On any failure the whole batch returns to the mempool.
func (s *Sealer) SealRegister(ctx context.Context, regID sorcha.RegisterID) error {
	regLock := s.registerLock(regID)
	regLock.Lock()
	defer regLock.Unlock()

	entries := s.pool.Pop(regID)
	if len(entries) == 0 {
		return nil
	}

	start := time.Now()
	if err := s.seal(ctx, regID, entries); err != nil {
		s.pool.Requeue(regID, entries)
		return err
	}
	metricSealMs().Observe(time.Since(start).Milliseconds())
	return nil
}

func (s *Sealer) seal(ctx context.Context, regID sorcha.RegisterID, entries []*mempool.Entry) error {
	reg, err := s.repo.GetRegister(regID)
	if err != nil {
		return err
	}

	// priority desc, admission order asc within a class
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Tx.Priority() != entries[j].Tx.Priority() {
			return entries[i].Tx.Priority() > entries[j].Tx.Priority()
		}
		return entries[i].Seq < entries[j].Seq
	})

	txs := make(tx.Transactions, len(entries))
	for i, e := range entries {
		txs[i] = e.Tx
	}

	var prevHash sorcha.Bytes32
	if reg.Height > 0 {
		prev, err := s.repo.GetDocket(regID, reg.Height)
		if err != nil {
			return errors.Wrapf(err, "docket %d", reg.Height)
		}
		prevHash = prev.Hash(reg.DigestKey)
	}

	proposed := new(docket.Builder).
		ID(reg.Height + 1).
		RegisterID(regID).
		PreviousHash(prevHash).
		TransactionIDs(txs.IDs()).
		Timestamp(s.nowFunc()).
		Build()

	hash := proposed.Hash(reg.DigestKey)
	sig, _, err := s.signer.Sign(ctx, s.systemAddress, hash.Bytes(), true)
	if err != nil {
		return errors.Wrap(err, "sign docket")
	}
	sealed := proposed.WithState(docket.StateSealed).WithSignature(sig)

	if err := s.repo.CommitDocket(reg, sealed, txs); err != nil {
		return errors.Wrap(err, "commit docket")
	}

	metricSealed().Add(1)
	metricSealedTxs().Add(int64(len(txs)))
	logger.Info("docket sealed",
		"register", regID,
		"id", sealed.ID(),
		"txs", len(txs),
		"hash", hash.AbbrevString(),
	)
	return nil
}

func (s *Sealer) registerLock(regID sorcha.RegisterID) *sync.Mutex {
	s.lock.Lock()
	defer s.lock.Unlock()
	l, ok := s.regLocks[regID]
	if !ok {
		l = new(sync.Mutex)
		s.regLocks[regID] = l
	}
	return l
}
