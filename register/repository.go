// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package register

import (
	"encoding/binary"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/sorcha-ledger/sorcha/docket"
	"github.com/sorcha-ledger/sorcha/kv"
	"github.com/sorcha-ledger/sorcha/metrics"
	"github.com/sorcha-ledger/sorcha/sorcha"
	"github.com/sorcha-ledger/sorcha/tx"
)

var (
	// ErrNotFound is returned when a register, docket or transaction is absent.
	ErrNotFound = errors.New("not found")

	metricDocketCommits = metrics.LazyLoadCounter("register_docket_commits_count")
	metricTxStored      = metrics.LazyLoadCounter("register_tx_stored_count")
	metricCacheHits     = metrics.LazyLoadCounterVec("register_cache_hit_count", []string{"kind"})
)

// IsNotFound reports whether the error means a missing entity.
func IsNotFound(err error) bool {
	return errors.Cause(err) == ErrNotFound
}

// Repository persists registers, their docket chains and sealed
// transactions over a kv store. All mutation of a register's height goes
// through CommitDocket; the caller serializes per register.
type Repository struct {
	store kv.Store

	docketCache *lru.Cache
	txCache     *lru.Cache
}

// NewRepository creates a repository over the given store.
func NewRepository(store kv.Store) *Repository {
	docketCache, _ := lru.New(512)
	txCache, _ := lru.New(4096)
	return &Repository{
		store:       store,
		docketCache: docketCache,
		txCache:     txCache,
	}
}

// AddRegister persists a new register entity.
func (r *Repository) AddRegister(reg *Register) error {
	has, err := registerBucket.NewGetter(r.store).Has(reg.ID.Bytes())
	if err != nil {
		return err
	}
	if has {
		return errors.Errorf("register %v already exists", reg.ID)
	}
	return r.saveRegister(r.store, reg)
}

// UpdateRegister overwrites an existing register entity.
func (r *Repository) UpdateRegister(reg *Register) error {
	if _, err := r.GetRegister(reg.ID); err != nil {
		return err
	}
	return r.saveRegister(r.store, reg)
}

func (r *Repository) saveRegister(p kv.Putter, reg *Register) error {
	return saveRLP(registerBucket.NewPutter(p), reg.ID.Bytes(), &registerBody{
		Name:      reg.Name,
		TenantID:  reg.TenantID,
		Height:    reg.Height,
		RegStatus: reg.RegStatus,
		CreatedAt: reg.CreatedAt,
		Advertise: reg.Advertise,
		DigestKey: reg.DigestKey,
	})
}

// GetRegister loads a register entity, ErrNotFound when absent.
func (r *Repository) GetRegister(id sorcha.RegisterID) (*Register, error) {
	getter := registerBucket.NewGetter(r.store)
	var body registerBody
	if err := loadRLP(getter, id.Bytes(), &body); err != nil {
		if getter.IsNotFound(err) {
			return nil, errors.Wrapf(ErrNotFound, "register %v", id)
		}
		return nil, err
	}
	return &Register{
		ID:        id,
		Name:      body.Name,
		TenantID:  body.TenantID,
		Height:    body.Height,
		RegStatus: body.RegStatus,
		CreatedAt: body.CreatedAt,
		Advertise: body.Advertise,
		DigestKey: body.DigestKey,
	}, nil
}

// UpdateStatus moves a register to the given status, enforcing the
// lifecycle transitions.
func (r *Repository) UpdateStatus(id sorcha.RegisterID, next Status) error {
	reg, err := r.GetRegister(id)
	if err != nil {
		return err
	}
	if !reg.RegStatus.CanTransitionTo(next) {
		return errors.Errorf("register %v cannot move from %v to %v", id, reg.RegStatus, next)
	}
	reg.RegStatus = next
	return r.saveRegister(r.store, reg)
}

// RemoveRegister deletes a register entity. Its dockets and transactions
// are left untouched for audit; callers use this to undo a failed genesis
// before anything was sealed.
func (r *Repository) RemoveRegister(id sorcha.RegisterID) error {
	return registerBucket.NewPutter(r.store).Delete(id.Bytes())
}

// AllRegisters iterates every persisted register entity.
func (r *Repository) AllRegisters() ([]*Register, error) {
	iter := registerBucket.Iterate(r.store, kv.Range{})
	defer iter.Release()

	var regs []*Register
	for iter.Next() {
		var id sorcha.RegisterID
		copy(id[:], iter.Key())
		reg, err := r.GetRegister(id)
		if err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	return regs, iter.Error()
}

// GetDocket loads the docket with the given id under a register.
func (r *Repository) GetDocket(regID sorcha.RegisterID, docketID uint64) (*docket.Docket, error) {
	key := docketKey(regID.Bytes(), docketID)
	if cached, ok := r.docketCache.Get(string(key)); ok {
		metricCacheHits().AddWithLabel(1, map[string]string{"kind": "docket"})
		return cached.(*docket.Docket), nil
	}

	getter := docketBucket.NewGetter(r.store)
	var d docket.Docket
	if err := loadRLP(getter, key, &d); err != nil {
		if getter.IsNotFound(err) {
			return nil, errors.Wrapf(ErrNotFound, "docket %v/%d", regID, docketID)
		}
		return nil, err
	}
	r.docketCache.Add(string(key), &d)
	return &d, nil
}

// Dockets loads the full docket chain of a register in id order.
func (r *Repository) Dockets(regID sorcha.RegisterID) (docket.Dockets, error) {
	iter := docketBucket.Iterate(r.store, kv.Range{Start: regID.Bytes()})
	defer iter.Release()

	var chain docket.Dockets
	for iter.Next() {
		key := iter.Key()
		if len(key) != len(regID)+8 || string(key[:len(regID)]) != string(regID.Bytes()) {
			break
		}
		var d docket.Docket
		if err := decodeBlob(iter.Value(), &d); err != nil {
			return nil, errors.Wrapf(err, "docket %x", key)
		}
		chain = append(chain, &d)
	}
	return chain, iter.Error()
}

// HasTransaction reports whether the tx is stored under the register.
func (r *Repository) HasTransaction(regID sorcha.RegisterID, txID sorcha.Bytes32) (bool, error) {
	key := txKey(regID.Bytes(), txID.Bytes())
	if _, ok := r.txCache.Get(string(key)); ok {
		return true, nil
	}
	return txBucket.NewGetter(r.store).Has(key)
}

// GetTransaction loads a stored transaction.
func (r *Repository) GetTransaction(regID sorcha.RegisterID, txID sorcha.Bytes32) (*tx.Transaction, error) {
	key := txKey(regID.Bytes(), txID.Bytes())
	if cached, ok := r.txCache.Get(string(key)); ok {
		metricCacheHits().AddWithLabel(1, map[string]string{"kind": "tx"})
		return cached.(*tx.Transaction), nil
	}

	getter := txBucket.NewGetter(r.store)
	var trx tx.Transaction
	if err := loadRLP(getter, key, &trx); err != nil {
		if getter.IsNotFound(err) {
			return nil, errors.Wrapf(ErrNotFound, "tx %v/%v", regID, txID)
		}
		return nil, err
	}
	r.txCache.Add(string(key), &trx)
	return &trx, nil
}

// Transactions returns all stored transactions of a register in canonical
// recording order. Implements the reader contract of roster reconstruction.
func (r *Repository) Transactions(regID sorcha.RegisterID) (tx.Transactions, error) {
	iter := seqBucket.Iterate(r.store, kv.Range{Start: regID.Bytes()})
	defer iter.Release()

	var txs tx.Transactions
	for iter.Next() {
		key := iter.Key()
		if len(key) != len(regID)+8 || string(key[:len(regID)]) != string(regID.Bytes()) {
			break
		}
		var txID sorcha.Bytes32
		copy(txID[:], iter.Value())
		trx, err := r.GetTransaction(regID, txID)
		if err != nil {
			return nil, err
		}
		txs = append(txs, trx)
	}
	return txs, iter.Error()
}

// CommitDocket atomically persists a sealed docket with its transactions
// and advances the register height to the docket id. Either everything is
// visible afterwards or nothing is.
func (r *Repository) CommitDocket(reg *Register, d *docket.Docket, txs tx.Transactions) error {
	if d.RegisterID() != reg.ID {
		return errors.Errorf("docket register %v does not match %v", d.RegisterID(), reg.ID)
	}
	if d.State() != docket.StateSealed {
		return errors.Errorf("docket %d not sealed", d.ID())
	}
	if d.ID() != reg.Height+1 {
		return errors.Errorf("docket id %d does not extend height %d", d.ID(), reg.Height)
	}

	batch := r.store.NewBatch()
	regIDBytes := reg.ID.Bytes()

	if err := saveRLP(docketBucket.NewPutter(batch), docketKey(regIDBytes, d.ID()), d); err != nil {
		return err
	}

	txPutter := txBucket.NewPutter(batch)
	seqPutter := seqBucket.NewPutter(batch)
	seq := r.nextSeq(reg.ID)
	for _, trx := range txs {
		if err := saveRLP(txPutter, txKey(regIDBytes, trx.ID().Bytes()), trx); err != nil {
			return err
		}
		if err := seqPutter.Put(seqKey(regIDBytes, seq), trx.ID().Bytes()); err != nil {
			return err
		}
		seq++
	}

	updated := *reg
	updated.Height = d.ID()
	if err := r.saveRegister(batch, &updated); err != nil {
		return err
	}

	if err := batch.Write(); err != nil {
		return err
	}

	reg.Height = updated.Height
	r.docketCache.Add(string(docketKey(regIDBytes, d.ID())), d)
	for _, trx := range txs {
		r.txCache.Add(string(txKey(regIDBytes, trx.ID().Bytes())), trx)
	}
	metricDocketCommits().Add(1)
	metricTxStored().Add(int64(len(txs)))
	return nil
}

func (r *Repository) nextSeq(regID sorcha.RegisterID) uint64 {
	iter := seqBucket.Iterate(r.store, kv.Range{Start: regID.Bytes()})
	defer iter.Release()

	var max uint64
	found := false
	for iter.Next() {
		key := iter.Key()
		if len(key) != len(regID)+8 || string(key[:len(regID)]) != string(regID.Bytes()) {
			break
		}
		max = binary.BigEndian.Uint64(key[len(regID):])
		found = true
	}
	if !found {
		return 0
	}
	return max + 1
}
