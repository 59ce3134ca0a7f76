// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package wallet defines the wallet-store contract the ledger core
// consumes, and an in-memory implementation used by the system signer and
// by tests.
package wallet

import (
	"context"
	"crypto"
	"sync"

	"github.com/pkg/errors"

	"github.com/sorcha-ledger/sorcha/cry"
	"github.com/sorcha-ledger/sorcha/sorcha"
)

// Status of a wallet record.
type Status string

// Wallet states.
const (
	StatusActive   Status = "Active"
	StatusDisabled Status = "Disabled"
)

// Record is the public view of a wallet.
type Record struct {
	Address   string
	PublicKey []byte
	Algorithm sorcha.Algorithm
	Status    Status
}

// ErrWalletNotFound is returned when the address has no wallet.
var ErrWalletNotFound = errors.New("wallet not found")

// IsNotFound reports whether the error means a missing wallet.
func IsNotFound(err error) bool {
	return errors.Cause(err) == ErrWalletNotFound
}

// Store resolves wallet addresses to their verification keys. A transport
// failure is any error other than ErrWalletNotFound; callers treat those as
// transient.
type Store interface {
	GetWallet(ctx context.Context, address string) (*Record, error)
}

// Signer signs on behalf of a wallet it holds the private key of.
type Signer interface {
	Store
	// Sign signs the message with the wallet's key. When preHashed is set
	// the message is a 32-byte digest produced by the caller.
	Sign(ctx context.Context, address string, message []byte, preHashed bool) (signature, publicKey []byte, err error)
}

// MemStore is an in-process wallet store and signer.
type MemStore struct {
	lock    sync.RWMutex
	wallets map[string]*memWallet
}

type memWallet struct {
	record  Record
	private crypto.PrivateKey
}

// NewMemStore creates an empty in-memory wallet store.
func NewMemStore() *MemStore {
	return &MemStore{wallets: make(map[string]*memWallet)}
}

// CreateWallet generates a key pair for the address under the given
// algorithm and stores it active.
func (s *MemStore) CreateWallet(address string, algorithm sorcha.Algorithm) (*Record, error) {
	private, publicKey, err := cry.GenerateKey(algorithm)
	if err != nil {
		return nil, err
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	if _, exists := s.wallets[address]; exists {
		return nil, errors.Errorf("wallet %s already exists", address)
	}
	w := &memWallet{
		record: Record{
			Address:   address,
			PublicKey: publicKey,
			Algorithm: algorithm,
			Status:    StatusActive,
		},
		private: private,
	}
	s.wallets[address] = w
	rec := w.record
	return &rec, nil
}

// GetWallet implements Store.
func (s *MemStore) GetWallet(_ context.Context, address string) (*Record, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	w, ok := s.wallets[address]
	if !ok {
		return nil, errors.Wrap(ErrWalletNotFound, address)
	}
	rec := w.record
	return &rec, nil
}

// Sign implements Signer.
func (s *MemStore) Sign(_ context.Context, address string, message []byte, preHashed bool) ([]byte, []byte, error) {
	s.lock.RLock()
	w, ok := s.wallets[address]
	s.lock.RUnlock()
	if !ok {
		return nil, nil, errors.Wrap(ErrWalletNotFound, address)
	}
	if w.record.Status != StatusActive {
		return nil, nil, errors.Errorf("wallet %s is %s", address, w.record.Status)
	}

	var (
		sig []byte
		err error
	)
	if preHashed {
		var digest sorcha.Bytes32
		if len(message) != len(digest) {
			return nil, nil, errors.Errorf("pre-hashed message must be %d bytes, got %d", len(digest), len(message))
		}
		copy(digest[:], message)
		sig, err = cry.SignPreHashed(w.record.Algorithm, w.private, digest)
	} else {
		sig, err = cry.Sign(w.record.Algorithm, w.private, message)
	}
	if err != nil {
		return nil, nil, err
	}
	return sig, w.record.PublicKey, nil
}

// Disable marks the wallet disabled; further Sign calls fail.
func (s *MemStore) Disable(address string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if w, ok := s.wallets[address]; ok {
		w.record.Status = StatusDisabled
	}
}
