// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package did

import (
	"context"

	"github.com/pkg/errors"

	"github.com/sorcha-ledger/sorcha/register"
	"github.com/sorcha-ledger/sorcha/roster"
	"github.com/sorcha-ledger/sorcha/sorcha"
	"github.com/sorcha-ledger/sorcha/tx"
	"github.com/sorcha-ledger/sorcha/wallet"
)

// TransactionGetter fetches a stored transaction of a register.
type TransactionGetter interface {
	GetTransaction(regID sorcha.RegisterID, txID sorcha.Bytes32) (*tx.Transaction, error)
	HasTransaction(regID sorcha.RegisterID, txID sorcha.Bytes32) (bool, error)
}

// Key is a resolved verification key.
type Key struct {
	PublicKey []byte
	Algorithm sorcha.Algorithm
}

// Resolver resolves DIDs against a wallet store and the register
// repository. It holds no cache; every call resolves fresh.
type Resolver struct {
	wallets wallet.Store
	txs     TransactionGetter
}

// NewResolver creates a resolver.
func NewResolver(wallets wallet.Store, txs TransactionGetter) *Resolver {
	return &Resolver{wallets: wallets, txs: txs}
}

// Resolve maps a DID to its verification key.
func (r *Resolver) Resolve(ctx context.Context, did sorcha.DID) (*Key, error) {
	parsed, err := Parse(did)
	if err != nil {
		return nil, err
	}
	switch parsed.Kind {
	case KindWallet:
		return r.resolveWallet(ctx, did, parsed.WalletAddress)
	default:
		return r.resolveRegister(did, parsed)
	}
}

func (r *Resolver) resolveWallet(ctx context.Context, did sorcha.DID, address string) (*Key, error) {
	rec, err := r.wallets.GetWallet(ctx, address)
	if err != nil {
		if wallet.IsNotFound(err) {
			return nil, errors.Wrapf(errNotFound, "%s", did)
		}
		return nil, errors.Wrapf(errResolutionFailed, "%s: %v", did, err)
	}
	return &Key{PublicKey: rec.PublicKey, Algorithm: rec.Algorithm}, nil
}

func (r *Resolver) resolveRegister(did sorcha.DID, parsed *Parsed) (*Key, error) {
	trx, err := r.txs.GetTransaction(parsed.RegisterID, parsed.TxID)
	if err != nil {
		if register.IsNotFound(err) {
			return nil, errors.Wrapf(errNotFound, "%s: %v", did, err)
		}
		return nil, errors.Wrapf(errResolutionFailed, "%s: %v", did, err)
	}
	if trx.Type() != tx.TypeControl {
		return nil, errors.Wrapf(errInvalidFormat, "%s: tx is %v, not Control", did, trx.Type())
	}

	payloads := trx.Payloads()
	if len(payloads) == 0 {
		return nil, errors.Wrapf(errNotFound, "%s: control tx has no payload", did)
	}
	decoded, err := roster.DecodePayload(payloads[0].Data)
	if err != nil {
		return nil, errors.Wrapf(errInvalidFormat, "%s: %v", did, err)
	}

	att, ok := decoded.Roster.Find(did)
	if !ok {
		return nil, errors.Wrapf(errNotFound, "%s: no attestation for subject", did)
	}
	return &Key{PublicKey: att.PublicKey, Algorithm: att.Algorithm}, nil
}
