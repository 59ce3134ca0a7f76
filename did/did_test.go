// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package did_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorcha-ledger/sorcha/did"
	"github.com/sorcha-ledger/sorcha/register"
	"github.com/sorcha-ledger/sorcha/roster"
	"github.com/sorcha-ledger/sorcha/sorcha"
	"github.com/sorcha-ledger/sorcha/tx"
	"github.com/sorcha-ledger/sorcha/wallet"
)

func TestParse(t *testing.T) {
	parsed, err := did.Parse(sorcha.WalletDID("addr-1"))
	require.NoError(t, err)
	assert.Equal(t, did.KindWallet, parsed.Kind)
	assert.Equal(t, "addr-1", parsed.WalletAddress)

	regID := sorcha.NewRegisterID()
	txID := sorcha.RandomBytes32()
	parsed, err = did.Parse(sorcha.RegisterDID(regID, txID))
	require.NoError(t, err)
	assert.Equal(t, did.KindRegister, parsed.Kind)
	assert.Equal(t, regID, parsed.RegisterID)
	assert.Equal(t, txID, parsed.TxID)

	for _, bad := range []string{
		"",
		"w:",
		"x:foo",
		"r:not-hex:t:" + txID.String(),
		"r:" + regID.String(),
		"r:" + regID.String() + ":t:zz",
	} {
		_, err := did.Parse(sorcha.DID(bad))
		assert.Error(t, err, bad)
		assert.True(t, did.IsInvalidFormat(err), bad)
	}
}

type stubTxGetter struct {
	txs map[sorcha.Bytes32]*tx.Transaction
	err error
}

func (s *stubTxGetter) GetTransaction(_ sorcha.RegisterID, txID sorcha.Bytes32) (*tx.Transaction, error) {
	if s.err != nil {
		return nil, s.err
	}
	if trx, ok := s.txs[txID]; ok {
		return trx, nil
	}
	return nil, errors.WithStack(register.ErrNotFound)
}

func (s *stubTxGetter) HasTransaction(_ sorcha.RegisterID, txID sorcha.Bytes32) (bool, error) {
	_, ok := s.txs[txID]
	return ok, nil
}

func TestResolveWalletDID(t *testing.T) {
	ctx := context.Background()
	store := wallet.NewMemStore()
	rec, err := store.CreateWallet("addr-1", sorcha.AlgorithmEd25519)
	require.NoError(t, err)

	resolver := did.NewResolver(store, &stubTxGetter{})

	key, err := resolver.Resolve(ctx, sorcha.WalletDID("addr-1"))
	require.NoError(t, err)
	assert.Equal(t, rec.PublicKey, key.PublicKey)
	assert.Equal(t, sorcha.AlgorithmEd25519, key.Algorithm)

	_, err = resolver.Resolve(ctx, sorcha.WalletDID("missing"))
	assert.True(t, did.IsNotFound(err))
}

func TestResolveRegisterDID(t *testing.T) {
	ctx := context.Background()
	regID := sorcha.NewRegisterID()

	// build a control tx first so the register DID can reference its id
	build := func(subject sorcha.DID, publicKey []byte) *tx.Transaction {
		rec := &roster.ControlRecord{
			RegisterID: regID,
			Name:       "ops",
			TenantID:   "tenant-1",
			CreatedAt:  1700000000,
			Attestations: []roster.Attestation{{
				Role:      sorcha.RoleOwner,
				Subject:   subject,
				PublicKey: publicKey,
				Algorithm: sorcha.AlgorithmEd25519,
			}},
		}
		payload, err := roster.NewPayload(rec, nil).Encode()
		require.NoError(t, err)
		return new(tx.Builder).
			RegisterID(regID).
			SenderWallet("system").
			Payload(payload).
			Type(tx.TypeControl).
			Build()
	}

	publicKey := make([]byte, 32)
	for i := range publicKey {
		publicKey[i] = byte(i)
	}

	// the attested subject references the control tx by id
	txID := sorcha.RandomBytes32()
	subject := sorcha.RegisterDID(regID, txID)
	ctrl := build(subject, publicKey)

	getter := &stubTxGetter{txs: map[sorcha.Bytes32]*tx.Transaction{txID: ctrl}}
	resolver := did.NewResolver(wallet.NewMemStore(), getter)

	key, err := resolver.Resolve(ctx, subject)
	require.NoError(t, err)
	assert.Equal(t, publicKey, key.PublicKey)
	assert.Equal(t, sorcha.AlgorithmEd25519, key.Algorithm)

	// subject mismatch inside the roster is a missing attestation
	other := sorcha.RandomBytes32()
	getter.txs[other] = ctrl
	_, err = resolver.Resolve(ctx, sorcha.RegisterDID(regID, other))
	assert.True(t, did.IsNotFound(err))
}

func TestResolveRegisterDIDFailures(t *testing.T) {
	ctx := context.Background()
	regID := sorcha.NewRegisterID()

	action := new(tx.Builder).
		RegisterID(regID).
		SenderWallet("w1").
		Payload([]byte("not a roster")).
		Type(tx.TypeAction).
		Build()
	garbage := new(tx.Builder).
		RegisterID(regID).
		SenderWallet("w1").
		Payload([]byte("not base64 json")).
		Type(tx.TypeControl).
		Build()

	getter := &stubTxGetter{txs: map[sorcha.Bytes32]*tx.Transaction{
		action.ID():  action,
		garbage.ID(): garbage,
	}}
	resolver := did.NewResolver(wallet.NewMemStore(), getter)

	// non-control tx
	_, err := resolver.Resolve(ctx, sorcha.RegisterDID(regID, action.ID()))
	assert.True(t, did.IsInvalidFormat(err))

	// malformed payload
	_, err = resolver.Resolve(ctx, sorcha.RegisterDID(regID, garbage.ID()))
	assert.True(t, did.IsInvalidFormat(err))

	// missing tx
	_, err = resolver.Resolve(ctx, sorcha.RegisterDID(regID, sorcha.RandomBytes32()))
	assert.True(t, did.IsNotFound(err))

	// transient store fault is not a missing subject
	broken := did.NewResolver(wallet.NewMemStore(), &stubTxGetter{err: errors.New("leveldb: closed")})
	_, err = broken.Resolve(ctx, sorcha.RegisterDID(regID, sorcha.RandomBytes32()))
	assert.True(t, did.IsResolutionFailed(err))
	assert.False(t, did.IsNotFound(err))
}
