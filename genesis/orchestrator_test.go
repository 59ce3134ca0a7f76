// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis_test

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorcha-ledger/sorcha/did"
	"github.com/sorcha-ledger/sorcha/genesis"
	"github.com/sorcha-ledger/sorcha/kv"
	"github.com/sorcha-ledger/sorcha/mempool"
	"github.com/sorcha-ledger/sorcha/register"
	"github.com/sorcha-ledger/sorcha/roster"
	"github.com/sorcha-ledger/sorcha/sorcha"
	"github.com/sorcha-ledger/sorcha/tx"
	"github.com/sorcha-ledger/sorcha/wallet"
)

type fixture struct {
	repo    *register.Repository
	wallets *wallet.MemStore
	pool    *mempool.Mempool
	orch    *genesis.Orchestrator
}

func newFixture(t *testing.T, gate genesis.TenantGate) *fixture {
	t.Helper()
	repo := register.NewRepository(kv.OpenMem())
	wallets := wallet.NewMemStore()
	for _, addr := range []string{"system", "wallet-o", "wallet-a"} {
		_, err := wallets.CreateWallet(addr, sorcha.AlgorithmEd25519)
		require.NoError(t, err)
	}
	pool := mempool.New(repo, did.NewResolver(wallets, repo))
	return &fixture{
		repo:    repo,
		wallets: wallets,
		pool:    pool,
		orch:    genesis.New(repo, pool, wallets, "system", gate),
	}
}

func (f *fixture) request() *genesis.InitiateRequest {
	return &genesis.InitiateRequest{
		Name:        "ops",
		Description: "operations register",
		TenantID:    "tenant-1",
		Owners: []genesis.OwnerSpec{
			{UserID: "u-o", WalletID: "wallet-o", Role: sorcha.RoleOwner},
			{UserID: "u-a", WalletID: "wallet-a", Role: sorcha.RoleAdmin},
		},
	}
}

// signAll signs every staged attestation with its wallet, pre-hashed.
func (f *fixture) signAll(t *testing.T, result *genesis.InitiateResult) []genesis.SignedAttestation {
	t.Helper()
	ctx := context.Background()
	signed := make([]genesis.SignedAttestation, 0, len(result.AttestationsToSign))
	for _, a := range result.AttestationsToSign {
		digest, err := hex.DecodeString(a.DataToSign)
		require.NoError(t, err)
		sig, publicKey, err := f.wallets.Sign(ctx, a.WalletID, digest, true)
		require.NoError(t, err)
		signed = append(signed, genesis.SignedAttestation{
			AttestationData: a.AttestationData,
			PublicKey:       publicKey,
			Signature:       sig,
			Algorithm:       sorcha.AlgorithmEd25519,
		})
	}
	return signed
}

func TestInitiateValidation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*genesis.InitiateRequest)
	}{
		{"empty name", func(r *genesis.InitiateRequest) { r.Name = "" }},
		{"no owners", func(r *genesis.InitiateRequest) { r.Owners = nil }},
		{"duplicate wallet", func(r *genesis.InitiateRequest) { r.Owners[1].WalletID = "wallet-o" }},
		{"auditor at creation", func(r *genesis.InitiateRequest) { r.Owners[1].Role = sorcha.RoleAuditor }},
		{"two owner roles", func(r *genesis.InitiateRequest) { r.Owners[1].Role = sorcha.RoleOwner }},
		{"no owner role", func(r *genesis.InitiateRequest) { r.Owners[0].Role = sorcha.RoleAdmin }},
	}
	for _, tc := range cases {
		req := f.request()
		tc.mutate(req)
		_, err := f.orch.Initiate(ctx, req)
		assert.True(t, genesis.IsInvalidRequest(err), tc.name)
	}
}

type denyGate struct{}

func (denyGate) Allow(_ context.Context, _ string) (bool, error) { return false, nil }

func TestInitiateTenantGate(t *testing.T) {
	f := newFixture(t, denyGate{})
	_, err := f.orch.Initiate(context.Background(), f.request())
	assert.True(t, genesis.IsTenantRejected(err))
}

func TestInitiateStagesTemplates(t *testing.T) {
	f := newFixture(t, nil)
	result, err := f.orch.Initiate(context.Background(), f.request())
	require.NoError(t, err)

	assert.False(t, result.RegisterID.IsZero())
	assert.NotEmpty(t, result.Nonce)
	require.Len(t, result.AttestationsToSign, 2)
	for _, a := range result.AttestationsToSign {
		assert.NotEmpty(t, a.AttestationData)
		// hex digest of the canonical template bytes
		digest, err := hex.DecodeString(a.DataToSign)
		require.NoError(t, err)
		assert.Len(t, digest, 32)
	}

	// distinct registrations get distinct nonces and ids
	other, err := f.orch.Initiate(context.Background(), f.request())
	require.NoError(t, err)
	assert.NotEqual(t, result.RegisterID, other.RegisterID)
	assert.NotEqual(t, result.Nonce, other.Nonce)
}

func TestFinalizeCreatesRegister(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	result, err := f.orch.Initiate(ctx, f.request())
	require.NoError(t, err)
	signed := f.signAll(t, result)

	created, err := f.orch.Finalize(ctx, result.RegisterID, result.Nonce, signed)
	require.NoError(t, err)
	assert.Equal(t, "Created", created.Status)
	assert.False(t, created.GenesisTransactionID.IsZero())

	reg, err := f.repo.GetRegister(result.RegisterID)
	require.NoError(t, err)
	assert.Equal(t, register.StatusOnline, reg.RegStatus)
	assert.Equal(t, uint64(0), reg.Height)
	assert.Len(t, reg.DigestKey, 32)

	// the genesis tx is waiting in the mempool with high priority
	entries := f.pool.Pop(result.RegisterID)
	require.Len(t, entries, 1)
	trx := entries[0].Tx
	assert.Equal(t, created.GenesisTransactionID, trx.ID())
	assert.Equal(t, tx.TypeGenesis, trx.Type())
	assert.Equal(t, tx.PriorityHigh, trx.Priority())
	assert.Equal(t, "genesis", trx.BlueprintID())
	assert.Equal(t, "register-creation", trx.ActionID())

	// its payload carries the roster in proposed order
	payload, err := roster.DecodePayload(trx.Payloads()[0].Data)
	require.NoError(t, err)
	require.Len(t, payload.Roster.Attestations, 2)
	assert.Equal(t, sorcha.WalletDID("wallet-o"), payload.Roster.Attestations[0].Subject)
	assert.Equal(t, sorcha.RoleOwner, payload.Roster.Attestations[0].Role)
	assert.Equal(t, sorcha.WalletDID("wallet-a"), payload.Roster.Attestations[1].Subject)
	assert.Equal(t, "operations register", payload.Roster.Metadata["description"])
}

func TestFinalizeNonceReplay(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	result, err := f.orch.Initiate(ctx, f.request())
	require.NoError(t, err)
	signed := f.signAll(t, result)

	_, err = f.orch.Finalize(ctx, result.RegisterID, "wrong-nonce", signed)
	assert.True(t, genesis.IsPendingNotFound(err))

	_, err = f.orch.Finalize(ctx, result.RegisterID, result.Nonce, signed)
	require.NoError(t, err)

	// the nonce was consumed by the first finalize
	_, err = f.orch.Finalize(ctx, result.RegisterID, result.Nonce, signed)
	assert.True(t, genesis.IsPendingNotFound(err))
}

func TestFinalizeRejectsBadSignatures(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	result, err := f.orch.Initiate(ctx, f.request())
	require.NoError(t, err)

	// missing signature for one owner
	signed := f.signAll(t, result)
	_, err = f.orch.Finalize(ctx, result.RegisterID, result.Nonce, signed[:1])
	assert.True(t, genesis.IsSignatureInvalid(err))

	// consumed; re-initiate for the tampered case
	result, err = f.orch.Initiate(ctx, f.request())
	require.NoError(t, err)
	signed = f.signAll(t, result)
	signed[0].Signature[0] ^= 0xff
	_, err = f.orch.Finalize(ctx, result.RegisterID, result.Nonce, signed)
	assert.True(t, genesis.IsSignatureInvalid(err))

	// tampered attestation bytes do not match any stored template
	result, err = f.orch.Initiate(ctx, f.request())
	require.NoError(t, err)
	signed = f.signAll(t, result)
	signed[0].AttestationData = append(signed[0].AttestationData, ' ')
	_, err = f.orch.Finalize(ctx, result.RegisterID, result.Nonce, signed)
	assert.True(t, genesis.IsSignatureInvalid(err))

	// nothing was persisted for any failed attempt
	_, err = f.repo.GetRegister(result.RegisterID)
	assert.True(t, register.IsNotFound(err))
}
