// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package audit_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorcha-ledger/sorcha/audit"
	"github.com/sorcha-ledger/sorcha/docket"
	"github.com/sorcha-ledger/sorcha/kv"
	"github.com/sorcha-ledger/sorcha/register"
	"github.com/sorcha-ledger/sorcha/sorcha"
	"github.com/sorcha-ledger/sorcha/tx"
)

type fixture struct {
	repo    *register.Repository
	auditor *audit.Auditor
	reg     *register.Register
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := register.NewRepository(kv.OpenMem())
	reg := &register.Register{
		ID:        sorcha.NewRegisterID(),
		Name:      "ops",
		TenantID:  "tenant-1",
		RegStatus: register.StatusOnline,
		CreatedAt: 1700000000,
		DigestKey: []byte("digest-key"),
	}
	require.NoError(t, repo.AddRegister(reg))
	return &fixture{repo: repo, auditor: audit.New(repo), reg: reg}
}

func (f *fixture) newTx(sender string, prev *sorcha.Bytes32) *tx.Transaction {
	b := new(tx.Builder).
		RegisterID(f.reg.ID).
		SenderWallet(sender).
		Payload([]byte("data")).
		Type(tx.TypeAction).
		CreatedAt(1700000000)
	if prev != nil {
		b.PrevTxID(*prev)
	}
	return b.Build()
}

// commit seals the given tx ids into the next docket, persisting txs.
func (f *fixture) commit(t *testing.T, ids []sorcha.Bytes32, txs tx.Transactions, prev sorcha.Bytes32) *docket.Docket {
	t.Helper()
	d := new(docket.Builder).
		ID(f.reg.Height + 1).
		RegisterID(f.reg.ID).
		PreviousHash(prev).
		TransactionIDs(ids).
		Timestamp(1700000000 + f.reg.Height).
		Build().
		WithState(docket.StateSealed).
		WithSignature([]byte("sig"))
	require.NoError(t, f.repo.CommitDocket(f.reg, d, txs))
	return d
}

func hasFragment(findings []string, fragment string) bool {
	for _, s := range findings {
		if strings.Contains(s, fragment) {
			return true
		}
	}
	return false
}

func TestValidChain(t *testing.T) {
	f := newFixture(t)

	tx1 := f.newTx("w1", nil)
	d1 := f.commit(t, tx.Transactions{tx1}.IDs(), tx.Transactions{tx1}, sorcha.Bytes32{})

	id1 := tx1.ID()
	tx2 := f.newTx("w2", &id1)
	f.commit(t, tx.Transactions{tx2}.IDs(), tx.Transactions{tx2}, d1.Hash(f.reg.DigestKey))

	report, err := f.auditor.ValidateCompleteChain(f.reg.ID)
	require.NoError(t, err)
	assert.True(t, report.IsValid)
	assert.Empty(t, report.Errors)
	assert.Empty(t, report.Warnings)
}

func TestEmptyChain(t *testing.T) {
	f := newFixture(t)

	report, err := f.auditor.ValidateCompleteChain(f.reg.ID)
	require.NoError(t, err)
	assert.True(t, report.IsValid)
	assert.True(t, hasFragment(report.Infos, "no dockets"))
	assert.True(t, hasFragment(report.Infos, "no transactions"))
}

func TestFirstDocketIDError(t *testing.T) {
	f := newFixture(t)
	// a register persisted with a non-zero height grows a chain starting past 1
	f.reg.Height = 1
	require.NoError(t, f.repo.UpdateRegister(f.reg))

	tx1 := f.newTx("w1", nil)
	f.commit(t, tx.Transactions{tx1}.IDs(), tx.Transactions{tx1}, sorcha.Bytes32{})

	report, err := f.auditor.ValidateDocketChain(f.reg.ID)
	require.NoError(t, err)
	assert.False(t, report.IsValid)
	assert.True(t, hasFragment(report.Errors, "First docket ID should be 1"))
	assert.True(t, hasFragment(report.Errors, "Docket chain break"))
}

func TestPreviousHashMismatch(t *testing.T) {
	f := newFixture(t)

	tx1 := f.newTx("w1", nil)
	f.commit(t, tx.Transactions{tx1}.IDs(), tx.Transactions{tx1}, sorcha.Bytes32{})

	// second docket links to a bogus predecessor hash
	tx2 := f.newTx("w2", nil)
	f.commit(t, tx.Transactions{tx2}.IDs(), tx.Transactions{tx2}, sorcha.RandomBytes32())

	report, err := f.auditor.ValidateDocketChain(f.reg.ID)
	require.NoError(t, err)
	assert.False(t, report.IsValid)
	assert.True(t, hasFragment(report.Errors, "PreviousHash does not match"))
}

func TestHeightMismatch(t *testing.T) {
	f := newFixture(t)

	tx1 := f.newTx("w1", nil)
	f.commit(t, tx.Transactions{tx1}.IDs(), tx.Transactions{tx1}, sorcha.Bytes32{})

	f.reg.Height = 5
	require.NoError(t, f.repo.UpdateRegister(f.reg))

	report, err := f.auditor.ValidateDocketChain(f.reg.ID)
	require.NoError(t, err)
	assert.False(t, report.IsValid)
	assert.True(t, hasFragment(report.Errors, "Register height 5 does not match"))
}

func TestMissingSealedTransaction(t *testing.T) {
	f := newFixture(t)

	tx1 := f.newTx("w1", nil)
	ghost := sorcha.RandomBytes32()
	// docket references a tx id that was never persisted
	f.commit(t, []sorcha.Bytes32{tx1.ID(), ghost}, tx.Transactions{tx1}, sorcha.Bytes32{})

	report, err := f.auditor.ValidateTransactionChain(f.reg.ID)
	require.NoError(t, err)
	assert.False(t, report.IsValid)
	assert.True(t, hasFragment(report.Errors, "references non-existent transaction"))
}

func TestOrphanedAndDanglingPrev(t *testing.T) {
	f := newFixture(t)

	missing := sorcha.RandomBytes32()
	tx1 := f.newTx("w1", &missing) // prev reference resolves nowhere
	orphan := f.newTx("w2", nil)
	// orphan is persisted with the batch but not referenced by the docket
	f.commit(t, []sorcha.Bytes32{tx1.ID()}, tx.Transactions{tx1, orphan}, sorcha.Bytes32{})

	report, err := f.auditor.ValidateTransactionChain(f.reg.ID)
	require.NoError(t, err)
	// warnings and infos never flip validity
	assert.True(t, report.IsValid)
	assert.True(t, hasFragment(report.Warnings, "references missing prev tx"))
	assert.True(t, hasFragment(report.Infos, "1 orphaned transactions"))
}
