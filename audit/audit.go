// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package audit validates the integrity of a register's docket chain and
// of the transaction graph sealed under it.
package audit

import (
	"fmt"

	"github.com/sorcha-ledger/sorcha/docket"
	"github.com/sorcha-ledger/sorcha/log"
	"github.com/sorcha-ledger/sorcha/register"
	"github.com/sorcha-ledger/sorcha/sorcha"
)

var logger = log.WithContext("pkg", "audit")

// Report collects audit findings. Only errors flip IsValid; warnings and
// infos never do.
type Report struct {
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Infos    []string `json:"infos,omitempty"`
}

func newReport() *Report {
	return &Report{IsValid: true}
}

func (r *Report) addError(format string, args ...any) {
	r.IsValid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Report) addWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *Report) addInfo(format string, args ...any) {
	r.Infos = append(r.Infos, fmt.Sprintf(format, args...))
}

// merge appends the findings of other into r.
func (r *Report) merge(other *Report) {
	r.IsValid = r.IsValid && other.IsValid
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Infos = append(r.Infos, other.Infos...)
}

// Auditor runs chain audits against the repository.
type Auditor struct {
	repo *register.Repository
}

// New creates an auditor.
func New(repo *register.Repository) *Auditor {
	return &Auditor{repo: repo}
}

// ValidateDocketChain checks id contiguity, hash linkage, seal states and
// the register height of a register's docket chain.
func (a *Auditor) ValidateDocketChain(regID sorcha.RegisterID) (*Report, error) {
	report := newReport()

	reg, err := a.repo.GetRegister(regID)
	if err != nil {
		return nil, err
	}
	chain, err := a.repo.Dockets(regID)
	if err != nil {
		return nil, err
	}

	if len(chain) == 0 {
		report.addInfo("no dockets")
		if reg.Height != 0 {
			report.addError("Register height %d does not match max sealed docket id 0", reg.Height)
		}
		return report, nil
	}

	if chain[0].ID() != 1 {
		report.addError("First docket ID should be 1, got %d", chain[0].ID())
	}
	if !chain[0].PreviousHash().IsZero() {
		report.addWarning("first docket has a non-empty previous hash")
	}

	var maxSealed uint64
	for i, d := range chain {
		want := uint64(i + 1)
		if d.ID() != want {
			report.addError("Docket chain break: expected id %d, got %d", want, d.ID())
		}
		if i > 0 {
			prevHash := chain[i-1].Hash(reg.DigestKey)
			if d.PreviousHash() != prevHash {
				report.addError("PreviousHash does not match for docket %d", d.ID())
			}
		}
		if d.State() != docket.StateSealed {
			report.addWarning("docket %d is %v, not Sealed", d.ID(), d.State())
		} else if d.ID() > maxSealed {
			maxSealed = d.ID()
		}
	}

	if reg.Height != maxSealed {
		report.addError("Register height %d does not match max sealed docket id %d", reg.Height, maxSealed)
	}

	logger.Debug("docket chain audited", "register", regID, "dockets", len(chain), "valid", report.IsValid)
	return report, nil
}

// ValidateTransactionChain checks that every prev reference resolves, that
// every sealed tx id is stored, and reports orphaned transactions.
func (a *Auditor) ValidateTransactionChain(regID sorcha.RegisterID) (*Report, error) {
	report := newReport()

	txs, err := a.repo.Transactions(regID)
	if err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		report.addInfo("no transactions")
		return report, nil
	}

	stored := make(map[sorcha.Bytes32]struct{}, len(txs))
	for _, trx := range txs {
		stored[trx.ID()] = struct{}{}
	}

	for _, trx := range txs {
		if prev := trx.PrevTxID(); prev != nil {
			if _, ok := stored[*prev]; !ok {
				report.addWarning("transaction %v references missing prev tx %v", trx.ID(), *prev)
			}
		}
	}

	chain, err := a.repo.Dockets(regID)
	if err != nil {
		return nil, err
	}
	sealed := make(map[sorcha.Bytes32]struct{})
	for _, d := range chain {
		if d.State() != docket.StateSealed {
			continue
		}
		for _, txID := range d.TransactionIDs() {
			sealed[txID] = struct{}{}
			if _, ok := stored[txID]; !ok {
				report.addError("docket %d references non-existent transaction %v", d.ID(), txID)
			}
		}
	}

	orphaned := 0
	for _, trx := range txs {
		if _, ok := sealed[trx.ID()]; !ok {
			orphaned++
		}
	}
	if orphaned > 0 {
		report.addInfo("%d orphaned transactions", orphaned)
	}

	logger.Debug("transaction chain audited", "register", regID, "txs", len(txs), "valid", report.IsValid)
	return report, nil
}

// ValidateCompleteChain combines both audits.
func (a *Auditor) ValidateCompleteChain(regID sorcha.RegisterID) (*Report, error) {
	report, err := a.ValidateDocketChain(regID)
	if err != nil {
		return nil, err
	}
	txReport, err := a.ValidateTransactionChain(regID)
	if err != nil {
		return nil, err
	}
	report.merge(txReport)
	return report, nil
}
