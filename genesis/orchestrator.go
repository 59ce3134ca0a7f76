// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis implements the two-phase register creation protocol:
// initiate stages canonical attestation templates under a single-use nonce,
// finalize verifies the owner signatures and drives the genesis transaction
// through the validator pipeline.
package genesis

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/pborman/uuid"
	"github.com/pkg/errors"

	"github.com/sorcha-ledger/sorcha/cjson"
	"github.com/sorcha-ledger/sorcha/co"
	"github.com/sorcha-ledger/sorcha/cry"
	"github.com/sorcha-ledger/sorcha/log"
	"github.com/sorcha-ledger/sorcha/mempool"
	"github.com/sorcha-ledger/sorcha/metrics"
	"github.com/sorcha-ledger/sorcha/register"
	"github.com/sorcha-ledger/sorcha/roster"
	"github.com/sorcha-ledger/sorcha/sorcha"
	"github.com/sorcha-ledger/sorcha/tx"
	"github.com/sorcha-ledger/sorcha/wallet"
)

var (
	logger = log.WithContext("pkg", "genesis")

	metricInitiated = metrics.LazyLoadCounter("genesis_initiated_count")
	metricFinalized = metrics.LazyLoadCounter("genesis_finalized_count")
	metricSwept     = metrics.LazyLoadCounter("genesis_pending_swept_count")
	metricPending   = metrics.LazyLoadGauge("genesis_pending_gauge")
)

const sweepInterval = time.Minute

// TenantGate optionally vets registration requests per tenant.
type TenantGate interface {
	Allow(ctx context.Context, tenantID string) (bool, error)
}

// OwnerSpec is one proposed roster member of a new register.
type OwnerSpec struct {
	UserID   string      `json:"userId"`
	WalletID string      `json:"walletId"`
	Role     sorcha.Role `json:"role"`
}

// InitiateRequest stages a new register.
type InitiateRequest struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	TenantID    string      `json:"tenantId"`
	Owners      []OwnerSpec `json:"owners"`
}

// AttestationToSign is handed to the client for out-of-band signing. The
// client signs DataToSign (the hex digest of AttestationData) with the
// wallet's key and returns both in finalize.
type AttestationToSign struct {
	UserID          string      `json:"userId"`
	WalletID        string      `json:"walletId"`
	Role            sorcha.Role `json:"role"`
	AttestationData []byte      `json:"attestationData"`
	DataToSign      string      `json:"dataToSign"`
}

// InitiateResult is the outcome of the initiate phase.
type InitiateResult struct {
	RegisterID         sorcha.RegisterID   `json:"registerId"`
	Nonce              string              `json:"nonce"`
	AttestationsToSign []AttestationToSign `json:"attestationsToSign"`
	ExpiresAt          uint64              `json:"expiresAt"`
}

// SignedAttestation is a client-signed attestation template.
type SignedAttestation struct {
	AttestationData []byte           `json:"attestationData"`
	PublicKey       []byte           `json:"publicKey"`
	Signature       []byte           `json:"signature"`
	Algorithm       sorcha.Algorithm `json:"algorithm"`
}

// FinalizeResult is the outcome of the finalize phase.
type FinalizeResult struct {
	RegisterID           sorcha.RegisterID `json:"registerId"`
	Status               string            `json:"status"`
	GenesisTransactionID sorcha.Bytes32    `json:"genesisTransactionId"`
}

// attestationTemplate is the canonical signed message of one owner. It
// binds the key to the register, the subject and the role under a fresh
// nonce, so a signature cannot be replayed for another register or role.
type attestationTemplate struct {
	RegisterID   sorcha.RegisterID `json:"registerId"`
	RegisterName string            `json:"registerName"`
	Subject      sorcha.DID        `json:"subject"`
	Role         sorcha.Role       `json:"role"`
	Nonce        string            `json:"nonce"`
}

// Orchestrator drives register creation end to end.
type Orchestrator struct {
	repo          *register.Repository
	pool          *mempool.Mempool
	signer        wallet.Signer
	systemAddress string
	tenantGate    TenantGate

	pendings *pendingTable

	goes   co.Goes
	cancel func()

	nowFunc func() uint64
}

// New creates an orchestrator. tenantGate may be nil to accept every tenant.
func New(repo *register.Repository, pool *mempool.Mempool, signer wallet.Signer, systemAddress string, tenantGate TenantGate) *Orchestrator {
	return &Orchestrator{
		repo:          repo,
		pool:          pool,
		signer:        signer,
		systemAddress: systemAddress,
		tenantGate:    tenantGate,
		pendings:      newPendingTable(),
		nowFunc:       func() uint64 { return uint64(time.Now().Unix()) },
	}
}

// Start launches the background sweep of expired pending registrations.
func (o *Orchestrator) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel
	o.goes.Go(func() { o.sweepLoop(ctx) })
}

// Stop terminates the sweep loop.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	o.goes.Wait()
}

func (o *Orchestrator) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if swept := o.pendings.sweep(o.nowFunc()); swept > 0 {
				metricSwept().Add(int64(swept))
				metricPending().Set(int64(o.pendings.len()))
				logger.Debug("swept expired pending registrations", "count", swept)
			}
		}
	}
}

// Initiate stages a register and returns the attestation templates the
// proposed owners must sign within the TTL.
func (o *Orchestrator) Initiate(ctx context.Context, req *InitiateRequest) (*InitiateResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if o.tenantGate != nil {
		allowed, err := o.tenantGate.Allow(ctx, req.TenantID)
		if err != nil {
			return nil, errors.Wrap(err, "tenant gate")
		}
		if !allowed {
			return nil, errors.Wrapf(errTenantRejected, "tenant %s", req.TenantID)
		}
	}

	registerID := sorcha.NewRegisterID()
	nonce := uuid.NewRandom().String()
	now := o.nowFunc()

	p := &pending{
		registerID:  registerID,
		nonce:       nonce,
		name:        req.Name,
		description: req.Description,
		tenantID:    req.TenantID,
		createdAt:   now,
		expiresAt:   now + uint64(sorcha.PendingRegistrationTTL/time.Second),
	}
	result := &InitiateResult{
		RegisterID: registerID,
		Nonce:      nonce,
		ExpiresAt:  p.expiresAt,
	}

	for _, owner := range req.Owners {
		raw, err := cjson.Marshal(&attestationTemplate{
			RegisterID:   registerID,
			RegisterName: req.Name,
			Subject:      sorcha.WalletDID(owner.WalletID),
			Role:         owner.Role,
			Nonce:        nonce,
		})
		if err != nil {
			return nil, err
		}
		hash := cry.Hash(raw)
		p.templates = append(p.templates, template{
			userID:   owner.UserID,
			walletID: owner.WalletID,
			role:     owner.Role,
			raw:      raw,
			hash:     hash,
		})
		result.AttestationsToSign = append(result.AttestationsToSign, AttestationToSign{
			UserID:          owner.UserID,
			WalletID:        owner.WalletID,
			Role:            owner.Role,
			AttestationData: raw,
			DataToSign:      hex.EncodeToString(hash.Bytes()),
		})
	}

	o.pendings.put(p)
	metricInitiated().Add(1)
	metricPending().Set(int64(o.pendings.len()))
	logger.Info("registration initiated", "register", registerID, "tenant", req.TenantID, "owners", len(req.Owners))
	return result, nil
}

func validateRequest(req *InitiateRequest) error {
	if req.Name == "" {
		return errors.Wrap(errInvalidRequest, "name is empty")
	}
	if len(req.Owners) == 0 {
		return errors.Wrap(errInvalidRequest, "no owners proposed")
	}

	owners := 0
	seen := make(map[string]struct{}, len(req.Owners))
	for _, owner := range req.Owners {
		if owner.WalletID == "" {
			return errors.Wrap(errInvalidRequest, "owner without wallet id")
		}
		if _, dup := seen[owner.WalletID]; dup {
			return errors.Wrapf(errInvalidRequest, "duplicate wallet %s", owner.WalletID)
		}
		seen[owner.WalletID] = struct{}{}
		switch owner.Role {
		case sorcha.RoleOwner:
			owners++
		case sorcha.RoleAdmin:
		default:
			return errors.Wrapf(errInvalidRequest, "role %q not allowed at creation", owner.Role)
		}
	}
	if owners != 1 {
		return errors.Wrapf(errInvalidRequest, "%d owner roles, exactly one required", owners)
	}
	return nil
}

// Finalize consumes the pending registration, verifies every attestation
// signature and submits the genesis transaction. The nonce is single-use:
// of concurrent finalizes exactly one proceeds past the pending take.
func (o *Orchestrator) Finalize(ctx context.Context, registerID sorcha.RegisterID, nonce string, signed []SignedAttestation) (*FinalizeResult, error) {
	now := o.nowFunc()
	p, err := o.pendings.take(registerID, nonce, now)
	if err != nil {
		return nil, err
	}
	metricPending().Set(int64(o.pendings.len()))

	record, err := o.assembleRecord(p, signed, now)
	if err != nil {
		return nil, err
	}

	digestKey := make([]byte, 32)
	if _, err := rand.Read(digestKey); err != nil {
		return nil, err
	}
	reg := &register.Register{
		ID:        registerID,
		Name:      p.name,
		TenantID:  p.tenantID,
		RegStatus: register.StatusInitializing,
		CreatedAt: now,
		DigestKey: digestKey,
	}
	if err := o.repo.AddRegister(reg); err != nil {
		return nil, err
	}

	genesisTx, err := o.buildGenesisTx(ctx, record, now)
	if err != nil {
		o.rollback(registerID)
		return nil, err
	}
	if err := o.pool.Add(ctx, genesisTx); err != nil {
		o.rollback(registerID)
		return nil, errors.Wrap(err, "validator rejected genesis")
	}
	if err := o.repo.UpdateStatus(registerID, register.StatusOnline); err != nil {
		return nil, err
	}

	metricFinalized().Add(1)
	logger.Info("register created", "register", registerID, "genesisTx", genesisTx.ID().AbbrevString())
	return &FinalizeResult{
		RegisterID:           registerID,
		Status:               "Created",
		GenesisTransactionID: genesisTx.ID(),
	}, nil
}

// assembleRecord matches each signed attestation to its staged template by
// exact bytes, verifies the signature over the template digest and builds
// the genesis roster in proposed order.
func (o *Orchestrator) assembleRecord(p *pending, signed []SignedAttestation, now uint64) (*roster.ControlRecord, error) {
	record := &roster.ControlRecord{
		RegisterID: p.registerID,
		Name:       p.name,
		TenantID:   p.tenantID,
		CreatedAt:  now,
	}
	if p.description != "" {
		record.Metadata = map[string]string{"description": p.description}
	}

	for _, tmpl := range p.templates {
		var match *SignedAttestation
		for i := range signed {
			if bytes.Equal(signed[i].AttestationData, tmpl.raw) {
				match = &signed[i]
				break
			}
		}
		if match == nil {
			return nil, errors.Wrapf(errSignatureInvalid, "no signature for wallet %s", tmpl.walletID)
		}
		if err := cry.VerifyPreHashed(match.Algorithm, match.PublicKey, tmpl.hash, match.Signature); err != nil {
			return nil, errors.Wrapf(errSignatureInvalid, "wallet %s: %v", tmpl.walletID, err)
		}
		record.Attestations = append(record.Attestations, roster.Attestation{
			Role:      tmpl.role,
			Subject:   sorcha.WalletDID(tmpl.walletID),
			PublicKey: match.PublicKey,
			Algorithm: match.Algorithm,
			Signature: match.Signature,
			GrantedAt: now,
		})
	}

	if err := record.Validate(); err != nil {
		return nil, errors.Wrap(errInvalidRequest, err.Error())
	}
	return record, nil
}

func (o *Orchestrator) buildGenesisTx(ctx context.Context, record *roster.ControlRecord, now uint64) (*tx.Transaction, error) {
	payload, err := roster.NewPayload(record, nil).Encode()
	if err != nil {
		return nil, err
	}
	unsigned := new(tx.Builder).
		RegisterID(record.RegisterID).
		SenderWallet(o.systemAddress).
		Payload(payload).
		BlueprintID("genesis").
		ActionID("register-creation").
		Type(tx.TypeGenesis).
		CreatedAt(now).
		Build()

	hash := unsigned.SigningHash()
	sig, _, err := o.signer.Sign(ctx, o.systemAddress, hash.Bytes(), true)
	if err != nil {
		return nil, errors.Wrap(err, "sign genesis tx")
	}
	return unsigned.WithSignature(sig), nil
}

func (o *Orchestrator) rollback(registerID sorcha.RegisterID) {
	if err := o.repo.RemoveRegister(registerID); err != nil {
		logger.Warn("genesis rollback failed", "register", registerID, "err", err)
	}
}
