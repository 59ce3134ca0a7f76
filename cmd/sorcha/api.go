// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/sorcha-ledger/sorcha/audit"
	"github.com/sorcha-ledger/sorcha/genesis"
	"github.com/sorcha-ledger/sorcha/log"
	"github.com/sorcha-ledger/sorcha/mempool"
	"github.com/sorcha-ledger/sorcha/metrics"
	"github.com/sorcha-ledger/sorcha/register"
	"github.com/sorcha-ledger/sorcha/roster"
	"github.com/sorcha-ledger/sorcha/sorcha"
	"github.com/sorcha-ledger/sorcha/tx"
)

// adminAPI exposes the register governance surface over http.
type adminAPI struct {
	repo         *register.Repository
	pool         *mempool.Mempool
	orchestrator *genesis.Orchestrator
	auditor      *audit.Auditor
	logLevel     *slog.LevelVar
}

func (a *adminAPI) handler(corsOrigins string, enableMetrics bool) http.Handler {
	router := mux.NewRouter()

	sub := router.PathPrefix("/registers").Subrouter()
	sub.Path("").Methods(http.MethodPost).HandlerFunc(a.handleInitiate)
	sub.Path("").Methods(http.MethodGet).HandlerFunc(a.handleListRegisters)
	sub.Path("/{id}").Methods(http.MethodGet).HandlerFunc(a.handleGetRegister)
	sub.Path("/{id}/status").Methods(http.MethodPut).HandlerFunc(a.handleUpdateStatus)
	sub.Path("/{id}/attestations").Methods(http.MethodPost).HandlerFunc(a.handleFinalize)
	sub.Path("/{id}/roster").Methods(http.MethodGet).HandlerFunc(a.handleGetRoster)
	sub.Path("/{id}/dockets").Methods(http.MethodGet).HandlerFunc(a.handleListDockets)
	sub.Path("/{id}/transactions").Methods(http.MethodPost).HandlerFunc(a.handleSubmitTx)
	sub.Path("/{id}/audit").Methods(http.MethodGet).HandlerFunc(a.handleAudit)

	router.Path("/health").Methods(http.MethodGet).HandlerFunc(a.handleHealth)
	router.Path("/admin/loglevel").Methods(http.MethodGet).HandlerFunc(a.handleGetLogLevel)
	router.Path("/admin/loglevel").Methods(http.MethodPut).HandlerFunc(a.handleSetLogLevel)
	if enableMetrics {
		router.Path("/metrics").Handler(metrics.HTTPHandler())
	}

	h := handlers.CompressHandler(router)
	if corsOrigins != "" {
		h = handlers.CORS(
			handlers.AllowedOrigins(strings.Split(corsOrigins, ",")),
			handlers.AllowedHeaders([]string{"Content-Type"}),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut}),
		)(h)
	}
	return h
}

// registerView is the external shape of a register. The digest key never
// leaves the node.
type registerView struct {
	ID        sorcha.RegisterID `json:"registerId"`
	Name      string            `json:"name"`
	TenantID  string            `json:"tenantId"`
	Height    uint64            `json:"height"`
	Status    string            `json:"status"`
	CreatedAt uint64            `json:"createdAt"`
	Advertise bool              `json:"advertise"`
}

func viewOf(reg *register.Register) *registerView {
	return &registerView{
		ID:        reg.ID,
		Name:      reg.Name,
		TenantID:  reg.TenantID,
		Height:    reg.Height,
		Status:    reg.RegStatus.String(),
		CreatedAt: reg.CreatedAt,
		Advertise: reg.Advertise,
	}
}

type docketView struct {
	ID             uint64           `json:"id"`
	PreviousHash   sorcha.Bytes32   `json:"previousHash"`
	TransactionIDs []sorcha.Bytes32 `json:"transactionIds"`
	State          string           `json:"state"`
	Timestamp      uint64           `json:"timestamp"`
	Signature      []byte           `json:"signature"`
}

func (a *adminAPI) handleInitiate(w http.ResponseWriter, r *http.Request) {
	var req genesis.InitiateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	result, err := a.orchestrator.Initiate(r.Context(), &req)
	if err != nil {
		writeGenesisError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

type finalizeRequest struct {
	Nonce        string                      `json:"nonce"`
	Attestations []genesis.SignedAttestation `json:"attestations"`
}

func (a *adminAPI) handleFinalize(w http.ResponseWriter, r *http.Request) {
	regID, ok := pathRegisterID(w, r)
	if !ok {
		return
	}
	var req finalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	result, err := a.orchestrator.Finalize(r.Context(), regID, req.Nonce, req.Attestations)
	if err != nil {
		writeGenesisError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *adminAPI) handleListRegisters(w http.ResponseWriter, r *http.Request) {
	regs, err := a.repo.AllRegisters()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	views := make([]*registerView, 0, len(regs))
	for _, reg := range regs {
		views = append(views, viewOf(reg))
	}
	writeJSON(w, http.StatusOK, views)
}

func (a *adminAPI) handleGetRegister(w http.ResponseWriter, r *http.Request) {
	regID, ok := pathRegisterID(w, r)
	if !ok {
		return
	}
	reg, err := a.repo.GetRegister(regID)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(reg))
}

type statusRequest struct {
	Status string `json:"status"`
}

func (a *adminAPI) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	regID, ok := pathRegisterID(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	var next register.Status
	switch req.Status {
	case "Online":
		next = register.StatusOnline
	case "Quiesced":
		next = register.StatusQuiesced
	case "Deleted":
		next = register.StatusDeleted
	default:
		writeError(w, http.StatusBadRequest, "unknown status "+req.Status)
		return
	}
	if err := a.repo.UpdateStatus(regID, next); err != nil {
		writeRepoError(w, err)
		return
	}
	reg, err := a.repo.GetRegister(regID)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(reg))
}

func (a *adminAPI) handleGetRoster(w http.ResponseWriter, r *http.Request) {
	regID, ok := pathRegisterID(w, r)
	if !ok {
		return
	}
	current, err := roster.Reconstruct(a.repo, regID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if current == nil {
		writeError(w, http.StatusNotFound, "no roster for register "+regID.String())
		return
	}
	writeJSON(w, http.StatusOK, current)
}

func (a *adminAPI) handleListDockets(w http.ResponseWriter, r *http.Request) {
	regID, ok := pathRegisterID(w, r)
	if !ok {
		return
	}
	dockets, err := a.repo.Dockets(regID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	views := make([]*docketView, 0, len(dockets))
	for _, d := range dockets {
		views = append(views, &docketView{
			ID:             d.ID(),
			PreviousHash:   d.PreviousHash(),
			TransactionIDs: d.TransactionIDs(),
			State:          d.State().String(),
			Timestamp:      d.Timestamp(),
			Signature:      d.Signature(),
		})
	}
	writeJSON(w, http.StatusOK, views)
}

type submitTxRequest struct {
	// Raw is the hex encoded rlp of a signed transaction.
	Raw string `json:"raw"`
}

type submitTxResult struct {
	TxID sorcha.Bytes32 `json:"txId"`
}

func (a *adminAPI) handleSubmitTx(w http.ResponseWriter, r *http.Request) {
	regID, ok := pathRegisterID(w, r)
	if !ok {
		return
	}
	var req submitTxRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	raw, err := hex.DecodeString(strings.TrimPrefix(req.Raw, "0x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "raw is not valid hex")
		return
	}
	var trx tx.Transaction
	if err := rlp.DecodeBytes(raw, &trx); err != nil {
		writeError(w, http.StatusBadRequest, "raw is not a valid transaction")
		return
	}
	if trx.RegisterID() != regID {
		writeError(w, http.StatusBadRequest, "transaction register does not match path")
		return
	}
	if err := a.pool.Add(r.Context(), &trx); err != nil {
		writeMempoolError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, &submitTxResult{TxID: trx.ID()})
}

func (a *adminAPI) handleAudit(w http.ResponseWriter, r *http.Request) {
	regID, ok := pathRegisterID(w, r)
	if !ok {
		return
	}
	var (
		report *audit.Report
		err    error
	)
	switch scope := r.URL.Query().Get("scope"); scope {
	case "", "full":
		report, err = a.auditor.ValidateCompleteChain(regID)
	case "dockets":
		report, err = a.auditor.ValidateDocketChain(regID)
	case "transactions":
		report, err = a.auditor.ValidateTransactionChain(regID)
	default:
		writeError(w, http.StatusBadRequest, "unknown audit scope "+scope)
		return
	}
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type healthView struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Registers int               `json:"registers"`
	Heights   map[string]uint64 `json:"heights"`
}

func (a *adminAPI) handleHealth(w http.ResponseWriter, _ *http.Request) {
	regs, err := a.repo.AllRegisters()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	heights := make(map[string]uint64, len(regs))
	for _, reg := range regs {
		heights[reg.ID.String()] = reg.Height
	}
	writeJSON(w, http.StatusOK, &healthView{
		Status:    "up",
		Version:   fullVersion(),
		Registers: len(regs),
		Heights:   heights,
	})
}

type logLevelView struct {
	Level string `json:"level"`
}

func (a *adminAPI) handleGetLogLevel(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, &logLevelView{Level: levelName(a.logLevel.Level())})
}

func (a *adminAPI) handleSetLogLevel(w http.ResponseWriter, r *http.Request) {
	var req logLevelView
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	lvl, ok := parseLevel(req.Level)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown log level "+req.Level)
		return
	}
	a.logLevel.Set(lvl)
	writeJSON(w, http.StatusOK, &logLevelView{Level: levelName(lvl)})
}

func levelName(lvl slog.Level) string {
	switch lvl {
	case log.LevelTrace:
		return "trace"
	case log.LevelDebug:
		return "debug"
	case log.LevelInfo:
		return "info"
	case log.LevelWarn:
		return "warn"
	case log.LevelError:
		return "error"
	default:
		return lvl.String()
	}
}

func parseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(name) {
	case "trace":
		return log.LevelTrace, true
	case "debug":
		return log.LevelDebug, true
	case "info":
		return log.LevelInfo, true
	case "warn":
		return log.LevelWarn, true
	case "error":
		return log.LevelError, true
	default:
		return 0, false
	}
}

func pathRegisterID(w http.ResponseWriter, r *http.Request) (sorcha.RegisterID, bool) {
	id, err := sorcha.ParseRegisterID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed register id")
		return sorcha.RegisterID{}, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeGenesisError(w http.ResponseWriter, err error) {
	switch {
	case genesis.IsInvalidRequest(err), genesis.IsSignatureInvalid(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case genesis.IsTenantRejected(err):
		writeError(w, http.StatusForbidden, err.Error())
	case genesis.IsPendingNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	case genesis.IsExpired(err):
		writeError(w, http.StatusGone, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeRepoError(w http.ResponseWriter, err error) {
	if register.IsNotFound(err) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeMempoolError(w http.ResponseWriter, err error) {
	switch {
	case mempool.IsDuplicateTx(err):
		writeError(w, http.StatusConflict, err.Error())
	case mempool.IsTxTooLarge(err):
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
	case mempool.IsRegisterUnavailable(err):
		writeError(w, http.StatusNotFound, err.Error())
	case mempool.IsBadSignature(err), mempool.IsBadControlPayload(err), mempool.IsUnknownPrevTx(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
