// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/sorcha-ledger/sorcha/audit"
	"github.com/sorcha-ledger/sorcha/did"
	"github.com/sorcha-ledger/sorcha/genesis"
	"github.com/sorcha-ledger/sorcha/kv"
	"github.com/sorcha-ledger/sorcha/log"
	"github.com/sorcha-ledger/sorcha/mempool"
	"github.com/sorcha-ledger/sorcha/metrics"
	"github.com/sorcha-ledger/sorcha/register"
	"github.com/sorcha-ledger/sorcha/sealer"
	"github.com/sorcha-ledger/sorcha/sorcha"
	"github.com/sorcha-ledger/sorcha/wallet"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Sorcha",
		Usage:     "Register governance node of the Sorcha ledger",
		Copyright: "2025 The Sorcha developers",
		Flags: []cli.Flag{
			configFlag,
			dataDirFlag,
			apiAddrFlag,
			apiCorsFlag,
			verbosityFlag,
			jsonLogsFlag,
			sealIntervalFlag,
			systemWalletFlag,
			enableMetricsFlag,
			skipClockCheckFlag,
			cacheFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	logLevel := initLogging(ctx.Int(verbosityFlag.Name), ctx.Bool(jsonLogsFlag.Name))

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if cfg.Metrics {
		metrics.InitializePrometheusMetrics()
	}
	if !ctx.Bool(skipClockCheckFlag.Name) {
		checkClockOffset()
	}

	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return errors.Wrap(err, "create data dir")
	}
	store, err := kv.Open(filepath.Join(cfg.DataDir, "registers.db"), cfg.CacheMB)
	if err != nil {
		return errors.Wrap(err, "open database")
	}
	defer func() {
		logger.Info("closing database...")
		if err := store.Close(); err != nil {
			logger.Warn("close database", "err", err)
		}
	}()

	repo := register.NewRepository(store)

	// The system wallet signs genesis transactions and sealed dockets.
	// Keys are held in process and regenerated on restart; only signatures
	// made during this run verify against the stored public key.
	wallets := wallet.NewMemStore()
	if _, err := wallets.CreateWallet(cfg.SystemWallet, sorcha.AlgorithmEd25519); err != nil {
		return errors.Wrap(err, "create system wallet")
	}

	resolver := did.NewResolver(wallets, repo)
	pool := mempool.New(repo, resolver)
	defer pool.Close()

	orchestrator := genesis.New(repo, pool, wallets, cfg.SystemWallet, newTenantAllowList(cfg.AllowedTenants))
	orchestrator.Start()
	defer func() {
		logger.Info("stopping orchestrator...")
		orchestrator.Stop()
	}()

	slr := sealer.New(repo, pool, wallets, cfg.SystemWallet, cfg.SealInterval)
	slr.Start()
	defer func() {
		logger.Info("stopping sealer...")
		slr.Stop()
	}()

	api := &adminAPI{
		repo:         repo,
		pool:         pool,
		orchestrator: orchestrator,
		auditor:      audit.New(repo),
		logLevel:     logLevel,
	}
	listener, err := net.Listen("tcp", cfg.APIAddr)
	if err != nil {
		return errors.Wrap(err, "listen API addr")
	}
	srv := &http.Server{Handler: api.handler(cfg.APICors, cfg.Metrics)}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(sigCtx)
	group.Go(func() error {
		logger.Info("admin API started",
			"addr", listener.Addr(),
			"version", fullVersion(),
			"dataDir", cfg.DataDir)
		if err := srv.Serve(listener); err != http.ErrServerClosed {
			return errors.Wrap(err, "serve API")
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down admin API...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
