// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
	yaml "gopkg.in/yaml.v3"

	"github.com/sorcha-ledger/sorcha/genesis"
	"github.com/sorcha-ledger/sorcha/sorcha"
)

// config is the resolved node configuration. File values come first, then
// command line flags override.
type config struct {
	DataDir      string        `yaml:"dataDir"`
	APIAddr      string        `yaml:"apiAddr"`
	APICors      string        `yaml:"apiCors"`
	SealInterval time.Duration `yaml:"sealInterval"`
	SystemWallet string        `yaml:"systemWallet"`
	CacheMB      int           `yaml:"cacheMB"`

	// Tenants allowed to create registers. Empty means every tenant.
	AllowedTenants []string `yaml:"allowedTenants"`

	Metrics bool `yaml:"metrics"`
}

func loadConfig(ctx *cli.Context) (*config, error) {
	cfg := &config{
		DataDir:      defaultDataDir(),
		APIAddr:      "localhost:8650",
		SealInterval: sorcha.SealInterval,
		SystemWallet: "sorcha-system",
		CacheMB:      128,
	}

	if path := ctx.String(configFlag.Name); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "read config")
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, "parse config")
		}
	}

	if ctx.IsSet(dataDirFlag.Name) {
		cfg.DataDir = ctx.String(dataDirFlag.Name)
	}
	if ctx.IsSet(apiAddrFlag.Name) {
		cfg.APIAddr = ctx.String(apiAddrFlag.Name)
	}
	if ctx.IsSet(apiCorsFlag.Name) {
		cfg.APICors = ctx.String(apiCorsFlag.Name)
	}
	if ctx.IsSet(sealIntervalFlag.Name) {
		cfg.SealInterval = ctx.Duration(sealIntervalFlag.Name)
	}
	if ctx.IsSet(systemWalletFlag.Name) {
		cfg.SystemWallet = ctx.String(systemWalletFlag.Name)
	}
	if ctx.IsSet(cacheFlag.Name) {
		cfg.CacheMB = ctx.Int(cacheFlag.Name)
	}
	if ctx.Bool(enableMetricsFlag.Name) {
		cfg.Metrics = true
	}

	if cfg.SealInterval <= 0 {
		return nil, errors.New("seal interval must be positive")
	}
	return cfg, nil
}

// tenantAllowList gates register creation on a fixed tenant list.
type tenantAllowList map[string]struct{}

// newTenantAllowList returns nil for an empty list so the orchestrator
// falls back to accepting every tenant.
func newTenantAllowList(tenants []string) genesis.TenantGate {
	if len(tenants) == 0 {
		return nil
	}
	list := make(tenantAllowList, len(tenants))
	for _, t := range tenants {
		list[t] = struct{}{}
	}
	return list
}

func (l tenantAllowList) Allow(_ context.Context, tenantID string) (bool, error) {
	_, ok := l[tenantID]
	return ok, nil
}
