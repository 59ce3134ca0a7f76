// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "path to the yaml configuration file",
	}
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for register databases",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8650",
		Usage: "admin API listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Usage: "comma separated list of domains from which to accept cross origin requests to the API",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-5: crit,error,warn,info,debug,trace)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "emit logs in json format",
	}
	sealIntervalFlag = cli.DurationFlag{
		Name:  "seal-interval",
		Usage: "interval of the docket sealing loop",
	}
	systemWalletFlag = cli.StringFlag{
		Name:  "system-wallet",
		Value: "sorcha-system",
		Usage: "address of the system wallet used to sign genesis transactions and dockets",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "expose prometheus metrics on the admin API",
	}
	skipClockCheckFlag = cli.BoolFlag{
		Name:   "skip-clock-check",
		Hidden: true,
		Usage:  "skip the ntp clock drift check at startup",
	}
	cacheFlag = cli.IntFlag{
		Name:   "cache",
		Value:  128,
		Hidden: true,
		Usage:  "megabytes of ram allocated to the database cache",
	}
)
