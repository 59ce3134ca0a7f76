// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/beevik/ntp"

	"github.com/sorcha-ledger/sorcha/log"
)

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".sorcha")
}

func initLogging(verbosity int, jsonLogs bool) *slog.LevelVar {
	lvl := new(slog.LevelVar)
	switch verbosity {
	case 0:
		lvl.Set(log.LevelError + 4)
	case 1:
		lvl.Set(log.LevelError)
	case 2:
		lvl.Set(log.LevelWarn)
	case 3:
		lvl.Set(log.LevelInfo)
	case 4:
		lvl.Set(log.LevelDebug)
	default:
		lvl.Set(log.LevelTrace)
	}

	var handler slog.Handler
	if jsonLogs {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	} else {
		handler = log.StderrHandler(lvl)
	}
	log.SetRootHandler(handler)
	return lvl
}

const (
	ntpServer      = "pool.ntp.org"
	maxClockOffset = 10 * time.Second
)

// checkClockOffset warns when the local clock drifts from ntp time.
// Docket timestamps and proposal windows come from the local clock, so a
// badly drifted clock quietly breaks expiry checks.
func checkClockOffset() {
	resp, err := ntp.Query(ntpServer)
	if err != nil {
		logger.Debug("ntp query failed", "err", err)
		return
	}
	if resp.ClockOffset > maxClockOffset || resp.ClockOffset < -maxClockOffset {
		logger.Warn("local clock drifts from ntp time",
			"offset", resp.ClockOffset,
			"server", ntpServer)
	}
}
