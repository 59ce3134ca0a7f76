// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

var nowFunc = time.Now

type discardHandler struct{}

// DiscardHandler returns a no-op handler.
func DiscardHandler() slog.Handler {
	return &discardHandler{}
}

func (h *discardHandler) Handle(context.Context, slog.Record) error  { return nil }
func (h *discardHandler) Enabled(context.Context, slog.Level) bool   { return false }
func (h *discardHandler) WithGroup(string) slog.Handler              { return h }
func (h *discardHandler) WithAttrs([]slog.Attr) slog.Handler         { return h }

const termTimeFormat = "Jan 02 15:04:05"

// TerminalHandler formats records for human readability on a terminal:
//
//	[LEVL] [time] message key=value key=value ...
//
// Level labels are color-coded when the writer is a tty.
type TerminalHandler struct {
	mu       sync.Mutex
	wr       io.Writer
	lvl      *slog.LevelVar
	useColor bool
	attrs    []slog.Attr
}

// NewTerminalHandler returns a terminal handler writing to wr at the given
// mutable level. Color is enabled when wr is a terminal.
func NewTerminalHandler(wr io.Writer, lvl *slog.LevelVar) *TerminalHandler {
	useColor := false
	if f, ok := wr.(*os.File); ok {
		useColor = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &TerminalHandler{
		wr:       wr,
		lvl:      lvl,
		useColor: useColor,
	}
}

func (h *TerminalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.lvl.Level()
}

func (h *TerminalHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	buf := make([]byte, 0, 128)
	buf = append(buf, '[')
	buf = append(buf, h.label(r.Level)...)
	buf = append(buf, "] ["...)
	buf = append(buf, r.Time.Format(termTimeFormat)...)
	buf = append(buf, "] "...)
	buf = append(buf, r.Message...)

	for _, attr := range h.attrs {
		buf = appendAttr(buf, attr)
	}
	r.Attrs(func(attr slog.Attr) bool {
		buf = appendAttr(buf, attr)
		return true
	})
	buf = append(buf, '\n')

	_, err := h.wr.Write(buf)
	return err
}

func (h *TerminalHandler) WithGroup(string) slog.Handler {
	// groups are flattened; key collision is tolerable for terminal output
	return h
}

func (h *TerminalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TerminalHandler{
		wr:       h.wr,
		lvl:      h.lvl,
		useColor: h.useColor,
		attrs:    append(append([]slog.Attr(nil), h.attrs...), attrs...),
	}
}

func (h *TerminalHandler) label(level slog.Level) string {
	var label string
	var color int
	switch {
	case level <= LevelTrace:
		label, color = "TRCE", 35
	case level <= LevelDebug:
		label, color = "DBUG", 36
	case level <= LevelInfo:
		label, color = "INFO", 32
	case level <= LevelWarn:
		label, color = "WARN", 33
	default:
		label, color = "EROR", 31
	}
	if h.useColor {
		return fmt.Sprintf("\x1b[%dm%s\x1b[0m", color, label)
	}
	return label
}

func appendAttr(buf []byte, attr slog.Attr) []byte {
	buf = append(buf, ' ')
	buf = append(buf, attr.Key...)
	buf = append(buf, '=')
	return fmt.Appendf(buf, "%v", attr.Value.Any())
}
