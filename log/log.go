// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log is a thin layer over go-ethereum's slog based logger. Package
// level loggers created by WithContext follow the root logger installed later
// by SetDefault.
package log

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"

	ethlog "github.com/ethereum/go-ethereum/log"
)

const (
	LevelTrace = ethlog.LevelTrace
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
	LevelCrit  = ethlog.LevelCrit
)

// Logger writes key/value pairs to a handler.
type Logger interface {
	With(ctx ...any) Logger
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Crit(msg string, ctx ...any)
	Enabled(ctx context.Context, level slog.Level) bool
}

var generation atomic.Uint64

// SetDefault installs the root handler for every logger of the process.
func SetDefault(h slog.Handler) {
	ethlog.SetDefault(ethlog.NewLogger(h))
	generation.Add(1)
}

// Root returns the root logger.
func Root() Logger {
	return WithContext()
}

// WithContext returns a logger carrying ctx, bound lazily to the current root.
func WithContext(ctx ...any) Logger {
	return &contextLogger{ctx: ctx}
}

type bound struct {
	gen uint64
	l   ethlog.Logger
}

type contextLogger struct {
	ctx []any
	cur atomic.Pointer[bound]
}

func (c *contextLogger) logger() ethlog.Logger {
	gen := generation.Load()
	if b := c.cur.Load(); b != nil && b.gen == gen {
		return b.l
	}
	l := ethlog.Root()
	if len(c.ctx) > 0 {
		l = l.With(c.ctx...)
	}
	c.cur.Store(&bound{gen, l})
	return l
}

func (c *contextLogger) With(ctx ...any) Logger {
	merged := make([]any, 0, len(c.ctx)+len(ctx))
	return &contextLogger{ctx: append(append(merged, c.ctx...), ctx...)}
}

func (c *contextLogger) Trace(msg string, ctx ...any) { c.logger().Trace(msg, ctx...) }
func (c *contextLogger) Debug(msg string, ctx ...any) { c.logger().Debug(msg, ctx...) }
func (c *contextLogger) Info(msg string, ctx ...any)  { c.logger().Info(msg, ctx...) }
func (c *contextLogger) Warn(msg string, ctx ...any)  { c.logger().Warn(msg, ctx...) }
func (c *contextLogger) Error(msg string, ctx ...any) { c.logger().Error(msg, ctx...) }
func (c *contextLogger) Crit(msg string, ctx ...any)  { c.logger().Crit(msg, ctx...) }

func (c *contextLogger) Enabled(ctx context.Context, level slog.Level) bool {
	return c.logger().Enabled(ctx, level)
}

// NewTerminalHandlerWithLevel returns a human readable handler filtering below lvl. lvl may be
// changed while the handler is in use.
func NewTerminalHandlerWithLevel(w io.Writer, lvl *slog.LevelVar, useColor bool) slog.Handler {
	return &levelHandler{lvl, ethlog.NewTerminalHandlerWithLevel(w, LevelTrace, useColor)}
}

// JSONHandlerWithLevel returns a JSON handler filtering below lvl.
func JSONHandlerWithLevel(w io.Writer, lvl *slog.LevelVar) slog.Handler {
	return &levelHandler{lvl, ethlog.JSONHandlerWithLevel(w, LevelTrace)}
}

// levelHandler filters records of the wrapped handler by a level var.
type levelHandler struct {
	lvl   *slog.LevelVar
	inner slog.Handler
}

func (h *levelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.lvl.Level() && h.inner.Enabled(ctx, level)
}

func (h *levelHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.inner.Handle(ctx, r)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{h.lvl, h.inner.WithAttrs(attrs)}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{h.lvl, h.inner.WithGroup(name)}
}

// FromVerbosity maps the legacy 0 (crit) .. 5 (trace) verbosity to a level.
func FromVerbosity(v int) slog.Level {
	return ethlog.FromLegacyLevel(v)
}

// Package level helpers on the root logger.

func Trace(msg string, ctx ...any) { Root().Trace(msg, ctx...) }
func Debug(msg string, ctx ...any) { Root().Debug(msg, ctx...) }
func Info(msg string, ctx ...any)  { Root().Info(msg, ctx...) }
func Warn(msg string, ctx ...any)  { Root().Warn(msg, ctx...) }
func Error(msg string, ctx ...any) { Root().Error(msg, ctx...) }
