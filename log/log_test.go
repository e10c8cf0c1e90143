// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pkgLogger = WithContext("pkg", "test")

func levelVar(l slog.Level) *slog.LevelVar {
	var v slog.LevelVar
	v.Set(l)
	return &v
}

func TestContextLoggerFollowsRoot(t *testing.T) {
	var first, second bytes.Buffer

	SetDefault(JSONHandlerWithLevel(&first, levelVar(LevelInfo)))
	pkgLogger.Info("staked", "tokenID", "1")
	pkgLogger.Debug("filtered")

	SetDefault(JSONHandlerWithLevel(&second, levelVar(LevelDebug)))
	pkgLogger.With("campaign", "0x01").Debug("settled", "stakes", 2)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(first.Bytes()), &rec))
	assert.Equal(t, "staked", rec["msg"])
	assert.Equal(t, "test", rec["pkg"])
	assert.Equal(t, "1", rec["tokenID"])

	rec = nil
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(second.Bytes()), &rec))
	assert.Equal(t, "settled", rec["msg"])
	assert.Equal(t, "0x01", rec["campaign"])
	assert.Equal(t, float64(2), rec["stakes"])

	assert.True(t, pkgLogger.Enabled(context.Background(), LevelDebug))
	assert.False(t, pkgLogger.Enabled(context.Background(), LevelTrace))
}

func TestTerminalHandler(t *testing.T) {
	var buf bytes.Buffer
	SetDefault(NewTerminalHandlerWithLevel(&buf, levelVar(FromVerbosity(3)), false))

	Info("hello", "k", "v")
	Debug("hidden")

	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), "k=v")
	assert.NotContains(t, buf.String(), "hidden")
}

func TestLevelChangesAtRuntime(t *testing.T) {
	var buf bytes.Buffer
	lvl := levelVar(LevelWarn)
	SetDefault(NewTerminalHandlerWithLevel(&buf, lvl, false))
	logger := pkgLogger.With("campaign", "0x02")

	logger.Info("before")
	assert.Empty(t, buf.String())

	lvl.Set(LevelDebug)
	logger.Debug("after")
	assert.Contains(t, buf.String(), "after")
	assert.Contains(t, buf.String(), "campaign=0x02")
	assert.True(t, pkgLogger.Enabled(context.Background(), LevelDebug))
}
