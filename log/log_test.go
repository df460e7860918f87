// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminalHandler(t *testing.T) {
	out := new(bytes.Buffer)
	l := NewLogger(NewTerminalHandler(out, false)).With("pkg", "staker")

	l.Info("rewards claimed", "amount", big.NewInt(7000), "periods", uint64(1), "reward", uint256.NewInt(3500))

	line := out.String()
	assert.Contains(t, line, "INFO ")
	assert.Contains(t, line, "rewards claimed")
	assert.Contains(t, line, "pkg=staker")
	assert.Contains(t, line, "amount=7000")
	assert.Contains(t, line, "reward=3500")
	assert.Contains(t, line, "periods=1")
}

func TestTerminalHandlerLevel(t *testing.T) {
	out := new(bytes.Buffer)
	var lvl slog.LevelVar
	lvl.Set(slog.LevelInfo)
	l := NewLogger(NewTerminalHandlerWithLevel(out, &lvl, false))

	l.Debug("hidden")
	assert.Empty(t, out.String())

	l.Warn("shown", "msg with space", "a b")
	assert.Contains(t, out.String(), `"msg with space"="a b"`)
}

func TestJSONHandler(t *testing.T) {
	out := new(bytes.Buffer)
	l := NewLogger(JSONHandler(out))
	l.Debug("state committed", "slots", 3, "nil", (*big.Int)(nil))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &rec))
	assert.Equal(t, "debug", rec["lvl"])
	assert.Equal(t, "state committed", rec["msg"])
	assert.Equal(t, "<nil>", rec["nil"])
}

func TestWithContextFollowsRoot(t *testing.T) {
	l := WithContext("pkg", "test")

	out := new(bytes.Buffer)
	prev := Root()
	SetDefault(NewLogger(LogfmtHandler(out)))
	defer SetDefault(prev)

	l.Info("hello")
	assert.Contains(t, out.String(), "pkg=test")
	assert.Contains(t, out.String(), "lvl=info")
}

func TestFromLegacyLevel(t *testing.T) {
	tests := []struct {
		legacy int
		want   slog.Level
	}{
		{0, LevelCrit},
		{1, slog.LevelError},
		{2, slog.LevelWarn},
		{3, slog.LevelInfo},
		{4, slog.LevelDebug},
		{5, LevelTrace},
		{9, LevelTrace - 4},
		{-1, LevelCrit},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FromLegacyLevel(tt.legacy), "legacy level %d", tt.legacy)
	}
	assert.Equal(t, "warn", LevelString(slog.LevelWarn))
}
