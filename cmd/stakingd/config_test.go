// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/nftstaking/builtin"
	"github.com/vechain/nftstaking/builtin/collection"
	"github.com/vechain/nftstaking/builtin/staker"
	"github.com/vechain/nftstaking/chain"
)

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), configFileName)

	cfg := staker.DefaultConfig()
	cfg.Authority = chain.BytesToAddress([]byte("authority"))
	cfg.Collection = builtin.Collection.Address
	cfg.FreezeCycles = 5
	require.NoError(t, saveConfig(path, cfg))

	loaded, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	// init never overwrites an existing ledger config
	assert.Error(t, saveConfig(path, cfg))
}

func TestConfigFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"valid", `
cycle-length: 3600
period-length: 24
freeze-cycles: 2
cooldown-cycles: 1
authority: "0x0000000000000000000000000000000000000001"
collection: "0x0000000000000000000000000000000000000002"
weights:
  Common: 1
  apex: 7
`, false},
		{"unknown class", `
cycle-length: 3600
period-length: 24
authority: "0x0000000000000000000000000000000000000001"
collection: "0x0000000000000000000000000000000000000002"
weights:
  mythic: 1
`, true},
		{"bad address", `
cycle-length: 3600
period-length: 24
authority: "0x01"
`, true},
		{"zero period", `
cycle-length: 3600
authority: "0x0000000000000000000000000000000000000001"
collection: "0x0000000000000000000000000000000000000002"
weights:
  common: 1
`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), configFileName)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0600))

			cfg, err := loadConfig(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, uint64(24), cfg.PeriodLength)
			assert.Equal(t, uint64(7), cfg.Weights[collection.Apex])
			assert.Equal(t, []collection.Class{collection.Common, collection.Apex}, weightNames(cfg.Weights))
		})
	}
}
