// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakecampaign/builtin/collection"
	"github.com/vechain/stakecampaign/genesis"
	"github.com/vechain/stakecampaign/lvldb"
	"github.com/vechain/stakecampaign/runtime"
	"github.com/vechain/stakecampaign/state"
	"github.com/vechain/stakecampaign/thor"
)

const sample = `
launchTime: 1700000000
factory:
  owner: "0x0000000000000000000000000000000000000a01"
tokens:
  - address: "0x0000000000000000000000000000000000000b01"
    name: Reward
    symbol: RWD
    decimals: 18
    minter: "0x0000000000000000000000000000000000000a01"
    balances:
      - address: "0x0000000000000000000000000000000000000a02"
        amount: "1000000"
      - address: "0x0000000000000000000000000000000000000a03"
        amount: "0x10"
collections:
  - address: "0x0000000000000000000000000000000000000c01"
    name: Punks
    symbol: PNK
    minter: "0x0000000000000000000000000000000000000a01"
    items:
      - id: "1"
        owner: "0x0000000000000000000000000000000000000a02"
`

func TestParse(t *testing.T) {
	gen, err := genesis.Parse([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, uint64(1700000000), gen.LaunchTime)
	require.Len(t, gen.Tokens, 1)
	assert.Equal(t, int64(16), (*big.Int)(gen.Tokens[0].Balances[1].Amount).Int64())
	assert.Equal(t, "1", gen.Collections[0].Items[0].ID)

	_, err = genesis.Parse([]byte("tokens: []"))
	assert.ErrorContains(t, err, "factory owner")

	dup := `
factory:
  owner: "0x0000000000000000000000000000000000000a01"
tokens:
  - address: "0x0000000000000000000000000000000000000b01"
collections:
  - address: "0x0000000000000000000000000000000000000b01"
`
	_, err = genesis.Parse([]byte(dup))
	assert.ErrorContains(t, err, "used twice")

	negative := `
factory:
  owner: "0x0000000000000000000000000000000000000a01"
tokens:
  - address: "0x0000000000000000000000000000000000000b01"
    balances:
      - address: "0x0000000000000000000000000000000000000a02"
        amount: "0"
`
	_, err = genesis.Parse([]byte(negative))
	assert.ErrorContains(t, err, "positive")
}

func TestApply(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	host, err := runtime.New(state.NewStater(db, 0), nil, runtime.NewManualClock(0))
	require.NoError(t, err)

	gen := genesis.NewDevnet(0)
	applied, err := gen.Apply(host)
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = gen.Apply(host)
	require.NoError(t, err)
	assert.False(t, applied)

	require.NoError(t, host.Query(func(env *runtime.Env) error {
		cfg, err := env.Factory().Config()
		require.NoError(t, err)
		assert.Equal(t, genesis.DevAccounts[0], cfg.Owner)

		bal, err := env.Token(genesis.DevRewardToken).BalanceOf(genesis.DevAccounts[2])
		require.NoError(t, err)
		assert.Equal(t, "1000000000000000000000000", bal.Dec())

		owner, err := env.Collection(genesis.DevCollection).OwnerOf(collection.TokenID("6"))
		require.NoError(t, err)
		assert.Equal(t, genesis.DevAccounts[1], owner)
		return nil
	}))

	other := thor.BytesToAddress([]byte("nobody"))
	require.NoError(t, host.Query(func(env *runtime.Env) error {
		bal, err := env.Token(genesis.DevRewardToken).BalanceOf(other)
		require.NoError(t, err)
		assert.True(t, bal.IsZero())
		return nil
	}))
}
