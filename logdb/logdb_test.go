// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakecampaign/builtin/solidity"
	"github.com/vechain/stakecampaign/logdb"
	"github.com/vechain/stakecampaign/thor"
)

var (
	campaignA = thor.BytesToAddress([]byte("a"))
	campaignB = thor.BytesToAddress([]byte("b"))
	caller    = thor.BytesToAddress([]byte("caller"))
)

func newEvent(addr thor.Address, name string, attrs ...solidity.Attr) *solidity.Event {
	return &solidity.Event{Address: addr, Name: name, Attrs: attrs}
}

func fill(t *testing.T, db *logdb.LogDB) {
	for n := uint32(1); n <= 10; n++ {
		target := campaignA
		if n%2 == 0 {
			target = campaignB
		}
		call := &logdb.Call{Number: n, Time: uint64(n) * 10, Caller: caller, Action: "stake", Target: target}
		require.NoError(t, db.Write(call, []*solidity.Event{
			newEvent(target, "transfer_nft", solidity.NewAttr("token_id", n)),
			newEvent(target, "stake_nft", solidity.NewAttr("owner", caller), solidity.NewAttr("nfts", n)),
		}))
	}
}

func name(s string) *string { return &s }

func TestWriteAndFilter(t *testing.T) {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	n, err := db.NewestCallNumber()
	require.NoError(t, err)
	assert.Equal(t, uint32(0), n)

	fill(t, db)
	n, err = db.NewestCallNumber()
	require.NoError(t, err)
	assert.Equal(t, uint32(10), n)

	ctx := context.Background()
	all, err := db.FilterEvents(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 20)
	assert.Equal(t, uint32(1), all[0].CallNumber)
	assert.Equal(t, uint32(0), all[0].Index)
	assert.Equal(t, uint32(1), all[1].Index)
	v, ok := all[1].Attr("owner")
	assert.True(t, ok)
	assert.Equal(t, caller.String(), v)

	evs, err := db.FilterEvents(ctx, &logdb.EventFilter{
		CriteriaSet: []*logdb.EventCriteria{{Address: &campaignA, Name: name("stake_nft")}},
	})
	require.NoError(t, err)
	require.Len(t, evs, 5)
	for _, ev := range evs {
		assert.Equal(t, campaignA, ev.Address)
		assert.Equal(t, "stake_nft", ev.Name)
	}

	evs, err = db.FilterEvents(ctx, &logdb.EventFilter{
		CriteriaSet: []*logdb.EventCriteria{{Address: &campaignA, Name: name("stake_nft")}, {Address: &campaignB}},
		Range:       &logdb.Range{Unit: logdb.CallNumber, From: 3, To: 6},
		Order:       logdb.DESC,
	})
	require.NoError(t, err)
	// A stakes in calls 3 and 5, everything of B in 4 and 6
	require.Len(t, evs, 6)
	assert.Equal(t, uint32(6), evs[0].CallNumber)
	assert.Equal(t, uint32(3), evs[len(evs)-1].CallNumber)

	evs, err = db.FilterEvents(ctx, &logdb.EventFilter{
		Range:   &logdb.Range{Unit: logdb.Time, From: 50, To: 0},
		Options: &logdb.Options{Offset: 2, Limit: 3},
	})
	require.NoError(t, err)
	require.Len(t, evs, 3)
	assert.Equal(t, uint32(6), evs[0].CallNumber)
	assert.Equal(t, uint64(60), evs[0].Time)
}

func TestDuplicateCall(t *testing.T) {
	db, err := logdb.New(filepath.Join(t.TempDir(), "logs.db"))
	require.NoError(t, err)
	defer db.Close()

	call := &logdb.Call{Number: 1, Time: 1, Caller: caller, Action: "fund", Target: campaignA}
	require.NoError(t, db.Write(call, []*solidity.Event{newEvent(campaignA, "add_reward_token")}))
	assert.Error(t, db.Write(call, []*solidity.Event{newEvent(campaignA, "add_reward_token")}))

	evs, err := db.FilterEvents(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, evs, 1)
}
