// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package factory

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakecampaign/builtin/campaign"
	"github.com/vechain/stakecampaign/builtin/campaign/record"
	"github.com/vechain/stakecampaign/builtin/collection"
	"github.com/vechain/stakecampaign/builtin/solidity"
	"github.com/vechain/stakecampaign/builtin/token"
	"github.com/vechain/stakecampaign/cache"
	"github.com/vechain/stakecampaign/lvldb"
	"github.com/vechain/stakecampaign/state"
	"github.com/vechain/stakecampaign/thor"
)

var (
	admin   = thor.BytesToAddress([]byte("admin"))
	creator = thor.BytesToAddress([]byte("creator"))
	minter  = thor.BytesToAddress([]byte("minter"))

	factoryAddr    = thor.BytesToAddress([]byte("factory"))
	rewardAddr     = thor.BytesToAddress([]byte("reward"))
	collectionAddr = thor.BytesToAddress([]byte("punks"))
)

func newFactory(t *testing.T) (*Factory, *cache.LRU[ID, *Entry]) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sctx := solidity.NewContext(factoryAddr, state.NewStater(db, 0).NewState(), nil)
	require.NoError(t, token.New(sctx.At(rewardAddr)).Register(&token.Meta{Name: "Reward", Symbol: "RWD", Minter: minter}))
	require.NoError(t, collection.New(sctx.At(collectionAddr)).Register(&collection.Meta{Name: "Punks", Symbol: "PNK", Minter: minter}))

	entries, err := cache.NewLRU[ID, *Entry](16)
	require.NoError(t, err)
	f := New(sctx, campaign.NewResolver(sctx), entries)
	require.NoError(t, f.Initialize(admin))
	return f, entries
}

func params(name string) *record.Params {
	return &record.Params{
		Name:              name,
		RewardAsset:       record.RewardAsset{Kind: record.AssetToken, Address: rewardAddr},
		AllowedCollection: collectionAddr,
		LockupTerms:       []record.LockupTerm{{Duration: 10, Percent: 100}},
		StartTime:         100,
		EndTime:           200,
	}
}

func TestConfig(t *testing.T) {
	f, _ := newFactory(t)
	assert.ErrorIs(t, f.Initialize(creator), ErrAlreadyInitialized)

	cfg, err := f.Config()
	require.NoError(t, err)
	assert.Equal(t, admin, cfg.Owner)

	assert.ErrorIs(t, f.UpdateConfig(creator, creator), ErrUnauthorized)
	require.NoError(t, f.UpdateConfig(admin, creator))
	cfg, err = f.Config()
	require.NoError(t, err)
	assert.Equal(t, creator, cfg.Owner)
}

func TestCreateCampaign(t *testing.T) {
	f, entries := newFactory(t)

	var created []*Entry
	for _, name := range []string{"a", "b", "c"} {
		entry, err := f.CreateCampaign(creator, params(name), 10)
		require.NoError(t, err)
		created = append(created, entry)
	}
	for i, entry := range created {
		assert.Equal(t, ID(i+1), entry.ID)
		assert.Equal(t, creator, entry.Owner)
		assert.Equal(t, thor.CreateBuiltinAddress("campaign", factoryAddr, uint64(i+1)), entry.CampaignAddress)
	}

	c, err := f.Lookup(created[1].CampaignAddress)
	require.NoError(t, err)
	info, err := c.Info()
	require.NoError(t, err)
	assert.Equal(t, "b", info.Name)
	assert.Equal(t, creator, info.Owner)

	_, err = f.Lookup(thor.BytesToAddress([]byte("nowhere")))
	assert.ErrorIs(t, err, campaign.ErrNotInitialized)

	// invalid params leave no trace
	bad := params("bad")
	bad.EndTime = 50
	_, err = f.CreateCampaign(creator, bad, 10)
	assert.ErrorIs(t, err, record.ErrInvalidTimeRange)
	n, err := f.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), n)

	got, err := f.Campaign(2)
	require.NoError(t, err)
	assert.Equal(t, created[1], got)
	_, err = f.Campaign(2)
	require.NoError(t, err)
	hit, _ := entries.Stats()
	assert.Equal(t, int64(1), hit)

	_, err = f.Campaign(9)
	assert.ErrorIs(t, err, ErrCampaignNotFound)

	addrs, err := f.Addresses()
	require.NoError(t, err)
	require.Len(t, addrs, 3)
	assert.Equal(t, created[2].CampaignAddress, addrs[2])
}

func TestCampaignsRange(t *testing.T) {
	f, _ := newFactory(t)
	for range 35 {
		_, err := f.CreateCampaign(creator, params("x"), 10)
		require.NoError(t, err)
	}

	list, err := f.Campaigns(0, 0)
	require.NoError(t, err)
	assert.Len(t, list, DefaultQueryLimit)
	assert.Equal(t, ID(1), list[0].ID)

	list, err = f.Campaigns(30, 0)
	require.NoError(t, err)
	require.Len(t, list, 5)
	assert.Equal(t, ID(31), list[0].ID)

	list, err = f.Campaigns(3, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, ID(4), list[0].ID)

	list, err = f.Campaigns(0, 1000)
	require.NoError(t, err)
	assert.Len(t, list, 35)

	list, err = f.Campaigns(35, 10)
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = f.Campaigns(ID(math.MaxUint64), 10)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
