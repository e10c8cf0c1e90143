// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package campaign

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakecampaign/builtin/campaign/record"
	"github.com/vechain/stakecampaign/builtin/collection"
	"github.com/vechain/stakecampaign/builtin/solidity"
	"github.com/vechain/stakecampaign/builtin/token"
	"github.com/vechain/stakecampaign/lvldb"
	"github.com/vechain/stakecampaign/state"
	"github.com/vechain/stakecampaign/thor"
)

var (
	owner  = thor.BytesToAddress([]byte("owner"))
	alice  = thor.BytesToAddress([]byte("alice"))
	bob    = thor.BytesToAddress([]byte("bob"))
	minter = thor.BytesToAddress([]byte("minter"))

	rewardAddr     = thor.BytesToAddress([]byte("reward"))
	collectionAddr = thor.BytesToAddress([]byte("punks"))
	campaignAddr   = thor.BytesToAddress([]byte("campaign"))

	shortTerm = record.LockupTerm{Duration: 10, Percent: 30}
	longTerm  = record.LockupTerm{Duration: 30, Percent: 70}
)

const (
	startTime = 100
	endTime   = 200
)

type testEnv struct {
	t        *testing.T
	state    *state.State
	events   *solidity.EventLog
	campaign *Campaign
	reward   *token.Token
	nfts     *collection.Collection
}

func u(v uint64) *uint256.Int {
	return uint256.NewInt(v)
}

func testParams() *record.Params {
	return &record.Params{
		Owner:             owner,
		Name:              "Punk staking",
		Image:             "ipfs://punks",
		Description:       "stake your punks",
		RewardAsset:       record.RewardAsset{Kind: record.AssetToken, Address: rewardAddr},
		AllowedCollection: collectionAddr,
		LockupTerms:       []record.LockupTerm{shortTerm, longTerm},
		StartTime:         startTime,
		EndTime:           endTime,
	}
}

// newTestEnv provisions the reward token, the collection with tokens 1-5 owned by alice and 6-8
// owned by bob, and an unfunded campaign approved as operator and spender.
func newTestEnv(t *testing.T, modify ...func(*record.Params)) *testEnv {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	env := &testEnv{t: t, state: state.NewStater(db, 0).NewState(), events: &solidity.EventLog{}}
	sctx := solidity.NewContext(campaignAddr, env.state, solidity.NewCharger()).WithEvents(env.events)

	env.reward = token.New(sctx.At(rewardAddr))
	require.NoError(t, env.reward.Register(&token.Meta{Name: "Reward", Symbol: "RWD", Minter: minter}))
	require.NoError(t, env.reward.Mint(minter, owner, u(10_000_000)))
	require.NoError(t, env.reward.Approve(owner, campaignAddr, u(10_000_000)))

	env.nfts = collection.New(sctx.At(collectionAddr))
	require.NoError(t, env.nfts.Register(&collection.Meta{Name: "Punks", Symbol: "PNK", Minter: minter}))
	for _, id := range []collection.TokenID{"1", "2", "3", "4", "5"} {
		require.NoError(t, env.nfts.Mint(minter, id, alice))
	}
	for _, id := range []collection.TokenID{"6", "7", "8"} {
		require.NoError(t, env.nfts.Mint(minter, id, bob))
	}
	require.NoError(t, env.nfts.SetApprovalForAll(alice, campaignAddr, true))
	require.NoError(t, env.nfts.SetApprovalForAll(bob, campaignAddr, true))

	p := testParams()
	for _, m := range modify {
		m(p)
	}
	env.campaign = New(sctx, NewResolver(sctx))
	require.NoError(t, env.campaign.Initialize(p, 0))
	return env
}

// call runs f reverting all of its writes on failure.
func (e *testEnv) call(f func() error) error {
	chk := e.state.NewCheckpoint()
	if err := f(); err != nil {
		e.state.RevertTo(chk)
		return err
	}
	return nil
}

func (e *testEnv) fund(amount uint64, now uint64) error {
	return e.call(func() error { return e.campaign.Fund(owner, u(amount), now) })
}

func (e *testEnv) stake(who thor.Address, now uint64, reqs ...StakeRequest) error {
	return e.call(func() error { return e.campaign.Stake(who, reqs, now) })
}

func (e *testEnv) unstake(who thor.Address, id collection.TokenID, now uint64) error {
	return e.call(func() error { return e.campaign.Unstake(who, id, now) })
}

func (e *testEnv) claim(who thor.Address, amount uint64, now uint64) error {
	return e.call(func() error { return e.campaign.Claim(who, u(amount), now) })
}

func (e *testEnv) withdraw(who thor.Address, now uint64) (*uint256.Int, error) {
	var amount *uint256.Int
	err := e.call(func() (err error) {
		amount, err = e.campaign.WithdrawRemainder(who, now)
		return err
	})
	return amount, err
}

func (e *testEnv) balance(holder thor.Address) uint64 {
	bal, err := e.reward.BalanceOf(holder)
	require.NoError(e.t, err)
	return bal.Uint64()
}

func (e *testEnv) record() *record.Record {
	info, err := e.campaign.Info()
	require.NoError(e.t, err)
	return info.Record
}

func short(id collection.TokenID) StakeRequest {
	return StakeRequest{TokenID: id, Duration: shortTerm.Duration}
}

func long(id collection.TokenID) StakeRequest {
	return StakeRequest{TokenID: id, Duration: longTerm.Duration}
}
