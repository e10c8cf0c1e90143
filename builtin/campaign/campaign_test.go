// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package campaign

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakecampaign/builtin/campaign/record"
	"github.com/vechain/stakecampaign/builtin/collection"
	"github.com/vechain/stakecampaign/builtin/reverts"
	"github.com/vechain/stakecampaign/builtin/token"
	"github.com/vechain/stakecampaign/thor"
)

func TestInitialize(t *testing.T) {
	env := newTestEnv(t)
	assert.ErrorIs(t, env.campaign.Initialize(testParams(), 0), ErrAlreadyInitialized)

	info, err := env.campaign.Info()
	require.NoError(t, err)
	assert.Equal(t, owner, info.Owner)
	assert.Equal(t, uint64(0), info.TotalStaked)
	assert.True(t, info.RewardRate.IsZero())

	// unknown reward token
	other := New(env.campaign.sctx.At(thor.BytesToAddress([]byte("other"))), env.campaign.collab)
	p := testParams()
	p.RewardAsset.Address = thor.BytesToAddress([]byte("unknown"))
	assert.ErrorIs(t, other.Initialize(p, 0), record.ErrInvalidToken)

	p = testParams()
	p.RewardAsset = record.RewardAsset{Kind: record.AssetNative, Denom: "vet"}
	assert.ErrorIs(t, other.Initialize(p, 0), record.ErrInvalidToken)

	_, err = other.Info()
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestEndToEnd(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.fund(1_000_000, 50))
	rec := env.record()
	assert.Equal(t, uint64(10_000), rec.RewardRate.Uint64())
	assert.Equal(t, uint64(1_000_000), env.balance(campaignAddr))

	require.NoError(t, env.stake(alice, startTime+20, short("1")))
	owner1, err := env.nfts.OwnerOf("1")
	require.NoError(t, err)
	assert.Equal(t, campaignAddr, owner1)

	info, err := env.campaign.StakerInfo(alice, startTime+30)
	require.NoError(t, err)
	assert.Equal(t, uint64(30_000), info.RewardDebt.Uint64())
	require.Len(t, info.Stakes, 1)
	assert.True(t, info.Stakes[0].IsSettled)

	require.NoError(t, env.claim(alice, 3_000, startTime+30))
	require.NoError(t, env.claim(alice, 27_000, startTime+30))
	info, err = env.campaign.StakerInfo(alice, startTime+30)
	require.NoError(t, err)
	assert.True(t, info.RewardDebt.IsZero())
	assert.Equal(t, uint64(30_000), info.RewardClaimed.Uint64())
	assert.ErrorIs(t, env.claim(alice, 1, startTime+30), ErrInsufficientBalance)
	assert.Equal(t, uint64(30_000), env.balance(alice))

	require.NoError(t, env.unstake(alice, "1", startTime+31))
	owner1, err = env.nfts.OwnerOf("1")
	require.NoError(t, err)
	assert.Equal(t, alice, owner1)

	_, err = env.withdraw(owner, endTime-1)
	assert.ErrorIs(t, err, ErrInvalidTimeToWithdrawReward)
	_, err = env.withdraw(bob, endTime)
	assert.ErrorIs(t, err, ErrUnauthorized)

	amount, err := env.withdraw(owner, endTime)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000-30_000), amount.Uint64())
	assert.Equal(t, uint64(10_000_000-30_000), env.balance(owner))
	assert.Equal(t, uint64(0), env.balance(campaignAddr))

	rec = env.record()
	assert.Equal(t, uint64(1_000_000), rec.TotalFunded.Uint64())
	assert.Equal(t, uint64(30_000), rec.TotalClaimed.Uint64())
	assert.Equal(t, uint64(970_000), rec.TotalWithdrawn.Uint64())
	assert.True(t, rec.RewardAmount.IsZero())

	// nothing left, a second withdrawal moves nothing
	amount, err = env.withdraw(owner, endTime+10)
	require.NoError(t, err)
	assert.True(t, amount.IsZero())
}

func TestActionsBehindCheckpoint(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.fund(1_000_000, 50))
	require.NoError(t, env.stake(alice, 150, short("1")))
	assert.Equal(t, uint64(150), env.record().Checkpoint)

	// a clock stepping back must not reopen a settled span
	assert.ErrorIs(t, env.stake(bob, 140, short("6")), ErrTimeBeforeCheckpoint)
	assert.ErrorIs(t, env.claim(alice, 1, 149), ErrTimeBeforeCheckpoint)
	assert.ErrorIs(t, env.unstake(alice, "1", 149), ErrTimeBeforeCheckpoint)
	assert.Equal(t, uint64(150), env.record().Checkpoint)

	owner6, err := env.nfts.OwnerOf("6")
	require.NoError(t, err)
	assert.Equal(t, bob, owner6)

	a, err := env.campaign.StakeInfo("1", 155)
	require.NoError(t, err)
	assert.Equal(t, uint64(15_000), a.PendingReward.Uint64())

	// same second as the checkpoint is fine
	require.NoError(t, env.stake(bob, 150, short("6")))
	assert.Equal(t, uint64(150), env.record().Checkpoint)
	a, err = env.campaign.StakeInfo("1", 155)
	require.NoError(t, err)
	assert.Equal(t, uint64(7_500), a.PendingReward.Uint64())
}

func TestSegmentsThroughActions(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.fund(1_000_000, 50))
	require.NoError(t, env.stake(alice, 120, short("1")))
	require.NoError(t, env.stake(bob, 121, short("6")))

	a, err := env.campaign.StakeInfo("1", 127)
	require.NoError(t, err)
	b, err := env.campaign.StakeInfo("6", 127)
	require.NoError(t, err)
	assert.Equal(t, uint64(12_000), a.PendingReward.Uint64())
	assert.Equal(t, uint64(9_000), b.PendingReward.Uint64())

	// queries never persist settlement
	raw, err := env.campaign.RawStake("1")
	require.NoError(t, err)
	assert.Equal(t, uint64(3_000), raw.PendingReward.Uint64())
	raw, err = env.campaign.RawStake("6")
	require.NoError(t, err)
	assert.True(t, raw.PendingReward.IsZero())
	assert.Equal(t, uint64(121), env.record().Checkpoint)

	total, err := env.campaign.TotalPendingReward(127)
	require.NoError(t, err)
	assert.Equal(t, uint64(21_000), total.Uint64())

	list, err := env.campaign.Stakes(0, 127)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, collection.TokenID("1"), list[0].TokenID)
	assert.Equal(t, collection.TokenID("6"), list[1].TokenID)

	list, err = env.campaign.Stakes(1, 127)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	ids, err := env.campaign.TokenIDs()
	require.NoError(t, err)
	assert.Equal(t, []collection.TokenID{"1", "6"}, ids)

	info, err := env.campaign.StakerInfo(alice, 127)
	require.NoError(t, err)
	assert.Equal(t, uint64(12_000), info.RewardDebt.Uint64())

	info, err = env.campaign.StakerInfo(thor.BytesToAddress([]byte("nobody")), 127)
	require.NoError(t, err)
	assert.Empty(t, info.Stakes)
	assert.True(t, info.RewardDebt.IsZero())

	_, err = env.campaign.StakeInfo("2", 127)
	assert.ErrorIs(t, err, ErrEmptyNft("2"))
}

func TestBucketsThroughActions(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.fund(1_000_000, 50))
	require.NoError(t, env.stake(alice, 120, short("1"), long("2")))

	info, err := env.campaign.StakerInfo(alice, 125)
	require.NoError(t, err)
	// 5s of 30% plus 5s of 70% of the rate
	assert.Equal(t, uint64(15_000+35_000), info.RewardDebt.Uint64())

	total, err := env.campaign.TotalPendingReward(endTime + 50)
	require.NoError(t, err)
	// short term locked 120..130, long term 120..150
	assert.Equal(t, uint64(10*3_000+30*7_000), total.Uint64())
}

func TestFund(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		env := newTestEnv(t)
		assert.ErrorIs(t, env.fund(0, 50), ErrInvalidFunds)
		assert.ErrorIs(t, env.call(func() error { return env.campaign.Fund(bob, u(1), 50) }), ErrUnauthorized)
		assert.ErrorIs(t, env.fund(20_000_000, 50), token.ErrInsufficientAllowance)
	})

	t.Run("refund before start", func(t *testing.T) {
		env := newTestEnv(t)
		require.NoError(t, env.fund(1_000_000, 50))
		require.NoError(t, env.fund(1_000_000, 60))
		rec := env.record()
		assert.Equal(t, uint64(20_000), rec.RewardRate.Uint64())
		assert.Equal(t, uint64(2_000_000), rec.TotalFunded.Uint64())
		assert.Equal(t, uint64(2_000_000), env.balance(campaignAddr))
	})

	t.Run("after activation", func(t *testing.T) {
		env := newTestEnv(t)
		require.NoError(t, env.fund(1_000_000, 50))
		assert.ErrorIs(t, env.fund(1, startTime), ErrInvalidTimeToAddReward)
		assert.ErrorIs(t, env.fund(1, startTime+50), ErrInvalidTimeToAddReward)
	})

	t.Run("late first funding", func(t *testing.T) {
		env := newTestEnv(t)
		require.NoError(t, env.fund(500_000, 150))
		assert.Equal(t, uint64(5_000), env.record().RewardRate.Uint64())
	})
}

func TestStakeRejections(t *testing.T) {
	t.Run("unfunded", func(t *testing.T) {
		env := newTestEnv(t)
		assert.ErrorIs(t, env.stake(alice, 120, short("1")), ErrEmptyReward)
		// funded below one unit per second
		require.NoError(t, env.fund(50, 50))
		assert.ErrorIs(t, env.stake(alice, 120, short("1")), ErrEmptyReward)
	})

	env := newTestEnv(t, func(p *record.Params) { p.LimitPerStaker = 2 })
	require.NoError(t, env.fund(1_000_000, 50))

	assert.ErrorIs(t, env.stake(alice, startTime, short("1")), ErrInvalidTimeToStakeNft)
	assert.ErrorIs(t, env.stake(alice, 90, short("1")), ErrInvalidTimeToStakeNft)
	assert.ErrorIs(t, env.stake(alice, endTime, short("1")), ErrInvalidTimeToStakeNft)
	assert.ErrorIs(t, env.stake(alice, 120), ErrNoTokenIDs)
	assert.ErrorIs(t, env.stake(alice, 120, short("1"), short("1")), ErrAlreadyExist)
	assert.ErrorIs(t, env.stake(alice, 120, short("1"), short("2"), short("3")), ErrLimitPerStake)
	assert.ErrorIs(t, env.stake(alice, 120, StakeRequest{TokenID: "1", Duration: 20}), record.ErrInvalidLockupTerm)
	assert.ErrorIs(t, env.stake(bob, 120, short("1")), ErrNotOwner("1"))
	assert.ErrorIs(t, env.stake(alice, 120, short("99")), ErrNotOwner("99"))

	require.NoError(t, env.stake(alice, 120, short("1")))
	assert.ErrorIs(t, env.stake(alice, 121, short("1")), ErrAlreadyExist)
	require.NoError(t, env.stake(alice, 121, long("2")))
	assert.ErrorIs(t, env.stake(alice, 122, short("3")), ErrLimitPerStake)

	// failed calls left nothing behind
	ids, err := env.campaign.TokenIDs()
	require.NoError(t, err)
	assert.Equal(t, []collection.TokenID{"1", "2"}, ids)

	// operator approval withdrawn
	require.NoError(t, env.nfts.SetApprovalForAll(bob, campaignAddr, false))
	assert.ErrorIs(t, env.stake(bob, 122, short("6")), collection.ErrNotApproved)
}

func TestUnstake(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.fund(1_000_000, 50))
	require.NoError(t, env.stake(alice, 120, short("1")))

	assert.ErrorIs(t, env.unstake(alice, "9", 125), ErrEmptyNft("9"))
	assert.ErrorIs(t, env.unstake(alice, "1", 125), ErrInvalidTimeToUnStake)
	assert.ErrorIs(t, env.unstake(bob, "1", 130), ErrNotOwner("1"))

	require.NoError(t, env.unstake(alice, "1", 130))
	info, err := env.campaign.StakerInfo(alice, 130)
	require.NoError(t, err)
	assert.Empty(t, info.Stakes)
	assert.Equal(t, uint64(30_000), info.RewardDebt.Uint64())

	_, err = env.campaign.RawStake("1")
	assert.ErrorIs(t, err, ErrEmptyNft("1"))

	// the token can be staked again
	require.NoError(t, env.stake(alice, 140, short("1")))
}

func TestUnstakeAfterEnd(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.fund(1_000_000, 50))
	require.NoError(t, env.stake(alice, 195, long("1")))

	assert.ErrorIs(t, env.unstake(alice, "1", 199), ErrInvalidTimeToUnStake)
	// the campaign end settles every stake
	require.NoError(t, env.unstake(alice, "1", endTime))
	info, err := env.campaign.StakerInfo(alice, endTime)
	require.NoError(t, err)
	assert.Equal(t, uint64(5*7_000), info.RewardDebt.Uint64())
}

func TestClaimRejections(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.fund(1_000_000, 50))
	assert.ErrorIs(t, env.claim(alice, 0, 120), ErrInvalidClaim)

	require.NoError(t, env.stake(alice, 120, short("1")))
	assert.ErrorIs(t, env.claim(alice, 15_001, 125), ErrInsufficientBalance)

	// claiming sweeps the pending reward of held tokens
	require.NoError(t, env.claim(alice, 0, 125))
	raw, err := env.campaign.RawStake("1")
	require.NoError(t, err)
	assert.True(t, raw.PendingReward.IsZero())
	info, err := env.campaign.StakerInfo(alice, 125)
	require.NoError(t, err)
	assert.Equal(t, uint64(15_000), info.RewardDebt.Uint64())
}

func TestWithdrawKeepsLiabilities(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.fund(1_000_000, 50))
	require.NoError(t, env.stake(alice, 120, short("1")))
	require.NoError(t, env.stake(bob, 121, short("6")))
	require.NoError(t, env.unstake(alice, "1", 140))

	amount, err := env.withdraw(owner, endTime)
	require.NoError(t, err)
	// the short bucket paid 20..31 in full, owed to alice and bob
	assert.Equal(t, uint64(1_000_000-11*3_000), amount.Uint64())

	require.NoError(t, env.claim(alice, 16_500, endTime+1))
	require.NoError(t, env.claim(bob, 16_500, endTime+1))
	require.NoError(t, env.unstake(bob, "6", endTime+1))
	assert.Equal(t, uint64(0), env.balance(campaignAddr))

	rec := env.record()
	assert.True(t, rec.RewardAmount.IsZero())
	assert.Equal(t, uint64(33_000), rec.TotalClaimed.Uint64())
}

func TestUpdate(t *testing.T) {
	env := newTestEnv(t)
	name := "renamed"
	start := uint64(150)
	u1 := &record.Update{Name: &name, StartTime: &start}

	assert.ErrorIs(t, env.call(func() error { return env.campaign.Update(bob, u1, 10) }), ErrUnauthorized)
	require.NoError(t, env.call(func() error { return env.campaign.Update(owner, u1, 10) }))
	rec := env.record()
	assert.Equal(t, "renamed", rec.Name)
	assert.Equal(t, uint64(150), rec.StartTime)

	past := uint64(5)
	err := env.call(func() error { return env.campaign.Update(owner, &record.Update{StartTime: &past}, 10) })
	assert.ErrorIs(t, err, record.ErrInvalidStartTime)
	assert.True(t, reverts.IsRevertErr(err))

	terms := []record.LockupTerm{{Duration: 10, Percent: 60}, {Duration: 20, Percent: 60}}
	err = env.call(func() error { return env.campaign.Update(owner, &record.Update{LockupTerms: terms}, 10) })
	assert.ErrorIs(t, err, record.ErrInvalidLockupTerm)

	require.NoError(t, env.fund(1_000_000, 50))
	err = env.call(func() error { return env.campaign.Update(owner, u1, 60) })
	assert.ErrorIs(t, err, ErrInvalidTimeToUpdate)
}

func TestEvents(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.fund(1_000_000, 50))
	require.NoError(t, env.stake(alice, 120, short("1"), short("2")))

	var names []string
	for _, ev := range env.events.Events() {
		if ev.Address == campaignAddr {
			names = append(names, ev.Name)
		}
	}
	assert.Equal(t, []string{"instantiate", "add_reward_token", "stake_nft"}, names)

	last := env.events.Events()[len(env.events.Events())-1]
	assert.Equal(t, "stake_nft", last.Name)
	nfts, ok := last.Attr("nfts")
	assert.True(t, ok)
	assert.Equal(t, "1,2", nfts)
}

func TestSolvency(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.fund(1_000_000, 50))
	require.NoError(t, env.stake(alice, startTime+20, short("1")))
	require.NoError(t, env.claim(alice, 3_000, startTime+30))

	s, err := env.campaign.Solvency(startTime + 30)
	require.NoError(t, err)
	require.NoError(t, s.Check())
	assert.Equal(t, uint64(1_000_000), s.Funded.Uint64())
	assert.Equal(t, uint64(3_000), s.Claimed.Uint64())
	assert.Equal(t, uint64(997_000), s.Remaining.Uint64())
	assert.Equal(t, uint64(27_000), s.Owed.Uint64())
	assert.Equal(t, uint64(997_000), s.Held.Uint64())

	// a pool drained behind its back
	require.NoError(t, env.reward.Transfer(campaignAddr, bob, u(1)))
	s, err = env.campaign.Solvency(startTime + 30)
	require.NoError(t, err)
	assert.ErrorContains(t, s.Check(), "held")
}
