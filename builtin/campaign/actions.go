// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package campaign

import (
	"strings"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakecampaign/builtin/campaign/arith"
	"github.com/vechain/stakecampaign/builtin/campaign/record"
	"github.com/vechain/stakecampaign/builtin/campaign/stakers"
	"github.com/vechain/stakecampaign/builtin/campaign/stakes"
	"github.com/vechain/stakecampaign/builtin/collection"
	"github.com/vechain/stakecampaign/builtin/solidity"
	"github.com/vechain/stakecampaign/thor"
)

// MaxStakePerCall bounds the tokens staked by a single call.
const MaxStakePerCall = 100

// StakeRequest stakes one token for the lockup term with the given duration.
type StakeRequest struct {
	TokenID  collection.TokenID
	Duration uint64
}

// Fund adds amount of the reward asset, pulled from the owner through its allowance to the campaign.
func (c *Campaign) Fund(caller thor.Address, amount *uint256.Int, now uint64) (err error) {
	defer func() { observeAction("fund", err) }()

	rec, err := c.loadAt(now)
	if err != nil {
		return err
	}
	if caller != rec.Owner {
		return ErrUnauthorized
	}
	if amount.IsZero() {
		return ErrInvalidFunds
	}
	if !rec.CanFund(now) {
		return ErrInvalidTimeToAddReward
	}

	ledger, err := c.ledger(rec)
	if err != nil {
		return err
	}
	if err := ledger.TransferFrom(c.Address(), caller, c.Address(), amount); err != nil {
		return err
	}

	if rec.RewardAmount, err = arith.Add(rec.RewardAmount, amount); err != nil {
		return err
	}
	if rec.TotalFunded, err = arith.Add(rec.TotalFunded, amount); err != nil {
		return err
	}
	if rec.RewardRate, err = arith.RewardRate(rec.RewardAmount, rec.StartTime, rec.EndTime); err != nil {
		return err
	}
	if err := c.record.Set(rec); err != nil {
		return err
	}

	logger.Debug("reward added", "campaign", c.Address(), "amount", amount, "rate", rec.RewardRate)
	c.sctx.Emit("add_reward_token",
		solidity.NewAttr("owner", caller),
		solidity.NewAttr("reward_token_info", rec.RewardAsset),
		solidity.NewAttr("reward_token_amount", amount),
	)
	return nil
}

// Stake takes custody of the tokens of caller. The campaign must be an approved operator of caller
// on the allowed collection.
func (c *Campaign) Stake(caller thor.Address, reqs []StakeRequest, now uint64) (err error) {
	defer func() { observeAction("stake", err) }()

	rec, err := c.loadAt(now)
	if err != nil {
		return err
	}
	if !rec.IsFunded() {
		return ErrEmptyReward
	}
	if rec.StartTime >= now || rec.EndTime <= now {
		return ErrInvalidTimeToStakeNft
	}

	account, err := c.stakers.Get(caller)
	if err != nil {
		return err
	}
	if account == nil {
		account = stakers.NewAccount()
	}
	if rec.LimitPerStaker > 0 && uint64(len(reqs)+len(account.TokenIDs)) > rec.LimitPerStaker {
		return ErrLimitPerStake
	}
	if len(reqs) == 0 {
		return ErrNoTokenIDs
	}
	if len(reqs) > MaxStakePerCall {
		return ErrTooManyTokenIDs
	}

	seen := make(map[collection.TokenID]struct{}, len(reqs))
	for _, req := range reqs {
		if _, dup := seen[req.TokenID]; dup {
			return ErrAlreadyExist
		}
		seen[req.TokenID] = struct{}{}
		existing, err := c.stakes.Get(req.TokenID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrAlreadyExist
		}
	}

	// first stake has nothing to settle
	if rec.Checkpoint != 0 {
		if _, err := c.settleAndPersist(rec, now); err != nil {
			return err
		}
	}

	registry, err := c.registry(rec)
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(reqs))
	for _, req := range reqs {
		term, ok := rec.Term(req.Duration)
		if !ok {
			return record.ErrInvalidLockupTerm
		}
		owner, err := registry.OwnerOf(req.TokenID)
		if err != nil || owner != caller {
			return ErrNotOwner(req.TokenID)
		}
		if err := c.stakes.Add(stakes.New(req.TokenID, caller, term, now)); err != nil {
			return err
		}
		account.TokenIDs = append(account.TokenIDs, req.TokenID)
		if err := registry.Transfer(c.Address(), req.TokenID, c.Address()); err != nil {
			return err
		}
		ids = append(ids, string(req.TokenID))
	}
	if err := c.stakers.Set(caller, account); err != nil {
		return err
	}

	rec.Checkpoint = max(rec.Checkpoint, now)
	if err := c.record.Set(rec); err != nil {
		return err
	}

	logger.Debug("staked", "campaign", c.Address(), "owner", caller, "tokens", len(reqs))
	c.sctx.Emit("stake_nft",
		solidity.NewAttr("owner", caller),
		solidity.NewAttr("allowed_collection", rec.AllowedCollection),
		solidity.NewAttr("nfts", strings.Join(ids, ",")),
	)
	return nil
}

// Unstake returns a settled token to its owner and realizes its pending reward.
func (c *Campaign) Unstake(caller thor.Address, id collection.TokenID, now uint64) (err error) {
	defer func() { observeAction("unstake", err) }()

	rec, err := c.loadAt(now)
	if err != nil {
		return err
	}
	existing, err := c.stakes.Get(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrEmptyNft(id)
	}

	s, err := c.settleAndPersist(rec, now)
	if err != nil {
		return err
	}
	stake := s.byID[id]
	if stake.Owner != caller {
		return ErrNotOwner(id)
	}
	if !stake.IsSettled {
		return ErrInvalidTimeToUnStake
	}

	account, err := c.stakers.Get(caller)
	if err != nil {
		return err
	}
	if account == nil {
		return errors.Errorf("staker %s of token %s is missing", caller, id)
	}
	if account.RewardDebt, err = arith.Add(account.RewardDebt, stake.PendingReward); err != nil {
		return err
	}
	account.Release(id)
	if err := c.stakers.Set(caller, account); err != nil {
		return err
	}
	if err := c.stakes.Remove(id); err != nil {
		return err
	}

	registry, err := c.registry(rec)
	if err != nil {
		return err
	}
	if err := registry.Transfer(c.Address(), id, caller); err != nil {
		return err
	}
	if err := c.record.Set(rec); err != nil {
		return err
	}

	logger.Debug("unstaked", "campaign", c.Address(), "owner", caller, "token", id, "reward", stake.PendingReward)
	c.sctx.Emit("unstake_nft",
		solidity.NewAttr("owner", caller),
		solidity.NewAttr("allowed_collection", rec.AllowedCollection),
		solidity.NewAttr("token_id", id),
	)
	return nil
}

// Claim pays amount of the realized reward of caller, after realizing the pending reward of every
// token caller still has staked.
func (c *Campaign) Claim(caller thor.Address, amount *uint256.Int, now uint64) (err error) {
	defer func() { observeAction("claim", err) }()

	rec, err := c.loadAt(now)
	if err != nil {
		return err
	}
	account, err := c.stakers.Get(caller)
	if err != nil {
		return err
	}
	if account == nil {
		return ErrInvalidClaim
	}

	s, err := c.settleAndPersist(rec, now)
	if err != nil {
		return err
	}
	for _, id := range account.TokenIDs {
		stake, ok := s.byID[id]
		if !ok {
			return errors.Errorf("held token %s is not staked", id)
		}
		if stake.PendingReward.IsZero() {
			continue
		}
		if account.RewardDebt, err = arith.Add(account.RewardDebt, stake.PendingReward); err != nil {
			return err
		}
		stake.PendingReward = new(uint256.Int)
		if err := c.stakes.Update(stake); err != nil {
			return err
		}
	}

	if amount.Gt(account.RewardDebt) {
		return ErrInsufficientBalance
	}
	ledger, err := c.ledger(rec)
	if err != nil {
		return err
	}
	balance, err := ledger.BalanceOf(c.Address())
	if err != nil || balance.Lt(amount) {
		return ErrInsufficientBalance
	}
	if err := ledger.Transfer(c.Address(), caller, amount); err != nil {
		return err
	}

	if account.RewardClaimed, err = arith.Add(account.RewardClaimed, amount); err != nil {
		return err
	}
	if account.RewardDebt, err = arith.Sub(account.RewardDebt, amount); err != nil {
		return err
	}
	if err := c.stakers.Set(caller, account); err != nil {
		return err
	}
	if rec.RewardAmount, err = arith.Sub(rec.RewardAmount, amount); err != nil {
		return err
	}
	if rec.TotalClaimed, err = arith.Add(rec.TotalClaimed, amount); err != nil {
		return err
	}
	if err := c.record.Set(rec); err != nil {
		return err
	}

	logger.Debug("reward claimed", "campaign", c.Address(), "owner", caller, "amount", amount)
	c.sctx.Emit("claim_reward",
		solidity.NewAttr("owner", caller),
		solidity.NewAttr("reward_token_info", rec.RewardAsset),
		solidity.NewAttr("reward_claim_amount", amount),
	)
	return nil
}

// WithdrawRemainder returns to the owner the funded reward nobody is entitled to, once the
// campaign has ended. It returns the amount transferred.
func (c *Campaign) WithdrawRemainder(caller thor.Address, now uint64) (_ *uint256.Int, err error) {
	defer func() { observeAction("withdraw", err) }()

	rec, err := c.loadAt(now)
	if err != nil {
		return nil, err
	}
	if caller != rec.Owner {
		return nil, ErrUnauthorized
	}
	if rec.EndTime > now {
		return nil, ErrInvalidTimeToWithdrawReward
	}

	s, err := c.settleAndPersist(rec, now)
	if err != nil {
		return nil, err
	}
	pending, err := s.totalPending()
	if err != nil {
		return nil, err
	}
	debt, err := c.stakers.TotalDebt()
	if err != nil {
		return nil, err
	}
	outstanding, err := arith.Add(pending, debt)
	if err != nil {
		return nil, err
	}
	remainder, err := arith.Sub(rec.RewardAmount, outstanding)
	if err != nil {
		return nil, err
	}

	ledger, err := c.ledger(rec)
	if err != nil {
		return nil, err
	}
	balance, err := ledger.BalanceOf(c.Address())
	if err != nil || balance.Lt(remainder) {
		return nil, ErrInsufficientBalance
	}
	if !remainder.IsZero() {
		if err := ledger.Transfer(c.Address(), caller, remainder); err != nil {
			return nil, err
		}
	}

	if rec.RewardAmount, err = arith.Sub(rec.RewardAmount, remainder); err != nil {
		return nil, err
	}
	if rec.TotalWithdrawn, err = arith.Add(rec.TotalWithdrawn, remainder); err != nil {
		return nil, err
	}
	if err := c.record.Set(rec); err != nil {
		return nil, err
	}

	logger.Info("remainder withdrawn", "campaign", c.Address(), "amount", remainder, "outstanding", outstanding)
	c.sctx.Emit("withdraw_reward",
		solidity.NewAttr("owner", caller),
		solidity.NewAttr("reward_token_info", rec.RewardAsset),
		solidity.NewAttr("withdraw_reward_amount", remainder),
	)
	return remainder, nil
}

// Update changes the parameters of a campaign that was never funded.
func (c *Campaign) Update(caller thor.Address, u *record.Update, now uint64) (err error) {
	defer func() { observeAction("update", err) }()

	rec, err := c.loadAt(now)
	if err != nil {
		return err
	}
	if caller != rec.Owner {
		return ErrUnauthorized
	}
	if !rec.TotalFunded.IsZero() {
		return ErrInvalidTimeToUpdate
	}

	p := u.Apply(rec)
	if err := p.Validate(now); err != nil {
		return err
	}
	rec.Name = p.Name
	rec.Image = p.Image
	rec.Description = p.Description
	rec.LimitPerStaker = p.LimitPerStaker
	rec.LockupTerms = append([]record.LockupTerm(nil), p.LockupTerms...)
	rec.StartTime = p.StartTime
	rec.EndTime = p.EndTime
	if err := c.record.Set(rec); err != nil {
		return err
	}

	c.sctx.Emit("update_campaign",
		solidity.NewAttr("owner", caller),
		solidity.NewAttr("campaign_name", rec.Name),
		solidity.NewAttr("limit_per_staker", rec.LimitPerStaker),
		solidity.NewAttr("start_time", rec.StartTime),
		solidity.NewAttr("end_time", rec.EndTime),
	)
	return nil
}
