// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package campaign

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakecampaign/builtin/campaign/arith"
	"github.com/vechain/stakecampaign/builtin/campaign/record"
	"github.com/vechain/stakecampaign/builtin/campaign/stakes"
	"github.com/vechain/stakecampaign/builtin/collection"
	"github.com/vechain/stakecampaign/thor"
)

const (
	DefaultQueryLimit = 30
	MaxQueryLimit     = 100
)

// Info is the campaign record with the number of staked tokens.
type Info struct {
	*record.Record
	TotalStaked uint64
}

// StakerInfo is the live position of a staker. RewardDebt includes the pending reward of the
// tokens still staked.
type StakerInfo struct {
	Stakes        []*stakes.Stake
	RewardDebt    *uint256.Int
	RewardClaimed *uint256.Int
}

func (c *Campaign) Info() (*Info, error) {
	rec, err := c.load()
	if err != nil {
		return nil, err
	}
	n, err := c.stakes.Count()
	if err != nil {
		return nil, err
	}
	return &Info{Record: rec, TotalStaked: n}, nil
}

// StakeInfo returns the stake of id as settled at now.
func (c *Campaign) StakeInfo(id collection.TokenID, now uint64) (*stakes.Stake, error) {
	rec, err := c.load()
	if err != nil {
		return nil, err
	}
	s, err := c.settle(rec, now)
	if err != nil {
		return nil, err
	}
	stake, ok := s.byID[id]
	if !ok {
		return nil, ErrEmptyNft(id)
	}
	return stake, nil
}

// RawStake returns the stake of id as persisted.
func (c *Campaign) RawStake(id collection.TokenID) (*stakes.Stake, error) {
	stake, err := c.stakes.Get(id)
	if err != nil {
		return nil, err
	}
	if stake == nil {
		return nil, ErrEmptyNft(id)
	}
	return stake, nil
}

func (c *Campaign) StakerInfo(owner thor.Address, now uint64) (*StakerInfo, error) {
	rec, err := c.load()
	if err != nil {
		return nil, err
	}
	account, err := c.stakers.Get(owner)
	if err != nil {
		return nil, err
	}
	info := &StakerInfo{
		Stakes:        []*stakes.Stake{},
		RewardDebt:    new(uint256.Int),
		RewardClaimed: new(uint256.Int),
	}
	if account == nil {
		return info, nil
	}
	info.RewardDebt = account.RewardDebt
	info.RewardClaimed = account.RewardClaimed

	s, err := c.settle(rec, now)
	if err != nil {
		return nil, err
	}
	for _, id := range account.TokenIDs {
		stake, ok := s.byID[id]
		if !ok {
			continue
		}
		info.Stakes = append(info.Stakes, stake)
		if info.RewardDebt, err = arith.Add(info.RewardDebt, stake.PendingReward); err != nil {
			return nil, err
		}
	}
	return info, nil
}

// Stakes lists up to limit stakes, settled at now, in staking order.
func (c *Campaign) Stakes(limit uint64, now uint64) ([]*stakes.Stake, error) {
	if limit == 0 {
		limit = DefaultQueryLimit
	}
	limit = min(limit, MaxQueryLimit)

	rec, err := c.load()
	if err != nil {
		return nil, err
	}
	s, err := c.settle(rec, now)
	if err != nil {
		return nil, err
	}
	if uint64(len(s.all)) > limit {
		return s.all[:limit], nil
	}
	return s.all, nil
}

// TotalPendingReward sums the pending reward of all stakes settled at now.
func (c *Campaign) TotalPendingReward(now uint64) (*uint256.Int, error) {
	rec, err := c.load()
	if err != nil {
		return nil, err
	}
	s, err := c.settle(rec, now)
	if err != nil {
		return nil, err
	}
	return s.totalPending()
}

func (c *Campaign) TokenIDs() ([]collection.TokenID, error) {
	if _, err := c.load(); err != nil {
		return nil, err
	}
	ids, err := c.stakes.TokenIDs()
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []collection.TokenID{}
	}
	return ids, nil
}

// Solvency is the pool accounting of a campaign at some time.
type Solvency struct {
	Funded    *uint256.Int
	Claimed   *uint256.Int
	Withdrawn *uint256.Int
	Remaining *uint256.Int // reward amount still in the pool
	Owed      *uint256.Int // realized debt plus pending reward
	Held      *uint256.Int // balance of the campaign in the reward ledger
}

// Check fails when the pool can not pay what it owes or the totals do not add up.
func (s *Solvency) Check() error {
	paid, err := arith.Add(s.Claimed, s.Withdrawn)
	if err != nil {
		return err
	}
	sum, err := arith.Add(paid, s.Remaining)
	if err != nil {
		return err
	}
	if !sum.Eq(s.Funded) {
		return errors.Errorf("funded %v != claimed %v + withdrawn %v + remaining %v", s.Funded, s.Claimed, s.Withdrawn, s.Remaining)
	}
	if s.Owed.Gt(s.Remaining) {
		return errors.Errorf("owed %v exceeds remaining %v", s.Owed, s.Remaining)
	}
	if s.Held.Lt(s.Remaining) {
		return errors.Errorf("held %v below remaining %v", s.Held, s.Remaining)
	}
	return nil
}

// Solvency reports the accounting of the campaign settled at now.
func (c *Campaign) Solvency(now uint64) (*Solvency, error) {
	rec, err := c.load()
	if err != nil {
		return nil, err
	}
	s, err := c.settle(rec, now)
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
	owed, err := arith.Add(pending, debt)
	if err != nil {
		return nil, err
	}
	ledger, err := c.ledger(rec)
	if err != nil {
		return nil, err
	}
	held, err := ledger.BalanceOf(c.Address())
	if err != nil {
		return nil, err
	}
	return &Solvency{
		Funded:    rec.TotalFunded,
		Claimed:   rec.TotalClaimed,
		Withdrawn: rec.TotalWithdrawn,
		Remaining: rec.RewardAmount,
		Owed:      owed,
		Held:      held,
	}, nil
}
