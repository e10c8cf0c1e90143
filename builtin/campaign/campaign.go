// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package campaign is the builtin contract of an NFT staking reward campaign.
//
// Every mutating action settles the accrued reward up to the current time before applying its own
// effect. Queries run the same settlement in memory and never write it back.
package campaign

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakecampaign/builtin/campaign/accrual"
	"github.com/vechain/stakecampaign/builtin/campaign/arith"
	"github.com/vechain/stakecampaign/builtin/campaign/record"
	"github.com/vechain/stakecampaign/builtin/campaign/stakers"
	"github.com/vechain/stakecampaign/builtin/campaign/stakes"
	"github.com/vechain/stakecampaign/builtin/collection"
	"github.com/vechain/stakecampaign/builtin/solidity"
	"github.com/vechain/stakecampaign/log"
	"github.com/vechain/stakecampaign/thor"
)

var logger = log.WithContext("pkg", "campaign")

// Ledger is the fungible asset ledger holding the reward.
type Ledger interface {
	BalanceOf(holder thor.Address) (*uint256.Int, error)
	Transfer(from, to thor.Address, amount *uint256.Int) error
	TransferFrom(spender, owner, to thor.Address, amount *uint256.Int) error
}

// Registry is the collectible registry holding the staked tokens.
type Registry interface {
	OwnerOf(id collection.TokenID) (thor.Address, error)
	Transfer(spender thor.Address, id collection.TokenID, to thor.Address) error
}

// Collaborators resolves the ledgers and registries a campaign refers to.
// It fails for addresses unknown to the node.
type Collaborators interface {
	Ledger(addr thor.Address) (Ledger, error)
	Registry(addr thor.Address) (Registry, error)
}

type Campaign struct {
	sctx    *solidity.Context
	collab  Collaborators
	record  *record.Service
	stakes  *stakes.Registry
	stakers *stakers.Ledger
}

func New(sctx *solidity.Context, collab Collaborators) *Campaign {
	return &Campaign{
		sctx:    sctx,
		collab:  collab,
		record:  record.NewService(sctx),
		stakes:  stakes.NewRegistry(sctx),
		stakers: stakers.NewLedger(sctx),
	}
}

func (c *Campaign) Address() thor.Address {
	return c.sctx.Address()
}

// Initialize creates the campaign record. It is called once, when the campaign is provisioned.
func (c *Campaign) Initialize(p *record.Params, now uint64) error {
	existing, err := c.record.Get()
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrAlreadyInitialized
	}
	if err := p.Validate(now); err != nil {
		return err
	}
	if _, err := c.collab.Ledger(p.RewardAsset.Address); err != nil {
		return record.ErrInvalidToken
	}
	if _, err := c.collab.Registry(p.AllowedCollection); err != nil {
		return errors.Wrap(err, "unknown collection")
	}
	if err := c.record.Set(record.New(p)); err != nil {
		return err
	}
	c.sctx.Emit("instantiate",
		solidity.NewAttr("owner", p.Owner),
		solidity.NewAttr("campaign_name", p.Name),
		solidity.NewAttr("reward_token_info", p.RewardAsset),
		solidity.NewAttr("allowed_collection", p.AllowedCollection),
		solidity.NewAttr("start_time", p.StartTime),
		solidity.NewAttr("end_time", p.EndTime),
	)
	return nil
}

func (c *Campaign) load() (*record.Record, error) {
	rec, err := c.record.Get()
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotInitialized
	}
	return rec, nil
}

// loadAt loads the record for an action at now. Actions never run behind the settlement checkpoint.
func (c *Campaign) loadAt(now uint64) (*record.Record, error) {
	rec, err := c.load()
	if err != nil {
		return nil, err
	}
	if now < rec.Checkpoint {
		return nil, ErrTimeBeforeCheckpoint
	}
	return rec, nil
}

func (c *Campaign) ledger(rec *record.Record) (Ledger, error) {
	l, err := c.collab.Ledger(rec.RewardAsset.Address)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve reward ledger")
	}
	return l, nil
}

func (c *Campaign) registry(rec *record.Record) (Registry, error) {
	r, err := c.collab.Registry(rec.AllowedCollection)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve collection")
	}
	return r, nil
}

// settlement is the registry settled in memory at some time.
type settlement struct {
	checkpoint uint64
	all        []*stakes.Stake // staking order
	byID       map[collection.TokenID]*stakes.Stake
	updated    []*stakes.Stake
}

func (s *settlement) totalPending() (*uint256.Int, error) {
	total := new(uint256.Int)
	for _, st := range s.all {
		var err error
		if total, err = arith.Add(total, st.PendingReward); err != nil {
			return nil, err
		}
	}
	return total, nil
}

// settle computes the settlement of all stakes at now without writing it.
func (c *Campaign) settle(rec *record.Record, now uint64) (*settlement, error) {
	all, err := c.stakes.All()
	if err != nil {
		return nil, err
	}
	res, err := accrual.Settle(accrual.ParamsOf(rec), all, now)
	if err != nil {
		return nil, err
	}
	metricSettleStakes().Observe(int64(len(res.Updated)))
	logger.Trace("settled", "campaign", c.Address(), "checkpoint", res.Checkpoint, "stakes", len(res.Updated))

	s := &settlement{
		checkpoint: res.Checkpoint,
		all:        all,
		byID:       make(map[collection.TokenID]*stakes.Stake, len(all)),
		updated:    res.Updated,
	}
	for _, st := range all {
		s.byID[st.TokenID] = st
	}
	return s, nil
}

// settleAndPersist settles at now, writes the updated stakes and advances the checkpoint of rec.
// The record itself is written by the caller.
func (c *Campaign) settleAndPersist(rec *record.Record, now uint64) (*settlement, error) {
	s, err := c.settle(rec, now)
	if err != nil {
		return nil, err
	}
	for _, st := range s.updated {
		if err := c.stakes.Update(st); err != nil {
			return nil, err
		}
	}
	rec.Checkpoint = s.checkpoint
	return s, nil
}
