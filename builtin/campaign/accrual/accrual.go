// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package accrual distributes the reward earned since the last checkpoint over the active stakes.
//
// Stakes of the same lockup term share the term's percentage of the reward rate equally. Within a
// settlement pass the stakes of a term are walked in order of their lock end: each lock ending inside
// the interval closes a segment, earns its share of every segment it was present in and leaves the
// remaining population, which then shares the rate with one peer less. Stakes still locked at the
// end of the interval earn all closed segments plus their share of the open one.
package accrual

import (
	"cmp"
	"slices"

	"github.com/holiman/uint256"

	"github.com/vechain/stakecampaign/builtin/campaign/arith"
	"github.com/vechain/stakecampaign/builtin/campaign/record"
	"github.com/vechain/stakecampaign/builtin/campaign/stakes"
)

// Params is the campaign state the settlement depends on.
type Params struct {
	Checkpoint uint64
	EndTime    uint64
	Rate       *uint256.Int
	Terms      []record.LockupTerm
}

func ParamsOf(r *record.Record) Params {
	return Params{
		Checkpoint: r.Checkpoint,
		EndTime:    r.EndTime,
		Rate:       r.RewardRate,
		Terms:      r.LockupTerms,
	}
}

// Result of a settlement pass.
type Result struct {
	Checkpoint uint64          // never lower than the previous one
	Updated    []*stakes.Stake // stakes changed in place
}

// Settle credits every active stake up to min(now, end time). Stakes are updated in place and
// returned in Result.Updated. On error the stakes may be partially updated and must be discarded.
func Settle(p Params, all []*stakes.Stake, now uint64) (*Result, error) {
	capped := min(now, p.EndTime)
	res := &Result{Checkpoint: max(p.Checkpoint, capped)}

	// nothing was ever staked
	if p.Checkpoint == 0 {
		return res, nil
	}

	for _, term := range p.Terms {
		var bucket []*stakes.Stake
		for _, s := range all {
			if !s.IsSettled && s.LockupTerm.Duration == term.Duration {
				bucket = append(bucket, s)
			}
		}
		if len(bucket) == 0 {
			continue
		}
		slices.SortFunc(bucket, func(a, b *stakes.Stake) int {
			if c := cmp.Compare(a.EndTime, b.EndTime); c != 0 {
				return c
			}
			return cmp.Compare(a.TokenID, b.TokenID)
		})

		if err := settleBucket(p, term, bucket, now, capped); err != nil {
			return nil, err
		}
		res.Updated = append(res.Updated, bucket...)
	}
	return res, nil
}

func settleBucket(p Params, term record.LockupTerm, bucket []*stakes.Stake, now, capped uint64) error {
	var (
		t   = p.Checkpoint
		n   = uint64(len(bucket))
		acc = new(uint256.Int) // earned by a token present in all closed segments
	)
	for _, s := range bucket {
		var credit *uint256.Int
		if s.EndTime <= capped {
			share, err := arith.IntervalReward(t, s.EndTime, p.Rate, term.Percent, n)
			if err != nil {
				return err
			}
			if acc, err = arith.Add(acc, share); err != nil {
				return err
			}
			credit = acc
			s.IsSettled = true
			t = s.EndTime
			n--
		} else {
			share, err := arith.IntervalReward(t, capped, p.Rate, term.Percent, n)
			if err != nil {
				return err
			}
			if credit, err = arith.Add(acc, share); err != nil {
				return err
			}
		}
		pending, err := arith.Add(s.PendingReward, credit)
		if err != nil {
			return err
		}
		s.PendingReward = pending

		if now >= p.EndTime {
			s.IsSettled = true
		}
	}
	return nil
}
