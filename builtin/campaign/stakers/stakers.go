// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakers

import (
	"slices"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakecampaign/builtin/campaign/arith"
	"github.com/vechain/stakecampaign/builtin/collection"
	"github.com/vechain/stakecampaign/builtin/linkedlist"
	"github.com/vechain/stakecampaign/builtin/solidity"
	"github.com/vechain/stakecampaign/thor"
)

var (
	slotAccounts     = thor.BytesToBytes32([]byte("stakers-info"))
	slotStakersHead  = thor.BytesToBytes32([]byte("stakers-head"))
	slotStakersTail  = thor.BytesToBytes32([]byte("stakers-tail"))
	slotStakersCount = thor.BytesToBytes32([]byte("stakers-count"))
)

// Account is the reward position of one staker.
type Account struct {
	TokenIDs      []collection.TokenID
	RewardDebt    *uint256.Int // realized, claimable
	RewardClaimed *uint256.Int
}

func NewAccount() *Account {
	return &Account{
		RewardDebt:    new(uint256.Int),
		RewardClaimed: new(uint256.Int),
	}
}

func (a *Account) Holds(id collection.TokenID) bool {
	return slices.Contains(a.TokenIDs, id)
}

// Release drops id from the held tokens.
func (a *Account) Release(id collection.TokenID) {
	a.TokenIDs = slices.DeleteFunc(a.TokenIDs, func(held collection.TokenID) bool { return held == id })
}

// Ledger keeps accounts by owner. Accounts are never removed.
type Ledger struct {
	accounts *solidity.Mapping[thor.Address, *Account]
	owners   *linkedlist.LinkedList[thor.Address]
}

func NewLedger(sctx *solidity.Context) *Ledger {
	return &Ledger{
		accounts: solidity.NewMapping[thor.Address, *Account](sctx, slotAccounts),
		owners:   linkedlist.New[thor.Address](sctx, slotStakersHead, slotStakersTail, slotStakersCount),
	}
}

// Get returns nil if owner never staked.
func (l *Ledger) Get(owner thor.Address) (*Account, error) {
	a, err := l.accounts.Get(owner)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get staker")
	}
	return a, nil
}

// Set writes the account, registering owner on first write.
func (l *Ledger) Set(owner thor.Address, a *Account) error {
	existing, err := l.Get(owner)
	if err != nil {
		return err
	}
	if existing == nil {
		if err := l.owners.Add(owner); err != nil {
			return errors.Wrap(err, "failed to index staker")
		}
		if err := l.accounts.Insert(owner, a); err != nil {
			return errors.Wrap(err, "failed to set staker")
		}
		return nil
	}
	if err := l.accounts.Update(owner, a); err != nil {
		return errors.Wrap(err, "failed to set staker")
	}
	return nil
}

func (l *Ledger) Count() (uint64, error) {
	return l.owners.Len()
}

// Iterate visits accounts in registration order.
func (l *Ledger) Iterate(callback func(thor.Address, *Account) (bool, error)) error {
	return l.owners.Iter(func(owner thor.Address) (bool, error) {
		a, err := l.Get(owner)
		if err != nil {
			return false, err
		}
		if a == nil {
			return false, errors.Errorf("indexed staker %s is missing", owner)
		}
		return callback(owner, a)
	})
}

// TotalDebt sums the realized reward of every account.
func (l *Ledger) TotalDebt() (*uint256.Int, error) {
	total := new(uint256.Int)
	err := l.Iterate(func(_ thor.Address, a *Account) (bool, error) {
		var err error
		total, err = arith.Add(total, a.RewardDebt)
		return err == nil, err
	})
	if err != nil {
		return nil, err
	}
	return total, nil
}
