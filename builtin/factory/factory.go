// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package factory provisions campaigns and keeps an index of them.
package factory

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/vechain/stakecampaign/builtin/campaign"
	"github.com/vechain/stakecampaign/builtin/campaign/record"
	"github.com/vechain/stakecampaign/builtin/linkedlist"
	"github.com/vechain/stakecampaign/builtin/reverts"
	"github.com/vechain/stakecampaign/builtin/solidity"
	"github.com/vechain/stakecampaign/cache"
	"github.com/vechain/stakecampaign/log"
	"github.com/vechain/stakecampaign/thor"
)

var logger = log.WithContext("pkg", "factory")

var (
	slotConfig        = thor.BytesToBytes32([]byte("factory-config"))
	slotSequence      = thor.BytesToBytes32([]byte("campaign-count"))
	slotEntries       = thor.BytesToBytes32([]byte("campaigns"))
	slotAddressesHead = thor.BytesToBytes32([]byte("campaign-addresses-head"))
	slotAddressesTail = thor.BytesToBytes32([]byte("campaign-addresses-tail"))
	slotAddressesLen  = thor.BytesToBytes32([]byte("campaign-addresses-count"))
)

const (
	DefaultQueryLimit = 30
	MaxQueryLimit     = 100
)

var (
	ErrNotInitialized     = reverts.NewKind(reverts.KindNotFound, "factory not initialized")
	ErrAlreadyInitialized = reverts.New("factory already initialized")
	ErrUnauthorized       = reverts.NewKind(reverts.KindAuthorization, "unauthorized")
	ErrCampaignNotFound   = reverts.NewKind(reverts.KindNotFound, "campaign not found")
)

// ID is the sequential id of a created campaign, starting from 1.
type ID uint64

func (id ID) Bytes() []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(id))
}

type Config struct {
	Owner thor.Address
}

// Entry is the index entry of a created campaign.
type Entry struct {
	ID                ID
	Owner             thor.Address
	CampaignAddress   thor.Address
	RewardAsset       record.RewardAsset
	AllowedCollection thor.Address
}

// Factory is the builtin contract creating campaigns.
type Factory struct {
	sctx      *solidity.Context
	collab    campaign.Collaborators
	config    *solidity.Raw[*Config]
	sequence  *solidity.Raw[uint64]
	entries   *solidity.Mapping[ID, *Entry]
	addresses *linkedlist.LinkedList[thor.Address]
	cache     *cache.LRU[ID, *Entry]
}

// New binds the factory to sctx. Entries are immutable once written, lookups go through entryCache
// which may be nil.
func New(sctx *solidity.Context, collab campaign.Collaborators, entryCache *cache.LRU[ID, *Entry]) *Factory {
	return &Factory{
		sctx:      sctx,
		collab:    collab,
		config:    solidity.NewRaw[*Config](sctx, slotConfig),
		sequence:  solidity.NewRaw[uint64](sctx, slotSequence),
		entries:   solidity.NewMapping[ID, *Entry](sctx, slotEntries),
		addresses: linkedlist.New[thor.Address](sctx, slotAddressesHead, slotAddressesTail, slotAddressesLen),
		cache:     entryCache,
	}
}

func (f *Factory) Address() thor.Address {
	return f.sctx.Address()
}

// Initialize sets the factory owner.
func (f *Factory) Initialize(owner thor.Address) error {
	cfg, err := f.config.Get()
	if err != nil {
		return errors.Wrap(err, "failed to get factory config")
	}
	if cfg != nil {
		return ErrAlreadyInitialized
	}
	if owner.IsZero() {
		return reverts.New("invalid address")
	}
	return f.setConfig(&Config{Owner: owner})
}

func (f *Factory) Config() (*Config, error) {
	cfg, err := f.config.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get factory config")
	}
	if cfg == nil {
		return nil, ErrNotInitialized
	}
	return cfg, nil
}

func (f *Factory) setConfig(cfg *Config) error {
	if err := f.config.Upsert(cfg); err != nil {
		return errors.Wrap(err, "failed to set factory config")
	}
	return nil
}

// UpdateConfig hands the factory over to newOwner.
func (f *Factory) UpdateConfig(caller, newOwner thor.Address) error {
	cfg, err := f.Config()
	if err != nil {
		return err
	}
	if caller != cfg.Owner {
		return ErrUnauthorized
	}
	if newOwner.IsZero() {
		return reverts.New("invalid address")
	}
	if err := f.setConfig(&Config{Owner: newOwner}); err != nil {
		return err
	}
	f.sctx.Emit("update_config", solidity.NewAttr("owner", newOwner))
	return nil
}

// CreateCampaign provisions a campaign owned by caller and indexes it.
func (f *Factory) CreateCampaign(caller thor.Address, p *record.Params, now uint64) (*Entry, error) {
	if _, err := f.Config(); err != nil {
		return nil, err
	}

	params := *p
	params.Owner = caller

	seq, err := f.sequence.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get campaign count")
	}
	seq++

	addr := thor.CreateBuiltinAddress("campaign", f.Address(), seq)
	c := campaign.New(f.sctx.At(addr), f.collab)
	if err := c.Initialize(&params, now); err != nil {
		return nil, err
	}

	entry := &Entry{
		ID:                ID(seq),
		Owner:             caller,
		CampaignAddress:   addr,
		RewardAsset:       params.RewardAsset,
		AllowedCollection: params.AllowedCollection,
	}
	if err := f.entries.Insert(entry.ID, entry); err != nil {
		return nil, errors.Wrap(err, "failed to index campaign")
	}
	if err := f.addresses.Add(addr); err != nil {
		return nil, errors.Wrap(err, "failed to index campaign address")
	}
	if err := f.sequence.Upsert(seq); err != nil {
		return nil, errors.Wrap(err, "failed to set campaign count")
	}

	logger.Info("campaign created", "id", seq, "address", addr, "owner", caller)
	f.sctx.Emit("create_campaign",
		solidity.NewAttr("id", seq),
		solidity.NewAttr("campaign_address", addr),
		solidity.NewAttr("owner", caller),
		solidity.NewAttr("reward_token_info", params.RewardAsset),
		solidity.NewAttr("allowed_collection", params.AllowedCollection),
	)
	return entry, nil
}

// Count returns the number of created campaigns.
func (f *Factory) Count() (uint64, error) {
	seq, err := f.sequence.Get()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get campaign count")
	}
	return seq, nil
}

func (f *Factory) load(id ID) (*Entry, error) {
	entry, err := f.entries.Get(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get campaign entry")
	}
	if entry == nil {
		return nil, ErrCampaignNotFound
	}
	return entry, nil
}

// Campaign returns the entry of id.
func (f *Factory) Campaign(id ID) (*Entry, error) {
	if f.cache == nil {
		return f.load(id)
	}
	return f.cache.GetOrLoad(id, f.load)
}

// Campaigns lists entries with ids after startAfter, in creation order.
func (f *Factory) Campaigns(startAfter ID, limit uint64) ([]*Entry, error) {
	if limit == 0 {
		limit = DefaultQueryLimit
	}
	limit = min(limit, MaxQueryLimit)

	count, err := f.Count()
	if err != nil {
		return nil, err
	}
	if uint64(startAfter) >= count {
		return []*Entry{}, nil
	}
	list := make([]*Entry, 0, min(limit, count))
	for id := uint64(startAfter) + 1; id <= count && uint64(len(list)) < limit; id++ {
		entry, err := f.Campaign(ID(id))
		if err != nil {
			return nil, err
		}
		list = append(list, entry)
	}
	return list, nil
}

// Addresses returns the addresses of all created campaigns.
func (f *Factory) Addresses() ([]thor.Address, error) {
	addrs := []thor.Address{}
	err := f.addresses.Iter(func(addr thor.Address) (bool, error) {
		addrs = append(addrs, addr)
		return true, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list campaign addresses")
	}
	return addrs, nil
}

// Lookup binds the campaign at addr, failing if none was initialized there.
func (f *Factory) Lookup(addr thor.Address) (*campaign.Campaign, error) {
	c := campaign.New(f.sctx.At(addr), f.collab)
	if _, err := c.Info(); err != nil {
		return nil, err
	}
	return c, nil
}
