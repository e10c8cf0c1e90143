// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis provisions the initial state: the factory owner and the reward tokens and
// collections campaigns can refer to.
package genesis

import (
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/stakecampaign/builtin/collection"
	"github.com/vechain/stakecampaign/builtin/factory"
	"github.com/vechain/stakecampaign/builtin/token"
	"github.com/vechain/stakecampaign/log"
	"github.com/vechain/stakecampaign/runtime"
	"github.com/vechain/stakecampaign/thor"
)

var logger = log.WithContext("pkg", "genesis")

type Genesis struct {
	LaunchTime  uint64       `yaml:"launchTime"`
	Factory     Factory      `yaml:"factory"`
	Tokens      []Token      `yaml:"tokens"`
	Collections []Collection `yaml:"collections"`
}

type Factory struct {
	Owner thor.Address `yaml:"owner"`
}

type Token struct {
	Address  thor.Address `yaml:"address"`
	Name     string       `yaml:"name"`
	Symbol   string       `yaml:"symbol"`
	Decimals uint8        `yaml:"decimals"`
	Minter   thor.Address `yaml:"minter"`
	Balances []Balance    `yaml:"balances"`
}

type Balance struct {
	Address thor.Address          `yaml:"address"`
	Amount  *math.HexOrDecimal256 `yaml:"amount"`
}

type Collection struct {
	Address thor.Address `yaml:"address"`
	Name    string       `yaml:"name"`
	Symbol  string       `yaml:"symbol"`
	Minter  thor.Address `yaml:"minter"`
	Items   []Item       `yaml:"items"`
}

type Item struct {
	ID    string       `yaml:"id"`
	Owner thor.Address `yaml:"owner"`
}

// Load reads a YAML genesis file.
func Load(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis")
	}
	return Parse(data)
}

func Parse(data []byte) (*Genesis, error) {
	var gen Genesis
	if err := yaml.Unmarshal(data, &gen); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	if err := gen.Validate(); err != nil {
		return nil, err
	}
	return &gen, nil
}

func (g *Genesis) Validate() error {
	if g.Factory.Owner.IsZero() {
		return errors.New("factory owner must be set")
	}
	seen := map[thor.Address]bool{runtime.FactoryAddress: true}
	claim := func(addr thor.Address) error {
		if addr.IsZero() {
			return errors.New("contract address must be set")
		}
		if seen[addr] {
			return errors.Errorf("%s: address used twice", addr)
		}
		seen[addr] = true
		return nil
	}
	for _, t := range g.Tokens {
		if err := claim(t.Address); err != nil {
			return err
		}
		for _, b := range t.Balances {
			if b.Amount == nil {
				return errors.Errorf("%s: balance of %s must be set", t.Address, b.Address)
			}
			amount := (*big.Int)(b.Amount)
			if _, overflow := uint256.FromBig(amount); overflow || amount.Sign() < 1 {
				return errors.Errorf("%s: balance of %s must be a positive 256 bit integer", t.Address, b.Address)
			}
		}
	}
	for _, c := range g.Collections {
		if err := claim(c.Address); err != nil {
			return err
		}
	}
	return nil
}

// Apply provisions g through host, unless the state already holds a factory.
func (g *Genesis) Apply(host *runtime.Host) (bool, error) {
	initialized := false
	if err := host.Query(func(env *runtime.Env) error {
		_, err := env.Factory().Config()
		if err == nil {
			initialized = true
			return nil
		}
		if errors.Is(err, factory.ErrNotInitialized) {
			return nil
		}
		return err
	}); err != nil {
		return false, err
	}
	if initialized {
		return false, nil
	}

	_, err := host.Execute(thor.Address{}, "genesis", runtime.FactoryAddress, func(env *runtime.Env) error {
		if err := env.Factory().Initialize(g.Factory.Owner); err != nil {
			return errors.Wrap(err, "factory")
		}
		for _, t := range g.Tokens {
			ledger := env.Token(t.Address)
			meta := &token.Meta{Name: t.Name, Symbol: t.Symbol, Decimals: t.Decimals, Minter: t.Minter}
			if err := ledger.Register(meta); err != nil {
				return errors.Wrapf(err, "token %s", t.Address)
			}
			for _, b := range t.Balances {
				amount, _ := uint256.FromBig((*big.Int)(b.Amount))
				if err := ledger.Mint(t.Minter, b.Address, amount); err != nil {
					return errors.Wrapf(err, "token %s", t.Address)
				}
			}
		}
		for _, c := range g.Collections {
			registry := env.Collection(c.Address)
			if err := registry.Register(&collection.Meta{Name: c.Name, Symbol: c.Symbol, Minter: c.Minter}); err != nil {
				return errors.Wrapf(err, "collection %s", c.Address)
			}
			for _, item := range c.Items {
				if err := registry.Mint(c.Minter, collection.TokenID(item.ID), item.Owner); err != nil {
					return errors.Wrapf(err, "collection %s", c.Address)
				}
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	logger.Info("genesis applied", "tokens", len(g.Tokens), "collections", len(g.Collections))
	return true, nil
}
