// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/vechain/stakecampaign/state"
	"github.com/vechain/stakecampaign/thor"
)

// Context binds storage abstractions to the account of a builtin contract.
type Context struct {
	address thor.Address
	state   *state.State
	charger *Charger
	events  *EventLog
}

func NewContext(address thor.Address, state *state.State, charger *Charger) *Context {
	return &Context{
		address: address,
		state:   state,
		charger: charger,
	}
}

// WithEvents returns a copy of the context that records emitted events into log.
func (c *Context) WithEvents(log *EventLog) *Context {
	cpy := *c
	cpy.events = log
	return &cpy
}

// At returns a context for another contract sharing state, charger and event log.
func (c *Context) At(address thor.Address) *Context {
	cpy := *c
	cpy.address = address
	return &cpy
}

func (c *Context) Address() thor.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}

func (c *Context) Charger() *Charger {
	return c.charger
}

// Emit records an event of the bound contract. Events are dropped when no log is attached.
func (c *Context) Emit(name string, attrs ...Attr) {
	c.events.add(&Event{Address: c.address, Name: name, Attrs: attrs})
}
