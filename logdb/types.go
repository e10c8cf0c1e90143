// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"github.com/vechain/stakecampaign/builtin/solidity"
	"github.com/vechain/stakecampaign/thor"
)

// Call is a committed mutating call.
type Call struct {
	Number uint32
	Time   uint64
	Caller thor.Address
	Action string
	Target thor.Address // the contract called
}

// Event is a solidity.Event as stored, located by the call that emitted it.
type Event struct {
	CallNumber uint32
	Index      uint32
	Time       uint64
	Address    thor.Address
	Name       string
	Attrs      []solidity.Attr
}

// Attr returns the value of the attribute named key.
func (e *Event) Attr(key string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

type RangeType string

const (
	CallNumber RangeType = "call"
	Time       RangeType = "time"
)

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

type Range struct {
	Unit RangeType
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

type EventCriteria struct {
	Address *thor.Address
	Name    *string
}

// EventFilter selects events matching any of the criteria.
type EventFilter struct {
	CriteriaSet []*EventCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}
