// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"math"

	"github.com/vechain/stakecampaign/builtin/solidity"
	"github.com/vechain/stakecampaign/logdb"
	"github.com/vechain/stakecampaign/thor"
)

type LogMeta struct {
	CallNumber uint32 `json:"callNumber"`
	Index      uint32 `json:"index"`
	Time       uint64 `json:"time"`
}

type FilteredEvent struct {
	Address thor.Address    `json:"address"`
	Name    string          `json:"name"`
	Attrs   []solidity.Attr `json:"attributes"`
	Meta    LogMeta         `json:"meta"`
}

// ConvertEvent converts a stored event into the response form.
func ConvertEvent(event *logdb.Event) *FilteredEvent {
	attrs := event.Attrs
	if attrs == nil {
		attrs = []solidity.Attr{}
	}
	return &FilteredEvent{
		Address: event.Address,
		Name:    event.Name,
		Attrs:   attrs,
		Meta: LogMeta{
			CallNumber: event.CallNumber,
			Index:      event.Index,
			Time:       event.Time,
		},
	}
}

type Range struct {
	Unit logdb.RangeType `json:"unit"`
	From *uint64         `json:"from,omitempty"`
	To   *uint64         `json:"to,omitempty"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

type EventCriteria struct {
	Address *thor.Address `json:"address"`
	Name    *string       `json:"name"`
}

type EventFilter struct {
	CriteriaSet []*EventCriteria `json:"criteriaSet"`
	Range       *Range           `json:"range"`
	Options     *Options         `json:"options"`
	Order       logdb.Order      `json:"order"`
}

// ConvertRange fills the open ends of r. A missing upper bound means up to the newest.
func ConvertRange(r *Range) *logdb.Range {
	if r == nil {
		return nil
	}
	unit := r.Unit
	if unit != logdb.Time {
		unit = logdb.CallNumber
	}
	// sqlite integers are signed
	rng := &logdb.Range{Unit: unit, To: math.MaxInt64}
	if r.From != nil {
		rng.From = *r.From
	}
	if r.To != nil {
		rng.To = *r.To
	}
	return rng
}

func convertEventFilter(filter *EventFilter) *logdb.EventFilter {
	f := &logdb.EventFilter{
		Range: ConvertRange(filter.Range),
		Order: filter.Order,
	}
	if filter.Options != nil {
		f.Options = &logdb.Options{
			Offset: filter.Options.Offset,
			Limit:  filter.Options.Limit,
		}
	}
	for _, c := range filter.CriteriaSet {
		f.CriteriaSet = append(f.CriteriaSet, &logdb.EventCriteria{
			Address: c.Address,
			Name:    c.Name,
		})
	}
	return f
}
