// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"

	"github.com/vechain/stakecampaign/api/events"
	"github.com/vechain/stakecampaign/logdb"
	"github.com/vechain/stakecampaign/runtime"
)

// calls scanned by a single read
const readBatch = 100

type eventReader struct {
	host     *runtime.Host
	criteria *logdb.EventCriteria
	position uint32 // the last call read
}

func newEventReader(host *runtime.Host, position uint32, criteria *logdb.EventCriteria) *eventReader {
	return &eventReader{
		host:     host,
		criteria: criteria,
		position: position,
	}
}

// Read returns the matched events of the calls following the position.
// The bool result reports whether more calls are pending.
func (er *eventReader) Read(ctx context.Context) ([]any, bool, error) {
	newest := er.host.CallNumber()
	if er.position >= newest {
		return nil, false, nil
	}
	to := min(uint64(er.position)+readBatch, uint64(newest))
	filter := &logdb.EventFilter{
		CriteriaSet: []*logdb.EventCriteria{er.criteria},
		Range: &logdb.Range{
			Unit: logdb.CallNumber,
			From: uint64(er.position) + 1,
			To:   to,
		},
	}
	evs, err := er.host.LogDB().FilterEvents(ctx, filter)
	if err != nil {
		return nil, false, err
	}
	msgs := make([]any, 0, len(evs))
	for _, ev := range evs {
		msgs = append(msgs, events.ConvertEvent(ev))
	}
	er.position = uint32(to)
	return msgs, er.position < newest, nil
}
