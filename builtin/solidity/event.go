// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"fmt"

	"github.com/vechain/stakecampaign/thor"
)

// Attr is an event attribute.
type Attr struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func NewAttr(key string, value any) Attr {
	switch v := value.(type) {
	case string:
		return Attr{Key: key, Value: v}
	case interface{ String() string }:
		return Attr{Key: key, Value: v.String()}
	default:
		return Attr{Key: key, Value: fmt.Sprint(v)}
	}
}

// Event is emitted by a builtin contract during a call.
type Event struct {
	Address thor.Address `json:"address"`
	Name    string       `json:"name"`
	Attrs   []Attr       `json:"attributes"`
}

// Attr returns the value of the named attribute.
func (e *Event) Attr(key string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// EventLog collects the events of a single call. A nil EventLog discards events.
type EventLog struct {
	events []*Event
}

func (l *EventLog) add(ev *Event) {
	if l == nil {
		return
	}
	l.events = append(l.events, ev)
}

func (l *EventLog) Events() []*Event {
	if l == nil {
		return nil
	}
	return l.events
}
