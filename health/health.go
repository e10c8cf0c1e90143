// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"sync"
	"time"
)

type CallIngestion struct {
	Number    uint32     `json:"number"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

type Status struct {
	Healthy        bool           `json:"healthy"`
	CallIngestion  *CallIngestion `json:"callIngestion"`
	JournalSynced  bool           `json:"journalSynced"`
	JournalFailure string         `json:"journalFailure,omitempty"`
}

// Health follows the calls committed by the host. The node turns unhealthy once a committed
// call is missing from the event journal, until restarted.
type Health struct {
	lock         sync.RWMutex
	lastCall     uint32
	lastCallTime time.Time
	journalErr   error
}

func New() *Health {
	return &Health{}
}

// NewCall records the commit of call num. journalErr is the failure to journal it, if any.
func (h *Health) NewCall(num uint32, journalErr error) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.lastCall = num
	h.lastCallTime = time.Now()
	if journalErr != nil && h.journalErr == nil {
		h.journalErr = journalErr
	}
}

func (h *Health) Status() *Status {
	h.lock.RLock()
	defer h.lock.RUnlock()

	ingestion := &CallIngestion{Number: h.lastCall}
	if !h.lastCallTime.IsZero() {
		ts := h.lastCallTime
		ingestion.Timestamp = &ts
	}
	status := &Status{
		Healthy:       h.journalErr == nil,
		CallIngestion: ingestion,
		JournalSynced: h.journalErr == nil,
	}
	if h.journalErr != nil {
		status.JournalFailure = h.journalErr.Error()
	}
	return status
}
