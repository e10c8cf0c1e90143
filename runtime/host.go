// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime executes calls against the builtin contracts. Mutating calls are serialized and
// applied atomically, queries run on a throwaway view of the committed state.
package runtime

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/vechain/stakecampaign/builtin/campaign"
	"github.com/vechain/stakecampaign/builtin/collection"
	"github.com/vechain/stakecampaign/builtin/factory"
	"github.com/vechain/stakecampaign/builtin/solidity"
	"github.com/vechain/stakecampaign/builtin/token"
	"github.com/vechain/stakecampaign/cache"
	"github.com/vechain/stakecampaign/co"
	"github.com/vechain/stakecampaign/health"
	"github.com/vechain/stakecampaign/log"
	"github.com/vechain/stakecampaign/logdb"
	"github.com/vechain/stakecampaign/state"
	"github.com/vechain/stakecampaign/thor"
)

var logger = log.WithContext("pkg", "runtime")

// FactoryAddress is where the campaign factory lives.
var FactoryAddress = thor.BytesToAddress([]byte("campaign-factory"))

const entryCacheSize = 1024

// Env is what a call sees: the time of the call and the contracts bound to its state.
type Env struct {
	Now     uint64
	sctx    *solidity.Context
	factory *factory.Factory
}

func (e *Env) Factory() *factory.Factory {
	return e.factory
}

// Campaign binds the campaign at addr.
func (e *Env) Campaign(addr thor.Address) (*campaign.Campaign, error) {
	return e.factory.Lookup(addr)
}

func (e *Env) Token(addr thor.Address) *token.Token {
	return token.New(e.sctx.At(addr))
}

func (e *Env) Collection(addr thor.Address) *collection.Collection {
	return collection.New(e.sctx.At(addr))
}

// Receipt describes a committed call.
type Receipt struct {
	CallNumber uint32
	Time       uint64
	Charged    uint64
	Events     []*solidity.Event
}

// Host owns the state and runs calls one at a time.
type Host struct {
	lock      sync.RWMutex
	stater    *state.Stater
	logDB     *logdb.LogDB
	clock     Clock
	entries   *cache.LRU[factory.ID, *factory.Entry]
	callNum   uint32
	callTime  uint64 // time of the last committed call
	committed co.Signal
	health    *health.Health
}

// New creates a host. logDB may be nil, then calls are not journaled.
func New(stater *state.Stater, logDB *logdb.LogDB, clock Clock) (*Host, error) {
	entries, err := cache.NewLRU[factory.ID, *factory.Entry](entryCacheSize)
	if err != nil {
		return nil, err
	}
	h := &Host{
		stater:  stater,
		logDB:   logDB,
		clock:   clock,
		entries: entries,
		health:  health.New(),
	}
	if logDB != nil {
		if h.callNum, err = logDB.NewestCallNumber(); err != nil {
			return nil, err
		}
	}
	return h, nil
}

func (h *Host) Clock() Clock {
	return h.clock
}

func (h *Host) Health() *health.Health {
	return h.health
}

func (h *Host) LogDB() *logdb.LogDB {
	return h.logDB
}

// CallNumber returns the number of the last committed call.
func (h *Host) CallNumber() uint32 {
	h.lock.RLock()
	defer h.lock.RUnlock()
	return h.callNum
}

// NewCommitWaiter returns a waiter woken after each committed call.
func (h *Host) NewCommitWaiter() co.Waiter {
	return h.committed.NewWaiter()
}

// now reads the clock, held at the last committed call time when the clock stepped back.
func (h *Host) now() uint64 {
	now := h.clock.Now()
	if now < h.callTime {
		logger.Warn("clock stepped back", "now", now, "last", h.callTime)
		return h.callTime
	}
	return now
}

func (h *Host) newEnv(st *state.State, charger *solidity.Charger, events *solidity.EventLog) *Env {
	sctx := solidity.NewContext(FactoryAddress, st, charger).WithEvents(events)
	return &Env{
		Now:     h.now(),
		sctx:    sctx,
		factory: factory.New(sctx, campaign.NewResolver(sctx), h.entries),
	}
}

// Execute runs a mutating call of caller. Either every write of fn is committed, or none is.
func (h *Host) Execute(caller thor.Address, action string, target thor.Address, fn func(env *Env) error) (receipt *Receipt, err error) {
	h.lock.Lock()
	defer h.lock.Unlock()

	defer func() { observeCall(action, err) }()

	var (
		st      = h.stater.NewState()
		charger = solidity.NewCharger()
		events  = &solidity.EventLog{}
		env     = h.newEnv(st, charger, events)
	)
	if err := fn(env); err != nil {
		// lookups may have cached entries of the discarded state
		h.entries.Purge()
		logger.Debug("call reverted", "action", action, "caller", caller, "err", err)
		return nil, err
	}

	stage := st.Stage()
	if err := stage.Commit(); err != nil {
		h.entries.Purge()
		return nil, errors.Wrap(err, "commit state")
	}
	h.callNum++
	h.callTime = env.Now
	receipt = &Receipt{
		CallNumber: h.callNum,
		Time:       env.Now,
		Charged:    charger.Total(),
		Events:     events.Events(),
	}
	metricCallCharge().Observe(int64(receipt.Charged))

	var journalErr error
	if h.logDB != nil {
		call := &logdb.Call{
			Number: receipt.CallNumber,
			Time:   receipt.Time,
			Caller: caller,
			Action: action,
			Target: target,
		}
		if journalErr = h.logDB.Write(call, receipt.Events); journalErr != nil {
			// the state is already committed, the journal is best effort
			logger.Warn("failed to write logs", "call", receipt.CallNumber, "err", journalErr)
		}
	}
	h.health.NewCall(receipt.CallNumber, journalErr)
	logger.Debug("call committed",
		"call", receipt.CallNumber,
		"action", action,
		"caller", caller,
		"slots", stage.Len(),
		"charged", charger.Breakdown(),
	)
	h.committed.Broadcast()
	return receipt, nil
}

// Query runs fn on a view of the committed state. Its writes are dropped.
func (h *Host) Query(fn func(env *Env) error) error {
	h.lock.RLock()
	defer h.lock.RUnlock()

	return fn(h.newEnv(h.stater.NewState(), nil, nil))
}
