// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"context"
	"fmt"
	"math"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakecampaign/api/utils"
	"github.com/vechain/stakecampaign/logdb"
)

type Events struct {
	db    *logdb.LogDB
	limit uint64
}

func New(db *logdb.LogDB, logsLimit uint64) *Events {
	return &Events{
		db,
		logsLimit,
	}
}

// Filter query events with option
func (e *Events) filter(ctx context.Context, ef *EventFilter) ([]*FilteredEvent, error) {
	events, err := e.db.FilterEvents(ctx, convertEventFilter(ef))
	if err != nil {
		return nil, err
	}
	fes := make([]*FilteredEvent, len(events))
	for i, e := range events {
		fes[i] = ConvertEvent(e)
	}
	return fes, nil
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	if e.db == nil {
		return utils.Forbidden(errors.New("event log is disabled"))
	}
	var filter EventFilter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if filter.Options != nil && filter.Options.Limit > e.limit {
		return utils.Forbidden(fmt.Errorf("options.limit exceeds the maximum allowed value of %d", e.limit))
	}
	if filter.Options != nil && filter.Options.Offset > math.MaxInt64 {
		return utils.BadRequest(fmt.Errorf("options.offset exceeds the maximum allowed value of %d", int64(math.MaxInt64)))
	}
	if filter.Range != nil {
		if filter.Range.From != nil && filter.Range.To != nil && *filter.Range.From > *filter.Range.To {
			return utils.BadRequest(errors.New("range.to must be greater than or equal to range.from"))
		}
		if filter.Range.To != nil && *filter.Range.To > math.MaxInt64 {
			return utils.BadRequest(fmt.Errorf("range.to exceeds the maximum allowed value of %d", int64(math.MaxInt64)))
		}
		switch filter.Range.Unit {
		case "", logdb.CallNumber, logdb.Time:
		default:
			return utils.BadRequest(fmt.Errorf("range.unit: unsupported %q", filter.Range.Unit))
		}
	}
	switch filter.Order {
	case "", logdb.ASC, logdb.DESC:
	default:
		return utils.BadRequest(fmt.Errorf("order: unsupported %q", filter.Order))
	}
	// reject null element in CriteriaSet, {} matches every event
	for i, criterion := range filter.CriteriaSet {
		if criterion == nil {
			return utils.BadRequest(fmt.Errorf("criteriaSet[%d]: null not allowed", i))
		}
	}
	if filter.Options == nil {
		// one more than the limit, to detect whether there are more logs than allowed
		filter.Options = &Options{
			Offset: 0,
			Limit:  e.limit + 1,
		}
	}

	fes, err := e.filter(req.Context(), &filter)
	if err != nil {
		return err
	}
	if len(fes) > int(e.limit) {
		return utils.Forbidden(fmt.Errorf("the number of filtered logs exceeds the maximum allowed value of %d, please use pagination", e.limit))
	}
	return utils.WriteJSON(w, fes)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /logs/event").
		HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
}
