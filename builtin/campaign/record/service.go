// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package record

import (
	"github.com/pkg/errors"

	"github.com/vechain/stakecampaign/builtin/solidity"
	"github.com/vechain/stakecampaign/thor"
)

var slotRecord = thor.BytesToBytes32([]byte("campaign-info"))

// Service persists the campaign record.
type Service struct {
	record *solidity.Raw[*Record]
}

func NewService(sctx *solidity.Context) *Service {
	return &Service{
		record: solidity.NewRaw[*Record](sctx, slotRecord),
	}
}

// Get returns nil if the campaign was never initialized.
func (s *Service) Get() (*Record, error) {
	r, err := s.record.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get campaign")
	}
	return r, nil
}

func (s *Service) Set(r *Record) error {
	if err := s.record.Upsert(r); err != nil {
		return errors.Wrap(err, "failed to set campaign")
	}
	return nil
}
