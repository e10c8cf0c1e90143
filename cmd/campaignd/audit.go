// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakecampaign/runtime"
	"github.com/vechain/stakecampaign/state"
	"github.com/vechain/stakecampaign/thor"
)

type auditFailure struct {
	campaign thor.Address
	err      error
}

func auditAction(ctx *cli.Context) error {
	if _, err := initLogger(ctx); err != nil {
		return err
	}
	dataDir, err := makeDataDir(ctx)
	if err != nil {
		return err
	}
	mainDB, cacheSize, err := openMainDB(ctx, dataDir)
	if err != nil {
		return err
	}
	defer mainDB.Close()

	concurrency, err := readIntFromUInt64Flag(ctx.Uint64(auditConcurrencyFlag.Name))
	if err != nil || concurrency == 0 {
		return errors.New("invalid concurrency")
	}

	host, err := runtime.New(state.NewStater(mainDB, cacheSize), nil, runtime.SystemClock{})
	if err != nil {
		return err
	}
	failures, total, err := audit(host, concurrency, true)
	if err != nil {
		return err
	}
	for _, f := range failures {
		fmt.Printf("%v: %v\n", f.campaign, f.err)
	}
	if len(failures) > 0 {
		return errors.Errorf("%d of %d campaigns failed the audit", len(failures), total)
	}
	fmt.Printf("%d campaigns audited, all solvent\n", total)
	return nil
}

// audit checks the solvency of every campaign created by the factory. Failed checks are
// collected, errors reading the state abort the audit.
func audit(host *runtime.Host, concurrency int, progress bool) ([]auditFailure, int, error) {
	var addrs []thor.Address
	if err := host.Query(func(env *runtime.Env) (err error) {
		addrs, err = env.Factory().Addresses()
		return
	}); err != nil {
		return nil, 0, err
	}

	var bar *pb.ProgressBar
	if progress {
		bar = pb.New64(int64(len(addrs))).
			Set64(0).
			SetMaxWidth(90).
			Start()
		defer bar.Finish()
	}

	var (
		mu       sync.Mutex
		failures []auditFailure
		now      = host.Clock().Now()
		eg       errgroup.Group
	)
	eg.SetLimit(concurrency)
	for _, addr := range addrs {
		eg.Go(func() error {
			if bar != nil {
				defer bar.Add64(1)
			}
			return host.Query(func(env *runtime.Env) error {
				c, err := env.Factory().Lookup(addr)
				if err != nil {
					return errors.Wrapf(err, "lookup %v", addr)
				}
				s, err := c.Solvency(now)
				if err != nil {
					return errors.Wrapf(err, "solvency of %v", addr)
				}
				if err := s.Check(); err != nil {
					mu.Lock()
					failures = append(failures, auditFailure{addr, err})
					mu.Unlock()
				}
				return nil
			})
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, 0, err
	}
	return failures, len(addrs), nil
}
