// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/vechain/stakecampaign/api"
	"github.com/vechain/stakecampaign/api/admin"
	"github.com/vechain/stakecampaign/co"
	"github.com/vechain/stakecampaign/genesis"
	"github.com/vechain/stakecampaign/log"
	"github.com/vechain/stakecampaign/logdb"
	"github.com/vechain/stakecampaign/lvldb"
	"github.com/vechain/stakecampaign/metrics"
	"github.com/vechain/stakecampaign/runtime"
	"github.com/vechain/stakecampaign/state"
)

const (
	ntpServer     = "pool.ntp.org"
	ntpCheckEvery = 10 * time.Minute
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "campaignd")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Campaignd",
		Usage:     "Node hosting NFT staking reward campaigns",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			dataDirFlag,
			genesisFlag,
			devFlag,
			persistFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiLogsLimitFlag,
			apiSlowQueriesThresholdFlag,
			apiLog5xxErrorsFlag,
			enableAPILogsFlag,
			skipLogsFlag,
			verbosityFlag,
			jsonLogsFlag,
			cacheFlag,
			pprofFlag,
			skipNTPFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:  "audit",
				Usage: "check the pool accounting of every campaign in the data dir",
				Flags: []cli.Flag{
					dataDirFlag,
					cacheFlag,
					verbosityFlag,
					jsonLogsFlag,
					auditConcurrencyFlag,
				},
				Action: auditAction,
			},
			{
				Name:   "devnet",
				Usage:  "print the dev genesis as YAML",
				Action: devnetAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	logLevel, err := initLogger(ctx)
	if err != nil {
		return err
	}
	dev := ctx.Bool(devFlag.Name)

	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}

	var (
		mainDB    *lvldb.LevelDB
		logDB     *logdb.LogDB
		cacheSize = 32 * 1024 * 1024
		dataDir   = "Memory"
	)
	if dev && !ctx.Bool(persistFlag.Name) {
		mainDB = openMemMainDB()
		if !ctx.Bool(skipLogsFlag.Name) {
			logDB = openMemLogDB()
		}
	} else {
		if dataDir, err = makeDataDir(ctx); err != nil {
			return err
		}
		if mainDB, cacheSize, err = openMainDB(ctx, dataDir); err != nil {
			return err
		}
		if !ctx.Bool(skipLogsFlag.Name) {
			if logDB, err = openLogDB(dataDir); err != nil {
				mainDB.Close()
				return err
			}
		}
	}
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()
	if logDB != nil {
		defer func() { logger.Info("closing log database..."); logDB.Close() }()
	}

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	var clock runtime.Clock = runtime.SystemClock{}
	if dev {
		clock = runtime.NewManualClock(uint64(time.Now().Unix()))
	}
	host, err := runtime.New(state.NewStater(mainDB, cacheSize), logDB, clock)
	if err != nil {
		return err
	}
	if _, err := gene.Apply(host); err != nil {
		return errors.Wrap(err, "apply genesis")
	}

	enableAPILogs := &atomic.Bool{}
	enableAPILogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	logsLimit := ctx.Uint64(apiLogsLimitFlag.Name)
	apiHandler, apiCloser := api.New(host, api.Options{
		AllowedOrigins:       strings.TrimSpace(ctx.String(apiCorsFlag.Name)),
		Version:              fullVersion(),
		PprofOn:              ctx.Bool(pprofFlag.Name),
		SkipLogs:             logDB == nil,
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		LogsLimit:            logsLimit,
		EnableReqLogger:      enableAPILogs,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		Log5xxErrors:         ctx.Bool(apiLog5xxErrorsFlag.Name),
	})
	defer func() { logger.Info("closing API..."); apiCloser() }()

	apiURL, srvCloser, err := startAPIServer(ctx, apiHandler)
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); srvCloser() }()

	var metricsURL string
	if ctx.Bool(enableMetricsFlag.Name) {
		url, closeFunc, err := startMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return errors.Wrap(err, "start metrics server")
		}
		metricsURL = url
		defer func() { logger.Info("stopping metrics server..."); closeFunc() }()
	}

	var adminURL string
	if ctx.Bool(enableAdminFlag.Name) {
		url, closeFunc, err := admin.StartServer(ctx.String(adminAddrFlag.Name), logLevel, enableAPILogs, host.Health())
		if err != nil {
			return errors.Wrap(err, "start admin server")
		}
		adminURL = url
		defer func() { logger.Info("stopping admin server..."); closeFunc() }()
	}

	var goes co.Goes
	if !dev && !ctx.Bool(skipNTPFlag.Name) {
		goes.Go(func() { checkClockLoop(exitSignal.Done()) })
	}
	defer goes.Wait()

	printStartupMessage(gene, host, dataDir, apiURL, metricsURL, adminURL)

	<-exitSignal.Done()
	return nil
}

// checkClockLoop periodically compares the system clock against NTP until done.
func checkClockLoop(done <-chan struct{}) {
	ticker := time.NewTicker(ntpCheckEvery)
	defer ticker.Stop()
	for {
		runtime.CheckClockOffset(ntpServer)
		select {
		case <-done:
			return
		case <-ticker.C:
		}
	}
}

func devnetAction(_ *cli.Context) error {
	data, err := yaml.Marshal(genesis.NewDevnet(uint64(time.Now().Unix())))
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
