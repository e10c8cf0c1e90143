// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"net"
	"net/http"
	"os"
	"path/filepath"
	goruntime "runtime"
	"runtime/debug"
	"time"

	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common/fdlimit"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakecampaign/co"
	"github.com/vechain/stakecampaign/genesis"
	"github.com/vechain/stakecampaign/log"
	"github.com/vechain/stakecampaign/logdb"
	"github.com/vechain/stakecampaign/lvldb"
	"github.com/vechain/stakecampaign/runtime"
)

const minCacheMB = 128

func fatal(args ...any) {
	var w io.Writer
	if goruntime.GOOS == "windows" {
		// The SameFile check below doesn't work on Windows.
		// stdout is unlikely to get redirected though, so just print there.
		w = os.Stdout
	} else {
		outf, _ := os.Stdout.Stat()
		errf, _ := os.Stderr.Stat()
		if outf != nil && errf != nil && os.SameFile(outf, errf) {
			w = os.Stderr
		} else {
			w = io.MultiWriter(os.Stdout, os.Stderr)
		}
	}
	fmt.Fprint(w, "Fatal: ")
	fmt.Fprintln(w, args...)
	os.Exit(1)
}

// initLogger installs the root handler and returns the level it filters on, which the
// admin server may change at runtime.
func initLogger(ctx *cli.Context) (*slog.LevelVar, error) {
	verbosity, err := readIntFromUInt64Flag(ctx.Uint64(verbosityFlag.Name))
	if err != nil {
		return nil, errors.Wrap(err, "parse verbosity flag")
	}
	logLevel := new(slog.LevelVar)
	logLevel.Set(log.FromVerbosity(verbosity))

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(os.Stdout, logLevel)
	} else {
		useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
		handler = log.NewTerminalHandlerWithLevel(os.Stderr, logLevel, useColor)
	}
	log.SetDefault(handler)
	return logLevel, nil
}

// selectGenesis returns the dev genesis launched now in dev mode, or the genesis file.
func selectGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	path := ctx.String(genesisFlag.Name)
	if path != "" {
		return genesis.Load(path)
	}
	if ctx.Bool(devFlag.Name) {
		return genesis.NewDevnet(uint64(time.Now().Unix())), nil
	}
	return nil, errors.Errorf("--%s required unless --%s is set", genesisFlag.Name, devFlag.Name)
}

func makeDataDir(ctx *cli.Context) (string, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return "", errors.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return "", errors.Wrapf(err, "create data dir [%v]", dataDir)
	}
	return dataDir, nil
}

// openMainDB opens the state database and returns the state cache size in bytes.
func openMainDB(ctx *cli.Context, dataDir string) (*lvldb.LevelDB, int, error) {
	cache, err := readIntFromUInt64Flag(ctx.Uint64(cacheFlag.Name))
	if err != nil {
		return nil, 0, errors.Wrap(err, "parse cache flag")
	}
	cacheMB := normalizeCacheSize(cache)
	logger.Debug("cache size(MB)", "size", cacheMB)

	// go-ethereum stuff
	// Ensure Go's GC ignores the database cache for trigger percentage
	gogc := math.Max(20, math.Min(100, 100/(float64(cacheMB)/1024)))

	logger.Debug("sanitize Go's GC trigger", "percent", int(gogc))
	debug.SetGCPercent(int(gogc))

	fdCache := suggestFDCache()
	logger.Debug("fd cache", "n", fdCache)

	dir := filepath.Join(dataDir, "main.db")
	db, err := lvldb.New(dir, lvldb.Options{
		CacheSize:              cacheMB / 2,
		OpenFilesCacheCapacity: fdCache,
	})
	if err != nil {
		return nil, 0, errors.Wrapf(err, "open main database [%v]", dir)
	}
	return db, cacheMB / 2 * 1024 * 1024, nil
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < minCacheMB {
		sizeMB = minCacheMB
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem:", "err", err)
	} else {
		// limit to 1/2 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			logger.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func suggestFDCache() int {
	limit, err := fdlimit.Current()
	if err != nil {
		logger.Warn("failed to get fd limit", "err", err)
		return 500
	}
	if limit <= 1024 {
		logger.Warn("low fd limit, increase it if possible", "limit", limit)
	}

	n := limit / 2
	if n > 5120 {
		return 5120
	}
	return n
}

func openLogDB(dataDir string) (*logdb.LogDB, error) {
	dir := filepath.Join(dataDir, "logs.db")
	db, err := logdb.New(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "open log database [%v]", dir)
	}
	return db, nil
}

func openMemMainDB() *lvldb.LevelDB {
	db, err := lvldb.NewMem()
	if err != nil {
		fatal(fmt.Sprintf("open main database: %v", err))
	}
	return db
}

func openMemLogDB() *logdb.LogDB {
	db, err := logdb.NewMem()
	if err != nil {
		fatal(fmt.Sprintf("open log database: %v", err))
	}
	return db
}

func startAPIServer(ctx *cli.Context, handler http.Handler) (string, func(), error) {
	addr := ctx.String(apiAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen API addr [%v]", addr)
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/", func() {
		srv.Close()
		goes.Wait()
	}, nil
}

func printStartupMessage(
	gene *genesis.Genesis,
	host *runtime.Host,
	dataDir string,
	apiURL string,
	metricsURL string,
	adminURL string,
) {
	_, manual := host.Clock().(*runtime.ManualClock)
	fmt.Printf(`Starting %v
    Factory      [ %v owned by %v ]
    Call number  [ %v ]
    Clock        [ %v manual=%v ]
    Data dir     [ %v ]
    API portal   [ %v ]
    Metrics      [ %v ]
    Admin        [ %v ]
`,
		fmt.Sprintf("Campaignd/%v", fullVersion()),
		runtime.FactoryAddress, gene.Factory.Owner,
		host.CallNumber(),
		time.Unix(int64(host.Clock().Now()), 0), manual,
		dataDir,
		apiURL,
		orDisabled(metricsURL),
		orDisabled(adminURL),
	)
}

func orDisabled(url string) string {
	if url == "" {
		return "Disabled"
	}
	return url
}
