// Copyright (c) 2025 The VideoCoin developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// vccstake runs the delegated staking ledger with its HTTP API.
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/videocoin-2/videocoin-contracts/api"
	"github.com/videocoin-2/videocoin-contracts/contracts/params"
	"github.com/videocoin-2/videocoin-contracts/contracts/staking"
	"github.com/videocoin-2/videocoin-contracts/contracts/token"
	"github.com/videocoin-2/videocoin-contracts/eventdb"
	"github.com/videocoin-2/videocoin-contracts/log"
	"github.com/videocoin-2/videocoin-contracts/lvldb"
	"github.com/videocoin-2/videocoin-contracts/metrics"
	"github.com/videocoin-2/videocoin-contracts/state"
	"github.com/videocoin-2/videocoin-contracts/vcc"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
)

// well known ledger accounts
var (
	paramsAddress  = vcc.BytesToAddress([]byte("vcc-params"))
	tokenAddress   = vcc.BytesToAddress([]byte("vcc-token"))
	stakingAddress = vcc.BytesToAddress([]byte("vcc-staking"))
)

const flushInterval = 10 * time.Second

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
		Name:      "vccstake",
		Usage:     "VideoCoin delegated staking ledger",
		Copyright: "2025 VideoCoin",
		Flags: []cli.Flag{
			dataDirFlag,
			memFlag,
			apiAddrFlag,
			apiCorsFlag,
			verbosityFlag,
			ownerFlag,
			enableAdminFlag,
			enableMetricsFlag,
			pprofFlag,
			eventsLimitFlag,
			minDelegationFlag,
			minSelfStakeFlag,
			approvalPeriodFlag,
			unbondingPeriodFlag,
			slashRateFlag,
			slashPoolFlag,
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	logLevel := initLogger(ctx)

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	ownerStr := ctx.String(ownerFlag.Name)
	if ownerStr == "" {
		return errors.Errorf("-%s: required", ownerFlag.Name)
	}
	owner, err := vcc.ParseAddress(ownerStr)
	if err != nil {
		return errors.WithMessage(err, "-"+ownerFlag.Name)
	}

	var (
		db     *lvldb.LevelDB
		events *eventdb.EventDB
	)
	if ctx.Bool(memFlag.Name) {
		if db, err = lvldb.NewMem(); err != nil {
			return errors.Wrap(err, "open state database")
		}
		if events, err = eventdb.NewMem(); err != nil {
			return errors.Wrap(err, "open event database")
		}
	} else {
		dataDir, err := makeDataDir(ctx)
		if err != nil {
			return err
		}
		if db, err = lvldb.New(filepath.Join(dataDir, "state.db"), lvldb.Options{}); err != nil {
			return errors.Wrap(err, "open state database")
		}
		if events, err = eventdb.New(filepath.Join(dataDir, "events.db")); err != nil {
			return errors.Wrap(err, "open event database")
		}
	}
	defer db.Close()
	defer events.Close()

	st := state.New(db)

	param := params.New(paramsAddress, st)
	currentOwner, err := param.Owner()
	if err != nil {
		return errors.Wrap(err, "read owner")
	}
	if currentOwner.IsZero() {
		config, err := configFromFlags(ctx, *owner)
		if err != nil {
			return err
		}
		if err := param.Initialize(*owner, config); err != nil {
			return errors.Wrap(err, "initialize staking configuration")
		}
		logger.Info("staking configuration initialized", "owner", *owner)
	} else if currentOwner != *owner {
		return errors.Errorf("-%s: database is owned by %v", ownerFlag.Name, currentOwner)
	}

	tok := token.New(tokenAddress, st)
	stk := staking.New(stakingAddress, st, param, tok, events)

	handler := api.New(stk, param, events, *owner, logLevel, api.Options{
		AllowedOrigins: ctx.String(apiCorsFlag.Name),
		EventsLimit:    ctx.Uint64(eventsLimitFlag.Name),
		AdminOn:        ctx.Bool(enableAdminFlag.Name),
		PprofOn:        ctx.Bool(pprofFlag.Name),
		EnableMetrics:  ctx.Bool(enableMetricsFlag.Name),
	})

	listener, err := net.Listen("tcp", ctx.String(apiAddrFlag.Name))
	if err != nil {
		return errors.Wrapf(err, "listen API addr [%v]", ctx.String(apiAddrFlag.Name))
	}
	srv := &http.Server{Handler: handler}

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting staking ledger",
		"version", fullVersion(),
		"api", "http://"+listener.Addr().String(),
		"admin", ctx.Bool(enableAdminFlag.Name),
	)

	group, groupCtx := errgroup.WithContext(sigCtx)
	group.Go(func() error {
		if err := srv.Serve(listener); err != http.ErrServerClosed {
			return errors.Wrap(err, "API server")
		}
		return nil
	})
	group.Go(func() error {
		ticker := time.NewTicker(flushInterval)
		defer ticker.Stop()
		for {
			select {
			case <-groupCtx.Done():
				return flush(stk, st)
			case <-ticker.C:
				if err := flush(stk, st); err != nil {
					return err
				}
			}
		}
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = group.Wait()
	logger.Info("staking ledger stopped")
	return err
}

// flush persists the accumulated ledger changes. Staging reads the whole
// journal, so it runs under the engine's write lock.
func flush(stk *staking.Staking, st *state.State) error {
	err := stk.Exclusive(func() error {
		return st.Stage().Commit()
	})
	return errors.Wrap(err, "persist state")
}
