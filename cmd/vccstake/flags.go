// Copyright (c) 2025 The VideoCoin developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for the staking databases",
	}
	memFlag = cli.BoolFlag{
		Name:  "mem",
		Usage: "run with in-memory databases, nothing is persisted",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8580",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-9)",
	}
	ownerFlag = cli.StringFlag{
		Name:  "owner",
		Usage: "address owning the staking configuration, executes privileged calls",
	}
	enableAdminFlag = cli.BoolFlag{
		Name:  "enable-admin",
		Usage: "enables the admin endpoints",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection",
	}
	pprofFlag = cli.BoolFlag{
		Name:  "pprof",
		Usage: "turn on go-pprof",
	}
	eventsLimitFlag = cli.Uint64Flag{
		Name:  "events-limit",
		Value: 1000,
		Usage: "limit the number of events returned by a single query",
	}
	minDelegationFlag = cli.StringFlag{
		Name:  "min-delegation",
		Value: "1000000000000000000",
		Usage: "minimum amount accepted for a single delegation",
	}
	minSelfStakeFlag = cli.StringFlag{
		Name:  "min-self-stake",
		Value: "1000000000000000000000",
		Usage: "minimum self stake required of a transcoder",
	}
	approvalPeriodFlag = cli.Uint64Flag{
		Name:  "approval-period",
		Value: 86400,
		Usage: "seconds a new transcoder waits before it can become bonded",
	}
	unbondingPeriodFlag = cli.Uint64Flag{
		Name:  "unbonding-period",
		Value: 1209600,
		Usage: "seconds a deferred unbonding request stays locked",
	}
	slashRateFlag = cli.Uint64Flag{
		Name:  "slash-rate",
		Value: 50,
		Usage: "percentage of the total stake destroyed by a slash (0-100)",
	}
	slashPoolFlag = cli.StringFlag{
		Name:  "slash-pool",
		Usage: "address receiving slashed stake, defaults to the owner",
	}
)
