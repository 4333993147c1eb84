// Copyright (c) 2025 The VideoCoin developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"log/slog"
	"math/big"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/videocoin-2/videocoin-contracts/contracts/params"
	"github.com/videocoin-2/videocoin-contracts/log"
	"github.com/videocoin-2/videocoin-contracts/vcc"
)

func defaultDataDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".vccstake")
	}
	return ""
}

func initLogger(ctx *cli.Context) *slog.LevelVar {
	var level slog.LevelVar
	level.Set(log.FromLegacyLevel(ctx.Int(verbosityFlag.Name)))

	useColor := isatty.IsTerminal(os.Stdout.Fd()) && os.Getenv("TERM") != "dumb"
	handler := log.NewTerminalHandlerWithLevel(os.Stdout, &level, useColor)
	log.SetDefault(log.NewLogger(handler))

	return &level
}

func parseAmountFlag(ctx *cli.Context, flag cli.StringFlag) (*big.Int, error) {
	value, ok := new(big.Int).SetString(ctx.String(flag.Name), 10)
	if !ok {
		return nil, errors.Errorf("-%s: invalid decimal value", flag.Name)
	}
	return value, nil
}

// configFromFlags assembles the initial staking configuration. It is only
// consulted on the first run, afterwards the persisted values win.
func configFromFlags(ctx *cli.Context, owner vcc.Address) (params.Config, error) {
	minDelegation, err := parseAmountFlag(ctx, minDelegationFlag)
	if err != nil {
		return params.Config{}, err
	}
	minSelfStake, err := parseAmountFlag(ctx, minSelfStakeFlag)
	if err != nil {
		return params.Config{}, err
	}

	slashPool := owner
	if s := ctx.String(slashPoolFlag.Name); s != "" {
		pool, err := vcc.ParseAddress(s)
		if err != nil {
			return params.Config{}, errors.WithMessage(err, "-slash-pool")
		}
		slashPool = *pool
	}

	return params.Config{
		MinDelegation:   minDelegation,
		MinSelfStake:    minSelfStake,
		ApprovalPeriod:  ctx.Uint64(approvalPeriodFlag.Name),
		UnbondingPeriod: ctx.Uint64(unbondingPeriodFlag.Name),
		SlashRate:       ctx.Uint64(slashRateFlag.Name),
		SlashPool:       slashPool,
	}, nil
}

func makeDataDir(ctx *cli.Context) (string, error) {
	dir := ctx.String(dataDirFlag.Name)
	if dir == "" {
		return "", errors.Errorf("-%s: unable to infer default data dir", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create data dir %v", dir)
	}
	return dir, nil
}
