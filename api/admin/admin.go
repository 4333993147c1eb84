// Copyright (c) 2025 The VideoCoin developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package admin exposes the privileged surface of the staking engine.
// All calls execute on behalf of the configured owner address, so the
// listener must never be reachable from untrusted networks.
package admin

import (
	"log/slog"
	"math/big"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/videocoin-2/videocoin-contracts/api/utils"
	"github.com/videocoin-2/videocoin-contracts/contracts/params"
	engine "github.com/videocoin-2/videocoin-contracts/contracts/staking"
	"github.com/videocoin-2/videocoin-contracts/vcc"
)

type Admin struct {
	stk      *engine.Staking
	params   *params.Params
	owner    vcc.Address
	logLevel *slog.LevelVar
}

func New(stk *engine.Staking, p *params.Params, owner vcc.Address, logLevel *slog.LevelVar) *Admin {
	return &Admin{
		stk,
		p,
		owner,
		logLevel,
	}
}

func parseAddress(req *http.Request, name string) (vcc.Address, error) {
	addr, err := vcc.ParseAddress(mux.Vars(req)[name])
	if err != nil {
		return vcc.Address{}, utils.BadRequest(errors.WithMessage(err, name))
	}
	return *addr, nil
}

func nowParam(req *http.Request) (uint64, error) {
	v := req.URL.Query().Get("now")
	if v == "" {
		return uint64(time.Now().Unix()), nil
	}
	now, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, utils.BadRequest(errors.WithMessage(err, "now"))
	}
	return now, nil
}

// ConfigUpdate carries partial parameter updates. Absent fields are left
// untouched.
type ConfigUpdate struct {
	MinDelegation   *big.Int     `json:"minDelegation"`
	MinSelfStake    *big.Int     `json:"minSelfStake"`
	ApprovalPeriod  *uint64      `json:"approvalPeriod"`
	UnbondingPeriod *uint64      `json:"unbondingPeriod"`
	SlashRate       *uint64      `json:"slashRate"`
	SlashPool       *vcc.Address `json:"slashPool"`
}

func (a *Admin) handleSetConfig(w http.ResponseWriter, req *http.Request) error {
	var update ConfigUpdate
	if err := utils.ParseJSON(req.Body, &update); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	// parameter writes share the ledger state with the engine, so the
	// whole update runs under its write lock
	err := a.stk.Exclusive(func() error {
		if update.MinDelegation != nil {
			if err := a.params.SetMinDelegation(a.owner, update.MinDelegation); err != nil {
				return err
			}
		}
		if update.MinSelfStake != nil {
			if err := a.params.SetMinSelfStake(a.owner, update.MinSelfStake); err != nil {
				return err
			}
		}
		if update.ApprovalPeriod != nil {
			if err := a.params.SetApprovalPeriod(a.owner, *update.ApprovalPeriod); err != nil {
				return err
			}
		}
		if update.UnbondingPeriod != nil {
			if err := a.params.SetUnbondingPeriod(a.owner, *update.UnbondingPeriod); err != nil {
				return err
			}
		}
		if update.SlashRate != nil {
			if err := a.params.SetSlashRate(a.owner, *update.SlashRate); err != nil {
				return utils.BadRequest(err)
			}
		}
		if update.SlashPool != nil {
			if err := a.params.SetSlashPool(a.owner, *update.SlashPool); err != nil {
				return utils.BadRequest(err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"updated": true})
}

type managerRequest struct {
	Address vcc.Address `json:"address"`
}

func (a *Admin) handleAddManager(w http.ResponseWriter, req *http.Request) error {
	var body managerRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	now, err := nowParam(req)
	if err != nil {
		return err
	}
	if err := a.stk.AddManager(a.owner, body.Address, now); err != nil {
		return utils.BadRequest(err)
	}
	return utils.WriteJSON(w, utils.M{"added": body.Address})
}

func (a *Admin) handleRemoveManager(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req, "address")
	if err != nil {
		return err
	}
	now, err := nowParam(req)
	if err != nil {
		return err
	}
	if err := a.stk.RemoveManager(a.owner, addr, now); err != nil {
		return utils.BadRequest(err)
	}
	return utils.WriteJSON(w, utils.M{"removed": addr})
}

func (a *Admin) transcoderOp(op func(manager, transcoder vcc.Address, now uint64) error) utils.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		addr, err := parseAddress(req, "address")
		if err != nil {
			return err
		}
		now, err := nowParam(req)
		if err != nil {
			return err
		}
		if err := op(a.owner, addr, now); err != nil {
			return utils.BadRequest(err)
		}
		return utils.WriteJSON(w, utils.M{"transcoder": addr})
	}
}

type valueRequest struct {
	Value *big.Int `json:"value"`
}

func (a *Admin) transcoderValueOp(op func(manager, transcoder vcc.Address, value *big.Int) error) utils.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		addr, err := parseAddress(req, "address")
		if err != nil {
			return err
		}
		var body valueRequest
		if err := utils.ParseJSON(req.Body, &body); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "body"))
		}
		if body.Value == nil {
			return utils.BadRequest(errors.New("value: missing"))
		}
		if err := op(a.owner, addr, body.Value); err != nil {
			return utils.BadRequest(err)
		}
		return utils.WriteJSON(w, utils.M{"transcoder": addr})
	}
}

func (a *Admin) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/loglevel").
		Methods(http.MethodGet).
		Name("admin_get_loglevel").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetLogLevel))
	sub.Path("/loglevel").
		Methods(http.MethodPost).
		Name("admin_post_loglevel").
		HandlerFunc(utils.WrapHandlerFunc(a.handleSetLogLevel))
	sub.Path("/config").
		Methods(http.MethodPost).
		Name("admin_set_config").
		HandlerFunc(utils.WrapHandlerFunc(a.handleSetConfig))
	sub.Path("/managers").
		Methods(http.MethodPost).
		Name("admin_add_manager").
		HandlerFunc(utils.WrapHandlerFunc(a.handleAddManager))
	sub.Path("/managers/{address}").
		Methods(http.MethodDelete).
		Name("admin_remove_manager").
		HandlerFunc(utils.WrapHandlerFunc(a.handleRemoveManager))
	sub.Path("/transcoders/{address}/jail").
		Methods(http.MethodPost).
		Name("admin_jail").
		HandlerFunc(utils.WrapHandlerFunc(a.transcoderOp(a.stk.Jail)))
	sub.Path("/transcoders/{address}/unjail").
		Methods(http.MethodPost).
		Name("admin_unjail").
		HandlerFunc(utils.WrapHandlerFunc(a.transcoderOp(a.stk.Unjail)))
	sub.Path("/transcoders/{address}/slash").
		Methods(http.MethodPost).
		Name("admin_slash").
		HandlerFunc(utils.WrapHandlerFunc(a.transcoderOp(a.stk.Slash)))
	sub.Path("/transcoders/{address}/zone").
		Methods(http.MethodPost).
		Name("admin_set_zone").
		HandlerFunc(utils.WrapHandlerFunc(a.transcoderValueOp(a.stk.SetZone)))
	sub.Path("/transcoders/{address}/capacity").
		Methods(http.MethodPost).
		Name("admin_set_capacity").
		HandlerFunc(utils.WrapHandlerFunc(a.transcoderValueOp(a.stk.SetCapacity)))
}
