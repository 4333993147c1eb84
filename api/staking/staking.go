// Copyright (c) 2025 The VideoCoin developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/videocoin-2/videocoin-contracts/api/utils"
	"github.com/videocoin-2/videocoin-contracts/contracts/params"
	engine "github.com/videocoin-2/videocoin-contracts/contracts/staking"
	"github.com/videocoin-2/videocoin-contracts/eventdb"
	"github.com/videocoin-2/videocoin-contracts/vcc"
)

// Staking exposes the read surface of the staking engine.
type Staking struct {
	stk    *engine.Staking
	params *params.Params
	events *eventdb.EventDB
	limit  uint64
}

func New(stk *engine.Staking, p *params.Params, events *eventdb.EventDB, eventsLimit uint64) *Staking {
	return &Staking{
		stk,
		p,
		events,
		eventsLimit,
	}
}

func parseAddress(req *http.Request, name string) (vcc.Address, error) {
	addr, err := vcc.ParseAddress(mux.Vars(req)[name])
	if err != nil {
		return vcc.Address{}, utils.BadRequest(errors.WithMessage(err, name))
	}
	return *addr, nil
}

// nowParam reads the optional "now" query parameter, falling back to the
// wall clock. It lets callers evaluate time-derived state at a chosen point.
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

func (s *Staking) handleGetConfig(w http.ResponseWriter, _ *http.Request) error {
	config, err := s.currentConfig()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, config)
}

func (s *Staking) currentConfig() (*Config, error) {
	var config Config
	// parameter reads share the ledger state with the engine, so they run
	// under its read lock
	err := s.stk.View(func() error {
		minDelegation, err := s.params.MinDelegation()
		if err != nil {
			return err
		}
		minSelfStake, err := s.params.MinSelfStake()
		if err != nil {
			return err
		}
		approvalPeriod, err := s.params.ApprovalPeriod()
		if err != nil {
			return err
		}
		unbondingPeriod, err := s.params.UnbondingPeriod()
		if err != nil {
			return err
		}
		slashRate, err := s.params.SlashRate()
		if err != nil {
			return err
		}
		slashPool, err := s.params.SlashPool()
		if err != nil {
			return err
		}
		config = Config{
			MinDelegation:   (*bigInt)(minDelegation),
			MinSelfStake:    (*bigInt)(minSelfStake),
			ApprovalPeriod:  approvalPeriod,
			UnbondingPeriod: unbondingPeriod,
			SlashRate:       slashRate,
			SlashPool:       slashPool,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &config, nil
}

func (s *Staking) handleGetTranscoders(w http.ResponseWriter, _ *http.Request) error {
	count, err := s.stk.GetTranscoderCount()
	if err != nil {
		return err
	}
	transcoders := make([]vcc.Address, 0, count)
	for i := uint64(0); i < count; i++ {
		addr, err := s.stk.GetTranscoderAt(i)
		if err != nil {
			return err
		}
		transcoders = append(transcoders, addr)
	}
	return utils.WriteJSON(w, &Transcoders{
		Count:       count,
		Transcoders: transcoders,
	})
}

func (s *Staking) handleGetTranscoder(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req, "address")
	if err != nil {
		return err
	}
	now, err := nowParam(req)
	if err != nil {
		return err
	}
	record, err := s.stk.GetTranscoder(addr)
	if err != nil {
		return err
	}
	if record == nil || record.RegisteredAt == 0 {
		return utils.NotFound(errors.New("transcoder not registered"))
	}
	state, err := s.stk.GetTranscoderState(addr, now)
	if err != nil {
		return err
	}
	selfStake, err := s.stk.GetSelfStake(addr)
	if err != nil {
		return err
	}
	slashCount, err := s.stk.GetSlashCount(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Transcoder{
		Address:               addr,
		State:                 state.String(),
		RegisteredAt:          record.RegisteredAt,
		RewardRate:            record.RewardRate,
		TotalStake:            (*bigInt)(record.TotalBonded),
		SelfStake:             (*bigInt)(selfStake),
		Jailed:                record.Jailed,
		SlashCount:            slashCount,
		EffectiveMinSelfStake: (*bigInt)(record.EffectiveMinSelfStake),
		Zone:                  (*bigInt)(record.Zone),
		Capacity:              (*bigInt)(record.Capacity),
	})
}

func (s *Staking) handleGetDelegators(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req, "address")
	if err != nil {
		return err
	}
	delegators, err := s.stk.GetDelegators(addr)
	if err != nil {
		return err
	}
	if delegators == nil {
		delegators = []vcc.Address{}
	}
	return utils.WriteJSON(w, delegators)
}

func (s *Staking) handleGetSlashes(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req, "address")
	if err != nil {
		return err
	}
	count, err := s.stk.GetSlashCount(addr)
	if err != nil {
		return err
	}
	slashes := make([]*Slash, 0, count)
	for i := uint64(0); i < count; i++ {
		timestamp, rate, err := s.stk.GetSlash(addr, i)
		if err != nil {
			return err
		}
		slashes = append(slashes, &Slash{
			Timestamp: timestamp,
			Rate:      rate,
		})
	}
	return utils.WriteJSON(w, slashes)
}

func (s *Staking) handleGetStake(w http.ResponseWriter, req *http.Request) error {
	delegator, err := parseAddress(req, "address")
	if err != nil {
		return err
	}
	transcoder, err := parseAddress(req, "transcoder")
	if err != nil {
		return err
	}
	amount, err := s.stk.GetDelegatorStake(delegator, transcoder)
	if err != nil {
		return err
	}
	managed, err := s.stk.IsManaged(delegator)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Stake{
		Delegator:  delegator,
		Transcoder: transcoder,
		Amount:     (*bigInt)(amount),
		Managed:    managed,
	})
}

func (s *Staking) handleGetRequests(w http.ResponseWriter, req *http.Request) error {
	delegator, err := parseAddress(req, "address")
	if err != nil {
		return err
	}
	now, err := nowParam(req)
	if err != nil {
		return err
	}
	cursor, err := s.stk.GetPendingCursor(delegator)
	if err != nil {
		return err
	}
	next, err := s.stk.GetNextRequestID(delegator)
	if err != nil {
		return err
	}
	requests := make([]*UnbondingRequest, 0, next)
	for id := uint64(0); id < next; id++ {
		request, err := s.requestByID(delegator, id, now)
		if err != nil {
			return err
		}
		requests = append(requests, request)
	}
	return utils.WriteJSON(w, &UnbondingRequests{
		PendingCursor: cursor,
		NextRequestID: next,
		Requests:      requests,
	})
}

func (s *Staking) handleGetRequest(w http.ResponseWriter, req *http.Request) error {
	delegator, err := parseAddress(req, "address")
	if err != nil {
		return err
	}
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 64)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	now, err := nowParam(req)
	if err != nil {
		return err
	}
	request, err := s.requestByID(delegator, id, now)
	if err != nil {
		return err
	}
	if request == nil {
		return utils.NotFound(errors.New("no such unbonding request"))
	}
	return utils.WriteJSON(w, request)
}

func (s *Staking) requestByID(delegator vcc.Address, id, now uint64) (*UnbondingRequest, error) {
	request, err := s.stk.GetUnbondingRequest(delegator, id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, nil
	}
	ready, err := s.stk.IsUnbondingReady(delegator, id, now)
	if err != nil {
		return nil, err
	}
	return &UnbondingRequest{
		ID:         id,
		Transcoder: request.Transcoder,
		Amount:     (*bigInt)(request.Amount),
		ReadyAt:    request.ReadyAt,
		Withdrawn:  request.Withdrawn(),
		Ready:      ready,
	}, nil
}

func (s *Staking) handleQueryEvents(w http.ResponseWriter, req *http.Request) error {
	var filter eventdb.Filter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if filter.Options != nil && filter.Options.Limit > s.limit {
		return utils.Forbidden(fmt.Errorf("options.limit exceeds the maximum allowed value of %d", s.limit))
	}
	if filter.Options != nil && filter.Options.Offset > math.MaxInt64 {
		return utils.BadRequest(fmt.Errorf("options.offset exceeds the maximum allowed value of %d", int64(math.MaxInt64)))
	}
	if filter.Range != nil && filter.Range.To != 0 && filter.Range.From > filter.Range.To {
		return utils.BadRequest(errors.New("range.to must be greater than or equal to range.from"))
	}
	if filter.Options == nil {
		filter.Options = &eventdb.Options{Limit: s.limit}
	}

	events, err := s.events.Query(&filter)
	if err != nil {
		return err
	}
	converted := make([]*Event, len(events))
	for i, ev := range events {
		converted[i] = convertEvent(ev)
	}
	return utils.WriteJSON(w, converted)
}

func (s *Staking) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/config").
		Methods(http.MethodGet).
		Name("staking_get_config").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetConfig))
	sub.Path("/transcoders").
		Methods(http.MethodGet).
		Name("staking_get_transcoders").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetTranscoders))
	sub.Path("/transcoders/{address}").
		Methods(http.MethodGet).
		Name("staking_get_transcoder").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetTranscoder))
	sub.Path("/transcoders/{address}/delegators").
		Methods(http.MethodGet).
		Name("staking_get_delegators").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetDelegators))
	sub.Path("/transcoders/{address}/slashes").
		Methods(http.MethodGet).
		Name("staking_get_slashes").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetSlashes))
	sub.Path("/delegators/{address}/stakes/{transcoder}").
		Methods(http.MethodGet).
		Name("staking_get_stake").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetStake))
	sub.Path("/delegators/{address}/requests").
		Methods(http.MethodGet).
		Name("staking_get_requests").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetRequests))
	sub.Path("/delegators/{address}/requests/{id}").
		Methods(http.MethodGet).
		Name("staking_get_request").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetRequest))
	sub.Path("/events").
		Methods(http.MethodPost).
		Name("staking_query_events").
		HandlerFunc(utils.WrapHandlerFunc(s.handleQueryEvents))
}
