// Copyright (c) 2025 The VideoCoin developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
	"strconv"

	"github.com/pkg/errors"

	engine "github.com/videocoin-2/videocoin-contracts/contracts/staking"
	"github.com/videocoin-2/videocoin-contracts/vcc"
)

// bigInt renders token values as decimal strings, so API consumers never
// lose precision to float parsing.
type bigInt big.Int

func (b *bigInt) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote((*big.Int)(b).String())), nil
}

func (b *bigInt) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return errors.WithMessage(err, "expected quoted decimal")
	}
	if _, ok := (*big.Int)(b).SetString(s, 10); !ok {
		return errors.Errorf("invalid decimal value %q", s)
	}
	return nil
}

// Config is the staking configuration snapshot.
type Config struct {
	MinDelegation   *bigInt     `json:"minDelegation"`
	MinSelfStake    *bigInt     `json:"minSelfStake"`
	ApprovalPeriod  uint64      `json:"approvalPeriod"`
	UnbondingPeriod uint64      `json:"unbondingPeriod"`
	SlashRate       uint64      `json:"slashRate"`
	SlashPool       vcc.Address `json:"slashPool"`
}

// Transcoders lists the registered transcoders.
type Transcoders struct {
	Count       uint64        `json:"count"`
	Transcoders []vcc.Address `json:"transcoders"`
}

// Transcoder is the full view of a registered transcoder.
type Transcoder struct {
	Address               vcc.Address `json:"address"`
	State                 string      `json:"state"`
	RegisteredAt          uint64      `json:"registeredAt"`
	RewardRate            uint64      `json:"rewardRate"`
	TotalStake            *bigInt     `json:"totalStake"`
	SelfStake             *bigInt     `json:"selfStake"`
	Jailed                bool        `json:"jailed"`
	SlashCount            uint64      `json:"slashCount"`
	EffectiveMinSelfStake *bigInt     `json:"effectiveMinSelfStake"`
	Zone                  *bigInt     `json:"zone"`
	Capacity              *bigInt     `json:"capacity"`
}

// Slash is one entry of a transcoder's slash ledger.
type Slash struct {
	Timestamp uint64 `json:"timestamp"`
	Rate      uint64 `json:"rate"`
}

// Stake is a delegator's settled position towards a transcoder.
type Stake struct {
	Delegator  vcc.Address `json:"delegator"`
	Transcoder vcc.Address `json:"transcoder"`
	Amount     *bigInt     `json:"amount"`
	Managed    bool        `json:"managed"`
}

// UnbondingRequest is the view of a single unbonding request.
type UnbondingRequest struct {
	ID         uint64      `json:"id"`
	Transcoder vcc.Address `json:"transcoder"`
	Amount     *bigInt     `json:"amount"`
	ReadyAt    uint64      `json:"readyAt"`
	Withdrawn  bool        `json:"withdrawn"`
	Ready      bool        `json:"ready"`
}

// UnbondingRequests is a delegator's full request queue.
type UnbondingRequests struct {
	PendingCursor uint64              `json:"pendingCursor"`
	NextRequestID uint64              `json:"nextRequestId"`
	Requests      []*UnbondingRequest `json:"requests"`
}

// Event is the API rendering of an audit event.
type Event struct {
	Name       string      `json:"name"`
	Timestamp  uint64      `json:"timestamp"`
	Transcoder vcc.Address `json:"transcoder"`
	Delegator  vcc.Address `json:"delegator"`
	Amount     *bigInt     `json:"amount"`
	RequestID  uint64      `json:"requestId"`
	ReadyAt    uint64      `json:"readyAt"`
	Rate       uint64      `json:"rate"`
}

func convertEvent(ev *engine.Event) *Event {
	return &Event{
		Name:       ev.Name,
		Timestamp:  ev.Timestamp,
		Transcoder: ev.Transcoder,
		Delegator:  ev.Delegator,
		Amount:     (*bigInt)(ev.Amount),
		RequestID:  ev.RequestID,
		ReadyAt:    ev.ReadyAt,
		Rate:       ev.Rate,
	}
}
