// Copyright (c) 2025 The VideoCoin developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/videocoin-2/videocoin-contracts/vcc"
)

// Event names emitted by the engine.
const (
	EventRegistration   = "registration"
	EventDelegation     = "delegation"
	EventUnbondingReq   = "unbonding-requested"
	EventWithdrawal     = "stake-withdrawal"
	EventSlash          = "slash"
	EventJail           = "jail"
	EventUnjail         = "unjail"
	EventManagerAdded   = "manager-added"
	EventManagerRemoved = "manager-removed"
)

// Event is an audit record of a completed state transition.
type Event struct {
	Name       string
	Timestamp  uint64
	Transcoder vcc.Address
	Delegator  vcc.Address
	Amount     *big.Int
	RequestID  uint64
	ReadyAt    uint64
	Rate       uint64
}

// Sink consumes engine events, for external audit and indexing. The engine
// delivers all events of one operation as a single batch after the operation
// has committed its state changes; an error fails the operation.
type Sink interface {
	Post(events []*Event) error
}

// post buffers an event for delivery once the surrounding operation
// succeeds. A failed operation discards its buffered events, so the sink
// never sees transitions that were rolled back.
func (s *Staking) post(ev *Event) error {
	s.pending = append(s.pending, ev)
	return nil
}
