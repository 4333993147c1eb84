// Copyright (c) 2025 The VideoCoin developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package delegation keeps the per-delegator staking positions: bonded
// amounts per transcoder, slash settlement cursors, the managed flag and the
// queue of unbonding requests.
package delegation

import (
	"math/big"

	"github.com/videocoin-2/videocoin-contracts/contracts/storage"
	"github.com/videocoin-2/videocoin-contracts/vcc"
)

// Request is a pending withdrawal of previously bonded value.
// Its amount is zeroed once withdrawn, the record itself stays.
type Request struct {
	Transcoder vcc.Address
	ReadyAt    uint64
	Amount     *big.Int
}

// Withdrawn returns whether the request has already been paid out.
func (r *Request) Withdrawn() bool {
	return r.Amount == nil || r.Amount.Sign() == 0
}

var (
	slotBonded         = storage.Slot("delegations-bonded")
	slotCursors        = storage.Slot("delegations-slash-cursor")
	slotManaged        = storage.Slot("delegations-managed")
	slotPendingCursors = storage.Slot("delegations-pending-cursor")
	slotNextRequestIDs = storage.Slot("delegations-next-request-id")
	slotRequests       = storage.Slot("delegations-requests")
)

// Service provides access to delegator positions.
type Service struct {
	bonded         *storage.Mapping[storage.PairKey, *big.Int]
	cursors        *storage.Mapping[storage.PairKey, uint64]
	managed        *storage.Mapping[vcc.Address, bool]
	pendingCursors *storage.Mapping[vcc.Address, uint64]
	nextRequestIDs *storage.Mapping[vcc.Address, uint64]
	requests       *storage.Mapping[storage.PairKey, *Request]
}

func New(ctx *storage.Context) *Service {
	return &Service{
		bonded:         storage.NewMapping[storage.PairKey, *big.Int](ctx, slotBonded),
		cursors:        storage.NewMapping[storage.PairKey, uint64](ctx, slotCursors),
		managed:        storage.NewMapping[vcc.Address, bool](ctx, slotManaged),
		pendingCursors: storage.NewMapping[vcc.Address, uint64](ctx, slotPendingCursors),
		nextRequestIDs: storage.NewMapping[vcc.Address, uint64](ctx, slotNextRequestIDs),
		requests:       storage.NewMapping[storage.PairKey, *Request](ctx, slotRequests),
	}
}

func pairKey(delegator, transcoder vcc.Address) storage.PairKey {
	return storage.PairKey{A: delegator, B: transcoder}
}

func requestKey(delegator vcc.Address, id uint64) storage.PairKey {
	return storage.PairKey{A: delegator, B: storage.Uint64Key(id)}
}

// Bonded returns the stored bonded amount of delegator towards transcoder.
// The amount may still carry unsettled slashes.
func (s *Service) Bonded(delegator, transcoder vcc.Address) (*big.Int, error) {
	amount, err := s.bonded.Get(pairKey(delegator, transcoder))
	if err != nil {
		return nil, err
	}
	if amount == nil {
		return new(big.Int), nil
	}
	return amount, nil
}

func (s *Service) SetBonded(delegator, transcoder vcc.Address, amount *big.Int) error {
	return s.bonded.Set(pairKey(delegator, transcoder), amount)
}

// Cursor returns how many of the transcoder's slash events the delegator has
// already settled against its bonded amount.
func (s *Service) Cursor(delegator, transcoder vcc.Address) (uint64, error) {
	return s.cursors.Get(pairKey(delegator, transcoder))
}

func (s *Service) SetCursor(delegator, transcoder vcc.Address, cursor uint64) error {
	return s.cursors.Set(pairKey(delegator, transcoder), cursor)
}

// HasDelegated reports whether the delegator ever delegated to the transcoder.
func (s *Service) HasDelegated(delegator, transcoder vcc.Address) (bool, error) {
	return s.bonded.Has(pairKey(delegator, transcoder))
}

// IsManaged reports whether the delegator's positions are driven by a manager.
func (s *Service) IsManaged(delegator vcc.Address) (bool, error) {
	return s.managed.Get(delegator)
}

func (s *Service) SetManaged(delegator vcc.Address, managed bool) error {
	return s.managed.Set(delegator, managed)
}

// PendingCursor returns the id of the oldest request not yet processed by
// batch withdrawal.
func (s *Service) PendingCursor(delegator vcc.Address) (uint64, error) {
	return s.pendingCursors.Get(delegator)
}

func (s *Service) SetPendingCursor(delegator vcc.Address, cursor uint64) error {
	return s.pendingCursors.Set(delegator, cursor)
}

// NextRequestID returns the id the next unbonding request will get.
func (s *Service) NextRequestID(delegator vcc.Address) (uint64, error) {
	return s.nextRequestIDs.Get(delegator)
}

// AddRequest appends an unbonding request and returns its id.
func (s *Service) AddRequest(delegator, transcoder vcc.Address, readyAt uint64, amount *big.Int) (uint64, error) {
	id, err := s.nextRequestIDs.Get(delegator)
	if err != nil {
		return 0, err
	}
	if err := s.requests.Set(requestKey(delegator, id), &Request{
		Transcoder: transcoder,
		ReadyAt:    readyAt,
		Amount:     amount,
	}); err != nil {
		return 0, err
	}
	if err := s.nextRequestIDs.Set(delegator, id+1); err != nil {
		return 0, err
	}
	return id, nil
}

// GetRequest returns the request with the given id, nil if it never existed.
func (s *Service) GetRequest(delegator vcc.Address, id uint64) (*Request, error) {
	return s.requests.Get(requestKey(delegator, id))
}

// ZeroRequest marks the request as withdrawn.
func (s *Service) ZeroRequest(delegator vcc.Address, id uint64) error {
	request, err := s.requests.Get(requestKey(delegator, id))
	if err != nil {
		return err
	}
	if request == nil {
		return nil
	}
	request.Amount = new(big.Int)
	return s.requests.Set(requestKey(delegator, id), request)
}
