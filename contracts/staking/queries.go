// Copyright (c) 2025 The VideoCoin developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/videocoin-2/videocoin-contracts/contracts/staking/delegation"
	"github.com/videocoin-2/videocoin-contracts/contracts/staking/registry"
	"github.com/videocoin-2/videocoin-contracts/vcc"
)

// All queries take the engine's read lock so they never observe a mutating
// operation halfway through.

// GetTranscoderState derives the transcoder's current state.
func (s *Staking) GetTranscoderState(transcoder vcc.Address, now uint64) (TranscoderState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, err := s.registry.Get(transcoder)
	if err != nil {
		return StateUnregistered, err
	}
	return s.deriveState(transcoder, record, now)
}

// GetTranscoder returns the stored transcoder record, nil if unknown.
func (s *Staking) GetTranscoder(transcoder vcc.Address) (*registry.Transcoder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry.Get(transcoder)
}

// GetTotalStake returns the transcoder's aggregate bonded value.
func (s *Staking) GetTotalStake(transcoder vcc.Address) (*big.Int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, err := s.registry.Get(transcoder)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return new(big.Int), nil
	}
	return record.TotalBonded, nil
}

// GetSelfStake returns the transcoder's settled stake towards itself.
func (s *Staking) GetSelfStake(transcoder vcc.Address) (*big.Int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settledView(transcoder, transcoder)
}

// GetDelegatorStake returns the delegator's settled stake towards the
// transcoder, with pending slashes applied on the fly.
func (s *Staking) GetDelegatorStake(delegator, transcoder vcc.Address) (*big.Int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settledView(delegator, transcoder)
}

// GetSlashCount returns the length of the transcoder's slash ledger.
func (s *Staking) GetSlashCount(transcoder vcc.Address) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slashes.Count(transcoder)
}

// GetSlash returns the slash event at the given ledger index.
func (s *Staking) GetSlash(transcoder vcc.Address, index uint64) (timestamp, rate uint64, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ev, err := s.slashes.Get(transcoder, index)
	if err != nil {
		return 0, 0, err
	}
	return ev.Timestamp, ev.Rate, nil
}

// GetTranscoderCount returns the number of registered transcoders.
func (s *Staking) GetTranscoderCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry.Count()
}

// GetTranscoderAt returns the address of the transcoder registered at the
// given index.
func (s *Staking) GetTranscoderAt(index uint64) (vcc.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry.At(index)
}

// GetDelegators returns the transcoder's delegator list in insertion order.
func (s *Staking) GetDelegators(transcoder vcc.Address) ([]vcc.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry.Delegators(transcoder)
}

// GetUnbondingRequest returns the request detail, nil if it never existed.
func (s *Staking) GetUnbondingRequest(delegator vcc.Address, id uint64) (*delegation.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.delegations.GetRequest(delegator, id)
}

// IsUnbondingReady reports whether the request exists, is unclaimed and its
// readiness time has passed.
func (s *Staking) IsUnbondingReady(delegator vcc.Address, id, now uint64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	request, err := s.delegations.GetRequest(delegator, id)
	if err != nil {
		return false, err
	}
	return request != nil && !request.Withdrawn() && request.ReadyAt <= now, nil
}

// GetPendingCursor returns the id of the oldest request not yet processed by
// batch withdrawal.
func (s *Staking) GetPendingCursor(delegator vcc.Address) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.delegations.PendingCursor(delegator)
}

// GetNextRequestID returns the id the delegator's next request will get.
func (s *Staking) GetNextRequestID(delegator vcc.Address) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.delegations.NextRequestID(delegator)
}

// IsManaged reports whether the delegator is driven by a manager.
func (s *Staking) IsManaged(delegator vcc.Address) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.delegations.IsManaged(delegator)
}

// IsJailed reports the persisted jailed flag.
func (s *Staking) IsJailed(transcoder vcc.Address) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, err := s.registry.Get(transcoder)
	if err != nil {
		return false, err
	}
	return record != nil && record.Jailed, nil
}
