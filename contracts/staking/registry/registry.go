// Copyright (c) 2025 The VideoCoin developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package registry keeps the transcoder records and the per-transcoder
// delegator lists.
package registry

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/videocoin-2/videocoin-contracts/contracts/storage"
	"github.com/videocoin-2/videocoin-contracts/vcc"
)

var (
	ErrAlreadyRegistered = errors.New("transcoder already registered")
	ErrNotRegistered     = errors.New("transcoder not registered")
	ErrInvalidRewardRate = errors.New("reward rate must be within [0, 99]")
)

var (
	slotTranscoders     = storage.Slot("registry-transcoders")
	slotTranscoderCount = storage.Slot("registry-transcoder-count")
	slotTranscoderList  = storage.Slot("registry-transcoder-list")
	slotDelegatorCounts = storage.Slot("registry-delegator-count")
	slotDelegatorLists  = storage.Slot("registry-delegator-list")
)

// Transcoder is the stored record of a registered transcoder.
type Transcoder struct {
	RegisteredAt uint64
	RewardRate   uint64
	TotalBonded  *big.Int
	Jailed       bool

	// snapshot of the global minimum self stake at registration time
	EffectiveMinSelfStake *big.Int

	Zone     *big.Int
	Capacity *big.Int
}

// Service provides access to the transcoder records.
type Service struct {
	transcoders     *storage.Mapping[vcc.Address, *Transcoder]
	transcoderCount *storage.Uint64
	transcoderList  *storage.Mapping[storage.Uint64Key, vcc.Address]
	delegatorCounts *storage.Mapping[vcc.Address, uint64]
	delegatorLists  *storage.Mapping[storage.PairKey, vcc.Address]
}

func New(ctx *storage.Context) *Service {
	return &Service{
		transcoders:     storage.NewMapping[vcc.Address, *Transcoder](ctx, slotTranscoders),
		transcoderCount: storage.NewUint64(ctx, slotTranscoderCount),
		transcoderList:  storage.NewMapping[storage.Uint64Key, vcc.Address](ctx, slotTranscoderList),
		delegatorCounts: storage.NewMapping[vcc.Address, uint64](ctx, slotDelegatorCounts),
		delegatorLists:  storage.NewMapping[storage.PairKey, vcc.Address](ctx, slotDelegatorLists),
	}
}

// Get returns the transcoder record, nil if not registered.
func (s *Service) Get(addr vcc.Address) (*Transcoder, error) {
	return s.transcoders.Get(addr)
}

// MustGet returns the transcoder record or ErrNotRegistered.
func (s *Service) MustGet(addr vcc.Address) (*Transcoder, error) {
	transcoder, err := s.transcoders.Get(addr)
	if err != nil {
		return nil, err
	}
	if transcoder == nil {
		return nil, ErrNotRegistered
	}
	return transcoder, nil
}

// GetOrCreate returns the transcoder record, creating a zero-valued one in
// memory if none is stored yet. The record is not persisted until Update.
func (s *Service) GetOrCreate(addr vcc.Address) (*Transcoder, error) {
	transcoder, err := s.transcoders.Get(addr)
	if err != nil {
		return nil, err
	}
	if transcoder == nil {
		transcoder = &Transcoder{
			TotalBonded:           new(big.Int),
			EffectiveMinSelfStake: new(big.Int),
			Zone:                  new(big.Int),
			Capacity:              new(big.Int),
		}
	}
	return transcoder, nil
}

// Register creates a new transcoder record. A record that only accumulated
// delegations so far (RegisteredAt == 0) is upgraded in place.
// minSelfStake is snapshotted into the record so later changes of the global
// minimum do not affect already registered transcoders.
func (s *Service) Register(addr vcc.Address, rewardRate, now uint64, minSelfStake *big.Int) error {
	if rewardRate > 99 {
		return ErrInvalidRewardRate
	}
	transcoder, err := s.GetOrCreate(addr)
	if err != nil {
		return err
	}
	if transcoder.RegisteredAt != 0 {
		return ErrAlreadyRegistered
	}
	transcoder.RegisteredAt = now
	transcoder.RewardRate = rewardRate
	transcoder.EffectiveMinSelfStake = new(big.Int).Set(minSelfStake)
	if err := s.transcoders.Set(addr, transcoder); err != nil {
		return err
	}
	count, err := s.transcoderCount.Inc()
	if err != nil {
		return err
	}
	return s.transcoderList.Set(storage.Uint64Key(count), addr)
}

// Update persists a mutated transcoder record.
func (s *Service) Update(addr vcc.Address, transcoder *Transcoder) error {
	return s.transcoders.Set(addr, transcoder)
}

// Count returns the number of registered transcoders.
func (s *Service) Count() (uint64, error) {
	return s.transcoderCount.Get()
}

// At returns the address of the transcoder registered at the given index.
func (s *Service) At(index uint64) (vcc.Address, error) {
	count, err := s.transcoderCount.Get()
	if err != nil {
		return vcc.Address{}, err
	}
	if index >= count {
		return vcc.Address{}, errors.Errorf("transcoder index %d out of range", index)
	}
	return s.transcoderList.Get(storage.Uint64Key(index))
}

// DelegatorCount returns the size of the transcoder's delegator list.
func (s *Service) DelegatorCount(transcoder vcc.Address) (uint64, error) {
	return s.delegatorCounts.Get(transcoder)
}

// AddDelegator appends a delegator to the transcoder's list.
// Callers must ensure the delegator is not already listed.
func (s *Service) AddDelegator(transcoder, delegator vcc.Address) error {
	count, err := s.delegatorCounts.Get(transcoder)
	if err != nil {
		return err
	}
	if err := s.delegatorLists.Set(storage.PairKey{A: transcoder, B: storage.Uint64Key(count)}, delegator); err != nil {
		return err
	}
	return s.delegatorCounts.Set(transcoder, count+1)
}

// Delegators returns the delegator list in insertion order.
func (s *Service) Delegators(transcoder vcc.Address) ([]vcc.Address, error) {
	count, err := s.delegatorCounts.Get(transcoder)
	if err != nil {
		return nil, err
	}
	delegators := make([]vcc.Address, 0, count)
	for i := uint64(0); i < count; i++ {
		delegator, err := s.delegatorLists.Get(storage.PairKey{A: transcoder, B: storage.Uint64Key(i)})
		if err != nil {
			return nil, err
		}
		delegators = append(delegators, delegator)
	}
	return delegators, nil
}
