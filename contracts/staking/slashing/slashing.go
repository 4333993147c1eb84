// Copyright (c) 2025 The VideoCoin developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package slashing keeps the per-transcoder append-only ledger of slash
// events. Each event records when a slash happened and which percentage of
// the then-current bonded amounts it took.
package slashing

import (
	"github.com/pkg/errors"

	"github.com/videocoin-2/videocoin-contracts/contracts/storage"
	"github.com/videocoin-2/videocoin-contracts/vcc"
)

var ErrInvalidRate = errors.New("slash rate must be within [0, 100]")

var (
	slotCounts = storage.Slot("slashes-count")
	slotEvents = storage.Slot("slashes-events")
)

// Event is one entry of a transcoder's slash ledger.
type Event struct {
	Timestamp uint64
	Rate      uint64
}

// Service provides access to the slash ledgers.
type Service struct {
	counts *storage.Mapping[vcc.Address, uint64]
	events *storage.Mapping[storage.PairKey, *Event]
}

func New(ctx *storage.Context) *Service {
	return &Service{
		counts: storage.NewMapping[vcc.Address, uint64](ctx, slotCounts),
		events: storage.NewMapping[storage.PairKey, *Event](ctx, slotEvents),
	}
}

func eventKey(transcoder vcc.Address, index uint64) storage.PairKey {
	return storage.PairKey{A: transcoder, B: storage.Uint64Key(index)}
}

// Count returns the length of the transcoder's slash ledger.
func (s *Service) Count(transcoder vcc.Address) (uint64, error) {
	return s.counts.Get(transcoder)
}

// Get returns the slash event at the given index.
func (s *Service) Get(transcoder vcc.Address, index uint64) (*Event, error) {
	count, err := s.counts.Get(transcoder)
	if err != nil {
		return nil, err
	}
	if index >= count {
		return nil, errors.Errorf("slash index %d out of range", index)
	}
	return s.events.Get(eventKey(transcoder, index))
}

// Append records a new slash event and returns its index.
func (s *Service) Append(transcoder vcc.Address, timestamp, rate uint64) (uint64, error) {
	if rate > 100 {
		return 0, ErrInvalidRate
	}
	count, err := s.counts.Get(transcoder)
	if err != nil {
		return 0, err
	}
	if err := s.events.Set(eventKey(transcoder, count), &Event{Timestamp: timestamp, Rate: rate}); err != nil {
		return 0, err
	}
	if err := s.counts.Set(transcoder, count+1); err != nil {
		return 0, err
	}
	return count, nil
}

// Range iterates the ledger from the given index to its end.
func (s *Service) Range(transcoder vcc.Address, from uint64, callback func(index uint64, ev *Event) error) error {
	count, err := s.counts.Get(transcoder)
	if err != nil {
		return err
	}
	for i := from; i < count; i++ {
		ev, err := s.events.Get(eventKey(transcoder, i))
		if err != nil {
			return err
		}
		if ev == nil {
			return errors.Errorf("missing slash event at index %d", i)
		}
		if err := callback(i, ev); err != nil {
			return err
		}
	}
	return nil
}
