// Copyright (c) 2025 The VideoCoin developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/videocoin-2/videocoin-contracts/kv"
	"github.com/videocoin-2/videocoin-contracts/stackedmap"
	"github.com/videocoin-2/videocoin-contracts/vcc"
)

// State manages contract storage over a key/value store, with the
// save-restore manner of a journal. Every mutation lands in the journal
// first; NewCheckpoint/RevertTo give callers per-operation atomicity and
// Stage flattens the journal into a kv batch for persistence.
type State struct {
	store kv.GetPutter
	sm    *stackedmap.StackedMap
	err   error
}

type storageKey struct {
	addr vcc.Address
	key  vcc.Bytes32
}

// New creates a state bound to the given store.
func New(store kv.GetPutter) *State {
	state := &State{store: store}
	state.sm = stackedmap.New(func(k any) (any, bool, error) {
		return state.cacheGetter(k)
	})
	// initially has one stack depth
	state.sm.Push()
	return state
}

// cacheGetter loads absent keys from the underlying store.
func (s *State) cacheGetter(key any) (any, bool, error) {
	sk, ok := key.(storageKey)
	if !ok {
		return nil, false, errors.New("unexpected state key type")
	}
	raw, err := s.store.Get(persistentKey(sk))
	if err != nil {
		if s.store.IsNotFound(err) {
			return rlp.RawValue(nil), true, nil
		}
		return nil, false, err
	}
	return rlp.RawValue(raw), true, nil
}

func persistentKey(sk storageKey) []byte {
	k := make([]byte, 0, 1+vcc.AddressLength+32)
	k = append(k, 's')
	k = append(k, sk.addr.Bytes()...)
	k = append(k, sk.key.Bytes()...)
	return k
}

func (s *State) setError(err error) {
	if s.err == nil {
		s.err = err
	}
}

// Err returns the first error encountered by the state.
func (s *State) Err() error {
	return s.err
}

// GetRawStorage returns the raw storage value for the given address and key.
func (s *State) GetRawStorage(addr vcc.Address, key vcc.Bytes32) (rlp.RawValue, error) {
	v, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		s.setError(err)
		return nil, err
	}
	return v.(rlp.RawValue), nil
}

// SetRawStorage sets the raw storage value for the given address and key.
// An empty value deletes the entry.
func (s *State) SetRawStorage(addr vcc.Address, key vcc.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// GetStorage returns the storage value for the given address and key.
func (s *State) GetStorage(addr vcc.Address, key vcc.Bytes32) (vcc.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return vcc.Bytes32{}, err
	}
	if len(raw) == 0 {
		return vcc.Bytes32{}, nil
	}
	var b []byte
	if err := rlp.DecodeBytes(raw, &b); err != nil {
		s.setError(err)
		return vcc.Bytes32{}, err
	}
	return vcc.BytesToBytes32(b), nil
}

// SetStorage sets the storage value for the given address and key.
func (s *State) SetStorage(addr vcc.Address, key, value vcc.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(trimLeadingZeros(value.Bytes()))
	s.SetRawStorage(addr, key, v)
}

// EncodeStorage sets the storage value encoded by the given enc callback.
// An empty encoded value deletes the entry.
func (s *State) EncodeStorage(addr vcc.Address, key vcc.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		s.setError(err)
		return err
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage gets the storage value and decodes it via the given dec callback.
func (s *State) DecodeStorage(addr vcc.Address, key vcc.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		s.setError(err)
		return err
	}
	return nil
}

// NewCheckpoint makes a checkpoint of the current state.
// It returns the checkpoint to be passed to RevertTo.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo reverts to the checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Stage flattens the journal into a batch against the underlying store.
type Stage struct {
	batch kv.Batch
	err   error
}

// Stage makes a stage object to persist the accumulated changes.
func (s *State) Stage() *Stage {
	if s.err != nil {
		return &Stage{err: s.err}
	}
	final := make(map[storageKey]rlp.RawValue)
	s.sm.Journal(func(k, v any) bool {
		final[k.(storageKey)] = v.(rlp.RawValue)
		return true
	})

	batch := s.store.NewBatch()
	for k, v := range final {
		if len(v) == 0 {
			if err := batch.Delete(persistentKey(k)); err != nil {
				return &Stage{err: err}
			}
			continue
		}
		if err := batch.Put(persistentKey(k), v); err != nil {
			return &Stage{err: err}
		}
	}
	return &Stage{batch: batch}
}

// Commit commits the staged changes to the store.
func (st *Stage) Commit() error {
	if st.err != nil {
		return errors.Wrap(st.err, "state commit")
	}
	return st.batch.Write()
}

func trimLeadingZeros(b []byte) []byte {
	for len(b) > 0 && b[0] == 0 {
		b = b[1:]
	}
	return b
}
