// Copyright (c) 2025 The VideoCoin developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/videocoin-2/videocoin-contracts/vcc"
)

// Key is implemented by types usable as mapping keys.
type Key interface {
	Bytes() []byte
}

// Uint64Key adapts a uint64 to a mapping key.
type Uint64Key uint64

func (k Uint64Key) Bytes() []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(k))
	return b[:]
}

// PairKey joins two keys into one, for nested mappings.
type PairKey struct {
	A, B Key
}

func (k PairKey) Bytes() []byte {
	return append(k.A.Bytes(), k.B.Bytes()...)
}

// Mapping is a key/value storage abstraction for built-in contracts, similar
// to the mapping in Solidity. Values are RLP encoded at slots derived from the
// base position and the key.
//
// For pointer-typed values Get returns nil when no entry exists, so presence
// can be checked without a separate flag.
type Mapping[K Key, V any] struct {
	context *Context
	basePos vcc.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos vcc.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) position(key K) vcc.Bytes32 {
	return vcc.Blake2b(key.Bytes(), m.basePos.Bytes())
}

func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	err = m.context.state.DecodeStorage(m.context.address, m.position(key), func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

func (m *Mapping[K, V]) Set(key K, value V) error {
	return m.context.state.EncodeStorage(m.context.address, m.position(key), func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

// Delete removes the entry for the given key.
func (m *Mapping[K, V]) Delete(key K) error {
	return m.context.state.EncodeStorage(m.context.address, m.position(key), func() ([]byte, error) {
		return nil, nil
	})
}

// Has reports whether an entry exists for the given key.
func (m *Mapping[K, V]) Has(key K) (bool, error) {
	raw, err := m.context.state.GetRawStorage(m.context.address, m.position(key))
	if err != nil {
		return false, err
	}
	return len(raw) > 0, nil
}
