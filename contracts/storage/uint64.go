// Copyright (c) 2025 The VideoCoin developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"math/big"

	"github.com/videocoin-2/videocoin-contracts/vcc"
)

// Uint64 is a wrapper for storage and retrieval of an uint64, used for
// counters, cursors and timestamps.
type Uint64 struct {
	context *Context
	pos     vcc.Bytes32
}

func NewUint64(context *Context, pos vcc.Bytes32) *Uint64 {
	return &Uint64{context: context, pos: pos}
}

func (u *Uint64) Get() (uint64, error) {
	storage, err := u.context.state.GetStorage(u.context.address, u.pos)
	if err != nil {
		return 0, err
	}
	return new(big.Int).SetBytes(storage.Bytes()).Uint64(), nil
}

func (u *Uint64) Set(value uint64) {
	u.context.state.SetStorage(u.context.address, u.pos,
		vcc.BytesToBytes32(new(big.Int).SetUint64(value).Bytes()))
}

// Inc increments the stored value and returns the value before increment.
func (u *Uint64) Inc() (uint64, error) {
	value, err := u.Get()
	if err != nil {
		return 0, err
	}
	u.Set(value + 1)
	return value, nil
}
