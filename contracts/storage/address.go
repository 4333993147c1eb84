// Copyright (c) 2025 The VideoCoin developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"github.com/videocoin-2/videocoin-contracts/vcc"
)

// Address is a wrapper for storage and retrieval of an address. Similar to
// storing an address in a smart contract.
type Address struct {
	context *Context
	pos     vcc.Bytes32
}

func NewAddress(context *Context, pos vcc.Bytes32) *Address {
	return &Address{context: context, pos: pos}
}

func (a *Address) Get() (vcc.Address, error) {
	storage, err := a.context.state.GetStorage(a.context.address, a.pos)
	if err != nil {
		return vcc.Address{}, err
	}
	return vcc.BytesToAddress(storage.Bytes()), nil
}

func (a *Address) Set(addr vcc.Address) {
	a.context.state.SetStorage(a.context.address, a.pos, vcc.BytesToBytes32(addr.Bytes()))
}
