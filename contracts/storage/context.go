// Copyright (c) 2025 The VideoCoin developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package storage provides typed storage cells for the built-in contracts,
// modeled after storage variables in a smart contract. Each cell binds a
// contract address and a slot position inside the shared state.
package storage

import (
	"github.com/videocoin-2/videocoin-contracts/state"
	"github.com/videocoin-2/videocoin-contracts/vcc"
)

// Context binds a contract address to the state it stores into.
type Context struct {
	address vcc.Address
	state   *state.State
}

func NewContext(address vcc.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) Address() vcc.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}

// Slot derives a named storage slot.
func Slot(name string) vcc.Bytes32 {
	return vcc.BytesToBytes32([]byte(name))
}
