// Copyright (c) 2025 The VideoCoin developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/videocoin-2/videocoin-contracts/lvldb"
	"github.com/videocoin-2/videocoin-contracts/state"
	"github.com/videocoin-2/videocoin-contracts/vcc"
)

func newTestContext(t *testing.T) *Context {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	return NewContext(vcc.BytesToAddress([]byte("contract")), state.New(db))
}

type record struct {
	Amount *big.Int
	Cursor uint64
}

func TestMapping(t *testing.T) {
	ctx := newTestContext(t)
	m := NewMapping[vcc.Address, *record](ctx, Slot("records"))

	key := vcc.BytesToAddress([]byte("key"))

	got, err := m.Get(key)
	assert.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, m.Set(key, &record{Amount: big.NewInt(100), Cursor: 3}))
	got, err = m.Get(key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, big.NewInt(100), got.Amount)
	assert.Equal(t, uint64(3), got.Cursor)

	has, err := m.Has(key)
	assert.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, m.Delete(key))
	got, err = m.Get(key)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestMappingKeys(t *testing.T) {
	ctx := newTestContext(t)
	m := NewMapping[PairKey, uint64](ctx, Slot("pairs"))

	a := vcc.BytesToAddress([]byte("a"))
	b := vcc.BytesToAddress([]byte("b"))

	require.NoError(t, m.Set(PairKey{a, Uint64Key(1)}, 11))
	require.NoError(t, m.Set(PairKey{b, Uint64Key(1)}, 22))

	got, err := m.Get(PairKey{a, Uint64Key(1)})
	assert.NoError(t, err)
	assert.Equal(t, uint64(11), got)

	got, err = m.Get(PairKey{b, Uint64Key(1)})
	assert.NoError(t, err)
	assert.Equal(t, uint64(22), got)

	got, err = m.Get(PairKey{a, Uint64Key(2)})
	assert.NoError(t, err)
	assert.Zero(t, got)
}

func TestUint256(t *testing.T) {
	ctx := newTestContext(t)
	u := NewUint256(ctx, Slot("total"))

	v, err := u.Get()
	assert.NoError(t, err)
	assert.Zero(t, v.Sign())

	u.Set(big.NewInt(1000))
	require.NoError(t, u.Add(big.NewInt(500)))
	require.NoError(t, u.Sub(big.NewInt(300)))

	v, err = u.Get()
	assert.NoError(t, err)
	assert.Equal(t, big.NewInt(1200), v)
}

func TestUint64(t *testing.T) {
	ctx := newTestContext(t)
	u := NewUint64(ctx, Slot("counter"))

	prev, err := u.Inc()
	assert.NoError(t, err)
	assert.Zero(t, prev)

	prev, err = u.Inc()
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), prev)

	v, err := u.Get()
	assert.NoError(t, err)
	assert.Equal(t, uint64(2), v)
}

func TestAddress(t *testing.T) {
	ctx := newTestContext(t)
	a := NewAddress(ctx, Slot("owner"))

	addr, err := a.Get()
	assert.NoError(t, err)
	assert.True(t, addr.IsZero())

	owner := vcc.BytesToAddress([]byte("owner-addr"))
	a.Set(owner)
	addr, err = a.Get()
	assert.NoError(t, err)
	assert.Equal(t, owner, addr)
}
