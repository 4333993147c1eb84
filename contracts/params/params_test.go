// Copyright (c) 2025 The VideoCoin developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/videocoin-2/videocoin-contracts/lvldb"
	"github.com/videocoin-2/videocoin-contracts/state"
	"github.com/videocoin-2/videocoin-contracts/vcc"
)

var (
	owner     = vcc.BytesToAddress([]byte("owner"))
	manager   = vcc.BytesToAddress([]byte("manager"))
	stranger  = vcc.BytesToAddress([]byte("stranger"))
	slashPool = vcc.BytesToAddress([]byte("slash-pool"))
)

func newTestParams(t *testing.T) *Params {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	p := New(vcc.BytesToAddress([]byte("params-contract")), state.New(db))
	require.NoError(t, p.Initialize(owner, Config{
		MinDelegation:   big.NewInt(100),
		MinSelfStake:    big.NewInt(1000),
		ApprovalPeriod:  100,
		UnbondingPeriod: 1000,
		SlashRate:       50,
		SlashPool:       slashPool,
	}))
	return p
}

func TestInitialize(t *testing.T) {
	p := newTestParams(t)

	got, err := p.Owner()
	assert.NoError(t, err)
	assert.Equal(t, owner, got)

	ok, err := p.IsManager(owner)
	assert.NoError(t, err)
	assert.True(t, ok)

	minDelegation, err := p.MinDelegation()
	assert.NoError(t, err)
	assert.Equal(t, big.NewInt(100), minDelegation)

	rate, err := p.SlashRate()
	assert.NoError(t, err)
	assert.Equal(t, uint64(50), rate)

	pool, err := p.SlashPool()
	assert.NoError(t, err)
	assert.Equal(t, slashPool, pool)
}

func TestInitializeRejectsBadConfig(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	p := New(vcc.BytesToAddress([]byte("params-contract")), state.New(db))

	assert.ErrorIs(t, p.Initialize(vcc.Address{}, Config{}), ErrZeroAddress)
	assert.ErrorIs(t, p.Initialize(owner, Config{SlashRate: 101}), ErrInvalidRate)
}

func TestManagers(t *testing.T) {
	p := newTestParams(t)

	assert.ErrorIs(t, p.AddManager(stranger, manager), ErrUnauthorized)
	assert.ErrorIs(t, p.AddManager(owner, vcc.Address{}), ErrZeroAddress)

	require.NoError(t, p.AddManager(owner, manager))
	ok, err := p.IsManager(manager)
	assert.NoError(t, err)
	assert.True(t, ok)

	// manager capability does not confer owner capability
	assert.ErrorIs(t, p.AddManager(manager, stranger), ErrUnauthorized)

	require.NoError(t, p.RemoveManager(owner, manager))
	ok, err = p.IsManager(manager)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestSetters(t *testing.T) {
	p := newTestParams(t)
	require.NoError(t, p.AddManager(owner, manager))

	assert.ErrorIs(t, p.SetMinDelegation(stranger, big.NewInt(1)), ErrUnauthorized)
	assert.ErrorIs(t, p.SetSlashRate(manager, 101), ErrInvalidRate)
	assert.ErrorIs(t, p.SetSlashPool(manager, vcc.Address{}), ErrZeroAddress)

	require.NoError(t, p.SetMinDelegation(manager, big.NewInt(5)))
	require.NoError(t, p.SetMinSelfStake(manager, big.NewInt(50)))
	require.NoError(t, p.SetApprovalPeriod(manager, 7))
	require.NoError(t, p.SetUnbondingPeriod(manager, 9))
	require.NoError(t, p.SetSlashRate(manager, 10))

	v, err := p.MinDelegation()
	assert.NoError(t, err)
	assert.Equal(t, big.NewInt(5), v)
	v, err = p.MinSelfStake()
	assert.NoError(t, err)
	assert.Equal(t, big.NewInt(50), v)
	period, err := p.ApprovalPeriod()
	assert.NoError(t, err)
	assert.Equal(t, uint64(7), period)
	period, err = p.UnbondingPeriod()
	assert.NoError(t, err)
	assert.Equal(t, uint64(9), period)
	rate, err := p.SlashRate()
	assert.NoError(t, err)
	assert.Equal(t, uint64(10), rate)
}
