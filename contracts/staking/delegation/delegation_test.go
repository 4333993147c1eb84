// Copyright (c) 2025 The VideoCoin developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package delegation

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/videocoin-2/videocoin-contracts/contracts/storage"
	"github.com/videocoin-2/videocoin-contracts/lvldb"
	"github.com/videocoin-2/videocoin-contracts/state"
	"github.com/videocoin-2/videocoin-contracts/vcc"
)

var (
	delegator  = vcc.BytesToAddress([]byte("delegator"))
	transcoder = vcc.BytesToAddress([]byte("transcoder"))
)

func newTestService(t *testing.T) *Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	ctx := storage.NewContext(vcc.BytesToAddress([]byte("staking-contract")), state.New(db))
	return New(ctx)
}

func TestBonded(t *testing.T) {
	svc := newTestService(t)

	amount, err := svc.Bonded(delegator, transcoder)
	assert.NoError(t, err)
	assert.Zero(t, amount.Sign())

	has, err := svc.HasDelegated(delegator, transcoder)
	assert.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, svc.SetBonded(delegator, transcoder, big.NewInt(500)))
	amount, err = svc.Bonded(delegator, transcoder)
	assert.NoError(t, err)
	assert.Equal(t, big.NewInt(500), amount)

	has, err = svc.HasDelegated(delegator, transcoder)
	assert.NoError(t, err)
	assert.True(t, has)
}

func TestCursors(t *testing.T) {
	svc := newTestService(t)

	cursor, err := svc.Cursor(delegator, transcoder)
	assert.NoError(t, err)
	assert.Zero(t, cursor)

	require.NoError(t, svc.SetCursor(delegator, transcoder, 3))
	cursor, err = svc.Cursor(delegator, transcoder)
	assert.NoError(t, err)
	assert.Equal(t, uint64(3), cursor)
}

func TestManaged(t *testing.T) {
	svc := newTestService(t)

	managed, err := svc.IsManaged(delegator)
	assert.NoError(t, err)
	assert.False(t, managed)

	require.NoError(t, svc.SetManaged(delegator, true))
	managed, err = svc.IsManaged(delegator)
	assert.NoError(t, err)
	assert.True(t, managed)
}

func TestRequests(t *testing.T) {
	svc := newTestService(t)

	id, err := svc.AddRequest(delegator, transcoder, 1000, big.NewInt(100))
	require.NoError(t, err)
	assert.Zero(t, id)

	id, err = svc.AddRequest(delegator, transcoder, 2000, big.NewInt(200))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)

	next, err := svc.NextRequestID(delegator)
	assert.NoError(t, err)
	assert.Equal(t, uint64(2), next)

	request, err := svc.GetRequest(delegator, 0)
	require.NoError(t, err)
	require.NotNil(t, request)
	assert.Equal(t, transcoder, request.Transcoder)
	assert.Equal(t, uint64(1000), request.ReadyAt)
	assert.Equal(t, big.NewInt(100), request.Amount)
	assert.False(t, request.Withdrawn())

	require.NoError(t, svc.ZeroRequest(delegator, 0))
	request, err = svc.GetRequest(delegator, 0)
	require.NoError(t, err)
	require.NotNil(t, request)
	assert.True(t, request.Withdrawn())

	// unknown request
	request, err = svc.GetRequest(delegator, 42)
	assert.NoError(t, err)
	assert.Nil(t, request)
}

func TestPendingCursor(t *testing.T) {
	svc := newTestService(t)

	cursor, err := svc.PendingCursor(delegator)
	assert.NoError(t, err)
	assert.Zero(t, cursor)

	require.NoError(t, svc.SetPendingCursor(delegator, 5))
	cursor, err = svc.PendingCursor(delegator)
	assert.NoError(t, err)
	assert.Equal(t, uint64(5), cursor)
}
