// Copyright (c) 2025 The VideoCoin developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/videocoin-2/videocoin-contracts/contracts/staking"
	"github.com/videocoin-2/videocoin-contracts/vcc"
)

var (
	transcoder = vcc.BytesToAddress([]byte("transcoder"))
	delegator  = vcc.BytesToAddress([]byte("delegator"))
)

func newTestDB(t *testing.T) *EventDB {
	db, err := NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seed(t *testing.T, db *EventDB) {
	events := []*staking.Event{
		{Name: staking.EventRegistration, Timestamp: 100, Transcoder: transcoder, Rate: 10},
		{Name: staking.EventDelegation, Timestamp: 200, Transcoder: transcoder, Delegator: delegator, Amount: big.NewInt(1000)},
		{Name: staking.EventSlash, Timestamp: 300, Transcoder: transcoder, Amount: big.NewInt(500), Rate: 50},
		{Name: staking.EventDelegation, Timestamp: 400, Transcoder: transcoder, Delegator: delegator, Amount: big.NewInt(200)},
	}
	require.NoError(t, db.Post(events))
}

func TestPostEmptyBatch(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Post(nil))

	events, err := db.Query(nil)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestPostAndQueryAll(t *testing.T) {
	db := newTestDB(t)
	seed(t, db)

	events, err := db.Query(nil)
	require.NoError(t, err)
	require.Len(t, events, 4)
	assert.Equal(t, staking.EventRegistration, events[0].Name)
	assert.Equal(t, transcoder, events[0].Transcoder)
	assert.Equal(t, big.NewInt(1000), events[1].Amount)
}

func TestQueryFilters(t *testing.T) {
	db := newTestDB(t)
	seed(t, db)

	events, err := db.Query(&Filter{Name: staking.EventDelegation})
	require.NoError(t, err)
	assert.Len(t, events, 2)

	events, err = db.Query(&Filter{Delegator: &delegator})
	require.NoError(t, err)
	assert.Len(t, events, 2)

	events, err = db.Query(&Filter{Range: &Range{From: 200, To: 300}})
	require.NoError(t, err)
	assert.Len(t, events, 2)

	other := vcc.BytesToAddress([]byte("other"))
	events, err = db.Query(&Filter{Transcoder: &other})
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestQueryOrderAndPaging(t *testing.T) {
	db := newTestDB(t)
	seed(t, db)

	events, err := db.Query(&Filter{Order: DESC})
	require.NoError(t, err)
	require.Len(t, events, 4)
	assert.Equal(t, uint64(400), events[0].Timestamp)

	events, err = db.Query(&Filter{Options: &Options{Offset: 1, Limit: 2}})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, uint64(200), events[0].Timestamp)
	assert.Equal(t, uint64(300), events[1].Timestamp)
}
