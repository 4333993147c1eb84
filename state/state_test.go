// Copyright (c) 2025 The VideoCoin developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/videocoin-2/videocoin-contracts/lvldb"
	"github.com/videocoin-2/videocoin-contracts/vcc"
)

func TestStateStorage(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	st := New(db)

	addr := vcc.BytesToAddress([]byte("addr"))
	key := vcc.BytesToBytes32([]byte("key"))
	value := vcc.BytesToBytes32([]byte("value"))

	v, err := st.GetStorage(addr, key)
	assert.NoError(t, err)
	assert.Equal(t, vcc.Bytes32{}, v)

	st.SetStorage(addr, key, value)
	v, err = st.GetStorage(addr, key)
	assert.NoError(t, err)
	assert.Equal(t, value, v)

	st.SetStorage(addr, key, vcc.Bytes32{})
	raw, err := st.GetRawStorage(addr, key)
	assert.NoError(t, err)
	assert.Zero(t, len(raw))
}

func TestStateCheckpointRevert(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	st := New(db)

	addr := vcc.BytesToAddress([]byte("addr"))
	key := vcc.BytesToBytes32([]byte("key"))

	st.SetStorage(addr, key, vcc.BytesToBytes32([]byte("before")))
	chk := st.NewCheckpoint()
	st.SetStorage(addr, key, vcc.BytesToBytes32([]byte("after")))
	st.RevertTo(chk)

	v, err := st.GetStorage(addr, key)
	assert.NoError(t, err)
	assert.Equal(t, vcc.BytesToBytes32([]byte("before")), v)
}

func TestStateEncodeDecode(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	st := New(db)

	addr := vcc.BytesToAddress([]byte("addr"))
	key := vcc.BytesToBytes32([]byte("key"))

	type payload struct {
		A uint64
		B []byte
	}

	err = st.EncodeStorage(addr, key, func() ([]byte, error) {
		return rlp.EncodeToBytes(&payload{A: 7, B: []byte("vid")})
	})
	require.NoError(t, err)

	var got payload
	err = st.DecodeStorage(addr, key, func(raw []byte) error {
		return rlp.DecodeBytes(raw, &got)
	})
	require.NoError(t, err)
	assert.Equal(t, payload{A: 7, B: []byte("vid")}, got)
}

func TestStateStageCommit(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)

	addr := vcc.BytesToAddress([]byte("addr"))
	k1 := vcc.BytesToBytes32([]byte("k1"))
	k2 := vcc.BytesToBytes32([]byte("k2"))

	st := New(db)
	st.SetStorage(addr, k1, vcc.BytesToBytes32([]byte("v1")))
	st.SetStorage(addr, k2, vcc.BytesToBytes32([]byte("v2")))
	st.SetStorage(addr, k2, vcc.Bytes32{})
	require.NoError(t, st.Stage().Commit())

	// reload from the same store
	st = New(db)
	v, err := st.GetStorage(addr, k1)
	assert.NoError(t, err)
	assert.Equal(t, vcc.BytesToBytes32([]byte("v1")), v)
	v, err = st.GetStorage(addr, k2)
	assert.NoError(t, err)
	assert.Equal(t, vcc.Bytes32{}, v)
}
