// Copyright (c) 2025 The VideoCoin developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/videocoin-2/videocoin-contracts/contracts/params"
	engine "github.com/videocoin-2/videocoin-contracts/contracts/staking"
	"github.com/videocoin-2/videocoin-contracts/contracts/token"
	"github.com/videocoin-2/videocoin-contracts/lvldb"
	"github.com/videocoin-2/videocoin-contracts/state"
	"github.com/videocoin-2/videocoin-contracts/vcc"
)

const (
	testMinSelfStake   = 1000
	testApprovalPeriod = 100
)

var (
	owner      = vcc.BytesToAddress([]byte("owner"))
	slashPool  = vcc.BytesToAddress([]byte("slash-pool"))
	transcoder = vcc.BytesToAddress([]byte("transcoder"))
)

type testServer struct {
	t      *testing.T
	stk    *engine.Staking
	params *params.Params
	token  *token.Token
	url    string
}

func newServer(t *testing.T) *testServer {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	st := state.New(db)

	param := params.New(vcc.BytesToAddress([]byte("params")), st)
	require.NoError(t, param.Initialize(owner, params.Config{
		MinDelegation:   big.NewInt(100),
		MinSelfStake:    big.NewInt(testMinSelfStake),
		ApprovalPeriod:  testApprovalPeriod,
		UnbondingPeriod: 1000,
		SlashRate:       50,
		SlashPool:       slashPool,
	}))

	tok := token.New(vcc.BytesToAddress([]byte("token")), st)
	stk := engine.New(vcc.BytesToAddress([]byte("stkng")), st, param, tok, nil)

	var logLevel slog.LevelVar
	router := mux.NewRouter()
	New(stk, param, owner, &logLevel).Mount(router, "/admin")
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testServer{
		t:      t,
		stk:    stk,
		params: param,
		token:  tok,
		url:    server.URL,
	}
}

// registerBonded registers the transcoder with its minimum self stake and
// returns a timestamp at which it is BONDED.
func (ts *testServer) registerBonded(addr vcc.Address, registeredAt uint64) (bondedAt uint64) {
	require.NoError(ts.t, ts.token.Mint(addr, big.NewInt(testMinSelfStake)))
	require.NoError(ts.t, ts.token.Approve(addr, ts.stk.Address(), big.NewInt(testMinSelfStake)))
	require.NoError(ts.t, ts.stk.RegisterTranscoder(addr, 10, registeredAt))
	require.NoError(ts.t, ts.stk.Delegate(addr, addr, big.NewInt(testMinSelfStake), registeredAt))
	return registeredAt + testApprovalPeriod
}

func (ts *testServer) httpGet(path string) (int, []byte) {
	resp, err := http.Get(ts.url + path)
	require.NoError(ts.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(ts.t, err)
	return resp.StatusCode, body
}

func (ts *testServer) httpPost(path string, obj interface{}) (int, []byte) {
	var body []byte
	if obj != nil {
		var err error
		body, err = json.Marshal(obj)
		require.NoError(ts.t, err)
	}
	resp, err := http.Post(ts.url+path, "application/json", bytes.NewReader(body))
	require.NoError(ts.t, err)
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	require.NoError(ts.t, err)
	return resp.StatusCode, respBody
}

func (ts *testServer) httpDelete(path string) int {
	req, err := http.NewRequest(http.MethodDelete, ts.url+path, nil)
	require.NoError(ts.t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(ts.t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestLogLevel(t *testing.T) {
	ts := newServer(t)

	status, body := ts.httpGet("/admin/loglevel")
	require.Equal(t, http.StatusOK, status)

	var level LogLevelResponse
	require.NoError(t, json.Unmarshal(body, &level))
	assert.Equal(t, "INFO", level.CurrentLevel)

	status, body = ts.httpPost("/admin/loglevel", &LogLevelRequest{Level: "debug"})
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &level))
	assert.Equal(t, "DEBUG", level.CurrentLevel)

	status, _ = ts.httpPost("/admin/loglevel", &LogLevelRequest{Level: "loud"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSetConfig(t *testing.T) {
	ts := newServer(t)

	period := uint64(500)
	rate := uint64(25)
	status, _ := ts.httpPost("/admin/config", &ConfigUpdate{
		MinDelegation:   big.NewInt(250),
		UnbondingPeriod: &period,
		SlashRate:       &rate,
	})
	require.Equal(t, http.StatusOK, status)

	minDelegation, err := ts.params.MinDelegation()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(250), minDelegation)
	unbondingPeriod, err := ts.params.UnbondingPeriod()
	require.NoError(t, err)
	assert.Equal(t, period, unbondingPeriod)
	slashRate, err := ts.params.SlashRate()
	require.NoError(t, err)
	assert.Equal(t, rate, slashRate)

	badRate := uint64(101)
	status, _ = ts.httpPost("/admin/config", &ConfigUpdate{SlashRate: &badRate})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestManagers(t *testing.T) {
	ts := newServer(t)
	manager := vcc.BytesToAddress([]byte("manager"))

	status, _ := ts.httpPost("/admin/managers", &managerRequest{Address: manager})
	require.Equal(t, http.StatusOK, status)

	isManager, err := ts.params.IsManager(manager)
	require.NoError(t, err)
	assert.True(t, isManager)

	status = ts.httpDelete("/admin/managers/" + manager.String())
	require.Equal(t, http.StatusOK, status)

	isManager, err = ts.params.IsManager(manager)
	require.NoError(t, err)
	assert.False(t, isManager)
}

func TestJailUnjail(t *testing.T) {
	ts := newServer(t)
	bondedAt := ts.registerBonded(transcoder, 1000)

	status, _ := ts.httpPost(fmt.Sprintf("/admin/transcoders/%s/jail?now=%d", transcoder, bondedAt), nil)
	require.Equal(t, http.StatusOK, status)

	jailed, err := ts.stk.IsJailed(transcoder)
	require.NoError(t, err)
	assert.True(t, jailed)

	status, _ = ts.httpPost(fmt.Sprintf("/admin/transcoders/%s/unjail?now=%d", transcoder, bondedAt), nil)
	require.Equal(t, http.StatusOK, status)

	jailed, err = ts.stk.IsJailed(transcoder)
	require.NoError(t, err)
	assert.False(t, jailed)
}

func TestSlash(t *testing.T) {
	ts := newServer(t)
	bondedAt := ts.registerBonded(transcoder, 1000)

	status, _ := ts.httpPost(fmt.Sprintf("/admin/transcoders/%s/slash?now=%d", transcoder, bondedAt), nil)
	require.Equal(t, http.StatusOK, status)

	total, err := ts.stk.GetTotalStake(transcoder)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(testMinSelfStake/2), total)

	// jailed transcoders cannot be slashed again
	status, _ = ts.httpPost(fmt.Sprintf("/admin/transcoders/%s/slash?now=%d", transcoder, bondedAt), nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSetZoneCapacity(t *testing.T) {
	ts := newServer(t)
	ts.registerBonded(transcoder, 1000)

	status, _ := ts.httpPost(fmt.Sprintf("/admin/transcoders/%s/zone", transcoder), &valueRequest{Value: big.NewInt(3)})
	require.Equal(t, http.StatusOK, status)
	status, _ = ts.httpPost(fmt.Sprintf("/admin/transcoders/%s/capacity", transcoder), &valueRequest{Value: big.NewInt(40)})
	require.Equal(t, http.StatusOK, status)

	record, err := ts.stk.GetTranscoder(transcoder)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(3), record.Zone)
	assert.Equal(t, big.NewInt(40), record.Capacity)
}
