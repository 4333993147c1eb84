// Copyright (c) 2025 The VideoCoin developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/videocoin-2/videocoin-contracts/contracts/params"
	"github.com/videocoin-2/videocoin-contracts/contracts/token"
	"github.com/videocoin-2/videocoin-contracts/lvldb"
	"github.com/videocoin-2/videocoin-contracts/state"
	"github.com/videocoin-2/videocoin-contracts/vcc"
)

const (
	testMinDelegation   = 100
	testMinSelfStake    = 1000
	testApprovalPeriod  = 100
	testUnbondingPeriod = 1000
	testSlashRate       = 50
)

var (
	owner     = vcc.BytesToAddress([]byte("owner"))
	manager   = vcc.BytesToAddress([]byte("manager"))
	slashPool = vcc.BytesToAddress([]byte("slash-pool"))
	stranger  = vcc.BytesToAddress([]byte("stranger"))
)

// memSink collects events in memory for assertions.
type memSink struct {
	events []*Event
}

func (m *memSink) Post(events []*Event) error {
	m.events = append(m.events, events...)
	return nil
}

func (m *memSink) last() *Event {
	if len(m.events) == 0 {
		return nil
	}
	return m.events[len(m.events)-1]
}

func (m *memSink) byName(name string) []*Event {
	var out []*Event
	for _, ev := range m.events {
		if ev.Name == name {
			out = append(out, ev)
		}
	}
	return out
}

type StakingTest struct {
	*Staking
	t      *testing.T
	token  *token.Token
	params *params.Params
	state  *state.State
	sink   *memSink
}

func newTest(t *testing.T) *StakingTest {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	st := state.New(db)

	param := params.New(vcc.BytesToAddress([]byte("params")), st)
	require.NoError(t, param.Initialize(owner, params.Config{
		MinDelegation:   big.NewInt(testMinDelegation),
		MinSelfStake:    big.NewInt(testMinSelfStake),
		ApprovalPeriod:  testApprovalPeriod,
		UnbondingPeriod: testUnbondingPeriod,
		SlashRate:       testSlashRate,
		SlashPool:       slashPool,
	}))
	require.NoError(t, param.AddManager(owner, manager))

	tok := token.New(vcc.BytesToAddress([]byte("token")), st)
	sink := &memSink{}
	engine := New(vcc.BytesToAddress([]byte("stkng")), st, param, tok, sink)

	return &StakingTest{
		Staking: engine,
		t:       t,
		token:   tok,
		params:  param,
		state:   st,
		sink:    sink,
	}
}

// fund mints value to the account and lets the engine pull it.
func (ts *StakingTest) fund(addr vcc.Address, amount int64) {
	require.NoError(ts.t, ts.token.Mint(addr, big.NewInt(amount)))
	require.NoError(ts.t, ts.token.Approve(addr, ts.Address(), big.NewInt(amount)))
}

func (ts *StakingTest) balance(addr vcc.Address) *big.Int {
	balance, err := ts.token.BalanceOf(addr)
	require.NoError(ts.t, err)
	return balance
}

func (ts *StakingTest) mustState(transcoder vcc.Address, now uint64) TranscoderState {
	transcoderState, err := ts.GetTranscoderState(transcoder, now)
	require.NoError(ts.t, err)
	return transcoderState
}

func (ts *StakingTest) mustDelegatorStake(delegator, transcoder vcc.Address) *big.Int {
	stake, err := ts.GetDelegatorStake(delegator, transcoder)
	require.NoError(ts.t, err)
	return stake
}

func (ts *StakingTest) mustTotalStake(transcoder vcc.Address) *big.Int {
	total, err := ts.GetTotalStake(transcoder)
	require.NoError(ts.t, err)
	return total
}

// registerBonded registers the transcoder, bonds its own minimum self stake
// and returns a timestamp past the approval period at which it is BONDED.
func (ts *StakingTest) registerBonded(transcoder vcc.Address, registeredAt uint64) (bondedAt uint64) {
	ts.fund(transcoder, testMinSelfStake)
	require.NoError(ts.t, ts.RegisterTranscoder(transcoder, 10, registeredAt))
	require.NoError(ts.t, ts.Delegate(transcoder, transcoder, big.NewInt(testMinSelfStake), registeredAt))
	return registeredAt + testApprovalPeriod
}
