// Copyright (c) 2025 The VideoCoin developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staking implements the delegated staking engine. It is the only
// component that mutates the transcoder registry, the delegation store and
// the slash ledgers, and it does so atomically per operation.
package staking

import (
	"math/big"
	"sync"

	"github.com/pkg/errors"

	"github.com/videocoin-2/videocoin-contracts/contracts/params"
	"github.com/videocoin-2/videocoin-contracts/contracts/staking/delegation"
	"github.com/videocoin-2/videocoin-contracts/contracts/staking/registry"
	"github.com/videocoin-2/videocoin-contracts/contracts/staking/slashing"
	"github.com/videocoin-2/videocoin-contracts/contracts/storage"
	"github.com/videocoin-2/videocoin-contracts/contracts/token"
	"github.com/videocoin-2/videocoin-contracts/log"
	"github.com/videocoin-2/videocoin-contracts/state"
	"github.com/videocoin-2/videocoin-contracts/vcc"
)

var logger = log.WithContext("pkg", "staking")

var (
	ErrZeroAddress        = errors.New("zero address")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrBelowMinDelegation = errors.New("amount below minimum delegation")
	ErrManagedDelegator   = errors.New("delegator is managed")
	ErrNotManaged         = errors.New("delegator is not managed")
	ErrInsufficientStake  = errors.New("amount exceeds bonded stake")
	ErrNotSlashable       = errors.New("transcoder is not in a slashable state")
	ErrTransferFailed     = errors.New("value transfer failed")
)

// Staking orchestrates delegate/unbond/withdraw/slash/jail operations. The
// engine's own address is the escrow account holding all bonded value.
//
// The engine owns the serialization of all ledger access: the underlying
// state journal is not safe for concurrent use, so every mutating operation
// holds the write lock, every query the read lock, and out-of-engine state
// access (configuration updates, persistence flushes) goes through
// Exclusive/View.
type Staking struct {
	addr   vcc.Address
	state  *state.State
	params *params.Params
	token  token.ValueTransfer
	sink   Sink

	mu      sync.RWMutex
	pending []*Event

	registry    *registry.Service
	delegations *delegation.Service
	slashes     *slashing.Service
}

// New creates the staking engine bound to the given escrow address.
// sink may be nil, in which case events are dropped.
func New(addr vcc.Address, st *state.State, p *params.Params, vt token.ValueTransfer, sink Sink) *Staking {
	ctx := storage.NewContext(addr, st)
	return &Staking{
		addr:        addr,
		state:       st,
		params:      p,
		token:       vt,
		sink:        sink,
		registry:    registry.New(ctx),
		delegations: delegation.New(ctx),
		slashes:     slashing.New(ctx),
	}
}

// Address returns the escrow address of the engine.
func (s *Staking) Address() vcc.Address {
	return s.addr
}

// atomically runs fn against a fresh checkpoint while holding the write
// lock, and reverts every write made by fn if it fails. All mutating
// operations go through here, so a failing precondition or transfer can
// never leave a partial state change behind, and no two operations can
// interleave their checkpoints. Events posted by fn are buffered and
// delivered to the sink as one batch only once fn has succeeded; a failed
// delivery reverts the operation.
func (s *Staking) atomically(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	checkpoint := s.state.NewCheckpoint()
	s.pending = s.pending[:0]
	err := fn()
	if err == nil && len(s.pending) > 0 && s.sink != nil {
		err = s.sink.Post(s.pending)
	}
	s.pending = s.pending[:0]
	if err != nil {
		s.state.RevertTo(checkpoint)
		return err
	}
	return nil
}

// Exclusive runs fn while holding the engine's write lock. It serializes
// state access that happens outside the engine's own operations, such as
// configuration updates and persistence flushes.
func (s *Staking) Exclusive(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

// View runs fn while holding the engine's read lock. fn must not call the
// engine's locked methods.
func (s *Staking) View(fn func() error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn()
}

// RegisterTranscoder registers the caller as a transcoder. The global
// minimum self stake is snapshotted into the record.
func (s *Staking) RegisterTranscoder(caller vcc.Address, rewardRate, now uint64) error {
	logger.Debug("registering transcoder", "transcoder", caller, "rewardRate", rewardRate)
	err := s.atomically(func() error {
		if caller.IsZero() {
			return ErrZeroAddress
		}
		minSelfStake, err := s.params.MinSelfStake()
		if err != nil {
			return err
		}
		if err := s.registry.Register(caller, rewardRate, now, minSelfStake); err != nil {
			return err
		}
		return s.post(&Event{
			Name:       EventRegistration,
			Timestamp:  now,
			Transcoder: caller,
			Rate:       rewardRate,
		})
	})
	if err != nil {
		logger.Info("register transcoder failed", "transcoder", caller, "error", err)
		return err
	}
	logger.Info("registered transcoder", "transcoder", caller)
	countOp("register")
	return nil
}

// Delegate bonds amount from the caller to the transcoder. Self-service,
// rejected for managed delegators.
func (s *Staking) Delegate(delegator, transcoder vcc.Address, amount *big.Int, now uint64) error {
	logger.Debug("delegating", "delegator", delegator, "transcoder", transcoder, "amount", amount)
	err := s.atomically(func() error {
		managed, err := s.delegations.IsManaged(delegator)
		if err != nil {
			return err
		}
		if managed {
			return ErrManagedDelegator
		}
		return s.delegate(delegator, transcoder, amount, now)
	})
	if err != nil {
		logger.Info("delegate failed", "delegator", delegator, "transcoder", transcoder, "error", err)
		return err
	}
	logger.Info("delegated", "delegator", delegator, "transcoder", transcoder, "amount", amount)
	countOp("delegate")
	return nil
}

// DelegateManaged bonds amount on behalf of the delegator and flags the
// delegator as managed, disabling the self-service path. Manager only.
func (s *Staking) DelegateManaged(manager, delegator, transcoder vcc.Address, amount *big.Int, now uint64) error {
	logger.Debug("delegating managed", "manager", manager, "delegator", delegator, "transcoder", transcoder, "amount", amount)
	err := s.atomically(func() error {
		if err := s.params.RequireManager(manager); err != nil {
			return err
		}
		if delegator.IsZero() {
			return ErrZeroAddress
		}
		if err := s.delegations.SetManaged(delegator, true); err != nil {
			return err
		}
		return s.delegate(delegator, transcoder, amount, now)
	})
	if err != nil {
		logger.Info("delegate managed failed", "delegator", delegator, "transcoder", transcoder, "error", err)
		return err
	}
	logger.Info("delegated managed", "delegator", delegator, "transcoder", transcoder, "amount", amount)
	countOp("delegate_managed")
	return nil
}

func (s *Staking) delegate(delegator, transcoder vcc.Address, amount *big.Int, now uint64) error {
	if transcoder.IsZero() || delegator.IsZero() {
		return ErrZeroAddress
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	minDelegation, err := s.params.MinDelegation()
	if err != nil {
		return err
	}
	if amount.Cmp(minDelegation) < 0 {
		return ErrBelowMinDelegation
	}

	delegated, err := s.delegations.HasDelegated(delegator, transcoder)
	if err != nil {
		return err
	}
	if !delegated {
		// first touch: join the delegator list and start the slash cursor
		// at the current ledger length, so earlier slashes never apply
		if err := s.registry.AddDelegator(transcoder, delegator); err != nil {
			return err
		}
		count, err := s.slashes.Count(transcoder)
		if err != nil {
			return err
		}
		if err := s.delegations.SetCursor(delegator, transcoder, count); err != nil {
			return err
		}
	}

	settled, err := s.settle(delegator, transcoder)
	if err != nil {
		return err
	}

	ok, err := s.token.TransferFrom(s.addr, delegator, s.addr, amount)
	if err != nil {
		return err
	}
	if !ok {
		return ErrTransferFailed
	}

	if err := s.delegations.SetBonded(delegator, transcoder, new(big.Int).Add(settled, amount)); err != nil {
		return err
	}
	record, err := s.registry.GetOrCreate(transcoder)
	if err != nil {
		return err
	}
	record.TotalBonded = new(big.Int).Add(record.TotalBonded, amount)
	if err := s.registry.Update(transcoder, record); err != nil {
		return err
	}

	return s.post(&Event{
		Name:       EventDelegation,
		Timestamp:  now,
		Transcoder: transcoder,
		Delegator:  delegator,
		Amount:     amount,
	})
}

// RequestUnbonding releases amount of the caller's bonded stake. The value
// is paid out immediately unless the caller is withdrawing its own self
// stake from an actively bonded or unbonding transcoder, in which case the
// payout is deferred by the unbonding period. Self-service, rejected for
// managed delegators.
func (s *Staking) RequestUnbonding(delegator, transcoder vcc.Address, amount *big.Int, now uint64) (id uint64, err error) {
	logger.Debug("requesting unbonding", "delegator", delegator, "transcoder", transcoder, "amount", amount)
	err = s.atomically(func() error {
		managed, err := s.delegations.IsManaged(delegator)
		if err != nil {
			return err
		}
		if managed {
			return ErrManagedDelegator
		}
		id, err = s.requestUnbonding(delegator, transcoder, amount, now)
		return err
	})
	if err != nil {
		logger.Info("request unbonding failed", "delegator", delegator, "transcoder", transcoder, "error", err)
		return 0, err
	}
	logger.Info("requested unbonding", "delegator", delegator, "transcoder", transcoder, "amount", amount, "id", id)
	countOp("request_unbonding")
	return id, nil
}

// RequestUnbondingManaged releases bonded stake of a managed delegator.
// Manager only.
func (s *Staking) RequestUnbondingManaged(manager, delegator, transcoder vcc.Address, amount *big.Int, now uint64) (id uint64, err error) {
	logger.Debug("requesting managed unbonding", "manager", manager, "delegator", delegator, "transcoder", transcoder, "amount", amount)
	err = s.atomically(func() error {
		if err := s.params.RequireManager(manager); err != nil {
			return err
		}
		managed, err := s.delegations.IsManaged(delegator)
		if err != nil {
			return err
		}
		if !managed {
			return ErrNotManaged
		}
		id, err = s.requestUnbonding(delegator, transcoder, amount, now)
		return err
	})
	if err != nil {
		logger.Info("request managed unbonding failed", "delegator", delegator, "transcoder", transcoder, "error", err)
		return 0, err
	}
	logger.Info("requested managed unbonding", "delegator", delegator, "transcoder", transcoder, "amount", amount, "id", id)
	countOp("request_unbonding_managed")
	return id, nil
}

func (s *Staking) requestUnbonding(delegator, transcoder vcc.Address, amount *big.Int, now uint64) (uint64, error) {
	if transcoder.IsZero() || delegator.IsZero() {
		return 0, ErrZeroAddress
	}
	if amount == nil || amount.Sign() <= 0 {
		return 0, ErrInvalidAmount
	}

	settled, err := s.settle(delegator, transcoder)
	if err != nil {
		return 0, err
	}
	if amount.Cmp(settled) > 0 {
		return 0, ErrInsufficientStake
	}

	record, err := s.registry.GetOrCreate(transcoder)
	if err != nil {
		return 0, err
	}
	// the decision below depends on the state before this request
	transcoderState, err := s.deriveState(transcoder, record, now)
	if err != nil {
		return 0, err
	}

	if err := s.delegations.SetBonded(delegator, transcoder, new(big.Int).Sub(settled, amount)); err != nil {
		return 0, err
	}
	record.TotalBonded = new(big.Int).Sub(record.TotalBonded, amount)
	if record.TotalBonded.Sign() < 0 {
		// settled positions can only undershoot the aggregate, never
		// overshoot it; guard the encoding anyway
		record.TotalBonded = new(big.Int)
	}
	if err := s.registry.Update(transcoder, record); err != nil {
		return 0, err
	}

	immediate := transcoderState == StateBonding ||
		transcoderState == StateUnbonded ||
		delegator != transcoder

	readyAt := now
	if !immediate {
		unbondingPeriod, err := s.params.UnbondingPeriod()
		if err != nil {
			return 0, err
		}
		readyAt = now + unbondingPeriod
	}

	id, err := s.delegations.AddRequest(delegator, transcoder, readyAt, amount)
	if err != nil {
		return 0, err
	}
	if err := s.post(&Event{
		Name:       EventUnbondingReq,
		Timestamp:  now,
		Transcoder: transcoder,
		Delegator:  delegator,
		Amount:     amount,
		RequestID:  id,
		ReadyAt:    readyAt,
	}); err != nil {
		return 0, err
	}

	if immediate {
		ok, err := s.withdrawStake(delegator, id, now)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, errors.New("immediate withdrawal not ready")
		}
	}
	return id, nil
}

// WithdrawPending claims the unbonding request with the given id. It reports
// false without error if the request is already withdrawn or not yet ready.
func (s *Staking) WithdrawPending(delegator vcc.Address, id uint64, now uint64) (withdrawn bool, err error) {
	logger.Debug("withdrawing pending", "delegator", delegator, "id", id)
	err = s.atomically(func() error {
		withdrawn, err = s.withdrawStake(delegator, id, now)
		return err
	})
	if err != nil {
		logger.Info("withdraw pending failed", "delegator", delegator, "id", id, "error", err)
		return false, err
	}
	if withdrawn {
		logger.Info("withdrew pending", "delegator", delegator, "id", id)
		countOp("withdraw_pending")
	}
	return withdrawn, nil
}

// WithdrawAllPending claims ready requests in creation order, starting at the
// pending cursor and stopping at the first request that is not ready yet.
// It returns the number of requests paid out.
func (s *Staking) WithdrawAllPending(delegator vcc.Address, now uint64) (withdrawn int, err error) {
	logger.Debug("withdrawing all pending", "delegator", delegator)
	err = s.atomically(func() error {
		cursor, err := s.delegations.PendingCursor(delegator)
		if err != nil {
			return err
		}
		next, err := s.delegations.NextRequestID(delegator)
		if err != nil {
			return err
		}
		for id := cursor; id < next; id++ {
			request, err := s.delegations.GetRequest(delegator, id)
			if err != nil {
				return err
			}
			if request == nil {
				return errors.Errorf("missing unbonding request %d", id)
			}
			if request.Withdrawn() {
				if err := s.delegations.SetPendingCursor(delegator, id+1); err != nil {
					return err
				}
				continue
			}
			if request.ReadyAt > now {
				break
			}
			if _, err := s.withdrawStake(delegator, id, now); err != nil {
				return err
			}
			withdrawn++
		}
		return nil
	})
	if err != nil {
		logger.Info("withdraw all pending failed", "delegator", delegator, "error", err)
		return 0, err
	}
	logger.Info("withdrew all pending", "delegator", delegator, "count", withdrawn)
	countOp("withdraw_all_pending")
	return withdrawn, nil
}

// withdrawStake pays out a single request. The not-ready and already
// withdrawn outcomes are reported as false rather than errors so the batch
// loop can stop early. The request is zeroed and the cursor advanced before
// the outbound transfer.
func (s *Staking) withdrawStake(delegator vcc.Address, id, now uint64) (bool, error) {
	request, err := s.delegations.GetRequest(delegator, id)
	if err != nil {
		return false, err
	}
	if request == nil || request.Withdrawn() || request.ReadyAt > now {
		return false, nil
	}
	amount := request.Amount

	if err := s.delegations.ZeroRequest(delegator, id); err != nil {
		return false, err
	}
	cursor, err := s.delegations.PendingCursor(delegator)
	if err != nil {
		return false, err
	}
	if id == cursor {
		if err := s.delegations.SetPendingCursor(delegator, id+1); err != nil {
			return false, err
		}
	}

	ok, err := s.token.Transfer(s.addr, delegator, amount)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, ErrTransferFailed
	}

	if err := s.post(&Event{
		Name:       EventWithdrawal,
		Timestamp:  now,
		Transcoder: request.Transcoder,
		Delegator:  delegator,
		Amount:     amount,
		RequestID:  id,
	}); err != nil {
		return false, err
	}
	return true, nil
}

// Slash punishes a bonded or unbonding transcoder: its aggregate bonded
// value is cut by the global slash rate, the cut is forwarded to the slash
// pool and the transcoder is jailed. Each delegator's individual position is
// reduced later, on its next touch. Manager only.
func (s *Staking) Slash(manager, transcoder vcc.Address, now uint64) error {
	logger.Debug("slashing", "transcoder", transcoder)
	err := s.atomically(func() error {
		if err := s.params.RequireManager(manager); err != nil {
			return err
		}
		record, err := s.registry.MustGet(transcoder)
		if err != nil {
			return err
		}
		transcoderState, err := s.deriveState(transcoder, record, now)
		if err != nil {
			return err
		}
		if transcoderState != StateBonded && transcoderState != StateUnbonding {
			return ErrNotSlashable
		}
		rate, err := s.params.SlashRate()
		if err != nil {
			return err
		}
		penalty := new(big.Int).Mul(record.TotalBonded, new(big.Int).SetUint64(rate))
		penalty.Div(penalty, big.NewInt(100))

		record.TotalBonded = new(big.Int).Sub(record.TotalBonded, penalty)
		record.Jailed = true
		if err := s.registry.Update(transcoder, record); err != nil {
			return err
		}
		if _, err := s.slashes.Append(transcoder, now, rate); err != nil {
			return err
		}

		pool, err := s.params.SlashPool()
		if err != nil {
			return err
		}
		ok, err := s.token.Transfer(s.addr, pool, penalty)
		if err != nil {
			return err
		}
		if !ok {
			return ErrTransferFailed
		}

		if err := s.post(&Event{
			Name:       EventSlash,
			Timestamp:  now,
			Transcoder: transcoder,
			Amount:     penalty,
			Rate:       rate,
		}); err != nil {
			return err
		}
		return s.post(&Event{Name: EventJail, Timestamp: now, Transcoder: transcoder})
	})
	if err != nil {
		logger.Info("slash failed", "transcoder", transcoder, "error", err)
		return err
	}
	logger.Info("slashed", "transcoder", transcoder)
	countOp("slash")
	return nil
}

// Jail gates the transcoder out of the state machine. Manager only.
func (s *Staking) Jail(manager, transcoder vcc.Address, now uint64) error {
	logger.Debug("jailing", "transcoder", transcoder)
	err := s.atomically(func() error {
		if err := s.params.RequireManager(manager); err != nil {
			return err
		}
		record, err := s.registry.MustGet(transcoder)
		if err != nil {
			return err
		}
		record.Jailed = true
		if err := s.registry.Update(transcoder, record); err != nil {
			return err
		}
		return s.post(&Event{Name: EventJail, Timestamp: now, Transcoder: transcoder})
	})
	if err != nil {
		logger.Info("jail failed", "transcoder", transcoder, "error", err)
		return err
	}
	logger.Info("jailed", "transcoder", transcoder)
	countOp("jail")
	return nil
}

// Unjail clears the jailed flag. The transcoder re-derives BONDING and must
// re-earn bonded status; bonded amounts are not restored. Manager only.
func (s *Staking) Unjail(manager, transcoder vcc.Address, now uint64) error {
	logger.Debug("unjailing", "transcoder", transcoder)
	err := s.atomically(func() error {
		if err := s.params.RequireManager(manager); err != nil {
			return err
		}
		record, err := s.registry.MustGet(transcoder)
		if err != nil {
			return err
		}
		record.Jailed = false
		if err := s.registry.Update(transcoder, record); err != nil {
			return err
		}
		return s.post(&Event{Name: EventUnjail, Timestamp: now, Transcoder: transcoder})
	})
	if err != nil {
		logger.Info("unjail failed", "transcoder", transcoder, "error", err)
		return err
	}
	logger.Info("unjailed", "transcoder", transcoder)
	countOp("unjail")
	return nil
}

// SetZone updates the transcoder's zone metadata. Manager only.
func (s *Staking) SetZone(manager, transcoder vcc.Address, zone *big.Int) error {
	return s.atomically(func() error {
		if err := s.params.RequireManager(manager); err != nil {
			return err
		}
		record, err := s.registry.MustGet(transcoder)
		if err != nil {
			return err
		}
		record.Zone = zone
		return s.registry.Update(transcoder, record)
	})
}

// SetCapacity updates the transcoder's capacity metadata. Manager only.
func (s *Staking) SetCapacity(manager, transcoder vcc.Address, capacity *big.Int) error {
	return s.atomically(func() error {
		if err := s.params.RequireManager(manager); err != nil {
			return err
		}
		record, err := s.registry.MustGet(transcoder)
		if err != nil {
			return err
		}
		record.Capacity = capacity
		return s.registry.Update(transcoder, record)
	})
}

// AddManager grants the manager capability. Owner only.
func (s *Staking) AddManager(caller, manager vcc.Address, now uint64) error {
	return s.atomically(func() error {
		if err := s.params.AddManager(caller, manager); err != nil {
			return err
		}
		return s.post(&Event{Name: EventManagerAdded, Timestamp: now, Delegator: manager})
	})
}

// RemoveManager revokes the manager capability. Owner only.
func (s *Staking) RemoveManager(caller, manager vcc.Address, now uint64) error {
	return s.atomically(func() error {
		if err := s.params.RemoveManager(caller, manager); err != nil {
			return err
		}
		return s.post(&Event{Name: EventManagerRemoved, Timestamp: now, Delegator: manager})
	})
}

// settle applies the transcoder's not yet settled slash events to the
// delegator's bonded amount and advances the cursor, persisting both. The
// aggregate value already left the escrow at slash time, so no transfer
// happens here. Returns the settled bonded amount.
func (s *Staking) settle(delegator, transcoder vcc.Address) (*big.Int, error) {
	bonded, err := s.delegations.Bonded(delegator, transcoder)
	if err != nil {
		return nil, err
	}
	cursor, err := s.delegations.Cursor(delegator, transcoder)
	if err != nil {
		return nil, err
	}
	count, err := s.slashes.Count(transcoder)
	if err != nil {
		return nil, err
	}
	if cursor >= count {
		return bonded, nil
	}
	settled, err := s.settledAmount(bonded, transcoder, cursor)
	if err != nil {
		return nil, err
	}
	if err := s.delegations.SetBonded(delegator, transcoder, settled); err != nil {
		return nil, err
	}
	if err := s.delegations.SetCursor(delegator, transcoder, count); err != nil {
		return nil, err
	}
	return settled, nil
}

// settledAmount applies each pending slash rate to the running balance, so
// successive slashes compound instead of summing against the principal. Each
// cut rounds up while the aggregate penalty taken at slash time rounds down,
// keeping the sum of settled positions within the transcoder's TotalBonded
// for any split of the stake.
func (s *Staking) settledAmount(bonded *big.Int, transcoder vcc.Address, cursor uint64) (*big.Int, error) {
	remaining := new(big.Int).Set(bonded)
	err := s.slashes.Range(transcoder, cursor, func(_ uint64, ev *slashing.Event) error {
		cut := new(big.Int).Mul(remaining, new(big.Int).SetUint64(ev.Rate))
		cut.Add(cut, big.NewInt(99))
		cut.Div(cut, big.NewInt(100))
		remaining.Sub(remaining, cut)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return remaining, nil
}

// deriveState computes the transcoder's lifecycle state from the ledgers and
// the clock.
func (s *Staking) deriveState(transcoder vcc.Address, record *registry.Transcoder, now uint64) (TranscoderState, error) {
	if record == nil || record.RegisteredAt == 0 {
		return StateUnregistered, nil
	}
	if record.Jailed {
		return StateUnbonded, nil
	}
	approvalPeriod, err := s.params.ApprovalPeriod()
	if err != nil {
		return StateUnregistered, err
	}
	if now < record.RegisteredAt+approvalPeriod {
		return StateBonding, nil
	}
	selfStake, err := s.settledView(transcoder, transcoder)
	if err != nil {
		return StateUnregistered, err
	}
	if selfStake.Cmp(record.EffectiveMinSelfStake) >= 0 {
		return StateBonded, nil
	}
	// self stake may be in flight: count own pending, not yet ready
	// requests that target the transcoder itself
	inFlight, err := s.inFlightSelfStake(transcoder, now)
	if err != nil {
		return StateUnregistered, err
	}
	minSelfStake, err := s.params.MinSelfStake()
	if err != nil {
		return StateUnregistered, err
	}
	if new(big.Int).Add(inFlight, selfStake).Cmp(minSelfStake) >= 0 {
		return StateUnbonding, nil
	}
	return StateBonding, nil
}

func (s *Staking) inFlightSelfStake(transcoder vcc.Address, now uint64) (*big.Int, error) {
	cursor, err := s.delegations.PendingCursor(transcoder)
	if err != nil {
		return nil, err
	}
	next, err := s.delegations.NextRequestID(transcoder)
	if err != nil {
		return nil, err
	}
	inFlight := new(big.Int)
	for id := cursor; id < next; id++ {
		request, err := s.delegations.GetRequest(transcoder, id)
		if err != nil {
			return nil, err
		}
		if request == nil || request.Withdrawn() {
			continue
		}
		if request.Transcoder == transcoder && request.ReadyAt > now {
			inFlight.Add(inFlight, request.Amount)
		}
	}
	return inFlight, nil
}

// settledView computes the settled bonded amount without writing, so
// read-only queries stay correct between settlements.
func (s *Staking) settledView(delegator, transcoder vcc.Address) (*big.Int, error) {
	bonded, err := s.delegations.Bonded(delegator, transcoder)
	if err != nil {
		return nil, err
	}
	cursor, err := s.delegations.Cursor(delegator, transcoder)
	if err != nil {
		return nil, err
	}
	return s.settledAmount(bonded, transcoder, cursor)
}
