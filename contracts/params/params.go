// Copyright (c) 2025 The VideoCoin developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package params holds the global staking configuration and the owner/manager
// access control shared by the built-in contracts.
package params

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/videocoin-2/videocoin-contracts/contracts/storage"
	"github.com/videocoin-2/videocoin-contracts/log"
	"github.com/videocoin-2/videocoin-contracts/state"
	"github.com/videocoin-2/videocoin-contracts/vcc"
)

var logger = log.WithContext("pkg", "params")

var (
	ErrUnauthorized = errors.New("caller is not authorized")
	ErrInvalidRate  = errors.New("rate must be within [0, 100]")
	ErrZeroAddress  = errors.New("zero address")
)

var (
	slotOwner           = storage.Slot("params-owner")
	slotManagers        = storage.Slot("params-managers")
	slotMinDelegation   = storage.Slot("params-min-delegation")
	slotMinSelfStake    = storage.Slot("params-min-self-stake")
	slotApprovalPeriod  = storage.Slot("params-approval-period")
	slotUnbondingPeriod = storage.Slot("params-unbonding-period")
	slotSlashRate       = storage.Slot("params-slash-rate")
	slotSlashPool       = storage.Slot("params-slash-pool")
)

// Config is the initial global configuration.
type Config struct {
	MinDelegation   *big.Int
	MinSelfStake    *big.Int
	ApprovalPeriod  uint64
	UnbondingPeriod uint64
	SlashRate       uint64
	SlashPool       vcc.Address
}

// Params binds the global configuration cells to state.
type Params struct {
	owner           *storage.Address
	managers        *storage.Mapping[vcc.Address, bool]
	minDelegation   *storage.Uint256
	minSelfStake    *storage.Uint256
	approvalPeriod  *storage.Uint64
	unbondingPeriod *storage.Uint64
	slashRate       *storage.Uint64
	slashPool       *storage.Address
}

func New(addr vcc.Address, st *state.State) *Params {
	ctx := storage.NewContext(addr, st)
	return &Params{
		owner:           storage.NewAddress(ctx, slotOwner),
		managers:        storage.NewMapping[vcc.Address, bool](ctx, slotManagers),
		minDelegation:   storage.NewUint256(ctx, slotMinDelegation),
		minSelfStake:    storage.NewUint256(ctx, slotMinSelfStake),
		approvalPeriod:  storage.NewUint64(ctx, slotApprovalPeriod),
		unbondingPeriod: storage.NewUint64(ctx, slotUnbondingPeriod),
		slashRate:       storage.NewUint64(ctx, slotSlashRate),
		slashPool:       storage.NewAddress(ctx, slotSlashPool),
	}
}

// Initialize sets the owner and the initial configuration.
// The owner is also granted the manager capability.
func (p *Params) Initialize(owner vcc.Address, config Config) error {
	if owner.IsZero() {
		return ErrZeroAddress
	}
	if config.SlashRate > 100 {
		return ErrInvalidRate
	}
	p.owner.Set(owner)
	if err := p.managers.Set(owner, true); err != nil {
		return err
	}
	p.minDelegation.Set(config.MinDelegation)
	p.minSelfStake.Set(config.MinSelfStake)
	p.approvalPeriod.Set(config.ApprovalPeriod)
	p.unbondingPeriod.Set(config.UnbondingPeriod)
	p.slashRate.Set(config.SlashRate)
	p.slashPool.Set(config.SlashPool)
	logger.Info("initialized params", "owner", owner)
	return nil
}

func (p *Params) Owner() (vcc.Address, error) {
	return p.owner.Get()
}

// IsManager reports whether the given address holds the manager capability.
func (p *Params) IsManager(addr vcc.Address) (bool, error) {
	return p.managers.Get(addr)
}

func (p *Params) requireOwner(caller vcc.Address) error {
	owner, err := p.owner.Get()
	if err != nil {
		return err
	}
	if caller != owner {
		return ErrUnauthorized
	}
	return nil
}

func (p *Params) requireManager(caller vcc.Address) error {
	ok, err := p.managers.Get(caller)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}
	return nil
}

// RequireManager validates that the caller holds the manager capability.
func (p *Params) RequireManager(caller vcc.Address) error {
	return p.requireManager(caller)
}

// AddManager grants the manager capability. Owner only.
func (p *Params) AddManager(caller, manager vcc.Address) error {
	if err := p.requireOwner(caller); err != nil {
		return err
	}
	if manager.IsZero() {
		return ErrZeroAddress
	}
	if err := p.managers.Set(manager, true); err != nil {
		return err
	}
	logger.Info("added manager", "manager", manager)
	return nil
}

// RemoveManager revokes the manager capability. Owner only.
func (p *Params) RemoveManager(caller, manager vcc.Address) error {
	if err := p.requireOwner(caller); err != nil {
		return err
	}
	if err := p.managers.Delete(manager); err != nil {
		return err
	}
	logger.Info("removed manager", "manager", manager)
	return nil
}

func (p *Params) MinDelegation() (*big.Int, error) {
	return p.minDelegation.Get()
}

func (p *Params) MinSelfStake() (*big.Int, error) {
	return p.minSelfStake.Get()
}

func (p *Params) ApprovalPeriod() (uint64, error) {
	return p.approvalPeriod.Get()
}

func (p *Params) UnbondingPeriod() (uint64, error) {
	return p.unbondingPeriod.Get()
}

func (p *Params) SlashRate() (uint64, error) {
	return p.slashRate.Get()
}

func (p *Params) SlashPool() (vcc.Address, error) {
	return p.slashPool.Get()
}

// SetMinDelegation updates the delegation floor. Manager only.
func (p *Params) SetMinDelegation(caller vcc.Address, value *big.Int) error {
	if err := p.requireManager(caller); err != nil {
		return err
	}
	p.minDelegation.Set(value)
	logger.Info("set min delegation", "value", value)
	return nil
}

// SetMinSelfStake updates the self-stake floor. Manager only.
func (p *Params) SetMinSelfStake(caller vcc.Address, value *big.Int) error {
	if err := p.requireManager(caller); err != nil {
		return err
	}
	p.minSelfStake.Set(value)
	logger.Info("set min self stake", "value", value)
	return nil
}

// SetApprovalPeriod updates the registration approval period. Manager only.
func (p *Params) SetApprovalPeriod(caller vcc.Address, value uint64) error {
	if err := p.requireManager(caller); err != nil {
		return err
	}
	p.approvalPeriod.Set(value)
	logger.Info("set approval period", "value", value)
	return nil
}

// SetUnbondingPeriod updates the unbonding period. Manager only.
func (p *Params) SetUnbondingPeriod(caller vcc.Address, value uint64) error {
	if err := p.requireManager(caller); err != nil {
		return err
	}
	p.unbondingPeriod.Set(value)
	logger.Info("set unbonding period", "value", value)
	return nil
}

// SetSlashRate updates the global slash rate. Manager only.
func (p *Params) SetSlashRate(caller vcc.Address, value uint64) error {
	if err := p.requireManager(caller); err != nil {
		return err
	}
	if value > 100 {
		return ErrInvalidRate
	}
	p.slashRate.Set(value)
	logger.Info("set slash rate", "value", value)
	return nil
}

// SetSlashPool updates the slash destination address. Manager only.
func (p *Params) SetSlashPool(caller, pool vcc.Address) error {
	if err := p.requireManager(caller); err != nil {
		return err
	}
	if pool.IsZero() {
		return ErrZeroAddress
	}
	p.slashPool.Set(pool)
	logger.Info("set slash pool", "pool", pool)
	return nil
}
