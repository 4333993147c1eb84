// Copyright (c) 2025 The VideoCoin developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements the value-transfer port backing the staking
// engine, a minimal fungible token ledger with balances and allowances.
package token

import (
	"math/big"

	"github.com/videocoin-2/videocoin-contracts/contracts/storage"
	"github.com/videocoin-2/videocoin-contracts/log"
	"github.com/videocoin-2/videocoin-contracts/state"
	"github.com/videocoin-2/videocoin-contracts/vcc"
)

var logger = log.WithContext("pkg", "token")

// ValueTransfer moves value between accounts. Both methods report failure by
// returning false, never by partial effect.
type ValueTransfer interface {
	// Transfer moves amount from `from` to `to`.
	Transfer(from, to vcc.Address, amount *big.Int) (bool, error)
	// TransferFrom moves amount from `from` to `to` on behalf of spender,
	// consuming spender's allowance.
	TransferFrom(spender, from, to vcc.Address, amount *big.Int) (bool, error)
}

var (
	slotBalances    = storage.Slot("token-balances")
	slotAllowances  = storage.Slot("token-allowances")
	slotTotalSupply = storage.Slot("token-total-supply")
)

// Token binder of the token ledger.
type Token struct {
	balances    *storage.Mapping[vcc.Address, *big.Int]
	allowances  *storage.Mapping[storage.PairKey, *big.Int]
	totalSupply *storage.Uint256
}

var _ ValueTransfer = (*Token)(nil)

func New(addr vcc.Address, st *state.State) *Token {
	ctx := storage.NewContext(addr, st)
	return &Token{
		balances:    storage.NewMapping[vcc.Address, *big.Int](ctx, slotBalances),
		allowances:  storage.NewMapping[storage.PairKey, *big.Int](ctx, slotAllowances),
		totalSupply: storage.NewUint256(ctx, slotTotalSupply),
	}
}

func allowanceKey(owner, spender vcc.Address) storage.PairKey {
	return storage.PairKey{A: owner, B: spender}
}

func (t *Token) balanceOf(addr vcc.Address) (*big.Int, error) {
	balance, err := t.balances.Get(addr)
	if err != nil {
		return nil, err
	}
	if balance == nil {
		return new(big.Int), nil
	}
	return balance, nil
}

// BalanceOf returns the balance of the given account.
func (t *Token) BalanceOf(addr vcc.Address) (*big.Int, error) {
	return t.balanceOf(addr)
}

// TotalSupply returns the total minted supply.
func (t *Token) TotalSupply() (*big.Int, error) {
	return t.totalSupply.Get()
}

// Allowance returns the remaining allowance granted by owner to spender.
func (t *Token) Allowance(owner, spender vcc.Address) (*big.Int, error) {
	allowance, err := t.allowances.Get(allowanceKey(owner, spender))
	if err != nil {
		return nil, err
	}
	if allowance == nil {
		return new(big.Int), nil
	}
	return allowance, nil
}

// Mint credits newly created value to the given account.
func (t *Token) Mint(to vcc.Address, amount *big.Int) error {
	balance, err := t.balanceOf(to)
	if err != nil {
		return err
	}
	if err := t.balances.Set(to, new(big.Int).Add(balance, amount)); err != nil {
		return err
	}
	if err := t.totalSupply.Add(amount); err != nil {
		return err
	}
	logger.Debug("minted", "to", to, "amount", amount)
	return nil
}

// Approve sets spender's allowance over owner's balance.
func (t *Token) Approve(owner, spender vcc.Address, amount *big.Int) error {
	return t.allowances.Set(allowanceKey(owner, spender), amount)
}

// Transfer moves amount from `from` to `to`.
// Returns false without any state change if the balance is insufficient.
func (t *Token) Transfer(from, to vcc.Address, amount *big.Int) (bool, error) {
	if amount.Sign() < 0 {
		return false, nil
	}
	fromBalance, err := t.balanceOf(from)
	if err != nil {
		return false, err
	}
	if fromBalance.Cmp(amount) < 0 {
		return false, nil
	}
	toBalance, err := t.balanceOf(to)
	if err != nil {
		return false, err
	}
	if err := t.balances.Set(from, new(big.Int).Sub(fromBalance, amount)); err != nil {
		return false, err
	}
	if err := t.balances.Set(to, new(big.Int).Add(toBalance, amount)); err != nil {
		return false, err
	}
	return true, nil
}

// TransferFrom moves amount from `from` to `to`, consuming spender's allowance.
// Returns false without any state change if the allowance or balance is insufficient.
func (t *Token) TransferFrom(spender, from, to vcc.Address, amount *big.Int) (bool, error) {
	if amount.Sign() < 0 {
		return false, nil
	}
	allowance, err := t.Allowance(from, spender)
	if err != nil {
		return false, err
	}
	if allowance.Cmp(amount) < 0 {
		return false, nil
	}
	ok, err := t.Transfer(from, to, amount)
	if err != nil || !ok {
		return ok, err
	}
	if err := t.allowances.Set(allowanceKey(from, spender), new(big.Int).Sub(allowance, amount)); err != nil {
		return false, err
	}
	return true, nil
}
