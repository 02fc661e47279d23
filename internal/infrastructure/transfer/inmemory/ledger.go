package inmemory

import (
	"context"
	"math/big"
	"sync"

	"github.com/pooldex-network/pooldex-daemon/internal/core/ports"
)

// Ledger is an in memory implementation of the ports.TransferService: a
// balance and allowance table per asset, with the AMM custody modeled as a
// dedicated account. It stands in for the external fungible-asset accounting
// in the daemon and in tests.
type Ledger struct {
	custodyAccount string
	balances       map[string]map[string]*big.Int
	allowances     map[string]map[string]*big.Int

	lock *sync.RWMutex
}

// NewLedger returns an empty ledger whose custody account is named by the
// given identifier.
func NewLedger(custodyAccount string) *Ledger {
	return &Ledger{
		custodyAccount: custodyAccount,
		balances:       map[string]map[string]*big.Int{},
		allowances:     map[string]map[string]*big.Int{},
		lock:           &sync.RWMutex{},
	}
}

// Mint credits the holder balance for the given asset. Test and bootstrap
// helper, not part of the TransferService interface.
func (l *Ledger) Mint(asset, holder string, amount *big.Int) {
	l.lock.Lock()
	defer l.lock.Unlock()

	l.credit(l.balances, asset, holder, amount)
}

// Approve authorizes the custody account to pull up to amount of asset from
// the owner. It replaces any previous allowance.
func (l *Ledger) Approve(asset, owner string, amount *big.Int) {
	l.lock.Lock()
	defer l.lock.Unlock()

	if _, ok := l.allowances[asset]; !ok {
		l.allowances[asset] = map[string]*big.Int{}
	}
	l.allowances[asset][owner] = new(big.Int).Set(amount)
}

// BalanceOf returns the holder balance for the given asset.
func (l *Ledger) BalanceOf(asset, holder string) *big.Int {
	l.lock.RLock()
	defer l.lock.RUnlock()

	return l.balanceOf(asset, holder)
}

func (l *Ledger) Pull(
	_ context.Context, asset, owner string, amount *big.Int,
) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	allowance := l.allowanceOf(asset, owner)
	if allowance.Cmp(amount) < 0 {
		return ports.ErrInsufficientAllowance
	}
	balance := l.balanceOf(asset, owner)
	if balance.Cmp(amount) < 0 {
		return ports.ErrInsufficientBalance
	}

	l.allowances[asset][owner] = allowance.Sub(allowance, amount)
	l.balances[asset][owner] = balance.Sub(balance, amount)
	l.credit(l.balances, asset, l.custodyAccount, amount)
	return nil
}

func (l *Ledger) Push(
	_ context.Context, asset, recipient string, amount *big.Int,
) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	balance := l.balanceOf(asset, l.custodyAccount)
	if balance.Cmp(amount) < 0 {
		return ports.ErrInsufficientBalance
	}

	l.balances[asset][l.custodyAccount] = balance.Sub(balance, amount)
	l.credit(l.balances, asset, recipient, amount)
	return nil
}

func (l *Ledger) balanceOf(asset, holder string) *big.Int {
	if holders, ok := l.balances[asset]; ok {
		if balance, ok := holders[holder]; ok {
			return new(big.Int).Set(balance)
		}
	}
	return big.NewInt(0)
}

func (l *Ledger) allowanceOf(asset, owner string) *big.Int {
	if owners, ok := l.allowances[asset]; ok {
		if allowance, ok := owners[owner]; ok {
			return new(big.Int).Set(allowance)
		}
	}
	return big.NewInt(0)
}

func (l *Ledger) credit(
	table map[string]map[string]*big.Int, asset, holder string, amount *big.Int,
) {
	if _, ok := table[asset]; !ok {
		table[asset] = map[string]*big.Int{}
	}
	current, ok := table[asset][holder]
	if !ok {
		current = big.NewInt(0)
	}
	table[asset][holder] = new(big.Int).Add(current, amount)
}

// interface compliance
var _ ports.TransferService = (*Ledger)(nil)
