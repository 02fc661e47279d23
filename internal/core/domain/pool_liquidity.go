package domain

import (
	"math/big"

	"github.com/pooldex-network/pooldex-daemon/pkg/mathutil"
)

// LiquidityDeposit describes the outcome of adding liquidity to a pool: the
// amounts actually consumed from the provider and the shares minted for them.
type LiquidityDeposit struct {
	Amount0      *big.Int
	Amount1      *big.Int
	SharesMinted *big.Int
}

// LiquidityWithdrawal describes the outcome of removing liquidity from a
// pool: the amounts released to the provider and the shares burned.
type LiquidityWithdrawal struct {
	Amount0      *big.Int
	Amount1      *big.Int
	SharesBurned *big.Int
}

// PreviewAddLiquidity computes the deposit for the given desired amounts
// without mutating the pool. The consumed amounts are bound to the current
// reserve ratio: the excess on the longer side is left with the provider so
// that a deposit never moves the pool price. A fully drained pool has no
// ratio to bind to, the deposit re-bootstraps it like a creation: both
// desired amounts are consumed in full and the mint is their geometric mean.
func (p *Pool) PreviewAddLiquidity(
	amount0Desired, amount1Desired *big.Int,
) (*LiquidityDeposit, error) {
	if mathutil.IsZeroOrNegative(amount0Desired) ||
		mathutil.IsZeroOrNegative(amount1Desired) {
		return nil, ErrPoolInsufficientAmounts
	}

	if p.TotalShares.Sign() <= 0 {
		shares := mathutil.Sqrt(new(big.Int).Mul(amount0Desired, amount1Desired))
		if shares.Sign() <= 0 {
			return nil, ErrPoolInsufficientAmounts
		}
		return &LiquidityDeposit{
			Amount0:      new(big.Int).Set(amount0Desired),
			Amount1:      new(big.Int).Set(amount1Desired),
			SharesMinted: shares,
		}, nil
	}

	amount0, amount1 := amount0Desired, amount1Desired
	amount1Optimal := mathutil.MulDiv(amount0Desired, p.Reserve1, p.Reserve0)
	if amount1Optimal.Cmp(amount1Desired) <= 0 {
		amount1 = amount1Optimal
	} else {
		amount0 = mathutil.MulDiv(amount1Desired, p.Reserve0, p.Reserve1)
	}

	shares := mathutil.Min(
		mathutil.MulDiv(amount0, p.TotalShares, p.Reserve0),
		mathutil.MulDiv(amount1, p.TotalShares, p.Reserve1),
	)
	if shares.Sign() <= 0 {
		return nil, ErrPoolInsufficientAmounts
	}

	return &LiquidityDeposit{
		Amount0:      amount0,
		Amount1:      amount1,
		SharesMinted: shares,
	}, nil
}

// AddLiquidity applies a deposit of the given desired amounts, increasing the
// reserves, the total shares and the provider balance. It returns the
// consumed amounts and the minted shares.
func (p *Pool) AddLiquidity(
	provider string, amount0Desired, amount1Desired *big.Int,
) (*LiquidityDeposit, error) {
	deposit, err := p.PreviewAddLiquidity(amount0Desired, amount1Desired)
	if err != nil {
		return nil, err
	}

	p.Reserve0 = new(big.Int).Add(p.Reserve0, deposit.Amount0)
	p.Reserve1 = new(big.Int).Add(p.Reserve1, deposit.Amount1)
	p.creditShares(provider, deposit.SharesMinted)

	return deposit, nil
}

// PreviewRemoveLiquidity computes the proportional withdrawal for the given
// share amount without mutating the pool.
func (p *Pool) PreviewRemoveLiquidity(
	provider string, shareAmount *big.Int,
) (*LiquidityWithdrawal, error) {
	if mathutil.IsZeroOrNegative(shareAmount) {
		return nil, ErrPoolInsufficientLiquidity
	}
	if p.ShareBalance(provider).Cmp(shareAmount) < 0 {
		return nil, ErrPoolInsufficientLiquidity
	}

	return &LiquidityWithdrawal{
		Amount0:      mathutil.MulDiv(p.Reserve0, shareAmount, p.TotalShares),
		Amount1:      mathutil.MulDiv(p.Reserve1, shareAmount, p.TotalShares),
		SharesBurned: new(big.Int).Set(shareAmount),
	}, nil
}

// RemoveLiquidity burns the given share amount of the provider and decreases
// the reserves by the proportional amounts, which are returned to be pushed
// out to the provider.
func (p *Pool) RemoveLiquidity(
	provider string, shareAmount *big.Int,
) (*LiquidityWithdrawal, error) {
	withdrawal, err := p.PreviewRemoveLiquidity(provider, shareAmount)
	if err != nil {
		return nil, err
	}

	if err := p.debitShares(provider, withdrawal.SharesBurned); err != nil {
		return nil, err
	}
	p.Reserve0 = new(big.Int).Sub(p.Reserve0, withdrawal.Amount0)
	p.Reserve1 = new(big.Int).Sub(p.Reserve1, withdrawal.Amount1)

	return withdrawal, nil
}
