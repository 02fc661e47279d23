package domain

import (
	"errors"
	"math/big"

	"github.com/pooldex-network/pooldex-daemon/pkg/marketmaking/formula"
	"github.com/pooldex-network/pooldex-daemon/pkg/mathutil"
)

// SwapResult describes a computed exchange against the pool reserves. The fee
// is charged on the way in, so FeeAmount is denominated in AssetIn.
type SwapResult struct {
	AssetIn   string
	AssetOut  string
	AmountIn  *big.Int
	AmountOut *big.Int
	FeeAmount *big.Int
}

// PreviewSwap computes the amount of the opposite asset given out in exchange
// for amountIn of assetIn, without mutating the pool.
func (p *Pool) PreviewSwap(assetIn string, amountIn *big.Int) (*SwapResult, error) {
	if !p.HasAsset(assetIn) {
		return nil, ErrPoolInvalidAsset
	}

	assetOut, reserveIn, reserveOut := p.Asset1, p.Reserve0, p.Reserve1
	if assetIn == p.Asset1 {
		assetOut, reserveIn, reserveOut = p.Asset0, p.Reserve1, p.Reserve0
	}

	amountOut, err := p.strategy().OutGivenIn(formula.ConstantProductOpts{
		BalanceIn:           reserveIn,
		BalanceOut:          reserveOut,
		Fee:                 uint64(p.PercentageFee),
		ChargeFeeOnTheWayIn: true,
	}, amountIn)
	if err != nil {
		if errors.Is(err, formula.ErrAmountTooLow) {
			return nil, ErrPoolInsufficientAmounts
		}
		if errors.Is(err, formula.ErrAmountTooBig) ||
			errors.Is(err, formula.ErrBalanceTooLow) {
			return nil, ErrPoolInsufficientLiquidity
		}
		return nil, err
	}

	_, fee := mathutil.LessFee(amountIn, uint64(p.PercentageFee))

	return &SwapResult{
		AssetIn:   assetIn,
		AssetOut:  assetOut,
		AmountIn:  new(big.Int).Set(amountIn),
		AmountOut: amountOut,
		FeeAmount: fee,
	}, nil
}

// Swap exchanges amountIn of assetIn for the opposite asset, enforcing the
// caller-supplied slippage bound before any mutation. After updating the
// reserves the product is compared against its pre-swap value: a decrease is
// reported as ErrPoolInvariantViolated, which the caller must treat as fatal.
func (p *Pool) Swap(
	assetIn string, amountIn, minAmountOut *big.Int,
) (*SwapResult, error) {
	result, err := p.PreviewSwap(assetIn, amountIn)
	if err != nil {
		return nil, err
	}
	if minAmountOut != nil && result.AmountOut.Cmp(minAmountOut) < 0 {
		return nil, ErrPoolSlippageExceeded
	}

	productBefore := p.InvariantProduct()

	if assetIn == p.Asset0 {
		p.Reserve0 = new(big.Int).Add(p.Reserve0, result.AmountIn)
		p.Reserve1 = new(big.Int).Sub(p.Reserve1, result.AmountOut)
	} else {
		p.Reserve1 = new(big.Int).Add(p.Reserve1, result.AmountIn)
		p.Reserve0 = new(big.Int).Sub(p.Reserve0, result.AmountOut)
	}

	if p.InvariantProduct().Cmp(productBefore) < 0 {
		return nil, ErrPoolInvariantViolated
	}

	return result, nil
}
