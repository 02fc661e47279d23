// Package formula defines the formulas that implement the MakingFormula interface
package formula

import (
	"errors"
	"math/big"

	"github.com/pooldex-network/pooldex-daemon/pkg/mathutil"
	"github.com/shopspring/decimal"
)

const ConstantProductType = 1

var (
	// ErrInvalidOptsType ...
	ErrInvalidOptsType = errors.New("opts must be of type ConstantProductOpts")
	// ErrAmountTooLow ...
	ErrAmountTooLow = errors.New("provided amount is too low")
	// ErrAmountTooBig ...
	ErrAmountTooBig = errors.New("provided amount is too big")
	// ErrBalanceTooLow ...
	ErrBalanceTooLow = errors.New("reserve balance amount is too low")
	// ErrInvalidFee ...
	ErrInvalidFee = errors.New("fee must be expressed in basis point in range [0, 10000]")
)

// ConstantProductOpts defines the parameters needed to calculate the amounts
// exchanged against a pair of reserves whose product must be preserved.
type ConstantProductOpts struct {
	BalanceIn  *big.Int
	BalanceOut *big.Int
	// Fee expressed in basis point (ie. 0.30% = 30).
	Fee uint64
	// Defines if the fee is charged on the amount entering the reserves
	// rather than on the amount leaving them.
	ChargeFeeOnTheWayIn bool
}

func (o ConstantProductOpts) validate() error {
	if o.Fee > 10000 {
		return ErrInvalidFee
	}
	if mathutil.IsZeroOrNegative(o.BalanceIn) ||
		mathutil.IsZeroOrNegative(o.BalanceOut) {
		return ErrBalanceTooLow
	}
	return nil
}

// ConstantProduct defines an AMM strategy that keeps the product of the two
// reserve balances constant across trades. All divisions are floor divisions
// on arbitrary width integers, no rounding to nearest ever happens.
type ConstantProduct struct{}

// SpotPrice calculates the marginal price (without fees) given the balances
// of the two reserves.
func (ConstantProduct) SpotPrice(_opts interface{}) (spotPrice decimal.Decimal, err error) {
	opts, ok := _opts.(ConstantProductOpts)
	if !ok {
		err = ErrInvalidOptsType
		return
	}
	if err = opts.validate(); err != nil {
		return
	}

	spotPrice = mathutil.DecimalFromBig(opts.BalanceOut).
		Div(mathutil.DecimalFromBig(opts.BalanceIn))
	return
}

// OutGivenIn returns the amountOut of asset that will be exchanged for the
// given amountIn:
//
//	amountInLessFee = floor(amountIn * (10000 - fee) / 10000)
//	amountOut = floor(amountInLessFee * balanceOut / (balanceIn + amountInLessFee))
func (ConstantProduct) OutGivenIn(
	_opts interface{}, amountIn *big.Int,
) (amountOut *big.Int, err error) {
	opts, ok := _opts.(ConstantProductOpts)
	if !ok {
		err = ErrInvalidOptsType
		return
	}
	if err = opts.validate(); err != nil {
		return
	}
	if mathutil.IsZeroOrNegative(amountIn) {
		err = ErrAmountTooLow
		return
	}

	amountInLessFee := new(big.Int).Set(amountIn)
	if opts.ChargeFeeOnTheWayIn {
		amountInLessFee, _ = mathutil.LessFee(amountIn, opts.Fee)
		if mathutil.IsZeroOrNegative(amountInLessFee) {
			err = ErrAmountTooLow
			return
		}
	}

	amount := mathutil.MulDiv(
		amountInLessFee,
		opts.BalanceOut,
		new(big.Int).Add(opts.BalanceIn, amountInLessFee),
	)
	if !opts.ChargeFeeOnTheWayIn {
		amount, _ = mathutil.LessFee(amount, opts.Fee)
	}
	if mathutil.IsZeroOrNegative(amount) {
		err = ErrAmountTooLow
		return
	}
	if amount.Cmp(opts.BalanceOut) >= 0 {
		err = ErrAmountTooBig
		return
	}

	amountOut = amount
	return
}

// InGivenOut returns the amountIn of assets that will be needed for having
// the desired amountOut in return. The division is rounded up so that the
// returned amount is always sufficient.
func (ConstantProduct) InGivenOut(
	_opts interface{}, amountOut *big.Int,
) (amountIn *big.Int, err error) {
	opts, ok := _opts.(ConstantProductOpts)
	if !ok {
		err = ErrInvalidOptsType
		return
	}
	if err = opts.validate(); err != nil {
		return
	}
	if mathutil.IsZeroOrNegative(amountOut) {
		err = ErrAmountTooLow
		return
	}
	if amountOut.Cmp(opts.BalanceOut) >= 0 {
		err = ErrAmountTooBig
		return
	}

	// with the whole input taken as fee no amountIn can buy the output
	if opts.ChargeFeeOnTheWayIn && opts.Fee == 10000 {
		err = ErrAmountTooBig
		return
	}

	amount := mathutil.MulDivCeil(
		opts.BalanceIn,
		amountOut,
		new(big.Int).Sub(opts.BalanceOut, amountOut),
	)
	if opts.ChargeFeeOnTheWayIn {
		amount, _ = mathutil.PlusFee(amount, opts.Fee)
	}
	if mathutil.IsZeroOrNegative(amount) {
		err = ErrAmountTooLow
		return
	}

	amountIn = amount
	return
}

func (ConstantProduct) FormulaType() int {
	return ConstantProductType
}
