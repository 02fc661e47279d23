package marketmaking

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// MakingFormula defines the interface for implementing the formula to derive
// the amounts exchanged by an automated market making strategy.
type MakingFormula interface {
	// SpotPrice returns the marginal price (without fees) given the balances
	// of the two reserves.
	SpotPrice(opts interface{}) (spotPrice decimal.Decimal, err error)
	// OutGivenIn returns the amount of asset that leaves the reserves in
	// exchange for the given amountIn.
	OutGivenIn(opts interface{}, amountIn *big.Int) (amountOut *big.Int, err error)
	// InGivenOut returns the amount of asset that must enter the reserves for
	// having the desired amountOut in return.
	InGivenOut(opts interface{}, amountOut *big.Int) (amountIn *big.Int, err error)
	// FormulaType returns the identifier of the formula.
	FormulaType() int
}
