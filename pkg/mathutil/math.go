package mathutil

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// TenThousands is the divisor for amounts expressed in basis points.
var TenThousands = big.NewInt(10000)

var (
	zero = big.NewInt(0)
	one  = big.NewInt(1)
)

// MulDiv returns floor(x * y / z).
func MulDiv(x, y, z *big.Int) *big.Int {
	num := new(big.Int).Mul(x, y)
	return num.Quo(num, z)
}

// MulDivCeil returns ceil(x * y / z).
func MulDivCeil(x, y, z *big.Int) *big.Int {
	num := new(big.Int).Mul(x, y)
	num.Add(num, new(big.Int).Sub(z, one))
	return num.Quo(num, z)
}

// Sqrt returns the integer square root of x, ie. the greatest n with n*n <= x.
func Sqrt(x *big.Int) *big.Int {
	return new(big.Int).Sqrt(x)
}

// Min returns the smaller of x and y.
func Min(x, y *big.Int) *big.Int {
	if x.Cmp(y) <= 0 {
		return new(big.Int).Set(x)
	}
	return new(big.Int).Set(y)
}

// IsZeroOrNegative returns whether the given amount is unusable as a quantity.
// A nil amount counts as zero.
func IsZeroOrNegative(x *big.Int) bool {
	return x == nil || x.Cmp(zero) <= 0
}

// DecimalFromBig converts an arbitrary width integer to decimal.Decimal.
func DecimalFromBig(x *big.Int) decimal.Decimal {
	return decimal.NewFromBigInt(x, 0)
}
