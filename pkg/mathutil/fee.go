package mathutil

import "math/big"

// LessFee subtracts a fee expressed in basis point (ie. 0.25% = 25) from the
// given amount. The remainder is floored, matching the on-the-way-in fee
// charge of the swap formula.
func LessFee(amount *big.Int, feeAsBasisPoint uint64) (lessFee, calculatedFee *big.Int) {
	keepBps := new(big.Int).Sub(TenThousands, new(big.Int).SetUint64(feeAsBasisPoint))
	lessFee = MulDiv(amount, keepBps, TenThousands)
	calculatedFee = new(big.Int).Sub(amount, lessFee)
	return
}

// PlusFee grosses up the given amount so that subtracting a fee expressed in
// basis point from the result yields at least the original amount.
func PlusFee(amount *big.Int, feeAsBasisPoint uint64) (plusFee, calculatedFee *big.Int) {
	keepBps := new(big.Int).Sub(TenThousands, new(big.Int).SetUint64(feeAsBasisPoint))
	plusFee = MulDivCeil(amount, TenThousands, keepBps)
	calculatedFee = new(big.Int).Sub(plusFee, amount)
	return
}
