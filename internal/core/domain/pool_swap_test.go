package domain_test

import (
	"math/big"
	"testing"

	"github.com/pooldex-network/pooldex-daemon/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func TestPreviewSwap(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t)
	preview, err := pool.PreviewSwap(asset0, big.NewInt(10000000))
	require.NoError(t, err)
	require.Equal(t, asset1, preview.AssetOut)
	// lessFee = floor(10000000 * 9975 / 10000) = 9975000
	// out = floor(9975000 * 400000000 / (100000000 + 9975000)) = 36280972
	require.Equal(t, "36280972", preview.AmountOut.String())
	require.Equal(t, "25000", preview.FeeAmount.String())
}

func TestSwap(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t)
	productBefore := pool.InvariantProduct()

	result, err := pool.Swap(asset0, big.NewInt(10000000), big.NewInt(36280972))
	require.NoError(t, err)
	require.Equal(t, "36280972", result.AmountOut.String())
	require.Equal(t, "110000000", pool.Reserve0.String())
	require.Equal(t, "363719028", pool.Reserve1.String())
	require.True(t, pool.InvariantProduct().Cmp(productBefore) >= 0)
}

func TestSwapOppositeDirection(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t)
	result, err := pool.Swap(asset1, big.NewInt(40000000), nil)
	require.NoError(t, err)
	require.Equal(t, asset0, result.AssetOut)
	require.True(t, pool.Reserve1.Cmp(big.NewInt(440000000)) == 0)
	require.True(t, pool.Reserve0.Cmp(big.NewInt(100000000)) < 0)
}

func TestSwapSequenceNeverDecreasesProduct(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t)
	amounts := []int64{1, 999, 10000000, 350, 99999999, 1234567}
	assetsIn := []string{asset0, asset1, asset0, asset0, asset1, asset1}

	for i, amount := range amounts {
		productBefore := pool.InvariantProduct()
		_, err := pool.Swap(assetsIn[i], big.NewInt(amount), nil)
		if err != nil {
			// dust amounts may be rejected, never applied partially
			require.EqualError(t, err, domain.ErrPoolInsufficientAmounts.Error())
			require.Zero(t, pool.InvariantProduct().Cmp(productBefore))
			continue
		}
		require.True(t, pool.InvariantProduct().Cmp(productBefore) >= 0)
	}
}

func TestFailingSwap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		assetIn       string
		amountIn      *big.Int
		minAmountOut  *big.Int
		expectedError error
	}{
		{
			name:          "invalid_asset",
			assetIn:       "bbbbbbbb",
			amountIn:      big.NewInt(10000000),
			minAmountOut:  big.NewInt(0),
			expectedError: domain.ErrPoolInvalidAsset,
		},
		{
			name:          "zero_amount",
			assetIn:       asset0,
			amountIn:      big.NewInt(0),
			minAmountOut:  big.NewInt(0),
			expectedError: domain.ErrPoolInsufficientAmounts,
		},
		{
			name:          "slippage_exceeded",
			assetIn:       asset0,
			amountIn:      big.NewInt(10000000),
			minAmountOut:  big.NewInt(36280973),
			expectedError: domain.ErrPoolSlippageExceeded,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			pool := newTestPool(t)
			reserve0 := new(big.Int).Set(pool.Reserve0)
			reserve1 := new(big.Int).Set(pool.Reserve1)

			result, err := pool.Swap(tt.assetIn, tt.amountIn, tt.minAmountOut)
			require.Nil(t, result)
			require.EqualError(t, err, tt.expectedError.Error())
			// reserves are left untouched
			require.Zero(t, pool.Reserve0.Cmp(reserve0))
			require.Zero(t, pool.Reserve1.Cmp(reserve1))
		})
	}
}

func TestSwapOnDrainedPool(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t)
	_, err := pool.RemoveLiquidity(creator, pool.ShareBalance(creator))
	require.NoError(t, err)

	// empty reserves surface as a domain error, not a formula one
	result, err := pool.Swap(asset0, big.NewInt(1000), nil)
	require.Nil(t, result)
	require.EqualError(t, err, domain.ErrPoolInsufficientLiquidity.Error())
}

func TestSwapWithZeroFeeKeepsProductStable(t *testing.T) {
	t.Parallel()

	pool, err := domain.NewPool(
		asset0, asset1, 0, creator, big.NewInt(1000), big.NewInt(1000),
	)
	require.NoError(t, err)

	// 1000 in against 1000/1000 reserves gives exactly 500 out, the product
	// is unchanged since no rounding occurs
	result, err := pool.Swap(asset0, big.NewInt(1000), nil)
	require.NoError(t, err)
	require.Equal(t, "500", result.AmountOut.String())
	require.Zero(t, pool.InvariantProduct().Cmp(big.NewInt(1000000)))
	require.Zero(t, result.FeeAmount.Sign())
}
