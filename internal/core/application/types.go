package application

import (
	"math/big"

	"github.com/pooldex-network/pooldex-daemon/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PoolInfo is the read model of a pool returned by the service.
type PoolInfo struct {
	PoolId        string
	Asset0        string
	Asset1        string
	Reserve0      *big.Int
	Reserve1      *big.Int
	PercentageFee uint32
	TotalShares   *big.Int
	// Price0 is how much 1 asset0 is valued in asset1, Price1 the opposite.
	Price0 decimal.Decimal
	Price1 decimal.Decimal
}

// LiquidityInfo reports the settled amounts of a liquidity operation.
type LiquidityInfo struct {
	PoolId  string
	Amount0 *big.Int
	Amount1 *big.Int
	// Shares minted to or burned from the provider.
	Shares *big.Int
}

// SwapInfo reports the settled amounts of a swap.
type SwapInfo struct {
	PoolId    string
	AssetIn   string
	AssetOut  string
	AmountIn  *big.Int
	AmountOut *big.Int
	FeeAmount *big.Int
}

func poolInfoFromDomain(pool *domain.Pool) *PoolInfo {
	info := &PoolInfo{
		PoolId:        pool.Id,
		Asset0:        pool.Asset0,
		Asset1:        pool.Asset1,
		Reserve0:      new(big.Int).Set(pool.Reserve0),
		Reserve1:      new(big.Int).Set(pool.Reserve1),
		PercentageFee: pool.PercentageFee,
		TotalShares:   new(big.Int).Set(pool.TotalShares),
	}
	if price, err := pool.SpotPrice(); err == nil {
		info.Price0 = price.Price0
		info.Price1 = price.Price1
	}
	return info
}
