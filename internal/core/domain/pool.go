package domain

import (
	"encoding/hex"
	"math/big"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/pooldex-network/pooldex-daemon/pkg/marketmaking"
	"github.com/pooldex-network/pooldex-daemon/pkg/marketmaking/formula"
	"github.com/pooldex-network/pooldex-daemon/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// Pool defines the entity data structure holding the state of an asset pair:
// the two reserves and the liquidity shares claiming them. A pool is created
// exactly once per unordered pair and is never deleted, reserves and shares
// can only shrink toward zero.
type Pool struct {
	// Id is deterministically derived from the canonically ordered pair.
	Id string
	// Asset0 is the lower of the two asset identifiers.
	Asset0 string
	Asset1 string
	// Reserve0, Reserve1 are the pool balances denominated in the asset's
	// smallest unit.
	Reserve0 *big.Int
	Reserve1 *big.Int
	// Percentage fee expressed in basis points, fixed for the whole system.
	PercentageFee uint32
	// Total outstanding liquidity provider shares.
	TotalShares *big.Int
	// Share amount per provider. The sum of all balances equals TotalShares.
	ShareBalances map[string]*big.Int
}

// PoolPrice reports how much one asset is valued in the other.
type PoolPrice struct {
	Price0 decimal.Decimal
	Price1 decimal.Decimal
}

// SortAssets returns the given pair in canonical order, the byte-wise lower
// identifier first.
func SortAssets(assetA, assetB string) (asset0, asset1 string) {
	if assetA < assetB {
		return assetA, assetB
	}
	return assetB, assetA
}

// DerivePoolId derives the pool identifier from a pair of assets. It is a
// pure function of the canonically ordered pair, the caller-supplied order
// cannot affect the result.
func DerivePoolId(assetA, assetB string) string {
	asset0, asset1 := SortAssets(assetA, assetB)
	return hex.EncodeToString(btcutil.Hash160([]byte(asset0 + "/" + asset1)))
}

// NewPool returns a new pool for the given pair, funded with the given
// amounts. amount0 and amount1 are denominated in the canonical asset0 and
// asset1 respectively. The initial share mint, the geometric mean of the two
// deposited amounts, goes entirely to the creator.
func NewPool(
	assetA, assetB string, percentageFee uint32,
	creator string, amount0, amount1 *big.Int,
) (*Pool, error) {
	if assetA == "" || assetB == "" || assetA == assetB {
		return nil, ErrPoolInvalidAssetPair
	}
	if !isValidPercentageFee(percentageFee) {
		return nil, ErrPoolInvalidPercentageFee
	}
	if mathutil.IsZeroOrNegative(amount0) || mathutil.IsZeroOrNegative(amount1) {
		return nil, ErrPoolInsufficientAmounts
	}

	asset0, asset1 := SortAssets(assetA, assetB)
	shares := mathutil.Sqrt(new(big.Int).Mul(amount0, amount1))
	if shares.Sign() <= 0 {
		return nil, ErrPoolInsufficientAmounts
	}

	return &Pool{
		Id:            DerivePoolId(asset0, asset1),
		Asset0:        asset0,
		Asset1:        asset1,
		Reserve0:      new(big.Int).Set(amount0),
		Reserve1:      new(big.Int).Set(amount1),
		PercentageFee: percentageFee,
		TotalShares:   shares,
		ShareBalances: map[string]*big.Int{
			creator: new(big.Int).Set(shares),
		},
	}, nil
}

// ShareBalance returns the share amount owned by the given holder, zero for
// an unknown one.
func (p *Pool) ShareBalance(holder string) *big.Int {
	if balance, ok := p.ShareBalances[holder]; ok {
		return new(big.Int).Set(balance)
	}
	return big.NewInt(0)
}

// HasAsset returns whether the given asset is one of the two traded by the pool.
func (p *Pool) HasAsset(asset string) bool {
	return asset == p.Asset0 || asset == p.Asset1
}

// InvariantProduct returns reserve0 * reserve1, the quantity a swap must not
// decrease.
func (p *Pool) InvariantProduct() *big.Int {
	return new(big.Int).Mul(p.Reserve0, p.Reserve1)
}

// SpotPrice returns the marginal price of both assets given the current
// reserves.
func (p *Pool) SpotPrice() (PoolPrice, error) {
	strategy := p.strategy()
	price0, err := strategy.SpotPrice(formula.ConstantProductOpts{
		BalanceIn:  p.Reserve0,
		BalanceOut: p.Reserve1,
	})
	if err != nil {
		return PoolPrice{}, err
	}
	price1, err := strategy.SpotPrice(formula.ConstantProductOpts{
		BalanceIn:  p.Reserve1,
		BalanceOut: p.Reserve0,
	})
	if err != nil {
		return PoolPrice{}, err
	}
	return PoolPrice{Price0: price0, Price1: price1}, nil
}

func (p *Pool) strategy() marketmaking.MakingFormula {
	return formula.ConstantProduct{}
}

func (p *Pool) creditShares(holder string, amount *big.Int) {
	if p.ShareBalances == nil {
		p.ShareBalances = map[string]*big.Int{}
	}
	balance, ok := p.ShareBalances[holder]
	if !ok {
		balance = big.NewInt(0)
	}
	p.ShareBalances[holder] = new(big.Int).Add(balance, amount)
	p.TotalShares = new(big.Int).Add(p.TotalShares, amount)
}

func (p *Pool) debitShares(holder string, amount *big.Int) error {
	balance := p.ShareBalance(holder)
	if balance.Cmp(amount) < 0 {
		return ErrPoolInsufficientLiquidity
	}
	p.ShareBalances[holder] = balance.Sub(balance, amount)
	p.TotalShares = new(big.Int).Sub(p.TotalShares, amount)
	return nil
}

func isValidPercentageFee(basisPoint uint32) bool {
	return basisPoint <= 10000
}
