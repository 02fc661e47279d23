package application_test

import (
	"context"
	"encoding/json"
	"math/big"
	"strings"
	"testing"

	"github.com/pooldex-network/pooldex-daemon/internal/core/application"
	"github.com/pooldex-network/pooldex-daemon/internal/core/domain"
	"github.com/pooldex-network/pooldex-daemon/internal/core/ports"
	inmemorypubsub "github.com/pooldex-network/pooldex-daemon/internal/infrastructure/pubsub/inmemory"
	dbinmemory "github.com/pooldex-network/pooldex-daemon/internal/infrastructure/storage/db/inmemory"
	transferinmemory "github.com/pooldex-network/pooldex-daemon/internal/infrastructure/transfer/inmemory"
	"github.com/stretchr/testify/require"
)

var (
	asset0 = strings.Repeat("0", 64)
	asset1 = strings.Repeat("a", 64)

	custody  = "amm"
	creator  = "creator"
	provider = "provider"
	trader   = "trader"

	percentageFee = uint32(25)
)

func TestNewAMMService(t *testing.T) {
	t.Parallel()

	repo := dbinmemory.NewPoolRepositoryImpl()
	ledger := transferinmemory.NewLedger(custody)

	svc, err := application.NewAMMService(repo, ledger, nil, percentageFee)
	require.NoError(t, err)
	require.NotNil(t, svc)
	require.Equal(t, percentageFee, svc.PercentageFee())

	tests := []struct {
		name          string
		repo          domain.PoolRepository
		transferSvc   ports.TransferService
		fee           uint32
		expectedError error
	}{
		{
			name:          "null_pool_repository",
			repo:          nil,
			transferSvc:   ledger,
			fee:           percentageFee,
			expectedError: application.ErrNullPoolRepository,
		},
		{
			name:          "null_transfer_service",
			repo:          repo,
			transferSvc:   nil,
			fee:           percentageFee,
			expectedError: application.ErrNullTransferService,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			svc, err := application.NewAMMService(tt.repo, tt.transferSvc, nil, tt.fee)
			require.EqualError(t, err, tt.expectedError.Error())
			require.Nil(t, svc)
		})
	}

	_, err = application.NewAMMService(repo, ledger, nil, 10001)
	require.EqualError(t, err, application.ErrInvalidPercentageFee.Error())
}

func TestCreatePool(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, ledger, pubsubSvc := newTestService(t)

	// assets are passed in non-canonical order on purpose
	info, err := svc.CreatePool(
		ctx, creator, asset1, asset0, big.NewInt(100000000), big.NewInt(400000000),
	)
	require.NoError(t, err)
	require.Equal(t, domain.DerivePoolId(asset0, asset1), info.PoolId)
	require.Equal(t, asset0, info.Asset0)
	require.Equal(t, asset1, info.Asset1)
	require.Equal(t, "100000000", info.Reserve0.String())
	require.Equal(t, "400000000", info.Reserve1.String())
	require.Equal(t, percentageFee, info.PercentageFee)
	// sqrt(100000000 * 400000000)
	require.Equal(t, "200000000", info.TotalShares.String())
	require.Equal(t, "4", info.Price0.String())
	require.Equal(t, "0.25", info.Price1.String())

	require.Equal(t, "400000000", ledger.BalanceOf(asset0, creator).String())
	require.Equal(t, "100000000", ledger.BalanceOf(asset1, creator).String())
	require.Equal(t, "100000000", ledger.BalanceOf(asset0, custody).String())
	require.Equal(t, "400000000", ledger.BalanceOf(asset1, custody).String())

	shares, err := svc.GetShareBalance(ctx, info.PoolId, creator)
	require.NoError(t, err)
	require.Equal(t, "200000000", shares.String())

	messages := pubsubSvc.PublishedMessages("POOL_CREATED")
	require.Len(t, messages, 1)
	event := unmarshalEvent(t, messages[0])
	require.Equal(t, info.PoolId, event["pool_id"])
	require.Equal(t, asset0, event["asset_0"])
	require.Equal(t, asset1, event["asset_1"])

	// recreating the same pair must fail regardless of the asset order
	_, err = svc.CreatePool(
		ctx, creator, asset0, asset1, big.NewInt(1000), big.NewInt(1000),
	)
	require.EqualError(t, err, domain.ErrPoolExists.Error())
}

func TestFailingCreatePool(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	tests := []struct {
		name          string
		assetA        string
		assetB        string
		amount0       *big.Int
		amount1       *big.Int
		expectedError error
	}{
		{
			name:          "same_asset",
			assetA:        asset0,
			assetB:        asset0,
			amount0:       big.NewInt(1000),
			amount1:       big.NewInt(1000),
			expectedError: domain.ErrPoolInvalidAssetPair,
		},
		{
			name:          "zero_amount",
			assetA:        asset0,
			assetB:        asset1,
			amount0:       big.NewInt(0),
			amount1:       big.NewInt(1000),
			expectedError: domain.ErrPoolInsufficientAmounts,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestService(t)
			info, err := svc.CreatePool(
				ctx, creator, tt.assetA, tt.assetB, tt.amount0, tt.amount1,
			)
			require.EqualError(t, err, tt.expectedError.Error())
			require.Nil(t, info)
		})
	}
}

func TestCreatePoolRefundsOnPartialPull(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := dbinmemory.NewPoolRepositoryImpl()
	ledger := transferinmemory.NewLedger(custody)
	svc, err := application.NewAMMService(repo, ledger, nil, percentageFee)
	require.NoError(t, err)

	// no allowance at all for asset1, the second pull fails
	ledger.Mint(asset0, creator, big.NewInt(1000))
	ledger.Mint(asset1, creator, big.NewInt(1000))
	ledger.Approve(asset0, creator, big.NewInt(1000))

	_, err = svc.CreatePool(
		ctx, creator, asset0, asset1, big.NewInt(1000), big.NewInt(1000),
	)
	require.EqualError(t, err, ports.ErrInsufficientAllowance.Error())

	// the first pulled leg went back to the creator
	require.Equal(t, "1000", ledger.BalanceOf(asset0, creator).String())
	require.Equal(t, "1000", ledger.BalanceOf(asset1, creator).String())
	require.Zero(t, ledger.BalanceOf(asset0, custody).Sign())
}

func TestAddLiquidity(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, ledger, pubsubSvc := newTestService(t)
	poolId := createTestPool(t, svc)

	// the desired amounts exceed the pool ratio on asset1, the excess
	// 100000000 must stay with the provider
	info, err := svc.AddLiquidity(
		ctx, provider, poolId, big.NewInt(50000000), big.NewInt(300000000),
	)
	require.NoError(t, err)
	require.Equal(t, "50000000", info.Amount0.String())
	require.Equal(t, "200000000", info.Amount1.String())
	require.Equal(t, "100000000", info.Shares.String())

	require.Equal(t, "450000000", ledger.BalanceOf(asset0, provider).String())
	require.Equal(t, "300000000", ledger.BalanceOf(asset1, provider).String())

	pool, err := svc.GetPool(ctx, poolId)
	require.NoError(t, err)
	require.Equal(t, "150000000", pool.Reserve0.String())
	require.Equal(t, "600000000", pool.Reserve1.String())
	require.Equal(t, "300000000", pool.TotalShares.String())

	shares, err := svc.GetShareBalance(ctx, poolId, provider)
	require.NoError(t, err)
	require.Equal(t, "100000000", shares.String())

	messages := pubsubSvc.PublishedMessages("LIQUIDITY_ADDED")
	require.Len(t, messages, 1)
	event := unmarshalEvent(t, messages[0])
	require.Equal(t, provider, event["provider"])
	require.Equal(t, "50000000", event["amount_0"])
	require.Equal(t, "200000000", event["amount_1"])
	require.Equal(t, "100000000", event["shares_minted"])
}

func TestRemoveLiquidity(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, ledger, pubsubSvc := newTestService(t)
	poolId := createTestPool(t, svc)

	_, err := svc.AddLiquidity(
		ctx, provider, poolId, big.NewInt(50000000), big.NewInt(200000000),
	)
	require.NoError(t, err)

	info, err := svc.RemoveLiquidity(ctx, provider, poolId, big.NewInt(100000000))
	require.NoError(t, err)
	require.Equal(t, "50000000", info.Amount0.String())
	require.Equal(t, "200000000", info.Amount1.String())
	require.Equal(t, "100000000", info.Shares.String())

	// the provider got back exactly what was deposited
	require.Equal(t, "500000000", ledger.BalanceOf(asset0, provider).String())
	require.Equal(t, "500000000", ledger.BalanceOf(asset1, provider).String())

	pool, err := svc.GetPool(ctx, poolId)
	require.NoError(t, err)
	require.Equal(t, "100000000", pool.Reserve0.String())
	require.Equal(t, "400000000", pool.Reserve1.String())
	require.Equal(t, "200000000", pool.TotalShares.String())

	shares, err := svc.GetShareBalance(ctx, poolId, provider)
	require.NoError(t, err)
	require.Zero(t, shares.Sign())

	messages := pubsubSvc.PublishedMessages("LIQUIDITY_REMOVED")
	require.Len(t, messages, 1)
	event := unmarshalEvent(t, messages[0])
	require.Equal(t, "100000000", event["shares_burned"])

	// burning more than owned must fail and leave the pool untouched
	_, err = svc.RemoveLiquidity(ctx, provider, poolId, big.NewInt(1))
	require.EqualError(t, err, domain.ErrPoolInsufficientLiquidity.Error())
}

func TestSwap(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, ledger, pubsubSvc := newTestService(t)
	poolId := createTestPool(t, svc)

	info, err := svc.Swap(
		ctx, trader, poolId, asset0,
		big.NewInt(10000000), big.NewInt(36280972), trader,
	)
	require.NoError(t, err)
	require.Equal(t, asset0, info.AssetIn)
	require.Equal(t, asset1, info.AssetOut)
	require.Equal(t, "10000000", info.AmountIn.String())
	require.Equal(t, "36280972", info.AmountOut.String())
	require.Equal(t, "25000", info.FeeAmount.String())

	require.Equal(t, "490000000", ledger.BalanceOf(asset0, trader).String())
	require.Equal(t, "536280972", ledger.BalanceOf(asset1, trader).String())

	pool, err := svc.GetPool(ctx, poolId)
	require.NoError(t, err)
	require.Equal(t, "110000000", pool.Reserve0.String())
	require.Equal(t, "363719028", pool.Reserve1.String())

	messages := pubsubSvc.PublishedMessages("SWAP")
	require.Len(t, messages, 1)
	event := unmarshalEvent(t, messages[0])
	require.Equal(t, trader, event["sender"])
	require.Equal(t, trader, event["recipient"])
	require.Equal(t, asset0, event["asset_in"])
	require.Equal(t, "10000000", event["amount_in"])
	require.Equal(t, asset1, event["asset_out"])
	require.Equal(t, "36280972", event["amount_out"])
	require.Equal(t, "25000", event["fee_amount"])
}

func TestFailingSwap(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	tests := []struct {
		name          string
		assetIn       string
		amountIn      *big.Int
		minAmountOut  *big.Int
		expectedError error
	}{
		{
			name:          "unknown_asset",
			assetIn:       strings.Repeat("f", 64),
			amountIn:      big.NewInt(10000000),
			minAmountOut:  nil,
			expectedError: domain.ErrPoolInvalidAsset,
		},
		{
			name:          "zero_amount",
			assetIn:       asset0,
			amountIn:      big.NewInt(0),
			minAmountOut:  nil,
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
			svc, ledger, _ := newTestService(t)
			poolId := createTestPool(t, svc)

			info, err := svc.Swap(
				ctx, trader, poolId, tt.assetIn, tt.amountIn, tt.minAmountOut, trader,
			)
			require.EqualError(t, err, tt.expectedError.Error())
			require.Nil(t, info)

			// nothing moved, the pool is untouched
			require.Equal(t, "500000000", ledger.BalanceOf(asset0, trader).String())
			pool, err := svc.GetPool(context.Background(), poolId)
			require.NoError(t, err)
			require.Equal(t, "100000000", pool.Reserve0.String())
			require.Equal(t, "400000000", pool.Reserve1.String())
		})
	}
}

func TestListPools(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _, _ := newTestService(t)

	pools, err := svc.ListPools(ctx)
	require.NoError(t, err)
	require.Len(t, pools, 0)

	createTestPool(t, svc)

	pools, err = svc.ListPools(ctx)
	require.NoError(t, err)
	require.Len(t, pools, 1)
	require.Equal(t, domain.DerivePoolId(asset0, asset1), pools[0].PoolId)
}

func TestGetShareBalanceForUnknownHolder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _, _ := newTestService(t)
	poolId := createTestPool(t, svc)

	shares, err := svc.GetShareBalance(ctx, poolId, "nobody")
	require.NoError(t, err)
	require.Zero(t, shares.Sign())

	_, err = svc.GetShareBalance(ctx, "unknown", creator)
	require.EqualError(t, err, domain.ErrPoolNotFound.Error())
}

func newTestService(t *testing.T) (
	application.AMMService, *transferinmemory.Ledger, *inmemorypubsub.Service,
) {
	t.Helper()

	repo := dbinmemory.NewPoolRepositoryImpl()
	ledger := transferinmemory.NewLedger(custody)
	pubsubSvc := inmemorypubsub.NewPubSubService()

	for _, account := range []string{creator, provider, trader} {
		for _, asset := range []string{asset0, asset1} {
			ledger.Mint(asset, account, big.NewInt(500000000))
			ledger.Approve(asset, account, big.NewInt(500000000))
		}
	}

	svc, err := application.NewAMMService(repo, ledger, pubsubSvc, percentageFee)
	require.NoError(t, err)
	return svc, ledger, pubsubSvc
}

func createTestPool(t *testing.T, svc application.AMMService) string {
	t.Helper()

	info, err := svc.CreatePool(
		context.Background(), creator, asset0, asset1,
		big.NewInt(100000000), big.NewInt(400000000),
	)
	require.NoError(t, err)
	return info.PoolId
}

func unmarshalEvent(t *testing.T, message string) map[string]string {
	t.Helper()

	event := make(map[string]string)
	require.NoError(t, json.Unmarshal([]byte(message), &event))
	return event
}
