package application

import (
	"context"
	"math/big"

	"github.com/pooldex-network/pooldex-daemon/internal/core/domain"
	"github.com/pooldex-network/pooldex-daemon/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

// AMMService is the public operation surface of the AMM core. Mutating
// operations are expected to be serialized by the hosting environment: at
// most one of them is in flight at a time, each one either fully commits or
// leaves no state change behind.
type AMMService interface {
	CreatePool(
		ctx context.Context,
		creator, assetA, assetB string, amount0, amount1 *big.Int,
	) (*PoolInfo, error)
	AddLiquidity(
		ctx context.Context,
		provider, poolId string, amount0Desired, amount1Desired *big.Int,
	) (*LiquidityInfo, error)
	RemoveLiquidity(
		ctx context.Context,
		provider, poolId string, shareAmount *big.Int,
	) (*LiquidityInfo, error)
	Swap(
		ctx context.Context,
		trader, poolId, assetIn string,
		amountIn, minAmountOut *big.Int, recipient string,
	) (*SwapInfo, error)
	GetPool(ctx context.Context, poolId string) (*PoolInfo, error)
	GetShareBalance(ctx context.Context, poolId, holder string) (*big.Int, error)
	ListPools(ctx context.Context) ([]PoolInfo, error)
	PercentageFee() uint32
}

type ammService struct {
	poolRepository domain.PoolRepository
	transferSvc    ports.TransferService
	pubsubSvc      ports.SecurePubSub
	percentageFee  uint32
}

// NewAMMService returns an AMMService applying the given percentage fee,
// expressed in basis point, to all pools it creates. The fee cannot be
// changed afterwards.
func NewAMMService(
	poolRepository domain.PoolRepository,
	transferSvc ports.TransferService,
	pubsubSvc ports.SecurePubSub,
	percentageFee uint32,
) (AMMService, error) {
	if poolRepository == nil {
		return nil, ErrNullPoolRepository
	}
	if transferSvc == nil {
		return nil, ErrNullTransferService
	}
	if percentageFee > 10000 {
		return nil, ErrInvalidPercentageFee
	}
	return &ammService{
		poolRepository: poolRepository,
		transferSvc:    transferSvc,
		pubsubSvc:      pubsubSvc,
		percentageFee:  percentageFee,
	}, nil
}

func (s *ammService) PercentageFee() uint32 {
	return s.percentageFee
}

func (s *ammService) CreatePool(
	ctx context.Context,
	creator, assetA, assetB string, amount0, amount1 *big.Int,
) (*PoolInfo, error) {
	pool, err := domain.NewPool(
		assetA, assetB, s.percentageFee, creator, amount0, amount1,
	)
	if err != nil {
		return nil, err
	}

	if _, err := s.poolRepository.GetPool(ctx, pool.Id); err == nil {
		return nil, domain.ErrPoolExists
	}

	if err := s.pullPair(
		ctx, creator, pool.Asset0, amount0, pool.Asset1, amount1,
	); err != nil {
		return nil, err
	}

	if err := s.poolRepository.AddPool(ctx, pool); err != nil {
		// give the funds back, the store rejected the pool
		s.refund(ctx, creator, pool.Asset0, amount0, pool.Asset1, amount1)
		return nil, err
	}

	log.WithFields(log.Fields{
		"pool": pool.Id, "asset0": pool.Asset0, "asset1": pool.Asset1,
	}).Info("pool created")

	if err := publishPoolCreatedTopic(s.pubsubSvc, pool); err != nil {
		log.WithError(err).Warn("an error occurred while publishing pool creation")
	}

	return poolInfoFromDomain(pool), nil
}

func (s *ammService) AddLiquidity(
	ctx context.Context,
	provider, poolId string, amount0Desired, amount1Desired *big.Int,
) (*LiquidityInfo, error) {
	pool, err := s.poolRepository.GetPool(ctx, poolId)
	if err != nil {
		return nil, err
	}

	deposit, err := pool.PreviewAddLiquidity(amount0Desired, amount1Desired)
	if err != nil {
		return nil, err
	}

	// only the ratio-consistent amounts are pulled, the excess on the longer
	// side stays with the provider
	if err := s.pullPair(
		ctx, provider, pool.Asset0, deposit.Amount0, pool.Asset1, deposit.Amount1,
	); err != nil {
		return nil, err
	}

	if err := s.poolRepository.UpdatePool(
		ctx, poolId, func(p *domain.Pool) (*domain.Pool, error) {
			if _, err := p.AddLiquidity(provider, amount0Desired, amount1Desired); err != nil {
				return nil, err
			}
			return p, nil
		},
	); err != nil {
		s.refund(ctx, provider, pool.Asset0, deposit.Amount0, pool.Asset1, deposit.Amount1)
		return nil, err
	}

	if err := publishLiquidityAddedTopic(
		s.pubsubSvc, poolId, provider, deposit,
	); err != nil {
		log.WithError(err).Warn("an error occurred while publishing liquidity deposit")
	}

	return &LiquidityInfo{
		PoolId:  poolId,
		Amount0: deposit.Amount0,
		Amount1: deposit.Amount1,
		Shares:  deposit.SharesMinted,
	}, nil
}

func (s *ammService) RemoveLiquidity(
	ctx context.Context,
	provider, poolId string, shareAmount *big.Int,
) (*LiquidityInfo, error) {
	pool, err := s.poolRepository.GetPool(ctx, poolId)
	if err != nil {
		return nil, err
	}

	var withdrawal *domain.LiquidityWithdrawal
	if err := s.poolRepository.UpdatePool(
		ctx, poolId, func(p *domain.Pool) (*domain.Pool, error) {
			w, err := p.RemoveLiquidity(provider, shareAmount)
			if err != nil {
				return nil, err
			}
			withdrawal = w
			return p, nil
		},
	); err != nil {
		return nil, err
	}

	// reserves guarantee sufficiency of both pushes, a failure here is an
	// internal accounting defect
	if err := s.transferSvc.Push(
		ctx, pool.Asset0, provider, withdrawal.Amount0,
	); err != nil {
		log.WithError(err).Error("failed to push asset0 of liquidity withdrawal")
		return nil, err
	}
	if err := s.transferSvc.Push(
		ctx, pool.Asset1, provider, withdrawal.Amount1,
	); err != nil {
		log.WithError(err).Error("failed to push asset1 of liquidity withdrawal")
		return nil, err
	}

	if err := publishLiquidityRemovedTopic(
		s.pubsubSvc, poolId, provider, withdrawal,
	); err != nil {
		log.WithError(err).Warn("an error occurred while publishing liquidity withdrawal")
	}

	return &LiquidityInfo{
		PoolId:  poolId,
		Amount0: withdrawal.Amount0,
		Amount1: withdrawal.Amount1,
		Shares:  withdrawal.SharesBurned,
	}, nil
}

func (s *ammService) Swap(
	ctx context.Context,
	trader, poolId, assetIn string,
	amountIn, minAmountOut *big.Int, recipient string,
) (*SwapInfo, error) {
	pool, err := s.poolRepository.GetPool(ctx, poolId)
	if err != nil {
		return nil, err
	}

	preview, err := pool.PreviewSwap(assetIn, amountIn)
	if err != nil {
		return nil, err
	}
	if minAmountOut != nil && preview.AmountOut.Cmp(minAmountOut) < 0 {
		return nil, domain.ErrPoolSlippageExceeded
	}

	if err := s.transferSvc.Pull(ctx, assetIn, trader, amountIn); err != nil {
		return nil, err
	}

	var result *domain.SwapResult
	if err := s.poolRepository.UpdatePool(
		ctx, poolId, func(p *domain.Pool) (*domain.Pool, error) {
			r, err := p.Swap(assetIn, amountIn, minAmountOut)
			if err != nil {
				return nil, err
			}
			result = r
			return p, nil
		},
	); err != nil {
		if err == domain.ErrPoolInvariantViolated {
			// the fee/rounding math itself is broken, this is not recoverable
			log.WithError(err).WithField("pool", poolId).Panic(
				"fatal: swap decreased the reserve product",
			)
		}
		s.refund(ctx, trader, assetIn, amountIn, "", nil)
		return nil, err
	}

	if err := s.transferSvc.Push(
		ctx, result.AssetOut, recipient, result.AmountOut,
	); err != nil {
		log.WithError(err).Error("failed to push swapped amount")
		return nil, err
	}

	if err := publishSwapTopic(
		s.pubsubSvc, poolId, trader, recipient, result,
	); err != nil {
		log.WithError(err).Warn("an error occurred while publishing swap")
	}

	return &SwapInfo{
		PoolId:    poolId,
		AssetIn:   result.AssetIn,
		AssetOut:  result.AssetOut,
		AmountIn:  result.AmountIn,
		AmountOut: result.AmountOut,
		FeeAmount: result.FeeAmount,
	}, nil
}

func (s *ammService) GetPool(
	ctx context.Context, poolId string,
) (*PoolInfo, error) {
	pool, err := s.poolRepository.GetPool(ctx, poolId)
	if err != nil {
		return nil, err
	}
	return poolInfoFromDomain(pool), nil
}

func (s *ammService) GetShareBalance(
	ctx context.Context, poolId, holder string,
) (*big.Int, error) {
	pool, err := s.poolRepository.GetPool(ctx, poolId)
	if err != nil {
		return nil, err
	}
	return pool.ShareBalance(holder), nil
}

func (s *ammService) ListPools(ctx context.Context) ([]PoolInfo, error) {
	pools, err := s.poolRepository.GetAllPools(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]PoolInfo, 0, len(pools))
	for i := range pools {
		infos = append(infos, *poolInfoFromDomain(&pools[i]))
	}
	return infos, nil
}

// pullPair moves both legs of a deposit into custody. If the second pull
// fails the first one is given back so that the owner never observes a
// partial movement.
func (s *ammService) pullPair(
	ctx context.Context,
	owner, asset0 string, amount0 *big.Int, asset1 string, amount1 *big.Int,
) error {
	if err := s.transferSvc.Pull(ctx, asset0, owner, amount0); err != nil {
		return err
	}
	if err := s.transferSvc.Pull(ctx, asset1, owner, amount1); err != nil {
		s.refund(ctx, owner, asset0, amount0, "", nil)
		return err
	}
	return nil
}

func (s *ammService) refund(
	ctx context.Context,
	owner, asset0 string, amount0 *big.Int, asset1 string, amount1 *big.Int,
) {
	if amount0 != nil {
		if err := s.transferSvc.Push(ctx, asset0, owner, amount0); err != nil {
			log.WithError(err).Error("failed to refund pulled amount")
		}
	}
	if amount1 != nil {
		if err := s.transferSvc.Push(ctx, asset1, owner, amount1); err != nil {
			log.WithError(err).Error("failed to refund pulled amount")
		}
	}
}
