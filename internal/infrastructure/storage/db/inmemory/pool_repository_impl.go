package inmemory

import (
	"context"
	"math/big"
	"sort"
	"sync"

	"github.com/pooldex-network/pooldex-daemon/internal/core/domain"
)

// PoolRepositoryImpl represents an in memory storage
type PoolRepositoryImpl struct {
	pools map[string]domain.Pool

	lock *sync.RWMutex
}

// NewPoolRepositoryImpl returns a new empty PoolRepositoryImpl
func NewPoolRepositoryImpl() *PoolRepositoryImpl {
	return &PoolRepositoryImpl{
		pools: map[string]domain.Pool{},
		lock:  &sync.RWMutex{},
	}
}

func (r *PoolRepositoryImpl) AddPool(
	_ context.Context, pool *domain.Pool,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.pools[pool.Id]; ok {
		return domain.ErrPoolExists
	}

	r.pools[pool.Id] = *copyPool(pool)
	return nil
}

func (r *PoolRepositoryImpl) GetPool(
	_ context.Context, poolId string,
) (*domain.Pool, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.getPool(poolId)
}

func (r *PoolRepositoryImpl) GetPoolByAssetPair(
	_ context.Context, assetA, assetB string,
) (*domain.Pool, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.getPool(domain.DerivePoolId(assetA, assetB))
}

func (r *PoolRepositoryImpl) GetAllPools(
	_ context.Context,
) ([]domain.Pool, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	pools := make([]domain.Pool, 0, len(r.pools))
	for _, pool := range r.pools {
		pool := pool
		pools = append(pools, *copyPool(&pool))
	}
	sort.Slice(pools, func(i, j int) bool {
		return pools[i].Id < pools[j].Id
	})

	return pools, nil
}

func (r *PoolRepositoryImpl) UpdatePool(
	_ context.Context,
	poolId string, updateFn func(p *domain.Pool) (*domain.Pool, error),
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	currentPool, err := r.getPool(poolId)
	if err != nil {
		return err
	}

	updatedPool, err := updateFn(currentPool)
	if err != nil {
		return err
	}

	r.pools[poolId] = *copyPool(updatedPool)
	return nil
}

func (r *PoolRepositoryImpl) getPool(poolId string) (*domain.Pool, error) {
	pool, ok := r.pools[poolId]
	if !ok {
		return nil, domain.ErrPoolNotFound
	}
	return copyPool(&pool), nil
}

// copyPool returns a deep copy so that neither readers nor update closures
// can alias the stored state.
func copyPool(pool *domain.Pool) *domain.Pool {
	shareBalances := make(map[string]*big.Int, len(pool.ShareBalances))
	for holder, balance := range pool.ShareBalances {
		shareBalances[holder] = new(big.Int).Set(balance)
	}
	return &domain.Pool{
		Id:            pool.Id,
		Asset0:        pool.Asset0,
		Asset1:        pool.Asset1,
		Reserve0:      new(big.Int).Set(pool.Reserve0),
		Reserve1:      new(big.Int).Set(pool.Reserve1),
		PercentageFee: pool.PercentageFee,
		TotalShares:   new(big.Int).Set(pool.TotalShares),
		ShareBalances: shareBalances,
	}
}
