package dbbadger

import (
	"context"
	"errors"

	"github.com/pooldex-network/pooldex-daemon/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type poolRepositoryImpl struct {
	db *DbManager
}

// NewPoolRepositoryImpl initialize a badger implementation of the
// domain.PoolRepository
func NewPoolRepositoryImpl(db *DbManager) domain.PoolRepository {
	return poolRepositoryImpl{
		db: db,
	}
}

func (r poolRepositoryImpl) AddPool(
	_ context.Context, pool *domain.Pool,
) error {
	if err := r.db.Store.Insert(pool.Id, *pool); err != nil {
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return domain.ErrPoolExists
		}
		return err
	}
	return nil
}

func (r poolRepositoryImpl) GetPool(
	_ context.Context, poolId string,
) (*domain.Pool, error) {
	return r.getPool(poolId)
}

func (r poolRepositoryImpl) GetPoolByAssetPair(
	_ context.Context, assetA, assetB string,
) (*domain.Pool, error) {
	return r.getPool(domain.DerivePoolId(assetA, assetB))
}

func (r poolRepositoryImpl) GetAllPools(
	_ context.Context,
) ([]domain.Pool, error) {
	pools := make([]domain.Pool, 0)
	query := badgerhold.Where(badgerhold.Key).Ne("").SortBy("Id")
	if err := r.db.Store.Find(&pools, query); err != nil {
		return nil, err
	}
	return pools, nil
}

func (r poolRepositoryImpl) UpdatePool(
	_ context.Context,
	poolId string, updateFn func(p *domain.Pool) (*domain.Pool, error),
) error {
	currentPool, err := r.getPool(poolId)
	if err != nil {
		return err
	}

	updatedPool, err := updateFn(currentPool)
	if err != nil {
		return err
	}

	return r.db.Store.Update(poolId, *updatedPool)
}

func (r poolRepositoryImpl) getPool(poolId string) (*domain.Pool, error) {
	var pool domain.Pool
	if err := r.db.Store.Get(poolId, &pool); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrPoolNotFound
		}
		return nil, err
	}
	return &pool, nil
}
