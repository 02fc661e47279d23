package inmemory_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/pooldex-network/pooldex-daemon/internal/core/domain"
	"github.com/pooldex-network/pooldex-daemon/internal/infrastructure/storage/db/inmemory"
	"github.com/stretchr/testify/require"
)

const (
	asset0  = "0000000000000000000000000000000000000000000000000000000000000000"
	asset1  = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	creator = "creator"
)

func newTestPool(t *testing.T) *domain.Pool {
	t.Helper()
	pool, err := domain.NewPool(
		asset0, asset1, 25, creator, big.NewInt(100000000), big.NewInt(400000000),
	)
	require.NoError(t, err)
	return pool
}

func TestAddAndGetPool(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := inmemory.NewPoolRepositoryImpl()
	pool := newTestPool(t)

	err := repo.AddPool(ctx, pool)
	require.NoError(t, err)

	stored, err := repo.GetPool(ctx, pool.Id)
	require.NoError(t, err)
	require.Equal(t, pool.Id, stored.Id)
	require.Zero(t, stored.Reserve0.Cmp(pool.Reserve0))
	require.Zero(t, stored.Reserve1.Cmp(pool.Reserve1))

	// lookup by pair works regardless of the asset order
	stored, err = repo.GetPoolByAssetPair(ctx, asset1, asset0)
	require.NoError(t, err)
	require.Equal(t, pool.Id, stored.Id)
}

func TestFailingAddPool(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := inmemory.NewPoolRepositoryImpl()
	pool := newTestPool(t)

	err := repo.AddPool(ctx, pool)
	require.NoError(t, err)

	err = repo.AddPool(ctx, pool)
	require.EqualError(t, err, domain.ErrPoolExists.Error())
}

func TestFailingGetPool(t *testing.T) {
	t.Parallel()

	repo := inmemory.NewPoolRepositoryImpl()
	pool, err := repo.GetPool(context.Background(), "unknown")
	require.Nil(t, pool)
	require.EqualError(t, err, domain.ErrPoolNotFound.Error())
}

func TestGetAllPools(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := inmemory.NewPoolRepositoryImpl()

	pools, err := repo.GetAllPools(ctx)
	require.NoError(t, err)
	require.Empty(t, pools)

	require.NoError(t, repo.AddPool(ctx, newTestPool(t)))

	other, err := domain.NewPool(
		asset0, "bbbb", 25, creator, big.NewInt(1000), big.NewInt(1000),
	)
	require.NoError(t, err)
	require.NoError(t, repo.AddPool(ctx, other))

	pools, err = repo.GetAllPools(ctx)
	require.NoError(t, err)
	require.Len(t, pools, 2)
}

func TestUpdatePool(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := inmemory.NewPoolRepositoryImpl()
	pool := newTestPool(t)
	require.NoError(t, repo.AddPool(ctx, pool))

	err := repo.UpdatePool(
		ctx, pool.Id, func(p *domain.Pool) (*domain.Pool, error) {
			_, err := p.Swap(asset0, big.NewInt(10000000), nil)
			return p, err
		},
	)
	require.NoError(t, err)

	stored, err := repo.GetPool(ctx, pool.Id)
	require.NoError(t, err)
	require.Equal(t, "110000000", stored.Reserve0.String())
}

func TestFailingUpdatePoolLeavesStateUntouched(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := inmemory.NewPoolRepositoryImpl()
	pool := newTestPool(t)
	require.NoError(t, repo.AddPool(ctx, pool))

	err := repo.UpdatePool(
		ctx, pool.Id, func(p *domain.Pool) (*domain.Pool, error) {
			// mutate before failing, the mutation must not leak to the store
			_, _ = p.Swap(asset0, big.NewInt(10000000), nil)
			return nil, domain.ErrPoolSlippageExceeded
		},
	)
	require.EqualError(t, err, domain.ErrPoolSlippageExceeded.Error())

	stored, err := repo.GetPool(ctx, pool.Id)
	require.NoError(t, err)
	require.Equal(t, "100000000", stored.Reserve0.String())
}
