package domain

import "context"

// PoolRepository is the abstraction for any kind of database intended to
// persist Pools. Implementations must guarantee that readers never observe a
// partially applied update.
type PoolRepository interface {
	// AddPool adds a new pool to the repository. It returns ErrPoolExists if
	// a pool with the same id is already stored.
	AddPool(ctx context.Context, pool *Pool) error
	// GetPool returns the pool with the given id, ErrPoolNotFound if absent.
	GetPool(ctx context.Context, poolId string) (*Pool, error)
	// GetPoolByAssetPair returns the pool for the given unordered pair,
	// ErrPoolNotFound if absent.
	GetPoolByAssetPair(ctx context.Context, assetA, assetB string) (*Pool, error)
	// GetAllPools returns all stored pools.
	GetAllPools(ctx context.Context) ([]Pool, error)
	// UpdatePool commits to a pool the changes made by the closure function in
	// a transactional way: either the returned pool replaces the stored one
	// entirely, or an error leaves the stored pool untouched.
	UpdatePool(
		ctx context.Context,
		poolId string, updateFn func(p *Pool) (*Pool, error),
	) error
}
