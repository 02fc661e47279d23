package domain

import "errors"

var (
	// ErrPoolExists is thrown when creating a pool for a pair that has one.
	ErrPoolExists = errors.New("pool already exists for the given asset pair")
	// ErrPoolNotFound is thrown when the requested pool is not in the store.
	ErrPoolNotFound = errors.New("pool not found")
	// ErrPoolInvalidAssetPair ...
	ErrPoolInvalidAssetPair = errors.New("assets of a pair must be distinct and not empty")
	// ErrPoolInvalidPercentageFee ...
	ErrPoolInvalidPercentageFee = errors.New("percentage fee must be expressed in basis point in range [0, 10000]")
	// ErrPoolInsufficientAmounts is thrown when a deposit or swap amount is null.
	ErrPoolInsufficientAmounts = errors.New("amounts must be greater than zero")
	// ErrPoolInsufficientLiquidity is thrown when burning more shares than owned.
	ErrPoolInsufficientLiquidity = errors.New("share amount exceeds the provider balance")
	// ErrPoolInvalidAsset is thrown when a swap asset doesn't belong to the pool.
	ErrPoolInvalidAsset = errors.New("asset does not belong to the pool")
	// ErrPoolSlippageExceeded ...
	ErrPoolSlippageExceeded = errors.New("amount out is below the required minimum")
	// ErrPoolInvariantViolated signals that the reserve product decreased across
	// a swap. It is an internal defect of the fee/rounding math, never a
	// caller error, and must be treated as fatal by the caller.
	ErrPoolInvariantViolated = errors.New("constant product invariant decreased across a swap")
)
