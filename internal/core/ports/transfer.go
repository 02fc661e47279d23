package ports

import (
	"context"
	"errors"
	"math/big"
)

var (
	// ErrInsufficientBalance is returned by a transfer when the source does
	// not hold enough units of the asset.
	ErrInsufficientBalance = errors.New("insufficient asset balance")
	// ErrInsufficientAllowance is returned by Pull when the owner did not
	// authorize the movement of that many units.
	ErrInsufficientAllowance = errors.New("insufficient asset allowance")
)

// TransferService is the abstraction over the external fungible-asset
// accounting. It moves asset units between the owners' balances and the
// custody of the AMM. Every movement either fully happens or fully fails.
type TransferService interface {
	// Pull moves amount of asset from the owner into the AMM custody.
	Pull(ctx context.Context, asset, owner string, amount *big.Int) error
	// Push moves amount of asset from the AMM custody to the recipient. With
	// reserves guaranteeing sufficiency, a failure signals an internal
	// accounting defect.
	Push(ctx context.Context, asset, recipient string, amount *big.Int) error
}
