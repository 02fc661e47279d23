package application

// Topics to be published
const (
	PoolCreated = iota
	LiquidityAdded
	LiquidityRemoved
	SwapSettled
)
