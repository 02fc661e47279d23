package webhookpubsub

// webhook action types
const (
	PoolCreated WebhookAction = iota
	LiquidityAdded
	LiquidityRemoved
	SwapSettled
	AllActions
)

var (
	actionToString = map[WebhookAction]string{
		PoolCreated:      "POOL_CREATED",
		LiquidityAdded:   "LIQUIDITY_ADDED",
		LiquidityRemoved: "LIQUIDITY_REMOVED",
		SwapSettled:      "SWAP",
		AllActions:       "*",
	}
	stringToAction = map[string]WebhookAction{
		"POOL_CREATED":      PoolCreated,
		"LIQUIDITY_ADDED":   LiquidityAdded,
		"LIQUIDITY_REMOVED": LiquidityRemoved,
		"SWAP":              SwapSettled,
		"*":                 AllActions,
	}
)

type WebhookAction int

func WebhookActionFromString(actionStr string) (WebhookAction, bool) {
	action, ok := stringToAction[actionStr]
	return action, ok
}

func (wa WebhookAction) String() string {
	actionStr, ok := actionToString[wa]
	if !ok {
		actionStr = "UNKNOWN"
	}
	return actionStr
}

func (wa WebhookAction) Code() int {
	return int(wa)
}

func (wa WebhookAction) Label() string {
	return wa.String()
}
